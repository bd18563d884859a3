// Package mutation maps single nucleotide variants onto the 96 pyrimidine-centred
// trinucleotide substitution categories used by mutational signature catalogs.
package mutation

import (
	"fmt"
	"strings"

	"github.com/vertgenlab/gonomics/dna"
)

// NumCategories is the number of substitution x context categories.
const NumCategories = 96

// Substitutions in catalog order. The reference base is always a pyrimidine.
var Substitutions = [6]string{"C>A", "C>G", "C>T", "T>A", "T>C", "T>G"}

const bases = "ACGT"

// Category is one of the 96 substitution classes. The zero value is A[C>A]A.
type Category uint8

// Categories holds every category in catalog order.
var Categories [NumCategories]Category

var labels [NumCategories]string
var labelIndex map[string]Category

func init() {
	labelIndex = make(map[string]Category, NumCategories)
	var sub, five, three int
	for sub = range Substitutions {
		for five = 0; five < len(bases); five++ {
			for three = 0; three < len(bases); three++ {
				c := Category(sub*16 + five*4 + three)
				Categories[c] = c
				labels[c] = string(bases[five]) + "[" + Substitutions[sub] + "]" + string(bases[three])
				labelIndex[labels[c]] = c
			}
		}
	}
}

// String returns the label of the category in the form A[C>A]A.
func (c Category) String() string {
	if int(c) >= NumCategories {
		return fmt.Sprintf("Category(%d)", uint8(c))
	}
	return labels[c]
}

// Substitution returns the pyrimidine-centred substitution, e.g. C>T.
func (c Category) Substitution() string {
	return Substitutions[int(c)/16]
}

// Context returns the reference trinucleotide, e.g. ACG for A[C>T]G.
func (c Category) Context() string {
	l := c.String()
	return l[:1] + l[2:3] + l[6:]
}

// ParseCategory parses a label of the form A[C>A]A. Purine-centred labels
// (e.g. T[G>T]T) are reverse complemented onto their pyrimidine equivalent.
func ParseCategory(s string) (Category, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	if c, found := labelIndex[s]; found {
		return c, nil
	}
	if len(s) != 7 || s[1] != '[' || s[3] != '>' || s[5] != ']' {
		return 0, fmt.Errorf("could not parse mutation category '%s'", s)
	}
	v := Variant{Ref: s[2:3], Alt: []string{s[4:5]}, Context: s[:1] + s[2:3] + s[6:]}
	c, err := Classify(v)
	if err != nil {
		return 0, fmt.Errorf("could not parse mutation category '%s': %w", s, err)
	}
	return c, nil
}

// Variant is a single called variant with the reference bases on either side of Pos.
type Variant struct {
	Chr     string
	Pos     int
	Ref     string
	Alt     []string
	Context string // 5' base, reference base, 3' base. Empty when unknown.
}

func (v Variant) String() string {
	return fmt.Sprintf("%s:%d\t%s>%s", v.Chr, v.Pos, v.Ref, strings.Join(v.Alt, ","))
}

// Reason describes why a variant could not be classified.
type Reason int

const (
	MultiAllelic Reason = iota
	NotSnv
	AmbiguousRef
	AmbiguousAlt
	AmbiguousContext
	RefMismatch
)

// Reasons lists every Reason in declaration order.
var Reasons = []Reason{MultiAllelic, NotSnv, AmbiguousRef, AmbiguousAlt, AmbiguousContext, RefMismatch}

func (r Reason) String() string {
	switch r {
	case MultiAllelic:
		return "MultiAllelic"
	case NotSnv:
		return "NotSnv"
	case AmbiguousRef:
		return "AmbiguousRef"
	case AmbiguousAlt:
		return "AmbiguousAlt"
	case AmbiguousContext:
		return "AmbiguousContext"
	case RefMismatch:
		return "RefMismatch"
	default:
		return fmt.Sprintf("Reason(%d)", int(r))
	}
}

// UnclassifiableError is returned by Classify for variants outside the 96 categories.
type UnclassifiableError struct {
	Reason  Reason
	Variant Variant
}

func (e *UnclassifiableError) Error() string {
	return fmt.Sprintf("unclassifiable variant (%s)\t%s", e.Reason, e.Variant)
}

// Classify returns the category of v. Variants whose reference base is a purine
// are reverse complemented so that a substitution and its reverse complement
// always share a category.
func Classify(v Variant) (Category, error) {
	if len(v.Alt) != 1 {
		return 0, &UnclassifiableError{Reason: MultiAllelic, Variant: v}
	}
	ref := strings.ToUpper(v.Ref)
	alt := strings.ToUpper(v.Alt[0])
	if len(ref) != 1 || len(alt) != 1 {
		return 0, &UnclassifiableError{Reason: NotSnv, Variant: v}
	}
	r := baseIndex(ref[0])
	if r < 0 {
		return 0, &UnclassifiableError{Reason: AmbiguousRef, Variant: v}
	}
	a := baseIndex(alt[0])
	if a < 0 {
		return 0, &UnclassifiableError{Reason: AmbiguousAlt, Variant: v}
	}
	if r == a {
		return 0, &UnclassifiableError{Reason: NotSnv, Variant: v}
	}

	ctx := strings.ToUpper(v.Context)
	if len(ctx) != 3 || baseIndex(ctx[0]) < 0 || baseIndex(ctx[2]) < 0 {
		return 0, &UnclassifiableError{Reason: AmbiguousContext, Variant: v}
	}
	if ctx[1] != ref[0] {
		return 0, &UnclassifiableError{Reason: RefMismatch, Variant: v}
	}

	if ref == "A" || ref == "G" {
		seq := dna.StringToBases(ctx)
		dna.ReverseComplement(seq)
		ctx = dna.BasesToString(seq)
		ref = dna.BaseToString(dna.ComplementSingleBase(dna.StringToBase(ref)))
		alt = dna.BaseToString(dna.ComplementSingleBase(dna.StringToBase(alt)))
	}

	sub := substitutionIndex(ref + ">" + alt)
	return Category(sub*16 + baseIndex(ctx[0])*4 + baseIndex(ctx[2])), nil
}

// ReverseComplement returns v as it would be reported on the opposite strand.
func ReverseComplement(v Variant) Variant {
	ans := Variant{Chr: v.Chr, Pos: v.Pos, Ref: complementString(v.Ref)}
	ans.Alt = make([]string, len(v.Alt))
	for i := range v.Alt {
		ans.Alt[i] = complementString(v.Alt[i])
	}
	ans.Context = complementString(v.Context)
	return ans
}

// complementString reverse complements s, leaving bases outside ACGT untouched.
func complementString(s string) string {
	b := []byte(strings.ToUpper(s))
	for i, j := 0, len(b)-1; i <= j; i, j = i+1, j-1 {
		b[i], b[j] = complementByte(b[j]), complementByte(b[i])
	}
	return string(b)
}

func complementByte(b byte) byte {
	switch b {
	case 'A':
		return 'T'
	case 'C':
		return 'G'
	case 'G':
		return 'C'
	case 'T':
		return 'A'
	default:
		return b
	}
}

func baseIndex(b byte) int {
	return strings.IndexByte(bases, b)
}

func substitutionIndex(s string) int {
	for i := range Substitutions {
		if Substitutions[i] == s {
			return i
		}
	}
	return -1
}
