package signature

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/fileio"
	"gonum.org/v1/gonum/floats"
)

// columns of the COSMIC v2 layout that describe the category rather than a signature
const (
	cosmicSubstitution  = "Substitution Type"
	cosmicTrinucleotide = "Trinucleotide"
	cosmicLabel         = "Somatic Mutation Type"
)

// Prepare reads a catalog in the layout distributed by COSMIC (one row per
// category, one column per signature) and returns it as a Catalog. Both the v2
// layout (Substitution Type, Trinucleotide, Somatic Mutation Type, Signature 1, ...)
// and the v3 layout (Type, SBS1, SBS2, ...) are accepted. Signature names are
// normalised to the SBS<n> form and each signature is rescaled to sum to 1 to
// remove rounding in the published tables.
func Prepare(filename string) (*Catalog, error) {
	in := fileio.EasyOpen(filename)
	defer cleanup(in)

	header, done := fileio.EasyNextRealLine(in)
	if done {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedCatalog, filename)
	}
	cols := strings.Split(strings.TrimRight(header, "\r"), "\t")

	labelCol, subCol, triCol := -1, -1, -1
	for i := range cols {
		switch strings.TrimSpace(cols[i]) {
		case cosmicLabel:
			labelCol = i
		case cosmicSubstitution:
			subCol = i
		case cosmicTrinucleotide:
			triCol = i
		}
	}
	if labelCol == -1 && (subCol == -1 || triCol == -1) {
		labelCol = 0
	}

	var sigCols []int
	var names []string
	for i := range cols {
		if i == labelCol || i == subCol || i == triCol || strings.TrimSpace(cols[i]) == "" {
			continue
		}
		sigCols = append(sigCols, i)
		names = append(names, NormalizeName(cols[i]))
	}
	if len(sigCols) == 0 {
		return nil, fmt.Errorf("%w: %s has no signature columns", ErrMalformedCatalog, filename)
	}

	var labels []string
	rows := make([][]float64, len(sigCols))
	var line, label string
	var words []string
	var p float64
	var err error
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		line = strings.TrimRight(line, "\r")
		if strings.TrimSpace(line) == "" {
			continue
		}
		words = strings.Split(line, "\t")
		if labelCol >= 0 {
			label = field(words, labelCol)
		} else {
			label = cosmicV2Label(field(words, subCol), field(words, triCol))
		}
		labels = append(labels, label)
		for j, col := range sigCols {
			p = 0
			if s := strings.TrimSpace(field(words, col)); s != "" {
				p, err = strconv.ParseFloat(s, 64)
				if err != nil {
					return nil, fmt.Errorf("%w: %s: %s %s: %s", ErrMalformedCatalog, filename, names[j], label, err)
				}
			}
			rows[j] = append(rows[j], p)
		}
	}

	var sum float64
	for j := range rows {
		sum = floats.Sum(rows[j])
		if sum <= 0 {
			return nil, fmt.Errorf("%w: %s: signature %s has no mass", ErrMalformedCatalog, filename, names[j])
		}
		floats.Scale(1/sum, rows[j])
	}

	c, err := New(names, labels, rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

// NormalizeName converts the signature naming schemes used by COSMIC
// ("Signature 1", "Signature.1", "Signature-01") to SBS1. Other names are
// returned trimmed but otherwise unchanged.
func NormalizeName(s string) string {
	s = strings.TrimSpace(s)
	if len(s) <= len("Signature") || !strings.EqualFold(s[:len("Signature")], "Signature") {
		return s
	}
	id := strings.TrimLeft(s[len("Signature"):], " ._-")
	id = strings.TrimLeft(id, "0")
	if id == "" {
		return s
	}
	return "SBS" + id
}

// cosmicV2Label builds A[C>A]A from a substitution (C>A) and trinucleotide (ACA).
func cosmicV2Label(sub, tri string) string {
	if len(tri) != 3 {
		return sub + tri
	}
	return tri[:1] + "[" + sub + "]" + tri[2:]
}

func field(words []string, i int) string {
	if i < 0 || i >= len(words) {
		return ""
	}
	return words[i]
}
