// Package context retrieves the trinucleotide reference context of variants.
package context

import (
	"fmt"
	"os"
	"strings"

	"github.com/dasnellings/mtsgTools/fai"
	"github.com/dasnellings/mtsgTools/mutation"
	"github.com/vertgenlab/gonomics/dna"
	"github.com/vertgenlab/gonomics/fasta"
	"github.com/vertgenlab/gonomics/vcf"
)

// Build is a supported human reference genome build.
type Build string

const (
	GRCh37 Build = "GRCh37"
	GRCh38 Build = "GRCh38"
)

// Builds lists the supported builds.
var Builds = []Build{GRCh37, GRCh38}

// ParseBuild returns the Build named by s (case insensitive; hg19 and hg38 are accepted as aliases).
func ParseBuild(s string) (Build, error) {
	switch strings.ToLower(s) {
	case "grch37", "hg19", "b37":
		return GRCh37, nil
	case "grch38", "hg38":
		return GRCh38, nil
	default:
		return "", fmt.Errorf("unknown genome build '%s' (must be one of %s, %s)", s, GRCh37, GRCh38)
	}
}

// ContigName converts a chromosome name to the naming convention of the build.
// GRCh38 contigs carry a chr prefix (chr1, chrM), GRCh37 contigs do not (1, MT).
func (b Build) ContigName(chr string) string {
	switch b {
	case GRCh38:
		if strings.HasPrefix(chr, "chr") {
			return chr
		}
		if chr == "MT" {
			return "chrM"
		}
		return "chr" + chr
	case GRCh37:
		if chr == "chrM" {
			return "MT"
		}
		return strings.TrimPrefix(chr, "chr")
	default:
		return chr
	}
}

// Reference provides random access to the reference genome of one build.
// A Reference wraps a single file handle and is not safe for concurrent use.
type Reference struct {
	seeker  *fasta.Seeker
	index   fai.Index
	build   Build
	contigs map[string]string // vcf chr -> fasta contig, "" when absent
}

// NewReference opens an indexed fasta file. The index must be at fastaFile + ".fai".
func NewReference(fastaFile string, build Build) (*Reference, error) {
	for _, file := range []string{fastaFile, fastaFile + ".fai"} {
		if _, err := os.Stat(file); err != nil {
			return nil, fmt.Errorf("could not open reference: %w", err)
		}
	}
	idx, err := fai.ReadIndex(fastaFile + ".fai")
	if err != nil {
		return nil, err
	}
	return &Reference{
		seeker:  fasta.NewSeeker(fastaFile, ""),
		index:   idx,
		build:   build,
		contigs: make(map[string]string),
	}, nil
}

// Build returns the genome build of the reference.
func (r *Reference) Build() Build {
	return r.build
}

func (r *Reference) contig(chr string) string {
	if name, found := r.contigs[chr]; found {
		return name
	}
	var name string
	switch {
	case r.index.Has(r.build.ContigName(chr)):
		name = r.build.ContigName(chr)
	case r.index.Has(chr):
		name = chr
	}
	r.contigs[chr] = name
	return name
}

// Context returns the upper case reference bases at pos-1, pos, and pos+1 where
// pos is 1-based. An empty string is returned when the context is not retrievable.
func (r *Reference) Context(chr string, pos int) string {
	name := r.contig(chr)
	if name == "" || pos < 2 || pos+1 > r.index.Size(name) {
		return ""
	}
	seq, err := fasta.SeekByName(r.seeker, name, pos-2, pos+1)
	if err != nil || len(seq) != 3 {
		return ""
	}
	dna.AllToUpper(seq)
	return dna.BasesToString(seq)
}

// Variant converts a vcf record to a mutation.Variant, retrieving the context
// for biallelic substitutions.
func (r *Reference) Variant(v vcf.Vcf) mutation.Variant {
	ans := mutation.Variant{Chr: v.Chr, Pos: v.Pos, Ref: v.Ref, Alt: v.Alt}
	if vcf.IsBiallelic(v) && vcf.IsSubstitution(v) {
		ans.Context = r.Context(v.Chr, v.Pos)
	}
	return ans
}

// Close closes the underlying fasta file.
func (r *Reference) Close() error {
	return r.seeker.Close()
}
