// Package spectrum accumulates per-sample mutation counts over the 96 substitution categories.
package spectrum

import (
	"errors"

	"github.com/dasnellings/mtsgTools/context"
	"github.com/dasnellings/mtsgTools/mutation"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/vcf"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Vector holds the mutation count of each category for one sample.
type Vector [mutation.NumCategories]int

// Burden is the total number of classified mutations.
func (v Vector) Burden() int {
	var ans int
	for i := range v {
		ans += v[i]
	}
	return ans
}

// Floats returns the counts as float64.
func (v Vector) Floats() []float64 {
	ans := make([]float64, len(v))
	for i := range v {
		ans[i] = float64(v[i])
	}
	return ans
}

// Builder counts classified variants per sample. Counts are commutative, so
// variants may be observed in any order. A Builder is not safe for concurrent
// use; build one per worker and Merge them.
type Builder struct {
	counts  map[string]*Vector
	skipped map[string]map[mutation.Reason]int
}

func NewBuilder() *Builder {
	return &Builder{
		counts:  make(map[string]*Vector),
		skipped: make(map[string]map[mutation.Reason]int),
	}
}

// Add registers sample without observing any variants.
func (b *Builder) Add(sample string) {
	if _, found := b.counts[sample]; !found {
		b.counts[sample] = new(Vector)
		b.skipped[sample] = make(map[mutation.Reason]int)
	}
}

// Observe classifies v and increments the matching category of sample.
// Unclassifiable variants are tallied by reason and the classification
// error is returned for logging; the builder state stays consistent.
func (b *Builder) Observe(sample string, v mutation.Variant) error {
	b.Add(sample)
	c, err := mutation.Classify(v)
	if err != nil {
		var uerr *mutation.UnclassifiableError
		if errors.As(err, &uerr) {
			b.skipped[sample][uerr.Reason]++
		}
		return err
	}
	b.counts[sample][c]++
	return nil
}

// Skipped returns the number of unclassifiable variants of sample by reason.
func (b *Builder) Skipped(sample string) map[mutation.Reason]int {
	ans := make(map[mutation.Reason]int)
	for r, n := range b.skipped[sample] {
		ans[r] = n
	}
	return ans
}

// TotalSkipped is the number of unclassifiable variants of sample.
func (b *Builder) TotalSkipped(sample string) int {
	var ans int
	for _, n := range b.skipped[sample] {
		ans += n
	}
	return ans
}

// Merge adds all counts of other into b.
func (b *Builder) Merge(other *Builder) {
	for sample, v := range other.counts {
		b.Add(sample)
		for i := range v {
			b.counts[sample][i] += v[i]
		}
		for r, n := range other.skipped[sample] {
			b.skipped[sample][r] += n
		}
	}
}

// Vector returns the counts of sample. Samples never observed yield a zero vector.
func (b *Builder) Vector(sample string) Vector {
	if v, found := b.counts[sample]; found {
		return *v
	}
	return Vector{}
}

// Samples returns the sorted ids of all samples seen by the builder.
func (b *Builder) Samples() []string {
	ans := maps.Keys(b.counts)
	slices.Sort(ans)
	return ans
}

// Finalize returns the completed vector of every sample.
func (b *Builder) Finalize() map[string]Vector {
	ans := make(map[string]Vector, len(b.counts))
	for sample, v := range b.counts {
		ans[sample] = *v
	}
	return ans
}

// Matrix returns the finalized vectors as a Matrix.
func (b *Builder) Matrix() Matrix {
	return NewMatrix(b.Finalize())
}

// ReadVcf streams the records of a single-sample vcf file into b under sample.
func ReadVcf(b *Builder, sample string, file string, ref *context.Reference) {
	b.Add(sample)
	records, _ := vcf.GoReadToChan(file)
	var err error
	for v := range records {
		err = b.Observe(sample, ref.Variant(v))
		if err != nil {
			log.Debugf("%s: skipping %s", sample, err)
		}
	}
	log.Infof("%s: %d classified, %d skipped", sample, b.Vector(sample).Burden(), b.TotalSkipped(sample))
}
