package mutation

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCategoryLabels(t *testing.T) {
	assert.Equal(t, "A[C>A]A", Categories[0].String())
	assert.Equal(t, "T[T>G]T", Categories[NumCategories-1].String())
	assert.Equal(t, "C>T", Category(2*16+5).Substitution())
	assert.Equal(t, "CCC", Category(2*16+5).Context())

	seen := make(map[string]bool)
	for _, c := range Categories {
		l := c.String()
		assert.False(t, seen[l], "duplicate label %s", l)
		seen[l] = true
		p, err := ParseCategory(l)
		require.NoError(t, err)
		assert.Equal(t, c, p)
	}
}

func TestParseCategoryPurine(t *testing.T) {
	c, err := ParseCategory("T[G>T]T")
	require.NoError(t, err)
	assert.Equal(t, "A[C>A]A", c.String())

	c, err = ParseCategory("c[a>g]t")
	require.NoError(t, err)
	assert.Equal(t, "A[T>C]G", c.String())

	_, err = ParseCategory("ACA")
	assert.Error(t, err)
	_, err = ParseCategory("A[C>C]A")
	assert.Error(t, err)
}

func TestClassify(t *testing.T) {
	tests := []struct {
		v    Variant
		want string
	}{
		{Variant{Chr: "chr1", Pos: 10, Ref: "C", Alt: []string{"T"}, Context: "ACG"}, "A[C>T]G"},
		{Variant{Chr: "chr1", Pos: 10, Ref: "G", Alt: []string{"A"}, Context: "CGT"}, "A[C>T]G"},
		{Variant{Chr: "chr1", Pos: 10, Ref: "t", Alt: []string{"a"}, Context: "gtc"}, "G[T>A]C"},
		{Variant{Chr: "chr1", Pos: 10, Ref: "A", Alt: []string{"C"}, Context: "GAC"}, "G[T>G]C"},
	}
	for _, test := range tests {
		c, err := Classify(test.v)
		require.NoError(t, err, test.v.String())
		assert.Equal(t, test.want, c.String(), test.v.String())
	}
}

func TestClassifyRejects(t *testing.T) {
	tests := []struct {
		v    Variant
		want Reason
	}{
		{Variant{Ref: "C", Alt: []string{"T", "A"}, Context: "ACA"}, MultiAllelic},
		{Variant{Ref: "C", Alt: nil, Context: "ACA"}, MultiAllelic},
		{Variant{Ref: "CA", Alt: []string{"C"}, Context: "ACA"}, NotSnv},
		{Variant{Ref: "C", Alt: []string{"CT"}, Context: "ACA"}, NotSnv},
		{Variant{Ref: "C", Alt: []string{"C"}, Context: "ACA"}, NotSnv},
		{Variant{Ref: "N", Alt: []string{"T"}, Context: "ANA"}, AmbiguousRef},
		{Variant{Ref: "C", Alt: []string{"N"}, Context: "ACA"}, AmbiguousAlt},
		{Variant{Ref: "C", Alt: []string{"*"}, Context: "ACA"}, AmbiguousAlt},
		{Variant{Ref: "C", Alt: []string{"T"}, Context: ""}, AmbiguousContext},
		{Variant{Ref: "C", Alt: []string{"T"}, Context: "NCA"}, AmbiguousContext},
		{Variant{Ref: "C", Alt: []string{"T"}, Context: "AGA"}, RefMismatch},
	}
	for _, test := range tests {
		_, err := Classify(test.v)
		var uerr *UnclassifiableError
		require.True(t, errors.As(err, &uerr), "expected unclassifiable error for %s", test.v)
		assert.Equal(t, test.want, uerr.Reason, test.v.String())
	}
}

// every well formed substitution lands in exactly one category, and so does
// its reverse complement.
func TestClassifyReverseComplement(t *testing.T) {
	counts := make(map[Category]int)
	var ref, alt, five, three int
	for ref = 0; ref < 4; ref++ {
		for alt = 0; alt < 4; alt++ {
			if ref == alt {
				continue
			}
			for five = 0; five < 4; five++ {
				for three = 0; three < 4; three++ {
					v := Variant{
						Ref:     string(bases[ref]),
						Alt:     []string{string(bases[alt])},
						Context: string(bases[five]) + string(bases[ref]) + string(bases[three]),
					}
					c, err := Classify(v)
					require.NoError(t, err)
					require.Less(t, int(c), NumCategories)
					rc, err := Classify(ReverseComplement(v))
					require.NoError(t, err)
					assert.Equal(t, c, rc, v.String())
					counts[c]++
				}
			}
		}
	}
	assert.Len(t, counts, NumCategories)
	for c, n := range counts {
		assert.Equal(t, 2, n, c.String())
	}
}
