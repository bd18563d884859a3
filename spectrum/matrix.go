package spectrum

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/dasnellings/mtsgTools/mutation"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"golang.org/x/exp/maps"
	"golang.org/x/exp/slices"
)

// Matrix is a samples x categories count matrix with rows sorted by sample id.
type Matrix struct {
	Samples []string
	Vectors []Vector
}

func NewMatrix(m map[string]Vector) Matrix {
	var ans Matrix
	ans.Samples = maps.Keys(m)
	slices.Sort(ans.Samples)
	ans.Vectors = make([]Vector, len(ans.Samples))
	for i := range ans.Samples {
		ans.Vectors[i] = m[ans.Samples[i]]
	}
	return ans
}

// Vector returns the counts of sample and whether sample is in the matrix.
func (m Matrix) Vector(sample string) (Vector, bool) {
	i, found := slices.BinarySearch(m.Samples, sample)
	if !found {
		return Vector{}, false
	}
	return m.Vectors[i], true
}

func (m Matrix) header() string {
	s := new(strings.Builder)
	s.WriteString("sample")
	for _, c := range mutation.Categories {
		s.WriteByte('\t')
		s.WriteString(c.String())
	}
	return s.String()
}

// Write writes the matrix as tab separated text, one row per sample.
func (m Matrix) Write(w io.Writer) error {
	var err error
	if _, err = fmt.Fprintln(w, m.header()); err != nil {
		return err
	}
	var line strings.Builder
	for i := range m.Samples {
		line.Reset()
		line.WriteString(m.Samples[i])
		for _, n := range m.Vectors[i] {
			line.WriteByte('\t')
			line.WriteString(strconv.Itoa(n))
		}
		if _, err = fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteMatrix writes m to filename. Files ending in .gz are compressed.
func WriteMatrix(filename string, m Matrix) error {
	out := fileio.EasyCreate(filename)
	defer cleanup(out)
	return m.Write(out)
}

// ReadMatrix reads a matrix written by WriteMatrix. Category columns may appear
// in any order.
func ReadMatrix(filename string) (Matrix, error) {
	in := fileio.EasyOpen(filename)
	defer cleanup(in)

	header, done := fileio.EasyNextRealLine(in)
	if done {
		return Matrix{}, fmt.Errorf("%s: empty mutation matrix", filename)
	}
	cols := strings.Split(header, "\t")
	if len(cols) != mutation.NumCategories+1 {
		return Matrix{}, fmt.Errorf("%s: expected %d category columns, found %d", filename, mutation.NumCategories, len(cols)-1)
	}
	order := make([]mutation.Category, len(cols)-1)
	seen := make(map[mutation.Category]bool)
	var err error
	for i := range order {
		order[i], err = mutation.ParseCategory(cols[i+1])
		if err != nil {
			return Matrix{}, fmt.Errorf("%s: %w", filename, err)
		}
		if seen[order[i]] {
			return Matrix{}, fmt.Errorf("%s: duplicate category column %s", filename, order[i])
		}
		seen[order[i]] = true
	}

	m := make(map[string]Vector)
	var line string
	var words []string
	var n int
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		if line == "" {
			continue
		}
		words = strings.Split(line, "\t")
		if len(words) != len(cols) {
			return Matrix{}, fmt.Errorf("%s: expected %d columns for sample %s, found %d", filename, len(cols), words[0], len(words))
		}
		if _, found := m[words[0]]; found {
			return Matrix{}, fmt.Errorf("%s: duplicate sample %s", filename, words[0])
		}
		var v Vector
		for i := range order {
			n, err = strconv.Atoi(words[i+1])
			if err != nil || n < 0 {
				return Matrix{}, fmt.Errorf("%s: invalid count '%s' for sample %s", filename, words[i+1], words[0])
			}
			v[order[i]] = n
		}
		m[words[0]] = v
	}
	return NewMatrix(m), nil
}

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}
