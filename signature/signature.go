// Package signature loads and validates reference mutational signature catalogs.
//
// A catalog is a tab separated table with one row per signature and one column
// per mutation category:
//
//	Signature	A[C>A]A	A[C>A]C	...	T[T>G]T
//	SBS1	8.86e-04	2.28e-03	...	1.20e-03
//
// Every row is a probability distribution over the 96 categories. Columns may
// appear in any order and are reconciled to the order of mutation.Categories.
package signature

import (
	"errors"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/dasnellings/mtsgTools/mutation"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/mat"
)

// Tolerance is the allowed deviation of a signature row sum from 1.
const Tolerance = 1e-6

var (
	ErrMalformedCatalog = errors.New("malformed signature catalog")
	ErrCategoryMismatch = errors.New("signature catalog categories do not match the mutation categories")
)

// Catalog is an immutable signatures x categories probability matrix.
// It is safe for concurrent reads.
type Catalog struct {
	names []string
	index map[string]int
	probs *mat.Dense
}

// New validates rows (one per name, one value per column label) and returns a
// Catalog with columns in mutation.Categories order.
func New(names []string, columns []string, rows [][]float64) (*Catalog, error) {
	order, err := reconcile(columns)
	if err != nil {
		return nil, err
	}
	if len(names) == 0 {
		return nil, fmt.Errorf("%w: no signatures", ErrMalformedCatalog)
	}
	if len(rows) != len(names) {
		return nil, fmt.Errorf("%w: %d signature names for %d rows", ErrMalformedCatalog, len(names), len(rows))
	}

	c := &Catalog{
		names: make([]string, len(names)),
		index: make(map[string]int, len(names)),
		probs: mat.NewDense(len(names), mutation.NumCategories, nil),
	}
	copy(c.names, names)
	var sum float64
	for i, name := range names {
		if name == "" {
			return nil, fmt.Errorf("%w: empty signature name on row %d", ErrMalformedCatalog, i+1)
		}
		if _, found := c.index[name]; found {
			return nil, fmt.Errorf("%w: duplicate signature %s", ErrMalformedCatalog, name)
		}
		c.index[name] = i
		if len(rows[i]) != len(columns) {
			return nil, fmt.Errorf("%w: signature %s has %d values, expected %d", ErrMalformedCatalog, name, len(rows[i]), len(columns))
		}
		for j, p := range rows[i] {
			if p < 0 || math.IsNaN(p) || math.IsInf(p, 0) {
				return nil, fmt.Errorf("%w: signature %s has invalid probability %g for %s", ErrMalformedCatalog, name, p, order[j])
			}
			c.probs.Set(i, int(order[j]), p)
		}
		sum = floats.Sum(rows[i])
		if math.Abs(sum-1) > Tolerance {
			return nil, fmt.Errorf("%w: signature %s sums to %.9g", ErrMalformedCatalog, name, sum)
		}
	}
	return c, nil
}

// reconcile maps column labels onto categories. Each category must appear exactly once.
func reconcile(columns []string) ([]mutation.Category, error) {
	if len(columns) != mutation.NumCategories {
		return nil, fmt.Errorf("%w: found %d category columns, expected %d", ErrCategoryMismatch, len(columns), mutation.NumCategories)
	}
	order := make([]mutation.Category, len(columns))
	seen := make(map[mutation.Category]string)
	var err error
	for i := range columns {
		order[i], err = mutation.ParseCategory(columns[i])
		if err != nil {
			return nil, fmt.Errorf("%w: %s", ErrCategoryMismatch, err)
		}
		if prev, found := seen[order[i]]; found {
			return nil, fmt.Errorf("%w: columns %s and %s are the same category", ErrCategoryMismatch, prev, columns[i])
		}
		seen[order[i]] = columns[i]
	}
	return order, nil
}

// Len is the number of signatures.
func (c *Catalog) Len() int {
	return len(c.names)
}

// Names returns the signature names in catalog order.
func (c *Catalog) Names() []string {
	ans := make([]string, len(c.names))
	copy(ans, c.names)
	return ans
}

// Name returns the name of signature i.
func (c *Catalog) Name(i int) string {
	return c.names[i]
}

// Index returns the row of the named signature, or -1.
func (c *Catalog) Index(name string) int {
	if i, found := c.index[name]; found {
		return i
	}
	return -1
}

// Matrix returns the signatures x categories matrix. The matrix must not be modified.
func (c *Catalog) Matrix() mat.Matrix {
	return c.probs
}

// Row returns a copy of the probabilities of signature i.
func (c *Catalog) Row(i int) []float64 {
	return mat.Row(nil, i, c.probs)
}

// Write writes the catalog in the layout read by Read.
func (c *Catalog) Write(w io.Writer) error {
	var err error
	var line strings.Builder
	line.WriteString("Signature")
	for _, cat := range mutation.Categories {
		line.WriteByte('\t')
		line.WriteString(cat.String())
	}
	if _, err = fmt.Fprintln(w, line.String()); err != nil {
		return err
	}
	for i := range c.names {
		line.Reset()
		line.WriteString(c.names[i])
		for j := 0; j < mutation.NumCategories; j++ {
			line.WriteByte('\t')
			line.WriteString(strconv.FormatFloat(c.probs.At(i, j), 'g', -1, 64))
		}
		if _, err = fmt.Fprintln(w, line.String()); err != nil {
			return err
		}
	}
	return nil
}

// WriteCatalog writes c to filename.
func WriteCatalog(filename string, c *Catalog) error {
	out := fileio.EasyCreate(filename)
	defer cleanup(out)
	return c.Write(out)
}

// Read loads a catalog file. Lines starting with '#' are ignored.
func Read(filename string) (*Catalog, error) {
	in := fileio.EasyOpen(filename)
	defer cleanup(in)

	header, done := fileio.EasyNextRealLine(in)
	if done {
		return nil, fmt.Errorf("%w: %s is empty", ErrMalformedCatalog, filename)
	}
	cols := strings.Split(strings.TrimRight(header, "\r"), "\t")
	if len(cols) < 2 {
		return nil, fmt.Errorf("%w: %s has no category columns", ErrCategoryMismatch, filename)
	}

	var names []string
	var rows [][]float64
	var line string
	var words []string
	var err error
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		line = strings.TrimRight(line, "\r")
		if line == "" {
			continue
		}
		words = strings.Split(line, "\t")
		row := make([]float64, len(words)-1)
		for i := range row {
			row[i], err = strconv.ParseFloat(strings.TrimSpace(words[i+1]), 64)
			if err != nil {
				return nil, fmt.Errorf("%w: %s: signature %s: %s", ErrMalformedCatalog, filename, words[0], err)
			}
		}
		names = append(names, words[0])
		rows = append(rows, row)
	}

	c, err := New(names, cols[1:], rows)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return c, nil
}

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}
