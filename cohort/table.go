package cohort

import (
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/kshedden/gonpy"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// fixed columns of the attribution table around the signature columns
var (
	leadingColumns  = []string{"sample", "tissue", "burden"}
	trailingColumns = []string{"residual", "error", "status"}
)

// WriteTable writes one row per fitted sample with a column for every
// signature in r.Signatures. Signatures not retained in a sample are 0.
func WriteTable(w io.Writer, r Report) error {
	var err error
	header := append(append(append([]string{}, leadingColumns...), r.Signatures...), trailingColumns...)
	if _, err = fmt.Fprintln(w, strings.Join(header, "\t")); err != nil {
		return err
	}
	words := make([]string, len(header))
	var a Attribution
	for i := range r.Results {
		a = r.Results[i]
		words = words[:0]
		words = append(words, a.Sample, a.Tissue, strconv.Itoa(a.Burden))
		for _, name := range r.Signatures {
			words = append(words, formatFloat(a.Contributions[name]))
		}
		words = append(words, formatFloat(a.Residual), strconv.FormatFloat(a.Error, 'g', 6, 64), string(a.Status))
		if _, err = fmt.Fprintln(w, strings.Join(words, "\t")); err != nil {
			return err
		}
	}
	return nil
}

// WriteSkipped writes the samples excluded from fitting.
func WriteSkipped(w io.Writer, r Report) error {
	var err error
	skipped := append([]Skip(nil), r.Skipped...)
	sort.Slice(skipped, func(i, j int) bool {
		return skipped[i].Sample < skipped[j].Sample
	})
	if _, err = fmt.Fprintln(w, "sample\ttissue\tburden\treason"); err != nil {
		return err
	}
	for _, s := range skipped {
		if _, err = fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", s.Sample, s.Tissue, s.Burden, s.Reason); err != nil {
			return err
		}
	}
	return nil
}

// WriteNpy writes the samples x signatures contribution matrix in numpy format.
// Rows follow r.Results and columns follow r.Signatures.
func WriteNpy(w io.Writer, r Report) error {
	data := make([]float64, 0, len(r.Results)*len(r.Signatures))
	for i := range r.Results {
		for _, name := range r.Signatures {
			data = append(data, r.Results[i].Contributions[name])
		}
	}
	npw, err := gonpy.NewWriter(nopCloser{w})
	if err != nil {
		return err
	}
	npw.Shape = []int{len(r.Results), len(r.Signatures)}
	return npw.WriteFloat64(data)
}

// WriteFiles writes <prefix>.attributions.tsv and <prefix>.skipped.tsv to dir,
// and <prefix>.attributions.npy when npy is set.
func WriteFiles(dir, prefix string, r Report, npy bool) error {
	var err error
	out := fileio.EasyCreate(filepath.Join(dir, prefix+".attributions.tsv"))
	err = WriteTable(out, r)
	cleanup(out)
	if err != nil {
		return err
	}

	out = fileio.EasyCreate(filepath.Join(dir, prefix+".skipped.tsv"))
	err = WriteSkipped(out, r)
	cleanup(out)
	if err != nil || !npy {
		return err
	}

	f, err := os.Create(filepath.Join(dir, prefix+".attributions.npy"))
	if err != nil {
		return err
	}
	err = WriteNpy(f, r)
	cleanup(f)
	return err
}

// ReadTable reads an attribution table written by WriteTable.
func ReadTable(filename string) (Report, error) {
	in := fileio.EasyOpen(filename)
	defer cleanup(in)

	var r Report
	header, done := fileio.EasyNextRealLine(in)
	if done {
		return r, fmt.Errorf("%s: empty attribution table", filename)
	}
	cols := strings.Split(header, "\t")
	nSig := len(cols) - len(leadingColumns) - len(trailingColumns)
	if nSig < 0 || strings.Join(cols[:len(leadingColumns)], "\t") != strings.Join(leadingColumns, "\t") ||
		strings.Join(cols[len(cols)-len(trailingColumns):], "\t") != strings.Join(trailingColumns, "\t") {
		return r, fmt.Errorf("%s: not an attribution table", filename)
	}
	r.Signatures = cols[len(leadingColumns) : len(leadingColumns)+nSig]

	var line string
	var words []string
	var err error
	var p float64
	for line, done = fileio.EasyNextRealLine(in); !done; line, done = fileio.EasyNextRealLine(in) {
		if line == "" {
			continue
		}
		words = strings.Split(line, "\t")
		if len(words) != len(cols) {
			return r, fmt.Errorf("%s: expected %d columns, found %d on line:\n%s", filename, len(cols), len(words), line)
		}
		a := Attribution{Sample: words[0], Tissue: words[1], Contributions: make(map[string]float64), Status: Status(words[len(words)-1])}
		if a.Burden, err = strconv.Atoi(words[2]); err != nil {
			return r, fmt.Errorf("%s: %s: %w", filename, a.Sample, err)
		}
		for i, name := range r.Signatures {
			if p, err = strconv.ParseFloat(words[len(leadingColumns)+i], 64); err != nil {
				return r, fmt.Errorf("%s: %s: %w", filename, a.Sample, err)
			}
			if p > 0 {
				a.Contributions[name] = p
			}
		}
		if a.Residual, err = strconv.ParseFloat(words[len(words)-3], 64); err != nil {
			return r, fmt.Errorf("%s: %s: %w", filename, a.Sample, err)
		}
		if a.Error, err = strconv.ParseFloat(words[len(words)-2], 64); err != nil {
			return r, fmt.Errorf("%s: %s: %w", filename, a.Sample, err)
		}
		r.Results = append(r.Results, a)
	}
	return r, nil
}

func formatFloat(f float64) string {
	return strconv.FormatFloat(f, 'f', 3, 64)
}

type nopCloser struct {
	io.Writer
}

func (nopCloser) Close() error { return nil }

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}
