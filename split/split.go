// Package split converts multi-sample vcf files to one vcf per sample.
package split

import (
	"bufio"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"

	"github.com/klauspost/pgzip"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// NoColumn disables no sample column.
const NoColumn = -1

const (
	fixedColumns = 9 // CHROM through FORMAT
	maxLine      = 64 * 1024 * 1024
)

// Split reads a multi-sample vcf from r and writes <sample>.vcf to outDir for
// each sample. Meta lines are copied to every output and the header line is
// reduced to the columns of one sample. A record is written for a sample only
// when its genotype carries an alternate allele. The sample column disableColumn (zero-based,
// counted from the first sample) is ignored; pass NoColumn to keep all samples.
// Split returns the names of the samples written.
func Split(r io.Reader, outDir string, disableColumn int) ([]string, error) {
	scanner := bufio.NewScanner(r)
	scanner.Buffer(make([]byte, 0, 1024*1024), maxLine)

	var meta []string
	var header []string
	for scanner.Scan() {
		line := scanner.Text()
		if strings.HasPrefix(line, "##") {
			meta = append(meta, line)
			continue
		}
		if !strings.HasPrefix(line, "#CHROM") {
			return nil, fmt.Errorf("expected #CHROM header line, found:\n%s", line)
		}
		header = strings.Split(line, "\t")
		break
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(header) <= fixedColumns {
		return nil, fmt.Errorf("vcf has no sample columns")
	}

	samples := header[fixedColumns:]
	outputs := make([]*fileio.EasyWriter, len(samples))
	var written []string
	for i, sample := range samples {
		if i == disableColumn {
			log.Infof("skipping sample column %d (%s)", i, sample)
			continue
		}
		outputs[i] = fileio.EasyCreate(filepath.Join(outDir, sample+".vcf"))
		for _, line := range meta {
			_, err := fmt.Fprintln(outputs[i], line)
			exception.PanicOnErr(err)
		}
		_, err := fmt.Fprintf(outputs[i], "%s\t%s\n", strings.Join(header[:fixedColumns], "\t"), sample)
		exception.PanicOnErr(err)
		written = append(written, sample)
	}
	defer func() {
		for i := range outputs {
			if outputs[i] != nil {
				exception.PanicOnErr(outputs[i].Close())
			}
		}
	}()
	log.Infof("creating %d vcf(s)", len(written))

	var words []string
	var fixed string
	var err error
	for scanner.Scan() {
		if scanner.Text() == "" {
			continue
		}
		words = strings.Split(scanner.Text(), "\t")
		if len(words) != len(header) {
			return written, fmt.Errorf("expected %d columns, found %d on line:\n%s", len(header), len(words), scanner.Text())
		}
		fixed = strings.Join(words[:fixedColumns], "\t")
		for i, cell := range words[fixedColumns:] {
			if outputs[i] == nil || !HasAlt(cell) {
				continue
			}
			_, err = fmt.Fprintf(outputs[i], "%s\t%s\n", fixed, cell)
			exception.PanicOnErr(err)
		}
	}
	return written, scanner.Err()
}

// SplitFile runs Split on a vcf file. Files ending in .gz are decompressed
// with parallel gzip.
func SplitFile(filename, outDir string, disableColumn int) ([]string, error) {
	f, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer cleanup(f)

	var r io.Reader = f
	if strings.HasSuffix(filename, ".gz") {
		gz, err := pgzip.NewReader(f)
		if err != nil {
			return nil, fmt.Errorf("%s: %w", filename, err)
		}
		defer cleanup(gz)
		r = gz
	}
	samples, err := Split(r, outDir, disableColumn)
	if err != nil {
		return samples, fmt.Errorf("%s: %w", filename, err)
	}
	return samples, nil
}

// HasAlt reports whether the genotype of a sample cell carries at least one
// alternate allele. Missing (./.) and reference (0/0) genotypes do not.
func HasAlt(cell string) bool {
	gt := cell
	if i := strings.IndexByte(cell, ':'); i >= 0 {
		gt = cell[:i]
	}
	for _, allele := range strings.FieldsFunc(gt, func(r rune) bool { return r == '/' || r == '|' }) {
		if allele != "." && allele != "0" {
			return true
		}
	}
	return false
}

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}
