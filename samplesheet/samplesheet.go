// Package samplesheet reads and writes the tab separated mapping of sample ids to tissue of origin.
//
//	id	tissue
//	SJACT001_D	Adrenocortical carcinoma
package samplesheet

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/gocarina/gocsv"
	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// UnknownTissue is the tissue given to generated entries.
const UnknownTissue = "Unknown"

var vcfExtensions = []string{".vcf", ".vcf.gz"}

// Entry is one row of a sample sheet.
type Entry struct {
	Id     string `csv:"id"`
	Tissue string `csv:"tissue"`
}

// Read parses a sample sheet. Ids must be unique.
func Read(filename string) ([]Entry, error) {
	in := fileio.EasyOpen(filename)
	defer cleanup(in)
	return read(in)
}

func read(in io.Reader) ([]Entry, error) {
	r := csv.NewReader(in)
	r.Comma = '\t'
	r.LazyQuotes = true
	r.Comment = '#'

	var entries []Entry
	if err := gocsv.UnmarshalCSV(r, &entries); err != nil {
		return nil, fmt.Errorf("could not read sample sheet: %w", err)
	}
	seen := make(map[string]bool)
	for i := range entries {
		entries[i].Id = strings.TrimSpace(entries[i].Id)
		entries[i].Tissue = strings.TrimSpace(entries[i].Tissue)
		if entries[i].Id == "" {
			return nil, fmt.Errorf("sample sheet row %d has no id", i+1)
		}
		if seen[entries[i].Id] {
			return nil, fmt.Errorf("sample sheet has duplicate id %s", entries[i].Id)
		}
		seen[entries[i].Id] = true
	}
	return entries, nil
}

// Write writes entries as a sample sheet.
func Write(filename string, entries []Entry) error {
	out := fileio.EasyCreate(filename)
	defer cleanup(out)
	return write(out, entries)
}

func write(out io.Writer, entries []Entry) error {
	w := csv.NewWriter(out)
	w.Comma = '\t'
	sw := gocsv.NewSafeCSVWriter(w)
	if err := gocsv.MarshalCSV(&entries, sw); err != nil {
		return err
	}
	sw.Flush()
	return sw.Error()
}

// Generate lists the vcf files of dir as sample sheet entries with an
// unknown tissue. The id of each sample is its file name without extension.
func Generate(dir string) ([]Entry, error) {
	files, err := os.ReadDir(dir)
	if err != nil {
		return nil, err
	}
	var entries []Entry
	var id string
	for _, f := range files {
		if f.IsDir() {
			continue
		}
		if id = trimVcfExtension(f.Name()); id == "" {
			continue
		}
		entries = append(entries, Entry{Id: id, Tissue: UnknownTissue})
	}
	sort.Slice(entries, func(i, j int) bool {
		return entries[i].Id < entries[j].Id
	})
	return entries, nil
}

// Tissues maps the id of each entry to its tissue.
func Tissues(entries []Entry) map[string]string {
	ans := make(map[string]string, len(entries))
	for _, e := range entries {
		ans[e.Id] = e.Tissue
	}
	return ans
}

// VcfPath returns the vcf file of sample id in dir, or an empty string if there is none.
func VcfPath(dir, id string) string {
	var file string
	for _, ext := range vcfExtensions {
		file = filepath.Join(dir, id+ext)
		if info, err := os.Stat(file); err == nil && !info.IsDir() {
			return file
		}
	}
	return ""
}

// trimVcfExtension returns name without its vcf extension, or "" if name is not a vcf.
func trimVcfExtension(name string) string {
	for i := len(vcfExtensions) - 1; i >= 0; i-- {
		if strings.HasSuffix(name, vcfExtensions[i]) && len(name) > len(vcfExtensions[i]) {
			return strings.TrimSuffix(name, vcfExtensions[i])
		}
	}
	return ""
}

func cleanup(f io.Closer) {
	err := f.Close()
	exception.PanicOnErr(err)
}
