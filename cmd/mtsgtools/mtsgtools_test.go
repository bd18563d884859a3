package main

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/mutation"
	"github.com/dasnellings/mtsgTools/samplesheet"
	"github.com/dasnellings/mtsgTools/signature"
)

func writeTestCatalog(t *testing.T, file string) {
	cols := make([]string, mutation.NumCategories)
	for i, c := range mutation.Categories {
		cols[i] = c.String()
	}
	point := func(label string) []float64 {
		row := make([]float64, mutation.NumCategories)
		c, err := mutation.ParseCategory(label)
		if err != nil {
			t.Fatal(err)
		}
		row[c] = 1
		return row
	}
	c, err := signature.New([]string{"SBS1", "SBS2", "SBS3"}, cols,
		[][]float64{point("A[C>T]G"), point("G[T>G]A"), point("T[C>T]C")})
	if err != nil {
		t.Fatal(err)
	}
	if err = signature.WriteCatalog(file, c); err != nil {
		t.Fatal(err)
	}
}

func TestRun(t *testing.T) {
	dir := t.TempDir()
	catalog := filepath.Join(dir, "signatures.tsv")
	sheet := filepath.Join(dir, "samples.tsv")
	writeTestCatalog(t, catalog)
	err := samplesheet.Write(sheet, []samplesheet.Entry{{Id: "s1", Tissue: "Osteosarcoma"}, {Id: "s2", Tissue: "Osteosarcoma"}, {Id: "s3", Tissue: "Glioma"}})
	if err != nil {
		t.Fatal(err)
	}

	out := filepath.Join(dir, "out")
	runRun([]string{"-r", "../../cohort/testdata/ref.fa", "-s", catalog, "-o", out, "-minBurden", "4", "-minContribution", "1", "-threads", "2",
		"../../cohort/testdata/vcfs", sheet})

	for _, name := range []string{"mtsg.mutation_matrix.tsv", "mtsg.attributions.tsv", "mtsg.skipped.tsv"} {
		if _, err = os.Stat(filepath.Join(out, name)); err != nil {
			t.Error("missing output", name)
		}
	}

	report, err := cohort.ReadTable(filepath.Join(out, "mtsg.attributions.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	if len(report.Results) != 1 || report.Results[0].Sample != "s1" || report.Results[0].Status != cohort.OK {
		t.Errorf("unexpected attributions: %v", report.Results)
	}
	if report.Results[0].Contributions["SBS1"] != 2 || report.Results[0].Contributions["SBS2"] != 1 || report.Results[0].Contributions["SBS3"] != 1 {
		t.Errorf("unexpected contributions: %v", report.Results[0].Contributions)
	}

	skipped, err := os.ReadFile(filepath.Join(out, "mtsg.skipped.tsv"))
	if err != nil {
		t.Fatal(err)
	}
	expected := "sample\ttissue\tburden\treason\n" +
		"s2\tOsteosarcoma\t3\tInsufficientBurden\n" +
		"s3\tGlioma\t0\tMissingInput\n"
	if string(skipped) != expected {
		t.Errorf("unexpected skipped samples:\n%s", skipped)
	}

	// refitting the written matrix gives the same attributions
	runFit([]string{"-m", filepath.Join(out, "mtsg.mutation_matrix.tsv"), "-s", catalog, "-o", out, "-prefix", "refit", "-minBurden", "4", "-minContribution", "1"})
	a, _ := os.ReadFile(filepath.Join(out, "mtsg.attributions.tsv"))
	b, _ := os.ReadFile(filepath.Join(out, "refit.attributions.tsv"))
	if strings.ReplaceAll(string(a), "Osteosarcoma", cohort.UnknownTissue) != string(b) {
		t.Errorf("refit differs:\n%s\n%s", a, b)
	}
}
