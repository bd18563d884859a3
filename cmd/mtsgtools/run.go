package main

import (
	"flag"
	"fmt"
	"os"
	"path/filepath"
	"runtime"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/context"
	"github.com/dasnellings/mtsgTools/plot"
	"github.com/dasnellings/mtsgTools/samplesheet"
	"github.com/dasnellings/mtsgTools/signature"
	"github.com/dasnellings/mtsgTools/spectrum"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
)

func runUsage(runFlags *flag.FlagSet) {
	fmt.Print(
		"run - count the mutations of single-sample vcfs and attribute them to mutational signatures\n" +
			"\tSamples with fewer than minBurden classified substitutions are skipped. Signatures contributing\n" +
			"\tfewer than minContribution mutations to a sample are removed and the sample refit.\n\n" +
			"Usage:\n" +
			"  mtsgtools run [options] -r reference.fasta -s signatures.tsv -o outDir vcfDir sampleSheet.tsv\n\n" +
			"Outputs:\n" +
			"  <prefix>.mutation_matrix.tsv, <prefix>.attributions.tsv, <prefix>.skipped.tsv\n\n" +
			"Options:\n")
	runFlags.PrintDefaults()
}

func runRun(args []string) {
	var err error
	runFlags := flag.NewFlagSet("run", flag.ExitOnError)
	runFlags.Usage = func() { runUsage(runFlags) }

	defaults := cohort.DefaultConfig()
	ref := runFlags.String("r", "", "Reference FASTA file. Must be indexed (.fai).")
	genomeBuild := runFlags.String("genomeBuild", string(context.GRCh38), "Genome build of the reference (GRCh37 or GRCh38). Sets the contig naming convention.")
	sigs := runFlags.String("s", "", "Signature catalog (see 'mtsgtools prepare').")
	minBurden := runFlags.Int("minBurden", defaults.MinBurden, "Minimum number of classified substitutions for a sample to be fit.")
	minContribution := runFlags.Int("minContribution", defaults.MinContribution, "Minimum number of mutations attributed to a signature for it to be retained.")
	outDir := runFlags.String("o", "", "Output directory. Created if it does not exist.")
	prefix := runFlags.String("prefix", "mtsg", "Prefix of output file names.")
	threads := runFlags.Int("threads", runtime.NumCPU(), "Number of threads for reading vcfs and fitting samples.")
	npy := runFlags.Bool("npy", false, "Also write the attribution matrix in numpy format (<prefix>.attributions.npy).")
	plotFile := runFlags.String("plot", "", "Save a stacked bar chart of attributions to this file (png, svg, or pdf).")
	verbose := runFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = runFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	if *ref == "" || *sigs == "" || *outDir == "" || runFlags.NArg() != 2 {
		runFlags.Usage()
		errExit("\nERROR: must specify -r, -s, -o, a vcf directory, and a sample sheet")
	}
	if *minBurden < 0 || *minContribution < 0 {
		errExit("ERROR: minBurden and minContribution must be >= 0")
	}
	build, err := context.ParseBuild(*genomeBuild)
	if err != nil {
		errExit(err.Error())
	}
	vcfDir, sheetFile := runFlags.Arg(0), runFlags.Arg(1)

	// a bad catalog is fatal before any vcf is read
	catalog := readCatalog(*sigs)
	sheet := readSampleSheet(sheetFile)
	if err = os.MkdirAll(*outDir, 0755); err != nil {
		errExit(err.Error())
	}

	inputs, missing := cohort.Inputs(sheet, vcfDir)
	counts, err := cohort.Count(inputs, *ref, build, *threads)
	if err != nil {
		errExit(err.Error())
	}
	m := counts.Matrix()
	if err = spectrum.WriteMatrix(filepath.Join(*outDir, *prefix+".mutation_matrix.tsv"), m); err != nil {
		errExit(err.Error())
	}
	logSpectra(m)

	cfg := cohort.Config{MinBurden: *minBurden, MinContribution: *minContribution, Threads: *threads}
	report := cohort.Run(m, catalog, samplesheet.Tissues(sheet), cfg)
	report.Skipped = append(report.Skipped, missing...)
	writeReport(report, *outDir, *prefix, *npy, *plotFile)
}

func readCatalog(file string) *signature.Catalog {
	if _, err := os.Stat(file); err != nil {
		errExit(err.Error())
	}
	catalog, err := signature.Read(file)
	if err != nil {
		errExit(err.Error())
	}
	log.Infof("loaded %d signatures from %s", catalog.Len(), file)
	return catalog
}

func readSampleSheet(file string) []samplesheet.Entry {
	if _, err := os.Stat(file); err != nil {
		errExit(err.Error())
	}
	sheet, err := samplesheet.Read(file)
	if err != nil {
		errExit(err.Error())
	}
	return sheet
}

// logSpectra draws the spectrum of every sample at debug verbosity.
func logSpectra(m spectrum.Matrix) {
	if !log.IsLevelEnabled(log.DebugLevel) {
		return
	}
	for i := range m.Samples {
		fmt.Fprintln(os.Stderr, plot.Spectrum(m.Samples[i], m.Vectors[i]))
	}
}

func writeReport(report cohort.Report, outDir, prefix string, npy bool, plotFile string) {
	err := cohort.WriteFiles(outDir, prefix, report, npy)
	if err != nil {
		errExit(err.Error())
	}
	if plotFile != "" && len(report.Results) > 0 {
		if err = plot.Attributions(report.Results, report.Signatures, plotFile); err != nil {
			errExit(err.Error())
		}
	}
	log.Infof("wrote %d attributions and %d skipped samples to %s", len(report.Results), len(report.Skipped), outDir)
}
