package main

import (
	"flag"
	"fmt"
	"os"
	"runtime"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/samplesheet"
	"github.com/dasnellings/mtsgTools/spectrum"
	"github.com/vertgenlab/gonomics/exception"
)

func fitUsage(fitFlags *flag.FlagSet) {
	fmt.Print(
		"fit - attribute an existing mutation matrix to mutational signatures\n" +
			"\tThe matrix is the output of 'mtsgtools count' (or <prefix>.mutation_matrix.tsv of 'mtsgtools run').\n\n" +
			"Usage:\n" +
			"  mtsgtools fit [options] -m mutation_matrix.tsv -s signatures.tsv -o outDir\n\n" +
			"Options:\n")
	fitFlags.PrintDefaults()
}

func runFit(args []string) {
	var err error
	fitFlags := flag.NewFlagSet("fit", flag.ExitOnError)
	fitFlags.Usage = func() { fitUsage(fitFlags) }

	defaults := cohort.DefaultConfig()
	matrixFile := fitFlags.String("m", "", "Mutation matrix.")
	sigs := fitFlags.String("s", "", "Signature catalog (see 'mtsgtools prepare').")
	sheetFile := fitFlags.String("sampleSheet", "", "Optional sample sheet annotating samples with tissue of origin.")
	minBurden := fitFlags.Int("minBurden", defaults.MinBurden, "Minimum number of classified substitutions for a sample to be fit.")
	minContribution := fitFlags.Int("minContribution", defaults.MinContribution, "Minimum number of mutations attributed to a signature for it to be retained.")
	outDir := fitFlags.String("o", "", "Output directory. Created if it does not exist.")
	prefix := fitFlags.String("prefix", "mtsg", "Prefix of output file names.")
	threads := fitFlags.Int("threads", runtime.NumCPU(), "Number of samples fit concurrently.")
	npy := fitFlags.Bool("npy", false, "Also write the attribution matrix in numpy format (<prefix>.attributions.npy).")
	plotFile := fitFlags.String("plot", "", "Save a stacked bar chart of attributions to this file (png, svg, or pdf).")
	verbose := fitFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = fitFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	if *matrixFile == "" || *sigs == "" || *outDir == "" {
		fitFlags.Usage()
		errExit("\nERROR: must specify -m, -s, and -o")
	}
	if *minBurden < 0 || *minContribution < 0 {
		errExit("ERROR: minBurden and minContribution must be >= 0")
	}

	catalog := readCatalog(*sigs)
	var tissues map[string]string
	if *sheetFile != "" {
		tissues = samplesheet.Tissues(readSampleSheet(*sheetFile))
	}
	if _, err = os.Stat(*matrixFile); err != nil {
		errExit(err.Error())
	}
	m, err := spectrum.ReadMatrix(*matrixFile)
	if err != nil {
		errExit(err.Error())
	}
	logSpectra(m)
	if err = os.MkdirAll(*outDir, 0755); err != nil {
		errExit(err.Error())
	}

	cfg := cohort.Config{MinBurden: *minBurden, MinContribution: *minContribution, Threads: *threads}
	writeReport(cohort.Run(m, catalog, tissues, cfg), *outDir, *prefix, *npy, *plotFile)
}
