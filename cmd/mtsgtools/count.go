package main

import (
	"flag"
	"fmt"
	"runtime"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/context"
	"github.com/dasnellings/mtsgTools/spectrum"
	"github.com/vertgenlab/gonomics/exception"
)

func countUsage(countFlags *flag.FlagSet) {
	fmt.Print(
		"count - build the 96 category mutation matrix of the samples in a sample sheet\n\n" +
			"Usage:\n" +
			"  mtsgtools count [options] -r reference.fasta vcfDir sampleSheet.tsv > mutation_matrix.tsv\n\n" +
			"Options:\n")
	countFlags.PrintDefaults()
}

func runCount(args []string) {
	var err error
	countFlags := flag.NewFlagSet("count", flag.ExitOnError)
	countFlags.Usage = func() { countUsage(countFlags) }

	ref := countFlags.String("r", "", "Reference FASTA file. Must be indexed (.fai).")
	genomeBuild := countFlags.String("genomeBuild", string(context.GRCh38), "Genome build of the reference (GRCh37 or GRCh38).")
	output := countFlags.String("o", "stdout", "Output mutation matrix.")
	threads := countFlags.Int("threads", runtime.NumCPU(), "Number of threads for reading vcfs.")
	verbose := countFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = countFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	if *ref == "" || countFlags.NArg() != 2 {
		countFlags.Usage()
		errExit("\nERROR: must specify -r, a vcf directory, and a sample sheet")
	}
	build, err := context.ParseBuild(*genomeBuild)
	if err != nil {
		errExit(err.Error())
	}

	sheet := readSampleSheet(countFlags.Arg(1))
	inputs, _ := cohort.Inputs(sheet, countFlags.Arg(0))
	counts, err := cohort.Count(inputs, *ref, build, *threads)
	if err != nil {
		errExit(err.Error())
	}
	m := counts.Matrix()
	logSpectra(m)
	if err = spectrum.WriteMatrix(*output, m); err != nil {
		errExit(err.Error())
	}
}
