package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dasnellings/mtsgTools/split"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
)

func splitUsage(splitFlags *flag.FlagSet) {
	fmt.Print(
		"split - split multi-sample vcfs into one vcf per sample\n" +
			"\tA record is written to a sample's vcf only if the sample's genotype carries an alternate allele.\n\n" +
			"Usage:\n" +
			"  mtsgtools split [options] -o outDir input.vcf[.gz] ...\n\n" +
			"Options:\n")
	splitFlags.PrintDefaults()
}

func runSplit(args []string) {
	var err error
	splitFlags := flag.NewFlagSet("split", flag.ExitOnError)
	splitFlags.Usage = func() { splitUsage(splitFlags) }

	outDir := splitFlags.String("o", "", "Output directory for single-sample vcfs. Created if it does not exist.")
	disableColumn := splitFlags.Int("disableColumn", split.NoColumn, "Sample column to skip (zero-based, counted from the first sample). Negative values keep all samples.")
	verbose := splitFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = splitFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	if *outDir == "" || splitFlags.NArg() == 0 {
		splitFlags.Usage()
		errExit("\nERROR: must specify an output directory (-o) and at least one input vcf")
	}
	if err = os.MkdirAll(*outDir, 0755); err != nil {
		errExit(err.Error())
	}

	var samples []string
	for _, input := range splitFlags.Args() {
		if samples, err = split.SplitFile(input, *outDir, *disableColumn); err != nil {
			errExit(err.Error())
		}
		log.Infof("%s: wrote %d vcf(s) to %s", input, len(samples), *outDir)
	}
}
