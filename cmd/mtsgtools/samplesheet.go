package main

import (
	"flag"
	"fmt"

	"github.com/dasnellings/mtsgTools/samplesheet"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
)

func sampleSheetUsage(sampleSheetFlags *flag.FlagSet) {
	fmt.Print(
		"samplesheet - generate a sample sheet from a directory of single-sample vcfs\n" +
			"\tEach .vcf or .vcf.gz file becomes one sample with an Unknown tissue. Edit the tissue column before running.\n\n" +
			"Usage:\n" +
			"  mtsgtools samplesheet [options] vcfDir\n\n" +
			"Options:\n")
	sampleSheetFlags.PrintDefaults()
}

func runSampleSheet(args []string) {
	var err error
	sampleSheetFlags := flag.NewFlagSet("samplesheet", flag.ExitOnError)
	sampleSheetFlags.Usage = func() { sampleSheetUsage(sampleSheetFlags) }

	output := sampleSheetFlags.String("o", "stdout", "Output sample sheet.")
	verbose := sampleSheetFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = sampleSheetFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	if sampleSheetFlags.NArg() != 1 {
		sampleSheetFlags.Usage()
		errExit("\nERROR: must specify exactly one vcf directory")
	}

	entries, err := samplesheet.Generate(sampleSheetFlags.Arg(0))
	if err != nil {
		errExit(err.Error())
	}
	if len(entries) == 0 {
		log.Warnf("no vcfs found in %s", sampleSheetFlags.Arg(0))
	}
	if err = samplesheet.Write(*output, entries); err != nil {
		errExit(err.Error())
	}
}
