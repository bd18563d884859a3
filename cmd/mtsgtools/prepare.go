package main

import (
	"flag"
	"fmt"

	"github.com/dasnellings/mtsgTools/signature"
	log "github.com/sirupsen/logrus"
	"github.com/vertgenlab/gonomics/exception"
)

func prepareUsage(prepareFlags *flag.FlagSet) {
	fmt.Print(
		"prepare - convert a COSMIC signature table to a signature catalog\n" +
			"\tAccepts the COSMIC v2 table (Substitution Type, Trinucleotide, Somatic Mutation Type columns)\n" +
			"\tand the COSMIC v3 SBS table (Type column of A[C>A]A labels). Signatures are renamed SBSn.\n\n" +
			"Usage:\n" +
			"  mtsgtools prepare [options] -i cosmic.tsv -o signatures.tsv\n\n" +
			"Options:\n")
	prepareFlags.PrintDefaults()
}

func runPrepare(args []string) {
	var err error
	prepareFlags := flag.NewFlagSet("prepare", flag.ExitOnError)
	prepareFlags.Usage = func() { prepareUsage(prepareFlags) }

	input := prepareFlags.String("i", "", "Input COSMIC signature table (tab separated).")
	output := prepareFlags.String("o", "stdout", "Output signature catalog.")
	verbose := prepareFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = prepareFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	if *input == "" {
		prepareFlags.Usage()
		errExit("\nERROR: must specify an input table (-i)")
	}

	catalog, err := signature.Prepare(*input)
	if err != nil {
		errExit(err.Error())
	}
	log.Infof("prepared %d signatures", catalog.Len())
	if err = signature.WriteCatalog(*output, catalog); err != nil {
		errExit(err.Error())
	}
}
