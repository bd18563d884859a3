package main

import (
	"flag"
	"fmt"
	"os"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/plot"
	"github.com/dasnellings/mtsgTools/spectrum"
	"github.com/vertgenlab/gonomics/exception"
)

func plotUsage(plotFlags *flag.FlagSet) {
	fmt.Print(
		"plot - plot signature attributions or the spectrum of a sample\n" +
			"\tWith -i, draws a stacked bar chart of an attribution table to -o (png, svg, or pdf).\n" +
			"\tWith -m and -sample, prints the 96 category spectrum of one sample to the terminal.\n\n" +
			"Usage:\n" +
			"  mtsgtools plot -i mtsg.attributions.tsv -o attributions.png\n" +
			"  mtsgtools plot -m mtsg.mutation_matrix.tsv -sample id\n\n" +
			"Options:\n")
	plotFlags.PrintDefaults()
}

func runPlot(args []string) {
	var err error
	plotFlags := flag.NewFlagSet("plot", flag.ExitOnError)
	plotFlags.Usage = func() { plotUsage(plotFlags) }

	input := plotFlags.String("i", "", "Attribution table written by 'run' or 'fit'.")
	output := plotFlags.String("o", "", "Output image for -i.")
	matrixFile := plotFlags.String("m", "", "Mutation matrix.")
	sample := plotFlags.String("sample", "", "Sample of -m to draw.")
	verbose := plotFlags.Int("v", 0, "Verbosity of log (0 warnings, 1 info, 2 debug).")

	err = plotFlags.Parse(args)
	exception.PanicOnErr(err)
	setVerbosity(*verbose)

	switch {
	case *input != "" && *output != "":
		if _, err = os.Stat(*input); err != nil {
			errExit(err.Error())
		}
		report, err := cohort.ReadTable(*input)
		if err != nil {
			errExit(err.Error())
		}
		if err = plot.Attributions(report.Results, report.Signatures, *output); err != nil {
			errExit(err.Error())
		}
	case *matrixFile != "" && *sample != "":
		if _, err = os.Stat(*matrixFile); err != nil {
			errExit(err.Error())
		}
		m, err := spectrum.ReadMatrix(*matrixFile)
		if err != nil {
			errExit(err.Error())
		}
		v, found := m.Vector(*sample)
		if !found {
			errExit(fmt.Sprintf("ERROR: sample %s not found in %s", *sample, *matrixFile))
		}
		fmt.Println(plot.Spectrum(*sample, v))
	default:
		plotFlags.Usage()
		errExit("\nERROR: must specify either -i and -o, or -m and -sample")
	}
}
