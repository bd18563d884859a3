package main

import (
	"flag"
	"fmt"
	"os"
	"strings"
	"text/tabwriter"

	"github.com/mattn/go-isatty"
	log "github.com/sirupsen/logrus"
)

const version string = "0.1.0"
const gonomicsVersion string = "1.0.1-0.20240426183757-e6c6ab634c20"

type subcommand struct {
	name     string
	function func(args []string)
	blurb    string
}

// SubCommands contains all valid subcommands.
// New subcommands can be added to mtsgtools by adding a new entry to this array.
var SubCommands = []*subcommand{
	{"split", runSplit, "split multi-sample vcfs into single-sample vcfs"},
	{"samplesheet", runSampleSheet, "generate a sample sheet from a directory of vcfs"},
	{"prepare", runPrepare, "convert a COSMIC signature table to a signature catalog"},
	{"count", runCount, "build the 96 category mutation matrix of a cohort"},
	{"run", runRun, "count mutations and attribute them to signatures"},
	{"fit", runFit, "attribute an existing mutation matrix to signatures"},
	{"plot", runPlot, "plot signature attributions or a sample spectrum"},
}

func usage() {
	s := new(strings.Builder)
	s.WriteString(
		"Program: mtsgtools (mutational signature attribution)\n" +
			"Version: " + version + " (gonomics " + gonomicsVersion + ")\n" +
			"Contact: Daniel Snellings <daniel.snellings@childrens.harvard.edu>\n" +
			"\nUsage:\tmtsgtools <command> [options]\n\n" +
			"Commands:\n")

	// add subcommand text via tabwriter so the columns align
	w := tabwriter.NewWriter(s, 0, 8, 5, '\t', tabwriter.AlignRight)
	for i := range SubCommands {
		fmt.Fprintf(w, "\t%s\t%s\n", SubCommands[i].name, SubCommands[i].blurb)
	}
	w.Flush()
	fmt.Print(s.String())
}

// commandMap builds a map of possible subcommands keyed on the name of the subcommand
func commandMap() map[string]func(args []string) {
	m := make(map[string]func(args []string))
	for i := range SubCommands {
		m[SubCommands[i].name] = SubCommands[i].function
	}
	return m
}

func main() {
	if !isatty.IsTerminal(os.Stderr.Fd()) {
		log.StandardLogger().Formatter = &log.TextFormatter{DisableTimestamp: true}
	}
	flag.Usage = usage
	flag.Parse()

	// check if first argument is a valid subcommand
	command := commandMap()[flag.Arg(0)]

	// if no command is found, print the usage and return
	if command == nil {
		flag.Usage()
		return
	}

	// if command successfully found, pass in remaining arguments and execute
	command(flag.Args()[1:])
}

// setVerbosity maps the -v flag to a log level: 0 warnings, 1 info, 2+ debug.
func setVerbosity(verbose int) {
	switch {
	case verbose <= 0:
		log.SetLevel(log.WarnLevel)
	case verbose == 1:
		log.SetLevel(log.InfoLevel)
	default:
		log.SetLevel(log.DebugLevel)
	}
}

func errExit(err string) {
	fmt.Fprintln(os.Stderr, err)
	os.Exit(1)
}
