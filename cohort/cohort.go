// Package cohort runs signature attribution over every sample of a cohort.
package cohort

import (
	"runtime"
	"sort"
	"sync"

	"github.com/dasnellings/mtsgTools/fit"
	"github.com/dasnellings/mtsgTools/signature"
	"github.com/dasnellings/mtsgTools/spectrum"
	log "github.com/sirupsen/logrus"
	"gonum.org/v1/gonum/stat"
)

// UnknownTissue annotates samples missing from the sample sheet.
const UnknownTissue = "Unknown"

// Config holds the thresholds of a cohort run.
type Config struct {
	MinBurden       int // samples with fewer classified mutations are skipped
	MinContribution int // signatures attributed fewer mutations are pruned
	Threads         int // concurrent sample fits
}

// DefaultConfig returns the default thresholds using every available core.
func DefaultConfig() Config {
	return Config{MinBurden: 9, MinContribution: 9, Threads: runtime.NumCPU()}
}

// Status is the outcome of fitting one admitted sample.
type Status string

const (
	OK               Status = "OK"
	NoSignatureFits  Status = "NoSignatureFits"
	NegativeResidual Status = "NegativeResidual"
	FitFailed        Status = "FitFailed"
)

// SkipReason explains why a sample was not fit.
type SkipReason string

const (
	InsufficientBurden SkipReason = "InsufficientBurden"
	MissingInput       SkipReason = "MissingInput"
)

// Attribution is the fitted result of one sample.
type Attribution struct {
	Sample        string
	Tissue        string
	Burden        int
	Contributions map[string]float64 // retained signatures only
	Residual      float64
	Error         float64
	Status        Status
}

// Skip records a sample excluded from fitting.
type Skip struct {
	Sample string
	Tissue string
	Burden int
	Reason SkipReason
}

// Report collects the results of a cohort run, sorted by sample id.
type Report struct {
	Signatures []string // signatures retained in at least one sample, in catalog order
	Results    []Attribution
	Skipped    []Skip
}

// Run applies the burden gate to every sample of m and fits the admitted
// samples against catalog in parallel. The failure of one sample never stops
// the others; it is recorded in that sample's Status.
func Run(m spectrum.Matrix, catalog *signature.Catalog, tissues map[string]string, cfg Config) Report {
	var report Report
	var admitted []int
	for i, sample := range m.Samples {
		burden := m.Vectors[i].Burden()
		if burden < cfg.MinBurden {
			log.Infof("%s: skipping, burden %d < %d", sample, burden, cfg.MinBurden)
			report.Skipped = append(report.Skipped, Skip{Sample: sample, Tissue: tissue(tissues, sample), Burden: burden, Reason: InsufficientBurden})
			continue
		}
		admitted = append(admitted, i)
	}

	threads := cfg.Threads
	if threads < 1 {
		threads = 1
	}
	jobs := make(chan int)
	results := make(chan Attribution, threads)
	wg := new(sync.WaitGroup)
	for t := 0; t < threads; t++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for i := range jobs {
				results <- attribute(m.Samples[i], tissue(tissues, m.Samples[i]), m.Vectors[i], catalog, cfg.MinContribution)
			}
		}()
	}
	go func() {
		for _, i := range admitted {
			jobs <- i
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	for a := range results {
		report.Results = append(report.Results, a)
	}
	sort.Slice(report.Results, func(i, j int) bool {
		return report.Results[i].Sample < report.Results[j].Sample
	})
	report.Signatures = retained(catalog, report.Results)
	summarize(report)
	return report
}

func attribute(sample, tissue string, v spectrum.Vector, catalog *signature.Catalog, minContribution int) Attribution {
	ans := Attribution{
		Sample:        sample,
		Tissue:        tissue,
		Burden:        v.Burden(),
		Contributions: make(map[string]float64),
		Residual:      float64(v.Burden()),
	}
	res, err := fit.Fit(catalog.Matrix(), v.Floats(), float64(minContribution))
	if err != nil {
		log.Errorf("%s: fit failed: %s", sample, err)
		ans.Status = FitFailed
		return ans
	}
	for _, i := range res.Active {
		ans.Contributions[catalog.Name(i)] = res.Contributions[i]
	}
	ans.Residual = res.Residual
	ans.Error = res.Error
	switch res.Status {
	case fit.NoSignatureFits:
		ans.Status = NoSignatureFits
		log.Warnf("%s: no signature contributes at least %d mutations", sample, minContribution)
	case fit.NegativeResidual:
		ans.Status = NegativeResidual
		log.Warnf("%s: attributed mutations exceed burden (residual %.4f)", sample, res.Residual)
	default:
		ans.Status = OK
	}
	log.Debugf("%s: %d signatures after %d iterations, residual %.2f, error %.4f", sample, len(res.Active), res.Iterations, res.Residual, res.Error)
	return ans
}

func retained(catalog *signature.Catalog, results []Attribution) []string {
	var ans []string
	var found bool
	for _, name := range catalog.Names() {
		found = false
		for i := range results {
			if _, found = results[i].Contributions[name]; found {
				break
			}
		}
		if found {
			ans = append(ans, name)
		}
	}
	return ans
}

func summarize(r Report) {
	if len(r.Results) == 0 {
		log.Warnf("no sample passed the burden threshold (%d skipped)", len(r.Skipped))
		return
	}
	burdens := make([]float64, len(r.Results))
	flagged := 0
	for i := range r.Results {
		burdens[i] = float64(r.Results[i].Burden)
		if r.Results[i].Status != OK {
			flagged++
		}
	}
	mean, std := stat.MeanStdDev(burdens, nil)
	log.Infof("fit %d samples (burden mean %.1f, sd %.1f), %d flagged, %d skipped", len(r.Results), mean, std, flagged, len(r.Skipped))
}

func tissue(tissues map[string]string, sample string) string {
	if t, found := tissues[sample]; found && t != "" {
		return t
	}
	return UnknownTissue
}
