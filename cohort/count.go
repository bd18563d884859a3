package cohort

import (
	"sync"

	"github.com/dasnellings/mtsgTools/context"
	"github.com/dasnellings/mtsgTools/samplesheet"
	"github.com/dasnellings/mtsgTools/spectrum"
	log "github.com/sirupsen/logrus"
)

// Input is one single-sample vcf file.
type Input struct {
	Sample string
	File   string
}

// Inputs resolves the vcf file of every sample sheet entry in dir. Entries
// without a vcf are returned as MissingInput skips.
func Inputs(sheet []samplesheet.Entry, dir string) ([]Input, []Skip) {
	var inputs []Input
	var skipped []Skip
	for _, e := range sheet {
		file := samplesheet.VcfPath(dir, e.Id)
		if file == "" {
			log.Warnf("%s: no vcf found in %s", e.Id, dir)
			skipped = append(skipped, Skip{Sample: e.Id, Tissue: e.Tissue, Reason: MissingInput})
			continue
		}
		inputs = append(inputs, Input{Sample: e.Id, File: file})
	}
	return inputs, skipped
}

// Count builds the mutation spectra of inputs. Files are read by up to
// threads workers, each with its own handle on the reference, and the
// per-worker counts are merged once every file is read.
func Count(inputs []Input, fastaFile string, build context.Build, threads int) (*spectrum.Builder, error) {
	if threads < 1 {
		threads = 1
	}
	if threads > len(inputs) && len(inputs) > 0 {
		threads = len(inputs)
	}

	refs := make([]*context.Reference, threads)
	var err error
	for i := range refs {
		refs[i], err = context.NewReference(fastaFile, build)
		if err != nil {
			for j := 0; j < i; j++ {
				refs[j].Close()
			}
			return nil, err
		}
	}

	jobs := make(chan Input)
	builders := make([]*spectrum.Builder, threads)
	wg := new(sync.WaitGroup)
	for t := range builders {
		builders[t] = spectrum.NewBuilder()
		wg.Add(1)
		go func(b *spectrum.Builder, ref *context.Reference) {
			defer wg.Done()
			for in := range jobs {
				spectrum.ReadVcf(b, in.Sample, in.File, ref)
			}
		}(builders[t], refs[t])
	}
	for _, in := range inputs {
		jobs <- in
	}
	close(jobs)
	wg.Wait()

	ans := spectrum.NewBuilder()
	for t := range builders {
		ans.Merge(builders[t])
	}
	for _, ref := range refs {
		if err = ref.Close(); err != nil {
			return ans, err
		}
	}
	return ans, nil
}
