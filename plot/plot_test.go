package plot

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/dasnellings/mtsgTools/cohort"
	"github.com/dasnellings/mtsgTools/spectrum"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSpectrum(t *testing.T) {
	var v spectrum.Vector
	v[0], v[40], v[95] = 3, 7, 1
	s := Spectrum("s1", v)
	assert.True(t, strings.Contains(s, "s1 (burden 11)"))
	assert.Greater(t, len(strings.Split(s, "\n")), 10)
}

func TestAttributions(t *testing.T) {
	results := []cohort.Attribution{
		{Sample: "a", Contributions: map[string]float64{"SBS1": 20}},
		{Sample: "b", Contributions: map[string]float64{"SBS1": 6, "SBS5": 6}},
	}
	dir := t.TempDir()
	for _, name := range []string{"attributions.png", "attributions.svg"} {
		file := filepath.Join(dir, name)
		require.NoError(t, Attributions(results, []string{"SBS1", "SBS5"}, file))
		info, err := os.Stat(file)
		require.NoError(t, err)
		assert.Greater(t, info.Size(), int64(0))
	}
	assert.Error(t, Attributions(nil, []string{"SBS1"}, filepath.Join(dir, "empty.png")))
}
