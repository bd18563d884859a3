package split

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const header = "##fileformat=VCFv4.2\n" +
	"##contig=<ID=chr1,length=20>\n" +
	"##FORMAT=<ID=GT,Number=1,Type=String,Description=\"Genotype\">\n"

func readFile(t *testing.T, file string) string {
	b, err := os.ReadFile(file)
	require.NoError(t, err)
	return string(b)
}

func TestSplitFile(t *testing.T) {
	for _, input := range []string{"testdata/multi.vcf", "testdata/multi.vcf.gz"} {
		dir := t.TempDir()
		samples, err := SplitFile(input, dir, NoColumn)
		require.NoError(t, err, input)
		assert.Equal(t, []string{"a", "b", "c"}, samples)

		assert.Equal(t, header+
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ta\n"+
			"chr1\t2\t.\tC\tT\t50\tPASS\t.\tGT:DP\t0/1:10\n"+
			"chr1\t7\t.\tG\tA\t50\tPASS\t.\tGT\t1\n",
			readFile(t, filepath.Join(dir, "a.vcf")))
		assert.Equal(t, header+
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tb\n",
			readFile(t, filepath.Join(dir, "b.vcf")))
		assert.Equal(t, header+
			"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\tc\n"+
			"chr1\t2\t.\tC\tT\t50\tPASS\t.\tGT:DP\t1|1:4\n"+
			"chr1\t4\t.\tT\tG\t50\tPASS\t.\tGT:DP\t0/1:8\n",
			readFile(t, filepath.Join(dir, "c.vcf")))
	}
}

func TestSplitDisableColumn(t *testing.T) {
	dir := t.TempDir()
	samples, err := SplitFile("testdata/multi.vcf", dir, 1)
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "c"}, samples)
	_, err = os.Stat(filepath.Join(dir, "b.vcf"))
	assert.True(t, os.IsNotExist(err))
}

func TestSplitMalformed(t *testing.T) {
	_, err := Split(strings.NewReader(header+"chr1\t2\t.\tC\tT\n"), t.TempDir(), NoColumn)
	assert.Error(t, err)

	_, err = Split(strings.NewReader(header+"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\n"), t.TempDir(), NoColumn)
	assert.Error(t, err)

	_, err = Split(strings.NewReader(header+"#CHROM\tPOS\tID\tREF\tALT\tQUAL\tFILTER\tINFO\tFORMAT\ta\nchr1\t2\t.\tC\tT\n"), t.TempDir(), NoColumn)
	assert.Error(t, err)
}

func TestHasAlt(t *testing.T) {
	for cell, expected := range map[string]bool{
		"0/1":     true,
		"1|1:4":   true,
		"1":       true,
		"./1":     true,
		"0/2:3,4": true,
		".":       false,
		".:.":     false,
		"./.":     false,
		".|.:0":   false,
		"0/0:12":  false,
		"0":       false,
	} {
		assert.Equal(t, expected, HasAlt(cell), cell)
	}
}
