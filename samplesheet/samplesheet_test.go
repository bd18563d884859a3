package samplesheet

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestReadWrite(t *testing.T) {
	entries := []Entry{
		{Id: "SJACT001_D", Tissue: "Adrenocortical carcinoma"},
		{Id: "SJOS002_D", Tissue: "Osteosarcoma"},
	}
	var buf bytes.Buffer
	require.NoError(t, write(&buf, entries))
	assert.True(t, strings.HasPrefix(buf.String(), "id\ttissue\n"))

	read, err := read(&buf)
	require.NoError(t, err)
	assert.Equal(t, entries, read)
	assert.Equal(t, map[string]string{
		"SJACT001_D": "Adrenocortical carcinoma",
		"SJOS002_D":  "Osteosarcoma",
	}, Tissues(read))
}

func TestReadDuplicate(t *testing.T) {
	_, err := read(strings.NewReader("id\ttissue\ns1\tA\ns1\tB\n"))
	assert.Error(t, err)
	_, err = read(strings.NewReader("id\ttissue\n\tA\n"))
	assert.Error(t, err)
}

func TestGenerate(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"b.vcf", "a.vcf.gz", "notes.txt", ".vcf"} {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), nil, 0644))
	}
	require.NoError(t, os.Mkdir(filepath.Join(dir, "c.vcf"), 0755))

	entries, err := Generate(dir)
	require.NoError(t, err)
	assert.Equal(t, []Entry{{Id: "a", Tissue: UnknownTissue}, {Id: "b", Tissue: UnknownTissue}}, entries)

	assert.Equal(t, filepath.Join(dir, "a.vcf.gz"), VcfPath(dir, "a"))
	assert.Equal(t, filepath.Join(dir, "b.vcf"), VcfPath(dir, "b"))
	assert.Equal(t, "", VcfPath(dir, "c"))
	assert.Equal(t, "", VcfPath(dir, "notes"))

	file := filepath.Join(dir, "samples.tsv")
	require.NoError(t, Write(file, entries))
	read, err := Read(file)
	require.NoError(t, err)
	assert.Equal(t, entries, read)
}
