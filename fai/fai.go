package fai

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/vertgenlab/gonomics/exception"
	"github.com/vertgenlab/gonomics/fileio"
)

// Index stores the contig records of a fasta index (.fai).
type Index struct {
	chroms  []chrOffset    // for search by index
	nameMap map[string]int // maps chr name to index in chroms
}

// String method for Index enables easy writing with the fmt package.
func (idx Index) String() string {
	answer := new(strings.Builder)
	for i := range idx.chroms {
		answer.WriteString(idx.chroms[i].String())
		answer.WriteByte('\n')
	}
	return answer.String()
}

// Has reports whether chr is a contig in the index.
func (idx Index) Has(chr string) bool {
	_, found := idx.nameMap[chr]
	return found
}

// Size returns the length of chr, or -1 if chr is not in the index.
func (idx Index) Size(chr string) int {
	i, found := idx.nameMap[chr]
	if !found {
		return -1
	}
	return idx.chroms[i].len
}

// Names returns contig names in file order.
func (idx Index) Names() []string {
	ans := make([]string, len(idx.chroms))
	for i := range idx.chroms {
		ans[i] = idx.chroms[i].name
	}
	return ans
}

// chrOffset has offset information about each reference. Equivalent to one line of a fai file.
type chrOffset struct {
	name         string // Name of this reference sequence
	len          int    // Total length of this reference sequence, in bases
	offset       int    // Offset within the FASTA file of this sequence's first base
	basesPerLine int    // The number of bases on each line
	bytesPerLine int    // The number of bytes in each line, including the newline
}

// String method for chrOffset enables easy writing with the fmt package.
func (c chrOffset) String() string {
	return fmt.Sprintf("%s\t%d\t%d\t%d\t%d", c.name, c.len, c.offset, c.basesPerLine, c.bytesPerLine)
}

// ReadIndex reads a fai index file.
func ReadIndex(filename string) (Index, error) {
	file := fileio.EasyOpen(filename)
	defer func() {
		exception.PanicOnErr(file.Close())
	}()

	var answer Index
	var curr chrOffset
	var line string
	var col []string
	var done bool
	var err error
	answer.nameMap = make(map[string]int)
	for line, done = fileio.EasyNextRealLine(file); !done; line, done = fileio.EasyNextRealLine(file) {
		col = strings.Split(line, "\t")
		if len(col) != 5 {
			return Index{}, fmt.Errorf("malformed index file: %s\nerror on line:\n%s", filename, line)
		}

		curr.name = col[0]
		if curr.len, err = strconv.Atoi(col[1]); err != nil {
			return Index{}, fmt.Errorf("malformed index file %s: %w", filename, err)
		}
		if curr.offset, err = strconv.Atoi(col[2]); err != nil {
			return Index{}, fmt.Errorf("malformed index file %s: %w", filename, err)
		}
		if curr.basesPerLine, err = strconv.Atoi(col[3]); err != nil {
			return Index{}, fmt.Errorf("malformed index file %s: %w", filename, err)
		}
		if curr.bytesPerLine, err = strconv.Atoi(col[4]); err != nil {
			return Index{}, fmt.Errorf("malformed index file %s: %w", filename, err)
		}

		answer.nameMap[curr.name] = len(answer.chroms)
		answer.chroms = append(answer.chroms, curr)
	}
	return answer, nil
}
