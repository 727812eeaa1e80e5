package turns

import (
	"fmt"
	"io"
	"path/filepath"
	"sort"

	"nxtud/nlp/format/conllu"
)

// DocumentFiles lists the per-document files of a split in sorted order
func DocumentFiles(dir, split string) ([]string, error) {
	files, err := filepath.Glob(filepath.Join(dir, split, "*.txt"))
	if err != nil {
		return nil, err
	}
	sort.Strings(files)
	return files, nil
}

// MergeFiles merges each document file and writes the turns in file order.
// It returns the number of turns written.
func MergeFiles(files []string, writer io.Writer) (int, error) {
	var written int
	for _, file := range files {
		sents, err := conllu.ReadFile(file)
		if err != nil {
			return written, fmt.Errorf("reading %s: %w", file, err)
		}
		merged, err := MergeDocument(sents)
		if err != nil {
			return written, fmt.Errorf("merging %s: %w", file, err)
		}
		if err := conllu.Write(writer, merged); err != nil {
			return written, err
		}
		written += len(merged)
	}
	return written, nil
}
