package util

import (
	"bufio"
	"crypto/md5"
	"fmt"
	"io"
	"os"
)

// FileStats describes a written CoNLL-U file
type FileStats struct {
	Sentences int
	Tokens    int
	MD5       string
}

// CoNLLStats counts blocks and token rows of a CoNLL-U file and digests it
func CoNLLStats(fileName string) (*FileStats, error) {
	file, err := os.Open(fileName)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	var (
		stats   FileStats
		inBlock bool
	)
	digest := md5.New()
	scanner := bufio.NewScanner(io.TeeReader(file, digest))
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		line := scanner.Text()
		switch {
		case len(line) == 0:
			inBlock = false
		case line[0] == '#':
			if !inBlock {
				inBlock = true
				stats.Sentences++
			}
		default:
			if !inBlock {
				inBlock = true
				stats.Sentences++
			}
			stats.Tokens++
		}
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	stats.MD5 = fmt.Sprintf("%x", digest.Sum(nil))
	return &stats, nil
}
