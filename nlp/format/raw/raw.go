package raw

// Package raw reads and writes raw text files
// raw files contain a sentence per line

import (
	"bufio"
	"io"
	"os"
)

func Read(reader io.Reader, limit int) ([]string, error) {
	var sentences []string
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for scanner.Scan() {
		if len(scanner.Text()) == 0 {
			continue
		}
		sentences = append(sentences, scanner.Text())
		if limit > 0 && len(sentences) >= limit {
			break
		}
	}
	return sentences, scanner.Err()
}

func ReadFile(filename string, limit int) ([]string, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file, limit)
}

func Write(writer io.Writer, sents []string) error {
	for _, sent := range sents {
		if _, err := io.WriteString(writer, sent+"\n"); err != nil {
			return err
		}
	}
	return nil
}
