package taggedsentence

// Package taggedsentence reads and writes word/TAG files, one sentence per
// line, tokens separated by spaces

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	nlp "nxtud/nlp/types"
)

const (
	TOKEN_SEPARATOR = " "
	TAG_SEPARATOR   = "/"
)

func Read(reader io.Reader) ([]nlp.BasicTaggedSentence, error) {
	var (
		sentences          []nlp.BasicTaggedSentence
		taggedTokenStrings []string
		taggedToken        []string
	)
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for i := 1; scanner.Scan(); i++ {
		line := scanner.Text()
		if len(line) == 0 {
			continue
		}
		taggedTokenStrings = strings.Split(line, TOKEN_SEPARATOR)
		sent := make(nlp.BasicTaggedSentence, len(taggedTokenStrings))
		for j, taggedTokenString := range taggedTokenStrings {
			taggedToken = strings.Split(taggedTokenString, TAG_SEPARATOR)
			if len(taggedToken) < 2 {
				return nil, errors.New("Got untagged token: " + taggedTokenString + " at line " + fmt.Sprintf("%v", i))
			}
			sent[j] = nlp.TaggedToken{
				Token: strings.Join(taggedToken[:len(taggedToken)-1], TAG_SEPARATOR),
				POS:   taggedToken[len(taggedToken)-1],
			}
		}
		sentences = append(sentences, sent)
	}
	return sentences, scanner.Err()
}

func ReadFile(filename string) ([]nlp.BasicTaggedSentence, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// WriteSentence writes one sentence line
func WriteSentence(writer io.Writer, sent nlp.BasicTaggedSentence) error {
	tokens := make([]string, len(sent))
	for i, token := range sent {
		tokens[i] = token.Token + TAG_SEPARATOR + token.POS
	}
	_, err := io.WriteString(writer, strings.Join(tokens, TOKEN_SEPARATOR)+"\n")
	return err
}

func Write(writer io.Writer, sents []nlp.BasicTaggedSentence) error {
	for _, sent := range sents {
		if err := WriteSentence(writer, sent); err != nil {
			return err
		}
	}
	return nil
}
