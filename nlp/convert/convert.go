package convert

// Package convert turns constituency trees into dependency rows by batching
// them through an external converter.

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"strconv"
	"strings"

	"nxtud/nlp/tree"
	nlp "nxtud/nlp/types"
)

const (
	// EMPTY_TREE stands in for a sentence with no words left, so that output
	// blocks stay aligned with input sentences
	EMPTY_TREE = "(S (SYM -EMPTY-) )"

	MALFORMED_HEAD = "_"
	MIN_FIELDS     = 8
)

var ErrBlockCount = errors.New("converter output does not match input")

// Converter runs a batch of bracketed trees, one per line, and returns
// dependency text with one blank line separated block per tree.
type Converter interface {
	Convert(ctx context.Context, trees []string) (string, error)
}

type ConverterFunc func(ctx context.Context, trees []string) (string, error)

func (f ConverterFunc) Convert(ctx context.Context, trees []string) (string, error) {
	return f(ctx, trees)
}

// Serialize renders each tree on its own line
func Serialize(trees []*tree.Tree) []string {
	lines := make([]string, len(trees))
	for i, t := range trees {
		if len(t.ListWords()) == 0 {
			lines[i] = EMPTY_TREE
		} else {
			lines[i] = t.String()
		}
	}
	return lines
}

// ParseRow reads one converter line. A "_" head (a known converter defect)
// attaches the token to its predecessor with the default relation.
func ParseRow(line string) (nlp.DepToken, error) {
	var tok nlp.DepToken
	fields := strings.Fields(line)
	if len(fields) < MIN_FIELDS {
		return tok, fmt.Errorf("expected at least %d fields, got %d in %q", MIN_FIELDS, len(fields), line)
	}
	index, err := strconv.Atoi(fields[0])
	if err != nil {
		return tok, fmt.Errorf("error parsing index field (%s): %w", fields[0], err)
	}
	tok.Index = index
	tok.Form = fields[1]
	tok.UPOS = fields[3]
	tok.XPOS = fields[4]
	if fields[6] == MALFORMED_HEAD {
		tok.Head = index - 1
		tok.Rel = nlp.DEFAULT_LABEL
		return tok, nil
	}
	tok.Head, err = strconv.Atoi(fields[6])
	if err != nil {
		return tok, fmt.Errorf("error parsing head field (%s): %w", fields[6], err)
	}
	tok.Rel = fields[7]
	return tok, nil
}

// ParseOutput splits converter output into per-sentence blocks
func ParseOutput(text string) ([][]nlp.DepToken, error) {
	var (
		blocks  [][]nlp.DepToken
		current []nlp.DepToken
		line    int
	)
	scanner := bufio.NewScanner(strings.NewReader(text))
	scanner.Buffer(make([]byte, 0, 16384), 1<<20)
	for scanner.Scan() {
		line++
		curLine := strings.TrimSpace(scanner.Text())
		if len(curLine) == 0 {
			if len(current) > 0 {
				blocks = append(blocks, current)
				current = nil
			}
			continue
		}
		tok, err := ParseRow(curLine)
		if err != nil {
			return nil, fmt.Errorf("converter output line %d: %w", line, err)
		}
		current = append(current, tok)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(current) > 0 {
		blocks = append(blocks, current)
	}
	return blocks, nil
}

// Trees converts a batch of trees and checks that every tree got a block of
// the right length
func Trees(ctx context.Context, conv Converter, trees []*tree.Tree) ([][]nlp.DepToken, error) {
	output, err := conv.Convert(ctx, Serialize(trees))
	if err != nil {
		return nil, err
	}
	blocks, err := ParseOutput(output)
	if err != nil {
		return nil, err
	}
	if len(blocks) != len(trees) {
		return nil, fmt.Errorf("%w: %d blocks for %d trees", ErrBlockCount, len(blocks), len(trees))
	}
	for i, t := range trees {
		words := len(t.ListWords())
		if words > 0 && len(blocks[i]) != words {
			return nil, fmt.Errorf("%w: sentence %s has %d words but %d rows", ErrBlockCount, t.GlobalID, words, len(blocks[i]))
		}
	}
	return blocks, nil
}
