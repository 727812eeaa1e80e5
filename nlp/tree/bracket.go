package tree

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// Penn tags carried by punctuation terminals
var PUNCT_TAGS = map[string]bool{
	".": true, ",": true, ":": true, "``": true, "''": true,
	"-LRB-": true, "-RRB-": true, "HYPH": true, "NFP": true,
}

func tokenize(s string) []string {
	s = strings.Replace(s, "(", " ( ", -1)
	s = strings.Replace(s, ")", " ) ", -1)
	return strings.Fields(s)
}

type bracketParser struct {
	tokens []string
	pos    int
	words  int
	tree   *Tree
}

func (p *bracketParser) next() (string, error) {
	if p.pos >= len(p.tokens) {
		return "", errors.New("unexpected end of tree")
	}
	tok := p.tokens[p.pos]
	p.pos++
	return tok, nil
}

func (p *bracketParser) peek() string {
	if p.pos >= len(p.tokens) {
		return ""
	}
	return p.tokens[p.pos]
}

func (p *bracketParser) node(parent int) error {
	if tok, err := p.next(); err != nil {
		return err
	} else if tok != "(" {
		return fmt.Errorf("expected '(' at token %d, got %q", p.pos-1, tok)
	}
	var label string
	if tok := p.peek(); tok != "(" && tok != ")" {
		label, _ = p.next()
	}
	if tok := p.peek(); tok != "(" && tok != ")" && tok != "" {
		if parent == NONE {
			return errors.New("tree root cannot be a terminal")
		}
		text, _ := p.next()
		p.words++
		p.tree.AddWord(parent, label, Word{
			Text:    text,
			WordID:  strconv.Itoa(p.words),
			Punct:   PUNCT_TAGS[label],
			Trace:   label == TRACE_LABEL,
			Partial: len(text) > 1 && strings.HasSuffix(text, "-"),
		})
		return p.close()
	}
	var id int
	if parent == NONE {
		p.tree = New(label)
		id = p.tree.Root
	} else {
		id = p.tree.AddNode(parent, label)
	}
	for p.peek() == "(" {
		if err := p.node(id); err != nil {
			return err
		}
	}
	return p.close()
}

func (p *bracketParser) close() error {
	tok, err := p.next()
	if err != nil {
		return err
	}
	if tok != ")" {
		return fmt.Errorf("expected ')' at token %d, got %q", p.pos-1, tok)
	}
	return nil
}

// Parse reads a single bracketed tree. Word ids are assigned 1..n in order.
func Parse(s string) (*Tree, error) {
	p := &bracketParser{tokens: tokenize(s)}
	if len(p.tokens) == 0 {
		return nil, errors.New("empty tree")
	}
	if err := p.node(NONE); err != nil {
		return nil, err
	}
	if p.pos != len(p.tokens) {
		return nil, fmt.Errorf("trailing tokens after tree: %v", p.tokens[p.pos:])
	}
	return p.tree, nil
}
