package types

import (
	"fmt"
	"strings"
)

// Reserved dependency relations
const (
	ROOT_LABEL    = "root"
	REMOVED_LABEL = "reparandum"
	DEFAULT_LABEL = "dep"
	TURN_LABEL    = "parataxis:turn"
	PUNCT_LABEL   = "punct"
)

const (
	// GLOBAL_ID_SEPARATOR splits a document id from a sentence number (sw2005~0012)
	GLOBAL_ID_SEPARATOR = "~"
	DFL_SEPARATOR       = "|"
)

// Token is a word as read from the corpus, after punctuation and traces
// have been stripped but before any disfluency pruning.
type Token struct {
	WordID   string
	Text     string
	XPOS     string
	DFL      string
	Speaker  string
	GlobalID string
	TurnID   string
}

// DocAndSentence splits the global id into document id and sentence number
func (t Token) DocAndSentence() (string, string, error) {
	parts := strings.Split(t.GlobalID, GLOBAL_ID_SEPARATOR)
	if len(parts) != 2 {
		return "", "", fmt.Errorf("malformed global id %q for word %s", t.GlobalID, t.WordID)
	}
	return parts[0], parts[1], nil
}

// DepToken is a row emitted by the external dependency converter.
// Head is 0 for root, otherwise a 1-based index into the converted sentence.
type DepToken struct {
	Index int
	Form  string
	UPOS  string
	XPOS  string
	Head  int
	Rel   string
}

// OutToken is a reconciled token. Head is 0 for root, otherwise a 1-based
// index into the original sentence.
type OutToken struct {
	Form string
	UPOS string
	XPOS string
	Head int
	Rel  string
	DFL  string
}

func (o OutToken) IsRoot() bool {
	return o.Head == 0
}

type Sentence struct {
	DocID   string
	SentNo  string
	TurnID  string
	Speaker string

	Orig []Token
	Out  []OutToken
}

// ID is the document scoped sentence identifier (sw2005_0012)
func (s *Sentence) ID() string {
	return fmt.Sprintf("%s_%s", s.DocID, s.SentNo)
}

// TaggedToken is a form with its universal tag, as written to the .pos side file
type TaggedToken struct {
	Token, POS string
}

type BasicTaggedSentence []TaggedToken

func (b BasicTaggedSentence) Tokens() []string {
	tokens := make([]string, len(b))
	for i, token := range b {
		tokens[i] = token.Token
	}
	return tokens
}

// Tagged projects a sentence's output tokens onto form/UPOS pairs
func (s *Sentence) Tagged() BasicTaggedSentence {
	tagged := make(BasicTaggedSentence, len(s.Out))
	for i, tok := range s.Out {
		tagged[i] = TaggedToken{tok.Form, tok.UPOS}
	}
	return tagged
}

// MakeDFL builds the discourse facts string: turn|edited|start|end
func MakeDFL(speaker, turnID string, edited bool, start, end string) string {
	turn := speaker
	if len(turnID) > 0 {
		turn += turnID[1:]
	}
	editedStr := "0"
	if edited {
		editedStr = "1"
	}
	return strings.Join([]string{turn, editedStr, start, end}, DFL_SEPARATOR)
}
