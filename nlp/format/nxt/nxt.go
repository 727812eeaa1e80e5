package nxt

// Package nxt reads the NXT release of the Switchboard treebank.
// A conversation swNNNN has one syntax, terminals and (optionally) turns file
// per speaker channel:
//
//	<root>/syntax/swNNNN.A.syntax.xml
//	<root>/terminals/swNNNN.A.terminals.xml
//	<root>/turns/swNNNN.A.turns.xml
//
// Syntax files hold parse elements of nested nt elements (cat attribute)
// whose leaves are nite:child references into the terminals file. Terminals
// are word (orth, pos, nite:start, nite:end), punc and trace elements. Turn
// elements reference the terminals they span, either one by one
// (#id(x)) or as a range (#id(x)..id(y)).

import (
	"encoding/xml"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"regexp"
	"sort"
	"strconv"
	"strings"

	"nxtud/nlp/tree"
	nlp "nxtud/nlp/types"
)

const (
	SYNTAX_DIR    = "syntax"
	TERMINALS_DIR = "terminals"
	TURNS_DIR     = "turns"

	SYNTAX_SUFFIX    = ".syntax.xml"
	TERMINALS_SUFFIX = ".terminals.xml"
	TURNS_SUFFIX     = ".turns.xml"

	DOC_PREFIX   = "sw"
	DEFAULT_TURN = "t0"
	PARTIAL_MARK = "-"
)

var SPEAKERS = []string{"A", "B"}

var (
	ErrMissingTerminal = errors.New("reference to unknown terminal")
	ErrMalformedHref   = errors.New("malformed nite:child href")

	hrefPattern = regexp.MustCompile(`#id\(([^)]+)\)(?:\.\.id\(([^)]+)\))?$`)
)

// element is a generic XML node that keeps its children in document order
type element struct {
	XMLName  xml.Name
	Attrs    []xml.Attr `xml:",any,attr"`
	Children []element  `xml:",any"`
	Text     string     `xml:",chardata"`
}

func (e *element) attr(local string) string {
	for _, a := range e.Attrs {
		if a.Name.Local == local {
			return a.Value
		}
	}
	return ""
}

func readElement(filename string) (*element, error) {
	data, err := os.ReadFile(filename)
	if err != nil {
		return nil, err
	}
	root := &element{}
	if err := xml.Unmarshal(data, root); err != nil {
		return nil, fmt.Errorf("%s: %w", filename, err)
	}
	return root, nil
}

// Terminal is a leaf of the syntax layer
type Terminal struct {
	ID    string
	Kind  string
	Text  string
	POS   string
	Start string
	End   string
}

// Timed reports whether the terminal carries a usable start time
func (t *Terminal) Timed() (float64, bool) {
	start, err := strconv.ParseFloat(t.Start, 64)
	if err != nil {
		return 0, false
	}
	return start, true
}

func (t *Terminal) Word() tree.Word {
	return tree.Word{
		Text:    t.Text,
		WordID:  t.ID,
		Start:   t.Start,
		End:     t.End,
		Punct:   t.Kind == "punc",
		Trace:   t.Kind == "trace",
		Partial: t.Kind == "word" && len(t.Text) > 1 && strings.HasSuffix(t.Text, PARTIAL_MARK),
	}
}

// Terminals indexes a channel's terminals by id, keeping file order for
// range references
type Terminals struct {
	Order []string
	ByID  map[string]*Terminal
	index map[string]int
}

func punctTag(text string) string {
	switch text {
	case "?", "!":
		return "."
	case "-", "--":
		return ":"
	}
	return text
}

func ReadTerminals(filename string) (*Terminals, error) {
	root, err := readElement(filename)
	if err != nil {
		return nil, err
	}
	terms := &Terminals{
		Order: make([]string, 0, len(root.Children)),
		ByID:  make(map[string]*Terminal, len(root.Children)),
		index: make(map[string]int, len(root.Children)),
	}
	for i := range root.Children {
		child := &root.Children[i]
		term := &Terminal{
			ID:    child.attr("id"),
			Kind:  child.XMLName.Local,
			Start: child.attr("start"),
			End:   child.attr("end"),
		}
		switch term.Kind {
		case "word":
			term.Text = child.attr("orth")
			if term.Text == "" {
				term.Text = strings.TrimSpace(child.Text)
			}
			term.POS = child.attr("pos")
		case "punc":
			term.Text = strings.TrimSpace(child.Text)
			term.POS = child.attr("pos")
			if term.POS == "" {
				term.POS = punctTag(term.Text)
			}
		case "trace":
			term.Text = strings.TrimSpace(child.Text)
			if term.Text == "" {
				term.Text = "*"
			}
			term.POS = tree.TRACE_LABEL
		default:
			continue
		}
		if term.ID == "" {
			return nil, fmt.Errorf("%s: %s terminal without id", filename, term.Kind)
		}
		terms.index[term.ID] = len(terms.Order)
		terms.Order = append(terms.Order, term.ID)
		terms.ByID[term.ID] = term
	}
	return terms, nil
}

// Resolve expands an href into the terminals it references
func (t *Terminals) Resolve(href string) ([]*Terminal, error) {
	match := hrefPattern.FindStringSubmatch(href)
	if match == nil {
		return nil, fmt.Errorf("%w: %q", ErrMalformedHref, href)
	}
	from, exists := t.index[match[1]]
	if !exists {
		return nil, fmt.Errorf("%w: %s", ErrMissingTerminal, match[1])
	}
	to := from
	if match[2] != "" {
		if to, exists = t.index[match[2]]; !exists {
			return nil, fmt.Errorf("%w: %s", ErrMissingTerminal, match[2])
		}
		if to < from {
			return nil, fmt.Errorf("%w: reversed range %q", ErrMalformedHref, href)
		}
	}
	result := make([]*Terminal, 0, to-from+1)
	for _, id := range t.Order[from : to+1] {
		result = append(result, t.ByID[id])
	}
	return result, nil
}

// ReadTurns maps terminal ids to the id of the turn they belong to
func ReadTurns(filename string, terms *Terminals) (map[string]string, error) {
	root, err := readElement(filename)
	if err != nil {
		return nil, err
	}
	turns := make(map[string]string, len(terms.Order))
	for i := range root.Children {
		turn := &root.Children[i]
		if turn.XMLName.Local != "turn" {
			continue
		}
		turnID := turn.attr("id")
		for j := range turn.Children {
			ref := &turn.Children[j]
			if ref.XMLName.Local != "child" {
				continue
			}
			spanned, err := terms.Resolve(ref.attr("href"))
			if err != nil {
				return nil, fmt.Errorf("%s turn %s: %w", filename, turnID, err)
			}
			for _, term := range spanned {
				turns[term.ID] = turnID
			}
		}
	}
	return turns, nil
}

type channel struct {
	speaker string
	terms   *Terminals
	turns   map[string]string
}

func (c *channel) build(t *tree.Tree, parent int, e *element) error {
	for i := range e.Children {
		child := &e.Children[i]
		switch child.XMLName.Local {
		case "nt":
			id := t.AddNode(parent, child.attr("cat"))
			if err := c.build(t, id, child); err != nil {
				return err
			}
		case "child":
			terms, err := c.terms.Resolve(child.attr("href"))
			if err != nil {
				return err
			}
			for _, term := range terms {
				t.AddWord(parent, term.POS, term.Word())
			}
		}
	}
	return nil
}

// parse converts a parse element into a tree under an unlabeled wrapper root
func (c *channel) parse(e *element) (*tree.Tree, float64, bool, error) {
	t := tree.New("")
	t.Speaker = c.speaker
	t.TurnID = DEFAULT_TURN
	if err := c.build(t, t.Root, e); err != nil {
		return nil, 0, false, err
	}
	var (
		start    float64
		timed    bool
		turnSeen bool
	)
	for _, id := range t.ListWords() {
		word := t.Node(id)
		term := c.terms.ByID[word.WordID]
		if !timed {
			start, timed = term.Timed()
		}
		if turn, exists := c.turns[word.WordID]; exists && !turnSeen {
			t.TurnID = turn
			turnSeen = true
		}
	}
	return t, start, timed, nil
}

// Document is a conversation's sentences in time order
type Document struct {
	ID    string
	Trees []*tree.Tree
}

type timedTree struct {
	tree  *tree.Tree
	start float64
}

type Corpus struct {
	Root string
}

func New(root string) *Corpus {
	return &Corpus{Root: root}
}

func (c *Corpus) path(dir, doc, speaker, suffix string) string {
	return filepath.Join(c.Root, dir, doc+"."+speaker+suffix)
}

// Documents lists the conversation ids that have syntax annotation
func (c *Corpus) Documents() ([]string, error) {
	files, err := filepath.Glob(filepath.Join(c.Root, SYNTAX_DIR, DOC_PREFIX+"*"+SYNTAX_SUFFIX))
	if err != nil {
		return nil, err
	}
	seen := make(map[string]bool, len(files))
	docs := make([]string, 0, len(files)/2+1)
	for _, file := range files {
		base := strings.TrimSuffix(filepath.Base(file), SYNTAX_SUFFIX)
		doc := strings.SplitN(base, ".", 2)[0]
		if !seen[doc] {
			seen[doc] = true
			docs = append(docs, doc)
		}
	}
	sort.Strings(docs)
	return docs, nil
}

// DocNumber is the numeric part of a conversation id (sw2005 → 2005)
func DocNumber(doc string) (int, error) {
	return strconv.Atoi(strings.TrimPrefix(doc, DOC_PREFIX))
}

func (c *Corpus) readChannel(doc, speaker string) ([]timedTree, error) {
	syntaxFile := c.path(SYNTAX_DIR, doc, speaker, SYNTAX_SUFFIX)
	if _, err := os.Stat(syntaxFile); os.IsNotExist(err) {
		return nil, nil
	}
	terms, err := ReadTerminals(c.path(TERMINALS_DIR, doc, speaker, TERMINALS_SUFFIX))
	if err != nil {
		return nil, err
	}
	ch := &channel{speaker: speaker, terms: terms, turns: map[string]string{}}
	turnsFile := c.path(TURNS_DIR, doc, speaker, TURNS_SUFFIX)
	if _, err := os.Stat(turnsFile); err == nil {
		if ch.turns, err = ReadTurns(turnsFile, terms); err != nil {
			return nil, err
		}
	}
	root, err := readElement(syntaxFile)
	if err != nil {
		return nil, err
	}
	var (
		trees []timedTree
		last  float64
	)
	for i := range root.Children {
		e := &root.Children[i]
		if e.XMLName.Local != "parse" {
			continue
		}
		t, start, timed, err := ch.parse(e)
		if err != nil {
			return nil, fmt.Errorf("%s parse %s: %w", syntaxFile, e.attr("id"), err)
		}
		// untimed sentences stay behind their predecessor in the channel
		if timed {
			last = start
		}
		trees = append(trees, timedTree{t, last})
	}
	return trees, nil
}

// ReadDocument reads both channels of a conversation, orders the sentences
// by start time and assigns their global ids
func (c *Corpus) ReadDocument(doc string) (*Document, error) {
	var all []timedTree
	for _, speaker := range SPEAKERS {
		trees, err := c.readChannel(doc, speaker)
		if err != nil {
			return nil, err
		}
		all = append(all, trees...)
	}
	if len(all) == 0 {
		return nil, fmt.Errorf("no syntax files for %s under %s", doc, c.Root)
	}
	sort.SliceStable(all, func(i, j int) bool {
		return all[i].start < all[j].start
	})
	result := &Document{ID: doc, Trees: make([]*tree.Tree, len(all))}
	for i, tt := range all {
		tt.tree.GlobalID = fmt.Sprintf("%s%s%04d", doc, nlp.GLOBAL_ID_SEPARATOR, i+1)
		result.Trees[i] = tt.tree
	}
	return result, nil
}
