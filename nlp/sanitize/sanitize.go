package sanitize

// Package sanitize strips speech artifacts from Switchboard parse trees
// before dependency conversion.

import (
	"fmt"
	"sort"
	"strings"

	"nxtud/nlp/tree"
	nlp "nxtud/nlp/types"
)

type PunctTracePartial struct {
	Punct   bool `yaml:"punct"`
	Trace   bool `yaml:"trace"`
	Partial bool `yaml:"partial"`
}

// Options selects the classes of nodes that are removed. The zero value
// removes nothing.
type Options struct {
	TerminalPunctuation bool              `yaml:"strip_terminal_punctuation"`
	PunctTracePartial   PunctTracePartial `yaml:"strip_punct_trace_partial"`
	Disfluencies        bool              `yaml:"strip_disfluency_subtrees"`
	Fillers             bool              `yaml:"strip_fillers"`
	DiscourseMarkers    bool              `yaml:"strip_discourse_markers"`
	PruneEmpty          bool              `yaml:"prune_empty_subtrees"`
}

// DefaultOptions keeps disfluencies, fillers and discourse markers in the output
func DefaultOptions() Options {
	return Options{
		TerminalPunctuation: true,
		PunctTracePartial:   PunctTracePartial{Punct: true, Trace: true},
	}
}

var optionSetters = map[string]func(*Options){
	"strip_terminal_punctuation": func(o *Options) { o.TerminalPunctuation = true },
	"strip_punct_trace_partial": func(o *Options) {
		o.PunctTracePartial = PunctTracePartial{true, true, true}
	},
	"strip_punct":               func(o *Options) { o.PunctTracePartial.Punct = true },
	"strip_trace":               func(o *Options) { o.PunctTracePartial.Trace = true },
	"strip_partial":             func(o *Options) { o.PunctTracePartial.Partial = true },
	"strip_disfluency_subtrees": func(o *Options) { o.Disfluencies = true },
	"strip_fillers":             func(o *Options) { o.Fillers = true },
	"strip_discourse_markers":   func(o *Options) { o.DiscourseMarkers = true },
	"prune_empty_subtrees":      func(o *Options) { o.PruneEmpty = true },
}

// OptionNames lists the names accepted by Enable
func OptionNames() []string {
	names := make([]string, 0, len(optionSetters))
	for name := range optionSetters {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Enable turns on a removal class by name
func (o *Options) Enable(name string) error {
	setter, exists := optionSetters[name]
	if !exists {
		return fmt.Errorf("unknown sanitizer option %q, expected one of %s", name, strings.Join(OptionNames(), ", "))
	}
	setter(o)
	return nil
}

var DISCOURSE_MARKERS = [][]string{
	{"you", "know"},
	{"i", "mean"},
}

type Sanitizer struct {
	Options Options
}

func New(opts Options) *Sanitizer {
	return &Sanitizer{opts}
}

// Sanitize mutates t. It returns the sentence's tokens as they stand after
// punctuation and trace removal, and the word ids that survive all pruning
// in tree order.
func (s *Sanitizer) Sanitize(t *tree.Tree) ([]nlp.Token, []string, error) {
	if err := s.speechify(t); err != nil {
		return nil, nil, err
	}
	orig := Tokens(t)
	if err := s.prune(t); err != nil {
		return nil, nil, err
	}
	words := t.ListWords()
	survivors := make([]string, len(words))
	for i, id := range words {
		survivors[i] = t.Node(id).WordID
	}
	return orig, survivors, nil
}

// Tokens captures the current words of t with their discourse facts
func Tokens(t *tree.Tree) []nlp.Token {
	words := t.ListWords()
	tokens := make([]nlp.Token, len(words))
	for i, id := range words {
		node := t.Node(id)
		tokens[i] = nlp.Token{
			WordID:   node.WordID,
			Text:     node.Text,
			XPOS:     node.Label,
			DFL:      nlp.MakeDFL(t.Speaker, t.TurnID, t.IsEdited(id), node.Start, node.End),
			Speaker:  t.Speaker,
			GlobalID: t.GlobalID,
			TurnID:   t.TurnID,
		}
	}
	return tokens
}

func (s *Sanitizer) speechify(t *tree.Tree) error {
	opts := s.Options.PunctTracePartial
	words := t.ListWords()
	stripped := make([]bool, len(words))
	survivors := len(words)
	for i, id := range words {
		node := t.Node(id)
		if t.HasGrandparent(id) && ((opts.Punct && node.Punct) || (opts.Trace && node.Trace) || (opts.Partial && node.Partial)) {
			stripped[i] = true
			survivors--
		}
	}
	for i, id := range words {
		node := t.Node(id)
		// a terminal ? or ! is kept when it is all that remains
		if !stripped[i] && t.HasGrandparent(id) && s.Options.TerminalPunctuation && survivors > 1 && (node.Text == "?" || node.Text == "!") {
			stripped[i] = true
		}
		if stripped[i] {
			if err := t.Prune(id); err != nil {
				return err
			}
			continue
		}
		node.Text = strings.ToLower(node.Text)
	}
	return nil
}

func (s *Sanitizer) prune(t *tree.Tree) error {
	if s.Options.Disfluencies {
		if err := pruneWhere(t, func(id int) bool {
			return t.Node(id).Label == tree.EDITED_LABEL
		}); err != nil {
			return err
		}
	}
	if s.Options.Fillers {
		if err := pruneWhere(t, func(id int) bool {
			node := t.Node(id)
			return node.IsWord && node.Label == tree.FILLER_LABEL
		}); err != nil {
			return err
		}
	}
	if s.Options.DiscourseMarkers {
		if err := pruneWhere(t, func(id int) bool {
			return t.Node(id).Label == tree.PRN_LABEL && isDiscourseMarker(t.Texts(t.WordsUnder(id)))
		}); err != nil {
			return err
		}
	}
	if s.Options.PruneEmpty {
		if err := pruneWhere(t, func(id int) bool {
			return !t.Node(id).IsWord && len(t.WordsUnder(id)) == 0
		}); err != nil {
			return fmt.Errorf("pruning empty subtrees of %s: %w", t.String(), err)
		}
	}
	return nil
}

// pruneWhere visits a snapshot of the tree in pre-order and prunes every
// still attached, non-root node matching pred
func pruneWhere(t *tree.Tree, pred func(int) bool) error {
	for _, id := range t.DepthList() {
		if id == t.Root || !t.Attached(id) || !pred(id) {
			continue
		}
		if err := t.Prune(id); err != nil {
			return err
		}
	}
	return nil
}

func isDiscourseMarker(words []string) bool {
	for _, marker := range DISCOURSE_MARKERS {
		if len(marker) != len(words) {
			continue
		}
		match := true
		for i := range marker {
			if marker[i] != words[i] {
				match = false
				break
			}
		}
		if match {
			return true
		}
	}
	return false
}
