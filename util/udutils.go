package util

import (
	"errors"
	"fmt"

	nlp "nxtud/nlp/types"
)

var ErrUnmappedTag = errors.New("PTB to UD conversion undefined")

const PUNCT_TAG = "PUNCT"

var (
	UD_TAGS = map[string]bool{
		"ADJ": true, "ADP": true, "ADV": true, "AUX": true, "CCONJ": true,
		"DET": true, "INTJ": true, "NOUN": true, "NUM": true, "PART": true,
		"PRON": true, "PROPN": true, "PUNCT": true, "SCONJ": true, "SYM": true,
		"VERB": true, "X": true,
	}

	// https://universaldependencies.org/tagset-conversion/en-penn-uposf.html
	// The Switchboard specific rows (BES, HVS, GW, XX, TO|IN, UH|IN) and the
	// punctuation rows are local decisions.
	PTB2UDPOS = map[string]string{
		"BES":   "AUX",
		"CC":    "CCONJ",
		"CD":    "NUM",
		"DT":    "DET",
		"EX":    "PRON",
		"FW":    "X",
		"IN":    "ADP",
		"JJ":    "ADJ",
		"JJR":   "ADJ",
		"JJS":   "ADJ",
		"LS":    "X",
		"MD":    "VERB",
		"NN":    "NOUN",
		"NNP":   "PROPN",
		"NNPS":  "PROPN",
		"NNS":   "NOUN",
		"PDT":   "DET",
		"POS":   "PART",
		"PRP":   "PRON",
		"PRP$":  "DET",
		"RB":    "ADV",
		"RBR":   "ADV",
		"RBS":   "ADV",
		"RP":    "ADP",
		"TO":    "PART",
		"UH":    "INTJ",
		"VB":    "VERB",
		"VBD":   "VERB",
		"VBG":   "VERB",
		"VBN":   "VERB",
		"VBP":   "VERB",
		"VBZ":   "VERB",
		"WDT":   "DET",
		"WP":    "PRON",
		"WP$":   "DET",
		"WRB":   "ADV",
		"HVS":   "AUX",
		"GW":    "X",
		"XX":    "X",
		"TO|IN": "ADP",
		"UH|IN": "INTJ",
		"$":     "SYM",
		"#":     "SYM",
		"!":     "PUNCT",
		".":     "PUNCT",
		",":     "PUNCT",
		":":     "PUNCT",
		"-LRB-": "PUNCT",
		"-RRB-": "PUNCT",
	}
)

// TagRule rewrites a (UPOS, relation) pair when its predicate holds
type TagRule struct {
	Name    string
	Applies func(upos, rel string) bool
	Rewrite func(upos, rel string) (string, string)
}

// UD_RULES are evaluated in order, each at most once, after the table lookup.
// They fix combinations the UD validator rejects.
var UD_RULES = []TagRule{
	{
		Name:    "copula is AUX",
		Applies: func(upos, rel string) bool { return rel == "cop" && upos != "AUX" },
		Rewrite: func(upos, rel string) (string, string) { return "AUX", rel },
	},
	{
		Name:    "PUNCT attaches as punct",
		Applies: func(upos, rel string) bool { return upos == PUNCT_TAG && rel != nlp.PUNCT_LABEL },
		Rewrite: func(upos, rel string) (string, string) { return upos, nlp.PUNCT_LABEL },
	},
	{
		Name:    "cc determiner is CCONJ",
		Applies: func(upos, rel string) bool { return rel == "cc" && upos == "DET" },
		Rewrite: func(upos, rel string) (string, string) { return "CCONJ", rel },
	},
	{
		Name:    "det adverb is DET",
		Applies: func(upos, rel string) bool { return rel == "det" && upos == "ADV" },
		Rewrite: func(upos, rel string) (string, string) { return "DET", rel },
	},
	{
		Name:    "mark determiner is SCONJ",
		Applies: func(upos, rel string) bool { return rel == "mark" && upos == "DET" },
		Rewrite: func(upos, rel string) (string, string) { return "SCONJ", rel },
	},
	{
		Name:    "nummod determiner is det",
		Applies: func(upos, rel string) bool { return rel == "nummod" && upos == "DET" },
		Rewrite: func(upos, rel string) (string, string) { return upos, "det" },
	},
}

// UDTag maps a tag to the universal tag set. Universal tags pass through.
func UDTag(pos string) (string, error) {
	if UD_TAGS[pos] {
		return pos, nil
	}
	upos, exists := PTB2UDPOS[pos]
	if !exists {
		return "", fmt.Errorf("%w: %q", ErrUnmappedTag, pos)
	}
	return upos, nil
}

// ApplyRules runs UD_RULES over an already universal pair
func ApplyRules(upos, rel string) (string, string) {
	for _, rule := range UD_RULES {
		if rule.Applies(upos, rel) {
			upos, rel = rule.Rewrite(upos, rel)
		}
	}
	return upos, rel
}

// NormalizeTag infers the UD v2 tag from a PTB or UD tag and a relation
func NormalizeTag(pos, rel string) (string, string, error) {
	upos, err := UDTag(pos)
	if err != nil {
		return "", "", err
	}
	upos, rel = ApplyRules(upos, rel)
	return upos, rel, nil
}
