package align

// Package align maps dependency rows produced on a pruned sentence back onto
// the sentence's original token sequence and repairs the result so that it
// has exactly one root.

import (
	"errors"
	"fmt"

	nlp "nxtud/nlp/types"
	"nxtud/util"
)

var ErrMultipleRoots = errors.New("multiple roots")

// Alignment holds the two lookup tables between original and converted
// positions, both 0-based. Only tokens that survived pruning appear.
type Alignment struct {
	OrigToConv map[int]int
	ConvToOrig map[int]int
}

// NewAlignment pairs original tokens with the surviving word ids, which are
// listed in converted order.
func NewAlignment(orig []nlp.Token, survivors []string) (*Alignment, error) {
	wordToConv := make(map[string]int, len(survivors))
	for i, wordID := range survivors {
		wordToConv[wordID] = i
	}
	a := &Alignment{
		OrigToConv: make(map[int]int, len(survivors)),
		ConvToOrig: make(map[int]int, len(survivors)),
	}
	for i, token := range orig {
		if conv, exists := wordToConv[token.WordID]; exists {
			a.OrigToConv[i] = conv
			a.ConvToOrig[conv] = i
		}
	}
	if len(a.ConvToOrig) != len(survivors) {
		return nil, fmt.Errorf("%d of %d surviving words have no original token", len(survivors)-len(a.ConvToOrig), len(survivors))
	}
	return a, nil
}

// TransferHeads builds one output token per original token
func TransferHeads(orig []nlp.Token, survivors []string, conv []nlp.DepToken) ([]nlp.OutToken, error) {
	if len(survivors) > 0 && len(conv) != len(survivors) {
		return nil, fmt.Errorf("converter returned %d tokens for %d words", len(conv), len(survivors))
	}
	alignment, err := NewAlignment(orig, survivors)
	if err != nil {
		return nil, err
	}
	tokens := make([]nlp.OutToken, len(orig))
	for i, token := range orig {
		out := nlp.OutToken{Form: token.Text, XPOS: token.XPOS, DFL: token.DFL}
		if convPos, survived := alignment.OrigToConv[i]; survived {
			dep := conv[convPos]
			if dep.Head == 0 {
				out.Head = 0
			} else {
				origHead, exists := alignment.ConvToOrig[dep.Head-1]
				if !exists {
					return nil, fmt.Errorf("head %d of word %s is outside the converted sentence", dep.Head, token.WordID)
				}
				out.Head = origHead + 1
			}
			out.UPOS, out.Rel, err = util.NormalizeTag(dep.UPOS, dep.Rel)
		} else {
			// the previous token in 1-based terms; 0 (root) for a leading token
			out.Head = i
			out.Rel = nlp.REMOVED_LABEL
			out.UPOS, err = util.UDTag(token.XPOS)
		}
		if err != nil {
			return nil, fmt.Errorf("word %s (%s): %w", token.WordID, token.Text, err)
		}
		tokens[i] = out
	}
	return EnforceSingleRoot(tokens)
}

// pickRoot chooses between two head-0 tokens. A removed token yields to a
// kept one; between two kept tokens the one labelled root wins, and the later
// one on a tie. Two removed tokens keep the first.
func pickRoot(tokens []nlp.OutToken, first, second int) (root, other int) {
	firstRemoved := tokens[first].Rel == nlp.REMOVED_LABEL
	secondRemoved := tokens[second].Rel == nlp.REMOVED_LABEL
	switch {
	case firstRemoved && secondRemoved:
		return first, second
	case secondRemoved:
		return first, second
	case firstRemoved:
		return second, first
	case tokens[first].Rel == nlp.ROOT_LABEL && tokens[second].Rel != nlp.ROOT_LABEL:
		return first, second
	}
	return second, first
}

// EnforceSingleRoot resolves the roots left behind by a pruned leading
// reparandum so that exactly one token has head 0.
func EnforceSingleRoot(tokens []nlp.OutToken) ([]nlp.OutToken, error) {
	if len(tokens) == 0 {
		return tokens, nil
	}
	roots := make([]int, 0, 2)
	for i, token := range tokens {
		if token.IsRoot() {
			roots = append(roots, i)
		}
	}
	switch len(roots) {
	case 0:
		tokens[0].Head = 0
		tokens[0].Rel = nlp.ROOT_LABEL
	case 1:
		tokens[roots[0]].Rel = nlp.ROOT_LABEL
	case 2:
		root, other := pickRoot(tokens, roots[0], roots[1])
		tokens[root].Rel = nlp.ROOT_LABEL
		tokens[other].Head = root + 1
		if tokens[other].Rel == nlp.ROOT_LABEL {
			tokens[other].Rel = nlp.DEFAULT_LABEL
		}
	default:
		return nil, fmt.Errorf("%w: %d tokens attach to root", ErrMultipleRoots, len(roots))
	}
	return tokens, nil
}
