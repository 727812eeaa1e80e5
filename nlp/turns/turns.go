// Package turns merges the per-sentence blocks of a conversation into one
// block per speaker turn.
package turns

import (
	"fmt"
	"sort"
	"strconv"
	"strings"
	"unicode"

	"nxtud/nlp/format/conllu"
	nlp "nxtud/nlp/types"
)

// TURN_FRACTION scales the hyphenated part of a turn id (t12-3 → 12.003)
const TURN_FRACTION = 1000

// TurnKey converts a turn id such as t12 or t12-3 into a sortable number
func TurnKey(turnID string) (float64, error) {
	digits := strings.TrimLeftFunc(turnID, unicode.IsLetter)
	parts := strings.SplitN(digits, "-", 2)
	major, err := strconv.Atoi(parts[0])
	if err != nil {
		return 0, fmt.Errorf("turn id %q: %w", turnID, err)
	}
	key := float64(major)
	if len(parts) == 2 {
		minor, err := strconv.Atoi(parts[1])
		if err != nil {
			return 0, fmt.Errorf("turn id %q: %w", turnID, err)
		}
		if minor < 0 || minor >= TURN_FRACTION {
			return 0, fmt.Errorf("turn id %q: part %d out of range", turnID, minor)
		}
		key += float64(minor) / TURN_FRACTION
	}
	return key, nil
}

// Turn is the sentence blocks of one turn in file order
type Turn struct {
	ID     conllu.SentID
	Key    float64
	Blocks []*conllu.Sentence
}

// Group collects blocks by turn, keeping the order in which turns and their
// blocks appear
func Group(sents conllu.Sentences) ([]*Turn, error) {
	var turns []*Turn
	byKey := make(map[float64]*Turn)
	for i, sent := range sents {
		id, err := sent.SentenceID()
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		key, err := TurnKey(id.TurnID)
		if err != nil {
			return nil, fmt.Errorf("block %d: %w", i, err)
		}
		turn, exists := byKey[key]
		if !exists {
			turn = &Turn{ID: id, Key: key}
			byKey[key] = turn
			turns = append(turns, turn)
		}
		turn.Blocks = append(turn.Blocks, sent)
	}
	return turns, nil
}

// Reindex flattens a turn into one sentence. The root of the first block is
// the root of the turn; the roots of later blocks attach to it.
func Reindex(turn *Turn) (*conllu.Sentence, error) {
	merged := conllu.NewSentence()
	scope := turn.ID.TurnScope()
	var (
		offset int
		root   int
	)
	forms := make([]string, 0, 32)
	for _, block := range turn.Blocks {
		for i, row := range block.Rows {
			newRow := row
			newRow.ID = offset + i + 1
			switch {
			case row.Head == 0 && root == 0:
				root = newRow.ID
			case row.Head == 0:
				newRow.Head = root
				newRow.DepRel = nlp.TURN_LABEL
			default:
				newRow.Head = row.Head + offset
			}
			form, _, _, err := conllu.SplitForm(row.Form)
			if err != nil {
				return nil, fmt.Errorf("turn %s: %w", scope, err)
			}
			newRow.Form = conllu.ComposeForm(form, scope, newRow.ID)
			forms = append(forms, newRow.Form)
			merged.Rows = append(merged.Rows, newRow)
		}
		offset += len(block.Rows)
	}
	merged.SetComment(conllu.SENT_ID_KEY, scope)
	merged.SetComment(conllu.TEXT_KEY, strings.Join(forms, " "))
	return merged, nil
}

// MergeDocument groups a conversation's blocks and returns one merged block
// per turn ordered by turn key
func MergeDocument(sents conllu.Sentences) (conllu.Sentences, error) {
	turns, err := Group(sents)
	if err != nil {
		return nil, err
	}
	sort.SliceStable(turns, func(i, j int) bool {
		return turns[i].Key < turns[j].Key
	})
	merged := make(conllu.Sentences, 0, len(turns))
	for _, turn := range turns {
		sent, err := Reindex(turn)
		if err != nil {
			return nil, err
		}
		merged = append(merged, sent)
	}
	return merged, nil
}
