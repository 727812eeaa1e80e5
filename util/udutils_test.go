package util

import (
	"errors"
	"testing"

	nlp "nxtud/nlp/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNormalizeTagTableLookup(t *testing.T) {
	for _, rel := range []string{"nsubj", "obj", "root", "compound"} {
		upos, outRel, err := NormalizeTag("NNP", rel)
		require.NoError(t, err)
		assert.Equal(t, "PROPN", upos)
		assert.Equal(t, rel, outRel)
	}
}

func TestNormalizeTagCopula(t *testing.T) {
	upos, rel, err := NormalizeTag("VB", "cop")
	require.NoError(t, err)
	assert.Equal(t, "AUX", upos)
	assert.Equal(t, "cop", rel)

	upos, _, err = NormalizeTag("VB", "xcomp")
	require.NoError(t, err)
	assert.Equal(t, "VERB", upos)
}

func TestNormalizeTagKeepsUniversal(t *testing.T) {
	upos, rel, err := NormalizeTag("NOUN", "obl")
	require.NoError(t, err)
	assert.Equal(t, "NOUN", upos)
	assert.Equal(t, "obl", rel)
}

func TestNormalizeTagUnmapped(t *testing.T) {
	_, _, err := NormalizeTag("NOT-A-TAG", "dep")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrUnmappedTag))
	assert.Contains(t, err.Error(), "NOT-A-TAG")
}

func TestApplyRulesOrder(t *testing.T) {
	cases := []struct {
		upos, rel       string
		expUPOS, expRel string
	}{
		{"VERB", "cop", "AUX", "cop"},
		{"PUNCT", "dep", "PUNCT", "punct"},
		{"DET", "cc", "CCONJ", "cc"},
		{"ADV", "det", "DET", "det"},
		{"DET", "mark", "SCONJ", "mark"},
		{"DET", "nummod", "DET", "det"},
		{"NUM", "nummod", "NUM", "nummod"},
		{"ADV", "advmod", "ADV", "advmod"},
	}
	for _, c := range cases {
		upos, rel := ApplyRules(c.upos, c.rel)
		assert.Equal(t, c.expUPOS, upos, "%s/%s", c.upos, c.rel)
		assert.Equal(t, c.expRel, rel, "%s/%s", c.upos, c.rel)
	}
}

func TestPunctuationTagsAttachAsPunct(t *testing.T) {
	for _, pos := range []string{".", ",", ":", "!", "-LRB-", "-RRB-"} {
		upos, rel, err := NormalizeTag(pos, nlp.DEFAULT_LABEL)
		require.NoError(t, err, pos)
		assert.Equal(t, PUNCT_TAG, upos, pos)
		assert.Equal(t, nlp.PUNCT_LABEL, rel, pos)
	}
}

func TestNormalizeTagIdempotent(t *testing.T) {
	rels := []string{"cop", "cc", "det", "mark", "nummod", "punct", "nsubj", "root", "reparandum"}
	for tag := range PTB2UDPOS {
		for _, rel := range rels {
			upos, outRel, err := NormalizeTag(tag, rel)
			require.NoError(t, err)
			again, againRel, err := NormalizeTag(upos, outRel)
			require.NoError(t, err)
			assert.Equal(t, upos, again, "%s/%s", tag, rel)
			assert.Equal(t, outRel, againRel, "%s/%s", tag, rel)
		}
	}
}

func TestTableTargetsAreUniversal(t *testing.T) {
	for ptb, ud := range PTB2UDPOS {
		assert.True(t, UD_TAGS[ud], "%s maps to non universal %s", ptb, ud)
	}
}
