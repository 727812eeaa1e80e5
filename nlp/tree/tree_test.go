package tree

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const sample = "(S (EDITED (NP (PRP i))) (NP (PRP we)) (VP (VBP know) (NP (-NONE- *T*-1))) (. .))"

func TestParseRoundTrip(t *testing.T) {
	tr, err := Parse(sample)
	require.NoError(t, err)
	assert.Equal(t, sample, tr.String())

	words := tr.ListWords()
	assert.Equal(t, []string{"i", "we", "know", "*T*-1", "."}, tr.Texts(words))
	assert.Equal(t, "1", tr.Node(words[0]).WordID)
	assert.True(t, tr.Node(words[3]).Trace)
	assert.True(t, tr.Node(words[4]).Punct)
	assert.True(t, tr.IsEdited(words[0]))
	assert.False(t, tr.IsEdited(words[1]))
}

func TestParseTopLevelEmptyLabel(t *testing.T) {
	tr, err := Parse("( (S (NP (NN yeah))) )")
	require.NoError(t, err)
	assert.Equal(t, "", tr.Node(tr.Root).Label)
	assert.Equal(t, []string{"yeah"}, tr.Texts(tr.ListWords()))
}

func TestParseErrors(t *testing.T) {
	for _, bad := range []string{"", "(S (NP (NN a))", "(S (NN a)) extra", "NN a)"} {
		_, err := Parse(bad)
		assert.Error(t, err, "input %q", bad)
	}
}

func TestPruneCollapsesEmptyAncestors(t *testing.T) {
	tr, err := Parse(sample)
	require.NoError(t, err)
	words := tr.ListWords()

	require.NoError(t, tr.Prune(words[3]))
	assert.Equal(t, "(S (EDITED (NP (PRP i))) (NP (PRP we)) (VP (VBP know)) (. .))", tr.String())
	assert.False(t, tr.Attached(words[3]))

	require.NoError(t, tr.Prune(words[0]))
	assert.Equal(t, "(S (NP (PRP we)) (VP (VBP know)) (. .))", tr.String())
}

func TestPruneRootAndDetached(t *testing.T) {
	tr, err := Parse(sample)
	require.NoError(t, err)
	tr.GlobalID = "sw2005~0001"

	err = tr.Prune(tr.Root)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrune))
	assert.Contains(t, err.Error(), "sw2005~0001")

	word := tr.ListWords()[1]
	require.NoError(t, tr.Prune(word))
	err = tr.Prune(word)
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrPrune))
}

func TestPruneLastWordKeepsRoot(t *testing.T) {
	tr, err := Parse("(S (INTJ (UH uh)))")
	require.NoError(t, err)
	require.NoError(t, tr.Prune(tr.ListWords()[0]))
	assert.Empty(t, tr.ListWords())
	assert.True(t, tr.Attached(tr.Root))
	assert.Equal(t, "(S)", tr.String())
}

func TestHasGrandparent(t *testing.T) {
	tr := New("S")
	top := tr.AddWord(tr.Root, "UH", Word{Text: "uh", WordID: "1"})
	np := tr.AddNode(tr.Root, "NP")
	deep := tr.AddWord(np, "NN", Word{Text: "dog", WordID: "2"})

	assert.False(t, tr.HasGrandparent(top))
	assert.True(t, tr.HasGrandparent(deep))
	assert.Equal(t, []int{tr.Root, top, np, deep}, tr.DepthList())
}
