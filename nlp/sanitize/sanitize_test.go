package sanitize

import (
	"errors"
	"testing"

	"nxtud/nlp/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const disfluent = "( (S (EDITED (NP (PRP I))) (NP (PRP We)) (INTJ (UH uh)) (PRN (S (NP (PRP you)) (VP (VBP know)))) (VP (VBP like) (NP (-NONE- *T*-1)) (NP (NN It))) (. ?)) )"

func parse(t *testing.T, s string) *tree.Tree {
	tr, err := tree.Parse(s)
	require.NoError(t, err)
	tr.GlobalID = "sw2005~0003"
	tr.Speaker = "A"
	tr.TurnID = "t12"
	return tr
}

func TestSanitizeDefaults(t *testing.T) {
	tr := parse(t, disfluent)
	orig, survivors, err := New(DefaultOptions()).Sanitize(tr)
	require.NoError(t, err)

	texts := make([]string, len(orig))
	for i, token := range orig {
		texts[i] = token.Text
	}
	assert.Equal(t, []string{"i", "we", "uh", "you", "know", "like", "it"}, texts)
	assert.Len(t, survivors, len(orig))
	assert.Equal(t, "A12|1||", orig[0].DFL)
	assert.Equal(t, "A12|0||", orig[1].DFL)
	assert.Equal(t, "PRP", orig[0].XPOS)
	assert.Equal(t, "sw2005~0003", orig[0].GlobalID)
}

func TestSanitizeStripsEverything(t *testing.T) {
	opts := DefaultOptions()
	for _, name := range []string{"strip_disfluency_subtrees", "strip_fillers", "strip_discourse_markers", "prune_empty_subtrees"} {
		require.NoError(t, opts.Enable(name))
	}
	tr := parse(t, disfluent)
	orig, survivors, err := New(opts).Sanitize(tr)
	require.NoError(t, err)

	assert.Len(t, orig, 7)
	assert.Equal(t, []string{orig[1].WordID, orig[5].WordID, orig[6].WordID}, survivors)
	assert.Equal(t, "( (S (NP (PRP we)) (VP (VBP like) (NP (NN it)))))", tr.String())
}

func TestDiscourseMarkerNeedsWholeParenthetical(t *testing.T) {
	opts := Options{DiscourseMarkers: true}
	tr := parse(t, "(S (PRN (S (NP (PRP you)) (VP (VBP know) (NP (NN things))))) (VP (VBD went)))")
	_, survivors, err := New(opts).Sanitize(tr)
	require.NoError(t, err)
	assert.Len(t, survivors, 4)

	tr = parse(t, "(S (NP (PRP it)) (PRN (S (NP (PRP i)) (VP (VBP mean)))) (VP (VBD went)))")
	_, survivors, err = New(opts).Sanitize(tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"1", "4"}, survivors)
}

func TestRootLevelTokensAreKept(t *testing.T) {
	tr := tree.New("S")
	tr.AddWord(tr.Root, ".", tree.Word{Text: ".", WordID: "1", Punct: true})
	np := tr.AddNode(tr.Root, "NP")
	tr.AddWord(np, "NN", tree.Word{Text: "Yeah", WordID: "2"})
	tr.AddWord(np, ".", tree.Word{Text: ".", WordID: "3", Punct: true})

	orig, survivors, err := New(DefaultOptions()).Sanitize(tr)
	require.NoError(t, err)
	require.Len(t, orig, 2)
	assert.Equal(t, ".", orig[0].Text)
	assert.Equal(t, "yeah", orig[1].Text)
	assert.Equal(t, []string{"1", "2"}, survivors)
}

func TestLoneQuestionMarkIsKept(t *testing.T) {
	tr := parse(t, "(S (X (SYM ?)))")
	orig, _, err := New(Options{TerminalPunctuation: true}).Sanitize(tr)
	require.NoError(t, err)
	require.Len(t, orig, 1)
	assert.Equal(t, "?", orig[0].Text)
}

func TestQuestionMarkAfterTraceIsKept(t *testing.T) {
	opts := Options{TerminalPunctuation: true, PunctTracePartial: PunctTracePartial{Trace: true}}
	tr := parse(t, "(S (-NONE- *) (. ?))")
	orig, _, err := New(opts).Sanitize(tr)
	require.NoError(t, err)
	require.Len(t, orig, 1)
	assert.Equal(t, "?", orig[0].Text)

	tr = parse(t, "(S (NN yes) (-NONE- *) (. ?))")
	orig, _, err = New(opts).Sanitize(tr)
	require.NoError(t, err)
	require.Len(t, orig, 1)
	assert.Equal(t, "yes", orig[0].Text)
}

func TestPartialWords(t *testing.T) {
	tr := parse(t, "(S (NP (NN th-)) (NP (NN that)))")
	orig, _, err := New(Options{PunctTracePartial: PunctTracePartial{Partial: true}}).Sanitize(tr)
	require.NoError(t, err)
	require.Len(t, orig, 1)
	assert.Equal(t, "that", orig[0].Text)
}

func TestPruneEmptySubtrees(t *testing.T) {
	tr := parse(t, "(S (NP (NN dog)) (VP))")
	_, survivors, err := New(Options{PruneEmpty: true}).Sanitize(tr)
	require.NoError(t, err)
	assert.Equal(t, []string{"1"}, survivors)
	assert.Equal(t, "(S (NP (NN dog)))", tr.String())
}

func TestPruneEmptyNamesSentence(t *testing.T) {
	tr := parse(t, "(S (NP (NN dog)) (VP))")
	vp := tr.Node(tr.Root).Children[1]
	tr.Node(vp).Parent = tr.Node(tr.Root).Children[0]
	_, _, err := New(Options{PruneEmpty: true}).Sanitize(tr)
	require.Error(t, err)
	assert.True(t, errors.Is(err, tree.ErrPrune))
	assert.Contains(t, err.Error(), "sw2005~0003")
}

func TestEnableUnknown(t *testing.T) {
	var opts Options
	err := opts.Enable("strip_everything")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "strip_fillers")
}
