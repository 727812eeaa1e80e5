package convert

import (
	"context"
	"errors"
	"strings"
	"testing"

	"nxtud/nlp/tree"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const output = `1	i	_	PRON	PRP	_	2	nsubj	_	_
2	know	_	VERB	VBP	_	0	root	_	_

1	-EMPTY-	_	SYM	SYM	_	0	root	_	_

1	well	_	INTJ	UH	_	_	_	_	_
2	yeah	_	INTJ	UH	_	_	_	_	_
`

func TestParseOutput(t *testing.T) {
	blocks, err := ParseOutput(output)
	require.NoError(t, err)
	require.Len(t, blocks, 3)
	assert.Len(t, blocks[0], 2)
	assert.Equal(t, 2, blocks[0][0].Head)
	assert.Equal(t, "nsubj", blocks[0][0].Rel)
	assert.Equal(t, "PRON", blocks[0][0].UPOS)
	assert.Equal(t, "PRP", blocks[0][0].XPOS)

	// malformed heads fall back to the previous token
	assert.Equal(t, 0, blocks[2][0].Head)
	assert.Equal(t, "dep", blocks[2][0].Rel)
	assert.Equal(t, 1, blocks[2][1].Head)
	assert.Equal(t, "dep", blocks[2][1].Rel)
}

func TestParseOutputErrors(t *testing.T) {
	_, err := ParseOutput("1\ti\t_\tPRON\n")
	assert.Error(t, err)
	_, err = ParseOutput("x\ti\t_\tPRON\tPRP\t_\t0\troot\t_\t_\n")
	assert.Error(t, err)
	_, err = ParseOutput("1\ti\t_\tPRON\tPRP\t_\tz\troot\t_\t_\n")
	assert.Error(t, err)
}

func mustParse(t *testing.T, s string) *tree.Tree {
	tr, err := tree.Parse(s)
	require.NoError(t, err)
	return tr
}

func TestSerializeEmptyPlaceholder(t *testing.T) {
	full := mustParse(t, "(S (NP (PRP i)) (VP (VBP know)))")
	empty := mustParse(t, "(S (INTJ (UH uh)))")
	require.NoError(t, empty.Prune(empty.ListWords()[0]))

	lines := Serialize([]*tree.Tree{full, empty})
	assert.Equal(t, []string{"(S (NP (PRP i)) (VP (VBP know)))", EMPTY_TREE}, lines)
}

func TestTreesChecksBlocks(t *testing.T) {
	trees := []*tree.Tree{
		mustParse(t, "(S (NP (PRP i)) (VP (VBP know)))"),
		mustParse(t, "(S (INTJ (UH uh)))"),
	}
	require.NoError(t, trees[1].Prune(trees[1].ListWords()[0]))

	var got []string
	fake := ConverterFunc(func(ctx context.Context, lines []string) (string, error) {
		got = lines
		return strings.SplitN(output, "\n\n1\twell", 2)[0] + "\n", nil
	})
	blocks, err := Trees(context.Background(), fake, trees)
	require.NoError(t, err)
	assert.Len(t, blocks, 2)
	assert.Equal(t, EMPTY_TREE, got[1])

	_, err = Trees(context.Background(), fake, trees[:1])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlockCount))

	short := ConverterFunc(func(ctx context.Context, lines []string) (string, error) {
		return "1\ti\t_\tPRON\tPRP\t_\t0\troot\t_\t_\n", nil
	})
	_, err = Trees(context.Background(), short, trees[:1])
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrBlockCount))

	failing := ConverterFunc(func(ctx context.Context, lines []string) (string, error) {
		return "", errors.New("boom")
	})
	_, err = Trees(context.Background(), failing, trees)
	assert.EqualError(t, err, "boom")
}

func TestStanfordArgs(t *testing.T) {
	s := NewStanford()
	args := s.Args("/tmp/x.mrg")
	assert.Equal(t, "-cp", args[0])
	assert.Contains(t, args, DEFAULT_CLASS)
	assert.Equal(t, "/tmp/x.mrg", args[len(args)-1])
}

func TestStanfordMissingExecutable(t *testing.T) {
	s := NewStanford()
	s.Java = "definitely-not-a-java-binary"
	_, err := s.Convert(context.Background(), []string{"(S (NN a))"})
	assert.Error(t, err)
}
