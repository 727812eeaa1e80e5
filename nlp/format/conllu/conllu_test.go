package conllu

import (
	"bytes"
	"errors"
	"strings"
	"testing"

	nlp "nxtud/nlp/types"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseRow(t *testing.T) {
	row := strings.Split("2	know+sw2005_0012+2	_	VERB	VBP	_	0	root	_	A12|0|1.25|1.5",
		string(FIELD_SEPARATOR))

	parsed, err := ParseRow(row)
	require.NoError(t, err)
	assert.Equal(t, 2, parsed.ID)
	assert.Equal(t, "know+sw2005_0012+2", parsed.Form)
	assert.Equal(t, "", parsed.Lemma)
	assert.Equal(t, "VERB", parsed.UPosTag)
	assert.Equal(t, "VBP", parsed.XPosTag)
	assert.Equal(t, 0, parsed.Head)
	assert.Equal(t, "root", parsed.DepRel)
	assert.Equal(t, "A12|0|1.25|1.5", parsed.Misc)
	assert.Equal(t, strings.Join(row, "\t"), parsed.String())
}

func TestParseRowErrors(t *testing.T) {
	_, err := ParseRow([]string{"1", "a"})
	assert.Error(t, err)

	_, err = ParseRow(strings.Split("x	a	_	X	X	_	0	root	_	_", "\t"))
	assert.Error(t, err)

	_, err = ParseRow(strings.Split("1	a	_	X	X	_	_	root	_	_", "\t"))
	assert.Error(t, err)
}

const twoSentences = `# sent_id = sw2005_0001_t1_A
# text = yeah+sw2005_0001+1
1	yeah+sw2005_0001+1	_	INTJ	UH	_	0	root	_	A1|0|0.1|0.3

# sent_id = sw2005_0002_t2_B
# text = i+sw2005_0002+1 know+sw2005_0002+2
1	i+sw2005_0002+1	_	PRON	PRP	_	2	nsubj	_	B2|0|0.5|0.6
2	know+sw2005_0002+2	_	VERB	VBP	_	0	root	_	B2|0|0.6|0.9

`

func TestReadWrite(t *testing.T) {
	sents, err := Read(strings.NewReader(twoSentences))
	require.NoError(t, err)
	require.Len(t, sents, 2)

	id, err := sents[1].SentenceID()
	require.NoError(t, err)
	assert.Equal(t, SentID{"sw2005", "0002", "t2", "B"}, id)
	assert.Equal(t, "sw2005_0002", id.Scope())
	assert.Equal(t, "sw2005_t2_B", id.TurnScope())

	text, ok := sents[1].Comment(TEXT_KEY)
	require.True(t, ok)
	assert.Equal(t, sents[1].Text(), text)

	var buf bytes.Buffer
	require.NoError(t, Write(&buf, sents))
	assert.Equal(t, twoSentences, buf.String())
}

func TestReadWithoutTrailingBlankLine(t *testing.T) {
	sents, err := Read(strings.NewReader(strings.TrimRight(twoSentences, "\n")))
	require.NoError(t, err)
	require.Len(t, sents, 2)
	assert.Len(t, sents[1].Rows, 2)
}

func TestSplitForm(t *testing.T) {
	form, scope, pos, err := SplitForm(ComposeForm("a+b", "sw2005_0001", 7))
	require.NoError(t, err)
	assert.Equal(t, "a+b", form)
	assert.Equal(t, "sw2005_0001", scope)
	assert.Equal(t, 7, pos)

	for _, bad := range []string{"plain", "a+7", "a+b+c"} {
		_, _, _, err := SplitForm(bad)
		assert.Error(t, err, bad)
	}
}

func TestParseSentIDErrors(t *testing.T) {
	_, err := ParseSentID("sw2005_0001_t1")
	require.Error(t, err)
	assert.True(t, errors.Is(err, ErrSentID))

	_, err = NewSentence().SentenceID()
	assert.True(t, errors.Is(err, ErrSentID))
}

func TestFromOutput(t *testing.T) {
	sent := &nlp.Sentence{
		DocID: "sw2005", SentNo: "0002", TurnID: "t2", Speaker: "B",
		Out: []nlp.OutToken{
			{Form: "i", UPOS: "PRON", XPOS: "PRP", Head: 2, Rel: "nsubj", DFL: "B2|0|0.5|0.6"},
			{Form: "know", UPOS: "VERB", XPOS: "VBP", Head: 0, Rel: "root", DFL: "B2|0|0.6|0.9"},
		},
	}
	var buf bytes.Buffer
	require.NoError(t, WriteSentence(&buf, FromOutput(sent)))
	assert.Equal(t, strings.SplitN(twoSentences, "\n\n", 2)[1], buf.String())
}
