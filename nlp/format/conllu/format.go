package conllu

import (
	"strings"

	nlp "nxtud/nlp/types"
)

// FromOutput formats a reconciled sentence. Forms are written as
// form+doc_sentno+position, and the text comment joins them with spaces.
func FromOutput(sent *nlp.Sentence) *Sentence {
	id := SentID{sent.DocID, sent.SentNo, sent.TurnID, sent.Speaker}
	block := NewSentence()
	forms := make([]string, len(sent.Out))
	for i, tok := range sent.Out {
		forms[i] = ComposeForm(tok.Form, id.Scope(), i+1)
		block.Rows = append(block.Rows, Row{
			ID:      i + 1,
			Form:    forms[i],
			UPosTag: tok.UPOS,
			XPosTag: tok.XPOS,
			Head:    tok.Head,
			DepRel:  tok.Rel,
			Misc:    tok.DFL,
		})
	}
	block.SetComment(SENT_ID_KEY, id.String())
	block.SetComment(TEXT_KEY, strings.Join(forms, " "))
	return block
}
