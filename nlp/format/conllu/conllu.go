package conllu

// Package conllu reads and writes the CoNLL-U dialect used for the
// Switchboard conversion: two comment lines per sentence (sent_id, text) and
// forms that carry their provenance as form+scope+position.
// For a description of the base format see
// https://universaldependencies.org/format.html

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"
)

const (
	FIELD_SEPARATOR     = '\t'
	NUM_FIELDS          = 10
	FEATURE_SEPARATOR   = "|"
	COMMENT_PREFIX      = "#"
	COMMENT_KV          = " = "
	COMPOSITE_SEPARATOR = "+"
	ID_SEPARATOR        = "_"

	SENT_ID_KEY = "sent_id"
	TEXT_KEY    = "text"
)

// A Row is a single parsed row of a CoNLL-U data set
type Row struct {
	ID      int
	Form    string
	Lemma   string
	UPosTag string
	XPosTag string
	FeatStr string
	Head    int
	DepRel  string
	Deps    []string
	Misc    string
}

func (r Row) String() string {
	fields := []string{
		fmt.Sprintf("%d", r.ID),
		r.Form,
		r.Lemma,
		r.UPosTag,
		r.XPosTag,
		r.FeatStr,
		fmt.Sprintf("%d", r.Head),
		r.DepRel,
		strings.Join(r.Deps, FEATURE_SEPARATOR),
		r.Misc,
	}
	for i, field := range fields {
		if len(field) == 0 {
			fields[i] = "_"
		}
	}
	return strings.Join(fields, string(FIELD_SEPARATOR))
}

// A Sentence is a comment header followed by rows in order
type Sentence struct {
	Comments []string
	Rows     []Row
}

func NewSentence() *Sentence {
	return &Sentence{
		Comments: make([]string, 0, 2),
		Rows:     make([]Row, 0, 16),
	}
}

type Sentences []*Sentence

// Comment returns the value of a "# key = value" comment
func (s *Sentence) Comment(key string) (string, bool) {
	prefix := COMMENT_PREFIX + " " + key + " ="
	for _, comment := range s.Comments {
		if strings.HasPrefix(comment, prefix) {
			return strings.TrimSpace(comment[len(prefix):]), true
		}
	}
	return "", false
}

// SetComment replaces or appends a "# key = value" comment
func (s *Sentence) SetComment(key, value string) {
	line := COMMENT_PREFIX + " " + key + COMMENT_KV + value
	prefix := COMMENT_PREFIX + " " + key + " ="
	for i, comment := range s.Comments {
		if strings.HasPrefix(comment, prefix) {
			s.Comments[i] = line
			return
		}
	}
	s.Comments = append(s.Comments, line)
}

// Text joins the row forms with single spaces
func (s *Sentence) Text() string {
	forms := make([]string, len(s.Rows))
	for i, row := range s.Rows {
		forms[i] = row.Form
	}
	return strings.Join(forms, " ")
}

func ParseInt(value string) (int, error) {
	if value == "_" {
		return 0, nil
	}
	i, err := strconv.ParseInt(value, 10, 0)
	return int(i), err
}

func ParseString(value string) string {
	if value == "_" {
		return ""
	}
	return value
}

func ParseRow(record []string) (Row, error) {
	var row Row
	if len(record) != NUM_FIELDS {
		return row, fmt.Errorf("expected %d fields, got %d", NUM_FIELDS, len(record))
	}
	id, err := ParseInt(record[0])
	if err != nil {
		return row, fmt.Errorf("error parsing ID field (%s): %w", record[0], err)
	}
	row.ID = id
	row.Form = record[1]
	row.Lemma = ParseString(record[2])
	row.UPosTag = ParseString(record[3])
	row.XPosTag = ParseString(record[4])
	row.FeatStr = ParseString(record[5])

	head, err := strconv.Atoi(record[6])
	if err != nil {
		return row, fmt.Errorf("error parsing HEAD field (%s): %w", record[6], err)
	}
	row.Head = head
	row.DepRel = ParseString(record[7])
	if deps := ParseString(record[8]); len(deps) > 0 {
		row.Deps = strings.Split(deps, FEATURE_SEPARATOR)
	}
	row.Misc = ParseString(record[9])
	return row, nil
}

// Read parses blank line separated sentences. A final sentence without a
// terminating blank line is kept.
func Read(reader io.Reader) (Sentences, error) {
	var sentences Sentences
	scanner := bufio.NewScanner(reader)
	scanner.Buffer(make([]byte, 0, 16384), 1<<20)

	var line int
	currentSent := NewSentence()
	for scanner.Scan() {
		line++
		curLine := strings.TrimRight(scanner.Text(), "\r")
		if len(curLine) == 0 {
			if len(currentSent.Rows) > 0 || len(currentSent.Comments) > 0 {
				sentences = append(sentences, currentSent)
			}
			currentSent = NewSentence()
			continue
		}
		if strings.HasPrefix(curLine, COMMENT_PREFIX) {
			currentSent.Comments = append(currentSent.Comments, curLine)
			continue
		}
		record := strings.Split(curLine, string(FIELD_SEPARATOR))
		if strings.ContainsAny(record[0], "-.") {
			// multiword tokens and empty nodes are not produced by the converter
			continue
		}
		row, err := ParseRow(record)
		if err != nil {
			return nil, fmt.Errorf("error processing line %d at sentence %d: %w", line, len(sentences), err)
		}
		currentSent.Rows = append(currentSent.Rows, row)
	}
	if err := scanner.Err(); err != nil {
		return nil, err
	}
	if len(currentSent.Rows) > 0 || len(currentSent.Comments) > 0 {
		sentences = append(sentences, currentSent)
	}
	return sentences, nil
}

func ReadFile(filename string) (Sentences, error) {
	file, err := os.Open(filename)
	if err != nil {
		return nil, err
	}
	defer file.Close()

	return Read(file)
}

// WriteSentence writes comments, rows and the terminating blank line
func WriteSentence(writer io.Writer, sent *Sentence) error {
	w := bufio.NewWriter(writer)
	for _, comment := range sent.Comments {
		w.WriteString(comment)
		w.WriteByte('\n')
	}
	for _, row := range sent.Rows {
		w.WriteString(row.String())
		w.WriteByte('\n')
	}
	w.WriteByte('\n')
	return w.Flush()
}

func Write(writer io.Writer, sents Sentences) error {
	for _, sent := range sents {
		if err := WriteSentence(writer, sent); err != nil {
			return err
		}
	}
	return nil
}

// ComposeForm encodes a surface form with its scope and 1-based position
func ComposeForm(form, scope string, pos int) string {
	return strings.Join([]string{form, scope, strconv.Itoa(pos)}, COMPOSITE_SEPARATOR)
}

// SplitForm is the inverse of ComposeForm. The surface form may itself
// contain the separator; scope and position never do.
func SplitForm(composite string) (form, scope string, pos int, err error) {
	last := strings.LastIndex(composite, COMPOSITE_SEPARATOR)
	if last < 0 {
		return "", "", 0, fmt.Errorf("form %q has no scope", composite)
	}
	mid := strings.LastIndex(composite[:last], COMPOSITE_SEPARATOR)
	if mid < 0 {
		return "", "", 0, fmt.Errorf("form %q has no position", composite)
	}
	pos, err = strconv.Atoi(composite[last+1:])
	if err != nil {
		return "", "", 0, fmt.Errorf("form %q: %w", composite, err)
	}
	return composite[:mid], composite[mid+1 : last], pos, nil
}

// SentID identifies a sentence by document, sentence number, turn and speaker
type SentID struct {
	DocID   string
	SentNo  string
	TurnID  string
	Speaker string
}

var ErrSentID = errors.New("malformed sent_id")

func (s SentID) String() string {
	return strings.Join([]string{s.DocID, s.SentNo, s.TurnID, s.Speaker}, ID_SEPARATOR)
}

// Scope is the composite form scope of a single sentence (sw2005_0012)
func (s SentID) Scope() string {
	return s.DocID + ID_SEPARATOR + s.SentNo
}

// TurnScope is the composite form scope of a merged turn (sw2005_t12_A)
func (s SentID) TurnScope() string {
	return strings.Join([]string{s.DocID, s.TurnID, s.Speaker}, ID_SEPARATOR)
}

func ParseSentID(value string) (SentID, error) {
	parts := strings.Split(value, ID_SEPARATOR)
	if len(parts) != 4 {
		return SentID{}, fmt.Errorf("%w: %q has %d parts", ErrSentID, value, len(parts))
	}
	return SentID{parts[0], parts[1], parts[2], parts[3]}, nil
}

// SentenceID reads the sent_id comment of s
func (s *Sentence) SentenceID() (SentID, error) {
	value, exists := s.Comment(SENT_ID_KEY)
	if !exists {
		return SentID{}, fmt.Errorf("%w: sentence has no %s comment", ErrSentID, SENT_ID_KEY)
	}
	return ParseSentID(value)
}
