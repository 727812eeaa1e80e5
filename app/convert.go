package app

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"nxtud/nlp/align"
	"nxtud/nlp/convert"
	"nxtud/nlp/format/conllu"
	"nxtud/nlp/format/nxt"
	"nxtud/nlp/format/raw"
	"nxtud/nlp/format/taggedsentence"
	"nxtud/nlp/sanitize"
	nlp "nxtud/nlp/types"
	"nxtud/util"
	"nxtud/util/conf"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
	"github.com/gosuri/uiprogress"
	"go.uber.org/zap"
)

// Pipeline converts the conversations of a corpus one document at a time.
// Each document is a single converter call.
type Pipeline struct {
	Corpus    *nxt.Corpus
	Sanitizer *sanitize.Sanitizer
	Converter convert.Converter
	Log       *zap.SugaredLogger
}

// Document runs one conversation through sanitizing, conversion and
// alignment. Sentences without any original token are dropped.
func (p *Pipeline) Document(ctx context.Context, docID string) ([]*nlp.Sentence, error) {
	doc, err := p.Corpus.ReadDocument(docID)
	if err != nil {
		return nil, err
	}
	origs := make([][]nlp.Token, len(doc.Trees))
	survivors := make([][]string, len(doc.Trees))
	for i, t := range doc.Trees {
		if origs[i], survivors[i], err = p.Sanitizer.Sanitize(t); err != nil {
			return nil, fmt.Errorf("sanitizing %s: %w", t.GlobalID, err)
		}
	}
	blocks, err := convert.Trees(ctx, p.Converter, doc.Trees)
	if err != nil {
		return nil, fmt.Errorf("converting %s: %w", docID, err)
	}
	sents := make([]*nlp.Sentence, 0, len(doc.Trees))
	for i, orig := range origs {
		if len(orig) == 0 {
			p.Log.Debugw("Skipping empty sentence", "sentence", doc.Trees[i].GlobalID)
			continue
		}
		out, err := align.TransferHeads(orig, survivors[i], blocks[i])
		if err != nil {
			return nil, fmt.Errorf("aligning %s: %w", doc.Trees[i].GlobalID, err)
		}
		docPart, sentNo, err := orig[0].DocAndSentence()
		if err != nil {
			return nil, err
		}
		sents = append(sents, &nlp.Sentence{
			DocID:   docPart,
			SentNo:  sentNo,
			TurnID:  orig[0].TurnID,
			Speaker: orig[0].Speaker,
			Orig:    orig,
			Out:     out,
		})
	}
	return sents, nil
}

// Section converts docs in order into w. tick is called after each document.
func (p *Pipeline) Section(ctx context.Context, docs []string, w *SectionWriter, tick func()) (int, error) {
	var written int
	for _, doc := range docs {
		sents, err := p.Document(ctx, doc)
		if err != nil {
			return written, err
		}
		if err := w.Write(sents); err != nil {
			return written, err
		}
		written += len(sents)
		p.Log.Debugw("Converted document", "document", doc, "sentences", len(sents))
		if tick != nil {
			tick()
		}
	}
	return written, nil
}

// SectionWriter writes a section either to one CoNLL-U file or, in turn
// mode, to one file per document for the turn merger. Per-document files are
// truncated the first time they are opened by a writer and appended to
// afterwards.
type SectionWriter struct {
	Dir  string
	Name string
	Turn bool

	conllu, pos, txt *os.File
	opened           map[string]bool
}

func NewSectionWriter(dir, name string, turn, pos, txt bool) (*SectionWriter, error) {
	w := &SectionWriter{Dir: dir, Name: name, Turn: turn, opened: make(map[string]bool)}
	var err error
	if turn {
		err = os.MkdirAll(filepath.Join(dir, name), 0o755)
	} else {
		w.conllu, err = os.Create(filepath.Join(dir, fmt.Sprintf(SECTION_FILE, name)))
	}
	if err == nil && pos {
		w.pos, err = os.Create(filepath.Join(dir, fmt.Sprintf(POS_FILE, name)))
	}
	if err == nil && txt {
		w.txt, err = os.Create(filepath.Join(dir, fmt.Sprintf(TXT_FILE, name)))
	}
	if err != nil {
		w.Close()
		return nil, err
	}
	return w, nil
}

// DocumentFile is the per-document file used in turn mode
func (w *SectionWriter) DocumentFile(docID string) string {
	return filepath.Join(w.Dir, w.Name, fmt.Sprintf(DOCUMENT_FILE, w.Name, docID))
}

func (w *SectionWriter) openDocument(docID string) (*os.File, error) {
	filename := w.DocumentFile(docID)
	flags := os.O_CREATE | os.O_WRONLY | os.O_APPEND
	if !w.opened[filename] {
		flags |= os.O_TRUNC
		w.opened[filename] = true
	}
	return os.OpenFile(filename, flags, 0o644)
}

func (w *SectionWriter) writeDocument(docID string, blocks conllu.Sentences) error {
	file, err := w.openDocument(docID)
	if err != nil {
		return err
	}
	if err := conllu.Write(file, blocks); err != nil {
		file.Close()
		return err
	}
	return file.Close()
}

func (w *SectionWriter) Write(sents []*nlp.Sentence) error {
	var (
		docBlocks conllu.Sentences
		docID     string
	)
	for _, sent := range sents {
		block := conllu.FromOutput(sent)
		if w.Turn {
			if sent.DocID != docID && len(docBlocks) > 0 {
				if err := w.writeDocument(docID, docBlocks); err != nil {
					return err
				}
				docBlocks = nil
			}
			docID = sent.DocID
			docBlocks = append(docBlocks, block)
		} else if err := conllu.WriteSentence(w.conllu, block); err != nil {
			return err
		}
		if w.pos != nil {
			if err := taggedsentence.WriteSentence(w.pos, sent.Tagged()); err != nil {
				return err
			}
		}
		if w.txt != nil {
			if err := raw.Write(w.txt, []string{block.Text()}); err != nil {
				return err
			}
		}
	}
	if len(docBlocks) > 0 {
		return w.writeDocument(docID, docBlocks)
	}
	return nil
}

func (w *SectionWriter) Close() error {
	var first error
	for _, file := range []*os.File{w.conllu, w.pos, w.txt} {
		if file == nil {
			continue
		}
		if err := file.Close(); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func ConvertConfigOut(log *zap.SugaredLogger, cfg *conf.Config, sections []conf.Section) {
	log.Infow("Configuration",
		"nxt", nxtDir,
		"out", outDir,
		"turn", turnOut,
		"pos", posOut,
		"txt", txtOut,
	)
	log.Infow("Sanitizer", "options", fmt.Sprintf("%+v", cfg.Sanitize))
	log.Infow("Converter", "java", cfg.Converter.Java, "dir", cfg.Converter.Dir, "class", cfg.Converter.Class)
	for _, s := range sections {
		log.Infow("Section", "name", s.Name, "from", s.From, "to", s.To, "list", s.List)
	}
	out, err := cfg.YAML()
	if err != nil {
		log.Warnw("Failed rendering configuration", "error", err)
		return
	}
	log.Debugw("Effective configuration", "yaml", out)
}

func logStats(log *zap.SugaredLogger, filename string) {
	stats, err := util.CoNLLStats(filename)
	if err != nil {
		log.Warnw("Failed reading back output", "file", filename, "error", err)
		return
	}
	log.Infow("Output", "file", filename, "sentences", stats.Sentences, "tokens", stats.Tokens, "md5", stats.MD5)
}

func ConvertSections(cmd *commander.Command, args []string) error {
	log, err := setupLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := VerifyFlags(cmd, []string{"nxt", "out"}); err != nil {
		return err
	}
	if !VerifyExists(log, nxtDir) {
		return fmt.Errorf("NXT corpus not found at %s", nxtDir)
	}
	cfg, err := LoadConfig(log)
	if err != nil {
		return err
	}
	sections, err := cfg.Run(SplitList(sectionList))
	if err != nil {
		return err
	}
	ConvertConfigOut(log, cfg, sections)
	if !VerifyExists(log, cfg.Converter.Dir) {
		return fmt.Errorf("converter directory %s not found", cfg.Converter.Dir)
	}
	if err := os.MkdirAll(outDir, 0o755); err != nil {
		return err
	}

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	stanford := cfg.Converter
	stanford.Log = log.Named("converter")
	corpus := nxt.New(nxtDir)
	pipeline := &Pipeline{
		Corpus:    corpus,
		Sanitizer: sanitize.New(cfg.Sanitize),
		Converter: &stanford,
		Log:       log,
	}
	docs, err := corpus.Documents()
	if err != nil {
		return err
	}
	log.Infow("Read corpus", "documents", len(docs))

	for _, section := range sections {
		selected, err := section.Select(docs)
		if err != nil {
			return err
		}
		log.Infow("Converting section", "section", section.Name, "documents", len(selected))
		w, err := NewSectionWriter(outDir, section.Name, turnOut, posOut, txtOut)
		if err != nil {
			return err
		}

		progress := uiprogress.New()
		bar := progress.AddBar(len(selected)).AppendCompleted().PrependElapsed()
		name := section.Name
		bar.PrependFunc(func(b *uiprogress.Bar) string {
			return fmt.Sprintf("%-6s", name)
		})
		progress.Start()
		n, err := pipeline.Section(ctx, selected, w, func() { bar.Incr() })
		progress.Stop()
		if closeErr := w.Close(); err == nil {
			err = closeErr
		}
		if err != nil {
			return fmt.Errorf("section %s: %w", section.Name, err)
		}
		log.Infow("Wrote section", "section", section.Name, "sentences", n)
		if !turnOut {
			logStats(log, filepath.Join(outDir, fmt.Sprintf(SECTION_FILE, section.Name)))
		}
	}
	return nil
}

func ConvertCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       ConvertSections,
		UsageLine: "convert <file options> [arguments]",
		Short:     "converts NXT Switchboard parses to CoNLL-U",
		Long: `
converts NXT Switchboard parses to CoNLL-U

	$ ./nxtud convert -nxt <nxt root> -out <dir> [-turn] [-conf <run.yaml>] [-pos] [-txt] [-sections train,dev,test] [options]

`,
		Flag: *flag.NewFlagSet("convert", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&nxtDir, "nxt", "", "NXT Switchboard corpus root")
	cmd.Flag.StringVar(&outDir, "out", "", "Output directory")
	cmd.Flag.StringVar(&confFile, "conf", "", "Optional - YAML run configuration")
	cmd.Flag.StringVar(&sectionList, "sections", "", "Optional - comma separated sections (default train,dev,test)")
	cmd.Flag.StringVar(&converterDir, "converter", "", "Optional - directory holding the CoreNLP jars")
	cmd.Flag.StringVar(&stripList, "strip", "", "Optional - comma separated sanitizer options to enable")
	cmd.Flag.BoolVar(&turnOut, "turn", false, "Write one file per document for turn merging")
	cmd.Flag.BoolVar(&posOut, "pos", false, "Also write a word/UPOS file per section")
	cmd.Flag.BoolVar(&txtOut, "txt", false, "Also write a text file per section")
	cmd.Flag.BoolVar(&keepTemp, "keeptemp", false, "Keep converter temporary files")
	cmd.Flag.BoolVar(&verbose, "v", false, "Verbose logging")
	return cmd
}
