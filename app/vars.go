package app

import (
	"fmt"
	"os"
	"strings"

	"nxtud/util/conf"
	"nxtud/util/logging"

	"github.com/gonuts/commander"
	"go.uber.org/zap"
)

var (
	verbose  bool
	confFile string

	// file names
	nxtDir       string
	outDir       string
	converterDir string
	turnDir      string
	turnSplit    string

	// output options
	turnOut  bool
	posOut   bool
	txtOut   bool
	keepTemp bool

	sectionList string
	stripList   string
)

// Output file name patterns, by section name (and document id)
const (
	SECTION_FILE  = "en_nxt-%s.conllu"
	POS_FILE      = "en_nxt-%s.pos"
	TXT_FILE      = "en_nxt-%s.txt"
	DOCUMENT_FILE = "en_nxt_%s_%s.txt"
)

func VerifyExists(log *zap.SugaredLogger, filename string) bool {
	_, err := os.Stat(filename)
	if err != nil {
		log.Errorw("Error accessing file", "file", filename, "error", err)
		return false
	}
	return true
}

// VerifyFlags fails when any of the required flags was left empty
func VerifyFlags(cmd *commander.Command, required []string) error {
	for _, flag := range required {
		f := cmd.Flag.Lookup(flag)
		if f == nil || f.Value.String() == "" {
			cmd.Usage()
			return fmt.Errorf("required flag -%s not set", flag)
		}
	}
	return nil
}

// SplitList splits a comma separated flag value, dropping empty items
func SplitList(value string) []string {
	var items []string
	for _, item := range strings.Split(value, ",") {
		if item = strings.TrimSpace(item); len(item) > 0 {
			items = append(items, item)
		}
	}
	return items
}

func setupLogger() (*zap.SugaredLogger, error) {
	return logging.New(verbose)
}

// LoadConfig reads the run configuration, or the defaults when no file is
// given, and applies the command line overrides
func LoadConfig(log *zap.SugaredLogger) (*conf.Config, error) {
	cfg := conf.Default()
	if len(confFile) > 0 {
		var err error
		if cfg, err = conf.LoadFile(confFile); err != nil {
			return nil, err
		}
		log.Infow("Loaded configuration", "file", confFile)
	}
	for _, name := range SplitList(stripList) {
		if err := cfg.Sanitize.Enable(name); err != nil {
			return nil, err
		}
	}
	if len(converterDir) > 0 {
		cfg.Converter.Dir = converterDir
	}
	if keepTemp {
		cfg.Converter.KeepTemp = true
	}
	return cfg, nil
}
