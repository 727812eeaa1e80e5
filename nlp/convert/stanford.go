package convert

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"go.uber.org/zap"
)

const (
	DEFAULT_JAVA  = "java"
	DEFAULT_DIR   = "stanford_converter/"
	DEFAULT_CLASS = "edu.stanford.nlp.trees.ud.UniversalDependenciesConverter"

	stderrTail = 2048
)

// Stanford runs the CoreNLP UniversalDependenciesConverter over a temporary
// .mrg file. The classpath is every jar in Dir.
type Stanford struct {
	Java     string `yaml:"java"`
	Dir      string `yaml:"dir"`
	Class    string `yaml:"class"`
	TmpDir   string `yaml:"tmp_dir"`
	KeepTemp bool   `yaml:"keep_temp"`

	Log *zap.SugaredLogger `yaml:"-"`
}

var _ Converter = (*Stanford)(nil)

func NewStanford() *Stanford {
	return &Stanford{
		Java:  DEFAULT_JAVA,
		Dir:   DEFAULT_DIR,
		Class: DEFAULT_CLASS,
		Log:   zap.NewNop().Sugar(),
	}
}

// Args is the converter command line for a tree file
func (s *Stanford) Args(treeFile string) []string {
	return []string{
		"-cp", "./*" + string(os.PathListSeparator),
		"-Dfile.encoding=UTF-8",
		s.Class,
		"-encoding", "UTF-8",
		"-treeFile", treeFile,
	}
}

func (s *Stanford) Convert(ctx context.Context, trees []string) (string, error) {
	if _, err := exec.LookPath(s.Java); err != nil {
		return "", fmt.Errorf("converter executable: %w", err)
	}
	mrg, err := os.CreateTemp(s.TmpDir, "nxtud-*.mrg")
	if err != nil {
		return "", err
	}
	mrgPath, err := filepath.Abs(mrg.Name())
	if err != nil {
		mrg.Close()
		return "", err
	}
	if !s.KeepTemp {
		defer os.Remove(mrgPath)
	}
	if _, err := mrg.WriteString(strings.Join(trees, "\n")); err != nil {
		mrg.Close()
		return "", err
	}
	if err := mrg.Close(); err != nil {
		return "", err
	}

	dep, err := os.CreateTemp(s.TmpDir, "nxtud-*.dep")
	if err != nil {
		return "", err
	}
	if !s.KeepTemp {
		defer os.Remove(dep.Name())
	}
	defer dep.Close()

	var stderr bytes.Buffer
	cmd := exec.CommandContext(ctx, s.Java, s.Args(mrgPath)...)
	cmd.Dir = s.Dir
	cmd.Stdout = dep
	cmd.Stderr = &stderr
	s.Log.Debugw("running converter", "trees", len(trees), "mrg", mrgPath, "dep", dep.Name())
	if err := cmd.Run(); err != nil {
		tail := stderr.Bytes()
		if len(tail) > stderrTail {
			tail = tail[len(tail)-stderrTail:]
		}
		return "", fmt.Errorf("running %s %s: %w: %s", s.Java, s.Class, err, tail)
	}
	output, err := os.ReadFile(dep.Name())
	if err != nil {
		return "", err
	}
	return string(output), nil
}
