package app

import (
	"fmt"
	"os"
	"path/filepath"

	"nxtud/nlp/turns"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

const DEFAULT_TURN_DIR = "../UD_English-NXT-turn/"

// MergeTurnFiles merges the per-document files of split under dir into
// dir/en_nxt-<split>.conllu and returns the number of turns written
func MergeTurnFiles(dir, split string) (int, error) {
	files, err := turns.DocumentFiles(dir, split)
	if err != nil {
		return 0, err
	}
	if len(files) == 0 {
		return 0, fmt.Errorf("no document files under %s", filepath.Join(dir, split))
	}
	out, err := os.Create(filepath.Join(dir, fmt.Sprintf(SECTION_FILE, split)))
	if err != nil {
		return 0, err
	}
	n, err := turns.MergeFiles(files, out)
	if closeErr := out.Close(); err == nil {
		err = closeErr
	}
	return n, err
}

func MergeTurns(cmd *commander.Command, args []string) error {
	log, err := setupLogger()
	if err != nil {
		return err
	}
	defer log.Sync()

	if err := VerifyFlags(cmd, []string{"split"}); err != nil {
		return err
	}
	if !VerifyExists(log, filepath.Join(turnDir, turnSplit)) {
		return fmt.Errorf("split %s not found under %s", turnSplit, turnDir)
	}
	log.Infow("Merging turns", "split", turnSplit, "dir", turnDir)
	n, err := MergeTurnFiles(turnDir, turnSplit)
	if err != nil {
		return err
	}
	log.Infow("Wrote turns", "turns", n)
	logStats(log, filepath.Join(turnDir, fmt.Sprintf(SECTION_FILE, turnSplit)))
	return nil
}

func TurnsCmd() *commander.Command {
	cmd := &commander.Command{
		Run:       MergeTurns,
		UsageLine: "turns <file options> [arguments]",
		Short:     "merges per-document sentence files into turns",
		Long: `
merges the per-document files written by convert -turn into one block per speaker turn

	$ ./nxtud turns -split <train|dev|test> [-dir ../UD_English-NXT-turn/]

`,
		Flag: *flag.NewFlagSet("turns", flag.ExitOnError),
	}
	cmd.Flag.StringVar(&turnSplit, "split", "", "Split (section) to merge")
	cmd.Flag.StringVar(&turnDir, "dir", DEFAULT_TURN_DIR, "Directory holding the per-document split directories")
	cmd.Flag.BoolVar(&verbose, "v", false, "Verbose logging")
	return cmd
}
