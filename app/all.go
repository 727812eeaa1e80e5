package app

import (
	"os"
	"path/filepath"

	"github.com/gonuts/commander"
	"github.com/gonuts/flag"
)

var AppCommands = []func() *commander.Command{
	ConvertCmd,
	TurnsCmd,
}

func AllCommands() *commander.Command {
	cmd := &commander.Command{
		UsageLine: filepath.Base(os.Args[0]),
		Short:     "converts the NXT Switchboard treebank to Universal Dependencies",
		Flag:      *flag.NewFlagSet("nxtud", flag.ExitOnError),
	}
	for _, app := range AppCommands {
		cmd.Subcommands = append(cmd.Subcommands, app())
	}
	return cmd
}
