package main

import (
	"errors"
	"fmt"
	"io"
	"path/filepath"
	"strings"

	"github.com/chzyer/readline"
	"github.com/spf13/cobra"
)

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Interactive shell over the resolved definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := load()
		if err != nil {
			return err
		}
		sh := &shell{ws: w}

		rl, err := readline.NewEx(&readline.Config{
			Prompt:          appName + "> ",
			HistoryFile:     filepath.Join(w.settings.ConfigDir, ".shell_history"),
			AutoComplete:    sh.completer(),
			InterruptPrompt: "^C",
			EOFPrompt:       "quit",
		})
		if err != nil {
			return err
		}
		defer rl.Close()

		fmt.Fprintln(rl.Stdout(), "type help for commands")
		for {
			line, err := rl.Readline()
			if errors.Is(err, readline.ErrInterrupt) {
				if line == "" {
					return nil
				}
				continue
			}
			if errors.Is(err, io.EOF) {
				return nil
			}
			if err != nil {
				return err
			}
			if sh.exec(line, rl.Stdout()) {
				return nil
			}
		}
	},
}

// shell dispatches one line at a time against a workspace.
type shell struct {
	ws *workspace
}

const shellHelp = `commands:
  list            list resolved definitions
  show <name>     show one definition
  fields <name>   list the field names of a definition
  files           list loaded source files
  reload          re-read every source file
  help            this text
  quit            leave the shell
`

// exec runs one command line and reports whether the shell should exit.
func (sh *shell) exec(line string, out io.Writer) bool {
	args := strings.Fields(line)
	if len(args) == 0 {
		return false
	}
	switch args[0] {
	case "quit", "exit":
		return true
	case "help":
		fmt.Fprint(out, shellHelp)
	case "list":
		fmt.Fprint(out, renderList(sh.ws.defs))
	case "files":
		for _, f := range sh.ws.files {
			fmt.Fprintln(out, f)
		}
	case "reload":
		if err := sh.ws.reload(); err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		fmt.Fprintf(out, "%d definitions\n", len(sh.ws.defs))
	case "show", "fields":
		if len(args) != 2 {
			fmt.Fprintf(out, "usage: %s <name>\n", args[0])
			return false
		}
		def, err := sh.ws.find(args[1])
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		if args[0] == "fields" {
			for _, name := range def.FieldNames() {
				fmt.Fprintln(out, name)
			}
			return false
		}
		text, err := describe(def, sh.ws.settings.Format)
		if err != nil {
			fmt.Fprintln(out, "Error:", err)
			return false
		}
		fmt.Fprint(out, text)
	default:
		fmt.Fprintf(out, "unknown command %q (try help)\n", args[0])
	}
	return false
}

func (sh *shell) completer() *readline.PrefixCompleter {
	names := func(string) []string { return sh.ws.names() }
	return readline.NewPrefixCompleter(
		readline.PcItem("list"),
		readline.PcItem("show", readline.PcItemDynamic(names)),
		readline.PcItem("fields", readline.PcItemDynamic(names)),
		readline.PcItem("files"),
		readline.PcItem("reload"),
		readline.PcItem("help"),
		readline.PcItem("quit"),
	)
}
