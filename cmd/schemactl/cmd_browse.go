package main

import (
	"fmt"

	"schema-tools/cmd/schemactl/extends"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/spf13/cobra"
)

var browseCmd = &cobra.Command{
	Use:   "browse",
	Short: "Browse resolved definitions interactively",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := load()
		if err != nil {
			return err
		}

		noTUI, _ := cmd.Flags().GetBool("no-tui")
		if noTUI {
			fmt.Fprint(cmd.OutOrStdout(), renderList(w.defs))
			return nil
		}

		reload := func() ([]*extends.Definition, error) {
			if err := w.reload(); err != nil {
				return nil, err
			}
			return w.defs, nil
		}
		p := tea.NewProgram(newBrowseModel(w.defs, w.settings.Format, reload), tea.WithAltScreen())
		_, err = p.Run()
		return err
	},
}

func init() {
	browseCmd.Flags().Bool("no-tui", false, "print the plain list instead of the interactive view")
}
