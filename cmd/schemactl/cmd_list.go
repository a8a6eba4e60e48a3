package main

import (
	"fmt"

	"github.com/spf13/cobra"
)

var listCmd = &cobra.Command{
	Use:   "list",
	Short: "List all resolved definitions",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := load()
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), renderList(w.defs))
		return nil
	},
}
