package main

import (
	"errors"
	"fmt"

	"schema-tools/cmd/schemactl/extends"

	"github.com/ktr0731/go-fuzzyfinder"
	"github.com/spf13/cobra"
)

var showCmd = &cobra.Command{
	Use:               "show [name]",
	Short:             "Show one resolved definition",
	Long:              "Show one resolved definition. Without a name, pick it interactively.",
	Args:              cobra.MaximumNArgs(1),
	ValidArgsFunction: completeNames,
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := load()
		if err != nil {
			return err
		}

		var def *extends.Definition
		if len(args) == 1 {
			if def, err = w.find(args[0]); err != nil {
				return err
			}
		} else {
			if def, err = pickDefinition(w); err != nil {
				return err
			}
			if def == nil {
				return nil
			}
		}

		text, err := describe(def, w.settings.Format)
		if err != nil {
			return err
		}
		fmt.Fprint(cmd.OutOrStdout(), text)
		return nil
	},
}

// pickDefinition uses go-fuzzyfinder to let the user select a definition,
// previewing its fields. Returns nil without error when the user aborts.
func pickDefinition(w *workspace) (*extends.Definition, error) {
	if len(w.defs) == 0 {
		return nil, fmt.Errorf("no definitions to pick from")
	}
	idx, err := fuzzyfinder.Find(
		w.defs,
		func(i int) string {
			return w.defs[i].Name
		},
		fuzzyfinder.WithPromptString("Select definition: "),
		fuzzyfinder.WithPreviewWindow(func(i, width, height int) string {
			if i < 0 {
				return ""
			}
			text, err := describe(w.defs[i], w.settings.Format)
			if err != nil {
				return err.Error()
			}
			return text
		}),
	)
	if errors.Is(err, fuzzyfinder.ErrAbort) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}
	return w.defs[idx], nil
}
