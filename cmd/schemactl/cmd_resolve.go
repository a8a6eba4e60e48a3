package main

import (
	"fmt"
	"os"

	"schema-tools/cmd/schemactl/schemafile"

	"github.com/spf13/cobra"
)

var resolveCmd = &cobra.Command{
	Use:   "resolve",
	Short: "Print every resolved definition",
	Long: "Resolve all schema files and print the merged documents followed by the\n" +
		"passthrough objects. Abstract types are consumed and never printed.",
	RunE: func(cmd *cobra.Command, args []string) error {
		w, err := load()
		if err != nil {
			return err
		}

		output, _ := cmd.Flags().GetString("output")
		out := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			out = f
		}

		if err := schemafile.Encode(out, w.defs, w.settings.Format); err != nil {
			return err
		}
		if output != "" {
			fmt.Fprintf(os.Stderr, "written to %s\n", output)
		}
		return nil
	},
}

func init() {
	resolveCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}
