package main

import (
	"bytes"
	_ "embed"
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

//go:embed example_registry.yml
var exampleRegistryYAML []byte

//go:embed example_schemas.yml
var exampleSchemasYAML []byte

const exampleHeader = `# schemactl reference
# Run:     schemactl --file <this-file> resolve
# Inspect: schemactl --file <this-file> browse

`

var exampleCmd = &cobra.Command{
	Use:   "example",
	Short: "Print a reference schema file covering every feature",
	Long: "Print a schema file that demonstrates plain and parameterized abstracts,\n" +
		"module defaults, multi-parent extends, field overrides and objects.\n" +
		"Use --output to write to a file instead of stdout.",
	RunE: func(cmd *cobra.Command, args []string) error {
		output, _ := cmd.Flags().GetString("output")
		w := os.Stdout
		if output != "" {
			f, err := os.Create(output)
			if err != nil {
				return fmt.Errorf("creating %s: %w", output, err)
			}
			defer f.Close()
			w = f
		}

		fmt.Fprint(w, exampleHeader)
		w.Write(exampleDocument())

		if output != "" {
			fmt.Fprintf(os.Stderr, "written to %s\n", output)
		}
		return nil
	},
}

// exampleDocument joins the registry and schema examples into one
// mapping-form document.
func exampleDocument() []byte {
	types, defaults, hasDefaults := bytes.Cut(exampleRegistryYAML, []byte("\ndefaults:"))
	_, schemaTypes, _ := bytes.Cut(exampleSchemasYAML, []byte("types:\n"))

	var b bytes.Buffer
	b.Write(types)
	b.WriteString("\n")
	b.Write(schemaTypes)
	if hasDefaults {
		b.WriteString("\ndefaults:")
		b.Write(defaults)
	}
	return b.Bytes()
}

func init() {
	exampleCmd.Flags().StringP("output", "o", "", "write to file instead of stdout")
}
