package main

import (
	"fmt"
	"log/slog"
	"os"
	"sort"
	"strings"

	"schema-tools/cmd/schemactl/extends"
	"schema-tools/cmd/schemactl/schemafile"

	"github.com/spf13/cobra"
)

var rootCmd = &cobra.Command{
	Use:   appName + " [command]",
	Short: "Resolve and inspect schema extends chains",
	Long: appName + " loads schema files, flattens every document through its\n" +
		"extends chain and prints or browses the result.\n\n" +
		"Files are read from the registry directories first, then the schema files:\n" +
		"  <config>/registry/*  <config>/schemas/*  $" + envSchemas + "  --file",
	RunE: func(cmd *cobra.Command, args []string) error {
		return cmd.Help()
	},
}

// workspace is the loaded state every subcommand works on.
type workspace struct {
	settings *settings
	logger   *slog.Logger
	files    []string
	defs     []*extends.Definition
}

// load resolves settings from the global flags and builds the workspace.
func load() (*workspace, error) {
	s, err := resolveSettings(flagFiles, flagRegistryDirs, flagFormat, flagVerbose)
	if err != nil {
		return nil, err
	}
	w := &workspace{
		settings: s,
		logger:   newLogger(os.Stderr, s.LogLevel),
	}
	if err := w.reload(); err != nil {
		return nil, err
	}
	return w, nil
}

// reload re-reads every source file. On failure the previous definitions are kept.
func (w *workspace) reload() error {
	files, err := w.settings.sourceFiles()
	if err != nil {
		return err
	}
	engine := extends.NewEngine(extends.WithLogger(w.logger))
	defs, err := schemafile.BuildFiles(engine, files...)
	if err != nil {
		return err
	}
	w.files = files
	w.defs = defs
	w.logger.Debug("resolved schemas", "files", len(files), "definitions", len(defs))
	return nil
}

// find returns the resolved definition called name.
func (w *workspace) find(name string) (*extends.Definition, error) {
	for _, d := range w.defs {
		if d.Name == name {
			return d, nil
		}
	}
	return nil, fmt.Errorf("%q not found\navailable: %s", name, strings.Join(w.names(), ", "))
}

// names returns the resolved definition names, sorted.
func (w *workspace) names() []string {
	names := make([]string, len(w.defs))
	for i, d := range w.defs {
		names[i] = d.Name
	}
	sort.Strings(names)
	return names
}

// completeNames provides shell completion for commands taking a definition name.
func completeNames(cmd *cobra.Command, args []string, toComplete string) ([]string, cobra.ShellCompDirective) {
	if len(args) > 0 {
		return nil, cobra.ShellCompDirectiveNoFileComp
	}
	w, err := load()
	if err != nil {
		return nil, cobra.ShellCompDirectiveError
	}
	var suggestions []string
	for _, name := range w.names() {
		if strings.HasPrefix(name, toComplete) {
			suggestions = append(suggestions, name)
		}
	}
	return suggestions, cobra.ShellCompDirectiveNoFileComp
}
