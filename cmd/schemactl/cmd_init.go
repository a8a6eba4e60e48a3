package main

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/cobra"
)

const initRegistryHeader = "# schemactl registry — shared abstract types\n" +
	"# Abstracts declared here can be extended from every schema file.\n" +
	"# Reference: schemactl example\n\n"

const initSchemasHeader = "# schemactl schemas — documents and objects\n" +
	"# Reference: schemactl example\n\n"

const initConfig = `# schemactl configuration
# Relative paths are resolved against this directory.

# Extra schema files loaded after <config>/schemas/*.
schemas: []

# Extra directories of shared abstract types, loaded before any schema file.
registry_dirs: []

# Output format of resolve and show: yaml or json.
format: yaml

# debug logs every merged ancestor.
log_level: info
`

var initCmd = &cobra.Command{
	Use:   "init",
	Short: "Initialise the schemactl config directory with example files",
	Long: "Create the schemactl config directory structure and populate it with\n" +
		"starter files.\n\n" +
		"Created:\n" +
		"  <config>/schemactl.yml     configuration\n" +
		"  <config>/registry/         shared abstract types\n" +
		"  <config>/schemas/          documents and objects\n\n" +
		"The default config directory follows the same priority as every command:\n" +
		"  $SCHEMACTL_CONFIG_DIR > $XDG_CONFIG_HOME/schemactl > ~/.config/schemactl",
	RunE: func(cmd *cobra.Command, args []string) error {
		force, _ := cmd.Flags().GetBool("force")
		dir, _ := cmd.Flags().GetString("dir")

		if dir == "" {
			var err error
			dir, err = resolveConfigDir()
			if err != nil {
				return err
			}
		}

		files, err := initConfigDir(dir, force)
		if err != nil {
			return err
		}

		fmt.Fprintf(os.Stderr, "initialised %s\n", dir)
		for _, f := range files {
			fmt.Fprintf(os.Stderr, "  %s\n", f)
		}
		fmt.Fprintf(os.Stderr, "\nRun `%s list` to see the resolved definitions.\n", appName)
		return nil
	},
}

// initConfigDir writes the starter layout under dir and returns the files written.
func initConfigDir(dir string, force bool) ([]string, error) {
	registryDir := filepath.Join(dir, "registry")
	schemasDir := filepath.Join(dir, "schemas")

	for _, d := range []string{registryDir, schemasDir} {
		if err := os.MkdirAll(d, 0o755); err != nil {
			return nil, fmt.Errorf("creating directory %s: %w", d, err)
		}
	}

	configFile := filepath.Join(dir, appName+".yml")
	registryFile := filepath.Join(registryDir, "types.yml")
	schemasFile := filepath.Join(schemasDir, "schemas.yml")

	if err := writeInitFile(configFile, "", []byte(initConfig), force); err != nil {
		return nil, err
	}
	if err := writeInitFile(registryFile, initRegistryHeader, exampleRegistryYAML, force); err != nil {
		return nil, err
	}
	if err := writeInitFile(schemasFile, initSchemasHeader, exampleSchemasYAML, force); err != nil {
		return nil, err
	}
	return []string{configFile, registryFile, schemasFile}, nil
}

func writeInitFile(path, header string, content []byte, force bool) error {
	if !force {
		if _, err := os.Stat(path); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", path)
		}
	}
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", path, err)
	}
	defer f.Close()
	fmt.Fprint(f, header)
	_, err = f.Write(content)
	return err
}

func init() {
	initCmd.Flags().Bool("force", false, "overwrite existing files")
	initCmd.Flags().String("dir", "", "target config directory (default: auto-resolved)")
}
