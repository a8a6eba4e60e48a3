package main

import (
	"schema-tools/pkg/lib"

	flag "github.com/spf13/pflag"
)

var (
	flagFiles        []string
	flagRegistryDirs []string
	flagFormat       string
	flagVerbose      bool
)

func main() {
	rootCmd.AddCommand(resolveCmd)
	rootCmd.AddCommand(listCmd)
	rootCmd.AddCommand(showCmd)
	rootCmd.AddCommand(browseCmd)
	rootCmd.AddCommand(newCmd)
	rootCmd.AddCommand(shellCmd)
	rootCmd.AddCommand(exampleCmd)
	rootCmd.AddCommand(initCmd)

	registerSourceFlags(rootCmd.PersistentFlags())

	rootCmd.SilenceErrors = true
	rootCmd.SilenceUsage = true

	if err := rootCmd.Execute(); err != nil {
		lib.Exit(err)
	}
}

// registerSourceFlags declares the flags shared by every command that loads schemas.
func registerSourceFlags(fs *flag.FlagSet) {
	fs.StringArrayVarP(&flagFiles, "file", "f", nil,
		"schema file (repeatable; default: ~/.config/"+appName+"/schemas/*.yml)")
	fs.StringArrayVar(&flagRegistryDirs, "registry-dir", nil,
		"additional directory of shared abstract types (repeatable)")
	fs.StringVar(&flagFormat, "format", "",
		"output format: yaml or json (default from "+appName+".yml, else yaml)")
	fs.BoolVarP(&flagVerbose, "verbose", "v", false,
		"log every merged ancestor to stderr")
}
