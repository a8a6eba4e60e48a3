package main

import (
	"errors"
	"fmt"
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	"schema-tools/cmd/schemactl/schemafile"

	"github.com/spf13/viper"
)

// appName is the single source of truth for the application name.
// All derived identifiers (env vars, config paths, error messages) are computed from it.
const appName = "schemactl"

// Derived env var names, computed once at init from appName.
var (
	envPrefix       = strings.ToUpper(appName)
	envConfigDir    = envPrefix + "_CONFIG_DIR"
	envRegistryDirs = envPrefix + "_REGISTRY_DIRS"
	envSchemas      = envPrefix + "_SCHEMAS"
)

// settings is the merged view of config file, environment and flags.
type settings struct {
	ConfigDir    string
	RegistryDirs []string
	SchemaFiles  []string
	Format       schemafile.Format
	LogLevel     slog.Level
}

// fileConfig mirrors <config>/schemactl.yml.
type fileConfig struct {
	Schemas      []string
	RegistryDirs []string
	Format       string
	LogLevel     string
}

// resolveConfigDir returns the base config directory for the application.
// Priority: $<APPNAME>_CONFIG_DIR > $XDG_CONFIG_HOME/<appName> > ~/.config/<appName>
func resolveConfigDir() (string, error) {
	if v := os.Getenv(envConfigDir); v != "" {
		return v, nil
	}
	if v := os.Getenv("XDG_CONFIG_HOME"); v != "" {
		return filepath.Join(v, appName), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("could not determine home directory: %w", err)
	}
	return filepath.Join(home, ".config", appName), nil
}

// readFileConfig loads <configDir>/schemactl.yml. A missing file is not an
// error. SCHEMACTL_FORMAT and SCHEMACTL_LOG_LEVEL override the file.
func readFileConfig(configDir string) (*fileConfig, error) {
	v := viper.New()
	v.SetConfigName(appName)
	v.SetConfigType("yaml")
	v.AddConfigPath(configDir)

	v.SetEnvPrefix(envPrefix)
	_ = v.BindEnv("format")
	_ = v.BindEnv("log_level")

	v.SetDefault("format", "yaml")
	v.SetDefault("log_level", "info")

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read %s.yml: %w", appName, err)
		}
	}

	cfg := &fileConfig{
		Schemas:      v.GetStringSlice("schemas"),
		RegistryDirs: v.GetStringSlice("registry_dirs"),
		Format:       v.GetString("format"),
		LogLevel:     v.GetString("log_level"),
	}
	cfg.Schemas = relativeTo(configDir, cfg.Schemas)
	cfg.RegistryDirs = relativeTo(configDir, cfg.RegistryDirs)
	return cfg, nil
}

// resolveSettings merges config file, environment and flags.
//
// Registry dirs: configDir/registry → config registry_dirs → $<APPNAME>_REGISTRY_DIRS → flagDirs
// Schema files:  configDir/schemas/* → config schemas → $<APPNAME>_SCHEMAS → flagFiles
//
// A non-empty flagFormat overrides the configured format; verbose forces debug logging.
func resolveSettings(flagFiles, flagDirs []string, flagFormat string, verbose bool) (*settings, error) {
	configDir, err := resolveConfigDir()
	if err != nil {
		return nil, err
	}
	cfg, err := readFileConfig(configDir)
	if err != nil {
		return nil, err
	}

	s := &settings{ConfigDir: configDir}

	s.RegistryDirs = []string{filepath.Join(configDir, "registry")}
	s.RegistryDirs = append(s.RegistryDirs, cfg.RegistryDirs...)
	s.RegistryDirs = append(s.RegistryDirs, splitColon(os.Getenv(envRegistryDirs))...)
	s.RegistryDirs = append(s.RegistryDirs, flagDirs...)

	autoFiles, err := globSchemas(filepath.Join(configDir, "schemas"))
	if err != nil {
		return nil, err
	}
	s.SchemaFiles = autoFiles
	s.SchemaFiles = append(s.SchemaFiles, cfg.Schemas...)
	s.SchemaFiles = append(s.SchemaFiles, splitColon(os.Getenv(envSchemas))...)
	s.SchemaFiles = append(s.SchemaFiles, flagFiles...)

	format := cfg.Format
	if flagFormat != "" {
		format = flagFormat
	}
	if s.Format, err = schemafile.ParseFormat(format); err != nil {
		return nil, err
	}

	if err := s.LogLevel.UnmarshalText([]byte(cfg.LogLevel)); err != nil {
		return nil, fmt.Errorf("log_level: %w", err)
	}
	if verbose {
		s.LogLevel = slog.LevelDebug
	}
	return s, nil
}

// sourceFiles returns every file to load: registry files first so their
// abstracts are declared before the schemas that extend them.
func (s *settings) sourceFiles() ([]string, error) {
	if len(s.SchemaFiles) == 0 {
		return nil, fmt.Errorf(
			"no schema files found: add *.yml or *.json files to %s, "+
				"set $%s, or use --file",
			filepath.Join(s.ConfigDir, "schemas"), envSchemas,
		)
	}
	files, err := s.registryFiles()
	if err != nil {
		return nil, err
	}
	return append(files, s.SchemaFiles...), nil
}

// registryFiles returns the schema files of every registry dir, in order.
func (s *settings) registryFiles() ([]string, error) {
	var files []string
	for _, dir := range s.RegistryDirs {
		found, err := globSchemas(dir)
		if err != nil {
			return nil, err
		}
		files = append(files, found...)
	}
	return files, nil
}

// globSchemas returns sorted *.yml / *.yaml / *.json / *.jsonc files in dir.
// Returns nil without error if dir does not exist.
func globSchemas(dir string) ([]string, error) {
	entries, err := os.ReadDir(dir)
	if os.IsNotExist(err) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("reading directory %s: %w", dir, err)
	}
	var files []string
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(e.Name())) {
		case ".yml", ".yaml", ".json", ".jsonc":
			files = append(files, filepath.Join(dir, e.Name()))
		}
	}
	return files, nil
}

// splitColon splits a colon-separated string, filtering empty parts.
func splitColon(s string) []string {
	if s == "" {
		return nil
	}
	parts := strings.Split(s, ":")
	out := parts[:0]
	for _, p := range parts {
		if p != "" {
			out = append(out, p)
		}
	}
	return out
}

func relativeTo(base string, paths []string) []string {
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		if !filepath.IsAbs(p) {
			p = filepath.Join(base, p)
		}
		out = append(out, p)
	}
	return out
}
