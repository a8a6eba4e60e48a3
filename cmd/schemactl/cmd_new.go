package main

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"schema-tools/cmd/schemactl/extends"
	"schema-tools/cmd/schemactl/schemafile"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"
)

// scaffold holds the answers of the new-schema form.
type scaffold struct {
	Name    string
	Title   string
	Extends []string
	Fields  string // "name:type, name:type"
	Output  string
}

var newCmd = &cobra.Command{
	Use:   "new",
	Short: "Scaffold a new document schema file",
	Long: "Ask for a name, a title, the abstract types to extend and the fields,\n" +
		"then write a document schema file to the schemas directory.",
	RunE: func(cmd *cobra.Command, args []string) error {
		s, err := resolveSettings(flagFiles, flagRegistryDirs, flagFormat, flagVerbose)
		if err != nil {
			return err
		}
		abstracts, taken := knownTypes(s)

		var answers scaffold
		var confirmed bool
		form := huh.NewForm(
			huh.NewGroup(
				huh.NewInput().
					Title("Name").
					Description("Type name of the new document").
					Value(&answers.Name).
					Validate(func(v string) error {
						v = strings.TrimSpace(v)
						if v == "" {
							return errors.New("name is required")
						}
						if taken[v] {
							return fmt.Errorf("%q is already declared", v)
						}
						return nil
					}),
				huh.NewInput().
					Title("Title").
					Value(&answers.Title),
				huh.NewInput().
					Title("Fields").
					Description("Comma-separated name:type pairs, e.g. title:string, body:text").
					Value(&answers.Fields),
			),
			huh.NewGroup(
				huh.NewMultiSelect[string]().
					Title("Extends").
					Description("Abstract types merged in, in order").
					Options(huh.NewOptions(abstracts...)...).
					Value(&answers.Extends),
			).WithHideFunc(func() bool { return len(abstracts) == 0 }),
			huh.NewGroup(
				huh.NewInput().
					Title("Output file").
					Placeholder(filepath.Join(s.ConfigDir, "schemas", "<name>.yml")).
					Value(&answers.Output),
				huh.NewConfirm().
					Title("Write the file?").
					Value(&confirmed),
			),
		)
		if err := form.Run(); err != nil {
			if errors.Is(err, huh.ErrUserAborted) {
				return nil
			}
			return err
		}
		if !confirmed {
			return nil
		}

		if answers.Output == "" {
			answers.Output = filepath.Join(s.ConfigDir, "schemas", strings.TrimSpace(answers.Name)+".yml")
		}
		force, _ := cmd.Flags().GetBool("force")
		return writeScaffold(answers, force)
	},
}

func init() {
	newCmd.Flags().Bool("force", false, "overwrite an existing file")
}

// knownTypes returns the declared abstract names, sorted, and the set of all
// declared names. Registry dirs are read even when no schema files exist yet.
// Unreadable sources yield empty results; the form still works.
func knownTypes(s *settings) ([]string, map[string]bool) {
	taken := map[string]bool{}
	files, err := s.registryFiles()
	if err != nil {
		return nil, taken
	}
	files = append(files, s.SchemaFiles...)
	docs, err := schemafile.LoadFiles(files...)
	if err != nil {
		return nil, taken
	}
	var abstracts []string
	for _, doc := range docs {
		for _, t := range doc.Types {
			taken[t.TypeName()] = true
			switch v := t.(type) {
			case *extends.Resolver:
				abstracts = append(abstracts, v.TypeName())
			case *extends.Definition:
				if v.Kind() == extends.KindAbstract {
					abstracts = append(abstracts, v.Name)
				}
			}
		}
	}
	sort.Strings(abstracts)
	return abstracts, taken
}

// definition builds the document described by the answers.
func (sc scaffold) definition() (*extends.Definition, error) {
	def := &extends.Definition{
		Name:  strings.TrimSpace(sc.Name),
		Type:  extends.TypeDocument,
		Title: strings.TrimSpace(sc.Title),
	}
	if def.Name == "" {
		return nil, errors.New("name is required")
	}
	for _, target := range sc.Extends {
		def.Extends = append(def.Extends, extends.Ref(target))
	}
	fields, err := parseFieldList(sc.Fields)
	if err != nil {
		return nil, err
	}
	def.Fields = fields
	return def, nil
}

// parseFieldList parses "name:type, name:type". A missing type defaults to string.
func parseFieldList(list string) ([]extends.Field, error) {
	var fields []extends.Field
	seen := map[string]bool{}
	for _, part := range strings.Split(list, ",") {
		part = strings.TrimSpace(part)
		if part == "" {
			continue
		}
		name, typ, _ := strings.Cut(part, ":")
		name, typ = strings.TrimSpace(name), strings.TrimSpace(typ)
		if name == "" {
			return nil, fmt.Errorf("field %q has no name", part)
		}
		if seen[name] {
			return nil, fmt.Errorf("field %q declared twice", name)
		}
		seen[name] = true
		if typ == "" {
			typ = "string"
		}
		fields = append(fields, extends.Field{Name: name, Type: typ})
	}
	return fields, nil
}

// render encodes the scaffolded document in the format implied by path.
func (sc scaffold) render(path string) ([]byte, error) {
	def, err := sc.definition()
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := schemafile.Encode(&buf, []*extends.Definition{def}, schemafile.FormatFromPath(path)); err != nil {
		return nil, err
	}
	return buf.Bytes(), nil
}

func writeScaffold(sc scaffold, force bool) error {
	content, err := sc.render(sc.Output)
	if err != nil {
		return err
	}
	if !force {
		if _, err := os.Stat(sc.Output); err == nil {
			return fmt.Errorf("%s already exists (use --force to overwrite)", sc.Output)
		}
	}
	if err := os.MkdirAll(filepath.Dir(sc.Output), 0o755); err != nil {
		return fmt.Errorf("creating directory %s: %w", filepath.Dir(sc.Output), err)
	}
	if err := os.WriteFile(sc.Output, content, 0o644); err != nil {
		return fmt.Errorf("writing %s: %w", sc.Output, err)
	}
	fmt.Fprintf(os.Stderr, "written to %s\n", sc.Output)
	return nil
}
