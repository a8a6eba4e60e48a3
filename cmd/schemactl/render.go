package main

import (
	"bytes"
	"fmt"
	"sort"
	"strings"

	"schema-tools/cmd/schemactl/extends"
	"schema-tools/cmd/schemactl/schemafile"

	"github.com/charmbracelet/lipgloss"
)

var (
	styleTitle = lipgloss.NewStyle().
			Bold(true).
			Foreground(lipgloss.Color("99"))

	styleKind = lipgloss.NewStyle().
			Foreground(lipgloss.Color("214"))

	styleDim = lipgloss.NewStyle().
			Foreground(lipgloss.Color("241"))

	styleField = lipgloss.NewStyle().
			Foreground(lipgloss.Color("42"))
)

// kindLabel is the declared type of a resolved definition; objects keep their
// own type name.
func kindLabel(d *extends.Definition) string {
	if d.Type == "" {
		return extends.TypeObject
	}
	return d.Type
}

// renderList returns one aligned line per definition: name, type, field count
// and title.
func renderList(defs []*extends.Definition) string {
	if len(defs) == 0 {
		return styleDim.Render("no definitions found") + "\n"
	}

	nameLen, kindLen := 0, 0
	for _, d := range defs {
		nameLen = max(nameLen, len(d.Name))
		kindLen = max(kindLen, len(kindLabel(d)))
	}

	var b strings.Builder
	for _, d := range defs {
		name := fmt.Sprintf("%-*s", nameLen, d.Name)
		kind := fmt.Sprintf("%-*s", kindLen+2, "["+kindLabel(d)+"]")
		fields := fmt.Sprintf("%3d fields", len(d.Fields))
		line := styleTitle.Render(name) + "  " + styleKind.Render(kind) + "  " + styleDim.Render(fields)
		if d.Title != "" {
			line += "  " + d.Title
		}
		b.WriteString(line + "\n")
	}
	return b.String()
}

// describe renders a definition for humans: a header, the field list and
// the encoded body.
func describe(d *extends.Definition, format schemafile.Format) (string, error) {
	var b strings.Builder

	header := styleTitle.Render(d.Name) + " " + styleKind.Render("["+kindLabel(d)+"]")
	if d.Title != "" {
		header += "  " + d.Title
	}
	b.WriteString(header + "\n\n")

	if len(d.Fields) == 0 {
		b.WriteString(styleDim.Render("no fields") + "\n")
	} else {
		b.WriteString(styleDim.Render("fields:") + "\n")
		for i, f := range d.Fields {
			name := f.Name
			if name == "" {
				name = fmt.Sprintf("#%d", i)
			}
			line := "  " + styleField.Render(name)
			if f.Type != "" {
				line += " " + styleDim.Render(f.Type)
			}
			if len(f.Attrs) > 0 {
				line += " " + styleDim.Render("("+strings.Join(sortedAttrKeys(f.Attrs), ", ")+")")
			}
			b.WriteString(line + "\n")
		}
	}

	var body bytes.Buffer
	if err := schemafile.EncodeOne(&body, d, format); err != nil {
		return "", err
	}
	b.WriteString("\n" + body.String())
	return b.String(), nil
}

func sortedAttrKeys(m map[string]any) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
