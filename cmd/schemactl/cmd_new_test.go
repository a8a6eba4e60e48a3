package main

import (
	"os"
	"path/filepath"
	"testing"

	"schema-tools/cmd/schemactl/extends"
	"schema-tools/cmd/schemactl/schemafile"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseFieldList(t *testing.T) {
	tests := []struct {
		name    string
		list    string
		want    []extends.Field
		wantErr string
	}{
		{name: "empty", list: " , ", want: nil},
		{
			name: "types default to string",
			list: "title, body:text , slug: slug",
			want: []extends.Field{
				{Name: "title", Type: "string"},
				{Name: "body", Type: "text"},
				{Name: "slug", Type: "slug"},
			},
		},
		{name: "missing name", list: ":text", wantErr: "has no name"},
		{name: "duplicate", list: "a, a:text", wantErr: "declared twice"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseFieldList(tt.list)
			if tt.wantErr != "" {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestScaffold_RenderParsesBack(t *testing.T) {
	sc := scaffold{Name: " article ", Title: "Article", Extends: []string{"timestamps", "seo"}, Fields: "title, body:text"}

	for _, path := range []string{"out.yml", "out.json"} {
		t.Run(path, func(t *testing.T) {
			content, err := sc.render(path)
			require.NoError(t, err)

			doc, err := schemafile.Parse(content, schemafile.FormatFromPath(path))
			require.NoError(t, err)
			require.Len(t, doc.Types, 1)

			def := doc.Types[0].(*extends.Definition)
			assert.Equal(t, "article", def.Name)
			assert.Equal(t, extends.TypeDocument, def.Type)
			assert.Equal(t, []extends.Reference{extends.Ref("timestamps"), extends.Ref("seo")}, def.Extends)
			assert.Equal(t, []string{"title", "body"}, def.FieldNames())
		})
	}

	_, err := scaffold{}.render("x.yml")
	assert.Error(t, err)
}

func TestWriteScaffold(t *testing.T) {
	out := filepath.Join(t.TempDir(), "schemas", "article.yml")
	sc := scaffold{Name: "article", Fields: "title", Output: out}

	require.NoError(t, writeScaffold(sc, false))
	_, err := os.Stat(out)
	require.NoError(t, err)

	err = writeScaffold(sc, false)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "already exists")
	require.NoError(t, writeScaffold(sc, true))
}

func TestKnownTypes(t *testing.T) {
	dir := isolate(t)
	_, err := initConfigDir(dir, false)
	require.NoError(t, err)
	s, err := resolveSettings(nil, nil, "", false)
	require.NoError(t, err)

	abstracts, taken := knownTypes(s)
	assert.Equal(t, []string{"seo", "timestamps"}, abstracts)
	assert.True(t, taken["post"])
	assert.False(t, taken["article"])
}

func TestKnownTypes_RegistryOnly(t *testing.T) {
	dir := isolate(t)
	writeFile(t, filepath.Join(dir, "registry", "types.yml"), string(exampleRegistryYAML))
	s, err := resolveSettings(nil, nil, "", false)
	require.NoError(t, err)
	require.Empty(t, s.SchemaFiles)

	abstracts, taken := knownTypes(s)
	assert.Equal(t, []string{"seo", "timestamps"}, abstracts)
	assert.False(t, taken["post"])
}
