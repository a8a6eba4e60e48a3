package schemafile

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"schema-tools/cmd/schemactl/extends"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const blogYAML = `
types:
  - name: timestamps
    type: abstract
    fields:
      - name: createdAt
        type: datetime
        readOnly: true

  - name: seo
    type: abstract
    parameters:
      siteName: ~
      maxLength: 60
    fields:
      - name: metaTitle
        type: string
        description: "Shown on {{ .params.siteName }}"
        max: "{{ .params.maxLength }}"

  - name: post
    type: document
    title: Post
    extends:
      - timestamps
      - type: seo
        parameters:
          siteName: Blog
    fields:
      - name: title
        type: string
    preview:
      select: title

  - name: author
    type: object
    fields:
      - name: name
        type: string
`

func mustBuild(t *testing.T, in string, format Format) []*extends.Definition {
	t.Helper()
	out, err := Build([]byte(in), format)
	require.NoError(t, err)
	return out
}

func TestBuild_YAML(t *testing.T) {
	out := mustBuild(t, blogYAML, FormatYAML)
	require.Len(t, out, 2)

	post := out[0]
	assert.Equal(t, "post", post.Name)
	assert.Equal(t, "Post", post.Title)
	assert.Equal(t, []string{"createdAt", "metaTitle", "title"}, post.FieldNames())
	assert.Nil(t, post.Extends)
	assert.Equal(t, map[string]any{"select": "title"}, post.Extra["preview"])

	createdAt, ok := post.Field("createdAt")
	require.True(t, ok)
	assert.Equal(t, true, createdAt.Attrs["readOnly"])

	meta, _ := post.Field("metaTitle")
	assert.Equal(t, "Shown on Blog", meta.Attrs["description"])
	assert.Equal(t, "60", meta.Attrs["max"])

	assert.Equal(t, "author", out[1].Name)
}

func TestBuild_JSONC(t *testing.T) {
	in := `{
  // shared fields
  "types": [
    {"name": "base", "type": "abstract", "fields": [{"name": "slug", "type": "slug"}]},
    {"name": "page", "type": "document", "extends": "base", "fields": [{"name": "body"},],},
  ],
}`
	out := mustBuild(t, in, FormatJSON)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"slug", "body"}, out[0].FieldNames())
}

func TestBuild_JSONEscapes(t *testing.T) {
	in := `{"types": [
  {"name": "a", "type": "document", "title": "https:\/\/example.com \u00e9",
   "fields": [{"name": "n", "type": "number", "max": 60}]}
]}`
	out := mustBuild(t, in, FormatJSON)
	require.Len(t, out, 1)
	assert.Equal(t, "https://example.com é", out[0].Title)
	f, ok := out[0].Field("n")
	require.True(t, ok)
	assert.EqualValues(t, 60, f.Attrs["max"])

	_, err := Parse([]byte("  // nothing here\n"), FormatJSON)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "empty document")
}

func TestBuild_NonStringKeysDeepMerge(t *testing.T) {
	out := mustBuild(t, `
- name: base
  type: abstract
  options:
    layout: {1: a}
- name: page
  type: document
  extends: base
  options:
    layout: {2: b}
`, FormatYAML)
	require.Len(t, out, 1)
	assert.Equal(t, map[string]any{"1": "a", "2": "b"}, out[0].Options["layout"])

	var buf bytes.Buffer
	require.NoError(t, Encode(&buf, out, FormatJSON))
	assert.Contains(t, buf.String(), `"1": "a"`)
}

func TestParse_NullExtends(t *testing.T) {
	for _, in := range []string{
		"- {name: d, type: document, extends: ~}",
		"- {name: d, type: document, extends: null}",
		`[{"name": "d", "type": "document", "extends": null}]`,
	} {
		doc, err := Parse([]byte(in), FormatYAML)
		require.NoError(t, err, in)
		assert.Empty(t, doc.Types[0].(*extends.Definition).Extends, in)
	}
	out := mustBuild(t, "- {name: d, type: document, extends: null, fields: [{name: a}]}", FormatYAML)
	assert.Equal(t, []string{"a"}, out[0].FieldNames())
}

func TestParse_ShorthandSequence(t *testing.T) {
	doc, err := Parse([]byte(`
- name: a
  type: abstract
- name: b
  type: document
  extends: a
`), FormatYAML)
	require.NoError(t, err)
	require.Len(t, doc.Types, 2)
	assert.Empty(t, doc.Defaults)

	b, ok := doc.Types[1].(*extends.Definition)
	require.True(t, ok)
	assert.Equal(t, []extends.Reference{extends.Ref("a")}, b.Extends)
}

func TestParse_ExtendsForms(t *testing.T) {
	doc, err := Parse([]byte(`
- name: d
  type: document
  extends:
    - plain
    - type: flagged
      parameters: true
    - type: valued
      parameters: {k: v}
    - type: nulled
      parameters: ~
`), FormatYAML)
	require.NoError(t, err)

	d := doc.Types[0].(*extends.Definition)
	require.Len(t, d.Extends, 4)
	assert.True(t, d.Extends[0].Params.IsZero())
	require.NotNil(t, d.Extends[1].Params.Flag)
	assert.True(t, *d.Extends[1].Params.Flag)
	assert.Equal(t, map[string]any{"k": "v"}, d.Extends[2].Params.Values)
	assert.True(t, d.Extends[3].Params.IsZero())

	single, err := Parse([]byte(`[{name: d, type: document, extends: {type: seo, parameters: false}}]`), FormatYAML)
	require.NoError(t, err)
	ref := single.Types[0].(*extends.Definition).Extends[0]
	assert.Equal(t, "seo", ref.Target)
	require.NotNil(t, ref.Params.Flag)
	assert.False(t, *ref.Params.Flag)
}

func TestParse_TemplateAbstractsBecomeResolvers(t *testing.T) {
	doc, err := Parse([]byte(blogYAML), FormatYAML)
	require.NoError(t, err)

	_, static := doc.Types[0].(*extends.Definition)
	assert.True(t, static, "plain abstract stays a definition")

	r, ok := doc.Types[1].(*extends.Resolver)
	require.True(t, ok)
	assert.Equal(t, "seo", r.TypeName())
	assert.False(t, r.IsStatic())
}

func TestParse_Errors(t *testing.T) {
	tests := []struct {
		name string
		in   string
		want string
	}{
		{"empty", ``, "empty document"},
		{"scalar root", `hello`, "unexpected root kind"},
		{"parameters on document", "- {name: d, type: document, parameters: {a: 1}}", "'parameters' can only be declared on abstract types"},
		{"extends entry without type", "- {name: d, type: document, extends: [{parameters: true}]}", "missing 'type'"},
		{"unknown extends key", "- {name: d, type: document, extends: {type: a, with: 1}}", `unknown key "with"`},
		{"bad parameters", "- {name: d, type: document, extends: {type: a, parameters: [1]}}", "expected boolean or mapping"},
		{"empty extends name", "- {name: d, type: document, extends: ''}", "empty type name"},
		{"null extends entry", "- {name: d, type: document, extends: [a, ~]}", "empty type name"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Parse([]byte(tt.in), FormatYAML)
			require.Error(t, err)
			assert.Contains(t, err.Error(), "phase=parse path=<doc>")
			assert.Contains(t, err.Error(), tt.want)
		})
	}
}

func TestBuild_Defaults(t *testing.T) {
	in := blogYAML + `
defaults:
  seo:
    siteName: Global
`
	out := mustBuild(t, in, FormatYAML)
	meta, _ := out[0].Field("metaTitle")
	assert.Equal(t, "Shown on Global", meta.Attrs["description"])
}

func TestTypesFromDocuments_DefaultsErrors(t *testing.T) {
	base, err := Parse([]byte(blogYAML), FormatYAML)
	require.NoError(t, err)

	t.Run("unknown abstract", func(t *testing.T) {
		doc := Document{Path: "extra.yml", Defaults: map[string]extends.Parameters{"nope": extends.BoolParams(true)}}
		_, err := TypesFromDocuments(base, doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), `defaults for unknown type "nope"`)
		assert.Contains(t, err.Error(), "path=extra.yml")
	})

	t.Run("non-parameterized type", func(t *testing.T) {
		doc := Document{Defaults: map[string]extends.Parameters{"timestamps": extends.BoolParams(true)}}
		_, err := TypesFromDocuments(base, doc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "type takes no parameters")
	})

	t.Run("declared twice", func(t *testing.T) {
		a := Document{Path: "a.yml", Defaults: map[string]extends.Parameters{"seo": extends.MapParams(map[string]any{"siteName": "A"})}}
		b := Document{Path: "b.yml", Defaults: map[string]extends.Parameters{"seo": extends.MapParams(map[string]any{"siteName": "B"})}}
		_, err := TypesFromDocuments(base, a, b)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "already declared in a.yml")
	})
}

func TestBuild_ResolveErrorsSurface(t *testing.T) {
	_, err := Build([]byte(`
- {name: a, type: abstract, extends: b}
- {name: b, type: abstract, extends: a}
- {name: d, type: document, extends: a}
`), FormatYAML)
	require.ErrorIs(t, err, extends.ErrCircularDependency)

	_, err = Build([]byte(`types: []`), FormatYAML)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "no types declared")
}

func TestBuildFiles_AcrossFormats(t *testing.T) {
	dir := t.TempDir()
	shared := filepath.Join(dir, "shared.jsonc")
	docs := filepath.Join(dir, "docs.yml")
	require.NoError(t, os.WriteFile(shared, []byte(`[
  // reused everywhere
  {"name": "timestamps", "type": "abstract", "fields": [{"name": "createdAt"}]},
]`), 0o644))
	require.NoError(t, os.WriteFile(docs, []byte("- {name: post, type: document, extends: timestamps, fields: [{name: title}]}\n"), 0o644))

	out, err := BuildFiles(extends.NewEngine(), shared, docs)
	require.NoError(t, err)
	require.Len(t, out, 1)
	assert.Equal(t, []string{"createdAt", "title"}, out[0].FieldNames())

	_, err = BuildFiles(extends.NewEngine(), filepath.Join(dir, "missing.yml"))
	require.Error(t, err)
	assert.ErrorIs(t, err, os.ErrNotExist)
}

func TestEncode_RoundTrip(t *testing.T) {
	out := mustBuild(t, blogYAML, FormatYAML)

	for _, format := range []Format{FormatYAML, FormatJSON} {
		t.Run(format.String(), func(t *testing.T) {
			var buf bytes.Buffer
			require.NoError(t, Encode(&buf, out, format))

			doc, err := Parse(buf.Bytes(), format)
			require.NoError(t, err)
			require.Len(t, doc.Types, 2)

			post := doc.Types[0].(*extends.Definition)
			assert.Equal(t, out[0].FieldNames(), post.FieldNames())
			assert.Equal(t, "Post", post.Title)
			assert.Equal(t, map[string]any{"select": "title"}, post.Extra["preview"])
		})
	}
}

func TestEncode_KeepsExtendsOnObjects(t *testing.T) {
	obj := &extends.Definition{
		Name:    "card",
		Type:    extends.TypeObject,
		Extends: []extends.Reference{extends.Ref("a"), {Target: "b", Params: extends.BoolParams(true)}},
	}
	var buf bytes.Buffer
	require.NoError(t, EncodeOne(&buf, obj, FormatYAML))
	assert.Contains(t, buf.String(), "extends:")
	assert.Contains(t, buf.String(), "- a")
	assert.Contains(t, buf.String(), "parameters: true")
}

func TestFormat(t *testing.T) {
	assert.Equal(t, FormatJSON, FormatFromPath("x/schema.JSONC"))
	assert.Equal(t, FormatYAML, FormatFromPath("schema.yml"))

	f, err := ParseFormat("json")
	require.NoError(t, err)
	assert.Equal(t, FormatJSON, f)

	_, err = ParseFormat("toml")
	assert.Error(t, err)
}
