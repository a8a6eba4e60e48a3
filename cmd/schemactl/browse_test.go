package main

import (
	"errors"
	"testing"

	"schema-tools/cmd/schemactl/extends"
	"schema-tools/cmd/schemactl/schemafile"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func press(m browseModel, key tea.KeyMsg) (browseModel, tea.Cmd) {
	next, cmd := m.Update(key)
	return next.(browseModel), cmd
}

func runeKey(r rune) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune{r}}
}

func TestBrowseModel_Navigation(t *testing.T) {
	m := newBrowseModel(exampleDefs(t), schemafile.FormatYAML, nil)
	require.Equal(t, "post", m.selected().Name)
	assert.Contains(t, m.detail.View(), "post")
	assert.Contains(t, m.View(), "3 definitions")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "page", m.selected().Name)
	assert.Contains(t, m.detail.View(), "page")

	m, _ = press(m, tea.KeyMsg{Type: tea.KeyTab})
	assert.Equal(t, focusDetail, m.focus)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	assert.Equal(t, "page", m.selected().Name, "arrows scroll the detail pane while it has focus")

	_, cmd := press(m, runeKey('q'))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestBrowseModel_Reload(t *testing.T) {
	defs := exampleDefs(t)
	fail := true
	reload := func() ([]*extends.Definition, error) {
		if fail {
			return nil, errors.New("boom")
		}
		return defs[:1], nil
	}

	m := newBrowseModel(defs, schemafile.FormatYAML, reload)
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})
	m, _ = press(m, tea.KeyMsg{Type: tea.KeyDown})

	m, _ = press(m, runeKey('r'))
	assert.Contains(t, m.View(), "reload failed: boom")
	assert.Len(t, m.defs, 3)

	fail = false
	m, _ = press(m, runeKey('r'))
	assert.NoError(t, m.lastErr)
	require.Len(t, m.defs, 1)
	assert.Equal(t, "post", m.selected().Name)
	assert.Contains(t, m.View(), "1 definitions")
}

func TestBrowseModel_Empty(t *testing.T) {
	m := newBrowseModel(nil, schemafile.FormatYAML, nil)
	assert.Nil(t, m.selected())
	assert.Contains(t, m.detail.View(), "no definitions")
}
