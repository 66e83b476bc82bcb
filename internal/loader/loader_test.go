package loader_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turbobot/internal/loader"
)

func writeFile(t *testing.T, dir, name, content string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoadAll_SortedTxtOnly(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "b_rotor.txt", "Rotor Manual\n\nblade content")
	writeFile(t, dir, "a_gearbox.txt", "Gearbox Manual\n\ngear content")
	writeFile(t, dir, "notes.md", "ignored")
	require.NoError(t, os.Mkdir(filepath.Join(dir, "sub"), 0o755))

	docs, err := loader.New(dir).LoadAll()
	require.NoError(t, err)
	require.Len(t, docs, 2)
	assert.Equal(t, "Gearbox Manual", docs[0].Title)
	assert.Equal(t, "Rotor Manual", docs[1].Title)
	assert.NotEqual(t, docs[0].ID, docs[1].ID)
	assert.Contains(t, docs[0].SourcePath, "a_gearbox.txt")
}

func TestLoadAll_MissingDirectory(t *testing.T) {
	_, err := loader.New(filepath.Join(t.TempDir(), "nope")).LoadAll()
	assert.Error(t, err)
}

func TestParse_TitleIsFirstNonEmptyLine(t *testing.T) {
	dir := t.TempDir()
	path := writeFile(t, dir, "m.txt", "\n\n  Gearbox Maintenance Manual  \nbody")

	doc, err := loader.Parse(path)
	require.NoError(t, err)
	assert.Equal(t, "Gearbox Maintenance Manual", doc.Title)
	assert.Equal(t, path, doc.SourcePath)
}

func TestParse_SectionsFromAllCapsHeadings(t *testing.T) {
	content := `Gearbox Manual

LUBRICATION SCHEDULE
Change oil every 6 months.

FAILURE MODES
Bearing wear and gear pitting.
`
	dir := t.TempDir()
	doc, err := loader.Parse(writeFile(t, dir, "m.txt", content))
	require.NoError(t, err)
	require.Len(t, doc.Sections, 2)
	assert.Equal(t, "LUBRICATION SCHEDULE", doc.Sections[0].Title)
	assert.Contains(t, doc.Sections[0].Text, "Change oil")
	assert.Equal(t, "FAILURE MODES", doc.Sections[1].Title)
	assert.Contains(t, doc.Sections[1].Text, "gear pitting")
}

func TestParse_SectionsFromUnderlinedHeadings(t *testing.T) {
	content := `Manual

Vibration Limits
================
Keep vibration under 3.5 mm/s.
`
	dir := t.TempDir()
	doc, err := loader.Parse(writeFile(t, dir, "m.txt", content))
	require.NoError(t, err)
	require.NotEmpty(t, doc.Sections)
	assert.Equal(t, "Vibration Limits", doc.Sections[0].Title)
	assert.Contains(t, doc.Sections[0].Text, "3.5 mm/s")
}
