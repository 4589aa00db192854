package document

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeDocument(t *testing.T, dir, config string, items map[string]string) {
	t.Helper()
	require.NoError(t, os.MkdirAll(dir, 0o755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ConfigName), []byte(config), 0o644))
	for name, content := range items {
		require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644))
	}
}

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, `settings:
  prefix: REQ
  digits: 4
  sep: '-'
  parent: SYS
attributes:
  publish:
  - owner
`, nil)

	doc, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, "REQ", doc.Prefix)
	assert.Equal(t, 4, doc.Digits)
	assert.Equal(t, "-", doc.Sep)
	assert.Equal(t, "SYS", doc.Parent)
	assert.Equal(t, []string{"owner"}, doc.PublishAttrs)
}

func TestLoad_Defaults(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  prefix: REQ\n", nil)

	doc, err := Load(dir)
	require.NoError(t, err)
	assert.Equal(t, 3, doc.Digits)
	assert.Empty(t, doc.Sep)
	assert.Empty(t, doc.Parent)
}

func TestLoad_MissingPrefix(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  digits: 3\n", nil)

	_, err := Load(dir)
	assert.Error(t, err)
}

func TestLoad_MissingConfig(t *testing.T) {
	_, err := Load(t.TempDir())
	assert.Error(t, err)
}

func TestLoadItems(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  prefix: REQ\n", map[string]string{
		"REQ001.yml": "level: '1.1'\ntext: first\n",
		"REQ002.yml": "level: '1.0'\ntext: heading\n",
		"OTHER1.yml": "text: different prefix\n",
		"notes.txt":  "not an item\n",
	})

	doc, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, doc.LoadItems())

	require.Len(t, doc.Items, 2)
	// Sorted by level: the 1.0 heading precedes 1.1.
	assert.Equal(t, "REQ002", doc.Items[0].UID.String())
	assert.Equal(t, "REQ001", doc.Items[1].UID.String())
}

func TestLoadItems_MalformedItem(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  prefix: REQ\n", map[string]string{
		"REQ001.yml": "level: one\n",
	})

	doc, err := Load(dir)
	require.NoError(t, err)
	assert.Error(t, doc.LoadItems())
}

func TestFindItem(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  prefix: REQ\n", map[string]string{
		"REQ001.yml": "text: one\n",
	})

	doc, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, doc.LoadItems())

	assert.NotNil(t, doc.FindItem("REQ001"))
	assert.NotNil(t, doc.FindItem("req001"))
	assert.Nil(t, doc.FindItem("REQ999"))
}

func TestNextNumber(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  prefix: REQ\n", map[string]string{
		"REQ001.yml": "text: one\n",
		"REQ007.yml": "text: seven\n",
	})

	doc, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, doc.LoadItems())

	assert.Equal(t, 8, doc.NextNumber())
	assert.Equal(t, "REQ008", doc.NewUID(doc.NextNumber()).String())
}

func TestNextNumber_EmptyDocument(t *testing.T) {
	dir := t.TempDir()
	writeDocument(t, dir, "settings:\n  prefix: REQ\n", nil)

	doc, err := Load(dir)
	require.NoError(t, err)
	require.NoError(t, doc.LoadItems())
	assert.Equal(t, 1, doc.NextNumber())
}
