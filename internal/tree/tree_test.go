package tree

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapreq/internal/testutil"
)

func writeFile(t *testing.T, root, rel, content string) {
	t.Helper()
	path := filepath.Join(root, rel)
	require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
}

// fixtureProject lays out a two-level document hierarchy with one
// source file the items can reference.
func fixtureProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()

	writeFile(t, root, "reqs/.leapreq.yml", "settings:\n  prefix: REQ\n")
	writeFile(t, root, "reqs/REQ001.yml", "level: 1.1\ntext: |\n  First requirement.\nref: req1-marker\n")
	writeFile(t, root, "reqs/REQ002.yml", "level: 1.2\ntext: |\n  Second requirement.\n")

	writeFile(t, root, "design/.leapreq.yml", "settings:\n  prefix: SRD\n  parent: REQ\n")
	writeFile(t, root, "design/SRD001.yml", "level: 1.1\ntext: |\n  Derived design.\nlinks:\n- REQ001\n")

	writeFile(t, root, "src/code.c", "int main() { /* req1-marker */ }\n")

	return root
}

func buildFixture(t *testing.T, root string) *Tree {
	t.Helper()
	tr, err := Build(context.Background(), Config{
		Root:   root,
		VCS:    "none",
		Logger: testutil.NewTestLogger(t),
	})
	require.NoError(t, err)
	return tr
}

func TestBuild(t *testing.T) {
	root := fixtureProject(t)
	tr := buildFixture(t, root)

	assert.Equal(t, "none", tr.VCSKind())
	assert.Equal(t, []string{"REQ", "SRD"}, tr.Prefixes(), "parents come before children")
	assert.Equal(t, 3, tr.ItemCount())
	assert.NotEmpty(t, tr.Corpus())
	require.NotNil(t, tr.Resolver())

	// The corpus is usable for resolution.
	match := tr.Resolver().FindKeyword("req1-marker", filepath.Join(root, "reqs", "REQ001.yml"))
	require.NotNil(t, match)
	assert.Equal(t, "src/code.c", match.Path)
}

func TestBuild_DuplicatePrefix(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/.leapreq.yml", "settings:\n  prefix: REQ\n")
	writeFile(t, root, "b/.leapreq.yml", "settings:\n  prefix: req\n")

	_, err := Build(context.Background(), Config{Root: root, VCS: "none"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "duplicate document prefix")
}

func TestBuild_UnknownParent(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "design/.leapreq.yml", "settings:\n  prefix: SRD\n  parent: REQ\n")

	_, err := Build(context.Background(), Config{Root: root, VCS: "none"})
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestBuild_ParentCycle(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "a/.leapreq.yml", "settings:\n  prefix: AAA\n  parent: BBB\n")
	writeFile(t, root, "b/.leapreq.yml", "settings:\n  prefix: BBB\n  parent: AAA\n")

	_, err := Build(context.Background(), Config{Root: root, VCS: "none"})
	require.Error(t, err)
	assert.Contains(t, err.Error(), "cycle")
}

func TestBuild_SkipsDotDirectories(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "reqs/.leapreq.yml", "settings:\n  prefix: REQ\n")
	writeFile(t, root, ".stash/old/.leapreq.yml", "settings:\n  prefix: OLD\n")

	tr, err := Build(context.Background(), Config{Root: root, VCS: "none"})
	require.NoError(t, err)
	assert.Equal(t, []string{"REQ"}, tr.Prefixes())
}

func TestFindDocument(t *testing.T) {
	tr := buildFixture(t, fixtureProject(t))

	doc, err := tr.FindDocument("srd")
	require.NoError(t, err)
	assert.Equal(t, "SRD", doc.Prefix)

	_, err = tr.FindDocument("NOPE")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestFindItem(t *testing.T) {
	tr := buildFixture(t, fixtureProject(t))

	it, doc, err := tr.FindItem("req002")
	require.NoError(t, err)
	assert.Equal(t, "REQ002", it.UID.String())
	assert.Equal(t, "REQ", doc.Prefix)

	_, _, err = tr.FindItem("REQ999")
	assert.ErrorIs(t, err, ErrNotFound)
}

func TestParentAndChildItems(t *testing.T) {
	tr := buildFixture(t, fixtureProject(t))

	it, _, err := tr.FindItem("SRD001")
	require.NoError(t, err)

	parents := tr.ParentItems(it)
	require.Len(t, parents, 1)
	assert.Equal(t, "REQ001", parents[0].UID.String())

	children := tr.ChildItems("REQ001")
	require.Len(t, children, 1)
	assert.Equal(t, "SRD001", children[0].UID.String())

	assert.Empty(t, tr.ChildItems("REQ002"))
}

func TestTraceability(t *testing.T) {
	tr := buildFixture(t, fixtureProject(t))

	rows := tr.Traceability()
	require.Equal(t, [][]string{
		{"REQ001", "SRD001"},
		{"REQ002", ""},
	}, rows)
}

func TestTraceability_LinkCycleTerminates(t *testing.T) {
	root := t.TempDir()
	writeFile(t, root, "reqs/.leapreq.yml", "settings:\n  prefix: REQ\n")
	writeFile(t, root, "reqs/REQ001.yml", "links:\n- REQ002\n")
	writeFile(t, root, "reqs/REQ002.yml", "links:\n- REQ001\n")

	tr, err := Build(context.Background(), Config{Root: root, VCS: "none"})
	require.NoError(t, err)

	// Mutually linked items have no link-free starting point, so the
	// matrix is empty, but the walk must not hang.
	assert.Empty(t, tr.Traceability())

	cyclic, _ := tr.LinkGraph().HasCycle()
	assert.True(t, cyclic)
}

func TestDocumentOf(t *testing.T) {
	tr := buildFixture(t, fixtureProject(t))

	it, _, err := tr.FindItem("SRD001")
	require.NoError(t, err)
	doc := tr.DocumentOf(it)
	require.NotNil(t, doc)
	assert.Equal(t, "SRD", doc.Prefix)
}
