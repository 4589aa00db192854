package links

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/internal/tree"
)

// buildTree writes the given files under a temp root and builds a tree
// from them.
func buildTree(t *testing.T, files map[string]string) *tree.Tree {
	t.Helper()
	root := t.TempDir()
	for rel, content := range files {
		path := filepath.Join(root, rel)
		require.NoError(t, os.MkdirAll(filepath.Dir(path), 0o755))
		require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	}
	tr, err := tree.Build(context.Background(), tree.Config{Root: root, VCS: "none"})
	require.NoError(t, err)
	return tr
}

func itemContext(t *testing.T, tr *tree.Tree, uid string) *check.ItemContext {
	t.Helper()
	it, doc, err := tr.FindItem(uid)
	require.NoError(t, err)
	return &check.ItemContext{Item: it, Document: doc, Tree: tr, Resolver: tr.Resolver()}
}

func TestLK01(t *testing.T) {
	tr := buildTree(t, map[string]string{
		"reqs/.leapreq.yml": "settings:\n  prefix: REQ\n",
		"reqs/REQ001.yml":   "text: parent\n",
		"reqs/REQ002.yml":   "links:\n- REQ001\n- REQ999\n",
	})

	diags := checkUnknownLinks(itemContext(t, tr, "REQ002"))
	require.Len(t, diags, 1)
	assert.Equal(t, "LK01", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "REQ999")

	assert.Empty(t, checkUnknownLinks(itemContext(t, tr, "REQ001")))
}

func TestLK02(t *testing.T) {
	tr := buildTree(t, map[string]string{
		"reqs/.leapreq.yml": "settings:\n  prefix: REQ\n",
		"reqs/REQ001.yml":   "active: false\ntext: retired\n",
		"reqs/REQ002.yml":   "links:\n- REQ001\n",
		"reqs/REQ003.yml":   "links:\n- REQ404\n",
	})

	diags := checkInactiveLinks(itemContext(t, tr, "REQ002"))
	require.Len(t, diags, 1)
	assert.Equal(t, "LK02", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "linked to inactive item: REQ001")

	// Unknown targets are LK01 findings, not LK02.
	assert.Empty(t, checkInactiveLinks(itemContext(t, tr, "REQ003")))
}

func TestLK03(t *testing.T) {
	acyclic := buildTree(t, map[string]string{
		"reqs/.leapreq.yml": "settings:\n  prefix: REQ\n",
		"reqs/REQ001.yml":   "text: a\n",
		"reqs/REQ002.yml":   "links:\n- REQ001\n",
	})
	assert.Empty(t, checkLinkCycle(&check.TreeContext{Tree: acyclic}))

	cyclic := buildTree(t, map[string]string{
		"reqs/.leapreq.yml": "settings:\n  prefix: REQ\n",
		"reqs/REQ001.yml":   "links:\n- REQ002\n",
		"reqs/REQ002.yml":   "links:\n- REQ001\n",
	})
	diags := checkLinkCycle(&check.TreeContext{Tree: cyclic})
	require.Len(t, diags, 1)
	assert.Equal(t, "LK03", diags[0].RuleID)
	assert.Contains(t, diags[0].Message, "link cycle")
	assert.Contains(t, diags[0].Message, "->")
}
