package items

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/internal/document"
	"github.com/leapstack-labs/leapreq/internal/item"
	"github.com/leapstack-labs/leapreq/pkg/core"
)

func fixtureContext(t *testing.T, it *item.Item, parent string) *check.ItemContext {
	t.Helper()
	u, err := core.ParseUID("REQ001")
	require.NoError(t, err)
	it.UID = u
	return &check.ItemContext{
		Item:     it,
		Document: &document.Document{Prefix: "REQ", Parent: parent},
	}
}

func TestIT01(t *testing.T) {
	tests := []struct {
		name      string
		text      string
		wantDiags int
	}{
		{name: "empty", text: "", wantDiags: 1},
		{name: "whitespace only", text: " \n\t", wantDiags: 1},
		{name: "has text", text: "The system shall respond.", wantDiags: 0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ctx := fixtureContext(t, &item.Item{Active: true, Normative: true, Text: tt.text}, "")
			diags := checkEmptyText(ctx)

			assert.Len(t, diags, tt.wantDiags)
			if tt.wantDiags > 0 {
				assert.Equal(t, "IT01", diags[0].RuleID)
				assert.Equal(t, core.SeverityWarning, diags[0].Severity)
			}
		})
	}
}

func TestIT02(t *testing.T) {
	link, err := core.ParseUID("SYS001")
	require.NoError(t, err)

	tests := []struct {
		name      string
		it        item.Item
		parent    string
		wantDiags int
	}{
		{
			name:      "normative unlinked in child document",
			it:        item.Item{Normative: true},
			parent:    "SYS",
			wantDiags: 1,
		},
		{
			name:      "root document needs no links",
			it:        item.Item{Normative: true},
			parent:    "",
			wantDiags: 0,
		},
		{
			name:      "derived items are exempt",
			it:        item.Item{Normative: true, Derived: true},
			parent:    "SYS",
			wantDiags: 0,
		},
		{
			name:      "linked item passes",
			it:        item.Item{Normative: true, Links: []core.UID{link}},
			parent:    "SYS",
			wantDiags: 0,
		},
		{
			name:      "non-normative is out of scope",
			it:        item.Item{Normative: false},
			parent:    "SYS",
			wantDiags: 0,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			it := tt.it
			it.Active = true
			diags := checkUnlinkedNormative(fixtureContext(t, &it, tt.parent))

			assert.Len(t, diags, tt.wantDiags)
			if tt.wantDiags > 0 {
				assert.Equal(t, "IT02", diags[0].RuleID)
				assert.Contains(t, diags[0].Message, "SYS")
			}
		})
	}
}

func TestIT03(t *testing.T) {
	link, err := core.ParseUID("SYS001")
	require.NoError(t, err)

	ctx := fixtureContext(t, &item.Item{Active: true, Normative: false, Links: []core.UID{link}}, "")
	diags := checkLinkedNonNormative(ctx)
	require.Len(t, diags, 1)
	assert.Equal(t, "IT03", diags[0].RuleID)
	assert.Equal(t, core.SeverityInfo, diags[0].Severity)

	ctx = fixtureContext(t, &item.Item{Active: true, Normative: true, Links: []core.UID{link}}, "")
	assert.Empty(t, checkLinkedNonNormative(ctx))
}
