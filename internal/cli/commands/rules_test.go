package commands

import (
	"bytes"
	"encoding/json"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapreq/pkg/core"
)

func TestNewRulesCommand(t *testing.T) {
	cmd := NewRulesCommand()

	assert.Equal(t, "rules [rule-id]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotEmpty(t, cmd.Example, "Example should not be empty")

	// Verify flags exist
	flags := []string{"group", "type", "format"}
	for _, flag := range flags {
		assert.NotNil(t, cmd.Flags().Lookup(flag), "flag %q should exist", flag)
	}
}

func TestRulesCommand_ListAll(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "Check Rules")
	assert.Contains(t, output, "Item Rules")
	assert.Contains(t, output, "Tree Rules")
}

func TestRulesCommand_FilterByType(t *testing.T) {
	t.Run("filter by item type", func(t *testing.T) {
		cmd := NewRulesCommand()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"--type", "item"})

		err := cmd.Execute()
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "Item Rules")
		// Should not contain the tree rules section
		assert.NotContains(t, output, "Tree Rules")
	})

	t.Run("filter by tree type", func(t *testing.T) {
		cmd := NewRulesCommand()
		buf := new(bytes.Buffer)
		cmd.SetOut(buf)
		cmd.SetArgs([]string{"--type", "tree"})

		err := cmd.Execute()
		require.NoError(t, err)

		output := buf.String()
		assert.Contains(t, output, "Tree Rules")
		// Should not contain the item rules section
		assert.NotContains(t, output, "Item Rules")
	})
}

func TestRulesCommand_FilterByGroup(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--group", "link"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "LK01")
	assert.NotContains(t, output, "RF01")
}

func TestRulesCommand_ShowSpecificRule(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"RF01"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "RF01")
	// The format varies between text and markdown mode
	// Check for common elements that appear in both
	assert.Contains(t, output, "keyword")
}

func TestRulesCommand_NotFound(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetErr(buf)
	cmd.SetArgs([]string{"INVALID99"})

	err := cmd.Execute()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not found")
}

func TestRulesCommand_JSON(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--format", "json"})

	err := cmd.Execute()
	require.NoError(t, err)

	var result RulesJSONOutput
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	assert.Positive(t, result.Count.Total)
	assert.Equal(t, result.Count.Item+result.Count.Tree, result.Count.Total)
}

func TestRulesCommand_Markdown(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"--format", "markdown"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.Contains(t, output, "# Check Rules")
	assert.Contains(t, output, "## Item Rules")
	assert.Contains(t, output, "## Tree Rules")
}

func TestFilterRulesByOptions(t *testing.T) {
	rules := []core.RuleInfo{
		{ID: "IT01", Group: "item", Type: "item"},
		{ID: "LK01", Group: "link", Type: "item"},
		{ID: "LK03", Group: "link", Type: "tree"},
	}

	t.Run("no filter", func(t *testing.T) {
		opts := &RulesOptions{}
		result := filterRulesByOptions(rules, opts)
		assert.Len(t, result, 3)
	})

	t.Run("filter by group", func(t *testing.T) {
		opts := &RulesOptions{Group: "link"}
		result := filterRulesByOptions(rules, opts)
		require.Len(t, result, 2)
		assert.Equal(t, "LK01", result[0].ID)
		assert.Equal(t, "LK03", result[1].ID)
	})

	t.Run("filter by type", func(t *testing.T) {
		opts := &RulesOptions{Type: "tree"}
		result := filterRulesByOptions(rules, opts)
		require.Len(t, result, 1)
		assert.Equal(t, "LK03", result[0].ID)
	})

	t.Run("filter by group and type", func(t *testing.T) {
		opts := &RulesOptions{Group: "link", Type: "item"}
		result := filterRulesByOptions(rules, opts)
		require.Len(t, result, 1)
		assert.Equal(t, "LK01", result[0].ID)
	})
}

func TestCapitalizeFirst(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"hello", "Hello"},
		{"WORLD", "WORLD"},
		{"", ""},
		{"a", "A"},
		{"reference", "Reference"},
	}

	for _, tc := range tests {
		t.Run(tc.input, func(t *testing.T) {
			result := capitalizeFirst(tc.input)
			assert.Equal(t, tc.expected, result)
		})
	}
}

func TestRulesCommand_SingleRuleJSON(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"RF01", "--format", "json"})

	err := cmd.Execute()
	require.NoError(t, err)

	// Should be valid JSON
	var result map[string]interface{}
	err = json.Unmarshal(buf.Bytes(), &result)
	require.NoError(t, err)
	assert.Equal(t, "RF01", result["id"])
}

func TestRulesCommand_SingleRuleMarkdown(t *testing.T) {
	cmd := NewRulesCommand()
	buf := new(bytes.Buffer)
	cmd.SetOut(buf)
	cmd.SetArgs([]string{"RF01", "--format", "markdown"})

	err := cmd.Execute()
	require.NoError(t, err)

	output := buf.String()
	assert.True(t, strings.HasPrefix(output, "# RF01"))
}
