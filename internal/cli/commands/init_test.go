package commands

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/leapstack-labs/leapreq/internal/check"
	"github.com/leapstack-labs/leapreq/internal/tree"
)

func TestNewInitCommand(t *testing.T) {
	tests := []struct {
		name      string
		setupDir  func(t *testing.T, dir string) // setup before running
		args      func(dir string) []string
		wantErr   bool
		wantFiles []string
	}{
		{
			name: "init new directory",
			args: func(dir string) []string { return []string{dir} },
			wantFiles: []string{
				"leapreq.yaml",
				".gitignore",
				"reqs",
				"reqs/.leapreq.yml",
				"reqs/REQ001.yml",
			},
		},
		{
			name: "init example project",
			args: func(dir string) []string { return []string{dir, "--example"} },
			wantFiles: []string{
				"leapreq.yaml",
				"reqs/.leapreq.yml",
				"reqs/REQ001.yml",
				"reqs/REQ002.yml",
				"design/.leapreq.yml",
				"design/SRD001.yml",
				"design/SRD002.yml",
				"src/auth.c",
			},
		},
		{
			name: "init existing config without force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapreq.yaml"), []byte("existing"), 0600)
			},
			args:    func(dir string) []string { return []string{dir} },
			wantErr: true,
		},
		{
			name: "init existing config with force",
			setupDir: func(_ *testing.T, dir string) {
				_ = os.WriteFile(filepath.Join(dir, "leapreq.yaml"), []byte("existing"), 0600)
			},
			args: func(dir string) []string { return []string{dir, "--force"} },
			wantFiles: []string{
				"leapreq.yaml",
				"reqs/REQ001.yml",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			tmpDir := t.TempDir()

			if tt.setupDir != nil {
				tt.setupDir(t, tmpDir)
			}

			cmd := NewInitCommand()
			buf := new(bytes.Buffer)
			cmd.SetOut(buf)
			cmd.SetErr(buf)
			cmd.SetArgs(tt.args(tmpDir))

			err := cmd.Execute()
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)

			// Check expected files exist
			for _, f := range tt.wantFiles {
				path := filepath.Join(tmpDir, filepath.FromSlash(f))
				_, err := os.Stat(path)
				assert.False(t, os.IsNotExist(err), "expected file/dir %q to exist", f)
			}
		})
	}
}

func TestInitCommandMetadata(t *testing.T) {
	cmd := NewInitCommand()

	assert.Equal(t, "init [directory]", cmd.Use)
	assert.NotEmpty(t, cmd.Short, "Short should not be empty")
	assert.NotNil(t, cmd.Flags().Lookup("force"), "--force flag should exist")
	assert.NotNil(t, cmd.Flags().Lookup("example"), "--example flag should exist")
}

func TestInitCreatesValidConfig(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir})

	require.NoError(t, cmd.Execute())

	// Read and verify config content
	content, err := os.ReadFile(filepath.Join(tmpDir, "leapreq.yaml"))
	require.NoError(t, err, "failed to read leapreq.yaml")

	expectedContents := []string{
		"vcs:",
		"fail_on:",
		"publish:",
	}

	for _, expected := range expectedContents {
		assert.Contains(t, string(content), expected, "config should contain %q", expected)
	}
}

// The demo project must come up clean: a finding in freshly
// initialized output would teach users to ignore check.
func TestInitExampleProjectIsClean(t *testing.T) {
	tmpDir := t.TempDir()

	cmd := NewInitCommand()
	cmd.SetOut(new(bytes.Buffer))
	cmd.SetErr(new(bytes.Buffer))
	cmd.SetArgs([]string{tmpDir, "--example"})
	require.NoError(t, cmd.Execute())

	tr, err := tree.Build(context.Background(), tree.Config{Root: tmpDir, VCS: "none"})
	require.NoError(t, err)
	require.Len(t, tr.Documents(), 2)

	report, err := check.New(check.Config{}).Run(context.Background(), tr)
	require.NoError(t, err)
	assert.True(t, report.Clean(), "demo project should produce no findings, got: %+v", report.Diagnostics)
}
