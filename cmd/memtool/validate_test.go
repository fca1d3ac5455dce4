package main

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, dir, name, body string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestValidateConfig(t *testing.T) {
	dir := t.TempDir()

	tests := []struct {
		name      string
		body      string
		wantValid bool
		wantText  string
	}{
		{
			name:      "playable",
			body:      `{"name": "Duo", "description": "d", "icons": ["A", "B"], "move_limit": 10}`,
			wantValid: true,
			wantText:  "winnable with perfect memory",
		},
		{
			name:      "tight move limit",
			body:      `{"name": "Tight", "description": "d", "icons": ["A", "B", "C"], "move_limit": 4}`,
			wantValid: true,
			wantText:  "may need up to 6 moves",
		},
		{
			name:      "move limit below pairs",
			body:      `{"name": "Impossible", "description": "d", "icons": ["A", "B", "C"], "move_limit": 2}`,
			wantValid: false,
			wantText:  "below the 3 moves",
		},
		{
			name:      "no icons",
			body:      `{"name": "Empty", "description": "d", "icons": []}`,
			wantValid: false,
		},
		{
			name:      "malformed json",
			body:      `{"name": `,
			wantValid: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			path := writeConfig(t, dir, filepath.Base(t.Name())+".json", tt.body)

			result := validateConfig(path)
			assert.Equal(t, tt.wantValid, result.Valid, "errors: %v", result.Errors)
			if !tt.wantValid {
				assert.NotEmpty(t, result.Errors)
			}
			if tt.wantText != "" {
				all := append(append([]string{}, result.Errors...), result.Info...)
				assert.Contains(t, joinLines(all), tt.wantText)
			}
		})
	}
}

func TestValidateConfigMissingFile(t *testing.T) {
	result := validateConfig(filepath.Join(t.TempDir(), "nope.json"))
	assert.False(t, result.Valid)
	assert.Contains(t, result.Errors[0], "Failed to read file")
}

func TestValidateDir(t *testing.T) {
	t.Run("shipped configs", func(t *testing.T) {
		var out bytes.Buffer
		ok, err := validateDir(&out, "../../configs")
		require.NoError(t, err)
		assert.True(t, ok, out.String())
		assert.Contains(t, out.String(), "classic.json")
		assert.Contains(t, out.String(), "All configurations are valid")
	})

	t.Run("mixed", func(t *testing.T) {
		dir := t.TempDir()
		writeConfig(t, dir, "good.json", `{"name": "Good", "description": "d", "icons": ["A", "B"]}`)
		writeConfig(t, dir, "bad.json", `{"name": "Bad", "description": "d", "icons": ["A", "B"], "move_limit": 1}`)

		var out bytes.Buffer
		ok, err := validateDir(&out, dir)
		require.NoError(t, err)
		assert.False(t, ok)
		assert.Contains(t, out.String(), "❌ INVALID")
		assert.Contains(t, out.String(), "✅ VALID")
		assert.Contains(t, out.String(), "Some configurations have errors")
	})

	t.Run("empty dir", func(t *testing.T) {
		_, err := validateDir(&bytes.Buffer{}, t.TempDir())
		assert.ErrorContains(t, err, "no config files")
	})
}

func TestValidateCommand(t *testing.T) {
	var out bytes.Buffer
	app := newApp()
	app.Writer = &out

	err := app.Run(context.Background(), []string{"memtool", "validate", "--dir", "../../configs"})
	require.NoError(t, err)
	assert.Contains(t, out.String(), "easy.json")
}

func joinLines(lines []string) string {
	var b bytes.Buffer
	for _, l := range lines {
		b.WriteString(l)
		b.WriteByte('\n')
	}
	return b.String()
}
