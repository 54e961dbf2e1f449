package config

import (
	"context"
	"encoding/json"
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/afero"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"tokenfield/internal/diag"
	"tokenfield/internal/field"
)

func writeFile(t *testing.T, fs afero.Fs, path, body string) {
	t.Helper()
	require.NoError(t, afero.WriteFile(fs, path, []byte(body), 0o644))
}

func TestLoadTOML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/cfg/field.toml", `
[field]
prefix = "Cc: "
hint = "Add people"
split_chars = [";", ","]
allow_duplicates = false
token_limit = 3
deletion_style = "partial-completion"
click_style = "select-deselect"

[view]
width = 40

[[contacts]]
name = "Ada"
email = "ada@example.com"
`)
	f, bag, err := Load(fs, "/cfg/field.toml")
	require.NoError(t, err)
	assert.Equal(t, 0, bag.Len())

	cfg, err := f.FieldConfig()
	require.NoError(t, err)
	assert.Equal(t, "Cc: ", cfg.Prefix)
	assert.Equal(t, "Add people", cfg.Hint)
	assert.Equal(t, []rune{';', ','}, cfg.SplitChars)
	assert.False(t, cfg.AllowDuplicates)
	assert.True(t, cfg.BestGuess, "unset keys keep defaults")
	assert.Equal(t, 3, cfg.TokenLimit)
	assert.Equal(t, field.DeletePartialCompletion, cfg.DeletionStyle)
	assert.Equal(t, field.ClickSelectDeselect, cfg.ClickStyle)
	assert.Equal(t, 40, f.View.Width)
	require.Len(t, f.People(), 1)
	assert.Equal(t, "Ada", f.People()[0].Name)
}

func TestLoadYAML(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/field.yaml", `
field:
  prefix: "To: "
  click_style: delete
  threshold: 2
`)
	f, _, err := Load(fs, "/field.yaml")
	require.NoError(t, err)
	cfg, err := f.FieldConfig()
	require.NoError(t, err)
	assert.Equal(t, field.ClickDelete, cfg.ClickStyle)
	assert.Equal(t, 2, cfg.Threshold)
	assert.NotEmpty(t, f.People(), "samples when no contacts are configured")
}

func TestLoadYAMLRejectsUnknownKeys(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/field.yml", "field:\n  prefx: x\n")
	_, _, err := Load(fs, "/field.yml")
	assert.Error(t, err)
}

func TestLoadTOMLUnknownKeyWarns(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/f.toml", "[field]\nprefx = \"x\"\n")
	_, bag, err := Load(fs, "/f.toml")
	require.NoError(t, err)
	assert.Equal(t, []diag.Code{diag.CfgUnknownKey}, bag.Codes())
}

func TestLoadReportsBadValues(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/f.toml", `
[field]
split_chars = ["ab"]
token_limit = -1
click_style = "double"
`)
	_, bag, err := Load(fs, "/f.toml")
	require.ErrorIs(t, err, ErrInvalid)
	assert.ElementsMatch(t, []diag.Code{diag.CfgBadValue, diag.CfgBadValue, diag.CfgSplitChars}, bag.Codes())
}

func TestLoadUnsupportedFormat(t *testing.T) {
	fs := afero.NewMemMapFs()
	writeFile(t, fs, "/f.json", "{}")
	_, _, err := Load(fs, "/f.json")
	assert.ErrorIs(t, err, ErrFormat)

	_, _, err = Load(fs, "/missing.toml")
	assert.Error(t, err)
}

func TestDefaultMatchesFieldDefaults(t *testing.T) {
	cfg, err := Default().FieldConfig()
	require.NoError(t, err)
	d := field.DefaultConfig()
	assert.Equal(t, d.AllowDuplicates, cfg.AllowDuplicates)
	assert.Equal(t, d.BestGuess, cfg.BestGuess)
	assert.Equal(t, d.AllowCollapse, cfg.AllowCollapse)
	assert.Equal(t, d.SplitChars, cfg.SplitChars)
}

func TestSchema(t *testing.T) {
	data, err := Schema()
	require.NoError(t, err)
	var doc map[string]any
	require.NoError(t, json.Unmarshal(data, &doc))
	assert.Equal(t, "tokenfield configuration", doc["title"])
	assert.Contains(t, string(data), "split_chars")
	assert.Contains(t, string(data), "partial-completion")
}

func TestWatchSeesWrites(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "field.toml")
	require.NoError(t, os.WriteFile(path, []byte("[field]\n"), 0o644))

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	changes, _, err := Watch(ctx, path)
	require.NoError(t, err)

	require.NoError(t, os.WriteFile(path, []byte("[field]\nprefix = \"Cc: \"\n"), 0o644))
	select {
	case <-changes:
	case <-time.After(5 * time.Second):
		t.Fatal("no change reported")
	}
}
