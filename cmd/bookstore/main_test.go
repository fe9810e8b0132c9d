// ABOUTME: Tests for the bookstore CLI commands
// ABOUTME: Runs each command against a temp catalog with config resolved from env vars

package main

import (
	"bufio"
	"bytes"
	"context"
	"encoding/json"
	"log/slog"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/2389/bookstore/internal/config"
	"github.com/2389/bookstore/internal/store"
)

// withCatalog points the CLI at a missing config file and a temp database
func withCatalog(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	dbPath := filepath.Join(dir, "ebookstore.db")
	t.Setenv("BOOKSTORE_CONFIG", filepath.Join(dir, "missing.yaml"))
	t.Setenv("BOOKSTORE_DB", dbPath)

	prev := slog.Default()
	t.Cleanup(func() { slog.SetDefault(prev) })
	return dbPath
}

func TestGetConfigPath(t *testing.T) {
	t.Run("env var wins", func(t *testing.T) {
		t.Setenv("BOOKSTORE_CONFIG", "/etc/bookstore.toml")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, "/etc/bookstore.toml", getConfigPath())
	})

	t.Run("xdg config home", func(t *testing.T) {
		t.Setenv("BOOKSTORE_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, filepath.Join("/xdg", "bookstore", "config.yaml"), getConfigPath())
	})

	t.Run("home directory", func(t *testing.T) {
		t.Setenv("BOOKSTORE_CONFIG", "")
		t.Setenv("XDG_CONFIG_HOME", "")
		t.Setenv("HOME", "/home/clerk")
		assert.Equal(t, filepath.Join("/home/clerk", ".config", "bookstore", "config.yaml"), getConfigPath())
	})
}

func TestSetupLogger_Levels(t *testing.T) {
	tests := []struct {
		level string
		want  slog.Level
	}{
		{"debug", slog.LevelDebug},
		{"info", slog.LevelInfo},
		{"warn", slog.LevelWarn},
		{"error", slog.LevelError},
		{"bogus", slog.LevelWarn},
	}

	for _, tt := range tests {
		t.Run(tt.level, func(t *testing.T) {
			logger := setupLogger(config.LoggingConfig{Level: tt.level, Format: "text"}, &bytes.Buffer{})
			ctx := context.Background()

			assert.True(t, logger.Enabled(ctx, tt.want))
			assert.False(t, logger.Enabled(ctx, tt.want-1))
		})
	}
}

func TestSetupLogger_Text(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.With("component", "store").Info("catalog opened", "path", "shop.db")
	logger.Debug("hidden")

	out := buf.String()
	assert.Contains(t, out, "INF ")
	assert.Contains(t, out, "catalog opened")
	assert.Contains(t, out, "component=")
	assert.Contains(t, out, "store")
	assert.Contains(t, out, "path=")
	assert.Contains(t, out, "session=")
	assert.NotContains(t, out, "hidden")
	assert.Equal(t, 1, strings.Count(out, "\n"))
}

func TestSetupLogger_TextGroups(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "info", Format: "text"}, &buf)

	logger.WithGroup("book").Info("added", "id", 7006)

	assert.Contains(t, buf.String(), "book.id=")
}

func TestSetupLogger_JSON(t *testing.T) {
	var buf bytes.Buffer
	logger := setupLogger(config.LoggingConfig{Level: "warn", Format: "json"}, &buf)

	logger.Warn("low stock", "id", 7005)

	var rec map[string]any
	require.NoError(t, json.Unmarshal(buf.Bytes(), &rec))
	assert.Equal(t, "low stock", rec["msg"])
	assert.Equal(t, "WARN", rec["level"])
	assert.NotEmpty(t, rec["session"])
	assert.EqualValues(t, 7005, rec["id"])
}

func TestPrompt(t *testing.T) {
	var out bytes.Buffer
	reader := bufio.NewReader(strings.NewReader("custom\n\n"))

	assert.Equal(t, "custom", prompt(reader, &out, "Path", "default"))
	assert.Equal(t, "default", prompt(reader, &out, "Path", "default"))
	assert.Equal(t, "default", prompt(reader, &out, "Path", "default"), "EOF falls back to default")
	assert.Contains(t, out.String(), "Path [default]: ")
}

func TestSplitList(t *testing.T) {
	assert.Equal(t, []string{"id", "title", "qty"}, splitList("id, title,,qty "))
	assert.Empty(t, splitList("  "))
}

func TestRunInit(t *testing.T) {
	dbPath := withCatalog(t)

	var out bytes.Buffer
	require.NoError(t, runInit(context.Background(), &out))

	assert.Contains(t, out.String(), "(5 books)")
	assert.FileExists(t, dbPath)

	// A second init must not reseed
	out.Reset()
	require.NoError(t, runInit(context.Background(), &out))
	assert.Contains(t, out.String(), "(5 books)")
}

func TestRunList(t *testing.T) {
	withCatalog(t)

	var out bytes.Buffer
	require.NoError(t, runList(context.Background(), &out))

	for _, b := range store.SeedBooks {
		assert.Contains(t, out.String(), b.Title)
	}
}

func TestRunSearch(t *testing.T) {
	withCatalog(t)
	ctx := context.Background()

	var out bytes.Buffer
	require.NoError(t, runSearch(ctx, []string{"lewis,carroll", "alice in WONDERLAND!!"}, &out))
	assert.Contains(t, out.String(), "7005")

	err := runSearch(ctx, []string{"Dune", "Frank Herbert"}, &out)
	assert.ErrorIs(t, err, store.ErrNotFound)

	err = runSearch(ctx, []string{"Dune"}, &out)
	assert.Error(t, err)
}

func TestRunExport_Stdout(t *testing.T) {
	withCatalog(t)

	var out bytes.Buffer
	require.NoError(t, runExport(context.Background(), []string{"--format", "md", "--title", "Stock"}, &out))

	assert.Contains(t, out.String(), "# Stock")
	assert.Contains(t, out.String(), "| 7004 | The Lord of the Rings | J.R.R. Tolkien | 37 |")
}

func TestRunExport_HTMLFile(t *testing.T) {
	withCatalog(t)
	path := filepath.Join(t.TempDir(), "inventory.html")

	var out bytes.Buffer
	require.NoError(t, runExport(context.Background(), []string{"--format=html", "--out", path}, &out))
	assert.Contains(t, out.String(), "Exported 5 books")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Contains(t, string(data), "<table>")
	assert.Contains(t, string(data), "<td>Alice in Wonderland</td>")
}

func TestRunExport_BadArgs(t *testing.T) {
	withCatalog(t)
	ctx := context.Background()

	assert.Error(t, runExport(ctx, []string{"--nope"}, &bytes.Buffer{}))
	assert.Error(t, runExport(ctx, []string{"extra"}, &bytes.Buffer{}))
	assert.Error(t, runExport(ctx, []string{"--format", "pdf"}, &bytes.Buffer{}))
}

func TestRunStatus(t *testing.T) {
	dbPath := withCatalog(t)

	var out bytes.Buffer
	require.NoError(t, runStatus(context.Background(), &out))

	s := out.String()
	assert.Contains(t, s, "not found, using defaults")
	assert.Contains(t, s, dbPath)
	assert.Contains(t, s, "Books:   5")
	assert.Contains(t, s, "Next ID: 7006")
}

func TestRunMenu(t *testing.T) {
	withCatalog(t)

	var out bytes.Buffer
	in := strings.NewReader("1\nDune\nFrank Herbert\n10\n0\n")
	require.NoError(t, runMenu(context.Background(), in, &out))

	assert.Contains(t, out.String(), "Book added")

	// The new book survives reopening the catalog
	out.Reset()
	require.NoError(t, runSearch(context.Background(), []string{"Dune", "Frank Herbert"}, &out))
	assert.Contains(t, out.String(), "7006")
}

func TestRunConfig(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "bookstore", "config.toml")
	t.Setenv("BOOKSTORE_DB", "")

	// path, driver, database, log level, log format, report format, columns
	answers := strings.Join([]string{
		path, "sqlite3", "shop.db", "debug", "", "html", "title, qty",
	}, "\n") + "\n"

	var out bytes.Buffer
	require.NoError(t, runConfig(strings.NewReader(answers), &out))
	assert.Contains(t, out.String(), "Config written to "+path)

	cfg, err := config.Load(path)
	require.NoError(t, err)
	assert.Equal(t, "sqlite3", cfg.Database.Driver)
	assert.Equal(t, "shop.db", cfg.Database.Path)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
	assert.Equal(t, "html", cfg.Report.Format)
	assert.Equal(t, []string{"title", "qty"}, cfg.Report.Columns)
}

func TestRunConfig_ExistingFileNotOverwritten(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("logging:\n  level: error\n"), 0644))

	var out bytes.Buffer
	require.NoError(t, runConfig(strings.NewReader(path+"\nno\n"), &out))
	assert.Contains(t, out.String(), "Aborted.")

	data, err := os.ReadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "logging:\n  level: error\n", string(data))
}

func TestRunConfig_InvalidAnswers(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	answers := path + "\npostgres\n\n\n\n\n\n"

	err := runConfig(strings.NewReader(answers), &bytes.Buffer{})
	assert.Error(t, err)
	assert.NoFileExists(t, path)
}
