// ABOUTME: Interactive config file writer for the bookstore CLI
// ABOUTME: Prompts for database, logging and report settings and saves YAML or TOML

package main

import (
	"bufio"
	"errors"
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/2389/bookstore/internal/config"
	"github.com/2389/bookstore/internal/store"
)

func runConfig(in io.Reader, out io.Writer) error {
	reader := bufio.NewReader(in)
	defaults := config.Default()

	fmt.Fprintln(out, "bookstore configuration setup")
	fmt.Fprintln(out, "=============================")
	fmt.Fprintln(out)

	// A .toml extension switches the file format
	outputFile := prompt(reader, out, "Config file path", getConfigPath())

	if _, err := os.Stat(outputFile); err == nil {
		overwrite := prompt(reader, out, "File exists. Overwrite?", "no")
		if !isYes(overwrite) {
			fmt.Fprintln(out, "Aborted.")
			return nil
		}
	} else if !errors.Is(err, os.ErrNotExist) {
		return fmt.Errorf("checking config file: %w", err)
	}

	cfg := config.Default()

	fmt.Fprintln(out, "\n--- Database Configuration ---")
	cfg.Database.Driver = prompt(reader, out, "SQLite driver (sqlite/sqlite3)", defaults.Database.Driver)
	cfg.Database.Path = prompt(reader, out, "Catalog database path", defaults.Database.Path)

	fmt.Fprintln(out, "\n--- Logging Configuration ---")
	cfg.Logging.Level = prompt(reader, out, "Log level (debug/info/warn/error)", defaults.Logging.Level)
	cfg.Logging.Format = prompt(reader, out, "Log format (text/json)", defaults.Logging.Format)

	fmt.Fprintln(out, "\n--- Report Configuration ---")
	cfg.Report.Format = prompt(reader, out, "Report format (markdown/html)", defaults.Report.Format)
	columns := prompt(reader, out, "Report columns", strings.Join(defaults.Report.Columns, ","))
	cfg.Report.Columns = splitList(columns)

	if err := config.Save(outputFile, cfg); err != nil {
		return err
	}

	fmt.Fprintf(out, "\nConfig written to %s\n", outputFile)
	fmt.Fprintf(out, "Catalog: %s (table %s)\n", cfg.Database.Path, store.TableName)
	fmt.Fprintln(out, "\nTo open the menu:")
	fmt.Fprintln(out, "  bookstore")

	return nil
}

func prompt(reader *bufio.Reader, out io.Writer, question, defaultVal string) string {
	if defaultVal != "" {
		fmt.Fprintf(out, "%s [%s]: ", question, defaultVal)
	} else {
		fmt.Fprintf(out, "%s: ", question)
	}

	input, err := reader.ReadString('\n')
	if err != nil && input == "" {
		// On EOF or error, return default
		fmt.Fprintln(out)
		return defaultVal
	}
	input = strings.TrimSpace(input)

	if input == "" {
		return defaultVal
	}
	return input
}

func isYes(s string) bool {
	s = strings.ToLower(strings.TrimSpace(s))
	return s == "yes" || s == "y"
}

// splitList splits a comma or space separated list, dropping empty items
func splitList(s string) []string {
	return strings.FieldsFunc(s, func(r rune) bool {
		return r == ',' || r == ' '
	})
}
