// ABOUTME: Entry point for the bookstore inventory tool
// ABOUTME: Dispatches subcommands and wires config, logging, the catalog store and the menu

package main

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"

	"github.com/fatih/color"

	"github.com/2389/bookstore/internal/config"
	"github.com/2389/bookstore/internal/console"
	"github.com/2389/bookstore/internal/inventory"
	"github.com/2389/bookstore/internal/report"
	"github.com/2389/bookstore/internal/store"
)

// Version is set at build time.
var version = "dev"

const banner = `
  _                 _        _
 | |__   ___   ___ | | _____| |_ ___  _ __ ___
 | '_ \ / _ \ / _ \| |/ / __| __/ _ \| '__/ _ \
 | |_) | (_) | (_) |   <\__ \ || (_) | | |  __/
 |_.__/ \___/ \___/|_|\_\___/\__\___/|_|  \___|
`

// getConfigPath returns the path to the config file.
// Priority: BOOKSTORE_CONFIG env var > XDG_CONFIG_HOME/bookstore/config.yaml > ~/.config/bookstore/config.yaml
func getConfigPath() string {
	if envPath := os.Getenv("BOOKSTORE_CONFIG"); envPath != "" {
		return envPath
	}

	configDir := os.Getenv("XDG_CONFIG_HOME")
	if configDir == "" {
		homeDir, err := os.UserHomeDir()
		if err != nil {
			return "config.yaml" // fallback
		}
		configDir = filepath.Join(homeDir, ".config")
	}

	return filepath.Join(configDir, "bookstore", "config.yaml")
}

func usage(w io.Writer) {
	fmt.Fprintln(w, "Usage: bookstore [command]")
	fmt.Fprintln(w)
	fmt.Fprintln(w, "Commands:")
	fmt.Fprintln(w, "  menu                      Interactive inventory menu (default)")
	fmt.Fprintln(w, "  init                      Create and seed the catalog if needed")
	fmt.Fprintln(w, "  list                      Print every book")
	fmt.Fprintln(w, "  search <title> <author>   Find one book; title and author may be swapped")
	fmt.Fprintln(w, "  export [flags]            Write an inventory report (--format md|html, --out PATH, --title TEXT)")
	fmt.Fprintln(w, "  status                    Show config and catalog details")
	fmt.Fprintln(w, "  config                    Create a config file interactively")
	fmt.Fprintln(w, "  version                   Print the version")
	fmt.Fprintln(w, "  help                      Show this help")
}

func main() {
	config.LoadEnvFiles()

	cmd, args := "menu", os.Args[1:]
	if len(args) > 0 {
		cmd, args = args[0], args[1:]
	}

	ctx, cancel := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	var err error
	switch cmd {
	case "menu":
		err = runMenu(ctx, os.Stdin, os.Stdout)
	case "init":
		err = runInit(ctx, os.Stdout)
	case "list":
		err = runList(ctx, os.Stdout)
	case "search":
		err = runSearch(ctx, args, os.Stdout)
	case "export":
		err = runExport(ctx, args, os.Stdout)
	case "status":
		err = runStatus(ctx, os.Stdout)
	case "config":
		err = runConfig(os.Stdin, os.Stdout)
	case "version":
		fmt.Println(version)
	case "help", "-h", "--help":
		usage(os.Stdout)
	default:
		fmt.Fprintf(os.Stderr, "Unknown command: %s\n\n", cmd)
		usage(os.Stderr)
		os.Exit(1)
	}

	if err != nil {
		color.New(color.FgRed).Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

// app bundles what the catalog commands share
type app struct {
	configPath string
	cfg        *config.Config
	logger     *slog.Logger
	store      *store.SQLiteStore
	svc        *inventory.Service
}

// openApp loads config, sets up logging and opens the catalog.
// The caller must Close the returned app.
func openApp() (*app, error) {
	configPath := getConfigPath()

	cfg, err := config.LoadOrDefault(configPath)
	if err != nil {
		return nil, fmt.Errorf("loading config: %w", err)
	}

	logger := setupLogger(cfg.Logging, os.Stderr)
	slog.SetDefault(logger)

	st, err := store.OpenSQLiteStore(cfg.Database.Driver, cfg.Database.Path)
	if err != nil {
		return nil, fmt.Errorf("opening catalog: %w", err)
	}

	logger.Info("catalog opened",
		"config", configPath,
		"driver", cfg.Database.Driver,
		"path", cfg.Database.Path,
	)

	return &app{
		configPath: configPath,
		cfg:        cfg,
		logger:     logger,
		store:      st,
		svc:        inventory.New(st, logger),
	}, nil
}

func (a *app) Close() error {
	return a.store.Close()
}

func runMenu(ctx context.Context, in io.Reader, out io.Writer) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	cyan := color.New(color.FgCyan)
	gray := color.New(color.FgHiBlack)
	green := color.New(color.FgGreen)

	cyan.Fprint(out, banner)
	gray.Fprintf(out, "    version: %s\n\n", version)
	green.Fprint(out, "    ▶ ")
	fmt.Fprintf(out, "Catalog: %s\n", a.cfg.Database.Path)
	gray.Fprintf(out, "    type -1 at any prompt to return to the menu\n\n")

	return console.New(a.svc, in, out).Run(ctx)
}

func runInit(ctx context.Context, out io.Writer) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	// Opening the store already created and seeded the table
	n, err := a.store.CountBooks(ctx)
	if err != nil {
		return err
	}

	color.New(color.FgGreen).Fprint(out, "✓ ")
	fmt.Fprintf(out, "Catalog ready at %s (%d books)\n", a.cfg.Database.Path, n)
	return nil
}

func runList(ctx context.Context, out io.Writer) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	books, err := a.svc.List(ctx)
	if err != nil {
		return err
	}
	return console.WriteTable(out, books)
}

func runSearch(ctx context.Context, args []string, out io.Writer) error {
	if len(args) != 2 {
		return errors.New("usage: bookstore search <title> <author>")
	}
	title, author := args[0], args[1]

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	book, found, err := a.svc.Search(ctx, title, author)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%q by %q: %w", title, author, store.ErrNotFound)
	}
	return console.WriteTable(out, []*store.Book{book})
}

func runExport(ctx context.Context, args []string, out io.Writer) error {
	fs := flag.NewFlagSet("export", flag.ContinueOnError)
	fs.SetOutput(out)
	format := fs.String("format", "", "Report format: md or html (default from config)")
	outPath := fs.String("out", "", "Output file (default stdout)")
	title := fs.String("title", "Inventory", "Report heading")
	if err := fs.Parse(args); err != nil {
		return err
	}
	if fs.NArg() > 0 {
		return fmt.Errorf("unexpected argument: %s", fs.Arg(0))
	}

	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	if *format == "" {
		*format = a.cfg.Report.Format
	}

	books, err := a.svc.List(ctx)
	if err != nil {
		return err
	}

	opts := report.Options{
		Format:  *format,
		Columns: a.cfg.ReportFields(),
		Title:   *title,
	}

	if *outPath == "" {
		return report.Render(out, books, opts)
	}

	if err := writeReport(*outPath, books, opts); err != nil {
		return err
	}
	a.logger.Info("report exported", "path", *outPath, "format", *format, "books", len(books))
	fmt.Fprintf(out, "Exported %d books to %s\n", len(books), *outPath)
	return nil
}

func writeReport(path string, books []*store.Book, opts report.Options) (err error) {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating report file: %w", err)
	}
	defer func() {
		if cerr := f.Close(); cerr != nil && err == nil {
			err = fmt.Errorf("closing report file: %w", cerr)
		}
	}()

	return report.Render(f, books, opts)
}

func runStatus(ctx context.Context, out io.Writer) error {
	a, err := openApp()
	if err != nil {
		return err
	}
	defer a.Close()

	n, err := a.store.CountBooks(ctx)
	if err != nil {
		return err
	}
	next, err := a.store.NextID(ctx)
	if err != nil {
		return err
	}

	configState := a.configPath
	if _, err := os.Stat(a.configPath); errors.Is(err, os.ErrNotExist) {
		configState += " (not found, using defaults)"
	}

	green := color.New(color.FgGreen)
	rows := [][2]string{
		{"Config", configState},
		{"Driver", a.cfg.Database.Driver},
		{"Catalog", a.cfg.Database.Path},
		{"Books", fmt.Sprint(n)},
		{"Next ID", fmt.Sprint(next)},
	}
	for _, r := range rows {
		green.Fprint(out, "▶ ")
		fmt.Fprintf(out, "%-8s %s\n", r[0]+":", r[1])
	}
	return nil
}
