// ABOUTME: Interactive menu for the bookstore inventory
// ABOUTME: Reads operator input line by line and drives the inventory service

package console

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"strconv"
	"strings"
	"text/tabwriter"

	"github.com/fatih/color"

	"github.com/2389/bookstore/internal/inventory"
	"github.com/2389/bookstore/internal/store"
)

// cancelInput is what the operator types to back out to the main menu
const cancelInput = "-1"

// errCancel is returned by prompts when the operator typed cancelInput
var errCancel = errors.New("canceled")

// Console runs the interactive menu
type Console struct {
	svc *inventory.Service
	in  *bufio.Scanner
	out io.Writer

	heading *color.Color
	success *color.Color
	failure *color.Color
	dim     *color.Color
}

// New creates a Console reading from in and writing to out
func New(svc *inventory.Service, in io.Reader, out io.Writer) *Console {
	scanner := bufio.NewScanner(in)
	scanner.Buffer(make([]byte, 0, bufio.MaxScanTokenSize), 1024*1024) // 1MB max input

	return &Console{
		svc:     svc,
		in:      scanner,
		out:     out,
		heading: color.New(color.FgCyan, color.Bold),
		success: color.New(color.FgGreen),
		failure: color.New(color.FgRed),
		dim:     color.New(color.FgHiBlack),
	}
}

// Run shows the main menu until the operator exits or input ends.
// ctx is checked between menu actions; a prompt waiting for input does not
// return until a line arrives or input is closed.
func (c *Console) Run(ctx context.Context) error {
	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		c.printMenu()

		sel, err := c.ask("Selection")
		if errors.Is(err, io.EOF) {
			fmt.Fprintln(c.out)
			return nil
		}
		if err != nil && !errors.Is(err, errCancel) {
			return err
		}

		switch sel {
		case "1":
			err = c.adding(ctx)
		case "2":
			err = c.updating(ctx)
		case "3":
			err = c.deleting(ctx)
		case "4":
			err = c.searching(ctx)
		case "5":
			err = c.showInventory(ctx)
		case "0":
			fmt.Fprintln(c.out, "Shutting down")
			return nil
		default:
			c.printError("Invalid selection")
			continue
		}

		switch {
		case err == nil, errors.Is(err, errCancel):
		case errors.Is(err, io.EOF):
			fmt.Fprintln(c.out)
			return nil
		case errors.Is(err, context.Canceled):
			return err
		default:
			c.printError(err.Error())
		}
	}
}

func (c *Console) printMenu() {
	c.heading.Fprintln(c.out, center("MAIN MENU", 25, '='))
	fmt.Fprintln(c.out, "1. Enter book")
	fmt.Fprintln(c.out, "2. Update book")
	fmt.Fprintln(c.out, "3. Delete book")
	fmt.Fprintln(c.out, "4. Search book")
	fmt.Fprintln(c.out, "5. Show inventory")
	fmt.Fprintln(c.out, "0. Exit")
	c.heading.Fprintln(c.out, center("SELECTION", 25, '='))
}

// adding enters a new book, or offers a restock when it already exists
func (c *Console) adding(ctx context.Context) error {
	c.heading.Fprintln(c.out, center("ENTER BOOK", 25, '='))

	title, author, err := c.askTitleAuthor()
	if err != nil {
		return err
	}
	qty, err := c.askQuantity("Quantity")
	if err != nil {
		return err
	}

	book, existed, err := c.svc.Add(ctx, title, author, qty)
	if err != nil {
		return err
	}
	if existed {
		return c.offerRestock(ctx, book)
	}

	c.success.Fprintln(c.out, "Book added...")
	return c.printBooks(book)
}

// updating changes the title, author and stock of an existing book
func (c *Console) updating(ctx context.Context) error {
	for {
		c.heading.Fprintln(c.out, center("UPDATE BOOK", 25, '='))

		book, err := c.lookup(ctx, "Book does not exist!")
		if errors.Is(err, errNotFound) {
			continue
		}
		if err != nil {
			return err
		}
		if err := c.printBooks(book); err != nil {
			return err
		}

		u, err := c.askUpdate(book)
		if err != nil {
			return err
		}

		dup, err := c.svc.Update(ctx, book, u)
		if err != nil {
			return err
		}
		if dup != nil {
			return c.offerRestock(ctx, dup)
		}

		c.success.Fprintln(c.out, "Updated to:")
		return c.printBooks(book)
	}
}

// askUpdate prompts for new values; a blank answer keeps the current one
func (c *Console) askUpdate(book *store.Book) (store.BookUpdate, error) {
	var u store.BookUpdate

	title, err := c.ask(fmt.Sprintf("New title [%s]", book.Title))
	if err != nil {
		return u, err
	}
	if title != "" {
		u.Title = &title
	}

	author, err := c.ask(fmt.Sprintf("New author [%s]", book.Author))
	if err != nil {
		return u, err
	}
	if author != "" {
		u.Author = &author
	}

	for {
		s, err := c.ask(fmt.Sprintf("New qty [%d]", book.Quantity))
		if err != nil {
			return u, err
		}
		if s == "" {
			return u, nil
		}
		qty, ok := parseQuantity(s)
		if !ok {
			c.printError("Invalid quantity\nPlease enter a number for quantity.")
			continue
		}
		u.Quantity = &qty
		return u, nil
	}
}

// deleting removes a book found by title and author
func (c *Console) deleting(ctx context.Context) error {
	for {
		c.heading.Fprintln(c.out, center("DELETE BOOK", 25, '='))

		title, author, err := c.askTitleAuthor()
		if err != nil {
			return err
		}

		book, found, err := c.svc.Delete(ctx, title, author)
		if err != nil {
			return err
		}
		if !found {
			c.printError("Book not found!\nPlease enter a valid book\nor -1 to return to main menu.")
			continue
		}

		fmt.Fprintln(c.out, "Deleting...")
		return c.printBooks(book)
	}
}

// searching shows a single book found by title and author
func (c *Console) searching(ctx context.Context) error {
	for {
		c.heading.Fprintln(c.out, center("SEARCHING BOOK", 25, '='))

		book, err := c.lookup(ctx, "Book not found!")
		if errors.Is(err, errNotFound) {
			continue
		}
		if err != nil {
			return err
		}

		return c.printBooks(book)
	}
}

func (c *Console) showInventory(ctx context.Context) error {
	books, err := c.svc.List(ctx)
	if err != nil {
		return err
	}
	return c.printBooks(books...)
}

// offerRestock asks whether to update the stock of an existing book
func (c *Console) offerRestock(ctx context.Context, book *store.Book) error {
	for {
		c.printError("Book already exists.\nWould you like to update its stock?")
		fmt.Fprintln(c.out, "1. Yes")
		fmt.Fprintln(c.out, "2. No")

		sel, err := c.ask("Selection")
		if err != nil {
			return err
		}

		switch sel {
		case "1":
			fmt.Fprintf(c.out, "Current stock: %d\n", book.Quantity)
			qty, err := c.askQuantity("New stock")
			if err != nil {
				return err
			}
			if err := c.svc.Restock(ctx, book, qty); err != nil {
				return err
			}
			c.success.Fprintln(c.out, "Book updated...")
			return c.printBooks(book)
		case "2":
			return nil
		default:
			c.printError("Invalid selection")
		}
	}
}

// errNotFound marks a lookup miss that has already been reported
var errNotFound = errors.New("book not found")

// lookup prompts for a title and author and finds the book
func (c *Console) lookup(ctx context.Context, missing string) (*store.Book, error) {
	title, author, err := c.askTitleAuthor()
	if err != nil {
		return nil, err
	}

	book, found, err := c.svc.Search(ctx, title, author)
	if err != nil {
		return nil, err
	}
	if !found {
		c.printError(missing + "\nPlease enter a valid book\nor -1 to return to main menu.")
		return nil, errNotFound
	}
	return book, nil
}

func (c *Console) askTitleAuthor() (title, author string, err error) {
	if title, err = c.ask("Title"); err != nil {
		return "", "", err
	}
	if author, err = c.ask("Author"); err != nil {
		return "", "", err
	}
	return title, author, nil
}

// askQuantity re-prompts until it reads a non-negative whole number
func (c *Console) askQuantity(label string) (int, error) {
	for {
		s, err := c.ask(label)
		if err != nil {
			return 0, err
		}
		qty, ok := parseQuantity(s)
		if !ok {
			c.printError("Invalid quantity\nPlease enter a number\nfor quantity.")
			continue
		}
		return qty, nil
	}
}

// ask prints a prompt and reads one trimmed line.
// It returns errCancel for cancelInput and io.EOF when input ends.
func (c *Console) ask(label string) (string, error) {
	fmt.Fprintf(c.out, "%s: ", label)

	if !c.in.Scan() {
		if err := c.in.Err(); err != nil {
			return "", fmt.Errorf("reading input: %w", err)
		}
		return "", io.EOF
	}

	line := strings.TrimSpace(c.in.Text())
	if line == cancelInput {
		return "", errCancel
	}
	return line, nil
}

func parseQuantity(s string) (int, bool) {
	n, err := strconv.Atoi(strings.TrimSpace(s))
	if err != nil || n < 0 {
		return 0, false
	}
	return n, true
}

// printBooks renders books as an aligned table
func (c *Console) printBooks(books ...*store.Book) error {
	fmt.Fprintln(c.out)
	if len(books) == 0 {
		c.dim.Fprintln(c.out, "  (no books)")
		fmt.Fprintln(c.out)
		return nil
	}

	if err := WriteTable(c.out, books); err != nil {
		return fmt.Errorf("writing book table: %w", err)
	}
	fmt.Fprintln(c.out)
	return nil
}

// WriteTable writes books as an aligned ID/TITLE/AUTHOR/QTY table
func WriteTable(w io.Writer, books []*store.Book) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "  ID\tTITLE\tAUTHOR\tQTY")
	fmt.Fprintln(tw, "  --\t-----\t------\t---")
	for _, b := range books {
		fmt.Fprintf(tw, "  %d\t%s\t%s\t%d\n", b.ID, truncate(b.Title, 40), truncate(b.Author, 40), b.Quantity)
	}
	return tw.Flush()
}

func (c *Console) printError(message string) {
	fmt.Fprintln(c.out)
	c.failure.Fprintln(c.out, center("ERROR", 25, '='))
	fmt.Fprintln(c.out, message)
	c.failure.Fprintln(c.out, strings.Repeat("=", 25))
	fmt.Fprintln(c.out)
}

// center pads s on both sides with fill to the given width
func center(s string, width int, fill rune) string {
	n := width - len([]rune(s))
	if n <= 0 {
		return s
	}
	left := n / 2
	return strings.Repeat(string(fill), left) + s + strings.Repeat(string(fill), n-left)
}

// truncate shortens s to at most max runes, marking the cut with "..."
func truncate(s string, max int) string {
	r := []rune(s)
	if len(r) <= max {
		return s
	}
	if max <= 3 {
		return string(r[:max])
	}
	return string(r[:max-3]) + "..."
}
