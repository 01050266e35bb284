// Package tui renders contacts for the command-line client: a line printer for
// one-shot commands and an interactive browser built on bubbletea.
package tui

import (
	"fmt"
	"io"
	"os"
	"strings"

	"github.com/MPanduranga55/Contact-Book/internal/client"
	"github.com/MPanduranga55/Contact-Book/internal/domain"

	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-isatty"
)

// 界面文案
const (
	MsgAdded        = "Contact added successfully!"
	MsgDeleted      = "Contact deleted successfully!"
	MsgConfirm      = "Are you sure you want to delete this contact?"
	MsgEmpty        = "No contacts found"
	MsgEmptyHint    = "Add your first contact with `contactbook-cli add`."
	MsgLoading      = "Loading contacts..."
	createdAtLayout = "2006-01-02 15:04"
)

var (
	titleStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.AdaptiveColor{Light: "4", Dark: "12"})
	nameStyle    = lipgloss.NewStyle().Bold(true)
	dimStyle     = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "240", Dark: "245"})
	successStyle = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "2", Dark: "10"})
	errorStyle   = lipgloss.NewStyle().Foreground(lipgloss.AdaptiveColor{Light: "1", Dark: "9"})
)

// Printer writes command output, styled on a terminal and plain otherwise.
type Printer struct {
	w     io.Writer
	plain bool
}

// NewPrinter returns a Printer for w. forcePlain disables styling even on a TTY.
func NewPrinter(w io.Writer, forcePlain bool) *Printer {
	if w == nil {
		w = os.Stdout
	}
	return &Printer{w: w, plain: forcePlain || !isTTY(w)}
}

func isTTY(w io.Writer) bool {
	f, ok := w.(*os.File)
	if !ok {
		return false
	}
	return isatty.IsTerminal(f.Fd()) || isatty.IsCygwinTerminal(f.Fd())
}

func (p *Printer) render(style lipgloss.Style, s string) string {
	if p.plain {
		return s
	}
	return style.Render(s)
}

// Success prints a success banner.
func (p *Printer) Success(msg string) {
	fmt.Fprintln(p.w, p.render(successStyle, "✓ "+msg))
}

// Error prints an error banner.
func (p *Printer) Error(msg string) {
	fmt.Fprintln(p.w, p.render(errorStyle, "✗ "+msg))
}

// Health prints the health check result.
func (p *Printer) Health(h *client.Health) {
	fmt.Fprintf(p.w, "%s: %s\n", p.render(nameStyle, h.Status), h.Message)
}

// Contact prints a single contact block.
func (p *Printer) Contact(c domain.Contact) {
	fmt.Fprint(p.w, FormatContact(c, p.render))
}

// Contacts prints one page of contacts with its pagination footer.
func (p *Printer) Contacts(page *client.ContactPage) {
	if len(page.Contacts) == 0 {
		fmt.Fprintln(p.w, p.render(nameStyle, MsgEmpty))
		fmt.Fprintln(p.w, p.render(dimStyle, MsgEmptyHint))
		return
	}

	fmt.Fprintf(p.w, "%s  %s\n\n", p.render(titleStyle, "Contacts"), p.render(dimStyle, CountLabel(len(page.Contacts))))
	for _, c := range page.Contacts {
		p.Contact(c)
	}
	if footer, ok := Footer(page.Page, page.Limit, page.Total, page.TotalPages); ok {
		fmt.Fprintln(p.w, p.render(dimStyle, footer))
	}
}

// FormatContact renders one contact; style may be nil.
func FormatContact(c domain.Contact, style func(lipgloss.Style, string) string) string {
	if style == nil {
		style = func(_ lipgloss.Style, s string) string { return s }
	}
	var b strings.Builder
	fmt.Fprintf(&b, "%s %s\n", style(nameStyle, c.Name), style(dimStyle, fmt.Sprintf("#%d", c.ID)))
	fmt.Fprintf(&b, "  %s\n  %s\n", c.Email, c.Phone)
	if !c.CreatedAt.IsZero() {
		fmt.Fprintf(&b, "  %s\n", style(dimStyle, "added "+c.CreatedAt.Local().Format(createdAtLayout)))
	}
	b.WriteString("\n")
	return b.String()
}

// CountLabel returns "1 contact" or "N contacts".
func CountLabel(n int) string {
	if n == 1 {
		return "1 contact"
	}
	return fmt.Sprintf("%d contacts", n)
}

// Footer returns the pagination footer; ok is false when there is a single page.
func Footer(page, limit, total, totalPages int) (string, bool) {
	if totalPages <= 1 {
		return "", false
	}
	start := (page-1)*limit + 1
	end := page * limit
	if end > total {
		end = total
	}
	return fmt.Sprintf("Page %d of %d\nShowing %d-%d of %d contacts", page, totalPages, start, end, total), true
}
