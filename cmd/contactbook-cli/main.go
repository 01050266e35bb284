package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"os/signal"
	"strings"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/client"
	"github.com/MPanduranga55/Contact-Book/internal/common/logger"
	"github.com/MPanduranga55/Contact-Book/internal/tui"

	"github.com/alecthomas/kong"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/mattn/go-isatty"
	"go.uber.org/zap"
)

var version = "dev"

// Globals are flags shared by every command.
type Globals struct {
	Version kong.VersionFlag `help:"Show version." short:"V"`
	Config  string           `help:"Path to the YAML settings file." type:"path" placeholder:"FILE"`
	BaseURL string           `help:"API base URL (overrides settings and CONTACTBOOK_URL)." name:"base-url" placeholder:"URL"`
	Timeout time.Duration    `help:"Request timeout (overrides settings)."`
	Plain   bool             `help:"Disable colors and styling."`
	Verbose bool             `help:"Log HTTP requests to stderr." short:"v"`
}

// CLI is the top-level command structure for contactbook-cli.
type CLI struct {
	Globals

	List   ListCmd   `cmd:"" help:"List contacts, newest first."`
	Add    AddCmd    `cmd:"" help:"Add a contact."`
	Delete DeleteCmd `cmd:"" help:"Delete a contact by id."`
	Export ExportCmd `cmd:"" help:"Download every contact as an xlsx file."`
	Health HealthCmd `cmd:"" help:"Check that the API is up."`
	Browse BrowseCmd `cmd:"" help:"Open the interactive contact browser."`
}

// app carries the resolved settings and collaborators into each command.
type app struct {
	ctx      context.Context
	api      *client.Client
	settings client.Settings
	printer  *tui.Printer
	in       io.Reader
	out      io.Writer
}

// ListCmd prints one page of contacts.
type ListCmd struct {
	Page  int `help:"Page number." default:"1"`
	Limit int `help:"Contacts per page (defaults to page_size from settings)."`
}

func (c *ListCmd) Run(a *app) error {
	limit := c.Limit
	if limit == 0 {
		limit = a.settings.PageSize
	}
	page, err := a.api.GetContacts(a.ctx, c.Page, limit)
	if err != nil {
		return err
	}
	a.printer.Contacts(page)
	return nil
}

// AddCmd creates a contact. Validation happens on the server.
type AddCmd struct {
	Name  string `help:"Full name." short:"n"`
	Email string `help:"Email address." short:"e"`
	Phone string `help:"10-digit phone number." short:"p"`
}

func (c *AddCmd) Run(a *app) error {
	created, err := a.api.AddContact(a.ctx, client.NewContact{
		Name:  strings.TrimSpace(c.Name),
		Email: strings.TrimSpace(c.Email),
		Phone: strings.TrimSpace(c.Phone),
	})
	if err != nil {
		return err
	}
	a.printer.Success(tui.MsgAdded)
	a.printer.Contact(*created)
	return nil
}

// DeleteCmd removes a contact after confirmation.
type DeleteCmd struct {
	ID  int64 `arg:"" help:"Contact id."`
	Yes bool  `help:"Skip the confirmation prompt." short:"y"`
}

func (c *DeleteCmd) Run(a *app) error {
	if !c.Yes && !confirm(a.in, a.out, tui.MsgConfirm) {
		fmt.Fprintln(a.out, "Cancelled.")
		return nil
	}
	if err := a.api.DeleteContact(a.ctx, c.ID); err != nil {
		return err
	}
	a.printer.Success(tui.MsgDeleted)
	return nil
}

// confirm asks a yes/no question; anything but y/yes is a no.
func confirm(in io.Reader, out io.Writer, question string) bool {
	fmt.Fprintf(out, "%s [y/N]: ", question)
	line, err := bufio.NewReader(in).ReadString('\n')
	if err != nil && !errors.Is(err, io.EOF) {
		return false
	}
	switch strings.ToLower(strings.TrimSpace(line)) {
	case "y", "yes":
		return true
	}
	return false
}

// ExportCmd writes the xlsx export to a file.
type ExportCmd struct {
	Output string `help:"Destination file." short:"o" default:"contacts-export.xlsx" type:"path"`
}

func (c *ExportCmd) Run(a *app) error {
	data, err := a.api.ExportContacts(a.ctx)
	if err != nil {
		return err
	}
	if err := os.WriteFile(c.Output, data, 0o644); err != nil {
		return fmt.Errorf("write %s: %w", c.Output, err)
	}
	a.printer.Success(fmt.Sprintf("Exported contacts to %s", c.Output))
	return nil
}

// HealthCmd calls the health endpoint.
type HealthCmd struct{}

func (c *HealthCmd) Run(a *app) error {
	h, err := a.api.HealthCheck(a.ctx)
	if err != nil {
		return err
	}
	a.printer.Health(h)
	return nil
}

// BrowseCmd opens the bubbletea browser.
type BrowseCmd struct{}

func (c *BrowseCmd) Run(a *app) error {
	if f, ok := a.out.(*os.File); !ok || !isatty.IsTerminal(f.Fd()) {
		return errors.New("browse needs an interactive terminal; use list, add and delete instead")
	}
	model := tui.NewBrowseModel(a.ctx, a.api, a.settings.PageSize)
	_, err := tea.NewProgram(model, tea.WithAltScreen(), tea.WithContext(a.ctx)).Run()
	if errors.Is(err, tea.ErrProgramKilled) {
		return nil
	}
	return err
}

// newApp resolves settings (file < CONTACTBOOK_URL < flags) and builds the client.
func newApp(ctx context.Context, g *Globals, in io.Reader, out io.Writer) (*app, error) {
	path := g.Config
	if path == "" {
		path = client.DefaultSettingsPath()
	}
	settings, err := client.LoadSettings(path)
	if err != nil {
		return nil, err
	}
	if g.BaseURL != "" {
		settings.BaseURL = g.BaseURL
	}
	if g.Timeout > 0 {
		settings.Timeout = g.Timeout
	}

	log := zap.NewNop()
	if g.Verbose {
		if log, err = logger.NewLogger("debug", "console", "contactbook-cli"); err != nil {
			return nil, err
		}
	}

	return &app{
		ctx:      ctx,
		api:      client.New(client.Options{BaseURL: settings.BaseURL, Timeout: settings.Timeout, Logger: log}),
		settings: settings,
		printer:  tui.NewPrinter(out, g.Plain),
		in:       in,
		out:      out,
	}, nil
}

func main() {
	var cli CLI
	kctx := kong.Parse(&cli,
		kong.Name("contactbook-cli"),
		kong.Description("Command-line client for the Contact Book API."),
		kong.UsageOnError(),
		kong.Vars{"version": version},
	)

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt)
	defer stop()

	a, err := newApp(ctx, &cli.Globals, os.Stdin, os.Stdout)
	if err != nil {
		fmt.Fprintf(os.Stderr, "error: %s\n", err)
		os.Exit(1)
	}

	if err := kctx.Run(a); err != nil {
		tui.NewPrinter(os.Stderr, cli.Plain).Error(err.Error())
		os.Exit(1)
	}
}
