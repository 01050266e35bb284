package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/MPanduranga55/Contact-Book/internal/client"
	"github.com/MPanduranga55/Contact-Book/internal/domain"
	"github.com/MPanduranga55/Contact-Book/internal/models"

	"github.com/charmbracelet/bubbles/cursor"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
)

// CursorMarker is the prefix shown on the selected contact.
const CursorMarker = "▸ "

// BannerTTL is how long success and error banners stay visible.
const BannerTTL = 5 * time.Second

// ContactsAPI is the subset of the REST client the browser needs.
type ContactsAPI interface {
	GetContacts(ctx context.Context, page, limit int) (*client.ContactPage, error)
	AddContact(ctx context.Context, in client.NewContact) (*domain.Contact, error)
	DeleteContact(ctx context.Context, id int64) error
}

type mode int

const (
	modeList mode = iota
	modeConfirm
	modeAdd
)

const (
	fieldName = iota
	fieldEmail
	fieldPhone
)

// contactsLoadedMsg carries the result of a page fetch.
type contactsLoadedMsg struct {
	requested int
	page      *client.ContactPage
	err       error
}

type contactAddedMsg struct {
	contact *domain.Contact
	err     error
}

type contactDeletedMsg struct {
	id  int64
	err error
}

// clearBannerMsg clears the banner set with the same sequence number.
type clearBannerMsg struct{ seq int }

// BrowseModel 交互式联系人浏览：分页、新增、删除（需确认）
type BrowseModel struct {
	ctx   context.Context
	api   ContactsAPI
	limit int

	page      int
	data      *client.ContactPage
	cursor    int
	loading   bool
	mode      mode
	pendingID int64

	inputs []textinput.Model
	focus  int

	banner    string
	bannerErr bool
	bannerSeq int
	bannerTTL time.Duration

	listKeys    listKeys
	formKeys    formKeys
	confirmKeys confirmKeys
	help        help.Model
}

// NewBrowseModel returns a browser starting on page 1. limit outside 1..100 falls back to 10.
func NewBrowseModel(ctx context.Context, api ContactsAPI, limit int) BrowseModel {
	if limit < 1 || limit > models.MaxLimit {
		limit = models.DefaultLimit
	}
	return BrowseModel{
		ctx:         ctx,
		api:         api,
		limit:       limit,
		page:        models.DefaultPage,
		loading:     true,
		bannerTTL:   BannerTTL,
		listKeys:    listKeyMap(),
		formKeys:    formKeyMap(),
		confirmKeys: confirmKeyMap(),
		help:        help.New(),
	}
}

func (m BrowseModel) Init() tea.Cmd {
	return m.fetch(m.page)
}

func (m BrowseModel) fetch(page int) tea.Cmd {
	ctx, api, limit := m.ctx, m.api, m.limit
	return func() tea.Msg {
		resp, err := api.GetContacts(ctx, page, limit)
		return contactsLoadedMsg{requested: page, page: resp, err: err}
	}
}

func (m BrowseModel) add(in client.NewContact) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		c, err := api.AddContact(ctx, in)
		return contactAddedMsg{contact: c, err: err}
	}
}

func (m BrowseModel) remove(id int64) tea.Cmd {
	ctx, api := m.ctx, m.api
	return func() tea.Msg {
		return contactDeletedMsg{id: id, err: api.DeleteContact(ctx, id)}
	}
}

func (m *BrowseModel) setBanner(msg string, isErr bool) tea.Cmd {
	m.bannerSeq++
	m.banner, m.bannerErr = msg, isErr
	seq := m.bannerSeq
	return tea.Tick(m.bannerTTL, func(time.Time) tea.Msg { return clearBannerMsg{seq: seq} })
}

func (m BrowseModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.help.Width = msg.Width
		return m, nil

	case contactsLoadedMsg:
		return m.applyPage(msg)

	case contactAddedMsg:
		m.loading = false
		if msg.err != nil {
			cmd := m.setBanner(msg.err.Error(), true)
			return m, cmd
		}
		m.mode = modeList
		m.inputs = nil
		m.loading = true
		cmd := m.setBanner(MsgAdded, false)
		return m, tea.Batch(cmd, m.fetch(m.page))

	case contactDeletedMsg:
		m.loading = false
		m.pendingID = 0
		if msg.err != nil {
			cmd := m.setBanner(msg.err.Error(), true)
			return m, cmd
		}
		m.loading = true
		cmd := m.setBanner(MsgDeleted, false)
		return m, tea.Batch(cmd, m.fetch(m.page))

	case clearBannerMsg:
		if msg.seq == m.bannerSeq {
			m.banner, m.bannerErr = "", false
		}
		return m, nil

	case tea.KeyMsg:
		switch m.mode {
		case modeAdd:
			return m.updateForm(msg)
		case modeConfirm:
			return m.updateConfirm(msg)
		default:
			return m.updateList(msg)
		}
	}
	return m, nil
}

// applyPage stores a fetched page. A page emptied by a delete falls back to the last page.
func (m BrowseModel) applyPage(msg contactsLoadedMsg) (tea.Model, tea.Cmd) {
	m.loading = false
	if msg.err != nil {
		cmd := m.setBanner(msg.err.Error(), true)
		return m, cmd
	}
	p := msg.page
	if len(p.Contacts) == 0 && p.TotalPages > 0 && msg.requested > p.TotalPages {
		m.loading = true
		m.page = p.TotalPages
		return m, m.fetch(p.TotalPages)
	}
	m.data = p
	m.page = p.Page
	if m.cursor >= len(p.Contacts) {
		m.cursor = len(p.Contacts) - 1
	}
	if m.cursor < 0 {
		m.cursor = 0
	}
	return m, nil
}

func (m BrowseModel) contacts() []domain.Contact {
	if m.data == nil {
		return nil
	}
	return m.data.Contacts
}

func (m BrowseModel) totalPages() int {
	if m.data == nil {
		return 0
	}
	return m.data.TotalPages
}

func (m BrowseModel) updateList(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if key.Matches(msg, m.listKeys.Quit) {
		return m, tea.Quit
	}
	if m.loading {
		return m, nil
	}
	contacts := m.contacts()

	switch {
	case key.Matches(msg, m.listKeys.Up):
		if m.cursor > 0 {
			m.cursor--
		}
	case key.Matches(msg, m.listKeys.Down):
		if m.cursor < len(contacts)-1 {
			m.cursor++
		}
	case key.Matches(msg, m.listKeys.Next):
		if m.page < m.totalPages() {
			m.loading = true
			m.cursor = 0
			return m, m.fetch(m.page + 1)
		}
	case key.Matches(msg, m.listKeys.Prev):
		if m.page > 1 {
			m.loading = true
			m.cursor = 0
			return m, m.fetch(m.page - 1)
		}
	case key.Matches(msg, m.listKeys.Refresh):
		m.loading = true
		return m, m.fetch(m.page)
	case key.Matches(msg, m.listKeys.Delete):
		if len(contacts) > 0 {
			m.pendingID = contacts[m.cursor].ID
			m.mode = modeConfirm
		}
	case key.Matches(msg, m.listKeys.Add):
		m.mode = modeAdd
		m.inputs = newContactInputs()
		m.focus = fieldName
	}
	return m, nil
}

func (m BrowseModel) updateConfirm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.confirmKeys.Yes):
		m.mode = modeList
		m.loading = true
		return m, m.remove(m.pendingID)
	case key.Matches(msg, m.confirmKeys.No):
		m.mode = modeList
		m.pendingID = 0
	}
	return m, nil
}

func newContactInputs() []textinput.Model {
	placeholders := []string{"Full name", "name@example.com", "10-digit phone"}
	inputs := make([]textinput.Model, len(placeholders))
	for i, ph := range placeholders {
		in := textinput.New()
		in.Placeholder = ph
		in.CharLimit = 254
		in.Width = 40
		in.Cursor.SetMode(cursor.CursorStatic)
		inputs[i] = in
	}
	inputs[fieldPhone].CharLimit = 10
	inputs[fieldName].Focus()
	return inputs
}

func (m BrowseModel) updateForm(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if m.loading {
		return m, nil
	}
	switch {
	case key.Matches(msg, m.formKeys.Cancel):
		m.mode = modeList
		m.inputs = nil
		return m, nil
	case key.Matches(msg, m.formKeys.Submit):
		m.loading = true
		return m, m.add(client.NewContact{
			Name:  strings.TrimSpace(m.inputs[fieldName].Value()),
			Email: strings.TrimSpace(m.inputs[fieldEmail].Value()),
			Phone: strings.TrimSpace(m.inputs[fieldPhone].Value()),
		})
	case key.Matches(msg, m.formKeys.Next):
		cmd := m.focusField((m.focus + 1) % len(m.inputs))
		return m, cmd
	case key.Matches(msg, m.formKeys.Prev):
		cmd := m.focusField((m.focus + len(m.inputs) - 1) % len(m.inputs))
		return m, cmd
	}

	var cmd tea.Cmd
	m.inputs[m.focus], cmd = m.inputs[m.focus].Update(msg)
	return m, cmd
}

func (m *BrowseModel) focusField(i int) tea.Cmd {
	m.inputs[m.focus].Blur()
	m.focus = i
	return m.inputs[i].Focus()
}

func (m BrowseModel) View() string {
	var b strings.Builder
	b.WriteString(titleStyle.Render("Contact Book"))
	b.WriteString("\n\n")

	if m.banner != "" {
		if m.bannerErr {
			b.WriteString(errorStyle.Render("✗ " + m.banner))
		} else {
			b.WriteString(successStyle.Render("✓ " + m.banner))
		}
		b.WriteString("\n\n")
	}

	switch m.mode {
	case modeAdd:
		m.viewForm(&b)
		b.WriteString("\n" + m.help.View(m.formKeys))
		return b.String()
	case modeConfirm:
		fmt.Fprintf(&b, "%s\n\n  [y] Yes   [n] No\n", MsgConfirm)
		return b.String()
	}

	if m.loading && m.data == nil {
		b.WriteString(dimStyle.Render(MsgLoading) + "\n")
		return b.String()
	}
	m.viewList(&b)
	b.WriteString("\n" + m.help.View(m.listKeys))
	return b.String()
}

func (m BrowseModel) viewList(b *strings.Builder) {
	contacts := m.contacts()
	if len(contacts) == 0 {
		b.WriteString(nameStyle.Render(MsgEmpty) + "\n")
		b.WriteString(dimStyle.Render("Press a to add your first contact.") + "\n")
		return
	}

	fmt.Fprintf(b, "%s\n\n", dimStyle.Render(CountLabel(len(contacts))))
	for i, c := range contacts {
		prefix := "  "
		if i == m.cursor {
			prefix = CursorMarker
		}
		fmt.Fprintf(b, "%s%s  %s  %s\n", prefix, nameStyle.Render(c.Name), c.Email, c.Phone)
	}
	if footer, ok := Footer(m.data.Page, m.data.Limit, m.data.Total, m.data.TotalPages); ok {
		b.WriteString("\n" + dimStyle.Render(footer) + "\n")
	}
}

func (m BrowseModel) viewForm(b *strings.Builder) {
	labels := []string{"Name", "Email", "Phone"}
	b.WriteString(nameStyle.Render("Add contact") + "\n\n")
	for i, in := range m.inputs {
		fmt.Fprintf(b, "%-6s %s\n", labels[i], in.View())
	}
}
