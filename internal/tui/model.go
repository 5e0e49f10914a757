// Package tui provides the BubbleTea-based notification history browser.
package tui

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/list"
	"github.com/charmbracelet/bubbles/textinput"
	"github.com/charmbracelet/bubbles/viewport"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dustin/go-humanize"
	"gopkg.in/yaml.v3"

	"github.com/skalanux/ktm/internal/history"
	"github.com/skalanux/ktm/internal/markup"
)

// Mode represents the current UI mode.
type Mode int

const (
	ModeList Mode = iota
	ModeDetail
	ModeSearch
	ModeHelp
)

// LoadFunc returns the history entries to browse, newest first.
type LoadFunc func() ([]history.Entry, error)

// CloseFunc asks the daemon to close the popup with the given ID.
type CloseFunc func(id uint32) error

// Options configures a Model.
type Options struct {
	Load             LoadFunc
	Close            CloseFunc       // nil disables the close key
	Changes          <-chan struct{} // signalled when the journal changes
	ClipboardCommand string          // empty = auto-detect
}

// Model is the history browser model.
type Model struct {
	load      LoadFunc
	closeFn   CloseFunc
	changes   <-chan struct{}
	clipboard string

	// Current mode
	mode Mode

	// Components
	list        list.Model
	viewport    viewport.Model
	searchInput textinput.Model

	// State
	entries     []history.Entry
	selected    *history.Entry
	searchQuery string
	openOnly    bool
	width       int
	height      int
	ready       bool

	// Key bindings
	keys KeyMap

	// Status message
	statusMsg string
	statusErr bool
}

// entryItem wraps a history entry for the list component.
type entryItem struct {
	entry history.Entry
}

func (i entryItem) Title() string {
	return i.entry.Summary
}

func (i entryItem) Description() string {
	status := "open"
	if !i.entry.Open() {
		status = i.entry.CloseReason
	}
	desc := fmt.Sprintf("[%s] %s · %s", i.entry.AppName, humanize.Time(i.entry.ReceivedAt), status)
	if body := singleLine(markup.Strip(i.entry.Body)); body != "" {
		desc += " - " + truncate(body, 50)
	}
	return desc
}

func (i entryItem) FilterValue() string {
	return i.entry.Summary + " " + i.entry.Body
}

// entryDelegate dims entries whose popup has already closed.
type entryDelegate struct {
	list.DefaultDelegate
}

func newEntryDelegate() entryDelegate {
	return entryDelegate{DefaultDelegate: list.NewDefaultDelegate()}
}

// Render renders a list item. All items share one layout so the list
// does not jump when an entry closes.
func (d entryDelegate) Render(w io.Writer, m list.Model, index int, item list.Item) {
	ei, ok := item.(entryItem)
	if !ok {
		d.DefaultDelegate.Render(w, m, index, item)
		return
	}

	isSelected := index == m.Index()
	isClosed := !ei.entry.Open()

	itemWidth := m.Width() - d.Styles.NormalTitle.GetHorizontalPadding()

	var titleStyle, descStyle lipgloss.Style
	if isSelected {
		titleStyle = d.Styles.SelectedTitle
		descStyle = d.Styles.SelectedDesc
	} else {
		titleStyle = d.Styles.NormalTitle
		descStyle = d.Styles.NormalDesc
	}
	if isClosed {
		titleStyle = titleStyle.Foreground(lipgloss.Color("8"))
		descStyle = descStyle.Foreground(lipgloss.Color("8"))
	}

	title := ei.Title()
	if !isClosed {
		title = "● " + title
	}

	fmt.Fprint(w, titleStyle.Render(truncate(title, itemWidth)))
	fmt.Fprint(w, "\n")
	fmt.Fprint(w, descStyle.Render(truncate(ei.Description(), itemWidth)))
}

// New creates a browser model.
func New(opts Options) Model {
	l := list.New(nil, newEntryDelegate(), 0, 0)
	l.Title = "Notification History"
	l.SetShowStatusBar(true)
	l.SetShowHelp(false)
	// Searching is handled by the model so it can match the body too.
	l.SetFilteringEnabled(false)
	l.DisableQuitKeybindings()

	searchInput := textinput.New()
	searchInput.Placeholder = "Search..."
	searchInput.CharLimit = 100

	return Model{
		load:        opts.Load,
		closeFn:     opts.Close,
		changes:     opts.Changes,
		clipboard:   opts.ClipboardCommand,
		mode:        ModeList,
		list:        l,
		searchInput: searchInput,
		keys:        DefaultKeyMap(),
	}
}

// Init loads the history and starts watching for journal changes.
func (m Model) Init() tea.Cmd {
	return tea.Batch(
		m.loadEntries,
		m.watchForChanges,
	)
}

type loadedMsg struct {
	entries []history.Entry
	err     error
}

type refreshMsg struct{}

type statusMsg struct {
	text  string
	isErr bool
}

type clearStatusMsg struct{}

type copyResultMsg struct {
	err error
}

type closeResultMsg struct {
	id  uint32
	err error
}

func (m Model) loadEntries() tea.Msg {
	if m.load == nil {
		return loadedMsg{}
	}
	entries, err := m.load()
	return loadedMsg{entries: entries, err: err}
}

// watchForChanges blocks until the journal changes.
func (m Model) watchForChanges() tea.Msg {
	if m.changes == nil {
		return nil
	}
	if _, ok := <-m.changes; !ok {
		return nil
	}
	return refreshMsg{}
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmds []tea.Cmd

	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.ready = true

		m.list.SetSize(msg.Width, msg.Height-2)
		m.viewport = viewport.New(msg.Width, msg.Height-4)
		m.viewport.YPosition = 2
		if m.selected != nil {
			m.viewport.SetContent(m.renderDetail(*m.selected))
		}
		return m, nil

	case loadedMsg:
		if msg.err != nil {
			return m, statusCmd("Load failed: "+msg.err.Error(), true)
		}
		m.entries = msg.entries
		m.list.SetItems(m.buildListItems())
		m.refreshSelected()
		return m, nil

	case refreshMsg:
		return m, tea.Batch(m.loadEntries, m.watchForChanges)

	case statusMsg:
		m.statusMsg = msg.text
		m.statusErr = msg.isErr
		return m, tea.Tick(3*time.Second, func(time.Time) tea.Msg {
			return clearStatusMsg{}
		})

	case clearStatusMsg:
		m.statusMsg = ""
		m.statusErr = false
		return m, nil

	case copyResultMsg:
		if msg.err != nil {
			return m, statusCmd("Copy failed: "+msg.err.Error(), true)
		}
		return m, statusCmd("Copied to clipboard", false)

	case closeResultMsg:
		if msg.err != nil {
			return m, statusCmd(fmt.Sprintf("Close %d failed: %v", msg.id, msg.err), true)
		}
		return m, statusCmd(fmt.Sprintf("Closed notification %d", msg.id), false)
	}

	switch m.mode {
	case ModeList:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		cmds = append(cmds, cmd)
	case ModeDetail:
		var cmd tea.Cmd
		m.viewport, cmd = m.viewport.Update(msg)
		cmds = append(cmds, cmd)
	case ModeSearch:
		var cmd tea.Cmd
		m.searchInput, cmd = m.searchInput.Update(msg)
		cmds = append(cmds, cmd)
	}

	return m, tea.Batch(cmds...)
}

func statusCmd(text string, isErr bool) tea.Cmd {
	return func() tea.Msg {
		return statusMsg{text: text, isErr: isErr}
	}
}

// refreshSelected keeps the detail view in step with reloaded entries.
func (m *Model) refreshSelected() {
	if m.selected == nil {
		return
	}
	for i := len(m.entries) - 1; i >= 0; i-- {
		e := m.entries[i]
		if e.NotificationID == m.selected.NotificationID && e.ReceivedAt.Equal(m.selected.ReceivedAt) {
			m.selected = &e
			m.viewport.SetContent(m.renderDetail(e))
			return
		}
	}
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	// Typed characters belong to the search input.
	if m.mode == ModeSearch {
		if msg.Type == tea.KeyCtrlC {
			return m, tea.Quit
		}
		return m.handleSearchKey(msg)
	}

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		if m.mode == ModeHelp {
			m.mode = ModeList
		} else {
			m.mode = ModeHelp
		}
		return m, nil
	}

	switch m.mode {
	case ModeList:
		return m.handleListKey(msg)
	case ModeDetail:
		return m.handleDetailKey(msg)
	case ModeHelp:
		if key.Matches(msg, m.keys.Back) {
			m.mode = ModeList
		}
		return m, nil
	}

	return m, nil
}

func (m Model) handleListKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Enter):
		m.openSelected()
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m, m.copyToClipboard(markup.Strip(item.entry.Body))
		}
		return m, nil

	case key.Matches(msg, m.keys.CopySummary):
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m, m.copyToClipboard(item.entry.Summary)
		}
		return m, nil

	case key.Matches(msg, m.keys.CopyAllJSON):
		data, err := json.MarshalIndent(m.visibleEntries(), "", "  ")
		if err != nil {
			return m, statusCmd("Failed to marshal JSON: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.CopyAllYAML):
		data, err := yaml.Marshal(m.visibleEntries())
		if err != nil {
			return m, statusCmd("Failed to marshal YAML: "+err.Error(), true)
		}
		return m, m.copyToClipboard(string(data))

	case key.Matches(msg, m.keys.Close):
		if item, ok := m.list.SelectedItem().(entryItem); ok {
			return m, m.closeEntry(item.entry)
		}
		return m, nil

	case key.Matches(msg, m.keys.ToggleOpen):
		m.openOnly = !m.openOnly
		m.list.SetItems(m.buildListItems())
		if m.openOnly {
			return m, statusCmd("Showing open notifications", false)
		}
		return m, statusCmd("Showing all notifications", false)

	case key.Matches(msg, m.keys.Search):
		return m.enterSearch()

	case key.Matches(msg, m.keys.Refresh):
		return m, m.loadEntries
	}

	var cmd tea.Cmd
	m.list, cmd = m.list.Update(msg)
	return m, cmd
}

func (m Model) handleDetailKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keys.Back):
		m.mode = ModeList
		m.selected = nil
		return m, nil

	case key.Matches(msg, m.keys.Copy):
		if m.selected != nil {
			return m, m.copyToClipboard(markup.Strip(m.selected.Body))
		}
		return m, nil

	case key.Matches(msg, m.keys.CopySummary):
		if m.selected != nil {
			return m, m.copyToClipboard(m.selected.Summary)
		}
		return m, nil

	case key.Matches(msg, m.keys.Close):
		if m.selected != nil {
			return m, m.closeEntry(*m.selected)
		}
		return m, nil

	case key.Matches(msg, m.keys.Search):
		m.selected = nil
		return m.enterSearch()
	}

	var cmd tea.Cmd
	m.viewport, cmd = m.viewport.Update(msg)
	return m, cmd
}

func (m Model) handleSearchKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.Type {
	case tea.KeyEsc:
		m.mode = ModeList
		m.searchInput.Blur()
		m.searchInput.SetValue("")
		m.searchQuery = ""
		m.list.SetItems(m.buildListItems())
		return m, nil

	case tea.KeyEnter:
		m.searchInput.Blur()
		if !m.openSelected() {
			m.mode = ModeList
		}
		return m, nil

	case tea.KeyUp, tea.KeyDown:
		var cmd tea.Cmd
		m.list, cmd = m.list.Update(msg)
		return m, cmd
	}

	var cmd tea.Cmd
	m.searchInput, cmd = m.searchInput.Update(msg)

	// Filter live on each keystroke
	m.searchQuery = m.searchInput.Value()
	m.list.SetItems(m.buildListItems())

	return m, cmd
}

func (m Model) enterSearch() (tea.Model, tea.Cmd) {
	m.searchInput.SetValue("")
	m.searchQuery = ""
	m.list.SetItems(m.buildListItems())
	m.mode = ModeSearch
	m.searchInput.Focus()
	return m, textinput.Blink
}

// openSelected switches to the detail view of the selected entry.
func (m *Model) openSelected() bool {
	item, ok := m.list.SelectedItem().(entryItem)
	if !ok {
		return false
	}
	m.selected = &item.entry
	m.mode = ModeDetail
	m.viewport.SetContent(m.renderDetail(item.entry))
	m.viewport.GotoTop()
	return true
}

func (m Model) closeEntry(e history.Entry) tea.Cmd {
	if m.closeFn == nil {
		return statusCmd("Closing is not available", true)
	}
	if !e.Open() {
		return statusCmd("Notification is already closed", true)
	}
	closeFn := m.closeFn
	id := e.NotificationID
	return func() tea.Msg {
		return closeResultMsg{id: id, err: closeFn(id)}
	}
}

// buildListItems applies the open filter and the search query.
func (m Model) buildListItems() []list.Item {
	entries := m.entries
	if m.openOnly {
		entries = history.Filter(entries, history.FilterOptions{OpenOnly: true})
	}
	entries = history.Search(entries, m.searchQuery)

	items := make([]list.Item, len(entries))
	for i, e := range entries {
		items[i] = entryItem{entry: e}
	}
	return items
}

func (m Model) visibleEntries() []history.Entry {
	items := m.list.Items()
	entries := make([]history.Entry, 0, len(items))
	for _, item := range items {
		if ei, ok := item.(entryItem); ok {
			entries = append(entries, ei.entry)
		}
	}
	return entries
}

func (m Model) renderDetail(e history.Entry) string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12"))

	labelStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	var sb strings.Builder
	sb.WriteString(headerStyle.Render(e.Summary) + "\n\n")

	sb.WriteString(labelStyle.Render("ID: ") + fmt.Sprint(e.NotificationID) + "\n")
	sb.WriteString(labelStyle.Render("App: ") + e.AppName + "\n")
	sb.WriteString(labelStyle.Render("Received: ") +
		e.ReceivedAt.Format(time.DateTime) + " (" + humanize.Time(e.ReceivedAt) + ")\n")
	sb.WriteString(labelStyle.Render("Urgency: ") + e.UrgencyName + "\n")
	if e.Icon != "" {
		sb.WriteString(labelStyle.Render("Icon: ") + e.Icon + "\n")
	}
	if e.Open() {
		sb.WriteString(labelStyle.Render("Status: ") + "open\n")
	} else {
		on := strings.TrimSpace(humanize.RelTime(e.ReceivedAt, e.ClosedAt, "", ""))
		sb.WriteString(labelStyle.Render("Status: ") + e.CloseReason + " after " + on + "\n")
	}

	sb.WriteString("\n" + labelStyle.Render("Body:") + "\n")
	sb.WriteString(markup.Strip(e.Body) + "\n")

	return sb.String()
}

func (m Model) copyToClipboard(text string) tea.Cmd {
	command := m.clipboard
	return func() tea.Msg {
		return copyResultMsg{err: copyText(text, command)}
	}
}

// View renders the browser.
func (m Model) View() string {
	if !m.ready {
		return "Initializing..."
	}

	switch m.mode {
	case ModeList:
		return m.viewList()
	case ModeDetail:
		return m.viewDetail()
	case ModeSearch:
		return m.viewSearch()
	case ModeHelp:
		return m.viewHelp()
	default:
		return ""
	}
}

func (m Model) viewList() string {
	s := m.list.View()

	if m.statusMsg != "" {
		statusStyle := lipgloss.NewStyle().
			Foreground(lipgloss.Color("7"))
		if m.statusErr {
			statusStyle = statusStyle.Foreground(lipgloss.Color("9"))
		}
		s += "\n" + statusStyle.Render(m.statusMsg)
	} else {
		s += "\n" + m.buildKeybindBar(m.width, ModeList)
	}

	return s
}

func (m Model) viewDetail() string {
	headerStyle := lipgloss.NewStyle().
		Bold(true).
		Padding(0, 1)

	header := headerStyle.Render("Notification Detail")

	return header + "\n" + m.viewport.View() + "\n" + m.buildKeybindBar(m.width, ModeDetail)
}

func (m Model) viewSearch() string {
	countStr := fmt.Sprintf("(%d matches)", len(m.list.Items()))

	searchBar := "Search: " + m.searchInput.View() + " " +
		lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(countStr)

	return searchBar + "\n" + m.list.View() + "\n" + m.buildKeybindBar(m.width, ModeSearch)
}

func (m Model) viewHelp() string {
	titleStyle := lipgloss.NewStyle().
		Bold(true).
		Foreground(lipgloss.Color("12")).
		MarginBottom(1)

	sectionStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("8"))

	keyStyle := lipgloss.NewStyle().
		Foreground(lipgloss.Color("10"))

	s := titleStyle.Render("Keyboard Shortcuts") + "\n\n"

	s += sectionStyle.Render("Navigation") + "\n"
	s += keyStyle.Render("  j/k, ↑/↓") + "     Move up/down\n"
	s += keyStyle.Render("  g/G") + "          Go to top/bottom\n"
	s += keyStyle.Render("  pgup/pgdn") + "    Page up/down\n"
	s += "\n"

	s += sectionStyle.Render("Actions") + "\n"
	s += keyStyle.Render("  enter") + "        View notification details\n"
	s += keyStyle.Render("  c") + "            Copy body to clipboard\n"
	s += keyStyle.Render("  s") + "            Copy summary to clipboard\n"
	s += keyStyle.Render("  C") + "            Copy all visible as JSON\n"
	s += keyStyle.Render("  alt+c") + "        Copy all visible as YAML\n"
	s += keyStyle.Render("  x") + "            Close the popup if still open\n"
	s += keyStyle.Render("  o") + "            Toggle showing only open notifications\n"
	s += keyStyle.Render("  /") + "            Search summary and body\n"
	s += keyStyle.Render("  r") + "            Reload the journal\n"
	s += "\n"

	s += sectionStyle.Render("General") + "\n"
	s += keyStyle.Render("  ?") + "            Toggle this help\n"
	s += keyStyle.Render("  esc") + "          Back / Cancel\n"
	s += keyStyle.Render("  q") + "            Quit\n"

	s += "\n" + lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Render(
		"Press ? or esc to return")

	return s
}

type keybind struct {
	key  string
	desc string
}

// buildKeybindBar lists the keybinds for mode, most important first,
// until the bar would overflow width.
func (m Model) buildKeybindBar(width int, mode Mode) string {
	style := lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	keyStyle := lipgloss.NewStyle().Foreground(lipgloss.Color("10"))

	var binds []keybind
	switch mode {
	case ModeList:
		binds = []keybind{
			{"q", "quit"},
			{"enter", "view"},
			{"?", "help"},
			{"/", "search"},
			{"x", "close"},
			{"o", "open only"},
			{"c", "copy"},
			{"s", "summary"},
			{"r", "refresh"},
		}
	case ModeDetail:
		binds = []keybind{
			{"q", "quit"},
			{"esc", "back"},
			{"/", "search"},
			{"x", "close"},
			{"c", "copy body"},
			{"s", "copy summary"},
			{"j/k", "scroll"},
		}
	case ModeSearch:
		binds = []keybind{
			{"enter", "view"},
			{"esc", "close"},
			{"↑/↓", "navigate"},
		}
	}

	const separator = "  "
	result := ""
	for _, b := range binds {
		plainItem := b.key + " " + b.desc
		testLen := lipgloss.Width(plainItem)
		if result != "" {
			testLen += lipgloss.Width(result) + len(separator)
		}
		if width > 0 && testLen > width {
			break
		}
		if result != "" {
			result += separator
		}
		result += keyStyle.Render(b.key) + " " + b.desc
	}

	return style.Render(result)
}

func singleLine(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

// truncate shortens s to width runes, ending in an ellipsis.
func truncate(s string, width int) string {
	if width <= 0 {
		return s
	}
	r := []rune(s)
	if len(r) <= width {
		return s
	}
	if width == 1 {
		return "…"
	}
	return string(r[:width-1]) + "…"
}

// RunOptions configures the browser.
type RunOptions struct {
	Load             LoadFunc
	Close            CloseFunc
	Changes          <-chan struct{}
	ClipboardCommand string
}

// Run starts the browser and blocks until the user quits.
func Run(opts RunOptions) error {
	m := New(Options(opts))
	p := tea.NewProgram(m, tea.WithAltScreen())
	_, err := p.Run()
	return err
}
