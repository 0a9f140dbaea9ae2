// Package tui implements the interactive review screen for detected
// recurring payments.
package tui

import (
	"github.com/Veraticus/the-spice-must-recur/internal/recurring"
	"github.com/Veraticus/the-spice-must-recur/internal/tui/themes"
	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
)

// Rows reserved for the header, savings footer and help line.
const chromeHeight = 9

// Model holds the review screen state. Selection is keyed by candidate ID, so
// candidates sharing an ID toggle together and total the way recurring.Savings
// totals them.
type Model struct {
	selected   map[string]bool
	keymap     KeyMap
	help       help.Model
	theme      themes.Theme
	config     Config
	candidates []recurring.Candidate
	cursor     int
	offset     int
	width      int
	height     int
	quitting   bool
}

// NewModel creates a review model for the given detection result.
func NewModel(result recurring.Result, opts ...Option) Model {
	cfg := defaultConfig()
	for _, opt := range opts {
		opt(&cfg)
	}

	h := help.New()
	h.Width = cfg.Width

	return Model{
		candidates: result.Candidates,
		selected:   make(map[string]bool),
		keymap:     DefaultKeyMap(),
		help:       h,
		theme:      cfg.Theme,
		config:     cfg,
		width:      cfg.Width,
		height:     cfg.Height,
	}
}

// Init initializes the model.
func (m Model) Init() tea.Cmd {
	return nil
}

// Update handles messages and updates the model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		m.scrollToCursor()

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch {
	case key.Matches(msg, m.keymap.Quit):
		m.quitting = true
		return m, tea.Quit

	case key.Matches(msg, m.keymap.Help):
		m.help.ShowAll = !m.help.ShowAll

	case key.Matches(msg, m.keymap.Up):
		m.moveCursor(-1)
	case key.Matches(msg, m.keymap.Down):
		m.moveCursor(1)
	case key.Matches(msg, m.keymap.PageUp):
		m.moveCursor(-m.pageSize())
	case key.Matches(msg, m.keymap.PageDown):
		m.moveCursor(m.pageSize())
	case key.Matches(msg, m.keymap.Home):
		m.moveCursor(-len(m.candidates))
	case key.Matches(msg, m.keymap.End):
		m.moveCursor(len(m.candidates))

	case key.Matches(msg, m.keymap.ToggleSelect):
		m.toggleCurrent()
	case key.Matches(msg, m.keymap.SelectAll):
		m.selectAll()
	case key.Matches(msg, m.keymap.DeselectAll):
		m.selected = make(map[string]bool)
	}
	return m, nil
}

func (m *Model) moveCursor(delta int) {
	if len(m.candidates) == 0 {
		return
	}
	m.cursor += delta
	if m.cursor < 0 {
		m.cursor = 0
	}
	if m.cursor >= len(m.candidates) {
		m.cursor = len(m.candidates) - 1
	}
	m.scrollToCursor()
}

func (m *Model) scrollToCursor() {
	page := m.pageSize()
	if m.cursor < m.offset {
		m.offset = m.cursor
	}
	if m.cursor >= m.offset+page {
		m.offset = m.cursor - page + 1
	}
	if m.offset < 0 {
		m.offset = 0
	}
}

func (m Model) pageSize() int {
	if page := m.height - chromeHeight; page > 3 {
		return page
	}
	return 3
}

func (m *Model) toggleCurrent() {
	if len(m.candidates) == 0 {
		return
	}
	// Copy so earlier Model values don't share the map.
	next := make(map[string]bool, len(m.selected)+1)
	for id := range m.selected {
		next[id] = true
	}

	id := m.candidates[m.cursor].ID
	if next[id] {
		delete(next, id)
	} else {
		next[id] = true
	}
	m.selected = next
}

func (m *Model) selectAll() {
	next := make(map[string]bool, len(m.candidates))
	for _, c := range m.candidates {
		next[c.ID] = true
	}
	m.selected = next
}

// Cursor returns the index of the highlighted candidate.
func (m Model) Cursor() int {
	return m.cursor
}

// IsSelected reports whether the candidate at index i is selected.
func (m Model) IsSelected(i int) bool {
	if i < 0 || i >= len(m.candidates) {
		return false
	}
	return m.selected[m.candidates[i].ID]
}

// SelectedIDs returns the selected candidate IDs in rank order.
func (m Model) SelectedIDs() []string {
	ids := make([]string, 0, len(m.selected))
	seen := make(map[string]bool, len(m.selected))
	for _, c := range m.candidates {
		if m.selected[c.ID] && !seen[c.ID] {
			seen[c.ID] = true
			ids = append(ids, c.ID)
		}
	}
	return ids
}

// Savings totals the currently selected candidates.
func (m Model) Savings() recurring.SavingsSummary {
	return recurring.Savings(m.candidates, m.SelectedIDs())
}

// Quitting reports whether the user has asked to leave the screen.
func (m Model) Quitting() bool {
	return m.quitting
}
