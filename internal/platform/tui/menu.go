package tui

import (
	"fmt"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/registry"
	"github.com/vovakirdan/collector/internal/storage"
)

// MenuItem is a selectable preset.
type MenuItem struct {
	GameID string
	Title  string
	Best   string // best reward so far, empty when none
}

// MenuModel is the Bubble Tea model for the preset picker.
type MenuModel struct {
	items        []MenuItem
	cursor       int
	width        int
	height       int
	config       core.RuntimeConfig
	keyMapper    *KeyMapper
	pal          palette
	quitting     bool
	selected     *MenuItem
	openEpisodes bool
}

// NewMenuModel lists every registered preset with its best reward.
func NewMenuModel(store *storage.Store, cfg core.RuntimeConfig) MenuModel {
	games := registry.List()
	items := make([]MenuItem, 0, len(games))
	for _, g := range games {
		item := MenuItem{GameID: g.ID, Title: g.Title}
		if store != nil {
			if best, ok, err := store.BestReward(g.ID); err == nil && ok {
				item.Best = fmt.Sprintf("%.0f", best)
			}
		}
		items = append(items, item)
	}

	return MenuModel{
		items:     items,
		width:     cfg.ScreenW,
		height:    cfg.ScreenH,
		config:    cfg,
		keyMapper: NewKeyMapper(),
		pal:       defaultPalette,
	}
}

// Init initializes the menu model.
func (m MenuModel) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu.
func (m MenuModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKey(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.config.ScreenW = msg.Width
		m.config.ScreenH = msg.Height
	}
	return m, nil
}

func (m MenuModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch m.keyMapper.MapKeyToMenuAction(msg) {
	case MenuActionQuit:
		m.quitting = true
		return m, tea.Quit

	case MenuActionUp:
		if m.cursor > 0 {
			m.cursor--
		}

	case MenuActionDown:
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case MenuActionSelect:
		if len(m.items) > 0 {
			selected := m.items[m.cursor]
			m.selected = &selected
		}

	case MenuActionEpisodes:
		m.openEpisodes = true
	}
	return m, nil
}

// View renders the menu.
func (m MenuModel) View() string {
	if m.quitting {
		return ""
	}

	lines := []string{
		"",
		m.pal.title.Render("C O L L E C T O R"),
		m.pal.dim.Render("gather, refuel, deliver"),
		"",
	}
	for i, item := range m.items {
		line := "  " + item.Title
		if i == m.cursor {
			line = m.pal.cursor.Render("> " + item.Title)
		}
		if item.Best != "" {
			line += m.pal.dim.Render("  best " + item.Best)
		}
		lines = append(lines, line)
	}
	lines = append(lines, "", m.pal.dim.Render("up/down: move  enter: play  tab: episodes  q: quit"))

	body := lipgloss.JoinVertical(lipgloss.Left, lines...)
	return lipgloss.Place(max(m.width, 1), max(m.height, 1), lipgloss.Center, lipgloss.Top, body)
}

// Selected returns the selected menu item, or nil if none selected.
func (m MenuModel) Selected() *MenuItem {
	return m.selected
}

// IsQuitting returns true if user requested to quit.
func (m MenuModel) IsQuitting() bool {
	return m.quitting
}

// WantsEpisodes returns true if user asked for the episode history.
func (m MenuModel) WantsEpisodes() bool {
	return m.openEpisodes
}

// Config returns the current runtime config (may have been updated by resize).
func (m MenuModel) Config() core.RuntimeConfig {
	return m.config
}
