package tui

import (
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/vovakirdan/collector/internal/core"
	"github.com/vovakirdan/collector/internal/registry"
	"github.com/vovakirdan/collector/internal/storage"
)

type sessionView int

const (
	viewMenu sessionView = iota
	viewGame
	viewEpisodes
)

// SessionModel runs the full flow: menu, game, episode board and back.
// SSH sessions and "play" without a preset both use it.
type SessionModel struct {
	store    *storage.Store
	pal      palette
	config   core.RuntimeConfig
	view     sessionView
	menu     MenuModel
	game     Model
	board    ScoreboardModel
	quitting bool
}

// NewSessionModel creates a session that starts at the menu. r may be nil
// for the local terminal.
func NewSessionModel(store *storage.Store, cfg core.RuntimeConfig, r *lipgloss.Renderer) SessionModel {
	m := SessionModel{
		store:  store,
		pal:    newPalette(r),
		config: cfg,
	}
	m.menu = m.newMenu()
	return m
}

func (m SessionModel) newMenu() MenuModel {
	menu := NewMenuModel(m.store, m.config)
	menu.pal = m.pal
	return menu
}

// Init initializes the session.
func (m SessionModel) Init() tea.Cmd {
	return m.menu.Init()
}

// Update routes messages to the active view.
func (m SessionModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	if wsm, ok := msg.(tea.WindowSizeMsg); ok {
		m.config.ScreenW = wsm.Width
		m.config.ScreenH = wsm.Height
	}

	switch m.view {
	case viewGame:
		return m.updateGame(msg)
	case viewEpisodes:
		return m.updateEpisodes(msg)
	default:
		return m.updateMenu(msg)
	}
}

func (m SessionModel) updateMenu(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.menu.Update(msg)
	if mm, ok := next.(MenuModel); ok {
		m.menu = mm
	}

	switch {
	case m.menu.IsQuitting():
		m.quitting = true
		return m, tea.Quit

	case m.menu.WantsEpisodes():
		m.board = NewScoreboardModel(m.store, m.config.ScreenW, m.config.ScreenH)
		m.board.embedded = true
		m.board.pal = m.pal
		m.view = viewEpisodes
		return m, m.board.Init()

	case m.menu.Selected() != nil:
		game, err := registry.Create(m.menu.Selected().GameID)
		if err != nil {
			m.menu.selected = nil
			return m, nil
		}
		cfg := m.config
		cfg.Seed = time.Now().UnixNano()
		m.game = NewModel(game, m.store, cfg)
		m.game.embedded = true
		m.game.pal = m.pal
		m.view = viewGame
		return m, m.game.Init()
	}
	return m, cmd
}

func (m SessionModel) updateGame(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.game.Update(msg)
	if gm, ok := next.(Model); ok {
		m.game = gm
	}

	if m.game.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.game.BackToMenu() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) updateEpisodes(msg tea.Msg) (tea.Model, tea.Cmd) {
	next, cmd := m.board.Update(msg)
	if bm, ok := next.(ScoreboardModel); ok {
		m.board = bm
	}

	if m.board.IsQuitting() {
		m.quitting = true
		return m, tea.Quit
	}
	if m.board.IsGoingBack() {
		return m.toMenu()
	}
	return m, cmd
}

func (m SessionModel) toMenu() (tea.Model, tea.Cmd) {
	m.view = viewMenu
	m.menu = m.newMenu()
	return m, m.menu.Init()
}

// View renders the active view.
func (m SessionModel) View() string {
	if m.quitting {
		return ""
	}
	switch m.view {
	case viewGame:
		return m.game.View()
	case viewEpisodes:
		return m.board.View()
	default:
		return m.menu.View()
	}
}

// RunSession runs the menu flow in the local terminal.
func RunSession(store *storage.Store, cfg core.RuntimeConfig) error {
	p := tea.NewProgram(NewSessionModel(store, cfg, nil), tea.WithAltScreen())
	_, err := p.Run()
	return err
}
