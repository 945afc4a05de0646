// Package model provides Bubble Tea models for CLI commands.
package model

import (
	"context"
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/help"
	"github.com/charmbracelet/bubbles/key"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/bnema/lexgrid/internal/application/usecase"
	"github.com/bnema/lexgrid/internal/cli/styles"
	"github.com/bnema/lexgrid/internal/logging"
	"github.com/bnema/lexgrid/internal/ui/coordinator"
)

// chromeLines is the space below the grid for the status and help lines.
const chromeLines = 2

// InspectorModel renders a live layout and lets the user split, close, focus
// and resize panes with keyboard and mouse.
type InspectorModel struct {
	help help.Model
	keys inspectorKeyMap

	width    int
	height   int
	status   string
	err      error
	dragAxis usecase.ResizeAxis

	ctx   context.Context
	coord *coordinator.WorkspaceCoordinator
	theme *styles.Theme
}

type inspectorKeyMap struct {
	SplitRight key.Binding
	SplitDown  key.Binding
	Close      key.Binding
	NextTab    key.Binding
	PrevTab    key.Binding
	Focus      key.Binding
	Grow       key.Binding
	Shrink     key.Binding
	Taller     key.Binding
	Shorter    key.Binding
	Help       key.Binding
	Quit       key.Binding
}

// ShortHelp returns keybindings for the short help view.
func (k inspectorKeyMap) ShortHelp() []key.Binding {
	return []key.Binding{k.SplitRight, k.SplitDown, k.Close, k.NextTab, k.Grow, k.Shrink, k.Quit}
}

// FullHelp returns keybindings for the full help view.
func (k inspectorKeyMap) FullHelp() [][]key.Binding {
	return [][]key.Binding{
		{k.SplitRight, k.SplitDown, k.Close},
		{k.NextTab, k.PrevTab, k.Focus},
		{k.Grow, k.Shrink, k.Taller, k.Shorter},
		{k.Help, k.Quit},
	}
}

func defaultInspectorKeyMap() inspectorKeyMap {
	return inspectorKeyMap{
		SplitRight: key.NewBinding(key.WithKeys("v"), key.WithHelp("v", "split right")),
		SplitDown:  key.NewBinding(key.WithKeys("s"), key.WithHelp("s", "split down")),
		Close:      key.NewBinding(key.WithKeys("x"), key.WithHelp("x", "close pane")),
		NextTab:    key.NewBinding(key.WithKeys("tab"), key.WithHelp("tab", "next tab")),
		PrevTab:    key.NewBinding(key.WithKeys("shift+tab"), key.WithHelp("shift+tab", "prev tab")),
		Focus: key.NewBinding(
			key.WithKeys("1", "2", "3", "4", "5", "6", "7", "8", "9"),
			key.WithHelp("1-9", "focus pane"),
		),
		Grow:    key.NewBinding(key.WithKeys("+", "="), key.WithHelp("+", "wider")),
		Shrink:  key.NewBinding(key.WithKeys("-"), key.WithHelp("-", "narrower")),
		Taller:  key.NewBinding(key.WithKeys("}"), key.WithHelp("}", "taller")),
		Shorter: key.NewBinding(key.WithKeys("{"), key.WithHelp("{", "shorter")),
		Help:    key.NewBinding(key.WithKeys("?"), key.WithHelp("?", "help")),
		Quit:    key.NewBinding(key.WithKeys("q", "esc", "ctrl+c"), key.WithHelp("q", "quit")),
	}
}

// NewInspectorModel creates an inspector over coord.
func NewInspectorModel(ctx context.Context, theme *styles.Theme, coord *coordinator.WorkspaceCoordinator) InspectorModel {
	return InspectorModel{
		help:   help.New(),
		keys:   defaultInspectorKeyMap(),
		width:  80,
		height: 24,
		ctx:    ctx,
		coord:  coord,
		theme:  theme,
	}
}

// Init implements tea.Model.
func (m InspectorModel) Init() tea.Cmd {
	return nil
}

// Update implements tea.Model.
func (m InspectorModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.help.Width = msg.Width
		return m, nil

	case tea.BlurMsg:
		if m.coord.Resizing() {
			m.coord.FocusLost(m.ctx)
			m.status = "resize cancelled"
		}
		return m, nil

	case tea.MouseMsg:
		return m.handleMouse(msg), nil

	case tea.KeyMsg:
		return m.handleKey(msg)
	}
	return m, nil
}

func (m InspectorModel) gridSize() (int, int) {
	return m.width, max(m.height-chromeLines, 1)
}

func (m InspectorModel) geometry() styles.Geometry {
	w, h := m.gridSize()
	return styles.ComputeGeometry(m.coord.CurrentLayout(), w, h)
}

func (m InspectorModel) handleMouse(msg tea.MouseMsg) InspectorModel {
	log := logging.FromContext(m.ctx)

	switch msg.Action {
	case tea.MouseActionPress:
		if msg.Button != tea.MouseButtonLeft {
			return m
		}
		g := m.geometry()
		if band, ok := g.RowDividerAt(msg.Y); ok {
			m.setErr(m.coord.BeginRowResize(m.ctx, band.RowID, float64(msg.Y), float64(g.Height)))
			m.dragAxis = usecase.AxisRows
			return m
		}
		if rect, ok := g.PaneDividerAt(msg.X, msg.Y); ok {
			m.setErr(m.coord.BeginPaneResize(m.ctx, rect.RowID, rect.PaneID, float64(msg.X), float64(g.Width)))
			m.dragAxis = usecase.AxisPanes
			return m
		}
		if rect, ok := g.PaneAt(msg.X, msg.Y); ok {
			m.coord.FocusPane(m.ctx, rect.PaneID)
		}

	case tea.MouseActionMotion:
		if !m.coord.Resizing() {
			return m
		}
		pointer := float64(msg.X)
		if m.dragAxis == usecase.AxisRows {
			pointer = float64(msg.Y)
		}
		if _, err := m.coord.ResizeMove(m.ctx, pointer); err != nil {
			log.Debug().Err(err).Msg("resize move rejected")
			m.setErr(err)
		}

	case tea.MouseActionRelease:
		if m.coord.Resizing() {
			m.coord.PointerUp(m.ctx)
		}
	}
	return m
}

func (m InspectorModel) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	active := m.coord.CurrentLayout().ActivePaneID
	m.err = nil

	switch {
	case key.Matches(msg, m.keys.Quit):
		return m, tea.Quit
	case key.Matches(msg, m.keys.Help):
		m.help.ShowAll = !m.help.ShowAll
	case key.Matches(msg, m.keys.SplitRight):
		m.status = fmt.Sprintf("split %s -> %s", active, m.coord.SplitVertical(m.ctx, active))
	case key.Matches(msg, m.keys.SplitDown):
		m.status = fmt.Sprintf("split %s -> %s", active, m.coord.SplitHorizontal(m.ctx, active))
	case key.Matches(msg, m.keys.Close):
		m.coord.ClosePane(m.ctx, active)
		m.status = fmt.Sprintf("closed %s", active)
	case key.Matches(msg, m.keys.NextTab):
		m.coord.NextTab(m.ctx)
	case key.Matches(msg, m.keys.PrevTab):
		m.coord.PrevTab(m.ctx)
	case key.Matches(msg, m.keys.Focus):
		n := int(msg.String()[0] - '1')
		m.coord.FocusPaneN(m.ctx, n)
	case key.Matches(msg, m.keys.Grow):
		m.nudge(usecase.AxisPanes, 1)
	case key.Matches(msg, m.keys.Shrink):
		m.nudge(usecase.AxisPanes, -1)
	case key.Matches(msg, m.keys.Taller):
		m.nudge(usecase.AxisRows, 1)
	case key.Matches(msg, m.keys.Shorter):
		m.nudge(usecase.AxisRows, -1)
	}
	return m, nil
}

func (m *InspectorModel) nudge(axis usecase.ResizeAxis, sign int) {
	if _, err := m.coord.Nudge(m.ctx, axis, sign); err != nil {
		m.setErr(err)
	}
}

func (m *InspectorModel) setErr(err error) {
	m.err = err
	if err != nil {
		m.status = ""
	}
}

// View implements tea.Model.
func (m InspectorModel) View() string {
	w, h := m.gridSize()
	layout := m.coord.CurrentLayout()

	var status string
	switch {
	case m.err != nil:
		status = m.theme.ErrorStyle.Render(m.err.Error())
	case m.coord.Resizing():
		status = m.theme.StatusBar.Render("resizing " + m.dragAxis.String())
	default:
		status = m.theme.StatusBar.Render(strings.TrimSpace(
			fmt.Sprintf("%s  active %s  %s", m.coord.WindowStateID(), layout.ActivePaneID, m.status)))
	}

	return lipgloss.JoinVertical(lipgloss.Left,
		styles.RenderLayout(m.theme, layout, w, h),
		status,
		m.help.View(m.keys),
	)
}
