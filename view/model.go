package view

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/dnldd/krxchart/shared"
	"github.com/rs/zerolog"
)

const (
	// defaultWidth and defaultHeight size the view until the terminal size is known.
	defaultWidth  = 80
	defaultHeight = 24
	// reservedRows are the rows taken by the title, buttons and help line.
	reservedRows = 4
)

var (
	titleStyle = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#d1d4dc"))
	helpStyle  = lipgloss.NewStyle().Foreground(lipgloss.Color("#2b2b43"))
)

// ChartMsg delivers the outcome of a chart fetch.
type ChartMsg struct {
	// Seq is the sequence number of the fetch.
	Seq    uint64
	Code   string
	Points []shared.ChartPoint
	Err    error
}

// ModelConfig represents the configuration of the chart view.
type ModelConfig struct {
	// Fetcher fetches chart data.
	Fetcher ChartFetcher
	// Catalog is the set of tickers offered for charting.
	Catalog *shared.Catalog
	// Logger represents the application logger.
	Logger *zerolog.Logger
}

// Validate asserts the config sane inputs.
func (cfg *ModelConfig) Validate() error {
	var errs error

	if cfg.Fetcher == nil {
		errs = errors.Join(errs, fmt.Errorf("chart fetcher cannot be nil"))
	}
	if cfg.Catalog == nil {
		errs = errors.Join(errs, fmt.Errorf("ticker catalog cannot be nil"))
	}
	if cfg.Logger == nil {
		errs = errors.Join(errs, fmt.Errorf("logger cannot be nil"))
	}

	return errs
}

// Model is the terminal chart view.
type Model struct {
	cfg     *ModelConfig
	buttons []*TickerButton

	selected string
	loading  bool
	seq      uint64
	points   []shared.ChartPoint
	cursor   int
	width    int
	height   int
}

// NewModel initializes the chart view.
func NewModel(cfg *ModelConfig) (Model, error) {
	err := cfg.Validate()
	if err != nil {
		return Model{}, fmt.Errorf("validating model config: %w", err)
	}

	buttons := make([]*TickerButton, len(cfg.Catalog.Tickers))
	cursor := 0
	for idx, ticker := range cfg.Catalog.Tickers {
		buttons[idx] = NewTickerButton(ticker.Code, ticker.Name)
		if ticker.Code == cfg.Catalog.Default {
			cursor = idx
		}
	}

	return Model{
		cfg:      cfg,
		buttons:  buttons,
		selected: cfg.Catalog.Default,
		cursor:   cursor,
	}, nil
}

// Selected returns the selected ticker code.
func (m Model) Selected() string {
	return m.selected
}

// Loading returns whether chart data for the selected ticker is being fetched.
func (m Model) Loading() bool {
	return m.loading
}

// Points returns the charted points.
func (m Model) Points() []shared.ChartPoint {
	return m.points
}

// Init selects the default ticker.
func (m Model) Init() tea.Cmd {
	code := m.selected
	return func() tea.Msg {
		return SelectMsg{Code: code}
	}
}

// fetch returns the command fetching the chart of the provided ticker.
func (m Model) fetch(seq uint64, code string) tea.Cmd {
	fetcher := m.cfg.Fetcher
	return func() tea.Msg {
		points, err := fetcher.FetchChart(context.Background(), code)
		return ChartMsg{Seq: seq, Code: code, Points: points, Err: err}
	}
}

// Update handles view events.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		return m, nil

	case tea.KeyMsg:
		return m.handleKey(msg)

	case SelectMsg:
		// Reselecting the current ticker fetches it again.
		m.selected = msg.Code
		m.loading = true
		m.seq++
		return m, m.fetch(m.seq, msg.Code)

	case ChartMsg:
		if msg.Seq != m.seq {
			m.cfg.Logger.Debug().Str("code", msg.Code).Uint64("seq", msg.Seq).
				Msg("discarding stale chart data")
			return m, nil
		}

		m.loading = false
		if msg.Err != nil {
			m.cfg.Logger.Error().Err(msg.Err).Str("code", msg.Code).Msg("fetching chart data")
			return m, nil
		}

		m.points = msg.Points
		return m, nil
	}

	return m, nil
}

// handleKey handles key presses.
func (m Model) handleKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()
	switch key {
	case "q", "ctrl+c":
		return m, tea.Quit
	case "left", "h":
		if m.cursor > 0 {
			m.cursor--
		}
	case "right", "l":
		if m.cursor < len(m.buttons)-1 {
			m.cursor++
		}
	case "enter", " ":
		if len(m.buttons) > 0 {
			return m, m.buttons[m.cursor].Press()
		}
	default:
		if len(key) == 1 && key[0] >= '1' && key[0] <= '9' {
			idx := int(key[0] - '1')
			if idx < len(m.buttons) {
				m.cursor = idx
				return m, m.buttons[idx].Press()
			}
		}
	}

	return m, nil
}

// title returns the chart title.
func (m Model) title() string {
	if m.loading {
		return shared.LoadingText
	}

	return m.cfg.Catalog.Title(m.selected)
}

// View renders the chart view.
func (m Model) View() string {
	width, height := m.width, m.height
	if width == 0 || height == 0 {
		width, height = defaultWidth, defaultHeight
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render(m.title()))
	b.WriteByte('\n')

	for idx, ticker := range m.cfg.Catalog.Tickers {
		mark := " "
		if idx == m.cursor {
			mark = focusMarkStyle.Render("›")
		}
		b.WriteString(mark)
		b.WriteString(m.buttons[idx].Render(ButtonProps{
			Code:   ticker.Code,
			Name:   ticker.Name,
			Active: ticker.Code == m.selected,
		}))
	}
	b.WriteByte('\n')

	b.WriteString(renderChart(m.points, width, height-reservedRows))
	b.WriteString(helpStyle.Render("[←/→] move  [enter] select  [1-9] ticker  [q] quit"))

	return b.String()
}
