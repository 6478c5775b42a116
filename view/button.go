package view

import (
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

var (
	buttonStyle = lipgloss.NewStyle().
			Padding(0, 1).
			MarginRight(1).
			Foreground(lipgloss.Color("#d1d4dc")).
			Background(lipgloss.Color("#2b2b43"))
	activeButtonStyle = buttonStyle.
				Foreground(lipgloss.Color("#131722")).
				Background(lipgloss.Color("#26a69a")).
				Bold(true)
	focusMarkStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("#d1d4dc"))
)

// ButtonProps are the inputs a ticker button renders from.
type ButtonProps struct {
	Code   string
	Name   string
	Active bool
}

// SelectMsg requests the selection of a ticker.
type SelectMsg struct {
	Code string
}

// TickerButton renders a selectable ticker. Rendering is memoized, rendering with props
// equal to the previous render returns the cached paint.
type TickerButton struct {
	props   ButtonProps
	painted string
	cached  bool
	renders int
}

// NewTickerButton initializes a ticker button.
func NewTickerButton(code string, name string) *TickerButton {
	return &TickerButton{props: ButtonProps{Code: code, Name: name}}
}

// Render paints the button.
func (b *TickerButton) Render(props ButtonProps) string {
	if b.cached && props == b.props {
		return b.painted
	}

	style := buttonStyle
	if props.Active {
		style = activeButtonStyle
	}

	b.props = props
	b.painted = style.Render(props.Name)
	b.cached = true
	b.renders++

	return b.painted
}

// Renders returns the number of times the button was actually painted.
func (b *TickerButton) Renders() int {
	return b.renders
}

// Press returns the command selecting the button's ticker.
func (b *TickerButton) Press() tea.Cmd {
	code := b.props.Code
	return func() tea.Msg {
		return SelectMsg{Code: code}
	}
}
