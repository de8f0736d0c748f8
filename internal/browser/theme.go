package browser

import "github.com/charmbracelet/lipgloss"

// Theme defines the colors used by the browser.
type Theme struct {
	Primary   lipgloss.Color // title, cursor
	Secondary lipgloss.Color // selected row text
	Live      lipgloss.Color // sessions that are running now
	Stale     lipgloss.Color // scripts for sessions that are gone
	Error     lipgloss.Color
	Text      lipgloss.Color
	TextMuted lipgloss.Color // hints, metadata
	Selection lipgloss.Color // selected row background
	Border    lipgloss.Color // preview frame
}

// DarkTheme returns the default dark theme.
func DarkTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#fab283"),
		Secondary: lipgloss.Color("#5c9cf5"),
		Live:      lipgloss.Color("#7fd88f"),
		Stale:     lipgloss.Color("#f5a742"),
		Error:     lipgloss.Color("#e06c75"),
		Text:      lipgloss.Color("#eeeeee"),
		TextMuted: lipgloss.Color("#808080"),
		Selection: lipgloss.Color("#1e1e1e"),
		Border:    lipgloss.Color("#484848"),
	}
}

// LightTheme returns a theme for bright terminal backgrounds.
func LightTheme() Theme {
	return Theme{
		Primary:   lipgloss.Color("#b35c00"),
		Secondary: lipgloss.Color("#0550ae"),
		Live:      lipgloss.Color("#116329"),
		Stale:     lipgloss.Color("#bf8700"),
		Error:     lipgloss.Color("#cf222e"),
		Text:      lipgloss.Color("#1f2328"),
		TextMuted: lipgloss.Color("#656d76"),
		Selection: lipgloss.Color("#f6f8fa"),
		Border:    lipgloss.Color("#d0d7de"),
	}
}

// ThemeByName returns a theme by name. Defaults to dark.
func ThemeByName(name string) Theme {
	switch name {
	case "light":
		return LightTheme()
	default:
		return DarkTheme()
	}
}

type styles struct {
	title    lipgloss.Style
	selected lipgloss.Style
	live     lipgloss.Style
	stale    lipgloss.Style
	err      lipgloss.Style
	dim      lipgloss.Style
	text     lipgloss.Style
	preview  lipgloss.Style
}

func newStyles(t Theme) styles {
	return styles{
		title:    lipgloss.NewStyle().Bold(true).Foreground(t.Primary),
		selected: lipgloss.NewStyle().Bold(true).Foreground(t.Secondary).Background(t.Selection),
		live:     lipgloss.NewStyle().Foreground(t.Live),
		stale:    lipgloss.NewStyle().Foreground(t.Stale),
		err:      lipgloss.NewStyle().Foreground(t.Error),
		dim:      lipgloss.NewStyle().Foreground(t.TextMuted),
		text:     lipgloss.NewStyle().Foreground(t.Text),
		preview:  lipgloss.NewStyle().Border(lipgloss.NormalBorder(), false, false, false, true).BorderForeground(t.Border).PaddingLeft(1),
	}
}
