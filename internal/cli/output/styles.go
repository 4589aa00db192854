package output

import "github.com/charmbracelet/lipgloss"

// Styles holds the lipgloss styles used across command output.
// Severity colors follow the diagnostic vocabulary: error, warning,
// info, hint (hint rendered muted).
type Styles struct {
	Header1 lipgloss.Style
	Header2 lipgloss.Style
	Bold    lipgloss.Style
	Muted   lipgloss.Style
	Path    lipgloss.Style

	Success lipgloss.Style
	Warning lipgloss.Style
	Error   lipgloss.Style
	Info    lipgloss.Style

	// Status glyphs, pre-set so callers can String() them directly.
	StatusSuccess lipgloss.Style
	StatusFailed  lipgloss.Style
}

// newStyles builds the style set. Without color every style is a plain
// pass-through, so piped output carries no escape sequences.
func newStyles(colored bool) Styles {
	if !colored {
		plain := lipgloss.NewStyle()
		return Styles{
			Header1:       plain,
			Header2:       plain,
			Bold:          plain,
			Muted:         plain,
			Path:          plain,
			Success:       plain,
			Warning:       plain,
			Error:         plain,
			Info:          plain,
			StatusSuccess: plain.SetString("ok"),
			StatusFailed:  plain.SetString("FAIL"),
		}
	}
	return Styles{
		Header1:       lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("6")),
		Header2:       lipgloss.NewStyle().Bold(true),
		Bold:          lipgloss.NewStyle().Bold(true),
		Muted:         lipgloss.NewStyle().Foreground(lipgloss.Color("8")),
		Path:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		Success:       lipgloss.NewStyle().Foreground(lipgloss.Color("2")),
		Warning:       lipgloss.NewStyle().Foreground(lipgloss.Color("3")),
		Error:         lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
		Info:          lipgloss.NewStyle().Foreground(lipgloss.Color("4")),
		StatusSuccess: lipgloss.NewStyle().Foreground(lipgloss.Color("2")).SetString("ok"),
		StatusFailed:  lipgloss.NewStyle().Foreground(lipgloss.Color("1")).Bold(true).SetString("FAIL"),
	}
}
