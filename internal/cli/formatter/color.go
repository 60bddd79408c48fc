package formatter

import (
	"fmt"
	"strings"

	"github.com/alexanderramin/taskhelper/internal/answer"
	"github.com/charmbracelet/lipgloss"
)

// Gruvbox-inspired color palette.
var (
	ColorGreen  = lipgloss.Color("#8ec07c")
	ColorYellow = lipgloss.Color("#fabd2f")
	ColorRed    = lipgloss.Color("#fb4934")
	ColorBlue   = lipgloss.Color("#83a598")
	ColorPurple = lipgloss.Color("#d3869b")
	ColorDim    = lipgloss.Color("#928374")
	ColorFg     = lipgloss.Color("#ebdbb2")
	ColorHeader = lipgloss.Color("#fe8019")
)

// Predefined lipgloss styles.
var (
	StyleGreen  = lipgloss.NewStyle().Foreground(ColorGreen)
	StyleYellow = lipgloss.NewStyle().Foreground(ColorYellow)
	StyleRed    = lipgloss.NewStyle().Foreground(ColorRed)
	StyleBlue   = lipgloss.NewStyle().Foreground(ColorBlue)
	StylePurple = lipgloss.NewStyle().Foreground(ColorPurple)
	StyleDim    = lipgloss.NewStyle().Foreground(ColorDim)
	StyleFg     = lipgloss.NewStyle().Foreground(ColorFg)
	StyleHeader = lipgloss.NewStyle().Foreground(ColorHeader).Bold(true)
	StyleBold   = lipgloss.NewStyle().Foreground(ColorFg).Bold(true)
)

// SourceStyle returns the style for an answer source: green for model
// answers, yellow for canned rules, red for the static fallback.
func SourceStyle(source answer.Source) lipgloss.Style {
	switch source {
	case answer.SourcePrimaryModel, answer.SourceBackupModel:
		return StyleGreen
	case answer.SourceKeywordRule:
		return StyleYellow
	case answer.SourceStaticFallback:
		return StyleRed
	default:
		return StyleDim
	}
}

// SourceIndicator returns a colored indicator such as "● PRIMARY MODEL".
func SourceIndicator(source answer.Source) string {
	label := strings.ToUpper(strings.ReplaceAll(string(source), "_", " "))
	if label == "" {
		label = "UNKNOWN"
	}
	return SourceStyle(source).Render("● " + label)
}

// Header renders a section header with the orange header style and an underline.
func Header(text string) string {
	upper := strings.ToUpper(text)
	line := strings.Repeat("─", len([]rune(upper)))
	return fmt.Sprintf("%s\n%s", StyleHeader.Render(upper), StyleDim.Render(line))
}

// Dim renders text in the muted/dim color.
func Dim(text string) string {
	return StyleDim.Render(text)
}

// Bold renders text in bold with the foreground color.
func Bold(text string) string {
	return StyleBold.Render(text)
}
