package ui

import (
	"github.com/charmbracelet/lipgloss"

	"github.com/gubarz/regionfold/internal/config"
)

// StyleManager encapsulates all viewer styles
type StyleManager struct {
	// Gutter styles
	LineNumber lipgloss.Style
	FoldOpen   lipgloss.Style
	FoldClosed lipgloss.Style

	// Text styles
	Text     lipgloss.Style
	Current  lipgloss.Style
	Cursor   lipgloss.Style
	Ellipsis lipgloss.Style

	// Chrome styles
	Title  lipgloss.Style
	Status lipgloss.Style
	Error  lipgloss.Style
}

// DefaultStyles returns a StyleManager with default styles
func DefaultStyles() *StyleManager {
	return &StyleManager{
		LineNumber: lipgloss.NewStyle().Foreground(lipgloss.Color("241")),
		FoldOpen:   lipgloss.NewStyle().Foreground(lipgloss.Color("6")),
		FoldClosed: lipgloss.NewStyle().Foreground(lipgloss.Color("6")).Bold(true),
		Text:       lipgloss.NewStyle(),
		Current:    lipgloss.NewStyle().Background(lipgloss.Color("236")),
		Cursor:     lipgloss.NewStyle().Foreground(lipgloss.Color("212")),
		Ellipsis:   lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Title:      lipgloss.NewStyle().Bold(true),
		Status:     lipgloss.NewStyle().Foreground(lipgloss.Color("240")),
		Error:      lipgloss.NewStyle().Foreground(lipgloss.Color("1")),
	}
}

// LoadFromConfig updates styles based on configuration
func (s *StyleManager) LoadFromConfig() {
	gutterColor := parseANSIColor(config.GetColorGutter())
	foldColor := parseANSIColor(config.GetColorFold())
	cursorColor := lipgloss.Color(config.GetColorCursor())
	dimColor := lipgloss.Color(config.GetColorDim())
	currentBg := lipgloss.Color(config.GetColorCurrent())

	s.LineNumber = lipgloss.NewStyle().Foreground(gutterColor)
	s.FoldOpen = lipgloss.NewStyle().Foreground(foldColor)
	s.FoldClosed = lipgloss.NewStyle().Foreground(foldColor).Bold(true)
	s.Current = lipgloss.NewStyle().Background(currentBg)
	s.Cursor = lipgloss.NewStyle().Foreground(cursorColor)
	s.Ellipsis = lipgloss.NewStyle().Foreground(dimColor)
	s.Status = lipgloss.NewStyle().Foreground(dimColor)
}

// parseANSIColor converts ANSI color codes to lipgloss colors
func parseANSIColor(code string) lipgloss.Color {
	ansiToLipgloss := map[string]string{
		"30": "0", "31": "1", "32": "2", "33": "3",
		"34": "4", "35": "5", "36": "6", "37": "7",
		"90": "8", "91": "9", "92": "10", "93": "11",
		"94": "12", "95": "13", "96": "14", "97": "15",
	}
	if mapped, ok := ansiToLipgloss[code]; ok {
		return lipgloss.Color(mapped)
	}
	return lipgloss.Color(code)
}

// Global style manager instance
var styles = DefaultStyles()

// RefreshStyles updates the global styles from config
func RefreshStyles() {
	styles.LoadFromConfig()
}
