package tui

import "github.com/charmbracelet/lipgloss"

var (
	styleTitle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	styleTab      = lipgloss.NewStyle().Foreground(lipgloss.Color("8")).Padding(0, 1)
	styleTabOn    = lipgloss.NewStyle().Foreground(lipgloss.Color("0")).Background(lipgloss.Color("14")).Bold(true).Padding(0, 1)
	styleCard     = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("12")).Padding(1, 4).Align(lipgloss.Center)
	styleFront    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("15"))
	styleHeading  = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("11"))
	styleLabel    = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
	styleSubtle   = lipgloss.NewStyle().Foreground(lipgloss.Color("8"))
	styleError    = lipgloss.NewStyle().Foreground(lipgloss.Color("9"))
	styleToggleOn = lipgloss.NewStyle().Foreground(lipgloss.Color("10"))
)
