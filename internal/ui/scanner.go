package ui

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/bubbles/spinner"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
)

// scannerModal is the camera overlay. It only draws; the session itself is
// owned by Model.
type scannerModal struct {
	scanning bool
	fps      int
	spinner  spinner.Model
}

func newScannerModal(fps int) scannerModal {
	return scannerModal{
		fps:     fps,
		spinner: spinner.New(spinner.WithSpinner(spinner.Points)),
	}
}

func (s scannerModal) Update(msg tea.Msg, keys keyMap) (Modal, tea.Cmd, bool) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		if key.Matches(msg, keys.Cancel) {
			return s, nil, true
		}
	case spinner.TickMsg:
		var cmd tea.Cmd
		s.spinner, cmd = s.spinner.Update(msg)
		return s, cmd, false
	}
	return s, nil, false
}

func (s scannerModal) View(theme Theme, width, height int) string {
	styles := theme.Styles()

	var b strings.Builder
	b.WriteString(styles.Text.Bold(true).Render("Scan Barcode"))
	b.WriteString("\n\n")
	if s.scanning {
		b.WriteString(s.spinner.View())
		b.WriteString(" ")
		b.WriteString(styles.Text.Render("Point the camera at a barcode"))
		b.WriteString("\n")
		if s.fps > 0 {
			b.WriteString(styles.FaintText.Render(fmt.Sprintf("Sampling %d frames per second", s.fps)))
			b.WriteString("\n")
		}
	} else {
		b.WriteString(s.spinner.View())
		b.WriteString(" ")
		b.WriteString(styles.MutedText.Render("Opening camera..."))
		b.WriteString("\n")
	}
	b.WriteString("\n")
	b.WriteString(styles.WarningText.Render("esc"))
	b.WriteString(styles.FaintText.Render(" to cancel"))

	modal := lipgloss.NewStyle().
		Border(lipgloss.RoundedBorder()).
		BorderForeground(lipgloss.Color(theme.BorderFocus)).
		Padding(1, 3).
		Width(44)

	return lipgloss.Place(
		width,
		height,
		lipgloss.Center,
		lipgloss.Center,
		modal.Render(b.String()),
		lipgloss.WithWhitespaceChars(" "),
		lipgloss.WithWhitespaceForeground(lipgloss.Color(theme.Background)),
	)
}
