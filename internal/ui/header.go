package ui

import (
	"net/url"

	"github.com/charmbracelet/lipgloss"
)

const tagline = "Know what you eat, powered by AI"

// renderHeader renders the top bar: logo, tagline and current activity.
func (m Model) renderHeader() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	sep := lipgloss.NewStyle().Background(bg).Render("  ")

	left := styles.Logo.Background(bg).Render("SugarScan")
	if m.width >= LayoutCompactWidth {
		left += sep + styles.MutedText.Background(bg).Render(tagline)
	}

	var status string
	switch {
	case m.page.Loading:
		status = styles.WarningText.Background(bg).Render("● Analyzing")
	case m.page.ScannerOpen:
		status = styles.InfoText.Background(bg).Render("◉ Camera")
	default:
		status = styles.SuccessText.Background(bg).Render("● Ready")
	}
	right := status
	if host := endpointHost(m.endpoint); host != "" && m.width >= LayoutCompactWidth {
		right = styles.FaintText.Background(bg).Render(host) + sep + status
	}

	gap := m.width - lipgloss.Width(left) - lipgloss.Width(right) - 2
	if gap < 1 {
		gap = 1
	}
	filler := lipgloss.NewStyle().Background(bg).Width(gap).Render("")
	return styles.Header.Width(m.width).Render(left + filler + right)
}

// renderFooter renders the short key help.
func (m Model) renderFooter() string {
	styles := m.theme.Styles()
	bg := lipgloss.Color(m.theme.Surface)
	keyStyle := styles.AccentText.Background(bg)
	descStyle := styles.MutedText.Background(bg)
	sep := lipgloss.NewStyle().Background(bg).Render("   ")
	space := lipgloss.NewStyle().Background(bg).Render(" ")

	var content string
	for i, binding := range m.keys.ShortHelp() {
		if i > 0 {
			content += sep
		}
		help := binding.Help()
		content += keyStyle.Render(help.Key) + space + descStyle.Render(help.Desc)
	}
	return styles.Footer.Width(m.width).MaxHeight(1).Render(content)
}

func endpointHost(endpoint string) string {
	u, err := url.Parse(endpoint)
	if err != nil {
		return ""
	}
	return u.Host
}
