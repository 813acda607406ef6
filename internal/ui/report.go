package ui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"

	"github.com/five82/sugarscan/internal/report"
)

const poweredBy = "Powered by OpenFoodFacts, USDA FoodData Central, and AI"

var infoCards = []struct {
	title string
	body  string
}{
	{"Instant Analysis", "Get detailed sugar content breakdown in seconds"},
	{"AI Powered", "Smart recommendations based on your scan"},
	{"Better Choices", "Discover healthier alternatives instantly"},
}

// RenderReport renders rep as a column of bordered cards no wider than
// width. Only sections present in the report are drawn.
func RenderReport(theme Theme, rep report.Report, width int) string {
	styles := theme.Styles()
	width = clampWidth(width)

	if rep.Error != nil {
		return renderErrorCard(styles, *rep.Error, width)
	}

	var cards []string
	if rep.Product != nil {
		cards = append(cards, renderProductCard(styles, *rep.Product, width))
	}
	if rep.Sugar != nil {
		cards = append(cards, renderSugarCard(styles, *rep.Sugar, width))
	}
	if rep.AIText != "" {
		cards = append(cards, renderAICard(theme, styles, rep.AIText, width))
	}
	if len(rep.Alternatives) > 0 {
		cards = append(cards, renderAlternativesCard(styles, rep.Alternatives, width))
	}
	return lipgloss.JoinVertical(lipgloss.Left, cards...)
}

func renderErrorCard(styles Styles, section report.ErrorSection, width int) string {
	var b strings.Builder
	b.WriteString(styles.DangerText.Render("✗ " + section.Title))
	if section.Message != "" {
		b.WriteString("\n")
		b.WriteString(styles.Text.Width(cardInnerWidth(width)).Render(section.Message))
	}
	return styles.SeverityCard(report.SeverityWarning).Width(width - 2).Render(b.String())
}

func renderProductCard(styles Styles, p report.ProductSection, width int) string {
	inner := cardInnerWidth(width)
	lines := []string{styles.Text.Bold(true).Width(inner).Render(p.Name)}
	if p.Brand != "" {
		lines = append(lines, styles.MutedText.Width(inner).Render(p.Brand))
	}

	var chips []string
	if p.ServingSize != "" {
		chips = append(chips, styles.InfoText.Render(p.ServingSize))
	}
	if p.Calories != "" {
		chips = append(chips, styles.AccentText.Render(calorieLabel(p.Calories)))
	}
	if len(chips) > 0 {
		lines = append(lines, strings.Join(chips, styles.FaintText.Render("  ·  ")))
	}
	if p.ImageURL != "" {
		lines = append(lines, styles.FaintText.Render("Image ")+styles.MutedText.Render(truncateMiddle(p.ImageURL, inner-6)))
	}
	return styles.Card.Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderSugarCard(styles Styles, s report.SugarSection, width int) string {
	inner := cardInnerWidth(width)
	heading := styles.SeverityText(s.Severity).Render(severityIcon(s.Severity) + " " + s.Heading)
	if s.Level != "" {
		heading += " " + styles.SeverityBadge(s.Severity).Render(strings.ToUpper(s.Level))
	}
	lines := []string{heading}
	if s.PerServing != "" {
		lines = append(lines,
			styles.SeverityText(s.Severity).Render(s.PerServing)+styles.FaintText.Render(" per serving"))
	}
	if s.Context != "" {
		lines = append(lines, styles.Text.Width(inner).Render(s.Context))
	}
	return styles.SeverityCard(s.Severity).Width(width - 2).Render(strings.Join(lines, "\n"))
}

func renderAICard(theme Theme, styles Styles, text string, width int) string {
	title := styles.AccentText.Bold(true).Render("✦ AI Health Analysis")
	body := styles.Text.Width(cardInnerWidth(width)).Render(text)
	return styles.Card.
		BorderForeground(lipgloss.Color(theme.Accent)).
		Width(width - 2).
		Render(title + "\n" + body)
}

func renderAlternativesCard(styles Styles, alternatives []string, width int) string {
	inner := cardInnerWidth(width)
	lines := []string{styles.SuccessText.Render("✓ Healthier Alternatives")}
	bullet := styles.SuccessText.Render("•") + " "
	for _, alt := range alternatives {
		// Hanging indent so wrapped lines align after the bullet.
		body := styles.Text.Width(inner - 2).Render(alt)
		body = strings.ReplaceAll(body, "\n", "\n  ")
		lines = append(lines, bullet+body)
	}
	return styles.Card.Width(width - 2).Render(strings.Join(lines, "\n"))
}

// renderEmptyState shows the feature cards before the first scan.
func renderEmptyState(styles Styles, width int) string {
	width = clampWidth(width)
	cols := len(infoCards)
	if width < LayoutCompactWidth {
		cols = 1
	}
	cardWidth := width/cols - 2
	cards := make([]string, 0, len(infoCards))
	for _, c := range infoCards {
		body := styles.Text.Bold(true).Render(c.title) + "\n" +
			styles.MutedText.Width(cardWidth-2).Render(c.body)
		cards = append(cards, styles.Card.Width(cardWidth).Render(body))
	}
	if cols == 1 {
		return lipgloss.JoinVertical(lipgloss.Left, cards...)
	}
	return lipgloss.JoinHorizontal(lipgloss.Top, cards...)
}

func severityIcon(sev report.Severity) string {
	switch sev {
	case report.SeverityPositive:
		return "✓"
	case report.SeverityCaution:
		return "!"
	case report.SeverityWarning:
		return "✗"
	default:
		return "?"
	}
}

func calorieLabel(calories string) string {
	if strings.Contains(strings.ToLower(calories), "cal") {
		return calories
	}
	return calories + " cal"
}

// cardInnerWidth is the text width inside a card: border and padding take
// two columns on each side.
func cardInnerWidth(width int) int {
	return maxInt(width-4, 1)
}

func clampWidth(width int) int {
	if width <= 0 || width > MaxContentWidth {
		return MaxContentWidth
	}
	return maxInt(width, MinContentWidth)
}
