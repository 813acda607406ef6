// Package report turns an analysis result into a display model. It has no
// terminal or styling concerns; the ui package decides how each section looks.
package report

import (
	"strings"

	"github.com/five82/sugarscan/internal/sugarscan"
)

// Severity is the visual treatment chosen for a sugar level.
type Severity int

const (
	SeverityNeutral Severity = iota
	SeverityPositive
	SeverityCaution
	SeverityWarning
)

func (s Severity) String() string {
	switch s {
	case SeverityPositive:
		return "positive"
	case SeverityCaution:
		return "caution"
	case SeverityWarning:
		return "warning"
	default:
		return "neutral"
	}
}

// SeverityFor maps a sugar level string to its severity, ignoring case and
// surrounding whitespace.
func SeverityFor(level string) Severity {
	switch strings.ToLower(strings.TrimSpace(level)) {
	case "low":
		return SeverityPositive
	case "moderate":
		return SeverityCaution
	case "high":
		return SeverityWarning
	default:
		return SeverityNeutral
	}
}

// Report is the display model for one result. When Error is set every other
// section is nil or empty.
type Report struct {
	Error        *ErrorSection
	Product      *ProductSection
	Sugar        *SugarSection
	AIText       string
	Alternatives []string
}

// ErrorSection replaces the whole report for failed scans.
type ErrorSection struct {
	Title   string
	Message string
	Remote  bool
}

// ProductSection holds identity and serving facts. Empty strings mean the
// webhook did not send the field.
type ProductSection struct {
	Name        string
	Brand       string
	ServingSize string
	Calories    string
	ImageURL    string
}

// SugarSection is the severity-coded sugar summary.
type SugarSection struct {
	Heading    string
	Level      string
	Severity   Severity
	PerServing string
	Context    string
}

const (
	remoteErrorTitle    = "Product Not Found"
	transportErrorTitle = "Analysis Failed"
	unknownProductName  = "Unknown product"
)

// Build maps a result to its display model.
func Build(res sugarscan.Result) Report {
	if res.Err != nil {
		section := &ErrorSection{Message: res.Err.Message}
		if res.Err.Kind == sugarscan.ErrorRemote {
			section.Title = remoteErrorTitle
			section.Remote = true
		} else {
			section.Title = transportErrorTitle
		}
		return Report{Error: section}
	}

	name := strings.TrimSpace(res.ProductName)
	if name == "" {
		name = unknownProductName
	}
	rep := Report{
		Product: &ProductSection{
			Name:        name,
			Brand:       strings.TrimSpace(res.Brand),
			ServingSize: strings.TrimSpace(res.ServingSize),
			Calories:    strings.TrimSpace(res.Calories),
			ImageURL:    strings.TrimSpace(res.Image),
		},
		Sugar: buildSugar(res),
	}
	if text := strings.TrimSpace(res.AIRecommendation); text != "" {
		rep.AIText = text
	}
	if len(res.Alternatives) > 0 {
		rep.Alternatives = append([]string(nil), res.Alternatives...)
	}
	return rep
}

func buildSugar(res sugarscan.Result) *SugarSection {
	level := strings.TrimSpace(res.SugarLevel)
	heading := "Sugar Content"
	if level != "" {
		heading = titleWord(level) + " Sugar Content"
	}
	return &SugarSection{
		Heading:    heading,
		Level:      level,
		Severity:   SeverityFor(level),
		PerServing: strings.TrimSpace(res.SugarsPerServing),
		Context:    strings.TrimSpace(res.SugarContext),
	}
}

func titleWord(value string) string {
	runes := []rune(strings.ToLower(value))
	if len(runes) == 0 {
		return ""
	}
	return strings.ToUpper(string(runes[:1])) + string(runes[1:])
}
