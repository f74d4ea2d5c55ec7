// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package report assembles the annual activity report: it runs the
// query fan-out, derives metrics, builds the presentation fragments,
// and renders the self-contained HTML artifact.
package report

import (
	"bytes"
	"fmt"
	"html/template"
	"strconv"
	"strings"
	"time"
)

// Engine renders HTML through html/template with the report's helper
// functions. All dynamic values flow through contextual escaping;
// fragments are only ever built from escaped parts.
type Engine struct {
	funcMap template.FuncMap
}

// NewEngine creates a template engine with the report helper functions.
func NewEngine() *Engine {
	return &Engine{funcMap: buildFuncMap()}
}

// Render parses and executes a template against data.
func (e *Engine) Render(name, text string, data any) (string, error) {
	tmpl, err := template.New(name).Funcs(e.funcMap).Parse(text)
	if err != nil {
		return "", fmt.Errorf("failed to parse template %s: %w", name, err)
	}
	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, data); err != nil {
		return "", fmt.Errorf("failed to execute template %s: %w", name, err)
	}
	return buf.String(), nil
}

// RenderHTML renders a fragment template and returns it as trusted HTML.
// The fragment's own dynamic values are escaped during execution, so the
// result is safe to splice into the page template.
func (e *Engine) RenderHTML(name, text string, data any) (template.HTML, error) {
	s, err := e.Render(name, text, data)
	if err != nil {
		return "", err
	}
	return template.HTML(s), nil //nolint:gosec // output of an escaping template execution
}

// buildFuncMap returns the helper functions available to report templates.
func buildFuncMap() template.FuncMap {
	return template.FuncMap{
		"formatNumber":  formatNumber,
		"formatBytes":   formatBytes,
		"formatPercent": formatPercent,
		"formatDate":    formatDate,
		"truncate":      truncate,
		"lower":         strings.ToLower,
		"add":           func(a, b int) int { return a + b },
	}
}

// formatNumber renders an integer with comma grouping.
func formatNumber(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := strings.HasPrefix(s, "-")
	if neg {
		s = s[1:]
	}
	if len(s) > 3 {
		var parts []string
		for len(s) > 3 {
			parts = append([]string{s[len(s)-3:]}, parts...)
			s = s[:len(s)-3]
		}
		parts = append([]string{s}, parts...)
		s = strings.Join(parts, ",")
	}
	if neg {
		return "-" + s
	}
	return s
}

// formatBytes renders a byte count in human units.
func formatBytes(b int64) string {
	switch {
	case b >= 1<<40:
		return fmt.Sprintf("%.1f TB", float64(b)/float64(1<<40))
	case b >= 1<<30:
		return fmt.Sprintf("%.1f GB", float64(b)/float64(1<<30))
	case b >= 1<<20:
		return fmt.Sprintf("%.1f MB", float64(b)/float64(1<<20))
	case b >= 1<<10:
		return fmt.Sprintf("%.1f KB", float64(b)/float64(1<<10))
	default:
		return fmt.Sprintf("%d B", b)
	}
}

// formatPercent renders a percentage with one decimal place.
func formatPercent(v float64) string {
	return fmt.Sprintf("%.1f%%", v)
}

// formatDate renders a time with the given layout, empty for zero times.
func formatDate(t time.Time, layout string) string {
	if t.IsZero() {
		return ""
	}
	return t.Format(layout)
}

// truncate shortens s to max runes, appending an ellipsis when cut.
func truncate(s string, max int) string {
	runes := []rune(s)
	if len(runes) <= max {
		return s
	}
	if max <= 3 {
		return string(runes[:max])
	}
	return string(runes[:max-3]) + "..."
}
