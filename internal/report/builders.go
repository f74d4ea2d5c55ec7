// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"fmt"
	"html/template"
	"sort"
	"strconv"
	"strings"
	"time"

	"github.com/allaway/synapse-wrapped/internal/models"
)

// synapseProjectURL and synapseProfileURL are the public entity and
// profile link formats.
const (
	synapseProjectURL = "https://www.synapse.org/#!Synapse:syn%d"
	synapseProfileURL = "https://www.synapse.org/#!Profile:%d"
)

const topProjectsFragment = `{{if .}}<div class="project-list">
{{- range .}}
<div class="project-item" data-href="{{.Link}}">
	<div class="project-rank">{{.Rank}}</div>
	<div class="project-info">
		<div class="project-name">{{.Name}}</div>
		<div class="project-metric">{{formatNumber .FileCount}} files downloaded</div>
	</div>
</div>
{{- end}}
</div>{{else}}<p class="empty-note">No project data available</p>{{end}}`

type projectItemView struct {
	Rank      int
	Name      string
	Link      string
	FileCount int64
}

// TopProjectsHTML renders the ranked project list. Entries with neither
// a usable name nor an ID are skipped; they are usually deleted projects.
func (e *Engine) TopProjectsHTML(projects []models.ProjectStat, limit int) (template.HTML, error) {
	var items []projectItemView
	for _, p := range projects {
		if len(items) >= limit {
			break
		}
		name := strings.TrimSpace(p.Name)
		validName := !isMissingText(name)
		if !validName && p.ProjectID == 0 {
			continue
		}
		if !validName {
			name = "syn" + strconv.FormatInt(p.ProjectID, 10)
		}
		link := "#"
		if p.ProjectID != 0 {
			link = fmt.Sprintf(synapseProjectURL, p.ProjectID)
		}
		items = append(items, projectItemView{
			Rank:      len(items) + 1,
			Name:      name,
			Link:      link,
			FileCount: p.FileCount,
		})
	}
	return e.RenderHTML("top_projects", topProjectsFragment, items)
}

const topCollaboratorsFragment = `{{if .}}<div class="collaborator-list">
{{- range .}}
{{- if .ProfileURL}}
<a href="{{.ProfileURL}}" target="_blank" class="collaborator-item">
	<div class="collaborator-rank">{{.Rank}}</div>
	<div class="collaborator-info">
		<div class="collaborator-name">{{.Name}}</div>
		<div class="collaborator-metric">{{formatNumber .SharedFiles}} shared files</div>
	</div>
</a>
{{- else}}
<div class="collaborator-item no-link">
	<div class="collaborator-rank">{{.Rank}}</div>
	<div class="collaborator-info">
		<div class="collaborator-name">{{.Name}}</div>
		<div class="collaborator-metric">{{formatNumber .SharedFiles}} shared files</div>
	</div>
</div>
{{- end}}
{{- end}}
</div>{{else}}<p class="empty-note">No similar users found</p>{{end}}`

type collaboratorItemView struct {
	Rank        int
	Name        string
	ProfileURL  string
	SharedFiles int64
}

// TopCollaboratorsHTML renders the "users like you" list. Anonymous
// collaborators and entries without a user ID render without a profile
// link.
func (e *Engine) TopCollaboratorsHTML(collabs []models.Collaborator) (template.HTML, error) {
	var items []collaboratorItemView
	for i, c := range collabs {
		name := c.Name
		if name == "" {
			name = "User " + strconv.FormatInt(c.UserID, 10)
		}
		item := collaboratorItemView{
			Rank:        i + 1,
			Name:        name,
			SharedFiles: c.SharedFiles,
		}
		if !c.Anonymous && !strings.EqualFold(name, "anonymous") && c.UserID != 0 {
			item.ProfileURL = fmt.Sprintf(synapseProfileURL, c.UserID)
		}
		items = append(items, item)
	}
	return e.RenderHTML("top_collaborators", topCollaboratorsFragment, items)
}

// heatmapMonths are the short month labels for the activity calendar.
var heatmapMonths = [...]string{"Jan", "Feb", "Mar", "Apr", "May", "Jun", "Jul", "Aug", "Sep", "Oct", "Nov", "Dec"}

// HeatmapHTML renders the calendar activity heatmap. Cell intensity
// levels are quartiles of the year's maximum daily count. The markup is
// assembled directly; every dynamic value is a date or a count.
func HeatmapHTML(days []models.DayCount, year int) template.HTML {
	if len(days) == 0 {
		return `<div class="heatmap-container"><p class="empty-note">No activity data available</p></div>`
	}

	counts := make(map[string]int64, len(days))
	var max int64
	for _, d := range days {
		key := d.Date.Format("2006-01-02")
		counts[key] = d.Count
		if d.Count > max {
			max = d.Count
		}
	}
	q1 := float64(max) * 0.25
	q2 := float64(max) * 0.5
	q3 := float64(max) * 0.75

	var b strings.Builder
	b.WriteString(`<div class="heatmap-container"><div class="heatmap-grid">`)

	cur := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	for cur.Weekday() != time.Sunday {
		cur = cur.AddDate(0, 0, -1)
	}
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)

	currentMonth := -1
	for !cur.After(end) {
		if int(cur.Month()) != currentMonth && cur.Year() == year {
			if currentMonth != -1 {
				b.WriteString(`</div></div>`)
			}
			currentMonth = int(cur.Month())
			fmt.Fprintf(&b, `<div class="heatmap-month"><div class="heatmap-month-label">%s</div><div class="heatmap-weeks">`, heatmapMonths[currentMonth-1])
		}

		b.WriteString(`<div class="heatmap-week">`)
		for i := 0; i < 7; i++ {
			if cur.Year() == year {
				key := cur.Format("2006-01-02")
				count := counts[key]
				level := ""
				switch {
				case count == 0:
				case float64(count) <= q1:
					level = " level-1"
				case float64(count) <= q2:
					level = " level-2"
				case float64(count) <= q3:
					level = " level-3"
				default:
					level = " level-4"
				}
				fmt.Fprintf(&b, `<div class="heatmap-cell%s" title="%s: %d activities"></div>`, level, key, count)
			} else {
				b.WriteString(`<div class="heatmap-cell hidden"></div>`)
			}
			cur = cur.AddDate(0, 0, 1)
		}
		b.WriteString(`</div>`)
	}
	// Close the last month's weeks and month wrappers, then the grid.
	b.WriteString(`</div></div></div>`)

	b.WriteString(`<div class="heatmap-legend"><span>Less</span>` +
		`<div class="heatmap-legend-cell lvl-0"></div>` +
		`<div class="heatmap-legend-cell lvl-1"></div>` +
		`<div class="heatmap-legend-cell lvl-2"></div>` +
		`<div class="heatmap-legend-cell lvl-3"></div>` +
		`<div class="heatmap-legend-cell lvl-4"></div>` +
		`<span>More</span></div>`)

	b.WriteString(`</div>`)

	return template.HTML(b.String()) //nolint:gosec // only dates and counts interpolated
}

// MonthActivity is one month's summary used by the active-months builder.
type MonthActivity struct {
	Month      time.Time
	ActiveDays int64
}

const activeMonthsFragment = `{{range .}}<div class="month-badge{{if .Top}} top{{end}}">
	<div class="month-name">{{.Name}}</div>
	<div class="month-stat">{{.ActiveDays}} active days</div>
</div>
{{end}}`

type monthBadgeView struct {
	Name       string
	ActiveDays int64
	Top        bool
}

// ActiveMonthsHTML renders badges for the user's three most active
// months.
func (e *Engine) ActiveMonthsHTML(months []MonthActivity) (template.HTML, error) {
	if len(months) == 0 {
		return "", nil
	}

	sorted := make([]MonthActivity, len(months))
	copy(sorted, months)
	sort.SliceStable(sorted, func(i, j int) bool {
		return sorted[i].ActiveDays > sorted[j].ActiveDays
	})
	if len(sorted) > 3 {
		sorted = sorted[:3]
	}

	views := make([]monthBadgeView, 0, len(sorted))
	for i, m := range sorted {
		name := "Unknown"
		if !m.Month.IsZero() {
			name = heatmapMonths[int(m.Month.Month())-1]
		}
		views = append(views, monthBadgeView{Name: name, ActiveDays: m.ActiveDays, Top: i == 0})
	}
	return e.RenderHTML("active_months", activeMonthsFragment, views)
}

const badgesFragment = `{{if .}}{{range .}}<div class="badge {{if .Special}}special{{else}}earned{{end}}">
	<div class="badge-icon">{{.Icon}}</div>
	<div class="badge-title">{{.Title}}</div>
	<div class="badge-description">{{.Description}}</div>
</div>
{{end}}{{else}}<p class="empty-note">Keep exploring to earn badges!</p>{{end}}`

// BadgesHTML renders the earned badge grid.
func (e *Engine) BadgesHTML(badges []models.Badge) (template.HTML, error) {
	return e.RenderHTML("badges", badgesFragment, badges)
}

// WordDatum is one word cloud entry.
type WordDatum struct {
	Text  string `json:"text"`
	Size  int    `json:"size"`
	Color string `json:"color"`
}

// wordCloudStopWords are filtered from project names before counting.
var wordCloudStopWords = map[string]bool{
	"the": true, "and": true, "for": true, "with": true, "from": true,
	"that": true, "this": true, "are": true, "was": true, "were": true,
	"been": true, "have": true, "has": true, "had": true, "will": true,
	"would": true, "could": true, "should": true, "may": true, "might": true,
	"project": true, "study": true, "data": true, "analysis": true,
	"research": true, "using": true, "based": true, "new": true, "via": true,
	"none": true, "null": true, "nan": true,
}

// wordCloudColors is the rotating palette assigned by frequency rank.
var wordCloudColors = []string{"#00ffff", "#ff00ff", "#b19cd9", "#00ff88", "#ff6b6b", "#4ecdc4"}

// WordCloudData tokenizes project names into the most frequent terms for
// the D3 word cloud. Ranking is frequency first, then alphabetical, so
// identical inputs always produce identical output.
func WordCloudData(projectNames []string, maxWords int) []WordDatum {
	seen := make(map[string]bool)
	freq := make(map[string]int)

	for _, name := range projectNames {
		name = strings.TrimSpace(name)
		if isMissingText(name) || seen[name] {
			continue
		}
		seen[name] = true

		fields := strings.FieldsFunc(name, func(r rune) bool {
			return r == ' ' || r == '_' || r == '-' || r == '.'
		})
		for _, w := range fields {
			w = strings.ToLower(strings.TrimSpace(w))
			if len(w) <= 2 || wordCloudStopWords[w] || !isAlpha(w) {
				continue
			}
			freq[w]++
		}
	}
	if len(freq) == 0 {
		return nil
	}

	words := make([]string, 0, len(freq))
	for w := range freq {
		words = append(words, w)
	}
	sort.Slice(words, func(i, j int) bool {
		if freq[words[i]] != freq[words[j]] {
			return freq[words[i]] > freq[words[j]]
		}
		return words[i] < words[j]
	})
	if len(words) > maxWords {
		words = words[:maxWords]
	}

	data := make([]WordDatum, 0, len(words))
	for i, w := range words {
		data = append(data, WordDatum{
			Text:  strings.ToUpper(w[:1]) + w[1:],
			Size:  freq[w],
			Color: wordCloudColors[i%len(wordCloudColors)],
		})
	}
	return data
}

// NetworkData builds the star-topology collaboration graph: the report's
// user at the center linked to at most 20 top collaborators. Anonymous
// collaborators get no profile URL.
func NetworkData(userID int64, userName string, collabs []models.Collaborator) models.NetworkGraph {
	center := strconv.FormatInt(userID, 10)
	graph := models.NetworkGraph{
		Nodes: []models.NetworkNode{{
			ID:         center,
			Name:       userName,
			Group:      0,
			ProfileURL: fmt.Sprintf(synapseProfileURL, userID),
		}},
		Links: []models.NetworkLink{},
	}

	limit := len(collabs)
	if limit > 20 {
		limit = 20
	}
	for _, c := range collabs[:limit] {
		if c.UserID == 0 {
			continue
		}
		id := strconv.FormatInt(c.UserID, 10)
		node := models.NetworkNode{
			ID:    id,
			Name:  c.Name,
			Group: 1,
		}
		if !c.Anonymous && !strings.EqualFold(c.Name, "anonymous") {
			node.ProfileURL = fmt.Sprintf(synapseProfileURL, c.UserID)
		}
		graph.Nodes = append(graph.Nodes, node)
		graph.Links = append(graph.Links, models.NetworkLink{
			Source: center,
			Target: id,
			Value:  c.SharedFiles,
		})
	}
	return graph
}

// isMissingText reports whether a name is effectively absent: empty or a
// serialized null from the warehouse.
func isMissingText(s string) bool {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "", "none", "null", "nan":
		return true
	}
	return false
}

func isAlpha(s string) bool {
	for _, r := range s {
		if (r < 'a' || r > 'z') && (r < 'A' || r > 'Z') {
			return false
		}
	}
	return len(s) > 0
}
