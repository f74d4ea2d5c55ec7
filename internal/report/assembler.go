// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"context"
	"fmt"
	"html/template"
	"os"
	"path/filepath"
	"strings"
	"time"

	json "github.com/goccy/go-json"

	"github.com/allaway/synapse-wrapped/internal/config"
	"github.com/allaway/synapse-wrapped/internal/logging"
	"github.com/allaway/synapse-wrapped/internal/metrics"
	"github.com/allaway/synapse-wrapped/internal/models"
	"github.com/allaway/synapse-wrapped/internal/queries"
	"github.com/allaway/synapse-wrapped/internal/warehouse"
)

const wordCloudMaxWords = 60

// PageviewsSource supplies web analytics pageview counts for a set of
// projects. The slide is omitted when no source is configured or the
// source returns nothing.
type PageviewsSource interface {
	ProjectPageviews(ctx context.Context, projects []models.ProjectStat, year int) ([]models.ProjectPageviews, error)
}

// Assembler runs the query fan-out for one user, derives the report
// metrics, and renders the HTML artifact.
type Assembler struct {
	conn   warehouse.Querier
	cfg    *config.Config
	engine *Engine
	pv     PageviewsSource
	now    func() time.Time
}

// NewAssembler creates an assembler over an open warehouse connection.
func NewAssembler(conn warehouse.Querier, cfg *config.Config) *Assembler {
	return &Assembler{
		conn:   conn,
		cfg:    cfg,
		engine: NewEngine(),
		now:    time.Now,
	}
}

// SetPageviews attaches an optional pageview source.
func (a *Assembler) SetPageviews(src PageviewsSource) { a.pv = src }

// SetClock overrides the wall clock, used by the generation-date stamp.
func (a *Assembler) SetClock(now func() time.Time) { a.now = now }

// Generate builds the full report for username and writes the HTML
// artifact under the configured output directory, returning its path.
func (a *Assembler) Generate(ctx context.Context, username string) (string, error) {
	dir := a.cfg.Report.OutputDir
	if dir == "" {
		dir = "."
	}
	return a.GenerateFile(ctx, username, filepath.Join(dir, SafeFilename(username, a.cfg.Report.Year)))
}

// GenerateFile builds the full report for username and writes the HTML
// artifact to an explicit path, creating parent directories as needed.
func (a *Assembler) GenerateFile(ctx context.Context, username, path string) (string, error) {
	report, err := a.Assemble(ctx, username)
	if err != nil {
		return "", err
	}

	page, err := a.Render(report)
	if err != nil {
		return "", err
	}

	if dir := filepath.Dir(path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return "", fmt.Errorf("failed to create output directory %s: %w", dir, err)
		}
	}
	if err := os.WriteFile(path, page, 0o644); err != nil {
		return "", fmt.Errorf("failed to write report %s: %w", path, err)
	}

	logging.Info().
		Str("username", username).
		Int("year", report.Year).
		Str("path", path).
		Msg("Report written")
	return path, nil
}

// Assemble resolves the user, runs every report query, and derives the
// year's metrics. Queries run sequentially and the first failure aborts
// the run; empty results are not errors, they produce zeroed sections.
func (a *Assembler) Assemble(ctx context.Context, username string) (*models.WrappedReport, error) {
	year := a.cfg.Report.Year
	log := logging.With().Str("username", username).Int("year", year).Logger()

	idTable, err := a.conn.Query(ctx, queries.UserIDFromUsername(username))
	if err != nil {
		return nil, err
	}
	if idTable.Empty() {
		return nil, &IdentityNotFoundError{Username: username}
	}
	idRow := idTable.Row(0)
	report := &models.WrappedReport{
		Year:        year,
		UserID:      idRow.Int64("user_id"),
		Username:    username,
		DisplayName: idRow.String("user_name"),
		GeneratedAt: a.now(),
	}
	if report.DisplayName == "" {
		report.DisplayName = username
	}
	log.Info().Int64("user_id", report.UserID).Msg("Resolved user")

	// Download totals.
	t, err := a.conn.Query(ctx, queries.FilesDownloaded(report.UserID, year))
	if err != nil {
		return nil, err
	}
	if t.Empty() {
		log.Warn().Msg("No download activity found, report will show zeros")
	} else {
		row := t.Row(0)
		report.FileCount = row.Int64("file_count")
		report.TotalSizeBytes = row.Int64("total_size_bytes")
		report.ProjectCount = row.Int64("project_count")
	}

	if t, err = a.conn.Query(ctx, queries.ActiveDays(report.UserID, year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		report.ActiveDays = int(t.Row(0).Int64("active_days"))
	}
	report.ActivePercent = metrics.ActivePercentage(report.ActiveDays)

	// Creations by node type.
	if t, err = a.conn.Query(ctx, queries.Creations(report.UserID, year)); err != nil {
		return nil, err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		c := models.CreationCount{
			NodeType: strings.ToLower(row.String("node_type")),
			Count:    row.Int64("creation_count"),
		}
		report.Creations = append(report.Creations, c)
		report.TotalCreations += c.Count
	}

	// Projects.
	if t, err = a.conn.Query(ctx, queries.TopProjects(report.UserID, year, a.cfg.Report.TopProjects)); err != nil {
		return nil, err
	}
	report.TopProjects = projectStats(t)
	if t, err = a.conn.Query(ctx, queries.AllProjects(report.UserID, year)); err != nil {
		return nil, err
	}
	report.AllProjects = projectStats(t)

	// Collaborators: the named top list for the slide, plus the wider
	// anonymous co-download set for the network graph.
	if t, err = a.conn.Query(ctx, queries.TopCollaborators(report.UserID, year, a.cfg.Report.TopCollaborators)); err != nil {
		return nil, err
	}
	names := make(map[int64]string, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		c := models.Collaborator{
			UserID:      row.Int64("user_id"),
			Name:        row.String("collaborator_name"),
			SharedFiles: row.Int64("shared_files"),
		}
		if isMissingText(c.Name) {
			c.Name = "Anonymous researcher"
			c.Anonymous = true
		} else {
			names[c.UserID] = c.Name
		}
		report.Collaborators = append(report.Collaborators, c)
	}

	if t, err = a.conn.Query(ctx, queries.CollaborationNetwork(report.UserID, year)); err != nil {
		return nil, err
	}
	network := make([]models.Collaborator, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		c := models.Collaborator{
			UserID:      row.Int64("user_id"),
			SharedFiles: row.Int64("shared_files"),
		}
		if name, ok := names[c.UserID]; ok {
			c.Name = name
		} else {
			c.Name = fmt.Sprintf("Researcher %d", c.UserID)
			c.Anonymous = true
		}
		network = append(network, c)
	}
	report.Network = NetworkData(report.UserID, report.DisplayName, network)

	// Calendars.
	if t, err = a.conn.Query(ctx, queries.ActivityByDate(report.UserID, year)); err != nil {
		return nil, err
	}
	report.ActivityByDate = dayCounts(t, "activity_date", "activity_count")
	if t, err = a.conn.Query(ctx, queries.CreationsByDate(report.UserID, year)); err != nil {
		return nil, err
	}
	report.CreationsByDate = dayCounts(t, "creation_date", "creation_count")

	if t, err = a.conn.Query(ctx, queries.ActivityByMonth(report.UserID, year)); err != nil {
		return nil, err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		month := row.Time("month")
		report.ActivityByMonth = append(report.ActivityByMonth, models.MonthCount{
			Month: int(month.Month()),
			Count: row.Int64("files_downloaded"),
		})
	}

	if t, err = a.conn.Query(ctx, queries.MonthlyDownloadSize(report.UserID, year)); err != nil {
		return nil, err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		month := row.Time("month")
		report.MonthlySizes = append(report.MonthlySizes, models.MonthCount{
			Month: int(month.Month()),
			Count: row.Int64("total_size_bytes"),
		})
	}

	if t, err = a.conn.Query(ctx, queries.ActivityByHour(report.UserID, year, a.cfg.Report.Timezone)); err != nil {
		return nil, err
	}
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		report.ActivityByHour = append(report.ActivityByHour, models.HourCount{
			Hour:  int(row.Int64("hour_of_day")),
			Count: row.Int64("download_count"),
		})
	}

	if t, err = a.conn.Query(ctx, queries.TimePatterns(report.UserID, year, a.cfg.Report.Timezone)); err != nil {
		return nil, err
	}
	if t.Empty() {
		report.TimePatterns = metrics.Scores(0, 0, 0, 0, 0)
	} else {
		row := t.Row(0)
		report.TimePatterns = metrics.Scores(
			row.Int64("total_downloads"),
			row.Int64("night_downloads"),
			row.Int64("early_downloads"),
			row.Int64("weekend_downloads"),
			row.Int64("weekday_downloads"),
		)
	}

	// Notable moments.
	if t, err = a.conn.Query(ctx, queries.FirstDownload(report.UserID, year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		row := t.Row(0)
		report.FirstDownload = &models.Moment{
			Date:        row.Time("first_download_date"),
			Description: row.String("file_name"),
			ProjectName: row.String("project_name"),
		}
	}
	if t, err = a.conn.Query(ctx, queries.BusiestDay(report.UserID, year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		row := t.Row(0)
		report.BusiestDay = &models.Moment{
			Date:      row.Time("busiest_date"),
			Count:     row.Int64("download_count"),
			SizeBytes: row.Int64("total_size_bytes"),
		}
	}
	if t, err = a.conn.Query(ctx, queries.LargestDownload(report.UserID, year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		row := t.Row(0)
		report.LargestDownload = &models.Moment{
			Date:        row.Time("record_date"),
			Description: row.String("file_name"),
			SizeBytes:   row.Int64("content_size"),
			ProjectName: row.String("project_name"),
		}
	}

	// Size comparison.
	var platformAvg, userAvg float64
	if t, err = a.conn.Query(ctx, queries.PlatformAverageFileSize(year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		platformAvg = t.Row(0).Float64("avg_file_size")
	}
	if t, err = a.conn.Query(ctx, queries.UserAverageFileSize(report.UserID, year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		userAvg = t.Row(0).Float64("avg_file_size")
	}
	report.SizeComparison = metrics.CompareSizes(userAvg, platformAvg)

	// Platform ranking. Users below the query's volume floor simply do
	// not appear; they read as "top 100%".
	if t, err = a.conn.Query(ctx, queries.PlatformDownloadRanking(report.UserID, year)); err != nil {
		return nil, err
	}
	if t.Empty() {
		log.Warn().Msg("User absent from platform ranking")
		report.Rank = models.RankInfo{Percentile: 100}
	} else {
		row := t.Row(0)
		report.Rank = models.RankInfo{
			Percentile: metrics.TopPercent(row.Float64("percentile_rank")),
			TotalUsers: row.Int64("total_users"),
		}
	}

	// Governance.
	if t, err = a.conn.Query(ctx, queries.AccessRequirements(report.UserID, year)); err != nil {
		return nil, err
	}
	if !t.Empty() {
		row := t.Row(0)
		report.ControlledProjects = row.Int64("controlled_projects")
		report.OpenProjects = row.Int64("open_projects")
	}

	// Optional web analytics. Failures here never sink the report.
	if a.pv != nil && len(report.TopProjects) > 0 {
		pv, err := a.pv.ProjectPageviews(ctx, report.TopProjects, year)
		if err != nil {
			log.Warn().Err(err).Msg("Pageview lookup failed, omitting slide")
		} else {
			report.Pageviews = pv
		}
	}

	report.Badges = metrics.EarnBadges(metrics.BadgeInputs{
		ProjectCount:        report.ProjectCount,
		TopPercent:          report.Rank.Percentile,
		ControlledProjects:  report.ControlledProjects,
		OpenProjects:        report.OpenProjects,
		NightScore:          report.TimePatterns.NightScore,
		EarlyScore:          report.TimePatterns.EarlyScore,
		WeekendScore:        report.TimePatterns.WeekendScore,
		FileCount:           report.FileCount,
		TotalSizeGB:         float64(report.TotalSizeBytes) / (1024 * 1024 * 1024),
		ActiveDays:          report.ActiveDays,
		TotalCreations:      report.TotalCreations,
		FilesCreated:        creationCount(report.Creations, "file"),
		ComparisonRatio:     report.SizeComparison.Ratio,
		BusiestDayDownloads: busiestDayCount(report.BusiestDay),
		CollaboratorCount:   len(network),
	})

	log.Info().
		Int64("files", report.FileCount).
		Int("active_days", report.ActiveDays).
		Int("badges", len(report.Badges)).
		Msg("Report assembled")
	return report, nil
}

// Render produces the self-contained HTML page for an assembled report.
func (a *Assembler) Render(report *models.WrappedReport) ([]byte, error) {
	data, err := a.buildView(report)
	if err != nil {
		return nil, err
	}
	page, err := a.engine.Render("report_page", pageTemplate, data)
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

func (a *Assembler) buildView(report *models.WrappedReport) (*ReportData, error) {
	data := &ReportData{
		Year:            report.Year,
		Username:        report.DisplayName,
		GenerationDate:  report.GeneratedAt.Format("January 2, 2006"),
		TimezoneDisplay: timezoneDisplay(a.cfg.Report.Timezone),
		Audio:           a.cfg.Report.Audio,

		FileCount:        report.FileCount,
		TotalSize:        report.TotalSizeBytes,
		ActiveDays:       report.ActiveDays,
		ActivePercentage: report.ActivePercent,
		ProjectCount:     report.ProjectCount,

		TotalCreations:  report.TotalCreations,
		ProjectsCreated: creationCount(report.Creations, "project"),
		FilesCreated:    creationCount(report.Creations, "file"),
		TablesCreated:   creationCount(report.Creations, "table"),
		FoldersCreated:  creationCount(report.Creations, "folder"),

		NightScore:   report.TimePatterns.NightScore,
		EarlyScore:   report.TimePatterns.EarlyScore,
		WeekendScore: report.TimePatterns.WeekendScore,
		NightClass:   highlightClass(report.TimePatterns.NightScore, 30),
		EarlyClass:   highlightClass(report.TimePatterns.EarlyScore, 15),
		WeekendClass: highlightClass(report.TimePatterns.WeekendScore, 30),

		PlatformAvgSize:    formatBytes(int64(report.SizeComparison.PlatformAvgBytes)),
		UserAvgSize:        formatBytes(int64(report.SizeComparison.UserAvgBytes)),
		ComparisonPercent:  int(report.SizeComparison.ComparisonPercent),
		SizeComparisonText: report.SizeComparison.Text,

		TopPercent:         report.Rank.Percentile,
		TotalUsers:         report.Rank.TotalUsers,
		ControlledProjects: report.ControlledProjects,
		OpenProjects:       report.OpenProjects,

		Pageviews: report.Pageviews,
	}

	if m := report.FirstDownload; m != nil {
		data.FirstDownloadDate = m.Date.Format("January 2, 2006")
		data.FirstDownloadFile = truncate(m.Description, 50)
		data.FirstDownloadProject = truncate(m.ProjectName, 40)
	}
	if m := report.BusiestDay; m != nil {
		data.BusiestDayDate = m.Date.Format("January 2")
		data.BusiestDayDownloads = m.Count
		data.BusiestDaySize = formatBytes(m.SizeBytes)
	}
	if m := report.LargestDownload; m != nil {
		data.LargestFileSize = formatBytes(m.SizeBytes)
		data.LargestFileName = truncate(m.Description, 60)
		data.LargestFileProject = truncate(m.ProjectName, 40)
	}

	var err error
	if data.TopProjectsHTML, err = a.engine.TopProjectsHTML(report.TopProjects, a.cfg.Report.TopProjects); err != nil {
		return nil, err
	}
	if data.TopCollaboratorsHTML, err = a.engine.TopCollaboratorsHTML(report.Collaborators); err != nil {
		return nil, err
	}
	data.HeatmapHTML = HeatmapHTML(report.ActivityByDate, report.Year)
	if data.ActiveMonthsHTML, err = a.engine.ActiveMonthsHTML(monthActivity(report.ActivityByDate)); err != nil {
		return nil, err
	}
	if data.BadgesHTML, err = a.engine.BadgesHTML(report.Badges); err != nil {
		return nil, err
	}

	projectNames := make([]string, 0, len(report.AllProjects))
	for _, p := range report.AllProjects {
		projectNames = append(projectNames, p.Name)
	}

	if data.NetworkJSON, err = jsPayload(report.Network); err != nil {
		return nil, err
	}
	if data.WordCloudJSON, err = jsPayload(WordCloudData(projectNames, wordCloudMaxWords)); err != nil {
		return nil, err
	}
	if data.HourlyJSON, err = jsPayload(hourlySeries(report.ActivityByHour)); err != nil {
		return nil, err
	}
	if data.MonthlyGrowthJSON, err = jsPayload(monthlyGrowthSeries(report.MonthlySizes)); err != nil {
		return nil, err
	}
	return data, nil
}

// SafeFilename converts a username into the artifact filename, keeping
// it portable across filesystems.
func SafeFilename(username string, year int) string {
	safe := strings.NewReplacer("@", "_at_", ".", "_", "/", "_", " ", "_").Replace(username)
	return fmt.Sprintf("%s_wrapped_%d.html", safe, year)
}

// timezoneDisplay strips the IANA region prefix for the report footer:
// "America/New_York" reads as "New York".
func timezoneDisplay(tz string) string {
	for _, prefix := range []string{"America/", "Europe/", "Asia/", "Africa/", "Australia/", "Pacific/"} {
		tz = strings.TrimPrefix(tz, prefix)
	}
	return strings.ReplaceAll(tz, "_", " ")
}

func highlightClass(score, threshold float64) string {
	if score > threshold {
		return "highlight"
	}
	return ""
}

func projectStats(t *warehouse.Table) []models.ProjectStat {
	stats := make([]models.ProjectStat, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		stats = append(stats, models.ProjectStat{
			ProjectID:    row.Int64("project_id"),
			Name:         row.String("project_name"),
			FileCount:    row.Int64("file_count"),
			TotalBytes:   row.Int64("total_size_bytes"),
			DownloadDays: row.Int64("access_days"),
		})
	}
	return stats
}

func dayCounts(t *warehouse.Table, dateCol, countCol string) []models.DayCount {
	days := make([]models.DayCount, 0, t.Len())
	for i := 0; i < t.Len(); i++ {
		row := t.Row(i)
		days = append(days, models.DayCount{
			Date:  row.Time(dateCol),
			Count: row.Int64(countCol),
		})
	}
	return days
}

func creationCount(creations []models.CreationCount, nodeType string) int64 {
	for _, c := range creations {
		if c.NodeType == nodeType {
			return c.Count
		}
	}
	return 0
}

func busiestDayCount(m *models.Moment) int64 {
	if m == nil {
		return 0
	}
	return m.Count
}

// monthActivity folds the daily calendar into per-month active-day
// counts for the "most active months" strip.
func monthActivity(days []models.DayCount) []MonthActivity {
	byMonth := make(map[time.Month]*MonthActivity)
	order := make([]time.Month, 0, 12)
	for _, d := range days {
		if d.Count == 0 {
			continue
		}
		m := d.Date.Month()
		if entry, ok := byMonth[m]; ok {
			entry.ActiveDays++
			continue
		}
		byMonth[m] = &MonthActivity{
			Month:      time.Date(d.Date.Year(), m, 1, 0, 0, 0, 0, time.UTC),
			ActiveDays: 1,
		}
		order = append(order, m)
	}
	months := make([]MonthActivity, 0, len(order))
	for _, m := range order {
		months = append(months, *byMonth[m])
	}
	return months
}

type hourPoint struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// hourlySeries fills the 24-hour axis so the chart always has every bar.
func hourlySeries(hours []models.HourCount) []hourPoint {
	series := make([]hourPoint, 24)
	for i := range series {
		series[i].Hour = i
	}
	for _, h := range hours {
		if h.Hour >= 0 && h.Hour < 24 {
			series[h.Hour].Count = h.Count
		}
	}
	return series
}

type growthPoint struct {
	Month string `json:"month"`
	Size  int64  `json:"size"`
}

func monthlyGrowthSeries(months []models.MonthCount) []growthPoint {
	series := make([]growthPoint, 0, len(months))
	for _, m := range months {
		if m.Month < 1 || m.Month > 12 {
			continue
		}
		series = append(series, growthPoint{
			Month: models.MonthNames[m.Month][:3],
			Size:  m.Count,
		})
	}
	return series
}

// jsPayload marshals a chart payload for splicing into an inline script.
func jsPayload(v any) (template.JS, error) {
	b, err := json.Marshal(v)
	if err != nil {
		return "", fmt.Errorf("failed to encode chart payload: %w", err)
	}
	return template.JS(b), nil //nolint:gosec // JSON-encoded data, not script text
}
