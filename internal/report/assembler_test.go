// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"bytes"
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/allaway/synapse-wrapped/internal/config"
	"github.com/allaway/synapse-wrapped/internal/models"
	"github.com/allaway/synapse-wrapped/internal/queries"
	"github.com/allaway/synapse-wrapped/internal/warehouse"
)

// fakeWarehouse serves canned tables keyed by query name. Queries with
// no fixture get an empty table matching the declared schema, the same
// shape a zero-row warehouse result takes.
type fakeWarehouse struct {
	tables  map[string]*warehouse.Table
	fail    map[string]error
	unknown map[string]bool // usernames that do not resolve
	calls   []string
}

func (f *fakeWarehouse) Query(_ context.Context, q queries.Query) (*warehouse.Table, error) {
	f.calls = append(f.calls, q.Name)
	if err, ok := f.fail[q.Name]; ok {
		return nil, &warehouse.QueryError{Name: q.Name, Err: err}
	}
	if q.Name == "user_id_from_username" && len(q.Args) > 0 {
		if username, ok := q.Args[0].(string); ok && f.unknown[username] {
			return warehouse.NewTable(q.Columns, nil), nil
		}
	}
	if t, ok := f.tables[q.Name]; ok {
		return t, nil
	}
	return warehouse.NewTable(q.Columns, nil), nil
}

func testConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{
		Report: config.ReportConfig{
			Year:             2025,
			OutputDir:        t.TempDir(),
			Timezone:         "America/New_York",
			Audio:            true,
			TopProjects:      5,
			TopCollaborators: 5,
		},
	}
}

// identityOnly is the minimum fixture: the user exists, everything else
// is empty.
func identityOnly() map[string]*warehouse.Table {
	return map[string]*warehouse.Table{
		"user_id_from_username": warehouse.NewTable(
			[]string{"user_id", "user_name", "email"},
			[][]any{{int64(3401), "jdoe", "jdoe@sagebase.org"}},
		),
	}
}

func fullFixture() map[string]*warehouse.Table {
	tables := identityOnly()
	tables["files_downloaded"] = warehouse.NewTable(
		[]string{"file_count", "total_size_bytes", "project_count"},
		[][]any{{int64(1200), int64(750 * 1024 * 1024 * 1024), int64(14)}},
	)
	tables["active_days"] = warehouse.NewTable(
		[]string{"active_days"},
		[][]any{{int64(146)}},
	)
	tables["creations"] = warehouse.NewTable(
		[]string{"node_type", "creation_count"},
		[][]any{
			{"file", int64(320)},
			{"folder", int64(40)},
			{"table", int64(6)},
			{"project", int64(2)},
		},
	)
	tables["top_projects"] = warehouse.NewTable(
		[]string{"project_id", "project_name", "file_count", "total_size_bytes", "access_days"},
		[][]any{
			{int64(111), "AD Knowledge Portal", int64(800), int64(1 << 30), int64(60)},
			{int64(222), "HTAN", int64(400), int64(1 << 29), int64(30)},
		},
	)
	tables["all_projects"] = warehouse.NewTable(
		[]string{"project_id", "project_name"},
		[][]any{
			{int64(111), "AD Knowledge Portal"},
			{int64(222), "HTAN Imaging Collection"},
		},
	)
	tables["top_collaborators"] = warehouse.NewTable(
		[]string{"user_id", "shared_projects", "shared_files", "collaborator_name"},
		[][]any{
			{int64(77), int64(3), int64(120), "Ada Lovelace"},
			{int64(88), int64(2), int64(90), nil},
		},
	)
	tables["collaboration_network"] = warehouse.NewTable(
		[]string{"user_id", "shared_files"},
		[][]any{
			{int64(77), int64(120)},
			{int64(88), int64(90)},
			{int64(99), int64(15)},
		},
	)
	tables["activity_by_date"] = warehouse.NewTable(
		[]string{"activity_date", "activity_count"},
		[][]any{
			{time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), int64(40)},
			{time.Date(2025, 3, 4, 0, 0, 0, 0, time.UTC), int64(10)},
			{time.Date(2025, 6, 9, 0, 0, 0, 0, time.UTC), int64(25)},
		},
	)
	tables["activity_by_month"] = warehouse.NewTable(
		[]string{"month", "active_days", "files_downloaded", "projects_accessed"},
		[][]any{
			{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), int64(12), int64(300), int64(4)},
			{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), int64(9), int64(200), int64(3)},
		},
	)
	tables["monthly_download_size"] = warehouse.NewTable(
		[]string{"month", "total_size_bytes", "file_count"},
		[][]any{
			{time.Date(2025, 3, 1, 0, 0, 0, 0, time.UTC), int64(1 << 32), int64(300)},
			{time.Date(2025, 6, 1, 0, 0, 0, 0, time.UTC), int64(1 << 31), int64(200)},
		},
	)
	tables["activity_by_hour"] = warehouse.NewTable(
		[]string{"hour_of_day", "download_count", "unique_files"},
		[][]any{
			{int64(9), int64(300), int64(250)},
			{int64(22), int64(120), int64(100)},
		},
	)
	tables["time_patterns"] = warehouse.NewTable(
		[]string{"total_downloads", "night_downloads", "early_downloads", "weekend_downloads", "weekday_downloads"},
		[][]any{{int64(1000), int64(350), int64(100), int64(200), int64(800)}},
	)
	tables["first_download"] = warehouse.NewTable(
		[]string{"first_download_date", "file_name", "project_name"},
		[][]any{{time.Date(2025, 1, 6, 14, 3, 0, 0, time.UTC), "scRNAseq_counts.h5ad", "AD Knowledge Portal"}},
	)
	tables["busiest_day"] = warehouse.NewTable(
		[]string{"busiest_date", "download_count", "unique_files", "projects_accessed", "total_size_bytes"},
		[][]any{{time.Date(2025, 3, 3, 0, 0, 0, 0, time.UTC), int64(612), int64(580), int64(3), int64(1 << 33)}},
	)
	tables["largest_download"] = warehouse.NewTable(
		[]string{"file_handle_id", "file_name", "content_size", "record_date", "project_name"},
		[][]any{{int64(555), "whole_genome.bam", int64(48 * 1024 * 1024 * 1024), time.Date(2025, 7, 2, 0, 0, 0, 0, time.UTC), "HTAN"}},
	)
	tables["platform_average_file_size"] = warehouse.NewTable(
		[]string{"avg_file_size", "median_file_size"},
		[][]any{{float64(200 * 1024 * 1024), float64(40 * 1024 * 1024)}},
	)
	tables["user_average_file_size"] = warehouse.NewTable(
		[]string{"avg_file_size", "median_file_size"},
		[][]any{{float64(640 * 1024 * 1024), float64(100 * 1024 * 1024)}},
	)
	tables["platform_download_ranking"] = warehouse.NewTable(
		[]string{"user_id", "total_files", "percentile_rank", "total_users"},
		[][]any{{int64(3401), int64(1200), float64(0.03), int64(48000)}},
	)
	tables["access_requirements"] = warehouse.NewTable(
		[]string{"total_projects", "controlled_projects", "open_projects"},
		[][]any{{int64(14), int64(10), int64(4)}},
	)
	return tables
}

func fixedClock() time.Time {
	return time.Date(2026, 1, 15, 10, 0, 0, 0, time.UTC)
}

func TestAssembleUnknownUser(t *testing.T) {
	fw := &fakeWarehouse{tables: map[string]*warehouse.Table{}}
	a := NewAssembler(fw, testConfig(t))

	_, err := a.Assemble(context.Background(), "nobody")
	var notFound *IdentityNotFoundError
	if !errors.As(err, &notFound) {
		t.Fatalf("error = %v, want IdentityNotFoundError", err)
	}
	if notFound.Username != "nobody" {
		t.Errorf("Username = %q, want nobody", notFound.Username)
	}
	if len(fw.calls) != 1 {
		t.Errorf("resolution miss should stop the fan-out, ran %v", fw.calls)
	}
}

func TestAssembleQueryFailureAborts(t *testing.T) {
	fw := &fakeWarehouse{
		tables: identityOnly(),
		fail:   map[string]error{"files_downloaded": errors.New("warehouse suspended")},
	}
	a := NewAssembler(fw, testConfig(t))

	_, err := a.Assemble(context.Background(), "jdoe")
	var qerr *warehouse.QueryError
	if !errors.As(err, &qerr) {
		t.Fatalf("error = %v, want QueryError", err)
	}
	if qerr.Name != "files_downloaded" {
		t.Errorf("failed query = %q, want files_downloaded", qerr.Name)
	}
	if len(fw.calls) != 2 {
		t.Errorf("failure should abort the fan-out, ran %v", fw.calls)
	}
}

func TestAssembleZeroActivity(t *testing.T) {
	fw := &fakeWarehouse{tables: identityOnly()}
	a := NewAssembler(fw, testConfig(t))
	a.SetClock(fixedClock)

	report, err := a.Assemble(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if report.FileCount != 0 || report.ActiveDays != 0 {
		t.Errorf("zero-activity report has counts: %+v", report)
	}
	if report.Rank.Percentile != 100 {
		t.Errorf("unranked user percentile = %v, want 100", report.Rank.Percentile)
	}
	if len(report.Badges) != 0 {
		t.Errorf("zero activity should earn no badges, got %v", report.Badges)
	}

	page, err := a.Render(report)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := string(page)
	if !strings.Contains(out, "No project data available") {
		t.Errorf("page missing empty-projects note")
	}
	if !strings.Contains(out, "No similar users found") {
		t.Errorf("page missing empty-collaborators note")
	}
	if !strings.Contains(out, "Keep exploring to earn badges!") {
		t.Errorf("page missing empty-badges note")
	}
}

func TestAssembleFullReport(t *testing.T) {
	fw := &fakeWarehouse{tables: fullFixture()}
	a := NewAssembler(fw, testConfig(t))
	a.SetClock(fixedClock)

	report, err := a.Assemble(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}

	if report.UserID != 3401 {
		t.Errorf("UserID = %d, want 3401", report.UserID)
	}
	if report.FileCount != 1200 || report.ProjectCount != 14 {
		t.Errorf("download totals wrong: %+v", report)
	}
	if report.ActivePercent != 40.0 {
		t.Errorf("ActivePercent = %v, want 40.0 (146/365)", report.ActivePercent)
	}
	if report.TotalCreations != 368 {
		t.Errorf("TotalCreations = %d, want 368", report.TotalCreations)
	}
	if report.TimePatterns.NightScore != 35.0 {
		t.Errorf("NightScore = %v, want 35.0", report.TimePatterns.NightScore)
	}
	// PERCENT_RANK 0.03 over descending volume reads as top 3%.
	if report.Rank.Percentile != 3.0 || report.Rank.TotalUsers != 48000 {
		t.Errorf("rank = %+v, want top 3%% of 48000", report.Rank)
	}
	if report.SizeComparison.Text == "" || report.SizeComparison.Ratio <= 1.5 {
		t.Errorf("size comparison should land in the large-file band: %+v", report.SizeComparison)
	}

	// Both named and anonymous collaborators survive, and the network
	// covers the wider co-download set.
	if len(report.Collaborators) != 2 {
		t.Fatalf("collaborators = %d, want 2", len(report.Collaborators))
	}
	if !report.Collaborators[1].Anonymous {
		t.Errorf("nameless collaborator should be anonymous: %+v", report.Collaborators[1])
	}
	if len(report.Network.Nodes) != 4 {
		t.Errorf("network nodes = %d, want 4 (center + 3)", len(report.Network.Nodes))
	}

	if len(report.Badges) == 0 {
		t.Fatal("active user earned no badges")
	}
	badgeIDs := make(map[string]bool)
	for _, b := range report.Badges {
		badgeIDs[b.ID] = true
	}
	for _, want := range []string{"data_collector", "power_user", "regular_user", "big_data_lover"} {
		if !badgeIDs[want] {
			t.Errorf("missing badge category %s, got %v", want, badgeIDs)
		}
	}
}

func TestRenderFullPage(t *testing.T) {
	fw := &fakeWarehouse{tables: fullFixture()}
	a := NewAssembler(fw, testConfig(t))
	a.SetClock(fixedClock)

	report, err := a.Assemble(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	page, err := a.Render(report)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	out := string(page)

	for _, want := range []string{
		"<!DOCTYPE html>",
		"Synapse Wrapped 2025",
		"jdoe",
		"January 15, 2026", // generation date from the fixed clock
		"New York",         // timezone display
		"AD Knowledge Portal",
		"Ada Lovelace",
		"scRNAseq_counts.h5ad",
		"whole_genome.bam",
		"March 3", // busiest day
		"Top 3%",
		`"profileUrl":"https://www.synapse.org/#!Profile:77"`,
		"bg-audio",
	} {
		if !strings.Contains(out, want) {
			t.Errorf("rendered page missing %q", want)
		}
	}
	if strings.Contains(out, "{{") {
		t.Error("rendered page contains unexecuted template actions")
	}
}

func TestRenderDeterministic(t *testing.T) {
	cfg := testConfig(t)

	render := func() []byte {
		fw := &fakeWarehouse{tables: fullFixture()}
		a := NewAssembler(fw, cfg)
		a.SetClock(fixedClock)
		report, err := a.Assemble(context.Background(), "jdoe")
		if err != nil {
			t.Fatalf("Assemble() error = %v", err)
		}
		page, err := a.Render(report)
		if err != nil {
			t.Fatalf("Render() error = %v", err)
		}
		return page
	}

	if !bytes.Equal(render(), render()) {
		t.Error("two runs over identical inputs produced different artifacts")
	}
}

func TestRenderAudioDisabled(t *testing.T) {
	cfg := testConfig(t)
	cfg.Report.Audio = false

	fw := &fakeWarehouse{tables: identityOnly()}
	a := NewAssembler(fw, cfg)
	a.SetClock(fixedClock)

	report, err := a.Assemble(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	page, err := a.Render(report)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if strings.Contains(string(page), "bg-audio") {
		t.Error("audio element rendered with audio disabled")
	}
}

type fakePageviews struct {
	views []models.ProjectPageviews
	err   error
}

func (f *fakePageviews) ProjectPageviews(_ context.Context, _ []models.ProjectStat, _ int) ([]models.ProjectPageviews, error) {
	return f.views, f.err
}

func TestAssemblePageviews(t *testing.T) {
	fw := &fakeWarehouse{tables: fullFixture()}
	a := NewAssembler(fw, testConfig(t))
	a.SetClock(fixedClock)
	a.SetPageviews(&fakePageviews{views: []models.ProjectPageviews{
		{ProjectID: 111, Name: "AD Knowledge Portal", Pageviews: 90210},
	}})

	report, err := a.Assemble(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(report.Pageviews) != 1 {
		t.Fatalf("pageviews = %d, want 1", len(report.Pageviews))
	}
	page, err := a.Render(report)
	if err != nil {
		t.Fatalf("Render() error = %v", err)
	}
	if !strings.Contains(string(page), "90,210 pageviews") {
		t.Errorf("pageview slide missing from page")
	}
}

func TestAssemblePageviewsFailureIsNonFatal(t *testing.T) {
	fw := &fakeWarehouse{tables: fullFixture()}
	a := NewAssembler(fw, testConfig(t))
	a.SetPageviews(&fakePageviews{err: errors.New("quota exceeded")})

	report, err := a.Assemble(context.Background(), "jdoe")
	if err != nil {
		t.Fatalf("Assemble() error = %v", err)
	}
	if len(report.Pageviews) != 0 {
		t.Errorf("failed lookup should leave pageviews empty, got %v", report.Pageviews)
	}
}

func TestGenerateWritesArtifact(t *testing.T) {
	cfg := testConfig(t)
	fw := &fakeWarehouse{tables: fullFixture()}
	a := NewAssembler(fw, cfg)
	a.SetClock(fixedClock)

	path, err := a.Generate(context.Background(), "jane.doe@sagebase.org")
	if err != nil {
		t.Fatalf("Generate() error = %v", err)
	}
	want := filepath.Join(cfg.Report.OutputDir, "jane_doe_at_sagebase_org_wrapped_2025.html")
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("artifact not readable: %v", err)
	}
	if !strings.Contains(string(data), "Synapse Wrapped") {
		t.Error("artifact does not look like a report")
	}
}

func TestGenerateFileExplicitPath(t *testing.T) {
	cfg := testConfig(t)
	fw := &fakeWarehouse{tables: fullFixture()}
	a := NewAssembler(fw, cfg)
	a.SetClock(fixedClock)

	// An explicit file path wins over the configured output directory,
	// and missing parents are created.
	want := filepath.Join(t.TempDir(), "reviews", "jdoe-review.html")
	path, err := a.GenerateFile(context.Background(), "jdoe", want)
	if err != nil {
		t.Fatalf("GenerateFile() error = %v", err)
	}
	if path != want {
		t.Errorf("path = %s, want %s", path, want)
	}
	data, err := os.ReadFile(want)
	if err != nil {
		t.Fatalf("artifact not readable: %v", err)
	}
	if !strings.Contains(string(data), "Synapse Wrapped") {
		t.Error("artifact does not look like a report")
	}
}

func TestGenerateBatchIsolatesFailures(t *testing.T) {
	cfg := testConfig(t)
	fw := &fakeWarehouse{tables: fullFixture(), unknown: map[string]bool{"ghost": true}}
	a := NewAssembler(fw, cfg)
	a.SetClock(fixedClock)

	batch := filepath.Join(t.TempDir(), "users.txt")
	content := "jdoe\n\nghost\n  jdoe2  \n"
	if err := os.WriteFile(batch, []byte(content), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := a.GenerateBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v", err)
	}
	if len(paths) != 2 {
		t.Fatalf("written = %d, want 2 (ghost fails, blank line skipped)", len(paths))
	}
	for _, p := range paths {
		if strings.Contains(p, "ghost") {
			t.Errorf("unresolvable user produced an artifact: %s", p)
		}
	}
}

func TestGenerateBatchAllFailuresStillSucceeds(t *testing.T) {
	cfg := testConfig(t)
	fw := &fakeWarehouse{tables: map[string]*warehouse.Table{}} // nobody resolves
	a := NewAssembler(fw, cfg)

	batch := filepath.Join(t.TempDir(), "users.txt")
	if err := os.WriteFile(batch, []byte("ghost1\nghost2\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	paths, err := a.GenerateBatch(context.Background(), batch)
	if err != nil {
		t.Fatalf("GenerateBatch() error = %v, failures must stay per-user", err)
	}
	if len(paths) != 0 {
		t.Errorf("written = %v, want none", paths)
	}
}

func TestGenerateBatchMissingFile(t *testing.T) {
	a := NewAssembler(&fakeWarehouse{}, testConfig(t))
	if _, err := a.GenerateBatch(context.Background(), filepath.Join(t.TempDir(), "absent.txt")); err == nil {
		t.Fatal("missing batch file should be an error")
	}
}

func TestGenerateBatchEmptyFile(t *testing.T) {
	a := NewAssembler(&fakeWarehouse{}, testConfig(t))
	batch := filepath.Join(t.TempDir(), "users.txt")
	if err := os.WriteFile(batch, []byte("\n\n"), 0o644); err != nil {
		t.Fatal(err)
	}
	if _, err := a.GenerateBatch(context.Background(), batch); err == nil {
		t.Fatal("batch file with no usernames should be an error")
	}
}
