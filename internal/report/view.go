// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package report

import (
	"html/template"

	"github.com/allaway/synapse-wrapped/internal/models"
)

// ReportData is the typed view model the page template renders. Scalar
// fields escape contextually during execution; the template.HTML fields
// are fragments already rendered through an escaping template, and the
// template.JS fields are JSON-marshaled payloads for the inline scripts.
type ReportData struct {
	Year            int
	Username        string
	GenerationDate  string
	TimezoneDisplay string
	Audio           bool

	// Download statistics
	FileCount        int64
	TotalSize        int64
	ActiveDays       int
	ActivePercentage float64
	ProjectCount     int64

	// Creations
	TotalCreations  int64
	ProjectsCreated int64
	FilesCreated    int64
	TablesCreated   int64
	FoldersCreated  int64

	// Time patterns
	NightScore   float64
	EarlyScore   float64
	WeekendScore float64
	NightClass   string
	EarlyClass   string
	WeekendClass string

	// Notable moments
	FirstDownloadDate    string
	FirstDownloadFile    string
	FirstDownloadProject string
	BusiestDayDate       string
	BusiestDayDownloads  int64
	BusiestDaySize       string
	LargestFileSize      string
	LargestFileName      string
	LargestFileProject   string

	// Size comparison
	PlatformAvgSize    string
	UserAvgSize        string
	ComparisonPercent  int
	SizeComparisonText string

	// Ranking and governance
	TopPercent         float64
	TotalUsers         int64
	ControlledProjects int64
	OpenProjects       int64

	// Optional web analytics slide
	Pageviews []models.ProjectPageviews

	// Pre-rendered fragments
	TopProjectsHTML      template.HTML
	TopCollaboratorsHTML template.HTML
	HeatmapHTML          template.HTML
	ActiveMonthsHTML     template.HTML
	BadgesHTML           template.HTML

	// Inline script payloads
	NetworkJSON       template.JS
	WordCloudJSON     template.JS
	HourlyJSON        template.JS
	MonthlyGrowthJSON template.JS
}
