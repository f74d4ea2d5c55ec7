// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package models provides the data structures shared across the report
// generator: raw query results, derived metrics, badges, and the network
// graph payload embedded in the HTML artifact.
package models

import (
	"time"
)

// WrappedReport aggregates everything derived for one user's annual
// report. It is the input to the presentation builders.
type WrappedReport struct {
	Year        int       `json:"year"`
	UserID      int64     `json:"user_id"`
	Username    string    `json:"username"`
	DisplayName string    `json:"display_name,omitempty"`
	GeneratedAt time.Time `json:"generated_at"`

	// Download statistics
	FileCount      int64   `json:"file_count"`
	TotalSizeBytes int64   `json:"total_size_bytes"`
	ProjectCount   int64   `json:"project_count"`
	ActiveDays     int     `json:"active_days"`
	ActivePercent  float64 `json:"active_percentage"`

	// Creation statistics by node type (file, folder, table, ...)
	Creations      []CreationCount `json:"creations"`
	TotalCreations int64           `json:"total_creations"`

	// Rankings and comparisons
	Rank           RankInfo       `json:"rank"`
	SizeComparison SizeComparison `json:"size_comparison"`

	// Temporal patterns
	TimePatterns    TimePatterns `json:"time_patterns"`
	ActivityByMonth []MonthCount `json:"activity_by_month"`
	MonthlySizes    []MonthCount `json:"monthly_sizes"`
	ActivityByHour  []HourCount  `json:"activity_by_hour"`
	ActivityByDate  []DayCount   `json:"activity_by_date"`
	CreationsByDate []DayCount   `json:"creations_by_date"`

	// Notable moments
	FirstDownload   *Moment `json:"first_download,omitempty"`
	BusiestDay      *Moment `json:"busiest_day,omitempty"`
	LargestDownload *Moment `json:"largest_download,omitempty"`

	// Social
	TopProjects   []ProjectStat  `json:"top_projects"`
	AllProjects   []ProjectStat  `json:"all_projects,omitempty"`
	Collaborators []Collaborator `json:"collaborators"`
	Network       NetworkGraph   `json:"network"`

	// Governance
	ControlledProjects int64 `json:"controlled_projects"`
	OpenProjects       int64 `json:"open_projects"`

	// Optional web analytics
	Pageviews []ProjectPageviews `json:"pageviews,omitempty"`

	Badges []Badge `json:"badges"`
}

// CreationCount is the number of entities of one node type a user created.
type CreationCount struct {
	NodeType string `json:"node_type"`
	Count    int64  `json:"count"`
}

// ProjectStat is per-project download activity.
type ProjectStat struct {
	ProjectID    int64  `json:"project_id"`
	Name         string `json:"name"`
	FileCount    int64  `json:"file_count"`
	TotalBytes   int64  `json:"total_bytes"`
	DownloadDays int64  `json:"download_days"`
}

// Collaborator is another user who downloaded from the same projects.
type Collaborator struct {
	UserID      int64  `json:"user_id"`
	Name        string `json:"name"`
	SharedFiles int64  `json:"shared_files"`
	Anonymous   bool   `json:"anonymous"`
}

// RankInfo holds the platform-wide download ranking for a user.
// Percentile is PERCENT_RANK over download volume descending, times 100:
// the heaviest downloader scores 0, so the value reads as "top N%".
type RankInfo struct {
	Percentile float64 `json:"percentile"`
	TotalUsers int64   `json:"total_users"`
}

// SizeComparison relates the user's average file size to the platform's.
type SizeComparison struct {
	UserAvgBytes      float64 `json:"user_avg_bytes"`
	PlatformAvgBytes  float64 `json:"platform_avg_bytes"`
	Ratio             float64 `json:"ratio"`
	Text              string  `json:"text"`
	ComparisonPercent float64 `json:"comparison_percent"`
}

// TimePatterns holds the time-of-day activity scores, each the share of
// downloads in that window as a percentage rounded to one decimal.
type TimePatterns struct {
	TotalDownloads int64   `json:"total_downloads"`
	NightScore     float64 `json:"night_score"`
	EarlyScore     float64 `json:"early_score"`
	WeekendScore   float64 `json:"weekend_score"`
	WeekdayScore   float64 `json:"weekday_score"`
}

// MonthCount is download activity for one month (1-12).
type MonthCount struct {
	Month int   `json:"month"`
	Count int64 `json:"count"`
}

// HourCount is download activity for one local hour (0-23).
type HourCount struct {
	Hour  int   `json:"hour"`
	Count int64 `json:"count"`
}

// DayCount is activity for one calendar date.
type DayCount struct {
	Date  time.Time `json:"date"`
	Count int64     `json:"count"`
}

// Moment is a notable single event or day in the user's year.
type Moment struct {
	Date        time.Time `json:"date"`
	Description string    `json:"description,omitempty"`
	Count       int64     `json:"count,omitempty"`
	SizeBytes   int64     `json:"size_bytes,omitempty"`
	ProjectName string    `json:"project_name,omitempty"`
}

// ProjectPageviews is Google Analytics pageview volume for one project.
type ProjectPageviews struct {
	ProjectID int64  `json:"project_id"`
	Name      string `json:"name"`
	Pageviews int64  `json:"pageviews"`
}

// Badge is an earned achievement. Tier is bronze, silver, or gold for
// tiered categories; Special marks one-off badges without tiers.
type Badge struct {
	ID          string `json:"id"`
	Title       string `json:"title"`
	Description string `json:"description"`
	Icon        string `json:"icon"`
	Tier        string `json:"tier,omitempty"`
	Special     bool   `json:"special,omitempty"`
}

// NetworkGraph is the D3 force-graph payload: a star with the report's
// user at the center and top collaborators around it.
type NetworkGraph struct {
	Nodes []NetworkNode `json:"nodes"`
	Links []NetworkLink `json:"links"`
}

// NetworkNode is a user in the collaboration graph. ProfileURL is empty
// for the center node's collaborators when they are anonymous.
type NetworkNode struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Group      int    `json:"group"`
	ProfileURL string `json:"profileUrl,omitempty"`
}

// NetworkLink connects the center node to one collaborator; Value is the
// count of files both users downloaded.
type NetworkLink struct {
	Source string `json:"source"`
	Target string `json:"target"`
	Value  int64  `json:"value"`
}

// MonthNames maps month integers (1-12) to month names.
var MonthNames = []string{"", "January", "February", "March", "April", "May", "June",
	"July", "August", "September", "October", "November", "December"}
