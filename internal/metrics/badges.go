// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"fmt"
	"strconv"

	"github.com/allaway/synapse-wrapped/internal/models"
)

// BadgeInputs carries every metric the badge rules consider.
type BadgeInputs struct {
	ProjectCount        int64
	TopPercent          float64 // "top N%" figure from TopPercent
	ControlledProjects  int64
	OpenProjects        int64
	NightScore          float64
	EarlyScore          float64
	WeekendScore        float64
	FileCount           int64
	TotalSizeGB         float64
	ActiveDays          int
	TotalCreations      int64
	FilesCreated        int64
	ComparisonRatio     float64
	BusiestDayDownloads int64
	CollaboratorCount   int
}

// Badge tier names.
const (
	TierBronze = "bronze"
	TierSilver = "silver"
	TierGold   = "gold"
)

// EarnBadges evaluates every badge category against the inputs. Within a
// category thresholds are checked highest first, so raising a metric can
// only keep or improve the earned badge, never lose one.
func EarnBadges(in BadgeInputs) []models.Badge {
	var badges []models.Badge
	add := func(b models.Badge) {
		badges = append(badges, b)
	}

	// Project exploration
	switch {
	case in.ProjectCount >= 10:
		add(models.Badge{
			ID:          "data_explorer",
			Icon:        "🔭",
			Title:       "Data Explorer",
			Description: fmt.Sprintf("Explored %d unique projects this year", in.ProjectCount),
			Tier:        TierGold,
			Special:     in.ProjectCount >= 50,
		})
	case in.ProjectCount >= 5:
		add(models.Badge{
			ID:          "project_scout",
			Icon:        "🔍",
			Title:       "Project Scout",
			Description: fmt.Sprintf("Discovered %d unique projects", in.ProjectCount),
			Tier:        TierSilver,
		})
	}

	// Platform ranking. TopPercent reads as "top N%", so lower is better.
	switch {
	case in.TopPercent <= 5:
		add(models.Badge{
			ID:          "power_user",
			Icon:        "⚡",
			Title:       "Power User",
			Description: fmt.Sprintf("Top %.0f%% of all Synapse downloaders", in.TopPercent),
			Tier:        TierGold,
			Special:     true,
		})
	case in.TopPercent <= 10:
		add(models.Badge{
			ID:          "heavy_user",
			Icon:        "🚀",
			Title:       "Heavy User",
			Description: fmt.Sprintf("Top %.0f%% of Synapse users", in.TopPercent),
			Tier:        TierSilver,
		})
	case in.TopPercent <= 25:
		add(models.Badge{
			ID:          "active_researcher",
			Icon:        "📊",
			Title:       "Active Researcher",
			Description: fmt.Sprintf("Top %.0f%% of Synapse users", in.TopPercent),
			Tier:        TierBronze,
		})
	}

	// Data governance
	if totalAccess := in.ControlledProjects + in.OpenProjects; totalAccess > 0 {
		controlledRatio := float64(in.ControlledProjects) / float64(totalAccess)
		switch {
		case controlledRatio >= 0.7:
			add(models.Badge{
				ID:          "sensitive_data_superstar",
				Icon:        "🔐",
				Title:       "Sensitive Data Superstar",
				Description: fmt.Sprintf("Trusted with controlled-access data from %d projects", in.ControlledProjects),
				Tier:        TierGold,
				Special:     true,
			})
		case controlledRatio >= 0.5:
			add(models.Badge{
				ID:          "data_guardian",
				Icon:        "🛡️",
				Title:       "Data Guardian",
				Description: fmt.Sprintf("Access to %d controlled-access projects", in.ControlledProjects),
				Tier:        TierSilver,
			})
		case in.OpenProjects >= 20:
			add(models.Badge{
				ID:          "open_data_evangelist",
				Icon:        "🌐",
				Title:       "Open Data Evangelist",
				Description: fmt.Sprintf("Champion of open science with %d open-access projects", in.OpenProjects),
				Tier:        TierGold,
				Special:     in.OpenProjects >= 50,
			})
		case in.OpenProjects >= 10:
			add(models.Badge{
				ID:          "open_science_advocate",
				Icon:        "📖",
				Title:       "Open Science Advocate",
				Description: fmt.Sprintf("Supports open science with %d open projects", in.OpenProjects),
				Tier:        TierSilver,
			})
		}
	}

	// Night activity
	switch {
	case in.NightScore >= 50:
		add(models.Badge{
			ID:          "night_owl",
			Icon:        "🦉",
			Title:       "Night Owl",
			Description: fmt.Sprintf("%.0f%% of downloads after hours", in.NightScore),
			Tier:        TierGold,
			Special:     in.NightScore >= 70,
		})
	case in.NightScore >= 30:
		add(models.Badge{
			ID:          "evening_explorer",
			Icon:        "🌙",
			Title:       "Evening Explorer",
			Description: fmt.Sprintf("%.0f%% of activity after 6pm", in.NightScore),
			Tier:        TierSilver,
		})
	}

	// Morning activity
	switch {
	case in.EarlyScore >= 25:
		add(models.Badge{
			ID:          "early_bird",
			Icon:        "🐦",
			Title:       "Early Bird",
			Description: fmt.Sprintf("%.0f%% of downloads before 9am", in.EarlyScore),
			Tier:        TierGold,
			Special:     in.EarlyScore >= 40,
		})
	case in.EarlyScore >= 15:
		add(models.Badge{
			ID:          "morning_person",
			Icon:        "🌅",
			Title:       "Morning Person",
			Description: fmt.Sprintf("%.0f%% of activity before 9am", in.EarlyScore),
			Tier:        TierSilver,
		})
	}

	// Weekend activity
	switch {
	case in.WeekendScore >= 40:
		add(models.Badge{
			ID:          "weekend_warrior",
			Icon:        "🏖️",
			Title:       "Weekend Warrior",
			Description: fmt.Sprintf("%.0f%% of downloads on weekends", in.WeekendScore),
			Tier:        TierGold,
			Special:     in.WeekendScore >= 50,
		})
	case in.WeekendScore >= 25:
		add(models.Badge{
			ID:          "flexible_schedule",
			Icon:        "📅",
			Title:       "Flexible Schedule",
			Description: fmt.Sprintf("%.0f%% weekend activity", in.WeekendScore),
			Tier:        TierSilver,
		})
	}

	// Download volume
	switch {
	case in.FileCount >= 10000:
		add(models.Badge{
			ID:          "data_hoarder",
			Icon:        "📦",
			Title:       "Data Hoarder",
			Description: fmt.Sprintf("Downloaded %s files this year", formatCount(in.FileCount)),
			Tier:        TierGold,
			Special:     in.FileCount >= 50000,
		})
	case in.FileCount >= 5000:
		add(models.Badge{
			ID:          "data_curator",
			Icon:        "📚",
			Title:       "Data Curator",
			Description: fmt.Sprintf("Downloaded %s files", formatCount(in.FileCount)),
			Tier:        TierSilver,
		})
	case in.FileCount >= 1000:
		add(models.Badge{
			ID:          "data_collector",
			Icon:        "📥",
			Title:       "Data Collector",
			Description: fmt.Sprintf("Downloaded %s files", formatCount(in.FileCount)),
			Tier:        TierBronze,
		})
	}

	// Download size
	switch {
	case in.TotalSizeGB >= 1000:
		add(models.Badge{
			ID:          "terabyte_titan",
			Icon:        "💾",
			Title:       "Terabyte Titan",
			Description: fmt.Sprintf("Downloaded %.1f TB of data", in.TotalSizeGB/1000),
			Tier:        TierGold,
			Special:     in.TotalSizeGB >= 5000,
		})
	case in.TotalSizeGB >= 500:
		add(models.Badge{
			ID:          "data_archivist",
			Icon:        "🗄️",
			Title:       "Data Archivist",
			Description: fmt.Sprintf("Downloaded %.1f GB of data", in.TotalSizeGB),
			Tier:        TierSilver,
		})
	case in.TotalSizeGB >= 100:
		add(models.Badge{
			ID:          "data_enthusiast",
			Icon:        "💿",
			Title:       "Data Enthusiast",
			Description: fmt.Sprintf("Downloaded %.1f GB", in.TotalSizeGB),
			Tier:        TierBronze,
		})
	}

	// Consistency
	switch {
	case in.ActiveDays >= 300:
		add(models.Badge{
			ID:          "daily_dedication",
			Icon:        "🔥",
			Title:       "Daily Dedication",
			Description: fmt.Sprintf("Active %d days this year", in.ActiveDays),
			Tier:        TierGold,
			Special:     in.ActiveDays >= 350,
		})
	case in.ActiveDays >= 200:
		add(models.Badge{
			ID:          "consistent_contributor",
			Icon:        "📆",
			Title:       "Consistent Contributor",
			Description: fmt.Sprintf("Active %d days", in.ActiveDays),
			Tier:        TierSilver,
		})
	case in.ActiveDays >= 100:
		add(models.Badge{
			ID:          "regular_user",
			Icon:        "✅",
			Title:       "Regular User",
			Description: fmt.Sprintf("Active %d days", in.ActiveDays),
			Tier:        TierBronze,
		})
	}

	// Creation volume
	switch {
	case in.TotalCreations >= 1000:
		add(models.Badge{
			ID:          "content_creator",
			Icon:        "🏗️",
			Title:       "Content Creator",
			Description: fmt.Sprintf("Created %s items on Synapse", formatCount(in.TotalCreations)),
			Tier:        TierGold,
			Special:     in.TotalCreations >= 5000,
		})
	case in.TotalCreations >= 500:
		add(models.Badge{
			ID:          "active_creator",
			Icon:        "✏️",
			Title:       "Active Creator",
			Description: fmt.Sprintf("Created %s items", formatCount(in.TotalCreations)),
			Tier:        TierSilver,
		})
	case in.TotalCreations >= 100:
		add(models.Badge{
			ID:          "contributor",
			Icon:        "📝",
			Title:       "Contributor",
			Description: fmt.Sprintf("Created %s items", formatCount(in.TotalCreations)),
			Tier:        TierBronze,
		})
	}

	if in.FilesCreated >= 1000 {
		add(models.Badge{
			ID:          "file_factory",
			Icon:        "📄",
			Title:       "File Factory",
			Description: fmt.Sprintf("Created %s files", formatCount(in.FilesCreated)),
			Tier:        TierGold,
			Special:     in.FilesCreated >= 5000,
		})
	}

	// File size preference
	switch {
	case in.ComparisonRatio >= 2.0:
		add(models.Badge{
			ID:          "big_data_lover",
			Icon:        "🐋",
			Title:       "Big Data Lover",
			Description: fmt.Sprintf("Prefers files %.1fx larger than average", in.ComparisonRatio),
			Tier:        TierGold,
			Special:     in.ComparisonRatio >= 3.0,
		})
	case in.ComparisonRatio > 0 && in.ComparisonRatio <= 0.5:
		add(models.Badge{
			ID:          "lightweight_champion",
			Icon:        "⚡",
			Title:       "Lightweight Champion",
			Description: "Prefers smaller, efficient files",
			Tier:        TierGold,
			Special:     in.ComparisonRatio <= 0.3,
		})
	}

	// Peak day intensity
	switch {
	case in.BusiestDayDownloads >= 1000:
		add(models.Badge{
			ID:          "power_session",
			Icon:        "💥",
			Title:       "Power Session",
			Description: fmt.Sprintf("Peak day: %s downloads", formatCount(in.BusiestDayDownloads)),
			Tier:        TierGold,
			Special:     in.BusiestDayDownloads >= 5000,
		})
	case in.BusiestDayDownloads >= 500:
		add(models.Badge{
			ID:          "intense_day",
			Icon:        "📈",
			Title:       "Intense Day",
			Description: fmt.Sprintf("Peak day: %s downloads", formatCount(in.BusiestDayDownloads)),
			Tier:        TierSilver,
		})
	}

	// Collaboration
	switch {
	case in.CollaboratorCount >= 20:
		add(models.Badge{
			ID:          "social_butterfly",
			Icon:        "🤝",
			Title:       "Social Butterfly",
			Description: fmt.Sprintf("Connected with %d researchers", in.CollaboratorCount),
			Tier:        TierGold,
			Special:     in.CollaboratorCount >= 50,
		})
	case in.CollaboratorCount >= 10:
		add(models.Badge{
			ID:          "team_player",
			Icon:        "👥",
			Title:       "Team Player",
			Description: fmt.Sprintf("Connected with %d researchers", in.CollaboratorCount),
			Tier:        TierSilver,
		})
	case in.CollaboratorCount >= 5:
		add(models.Badge{
			ID:          "network_builder",
			Icon:        "🔗",
			Title:       "Network Builder",
			Description: fmt.Sprintf("Connected with %d researchers", in.CollaboratorCount),
			Tier:        TierBronze,
		})
	}

	return badges
}

// formatCount renders an integer with comma separators.
func formatCount(n int64) string {
	s := strconv.FormatInt(n, 10)
	neg := false
	if len(s) > 0 && s[0] == '-' {
		neg = true
		s = s[1:]
	}
	if len(s) <= 3 {
		if neg {
			return "-" + s
		}
		return s
	}

	var out []byte
	lead := len(s) % 3
	if lead > 0 {
		out = append(out, s[:lead]...)
	}
	for i := lead; i < len(s); i += 3 {
		if len(out) > 0 {
			out = append(out, ',')
		}
		out = append(out, s[i:i+3]...)
	}
	if neg {
		return "-" + string(out)
	}
	return string(out)
}
