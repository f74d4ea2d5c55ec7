// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

package metrics

import (
	"testing"

	"github.com/allaway/synapse-wrapped/internal/models"
)

func findBadge(badges []models.Badge, id string) *models.Badge {
	for i := range badges {
		if badges[i].ID == id {
			return &badges[i]
		}
	}
	return nil
}

func badgeIDs(badges []models.Badge) map[string]bool {
	ids := make(map[string]bool, len(badges))
	for _, b := range badges {
		ids[b.ID] = true
	}
	return ids
}

func TestEarnBadgesDownloadTiers(t *testing.T) {
	tests := []struct {
		fileCount int64
		wantID    string
		wantTitle string
	}{
		{999, "", ""},
		{1000, "data_collector", "Data Collector"},
		{1200, "data_collector", "Data Collector"},
		{5000, "data_curator", "Data Curator"},
		{10000, "data_hoarder", "Data Hoarder"},
		{50000, "data_hoarder", "Data Hoarder"},
	}
	for _, tt := range tests {
		badges := EarnBadges(BadgeInputs{FileCount: tt.fileCount, TopPercent: 100})
		ids := badgeIDs(badges)

		if tt.wantID == "" {
			for _, id := range []string{"data_collector", "data_curator", "data_hoarder"} {
				if ids[id] {
					t.Errorf("fileCount=%d earned %s", tt.fileCount, id)
				}
			}
			continue
		}

		b := findBadge(badges, tt.wantID)
		if b == nil {
			t.Errorf("fileCount=%d missing badge %s", tt.fileCount, tt.wantID)
			continue
		}
		if b.Title != tt.wantTitle {
			t.Errorf("fileCount=%d title = %q, want %q", tt.fileCount, b.Title, tt.wantTitle)
		}
		// Only the highest tier in the category is earned.
		count := 0
		for _, id := range []string{"data_collector", "data_curator", "data_hoarder"} {
			if ids[id] {
				count++
			}
		}
		if count != 1 {
			t.Errorf("fileCount=%d earned %d download badges, want 1", tt.fileCount, count)
		}
	}
}

// A user at 1,200 files earns Data Collector, not the higher tiers.
func TestEarnBadgesSpecExample(t *testing.T) {
	badges := EarnBadges(BadgeInputs{FileCount: 1200, TopPercent: 100})
	if findBadge(badges, "data_collector") == nil {
		t.Error("1200 files should earn Data Collector")
	}
	if findBadge(badges, "data_hoarder") != nil {
		t.Error("1200 files must not earn Data Hoarder")
	}
}

// Raising any input never removes a badge and never lowers a tier.
func TestEarnBadgesMonotonic(t *testing.T) {
	tierRank := map[string]int{"": 0, TierBronze: 1, TierSilver: 2, TierGold: 3}

	categoryTier := func(in BadgeInputs, category []string) int {
		badges := EarnBadges(in)
		best := 0
		for _, id := range category {
			if b := findBadge(badges, id); b != nil && tierRank[b.Tier] > best {
				best = tierRank[b.Tier]
			}
		}
		return best
	}

	downloads := []string{"data_collector", "data_curator", "data_hoarder"}
	prev := 0
	for _, fc := range []int64{0, 500, 1000, 4999, 5000, 9999, 10000, 100000} {
		cur := categoryTier(BadgeInputs{FileCount: fc, TopPercent: 100}, downloads)
		if cur < prev {
			t.Errorf("fileCount=%d lowered download tier from %d to %d", fc, prev, cur)
		}
		prev = cur
	}

	consistency := []string{"regular_user", "consistent_contributor", "daily_dedication"}
	prev = 0
	for _, days := range []int{0, 99, 100, 200, 299, 300, 365} {
		cur := categoryTier(BadgeInputs{ActiveDays: days, TopPercent: 100}, consistency)
		if cur < prev {
			t.Errorf("activeDays=%d lowered consistency tier from %d to %d", days, prev, cur)
		}
		prev = cur
	}
}

func TestEarnBadgesSpecialFlags(t *testing.T) {
	badges := EarnBadges(BadgeInputs{
		FileCount:    60000,
		NightScore:   75,
		TopPercent:   3,
		ProjectCount: 55,
	})

	for _, id := range []string{"data_hoarder", "night_owl", "power_user", "data_explorer"} {
		b := findBadge(badges, id)
		if b == nil {
			t.Errorf("missing badge %s", id)
			continue
		}
		if !b.Special {
			t.Errorf("badge %s should carry the special flag", id)
		}
	}
}

func TestEarnBadgesRanking(t *testing.T) {
	tests := []struct {
		topPercent float64
		wantID     string
	}{
		{3, "power_user"},
		{5, "power_user"},
		{8, "heavy_user"},
		{20, "active_researcher"},
		{30, ""},
	}
	for _, tt := range tests {
		badges := EarnBadges(BadgeInputs{TopPercent: tt.topPercent})
		ids := badgeIDs(badges)
		for _, id := range []string{"power_user", "heavy_user", "active_researcher"} {
			want := id == tt.wantID
			if ids[id] != want {
				t.Errorf("topPercent=%v: badge %s earned=%v, want %v", tt.topPercent, id, ids[id], want)
			}
		}
	}
}

func TestEarnBadgesGovernance(t *testing.T) {
	// 70%+ controlled access wins the top governance badge.
	badges := EarnBadges(BadgeInputs{ControlledProjects: 7, OpenProjects: 3, TopPercent: 100})
	if findBadge(badges, "sensitive_data_superstar") == nil {
		t.Error("70% controlled ratio should earn Sensitive Data Superstar")
	}

	// Mostly open projects with volume earns the open-science badge.
	badges = EarnBadges(BadgeInputs{ControlledProjects: 1, OpenProjects: 25, TopPercent: 100})
	if findBadge(badges, "open_data_evangelist") == nil {
		t.Error("25 open projects should earn Open Data Evangelist")
	}

	// No projects at all earns nothing in the category.
	badges = EarnBadges(BadgeInputs{TopPercent: 100})
	for _, id := range []string{"sensitive_data_superstar", "data_guardian", "open_data_evangelist", "open_science_advocate"} {
		if findBadge(badges, id) != nil {
			t.Errorf("zero projects earned governance badge %s", id)
		}
	}
}

func TestEarnBadgesZeroActivity(t *testing.T) {
	// An inactive user earns nothing. TopPercent zero-value would read as
	// "top 0%", so the assembler passes 100 for users without ranking rows.
	badges := EarnBadges(BadgeInputs{TopPercent: 100, ComparisonRatio: 1.0})
	if len(badges) != 0 {
		t.Errorf("zero activity earned %d badges: %+v", len(badges), badges)
	}
}

func TestFormatCount(t *testing.T) {
	tests := []struct {
		in   int64
		want string
	}{
		{0, "0"},
		{999, "999"},
		{1000, "1,000"},
		{1234567, "1,234,567"},
		{-4200, "-4,200"},
	}
	for _, tt := range tests {
		if got := formatCount(tt.in); got != tt.want {
			t.Errorf("formatCount(%d) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
