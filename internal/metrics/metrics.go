// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package metrics derives the report's numbers from raw query results.
// Everything here is pure; no I/O.
package metrics

import (
	"fmt"
	"math"

	"github.com/allaway/synapse-wrapped/internal/models"
)

// daysPerYear is the fixed denominator for the activity percentage.
// Leap years still divide by 365, so the figure can slightly overstate
// a leap year; it is motivational, not statistical.
const daysPerYear = 365

// round1 rounds to one decimal place.
func round1(v float64) float64 {
	return math.Round(v*10) / 10
}

// ActivePercentage converts active day count to a percentage of the year,
// rounded to one decimal.
func ActivePercentage(activeDays int) float64 {
	return round1(float64(activeDays) / daysPerYear * 100)
}

// Scores converts the raw time-of-day counts into percentage scores.
// A zero total is treated as one so an inactive user scores 0 everywhere
// instead of dividing by zero.
func Scores(total, night, early, weekend, weekday int64) models.TimePatterns {
	denom := total
	if denom == 0 {
		denom = 1
	}
	score := func(n int64) float64 {
		return round1(float64(n) / float64(denom) * 100)
	}
	return models.TimePatterns{
		TotalDownloads: total,
		NightScore:     score(night),
		EarlyScore:     score(early),
		WeekendScore:   score(weekend),
		WeekdayScore:   score(weekday),
	}
}

// TopPercent converts a raw PERCENT_RANK (0 for the heaviest downloader)
// into a "top N%" figure.
func TopPercent(percentRank float64) float64 {
	return percentRank * 100
}

// CompareSizes relates the user's average downloaded file size to the
// platform's. ComparisonPercent positions a marker on a 0-100 bar where
// 50 is the platform average.
func CompareSizes(userAvg, platformAvg float64) models.SizeComparison {
	if userAvg <= 0 || platformAvg <= 0 {
		return models.SizeComparison{
			UserAvgBytes:      userAvg,
			PlatformAvgBytes:  platformAvg,
			Ratio:             1.0,
			Text:              "Platform comparison unavailable",
			ComparisonPercent: 50,
		}
	}

	ratio := userAvg / platformAvg
	var text string
	switch {
	case ratio > 1.5:
		text = fmt.Sprintf("You download %.1fx larger files than average! 🐋", ratio)
	case ratio > 0.7:
		text = "You're right around the platform average"
	default:
		text = "You prefer smaller, lighter files"
	}

	return models.SizeComparison{
		UserAvgBytes:      userAvg,
		PlatformAvgBytes:  platformAvg,
		Ratio:             ratio,
		Text:              text,
		ComparisonPercent: math.Min(ratio*50, 100),
	}
}
