// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package pageviews fetches Google Analytics pageview counts for Synapse
// project pages. It is optional: reports render without the pageview
// slide when no GA4 property is configured or the data is out of reach.
package pageviews

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"strings"
	"time"

	analyticsdata "google.golang.org/api/analyticsdata/v1beta"
	"google.golang.org/api/option"

	"github.com/allaway/synapse-wrapped/internal/config"
	"github.com/allaway/synapse-wrapped/internal/logging"
	"github.com/allaway/synapse-wrapped/internal/models"
)

// retentionDays is the GA4 event data retention ceiling (14 months).
// Date ranges older than this return nothing, so we clamp rather than
// issue queries the API would answer with empty or partial data.
const retentionDays = 426

// Client queries the GA4 Data API for one analytics property.
type Client struct {
	svc        *analyticsdata.Service
	propertyID string
	now        func() time.Time
}

// New creates a GA4 client from the pageviews configuration.
func New(ctx context.Context, cfg config.PageviewsConfig) (*Client, error) {
	if cfg.PropertyID == "" {
		return nil, fmt.Errorf("pageviews property_id is not configured")
	}
	var opts []option.ClientOption
	if cfg.CredentialsFile != "" {
		opts = append(opts, option.WithCredentialsFile(cfg.CredentialsFile))
	}
	svc, err := analyticsdata.NewService(ctx, opts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create analytics client: %w", err)
	}
	return &Client{svc: svc, propertyID: cfg.PropertyID, now: time.Now}, nil
}

// ProjectPageviews returns pageview totals for each project's entity
// page over the report year, most viewed first. Projects with no views
// are omitted. A year entirely outside the GA4 retention window yields
// an empty result, not an error.
func (c *Client) ProjectPageviews(ctx context.Context, projects []models.ProjectStat, year int) ([]models.ProjectPageviews, error) {
	if len(projects) == 0 {
		return nil, nil
	}
	start, end, ok := reportWindow(c.now(), year)
	if !ok {
		logging.Warn().Int("year", year).Msg("Report year outside analytics retention window")
		return nil, nil
	}

	req := &analyticsdata.RunReportRequest{
		DateRanges:      []*analyticsdata.DateRange{{StartDate: start, EndDate: end}},
		Dimensions:      []*analyticsdata.Dimension{{Name: "pagePath"}},
		Metrics:         []*analyticsdata.Metric{{Name: "screenPageViews"}},
		DimensionFilter: pathFilter(projects),
		Limit:           10000,
	}
	resp, err := c.svc.Properties.RunReport("properties/"+c.propertyID, req).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("analytics report failed: %w", err)
	}

	views := aggregate(resp.Rows, projects)
	logging.Debug().
		Int("projects", len(projects)).
		Int("with_views", len(views)).
		Str("start", start).
		Str("end", end).
		Msg("Fetched project pageviews")
	return views, nil
}

// reportWindow clamps the report year to the analytics retention window.
// The third return is false when no part of the year is still retained.
func reportWindow(now time.Time, year int) (string, string, bool) {
	start := time.Date(year, time.January, 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(year, time.December, 31, 0, 0, 0, 0, time.UTC)
	oldest := now.AddDate(0, 0, -retentionDays)

	if end.Before(oldest) {
		return "", "", false
	}
	if start.Before(oldest) {
		start = oldest
	}
	if end.After(now) {
		end = now
	}
	return start.Format("2006-01-02"), end.Format("2006-01-02"), true
}

// pathFilter matches any page path containing one of the projects' syn
// accessions.
func pathFilter(projects []models.ProjectStat) *analyticsdata.FilterExpression {
	exprs := make([]*analyticsdata.FilterExpression, 0, len(projects))
	for _, p := range projects {
		if p.ProjectID == 0 {
			continue
		}
		exprs = append(exprs, &analyticsdata.FilterExpression{
			Filter: &analyticsdata.Filter{
				FieldName: "pagePath",
				StringFilter: &analyticsdata.StringFilter{
					MatchType: "CONTAINS",
					Value:     "syn" + strconv.FormatInt(p.ProjectID, 10),
				},
			},
		})
	}
	if len(exprs) == 1 {
		return exprs[0]
	}
	return &analyticsdata.FilterExpression{
		OrGroup: &analyticsdata.FilterExpressionList{Expressions: exprs},
	}
}

// aggregate sums row-level pageviews into per-project totals. Paths are
// attributed to the longest matching accession so syn123 does not absorb
// syn1234's traffic.
func aggregate(rows []*analyticsdata.Row, projects []models.ProjectStat) []models.ProjectPageviews {
	type accession struct {
		id   string
		stat models.ProjectStat
	}
	accessions := make([]accession, 0, len(projects))
	for _, p := range projects {
		if p.ProjectID == 0 {
			continue
		}
		accessions = append(accessions, accession{
			id:   "syn" + strconv.FormatInt(p.ProjectID, 10),
			stat: p,
		})
	}
	// Longest accession first so prefix accessions never steal a match.
	sort.SliceStable(accessions, func(i, j int) bool {
		return len(accessions[i].id) > len(accessions[j].id)
	})

	totals := make(map[int64]int64)
	for _, row := range rows {
		if len(row.DimensionValues) == 0 || len(row.MetricValues) == 0 {
			continue
		}
		path := row.DimensionValues[0].Value
		count, err := strconv.ParseInt(row.MetricValues[0].Value, 10, 64)
		if err != nil {
			continue
		}
		for _, a := range accessions {
			if containsAccession(path, a.id) {
				totals[a.stat.ProjectID] += count
				break
			}
		}
	}

	views := make([]models.ProjectPageviews, 0, len(totals))
	for _, a := range accessions {
		if total, ok := totals[a.stat.ProjectID]; ok && total > 0 {
			views = append(views, models.ProjectPageviews{
				ProjectID: a.stat.ProjectID,
				Name:      a.stat.Name,
				Pageviews: total,
			})
			delete(totals, a.stat.ProjectID)
		}
	}
	sort.SliceStable(views, func(i, j int) bool {
		if views[i].Pageviews != views[j].Pageviews {
			return views[i].Pageviews > views[j].Pageviews
		}
		return views[i].ProjectID < views[j].ProjectID
	})
	return views
}

// containsAccession reports whether path contains the accession followed
// by a non-digit, so syn123 does not match /syn1234.
func containsAccession(path, accession string) bool {
	for i := 0; ; {
		idx := strings.Index(path[i:], accession)
		if idx < 0 {
			return false
		}
		after := i + idx + len(accession)
		if after >= len(path) || path[after] < '0' || path[after] > '9' {
			return true
		}
		i = after
	}
}
