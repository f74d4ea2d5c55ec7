// Synapse Wrapped - Annual Activity Reports for Synapse Users
// Copyright 2026 Sage Bionetworks
// SPDX-License-Identifier: Apache-2.0

// Package queries builds the warehouse SQL for annual activity reports.
//
// Every builder is a pure function returning a Query with bind
// placeholders for all user-supplied values. Identifiers are never
// interpolated from input. Each Query also declares the column set it
// expects back, which the execution layer enforces.
package queries

import (
	"fmt"
)

// Query is a single parameterized warehouse statement.
type Query struct {
	// Name identifies the query in errors and logs.
	Name string

	// Text is the SQL with ? bind placeholders.
	Text string

	// Args are the bind values, in placeholder order.
	Args []any

	// Columns is the exact lowercase column set the statement returns.
	Columns []string
}

// yearRange returns the inclusive record_date bounds for a report year.
func yearRange(year int) (string, string) {
	return fmt.Sprintf("%d-01-01", year), fmt.Sprintf("%d-12-31", year)
}

// UserIDFromUsername resolves a username or email to a numeric user ID,
// case-insensitively.
func UserIDFromUsername(username string) Query {
	return Query{
		Name: "user_id_from_username",
		Text: `
SELECT
    id AS user_id,
    user_name,
    email
FROM
    synapse_data_warehouse.synapse.userprofile_latest
WHERE
    LOWER(user_name) = LOWER(?)
    OR LOWER(email) = LOWER(?)
LIMIT 1`,
		Args:    []any{username, username},
		Columns: []string{"user_id", "user_name", "email"},
	}
}

// FilesDownloaded returns distinct file count, total bytes, and distinct
// project count for the user's downloads in the year.
func FilesDownloaded(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "files_downloaded",
		Text: `
SELECT
    COUNT(DISTINCT od.file_handle_id) AS file_count,
    SUM(fl.content_size) AS total_size_bytes,
    COUNT(DISTINCT od.project_id) AS project_count
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
JOIN
    synapse_data_warehouse.synapse.file_latest fl
ON
    fl.id = od.file_handle_id
WHERE
    od.user_id = ?
    AND od.record_date BETWEEN ? AND ?`,
		Args:    []any{userID, start, end},
		Columns: []string{"file_count", "total_size_bytes", "project_count"},
	}
}

// TopProjects returns the user's most-downloaded-from projects. Project
// display names prefer the studyName annotation, then the node name,
// then the bare ID.
func TopProjects(userID int64, year, limit int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "top_projects",
		Text: `
WITH project_access AS (
    SELECT
        od.project_id,
        COUNT(DISTINCT od.file_handle_id) AS file_count,
        SUM(fl.content_size) AS total_size_bytes,
        COUNT(DISTINCT DATE(od.record_date)) AS access_days
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event od
    JOIN
        synapse_data_warehouse.synapse.file_latest fl
    ON
        fl.id = od.file_handle_id
    WHERE
        od.user_id = ?
        AND od.record_date BETWEEN ? AND ?
    GROUP BY
        od.project_id
)
SELECT
    pa.project_id,
    COALESCE(
        JSON_EXTRACT_PATH_TEXT(nl.annotations, 'annotations.studyName.value[0]'),
        nl.name,
        CAST(pa.project_id AS VARCHAR)
    ) AS project_name,
    pa.file_count,
    pa.total_size_bytes,
    pa.access_days
FROM
    project_access pa
LEFT JOIN
    synapse_data_warehouse.synapse.node_latest nl
ON
    pa.project_id = nl.id AND nl.node_type = 'project'
ORDER BY
    pa.file_count DESC, pa.access_days DESC
LIMIT ?`,
		Args:    []any{userID, start, end, limit},
		Columns: []string{"project_id", "project_name", "file_count", "total_size_bytes", "access_days"},
	}
}

// AllProjects returns every project the user downloaded from, with
// display names, for the word cloud.
func AllProjects(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "all_projects",
		Text: `
WITH project_access AS (
    SELECT DISTINCT
        od.project_id
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event od
    WHERE
        od.user_id = ?
        AND od.record_date BETWEEN ? AND ?
)
SELECT
    pa.project_id,
    COALESCE(
        JSON_EXTRACT_PATH_TEXT(nl.annotations, 'annotations.studyName.value[0]'),
        nl.name,
        CAST(pa.project_id AS VARCHAR)
    ) AS project_name
FROM
    project_access pa
LEFT JOIN
    synapse_data_warehouse.synapse.node_latest nl
ON
    pa.project_id = nl.id AND nl.node_type = 'project'`,
		Args:    []any{userID, start, end},
		Columns: []string{"project_id", "project_name"},
	}
}

// ActiveDays counts distinct calendar days with at least one download.
func ActiveDays(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "active_days",
		Text: `
SELECT
    COUNT(DISTINCT DATE(record_date)) AS active_days
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event
WHERE
    user_id = ?
    AND record_date BETWEEN ? AND ?`,
		Args:    []any{userID, start, end},
		Columns: []string{"active_days"},
	}
}

// Creations counts entities the user created, grouped by node type.
func Creations(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "creations",
		Text: `
SELECT
    node_type,
    COUNT(*) AS creation_count
FROM
    synapse_data_warehouse.synapse.node_latest
WHERE
    created_by = ?
    AND created_on BETWEEN ? AND ?
GROUP BY
    node_type`,
		Args:    []any{userID, start, end},
		Columns: []string{"node_type", "creation_count"},
	}
}

// CollaborationNetwork returns every other user with downloads
// overlapping the target user's, weighted by shared file count.
func CollaborationNetwork(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "collaboration_network",
		Text: `
WITH target_user_files AS (
    SELECT DISTINCT
        od.file_handle_id
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event od
    WHERE
        od.user_id = ?
        AND od.record_date BETWEEN ? AND ?
),
other_user_files AS (
    SELECT DISTINCT
        od.user_id,
        od.file_handle_id
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event od
    WHERE
        od.user_id != ?
        AND od.record_date BETWEEN ? AND ?
),
overlapping_files AS (
    SELECT
        ouf.user_id,
        COUNT(DISTINCT ouf.file_handle_id) AS overlapping_file_count
    FROM
        other_user_files ouf
    INNER JOIN
        target_user_files tuf
    ON
        ouf.file_handle_id = tuf.file_handle_id
    GROUP BY
        ouf.user_id
)
SELECT
    user_id,
    overlapping_file_count AS shared_files
FROM
    overlapping_files
WHERE
    overlapping_file_count > 0
ORDER BY
    shared_files DESC`,
		Args:    []any{userID, start, end, userID, start, end},
		Columns: []string{"user_id", "shared_files"},
	}
}

// TopCollaborators returns the users with the most overlapping downloads,
// with profile names where available.
func TopCollaborators(userID int64, year, limit int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "top_collaborators",
		Text: `
WITH target_user_files AS (
    SELECT DISTINCT
        od.file_handle_id,
        od.project_id
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event od
    WHERE
        od.user_id = ?
        AND od.record_date BETWEEN ? AND ?
),
other_user_files AS (
    SELECT DISTINCT
        od.user_id,
        od.file_handle_id,
        od.project_id
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event od
    WHERE
        od.user_id != ?
        AND od.record_date BETWEEN ? AND ?
),
overlapping_files AS (
    SELECT
        ouf.user_id,
        COUNT(DISTINCT ouf.file_handle_id) AS shared_files,
        COUNT(DISTINCT ouf.project_id) AS shared_projects
    FROM
        other_user_files ouf
    INNER JOIN
        target_user_files tuf
    ON
        ouf.file_handle_id = tuf.file_handle_id
    GROUP BY
        ouf.user_id
)
SELECT
    ovf.user_id,
    ovf.shared_projects,
    ovf.shared_files,
    COALESCE(up.user_name, CAST(ovf.user_id AS VARCHAR)) AS collaborator_name
FROM
    overlapping_files ovf
LEFT JOIN
    synapse_data_warehouse.synapse.userprofile_latest up
ON
    ovf.user_id = up.id
WHERE
    ovf.shared_files > 0
ORDER BY
    ovf.shared_files DESC
LIMIT ?`,
		Args:    []any{userID, start, end, userID, start, end, limit},
		Columns: []string{"user_id", "shared_projects", "shared_files", "collaborator_name"},
	}
}

// ActivityByDate returns daily download counts for the heatmap.
func ActivityByDate(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "activity_by_date",
		Text: `
SELECT
    DATE(record_date) AS activity_date,
    COUNT(*) AS activity_count
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event
WHERE
    user_id = ?
    AND record_date BETWEEN ? AND ?
GROUP BY
    DATE(record_date)
ORDER BY
    activity_date`,
		Args:    []any{userID, start, end},
		Columns: []string{"activity_date", "activity_count"},
	}
}

// CreationsByDate returns daily entity creation counts.
func CreationsByDate(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "creations_by_date",
		Text: `
SELECT
    DATE(created_on) AS creation_date,
    COUNT(*) AS creation_count
FROM
    synapse_data_warehouse.synapse.node_latest
WHERE
    created_by = ?
    AND created_on BETWEEN ? AND ?
GROUP BY
    DATE(created_on)
ORDER BY
    creation_date`,
		Args:    []any{userID, start, end},
		Columns: []string{"creation_date", "creation_count"},
	}
}

// ActivityByMonth returns a monthly activity summary.
func ActivityByMonth(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "activity_by_month",
		Text: `
SELECT
    DATE_TRUNC('month', record_date) AS month,
    COUNT(DISTINCT DATE(record_date)) AS active_days,
    COUNT(DISTINCT file_handle_id) AS files_downloaded,
    COUNT(DISTINCT project_id) AS projects_accessed
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event
WHERE
    user_id = ?
    AND record_date BETWEEN ? AND ?
GROUP BY
    DATE_TRUNC('month', record_date)
ORDER BY
    month`,
		Args:    []any{userID, start, end},
		Columns: []string{"month", "active_days", "files_downloaded", "projects_accessed"},
	}
}

// ActivityByHour returns download counts per local hour of day.
func ActivityByHour(userID int64, year int, timezone string) Query {
	start, end := yearRange(year)
	return Query{
		Name: "activity_by_hour",
		Text: `
SELECT
    DATE_PART('hour', CONVERT_TIMEZONE('UTC', ?, timestamp)) AS hour_of_day,
    COUNT(*) AS download_count,
    COUNT(DISTINCT file_handle_id) AS unique_files
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event
WHERE
    user_id = ?
    AND record_date BETWEEN ? AND ?
GROUP BY
    DATE_PART('hour', CONVERT_TIMEZONE('UTC', ?, timestamp))
ORDER BY hour_of_day`,
		Args:    []any{timezone, userID, start, end, timezone},
		Columns: []string{"hour_of_day", "download_count", "unique_files"},
	}
}

// TimePatterns returns the raw counts behind the night/early/weekend
// activity scores, evaluated in the given timezone. Night is 18:00-05:59,
// early is 05:00-08:59, weekend is Saturday and Sunday.
func TimePatterns(userID int64, year int, timezone string) Query {
	start, end := yearRange(year)
	return Query{
		Name: "time_patterns",
		Text: `
WITH download_times AS (
    SELECT
        DATE_PART('hour', CONVERT_TIMEZONE('UTC', ?, timestamp)) AS hour_of_day,
        DAYOFWEEK(CONVERT_TIMEZONE('UTC', ?, timestamp)) AS day_of_week
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event
    WHERE
        user_id = ?
        AND record_date BETWEEN ? AND ?
)
SELECT
    COUNT(*) AS total_downloads,
    SUM(CASE WHEN hour_of_day >= 18 OR hour_of_day < 6 THEN 1 ELSE 0 END) AS night_downloads,
    SUM(CASE WHEN hour_of_day >= 5 AND hour_of_day < 9 THEN 1 ELSE 0 END) AS early_downloads,
    SUM(CASE WHEN day_of_week IN (0, 6) THEN 1 ELSE 0 END) AS weekend_downloads,
    SUM(CASE WHEN day_of_week NOT IN (0, 6) THEN 1 ELSE 0 END) AS weekday_downloads
FROM download_times`,
		Args:    []any{timezone, timezone, userID, start, end},
		Columns: []string{"total_downloads", "night_downloads", "early_downloads", "weekend_downloads", "weekday_downloads"},
	}
}

// FirstDownload returns the user's first download event of the year.
func FirstDownload(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "first_download",
		Text: `
SELECT
    od.record_date AS first_download_date,
    COALESCE(nl.name, CONCAT('syn', od.file_handle_id)) AS file_name,
    COALESCE(
        JSON_EXTRACT_PATH_TEXT(pn.annotations, 'annotations.studyName.value[0]'),
        pn.name,
        CAST(od.project_id AS VARCHAR)
    ) AS project_name
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
LEFT JOIN
    synapse_data_warehouse.synapse.node_latest nl
ON
    od.file_handle_id = nl.file_handle_id
LEFT JOIN
    synapse_data_warehouse.synapse.node_latest pn
ON
    od.project_id = pn.id AND pn.node_type = 'project'
WHERE
    od.user_id = ?
    AND od.record_date BETWEEN ? AND ?
ORDER BY
    od.record_date ASC
LIMIT 1`,
		Args:    []any{userID, start, end},
		Columns: []string{"first_download_date", "file_name", "project_name"},
	}
}

// BusiestDay returns the user's heaviest download day of the year.
func BusiestDay(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "busiest_day",
		Text: `
SELECT
    DATE(od.record_date) AS busiest_date,
    COUNT(*) AS download_count,
    COUNT(DISTINCT od.file_handle_id) AS unique_files,
    COUNT(DISTINCT od.project_id) AS projects_accessed,
    SUM(fl.content_size) AS total_size_bytes
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
JOIN
    synapse_data_warehouse.synapse.file_latest fl
ON
    fl.id = od.file_handle_id
WHERE
    od.user_id = ?
    AND od.record_date BETWEEN ? AND ?
GROUP BY
    DATE(od.record_date)
ORDER BY
    download_count DESC
LIMIT 1`,
		Args:    []any{userID, start, end},
		Columns: []string{"busiest_date", "download_count", "unique_files", "projects_accessed", "total_size_bytes"},
	}
}

// LargestDownload returns the largest single file the user downloaded.
func LargestDownload(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "largest_download",
		Text: `
SELECT DISTINCT
    od.file_handle_id,
    COALESCE(nl.name, CONCAT('syn', nl.id)) AS file_name,
    fl.content_size,
    od.record_date,
    COALESCE(
        JSON_EXTRACT_PATH_TEXT(pn.annotations, 'annotations.studyName.value[0]'),
        pn.name,
        CAST(od.project_id AS VARCHAR)
    ) AS project_name
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
JOIN
    synapse_data_warehouse.synapse.file_latest fl ON od.file_handle_id = fl.id
LEFT JOIN
    synapse_data_warehouse.synapse.node_latest nl ON od.file_handle_id = nl.file_handle_id
LEFT JOIN
    synapse_data_warehouse.synapse.node_latest pn ON od.project_id = pn.id AND pn.node_type = 'project'
WHERE
    od.user_id = ?
    AND od.record_date BETWEEN ? AND ?
    AND fl.content_size IS NOT NULL
ORDER BY fl.content_size DESC
LIMIT 1`,
		Args:    []any{userID, start, end},
		Columns: []string{"file_handle_id", "file_name", "content_size", "record_date", "project_name"},
	}
}

// PlatformAverageFileSize returns the platform-wide mean and median
// downloaded file size for the year.
func PlatformAverageFileSize(year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "platform_average_file_size",
		Text: `
SELECT
    AVG(fl.content_size) AS avg_file_size,
    PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY fl.content_size) AS median_file_size
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
JOIN
    synapse_data_warehouse.synapse.file_latest fl ON od.file_handle_id = fl.id
WHERE
    od.record_date BETWEEN ? AND ?
    AND fl.content_size IS NOT NULL
    AND fl.content_size > 0`,
		Args:    []any{start, end},
		Columns: []string{"avg_file_size", "median_file_size"},
	}
}

// UserAverageFileSize returns the user's mean and median downloaded
// file size for the year.
func UserAverageFileSize(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "user_average_file_size",
		Text: `
SELECT
    AVG(fl.content_size) AS avg_file_size,
    PERCENTILE_CONT(0.5) WITHIN GROUP (ORDER BY fl.content_size) AS median_file_size
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
JOIN
    synapse_data_warehouse.synapse.file_latest fl ON od.file_handle_id = fl.id
WHERE
    od.user_id = ?
    AND od.record_date BETWEEN ? AND ?
    AND fl.content_size IS NOT NULL
    AND fl.content_size > 0`,
		Args:    []any{userID, start, end},
		Columns: []string{"avg_file_size", "median_file_size"},
	}
}

// MonthlyDownloadSize returns per-month download volume for the
// cumulative growth chart.
func MonthlyDownloadSize(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "monthly_download_size",
		Text: `
SELECT
    DATE_TRUNC('month', od.record_date) AS month,
    SUM(fl.content_size) AS total_size_bytes,
    COUNT(DISTINCT od.file_handle_id) AS file_count
FROM
    synapse_data_warehouse.synapse_event.objectdownload_event od
JOIN
    synapse_data_warehouse.synapse.file_latest fl ON od.file_handle_id = fl.id
WHERE
    od.user_id = ?
    AND od.record_date BETWEEN ? AND ?
GROUP BY
    DATE_TRUNC('month', od.record_date)
ORDER BY
    month`,
		Args:    []any{userID, start, end},
		Columns: []string{"month", "total_size_bytes", "file_count"},
	}
}

// PlatformDownloadRanking returns the user's percentile among all
// downloaders. PERCENT_RANK is ordered descending so the heaviest
// downloader ranks at 0 and the lightest at 1.
func PlatformDownloadRanking(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "platform_download_ranking",
		Text: `
WITH user_totals AS (
    SELECT
        user_id,
        COUNT(DISTINCT file_handle_id) AS total_files
    FROM
        synapse_data_warehouse.synapse_event.objectdownload_event
    WHERE
        record_date BETWEEN ? AND ?
    GROUP BY
        user_id
),
ranked_users AS (
    SELECT
        user_id,
        total_files,
        PERCENT_RANK() OVER (ORDER BY total_files DESC) AS percentile_rank
    FROM user_totals
)
SELECT
    user_id,
    total_files,
    percentile_rank,
    (SELECT COUNT(*) FROM user_totals) AS total_users
FROM ranked_users
WHERE user_id = ?`,
		Args:    []any{start, end, userID},
		Columns: []string{"user_id", "total_files", "percentile_rank", "total_users"},
	}
}

// AccessRequirements counts the user's downloaded-from projects that
// carry access restrictions versus those that are open.
func AccessRequirements(userID int64, year int) Query {
	start, end := yearRange(year)
	return Query{
		Name: "access_requirements",
		Text: `
WITH user_projects AS (
    SELECT DISTINCT project_id
    FROM synapse_data_warehouse.synapse_event.objectdownload_event
    WHERE user_id = ?
    AND record_date BETWEEN ? AND ?
),
project_ars AS (
    SELECT
        up.project_id,
        ar.value AS ar_id
    FROM user_projects up
    JOIN synapse_data_warehouse.synapse.node_latest nl ON up.project_id = nl.id
    CROSS JOIN LATERAL FLATTEN(input => nl.effective_ars, OUTER => TRUE) ar
    WHERE nl.node_type = 'project'
)
SELECT
    COUNT(DISTINCT up.project_id) AS total_projects,
    COUNT(DISTINCT CASE WHEN pa.ar_id IS NOT NULL THEN up.project_id END) AS controlled_projects,
    COUNT(DISTINCT CASE WHEN pa.ar_id IS NULL THEN up.project_id END) AS open_projects
FROM user_projects up
LEFT JOIN project_ars pa ON up.project_id = pa.project_id`,
		Args:    []any{userID, start, end},
		Columns: []string{"total_projects", "controlled_projects", "open_projects"},
	}
}
