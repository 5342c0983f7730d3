// Copyright (c) 2026 John Earle
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package aggregate queries the analytics aggregates endpoint for one user
// and one day, reducing the metric series into named duration buckets.
package aggregate

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"time"

	"github.com/gstvbatista/gc-get-user-time/internal/directory"
	"github.com/gstvbatista/gc-get-user-time/internal/models"
)

// intervalHourUTC anchors the 24-hour query window at 03:00 UTC — a
// business-timezone convention baked into the query, not configurable.
const intervalHourUTC = 3

// Fetcher issues per-day aggregation queries.
type Fetcher struct {
	httpClient *http.Client
	apiBaseURL string
}

// NewFetcher creates an aggregation fetcher. apiBaseURL is the API origin,
// e.g. https://api.{env}.
func NewFetcher(httpClient *http.Client, apiBaseURL string) *Fetcher {
	return &Fetcher{
		httpClient: httpClient,
		apiBaseURL: apiBaseURL,
	}
}

// aggregateQuery is the request body for /analytics/users/aggregates/query.
type aggregateQuery struct {
	Interval string      `json:"interval"`
	GroupBy  []string    `json:"groupBy"`
	Filter   queryFilter `json:"filter"`
	Metrics  []string    `json:"metrics"`
}

type queryFilter struct {
	Type       string           `json:"type"`
	Predicates []queryPredicate `json:"predicates"`
}

type queryPredicate struct {
	Type      string `json:"type"`
	Dimension string `json:"dimension"`
	Operator  string `json:"operator"`
	Value     string `json:"value"`
}

// DayMetrics fetches and reduces the presence/routing aggregates for one
// directory entry on one calendar day. The interval covers
// [day 03:00Z, day+1 03:00Z). Failures are reported to the caller, who
// treats a failed day as soft: skipped, not fatal.
func (f *Fetcher) DayMetrics(ctx context.Context, entry directory.Entry, day time.Time) (models.TimeBucketRow, error) {
	row := models.TimeBucketRow{
		Date:      day,
		UserID:    entry.ID,
		UserEmail: entry.Email,
	}

	query := aggregateQuery{
		Interval: dayInterval(day),
		GroupBy:  []string{"userId"},
		Filter: queryFilter{
			Type: "or",
			Predicates: []queryPredicate{
				{
					Type:      "dimension",
					Dimension: "userId",
					Operator:  "matches",
					Value:     entry.ID,
				},
			},
		},
		Metrics: []string{
			"tAgentRoutingStatus",
			"tOrganizationPresence",
			"tSystemPresence",
		},
	}

	body, err := json.Marshal(query)
	if err != nil {
		return row, fmt.Errorf("marshal aggregates query: %w", err)
	}

	queryURL := fmt.Sprintf("%s/api/v2/analytics/users/aggregates/query", f.apiBaseURL)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, queryURL, bytes.NewReader(body))
	if err != nil {
		return row, fmt.Errorf("build aggregates request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := f.httpClient.Do(req)
	if err != nil {
		return row, fmt.Errorf("fetch aggregates: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		// The caller owns the soft-failure log; carry status and body
		// on the error instead of logging here.
		respBody, _ := io.ReadAll(resp.Body)
		return row, fmt.Errorf("aggregates query returned HTTP %d: %s", resp.StatusCode, respBody)
	}

	if err := reduceAggregates(resp.Body, &row); err != nil {
		return row, fmt.Errorf("reduce aggregates: %w", err)
	}

	row.ComputeDerived()

	return row, nil
}

// dayInterval formats the fixed 24-hour window for a day, anchored at
// 03:00 UTC on both ends. The anchor is kept out of the time layout: "03"
// inside a Go layout string would be parsed as the hour verb.
func dayInterval(day time.Time) string {
	anchor := fmt.Sprintf("T%02d:00:00.000Z", intervalHourUTC)
	return day.UTC().Format("2006-01-02") + anchor + "/" +
		day.UTC().AddDate(0, 0, 1).Format("2006-01-02") + anchor
}
