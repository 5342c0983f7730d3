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

// Package batch orchestrates one export run: authenticate, fetch the
// directory, fan matched logins out across a fixed worker pool, and collect
// per-day rows while reporting coarse progress.
package batch

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/gstvbatista/gc-get-user-time/internal/aggregate"
	"github.com/gstvbatista/gc-get-user-time/internal/auth"
	"github.com/gstvbatista/gc-get-user-time/internal/directory"
	"github.com/gstvbatista/gc-get-user-time/internal/models"
)

// defaultWorkers is the fixed pool size for per-login tasks. Each worker
// fetches its login's days strictly sequentially.
const defaultWorkers = 5

// ErrNoMatch is returned when none of the requested logins exist in the
// directory. Individual unmatched logins are silently dropped.
var ErrNoMatch = errors.New("no requested login matched the user directory")

// ProgressFunc receives progress events as the run advances. It is always
// invoked from the coordinating goroutine, never concurrently.
type ProgressFunc func(models.ProgressEvent)

// Config holds dependencies for the orchestrator.
type Config struct {
	Auth       *auth.Client
	APIBaseURL string
	Workers    int // defaults to 5
}

// Orchestrator runs one end-to-end batch.
type Orchestrator struct {
	authClient *auth.Client
	apiBaseURL string
	workers    int
}

// New creates a batch orchestrator.
func New(cfg Config) *Orchestrator {
	workers := cfg.Workers
	if workers <= 0 {
		workers = defaultWorkers
	}
	return &Orchestrator{
		authClient: cfg.Auth,
		apiBaseURL: cfg.APIBaseURL,
		workers:    workers,
	}
}

// task is one matched login dispatched to the pool.
type task struct {
	login string
	entry directory.Entry
}

// taskResult is one completed per-login task, drained by the coordinator.
type taskResult struct {
	login string
	rows  []models.TimeBucketRow
	err   error
}

// Run executes one batch for the given logins and date range. Fatal errors
// (auth, directory, zero matches) abort before any parallel work; per-day
// and per-login failures are absorbed and surface only as missing rows.
func (o *Orchestrator) Run(ctx context.Context, logins []string, dr models.DateRange, progress ProgressFunc) ([]models.TimeBucketRow, error) {
	if progress == nil {
		progress = func(models.ProgressEvent) {}
	}

	runID := uuid.New().String()
	start := time.Now()

	slog.Info("starting batch run",
		"run_id", runID,
		"logins", len(logins),
		"start", dr.Start.Format("02/01/2006"),
		"end", dr.End.Format("02/01/2006"),
	)

	progress(models.ProgressEvent{Percent: 0, Message: "starting batch run"})

	progress(models.ProgressEvent{Percent: 5, Message: "authenticating"})
	token, err := o.authClient.Authenticate(ctx)
	if err != nil {
		return nil, err
	}
	progress(models.ProgressEvent{Percent: 15, Message: "access token obtained"})

	httpClient := o.authClient.HTTPClient(ctx, token)

	dir := directory.NewFetcher(httpClient, o.apiBaseURL)
	entries, err := dir.ListAll(ctx)
	if err != nil {
		return nil, err
	}
	if len(entries) == 0 {
		return nil, &directory.Error{Err: errors.New("directory listing returned no users")}
	}
	progress(models.ProgressEvent{Percent: 20, Message: fmt.Sprintf("directory loaded: %d users", len(entries))})

	index := directory.BuildIndex(entries)

	// Match requested logins case-insensitively; unmatched logins are
	// silently dropped.
	var tasks []task
	for _, login := range logins {
		entry, ok := index[strings.ToLower(login)]
		if !ok {
			slog.Debug("login not found in directory", "run_id", runID, "login", login)
			continue
		}
		tasks = append(tasks, task{login: login, entry: entry})
	}
	if len(tasks) == 0 {
		return nil, ErrNoMatch
	}

	slog.Info("dispatching per-login tasks",
		"run_id", runID,
		"matched", len(tasks),
		"dropped", len(logins)-len(tasks),
		"workers", o.workers,
	)

	fetcher := aggregate.NewFetcher(httpClient, o.apiBaseURL)

	jobs := make(chan task)
	results := make(chan taskResult)

	var wg sync.WaitGroup
	for i := 0; i < o.workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for t := range jobs {
				rows, err := o.fetchLogin(ctx, fetcher, t.entry, dr)
				results <- taskResult{login: t.login, rows: rows, err: err}
			}
		}()
	}

	go func() {
		for _, t := range tasks {
			jobs <- t
		}
		close(jobs)
		wg.Wait()
		close(results)
	}()

	// Completion drain: the accumulator and progress counter are only
	// touched here, by this single consumer.
	var all []models.TimeBucketRow
	total := len(tasks)
	completed := 0
	for res := range results {
		completed++
		percent := 20 + (80*completed)/total

		if res.err != nil {
			slog.Error("per-login task failed",
				"run_id", runID,
				"login", res.login,
				"error", res.err,
			)
			progress(models.ProgressEvent{
				Percent: percent,
				Message: fmt.Sprintf("error processing user %s (%d of %d)", res.login, completed, total),
			})
			continue
		}

		all = append(all, res.rows...)
		progress(models.ProgressEvent{
			Percent: percent,
			Message: fmt.Sprintf("processed user %s (%d of %d)", res.login, completed, total),
		})
	}

	slog.Info("batch run complete",
		"run_id", runID,
		"rows", len(all),
		"users", total,
		"elapsed", time.Since(start),
	)

	return all, nil
}

// fetchLogin walks every day in the range sequentially for one user. A day
// that fails is skipped with a warning; the task only fails outright when
// the context is cancelled.
func (o *Orchestrator) fetchLogin(ctx context.Context, fetcher *aggregate.Fetcher, entry directory.Entry, dr models.DateRange) ([]models.TimeBucketRow, error) {
	var rows []models.TimeBucketRow

	for _, day := range dr.Days() {
		row, err := fetcher.DayMetrics(ctx, entry, day)
		if err != nil {
			if ctx.Err() != nil {
				return rows, ctx.Err()
			}
			slog.Warn("day skipped",
				"user", entry.Email,
				"day", day.Format("02/01/2006"),
				"error", err,
			)
			continue
		}
		rows = append(rows, row)
	}

	return rows, nil
}
