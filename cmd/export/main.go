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

// Genesys Cloud — User Time Export
//
// One-shot CLI tool that collects per-user presence and routing-status time
// aggregates from the Genesys Cloud analytics API for an inclusive date
// range and writes them as a semicolon-delimited CSV.
//
// Usage:
//
//	go run ./cmd/export/ --start 01/03/2026 --end 07/03/2026 \
//	    --users john.doe,jane.roe [--out march-week1.csv]
package main

import (
	"context"
	"flag"
	"fmt"
	"log/slog"
	"os"
	"strings"
	"time"

	"github.com/gstvbatista/gc-get-user-time/internal/auth"
	"github.com/gstvbatista/gc-get-user-time/internal/batch"
	"github.com/gstvbatista/gc-get-user-time/internal/config"
	"github.com/gstvbatista/gc-get-user-time/internal/export"
	"github.com/gstvbatista/gc-get-user-time/internal/models"
)

// dateLayout matches the DD/MM/YYYY convention used across input, logs and
// the exported file.
const dateLayout = "02/01/2006"

func main() {
	// Structured JSON logging
	logger := slog.New(slog.NewJSONHandler(os.Stdout, &slog.HandlerOptions{
		Level: slog.LevelInfo,
	}))
	slog.SetDefault(logger)

	// --- CLI Flags ---
	startFlag := flag.String("start", "", "Start date, DD/MM/YYYY (required)")
	endFlag := flag.String("end", "", "End date, DD/MM/YYYY (required; must not precede start)")
	usersFlag := flag.String("users", "", "Comma-separated login names (local part of the email)")
	usersFileFlag := flag.String("users-file", "", "File with one login name per line (alternative to --users)")
	outFlag := flag.String("out", "", "Output CSV path (default <DDMMYYYY>-<DDMMYYYY>.csv)")
	flag.Parse()

	if *startFlag == "" || *endFlag == "" {
		fmt.Fprintf(os.Stderr, "Error: --start and --end are required\n\n")
		flag.Usage()
		os.Exit(1)
	}

	startDate, err := time.ParseInLocation(dateLayout, *startFlag, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --start date %q: use DD/MM/YYYY\n", *startFlag)
		os.Exit(1)
	}
	endDate, err := time.ParseInLocation(dateLayout, *endFlag, time.UTC)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: invalid --end date %q: use DD/MM/YYYY\n", *endFlag)
		os.Exit(1)
	}

	dateRange, err := models.NewDateRange(startDate, endDate)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}

	logins, err := resolveLogins(*usersFlag, *usersFileFlag)
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
	if len(logins) == 0 {
		fmt.Fprintf(os.Stderr, "Error: provide at least one login via --users or --users-file\n")
		os.Exit(1)
	}

	outPath := *outFlag
	if outPath == "" {
		outPath = fmt.Sprintf("%s-%s.csv",
			dateRange.Start.Format("02012006"),
			dateRange.End.Format("02012006"),
		)
	}

	// --- Load Configuration ---
	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load configuration", "error", err)
		os.Exit(1)
	}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	tokenURL := fmt.Sprintf("https://login.%s/oauth/token", cfg.Environment)
	apiBaseURL := fmt.Sprintf("https://api.%s", cfg.Environment)

	authClient := auth.NewClient(cfg, tokenURL)

	orchestrator := batch.New(batch.Config{
		Auth:       authClient,
		APIBaseURL: apiBaseURL,
	})

	// --- Run Batch ---
	rows, err := orchestrator.Run(ctx, logins, dateRange, func(ev models.ProgressEvent) {
		slog.Info("progress", "percent", ev.Percent, "message", ev.Message)
	})
	if err != nil {
		slog.Error("batch run failed", "error", err)
		os.Exit(1)
	}

	// --- Export ---
	if err := export.WriteFile(outPath, rows); err != nil {
		slog.Error("failed to write export file", "error", err)
		os.Exit(1)
	}

	slog.Info("export complete",
		"file", outPath,
		"rows", len(rows),
		"users", len(logins),
		"start", dateRange.Start.Format(dateLayout),
		"end", dateRange.End.Format(dateLayout),
	)
}

// resolveLogins merges the --users list with the --users-file contents,
// trimming blanks and keeping input order.
func resolveLogins(usersFlag, usersFileFlag string) ([]string, error) {
	var logins []string

	if usersFlag != "" {
		for _, u := range strings.Split(usersFlag, ",") {
			u = strings.TrimSpace(u)
			if u != "" {
				logins = append(logins, u)
			}
		}
	}

	if usersFileFlag != "" {
		data, err := os.ReadFile(usersFileFlag)
		if err != nil {
			return nil, fmt.Errorf("read users file: %w", err)
		}
		for _, line := range strings.Split(string(data), "\n") {
			line = strings.TrimSpace(line)
			if line != "" {
				logins = append(logins, line)
			}
		}
	}

	return logins, nil
}
