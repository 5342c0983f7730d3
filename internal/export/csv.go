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

// Package export writes time bucket rows as a semicolon-delimited CSV file.
package export

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/gstvbatista/gc-get-user-time/internal/models"
)

// header lists the output columns in their fixed order. Downstream
// spreadsheets key on these exact names.
var header = []string{
	"DATE", "USER_ID", "USER_EMAIL", "LOGGED_IN", "ON_QUEUE", "OFF_QUEUE",
	"INTERACTING", "IDLE", "NOT_RESPONDING", "AVAILABLE", "AWAY", "BREAK",
	"BUSY", "SYSTEM_AWAY", "MEAL", "MEETING", "TRAINING",
}

// Write emits the header and one record per (user, day) row, semicolon
// delimited, dates formatted DD/MM/YYYY.
func Write(w io.Writer, rows []models.TimeBucketRow) error {
	cw := csv.NewWriter(w)
	cw.Comma = ';'

	if err := cw.Write(header); err != nil {
		return fmt.Errorf("write CSV header: %w", err)
	}

	for _, r := range rows {
		record := []string{
			r.Date.Format("02/01/2006"),
			r.UserID,
			r.UserEmail,
			strconv.FormatInt(r.LoggedIn, 10),
			strconv.FormatInt(r.OnQueue, 10),
			strconv.FormatInt(r.OffQueue, 10),
			strconv.FormatInt(r.Interacting, 10),
			strconv.FormatInt(r.Idle, 10),
			strconv.FormatInt(r.NotResponding, 10),
			strconv.FormatInt(r.Available, 10),
			strconv.FormatInt(r.Away, 10),
			strconv.FormatInt(r.Break, 10),
			strconv.FormatInt(r.Busy, 10),
			strconv.FormatInt(r.SystemAway, 10),
			strconv.FormatInt(r.Meal, 10),
			strconv.FormatInt(r.Meeting, 10),
			strconv.FormatInt(r.Training, 10),
		}
		if err := cw.Write(record); err != nil {
			return fmt.Errorf("write CSV row: %w", err)
		}
	}

	cw.Flush()
	return cw.Error()
}

// WriteFile writes the rows to path, creating or truncating it.
func WriteFile(path string, rows []models.TimeBucketRow) error {
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("create export file: %w", err)
	}

	if err := Write(f, rows); err != nil {
		f.Close()
		return err
	}

	if err := f.Close(); err != nil {
		return fmt.Errorf("close export file: %w", err)
	}

	return nil
}
