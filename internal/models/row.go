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

// Package models defines the data structures shared across the exporter.
package models

import "time"

// TimeBucketRow holds one user's presence and routing-status durations
// for a single calendar day. All durations are in seconds.
//
// OffQueue and LoggedIn are derived, never fetched:
//
//	OffQueue = Available + Away + Break + Busy + Meal + Meeting + Training
//	LoggedIn = OnQueue + OffQueue
type TimeBucketRow struct {
	Date      time.Time
	UserID    string
	UserEmail string

	LoggedIn      int64
	OnQueue       int64
	OffQueue      int64
	Interacting   int64
	Idle          int64
	NotResponding int64
	Available     int64
	Away          int64
	Break         int64
	Busy          int64
	SystemAway    int64
	Meal          int64
	Meeting       int64
	Training      int64
}

// ComputeDerived fills in OffQueue and LoggedIn from the fetched buckets.
func (r *TimeBucketRow) ComputeDerived() {
	r.OffQueue = r.Available + r.Away + r.Break + r.Busy + r.Meal + r.Meeting + r.Training
	r.LoggedIn = r.OnQueue + r.OffQueue
}

// ProgressEvent reports coarse batch progress to the presentation layer.
// Percent is monotonically non-decreasing across one run.
type ProgressEvent struct {
	Percent int
	Message string
}
