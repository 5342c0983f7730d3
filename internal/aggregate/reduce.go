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

package aggregate

import (
	"encoding/json"
	"fmt"
	"io"

	"github.com/gstvbatista/gc-get-user-time/internal/models"
)

// aggregateResponse represents the nested aggregates query result:
// groups → data points → metric entries.
type aggregateResponse struct {
	Results []struct {
		Data []struct {
			Metrics []struct {
				Metric    string `json:"metric"`
				Qualifier string `json:"qualifier"`
				Stats     struct {
					Sum float64 `json:"sum"`
				} `json:"stats"`
			} `json:"metrics"`
		} `json:"data"`
	} `json:"results"`
}

// metricKey identifies one metric series by family and qualifier.
type metricKey struct {
	Metric    string
	Qualifier string
}

// bucketFor maps each (metric family, qualifier) pair to the row field it
// feeds. Series not listed here (e.g. the whole tOrganizationPresence
// family) are requested but ignored, matching the upstream contract.
// SYSTEM_AWAY intentionally sources from the system-presence IDLE
// qualifier, which is distinct from the routing-status IDLE bucket.
var bucketFor = map[metricKey]func(*models.TimeBucketRow) *int64{
	{"tSystemPresence", "ON_QUEUE"}:           func(r *models.TimeBucketRow) *int64 { return &r.OnQueue },
	{"tAgentRoutingStatus", "INTERACTING"}:    func(r *models.TimeBucketRow) *int64 { return &r.Interacting },
	{"tAgentRoutingStatus", "IDLE"}:           func(r *models.TimeBucketRow) *int64 { return &r.Idle },
	{"tAgentRoutingStatus", "NOT_RESPONDING"}: func(r *models.TimeBucketRow) *int64 { return &r.NotResponding },
	{"tSystemPresence", "AVAILABLE"}:          func(r *models.TimeBucketRow) *int64 { return &r.Available },
	{"tSystemPresence", "AWAY"}:               func(r *models.TimeBucketRow) *int64 { return &r.Away },
	{"tSystemPresence", "BREAK"}:              func(r *models.TimeBucketRow) *int64 { return &r.Break },
	{"tSystemPresence", "BUSY"}:               func(r *models.TimeBucketRow) *int64 { return &r.Busy },
	{"tSystemPresence", "IDLE"}:               func(r *models.TimeBucketRow) *int64 { return &r.SystemAway },
	{"tSystemPresence", "MEAL"}:               func(r *models.TimeBucketRow) *int64 { return &r.Meal },
	{"tSystemPresence", "MEETING"}:            func(r *models.TimeBucketRow) *int64 { return &r.Meeting },
	{"tSystemPresence", "TRAINING"}:           func(r *models.TimeBucketRow) *int64 { return &r.Training },
}

// reduceAggregates flattens the nested query result into the row's duration
// buckets, summing every matching metric entry. Buckets with no matching
// series stay at zero.
func reduceAggregates(body io.Reader, row *models.TimeBucketRow) error {
	var resp aggregateResponse
	if err := json.NewDecoder(body).Decode(&resp); err != nil {
		return fmt.Errorf("decode aggregates response: %w", err)
	}

	for _, group := range resp.Results {
		for _, point := range group.Data {
			for _, m := range point.Metrics {
				field, ok := bucketFor[metricKey{Metric: m.Metric, Qualifier: m.Qualifier}]
				if !ok {
					continue
				}
				*field(row) += int64(m.Stats.Sum)
			}
		}
	}

	return nil
}
