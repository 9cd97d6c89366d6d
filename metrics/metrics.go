/*
   Copyright 2025 The DIRPX Authors

   Licensed under the Apache License, Version 2.0 (the "License");
   you may not use this file except in compliance with the License.
   You may obtain a copy of the License at

       http://www.apache.org/licenses/LICENSE-2.0

   Unless required by applicable law or agreed to in writing, software
   distributed under the License is distributed on an "AS IS" BASIS,
   WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
   See the License for the specific language governing permissions and
   limitations under the License.
*/

// Package metrics counts rendered query failures with Prometheus.
package metrics

import (
	"errors"
	"strconv"
	"strings"

	"github.com/prometheus/client_golang/prometheus"

	"dirpx.dev/queryfail"
)

// Transport labels used by httpx and grpcx.
const (
	TransportHTTP = "http"
	TransportGRPC = "grpc"
)

// unclassified is the reason label for failures with an empty reason, so
// that they stay visible on dashboards.
const unclassified = "UNCLASSIFIED"

// Recorder counts failures by status, reason and transport.
//
// A nil *Recorder is valid and records nothing, so adapters can hold one
// unconditionally.
type Recorder struct {
	failures *prometheus.CounterVec
}

// NewRecorder creates a Recorder and registers its collector with reg.
// If reg already holds an identical collector, that one is reused.
func NewRecorder(reg prometheus.Registerer) (*Recorder, error) {
	cv := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: "queryfail",
		Name:      "failures_total",
		Help:      "Query failures rendered to clients, by carried status, reason and transport.",
	}, []string{"status", "reason", "transport"})

	if reg != nil {
		if err := reg.Register(cv); err != nil {
			var are prometheus.AlreadyRegisteredError
			if !errors.As(err, &are) {
				return nil, err
			}
			existing, ok := are.ExistingCollector.(*prometheus.CounterVec)
			if !ok {
				return nil, err
			}
			cv = existing
		}
	}
	return &Recorder{failures: cv}, nil
}

// Observe counts one failure rendered over transport. The status label is
// the status carried by the failure, not the remapped outward one. Invalid
// UTF-8 in the reason is replaced with U+FFFD.
func (r *Recorder) Observe(f *queryfail.Failure, transport string) {
	if r == nil || f == nil {
		return
	}
	reason := strings.ToValidUTF8(f.Reason(), "\uFFFD")
	if reason == "" {
		reason = unclassified
	}
	r.failures.WithLabelValues(strconv.Itoa(f.StatusCode()), reason, transport).Inc()
}

// Collector exposes the underlying collector, e.g. for tests.
func (r *Recorder) Collector() *prometheus.CounterVec {
	if r == nil {
		return nil
	}
	return r.failures
}
