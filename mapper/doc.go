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

// Package mapper provides deterministic, immutable mappings from the status
// and reason carried by a queryfail.Failure to the statuses written to HTTP
// and gRPC clients.
//
// # Overview
//
// A failure already carries an HTTP-style status, usually the one the
// downstream query engine answered with. Most of the time that status is
// surfaced as-is. The mapper exists for the cases where it should not be:
//
//   - the engine answered 500 for a timeout and the API wants 504;
//   - a 2xx/3xx status leaked into a failure and must not reach the client;
//   - a gRPC server needs a codes.Code for the same failure.
//
// # Resolution model
//
// A Mapper resolves statuses in the following order:
//
//  1. reason rule (library defaults for TIMEOUT, CANCELED, ... plus WithXReason);
//  2. exact override for the incoming status;
//  3. library default for the status (HTTP: pass 4xx/5xx through; gRPC: table);
//  4. gRPC only: family default (4xx -> FailedPrecondition, 5xx -> Internal);
//  5. global fallback (500 / codes.Internal).
//
// Reasons are matched after reason.Normalize, so "timeout" and "TIMEOUT"
// hit the same rule.
//
// # Building a mapper
//
// A Mapper is created once and reused:
//
//	m, err := mapper.New(
//	    mapper.WithHTTPReason("TIMEOUT", http.StatusGatewayTimeout),
//	    mapper.WithHTTPOverride(http.StatusNotImplemented, http.StatusBadRequest),
//	)
//	if err != nil {
//	    // invalid status or reason in a rule
//	}
//
//	st := m.Status(f.StatusCode(), f.Reason())
//
// Rules can also be loaded from YAML with LoadYAML.
//
// # Diagnostics
//
// Mapper.Explain returns a human-readable trace of how a particular
// (status, reason) was resolved. It is intended for inspection and logging,
// not for stable machine parsing.
//
// # Immutability
//
// All user-provided inputs are copied during New. After construction the
// Mapper is safe to share across handlers, goroutines and requests.
package mapper
