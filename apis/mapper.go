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

package apis

import "google.golang.org/grpc/codes"

// Mapper is an immutable, concurrency-safe view of the status rules.
// It resolves the status and reason carried by a query failure into the
// statuses actually written to HTTP and gRPC clients.
type Mapper interface {
	// HTTPStatus returns the outward HTTP status for a failure that carries
	// the given status code and reason.
	HTTPStatus(statusCode int, reason string) int

	// GRPCStatus returns the gRPC status code for the same inputs.
	GRPCStatus(statusCode int, reason string) codes.Code

	// Status resolves both HTTP and gRPC in a single call, using the same matching logic.
	Status(statusCode int, reason string) Status

	// Explain returns a human-readable description of which rule matched.
	Explain(statusCode int, reason string) string
}

// Status represents a resolved pair of transport statuses for a single failure.
type Status struct {
	HTTP int        // Resolved HTTP status code (net/http compatible).
	GRPC codes.Code // Resolved gRPC status code.
}
