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

package mapper

import (
	"net/http"

	"google.golang.org/grpc/codes"
)

// statusRule maps an incoming status to an outward value.
type statusRule struct {
	from int
	to   int
}

// reasonRule maps a raw reason label to an outward value. The label is
// normalized and validated when the mapper is built.
type reasonRule struct {
	reason string
	to     int
}

type builder struct {
	// httpOverride / grpcOverride hold exact per-status rules, in the order
	// they were given; later rules for the same status win.
	httpOverride []statusRule
	grpcOverride []statusRule

	// grpcDefaults holds per-status gRPC defaults (library + user).
	grpcDefaults map[int]int

	// httpReason / grpcReason hold per-reason rules.
	httpReason []reasonRule
	grpcReason []reasonRule

	// global fallbacks used for statuses outside 100..599.
	fallbackHTTP int
	fallbackGRPC codes.Code
}

// newBuilder creates a builder seeded with library defaults.
func newBuilder() *builder {
	b := &builder{
		grpcDefaults: make(map[int]int, len(defaultGRPC)),
		fallbackHTTP: http.StatusInternalServerError,
		fallbackGRPC: codes.Internal,
	}
	for k, v := range defaultGRPC {
		b.grpcDefaults[k] = int(v)
	}
	for r, v := range defaultGRPCReason {
		b.grpcReason = append(b.grpcReason, reasonRule{reason: r, to: int(v)})
	}
	return b
}
