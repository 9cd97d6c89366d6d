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
	"fmt"
	"strings"

	"dirpx.dev/queryfail/apis"
	"dirpx.dev/queryfail/reason"
	"dirpx.dev/queryfail/status"
	"google.golang.org/grpc/codes"
)

// New constructs an immutable apis.Mapper snapshot.
//
// Build process overview:
//
//  1. Seed the builder with library defaults (gRPC per status and per reason).
//  2. Apply user-provided options.
//  3. Validate every rule: source statuses must lie in 100..599, HTTP
//     targets in 400..599, gRPC targets must not be codes.OK, and reasons
//     must parse as canonical labels.
//  4. Freeze all rules into freshly allocated maps.
//
// Errors returned from this function indicate an invalid rule.
func New(opts ...Option) (apis.Mapper, error) {
	b := newBuilder()
	for _, opt := range opts {
		if opt != nil {
			opt(b)
		}
	}

	if err := validateHTTPTarget(b.fallbackHTTP); err != nil {
		return nil, fmt.Errorf("mapper: invalid HTTP fallback: %w", err)
	}
	if err := validateGRPCTarget(b.fallbackGRPC); err != nil {
		return nil, fmt.Errorf("mapper: invalid gRPC fallback: %w", err)
	}

	httpOverride, err := freezeHTTPStatusRules(b.httpOverride)
	if err != nil {
		return nil, err
	}
	grpcOverride, err := freezeGRPCStatusRules(b.grpcOverride)
	if err != nil {
		return nil, err
	}
	grpcDefault, err := freezeGRPCDefaults(b.grpcDefaults)
	if err != nil {
		return nil, err
	}
	httpReason, err := freezeHTTPReasonRules(b.httpReason)
	if err != nil {
		return nil, err
	}
	grpcReason, err := freezeGRPCReasonRules(b.grpcReason)
	if err != nil {
		return nil, err
	}

	return &mapper{
		httpReason:   httpReason,
		grpcReason:   grpcReason,
		httpOverride: httpOverride,
		grpcOverride: grpcOverride,
		grpcDefault:  grpcDefault,
		fallbackHTTP: b.fallbackHTTP,
		fallbackGRPC: b.fallbackGRPC,
	}, nil
}

// mapper is the immutable apis.Mapper implementation. Lookups are a handful
// of map reads and are safe for concurrent use once constructed.
type mapper struct {
	// httpReason / grpcReason are keyed by canonical reason label.
	httpReason map[string]int
	grpcReason map[string]codes.Code

	// httpOverride / grpcOverride are keyed by the incoming status.
	httpOverride map[int]int
	grpcOverride map[int]codes.Code

	// grpcDefault holds the per-status gRPC table.
	grpcDefault map[int]codes.Code

	fallbackHTTP int
	fallbackGRPC codes.Code
}

// HTTPStatus resolves the outward HTTP status.
//
// Resolution order (highest to lowest):
//  1. reason rule;
//  2. per-status override;
//  3. the status itself when it is a 4xx/5xx;
//  4. fallback (500 unless configured).
func (m *mapper) HTTPStatus(statusCode int, r string) int {
	v, _, _ := m.resolveHTTP(statusCode, r)
	return v
}

// GRPCStatus resolves the gRPC code. Uses the same precedence as
// HTTPStatus, with a per-family default between the table and the fallback.
func (m *mapper) GRPCStatus(statusCode int, r string) codes.Code {
	v, _, _ := m.resolveGRPC(statusCode, r)
	return v
}

// Status resolves both HTTP and gRPC using the same inputs.
func (m *mapper) Status(statusCode int, r string) apis.Status {
	return apis.Status{
		HTTP: m.HTTPStatus(statusCode, r),
		GRPC: m.GRPCStatus(statusCode, r),
	}
}

// Explain produces a textual trace of how the mapper resolved HTTP and gRPC
// statuses for a particular (status, reason) pair.
//
// Example output:
//
//	status=500 reason="TIMEOUT"
//	http: source=default -> 500
//	grpc: source=reason reason="TIMEOUT" -> DEADLINEEXCEEDED(4)
//
// source ∈ {reason | override | default | family | fallback}.
func (m *mapper) Explain(statusCode int, r string) string {
	var b strings.Builder
	_, _ = fmt.Fprintf(&b, "status=%d reason=%q\n", statusCode, r)

	hv, hsrc, hkey := m.resolveHTTP(statusCode, r)
	if hsrc == srcReason {
		_, _ = fmt.Fprintf(&b, "http: source=%s reason=%q -> %d\n", hsrc, hkey, hv)
	} else {
		_, _ = fmt.Fprintf(&b, "http: source=%s -> %d\n", hsrc, hv)
	}

	gv, gsrc, gkey := m.resolveGRPC(statusCode, r)
	if gsrc == srcReason {
		_, _ = fmt.Fprintf(&b, "grpc: source=%s reason=%q -> %s", gsrc, gkey, grpcName(gv))
	} else {
		_, _ = fmt.Fprintf(&b, "grpc: source=%s -> %s", gsrc, grpcName(gv))
	}
	return b.String()
}

const (
	srcReason   = "reason"
	srcOverride = "override"
	srcDefault  = "default"
	srcFamily   = "family"
	srcFallback = "fallback"
)

// resolveHTTP returns the value, the tier that produced it and, for reason
// matches, the canonical label that matched.
func (m *mapper) resolveHTTP(statusCode int, r string) (int, string, string) {
	if key := reason.Normalize(r); key != "" {
		if v, ok := m.httpReason[key]; ok {
			return v, srcReason, key
		}
	}
	if v, ok := m.httpOverride[statusCode]; ok {
		return v, srcOverride, ""
	}
	if isErrorStatus(statusCode) {
		return statusCode, srcDefault, ""
	}
	return m.fallbackHTTP, srcFallback, ""
}

func (m *mapper) resolveGRPC(statusCode int, r string) (codes.Code, string, string) {
	if key := reason.Normalize(r); key != "" {
		if v, ok := m.grpcReason[key]; ok {
			return v, srcReason, key
		}
	}
	if v, ok := m.grpcOverride[statusCode]; ok {
		return v, srcOverride, ""
	}
	if v, ok := m.grpcDefault[statusCode]; ok {
		return v, srcDefault, ""
	}
	if v, ok := familyGRPC[status.Code(statusCode).Family()]; ok {
		return v, srcFamily, ""
	}
	return m.fallbackGRPC, srcFallback, ""
}

// grpcName renders a gRPC code as NAME(number), e.g. "UNAVAILABLE(14)".
func grpcName(c codes.Code) string {
	return fmt.Sprintf("%s(%d)", strings.ToUpper(c.String()), int(c))
}

// isErrorStatus reports whether s is a 4xx or 5xx status.
func isErrorStatus(s int) bool {
	f := status.Code(s).Family()
	return f == status.ClientError || f == status.ServerError
}
