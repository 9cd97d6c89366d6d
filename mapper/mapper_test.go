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
	"strings"
	"sync"
	"testing"

	"dirpx.dev/queryfail/apis"
	"google.golang.org/grpc/codes"
)

func TestDefaults_Sanity(t *testing.T) {
	m, err := New()
	if err != nil {
		t.Fatalf("New() error: %v", err)
	}
	check := func(status int, r string, wantHTTP int, wantGRPC codes.Code) {
		t.Helper()
		st := m.Status(status, r)
		if st.HTTP != wantHTTP || st.GRPC != wantGRPC {
			t.Fatalf("Status(%d, %q) got HTTP=%d GRPC=%v; want HTTP=%d GRPC=%v",
				status, r, st.HTTP, st.GRPC, wantHTTP, wantGRPC)
		}
	}
	check(400, "BAD_REQUEST", 400, codes.InvalidArgument)
	check(404, "", 404, codes.NotFound)
	check(503, "", 503, codes.Unavailable)
	check(504, "", 504, codes.DeadlineExceeded)
	check(499, "", 499, codes.Canceled)
	// reason defaults only affect gRPC
	check(500, "TIMEOUT", 500, codes.DeadlineExceeded)
	check(500, "canceled", 500, codes.Canceled)
	// family defaults
	check(418, "", 418, codes.FailedPrecondition)
	check(599, "", 599, codes.Internal)
	// non-error and invalid statuses never reach the client
	check(200, "", 500, codes.Unknown)
	check(0, "", 500, codes.Internal)
	check(700, "", 500, codes.Internal)
}

func TestPriority_ReasonOverOverrideOverDefault_HTTP(t *testing.T) {
	m, err := New(
		WithHTTPOverride(500, 502),
		WithHTTPReason("TIMEOUT", 504),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.HTTPStatus(500, "TIMEOUT"); got != 504 {
		t.Fatalf("reason must win; got %d, want 504", got)
	}
	if got := m.HTTPStatus(500, "INTERNAL"); got != 502 {
		t.Fatalf("override must beat default; got %d, want 502", got)
	}
	if got := m.HTTPStatus(503, "INTERNAL"); got != 503 {
		t.Fatalf("default passthrough; got %d, want 503", got)
	}
}

func TestPriority_ReasonOverOverrideOverDefault_GRPC(t *testing.T) {
	m, err := New(
		WithGRPCDefault(500, codes.Unknown),
		WithGRPCOverride(500, codes.Aborted),
		WithGRPCReason("TOO_LARGE", codes.ResourceExhausted),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.GRPCStatus(500, "too-large"); got != codes.ResourceExhausted {
		t.Fatalf("reason must win; got %v", got)
	}
	if got := m.GRPCStatus(500, ""); got != codes.Aborted {
		t.Fatalf("override must beat default; got %v", got)
	}
	m2, _ := New(WithGRPCDefault(500, codes.Unknown))
	if got := m2.GRPCStatus(500, ""); got != codes.Unknown {
		t.Fatalf("user default must replace library default; got %v", got)
	}
}

func TestGRPCReason_ReplacesLibraryDefault(t *testing.T) {
	m, err := New(WithGRPCReason("TIMEOUT", codes.Unavailable))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.GRPCStatus(500, "TIMEOUT"); got != codes.Unavailable {
		t.Fatalf("got %v, want Unavailable", got)
	}
}

func TestLaterRuleWins(t *testing.T) {
	m, err := New(
		WithHTTPOverride(500, 502),
		WithHTTPOverride(500, 503),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	if got := m.HTTPStatus(500, ""); got != 503 {
		t.Fatalf("got %d, want 503", got)
	}
}

func TestFallback_Configurable(t *testing.T) {
	m, err := New(WithFallback(502, codes.Unavailable))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	st := m.Status(-1, "")
	if st.HTTP != 502 || st.GRPC != codes.Unavailable {
		t.Fatalf("fallback not applied: %+v", st)
	}
}

func TestNew_InvalidRules(t *testing.T) {
	tests := []struct {
		name string
		opt  Option
	}{
		{"override source out of range", WithHTTPOverride(700, 500)},
		{"override target success", WithHTTPOverride(500, 200)},
		{"grpc override OK", WithGRPCOverride(500, codes.OK)},
		{"grpc override unknown code", WithGRPCOverride(500, codes.Code(42))},
		{"grpc default bad source", WithGRPCDefault(99, codes.Internal)},
		{"empty reason", WithHTTPReason("  ", 504)},
		{"invalid reason", WithGRPCReason("x", codes.Internal)},
		{"reason target success", WithHTTPReason("TIMEOUT", 204)},
		{"fallback success", WithFallback(200, codes.Internal)},
		{"fallback OK", WithFallback(500, codes.OK)},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			m, err := New(tt.opt)
			if err == nil {
				t.Fatalf("New() must fail, got mapper %v", m)
			}
			if !strings.HasPrefix(err.Error(), "mapper: ") {
				t.Fatalf("error must be prefixed: %v", err)
			}
		})
	}
}

func TestNew_NilOptionIgnored(t *testing.T) {
	if _, err := New(nil); err != nil {
		t.Fatalf("New(nil): %v", err)
	}
}

func TestExplain_Sources(t *testing.T) {
	m, err := New(WithHTTPReason("TIMEOUT", 504))
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	exp := m.Explain(500, "timeout")
	if !strings.Contains(exp, `http: source=reason reason="TIMEOUT" -> 504`) {
		t.Fatalf("Explain must include the matched reason:\n%s", exp)
	}
	if !strings.Contains(exp, `grpc:`) || !strings.Contains(exp, `http:`) {
		t.Fatalf("Explain must render both transports:\n%s", exp)
	}
}

func TestConcurrency_MapperStatus(t *testing.T) {
	m, err := New(
		WithHTTPReason("TIMEOUT", 504),
		WithHTTPOverride(501, 400),
	)
	if err != nil {
		t.Fatalf("New: %v", err)
	}
	var wg sync.WaitGroup
	for i := 0; i < 32; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 2000; j++ {
				_ = m.Status(500, "TIMEOUT")
				_ = m.Status(501, "")
				_ = m.Explain(404, "NOT_FOUND")
			}
		}()
	}
	wg.Wait()
}

func BenchmarkMapperStatus_Default(b *testing.B) {
	m, _ := New()
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = m.Status(503, "")
	}
}

func BenchmarkMapperStatus_ReasonHit(b *testing.B) {
	m, _ := New(WithHTTPReason("TIMEOUT", 504))
	b.ReportAllocs()
	for i := 0; i < b.N; i++ {
		_ = m.Status(500, "TIMEOUT")
	}
}

// Ensure mapper implements apis.Mapper
func TestMapper_InterfaceSatisfaction(t *testing.T) {
	var _ apis.Mapper = (*mapper)(nil)
}
