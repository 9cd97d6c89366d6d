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
	"errors"
	"fmt"

	"dirpx.dev/queryfail/reason"
	"dirpx.dev/queryfail/status"
	"google.golang.org/grpc/codes"
)

var (
	errNotErrorStatus = errors.New("not a 4xx/5xx status")
	errGRPCCode       = errors.New("not a gRPC error code")
	errEmptyReason    = errors.New("empty reason")
)

// freezeHTTPStatusRules validates per-status HTTP rules and copies them into
// a fresh map. Later rules for the same status win.
func freezeHTTPStatusRules(rules []statusRule) (map[int]int, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	dst := make(map[int]int, len(rules))
	for _, r := range rules {
		if err := status.Validate(status.Code(r.from)); err != nil {
			return nil, fmt.Errorf("mapper: invalid HTTP override source %d: %w", r.from, err)
		}
		if err := validateHTTPTarget(r.to); err != nil {
			return nil, fmt.Errorf("mapper: invalid HTTP override %d -> %d: %w", r.from, r.to, err)
		}
		dst[r.from] = r.to
	}
	return dst, nil
}

// freezeGRPCStatusRules is freezeHTTPStatusRules for gRPC targets.
func freezeGRPCStatusRules(rules []statusRule) (map[int]codes.Code, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	dst := make(map[int]codes.Code, len(rules))
	for _, r := range rules {
		if err := status.Validate(status.Code(r.from)); err != nil {
			return nil, fmt.Errorf("mapper: invalid gRPC override source %d: %w", r.from, err)
		}
		if err := validateGRPCTarget(codes.Code(r.to)); err != nil {
			return nil, fmt.Errorf("mapper: invalid gRPC override %d -> %d: %w", r.from, r.to, err)
		}
		dst[r.from] = codes.Code(r.to)
	}
	return dst, nil
}

// freezeGRPCDefaults validates and converts the builder's int-valued table.
func freezeGRPCDefaults(src map[int]int) (map[int]codes.Code, error) {
	if len(src) == 0 {
		return nil, nil
	}
	dst := make(map[int]codes.Code, len(src))
	for k, v := range src {
		if err := status.Validate(status.Code(k)); err != nil {
			return nil, fmt.Errorf("mapper: invalid gRPC default source %d: %w", k, err)
		}
		if err := validateGRPCTarget(codes.Code(v)); err != nil {
			return nil, fmt.Errorf("mapper: invalid gRPC default %d -> %d: %w", k, v, err)
		}
		dst[k] = codes.Code(v)
	}
	return dst, nil
}

// freezeHTTPReasonRules canonicalizes reasons and copies the rules.
func freezeHTTPReasonRules(rules []reasonRule) (map[string]int, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	dst := make(map[string]int, len(rules))
	for _, r := range rules {
		key, err := canonicalReason(r.reason)
		if err != nil {
			return nil, fmt.Errorf("mapper: invalid HTTP reason rule %q: %w", r.reason, err)
		}
		if err := validateHTTPTarget(r.to); err != nil {
			return nil, fmt.Errorf("mapper: invalid HTTP reason rule %q -> %d: %w", r.reason, r.to, err)
		}
		dst[key] = r.to
	}
	return dst, nil
}

// freezeGRPCReasonRules is freezeHTTPReasonRules for gRPC targets.
func freezeGRPCReasonRules(rules []reasonRule) (map[string]codes.Code, error) {
	if len(rules) == 0 {
		return nil, nil
	}
	dst := make(map[string]codes.Code, len(rules))
	for _, r := range rules {
		key, err := canonicalReason(r.reason)
		if err != nil {
			return nil, fmt.Errorf("mapper: invalid gRPC reason rule %q: %w", r.reason, err)
		}
		if err := validateGRPCTarget(codes.Code(r.to)); err != nil {
			return nil, fmt.Errorf("mapper: invalid gRPC reason rule %q -> %d: %w", r.reason, r.to, err)
		}
		dst[key] = codes.Code(r.to)
	}
	return dst, nil
}

// canonicalReason parses raw as a reason label and forbids the empty label.
func canonicalReason(raw string) (string, error) {
	r, err := reason.Parse(raw)
	if err != nil {
		return "", err
	}
	if r == reason.Empty {
		return "", errEmptyReason
	}
	return string(r), nil
}

// validateHTTPTarget reports whether s may be written as an error status.
func validateHTTPTarget(s int) error {
	if !isErrorStatus(s) {
		return errNotErrorStatus
	}
	return nil
}

// validateGRPCTarget rejects codes.OK and values outside the canonical set.
func validateGRPCTarget(c codes.Code) error {
	if c == codes.OK || c > codes.Unauthenticated {
		return errGRPCCode
	}
	return nil
}
