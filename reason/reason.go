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

package reason

import (
	"bytes"
	"encoding"
	"errors"
	"regexp"
	"strings"
)

// Reason is the canonical representation of a failure reason label.
type Reason string

// MinLength and MaxLength define the allowed length range for a canonical
// reason label.
const (
	// MinLength keeps ultra-short labels like "X" out of the catalogue.
	MinLength = 3

	// MaxLength is enough for labels like "DOWNSTREAM_RESPONSE_TOO_LARGE".
	MaxLength = 64
)

const (
	// reasonFmt is the canonical pattern for reason labels:
	//
	//	^ - start of string;
	//	[A-Z] - first character must be an uppercase ASCII letter;
	//	[A-Z0-9_]{2,63} - the rest are uppercase letters, digits or
	//	                  underscore, for a total length of 3..64;
	//	$ - end of string.
	//
	// IMPORTANT: the quantifier {2,63} is tied to MinLength / MaxLength.
	reasonFmt = `^[A-Z][A-Z0-9_]{2,63}$`
)

var reasonRe = regexp.MustCompile(reasonFmt)

var (
	// ErrReasonInvalid is returned when a value does not match the canonical
	// label format.
	ErrReasonInvalid = errors.New("queryfail: invalid reason")
)

var (
	_ encoding.TextMarshaler   = (*Reason)(nil)
	_ encoding.TextUnmarshaler = (*Reason)(nil)
)

// Empty is the zero-value reason, meaning "not classified".
var Empty Reason = ""

// Well-known labels produced by classify.Default and understood by the
// default mapper rules.
const (
	// Timeout: the downstream engine did not answer within the time budget.
	Timeout Reason = "TIMEOUT"

	// Canceled: the caller or the request context gave up on the query.
	Canceled Reason = "CANCELED"

	// Unavailable: the engine could not be reached (refused, reset, EOF).
	Unavailable Reason = "UNAVAILABLE"

	// BadRequest: the engine rejected the query as malformed or invalid.
	BadRequest Reason = "BAD_REQUEST"

	// NotFound: a datasource or segment referenced by the query is missing.
	NotFound Reason = "NOT_FOUND"

	// RateLimited: the engine throttled the caller.
	RateLimited Reason = "RATE_LIMITED"

	// Unauthorized: the engine rejected the caller's credentials.
	Unauthorized Reason = "UNAUTHORIZED"

	// Forbidden: credentials were accepted but the query is not allowed.
	Forbidden Reason = "FORBIDDEN"

	// TooLarge: the result or the request exceeded a configured size limit.
	TooLarge Reason = "TOO_LARGE"

	// BadGateway: the engine answered with something that is not a valid
	// response.
	BadGateway Reason = "BAD_GATEWAY"

	// Internal: the engine reported an internal error.
	Internal Reason = "INTERNAL"

	// Unknown: nothing better could be said about the failure.
	Unknown Reason = "UNKNOWN"
)

// Normalize brings s closer to the canonical label form:
//
//   - trims surrounding spaces;
//   - uppercases the value;
//   - replaces '-', '.', and inner spaces with '_'.
//
// It does NOT guarantee validity.
func Normalize(s string) string {
	s = strings.TrimSpace(s)
	if s == "" {
		return ""
	}
	s = strings.ToUpper(s)
	return strings.Map(func(r rune) rune {
		switch r {
		case '-', '.', ' ':
			return '_'
		}
		return r
	}, s)
}

// Parse normalizes and validates s. The empty string yields Empty without
// error, since an unclassified failure is legitimate.
func Parse(s string) (Reason, error) {
	s = Normalize(s)
	if s == "" {
		return Empty, nil
	}
	if !reasonRe.MatchString(s) {
		return Empty, ErrReasonInvalid
	}
	return Reason(s), nil
}

// MustParse is the panic-on-error variant of Parse. Unlike Parse it rejects
// the empty string.
func MustParse(s string) Reason {
	r, err := Parse(s)
	if err != nil {
		panic(err)
	}
	if r == Empty {
		panic("queryfail: empty reason in MustParse")
	}
	return r
}

// Validate checks that r is either Empty or a canonical label.
func Validate(r Reason) error {
	if r == Empty {
		return nil
	}
	if !reasonRe.MatchString(string(r)) {
		return ErrReasonInvalid
	}
	return nil
}

// String returns the label.
func (r Reason) String() string {
	return string(r)
}

// MarshalText implements encoding.TextMarshaler.
func (r Reason) MarshalText() ([]byte, error) {
	if err := Validate(r); err != nil {
		return nil, err
	}
	return []byte(r), nil
}

// UnmarshalText implements encoding.TextUnmarshaler. Whitespace-only input
// produces Empty.
func (r *Reason) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*r = parsed
	return nil
}
