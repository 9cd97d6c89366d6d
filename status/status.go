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

package status

import (
	"bytes"
	"encoding"
	"errors"
	"net/http"
	"strconv"
	"strings"
)

// Code is an HTTP-style status code.
//
// It is a separate type (not just int) so that APIs can state that they
// expect a status and not an arbitrary number, and so that it satisfies the
// StatusCode() contract used by queryfail.FromError.
type Code int

// Min and Max bound the range accepted by Validate and Parse.
const (
	// Min is the lowest valid status (100 Continue).
	Min Code = 100

	// Max is the highest valid status. 599 keeps the whole 5xx block usable
	// for non-standard gateway codes.
	Max Code = 599
)

// ClientClosedRequest is the non-standard 499 status (nginx) used when the
// caller went away before the query finished. net/http has no constant for it.
const ClientClosedRequest Code = 499

// Family groups status codes by their first digit.
type Family int

const (
	// Other covers every code outside 100..599.
	Other Family = iota
	Informational
	Successful
	Redirection
	ClientError
	ServerError
)

var familyNames = [...]string{
	Other:         "other",
	Informational: "informational",
	Successful:    "successful",
	Redirection:   "redirection",
	ClientError:   "client_error",
	ServerError:   "server_error",
}

// String returns the lowercase family name, e.g. "server_error".
func (f Family) String() string {
	if f < Other || int(f) >= len(familyNames) {
		return familyNames[Other]
	}
	return familyNames[f]
}

var (
	// ErrCodeInvalid is returned when a value cannot be parsed as a status
	// code or lies outside Min..Max.
	ErrCodeInvalid = errors.New("queryfail: invalid status code")
)

var (
	_ encoding.TextMarshaler   = (*Code)(nil)
	_ encoding.TextUnmarshaler = (*Code)(nil)
)

// Parse accepts "503", " 503 " or "503 Service Unavailable" and returns the
// validated Code. Only the leading number is significant; the reason phrase,
// if any, is not checked against the canonical text.
func Parse(s string) (Code, error) {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, ' '); i >= 0 {
		s = s[:i]
	}
	n, err := strconv.Atoi(s)
	if err != nil {
		return 0, ErrCodeInvalid
	}
	c := Code(n)
	if err := Validate(c); err != nil {
		return 0, err
	}
	return c, nil
}

// MustParse is the panic-on-error variant of Parse.
func MustParse(s string) Code {
	c, err := Parse(s)
	if err != nil {
		panic(err)
	}
	return c
}

// Validate reports whether c lies in Min..Max.
func Validate(c Code) error {
	if !c.Valid() {
		return ErrCodeInvalid
	}
	return nil
}

// Valid reports whether c lies in Min..Max.
func (c Code) Valid() bool {
	return c >= Min && c <= Max
}

// StatusCode returns c as a plain int.
func (c Code) StatusCode() int {
	return int(c)
}

// Family returns the class of c.
func (c Code) Family() Family {
	if !c.Valid() {
		return Other
	}
	return Family(int(c) / 100)
}

// Text returns the reason phrase for c, e.g. "Service Unavailable".
// Unknown codes yield "".
func (c Code) Text() string {
	if c == ClientClosedRequest {
		return "Client Closed Request"
	}
	return http.StatusText(int(c))
}

// String returns "<code> <text>", or just the number when the text is unknown.
func (c Code) String() string {
	n := strconv.Itoa(int(c))
	if t := c.Text(); t != "" {
		return n + " " + t
	}
	return n
}

// MarshalText implements encoding.TextMarshaler. Only the number is written.
func (c Code) MarshalText() ([]byte, error) {
	if err := Validate(c); err != nil {
		return nil, err
	}
	return []byte(strconv.Itoa(int(c))), nil
}

// UnmarshalText implements encoding.TextUnmarshaler via Parse.
func (c *Code) UnmarshalText(text []byte) error {
	parsed, err := Parse(string(bytes.TrimSpace(text)))
	if err != nil {
		return err
	}
	*c = parsed
	return nil
}
