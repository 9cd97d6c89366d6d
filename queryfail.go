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

// Package queryfail provides Failure, the error value that carries a failed
// downstream query back through the request pipeline to the response layer.
package queryfail

import (
	"errors"
	"fmt"
	"net/http"

	"dirpx.dev/queryfail/apis"
)

// NoValue is how an absent query or cause is rendered in a failure message.
const NoValue = "<nil>"

// messageFmt is the canonical failure message layout. Log parsers depend on
// the field order and labels, do not change it.
const messageFmt = "Reason: %s, Description: %s, statusCode: %d, query: %v, cause: %v"

// Query is the query that was executing when a failure occurred. It is
// opaque: only its String form is ever used.
type Query = fmt.Stringer

// Text is a Query whose display form is the string itself.
type Text string

// String returns t.
func (t Text) String() string { return string(t) }

// StatusType is any status representation exposing a numeric status code,
// e.g. status.Code.
type StatusType interface {
	StatusCode() int
}

// Failure is one failed attempt to execute a downstream query.
//
// It carries:
//   - StatusCode: HTTP-style status to surface to the caller;
//   - Reason: short machine-oriented classification, may be empty;
//   - Description: human-oriented explanation, may be empty;
//   - Query: the query being executed, used for display only;
//   - Cause: the underlying error, if any;
//   - Message: the canonical summary of all of the above.
//
// A Failure is immutable: every field is set by New and there are no
// setters, so a *Failure can be shared between goroutines freely.
type Failure struct {
	statusCode  int
	reason      string
	description string
	query       Query
	cause       error
	message     string
}

var (
	_ apis.StatusError    = (*Failure)(nil)
	_ apis.ReasonedError  = (*Failure)(nil)
	_ apis.DescribedError = (*Failure)(nil)
	_ apis.QueryError     = (*Failure)(nil)
	_ apis.CausedError    = (*Failure)(nil)
)

// New is the canonical constructor. cause may be nil.
//
// The message is rendered immediately, so later changes to the display form
// of q or cause do not leak into it.
func New(statusCode int, reason, description string, q Query, cause error) *Failure {
	return &Failure{
		statusCode:  statusCode,
		reason:      reason,
		description: description,
		query:       q,
		cause:       cause,
		message:     buildMessage(reason, description, statusCode, q, cause),
	}
}

// NewWithoutCause is New with a nil cause.
func NewWithoutCause(statusCode int, reason, description string, q Query) *Failure {
	return New(statusCode, reason, description, q, nil)
}

// FromError builds a failure for err, which was observed while executing q.
//
// The reason and description come from the classifier (classify.Default
// unless WithClassifier is given), the status code from st and the cause is
// err itself. A nil st is treated as 500 Internal Server Error.
//
// Usage:
//
//	resp, err := engine.Do(ctx, q)
//	if err != nil {
//	    return nil, queryfail.FromError(status.Code(http.StatusGatewayTimeout), q, err)
//	}
func FromError(st StatusType, q Query, err error, opts ...Option) *Failure {
	s := newSettings(opts)
	code := http.StatusInternalServerError
	if st != nil {
		code = st.StatusCode()
	}
	r, d := s.classifier.Classify(err)
	return New(code, r, d, q, err)
}

// buildMessage serializes the interesting state of a failure. It is a pure
// function of its arguments.
func buildMessage(reason, description string, statusCode int, q Query, cause error) string {
	var qv, cv any = NoValue, NoValue
	if q != nil {
		qv = q
	}
	if cause != nil {
		cv = cause
	}
	return fmt.Sprintf(messageFmt, reason, description, statusCode, qv, cv)
}

// StatusCode returns the HTTP-style status of the failure.
func (f *Failure) StatusCode() int { return f.statusCode }

// Reason returns the classification label.
func (f *Failure) Reason() string { return f.reason }

// Description returns the human-oriented explanation.
func (f *Failure) Description() string { return f.description }

// Query returns the query that failed. May be nil.
func (f *Failure) Query() Query { return f.query }

// Cause returns the underlying error. May be nil.
func (f *Failure) Cause() error { return f.cause }

// Message returns the canonical summary computed at construction:
//
//	Reason: <reason>, Description: <description>, statusCode: <code>, query: <query>, cause: <cause>
func (f *Failure) Message() string { return f.message }

// Error implements the built-in error interface and returns Message.
func (f *Failure) Error() string {
	if f == nil {
		return NoValue
	}
	return f.message
}

// Unwrap returns the cause, enabling errors.Is / errors.As chains.
func (f *Failure) Unwrap() error { return f.cause }

// As returns the first *Failure on err's chain.
func As(err error) (*Failure, bool) {
	var f *Failure
	if errors.As(err, &f) && f != nil {
		return f, true
	}
	return nil, false
}
