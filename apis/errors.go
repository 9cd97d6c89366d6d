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

import "fmt"

// StatusError represents an error that carries an HTTP-style status code.
//
// The status is the one that should be surfaced to the caller of the query
// layer. Adapters may still remap it through a Mapper before writing it to
// the wire.
type StatusError interface {
	error

	// StatusCode returns the HTTP-style status, conventionally 100..599.
	StatusCode() int
}

// ReasonedError represents an error that provides a short, machine-oriented
// classification of what went wrong, e.g. "TIMEOUT".
//
// Classifiers look for this interface on the cause chain first: an engine
// error that already knows its reason does not need to be guessed at.
type ReasonedError interface {
	error

	// Reason returns the classification label. It MAY be empty.
	Reason() string
}

// DescribedError represents an error that provides a human-oriented
// explanation separate from its Error() text.
type DescribedError interface {
	error

	// Description returns the explanation. It MAY be empty.
	Description() string
}

// QueryError represents an error raised while a specific query was being
// executed. The query is opaque; only its display form is relied upon.
type QueryError interface {
	error

	// Query returns the query that was being executed. May return nil.
	Query() fmt.Stringer
}

// CausedError represents an error that exposes its underlying cause.
//
// Implementations SHOULD return the direct, immediate cause of the error. If
// there is no underlying cause, they SHOULD return nil.
type CausedError interface {
	error

	// Cause returns the underlying error that triggered this error, if any.
	Cause() error
}
