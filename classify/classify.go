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

// Package classify turns an underlying query error into the reason and
// description text carried by a queryfail.Failure.
//
// Classifiers must be pure and total: every error, including nil, maps to a
// (reason, description) pair and classification has no side effects.
package classify

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"
	"syscall"

	"dirpx.dev/queryfail/apis"
	"dirpx.dev/queryfail/reason"
)

// Classifier maps an underlying failure to its reason and description.
type Classifier interface {
	Classify(err error) (reason, description string)
}

// Func adapts a plain function to Classifier.
type Func func(err error) (reason, description string)

// Classify calls f(err).
func (f Func) Classify(err error) (string, string) { return f(err) }

// Descriptions used by Default for the conditions it recognizes itself.
const (
	TimeoutDescription  = "Query timed out"
	CanceledDescription = "Query was canceled"
)

// Default is the classifier used by queryfail.FromError when none is given.
//
// Rules, first match wins:
//
//  1. nil → ("", "");
//  2. an error on the chain implementing apis.ReasonedError → its reason,
//     and its Description() when it implements apis.DescribedError, or its
//     Error() text otherwise;
//  3. context.DeadlineExceeded or a net.Error reporting Timeout() →
//     TIMEOUT / "Query timed out";
//  4. context.Canceled → CANCELED / "Query was canceled";
//  5. connection refused/reset, unexpected EOF or a closed connection →
//     UNAVAILABLE / err.Error();
//  6. anything else → the dynamic Go type of err (e.g. "*url.Error") and
//     err.Error().
var Default Classifier = Func(classifyDefault)

func classifyDefault(err error) (string, string) {
	if err == nil {
		return "", ""
	}

	var re apis.ReasonedError
	if errors.As(err, &re) {
		if de, ok := re.(apis.DescribedError); ok {
			return re.Reason(), de.Description()
		}
		return re.Reason(), re.Error()
	}

	if isTimeout(err) {
		return string(reason.Timeout), TimeoutDescription
	}
	if errors.Is(err, context.Canceled) {
		return string(reason.Canceled), CanceledDescription
	}
	if isUnavailable(err) {
		return string(reason.Unavailable), err.Error()
	}

	return fmt.Sprintf("%T", err), err.Error()
}

func isTimeout(err error) bool {
	if errors.Is(err, context.DeadlineExceeded) {
		return true
	}
	var ne net.Error
	return errors.As(err, &ne) && ne.Timeout()
}

func isUnavailable(err error) bool {
	return errors.Is(err, syscall.ECONNREFUSED) ||
		errors.Is(err, syscall.ECONNRESET) ||
		errors.Is(err, io.ErrUnexpectedEOF) ||
		errors.Is(err, net.ErrClosed)
}

// Match returns a classifier that yields (r, description) for errors matching
// target via errors.Is and ("", "") for everything else. It is meant to be
// combined with Chain.
func Match(target error, r reason.Reason, description string) Classifier {
	return Func(func(err error) (string, string) {
		if err != nil && errors.Is(err, target) {
			return string(r), description
		}
		return "", ""
	})
}

// Chain returns a classifier that asks each of cs in order and returns the
// first result with a non-empty reason. When none matches, the result of
// Default is returned, so a chain is always total.
func Chain(cs ...Classifier) Classifier {
	return Func(func(err error) (string, string) {
		for _, c := range cs {
			if c == nil {
				continue
			}
			if r, d := c.Classify(err); r != "" {
				return r, d
			}
		}
		return Default.Classify(err)
	})
}
