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

// Package adapter converts query failures into the transport-neutral views
// declared in package apis.
package adapter

import (
	"strings"

	"dirpx.dev/queryfail"
	"dirpx.dev/queryfail/apis"
	"dirpx.dev/queryfail/status"
)

// ToDescriptor converts a failure together with its resolved transport
// status into a portable ErrorDescriptor.
//
// The descriptor is intended for structured logging, tracing, or message bus
// propagation. It carries the failure as captured (status, reason,
// description, query, cause, message) and the transport statuses it was
// rendered with.
func ToDescriptor(f *queryfail.Failure, st apis.Status) apis.ErrorDescriptor {
	if f == nil {
		return apis.ErrorDescriptor{}
	}
	d := apis.ErrorDescriptor{
		StatusCode:  f.StatusCode(),
		Reason:      Clean(f.Reason()),
		Description: Clean(f.Description()),
		Query:       queryText(f),
		Message:     Clean(f.Message()),
		HTTPStatus:  st.HTTP,
		GRPCCode:    int(st.GRPC),
	}
	if c := f.Cause(); c != nil {
		d.Cause = Clean(c.Error())
	}
	return d
}

// ToView converts a failure into the client-facing ErrorView using the
// resolved status.
//
// The query text is copied only when withQuery is set; the message and the
// cause never leave the server. All strings are passed through Clean.
func ToView(f *queryfail.Failure, st apis.Status, requestID string, withQuery bool) apis.ErrorView {
	if f == nil {
		return apis.ErrorView{}
	}
	v := apis.ErrorView{
		Status:      st.HTTP,
		StatusName:  status.Code(st.HTTP).Text(),
		Reason:      Clean(f.Reason()),
		Description: Clean(f.Description()),
		RequestID:   Clean(requestID),
	}
	if withQuery {
		v.Query = queryText(f)
	}
	return v
}

func queryText(f *queryfail.Failure) string {
	if q := f.Query(); q != nil {
		return Clean(q.String())
	}
	return ""
}

// Clean replaces invalid UTF-8 in s with U+FFFD. Engine error text is copied
// into failures verbatim, and protobuf strings must be valid UTF-8.
func Clean(s string) string {
	return strings.ToValidUTF8(s, "\uFFFD")
}
