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

// Package httpx renders query failures as HTTP error responses.
package httpx

import (
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	"google.golang.org/protobuf/encoding/protojson"
	"google.golang.org/protobuf/types/known/structpb"
	"pkt.systems/pslog"

	"dirpx.dev/queryfail"
	"dirpx.dev/queryfail/adapter"
	"dirpx.dev/queryfail/apis"
	"dirpx.dev/queryfail/mapper"
	"dirpx.dev/queryfail/metrics"
	"dirpx.dev/queryfail/reason"
)

// RequestIDHeader carries the request id on requests and error responses.
const RequestIDHeader = "X-Request-Id"

// internalDescription is used for errors that are not query failures.
const internalDescription = "The server encountered an unexpected error"

// Meta carries extra context that the HTTP layer can add on top of a failure.
// All fields are optional.
type Meta struct {
	// RequestID ties the response to log entries. Generated when empty.
	RequestID string

	// RetryAfterSeconds, when positive, is sent as the Retry-After header.
	RetryAfterSeconds int32
}

// Writer turns query failures into HTTP responses.
//
// The zero value is usable: it resolves statuses with the default mapper,
// logs nothing, counts nothing and hides the query text from clients.
type Writer struct {
	// Mapper resolves the outward status. nil means mapper.New().
	Mapper apis.Mapper

	// Logger receives one entry per rendered failure. nil disables logging.
	Logger pslog.Logger

	// Metrics counts rendered failures. nil disables counting.
	Metrics *metrics.Recorder

	// IncludeQuery exposes the failed query text in the response body.
	IncludeQuery bool
}

var defaultMapper = mustDefaultMapper()

func mustDefaultMapper() apis.Mapper {
	m, err := mapper.New()
	if err != nil {
		panic(err)
	}
	return m
}

// Write renders err to rw.
//
// A *queryfail.Failure anywhere on err's chain is rendered as-is. Any other
// error is wrapped into a 500 INTERNAL failure first. A nil err writes
// nothing.
//
// The body is the apis.ErrorView of the failure. The full failure message,
// including the cause, only goes to the log.
func (w Writer) Write(rw http.ResponseWriter, err error, meta Meta) {
	if err == nil {
		return
	}
	f, st, requestID := w.resolve(err, meta)

	w.log(f, st, requestID)
	w.Metrics.Observe(f, metrics.TransportHTTP)

	view := adapter.ToView(f, st, requestID, w.IncludeQuery)

	rw.Header().Set("Content-Type", "application/json")
	rw.Header().Set(RequestIDHeader, requestID)
	if meta.RetryAfterSeconds > 0 {
		rw.Header().Set("Retry-After", strconv.Itoa(int(meta.RetryAfterSeconds)))
	}
	rw.WriteHeader(st.HTTP)
	_, _ = rw.Write(encodeView(view))
}

// HandlerFunc is an http.HandlerFunc that reports failure by returning it.
type HandlerFunc func(http.ResponseWriter, *http.Request) error

// Handler adapts h to http.Handler, rendering any returned error with w.
// The request id is taken from the X-Request-Id request header when present.
//
// If h already started the response before failing, the failure is logged
// and counted but no error body is written.
func (w Writer) Handler(h HandlerFunc) http.Handler {
	return http.HandlerFunc(func(rw http.ResponseWriter, r *http.Request) {
		sw := &statusWriter{ResponseWriter: rw}
		err := h(sw, r)
		if err == nil {
			return
		}
		meta := Meta{RequestID: r.Header.Get(RequestIDHeader)}
		if sw.status != 0 {
			w.observeOnly(err, meta, sw.status)
			return
		}
		w.Write(rw, err, meta)
	})
}

// statusWriter records whether the response has been started.
type statusWriter struct {
	http.ResponseWriter
	status int
}

func (sw *statusWriter) Unwrap() http.ResponseWriter { return sw.ResponseWriter }

func (sw *statusWriter) WriteHeader(statusCode int) {
	if sw.status == 0 {
		sw.status = statusCode
	}
	sw.ResponseWriter.WriteHeader(statusCode)
}

func (sw *statusWriter) Write(p []byte) (int, error) {
	if sw.status == 0 {
		sw.status = http.StatusOK
	}
	return sw.ResponseWriter.Write(p)
}

// observeOnly logs and counts a failure whose response was already started.
func (w Writer) observeOnly(err error, meta Meta, sent int) {
	f, st, requestID := w.resolve(err, meta)
	w.Metrics.Observe(f, metrics.TransportHTTP)
	if w.Logger != nil {
		w.Logger.Error("queryfail.http.response_started", append(w.fields(f, st, requestID), "sent_status", sent)...)
	}
}

// resolve finds the failure in err, its outward status and the request id.
func (w Writer) resolve(err error, meta Meta) (*queryfail.Failure, apis.Status, string) {
	f := asFailure(err)
	m := w.Mapper
	if m == nil {
		m = defaultMapper
	}
	requestID := meta.RequestID
	if requestID == "" {
		requestID = uuid.NewString()
	}
	return f, m.Status(f.StatusCode(), f.Reason()), requestID
}

func asFailure(err error) *queryfail.Failure {
	if f, ok := queryfail.As(err); ok {
		return f
	}
	return queryfail.New(http.StatusInternalServerError, string(reason.Internal), internalDescription, nil, err)
}

func (w Writer) log(f *queryfail.Failure, st apis.Status, requestID string) {
	if w.Logger == nil {
		return
	}
	kv := w.fields(f, st, requestID)
	if st.HTTP >= http.StatusInternalServerError {
		w.Logger.Error("queryfail.http.rendered", kv...)
		return
	}
	w.Logger.Warn("queryfail.http.rendered", kv...)
}

func (w Writer) fields(f *queryfail.Failure, st apis.Status, requestID string) []any {
	d := adapter.ToDescriptor(f, st)
	return []any{
		"request_id", requestID,
		"status", d.StatusCode,
		"http_status", d.HTTPStatus,
		"reason", d.Reason,
		"description", d.Description,
		"query", d.Query,
		"message", d.Message,
	}
}

// encodeView serializes the view as a google.protobuf.Struct in JSON form.
// Empty query and request id are omitted. The view is expected to hold valid
// UTF-8 (see adapter.Clean); if protobuf still rejects it, the view is
// encoded with encoding/json so the client always gets a body.
func encodeView(v apis.ErrorView) []byte {
	fields := map[string]any{
		"status":      v.Status,
		"statusName":  v.StatusName,
		"reason":      v.Reason,
		"description": v.Description,
	}
	if v.Query != "" {
		fields["query"] = v.Query
	}
	if v.RequestID != "" {
		fields["requestId"] = v.RequestID
	}
	s, err := structpb.NewStruct(fields)
	if err == nil {
		var b []byte
		if b, err = protojson.Marshal(s); err == nil {
			return b
		}
	}
	b, _ := json.Marshal(v)
	return b
}
