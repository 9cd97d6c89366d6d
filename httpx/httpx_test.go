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

package httpx

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"pkt.systems/pslog"

	"dirpx.dev/queryfail"
	"dirpx.dev/queryfail/apis"
	"dirpx.dev/queryfail/mapper"
	"dirpx.dev/queryfail/metrics"
	"dirpx.dev/queryfail/status"
)

func decodeView(t *testing.T, rec *httptest.ResponseRecorder) apis.ErrorView {
	t.Helper()
	var v apis.ErrorView
	require.NoError(t, json.Unmarshal(rec.Body.Bytes(), &v), rec.Body.String())
	return v
}

func TestWrite_Failure(t *testing.T) {
	m, err := mapper.New(mapper.WithHTTPReason("TIMEOUT", http.StatusGatewayTimeout))
	require.NoError(t, err)

	f := queryfail.FromError(status.Code(500), queryfail.Text("groupBy wikipedia"), context.DeadlineExceeded)
	rec := httptest.NewRecorder()
	Writer{Mapper: m}.Write(rec, fmt.Errorf("handler: %w", f), Meta{RequestID: "req-42", RetryAfterSeconds: 5})

	assert.Equal(t, http.StatusGatewayTimeout, rec.Code)
	assert.Equal(t, "application/json", rec.Header().Get("Content-Type"))
	assert.Equal(t, "req-42", rec.Header().Get(RequestIDHeader))
	assert.Equal(t, "5", rec.Header().Get("Retry-After"))

	v := decodeView(t, rec)
	assert.Equal(t, apis.ErrorView{
		Status:      504,
		StatusName:  "Gateway Timeout",
		Reason:      "TIMEOUT",
		Description: "Query timed out",
		RequestID:   "req-42",
	}, v)
	assert.NotContains(t, rec.Body.String(), "groupBy", "query is hidden by default")
	assert.NotContains(t, rec.Body.String(), "deadline", "cause never reaches the client")
}

func TestWrite_IncludeQuery_DefaultMapper_GeneratedRequestID(t *testing.T) {
	f := queryfail.NewWithoutCause(400, "BAD_REQUEST", "unknown dimension", queryfail.Text("topN country"))
	rec := httptest.NewRecorder()
	Writer{IncludeQuery: true}.Write(rec, f, Meta{})

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Empty(t, rec.Header().Get("Retry-After"))

	v := decodeView(t, rec)
	assert.Equal(t, "topN country", v.Query)
	assert.Equal(t, "Bad Request", v.StatusName)

	_, err := uuid.Parse(v.RequestID)
	assert.NoError(t, err, "request id must be a generated uuid")
	assert.Equal(t, v.RequestID, rec.Header().Get(RequestIDHeader))
}

func TestWrite_ForeignError(t *testing.T) {
	rec := httptest.NewRecorder()
	Writer{}.Write(rec, errors.New("nil map write"), Meta{RequestID: "r"})

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, "INTERNAL", v.Reason)
	assert.Equal(t, internalDescription, v.Description)
	assert.NotContains(t, rec.Body.String(), "nil map write")
}

func TestWrite_NilError(t *testing.T) {
	rec := httptest.NewRecorder()
	Writer{}.Write(rec, nil, Meta{})
	assert.Equal(t, 0, rec.Body.Len())
	assert.Empty(t, rec.Header().Get("Content-Type"))
}

func TestWrite_NonErrorStatusFallsBack(t *testing.T) {
	f := queryfail.NewWithoutCause(200, "BAD_GATEWAY", "engine answered 200 with an error body", nil)
	rec := httptest.NewRecorder()
	Writer{}.Write(rec, f, Meta{RequestID: "r"})
	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestWrite_LogsAndCounts(t *testing.T) {
	var logBuf bytes.Buffer
	logger := pslog.NewStructured(context.Background(), &logBuf)

	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	w := Writer{Logger: logger, Metrics: rec}
	f := queryfail.New(503, "UNAVAILABLE", "broker down", queryfail.Text("scan"), errors.New("connection reset"))

	resp := httptest.NewRecorder()
	w.Write(resp, f, Meta{RequestID: "req-7"})

	assert.Equal(t, http.StatusServiceUnavailable, resp.Code)
	out := logBuf.String()
	assert.Contains(t, out, "queryfail.http.rendered")
	assert.Contains(t, out, "req-7")
	assert.Contains(t, out, "connection reset", "the log carries the full message")

	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Collector().WithLabelValues("503", "UNAVAILABLE", "http")))
}

func TestHandler(t *testing.T) {
	w := Writer{}
	h := w.Handler(func(rw http.ResponseWriter, r *http.Request) error {
		if r.URL.Query().Get("fail") == "" {
			rw.WriteHeader(http.StatusNoContent)
			return nil
		}
		return queryfail.NewWithoutCause(404, "NOT_FOUND", "no such datasource", queryfail.Text("wiki"))
	})

	ok := httptest.NewRecorder()
	h.ServeHTTP(ok, httptest.NewRequest(http.MethodGet, "/q", nil))
	assert.Equal(t, http.StatusNoContent, ok.Code)

	req := httptest.NewRequest(http.MethodGet, "/q?fail=1", nil)
	req.Header.Set(RequestIDHeader, "from-client")
	bad := httptest.NewRecorder()
	h.ServeHTTP(bad, req)

	assert.Equal(t, http.StatusNotFound, bad.Code)
	v := decodeView(t, bad)
	assert.Equal(t, "NOT_FOUND", v.Reason)
	assert.Equal(t, "from-client", v.RequestID)
}

func TestWrite_InvalidUTF8KeepsBody(t *testing.T) {
	f := queryfail.FromError(status.Code(502), queryfail.Text("Q \xc3"), errors.New("broker said \xff\xfe"))
	rec := httptest.NewRecorder()
	Writer{IncludeQuery: true}.Write(rec, f, Meta{RequestID: "req-9"})

	assert.Equal(t, http.StatusBadGateway, rec.Code)
	v := decodeView(t, rec)
	assert.Equal(t, 502, v.Status)
	assert.Equal(t, "*errors.errorString", v.Reason)
	assert.Equal(t, "broker said �", v.Description)
	assert.Equal(t, "Q �", v.Query)
	assert.Equal(t, "req-9", v.RequestID)
}

// levelLogger records the level of each Warn/Error call.
type levelLogger struct {
	pslog.Logger
	levels []string
	msgs   []string
}

func (l *levelLogger) Warn(msg string, _ ...any) {
	l.levels = append(l.levels, "warn")
	l.msgs = append(l.msgs, msg)
}

func (l *levelLogger) Error(msg string, _ ...any) {
	l.levels = append(l.levels, "error")
	l.msgs = append(l.msgs, msg)
}

func TestWrite_LogLevelByStatus(t *testing.T) {
	l := &levelLogger{Logger: pslog.NoopLogger()}
	w := Writer{Logger: l}
	w.Write(httptest.NewRecorder(), queryfail.NewWithoutCause(404, "NOT_FOUND", "", nil), Meta{})
	w.Write(httptest.NewRecorder(), queryfail.NewWithoutCause(504, "TIMEOUT", "", nil), Meta{})
	assert.Equal(t, []string{"warn", "error"}, l.levels)
}

func TestHandler_ResponseAlreadyStarted(t *testing.T) {
	l := &levelLogger{Logger: pslog.NoopLogger()}
	reg := prometheus.NewRegistry()
	rec, err := metrics.NewRecorder(reg)
	require.NoError(t, err)

	h := Writer{Logger: l, Metrics: rec}.Handler(func(rw http.ResponseWriter, _ *http.Request) error {
		rw.WriteHeader(http.StatusOK)
		_, _ = rw.Write([]byte(`{"rows":[`))
		return queryfail.NewWithoutCause(502, "BAD_GATEWAY", "stream broken", nil)
	})

	resp := httptest.NewRecorder()
	h.ServeHTTP(resp, httptest.NewRequest(http.MethodGet, "/q", nil))

	assert.Equal(t, http.StatusOK, resp.Code)
	assert.Equal(t, `{"rows":[`, resp.Body.String())
	assert.Empty(t, resp.Header().Get(RequestIDHeader))
	assert.Equal(t, []string{"queryfail.http.response_started"}, l.msgs)
	assert.Equal(t, 1.0, testutil.ToFloat64(rec.Collector().WithLabelValues("502", "BAD_GATEWAY", "http")))
}
