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

// Package grpcx carries query failures across gRPC.
//
// On the server, UnaryServerInterceptor turns a returned *queryfail.Failure
// into a gRPC status with a google.rpc.ErrorInfo detail. On the client,
// FromError rebuilds the failure from that detail.
package grpcx

import (
	"context"
	"net/http"
	"strconv"

	"google.golang.org/genproto/googleapis/rpc/errdetails"
	"google.golang.org/grpc"
	gcodes "google.golang.org/grpc/codes"
	gstatus "google.golang.org/grpc/status"
	"pkt.systems/pslog"

	"dirpx.dev/queryfail"
	"dirpx.dev/queryfail/adapter"
	"dirpx.dev/queryfail/apis"
	"dirpx.dev/queryfail/mapper"
	"dirpx.dev/queryfail/metrics"
)

// Domain is the ErrorInfo domain of failures produced by this package.
const Domain = "queryfail.dirpx.dev"

// ErrorInfo metadata keys.
const (
	MetaDescription = "description"
	MetaHTTPStatus  = "http_status"
	MetaStatus      = "status"
	MetaQuery       = "query"
)

// Option configures the interceptor.
type Option func(*config)

type config struct {
	logger  pslog.Logger
	metrics *metrics.Recorder
}

// WithLogger logs every converted failure to l.
func WithLogger(l pslog.Logger) Option {
	return func(c *config) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics counts every converted failure with r.
func WithMetrics(r *metrics.Recorder) Option {
	return func(c *config) { c.metrics = r }
}

// UnaryServerInterceptor returns a gRPC UnaryServerInterceptor that maps
// query failures into gRPC errors.
//
// The provided apis.Mapper resolves the gRPC code from the failure's status
// and reason; nil means the default mapper. Errors that carry no failure are
// returned as-is.
func UnaryServerInterceptor(m apis.Mapper, opts ...Option) grpc.UnaryServerInterceptor {
	if m == nil {
		m = mustDefaultMapper()
	}
	cfg := config{logger: pslog.NoopLogger()}
	for _, o := range opts {
		if o != nil {
			o(&cfg)
		}
	}

	return func(ctx context.Context, req any, info *grpc.UnaryServerInfo, handler grpc.UnaryHandler) (any, error) {
		resp, err := handler(ctx, req)
		if err == nil {
			return resp, nil
		}

		f, ok := queryfail.As(err)
		if !ok {
			return nil, err
		}

		st := m.Status(f.StatusCode(), f.Reason())
		d := adapter.ToDescriptor(f, st)
		kv := []any{
			"method", info.FullMethod,
			"status", d.StatusCode,
			"grpc_code", st.GRPC.String(),
			"reason", d.Reason,
			"message", d.Message,
		}
		if st.HTTP >= http.StatusInternalServerError {
			cfg.logger.Error("queryfail.grpc.rendered", kv...)
		} else {
			cfg.logger.Warn("queryfail.grpc.rendered", kv...)
		}
		cfg.metrics.Observe(f, metrics.TransportGRPC)

		return nil, toStatus(f, st).Err()
	}
}

// toStatus builds the gRPC status for f. Every string goes through
// adapter.Clean, since protobuf refuses to marshal invalid UTF-8.
func toStatus(f *queryfail.Failure, st apis.Status) *gstatus.Status {
	d := adapter.ToDescriptor(f, st)
	msg := d.Description
	if msg == "" {
		msg = d.Reason
	}
	base := gstatus.New(st.GRPC, msg)

	md := map[string]string{
		MetaDescription: d.Description,
		MetaHTTPStatus:  strconv.Itoa(st.HTTP),
		MetaStatus:      strconv.Itoa(d.StatusCode),
	}
	if f.Query() != nil {
		md[MetaQuery] = d.Query
	}
	info := &errdetails.ErrorInfo{
		Reason:   d.Reason,
		Domain:   Domain,
		Metadata: md,
	}

	// With valid strings, attachment only fails for OK statuses, which the
	// mapper never yields.
	if with, err := base.WithDetails(info); err == nil {
		return with
	}
	return base
}

// ExtractErrorInfo pulls the query failure ErrorInfo out of a gRPC error, if
// present. Details from other domains are ignored.
func ExtractErrorInfo(err error) (*errdetails.ErrorInfo, bool) {
	if err == nil {
		return nil, false
	}
	st, ok := gstatus.FromError(err)
	if !ok {
		return nil, false
	}
	for _, d := range st.Details() {
		if ei, ok := d.(*errdetails.ErrorInfo); ok && ei.GetDomain() == Domain {
			return ei, true
		}
	}
	return nil, false
}

// FromError rebuilds a failure from a gRPC error produced by
// UnaryServerInterceptor. The rebuilt failure carries the original status,
// reason, description and query text, with the gRPC error as its cause.
func FromError(err error) (*queryfail.Failure, bool) {
	ei, ok := ExtractErrorInfo(err)
	if !ok {
		return nil, false
	}
	md := ei.GetMetadata()

	code, convErr := strconv.Atoi(md[MetaStatus])
	if convErr != nil {
		code, convErr = strconv.Atoi(md[MetaHTTPStatus])
	}
	if convErr != nil {
		code = httpFromGRPC(gstatus.Code(err))
	}

	var q queryfail.Query
	if s, ok := md[MetaQuery]; ok {
		q = queryfail.Text(s)
	}
	return queryfail.New(code, ei.GetReason(), md[MetaDescription], q, err), true
}

// httpFromGRPC is the last-resort status when the metadata carries none.
func httpFromGRPC(c gcodes.Code) int {
	switch c {
	case gcodes.InvalidArgument, gcodes.OutOfRange:
		return 400
	case gcodes.Unauthenticated:
		return 401
	case gcodes.PermissionDenied:
		return 403
	case gcodes.NotFound:
		return 404
	case gcodes.Aborted, gcodes.AlreadyExists:
		return 409
	case gcodes.ResourceExhausted:
		return 429
	case gcodes.Canceled:
		return 499
	case gcodes.Unimplemented:
		return 501
	case gcodes.Unavailable:
		return 503
	case gcodes.DeadlineExceeded:
		return 504
	default:
		return 500
	}
}

func mustDefaultMapper() apis.Mapper {
	m, err := mapper.New()
	if err != nil {
		panic(err)
	}
	return m
}
