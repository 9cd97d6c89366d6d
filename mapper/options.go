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

import "google.golang.org/grpc/codes"

// Option configures the Mapper at build time.
// All options are applied to an internal builder and then frozen into
// an immutable Mapper.
type Option func(*builder)

// WithHTTPOverride rewrites the outward HTTP status for failures carrying
// status from. Reason rules still take precedence.
func WithHTTPOverride(from, to int) Option {
	return func(b *builder) { b.httpOverride = append(b.httpOverride, statusRule{from, to}) }
}

// WithGRPCOverride sets the gRPC code for failures carrying status from.
// Reason rules still take precedence.
func WithGRPCOverride(from int, to codes.Code) Option {
	return func(b *builder) { b.grpcOverride = append(b.grpcOverride, statusRule{from, int(to)}) }
}

// WithGRPCDefault replaces the library default gRPC code for status.
func WithGRPCDefault(status int, to codes.Code) Option {
	return func(b *builder) { b.grpcDefaults[status] = int(to) }
}

// WithHTTPReason sets the outward HTTP status for failures with reason r,
// whatever status they carry.
func WithHTTPReason(r string, to int) Option {
	return func(b *builder) { b.httpReason = append(b.httpReason, reasonRule{r, to}) }
}

// WithGRPCReason sets the gRPC code for failures with reason r, whatever
// status they carry. It replaces a library reason default for the same label.
func WithGRPCReason(r string, to codes.Code) Option {
	return func(b *builder) { b.grpcReason = append(b.grpcReason, reasonRule{r, int(to)}) }
}

// WithFallback replaces the statuses used for failures whose status lies
// outside 100..599 (HTTP) or resolves to nothing at all (gRPC).
func WithFallback(http int, grpc codes.Code) Option {
	return func(b *builder) {
		b.fallbackHTTP = http
		b.fallbackGRPC = grpc
	}
}
