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

import (
	"net/http"

	"dirpx.dev/queryfail/reason"
	"dirpx.dev/queryfail/status"
	"google.golang.org/grpc/codes"
)

// defaultGRPC maps well-known HTTP statuses to the closest canonical gRPC
// code. Statuses missing here fall back to their family default.
var defaultGRPC = map[int]codes.Code{
	// 4xx: the query or the caller is at fault.
	http.StatusBadRequest:                  codes.InvalidArgument,    // Malformed or semantically invalid query.
	http.StatusUnauthorized:                codes.Unauthenticated,    // Engine rejected credentials.
	http.StatusForbidden:                   codes.PermissionDenied,   // Authenticated but not allowed.
	http.StatusNotFound:                    codes.NotFound,           // Datasource, table or segment missing.
	http.StatusRequestTimeout:              codes.DeadlineExceeded,   // Caller-side time budget exhausted.
	http.StatusConflict:                    codes.Aborted,            // Concurrent modification on the engine.
	http.StatusPreconditionFailed:          codes.FailedPrecondition, // Engine state does not allow the query.
	http.StatusRequestEntityTooLarge:       codes.ResourceExhausted,  // Query or result exceeded a size limit.
	http.StatusTooManyRequests:             codes.ResourceExhausted,  // Engine throttled the caller.
	int(status.ClientClosedRequest):        codes.Canceled,           // Caller went away.
	http.StatusUnavailableForLegalReasons:  codes.PermissionDenied,   // Policy forbids the result.
	http.StatusRequestHeaderFieldsTooLarge: codes.InvalidArgument,    // Oversized request headers.

	// 5xx: the engine or the path to it is at fault.
	http.StatusInternalServerError: codes.Internal,         // Engine failed internally.
	http.StatusNotImplemented:      codes.Unimplemented,    // Query type not supported by the engine.
	http.StatusBadGateway:          codes.Unavailable,      // Broker could not reach a data node.
	http.StatusServiceUnavailable:  codes.Unavailable,      // Engine overloaded or starting up.
	http.StatusGatewayTimeout:      codes.DeadlineExceeded, // Engine did not answer in time.
	http.StatusInsufficientStorage: codes.ResourceExhausted,
}

// defaultGRPCReason maps reason labels whose meaning is clearer than the
// status they usually arrive with. A timeout reported as a 500 is still a
// deadline problem for a gRPC client.
var defaultGRPCReason = map[string]codes.Code{
	string(reason.Timeout):     codes.DeadlineExceeded,
	string(reason.Canceled):    codes.Canceled,
	string(reason.RateLimited): codes.ResourceExhausted,
	string(reason.Unavailable): codes.Unavailable,
}

// familyGRPC is used for valid statuses that have no entry in defaultGRPC.
var familyGRPC = map[status.Family]codes.Code{
	status.Informational: codes.Unknown,
	status.Successful:    codes.Unknown,
	status.Redirection:   codes.Unknown,
	status.ClientError:   codes.FailedPrecondition,
	status.ServerError:   codes.Internal,
}
