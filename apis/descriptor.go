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

// ErrorDescriptor is a flat, transport-friendly description of a query
// failure, intended for structured logging or message bus propagation.
//
// Unlike ErrorView it carries everything: the original status, the resolved
// transport statuses, the full failure message and the text of its cause.
type ErrorDescriptor struct {
	// StatusCode is the status carried by the failure itself.
	StatusCode int `json:"status_code"`

	// Reason is the classification label. May be empty.
	Reason string `json:"reason,omitempty"`

	// Description is the human-oriented explanation. May be empty.
	Description string `json:"description,omitempty"`

	// Query is the display form of the failed query.
	Query string `json:"query,omitempty"`

	// Cause is the Error() text of the direct cause, empty when absent.
	Cause string `json:"cause,omitempty"`

	// Message is the canonical failure message.
	Message string `json:"message"`

	// HTTPStatus is the resolved outward HTTP status.
	HTTPStatus int `json:"http_status,omitempty"`

	// GRPCCode is the resolved gRPC status code (as integer).
	GRPCCode int `json:"grpc_code,omitempty"`
}
