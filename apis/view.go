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

// ErrorView is the client-facing body of an error response.
//
// It mirrors the error payload historically returned by the query service:
// the outward status and its name, the classified reason and description,
// the offending query (only when the server chooses to expose it) and the
// request id that ties the response to server-side logs.
//
// The failure message and the cause chain are deliberately absent: they are
// meant for logs, see ErrorDescriptor.
type ErrorView struct {
	// Status is the HTTP status written with the response.
	Status int `json:"status"`

	// StatusName is the reason phrase of Status, e.g. "Gateway Timeout".
	StatusName string `json:"statusName"`

	// Reason is the machine-oriented classification, e.g. "TIMEOUT".
	Reason string `json:"reason"`

	// Description is the human-oriented explanation.
	Description string `json:"description"`

	// Query is the display form of the failed query. Empty when hidden.
	Query string `json:"query,omitempty"`

	// RequestID correlates the response with log entries.
	RequestID string `json:"requestId,omitempty"`
}
