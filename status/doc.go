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

// Package status provides the HTTP-style status type carried by query failures.
//
// A status Code is the numeric status a downstream query engine answered with
// (or the one the query layer decided to surface). Codes are meant to be:
//
//   - plain integers in the 100..599 range;
//   - convertible to and from their text form ("503 Service Unavailable");
//   - usable directly as the status input of queryfail.FromError.
//
// Only Validate/Parse enforce the range. Holding an out-of-range Code is
// allowed, so that a misbehaving downstream can still be reported faithfully.
package status
