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

// Package reason provides the canonical labels used as the machine-oriented
// reason of a query failure, e.g. "TIMEOUT" or "BAD_REQUEST".
//
// Labels are upper-snake identifiers. The package offers a small catalogue of
// well-known labels plus Normalize/Parse/Validate for labels coming from
// configuration files or downstream engines.
//
// A queryfail.Failure stores its reason as a plain string and never validates
// it: a classifier may legitimately produce an empty or free-form reason.
// Validation here is opt-in for callers that want canonical labels.
package reason
