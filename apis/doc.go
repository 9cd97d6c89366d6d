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

// Package apis defines the public Go-level contracts around query failures.
//
// The goal of this package is to provide *small, composable* interfaces that
// classifiers, HTTP/gRPC adapters and loggers can depend on without importing
// the concrete failure type from the root queryfail package.
//
// A queryfail.Failure implements every accessor interface declared here, but
// callers should match on the interfaces (via errors.As) when they only need
// one facet of the failure, e.g. its status or its reason.
//
// This package must remain lightweight and should not introduce heavy
// dependencies, so it only contains interfaces and very small view types.
package apis
