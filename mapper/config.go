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
	"errors"
	"fmt"
	"io"
	"sort"
	"strconv"
	"strings"

	"google.golang.org/grpc/codes"
	"gopkg.in/yaml.v3"
)

// Config is the YAML form of a set of mapper rules:
//
//	fallback:
//	  http: 500
//	  grpc: INTERNAL
//	http:
//	  overrides: {501: 400}
//	  reasons: {TIMEOUT: 504}
//	grpc:
//	  overrides: {500: UNAVAILABLE}
//	  defaults: {418: INVALID_ARGUMENT}
//	  reasons: {TOO_LARGE: RESOURCE_EXHAUSTED}
//
// gRPC codes are written with their canonical upper-snake names
// (CANCELED and CANCELLED are both accepted) or as numbers.
type Config struct {
	Fallback *FallbackConfig `yaml:"fallback,omitempty"`
	HTTP     HTTPConfig      `yaml:"http,omitempty"`
	GRPC     GRPCConfig      `yaml:"grpc,omitempty"`
}

// FallbackConfig mirrors WithFallback.
type FallbackConfig struct {
	HTTP int    `yaml:"http"`
	GRPC string `yaml:"grpc"`
}

// HTTPConfig holds HTTP rules keyed by incoming status or reason.
type HTTPConfig struct {
	Overrides map[int]int    `yaml:"overrides,omitempty"`
	Reasons   map[string]int `yaml:"reasons,omitempty"`
}

// GRPCConfig holds gRPC rules keyed by incoming status or reason.
type GRPCConfig struct {
	Overrides map[int]string    `yaml:"overrides,omitempty"`
	Defaults  map[int]string    `yaml:"defaults,omitempty"`
	Reasons   map[string]string `yaml:"reasons,omitempty"`
}

// LoadYAML decodes a Config from r and returns it as options for New.
// Unknown keys are rejected. An empty document yields no options.
func LoadYAML(r io.Reader) ([]Option, error) {
	var cfg Config
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil && !errors.Is(err, io.EOF) {
		return nil, fmt.Errorf("mapper: decode config: %w", err)
	}
	return cfg.Options()
}

// Options converts the config into options. Rules are emitted in sorted key
// order so that the result does not depend on map iteration.
func (c Config) Options() ([]Option, error) {
	var opts []Option

	if c.Fallback != nil {
		g, err := parseGRPCCode(c.Fallback.GRPC)
		if err != nil {
			return nil, fmt.Errorf("mapper: fallback: %w", err)
		}
		opts = append(opts, WithFallback(c.Fallback.HTTP, g))
	}

	for _, from := range sortedInts(c.HTTP.Overrides) {
		opts = append(opts, WithHTTPOverride(from, c.HTTP.Overrides[from]))
	}
	for _, r := range sortedStrings(c.HTTP.Reasons) {
		opts = append(opts, WithHTTPReason(r, c.HTTP.Reasons[r]))
	}

	for _, from := range sortedInts(c.GRPC.Overrides) {
		g, err := parseGRPCCode(c.GRPC.Overrides[from])
		if err != nil {
			return nil, fmt.Errorf("mapper: grpc override %d: %w", from, err)
		}
		opts = append(opts, WithGRPCOverride(from, g))
	}
	for _, st := range sortedInts(c.GRPC.Defaults) {
		g, err := parseGRPCCode(c.GRPC.Defaults[st])
		if err != nil {
			return nil, fmt.Errorf("mapper: grpc default %d: %w", st, err)
		}
		opts = append(opts, WithGRPCDefault(st, g))
	}
	for _, r := range sortedStrings(c.GRPC.Reasons) {
		g, err := parseGRPCCode(c.GRPC.Reasons[r])
		if err != nil {
			return nil, fmt.Errorf("mapper: grpc reason %q: %w", r, err)
		}
		opts = append(opts, WithGRPCReason(r, g))
	}
	return opts, nil
}

// parseGRPCCode accepts "DEADLINE_EXCEEDED", "deadline-exceeded", "4".
func parseGRPCCode(s string) (codes.Code, error) {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "_")
	if s == "CANCELED" {
		s = "CANCELLED"
	}
	var c codes.Code
	if _, err := strconv.ParseUint(s, 10, 32); err == nil {
		if err := c.UnmarshalJSON([]byte(s)); err != nil {
			return 0, err
		}
		return c, nil
	}
	if err := c.UnmarshalJSON([]byte(strconv.Quote(s))); err != nil {
		return 0, err
	}
	return c, nil
}

func sortedInts[V any](m map[int]V) []int {
	keys := make([]int, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Ints(keys)
	return keys
}

func sortedStrings[V any](m map[string]V) []string {
	keys := make([]string, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	sort.Strings(keys)
	return keys
}
