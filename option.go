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

package queryfail

import "dirpx.dev/queryfail/classify"

// Option is a functional option for FromError.
type Option func(*settings)

type settings struct {
	classifier classify.Classifier
}

func newSettings(opts []Option) settings {
	s := settings{classifier: classify.Default}
	for _, opt := range opts {
		if opt != nil {
			opt(&s)
		}
	}
	return s
}

// WithClassifier makes FromError derive reason and description with c
// instead of classify.Default. A nil c is ignored.
func WithClassifier(c classify.Classifier) Option {
	return func(s *settings) {
		if c != nil {
			s.classifier = c
		}
	}
}
