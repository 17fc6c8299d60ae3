/*
SPDX-License-Identifier: Apache-2.0

Copyright 2024 The Taxinomia Authors

Licensed under the Apache License, Version 2.0 (the "License");
you may not use this file except in compliance with the License.
You may obtain a copy of the License at

    https://www.apache.org/licenses/LICENSE-2.0

Unless required by applicable law or agreed to in writing, software
distributed under the License is distributed on an "AS IS" BASIS,
WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
See the License for the specific language governing permissions and
limitations under the License.
*/

package aggregates

import "math"

// NumericState accumulates count, running mean, sum of squared deviations,
// min and max of a stream of numbers with Welford's method.
type NumericState struct {
	Count int64
	Min   float64
	Max   float64
	mean  float64
	m2    float64
}

// NewNumericState creates an empty state.
func NewNumericState() *NumericState {
	return &NumericState{
		Min: math.MaxFloat64,
		Max: -math.MaxFloat64,
	}
}

// Add adds a value; NaN and infinities are ignored.
func (s *NumericState) Add(value float64) {
	if math.IsNaN(value) || math.IsInf(value, 0) {
		return
	}
	s.Count++
	delta := value - s.mean
	s.mean += delta / float64(s.Count)
	s.m2 += delta * (value - s.mean)
	if value < s.Min {
		s.Min = value
	}
	if value > s.Max {
		s.Max = value
	}
}

// Mean returns the arithmetic mean, 0 for an empty state.
func (s *NumericState) Mean() float64 {
	return s.mean
}

// StdDev returns the population standard deviation.
func (s *NumericState) StdDev() float64 {
	if s.Count == 0 {
		return 0
	}
	return math.Sqrt(s.m2 / float64(s.Count))
}
