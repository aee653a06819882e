// Copyright 2026 gorse Project Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
// http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package base

import "github.com/juju/errors"

const (
	// ErrConfiguration is returned for missing columns, invalid options and
	// mismatches between a training slice and the negative pool.
	ErrConfiguration = errors.ConstError("configuration error")
	// ErrSampling is returned when more negatives are requested than a user has.
	ErrSampling = errors.ConstError("sampling error")
)

// ConfigurationErrorf formats an error which satisfies errors.Is(err, ErrConfiguration).
func ConfigurationErrorf(format string, args ...any) error {
	return errors.WithType(errors.Errorf(format, args...), ErrConfiguration)
}

// SamplingErrorf formats an error which satisfies errors.Is(err, ErrSampling).
func SamplingErrorf(format string, args ...any) error {
	return errors.WithType(errors.Errorf(format, args...), ErrSampling)
}
