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

// Package errs classifies the failures the engine can report. Only parse-time
// failures abort an invocation; the other kinds are either substituted inline
// (coercion, lookup misses) or scoped to the single transform that raised them.
package errs

import (
	"errors"
	"fmt"
)

// Kind identifies a class of failure.
type Kind int

const (
	KindParse Kind = iota + 1
	KindCoercion
	KindLookupMiss
	KindUnknownFunction
	KindUnavailable
)

func (k Kind) String() string {
	switch k {
	case KindParse:
		return "parse error"
	case KindCoercion:
		return "coercion failure"
	case KindLookupMiss:
		return "lookup miss"
	case KindUnknownFunction:
		return "unknown function"
	case KindUnavailable:
		return "resource unavailable"
	default:
		return "error"
	}
}

var (
	// ErrFunctionNotFound is returned when a transform or aggregate name has no
	// registered implementation.
	ErrFunctionNotFound = errors.New("function not found")
	// ErrLookupMiss marks a side-file or tag lookup that had no match.
	ErrLookupMiss = errors.New("no matching key")
)

// Error is a classified failure. Op names the operation that failed, e.g.
// "fields" or "transform".
type Error struct {
	Kind Kind
	Op   string
	Err  error
}

func (e *Error) Error() string {
	if e.Op == "" {
		return fmt.Sprintf("%s: %v", e.Kind, e.Err)
	}
	return fmt.Sprintf("%s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Parse wraps a malformed-input failure.
func Parse(op string, format string, args ...any) *Error {
	return &Error{Kind: KindParse, Op: op, Err: fmt.Errorf(format, args...)}
}

// Coercion reports a value that is not a number where one is required.
func Coercion(op string, format string, args ...any) *Error {
	return &Error{Kind: KindCoercion, Op: op, Err: fmt.Errorf(format, args...)}
}

// Miss reports a lookup key without a mapping.
func Miss(op, key string) *Error {
	return &Error{Kind: KindLookupMiss, Op: op, Err: fmt.Errorf("%w: %q", ErrLookupMiss, key)}
}

// Unavailable wraps a failure to open or read an external resource.
func Unavailable(op string, err error) *Error {
	return &Error{Kind: KindUnavailable, Op: op, Err: err}
}

// Unknown reports a name that does not resolve to a function.
func Unknown(op, name string) *Error {
	return &Error{Kind: KindUnknownFunction, Op: op, Err: fmt.Errorf("%w: %q", ErrFunctionNotFound, name)}
}

// Is reports whether err carries the given kind anywhere in its chain.
func Is(err error, kind Kind) bool {
	var e *Error
	for err != nil {
		if errors.As(err, &e) {
			if e.Kind == kind {
				return true
			}
			err = e.Err
			continue
		}
		return false
	}
	return false
}
