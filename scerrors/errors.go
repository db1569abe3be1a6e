// Copyright 2026 The SimCloud Authors
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     https://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

// Package scerrors provides support for getting error codes from
// errors returned by SimCloud APIs.
package scerrors

import "simcloud.dev/internal/simerr"

// An ErrorCode describes the error's category. Programs should act upon an error's
// code, not its message.
type ErrorCode = simerr.ErrorCode

const (
	// OK is returned by the Code function on a nil error. It is not a valid
	// code for an error.
	OK ErrorCode = simerr.OK

	// Unknown means the error could not be categorized.
	Unknown ErrorCode = simerr.Unknown

	// NotFound means the resource was not found.
	NotFound ErrorCode = simerr.NotFound

	// AlreadyExists means the resource exists, but it should not.
	AlreadyExists ErrorCode = simerr.AlreadyExists

	// InvalidArgument means a value given to a SimCloud API is incorrect.
	InvalidArgument ErrorCode = simerr.InvalidArgument

	// FailedPrecondition means a caller-supplied match or not-match condition
	// does not hold against the current state of the resource.
	FailedPrecondition ErrorCode = simerr.FailedPrecondition

	// Conflict means the operation cannot proceed because of existing related
	// state, such as a non-empty resource or an active retention window.
	Conflict ErrorCode = simerr.Conflict

	// Internal means something unexpected happened. Internal errors always
	// indicate bugs in SimCloud.
	Internal ErrorCode = simerr.Internal

	// Unimplemented means the feature is not implemented.
	Unimplemented ErrorCode = simerr.Unimplemented
)

// Code returns the ErrorCode of err if it is a SimCloud error.
// It returns Unknown if err is a non-nil error of a different type.
// If err is nil, it returns the special code OK.
func Code(err error) ErrorCode {
	return simerr.Code(err)
}

// HTTPCode maps an ErrorCode to the HTTP status used by the vendor APIs
// that SimCloud mimics: InvalidArgument is a 400, NotFound a 404,
// AlreadyExists and Conflict a 409, and FailedPrecondition a 412.
func HTTPCode(c ErrorCode) int {
	return simerr.HTTPCode(c)
}
