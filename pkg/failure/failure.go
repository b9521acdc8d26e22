// Copyright 2025 walteh LLC
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.

package failure

import (
	"fmt"
	"net/http"

	"gitlab.com/tozd/go/errors"
)

// Kind identifies one category of the closed failure taxonomy shared by every
// layer of a transfer.
type Kind int

const (
	KindInvalidParameter Kind = iota + 1
	KindInvalidData
	KindMissingExternalSystemParameter
	KindUnauthorized
	KindHTTPRequestFailed
	KindAmbiguousData
	KindUnsupportedOperation
)

func (k Kind) String() string {
	switch k {
	case KindInvalidParameter:
		return "InvalidParameter"
	case KindInvalidData:
		return "InvalidData"
	case KindMissingExternalSystemParameter:
		return "MissingExternalSystemParameter"
	case KindUnauthorized:
		return "Unauthorized"
	case KindHTTPRequestFailed:
		return "HttpRequestFailed"
	case KindAmbiguousData:
		return "AmbiguousData"
	case KindUnsupportedOperation:
		return "UnsupportedOperation"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// Error is the typed failure carried through a transfer. Only the fields that
// belong to its Kind are set.
type Error struct {
	Kind       Kind
	System     string
	Param      string
	DataType   string
	StatusCode int
	Message    string
}

func (e *Error) Error() string {
	switch e.Kind {
	case KindHTTPRequestFailed:
		return fmt.Sprintf("%s: request to %s failed with status %d: %s", e.Kind, e.System, e.StatusCode, e.Message)
	case KindMissingExternalSystemParameter:
		return fmt.Sprintf("%s: %s parameter %q: %s", e.Kind, e.System, e.Param, e.Message)
	case KindInvalidParameter:
		return fmt.Sprintf("%s: %q: %s", e.Kind, e.Param, e.Message)
	case KindInvalidData, KindUnsupportedOperation:
		return fmt.Sprintf("%s: %s", e.Kind, e.Message)
	default:
		return fmt.Sprintf("%s: %s: %s", e.Kind, e.System, e.Message)
	}
}

func newError(e *Error) error {
	return errors.WithStack(e)
}

func InvalidParameter(param, message string) error {
	return newError(&Error{Kind: KindInvalidParameter, Param: param, Message: message})
}

func InvalidData(message string) error {
	return newError(&Error{Kind: KindInvalidData, Message: message})
}

func MissingParameter(param, system, message string) error {
	return newError(&Error{Kind: KindMissingExternalSystemParameter, Param: param, System: system, Message: message})
}

func Unauthorized(system, message string) error {
	return newError(&Error{Kind: KindUnauthorized, System: system, Message: message})
}

func HTTPRequestFailed(system string, statusCode int, message string) error {
	return newError(&Error{Kind: KindHTTPRequestFailed, System: system, StatusCode: statusCode, Message: message})
}

func AmbiguousData(system, message string) error {
	return newError(&Error{Kind: KindAmbiguousData, System: system, Message: message})
}

// UnsupportedSystem reports that nothing is registered for the system type,
// regardless of the data type that was asked for.
func UnsupportedSystem(system string) error {
	return newError(&Error{
		Kind:    KindUnsupportedOperation,
		System:  system,
		Message: fmt.Sprintf("Unsupported external system type '%s'", system),
	})
}

// UnsupportedDataType reports that the system type is known but none of its
// transferrers handle the data type.
func UnsupportedDataType(system, dataType string) error {
	return newError(&Error{
		Kind:     KindUnsupportedOperation,
		System:   system,
		DataType: dataType,
		Message:  fmt.Sprintf("Unsupported data type '%s' for external system '%s'", dataType, system),
	})
}

// As returns the typed failure wrapped anywhere in err's chain.
func As(err error) (*Error, bool) {
	var fe *Error
	if errors.As(err, &fe) {
		return fe, true
	}
	return nil, false
}

// KindOf returns the kind of the typed failure in err's chain.
func KindOf(err error) (Kind, bool) {
	fe, ok := As(err)
	if !ok {
		return 0, false
	}
	return fe.Kind, true
}

// Is reports whether err carries a failure of the given kind.
func Is(err error, kind Kind) bool {
	k, ok := KindOf(err)
	return ok && k == kind
}

var transientStatusCodes = map[int]bool{
	http.StatusRequestTimeout:     true,
	http.StatusBadGateway:         true,
	http.StatusServiceUnavailable: true,
	http.StatusGatewayTimeout:     true,
}

// IsTransient reports whether err is an HTTP failure worth retrying.
func IsTransient(err error) bool {
	fe, ok := As(err)
	return ok && fe.Kind == KindHTTPRequestFailed && transientStatusCodes[fe.StatusCode]
}

// IsNotFound reports whether err is an HTTP 404 from an external system.
func IsNotFound(err error) bool {
	fe, ok := As(err)
	return ok && fe.Kind == KindHTTPRequestFailed && fe.StatusCode == http.StatusNotFound
}
