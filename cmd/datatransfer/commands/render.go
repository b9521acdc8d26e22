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

package commands

import (
	"context"
	"fmt"

	"github.com/walteh/datatransfer/pkg/failure"
	"gitlab.com/tozd/go/errors"
)

// RenderFailure explains a failed transfer in one user-facing message.
func RenderFailure(err error) string {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Sprintf("The transfer was cancelled or timed out. %s", rootCause(err))
	}

	fe, ok := failure.As(err)
	if !ok {
		return fmt.Sprintf("Unexpected error occurred. %s", rootCause(err))
	}

	switch fe.Kind {
	case failure.KindInvalidParameter:
		return fmt.Sprintf("Invalid parameter '%s'. %s", fe.Param, fe.Message)
	case failure.KindInvalidData:
		return fmt.Sprintf("There is something wrong with the data for transfer. %s", fe.Message)
	case failure.KindUnauthorized:
		return fmt.Sprintf("Unauthorized operation against '%s'. %s", fe.System, fe.Message)
	case failure.KindHTTPRequestFailed:
		return fmt.Sprintf("Request to '%s' failed with HTTP status code '%d'. %s", fe.System, fe.StatusCode, fe.Message)
	case failure.KindAmbiguousData:
		return fmt.Sprintf("The operation in '%s' cannot proceed due to ambiguity in the data. %s", fe.System, fe.Message)
	case failure.KindMissingExternalSystemParameter:
		return fmt.Sprintf("Missing %s parameter '%s'. %s", fe.System, fe.Param, fe.Message)
	case failure.KindUnsupportedOperation:
		return fmt.Sprintf("Operation is not supported. %s", fe.Message)
	default:
		return fmt.Sprintf("Unexpected error occurred. %s", fe.Message)
	}
}

func rootCause(err error) string {
	for {
		next := errors.Unwrap(err)
		if next == nil {
			return err.Error()
		}
		err = next
	}
}
