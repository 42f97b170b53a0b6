package ioinat

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/pkg/errcode"
)

// NoFilterError creates an error for a fetch attempted without any
// identifying filter. It fires before any network I/O.
func NoFilterError() error {
	msg := `No identifying filter given

At least one of <em>user ID</em> or <em>project ID</em> must be set.`

	return &gn.Error{
		Code: errcode.FetchNoFilterError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("neither user_id nor project_id given"),
	}
}

// RequestError creates an error for a failed observation request.
func RequestError(err error) error {
	msg := "Observation request failed"

	return &gn.Error{
		Code: errcode.FetchRequestError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("observation request: %w", err),
	}
}

// BadStatusError creates an error for an unexpected HTTP status.
func BadStatusError(status int) error {
	msg := "Observation service answered with HTTP %d"
	vars := []any{status}

	return &gn.Error{
		Code: errcode.FetchBadStatusError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("unexpected status %d", status),
	}
}

// DecodeError creates an error for a malformed page payload.
func DecodeError(err error) error {
	msg := "Cannot decode observation page payload"

	return &gn.Error{
		Code: errcode.FetchDecodeError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot decode page: %w", err),
	}
}

// AllPagesFailedError creates an error for a fetch where no page request
// succeeded.
func AllPagesFailedError(issued int) error {
	msg := `The observation service returned no usable data

<em>Requests issued:</em> %d

<em>Possible causes:</em>
  - service unreachable or down
  - malformed responses on every page`

	vars := []any{issued}

	return &gn.Error{
		Code: errcode.FetchAllPagesFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d page requests failed", issued),
	}
}
