package iootol

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/pkg/errcode"
)

// MatchNamesError creates an error for a name-resolution stage that
// produced no usable data.
func MatchNamesError(err error) error {
	msg := `Name resolution against the Open Tree TNRS failed

<em>Possible causes:</em>
  - service unreachable or down
  - all request batches rejected`

	return &gn.Error{
		Code: errcode.ResolveRequestError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("tnrs match_names: %w", err),
	}
}

// NoIDsError creates an error for a subtree request without identifiers.
func NoIDsError() error {
	msg := "No identifiers to extract a subtree for"

	return &gn.Error{
		Code: errcode.SubtreeNoIDsError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("empty ott_ids"),
	}
}

// SubtreeRequestError creates an error for a failed induced_subtree call.
func SubtreeRequestError(err error) error {
	msg := "Induced subtree extraction failed"

	return &gn.Error{
		Code: errcode.SubtreeRequestError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("induced_subtree: %w", err),
	}
}

// AllUnknownError creates an error for a subtree request where every
// identifier was unknown to the synthesis tree.
func AllUnknownError(count int) error {
	msg := `The synthesis tree knows none of the requested identifiers

<em>Identifiers:</em> %d`

	vars := []any{count}

	return &gn.Error{
		Code: errcode.SubtreeAllUnknownError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("all %d ott_ids unknown to synthesis tree", count),
	}
}
