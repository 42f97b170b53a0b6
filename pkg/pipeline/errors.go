package pipeline

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/pkg/errcode"
)

// NoNamesError creates an error for a run whose observations yielded no
// names to resolve.
func NoNamesError() error {
	msg := "No taxon names to resolve; cannot build a tree"

	return &gn.Error{
		Code: errcode.ResolveNoNamesError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("no names to resolve"),
	}
}

// NoAcceptedMatchesError creates an error for a run where every name was
// dropped by the score/membership filter.
func NoAcceptedMatchesError(input int) error {
	msg := `No resolved names passed the acceptance filter

<em>Input names:</em> %d

<em>Possible causes:</em>
  - names matched only with low confidence
  - matched taxa are absent from the synthesis tree`

	vars := []any{input}

	return &gn.Error{
		Code: errcode.ResolveFailedError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("no accepted matches for %d names", input),
	}
}

// ParseTreeError creates an error for an unparseable subtree response.
func ParseTreeError(err error) error {
	msg := "Cannot parse the induced subtree returned by the service"

	return &gn.Error{
		Code: errcode.NewickParseError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("cannot parse induced subtree: %w", err),
	}
}

// WriteArtifactError creates an error for a failed artifact write.
func WriteArtifactError(path string, err error) error {
	msg := "Cannot write <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.WriteFileError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot write %s: %w", path, err),
	}
}
