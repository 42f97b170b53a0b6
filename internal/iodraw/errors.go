package iodraw

import (
	"fmt"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/pkg/errcode"
)

// LayoutError creates an error for a tree that cannot be laid out.
func LayoutError(err error) error {
	msg := "Cannot lay out the tree for drawing"

	return &gn.Error{
		Code: errcode.DrawLayoutError,
		Msg:  msg,
		Vars: nil,
		Err:  fmt.Errorf("tree layout: %w", err),
	}
}

// RenderError creates an error for a failed image save.
func RenderError(path string, err error) error {
	msg := "Cannot save tree image <em>%s</em>"
	vars := []any{path}

	return &gn.Error{
		Code: errcode.DrawRenderError,
		Msg:  msg,
		Vars: vars,
		Err:  fmt.Errorf("cannot save %s: %w", path, err),
	}
}
