// Package errcode enumerates error codes for all inattree failure classes.
package errcode

import (
	"github.com/gnames/gn"
)

const (
	UnknownError gn.ErrorCode = iota

	// File system errors
	CreateDirError
	CopyFileError
	ReadFileError
	WriteFileError

	// Logging errors
	CreateLogFileError

	// Contexts table errors
	ContextsConfigError

	// Observation fetch errors
	FetchNoFilterError
	FetchRequestError
	FetchBadStatusError
	FetchDecodeError
	FetchPageError
	FetchAllPagesFailedError

	// Name resolution errors
	ResolveRequestError
	ResolveDecodeError
	ResolveFailedError
	ResolveNoNamesError

	// Induced subtree errors
	SubtreeRequestError
	SubtreeDecodeError
	SubtreeNoIDsError
	SubtreeAllUnknownError

	// Tree (Newick) errors
	NewickParseError
	NewickWriteError

	// Rendering errors
	DrawLayoutError
	DrawRenderError
)
