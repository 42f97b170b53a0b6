// Package inattree holds application-wide metadata for the inattree CLI.
package inattree

var (
	// Version is the application version, set by build flags.
	Version = "v0.1.0"
	// Build is the build timestamp or commit, set by build flags.
	Build = "n/a"
)
