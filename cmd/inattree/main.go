// Package main provides the inattree CLI application.
// inattree draws a circular tree of life from the observations of an
// iNaturalist user or project.
package main

import "github.com/mdahirel/inat-tree/cmd"

func main() {
	cmd.Execute()
}
