package config

import (
	"path/filepath"
)

var (
	// AppName is used in generating file system paths.
	AppName = "inattree"
)

// ConfigDir returns the directory path for configuration files.
// Returns ~/.config/inattree by default.
func ConfigDir(homeDir string) string {
	return filepath.Join(homeDir, ".config", AppName)
}

// LogDir returns the directory path for log files.
// Returns ~/.local/share/inattree/logs by default.
func LogDir(homeDir string) string {
	return filepath.Join(homeDir, ".local", "share", AppName, "logs")
}

// ConfigFilePath returns the full path to the config.yaml file.
// Returns ~/.config/inattree/config.yaml by default.
func ConfigFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "config.yaml")
}

// ContextsFilePath returns the full path to the contexts.yaml file that
// maps iconic taxa to TNRS taxonomic contexts.
// Returns ~/.config/inattree/contexts.yaml by default.
func ContextsFilePath(homeDir string) string {
	return filepath.Join(ConfigDir(homeDir), "contexts.yaml")
}
