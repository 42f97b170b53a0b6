// Package iofs bootstraps the application's directories and default
// configuration files, and loads the iconic-taxon contexts table.
package iofs

import (
	_ "embed"
	"os"

	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"gopkg.in/yaml.v3"
)

//go:embed config.yaml
var ConfigYAML string

//go:embed contexts.yaml
var ContextsYAML string

// EnsureDirs creates the config and log directories when missing.
func EnsureDirs(homeDir string) error {
	dirs := []string{
		config.ConfigDir(homeDir),
		config.LogDir(homeDir),
	}
	for _, v := range dirs {
		if err := touchDir(v); err != nil {
			return err
		}
	}
	return nil
}

func touchDir(dir string) error {
	info, err := os.Stat(dir)
	if err == nil && info.IsDir() {
		return nil
	}

	if err := os.MkdirAll(dir, 0755); err != nil {
		return CreateDirError(dir, err)
	}

	return nil
}

// EnsureConfigFile writes the embedded default config.yaml to the config
// directory on first run.
func EnsureConfigFile(homeDir string) error {
	configPath := config.ConfigFilePath(homeDir)

	if _, err := os.Stat(configPath); err == nil {
		return nil
	}

	if err := os.WriteFile(configPath, []byte(ConfigYAML), 0644); err != nil {
		return CopyFileError(configPath, err)
	}

	return nil
}

// EnsureContextsFile writes the embedded default contexts.yaml to the
// config directory on first run. Users can edit the file to tune the
// iconic-taxon → TNRS context mapping.
func EnsureContextsFile(homeDir string) error {
	contextsPath := config.ContextsFilePath(homeDir)

	if _, err := os.Stat(contextsPath); err == nil {
		return nil
	}

	if err := os.WriteFile(contextsPath, []byte(ContextsYAML), 0644); err != nil {
		return CopyFileError(contextsPath, err)
	}

	return nil
}

// contextsFile mirrors the contexts.yaml structure.
type contextsFile struct {
	Contexts map[string]string `yaml:"contexts"`
}

// LoadContexts reads the iconic-taxon contexts table from the config
// directory. Entries missing from the file fall back to the built-in
// defaults at lookup time only through observation.DefaultContext.
func LoadContexts(homeDir string) (observation.ContextMap, error) {
	path := config.ContextsFilePath(homeDir)
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, ReadFileError(path, err)
	}

	var cf contextsFile
	if err := yaml.Unmarshal(data, &cf); err != nil {
		return nil, ContextsConfigError(path, err)
	}
	if len(cf.Contexts) == 0 {
		return observation.DefaultContexts(), nil
	}
	return observation.ContextMap(cf.Contexts), nil
}
