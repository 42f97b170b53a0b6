/*
Copyright © 2026 Maxime Dahirel

Permission is hereby granted, free of charge, to any person obtaining a copy
of this software and associated documentation files (the "Software"), to deal
in the Software without restriction, including without limitation the rights
to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
copies of the Software, and to permit persons to whom the Software is
furnished to do so, subject to the following conditions:

The above copyright notice and this permission notice shall be included in
all copies or substantial portions of the Software.

THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN
THE SOFTWARE.
*/
package cmd

import (
	"fmt"
	"log/slog"
	"os"
	"strings"

	"github.com/gnames/gn"
	"github.com/mdahirel/inat-tree/internal/iofs"
	"github.com/mdahirel/inat-tree/internal/iologger"
	app "github.com/mdahirel/inat-tree/pkg"
	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"
)

var (
	homeDir string
	cfg     *config.Config
)

// getRootCmd returns the base command with all subcommands attached.
// Extracted as a function to facilitate testing.
func getRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Version: fmt.Sprintf(
			"version: %s\nbuild:   %s", app.Version, app.Build,
		),
		Use:   "inattree",
		Short: "inattree draws a tree of life from iNaturalist observations",
		Long: `inattree turns the observations of an iNaturalist user or project into
a circular tree of life.

The pipeline has four stages, each available as its own subcommand:
  - fetch:   download observations and save them as observations.csv
  - resolve: match taxon names against the Open Tree taxonomy
  - tree:    extract the induced subtree over the accepted matches
  - draw:    render the tree as SVG and PNG images

The 'run' subcommand executes all stages in one go.

Configuration precedence (highest to lowest):
  1. CLI flags
  2. Environment variables (INATTREE_*)
  3. Config file (~/.config/inattree/config.yaml)
  4. Built-in defaults`,
		PersistentPreRunE: bootstrap,
		RunE:              runRoot,
		SilenceErrors:     true,
		SilenceUsage:      true,
	}

	// Remove the automatic "inattree version" prefix
	rootCmd.SetVersionTemplate("{{.Version}}\n")

	// Override version flag to use -V (consistent with other gn projects)
	rootCmd.Flags().BoolP("version", "V", false, "version for inattree")

	rootCmd.PersistentFlags().StringP(
		"output", "o", "",
		"directory for run artifacts (default: current directory)",
	)

	rootCmd.AddCommand(
		getFetchCmd(),
		getResolveCmd(),
		getTreeCmd(),
		getDrawCmd(),
		getRunCmd(),
	)

	return rootCmd
}

func bootstrap(cmd *cobra.Command, args []string) error {
	var err error
	homeDir, err = os.UserHomeDir()
	if err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureDirs(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	// Initialize logging with hardcoded defaults
	// Will be reconfigured later with user's config settings
	defaultLog := config.LogConfig{
		Format:      "json",
		Level:       "info",
		Destination: "file",
	}
	if err = iologger.Init(config.LogDir(homeDir), defaultLog); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	if err = iofs.EnsureConfigFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}
	if err = iofs.EnsureContextsFile(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	var cfgViper *config.Config
	if cfgViper, err = initConfig(homeDir); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	cfg = config.New()
	cfg.Update(cfgViper.ToOptions())

	// Set HomeDir after config is loaded
	cfg.Update([]config.Option{config.OptHomeDir(homeDir)})

	if out, _ := cmd.Flags().GetString("output"); out != "" {
		cfg.Update([]config.Option{config.OptOutputDir(out)})
	}

	// Reconfigure logging with user's settings and proper log file location
	if err = reconfigureLogging(cfg); err != nil {
		gn.PrintErrorMessage(err)
		return err
	}

	slog.Info("Configuration loaded",
		"config_file", config.ConfigFilePath(homeDir))

	return nil
}

// reconfigureLogging reinitializes the logger with the loaded configuration.
// Creates log file in the proper location now that we know HomeDir.
func reconfigureLogging(cfg *config.Config) error {
	logDir := config.LogDir(cfg.HomeDir)
	return iologger.Init(logDir, cfg.Log)
}

func runRoot(cmd *cobra.Command, args []string) error {
	return cmd.Help()
}

// Execute adds all child commands to the root command and sets flags
// appropriately. This is called by main.main(). It only needs to happen
// once to the rootCmd.
func Execute() {
	err := getRootCmd().Execute()
	if err != nil {
		os.Exit(1)
	}
}

func initConfig(home string) (*config.Config, error) {
	var err error
	cfgPath := config.ConfigFilePath(home)
	v := viper.New()
	v.SetConfigFile(cfgPath)

	initEnvVars(v)

	if err = v.ReadInConfig(); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	var res config.Config
	if err = v.Unmarshal(&res); err != nil {
		return nil, iofs.ReadFileError(cfgPath, err)
	}

	return &res, nil
}

func initEnvVars(v *viper.Viper) {
	// Set environment variables we want.
	// We set them manually so we can see clearly which env variables are
	// allowed. These match the fields included in config.ToOptions() -
	// i.e., persistent configuration that can be stored in config.yaml.
	v.SetEnvPrefix("INATTREE")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))

	// Observation fetch configuration
	v.BindEnv("fetch.api_url", "FETCH_API_URL")
	v.BindEnv("fetch.per_page", "FETCH_PER_PAGE")
	v.BindEnv("fetch.max_pages", "FETCH_MAX_PAGES")
	v.BindEnv("fetch.requests_per_second", "FETCH_REQUESTS_PER_SECOND")
	v.BindEnv("fetch.timeout_sec", "FETCH_TIMEOUT_SEC")
	v.BindEnv("fetch.user_agent", "FETCH_USER_AGENT")

	// Name resolution configuration
	v.BindEnv("resolve.api_url", "RESOLVE_API_URL")
	v.BindEnv("resolve.min_score", "RESOLVE_MIN_SCORE")
	v.BindEnv("resolve.batch_size", "RESOLVE_BATCH_SIZE")
	v.BindEnv("resolve.timeout_sec", "RESOLVE_TIMEOUT_SEC")

	// Subtree and drawing configuration
	v.BindEnv("tree.label_format", "TREE_LABEL_FORMAT")
	v.BindEnv("draw.width_cm", "DRAW_WIDTH_CM")

	// Log configuration
	v.BindEnv("log.level", "LOG_LEVEL")
	v.BindEnv("log.format", "LOG_FORMAT")
	v.BindEnv("log.destination", "LOG_DESTINATION")

	v.AutomaticEnv()
}
