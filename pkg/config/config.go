// Package config provides configuration management for inattree.
//
// This package has no I/O dependencies (no file operations, no network
// calls). Validation functions may write user-facing warnings via gn.Warn().
//
// # Configuration Sources
//
// Precedence (highest to lowest): CLI flags > env vars > config.yaml > defaults
//
// # Design Principles
//
// - Default config (from New()) is always valid - no validation needed
// - All mutations go through Option functions - the only way to modify Config
// - Invalid options are rejected with gn.Warn() - config remains in valid state
// - ToOptions() converts persistent fields (those in config.yaml)
// - Environment variables match ToOptions() fields exactly
//
// # Persistent vs Runtime Fields
//
// Persistent fields (in ToOptions, config.yaml, and env vars):
//   - Fetch: api_url, per_page, max_pages, requests_per_second, timeout_sec,
//     user_agent
//   - Resolve: api_url, min_score, batch_size, timeout_sec
//   - Tree: label_format
//   - Draw: width_cm
//   - Log: level, format, destination
//
// Runtime-only fields (CLI flags only):
//   - Fetch.Strict, Fetch.Progress (per-command)
//   - OutputDir, HomeDir (set once at startup)
//
// # Environment Variables
//
// Use INATTREE_ prefix with underscores for nesting:
//
//	INATTREE_FETCH_API_URL=https://api.inaturalist.org/v1
//	INATTREE_RESOLVE_MIN_SCORE=0.9
//	INATTREE_LOG_LEVEL=info
package config

// Config represents the complete inattree configuration.
type Config struct {
	// Fetch contains iNaturalist observation retrieval settings.
	Fetch FetchConfig `mapstructure:"fetch" yaml:"fetch"`

	// Resolve contains Open Tree TNRS name-resolution settings.
	Resolve ResolveConfig `mapstructure:"resolve" yaml:"resolve"`

	// Tree contains induced-subtree settings.
	Tree TreeConfig `mapstructure:"tree" yaml:"tree"`

	// Draw contains rendering settings.
	Draw DrawConfig `mapstructure:"draw" yaml:"draw"`

	Log LogConfig `mapstructure:"log" yaml:"log"`

	// OutputDir is where run artifacts (CSV, JSON, Newick, images) are
	// written. Runtime-only, set from the -o flag.
	OutputDir string

	// HomeDir determines where config and logs directories reside.
	// It must be set by CLI during init, there is no default value for it.
	HomeDir string
}

// FetchConfig contains iNaturalist API client parameters.
type FetchConfig struct {
	// APIURL is the base URL of the iNaturalist API.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// PerPage is the fixed page size for observation requests.
	PerPage int `mapstructure:"per_page" yaml:"per_page"`

	// MaxPages caps the number of page requests per fetch. Together with
	// PerPage it enforces the provider ceiling of 10,000 returned records.
	MaxPages int `mapstructure:"max_pages" yaml:"max_pages"`

	// RequestsPerSecond is the self-imposed request rate ceiling. The
	// provider tolerates more; we deliberately under-request.
	RequestsPerSecond float64 `mapstructure:"requests_per_second" yaml:"requests_per_second"`

	// TimeoutSec is the per-request HTTP timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`

	// UserAgent identifies the client to the provider.
	UserAgent string `mapstructure:"user_agent" yaml:"user_agent"`

	// Strict promotes the first failed page request to a hard error.
	// When false, failed pages are dropped and only logged.
	// Runtime-only (--strict flag).
	Strict bool

	// Progress enables a terminal progress bar during pagination.
	// Runtime-only.
	Progress bool
}

// ResolveConfig contains Open Tree TNRS client parameters.
type ResolveConfig struct {
	// APIURL is the base URL of the Open Tree of Life API.
	APIURL string `mapstructure:"api_url" yaml:"api_url"`

	// MinScore is the minimum TNRS match score to accept a candidate.
	MinScore float64 `mapstructure:"min_score" yaml:"min_score"`

	// BatchSize is the maximum number of names per TNRS request.
	BatchSize int `mapstructure:"batch_size" yaml:"batch_size"`

	// TimeoutSec is the per-request HTTP timeout in seconds.
	TimeoutSec int `mapstructure:"timeout_sec" yaml:"timeout_sec"`
}

// TreeConfig contains induced-subtree request parameters.
type TreeConfig struct {
	// LabelFormat is the Open Tree label format for subtree nodes.
	// Valid values: "name", "id", "name_and_id".
	LabelFormat string `mapstructure:"label_format" yaml:"label_format"`
}

// DrawConfig contains rendering parameters.
type DrawConfig struct {
	// WidthCm is the width (and height) of the square output canvas
	// in centimeters.
	WidthCm float64 `mapstructure:"width_cm" yaml:"width_cm"`
}

// LogConfig provides typical settings for application logs.
type LogConfig struct {
	// Format can be 'json' or 'text'.
	Format string `mapstructure:"format"      yaml:"format"`
	// Level of logging -- 'error', 'warn', 'info', 'debug'
	Level string `mapstructure:"level"       yaml:"level"`
	// Destination can be a log file (to default place), STDERR or STDOUT
	Destination string `mapstructure:"destination" yaml:"destination"`
}

// New creates a Config with sensible default values.
// The returned config is always valid and ready to use.
// Default values can be overridden using Option functions via Update().
func New() *Config {
	res := &Config{
		Fetch: FetchConfig{
			APIURL:  "https://api.inaturalist.org/v1",
			PerPage: 200,
			// 50 pages of 200 records: the provider-recommended ceiling
			// of 10,000 results.
			MaxPages:          50,
			RequestsPerSecond: 0.5,
			TimeoutSec:        30,
			UserAgent:         "inattree/" + "0.1.0",
		},
		Resolve: ResolveConfig{
			APIURL:     "https://api.opentreeoflife.org",
			MinScore:   0.9,
			BatchSize:  250,
			TimeoutSec: 60,
		},
		Tree: TreeConfig{
			LabelFormat: "name",
		},
		Draw: DrawConfig{
			WidthCm: 20,
		},
		Log: LogConfig{
			Format: "json",
			Level:  "info",
			// for now the file is rewritten every time the log starts
			Destination: "file",
		},
		OutputDir: ".",
	}

	return res
}
