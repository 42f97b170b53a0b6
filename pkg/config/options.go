package config

import (
	"strings"
)

// Option is a function that modifies a Config.
// Options validate inputs and reject invalid values with warnings.
type Option func(*Config)

// OptFetchAPIURL sets the base URL of the iNaturalist API.
func OptFetchAPIURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fetch APIURL", s) {
			c.Fetch.APIURL = strings.TrimSuffix(s, "/")
		}
	}
}

// OptFetchPerPage sets the observation page size.
func OptFetchPerPage(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch PerPage", i) {
			c.Fetch.PerPage = i
		}
	}
}

// OptFetchMaxPages sets the cap on page requests per fetch.
func OptFetchMaxPages(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch MaxPages", i) {
			c.Fetch.MaxPages = i
		}
	}
}

// OptFetchRequestsPerSecond sets the self-imposed request rate ceiling.
func OptFetchRequestsPerSecond(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Fetch RequestsPerSecond", f) {
			c.Fetch.RequestsPerSecond = f
		}
	}
}

// OptFetchTimeout sets the per-request HTTP timeout in seconds.
func OptFetchTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Fetch TimeoutSec", i) {
			c.Fetch.TimeoutSec = i
		}
	}
}

// OptFetchUserAgent sets the User-Agent header for provider requests.
func OptFetchUserAgent(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Fetch UserAgent", s) {
			c.Fetch.UserAgent = s
		}
	}
}

// OptFetchStrict promotes failed page requests to hard errors.
func OptFetchStrict(b bool) Option {
	return func(c *Config) {
		c.Fetch.Strict = b
	}
}

// OptFetchProgress enables the terminal progress bar during pagination.
func OptFetchProgress(b bool) Option {
	return func(c *Config) {
		c.Fetch.Progress = b
	}
}

// OptResolveAPIURL sets the base URL of the Open Tree of Life API.
func OptResolveAPIURL(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("Resolve APIURL", s) {
			c.Resolve.APIURL = strings.TrimSuffix(s, "/")
		}
	}
}

// OptResolveMinScore sets the minimum TNRS match score.
func OptResolveMinScore(f float64) Option {
	return func(c *Config) {
		if isValidScore("Resolve MinScore", f) {
			c.Resolve.MinScore = f
		}
	}
}

// OptResolveBatchSize sets the maximum number of names per TNRS request.
func OptResolveBatchSize(i int) Option {
	return func(c *Config) {
		if isValidInt("Resolve BatchSize", i) {
			c.Resolve.BatchSize = i
		}
	}
}

// OptResolveTimeout sets the per-request HTTP timeout in seconds.
func OptResolveTimeout(i int) Option {
	return func(c *Config) {
		if isValidInt("Resolve TimeoutSec", i) {
			c.Resolve.TimeoutSec = i
		}
	}
}

// OptTreeLabelFormat sets the Open Tree label format for subtree nodes.
func OptTreeLabelFormat(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEnum("Tree.LabelFormat", s) {
			c.Tree.LabelFormat = s
		}
	}
}

// OptDrawWidth sets the output canvas width in centimeters.
func OptDrawWidth(f float64) Option {
	return func(c *Config) {
		if isValidFloat("Draw WidthCm", f) {
			c.Draw.WidthCm = f
		}
	}
}

// OptLogFormat sets the log format.
func OptLogFormat(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEnum("Log.Format", s) {
			c.Log.Format = s
		}
	}
}

// OptLogLevel sets the log level.
func OptLogLevel(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEnum("Log.Level", s) {
			c.Log.Level = s
		}
	}
}

// OptLogDestination sets the log destination.
func OptLogDestination(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidEnum("Log.Destination", s) {
			c.Log.Destination = s
		}
	}
}

// OptOutputDir sets the directory where run artifacts are written.
func OptOutputDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("OutputDir", s) {
			c.OutputDir = s
		}
	}
}

// OptHomeDir sets the user home directory. It is determined by the CLI at
// startup and is not part of the persistent configuration.
func OptHomeDir(s string) Option {
	s = strings.TrimSpace(s)
	return func(c *Config) {
		if isValidString("HomeDir", s) {
			c.HomeDir = s
		}
	}
}
