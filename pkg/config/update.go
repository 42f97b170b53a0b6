package config

import (
	"fmt"
	"maps"
	"slices"
	"strings"

	"github.com/gnames/gn"
)

// Update applies a slice of Option functions to the Config.
// This is the only way to modify a Config after creation.
// Invalid options are rejected with warnings - config remains in valid state.
func (c *Config) Update(opts []Option) {
	for _, opt := range opts {
		opt(c)
	}
}

// ToOptions converts the Config to a slice of Option functions.
// Only includes persistent fields appropriate for config.yaml.
// Excludes runtime-only fields (HomeDir, OutputDir, Fetch.Strict,
// Fetch.Progress).
// Used for round-tripping config.yaml ↔ Config conversions.
func (c *Config) ToOptions() []Option {
	var res []Option
	var s string
	var i int
	var f float64

	s = c.Fetch.APIURL
	if s != "" {
		res = append(res, OptFetchAPIURL(s))
	}
	i = c.Fetch.PerPage
	if i > 0 {
		res = append(res, OptFetchPerPage(i))
	}
	i = c.Fetch.MaxPages
	if i > 0 {
		res = append(res, OptFetchMaxPages(i))
	}
	f = c.Fetch.RequestsPerSecond
	if f > 0 {
		res = append(res, OptFetchRequestsPerSecond(f))
	}
	i = c.Fetch.TimeoutSec
	if i > 0 {
		res = append(res, OptFetchTimeout(i))
	}
	s = c.Fetch.UserAgent
	if s != "" {
		res = append(res, OptFetchUserAgent(s))
	}

	s = c.Resolve.APIURL
	if s != "" {
		res = append(res, OptResolveAPIURL(s))
	}
	f = c.Resolve.MinScore
	if f > 0 {
		res = append(res, OptResolveMinScore(f))
	}
	i = c.Resolve.BatchSize
	if i > 0 {
		res = append(res, OptResolveBatchSize(i))
	}
	i = c.Resolve.TimeoutSec
	if i > 0 {
		res = append(res, OptResolveTimeout(i))
	}

	s = c.Tree.LabelFormat
	if s != "" {
		res = append(res, OptTreeLabelFormat(s))
	}

	f = c.Draw.WidthCm
	if f > 0 {
		res = append(res, OptDrawWidth(f))
	}

	s = c.Log.Format
	if s != "" {
		res = append(res, OptLogFormat(s))
	}
	s = c.Log.Level
	if s != "" {
		res = append(res, OptLogLevel(s))
	}
	s = c.Log.Destination
	if s != "" {
		res = append(res, OptLogDestination(s))
	}

	return res
}

func isValidString(name, s string) bool {
	res := s != ""
	if !res {
		gn.Warn("<em>%s</em> cannot be empty, ignoring", name)
	}
	return res
}

func isValidInt(name string, i int) bool {
	res := i > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive number, ignoring %d", name, i)
	}
	return res
}

func isValidFloat(name string, f float64) bool {
	res := f > 0
	if !res {
		gn.Warn("<em>%s</em> has to be positive, ignoring %v", name, f)
	}
	return res
}

func isValidScore(name string, f float64) bool {
	res := f > 0 && f <= 1
	if !res {
		gn.Warn("<em>%s</em> has to be in (0, 1], ignoring %v", name, f)
	}
	return res
}

func isValidEnum(name, val string) bool {
	s := struct{}{}
	data := map[string]map[string]struct{}{
		"Tree.LabelFormat": {"name": s, "id": s, "name_and_id": s},
		"Log.Level":        {"debug": s, "info": s, "warn": s, "error": s},
		"Log.Format":       {"json": s, "text": s},
		"Log.Destination":  {"file": s, "stderr": s, "stdout": s},
	}
	vals := slices.Sorted(maps.Keys(data[name]))
	var lines []string
	for _, v := range vals {
		line := fmt.Sprintf("  * %s", v)
		lines = append(lines, line)
	}
	if _, ok := data[name][val]; ok {
		return true
	}
	gn.Warn(
		"<em>%s</em> does not support '%s' as a value. "+
			"Valid values are: \n%s\nIgnoring...",
		name, val, strings.Join(lines, "\n"),
	)
	return false
}
