// Package ioinat implements the observation retriever against the
// iNaturalist API: paginated, rate-limited, capped at the provider's
// recommended ceiling of returned results.
package ioinat

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/cheggaaa/pb/v3"
	"github.com/dustin/go-humanize"
	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
)

type fetcher struct {
	cfg    *config.Config
	client *http.Client

	// sleep performs the inter-request wait; injectable for tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New creates an ObservationFetcher backed by the iNaturalist API.
// The HTTP timeout comes from configuration, never from library defaults.
func New(cfg *config.Config) pipeline.ObservationFetcher {
	res := fetcher{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Fetch.TimeoutSec) * time.Second,
		},
		sleep: sleepContext,
	}
	return &res
}

// Fetch retrieves all observation pages for the query and flattens them
// into a table. At least one of UserID/ProjectID must be set; the check
// happens before any network I/O. Failed pages are dropped unless strict
// mode is on; the fetch fails only when every page fails.
func (f *fetcher) Fetch(
	ctx context.Context,
	q pipeline.Query,
) (observation.Table, error) {
	if strings.TrimSpace(q.UserID) == "" &&
		strings.TrimSpace(q.ProjectID) == "" {
		return nil, NoFilterError()
	}
	// q.IconicTaxon is a reserved filter, deliberately not forwarded.

	interval := time.Duration(
		float64(time.Second) / f.cfg.Fetch.RequestsPerSecond,
	)
	cur := newCursor(f.cfg.Fetch.MaxPages)

	var table observation.Table
	var okPages int
	var bar *pb.ProgressBar

	for !cur.done() {
		if cur.issued > 0 {
			if err := f.sleep(ctx, interval); err != nil {
				return nil, RequestError(err)
			}
		}
		pageNum := cur.page()

		pg, err := f.getPage(ctx, q, pageNum)
		if err != nil {
			if f.cfg.Fetch.Strict {
				return nil, err
			}
			slog.Warn("page request failed, dropping page",
				"page", pageNum, "error", err)
			cur.observe(0, 0, false)
			continue
		}

		first := cur.totalPages == 0
		perPage := pg.PerPage
		if perPage <= 0 {
			perPage = f.cfg.Fetch.PerPage
		}
		cur.observe(pg.TotalResults, perPage, true)

		if first && f.cfg.Fetch.Progress {
			bar = newProgressBar(cur.target(), "pages ")
		}
		table = append(table, flatten(pg)...)
		okPages++
		if bar != nil {
			bar.Increment()
		}
	}
	if bar != nil {
		bar.Finish()
	}

	if okPages == 0 {
		return nil, AllPagesFailedError(cur.issued)
	}

	slog.Info("observations retrieved",
		"pages_ok", okPages,
		"pages_issued", cur.issued,
		"records", humanize.Comma(int64(len(table))))
	return table, nil
}

// getPage issues one observation-search request, sorted by creation time
// descending.
func (f *fetcher) getPage(
	ctx context.Context,
	q pipeline.Query,
	page int,
) (*observationsPage, error) {
	u, err := url.Parse(f.cfg.Fetch.APIURL + "/observations")
	if err != nil {
		return nil, RequestError(err)
	}
	vals := url.Values{}
	if q.UserID != "" {
		vals.Set("user_id", q.UserID)
	}
	if q.ProjectID != "" {
		vals.Set("project_id", q.ProjectID)
	}
	vals.Set("page", strconv.Itoa(page))
	vals.Set("per_page", strconv.Itoa(f.cfg.Fetch.PerPage))
	vals.Set("order", "desc")
	vals.Set("order_by", "created_at")
	u.RawQuery = vals.Encode()

	req, err := http.NewRequestWithContext(
		ctx, http.MethodGet, u.String(), nil,
	)
	if err != nil {
		return nil, RequestError(err)
	}
	req.Header.Set("User-Agent", f.cfg.Fetch.UserAgent)
	req.Header.Set("Accept", "application/json")

	resp, err := f.client.Do(req)
	if err != nil {
		return nil, RequestError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, BadStatusError(resp.StatusCode)
	}

	var pg observationsPage
	if err := json.NewDecoder(resp.Body).Decode(&pg); err != nil {
		return nil, DecodeError(err)
	}
	return &pg, nil
}

// sleepContext blocks for d or until the context is canceled.
func sleepContext(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
