package iootol

import (
	"context"
	"encoding/json"
	"errors"
	"log/slog"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/pipeline"
)

type subtreeClient struct {
	cfg    *config.Config
	client *http.Client
}

// NewSubtree creates a SubtreeService backed by the Open Tree
// induced_subtree endpoint.
func NewSubtree(cfg *config.Config) pipeline.SubtreeService {
	res := subtreeClient{
		cfg: cfg,
		client: &http.Client{
			Timeout: time.Duration(cfg.Resolve.TimeoutSec) * time.Second,
		},
	}
	return &res
}

type subtreeResponse struct {
	Newick string `json:"newick"`
}

// subtreeError models the service's 400 payload listing identifiers it
// does not know, keyed as "ott<id>".
type subtreeError struct {
	Message string            `json:"message"`
	Unknown map[string]string `json:"unknown"`
}

// InducedSubtree returns the Newick encoding of the minimal tree
// connecting the given identifiers in the synthesis tree. Identifiers the
// service rejects as unknown are pruned and the request retried once;
// the call fails only when no identifier is usable.
func (s *subtreeClient) InducedSubtree(
	ctx context.Context,
	ottIDs []int64,
) (string, error) {
	if len(ottIDs) == 0 {
		return "", NoIDsError()
	}

	nwk, unknown, err := s.request(ctx, ottIDs)
	if err != nil {
		return "", err
	}
	if len(unknown) == 0 {
		return nwk, nil
	}

	slog.Warn("identifiers unknown to the synthesis tree, pruning",
		"count", len(unknown))
	kept := make([]int64, 0, len(ottIDs))
	for _, id := range ottIDs {
		if _, ok := unknown[id]; !ok {
			kept = append(kept, id)
		}
	}
	if len(kept) == 0 {
		return "", AllUnknownError(len(ottIDs))
	}

	nwk, unknown, err = s.request(ctx, kept)
	if err != nil {
		return "", err
	}
	if len(unknown) > 0 {
		return "", AllUnknownError(len(unknown))
	}
	return nwk, nil
}

// request issues one induced_subtree call. A 400 with a parseable unknown
// listing is not an error: the listing comes back for the caller to prune.
func (s *subtreeClient) request(
	ctx context.Context,
	ottIDs []int64,
) (string, map[int64]struct{}, error) {
	payload := map[string]any{
		"ott_ids":      ottIDs,
		"label_format": s.cfg.Tree.LabelFormat,
	}

	var resp subtreeResponse
	url := s.cfg.Resolve.APIURL + "/v3/tree_of_life/induced_subtree"
	err := postJSON(ctx, s.client, url, payload, &resp)
	if err == nil {
		return resp.Newick, nil, nil
	}

	var se *statusError
	if errors.As(err, &se) && se.status == http.StatusBadRequest {
		var svcErr subtreeError
		if jsonErr := json.Unmarshal(se.body, &svcErr); jsonErr == nil &&
			len(svcErr.Unknown) > 0 {
			return "", parseUnknownIDs(svcErr.Unknown), nil
		}
	}
	return "", nil, SubtreeRequestError(err)
}

// parseUnknownIDs converts the service's "ott<id>" keys to identifiers.
func parseUnknownIDs(unknown map[string]string) map[int64]struct{} {
	res := make(map[int64]struct{}, len(unknown))
	for k := range unknown {
		idStr := strings.TrimPrefix(k, "ott")
		id, err := strconv.ParseInt(idStr, 10, 64)
		if err != nil {
			continue
		}
		res[id] = struct{}{}
	}
	return res
}
