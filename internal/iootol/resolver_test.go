package iootol

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"

	"github.com/mdahirel/inat-tree/pkg/config"
	"github.com/mdahirel/inat-tree/pkg/observation"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// otolServer fakes the TNRS and node_info endpoints. Matches are keyed by
// submitted name; synthesis-tree membership by OTT id.
type otolServer struct {
	matches map[string][]fakeMatch
	inTree  map[int64]bool
	failAll bool

	mu       sync.Mutex
	requests []map[string]any
}

type fakeMatch struct {
	ottID int64
	name  string
	score float64
}

func (s *otolServer) handler(w http.ResponseWriter, r *http.Request) {
	var payload map[string]any
	_ = json.NewDecoder(r.Body).Decode(&payload)
	s.mu.Lock()
	payload["__path"] = r.URL.Path
	s.requests = append(s.requests, payload)
	s.mu.Unlock()

	switch r.URL.Path {
	case "/v3/tnrs/match_names":
		if s.failAll {
			http.Error(w, "down", http.StatusServiceUnavailable)
			return
		}
		names, _ := payload["names"].([]any)
		resp := map[string]any{"results": []any{}}
		var results []any
		for _, n := range names {
			name, _ := n.(string)
			var ms []any
			for _, m := range s.matches[name] {
				ms = append(ms, map[string]any{
					"score": m.score,
					"taxon": map[string]any{
						"ott_id": m.ottID,
						"name":   m.name,
					},
				})
			}
			results = append(results, map[string]any{
				"name":    name,
				"matches": ms,
			})
		}
		resp["results"] = results
		json.NewEncoder(w).Encode(resp)
	case "/v3/tree_of_life/node_info":
		id := int64(payload["ott_id"].(float64))
		if s.inTree[id] {
			fmt.Fprint(w, `{"node_id":"ott`, id, `"}`)
			return
		}
		http.Error(w, `{"message":"not in tree"}`, http.StatusBadRequest)
	default:
		http.NotFound(w, r)
	}
}

func testResolver(t *testing.T, s *otolServer) *resolver {
	t.Helper()
	srv := httptest.NewServer(http.HandlerFunc(s.handler))
	t.Cleanup(srv.Close)

	cfg := config.New()
	cfg.Update([]config.Option{config.OptResolveAPIURL(srv.URL)})
	return NewResolver(cfg).(*resolver)
}

func TestResolve(t *testing.T) {
	s := &otolServer{
		matches: map[string][]fakeMatch{
			"Apis mellifera": {
				{ottID: 461645, name: "Apis mellifera", score: 1},
			},
			"Quercus robur": {
				{ottID: 329672, name: "Quercus robur", score: 0.95},
				{ottID: 999999, name: "Quercus roburoides", score: 0.7},
			},
		},
		inTree: map[int64]bool{461645: true, 329672: true},
	}
	r := testResolver(t, s)

	names := []observation.TaggedName{
		{Name: "Apis mellifera", Context: "Insects"},
		// the authorship strips off during canonicalization
		{Name: "Quercus robur L.", Context: "Land plants"},
	}
	got, err := r.Resolve(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, got, 3)

	byID := make(map[int64]int)
	for i, m := range got {
		byID[m.OTTID] = i
	}

	m := got[byID[461645]]
	assert.Equal(t, "Apis mellifera", m.Name)
	assert.True(t, m.InTree)
	assert.Equal(t, float64(1), m.Score)

	// the match reports the submitted observation name, not the canonical
	m = got[byID[329672]]
	assert.Equal(t, "Quercus robur L.", m.Name)
	assert.Equal(t, "Quercus robur", m.MatchedName)
	assert.True(t, m.InTree)

	// candidate absent from the synthesis tree keeps InTree false
	m = got[byID[999999]]
	assert.False(t, m.InTree)
}

func TestResolveDropsUnparseableNames(t *testing.T) {
	s := &otolServer{
		matches: map[string][]fakeMatch{
			"Apis mellifera": {
				{ottID: 461645, name: "Apis mellifera", score: 1},
			},
		},
		inTree: map[int64]bool{461645: true},
	}
	r := testResolver(t, s)

	names := []observation.TaggedName{
		{Name: "Apis mellifera", Context: "Insects"},
		{Name: "12345", Context: "All life"},
	}
	got, err := r.Resolve(context.Background(), names)
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, "Apis mellifera", got[0].Name)

	// the unparseable name never reaches the service
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req["__path"] != "/v3/tnrs/match_names" {
			continue
		}
		for _, n := range req["names"].([]any) {
			assert.NotEqual(t, "12345", n)
		}
	}
}

func TestResolveContextForwarded(t *testing.T) {
	s := &otolServer{
		matches: map[string][]fakeMatch{
			"Apis mellifera": {
				{ottID: 461645, name: "Apis mellifera", score: 1},
			},
			"Physarum polycephalum": {
				{ottID: 999, name: "Physarum polycephalum", score: 1},
			},
		},
		inTree: map[int64]bool{461645: true, 999: true},
	}
	r := testResolver(t, s)

	names := []observation.TaggedName{
		{Name: "Apis mellifera", Context: "Insects"},
		{Name: "Physarum polycephalum", Context: observation.DefaultContext},
	}
	_, err := r.Resolve(context.Background(), names)
	require.NoError(t, err)

	s.mu.Lock()
	defer s.mu.Unlock()
	for _, req := range s.requests {
		if req["__path"] != "/v3/tnrs/match_names" {
			continue
		}
		names := req["names"].([]any)
		if names[0] == "Apis mellifera" {
			assert.Equal(t, "Insects", req["context_name"])
		} else {
			// the broadest scope stays implicit
			_, ok := req["context_name"]
			assert.False(t, ok)
		}
	}
}

func TestResolveAllBatchesFail(t *testing.T) {
	s := &otolServer{failAll: true}
	r := testResolver(t, s)

	names := []observation.TaggedName{
		{Name: "Apis mellifera", Context: "Insects"},
	}
	_, err := r.Resolve(context.Background(), names)
	assert.Error(t, err)
}

func TestResolveEmptyInput(t *testing.T) {
	s := &otolServer{}
	r := testResolver(t, s)

	_, err := r.Resolve(context.Background(), nil)
	assert.Error(t, err)
	assert.Equal(t, 0, len(s.requests))
}
