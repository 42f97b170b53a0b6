// Package iootol implements clients for the Open Tree of Life API: TNRS
// name resolution with synthesis-tree membership checks, and induced
// subtree extraction.
package iootol

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
)

// postJSON issues a POST with a JSON payload and decodes a JSON response.
// Non-2xx statuses come back as *statusError carrying the response body.
func postJSON(
	ctx context.Context,
	client *http.Client,
	url string,
	payload any,
	out any,
) error {
	body, err := json.Marshal(payload)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(
		ctx, http.MethodPost, url, bytes.NewReader(body),
	)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Accept", "application/json")

	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		return &statusError{status: resp.StatusCode, body: data}
	}
	if out == nil {
		return nil
	}
	return json.Unmarshal(data, out)
}

// statusError is a non-2xx response with its body retained, so callers can
// inspect structured service errors (e.g. unknown-id listings).
type statusError struct {
	status int
	body   []byte
}

func (e *statusError) Error() string {
	return fmt.Sprintf("HTTP %d: %s", e.status, string(e.body))
}
