package metadata

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"

	"github.com/ryanm101/gamemeta/logging"
	"github.com/ryanm101/gamemeta/normalize"
)

// getJSON issues a GET request and decodes the JSON response into out.
// Credential query parameters are stripped before the URL reaches the logs.
func getJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, out any) error {
	return getJSONWithHeader(ctx, client, rawURL, params, nil, out)
}

func getJSONWithHeader(ctx context.Context, client *http.Client, rawURL string, params url.Values, header http.Header, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return err
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	for key, values := range header {
		req.Header[key] = values
	}

	logging.Debug("provider request", "url", normalize.StripSensitiveParams(req.URL.String()))
	return doJSON(client, req, out)
}

// postJSON issues a POST request with a JSON body and decodes the response.
func postJSON(ctx context.Context, client *http.Client, rawURL string, params url.Values, body, out any) error {
	return postJSONWithHeader(ctx, client, rawURL, params, body, nil, out)
}

func postJSONWithHeader(ctx context.Context, client *http.Client, rawURL string, params url.Values, body any, header http.Header, out any) error {
	payload, err := json.Marshal(body)
	if err != nil {
		return err
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, rawURL, bytes.NewReader(payload))
	if err != nil {
		return err
	}
	if params != nil {
		req.URL.RawQuery = params.Encode()
	}
	for key, values := range header {
		req.Header[key] = values
	}
	req.Header.Set("Content-Type", "application/json")

	logging.Debug("provider request", "url", normalize.StripSensitiveParams(req.URL.String()))
	return doJSON(client, req, out)
}

func doJSON(client *http.Client, req *http.Request, out any) error {
	resp, err := client.Do(req)
	if err != nil {
		return err
	}
	defer func() { _ = resp.Body.Close() }()

	switch resp.StatusCode {
	case http.StatusOK:
	case http.StatusUnauthorized, http.StatusForbidden:
		return fmt.Errorf("authentication failed: %s", resp.Status)
	case http.StatusTooManyRequests:
		return fmt.Errorf("rate limited: %s", resp.Status)
	case http.StatusNotFound:
		return errNotFound
	default:
		return fmt.Errorf("unexpected status: %s", resp.Status)
	}

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("malformed response: %w", err)
	}
	return nil
}

// errNotFound marks a 404, which providers translate to "no match".
var errNotFound = fmt.Errorf("not found")
