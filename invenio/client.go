package invenio

import (
	"bytes"
	"context"
	"crypto/tls"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"strings"
	"time"
)

// Client talks to an InvenioRDM instance's REST API. One client serves a
// whole import run.
type Client struct {
	BaseURL    string
	Token      string
	HTTPClient *http.Client
}

// NewClient creates a Client for the given instance. verify=false disables
// TLS verification for self-signed development instances.
func NewClient(baseURL, token string, verify bool) *Client {
	baseURL = strings.TrimSuffix(baseURL, "/")
	transport := http.DefaultTransport
	if !verify {
		transport = &http.Transport{
			TLSClientConfig: &tls.Config{InsecureSkipVerify: true},
		}
	}
	return &Client{
		BaseURL: baseURL,
		Token:   token,
		HTTPClient: &http.Client{
			Timeout:   5 * time.Minute,
			Transport: transport,
		},
	}
}

// Draft is the subset of a draft-record response the import flow needs.
type Draft struct {
	ID    string `json:"id"`
	Links struct {
		Files   string `json:"files"`
		Publish string `json:"publish"`
		Record  string `json:"record"`
		Self    string `json:"self"`
	} `json:"links"`
}

// CreateDraft creates a new draft record from the document.
func (c *Client) CreateDraft(ctx context.Context, rec *Record) (*Draft, error) {
	body, err := json.Marshal(rec)
	if err != nil {
		return nil, fmt.Errorf("serializing record: %w", err)
	}
	var draft Draft
	if err := c.do(ctx, http.MethodPost, c.BaseURL+"/api/records", "application/json", bytes.NewReader(body), &draft); err != nil {
		return nil, fmt.Errorf("creating draft: %w", err)
	}
	slog.Debug("created draft", "id", draft.ID)
	return &draft, nil
}

// UploadFile attaches one file to a draft: init, content, commit.
func (c *Client) UploadFile(ctx context.Context, draft *Draft, name string, content io.Reader) error {
	init, err := json.Marshal([]map[string]string{{"key": name}})
	if err != nil {
		return err
	}
	if err := c.do(ctx, http.MethodPost, draft.Links.Files, "application/json", bytes.NewReader(init), nil); err != nil {
		return fmt.Errorf("initializing file %q: %w", name, err)
	}
	base := fmt.Sprintf("%s/api/records/%s/draft/files/%s", c.BaseURL, draft.ID, name)
	if err := c.do(ctx, http.MethodPut, base+"/content", "application/octet-stream", content, nil); err != nil {
		return fmt.Errorf("uploading file %q: %w", name, err)
	}
	if err := c.do(ctx, http.MethodPost, base+"/commit", "application/json", nil, nil); err != nil {
		return fmt.Errorf("committing file %q: %w", name, err)
	}
	slog.Debug("uploaded file", "draft", draft.ID, "file", name)
	return nil
}

// Publish publishes a draft and returns the published record's ID.
func (c *Client) Publish(ctx context.Context, draft *Draft) (string, error) {
	var published struct {
		ID string `json:"id"`
	}
	url := draft.Links.Publish
	if url == "" {
		url = fmt.Sprintf("%s/api/records/%s/draft/actions/publish", c.BaseURL, draft.ID)
	}
	if err := c.do(ctx, http.MethodPost, url, "application/json", nil, &published); err != nil {
		return "", fmt.Errorf("publishing draft %s: %w", draft.ID, err)
	}
	slog.Info("published record", "id", published.ID)
	return published.ID, nil
}

// Community is the subset of a community response the import flow needs.
type Community struct {
	ID     string `json:"id"`
	Slug   string `json:"slug"`
	Access struct {
		Visibility string `json:"visibility"`
	} `json:"access"`
}

// GetCommunity resolves a community by slug.
func (c *Client) GetCommunity(ctx context.Context, slug string) (*Community, error) {
	var community Community
	url := c.BaseURL + "/api/communities/" + slug
	if err := c.do(ctx, http.MethodGet, url, "", nil, &community); err != nil {
		return nil, fmt.Errorf("community %q: %w", slug, err)
	}
	return &community, nil
}

// AddToCommunity submits a published record to a community and immediately
// accepts the inclusion request. A public record cannot join a restricted
// community; that combination is skipped with a warning rather than left to
// fail server side.
func (c *Client) AddToCommunity(ctx context.Context, recordID string, community *Community, recordPublic bool) error {
	if recordPublic && community.Access.Visibility == "restricted" {
		slog.Warn("skipping restricted community for public record",
			"record", recordID, "community", community.Slug)
		return nil
	}

	body, err := json.Marshal(map[string]any{
		"communities": []map[string]string{{"id": community.ID}},
	})
	if err != nil {
		return err
	}
	var result struct {
		Processed []struct {
			Community string `json:"community"`
			RequestID string `json:"request_id"`
		} `json:"processed"`
	}
	url := fmt.Sprintf("%s/api/records/%s/communities", c.BaseURL, recordID)
	if err := c.do(ctx, http.MethodPost, url, "application/json", bytes.NewReader(body), &result); err != nil {
		return fmt.Errorf("adding record %s to community %q: %w", recordID, community.Slug, err)
	}

	for _, p := range result.Processed {
		accept := fmt.Sprintf("%s/api/requests/%s/actions/accept", c.BaseURL, p.RequestID)
		if err := c.do(ctx, http.MethodPost, accept, "application/json", nil, nil); err != nil {
			return fmt.Errorf("accepting community request %s: %w", p.RequestID, err)
		}
	}
	slog.Debug("added record to community", "record", recordID, "community", community.Slug)
	return nil
}

// do issues one request and decodes the JSON response into out (when out is
// non-nil). Non-2xx responses surface the response body in the error so
// server-side validation messages are not lost.
func (c *Client) do(ctx context.Context, method, url, contentType string, body io.Reader, out any) error {
	req, err := http.NewRequestWithContext(ctx, method, url, body)
	if err != nil {
		return err
	}
	req.Header.Set("Authorization", "Bearer "+c.Token)
	if contentType != "" {
		req.Header.Set("Content-Type", contentType)
	}

	resp, err := c.HTTPClient.Do(req)
	if err != nil {
		return err
	}
	defer resp.Body.Close()

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return err
	}
	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return fmt.Errorf("%s %s: HTTP %d: %s", method, url, resp.StatusCode, strings.TrimSpace(string(data)))
	}
	if out != nil && len(data) > 0 {
		if err := json.Unmarshal(data, out); err != nil {
			return fmt.Errorf("decoding response from %s: %w", url, err)
		}
	}
	return nil
}
