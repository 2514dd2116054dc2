package invenio

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

func TestUploadFlow(t *testing.T) {
	var calls []string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		calls = append(calls, r.Method+" "+r.URL.Path)

		if auth := r.Header.Get("Authorization"); auth != "Bearer test-token" {
			t.Errorf("missing bearer token, got %q", auth)
		}

		switch {
		case r.Method == "POST" && r.URL.Path == "/api/records":
			var rec Record
			if err := json.NewDecoder(r.Body).Decode(&rec); err != nil {
				t.Errorf("draft body: %v", err)
			}
			w.WriteHeader(http.StatusCreated)
			fmt.Fprintf(w, `{"id": "abc123", "links": {
				"files": %q,
				"publish": %q
			}}`, serverURL(r)+"/api/records/abc123/draft/files",
				serverURL(r)+"/api/records/abc123/draft/actions/publish")
		case r.Method == "POST" && r.URL.Path == "/api/records/abc123/draft/files":
			w.WriteHeader(http.StatusCreated)
			fmt.Fprint(w, `{"entries": [{"key": "thesis.pdf"}]}`)
		case r.Method == "PUT" && r.URL.Path == "/api/records/abc123/draft/files/thesis.pdf/content":
			body, _ := io.ReadAll(r.Body)
			if string(body) != "file content" {
				t.Errorf("upload body: got %q", body)
			}
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{}`)
		case r.Method == "POST" && r.URL.Path == "/api/records/abc123/draft/files/thesis.pdf/commit":
			w.WriteHeader(http.StatusOK)
			fmt.Fprint(w, `{}`)
		case r.Method == "POST" && r.URL.Path == "/api/records/abc123/draft/actions/publish":
			w.WriteHeader(http.StatusAccepted)
			fmt.Fprint(w, `{"id": "abc123"}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", true)
	ctx := context.Background()

	draft, err := client.CreateDraft(ctx, NewRecord())
	if err != nil {
		t.Fatalf("CreateDraft: %v", err)
	}
	if draft.ID != "abc123" {
		t.Fatalf("draft ID: got %q", draft.ID)
	}

	if err := client.UploadFile(ctx, draft, "thesis.pdf", strings.NewReader("file content")); err != nil {
		t.Fatalf("UploadFile: %v", err)
	}

	recordID, err := client.Publish(ctx, draft)
	if err != nil {
		t.Fatalf("Publish: %v", err)
	}
	if recordID != "abc123" {
		t.Errorf("published ID: got %q", recordID)
	}

	want := []string{
		"POST /api/records",
		"POST /api/records/abc123/draft/files",
		"PUT /api/records/abc123/draft/files/thesis.pdf/content",
		"POST /api/records/abc123/draft/files/thesis.pdf/commit",
		"POST /api/records/abc123/draft/actions/publish",
	}
	if len(calls) != len(want) {
		t.Fatalf("calls: got %v", calls)
	}
	for i, call := range want {
		if calls[i] != call {
			t.Errorf("call %d: got %q, want %q", i, calls[i], call)
		}
	}
}

func serverURL(r *http.Request) string {
	return "http://" + r.Host
}

func TestCommunityFlow(t *testing.T) {
	var accepted bool
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		switch {
		case r.Method == "GET" && r.URL.Path == "/api/communities/libraries":
			fmt.Fprint(w, `{"id": "comm-1", "slug": "libraries", "access": {"visibility": "public"}}`)
		case r.Method == "GET" && r.URL.Path == "/api/communities/secret":
			fmt.Fprint(w, `{"id": "comm-2", "slug": "secret", "access": {"visibility": "restricted"}}`)
		case r.Method == "POST" && r.URL.Path == "/api/records/abc123/communities":
			fmt.Fprint(w, `{"processed": [{"community": "comm-1", "request_id": "req-9"}]}`)
		case r.Method == "POST" && r.URL.Path == "/api/requests/req-9/actions/accept":
			accepted = true
			fmt.Fprint(w, `{}`)
		default:
			t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
			w.WriteHeader(http.StatusNotFound)
		}
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", true)
	ctx := context.Background()

	community, err := client.GetCommunity(ctx, "libraries")
	if err != nil {
		t.Fatalf("GetCommunity: %v", err)
	}
	if err := client.AddToCommunity(ctx, "abc123", community, true); err != nil {
		t.Fatalf("AddToCommunity: %v", err)
	}
	if !accepted {
		t.Error("inclusion request was not accepted")
	}

	// a public record never joins a restricted community
	restricted, err := client.GetCommunity(ctx, "secret")
	if err != nil {
		t.Fatalf("GetCommunity: %v", err)
	}
	if err := client.AddToCommunity(ctx, "abc123", restricted, true); err != nil {
		t.Errorf("restricted community should be skipped, got %v", err)
	}
}

func TestErrorBodySurfaced(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprint(w, `{"message": "validation error", "errors": [{"field": "metadata.title"}]}`)
	}))
	defer server.Close()

	client := NewClient(server.URL, "test-token", true)
	_, err := client.CreateDraft(context.Background(), NewRecord())
	if err == nil {
		t.Fatal("expected an error response")
	}
	if !strings.Contains(err.Error(), "validation error") {
		t.Errorf("response body lost from error: %v", err)
	}
	if !strings.Contains(err.Error(), "HTTP 400") {
		t.Errorf("status code lost from error: %v", err)
	}
}
