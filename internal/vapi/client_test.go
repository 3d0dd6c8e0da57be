package vapi

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
)

func newTestClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()

	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	return NewClient(Config{
		APIKey:  "test-key",
		BaseURL: server.URL,
	})
}

func TestClient_FetchCall(t *testing.T) {
	var gotAuth string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		if r.URL.Path != "/call/call-1" {
			t.Errorf("wrong path: %s", r.URL.Path)
		}
		w.Write([]byte(`{
			"id": "call-1",
			"createdAt": "2025-06-01T12:00:00.000Z",
			"endedAt": "2025-06-01T12:01:00.000Z",
			"customer": {"number": "+15551234567"},
			"cost": 0.1
		}`))
	})

	call, err := client.FetchCall(context.Background(), "call-1")
	if err != nil {
		t.Fatalf("FetchCall failed: %v", err)
	}
	if call.ID != "call-1" {
		t.Errorf("wrong id: %q", call.ID)
	}
	if gotAuth != "test-key" {
		t.Errorf("wrong Authorization header: %q", gotAuth)
	}
}

func TestClient_FetchCall_ServerErrorIsTransient(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "internal error", http.StatusInternalServerError)
	})

	_, err := client.FetchCall(context.Background(), "call-1")
	if err == nil {
		t.Fatal("expected error for 500 response")
	}
	if !IsTransient(err) {
		t.Errorf("500 should classify as transient: %v", err)
	}

	var fe *FetchError
	if !errors.As(err, &fe) {
		t.Fatalf("expected *FetchError, got %T", err)
	}
	if fe.StatusCode != http.StatusInternalServerError {
		t.Errorf("wrong status code: %d", fe.StatusCode)
	}
}

func TestClient_FetchCall_AuthErrorIsPermanent(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "unauthorized", http.StatusUnauthorized)
	})

	_, err := client.FetchCall(context.Background(), "call-1")
	if !IsPermanent(err) {
		t.Errorf("401 should classify as permanent: %v", err)
	}
}

func TestClient_FetchCall_ConnectionRefusedIsTransient(t *testing.T) {
	// Point at a server that has already been shut down.
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	url := server.URL
	server.Close()

	client := NewClient(Config{APIKey: "k", BaseURL: url})

	_, err := client.FetchCall(context.Background(), "call-1")
	if !IsTransient(err) {
		t.Errorf("connection failure should classify as transient: %v", err)
	}
}

func TestClient_FetchCall_InvalidRecord(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		// Empty id fails validation.
		w.Write([]byte(`{"createdAt": "2025-06-01T12:00:00.000Z"}`))
	})

	_, err := client.FetchCall(context.Background(), "call-1")
	if !IsPermanent(err) {
		t.Errorf("invalid record should classify as permanent: %v", err)
	}
}

func TestClient_FetchCallIndex(t *testing.T) {
	var gotLimit, gotCreatedAtGE string
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		gotLimit = r.Header.Get("limit")
		gotCreatedAtGE = r.Header.Get("createdAtGE")
		if r.URL.Path != "/call" {
			t.Errorf("wrong path: %s", r.URL.Path)
		}
		w.Write([]byte(`[{"id": "new"}, {"id": "older"}, {"id": ""}]`))
	})

	ids, err := client.FetchCallIndex(context.Background())
	if err != nil {
		t.Fatalf("FetchCallIndex failed: %v", err)
	}

	if len(ids) != 2 || ids[0] != "new" || ids[1] != "older" {
		t.Errorf("wrong ids: %v", ids)
	}
	if gotLimit != "1000" {
		t.Errorf("wrong limit header: %q", gotLimit)
	}
	if gotCreatedAtGE == "" {
		t.Error("createdAtGE header not set")
	}
}

func TestClient_FetchCallIndex_ParseError(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`not json`))
	})

	_, err := client.FetchCallIndex(context.Background())
	if !IsPermanent(err) {
		t.Errorf("parse failure should classify as permanent: %v", err)
	}
}

func TestClassifyStatus(t *testing.T) {
	cases := map[int]ErrorKind{
		500: KindTransient,
		503: KindTransient,
		408: KindTransient,
		429: KindTransient,
		400: KindPermanent,
		401: KindPermanent,
		403: KindPermanent,
		404: KindPermanent,
	}

	for status, want := range cases {
		if got := classifyStatus(status); got != want {
			t.Errorf("classifyStatus(%d) = %v, want %v", status, got, want)
		}
	}
}
