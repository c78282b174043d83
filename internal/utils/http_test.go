package utils

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"
)

// ---- DoJSON ------------------------------------------------------------------

func TestDoJSON_Success(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			t.Errorf("expected POST, got %s", r.Method)
		}
		if ct := r.Header.Get("Content-Type"); ct != "application/json" {
			t.Errorf("expected JSON content type, got %q", ct)
		}
		var body map[string]string
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil || body["q"] != "test" {
			t.Errorf("unexpected body %v (%v)", body, err)
		}
		fmt.Fprint(w, `{"value":42}`)
	}))
	defer server.Close()

	type response struct {
		Value int `json:"value"`
	}

	result, err := DoJSON[response](context.Background(), server.Client(), Request{
		Method: http.MethodPost,
		URL:    server.URL,
		Body:   map[string]string{"q": "test"},
	})
	if err != nil {
		t.Fatalf("expected no error, got %v", err)
	}
	if result.Value != 42 {
		t.Errorf("expected Value=42, got %d", result.Value)
	}
}

func TestDoJSON_Non2xxReturnsAPIError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("x-request-id", "req_123")
		w.WriteHeader(http.StatusTooManyRequests)
		fmt.Fprint(w, `{"error":"slow down"}`)
	}))
	defer server.Close()

	_, err := DoJSON[map[string]any](context.Background(), nil, Request{URL: server.URL})

	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		t.Fatalf("expected *APIError, got %T: %v", err, err)
	}
	if apiErr.StatusCode != http.StatusTooManyRequests {
		t.Errorf("expected status 429, got %d", apiErr.StatusCode)
	}
	if apiErr.RequestID != "req_123" {
		t.Errorf("expected request id, got %q", apiErr.RequestID)
	}
	if !strings.Contains(apiErr.Error(), "slow down") {
		t.Errorf("expected body in message, got %q", apiErr.Error())
	}
}

func TestDoJSON_UnmarshalError(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `not json`)
	}))
	defer server.Close()

	_, err := DoJSON[map[string]any](context.Background(), server.Client(), Request{URL: server.URL})
	if err == nil || !strings.Contains(err.Error(), "Response preview") {
		t.Errorf("expected unmarshal error with preview, got %v", err)
	}
}

func TestDoJSON_CustomHeaders(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.Header.Get("x-api-key"); got != "secret" {
			t.Errorf("expected x-api-key header, got %q", got)
		}
		if got := r.Header.Get("Accept"); got != "application/json" {
			t.Errorf("expected overridden Accept, got %q", got)
		}
		fmt.Fprint(w, `{}`)
	}))
	defer server.Close()

	_, err := DoJSON[map[string]any](context.Background(), server.Client(), Request{
		URL:     server.URL,
		Headers: map[string]string{"x-api-key": "secret", "Accept": "application/json"},
	})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

func TestDoJSON_Timeout(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		select {
		case <-r.Context().Done():
		case <-time.After(2 * time.Second):
		}
	}))
	defer server.Close()

	_, err := DoJSON[map[string]any](context.Background(), server.Client(), Request{
		URL:     server.URL,
		Timeout: 20 * time.Millisecond,
	})
	if !errors.Is(err, context.DeadlineExceeded) {
		t.Errorf("expected deadline exceeded, got %v", err)
	}
}

func TestDo_ParseJSONReturnsGenericValue(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"id":"resp_1","deleted":true}`)
	}))
	defer server.Close()

	out, resp, err := Do(context.Background(), server.Client(), Request{Method: http.MethodDelete, URL: server.URL}, true)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if resp.StatusCode != http.StatusOK {
		t.Errorf("expected 200, got %d", resp.StatusCode)
	}
	m, ok := out.(map[string]any)
	if !ok || m["deleted"] != true {
		t.Errorf("unexpected parsed value: %#v", out)
	}
}

// ---- DoRaw -------------------------------------------------------------------

func TestDoRaw_LeavesBodyOpen(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/event-stream")
		fmt.Fprint(w, "data: {\"n\":1}\n\n")
	}))
	defer server.Close()

	_, resp, err := Do(context.Background(), server.Client(), Request{
		Method:  http.MethodPost,
		URL:     server.URL,
		Body:    json.RawMessage(`{"stream":true}`),
		Timeout: time.Second,
	}, false)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("read body: %v", err)
	}
	if string(body) != "data: {\"n\":1}\n\n" {
		t.Errorf("unexpected body %q", body)
	}
}

func TestDoRaw_ErrorStatusClosesBody(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusUnauthorized)
	}))
	defer server.Close()

	_, err := DoRaw(context.Background(), server.Client(), Request{URL: server.URL})
	var apiErr *APIError
	if !errors.As(err, &apiErr) || apiErr.StatusCode != http.StatusUnauthorized {
		t.Fatalf("expected 401 APIError, got %v", err)
	}
}

func TestDoRaw_NetworkError(t *testing.T) {
	_, err := DoRaw(context.Background(), nil, Request{URL: "http://127.0.0.1:1"})
	if err == nil {
		t.Fatal("expected network error")
	}
}

// ---- CloseWithLog ------------------------------------------------------------

type errCloser struct{ closed bool }

func (ec *errCloser) Close() error {
	ec.closed = true
	return errors.New("close failed")
}

func TestCloseWithLog(t *testing.T) {
	ec := &errCloser{}
	CloseWithLog(ec)
	if !ec.closed {
		t.Error("expected Close to be called")
	}
	CloseWithLog(nil)
}
