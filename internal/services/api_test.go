package services

import (
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"net/url"
	"strings"
	"testing"
	"time"

	tu "github.com/desertthunder/storyx/internal/testing"
	"golang.org/x/time/rate"
)

func TestAPIService(t *testing.T) {
	t.Run("New", func(t *testing.T) {
		t.Run("With Custom BaseURL and Client", func(t *testing.T) {
			customClient := &http.Client{}
			srv := NewAPIService("http://example.com", customClient, 0)

			if srv.baseURL != "http://example.com" {
				t.Errorf("expected baseURL 'http://example.com', got %s", srv.baseURL)
			}
			if srv.httpClient != customClient {
				t.Error("expected custom client to be used")
			}
		})

		t.Run("With Empty BaseURL", func(t *testing.T) {
			srv := NewAPIService("", nil, 0)

			if srv.baseURL != "http://127.0.0.1:8000" {
				t.Errorf("expected default baseURL 'http://127.0.0.1:8000', got %s", srv.baseURL)
			}
		})

		t.Run("With Nil Client", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, 0)

			if srv.httpClient != http.DefaultClient {
				t.Error("expected http.DefaultClient to be used")
			}
		})

		t.Run("Rate Limit", func(t *testing.T) {
			if got := NewAPIService("", nil, 0).limiter.Limit(); got != rate.Inf {
				t.Errorf("expected unlimited rate for 0, got %v", got)
			}
			if got := NewAPIService("", nil, 2).limiter.Limit(); got != rate.Limit(2) {
				t.Errorf("expected rate 2, got %v", got)
			}
		})
	})

	t.Run("Post", func(t *testing.T) {
		t.Run("Successful Request With JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodPost {
					t.Errorf("expected POST method, got %s", r.Method)
				}
				if r.Header.Get("Content-Type") != "application/json" {
					t.Errorf("expected Content-Type 'application/json', got %s", r.Header.Get("Content-Type"))
				}

				body, _ := io.ReadAll(r.Body)
				var data map[string]string
				if err := json.Unmarshal(body, &data); err != nil {
					t.Errorf("failed to unmarshal request body: %v", err)
				}
				if data["book_filename"] != "alice.txt" {
					t.Errorf("expected book_filename alice.txt, got %v", data)
				}

				w.Header().Set("Content-Type", "application/json")
				w.WriteHeader(http.StatusOK)
				json.NewEncoder(w).Encode(map[string]string{"story": "Once..."})
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, 0)
			resp, err := srv.Post(context.Background(), "/produce-story", []byte(`{"book_filename":"alice.txt"}`))

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if !resp.OK() {
				t.Errorf("expected 2xx, got %d", resp.StatusCode)
			}
			if !resp.IsJSON {
				t.Error("expected response to be JSON")
			}
		})

		t.Run("Non-JSON Response", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusBadGateway)
				w.Write([]byte("upstream down"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, 0)
			resp, err := srv.Post(context.Background(), "/produce-story", []byte("{}"))

			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			if resp.OK() {
				t.Error("expected non-2xx response")
			}
			if resp.IsJSON {
				t.Error("expected response to not be JSON")
			}
			if string(resp.Body) != "upstream down" {
				t.Errorf("expected body 'upstream down', got %s", string(resp.Body))
			}
		})

		t.Run("Failed Request Creation", func(t *testing.T) {
			srv := NewAPIService("http://example.com", nil, 0)
			_, err := srv.Post(context.Background(), "/test\x00invalid", []byte("data"))

			if err == nil {
				t.Fatal("expected error for invalid URL")
			}
			if !strings.Contains(err.Error(), "failed to create request") {
				t.Errorf("expected 'failed to create request' error, got %v", err)
			}
		})

		t.Run("Failed HTTP Request", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(nil, errors.New("connection failed")),
			}

			srv := NewAPIService("http://example.com", client, 0)
			_, err := srv.Post(context.Background(), "/test", []byte("data"))

			if err == nil {
				t.Fatal("expected error for failed request")
			}
			if !strings.Contains(err.Error(), "request failed") {
				t.Errorf("expected 'request failed' error, got %v", err)
			}
		})

		t.Run("Failed Response Body Read", func(t *testing.T) {
			client := &http.Client{
				Transport: tu.NewMockRoundTripper(&http.Response{
					StatusCode: http.StatusOK,
					Body:       &tu.FCloser{},
					Header:     http.Header{},
				}, nil),
			}

			srv := NewAPIService("http://example.com", client, 0)
			_, err := srv.Post(context.Background(), "/test", []byte("data"))

			if err == nil {
				t.Fatal("expected error for failed body read")
			}
			if !strings.Contains(err.Error(), "failed to read response") {
				t.Errorf("expected 'failed to read response' error, got %v", err)
			}
		})

		t.Run("With Canceled Context", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			ctx, cancel := context.WithCancel(context.Background())
			cancel()

			srv := NewAPIService(server.URL, nil, 0)
			if _, err := srv.Post(ctx, "/test", nil); err == nil {
				t.Error("expected error for canceled context")
			}
		})
	})

	t.Run("Open", func(t *testing.T) {
		t.Run("Sends Query And Accept", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				if r.Method != http.MethodGet {
					t.Errorf("expected GET method, got %s", r.Method)
				}
				if r.Header.Get("Accept") != "text/event-stream" {
					t.Errorf("expected event-stream accept header, got %s", r.Header.Get("Accept"))
				}
				if r.URL.Query().Get("book_filename") != "alice in wonderland.txt" {
					t.Errorf("unexpected query %s", r.URL.RawQuery)
				}
				w.WriteHeader(http.StatusOK)
				w.Write([]byte("data: {}\n\n"))
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, 0)
			q := url.Values{"book_filename": {"alice in wonderland.txt"}}
			resp, err := srv.Open(context.Background(), "/produce-story-stream", q, "text/event-stream")
			if err != nil {
				t.Fatalf("expected no error, got %v", err)
			}
			defer resp.Body.Close()

			body, _ := io.ReadAll(resp.Body)
			if string(body) != "data: {}\n\n" {
				t.Errorf("unexpected body %q", body)
			}
		})

		t.Run("Waits On Limiter", func(t *testing.T) {
			server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(http.StatusOK)
			}))
			defer server.Close()

			srv := NewAPIService(server.URL, nil, 0.5)
			resp, err := srv.Open(context.Background(), "/", nil, "")
			if err != nil {
				t.Fatalf("first request should pass, got %v", err)
			}
			resp.Body.Close()

			ctx, cancel := context.WithTimeout(context.Background(), 50*time.Millisecond)
			defer cancel()
			if _, err := srv.Open(ctx, "/", nil, ""); err == nil {
				t.Error("expected limiter to reject a second request inside the deadline")
			}
		})
	})
}
