package oembed

import (
	"context"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"ig-oembed/internal/graph"
)

const postURL = "https://www.instagram.com/p/XXXX/"

func testClient(t *testing.T, handler http.Handler) *graph.Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)
	c, err := graph.NewClient(graph.WithBaseURL(srv.URL + "/"))
	if err != nil {
		t.Fatalf("graph.NewClient: %v", err)
	}
	return c
}

func TestFetch(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/v24.0/instagram_oembed" {
			t.Errorf("path = %q", r.URL.Path)
		}
		q := r.URL.Query()
		if q.Get("url") != postURL {
			t.Errorf("url = %q", q.Get("url"))
		}
		if q.Get("access_token") != "1000|xyz" {
			t.Errorf("access_token = %q", q.Get("access_token"))
		}
		if q.Get("hidecaption") != "false" {
			t.Errorf("hidecaption = %q", q.Get("hidecaption"))
		}
		if q.Get("omitscript") != "true" {
			t.Errorf("omitscript = %q", q.Get("omitscript"))
		}
		if q.Has("maxwidth") {
			t.Errorf("maxwidth sent unexpectedly: %q", q.Get("maxwidth"))
		}
		w.Header().Set("Content-Type", "application/json")
		fmt.Fprintln(w, `{"title":"t","author_name":"a","html":"<div></div>"}`)
	}))

	result, err := Fetch(context.Background(), c, Request{
		PostURL:      postURL,
		AccessToken:  "1000|xyz",
		GraphVersion: "v24.0",
		OmitScript:   true,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.HTTPStatus != http.StatusOK {
		t.Errorf("HTTPStatus = %d", result.HTTPStatus)
	}
	if result.Response["author_name"] != "a" {
		t.Errorf("Response = %v", result.Response)
	}
	if !strings.Contains(result.FinalURL, "/v24.0/instagram_oembed") {
		t.Errorf("FinalURL = %q", result.FinalURL)
	}
}

func TestFetchMaxWidth(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if got := r.URL.Query().Get("maxwidth"); got != "320" {
			t.Errorf("maxwidth = %q", got)
		}
		fmt.Fprintln(w, `{}`)
	}))

	_, err := Fetch(context.Background(), c, Request{
		PostURL:      postURL,
		AccessToken:  "tok",
		GraphVersion: "v24.0",
		MaxWidth:     320,
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

func TestFetchOmitScriptOff(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Query().Has("omitscript") {
			t.Errorf("omitscript sent unexpectedly")
		}
		fmt.Fprintln(w, `{}`)
	}))

	_, err := Fetch(context.Background(), c, Request{
		PostURL:      postURL,
		AccessToken:  "tok",
		GraphVersion: "v24.0",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
}

func TestFetchBadStatusIsNotAnError(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusBadRequest)
		fmt.Fprintln(w, `{"error":{"message":"Unsupported get request"}}`)
	}))

	result, err := Fetch(context.Background(), c, Request{
		PostURL:      postURL,
		AccessToken:  "tok",
		GraphVersion: "v24.0",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.HTTPStatus != http.StatusBadRequest {
		t.Errorf("HTTPStatus = %d", result.HTTPStatus)
	}
	if result.Response["error"] == nil {
		t.Errorf("Response = %v", result.Response)
	}
}

func TestFetchNonJSONBody(t *testing.T) {
	c := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "text/html")
		w.WriteHeader(http.StatusInternalServerError)
		fmt.Fprint(w, "<html>error</html>")
	}))

	result, err := Fetch(context.Background(), c, Request{
		PostURL:      postURL,
		AccessToken:  "tok",
		GraphVersion: "v24.0",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if result.HTTPStatus != http.StatusInternalServerError {
		t.Errorf("HTTPStatus = %d", result.HTTPStatus)
	}
	if result.Response["raw"] != "<html>error</html>" {
		t.Errorf("raw = %v", result.Response["raw"])
	}
	if ct, _ := result.Response["content_type"].(string); !strings.HasPrefix(ct, "text/html") {
		t.Errorf("content_type = %v", result.Response["content_type"])
	}
}

func TestFetchFollowsRedirects(t *testing.T) {
	mux := http.NewServeMux()
	mux.HandleFunc("/v24.0/instagram_oembed", func(w http.ResponseWriter, r *http.Request) {
		http.Redirect(w, r, "/moved", http.StatusFound)
	})
	mux.HandleFunc("/moved", func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprintln(w, `{"title":"t"}`)
	})
	c := testClient(t, mux)

	result, err := Fetch(context.Background(), c, Request{
		PostURL:      postURL,
		AccessToken:  "tok",
		GraphVersion: "v24.0",
	})
	if err != nil {
		t.Fatalf("Fetch: %v", err)
	}
	if !strings.HasSuffix(result.FinalURL, "/moved") {
		t.Errorf("FinalURL = %q", result.FinalURL)
	}
	if result.HTTPStatus != http.StatusOK {
		t.Errorf("HTTPStatus = %d", result.HTTPStatus)
	}
}
