package services

import (
	"net/http"
	"net/http/httptest"
	"reflect"
	"testing"
)

func TestUnsplashProviderSearch(t *testing.T) {
	var gotAuth, gotQuery string
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotQuery = r.URL.Query().Get("query")
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"results": [
				{"alt_description": "vrt", "urls": {"regular": "https://u/r.jpg", "small": "https://u/s.jpg", "thumb": "https://u/t.jpg"}}
			]
		}`))
	}))
	defer server.Close()

	provider := NewUnsplashProvider("access-key")
	provider.BaseURL = server.URL

	results, err := provider.Search("vrt")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	if gotAuth != "Client-ID access-key" {
		t.Errorf("Authorization = %q", gotAuth)
	}
	if gotQuery != "vrt" {
		t.Errorf("query = %q", gotQuery)
	}

	want := []ImageResult{{Preview: "https://u/s.jpg", Full: "https://u/r.jpg", Thumb: "https://u/t.jpg", Alt: "vrt"}}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %+v, want %+v", results, want)
	}
}

func TestPexelsProviderSearch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if r.Header.Get("Authorization") != "api-key" {
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		w.Header().Set("Content-Type", "application/json")
		w.Write([]byte(`{
			"photos": [
				{"alt": "cvet", "src": {"large": "https://p/l.jpg", "medium": "https://p/m.jpg", "tiny": "https://p/t.jpg"}}
			]
		}`))
	}))
	defer server.Close()

	provider := NewPexelsProvider("api-key")
	provider.BaseURL = server.URL

	results, err := provider.Search("cvet")
	if err != nil {
		t.Fatalf("Search failed: %v", err)
	}

	want := []ImageResult{{Preview: "https://p/m.jpg", Full: "https://p/l.jpg", Thumb: "https://p/t.jpg", Alt: "cvet"}}
	if !reflect.DeepEqual(results, want) {
		t.Errorf("results = %+v, want %+v", results, want)
	}
}

func TestProviderSearchSurfacesHTTPErrors(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "rate limited", http.StatusTooManyRequests)
	}))
	defer server.Close()

	provider := NewUnsplashProvider("key")
	provider.BaseURL = server.URL

	if _, err := provider.Search("vrt"); err == nil {
		t.Error("non-200 response must surface as an error")
	}
}
