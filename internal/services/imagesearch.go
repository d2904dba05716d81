package services

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"time"
)

// searchPageSize caps how many results one provider query returns.
const searchPageSize = 12

// ImageResult is the provider-independent shape handed to the editor.
type ImageResult struct {
	Preview string `json:"preview"`
	Full    string `json:"full"`
	Thumb   string `json:"thumb"`
	Alt     string `json:"alt"`
}

// ImageProvider wraps one external stock-photo search API.
type ImageProvider interface {
	Name() string
	Search(query string) ([]ImageResult, error)
}

// UnsplashProvider queries the Unsplash search API.
type UnsplashProvider struct {
	BaseURL   string
	AccessKey string
	Client    *http.Client
}

func NewUnsplashProvider(accessKey string) *UnsplashProvider {
	return &UnsplashProvider{
		BaseURL:   "https://api.unsplash.com",
		AccessKey: accessKey,
		Client:    &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *UnsplashProvider) Name() string { return "unsplash" }

func (p *UnsplashProvider) Search(query string) ([]ImageResult, error) {
	endpoint := fmt.Sprintf("%s/search/photos?query=%s&per_page=%d",
		p.BaseURL, url.QueryEscape(query), searchPageSize)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", "Client-ID "+p.AccessKey)

	var payload struct {
		Results []struct {
			AltDescription string `json:"alt_description"`
			URLs           struct {
				Regular string `json:"regular"`
				Small   string `json:"small"`
				Thumb   string `json:"thumb"`
			} `json:"urls"`
		} `json:"results"`
	}
	if err := doJSON(p.Client, req, &payload); err != nil {
		return nil, err
	}

	results := make([]ImageResult, 0, len(payload.Results))
	for _, r := range payload.Results {
		results = append(results, ImageResult{
			Preview: r.URLs.Small,
			Full:    r.URLs.Regular,
			Thumb:   r.URLs.Thumb,
			Alt:     r.AltDescription,
		})
	}
	return results, nil
}

// PexelsProvider queries the Pexels search API.
type PexelsProvider struct {
	BaseURL string
	APIKey  string
	Client  *http.Client
}

func NewPexelsProvider(apiKey string) *PexelsProvider {
	return &PexelsProvider{
		BaseURL: "https://api.pexels.com/v1",
		APIKey:  apiKey,
		Client:  &http.Client{Timeout: 15 * time.Second},
	}
}

func (p *PexelsProvider) Name() string { return "pexels" }

func (p *PexelsProvider) Search(query string) ([]ImageResult, error) {
	endpoint := fmt.Sprintf("%s/search?query=%s&per_page=%d",
		p.BaseURL, url.QueryEscape(query), searchPageSize)

	req, err := http.NewRequest(http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Authorization", p.APIKey)

	var payload struct {
		Photos []struct {
			Alt string `json:"alt"`
			Src struct {
				Large  string `json:"large"`
				Medium string `json:"medium"`
				Tiny   string `json:"tiny"`
			} `json:"src"`
		} `json:"photos"`
	}
	if err := doJSON(p.Client, req, &payload); err != nil {
		return nil, err
	}

	results := make([]ImageResult, 0, len(payload.Photos))
	for _, r := range payload.Photos {
		results = append(results, ImageResult{
			Preview: r.Src.Medium,
			Full:    r.Src.Large,
			Thumb:   r.Src.Tiny,
			Alt:     r.Alt,
		})
	}
	return results, nil
}

func doJSON(client *http.Client, req *http.Request, out interface{}) error {
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("image provider request failed: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		return fmt.Errorf("image provider returned %s: %s", resp.Status, string(body))
	}
	return json.NewDecoder(resp.Body).Decode(out)
}
