package search

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strconv"
	"time"

	"github.com/manthysbr/tripplanner/internal/core/domain"
)

const BraveURL = "https://api.search.brave.com/res/v1/web/search"

// Brave runs web searches through the Brave Search API.
type Brave struct {
	endpoint string
	apiKey   string
	client   *http.Client
}

func NewBrave(endpoint, apiKey string, httpClient *http.Client) *Brave {
	if endpoint == "" {
		endpoint = BraveURL
	}
	if httpClient == nil {
		httpClient = &http.Client{Timeout: 10 * time.Second}
	}
	return &Brave{endpoint: endpoint, apiKey: apiKey, client: httpClient}
}

// Available reports whether an API key is configured.
func (b *Brave) Available() bool { return b.apiKey != "" }

func (b *Brave) Search(ctx context.Context, query string, count int) ([]domain.SearchResult, error) {
	if !b.Available() {
		return nil, fmt.Errorf("%w: brave search key not configured", domain.ErrToolUnavailable)
	}
	if count <= 0 {
		count = 5
	}

	reqURL := b.endpoint + "?q=" + url.QueryEscape(query) + "&count=" + strconv.Itoa(count)
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("X-Subscription-Token", b.apiKey)
	req.Header.Set("Accept", "application/json")

	resp, err := b.client.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: brave: %v", domain.ErrToolUnavailable, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: brave api error: %d", domain.ErrToolUnavailable, resp.StatusCode)
	}

	var braveResp struct {
		Web struct {
			Results []struct {
				Title       string `json:"title"`
				URL         string `json:"url"`
				Description string `json:"description"`
			} `json:"results"`
		} `json:"web"`
	}
	if err := json.NewDecoder(resp.Body).Decode(&braveResp); err != nil {
		return nil, fmt.Errorf("decode brave response: %w", err)
	}

	results := make([]domain.SearchResult, 0, len(braveResp.Web.Results))
	for _, r := range braveResp.Web.Results {
		results = append(results, domain.SearchResult{
			Title:   r.Title,
			Link:    r.URL,
			Snippet: r.Description,
		})
	}
	return results, nil
}
