package scrape

import (
	"context"
	"fmt"
	"log"
	"time"

	cloudflarebp "github.com/DaRealFreak/cloudflare-bp-go"
	"github.com/go-resty/resty/v2"
	"golang.org/x/time/rate"
)

// HTTPFetcher fetches static pages over plain HTTP
type HTTPFetcher struct {
	client  *resty.Client
	limiter *rate.Limiter
}

// NewHTTPFetcher creates a fetcher that waits at least delay between requests
func NewHTTPFetcher(delay time.Duration) *HTTPFetcher {
	client := resty.New()
	client.GetClient().Transport = cloudflarebp.AddCloudFlareByPass(client.GetClient().Transport)
	client.SetHeader("User-Agent", UserAgent)
	client.SetHeader("Accept", "text/html,application/xhtml+xml")
	client.SetTimeout(RequestTimeout)

	limiter := newLimiter(delay)
	client.OnBeforeRequest(func(_ *resty.Client, req *resty.Request) error {
		return limiter.Wait(req.Context())
	})

	return &HTTPFetcher{client: client, limiter: limiter}
}

// Fetch downloads url and returns the response body
func (f *HTTPFetcher) Fetch(ctx context.Context, url string) (string, error) {
	resp, err := f.client.R().SetContext(ctx).Get(url)
	if err != nil {
		return "", fmt.Errorf("request %s: %w", url, err)
	}

	if resp.IsError() {
		log.Printf("⚠️  %s returned %d", url, resp.StatusCode())
		return "", fmt.Errorf("request %s: status %d", url, resp.StatusCode())
	}

	body := resp.String()
	if body == "" {
		return "", fmt.Errorf("request %s: empty body", url)
	}

	return body, nil
}
