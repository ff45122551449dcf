package scrape

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/PuerkitoBio/goquery"
	"golang.org/x/time/rate"
)

const (
	// UserAgent sent by every fetcher
	UserAgent = "Mozilla/5.0 (Windows NT 10.0; Win64; x64) AppleWebKit/537.36 (KHTML, like Gecko) Chrome/120.0.0.0 Safari/537.36"

	// DefaultRequestDelay between consecutive requests to the same fetcher
	DefaultRequestDelay = 2 * time.Second

	// RequestTimeout bounds a single page load
	RequestTimeout = 30 * time.Second
)

// Fetcher downloads a page and returns its HTML
type Fetcher interface {
	Fetch(ctx context.Context, url string) (string, error)
}

// newLimiter allows one request per delay. The first request goes out immediately.
func newLimiter(delay time.Duration) *rate.Limiter {
	if delay <= 0 {
		return rate.NewLimiter(rate.Inf, 1)
	}
	return rate.NewLimiter(rate.Every(delay), 1)
}

// ParseHTML converts raw HTML to a goquery Document for parsing
func ParseHTML(htmlContent string) (*goquery.Document, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(htmlContent))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}
	return doc, nil
}
