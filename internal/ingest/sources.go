package ingest

import (
	"log"
	"time"

	"github.com/fortuna/plutus/internal/ingest/bbref"
	"github.com/fortuna/plutus/internal/ingest/hoopshype"
	"github.com/fortuna/plutus/internal/ingest/scrape"
)

// Options selects the fetcher and endpoints for the default sources
type Options struct {
	HoopsHypeURL string
	BBRefURL     string
	RequestDelay time.Duration
	// UseBrowser renders HoopsHype in headless Chrome
	UseBrowser bool
}

// NewDefaultIngester wires HoopsHype as primary and Basketball-Reference as
// fallback. The returned func releases the browser, if one was started.
func NewDefaultIngester(opts Options) (*Ingester, func()) {
	httpFetcher := scrape.NewHTTPFetcher(opts.RequestDelay)

	var primary scrape.Fetcher = httpFetcher
	closer := func() {}
	if opts.UseBrowser {
		browser := scrape.NewBrowserFetcher(opts.RequestDelay)
		primary = browser
		closer = browser.Close
		log.Println("✓ Using headless Chrome for HoopsHype")
	}

	return NewIngester(
		hoopshype.NewSource(primary, opts.HoopsHypeURL),
		bbref.NewSource(httpFetcher, opts.BBRefURL),
	), closer
}
