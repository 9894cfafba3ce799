// Package fetch downloads the IMS cities forecast XML, converts it from the
// feed's ISO-8859-8 encoding to UTF-8, and maintains the dated archive
// copies the ingest layer falls back to when a download fails.
package fetch

import (
	"bytes"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"sync"
	"time"

	"github.com/hashicorp/go-retryablehttp"
	"golang.org/x/text/encoding/charmap"
)

// DefaultFeedURL is the IMS publication of the cities forecast.
const DefaultFeedURL = "https://ims.gov.il/sites/default/files/ims_data/xml_files/isr_cities.xml"

// maxFeedBytes bounds the response size; the real feed is well under 1 MiB.
const maxFeedBytes = 8 << 20

// Options configures the downloader.
type Options struct {
	// URL is the feed location; DefaultFeedURL when empty.
	URL string
	// Timeout bounds each HTTP attempt.
	Timeout time.Duration
	// RetryMax is the number of retries after the first failed attempt.
	RetryMax int
	// RetentionDays is how long dated archive copies are kept.
	RetentionDays int
}

// httpClient is a lazily-initialized retryablehttp client shared across all
// feed fetches. Initialized once via httpClientOnce.
var (
	httpClient     *retryablehttp.Client
	httpClientOnce sync.Once
)

// getHTTPClient returns the shared retryable HTTP client, initializing it on
// first call with the given options.
func getHTTPClient(opts Options) *retryablehttp.Client {
	httpClientOnce.Do(func() {
		httpClient = retryablehttp.NewClient()
		httpClient.RetryMax = opts.RetryMax
		httpClient.HTTPClient.Timeout = opts.Timeout
		httpClient.Logger = nil // suppress retryablehttp's default logging
	})
	return httpClient
}

// ///////////////////////////////////////////////
// Download
// ///////////////////////////////////////////////

// Download fetches the raw feed bytes with retry/backoff and converts them
// to UTF-8. The returned bytes are ready for the ingest parser and for
// archival.
func Download(log *slog.Logger, opts Options) ([]byte, error) {
	url := opts.URL
	if url == "" {
		url = DefaultFeedURL
	}
	log.Info("downloading forecast feed", "url", url)

	resp, err := getHTTPClient(opts).Get(url)
	if err != nil {
		return nil, fmt.Errorf("GET %s: %w", url, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("GET %s: status %d", url, resp.StatusCode)
	}

	raw, err := io.ReadAll(io.LimitReader(resp.Body, maxFeedBytes))
	if err != nil {
		return nil, fmt.Errorf("reading feed body: %w", err)
	}
	log.Debug("feed downloaded", "bytes", len(raw))

	utf8, err := ConvertEncoding(raw)
	if err != nil {
		return nil, err
	}
	return utf8, nil
}

// ///////////////////////////////////////////////
// Encoding Conversion
// ///////////////////////////////////////////////

// declarations the feed has been seen to use, replaced with UTF-8 so the
// XML prolog matches the converted bytes.
var encodingDecls = [][]byte{
	[]byte(`encoding="ISO-8859-8"`),
	[]byte(`encoding="iso-8859-8"`),
}

// ConvertEncoding decodes the feed's Hebrew legacy encoding (ISO-8859-8)
// into UTF-8 and rewrites the XML encoding declaration to match.
func ConvertEncoding(raw []byte) ([]byte, error) {
	decoded, err := charmap.ISO8859_8.NewDecoder().Bytes(raw)
	if err != nil {
		return nil, fmt.Errorf("decode ISO-8859-8 feed: %w", err)
	}
	for _, decl := range encodingDecls {
		decoded = bytes.Replace(decoded, decl, []byte(`encoding="UTF-8"`), 1)
	}
	return decoded, nil
}
