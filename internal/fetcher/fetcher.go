// Package fetcher downloads the compressed instrument catalog and exposes it
// as a decompressed byte stream.
package fetcher

import (
	"compress/gzip"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"time"
)

// NetworkError reports a connection or stream failure while fetching the
// catalog, including a fetch timeout.
type NetworkError struct {
	Err error
}

func (e *NetworkError) Error() string {
	return "fetch instrument catalog: " + e.Err.Error()
}

func (e *NetworkError) Unwrap() error {
	return e.Err
}

// DecompressionError reports a corrupt or truncated compressed stream.
type DecompressionError struct {
	Err error
}

func (e *DecompressionError) Error() string {
	return "decompress instrument catalog: " + e.Err.Error()
}

func (e *DecompressionError) Unwrap() error {
	return e.Err
}

// Fetcher opens streaming connections to the catalog source. Retry policy
// lives with the scheduler, not here.
type Fetcher struct {
	client *http.Client
}

// New creates a fetcher whose requests fail with a NetworkError after timeout.
func New(timeout time.Duration) *Fetcher {
	return &Fetcher{
		client: &http.Client{Timeout: timeout},
	}
}

// Fetch opens a GET to url and returns the response body as a stream, so the
// payload is consumed incrementally rather than buffered before
// decompression. Read errors on the returned stream surface as NetworkError.
func (f *Fetcher) Fetch(ctx context.Context, url string) (io.ReadCloser, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, &NetworkError{Err: err}
	}
	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()
		return nil, &NetworkError{Err: fmt.Errorf("unexpected status %s", resp.Status)}
	}
	return &bodyStream{rc: resp.Body}, nil
}

// bodyStream tags read failures on the response body as NetworkError, so a
// connection dropped mid-download is reported as a fetch failure even when
// the read happens through the decompressor.
type bodyStream struct {
	rc io.ReadCloser
}

func (b *bodyStream) Read(p []byte) (int, error) {
	n, err := b.rc.Read(p)
	if err != nil && err != io.EOF {
		err = &NetworkError{Err: err}
	}
	return n, err
}

func (b *bodyStream) Close() error {
	return b.rc.Close()
}

// Decompress wraps a gzip-compressed stream into a decompressed one. It has
// no knowledge of the downstream format and tolerates input arriving in
// arbitrarily sized chunks. A bad header fails immediately, corruption or
// truncation surfaces as a terminal DecompressionError from Read.
func Decompress(r io.Reader) (io.ReadCloser, error) {
	gz, err := gzip.NewReader(r)
	if err != nil {
		return nil, &DecompressionError{Err: err}
	}
	return &gunzipStream{gz: gz}, nil
}

type gunzipStream struct {
	gz *gzip.Reader
}

func (g *gunzipStream) Read(p []byte) (int, error) {
	n, err := g.gz.Read(p)
	if err != nil && err != io.EOF {
		// keep the source error kind when the underlying stream failed
		var netErr *NetworkError
		if !errors.As(err, &netErr) {
			err = &DecompressionError{Err: err}
		}
	}
	return n, err
}

func (g *gunzipStream) Close() error {
	return g.gz.Close()
}
