package fetcher

import (
	"bytes"
	"compress/gzip"
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func gzipBytes(t *testing.T, payload []byte) []byte {
	t.Helper()
	var buf bytes.Buffer
	gz := gzip.NewWriter(&buf)
	_, err := gz.Write(payload)
	require.NoError(t, err)
	require.NoError(t, gz.Close())
	return buf.Bytes()
}

func TestFetchStreamsBody(t *testing.T) {
	payload := []byte(`[{"asset_symbol":"NIFTY"}]`)
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, http.MethodGet, r.Method)
		_, _ = w.Write(payload)
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	body, err := f.Fetch(context.Background(), srv.URL)
	require.NoError(t, err)
	defer body.Close()

	got, err := io.ReadAll(body)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestFetchUnexpectedStatus(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "nope", http.StatusInternalServerError)
	}))
	defer srv.Close()

	f := New(5 * time.Second)
	body, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)
	assert.Nil(t, body)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestFetchTimeout(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		time.Sleep(500 * time.Millisecond)
	}))
	defer srv.Close()

	f := New(50 * time.Millisecond)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestFetchConnectionRefused(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {}))
	srv.Close()

	f := New(time.Second)
	_, err := f.Fetch(context.Background(), srv.URL)
	require.Error(t, err)

	var netErr *NetworkError
	assert.ErrorAs(t, err, &netErr)
}

func TestDecompressRoundTrip(t *testing.T) {
	payload := []byte(`[{"asset_symbol":"NIFTY","strike_price":23300}]`)

	stream, err := Decompress(bytes.NewReader(gzipBytes(t, payload)))
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

// the decompressor must not assume anything about input chunk sizes
func TestDecompressSingleByteChunks(t *testing.T) {
	payload := []byte(`[{"asset_symbol":"NIFTY"}]`)

	stream, err := Decompress(&oneByteReader{data: gzipBytes(t, payload)})
	require.NoError(t, err)
	defer stream.Close()

	got, err := io.ReadAll(stream)
	require.NoError(t, err)
	assert.Equal(t, payload, got)
}

func TestDecompressBadHeader(t *testing.T) {
	_, err := Decompress(bytes.NewReader([]byte("this is not gzip")))
	require.Error(t, err)

	var gzErr *DecompressionError
	assert.ErrorAs(t, err, &gzErr)
}

func TestDecompressTruncatedStream(t *testing.T) {
	full := gzipBytes(t, bytes.Repeat([]byte("instrument "), 512))

	stream, err := Decompress(bytes.NewReader(full[:len(full)/2]))
	require.NoError(t, err)
	defer stream.Close()

	_, err = io.ReadAll(stream)
	require.Error(t, err)

	var gzErr *DecompressionError
	assert.ErrorAs(t, err, &gzErr)
}

// oneByteReader yields one byte per Read call
type oneByteReader struct {
	data []byte
}

func (r *oneByteReader) Read(p []byte) (int, error) {
	if len(r.data) == 0 {
		return 0, io.EOF
	}
	p[0] = r.data[0]
	r.data = r.data[1:]
	return 1, nil
}
