/*
Package fetch acquires the bytes of a source font, either by downloading it
over HTTP(S) or by reading a local file.

Downloads are bounded in time, in the number of redirects followed and in the
size of the response body. All failures of a download are reported as errors
of kind fontsubset.KindDownload, failures to read a local file as
fontsubset.KindIO.

______________________________________________________________________

# License

Governed by a 3-Clause BSD license. License file may be found in the root
folder of this module.

Copyright © Norbert Pillmayer <norbert@pillmayer.com>
*/
package fetch

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strings"
	"time"

	"github.com/npillmayer/fontsubset"
	"github.com/npillmayer/schuko/tracing"
)

// tracer writes to trace with key 'fontsubset'
func tracer() tracing.Trace {
	return tracing.Select("fontsubset")
}

// Defaults for a Fetcher.
const (
	DefaultTimeout      = 60 * time.Second
	DefaultMaxRedirects = 10
	DefaultMaxBytes     = 64 << 20
)

var (
	// ErrTooManyRedirects is returned if a download is redirected more often
	// than allowed.
	ErrTooManyRedirects = errors.New("too many redirects")
	// ErrTooLarge is returned if a response body exceeds the size limit.
	ErrTooLarge = errors.New("font data exceeds size limit")
	// ErrStatus is returned for a response with a non-2xx status code.
	ErrStatus = errors.New("unexpected HTTP status")
)

// Fetcher loads font data from URLs or local files. The zero value is not
// usable, create Fetchers with New.
type Fetcher struct {
	client   *http.Client
	maxBytes int64
}

// Option configures a Fetcher.
type Option func(*Fetcher)

// WithClient lets a Fetcher use a custom HTTP client, e.g. one with a
// special transport. The client's CheckRedirect function is kept if set.
func WithClient(c *http.Client) Option {
	return func(f *Fetcher) {
		if c.CheckRedirect == nil {
			c.CheckRedirect = f.client.CheckRedirect
		}
		f.client = c
	}
}

// WithMaxBytes limits the size of downloaded font data.
func WithMaxBytes(n int64) Option {
	return func(f *Fetcher) {
		f.maxBytes = n
	}
}

// New creates a Fetcher with a timeout for a complete download and a bound
// on the number of redirects followed. A timeout <= 0 selects
// DefaultTimeout, maxRedirects < 0 selects DefaultMaxRedirects.
func New(timeout time.Duration, maxRedirects int, opts ...Option) *Fetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	if maxRedirects < 0 {
		maxRedirects = DefaultMaxRedirects
	}
	f := &Fetcher{
		client: &http.Client{
			Timeout:       timeout,
			CheckRedirect: checkRedirect(maxRedirects),
		},
		maxBytes: DefaultMaxBytes,
	}
	for _, opt := range opts {
		opt(f)
	}
	return f
}

func checkRedirect(max int) func(*http.Request, []*http.Request) error {
	return func(req *http.Request, via []*http.Request) error {
		if len(via) > max {
			return fmt.Errorf("%w: stopped after %d redirects", ErrTooManyRedirects, max)
		}
		tracer().Debugf("redirected to %s", req.URL)
		return nil
	}
}

// Fetch returns the data of source, which is either an http(s) URL, a
// file:// URL or a local file path.
func (f *Fetcher) Fetch(ctx context.Context, source string) ([]byte, error) {
	u, isURL := parseURL(source)
	if !isURL {
		return f.readFile(source)
	}
	switch u.Scheme {
	case "http", "https":
		return f.download(ctx, u)
	case "file":
		return f.readFile(u.Path)
	}
	return nil, fontsubset.Errorf(fontsubset.KindDownload, "fetch", "unsupported URL scheme %q", u.Scheme)
}

// IsRemote reports whether source denotes a download rather than a local file.
func IsRemote(source string) bool {
	u, isURL := parseURL(source)
	return isURL && u.Scheme != "file"
}

// parseURL returns source as a URL if it carries a scheme. Windows drive
// letters are not taken for schemes.
func parseURL(source string) (*url.URL, bool) {
	if !strings.Contains(source, "://") {
		return nil, false
	}
	u, err := url.Parse(source)
	if err != nil || len(u.Scheme) < 2 {
		return nil, false
	}
	u.Scheme = strings.ToLower(u.Scheme)
	return u, true
}

func (f *Fetcher) download(ctx context.Context, u *url.URL) ([]byte, error) {
	tracer().Infof("downloading font from %s", u.Redacted())
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u.String(), nil)
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindDownload, "download", err)
	}
	resp, err := f.client.Do(req)
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindDownload, "download", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode/100 != 2 {
		_, _ = io.Copy(io.Discard, io.LimitReader(resp.Body, 4<<10))
		return nil, fontsubset.WrapError(fontsubset.KindDownload, "download",
			fmt.Errorf("%w: %s", ErrStatus, resp.Status))
	}
	data, err := readLimited(resp.Body, f.maxBytes)
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindDownload, "download", err)
	}
	tracer().Infof("downloaded %d bytes", len(data))
	return data, nil
}

func (f *Fetcher) readFile(path string) ([]byte, error) {
	tracer().Infof("reading font from %s", path)
	file, err := os.Open(path)
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindIO, "read font", err)
	}
	defer file.Close()
	data, err := readLimited(file, f.maxBytes)
	if err != nil {
		return nil, fontsubset.WrapError(fontsubset.KindIO, "read font", err)
	}
	return data, nil
}

func readLimited(r io.Reader, max int64) ([]byte, error) {
	if max <= 0 {
		return io.ReadAll(r)
	}
	data, err := io.ReadAll(io.LimitReader(r, max+1))
	if err != nil {
		return nil, err
	}
	if int64(len(data)) > max {
		return nil, fmt.Errorf("%w of %d bytes", ErrTooLarge, max)
	}
	return data, nil
}
