package sourcehttp

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/url"
	"time"

	"dario.cat/mergo"
	"github.com/hashicorp/go-retryablehttp"
	"github.com/pxlpowered/foundations/tree"
	"github.com/samber/oops"
	"go.uber.org/zap"
)

// MaxDocumentSize bounds the response body that will be parsed (10MB).
const MaxDocumentSize = 10 * 1024 * 1024

// Errors returned by Load.
var (
	// ErrUnexpectedStatus is returned for any response other than 200 OK.
	ErrUnexpectedStatus = errors.New("sourcehttp: unexpected status code")

	// ErrTooLarge is returned when the body exceeds MaxDocumentSize.
	ErrTooLarge = errors.New("sourcehttp: document exceeds size limit")
)

// Options configures HTTP source behavior.
type Options struct {
	// Format overrides format detection.
	Format tree.Format

	// RetryMax is the number of retries after the first attempt. Default: 2.
	// A negative value disables retries.
	RetryMax int

	// RetryWaitMin and RetryWaitMax bound the backoff between attempts.
	// Defaults: 100ms and 2s.
	RetryWaitMin time.Duration
	RetryWaitMax time.Duration

	// Timeout applies to each attempt. Default: 10s.
	Timeout time.Duration

	// Transport replaces http.DefaultTransport.
	Transport http.RoundTripper

	// Logger receives per-attempt debug lines. Default: no-op.
	Logger *zap.Logger
}

var defaultOptions = Options{
	RetryMax:     2,
	RetryWaitMin: 100 * time.Millisecond,
	RetryWaitMax: 2 * time.Second,
	Timeout:      10 * time.Second,
	Transport:    http.DefaultTransport,
	Logger:       zap.NewNop(),
}

// Source fetches a document from a URL.
type Source struct {
	url    string
	opts   Options
	client *retryablehttp.Client
}

// New creates an HTTP configuration source.
func New(rawURL string, opts Options) *Source {
	_ = mergo.Merge(&opts, defaultOptions)

	log := opts.Logger
	client := &retryablehttp.Client{
		HTTPClient: &http.Client{
			Timeout:   opts.Timeout,
			Transport: opts.Transport,
		},
		Logger:       nil,
		RetryWaitMin: opts.RetryWaitMin,
		RetryWaitMax: opts.RetryWaitMax,
		RetryMax:     opts.RetryMax,
		RequestLogHook: func(_ retryablehttp.Logger, req *http.Request, attempt int) {
			log.Debug("requesting default source", zap.String("url", req.URL.String()), zap.Int("attempt", attempt))
		},
		ResponseLogHook: func(_ retryablehttp.Logger, resp *http.Response) {
			log.Debug("received default source", zap.String("url", resp.Request.URL.String()), zap.Int("http_status_code", resp.StatusCode))
		},
		CheckRetry:   retryablehttp.DefaultRetryPolicy,
		Backoff:      retryablehttp.DefaultBackoff,
		ErrorHandler: retryablehttp.PassthroughErrorHandler,
	}

	return &Source{
		url:    rawURL,
		opts:   opts,
		client: client,
	}
}

// Load fetches and parses the document.
func (s *Source) Load(ctx context.Context) (*tree.Tree, error) {
	errb := oops.In("sourcehttp").With("url", s.url)

	req, err := retryablehttp.NewRequestWithContext(ctx, http.MethodGet, s.url, nil)
	if err != nil {
		return nil, errb.Wrapf(err, "build request")
	}
	req.Header.Set("Accept", "application/yaml, application/json, application/toml;q=0.9, */*;q=0.5")

	resp, err := s.client.Do(req)
	if err != nil {
		return nil, errb.Wrapf(err, "fetch %s", s.url)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errb.With("status", resp.StatusCode).Wrapf(ErrUnexpectedStatus, "fetch %s: %s", s.url, resp.Status)
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, MaxDocumentSize+1))
	if err != nil {
		return nil, errb.Wrapf(err, "read %s", s.url)
	}
	if len(body) > MaxDocumentSize {
		return nil, errb.Wrap(ErrTooLarge)
	}

	t, err := tree.Parse(body, s.formatFor(resp))
	if err != nil {
		return nil, errb.Wrapf(err, "parse %s", s.url)
	}
	return t, nil
}

// Name returns the URL.
func (s *Source) Name() string {
	return s.url
}

func (s *Source) formatFor(resp *http.Response) tree.Format {
	if s.opts.Format != "" {
		return s.opts.Format
	}
	if format, ok := tree.FormatFromContentType(resp.Header.Get("Content-Type")); ok {
		return format
	}
	if u, err := url.Parse(s.url); err == nil {
		if format, ok := tree.FormatFromPath(u.Path); ok {
			return format
		}
	}
	return tree.YAML
}
