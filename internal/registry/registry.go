package registry

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"strings"
	"sync"
	"time"

	"github.com/pkg/errors"
	"golang.org/x/sync/singleflight"

	"github.com/dsi-platform/dsi/internal/style"
	"github.com/dsi-platform/dsi/logging"
)

// DefaultRegistryURL is the base URL of the public buildpack registry API.
const DefaultRegistryURL = "https://registry.buildpacks.io/api/v1/buildpacks/"

const maxResponseBytes = 4 << 20

var (
	// ErrRegistryUnreachable is reported when the registry could not be reached or refused the request.
	ErrRegistryUnreachable = errors.New("registry unreachable")
	// ErrRegistryMalformed is reported when the registry answered with a document of an unexpected shape.
	ErrRegistryMalformed = errors.New("malformed registry response")
)

// FetchError describes a failed registry lookup. It matches ErrRegistryUnreachable or
// ErrRegistryMalformed with errors.Is.
type FetchError struct {
	ID   string
	Kind error
	Err  error
}

func (e *FetchError) Error() string {
	return fmt.Sprintf("%s for buildpack %s: %s", e.Kind, style.Symbol(e.ID), e.Err)
}

func (e *FetchError) Is(target error) bool {
	return target == e.Kind
}

func (e *FetchError) Unwrap() error {
	return e.Err
}

// Version is a single entry of a buildpack's version list.
type Version struct {
	Version string `json:"version"`
	Link    string `json:"_link,omitempty"`
}

// Latest describes the most recent published version of a buildpack.
type Latest struct {
	Namespace   string          `json:"namespace,omitempty"`
	Name        string          `json:"name,omitempty"`
	Version     string          `json:"version,omitempty"`
	Description string          `json:"description,omitempty"`
	RawStacks   json.RawMessage `json:"stacks,omitempty"`
}

// Record is the registry's description of a buildpack.
type Record struct {
	Versions []Version `json:"versions"`
	Latest   Latest    `json:"latest"`
}

// VersionList returns the version strings in registry order, latest first.
func (r Record) VersionList() []string {
	var versions []string
	for _, v := range r.Versions {
		versions = append(versions, v.Version)
	}
	return versions
}

// Stacks returns the stacks supported by the latest version. ok is false when the
// registry did not report stacks as a list.
func (r Record) Stacks() (stacks []string, ok bool) {
	if !stacksIsList(r.Latest.RawStacks) {
		return nil, false
	}

	stacks = []string{}
	if err := json.Unmarshal(r.Latest.RawStacks, &stacks); err != nil {
		return nil, false
	}
	return stacks, true
}

func stacksIsList(raw json.RawMessage) bool {
	return strings.HasPrefix(strings.TrimSpace(string(raw)), "[")
}

// checkStacks rejects a stacks list holding anything but strings.
func checkStacks(raw json.RawMessage) error {
	if !stacksIsList(raw) {
		return nil
	}

	var values []interface{}
	if err := json.Unmarshal(raw, &values); err != nil {
		return errors.Wrapf(err, "decoding %s", style.Symbol("latest.stacks"))
	}
	for i, v := range values {
		if _, isString := v.(string); !isString {
			return errors.Errorf("%s entry %d is %v, not a stack id", style.Symbol("latest.stacks"), i, v)
		}
	}
	return nil
}

type cacheEntry struct {
	record  Record
	expires time.Time
}

// Client fetches buildpack records from a registry HTTP API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     logging.Logger

	cacheTTL time.Duration
	clock    func() time.Time
	mu       sync.Mutex
	cache    map[string]cacheEntry
	group    singleflight.Group
}

// Option configures a Client.
type Option func(c *Client)

// WithHTTPClient supply your own http client.
func WithHTTPClient(hc *http.Client) Option {
	return func(c *Client) {
		c.httpClient = hc
	}
}

// WithCacheTTL keeps fetched records for ttl. A zero ttl disables caching.
func WithCacheTTL(ttl time.Duration) Option {
	return func(c *Client) {
		c.cacheTTL = ttl
	}
}

// WithLogger supply your own logger.
func WithLogger(l logging.Logger) Option {
	return func(c *Client) {
		c.logger = l
	}
}

// WithClock supply your own clock, used for cache expiry.
func WithClock(clock func() time.Time) Option {
	return func(c *Client) {
		c.clock = clock
	}
}

// NewClient creates a Client for the registry API rooted at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	if baseURL == "" {
		baseURL = DefaultRegistryURL
	}

	c := &Client{
		baseURL:    strings.TrimSuffix(baseURL, "/"),
		httpClient: http.DefaultClient,
		logger:     logging.NewLogWithWriters(io.Discard, io.Discard),
		clock:      time.Now,
		cache:      map[string]cacheEntry{},
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// URL returns the address queried for buildpackID.
func (c *Client) URL(buildpackID string) string {
	return c.baseURL + "/" + buildpackID
}

// FetchInfo retrieves the registry record for a normalized buildpack id (no
// registry prefix, no version suffix). Concurrent lookups of the same id share one request,
// which runs detached from any single caller so one caller giving up does not fail the others.
func (c *Client) FetchInfo(ctx context.Context, buildpackID string) (Record, error) {
	if err := ctx.Err(); err != nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryUnreachable, Err: err}
	}

	if record, ok := c.cached(buildpackID); ok {
		c.logger.Debugf("Using cached registry record for %s", style.Symbol(buildpackID))
		return record, nil
	}

	ch := c.group.DoChan(buildpackID, func() (interface{}, error) {
		record, err := c.fetch(context.WithoutCancel(ctx), buildpackID)
		if err != nil {
			return Record{}, err
		}
		c.store(buildpackID, record)
		return record, nil
	})

	select {
	case res := <-ch:
		if res.Err != nil {
			return Record{}, res.Err
		}
		return res.Val.(Record), nil
	case <-ctx.Done():
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryUnreachable, Err: ctx.Err()}
	}
}

func (c *Client) fetch(ctx context.Context, buildpackID string) (Record, error) {
	url := c.URL(buildpackID)
	c.logger.Debugf("Fetching registry record %s", style.Symbol(url))

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryUnreachable, Err: errors.Wrap(err, "creating request")}
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryUnreachable, Err: err}
	}
	defer resp.Body.Close()

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		return Record{}, &FetchError{
			ID:   buildpackID,
			Kind: ErrRegistryUnreachable,
			Err:  errors.Errorf("unexpected status %s from %s", style.Symbol(resp.Status), style.Symbol(url)),
		}
	}

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryUnreachable, Err: errors.Wrap(err, "reading response")}
	}

	return decodeRecord(buildpackID, body)
}

func decodeRecord(buildpackID string, body []byte) (Record, error) {
	var doc struct {
		Versions *[]Version `json:"versions"`
		Latest   *Latest    `json:"latest"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryMalformed, Err: errors.Wrap(err, "decoding response")}
	}

	if doc.Versions == nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryMalformed, Err: errors.Errorf("missing %s", style.Symbol("versions"))}
	}
	if doc.Latest == nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryMalformed, Err: errors.Errorf("missing %s", style.Symbol("latest"))}
	}

	if err := checkStacks(doc.Latest.RawStacks); err != nil {
		return Record{}, &FetchError{ID: buildpackID, Kind: ErrRegistryMalformed, Err: err}
	}

	return Record{Versions: *doc.Versions, Latest: *doc.Latest}, nil
}

func (c *Client) cached(buildpackID string) (Record, bool) {
	if c.cacheTTL <= 0 {
		return Record{}, false
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	entry, ok := c.cache[buildpackID]
	if !ok {
		return Record{}, false
	}
	if !c.clock().Before(entry.expires) {
		delete(c.cache, buildpackID)
		return Record{}, false
	}
	return entry.record, true
}

func (c *Client) store(buildpackID string, record Record) {
	if c.cacheTTL <= 0 {
		return
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.cache[buildpackID] = cacheEntry{record: record, expires: c.clock().Add(c.cacheTTL)}
}
