// Package catalog fetches the list of sounds available to the mixer.
package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/grovetools/kakapo/errors"
	"github.com/grovetools/kakapo/pkg/models"
	"github.com/moby/patternmatcher"
	"gopkg.in/yaml.v3"
)

// DefaultTimeout bounds a single catalog request when no timeout is configured.
const DefaultTimeout = 10 * time.Second

// Fetcher retrieves raw sound records from somewhere.
type Fetcher interface {
	Fetch(ctx context.Context) ([]models.Record, error)
}

// FetcherFunc adapts a function to the Fetcher interface.
type FetcherFunc func(ctx context.Context) ([]models.Record, error)

// Fetch calls f.
func (f FetcherFunc) Fetch(ctx context.Context) ([]models.Record, error) {
	return f(ctx)
}

// HTTPFetcher loads a JSON array of records from a URL.
type HTTPFetcher struct {
	URL    string
	Client *http.Client
}

// NewHTTPFetcher creates an HTTPFetcher with a bounded client.
func NewHTTPFetcher(url string, timeout time.Duration) *HTTPFetcher {
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &HTTPFetcher{
		URL:    url,
		Client: &http.Client{Timeout: timeout},
	}
}

// Fetch performs the GET request and decodes the body.
func (f *HTTPFetcher) Fetch(ctx context.Context) ([]models.Record, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, f.URL, nil)
	if err != nil {
		return nil, errors.FetchFailed(f.URL, err)
	}
	req.Header.Set("Accept", "application/json")

	client := f.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		return nil, errors.FetchFailed(f.URL, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, errors.FetchFailed(f.URL, fmt.Errorf("unexpected status %d", resp.StatusCode)).
			WithDetail("status", resp.StatusCode)
	}

	var records []models.Record
	if err := json.NewDecoder(resp.Body).Decode(&records); err != nil {
		return nil, errors.FetchFailed(f.URL, fmt.Errorf("decode catalog: %w", err))
	}
	return records, nil
}

// FileFetcher loads records from a local JSON or YAML file.
type FileFetcher struct {
	Path string
}

// Fetch reads and decodes the file. The format is chosen by extension.
func (f *FileFetcher) Fetch(ctx context.Context) ([]models.Record, error) {
	if err := ctx.Err(); err != nil {
		return nil, errors.FetchFailed(f.Path, err)
	}
	data, err := os.ReadFile(f.Path)
	if err != nil {
		return nil, errors.FetchFailed(f.Path, err)
	}

	var records []models.Record
	switch strings.ToLower(filepath.Ext(f.Path)) {
	case ".yml", ".yaml":
		err = yaml.Unmarshal(data, &records)
	default:
		err = json.Unmarshal(data, &records)
	}
	if err != nil {
		return nil, errors.FetchFailed(f.Path, fmt.Errorf("decode catalog: %w", err))
	}
	return records, nil
}

// New picks a fetcher for location: http(s) URLs use HTTPFetcher, anything
// else is treated as a file path.
func New(location string, timeout time.Duration) Fetcher {
	if strings.HasPrefix(location, "http://") || strings.HasPrefix(location, "https://") {
		return NewHTTPFetcher(location, timeout)
	}
	return &FileFetcher{Path: strings.TrimPrefix(location, "file://")}
}

// Filtered wraps a fetcher, assigning ids and dropping records whose id
// matches any of the exclude patterns.
type Filtered struct {
	Fetcher Fetcher
	matcher *patternmatcher.PatternMatcher
}

// WithExclusions builds a Filtered fetcher. Patterns use filepath.Match
// syntax plus "**" and "!" negation.
func WithExclusions(f Fetcher, exclude []string) (*Filtered, error) {
	filtered := &Filtered{Fetcher: f}
	if len(exclude) > 0 {
		pm, err := patternmatcher.New(exclude)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("catalog exclude patterns: %v", err))
		}
		filtered.matcher = pm
	}
	return filtered, nil
}

// Fetch fetches, normalizes and filters the records.
func (f *Filtered) Fetch(ctx context.Context) ([]models.Record, error) {
	records, err := f.Fetcher.Fetch(ctx)
	if err != nil {
		return nil, err
	}
	records = Normalize(records)
	if f.matcher == nil {
		return records, nil
	}

	kept := records[:0]
	for _, r := range records {
		excluded, err := f.matcher.MatchesOrParentMatches(r.ID)
		if err != nil {
			return nil, errors.ConfigInvalid(fmt.Sprintf("catalog exclude patterns: %v", err))
		}
		if !excluded {
			kept = append(kept, r)
		}
	}
	return kept, nil
}

// Normalize gives every record an id. Records keep an explicit id, otherwise
// their name is slugged; nameless records get a random uuid. When two records
// share an id the later one replaces the earlier in place, so the result has
// exactly one record per collection entry.
func Normalize(records []models.Record) []models.Record {
	out := make([]models.Record, 0, len(records))
	index := make(map[string]int, len(records))
	for _, r := range records {
		if r.ID == "" {
			r.ID = Slug(r.Name)
		}
		if r.ID == "" {
			r.ID = uuid.NewString()
		}
		if i, dup := index[r.ID]; dup {
			out[i] = r
			continue
		}
		index[r.ID] = len(out)
		out = append(out, r)
	}
	return out
}

// Slug lowercases name and joins its words with dashes.
func Slug(name string) string {
	return strings.Join(strings.Fields(strings.ToLower(name)), "-")
}
