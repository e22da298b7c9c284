// Package nocodb reads the generation and club tables through the NocoDB v2 REST API.
package nocodb

import (
	"auroscope/internal/models"
	"auroscope/internal/providers"
	"auroscope/internal/structures"
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"github.com/goccy/go-json"
	"github.com/hashicorp/go-cleanhttp"
)

const (
	DefaultPageSize = 100
	clubsLimit      = 1000
	maxErrorBody    = 512
	filterLayout    = "2006-01-02 15:04"

	resourceRecords  = "records"
	resourceFiltered = "records_filtered"
	resourceClubs    = "clubs"
)

var ErrUnexpectedStatus = errors.New("unexpected status")

type ClientInterface interface {
	FetchAll(ctx context.Context) ([]models.Record, error)
	FetchFiltered(ctx context.Context, field string, start, end time.Time) ([]models.Record, error)
	FetchRange(ctx context.Context, field string, start, end time.Time) (*FetchResult, error)
	FetchClubNames(ctx context.Context) (models.ClubLookup, error)
}

// FetchResult is the outcome of the filtered listing with its local fallback.
type FetchResult struct {
	Records      []models.Record
	UsedFallback bool
	// FilterErr is the server-side filtering failure that triggered the fallback.
	FilterErr error
}

type Client struct {
	baseURL      string
	token        string
	tableID      string
	clubsTableID string
	pageSize     int
	httpClient   *http.Client
	logger       providers.Logger
	metrics      providers.MetricsProviderInterface
}

func NewClient(conf *structures.Config, logger providers.Logger, metrics providers.MetricsProviderInterface) *Client {
	httpClient := cleanhttp.DefaultPooledClient()
	if conf.NocoDB.Timeout > 0 {
		httpClient.Timeout = conf.NocoDB.Timeout
	}

	pageSize := conf.NocoDB.PageSize
	if pageSize <= 0 {
		pageSize = DefaultPageSize
	}

	return &Client{
		baseURL:      strings.TrimRight(conf.NocoDB.Url, "/"),
		token:        conf.NocoDB.Token,
		tableID:      conf.NocoDB.TableID,
		clubsTableID: conf.NocoDB.ClubsTableID,
		pageSize:     pageSize,
		httpClient:   httpClient,
		logger:       logger,
		metrics:      metrics,
	}
}

// FetchAll lists the whole primary table page by page.
func (c *Client) FetchAll(ctx context.Context) ([]models.Record, error) {
	records, err := c.paginate(ctx, resourceRecords, "")
	if err != nil {
		return nil, fmt.Errorf("fetch records: %w", err)
	}
	c.logger.Infof(providers.TypeFetch, "Fetched total %d records", len(records))
	return records, nil
}

// FetchFiltered lists records whose field lies in [start, end] at minute precision.
func (c *Client) FetchFiltered(ctx context.Context, field string, start, end time.Time) ([]models.Record, error) {
	where := RangeFilter(field, start, end)
	c.logger.Debugf(providers.TypeFetch, "Using filter: %s", where)

	records, err := c.paginate(ctx, resourceFiltered, where)
	if err != nil {
		return nil, fmt.Errorf("fetch filtered records: %w", err)
	}
	c.logger.Infof(providers.TypeFetch, "Fetched total %d filtered records", len(records))
	return records, nil
}

// FetchRange tries the server-side filter first. Any failure there is replaced by a
// full listing filtered locally; only a failure of the full listing is returned.
func (c *Client) FetchRange(ctx context.Context, field string, start, end time.Time) (*FetchResult, error) {
	records, err := c.FetchFiltered(ctx, field, start, end)
	if err == nil {
		return &FetchResult{Records: records}, nil
	}

	c.logger.Warnf(providers.TypeFetch, "Server-side filtering failed (%v), fetching all records", err)
	c.metrics.IncFetchFallbacks()

	all, allErr := c.FetchAll(ctx)
	if allErr != nil {
		return nil, allErr
	}

	return &FetchResult{
		Records:      FilterByRange(all, field, start, end),
		UsedFallback: true,
		FilterErr:    err,
	}, nil
}

// FetchClubNames loads the club id to name mapping. Later duplicates overwrite earlier ones.
func (c *Client) FetchClubNames(ctx context.Context) (models.ClubLookup, error) {
	q := url.Values{}
	q.Set("limit", strconv.Itoa(clubsLimit))

	items, err := c.get(ctx, resourceClubs, c.clubsTableID, q)
	if err != nil {
		return nil, fmt.Errorf("fetch club names: %w", err)
	}

	lookup := make(models.ClubLookup, len(items))
	for _, item := range items {
		obj, ok := item.(map[string]any)
		if !ok {
			continue
		}
		id, idOk := obj[models.FieldClubID].(string)
		name, nameOk := obj[models.FieldName].(string)
		if idOk && nameOk {
			lookup[id] = name
		}
	}

	c.logger.Infof(providers.TypeFetch, "Loaded %d club names", len(lookup))
	return lookup, nil
}

// RangeFilter builds the NocoDB where expression for an inclusive UTC range.
func RangeFilter(field string, start, end time.Time) string {
	return fmt.Sprintf("(%s,ge,exactDate,%s)~and(%s,le,exactDate,%s)",
		field, start.UTC().Format(filterLayout),
		field, end.UTC().Format(filterLayout))
}

// FilterByRange keeps records whose field parses to an instant inside [start, end].
// Records with a missing or unparsable timestamp are dropped.
func FilterByRange(records []models.Record, field string, start, end time.Time) []models.Record {
	kept := make([]models.Record, 0, len(records))
	for _, r := range records {
		ts, ok := r.Time(field)
		if !ok || ts.Before(start) || ts.After(end) {
			continue
		}
		kept = append(kept, r)
	}
	return kept
}

func (c *Client) paginate(ctx context.Context, resource, where string) ([]models.Record, error) {
	var all []models.Record

	for offset := 0; ; offset += c.pageSize {
		q := url.Values{}
		q.Set("limit", strconv.Itoa(c.pageSize))
		q.Set("offset", strconv.Itoa(offset))
		if where != "" {
			q.Set("where", where)
		}

		items, err := c.get(ctx, resource, c.tableID, q)
		if err != nil {
			return nil, err
		}
		all = appendRecords(all, items)

		c.logger.Debugf(providers.TypeFetch, "Fetched %d %s at offset %d, total so far: %d", len(items), resource, offset, len(all))

		// a short page is the last one
		if len(items) < c.pageSize {
			return all, nil
		}
	}
}

func (c *Client) get(ctx context.Context, resource, table string, q url.Values) ([]any, error) {
	endpoint := fmt.Sprintf("%s/api/v2/tables/%s/records", c.baseURL, url.PathEscape(table))
	if len(q) > 0 {
		endpoint += "?" + q.Encode()
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, fmt.Errorf("create request: %w", err)
	}
	req.Header.Set("xc-token", c.token)
	req.Header.Set("Accept", "application/json")

	started := time.Now()
	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.metrics.ObserveRemoteRequest(resource, 0, time.Since(started))
		return nil, fmt.Errorf("do request: %w", err)
	}
	defer resp.Body.Close()
	c.metrics.ObserveRemoteRequest(resource, resp.StatusCode, time.Since(started))

	if resp.StatusCode < http.StatusOK || resp.StatusCode >= http.StatusMultipleChoices {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, maxErrorBody))
		c.logger.Errorf(providers.TypeFetch, "Failed to fetch %s: %d - %s", resource, resp.StatusCode, body)
		return nil, fmt.Errorf("%w: %d - %s", ErrUnexpectedStatus, resp.StatusCode, strings.TrimSpace(string(body)))
	}

	var payload map[string]any
	dec := json.NewDecoder(resp.Body)
	dec.UseNumber()
	if err := dec.Decode(&payload); err != nil {
		return nil, fmt.Errorf("decode response: %w", err)
	}

	return pageItems(payload), nil
}

// pageItems returns the record array, which depending on the NocoDB version is under "list" or "data".
func pageItems(payload map[string]any) []any {
	for _, key := range []string{"list", "data"} {
		if v, ok := payload[key]; ok {
			items, _ := v.([]any)
			return items
		}
	}
	return nil
}

func appendRecords(dst []models.Record, items []any) []models.Record {
	for _, item := range items {
		if obj, ok := item.(map[string]any); ok {
			dst = append(dst, models.Record(obj))
		}
	}
	return dst
}
