package catalog

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"sort"
	"strings"
	"time"
)

// Source is where course and bus rows come from.
type Source interface {
	FetchCourses(ctx context.Context, ids []string) ([]CourseRow, error)
	SearchCourses(ctx context.Context, query string) ([]CourseRow, error)
	FetchBusSchedules(ctx context.Context, routeCodes []string) ([]BusRow, error)
}

// searchLimit caps the rows a search returns.
const searchLimit = 50

// Client reads the portal tables through the PostgREST API of the backend.
type Client struct {
	httpClient *http.Client
	baseURL    string
	apiKey     string
	logger     *slog.Logger

	// NoCache skips the disk cache for reads and writes.
	NoCache bool
}

func NewClient(baseURL, apiKey string, logger *slog.Logger) *Client {
	if logger == nil {
		logger = slog.Default()
	}
	return &Client{
		httpClient: &http.Client{Timeout: 30 * time.Second},
		baseURL:    strings.TrimRight(baseURL, "/"),
		apiKey:     apiKey,
		logger:     logger,
	}
}

// getWithRetries attempts an HTTP GET request up to 3 times for 502/503/504/timeout errors
func (c *Client) getWithRetries(ctx context.Context, reqURL string) (*http.Response, error) {
	var lastErr error
	var resp *http.Response

	for attempt := 0; attempt < 3; attempt++ {
		req, err := http.NewRequestWithContext(ctx, http.MethodGet, reqURL, nil)
		if err != nil {
			return nil, err
		}
		req.Header.Set("User-Agent", "courseweb/1.0")
		req.Header.Set("Accept", "application/json")
		if c.apiKey != "" {
			req.Header.Set("apikey", c.apiKey)
			req.Header.Set("Authorization", "Bearer "+c.apiKey)
		}

		resp, lastErr = c.httpClient.Do(req)

		if lastErr == nil && (resp.StatusCode == 503 || resp.StatusCode == 504 || resp.StatusCode == 502) {
			resp.Body.Close()
			lastErr = fmt.Errorf("transient status code: %d", resp.StatusCode)
		} else if lastErr == nil {
			return resp, nil
		}

		if ctx.Err() != nil {
			return nil, ctx.Err()
		}

		if attempt < 2 {
			c.logger.Warn("backend congested, retrying", "attempt", attempt+1, "err", lastErr)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(time.Duration(attempt+1) * time.Second):
			}
		}
	}

	return nil, fmt.Errorf("failed after 3 attempts: %w", lastErr)
}

// getJSON fetches a table endpoint and decodes the JSON array into v.
func (c *Client) getJSON(ctx context.Context, table string, query url.Values, v any) error {
	reqURL := fmt.Sprintf("%s/rest/v1/%s?%s", c.baseURL, table, query.Encode())

	resp, err := c.getWithRetries(ctx, reqURL)
	if err != nil {
		return fmt.Errorf("failed to fetch %s: %w", table, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("failed to read %s response body: %w", table, err)
	}

	if err := json.Unmarshal(body, v); err != nil {
		return fmt.Errorf("failed to decode %s JSON: %w", table, err)
	}
	return nil
}

// inList renders values as a PostgREST in.(...) filter with quoted items.
func inList(values []string) string {
	quoted := make([]string, len(values))
	for i, v := range values {
		quoted[i] = `"` + strings.ReplaceAll(v, `"`, `\"`) + `"`
	}
	return "in.(" + strings.Join(quoted, ",") + ")"
}

// FetchCourses returns the rows for the given raw ids in the order asked
// for. Unknown ids are left out. Cached rows younger than 12h are reused.
func (c *Client) FetchCourses(ctx context.Context, ids []string) ([]CourseRow, error) {
	found := make(map[string]CourseRow)
	var missing []string
	for _, id := range ids {
		var cached CourseRow
		if !c.NoCache && readCache("course_"+id, &cached) {
			found[id] = cached
			continue
		}
		missing = append(missing, id)
	}

	if len(missing) > 0 {
		q := url.Values{}
		q.Set("select", "*")
		q.Set("raw_id", inList(missing))

		var rows []CourseRow
		if err := c.getJSON(ctx, "courses", q, &rows); err != nil {
			return nil, err
		}

		rows, err := ValidateCourses(rows)
		if err != nil {
			c.logger.Warn("course rows rejected", "err", err)
		}
		for _, r := range rows {
			found[r.RawID] = r
			if !c.NoCache {
				writeCache("course_"+r.RawID, r)
			}
		}
	}

	return orderByIDs(ids, found), nil
}

func orderByIDs(ids []string, found map[string]CourseRow) []CourseRow {
	var out []CourseRow
	seen := make(map[string]bool)
	for _, id := range ids {
		if r, ok := found[id]; ok && !seen[id] {
			seen[id] = true
			out = append(out, r)
		}
	}
	return out
}

// SearchCourses matches the query against course ids and both names.
func (c *Client) SearchCourses(ctx context.Context, query string) ([]CourseRow, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, nil
	}

	pattern := "*" + strings.NewReplacer(",", " ", "(", " ", ")", " ").Replace(query) + "*"
	q := url.Values{}
	q.Set("select", "*")
	q.Set("or", fmt.Sprintf("(raw_id.ilike.%s,name_zh.ilike.%s,name_en.ilike.%s)", pattern, pattern, pattern))
	q.Set("order", "raw_id")
	q.Set("limit", fmt.Sprint(searchLimit))

	var rows []CourseRow
	if err := c.getJSON(ctx, "courses", q, &rows); err != nil {
		return nil, err
	}

	rows, err := ValidateCourses(rows)
	if err != nil {
		c.logger.Warn("course rows rejected", "err", err)
	}
	return rows, nil
}

// FetchBusSchedules returns every schedule row of the given routes, ordered by id.
func (c *Client) FetchBusSchedules(ctx context.Context, routeCodes []string) ([]BusRow, error) {
	if len(routeCodes) == 0 {
		return nil, nil
	}

	codes := append([]string(nil), routeCodes...)
	sort.Strings(codes)
	key := "bus_" + strings.Join(codes, "-")

	var rows []BusRow
	if !c.NoCache && readCache(key, &rows) {
		return rows, nil
	}

	q := url.Values{}
	q.Set("select", "*")
	q.Set("route_name", inList(codes))
	q.Set("order", "id")

	if err := c.getJSON(ctx, "bus_schedule", q, &rows); err != nil {
		return nil, err
	}

	rows, err := ValidateBusRows(rows)
	if err != nil {
		c.logger.Warn("bus rows rejected", "err", err)
	}
	if !c.NoCache {
		writeCache(key, rows)
	}
	return rows, nil
}
