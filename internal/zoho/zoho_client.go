package zoho

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"maps"
	"net/http"
	"net/url"
	"strconv"
	"strings"
	"time"

	"hr-ops/internal/config"

	"go.uber.org/zap"
	"golang.org/x/oauth2"
	"golang.org/x/sync/singleflight"
	"golang.org/x/time/rate"
)

const dateLayout = "2006-01-02"

type API interface {
	FetchTimelogs(ctx context.Context, from, to time.Time) ([]TimelogDay, error)
	FetchLeaveRecords(ctx context.Context, from, to time.Time) (map[string]LeaveRecord, error)
}

type Client struct {
	http    *http.Client
	cfg     config.ZohoOptions
	limiter *rate.Limiter
	sf      *singleflight.Group
	logger  *zap.Logger
}

func NewClient(cfg config.ZohoOptions, logger ...*zap.Logger) *Client {
	l := zap.L().Named("zoho.client")
	if len(logger) > 0 && logger[0] != nil {
		l = logger[0].Named("zoho.client")
	}
	base := &http.Client{Timeout: cfg.Timeout}
	return NewClientWithTokenSource(cfg, NewTokenSource(cfg.TokenURL, base, cfg.Timeout, l), l)
}

// NewClientWithTokenSource builds a client around an existing token source.
func NewClientWithTokenSource(cfg config.ZohoOptions, ts oauth2.TokenSource, logger *zap.Logger) *Client {
	if logger == nil {
		logger = zap.L().Named("zoho.client")
	}
	if cfg.PageSize <= 0 {
		cfg.PageSize = 200
	}
	interval := rate.Inf
	if cfg.PageInterval > 0 {
		interval = rate.Every(cfg.PageInterval)
	}
	return &Client{
		http: &http.Client{
			Timeout:   cfg.Timeout,
			Transport: &oauth2.Transport{Source: ts, Base: http.DefaultTransport},
		},
		cfg:     cfg,
		limiter: rate.NewLimiter(interval, 1),
		sf:      &singleflight.Group{},
		logger:  logger,
	}
}

// FetchTimelogs returns the day-grouped task timelogs of the portal.
func (c *Client) FetchTimelogs(ctx context.Context, from, to time.Time) ([]TimelogDay, error) {
	key := "timelogs:" + from.Format(dateLayout) + ":" + to.Format(dateLayout)
	v, err, shared := c.sf.Do(key, func() (any, error) {
		endpoint := fmt.Sprintf("%s/portal/%s/timelogs", strings.TrimRight(c.cfg.ProjectsBaseURL, "/"), url.PathEscape(c.cfg.PortalID))
		q := url.Values{}
		q.Set("module", `{"type":"task"}`)
		q.Set("start_date", from.Format(dateLayout))
		q.Set("end_date", to.Format(dateLayout))
		q.Set("view_type", "day")

		var resp timelogResponse
		if err := c.getJSON(ctx, endpoint, q, &resp); err != nil {
			return nil, err
		}
		return resp.TimeLogs, nil
	})
	if err != nil {
		return nil, err
	}
	days := v.([]TimelogDay)
	c.logger.Info("zoho timelogs fetched",
		zap.String("from", from.Format(dateLayout)),
		zap.String("to", to.Format(dateLayout)),
		zap.Int("days", len(days)),
		zap.Bool("shared", shared),
	)
	return days, nil
}

// FetchLeaveRecords pages through leave records until a short page is
// returned. Pages are spaced by the configured interval.
func (c *Client) FetchLeaveRecords(ctx context.Context, from, to time.Time) (map[string]LeaveRecord, error) {
	key := "leaves:" + from.Format(dateLayout) + ":" + to.Format(dateLayout)
	v, err, _ := c.sf.Do(key, func() (any, error) {
		endpoint := strings.TrimRight(c.cfg.PeopleBaseURL, "/") + "/leavetracker/leaves/records"
		all := make(map[string]LeaveRecord)
		for start := 0; ; start += c.cfg.PageSize {
			if err := c.limiter.Wait(ctx); err != nil {
				return nil, err
			}

			q := url.Values{}
			q.Set("from", from.Format(dateLayout))
			q.Set("to", to.Format(dateLayout))
			q.Set("limit", strconv.Itoa(c.cfg.PageSize))
			q.Set("startIndex", strconv.Itoa(start))
			q.Set("dateFormat", "yyyy-MM-dd")

			var page leaveResponse
			if err := c.getJSON(ctx, endpoint, q, &page); err != nil {
				return nil, err
			}
			c.logger.Debug("zoho leave page fetched", zap.Int("start_index", start), zap.Int("records", len(page.Records)))
			maps.Copy(all, page.Records)

			if len(page.Records) < c.cfg.PageSize {
				break
			}
		}
		return all, nil
	})
	if err != nil {
		return nil, err
	}
	records := v.(map[string]LeaveRecord)
	c.logger.Info("zoho leave records fetched", zap.Int("records", len(records)))
	return records, nil
}

func (c *Client) getJSON(ctx context.Context, endpoint string, q url.Values, out any) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint+"?"+q.Encode(), nil)
	if err != nil {
		return err
	}
	req.Header.Set("Accept", "application/json")

	resp, err := c.http.Do(req)
	if err != nil {
		var tokenErr *TokenError
		if errors.As(err, &tokenErr) {
			return tokenErr
		}
		return fmt.Errorf("zoho request: %w", err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("read zoho response: %w", err)
	}
	if resp.StatusCode != http.StatusOK {
		return &APIError{Status: resp.StatusCode, Body: truncate(string(body), 512)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return fmt.Errorf("decode zoho response: %w", err)
	}
	return nil
}

func truncate(s string, n int) string {
	if len(s) <= n {
		return s
	}
	return s[:n]
}
