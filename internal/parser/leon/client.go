package leon

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/go-resty/resty/v2"

	"github.com/Vodeneev/leonspider/internal/pkg/models"
	"github.com/Vodeneev/leonspider/internal/pkg/retry"
)

// Leon betline API.
// Events: GET /api-2/betline/events/all?ctag=en-US&league_id=...&hideClosed=true&flags=...
// Event:  GET /api-2/betline/event/all?ctag=en-US&eventId=...&flags=...
const (
	DefaultBaseURL    = "https://leon.ru"
	DefaultEventsPath = "/api-2/betline/events/all"
	DefaultEventPath  = "/api-2/betline/event/all"
	DefaultLocale     = "en-US"
	DefaultUserAgent  = "leonspider/1.0 (https://github.com/Vodeneev/leonspider)"

	eventsFlags = "reg,urlv2,mm2,rrc,nodup"
	eventFlags  = "reg,urlv2,mm2,rrc,nodup,smg,outv2"
)

type Options struct {
	BaseURL    string
	EventsPath string
	EventPath  string
	Locale     string
	UserAgent  string
	Timeout    time.Duration
	// Retry wraps every request. Nil means a single attempt.
	Retry *retry.Policy
}

// Client fetches league listings and event details. Each call blocks until a
// decoded result or a terminal error is available.
type Client struct {
	http       *resty.Client
	eventsPath string
	eventPath  string
	locale     string
	retry      *retry.Policy
}

func NewClient(opts Options) *Client {
	baseURL := strings.TrimSuffix(opts.BaseURL, "/")
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if opts.EventsPath == "" {
		opts.EventsPath = DefaultEventsPath
	}
	if opts.EventPath == "" {
		opts.EventPath = DefaultEventPath
	}
	if opts.Locale == "" {
		opts.Locale = DefaultLocale
	}
	if opts.UserAgent == "" {
		opts.UserAgent = DefaultUserAgent
	}
	if opts.Timeout <= 0 {
		opts.Timeout = 30 * time.Second
	}
	if opts.Retry == nil {
		opts.Retry = retry.New(1, 0, nil)
	}

	// Event payloads are large: no response size limit is set.
	hc := resty.New().
		SetBaseURL(baseURL).
		SetTimeout(opts.Timeout).
		SetHeader("Accept", "application/json").
		SetHeader("User-Agent", opts.UserAgent)

	return &Client{
		http:       hc,
		eventsPath: opts.EventsPath,
		eventPath:  opts.EventPath,
		locale:     opts.Locale,
		retry:      opts.Retry,
	}
}

// FetchLeagueEvents возвращает список матчей лиги.
func (c *Client) FetchLeagueEvents(ctx context.Context, leagueID string) (*models.Betline, error) {
	var out models.Betline
	err := c.get(ctx, "league events "+leagueID, c.eventsPath, map[string]string{
		"ctag":       c.locale,
		"league_id":  leagueID,
		"hideClosed": "true",
		"flags":      eventsFlags,
	}, &out)
	if err != nil {
		return nil, err
	}
	return &out, nil
}

// FetchEventDetail возвращает один матч со всеми рынками.
func (c *Client) FetchEventDetail(ctx context.Context, eventID string) (*models.Match, error) {
	var m models.Match
	err := c.get(ctx, "event "+eventID, c.eventPath, map[string]string{
		"ctag":    c.locale,
		"eventId": eventID,
		"flags":   eventFlags,
	}, &m)
	if err != nil {
		return nil, err
	}
	if err := m.Validate(); err != nil {
		return nil, err
	}
	return &m, nil
}

func (c *Client) get(ctx context.Context, op, path string, query map[string]string, out any) error {
	return c.retry.Do(ctx, func(ctx context.Context) error {
		resp, err := c.http.R().
			SetContext(ctx).
			SetQueryParams(query).
			Get(path)
		if err != nil {
			return &RemoteCallError{Op: op, Err: err}
		}
		if resp.StatusCode() >= 400 {
			return statusError(op, resp.StatusCode(), resp.Status(), resp.Header())
		}
		if err := json.Unmarshal(resp.Body(), out); err != nil {
			return fmt.Errorf("%s: decode: %w", op, err)
		}
		return nil
	})
}
