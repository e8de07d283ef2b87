// Package holiday consumes the external public-holiday feed and caches its
// results process-wide with a 24-hour freshness window.
package holiday

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net"
	"net/http"
	"time"

	"github.com/priyankverma/cleansched/pkg/models"
)

// Sentinel errors for holiday feed failures.
var (
	ErrFeedUnreachable = errors.New("holiday feed unreachable")
	ErrFeedQueryError  = errors.New("holiday feed query error")
	ErrFeedTimeout     = errors.New("holiday feed timeout")
)

// Source yields the public holidays of one calendar year.
type Source interface {
	Holidays(ctx context.Context, year int) ([]models.PublicHoliday, error)
}

// FeedClient implements Source against an HTTP JSON holiday API
// (Nager.Date-compatible: GET /api/v3/PublicHolidays/{year}/{countryCode}).
type FeedClient struct {
	baseURL     string
	countryCode string
	client      *http.Client
}

// NewFeedClient creates a new holiday feed client.
func NewFeedClient(baseURL, countryCode string, timeout time.Duration) *FeedClient {
	return &FeedClient{
		baseURL:     baseURL,
		countryCode: countryCode,
		client:      &http.Client{Timeout: timeout},
	}
}

func (c *FeedClient) Holidays(ctx context.Context, year int) ([]models.PublicHoliday, error) {
	u := fmt.Sprintf("%s/api/v3/PublicHolidays/%d/%s", c.baseURL, year, c.countryCode)

	httpReq, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("building request: %w", err)
	}

	resp, err := c.client.Do(httpReq)
	if err != nil {
		return nil, classifyError(err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return nil, fmt.Errorf("%w: status %d", ErrFeedQueryError, resp.StatusCode)
	}

	var feed []feedHoliday
	if err := json.NewDecoder(resp.Body).Decode(&feed); err != nil {
		return nil, fmt.Errorf("decoding holiday feed response: %w", err)
	}

	return parseFeed(feed), nil
}

// classifyError maps transport-level errors to sentinel errors.
func classifyError(err error) error {
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return fmt.Errorf("%w: %v", ErrFeedTimeout, err)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return fmt.Errorf("%w: %v", ErrFeedTimeout, err)
		}
		return fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
	}

	return fmt.Errorf("%w: %v", ErrFeedUnreachable, err)
}

// parseFeed converts feed entries into PublicHoliday values, dropping
// entries with unparseable dates.
func parseFeed(feed []feedHoliday) []models.PublicHoliday {
	holidays := make([]models.PublicHoliday, 0, len(feed))
	for _, h := range feed {
		date, err := time.Parse("2006-01-02", h.Date)
		if err != nil {
			continue
		}
		holidays = append(holidays, models.PublicHoliday{
			Date:      date.UTC(),
			LocalName: h.LocalName,
			Name:      h.Name,
		})
	}
	return holidays
}

// --- feed response types ---

type feedHoliday struct {
	Date      string `json:"date"`
	LocalName string `json:"localName"`
	Name      string `json:"name"`
}

// Compile-time check that FeedClient implements Source.
var _ Source = (*FeedClient)(nil)
