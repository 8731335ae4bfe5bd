package api

import (
	"context"
	"fmt"
	"net/url"
	"strconv"

	"github.com/rejimde/terminal/internal/model"
)

// ActivityQuery controls filtering and pagination for the activity
// ledger. Offset advances by the number of items actually returned,
// never by the page-size constant.
type ActivityQuery struct {
	Limit  int
	Offset int
	Filter string
}

// Activity retrieves one page of the user's activity ledger, newest
// first. The backend exposes no total count; a short page is the only
// end-of-data signal.
func (c *Client) Activity(ctx context.Context, q ActivityQuery) ([]model.ActivityItem, error) {
	query := url.Values{}
	query.Set("limit", strconv.Itoa(q.Limit))
	query.Set("offset", strconv.Itoa(q.Offset))
	if q.Filter != "" {
		query.Set("filter", q.Filter)
	}

	var items []model.ActivityItem
	if err := c.Get(ctx, "/rejimde/v1/activity", query, &items); err != nil {
		c.degrade("/rejimde/v1/activity", err)
		return nil, fmt.Errorf("fetching activity: %w", err)
	}
	return items, nil
}
