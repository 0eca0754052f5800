// ABOUTME: Check-in endpoint wrappers
// ABOUTME: Creating check-ins and reading history and stats

package client

import (
	"context"
	"fmt"
	"net/http"
)

// CreateCheckin calls POST /checkins/ with the accumulated draft and returns
// the server's result, including recommendations and the crisis flag.
func (c *Client) CreateCheckin(ctx context.Context, in CheckinCreate) (*CheckinResult, error) {
	var result CheckinResult
	if err := c.do(ctx, http.MethodPost, "/checkins/", in, &result); err != nil {
		return nil, err
	}
	return &result, nil
}

// Checkins calls GET /checkins/ with pagination
func (c *Client) Checkins(ctx context.Context, page, pageSize int) (*CheckinList, error) {
	path := fmt.Sprintf("/checkins/?page=%d&page_size=%d", page, pageSize)
	var list CheckinList
	if err := c.do(ctx, http.MethodGet, path, nil, &list); err != nil {
		return nil, err
	}
	return &list, nil
}

// CheckinStats calls GET /checkins/stats
func (c *Client) CheckinStats(ctx context.Context) (*CheckinStats, error) {
	var stats CheckinStats
	if err := c.do(ctx, http.MethodGet, "/checkins/stats", nil, &stats); err != nil {
		return nil, err
	}
	return &stats, nil
}
