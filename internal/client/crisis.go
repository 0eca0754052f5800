// ABOUTME: Crisis support endpoint wrappers
// ABOUTME: Resources lookup, self-report, and the best-effort safe-now acknowledgement

package client

import (
	"context"
	"net/http"
)

// CrisisResources calls GET /crisis/resources
func (c *Client) CrisisResources(ctx context.Context) (*CrisisResources, error) {
	var resources CrisisResources
	if err := c.do(ctx, http.MethodGet, "/crisis/resources", nil, &resources); err != nil {
		return nil, err
	}
	return &resources, nil
}

// ReportCrisis calls POST /crisis/report for a user-initiated crisis
func (c *Client) ReportCrisis(ctx context.Context) (*CrisisReport, error) {
	var report CrisisReport
	if err := c.do(ctx, http.MethodPost, "/crisis/report", nil, &report); err != nil {
		return nil, err
	}
	return &report, nil
}

// MarkSafeNow calls POST /crisis/safe-now. Callers treat this as best effort:
// the local transition out of the crisis overlay proceeds whether or not the
// acknowledgement lands.
func (c *Client) MarkSafeNow(ctx context.Context) error {
	return c.do(ctx, http.MethodPost, "/crisis/safe-now", nil, nil)
}
