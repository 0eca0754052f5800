// ABOUTME: Intervention endpoint wrappers
// ABOUTME: Library listing and session start/complete/skip

package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"
)

// Interventions calls GET /interventions/ with optional filters
func (c *Client) Interventions(ctx context.Context, filter InterventionFilter) ([]Intervention, error) {
	q := url.Values{}
	if filter.TherapeuticApproach != "" {
		q.Set("therapeutic_approach", filter.TherapeuticApproach)
	}
	if filter.MaxDurationSeconds > 0 {
		q.Set("max_duration_seconds", fmt.Sprintf("%d", filter.MaxDurationSeconds))
	}
	if filter.TargetEmotion != "" {
		q.Set("target_emotion", filter.TargetEmotion)
	}

	path := "/interventions/"
	if len(q) > 0 {
		path += "?" + q.Encode()
	}

	var interventions []Intervention
	if err := c.do(ctx, http.MethodGet, path, nil, &interventions); err != nil {
		return nil, err
	}
	return interventions, nil
}

// StartSession calls POST /interventions/sessions and returns the created
// session, whose id keys all later calls for this attempt.
func (c *Client) StartSession(ctx context.Context, in SessionStart) (*InterventionSession, error) {
	var session InterventionSession
	if err := c.do(ctx, http.MethodPost, "/interventions/sessions", in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// CompleteSession calls POST /interventions/sessions/{id}/complete with feedback
func (c *Client) CompleteSession(ctx context.Context, sessionID string, in SessionComplete) (*InterventionSession, error) {
	path := fmt.Sprintf("/interventions/sessions/%s/complete", url.PathEscape(sessionID))
	var session InterventionSession
	if err := c.do(ctx, http.MethodPost, path, in, &session); err != nil {
		return nil, err
	}
	return &session, nil
}

// SkipSession calls POST /interventions/sessions/{id}/skip
func (c *Client) SkipSession(ctx context.Context, sessionID string) (*InterventionSession, error) {
	path := fmt.Sprintf("/interventions/sessions/%s/skip", url.PathEscape(sessionID))
	var session InterventionSession
	if err := c.do(ctx, http.MethodPost, path, nil, &session); err != nil {
		return nil, err
	}
	return &session, nil
}
