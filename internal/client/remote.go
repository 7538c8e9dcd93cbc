package client

import (
	"context"
	"fmt"
	"net/http"
	"net/url"

	"github.com/dshills/codementor/internal/review"
)

// History fetches up to limit reviews recorded by the service.
func (c *Client) History(ctx context.Context, limit int) ([]review.HistoryEntry, error) {
	if limit <= 0 {
		limit = 20
	}
	path := fmt.Sprintf("/api/reviews/history?limit=%d", limit)
	var entries []review.HistoryEntry
	if err := c.doJSON(ctx, http.MethodGet, path, nil, &entries); err != nil {
		return nil, err
	}
	return entries, nil
}

// Projects lists the service's projects.
func (c *Client) Projects(ctx context.Context) ([]review.Project, error) {
	var projects []review.Project
	if err := c.doJSON(ctx, http.MethodGet, "/api/projects", nil, &projects); err != nil {
		return nil, err
	}
	return projects, nil
}

// CreateProject creates a project. The service takes name and description as
// query parameters.
func (c *Client) CreateProject(ctx context.Context, name, description string) (review.Project, error) {
	if name == "" {
		return review.Project{}, &review.ValidationError{Message: "project name is required"}
	}
	q := url.Values{}
	q.Set("name", name)
	q.Set("description", description)

	var p review.Project
	if err := c.doJSON(ctx, http.MethodPost, "/api/projects?"+q.Encode(), nil, &p); err != nil {
		return review.Project{}, err
	}
	return p, nil
}

// Stats fetches the service-side aggregate statistics.
func (c *Client) Stats(ctx context.Context) (review.RemoteStats, error) {
	var s review.RemoteStats
	if err := c.doJSON(ctx, http.MethodGet, "/api/stats", nil, &s); err != nil {
		return review.RemoteStats{}, err
	}
	return s, nil
}

// Health probes the service.
func (c *Client) Health(ctx context.Context) (review.Health, error) {
	var h review.Health
	if err := c.doJSON(ctx, http.MethodGet, "/health", nil, &h); err != nil {
		return review.Health{}, err
	}
	return h, nil
}
