// ABOUTME: HTTP existence checker confirms an article URL answers with 200 OK
// ABOUTME: Transport failures are returned as errors so the validator can apply its policy

package services

import (
	"context"
	"io"
	"net/http"
	"time"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

// HTTPExistenceChecker checks article reachability with a GET request
type HTTPExistenceChecker struct {
	client  interfaces.HTTPClient
	timeout time.Duration
}

// NewHTTPExistenceChecker creates a checker with the given per-request timeout
func NewHTTPExistenceChecker(client interfaces.HTTPClient, timeout time.Duration) *HTTPExistenceChecker {
	if timeout <= 0 {
		timeout = 8 * time.Second
	}
	return &HTTPExistenceChecker{client: client, timeout: timeout}
}

// Exists reports whether the candidate URL responds with 200
func (c *HTTPExistenceChecker) Exists(ctx context.Context, candidate domain.Candidate) (bool, error) {
	ctx, cancel := context.WithTimeout(ctx, c.timeout)
	defer cancel()

	resp, err := c.client.Get(ctx, candidate.URL)
	if err != nil {
		return false, err
	}
	body := resp.Body()
	if body != nil {
		_, _ = io.Copy(io.Discard, io.LimitReader(body, 64*1024))
		body.Close()
	}

	return resp.StatusCode() == http.StatusOK, nil
}
