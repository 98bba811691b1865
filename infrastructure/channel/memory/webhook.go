// ABOUTME: Webhook forwarder delivering hub messages to the gateway that talks to the counterparty
// ABOUTME: Each outbound message is POSTed as JSON; any non-2xx answer fails the send

package memory

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"

	"newsdesk-api/core/domain"
	"newsdesk-api/core/interfaces"
)

// NewWebhookForwarder returns a Forwarder that POSTs every outbound message to url.
// headers are added to each request, e.g. an Authorization bearer token.
func NewWebhookForwarder(client interfaces.HTTPClient, url string, headers map[string]string) (Forwarder, error) {
	if client == nil {
		return nil, errors.New("webhook forwarder: http client is required")
	}
	if url == "" {
		return nil, errors.New("webhook forwarder: url is required")
	}

	return func(ctx context.Context, msg domain.OutboundMessage) error {
		payload, err := json.Marshal(msg)
		if err != nil {
			return fmt.Errorf("webhook forwarder: encode message: %w", err)
		}

		resp, err := client.Post(ctx, url, bytes.NewReader(payload), headers)
		if err != nil {
			return fmt.Errorf("webhook forwarder: %w", err)
		}
		body := resp.Body()
		defer body.Close()
		_, _ = io.Copy(io.Discard, io.LimitReader(body, 64*1024))

		if code := resp.StatusCode(); code < 200 || code > 299 {
			return fmt.Errorf("webhook forwarder: gateway returned %d", code)
		}
		return nil
	}, nil
}
