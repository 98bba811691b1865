// ABOUTME: Messaging channel interface for the shared, human-facing transport
// ABOUTME: Every subscriber sees every inbound message; there is no request/reply linkage

package interfaces

import (
	"context"

	"newsdesk-api/core/domain"
)

// MessageChannel is the shared asynchronous transport used to reach the script service.
//
// Subscribe registers a new listener on the inbound stream. The returned function removes
// the listener and may be called more than once; only the first call has an effect. After
// removal the channel receives no further messages.
type MessageChannel interface {
	Send(ctx context.Context, recipient, text string) error
	Subscribe(ctx context.Context) (<-chan domain.InboundMessage, func())
}
