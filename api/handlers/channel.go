// ABOUTME: Channel handler accepts inbound messages pushed by the messaging gateway
// ABOUTME: and lists requests the in-process hub sent, for gateways that poll

package handlers

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"
	"newsdesk-api/core/domain"
)

// InboundPublisher delivers an inbound message to every channel listener
type InboundPublisher interface {
	Publish(msg domain.InboundMessage) int
}

// OutboundLog exposes the requests the hub has sent, in send order
type OutboundLog interface {
	SentAfter(seq uint64) []domain.OutboundMessage
}

// ChannelHandler handles the inbound webhook and the outbound poll
type ChannelHandler struct {
	publisher InboundPublisher
	outbound  OutboundLog
}

// NewChannelHandler creates a new channel handler. outbound may be nil,
// in which case the poll route is not registered.
func NewChannelHandler(publisher InboundPublisher, outbound OutboundLog) *ChannelHandler {
	return &ChannelHandler{publisher: publisher, outbound: outbound}
}

// RegisterRoutes registers channel routes
func (h *ChannelHandler) RegisterRoutes(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID:   "publishInbound",
		Method:        http.MethodPost,
		Path:          "/channel/messages",
		Summary:       "Deliver an inbound channel message",
		Description:   "Fans a message received by the gateway out to every pending script or visuals request",
		Tags:          []string{"Channel"},
		DefaultStatus: http.StatusAccepted,
	}, h.PublishInbound)

	if h.outbound == nil {
		return
	}
	huma.Register(api, huma.Operation{
		OperationID: "listOutbound",
		Method:      http.MethodGet,
		Path:        "/channel/outbound",
		Summary:     "List sent channel requests",
		Description: "Returns requests the hub sent after the given sequence number, for gateways that poll instead of receiving a webhook",
		Tags:        []string{"Channel"},
	}, h.ListOutbound)
}

// PublishInboundInput is one inbound message
type PublishInboundInput struct {
	Body struct {
		From      string    `json:"from,omitempty" doc:"Sender identity"`
		Body      string    `json:"body" minLength:"1" doc:"Message text"`
		Timestamp time.Time `json:"timestamp,omitempty" doc:"When the gateway received the message"`
	}
}

// PublishInboundOutput reports how many listeners received the message
type PublishInboundOutput struct {
	Body struct {
		Delivered int `json:"delivered" doc:"Number of listeners that received the message"`
	}
}

// PublishInbound handles the POST /channel/messages endpoint
func (h *ChannelHandler) PublishInbound(ctx context.Context, input *PublishInboundInput) (*PublishInboundOutput, error) {
	if strings.TrimSpace(input.Body.Body) == "" {
		return nil, huma.Error400BadRequest("body is required")
	}

	output := &PublishInboundOutput{}
	output.Body.Delivered = h.publisher.Publish(domain.InboundMessage{
		From:       input.Body.From,
		Body:       input.Body.Body,
		ReceivedAt: input.Body.Timestamp,
	})
	return output, nil
}

// ListOutboundInput selects messages newer than a sequence number
type ListOutboundInput struct {
	After uint64 `query:"after" default:"0" doc:"Only return messages with a larger sequence number"`
}

// ListOutboundOutput carries the sent messages and the newest sequence seen
type ListOutboundOutput struct {
	Body struct {
		Messages []domain.OutboundMessage `json:"messages" doc:"Sent messages in send order"`
		Latest   uint64                   `json:"latest" doc:"Sequence number to pass as after on the next poll"`
	}
}

// ListOutbound handles the GET /channel/outbound endpoint
func (h *ChannelHandler) ListOutbound(ctx context.Context, input *ListOutboundInput) (*ListOutboundOutput, error) {
	messages := h.outbound.SentAfter(input.After)
	if messages == nil {
		messages = []domain.OutboundMessage{}
	}

	output := &ListOutboundOutput{}
	output.Body.Messages = messages
	output.Body.Latest = input.After
	if n := len(messages); n > 0 {
		output.Body.Latest = messages[n-1].Seq
	}
	return output, nil
}
