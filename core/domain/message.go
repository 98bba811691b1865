// ABOUTME: InboundMessage domain model represents one message observed on the shared channel
// ABOUTME: Messages are immutable and delivered to every listener on the channel

package domain

import "time"

// InboundMessage is one message received from the messaging channel
type InboundMessage struct {
	// From is the sender identity as reported by the transport
	From string `json:"from"`

	// Body is the raw message text
	Body string `json:"body"`

	// ReceivedAt is when the transport observed the message
	ReceivedAt time.Time `json:"timestamp"`
}

// OutboundMessage is one request sent to the counterparty over the channel
type OutboundMessage struct {
	// Seq increases by one for every message a transport sends, starting at 1
	Seq uint64 `json:"seq"`

	// Recipient is the counterparty address
	Recipient string `json:"recipient"`

	// Text is the full request, including any echo instruction
	Text string `json:"text"`

	// SentAt is when the transport accepted the message
	SentAt time.Time `json:"sentAt"`
}
