// ABOUTME: Script domain model carries a generated script and how it was produced
// ABOUTME: Distinguishes channel-generated scripts from the direct generator fallback

package domain

// ScriptOrigin records which path produced a script
type ScriptOrigin string

const (
	// OriginChannel means the script came back through the messaging channel
	OriginChannel ScriptOrigin = "channel"

	// OriginDirect means the channel was exhausted and the direct generator was used
	OriginDirect ScriptOrigin = "direct"

	// OriginUnavailable means neither path produced a script
	OriginUnavailable ScriptOrigin = "unavailable"
)

// Script is the outcome of one logical script request
type Script struct {
	// Text is the script body with any correlation token removed
	Text string `json:"text"`

	// Origin is the path that produced Text
	Origin ScriptOrigin `json:"origin"`

	// Attempts is how many channel attempts were made
	Attempts int `json:"attempts"`
}
