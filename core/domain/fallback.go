// ABOUTME: FallbackLevel and CorrelationToken domain types shared by the core pipelines
// ABOUTME: FallbackLevel records which rung of the source ladder produced a result

package domain

// FallbackLevel identifies the rung of the aggregation ladder that produced a result.
// Levels are ordered; a higher level is only reached when every lower level fell short.
type FallbackLevel int

const (
	// LevelStrictValidated means enough candidates passed relevance validation
	LevelStrictValidated FallbackLevel = iota

	// LevelPerBackendTopN means each backend's top results were taken unfiltered
	LevelPerBackendTopN

	// LevelAlternateQuery means the alternate text was used for a fresh pass
	LevelAlternateQuery

	// LevelRawMerge means the unfiltered merged list was returned, capped
	LevelRawMerge

	// LevelEmpty means no candidates could be produced
	LevelEmpty
)

var fallbackLevelNames = map[FallbackLevel]string{
	LevelStrictValidated: "strict-validated",
	LevelPerBackendTopN:  "per-backend-top-n",
	LevelAlternateQuery:  "alternate-query",
	LevelRawMerge:        "raw-merge",
	LevelEmpty:           "empty",
}

// String returns the stable name of the level
func (l FallbackLevel) String() string {
	if name, ok := fallbackLevelNames[l]; ok {
		return name
	}
	return "unknown"
}

// CorrelationToken is the short per-attempt identifier embedded in an outbound request
// and required verbatim in the reply that answers it
type CorrelationToken string
