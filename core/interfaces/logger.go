package interfaces

// Logger is the structured logging contract used across core and infrastructure.
// Implementations live in infrastructure/logger.
//
// Example usage:
//
//	logger.Info("Backend returned candidates", map[string]interface{}{
//		"backend": "youtube",
//		"count":   8,
//	})
//
//	logger.Warn("Backend unavailable", map[string]interface{}{
//		"backend": "googlecse",
//		"error":   err.Error(),
//	})
type Logger interface {
	// Debug logs detailed troubleshooting information.
	Debug(msg string, fields map[string]interface{})

	// Info logs general operational events.
	Info(msg string, fields map[string]interface{})

	// Warn logs degraded behavior that the caller recovered from.
	Warn(msg string, fields map[string]interface{})

	// Error logs failures that need attention.
	Error(msg string, fields map[string]interface{})
}
