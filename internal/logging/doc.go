// Package logging provides structured logging utilities for the inboxagent application.
//
// This package centralizes logging patterns to ensure consistent, structured logging
// throughout the codebase using the standard library's slog package.
//
// # Key Features
//
//   - Structured logging with slog (text or JSON handlers)
//   - PII sanitization (sender address anonymization)
//   - Consistent attribute naming across the codebase
//   - Adapter for the cron scheduler's logger interface
//
// # Usage Patterns
//
// Create a logger scoped to an email:
//
//	logger := logging.WithEmail(slog.Default(), email.ID)
//	logger.Info("classified",
//	    logging.Category("Answers"),
//	    logging.Status(logging.StatusSuccess))
//
// Sanitize sensitive data before logging:
//
//	logger.Info("email fetched",
//	    logging.Sender(email.Headers.From))
//
// # Security Considerations
//
// Sender addresses are hashed to prevent PII leakage while allowing correlation.
// API keys are never logged directly.
package logging
