package logging

import (
	"crypto/sha256"
	"encoding/hex"
	"io"
	"log/slog"
	"strings"
	"time"
)

// Common log attribute keys for consistent naming across the codebase.
const (
	KeyOperation = "operation"
	KeyEmailID   = "email_id"
	KeyCategory  = "category"
	KeyModel     = "model"
	KeySender    = "sender"
	KeyDuration  = "duration_ms"
	KeyStatus    = "status"
	KeyError     = "error"
)

// Status values for consistent logging.
// Note: These are intentionally duplicated from instrumentation package
// to avoid circular dependencies (instrumentation imports logging).
const (
	StatusSuccess = "success"
	StatusError   = "error"
	StatusSkipped = "skipped"
)

// Output formats accepted by New.
const (
	FormatText = "text"
	FormatJSON = "json"
)

// New builds a logger writing to w in the given format. Unknown formats fall
// back to text.
func New(w io.Writer, format string, debug bool) *slog.Logger {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	opts := &slog.HandlerOptions{Level: level}

	var h slog.Handler
	switch strings.ToLower(format) {
	case FormatJSON:
		h = slog.NewJSONHandler(w, opts)
	default:
		h = slog.NewTextHandler(w, opts)
	}
	return slog.New(h)
}

// OrDefault returns logger, or slog.Default() when logger is nil.
func OrDefault(logger *slog.Logger) *slog.Logger {
	if logger == nil {
		return slog.Default()
	}
	return logger
}

// WithOperation returns a logger with the operation attribute set.
func WithOperation(logger *slog.Logger, operation string) *slog.Logger {
	return logger.With(slog.String(KeyOperation, operation))
}

// WithEmail returns a logger scoped to a single email.
func WithEmail(logger *slog.Logger, id string) *slog.Logger {
	return logger.With(slog.String(KeyEmailID, id))
}

// Operation returns a slog attribute for the operation name.
func Operation(op string) slog.Attr {
	return slog.String(KeyOperation, op)
}

// EmailID returns a slog attribute for the email id.
func EmailID(id string) slog.Attr {
	return slog.String(KeyEmailID, id)
}

// Category returns a slog attribute for the email category.
func Category(category string) slog.Attr {
	return slog.String(KeyCategory, category)
}

// Model returns a slog attribute for the model variant name.
func Model(model string) slog.Attr {
	return slog.String(KeyModel, model)
}

// Status returns a slog attribute for the status.
func Status(status string) slog.Attr {
	return slog.String(KeyStatus, status)
}

// Duration returns a slog attribute with the duration in milliseconds.
func Duration(d time.Duration) slog.Attr {
	return slog.Int64(KeyDuration, d.Milliseconds())
}

// Err returns a slog attribute for an error.
// If err is nil, returns an empty Group attribute that will be omitted from output.
// This allows safely passing Err(maybeNilErr) without adding empty attributes.
//
// Usage:
//
//	logger.Info("operation", logging.Err(err))  // Safe even if err is nil
func Err(err error) slog.Attr {
	if err == nil {
		// Return an empty Group that slog will omit from output
		return slog.Group("")
	}
	return slog.String(KeyError, err.Error())
}

// AnonymizeEmail returns a hashed representation of an email for logging purposes.
// This allows correlation of log entries without exposing PII.
func AnonymizeEmail(email string) string {
	if email == "" {
		return ""
	}
	hash := sha256.Sum256([]byte(strings.ToLower(strings.TrimSpace(email))))
	return "user:" + hex.EncodeToString(hash[:8])
}

// Sender returns a slog attribute with the anonymized sender address.
//
// Usage:
//
//	logger.Info("email fetched", logging.Sender(headers.From))
func Sender(from string) slog.Attr {
	return slog.String(KeySender, AnonymizeEmail(ExtractAddress(from)))
}

// ExtractAddress pulls the bare address out of a From header value such as
// "Jane Doe <jane@example.com>".
func ExtractAddress(from string) string {
	from = strings.TrimSpace(from)
	if i := strings.LastIndex(from, "<"); i >= 0 {
		if j := strings.Index(from[i:], ">"); j > 0 {
			return from[i+1 : i+j]
		}
	}
	return from
}

// ExtractDomain extracts the domain part from an email address.
// This is useful for lower-cardinality logging where the full email would
// create too many unique values.
func ExtractDomain(email string) string {
	if email == "" {
		return ""
	}
	parts := strings.Split(ExtractAddress(email), "@")
	if len(parts) != 2 {
		return ""
	}
	return parts[1]
}

// SanitizeKey returns a masked version of an API key for logging.
func SanitizeKey(key string) string {
	if key == "" {
		return "<empty>"
	}
	return "[key:" + strings.Repeat("*", min(len(key), 4)) + "]"
}
