package gmail

import (
	"context"
	"fmt"
	"strings"

	gmail "google.golang.org/api/gmail/v1"

	"github.com/teemow/inboxagent/internal/mail"
)

// MaxAttachmentSize defines the maximum attachment size in bytes (25MB).
const MaxAttachmentSize = 25 * 1024 * 1024

// attachments downloads every attachment of msg. Oversized attachments keep
// their metadata but no content.
func (c *Client) attachments(ctx context.Context, msg *gmail.Message) ([]mail.Attachment, error) {
	var parts []*gmail.MessagePart
	walkParts(msg.Payload, func(part *gmail.MessagePart) {
		if part.Filename != "" && part.Body != nil {
			parts = append(parts, part)
		}
	})

	out := make([]mail.Attachment, 0, len(parts))
	for _, part := range parts {
		a := mail.Attachment{
			Filename:    SanitizeFilename(part.Filename),
			ContentType: part.MimeType,
			Size:        int(part.Body.Size),
		}

		switch {
		case part.Body.Size > MaxAttachmentSize:
			c.logger.WarnContext(ctx, "attachment too large, keeping metadata only",
				"filename", a.Filename, "size", part.Body.Size)
		case part.Body.Data != "":
			data, err := decodeData(part.Body.Data)
			if err != nil {
				return nil, fmt.Errorf("failed to decode attachment %s: %w", part.Filename, err)
			}
			a.Data = data
		case part.Body.AttachmentId != "":
			data, err := c.getAttachment(ctx, msg.Id, part.Body.AttachmentId)
			if err != nil {
				return nil, err
			}
			a.Data = data
		}
		if a.Size == 0 {
			a.Size = len(a.Data)
		}
		out = append(out, a)
	}
	return out, nil
}

func (c *Client) getAttachment(ctx context.Context, messageID, attachmentID string) ([]byte, error) {
	att, err := c.svc.Messages.Attachments.Get(me, messageID, attachmentID).Context(ctx).Do()
	if err != nil {
		return nil, fmt.Errorf("failed to get attachment %s: %w", attachmentID, err)
	}
	if att.Size > MaxAttachmentSize {
		return nil, fmt.Errorf("attachment size %d exceeds maximum size %d", att.Size, MaxAttachmentSize)
	}
	data, err := decodeData(att.Data)
	if err != nil {
		return nil, fmt.Errorf("failed to decode attachment data: %w", err)
	}
	return data, nil
}

// SanitizeFilename sanitizes a filename to prevent path traversal attacks.
func SanitizeFilename(filename string) string {
	filename = strings.ReplaceAll(filename, "/", "_")
	filename = strings.ReplaceAll(filename, "\\", "_")
	filename = strings.ReplaceAll(filename, "..", "_")
	return filename
}
