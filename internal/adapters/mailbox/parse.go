package mailbox

import (
	"bytes"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/emersion/go-message"
	"github.com/emersion/go-message/mail"
	"github.com/mikey/recruitflow-ingest/internal/core"
	"go.uber.org/zap"
)

// ParseMessage normalizes one RFC 5322 message. The plain-text body is
// preferred over HTML and only one of them is kept. The first attachment
// the extractor gets text from becomes the message attachment; later ones
// are ignored. internalDate stands in for a missing or unparsable Date.
func ParseMessage(raw []byte, internalDate time.Time, extractor core.DocumentExtractor, logger *zap.Logger) (*core.Message, error) {
	if logger == nil {
		logger = zap.NewNop()
	}

	mr, err := mail.CreateReader(bytes.NewReader(raw))
	if err != nil && !message.IsUnknownCharset(err) {
		return nil, fmt.Errorf("failed to read message: %w", err)
	}
	if err != nil {
		logger.Debug("Unknown message charset", zap.Error(err))
	}
	defer mr.Close()

	msg := &core.Message{
		Sender:    sender(&mr.Header),
		Timestamp: internalDate,
	}
	if date, err := mr.Header.Date(); err == nil && !date.IsZero() {
		msg.Timestamp = date
	}
	if subject, err := mr.Header.Subject(); err == nil {
		msg.Subject = subject
	} else {
		msg.Subject = mr.Header.Get("Subject")
	}

	var plain, html strings.Builder
	for {
		part, err := mr.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil && !message.IsUnknownCharset(err) {
			// Keep what was read so far; a broken trailing part should
			// not hide a valid body
			logger.Debug("Stopped reading message parts", zap.Error(err))
			break
		}
		if part == nil {
			continue
		}

		switch h := part.Header.(type) {
		case *mail.InlineHeader:
			ct, params, _ := h.ContentType()
			if name := inlineFilename(h, params); name != "" && !strings.HasPrefix(ct, "text/") {
				collectAttachment(msg, name, part.Body, extractor, logger)
				continue
			}
			body, err := io.ReadAll(part.Body)
			if err != nil {
				logger.Debug("Failed to read body part", zap.String("content_type", ct), zap.Error(err))
				continue
			}
			switch ct {
			case "text/plain":
				plain.Write(body)
			case "text/html":
				html.Write(body)
			}
		case *mail.AttachmentHeader:
			name, err := h.Filename()
			if err != nil || name == "" {
				_, params, _ := h.ContentType()
				name = params["name"]
			}
			collectAttachment(msg, name, part.Body, extractor, logger)
		}
	}

	if plain.Len() > 0 {
		msg.Body = plain.String()
	} else {
		msg.Body = html.String()
	}

	return msg, nil
}

func sender(h *mail.Header) string {
	if from, err := h.AddressList("From"); err == nil && len(from) > 0 {
		return from[0].Address
	}
	return strings.TrimSpace(h.Get("From"))
}

func inlineFilename(h *mail.InlineHeader, ctParams map[string]string) string {
	if _, params, err := h.ContentDisposition(); err == nil && params["filename"] != "" {
		return params["filename"]
	}
	return ctParams["name"]
}

// collectAttachment runs the extractor on the attachment unless an earlier
// one already produced text
func collectAttachment(msg *core.Message, filename string, body io.Reader, extractor core.DocumentExtractor, logger *zap.Logger) {
	if msg.AttachmentText != "" || filename == "" {
		return
	}

	data, err := io.ReadAll(body)
	if err != nil {
		logger.Debug("Failed to read attachment", zap.String("filename", filename), zap.Error(err))
		return
	}

	text := extractor.Extract(filename, data)
	if text == "" {
		return
	}
	msg.AttachmentText = text
	msg.AttachmentFilename = filename
	msg.AttachmentData = data
}
