package filter

import (
	"bytes"
	"errors"
	"io"
	"mime"
	"mime/multipart"
	"net/mail"
	"strings"

	"github.com/mikey/bayes-spam-filter/internal/core"
)

const noTextPlaceholder = "[No text content found in multipart message]"

// extractTextFromMessage returns the text/plain content of msg.
// Multipart bodies are walked recursively; other parts are skipped.
func extractTextFromMessage(msg *mail.Message) (string, error) {
	body, err := io.ReadAll(msg.Body)
	if err != nil {
		return "", err
	}

	text, ok := extractText(msg.Header.Get("Content-Type"), body)
	if !ok {
		return string(body), nil
	}
	if text == "" {
		return noTextPlaceholder, nil
	}
	return text, nil
}

// extractText returns false when body is not multipart or cannot be split
func extractText(contentType string, body []byte) (string, bool) {
	mediaType, params, err := mime.ParseMediaType(contentType)
	if err != nil || !strings.HasPrefix(mediaType, "multipart/") {
		return "", false
	}

	boundary, ok := params["boundary"]
	if !ok {
		return "", false
	}

	var textContent bytes.Buffer
	mr := multipart.NewReader(bytes.NewReader(body), boundary)
	for {
		part, err := mr.NextPart()
		if errors.Is(err, io.EOF) {
			break
		}
		if err != nil {
			// keep what was read before the broken part
			if textContent.Len() > 0 {
				return textContent.String(), true
			}
			return "", false
		}

		partType := strings.ToLower(part.Header.Get("Content-Type"))
		partBody, err := io.ReadAll(part)
		if err != nil {
			continue
		}

		switch {
		case strings.HasPrefix(partType, "multipart/"):
			if nested, ok := extractText(part.Header.Get("Content-Type"), partBody); ok && nested != "" {
				textContent.WriteString(nested)
			}
		case partType == "" || strings.HasPrefix(partType, "text/plain"):
			textContent.Write(partBody)
			textContent.WriteString("\n")
		}
	}

	return textContent.String(), true
}

// decodeEncodedHeader decodes RFC 2047 encoded words such as =?UTF-8?B?...?=
func decodeEncodedHeader(header string) (string, error) {
	if !strings.Contains(header, "=?") {
		return header, nil
	}
	dec := new(mime.WordDecoder)
	return dec.DecodeHeader(header)
}

// parseMailMessage parses raw as a mail message with at least a From or
// Subject header
func parseMailMessage(raw []byte) (*core.Message, error) {
	parsed, err := mail.ReadMessage(bytes.NewReader(raw))
	if err != nil {
		return nil, err
	}
	if parsed.Header.Get("From") == "" && parsed.Header.Get("Subject") == "" {
		return nil, errors.New("no mail headers")
	}

	body, err := extractTextFromMessage(parsed)
	if err != nil {
		return nil, err
	}

	subject, err := decodeEncodedHeader(parsed.Header.Get("Subject"))
	if err != nil {
		subject = parsed.Header.Get("Subject")
	}

	msg := &core.Message{
		Subject: subject,
		Body:    strings.TrimSpace(body),
	}
	if from, err := mail.ParseAddress(parsed.Header.Get("From")); err == nil {
		msg.From = from.Address
	} else {
		msg.From = parsed.Header.Get("From")
	}
	if to, err := parsed.Header.AddressList("To"); err == nil {
		for _, addr := range to {
			msg.To = append(msg.To, addr.Address)
		}
	}
	return msg, nil
}
