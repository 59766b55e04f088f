package storage

import (
	"encoding/base64"
	"strings"

	"foodgram-backend/domain"
)

// DecodeBase64Image decodes an embedded image payload, with or without a
// data URI prefix ("data:image/png;base64,...."). It returns the raw bytes
// and the declared content type (image/jpeg when no prefix is present).
func DecodeBase64Image(payload string) ([]byte, string, error) {
	contentType := "image/jpeg"

	raw := payload
	if strings.HasPrefix(payload, "data:") {
		parts := strings.SplitN(payload, ",", 2)
		if len(parts) != 2 {
			return nil, "", domain.ErrInvalidImagePayload
		}
		meta := strings.TrimPrefix(parts[0], "data:")
		meta = strings.TrimSuffix(meta, ";base64")
		if meta != "" {
			contentType = meta
		}
		raw = parts[1]
	}

	data, err := base64.StdEncoding.DecodeString(raw)
	if err != nil {
		return nil, "", domain.ErrInvalidImagePayload
	}
	if len(data) == 0 {
		return nil, "", domain.ErrInvalidImagePayload
	}

	return data, contentType, nil
}
