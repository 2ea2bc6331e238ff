package chat

import (
	"encoding/base64"
	"errors"
	"fmt"
	"strings"
)

var errEmptyAttachment = errors.New("attachment has no content")

// decodeAttachment returns the raw bytes of an inline file. Both bare base64 and
// data URLs ("data:audio/webm;base64,....") are accepted.
func decodeAttachment(f *FilePayload) ([]byte, error) {
	payload := f.Data
	if strings.HasPrefix(payload, "data:") {
		_, encoded, ok := strings.Cut(payload, ",")
		if !ok {
			return nil, fmt.Errorf("malformed data URL for %q", f.Name)
		}
		payload = encoded
	}

	data, err := base64.StdEncoding.DecodeString(payload)
	if err != nil {
		return nil, fmt.Errorf("decode attachment %q: %w", f.Name, err)
	}
	if len(data) == 0 {
		return nil, errEmptyAttachment
	}
	return data, nil
}
