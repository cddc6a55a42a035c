package secrets

import (
	"bytes"
	"encoding/json"
	"fmt"
	"io"

	"github.com/brizzbuzz/secretload/internal/errors"
	"github.com/brizzbuzz/secretload/internal/types"
)

// Parse decodes a SecretString payload into a Secret. The payload must be a
// JSON object. Strings are kept verbatim, numbers keep their literal text,
// null becomes "" and nested values are re-encoded as compact JSON.
func Parse(name, payload string) (types.Secret, error) {
	dec := json.NewDecoder(bytes.NewReader([]byte(payload)))

	var raw map[string]json.RawMessage
	if err := dec.Decode(&raw); err != nil {
		return nil, errors.InvalidJSONError(name, err)
	}
	if _, err := dec.Token(); err != io.EOF {
		return nil, errors.InvalidJSONError(name, fmt.Errorf("trailing data after JSON object"))
	}
	if raw == nil {
		return nil, errors.InvalidJSONError(name, fmt.Errorf("payload is null"))
	}

	secret := make(types.Secret, len(raw))
	for key, value := range raw {
		s, err := stringify(value)
		if err != nil {
			return nil, errors.InvalidJSONError(name, fmt.Errorf("field %q: %w", key, err))
		}
		secret[key] = s
	}

	return secret, nil
}

func stringify(value json.RawMessage) (string, error) {
	trimmed := bytes.TrimSpace(value)
	if len(trimmed) == 0 {
		return "", nil
	}

	switch trimmed[0] {
	case '"':
		var s string
		if err := json.Unmarshal(trimmed, &s); err != nil {
			return "", err
		}
		return s, nil
	case 'n':
		return "", nil
	case '{', '[':
		var buf bytes.Buffer
		if err := json.Compact(&buf, trimmed); err != nil {
			return "", err
		}
		return buf.String(), nil
	default:
		// numbers and booleans keep their literal form
		return string(trimmed), nil
	}
}
