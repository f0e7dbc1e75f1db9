// Package restrepos implements the core repositories on top of the remote fee API.
package restrepos

import (
	"bytes"
	"encoding/json"

	"github.com/pkg/errors"
)

// decodeList reads a collection that is either a bare array or wrapped under one of keys.
func decodeList(raw json.RawMessage, out interface{}, keys ...string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	if raw[0] == '[' {
		return errors.Wrap(json.Unmarshal(raw, out), "decoding list")
	}

	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err != nil {
		return errors.Wrap(err, "decoding list wrapper")
	}
	for _, key := range keys {
		if inner, ok := wrapper[key]; ok {
			return decodeList(inner, out)
		}
	}
	return errors.Errorf("no list found under %v", keys)
}

// decodeEntity reads an entity that is either returned as is or wrapped under one of keys.
func decodeEntity(raw json.RawMessage, out interface{}, keys ...string) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return nil
	}
	var wrapper map[string]json.RawMessage
	if err := json.Unmarshal(raw, &wrapper); err == nil {
		for _, key := range keys {
			if inner, ok := wrapper[key]; ok && len(bytes.TrimSpace(inner)) > 0 && inner[0] == '{' {
				return errors.Wrap(json.Unmarshal(inner, out), "decoding entity")
			}
		}
	}
	return errors.Wrap(json.Unmarshal(raw, out), "decoding entity")
}
