package repository

import (
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
)

// ErrNotFound returned when a row does not exist.
var ErrNotFound = errors.New("not found")

// notFound wraps ErrNotFound with entity context.
func notFound(entity string) error {
	return fmt.Errorf("%s %w", entity, ErrNotFound)
}

// marshalJSONB encodes a Go value for a JSONB column; nil becomes '{}' or '[]'.
func marshalJSONB(v any, emptyList bool) ([]byte, error) {
	if v == nil {
		if emptyList {
			return []byte("[]"), nil
		}
		return []byte("{}"), nil
	}
	b, err := json.Marshal(v)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal jsonb: %w", err)
	}
	return b, nil
}

// unmarshalJSONB decodes a JSONB column into out; empty input is a no-op.
func unmarshalJSONB(raw sql.NullString, out any) error {
	if !raw.Valid || raw.String == "" {
		return nil
	}
	if err := json.Unmarshal([]byte(raw.String), out); err != nil {
		return fmt.Errorf("failed to unmarshal jsonb: %w", err)
	}
	return nil
}

// stringList JSONB list column helper; nil slices round-trip as [].
func stringList(raw sql.NullString) ([]string, error) {
	list := []string{}
	if err := unmarshalJSONB(raw, &list); err != nil {
		return nil, err
	}
	return list, nil
}

// minutesMap JSONB map column helper for the sheet-key minute maps.
func minutesMap(raw sql.NullString) (map[string]float64, error) {
	m := map[string]float64{}
	if err := unmarshalJSONB(raw, &m); err != nil {
		return nil, err
	}
	return m, nil
}
