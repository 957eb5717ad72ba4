package sheet

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Row is one record as the script serializes it. Key casing is not stable.
type Row map[string]any

// Envelope is the uniform response of every endpoint call.
type Envelope struct {
	Success bool            `json:"success"`
	Message string          `json:"message,omitempty"`
	Code    string          `json:"code,omitempty"`
	ID      any             `json:"id,omitempty"`
	Data    json.RawMessage `json:"data,omitempty"`
	User    Row             `json:"user,omitempty"`
}

// Rows decodes Data as a list of rows. A missing data field is an empty list.
func (e *Envelope) Rows() ([]Row, error) {
	if isEmptyJSON(e.Data) {
		return nil, nil
	}
	var rows []Row
	if err := decodeNumbers(e.Data, &rows); err != nil {
		return nil, fmt.Errorf("decode data rows: %w", err)
	}
	return rows, nil
}

// Object decodes Data as a single row.
func (e *Envelope) Object() (Row, error) {
	if isEmptyJSON(e.Data) {
		return nil, nil
	}
	var row Row
	if err := decodeNumbers(e.Data, &row); err != nil {
		return nil, fmt.Errorf("decode data object: %w", err)
	}
	return row, nil
}

// IDValue returns the store-assigned id echoed by create actions, or 0.
func (e *Envelope) IDValue() int64 {
	id, _ := parseID(e.ID)
	return id
}

func isEmptyJSON(raw json.RawMessage) bool {
	trimmed := bytes.TrimSpace(raw)
	return len(trimmed) == 0 || bytes.Equal(trimmed, []byte("null"))
}

func decodeNumbers(raw json.RawMessage, target any) error {
	dec := json.NewDecoder(bytes.NewReader(raw))
	dec.UseNumber()
	return dec.Decode(target)
}
