package client

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// Envelope is the common response shape {success, message, data}. List
// endpoints may add hasMore/page/totalCount either next to data or inside it.
type Envelope struct {
	Success bool
	Message string
	Data    json.RawMessage
	Status  int

	top map[string]json.RawMessage
}

// Page is pagination metadata found in an envelope.
type Page struct {
	HasMore    bool
	Page       int
	TotalCount int
	// Known is false when the server sent no pagination fields at all.
	Known bool
}

// decodeEnvelope accepts either an envelope object or a bare payload; the
// latter becomes Data of a successful envelope.
func decodeEnvelope(status int, body []byte) (*Envelope, error) {
	env := &Envelope{Success: true, Status: status}

	trimmed := bytes.TrimSpace(body)
	if len(trimmed) == 0 {
		return env, nil
	}
	if !json.Valid(trimmed) {
		return nil, fmt.Errorf("%w: invalid JSON body", ErrMalformedResponse)
	}

	var top map[string]json.RawMessage
	if trimmed[0] != '{' || json.Unmarshal(trimmed, &top) != nil {
		env.Data = json.RawMessage(trimmed)
		return env, nil
	}

	_, hasData := top["data"]
	_, hasSuccess := top["success"]
	if !hasData && !hasSuccess {
		env.Data = json.RawMessage(trimmed)
		return env, nil
	}

	env.top = top
	env.Data = top["data"]
	if raw, ok := top["success"]; ok {
		var b bool
		if json.Unmarshal(raw, &b) == nil {
			env.Success = b
		}
	}
	env.Message = messageOf(top)
	return env, nil
}

// DecodeData unmarshals Data into dst. A missing or null data field leaves
// dst untouched.
func (e *Envelope) DecodeData(dst any) error {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil
	}
	if err := json.Unmarshal(e.Data, dst); err != nil {
		return fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	return nil
}

// Pagination looks for hasMore/page/totalCount at the top level first and
// then inside data.
func (e *Envelope) Pagination() Page {
	var p Page
	if e.top != nil {
		p = readPage(e.top)
	}
	if p.Known {
		return p
	}
	var inner map[string]json.RawMessage
	if len(e.Data) > 0 && e.Data[0] == '{' && json.Unmarshal(e.Data, &inner) == nil {
		return readPage(inner)
	}
	return p
}

// Items returns the list payload: data itself when it is an array, or the
// first array found under one of keys inside data.
func (e *Envelope) Items(keys ...string) ([]json.RawMessage, error) {
	if len(e.Data) == 0 || string(e.Data) == "null" {
		return nil, nil
	}
	var list []json.RawMessage
	if e.Data[0] == '[' {
		if err := json.Unmarshal(e.Data, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return list, nil
	}
	var inner map[string]json.RawMessage
	if err := json.Unmarshal(e.Data, &inner); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
	}
	for _, k := range keys {
		raw, ok := inner[k]
		if !ok || len(raw) == 0 || raw[0] != '[' {
			continue
		}
		if err := json.Unmarshal(raw, &list); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrMalformedResponse, err)
		}
		return list, nil
	}
	return nil, nil
}

func readPage(m map[string]json.RawMessage) Page {
	var p Page
	if raw, ok := m["hasMore"]; ok && json.Unmarshal(raw, &p.HasMore) == nil {
		p.Known = true
	}
	if raw, ok := m["page"]; ok && json.Unmarshal(raw, &p.Page) == nil {
		p.Known = true
	}
	if raw, ok := m["totalCount"]; ok && json.Unmarshal(raw, &p.TotalCount) == nil {
		p.Known = true
	}
	return p
}

func messageOf(m map[string]json.RawMessage) string {
	for _, k := range []string{"message", "error"} {
		var s string
		if raw, ok := m[k]; ok && json.Unmarshal(raw, &s) == nil && s != "" {
			return s
		}
	}
	return ""
}
