package apiclient

import (
	"bytes"
	"encoding/json"
	"fmt"
)

// 一覧の包みは {key: [...]} か素の配列のどちらでも受ける
func decodeList[T any](raw json.RawMessage, key string) ([]T, error) {
	raw = bytes.TrimSpace(raw)
	out := []T{}
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return out, nil
	}
	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &out); err != nil {
			return []T{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
		}
		return out, nil
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return []T{}, fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	inner, ok := env[key]
	if !ok {
		inner, ok = env["data"]
	}
	if !ok || bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		return out, nil
	}
	if err := json.Unmarshal(inner, &out); err != nil {
		return []T{}, fmt.Errorf("%w: %s: %v", ErrInvalidResponse, key, err)
	}
	return out, nil
}

// 単体は {key: {...}} を優先し、無ければ本文そのもの
func decodeObject(raw json.RawMessage, key string, out any) error {
	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		return fmt.Errorf("%w: empty body", ErrInvalidResponse)
	}

	var env map[string]json.RawMessage
	if err := json.Unmarshal(raw, &env); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalidResponse, err)
	}
	if inner, ok := env[key]; ok && !bytes.Equal(bytes.TrimSpace(inner), []byte("null")) {
		raw = inner
	}
	if err := json.Unmarshal(raw, out); err != nil {
		return fmt.Errorf("%w: %s: %v", ErrInvalidResponse, key, err)
	}
	return nil
}

// ページ情報（無い項目は 0）
type pageMeta struct {
	Total       int `json:"total"`
	TotalPages  int `json:"totalPages"`
	CurrentPage int `json:"currentPage"`
	Page        int `json:"page"`
}

func decodeMeta(raw json.RawMessage) pageMeta {
	var m pageMeta
	_ = json.Unmarshal(raw, &m)
	if m.CurrentPage == 0 {
		m.CurrentPage = m.Page
	}
	return m
}
