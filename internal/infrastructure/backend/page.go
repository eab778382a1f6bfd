package backend

import (
	"bytes"
	"encoding/json"
	"fmt"

	"github.com/cdportal/admin-console/internal/core/domain"
)

// pageEnvelope covers the shapes the search endpoints have been seen to
// return: a Spring page ({content,...}), an {items,...} wrapper, or a bare
// array.
type pageEnvelope struct {
	Content       json.RawMessage `json:"content"`
	Items         json.RawMessage `json:"items"`
	TotalPages    *int            `json:"totalPages"`
	TotalElements *int64          `json:"totalElements"`
}

func decodePage[T any](raw []byte) (domain.SearchResult[T], error) {
	var res domain.SearchResult[T]

	raw = bytes.TrimSpace(raw)
	if len(raw) == 0 || bytes.Equal(raw, []byte("null")) {
		res.Items = []T{}
		res.TotalPages = 1
		return res, nil
	}

	if raw[0] == '[' {
		if err := json.Unmarshal(raw, &res.Items); err != nil {
			return res, fmt.Errorf("decode page: %w", err)
		}
		res.TotalPages = 1
		res.TotalElements = int64(len(res.Items))
		return res, nil
	}

	var env pageEnvelope
	if err := json.Unmarshal(raw, &env); err != nil {
		return res, fmt.Errorf("decode page: %w", err)
	}
	list := env.Content
	if isNull(list) {
		list = env.Items
	}
	if !isNull(list) {
		if err := json.Unmarshal(list, &res.Items); err != nil {
			return res, fmt.Errorf("decode page items: %w", err)
		}
	}
	if res.Items == nil {
		res.Items = []T{}
	}

	res.TotalPages = 1
	if env.TotalPages != nil {
		res.TotalPages = *env.TotalPages
	}
	res.TotalElements = int64(len(res.Items))
	if env.TotalElements != nil {
		res.TotalElements = *env.TotalElements
	}
	return res, nil
}

// decodeList accepts a bare array or an {items} / {content} wrapper.
func decodeList[T any](raw []byte) ([]T, error) {
	page, err := decodePage[T](raw)
	if err != nil {
		return nil, err
	}
	return page.Items, nil
}

func isNull(raw json.RawMessage) bool {
	return len(raw) == 0 || bytes.Equal(bytes.TrimSpace(raw), []byte("null"))
}
