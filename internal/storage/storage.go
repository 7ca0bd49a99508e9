package storage

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var ErrNotFound = errors.New("key not found")

// Store is a key-value store of JSON documents
type Store interface {
	Get(ctx context.Context, key string) ([]byte, error)
	Put(ctx context.Context, key string, value []byte) error
	Delete(ctx context.Context, key string) error
	Keys(ctx context.Context, prefix string) ([]string, error)
	Close() error
}

func GetJSON[T any](ctx context.Context, s Store, key string) (*T, error) {
	data, err := s.Get(ctx, key)
	if err != nil {
		return nil, err
	}
	var out T
	if err := json.Unmarshal(data, &out); err != nil {
		return nil, fmt.Errorf("decode %s: %w", key, err)
	}
	return &out, nil
}

func PutJSON[T any](ctx context.Context, s Store, key string, value T) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("encode %s: %w", key, err)
	}
	return s.Put(ctx, key, data)
}

// SubjectsKey namespaces a user's subject list.
func SubjectsKey(ownerID string) string {
	return "subjects:" + ownerID
}

// PlannerKey namespaces one subject's planner state by its code.
func PlannerKey(ownerID, subjectCode string) string {
	return "planner:" + ownerID + ":" + NormalizeCode(subjectCode)
}

// NormalizeCode trims and upper-cases a subject code.
func NormalizeCode(code string) string {
	return strings.ToUpper(strings.TrimSpace(code))
}
