package todo

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"sort"
)

// ErrEmptyFile is returned by LoadStrict when the task file has no content.
var ErrEmptyFile = errors.New("task file is empty")

// Load reads the task file at path. The returned store is always usable: on
// any read, validation or decode failure it is empty and err says why.
func Load(path string, opts ...StoreOption) (*Store, error) {
	s, err := LoadStrict(path, opts...)
	if err != nil {
		return NewStore(opts...), err
	}
	return s, nil
}

// LoadStrict reads the task file at path and reports why it could not be used.
// A missing file is reported as an error wrapping os.ErrNotExist.
func LoadStrict(path string, opts ...StoreOption) (*Store, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read todo file: %w", err)
	}
	return Decode(data, opts...)
}

// Decode parses task file content into a store.
func Decode(data []byte, opts ...StoreOption) (*Store, error) {
	if len(data) == 0 {
		return nil, ErrEmptyFile
	}
	if err := Validate(data); err != nil {
		return nil, err
	}

	var raw map[int]*Task
	if err := json.Unmarshal(data, &raw); err != nil {
		return nil, fmt.Errorf("parse todo file: %w", err)
	}

	keys := make([]int, 0, len(raw))
	for key, t := range raw {
		if t == nil {
			return nil, &ValidationError{Path: fmt.Sprint(key), Err: fmt.Errorf("task is null")}
		}
		keys = append(keys, key)
	}
	sort.Ints(keys)

	// Tasks are keyed by their id field. When two entries carry the same id,
	// the one stored under that id wins, then the one with the lowest key.
	s := NewStore(opts...)
	for _, key := range keys {
		if t := raw[key]; t.ID == key {
			s.tasks[key] = t
		}
	}
	for _, key := range keys {
		t := raw[key]
		if _, taken := s.tasks[t.ID]; !taken {
			s.tasks[t.ID] = t
		}
	}
	return s, nil
}

// Encode renders the store in the task file format.
func (s *Store) Encode() ([]byte, error) {
	// map[int] keys are written as decimal strings in ascending order.
	data, err := json.MarshalIndent(s.tasks, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshal todo file: %w", err)
	}

	// Add trailing newline
	return append(data, '\n'), nil
}

// Save overwrites the file at path with the whole store.
func (s *Store) Save(path string) error {
	data, err := s.Encode()
	if err != nil {
		return err
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("write todo file: %w", err)
	}

	return nil
}
