// Package todo loads, mutates, and saves the task file.
package todo

import (
	"fmt"
	"math"
	"sort"
	"strings"
)

// Task represents a single entry in the task file.
type Task struct {
	ID          int    `json:"id"`
	Description string `json:"description"`
	Completed   bool   `json:"completed"`
}

// StatusLabel returns the label shown when listing tasks.
func (t *Task) StatusLabel() string {
	if t.Completed {
		return "Done"
	}
	return "Not Done"
}

// IDPolicy selects how Add assigns identifiers.
type IDPolicy string

const (
	// IDPolicyCount assigns len(tasks)+1. IDs can collide after a delete.
	IDPolicyCount IDPolicy = "count"
	// IDPolicyMax assigns max(existing IDs)+1.
	IDPolicyMax IDPolicy = "max"
)

// ParseIDPolicy parses an ID policy name. The empty string maps to IDPolicyCount.
func ParseIDPolicy(s string) (IDPolicy, error) {
	switch IDPolicy(strings.ToLower(strings.TrimSpace(s))) {
	case "", IDPolicyCount:
		return IDPolicyCount, nil
	case IDPolicyMax:
		return IDPolicyMax, nil
	default:
		return "", fmt.Errorf("invalid id policy %q, must be one of: count, max", s)
	}
}

// MarkResult is the outcome of MarkDone.
type MarkResult int

const (
	// Marked means the task was pending and is now done.
	Marked MarkResult = iota
	// AlreadyDone means the task was done before the call; nothing changed.
	AlreadyDone
	// NotFound means no task has the given ID.
	NotFound
)

func (r MarkResult) String() string {
	switch r {
	case Marked:
		return "marked"
	case AlreadyDone:
		return "already done"
	case NotFound:
		return "not found"
	default:
		return fmt.Sprintf("MarkResult(%d)", int(r))
	}
}

// Store is the in-memory task collection keyed by task ID.
// It is not safe for concurrent use.
type Store struct {
	tasks  map[int]*Task
	policy IDPolicy
}

// StoreOption configures a Store.
type StoreOption func(*Store)

// WithIDPolicy sets the ID assignment policy.
func WithIDPolicy(policy IDPolicy) StoreOption {
	return func(s *Store) {
		if policy != "" {
			s.policy = policy
		}
	}
}

// NewStore returns an empty store.
func NewStore(opts ...StoreOption) *Store {
	s := &Store{
		tasks:  make(map[int]*Task),
		policy: IDPolicyCount,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Policy returns the store's ID assignment policy.
func (s *Store) Policy() IDPolicy {
	return s.policy
}

// Len returns the number of tasks.
func (s *Store) Len() int {
	return len(s.tasks)
}

// Get returns a copy of the task with the given ID.
func (s *Store) Get(id int) (Task, bool) {
	t, ok := s.tasks[id]
	if !ok {
		return Task{}, false
	}
	return *t, true
}

// NextID returns the ID the next Add will use.
// Under IDPolicyMax, once math.MaxInt is taken the lowest free ID is used.
func (s *Store) NextID() int {
	if s.policy == IDPolicyMax {
		maxID := 0
		for id := range s.tasks {
			if id > maxID {
				maxID = id
			}
		}
		if maxID < math.MaxInt {
			return maxID + 1
		}
		return s.lowestFreeID()
	}
	return len(s.tasks) + 1
}

func (s *Store) lowestFreeID() int {
	id := 1
	for {
		if _, ok := s.tasks[id]; !ok {
			return id
		}
		id++
	}
}

// Add inserts a new pending task and returns it.
// Under IDPolicyCount an existing task holding the new ID is replaced.
func (s *Store) Add(description string) Task {
	t := &Task{
		ID:          s.NextID(),
		Description: strings.TrimSpace(description),
	}
	s.tasks[t.ID] = t
	return *t
}

// Delete removes the task with the given ID and reports whether it existed.
// Remaining tasks keep their IDs.
func (s *Store) Delete(id int) bool {
	if _, ok := s.tasks[id]; !ok {
		return false
	}
	delete(s.tasks, id)
	return true
}

// MarkDone sets Completed on the task with the given ID.
func (s *Store) MarkDone(id int) MarkResult {
	t, ok := s.tasks[id]
	if !ok {
		return NotFound
	}
	if t.Completed {
		return AlreadyDone
	}
	t.Completed = true
	return Marked
}

// Tasks returns a copy of all tasks ordered by ascending ID.
func (s *Store) Tasks() []Task {
	out := make([]Task, 0, len(s.tasks))
	for _, t := range s.tasks {
		out = append(out, *t)
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].ID < out[j].ID
	})
	return out
}

// Counts returns the number of pending and completed tasks.
func (s *Store) Counts() (pending, done int) {
	for _, t := range s.tasks {
		if t.Completed {
			done++
		} else {
			pending++
		}
	}
	return pending, done
}
