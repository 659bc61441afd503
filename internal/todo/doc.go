// Package todo loads, mutates, and saves the task file.
//
// The task file (todos.json by default) is a single JSON object keyed by the
// decimal task ID:
//
//	{
//	  "1": {
//	    "id": 1,
//	    "description": "Buy milk",
//	    "completed": false
//	  },
//	  "2": {
//	    "id": 2,
//	    "description": "Walk dog",
//	    "completed": true
//	  }
//	}
//
// Save writes every task under its own id. On load, a task stored under a
// different key is re-keyed by its "id" field.
//
// # Loading
//
// Load always returns a usable store. A missing, empty, malformed or
// schema-violating file yields an empty store along with the error that
// explains why. LoadStrict returns only the error.
//
// Both pretty-printed and compact JSON are accepted. Content is checked against
// an embedded JSON Schema (draft 2020-12) before it is decoded.
//
// # ID Assignment
//
//   - "count": new ID is len(tasks)+1. After a delete this can reuse an ID that
//     is still present and overwrite that task.
//   - "max": new ID is the largest ID in the store plus one, or the lowest
//     free ID once math.MaxInt is in use.
//
// # File Format
//
// When writing, the package uses:
//   - 2-space indentation
//   - Trailing newline
//   - Keys in ascending numeric order
//   - A full rewrite of the file on every save
package todo
