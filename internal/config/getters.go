package config

import (
	"fmt"

	"github.com/nibzard/todo-go/internal/todo"
)

// StoreOptions returns the todo store options implied by the config.
func (c *Config) StoreOptions() []todo.StoreOption {
	policy, err := todo.ParseIDPolicy(c.IDPolicy)
	if err != nil {
		policy = todo.IDPolicyCount
	}
	return []todo.StoreOption{todo.WithIDPolicy(policy)}
}

// Value returns the display value of a tracked field.
func (c *Config) Value(field string) string {
	switch field {
	case "todo_file":
		return c.TodoFile
	case "id_policy":
		return c.IDPolicy
	case "log_level":
		return c.LogLevel
	case "log_format":
		return c.LogFormat
	case "log_timestamps":
		return fmt.Sprint(c.LogTimestamps)
	case "log_caller":
		return fmt.Sprint(c.LogCaller)
	default:
		return ""
	}
}
