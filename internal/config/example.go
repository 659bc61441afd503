package config

// ExampleConfig returns an example configuration showing all available options.
func ExampleConfig() string {
	return `# todo configuration file
# Values can be overridden by environment variables (TODO_*) or CLI flags

# Task file (relative to the working directory; supports ~ expansion)
todo_file = "todos.json"

# ID assignment for new tasks:
#   count - number of tasks + 1 (may reuse an ID still in use after a delete)
#   max   - largest existing ID + 1
id_policy = "count"

# Diagnostics go to stderr; the menu always uses stdout
log_level = "warn"      # debug, info, warn, error, fatal
log_format = "text"     # text, json, logfmt
log_timestamps = false
log_caller = false
`
}
