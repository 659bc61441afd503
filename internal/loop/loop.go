// Package loop runs the interactive menu over the task store.
package loop

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"strconv"
	"strings"

	"github.com/charmbracelet/log"

	"github.com/nibzard/todo-go/internal/logging"
	"github.com/nibzard/todo-go/internal/todo"
)

// ErrInputClosed is returned by Run when input ends before the user quits.
var ErrInputClosed = errors.New("unexpected end of input")

// Console text.
const (
	Banner = "Welcome to TODO App!"
	Menu   = "1. Add Task\n2. View Tasks\n3. Delete Task\n4. Mark Task as Done\n5. Quit"

	PromptChoice      = "Choose an option: "
	PromptDescription = "Enter task description: "
	PromptDeleteID    = "Enter task ID to delete: "
	PromptDoneID      = "Enter task ID to done: "

	MsgInvalidChoice = "Invalid choice, try again."
	MsgInvalidID     = "Invalid ID!"
	MsgGoodbye       = "Goodbye!"
)

// Command is a menu choice.
type Command int

const (
	CommandInvalid Command = iota
	CommandAdd
	CommandList
	CommandDelete
	CommandDone
	CommandQuit
)

// ParseCommand maps a menu line to a command. Surrounding whitespace is ignored.
func ParseCommand(line string) Command {
	switch strings.TrimSpace(line) {
	case "1":
		return CommandAdd
	case "2":
		return CommandList
	case "3":
		return CommandDelete
	case "4":
		return CommandDone
	case "5":
		return CommandQuit
	default:
		return CommandInvalid
	}
}

// ParseID parses a task ID typed by the user. A single leading '+' is allowed.
func ParseID(s string) (int, bool) {
	s = strings.TrimSpace(s)
	s = strings.TrimPrefix(s, "+")
	n, err := strconv.ParseUint(s, 10, strconv.IntSize-1)
	if err != nil {
		return 0, false
	}
	return int(n), true
}

// Loop owns the store for the lifetime of an interactive session.
type Loop struct {
	store    *todo.Store
	todoPath string
	in       *bufio.Reader
	out      io.Writer
	logger   *log.Logger
}

// Option configures a Loop.
type Option func(*Loop)

// WithInput sets where commands are read from. Defaults to os.Stdin.
func WithInput(r io.Reader) Option {
	return func(l *Loop) {
		l.in = bufio.NewReader(r)
	}
}

// WithOutput sets where the menu is printed. Defaults to os.Stdout.
func WithOutput(w io.Writer) Option {
	return func(l *Loop) {
		l.out = w
	}
}

// WithLogger sets the diagnostic logger.
func WithLogger(logger *log.Logger) Option {
	return func(l *Loop) {
		if logger != nil {
			l.logger = logger
		}
	}
}

// New creates a loop that persists store to todoPath after each mutation.
func New(store *todo.Store, todoPath string, opts ...Option) *Loop {
	l := &Loop{
		store:    store,
		todoPath: todoPath,
		in:       bufio.NewReader(os.Stdin),
		out:      os.Stdout,
		logger:   logging.Discard(),
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// Run prints the banner and processes commands until the user quits.
// It returns nil on quit. Read and save failures are returned and end the
// session; the store is not rolled back.
func (l *Loop) Run(ctx context.Context) error {
	l.println(Banner)
	l.println(Menu)

	for {
		if err := ctx.Err(); err != nil {
			return err
		}

		line, err := l.prompt(PromptChoice)
		if err != nil {
			return err
		}

		cmd := ParseCommand(line)
		l.logger.Debug("command", "choice", strings.TrimSpace(line), "command", cmd)

		switch cmd {
		case CommandAdd:
			err = l.add()
		case CommandList:
			l.list()
		case CommandDelete:
			err = l.delete()
		case CommandDone:
			err = l.markDone()
		case CommandQuit:
			l.println(MsgGoodbye)
			return nil
		default:
			l.println(MsgInvalidChoice)
		}
		if err != nil {
			return err
		}
	}
}

func (l *Loop) add() error {
	description, err := l.prompt(PromptDescription)
	if err != nil {
		return err
	}

	task := l.store.Add(description)
	l.println("Task added!")
	l.logger.Debug("task added", "id", task.ID, "description", task.Description)
	return l.save()
}

func (l *Loop) list() {
	l.println("Your tasks:")
	for _, task := range l.store.Tasks() {
		fmt.Fprintf(l.out, "%d. %s [%s]\n", task.ID, task.Description, task.StatusLabel())
	}
}

func (l *Loop) delete() error {
	id, ok, err := l.promptID(PromptDeleteID)
	if err != nil || !ok {
		return err
	}

	if l.store.Delete(id) {
		fmt.Fprintf(l.out, "Task %d deleted!\n", id)
		l.logger.Debug("task deleted", "id", id)
	} else {
		fmt.Fprintf(l.out, "Task %d not found!\n", id)
	}
	return l.save()
}

func (l *Loop) markDone() error {
	id, ok, err := l.promptID(PromptDoneID)
	if err != nil || !ok {
		return err
	}

	result := l.store.MarkDone(id)
	switch result {
	case todo.Marked:
		fmt.Fprintf(l.out, "Task %d marked as done!\n", id)
	case todo.AlreadyDone:
		fmt.Fprintf(l.out, "Task %d is already marked as done!\n", id)
	case todo.NotFound:
		fmt.Fprintf(l.out, "Task %d not found!\n", id)
	}
	l.logger.Debug("mark done", "id", id, "result", result)
	return l.save()
}

// promptID reads an ID. ok is false when the input was not a valid ID; the
// message has been printed and nothing should be mutated or saved.
func (l *Loop) promptID(prompt string) (id int, ok bool, err error) {
	line, err := l.prompt(prompt)
	if err != nil {
		return 0, false, err
	}
	id, ok = ParseID(line)
	if !ok {
		l.println(MsgInvalidID)
		l.logger.Debug("invalid id", "input", strings.TrimSpace(line))
	}
	return id, ok, nil
}

// prompt prints text without a newline and reads one line.
// The returned line has its line terminator removed.
func (l *Loop) prompt(text string) (string, error) {
	fmt.Fprint(l.out, text)

	line, err := l.in.ReadString('\n')
	if err != nil {
		if errors.Is(err, io.EOF) && line != "" {
			return strings.TrimRight(line, "\r\n"), nil
		}
		if errors.Is(err, io.EOF) {
			return "", fmt.Errorf("read input: %w", ErrInputClosed)
		}
		return "", fmt.Errorf("read input: %w", err)
	}
	return strings.TrimRight(line, "\r\n"), nil
}

func (l *Loop) save() error {
	if err := l.store.Save(l.todoPath); err != nil {
		return fmt.Errorf("save tasks: %w", err)
	}
	l.logger.Debug("saved tasks", "path", l.todoPath, "count", l.store.Len())
	return nil
}

func (l *Loop) println(s string) {
	fmt.Fprintln(l.out, s)
}

func (c Command) String() string {
	switch c {
	case CommandAdd:
		return "add"
	case CommandList:
		return "list"
	case CommandDelete:
		return "delete"
	case CommandDone:
		return "done"
	case CommandQuit:
		return "quit"
	default:
		return "invalid"
	}
}
