package tool

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
)

// Kind enumerates the tools the agent may invoke. The set is closed: a name
// outside this list never resolves to a handler.
type Kind string

const (
	KindCreateTask     Kind = "create_task"
	KindSearchTasks    Kind = "search_tasks"
	KindUpdateTask     Kind = "update_task"
	KindGetTask        Kind = "get_task"
	KindCreateNote     Kind = "create_note"
	KindSearchNotes    Kind = "search_notes"
	KindGetNote        Kind = "get_note"
	KindSearchInternet Kind = "search_internet"
)

// Kinds returns every registered tool kind in a stable order.
func Kinds() []Kind {
	return []Kind{
		KindCreateTask,
		KindSearchTasks,
		KindUpdateTask,
		KindGetTask,
		KindCreateNote,
		KindSearchNotes,
		KindGetNote,
		KindSearchInternet,
	}
}

// Invocation carries one tool call into a handler. Args is the decoded JSON
// argument object from the model.
type Invocation struct {
	UserID string
	Args   map[string]any
}

// Result is the uniform outcome shape every tool execution collapses to
// before it re-enters the conversation.
type Result struct {
	Success       bool                        `json:"success"`
	Message       string                      `json:"message"`
	ComponentData *conversation.ComponentData `json:"component_data,omitempty"`
	Error         string                      `json:"error,omitempty"`
}

// Handler executes one tool kind.
type Handler interface {
	Kind() Kind
	Definition() llm.ToolFunctionSchema
	Execute(ctx context.Context, inv Invocation) (*Result, error)
}

// Normalize collapses any handler outcome into a Result. It is total: every
// (res, err) combination maps to a well-formed value, so malformed or failed
// executions surface to the model as data instead of aborting the turn.
func Normalize(res *Result, err error) Result {
	if err != nil {
		return Result{Success: false, Error: err.Error()}
	}
	if res == nil {
		return Result{Success: true}
	}
	return *res
}

// Failure builds a failed result with the given message.
func Failure(msg string) *Result {
	return &Result{Success: false, Error: msg}
}

// WebSearchResult is one hit from the external search provider.
type WebSearchResult struct {
	Title   string `json:"title"`
	URL     string `json:"url"`
	Snippet string `json:"snippet"`
}

// WebSearcher performs an internet search on behalf of the agent.
type WebSearcher interface {
	Search(ctx context.Context, query string, limit int) ([]WebSearchResult, error)
}

// stringArg extracts a required string argument.
func stringArg(args map[string]any, key string) (string, error) {
	raw, ok := args[key]
	if !ok {
		return "", fmt.Errorf("missing required argument %q", key)
	}
	s, ok := raw.(string)
	if !ok {
		return "", fmt.Errorf("argument %q must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return "", fmt.Errorf("argument %q is empty", key)
	}
	return s, nil
}

// optStringArg extracts an optional string argument; absent or blank yields nil.
func optStringArg(args map[string]any, key string) (*string, error) {
	raw, ok := args[key]
	if !ok || raw == nil {
		return nil, nil
	}
	s, ok := raw.(string)
	if !ok {
		return nil, fmt.Errorf("argument %q must be a string", key)
	}
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	return &s, nil
}

// optTimeArg parses an optional date argument in RFC 3339 or YYYY-MM-DD form.
func optTimeArg(args map[string]any, key string) (*time.Time, error) {
	s, err := optStringArg(args, key)
	if err != nil || s == nil {
		return nil, err
	}
	if t, err := time.Parse(time.RFC3339, *s); err == nil {
		return &t, nil
	}
	t, err := time.Parse("2006-01-02", *s)
	if err != nil {
		return nil, fmt.Errorf("argument %q must be an RFC 3339 timestamp or YYYY-MM-DD date", key)
	}
	return &t, nil
}
