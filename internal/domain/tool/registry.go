package tool

import (
	"fmt"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/llm"
	"github.com/griffinm/jotter/internal/domain/note"
	"github.com/griffinm/jotter/internal/domain/task"
)

// Registry holds the closed set of tool handlers exposed to the model.
type Registry struct {
	handlers map[Kind]Handler
	order    []Kind
}

// NewRegistry builds the registry with every supported tool wired to its
// backing service.
func NewRegistry(tasks task.Service, notes note.Service, searcher WebSearcher, log zerolog.Logger) *Registry {
	r := &Registry{handlers: make(map[Kind]Handler)}
	toolLog := log.With().Str("component", "tool-registry").Logger()

	r.register(&createTaskTool{tasks: tasks})
	r.register(&searchTasksTool{tasks: tasks})
	r.register(&updateTaskTool{tasks: tasks})
	r.register(&getTaskTool{tasks: tasks})
	r.register(&createNoteTool{notes: notes})
	r.register(&searchNotesTool{notes: notes})
	r.register(&getNoteTool{notes: notes})
	r.register(&searchInternetTool{searcher: searcher, log: toolLog})

	return r
}

func (r *Registry) register(h Handler) {
	r.handlers[h.Kind()] = h
	r.order = append(r.order, h.Kind())
}

// Get resolves a tool name to its handler. Unknown names resolve to nothing;
// the registry is never extended at runtime.
func (r *Registry) Get(name string) (Handler, bool) {
	h, ok := r.handlers[Kind(name)]
	return h, ok
}

// Definitions returns the OpenAI-compatible tool declarations for every
// registered handler, in registration order.
func (r *Registry) Definitions() []llm.ToolDefinition {
	defs := make([]llm.ToolDefinition, 0, len(r.order))
	for _, k := range r.order {
		defs = append(defs, llm.ToolDefinition{
			Type:     "function",
			Function: r.handlers[k].Definition(),
		})
	}
	return defs
}

// ValidateArgs checks the decoded arguments against the handler's declared
// required parameters before execution.
func ValidateArgs(h Handler, args map[string]any) error {
	params := h.Definition().Parameters
	required, ok := params["required"].([]string)
	if !ok {
		return nil
	}
	for _, key := range required {
		if _, present := args[key]; !present {
			return fmt.Errorf("tool %s: missing required argument %q", h.Kind(), key)
		}
	}
	return nil
}

// objectSchema builds a JSON Schema object declaration.
func objectSchema(properties map[string]any, required []string) map[string]any {
	schema := map[string]any{
		"type":       "object",
		"properties": properties,
	}
	if len(required) > 0 {
		schema["required"] = required
	}
	return schema
}
