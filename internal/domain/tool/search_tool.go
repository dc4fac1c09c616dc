package tool

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
)

const defaultWebResultLimit = 5

type searchInternetTool struct {
	searcher WebSearcher
	log      zerolog.Logger
}

func (t *searchInternetTool) Kind() Kind { return KindSearchInternet }

func (t *searchInternetTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindSearchInternet),
		Description: "Search the internet for current information the user's notes and tasks cannot answer.",
		Parameters: objectSchema(map[string]any{
			"query": map[string]any{"type": "string", "description": "The search query"},
		}, []string{"query"}),
	}
}

func (t *searchInternetTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	query, err := stringArg(inv.Args, "query")
	if err != nil {
		return Failure(err.Error()), nil
	}

	results, err := t.searcher.Search(ctx, query, defaultWebResultLimit)
	if err != nil {
		t.log.Warn().Err(err).Str("query", query).Msg("web search failed")
		return nil, err
	}
	if len(results) == 0 {
		return &Result{Success: true, Message: fmt.Sprintf("No web results for %q.", query)}, nil
	}

	return &Result{
		Success:       true,
		Message:       formatWebResults(results),
		ComponentData: &conversation.ComponentData{Type: "search_results", Data: results},
	}, nil
}

// formatWebResults renders hits as plain text so the model can cite them.
func formatWebResults(results []WebSearchResult) string {
	out := fmt.Sprintf("Found %d web result(s):\n", len(results))
	for i, r := range results {
		out += fmt.Sprintf("%d. %s (%s)\n   %s\n", i+1, r.Title, r.URL, r.Snippet)
	}
	return out
}
