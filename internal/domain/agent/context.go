package agent

import (
	"fmt"
	"time"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
)

const systemPromptTemplate = `You are Jotter, a personal assistant that manages the user's tasks and notes through tools.

Today's date is %s.

Guidelines:
- Use the provided tools to create, search, and update tasks and notes instead of guessing at their contents.
- When the user asks about current events or facts outside their notes, use the internet search tool.
- Reference tasks and notes by their titles in replies; never expose raw IDs unless asked.
- Keep replies short and direct.`

// buildTurns assembles the model context for one processing run: the system
// prompt, the most recent history up to the configured window, then the new
// user message as the final turn.
//
// History is everything persisted before this run except the triggering user
// item, which is appended last regardless of how old the transcript is.
func buildTurns(conv *conversation.Conversation, userMessageID, content string, maxHistory int, now time.Time) []llm.ChatMessage {
	history := make([]llm.ChatMessage, 0, len(conv.Items))
	for i := range conv.Items {
		item := &conv.Items[i]
		if item.PublicID == userMessageID {
			continue
		}
		history = append(history, itemToTurn(item))
	}
	if len(history) > maxHistory {
		history = history[len(history)-maxHistory:]
	}

	turns := make([]llm.ChatMessage, 0, len(history)+2)
	turns = append(turns, llm.ChatMessage{
		Role:    "system",
		Content: fmt.Sprintf(systemPromptTemplate, now.Format("Monday, January 2, 2006")),
	})
	turns = append(turns, history...)
	turns = append(turns, llm.ChatMessage{Role: "user", Content: content})
	return turns
}

// itemToTurn translates a persisted item into its wire-format turn. Each role
// carries a different subset of fields: assistant turns keep their tool calls,
// tool turns keep the call ID they answer.
func itemToTurn(item *conversation.Item) llm.ChatMessage {
	switch item.Role {
	case conversation.RoleAssistant:
		return llm.ChatMessage{
			Role:      "assistant",
			Content:   item.Content,
			ToolCalls: item.ToolCalls,
		}
	case conversation.RoleTool:
		return llm.ChatMessage{
			Role:       "tool",
			Content:    item.Content,
			ToolCallID: item.ToolCallID,
		}
	default:
		return llm.ChatMessage{
			Role:    string(item.Role),
			Content: item.Content,
		}
	}
}
