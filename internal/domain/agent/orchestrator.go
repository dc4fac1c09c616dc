package agent

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/rs/zerolog"
	"golang.org/x/sync/errgroup"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
	"github.com/griffinm/jotter/internal/domain/tool"
	"github.com/griffinm/jotter/internal/infrastructure/metrics"
	"github.com/griffinm/jotter/internal/utils/platformerrors"
)

// Options bounds a processing run.
type Options struct {
	Model         string
	MaxIterations int
	MaxHistory    int
	ToolTimeout   time.Duration
}

// Orchestrator drives one message through the model-and-tools loop and
// persists every turn it produces.
type Orchestrator struct {
	provider      llm.Provider
	registry      *tool.Registry
	conversations conversation.Repository
	items         conversation.ItemRepository
	metrics       *metrics.Metrics
	opts          Options
	log           zerolog.Logger
	now           func() time.Time
}

// NewOrchestrator wires dependencies.
func NewOrchestrator(
	provider llm.Provider,
	registry *tool.Registry,
	conversations conversation.Repository,
	items conversation.ItemRepository,
	m *metrics.Metrics,
	opts Options,
	log zerolog.Logger,
) *Orchestrator {
	return &Orchestrator{
		provider:      provider,
		registry:      registry,
		conversations: conversations,
		items:         items,
		metrics:       m,
		opts:          opts,
		log:           log.With().Str("component", "agent-orchestrator").Logger(),
		now:           time.Now,
	}
}

// ProcessParams identifies the message to process.
type ProcessParams struct {
	ConversationID string
	UserID         string
	Content        string
	UserMessageID  string
}

// ProcessResult reports the persisted outcome of one run.
type ProcessResult struct {
	UserMessageID    string
	AssistantMessage *conversation.Item
	ToolMessages     []conversation.Item
	ActionTaken      bool
	Iterations       int
}

// ProcessMessage runs the agent loop for one user message. Each round sends
// the accumulated turns to the model; when the model requests tools they are
// executed concurrently, their results persisted and appended in request
// order, and the loop continues. The loop stops when the model answers
// without tool calls or the iteration cap is reached, whichever comes first.
//
// A redelivered job whose assistant reply already exists returns that reply
// without touching the model.
func (o *Orchestrator) ProcessMessage(ctx context.Context, params ProcessParams) (*ProcessResult, error) {
	conv, err := o.conversations.FindByPublicID(ctx, params.ConversationID, params.UserID)
	if err != nil {
		return nil, err
	}

	existing, err := o.items.FindAssistantReply(ctx, conv.ID, params.UserMessageID)
	if err != nil {
		return nil, err
	}
	if existing != nil {
		o.log.Info().
			Str("conversation_id", conv.PublicID).
			Str("user_message_id", params.UserMessageID).
			Msg("reply already persisted, skipping reprocessing")
		return &ProcessResult{
			UserMessageID:    params.UserMessageID,
			AssistantMessage: existing,
		}, nil
	}

	turns := buildTurns(conv, params.UserMessageID, params.Content, o.opts.MaxHistory, o.now())
	definitions := o.registry.Definitions()

	result := &ProcessResult{UserMessageID: params.UserMessageID}
	var lastComponent *conversation.ComponentData

	for iteration := 1; iteration <= o.opts.MaxIterations; iteration++ {
		result.Iterations = iteration

		resp, err := o.provider.CreateChatCompletion(ctx, llm.ChatCompletionRequest{
			Model:    o.opts.Model,
			Messages: turns,
			Tools:    definitions,
		})
		if err != nil {
			o.metrics.ModelRequests.WithLabelValues("error").Inc()
			return nil, platformerrors.NewError(
				ctx,
				platformerrors.LayerDomain,
				platformerrors.ErrorTypeExternal,
				"chat completion failed",
				err,
				"agent-completion-failed",
			)
		}
		o.metrics.ModelRequests.WithLabelValues("success").Inc()

		msg := resp.Choices[0].Message

		if len(msg.ToolCalls) == 0 || iteration == o.opts.MaxIterations {
			if len(msg.ToolCalls) > 0 {
				o.log.Warn().
					Str("conversation_id", conv.PublicID).
					Int("iteration", iteration).
					Int("pending_tool_calls", len(msg.ToolCalls)).
					Msg("iteration cap reached, treating response as final")
			}
			assistant, err := o.persistAssistant(ctx, conv.ID, msg.Content, params.UserMessageID, lastComponent)
			if err != nil {
				return nil, err
			}
			result.AssistantMessage = assistant
			break
		}

		// The intermediate assistant turn is persisted with its tool calls so
		// a rebuilt history keeps every tool turn paired with the call that
		// requested it. Models often send tool calls with no prose.
		content := msg.Content
		if strings.TrimSpace(content) == "" {
			content = "Working on it..."
		}
		callItem := conversation.NewItem(conv.ID, conversation.RoleAssistant, content)
		callItem.ToolCalls = msg.ToolCalls
		if err := o.items.Create(ctx, callItem); err != nil {
			return nil, err
		}
		turns = append(turns, llm.ChatMessage{Role: "assistant", Content: content, ToolCalls: msg.ToolCalls})

		results := o.executeToolCalls(ctx, params.UserID, msg.ToolCalls)

		for i, call := range msg.ToolCalls {
			res := results[i]
			if res.Success {
				result.ActionTaken = true
			}
			if res.ComponentData != nil {
				lastComponent = res.ComponentData
			}

			toolItem, toolTurn, err := o.persistToolResult(ctx, conv.ID, call, res)
			if err != nil {
				return nil, err
			}
			result.ToolMessages = append(result.ToolMessages, *toolItem)
			turns = append(turns, toolTurn)
		}
	}

	o.metrics.ModelIterations.Observe(float64(result.Iterations))

	if err := o.conversations.Touch(ctx, conv.ID); err != nil {
		o.log.Warn().Err(err).Str("conversation_id", conv.PublicID).Msg("failed to touch conversation")
	}

	return result, nil
}

// executeToolCalls fans the batch out concurrently and returns results
// indexed by request position. Individual failures never abort the batch.
func (o *Orchestrator) executeToolCalls(ctx context.Context, userID string, calls []llm.ToolCall) []tool.Result {
	results := make([]tool.Result, len(calls))

	g, gctx := errgroup.WithContext(ctx)
	for i, call := range calls {
		i, call := i, call
		g.Go(func() error {
			results[i] = o.executeToolCall(gctx, userID, call)
			return nil
		})
	}
	// Workers only record into their slot, so Wait cannot fail.
	_ = g.Wait()

	return results
}

// executeToolCall resolves and runs one call, collapsing every failure mode
// into a failed result so the model sees it as data.
func (o *Orchestrator) executeToolCall(ctx context.Context, userID string, call llm.ToolCall) (res tool.Result) {
	name := call.Function.Name

	defer func() {
		if r := recover(); r != nil {
			o.log.Error().Str("tool", name).Interface("panic", r).Msg("tool handler panicked")
			res = tool.Result{Success: false, Error: fmt.Sprintf("tool %s panicked: %v", name, r)}
		}
		outcome := "success"
		if !res.Success {
			outcome = "failure"
		}
		o.metrics.ToolExecutions.WithLabelValues(name, outcome).Inc()
	}()

	handler, ok := o.registry.Get(name)
	if !ok {
		return tool.Result{Success: false, Error: fmt.Sprintf("unknown tool %q", name)}
	}

	args, err := call.Function.ParsedArgs()
	if err != nil {
		return tool.Result{Success: false, Error: fmt.Sprintf("invalid arguments for %s: %v", name, err)}
	}
	if err := tool.ValidateArgs(handler, args); err != nil {
		return tool.Result{Success: false, Error: err.Error()}
	}

	callCtx, cancel := context.WithTimeout(ctx, o.opts.ToolTimeout)
	defer cancel()

	return tool.Normalize(handler.Execute(callCtx, tool.Invocation{UserID: userID, Args: args}))
}

// persistToolResult writes the tool item and builds the matching wire turn.
func (o *Orchestrator) persistToolResult(ctx context.Context, conversationID uint, call llm.ToolCall, res tool.Result) (*conversation.Item, llm.ChatMessage, error) {
	payload, err := json.Marshal(res)
	if err != nil {
		return nil, llm.ChatMessage{}, platformerrors.NewError(
			ctx,
			platformerrors.LayerDomain,
			platformerrors.ErrorTypeInternal,
			"marshal tool result",
			err,
			"agent-marshal-tool-result",
		)
	}

	item := conversation.NewItem(conversationID, conversation.RoleTool, string(payload))
	callID := call.ID
	toolName := call.Function.Name
	item.ToolCallID = &callID
	item.ToolName = &toolName
	item.ComponentData = res.ComponentData

	if err := o.items.Create(ctx, item); err != nil {
		return nil, llm.ChatMessage{}, err
	}

	return item, llm.ChatMessage{
		Role:       "tool",
		Content:    string(payload),
		ToolCallID: &callID,
	}, nil
}

// persistAssistant writes the final reply, linking it to the user message so
// redeliveries can detect completed work.
func (o *Orchestrator) persistAssistant(ctx context.Context, conversationID uint, content, userMessageID string, component *conversation.ComponentData) (*conversation.Item, error) {
	item := conversation.NewItem(conversationID, conversation.RoleAssistant, content)
	item.ReplyToItemID = &userMessageID
	item.ComponentData = component
	if err := o.items.Create(ctx, item); err != nil {
		return nil, err
	}
	return item, nil
}
