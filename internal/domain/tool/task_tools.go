package tool

import (
	"context"
	"fmt"

	"github.com/griffinm/jotter/internal/domain/conversation"
	"github.com/griffinm/jotter/internal/domain/llm"
	"github.com/griffinm/jotter/internal/domain/task"
)

type createTaskTool struct {
	tasks task.Service
}

func (t *createTaskTool) Kind() Kind { return KindCreateTask }

func (t *createTaskTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindCreateTask),
		Description: "Create a new task for the user. Use when the user asks to add, create, or remember a todo.",
		Parameters: objectSchema(map[string]any{
			"title":       map[string]any{"type": "string", "description": "Short title of the task"},
			"description": map[string]any{"type": "string", "description": "Optional longer description"},
			"due_date":    map[string]any{"type": "string", "description": "Optional due date, RFC 3339 or YYYY-MM-DD"},
			"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
		}, []string{"title"}),
	}
}

func (t *createTaskTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	title, err := stringArg(inv.Args, "title")
	if err != nil {
		return Failure(err.Error()), nil
	}
	description, err := optStringArg(inv.Args, "description")
	if err != nil {
		return Failure(err.Error()), nil
	}
	dueDate, err := optTimeArg(inv.Args, "due_date")
	if err != nil {
		return Failure(err.Error()), nil
	}
	priority, err := optPriorityArg(inv.Args)
	if err != nil {
		return Failure(err.Error()), nil
	}

	created, err := t.tasks.Create(ctx, task.CreateParams{
		UserID:      inv.UserID,
		Title:       title,
		Description: description,
		DueDate:     dueDate,
		Priority:    priority,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Created task %q", created.Title),
		ComponentData: &conversation.ComponentData{Type: "task", Data: created},
	}, nil
}

type searchTasksTool struct {
	tasks task.Service
}

func (t *searchTasksTool) Kind() Kind { return KindSearchTasks }

func (t *searchTasksTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindSearchTasks),
		Description: "Search the user's tasks by text, status, priority, or due date range.",
		Parameters: objectSchema(map[string]any{
			"query":      map[string]any{"type": "string", "description": "Text matched against title and description"},
			"status":     map[string]any{"type": "string", "enum": []string{"todo", "in_progress", "completed"}},
			"priority":   map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"due_before": map[string]any{"type": "string", "description": "Only tasks due before this date"},
			"due_after":  map[string]any{"type": "string", "description": "Only tasks due after this date"},
		}, nil),
	}
}

func (t *searchTasksTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	query, err := optStringArg(inv.Args, "query")
	if err != nil {
		return Failure(err.Error()), nil
	}
	status, err := optStatusArg(inv.Args)
	if err != nil {
		return Failure(err.Error()), nil
	}
	priority, err := optPriorityArg(inv.Args)
	if err != nil {
		return Failure(err.Error()), nil
	}
	dueBefore, err := optTimeArg(inv.Args, "due_before")
	if err != nil {
		return Failure(err.Error()), nil
	}
	dueAfter, err := optTimeArg(inv.Args, "due_after")
	if err != nil {
		return Failure(err.Error()), nil
	}

	tasks, err := t.tasks.Search(ctx, task.Filter{
		UserID:    inv.UserID,
		Search:    query,
		Status:    status,
		Priority:  priority,
		DueBefore: dueBefore,
		DueAfter:  dueAfter,
	})
	if err != nil {
		return nil, err
	}

	if len(tasks) == 0 {
		return &Result{Success: true, Message: "No matching tasks found."}, nil
	}
	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Found %d matching task(s)", len(tasks)),
		ComponentData: &conversation.ComponentData{Type: "task_list", Data: tasks},
	}, nil
}

type updateTaskTool struct {
	tasks task.Service
}

func (t *updateTaskTool) Kind() Kind { return KindUpdateTask }

func (t *updateTaskTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindUpdateTask),
		Description: "Update an existing task. Use to change status (e.g. mark complete), title, description, priority, or due date.",
		Parameters: objectSchema(map[string]any{
			"task_id":     map[string]any{"type": "string", "description": "Public ID of the task, e.g. task_<uuid>"},
			"title":       map[string]any{"type": "string"},
			"description": map[string]any{"type": "string"},
			"status":      map[string]any{"type": "string", "enum": []string{"todo", "in_progress", "completed"}},
			"priority":    map[string]any{"type": "string", "enum": []string{"low", "medium", "high"}},
			"due_date":    map[string]any{"type": "string"},
		}, []string{"task_id"}),
	}
}

func (t *updateTaskTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	taskID, err := stringArg(inv.Args, "task_id")
	if err != nil {
		return Failure(err.Error()), nil
	}
	title, err := optStringArg(inv.Args, "title")
	if err != nil {
		return Failure(err.Error()), nil
	}
	description, err := optStringArg(inv.Args, "description")
	if err != nil {
		return Failure(err.Error()), nil
	}
	status, err := optStatusArg(inv.Args)
	if err != nil {
		return Failure(err.Error()), nil
	}
	priority, err := optPriorityArg(inv.Args)
	if err != nil {
		return Failure(err.Error()), nil
	}
	dueDate, err := optTimeArg(inv.Args, "due_date")
	if err != nil {
		return Failure(err.Error()), nil
	}

	updated, err := t.tasks.Update(ctx, task.UpdateParams{
		UserID:      inv.UserID,
		TaskID:      taskID,
		Title:       title,
		Description: description,
		Status:      status,
		Priority:    priority,
		DueDate:     dueDate,
	})
	if err != nil {
		return nil, err
	}

	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Updated task %q", updated.Title),
		ComponentData: &conversation.ComponentData{Type: "task", Data: updated},
	}, nil
}

type getTaskTool struct {
	tasks task.Service
}

func (t *getTaskTool) Kind() Kind { return KindGetTask }

func (t *getTaskTool) Definition() llm.ToolFunctionSchema {
	return llm.ToolFunctionSchema{
		Name:        string(KindGetTask),
		Description: "Look up a specific task by its ID or by a title fragment.",
		Parameters: objectSchema(map[string]any{
			"search": map[string]any{"type": "string", "description": "Task public ID or title text"},
		}, []string{"search"}),
	}
}

func (t *getTaskTool) Execute(ctx context.Context, inv Invocation) (*Result, error) {
	search, err := stringArg(inv.Args, "search")
	if err != nil {
		return Failure(err.Error()), nil
	}

	tasks, err := t.tasks.Get(ctx, inv.UserID, search)
	if err != nil {
		return nil, err
	}
	if len(tasks) == 0 {
		return &Result{Success: true, Message: fmt.Sprintf("No task matching %q found.", search)}, nil
	}
	if len(tasks) == 1 {
		return &Result{
			Success:       true,
			Message:       fmt.Sprintf("Found task %q", tasks[0].Title),
			ComponentData: &conversation.ComponentData{Type: "task", Data: tasks[0]},
		}, nil
	}
	return &Result{
		Success:       true,
		Message:       fmt.Sprintf("Found %d tasks matching %q", len(tasks), search),
		ComponentData: &conversation.ComponentData{Type: "task_list", Data: tasks},
	}, nil
}

func optStatusArg(args map[string]any) (*task.Status, error) {
	s, err := optStringArg(args, "status")
	if err != nil || s == nil {
		return nil, err
	}
	status := task.Status(*s)
	if !status.Valid() {
		return nil, fmt.Errorf("unknown task status %q", *s)
	}
	return &status, nil
}

func optPriorityArg(args map[string]any) (*task.Priority, error) {
	s, err := optStringArg(args, "priority")
	if err != nil || s == nil {
		return nil, err
	}
	priority := task.Priority(*s)
	if !priority.Valid() {
		return nil, fmt.Errorf("unknown task priority %q", *s)
	}
	return &priority, nil
}
