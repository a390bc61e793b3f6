package dataservice

import (
	"context"
	"strings"
	"time"

	"restaurant/fault"
	"restaurant/models"
	"restaurant/store"
)

type TaskInput struct {
	Title      string            `json:"title"`
	AssignedTo string            `json:"assignedTo"`
	Priority   string            `json:"priority"`
	Status     models.TaskStatus `json:"status"`
	DueAt      *time.Time        `json:"dueAt"`
}

func validTaskStatus(st models.TaskStatus) bool {
	return st == models.TaskOpen || st == models.TaskInProgress || st == models.TaskDone
}

func (s *Service) ListTasks(ctx context.Context) ([]models.Task, error) {
	return list[models.Task](ctx, s, store.Tasks)
}

func (s *Service) AddTask(ctx context.Context, in TaskInput) (models.Task, WriteResult, error) {
	title := strings.TrimSpace(in.Title)
	if title == "" {
		return models.Task{}, WriteResult{}, fault.Invalid("title is required")
	}
	status := in.Status
	if status == "" {
		status = models.TaskOpen
	}
	if !validTaskStatus(status) {
		return models.Task{}, WriteResult{}, fault.Invalid("unknown task status %q", status)
	}
	return insert(ctx, s, store.Tasks, func([]models.Task) (models.Task, error) {
		task := models.Task{
			ID:         s.newID(),
			Title:      title,
			AssignedTo: in.AssignedTo,
			Priority:   in.Priority,
			Status:     status,
			CreatedAt:  s.now(),
		}
		if in.DueAt != nil {
			task.DueAt = *in.DueAt
		}
		return task, nil
	})
}

func (s *Service) UpdateTask(ctx context.Context, id string, in TaskInput) (models.Task, WriteResult, error) {
	if in.Status != "" && !validTaskStatus(in.Status) {
		return models.Task{}, WriteResult{}, fault.Invalid("unknown task status %q", in.Status)
	}
	return replace(ctx, s, store.Tasks, id, func(task models.Task, _ []models.Task) (models.Task, error) {
		if t := strings.TrimSpace(in.Title); t != "" {
			task.Title = t
		}
		if in.AssignedTo != "" {
			task.AssignedTo = in.AssignedTo
		}
		if in.Priority != "" {
			task.Priority = in.Priority
		}
		if in.Status != "" {
			task.Status = in.Status
		}
		if in.DueAt != nil {
			task.DueAt = *in.DueAt
		}
		return task, nil
	})
}

func (s *Service) DeleteTask(ctx context.Context, id string) (WriteResult, error) {
	return remove[models.Task](ctx, s, store.Tasks, id)
}
