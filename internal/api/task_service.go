package api

import (
	"context"
	"log/slog"

	"shortlist/internal/feed"
	"shortlist/internal/logging"
	"shortlist/internal/task"
)

// TaskStore abstracts the persistence operations the service needs.
type TaskStore interface {
	Insert(ctx context.Context, ownerID, text string) (*task.Task, error)
	ToggleChecked(ctx context.Context, ownerID, id string) (*task.Task, error)
	Delete(ctx context.Context, ownerID, id string) (*task.Task, error)
	List(ctx context.Context, ownerID string, filter task.Filter) ([]*task.Task, error)
}

// TaskService combines the store and the change feed: every successful
// mutation is published so subscribed clients converge on store state.
type TaskService struct {
	store  TaskStore
	hub    *feed.Hub
	logger *slog.Logger
}

// NewTaskService constructs a TaskService around the provided store and hub.
func NewTaskService(store TaskStore, hub *feed.Hub, logger *slog.Logger) *TaskService {
	if store == nil {
		return nil
	}
	return &TaskService{
		store:  store,
		hub:    hub,
		logger: logging.NewComponentLogger(logger, "tasks"),
	}
}

// Insert creates a task for the owner and announces it on the feed.
func (s *TaskService) Insert(ctx context.Context, ownerID, text string) (TaskRecord, error) {
	record, err := s.store.Insert(ctx, ownerID, text)
	if err != nil {
		return TaskRecord{}, err
	}
	s.hub.Publish(feed.KindCreated, *record)
	s.logger.Info("task created",
		logging.String(logging.FieldTaskID, record.ID),
		logging.String(logging.FieldUserID, ownerID),
	)
	return FromTask(record), nil
}

// ToggleChecked flips a task's checked flag and announces the update.
func (s *TaskService) ToggleChecked(ctx context.Context, ownerID, id string) (ToggleResponse, error) {
	record, err := s.store.ToggleChecked(ctx, ownerID, id)
	if err != nil {
		return ToggleResponse{}, err
	}
	s.hub.Publish(feed.KindUpdated, *record)
	s.logger.Info("task toggled",
		logging.String(logging.FieldTaskID, record.ID),
		logging.Bool("is_checked", record.IsChecked),
	)
	return ToggleResponse{ID: record.ID, IsChecked: record.IsChecked}, nil
}

// Delete removes a task and announces the deletion.
func (s *TaskService) Delete(ctx context.Context, ownerID, id string) error {
	record, err := s.store.Delete(ctx, ownerID, id)
	if err != nil {
		return err
	}
	s.hub.Publish(feed.KindDeleted, *record)
	s.logger.Info("task deleted", logging.String(logging.FieldTaskID, record.ID))
	return nil
}

// List returns the owner's tasks, newest first.
func (s *TaskService) List(ctx context.Context, ownerID string, hideChecked bool) (TaskListResponse, error) {
	records, err := s.store.List(ctx, ownerID, task.Filter{HideChecked: hideChecked})
	if err != nil {
		return TaskListResponse{}, err
	}
	return TaskListResponse{Tasks: FromTasks(records)}, nil
}

// Feed serves the owner's deltas after the given cursor. An empty ownerID
// yields an immediately-ready empty response.
func (s *TaskService) Feed(ctx context.Context, ownerID string, since uint64, limit int, wait bool) (FeedResponse, error) {
	events, next, err := s.hub.Fetch(ctx, ownerID, since, limit, wait)
	if err != nil {
		return FeedResponse{Ready: true}, err
	}
	return FeedResponse{Events: FromEvents(events), Next: next, Ready: true}, nil
}
