package store

import (
	"context"
	"time"

	"github.com/nhle/taskmaker/internal/model"
)

// TaskInput carries every mutable task field. It is used for both insert
// and full-row update.
type TaskInput struct {
	Name        string
	Description string
	TextColour  string
	BackColour  string
	DateTime    *time.Time
	ImageURI    *string
}

// InputFromTask copies the mutable fields of t.
func InputFromTask(t model.Task) TaskInput {
	return TaskInput{
		Name:        t.Name,
		Description: t.Description,
		TextColour:  t.TextColour,
		BackColour:  t.BackColour,
		DateTime:    t.DateTime,
		ImageURI:    t.ImageURI,
	}
}

// Task returns the record the store holds for this input under id, with
// the due time normalised the same way it is persisted.
func (in TaskInput) Task(id int64) model.Task {
	t := model.Task{
		ID:          id,
		Name:        in.Name,
		Description: in.Description,
		TextColour:  in.TextColour,
		BackColour:  in.BackColour,
	}
	if in.DateTime != nil {
		due := normalizeDateTime(*in.DateTime)
		t.DateTime = &due
	}
	if in.ImageURI != nil {
		uri := *in.ImageURI
		t.ImageURI = &uri
	}
	return t
}

// Store defines the persistence interface for tasks. Every operation
// initialises the store on first use and reports failure through its error.
type Store interface {
	Initialize(ctx context.Context) error

	AddTask(ctx context.Context, in TaskInput) (model.Task, error)
	GetAllTasks(ctx context.Context) ([]model.Task, error)
	GetTask(ctx context.Context, id int64) (model.Task, error)
	UpdateTask(ctx context.Context, id int64, in TaskInput) error
	DeleteTask(ctx context.Context, id int64) error

	Close() error
}
