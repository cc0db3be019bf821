package viewmodel_test

import (
	"context"
	"slices"
	"sync"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
)

// fakeStore is an in-memory store.Store with injectable failures.
type fakeStore struct {
	mu        sync.Mutex
	tasks     []model.Task
	listErr   error
	deleteErr error

	// When waiting is non-nil the first GetAllTasks signals it and then
	// blocks until its context is done.
	waiting chan struct{}
	parked  bool
}

var _ store.Store = (*fakeStore)(nil)

func newGatedStore(tasks []model.Task) *fakeStore {
	return &fakeStore{tasks: tasks, waiting: make(chan struct{})}
}

func (f *fakeStore) setTasks(tasks []model.Task) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.tasks = tasks
}

func (f *fakeStore) Initialize(context.Context) error { return nil }

func (f *fakeStore) AddTask(_ context.Context, in store.TaskInput) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	task := in.Task(int64(len(f.tasks) + 1))
	f.tasks = append(f.tasks, task)
	return task, nil
}

func (f *fakeStore) GetAllTasks(ctx context.Context) ([]model.Task, error) {
	f.mu.Lock()
	if f.waiting != nil && !f.parked {
		f.parked = true
		f.mu.Unlock()
		close(f.waiting)
		<-ctx.Done()
		return nil, ctx.Err()
	}
	defer f.mu.Unlock()
	if f.listErr != nil {
		return nil, f.listErr
	}
	return slices.Clone(f.tasks), nil
}

func (f *fakeStore) GetTask(_ context.Context, id int64) (model.Task, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for _, t := range f.tasks {
		if t.ID == id {
			return t, nil
		}
	}
	return model.Task{}, store.ErrTaskNotFound
}

func (f *fakeStore) UpdateTask(_ context.Context, id int64, in store.TaskInput) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i, t := range f.tasks {
		if t.ID == id {
			f.tasks[i] = in.Task(id)
		}
	}
	return nil
}

func (f *fakeStore) DeleteTask(_ context.Context, id int64) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	if f.deleteErr != nil {
		return f.deleteErr
	}
	f.tasks = slices.DeleteFunc(f.tasks, func(t model.Task) bool { return t.ID == id })
	return nil
}

func (f *fakeStore) Close() error { return nil }
