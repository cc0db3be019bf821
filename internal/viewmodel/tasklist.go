// Package viewmodel holds the in-memory state behind the task list screen:
// the full task set read from the store, the subset matching the current
// search query, and the reconciliation applied after each mutation.
package viewmodel

import (
	"context"
	"errors"
	"fmt"
	"slices"
	"strings"
	"sync"

	"github.com/nhle/taskmaker/internal/model"
	"github.com/nhle/taskmaker/internal/store"
)

// ErrSuperseded is returned by a refresh whose result was discarded because
// a newer refresh or a mutation started after it.
var ErrSuperseded = errors.New("refresh superseded")

// TaskList is safe for concurrent use; the terminal UI calls it from
// command goroutines.
type TaskList struct {
	store store.Store

	mu       sync.Mutex
	all      []model.Task
	filtered []model.Task
	query    string

	// generation increases on every refresh start and every mutation; a
	// refresh publishes only if it is still current when its read returns.
	generation uint64
	cancel     context.CancelFunc
}

// New creates an empty task list backed by s.
func New(s store.Store) *TaskList {
	return &TaskList{
		store:    s,
		all:      []model.Task{},
		filtered: []model.Task{},
	}
}

// Refresh replaces the full set with a fresh read from the store and
// re-derives the filtered set. Starting a refresh cancels any refresh still
// in flight; the cancelled one returns ErrSuperseded and publishes nothing.
func (l *TaskList) Refresh(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	l.mu.Lock()
	gen := l.supersedeLocked()
	l.cancel = cancel
	l.mu.Unlock()

	tasks, err := l.store.GetAllTasks(ctx)

	l.mu.Lock()
	defer l.mu.Unlock()

	if gen != l.generation {
		return ErrSuperseded
	}
	l.cancel = nil
	if err != nil {
		return fmt.Errorf("refreshing tasks: %w", err)
	}

	l.all = tasks
	l.filtered = Filter(l.all, l.query)
	return nil
}

// supersedeLocked invalidates any refresh in flight and returns the new
// generation. l.mu must be held.
func (l *TaskList) supersedeLocked() uint64 {
	if l.cancel != nil {
		l.cancel()
		l.cancel = nil
	}
	l.generation++
	return l.generation
}

// Search records query and returns the tasks matching it.
func (l *TaskList) Search(query string) []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()

	l.query = query
	l.filtered = Filter(l.all, query)
	return slices.Clone(l.filtered)
}

// Add inserts a task through the store and appends it to the full set.
func (l *TaskList) Add(ctx context.Context, in store.TaskInput) (model.Task, error) {
	task, err := l.store.AddTask(ctx, in)
	if err != nil {
		return model.Task{}, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.supersedeLocked()
	if i := slices.IndexFunc(l.all, byID(task.ID)); i >= 0 {
		// A refresh that finished after the insert already holds it.
		l.all[i] = task
	} else {
		l.all = append(l.all, task)
	}
	l.filtered = Filter(l.all, l.query)
	return task, nil
}

// Update rewrites task id through the store and replaces the in-memory
// copy. An id the list does not hold is left absent.
func (l *TaskList) Update(ctx context.Context, id int64, in store.TaskInput) (model.Task, error) {
	if err := l.store.UpdateTask(ctx, id, in); err != nil {
		return model.Task{}, err
	}
	task := in.Task(id)

	l.mu.Lock()
	defer l.mu.Unlock()

	l.supersedeLocked()
	if i := slices.IndexFunc(l.all, byID(id)); i >= 0 {
		l.all[i] = task
	}
	l.filtered = Filter(l.all, l.query)
	return task, nil
}

// DeleteSelected deletes task id through the store and, only once the
// store confirms, drops it from both in-memory sets without re-reading.
func (l *TaskList) DeleteSelected(ctx context.Context, id int64) error {
	if err := l.store.DeleteTask(ctx, id); err != nil {
		return err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	l.supersedeLocked()
	l.all = slices.DeleteFunc(l.all, byID(id))
	l.filtered = slices.DeleteFunc(l.filtered, byID(id))
	return nil
}

// Tasks returns the displayed (filtered) tasks.
func (l *TaskList) Tasks() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.filtered)
}

// All returns the full task set.
func (l *TaskList) All() []model.Task {
	l.mu.Lock()
	defer l.mu.Unlock()
	return slices.Clone(l.all)
}

// Find returns the task with the given id from the full set.
func (l *TaskList) Find(id int64) (model.Task, bool) {
	l.mu.Lock()
	defer l.mu.Unlock()
	if i := slices.IndexFunc(l.all, byID(id)); i >= 0 {
		return l.all[i], true
	}
	return model.Task{}, false
}

// Query returns the current search query.
func (l *TaskList) Query() string {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.query
}

// Filter returns the tasks whose name or description contains query,
// ignoring case. The query is used as typed: no trimming, no tokenising.
// An empty query matches everything.
func Filter(tasks []model.Task, query string) []model.Task {
	out := make([]model.Task, 0, len(tasks))
	q := strings.ToLower(query)
	for _, t := range tasks {
		if Matches(t, q) {
			out = append(out, t)
		}
	}
	return out
}

// Matches reports whether t matches an already lower-cased query.
func Matches(t model.Task, lowerQuery string) bool {
	return strings.Contains(strings.ToLower(t.Name), lowerQuery) ||
		strings.Contains(strings.ToLower(t.Description), lowerQuery)
}

func byID(id int64) func(model.Task) bool {
	return func(t model.Task) bool { return t.ID == id }
}
