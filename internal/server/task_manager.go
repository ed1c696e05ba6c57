package server

import (
	"sync"
	"time"

	"github.com/google/uuid"
)

// TaskStatus defines the possible states of a task.
type TaskStatus string

const (
	TaskStatusStarted   TaskStatus = "started"
	TaskStatusRunning   TaskStatus = "running"
	TaskStatusCompleted TaskStatus = "completed"
	TaskStatusFailed    TaskStatus = "failed"
)

// Task is a background operation such as a dataset reload.
type Task struct {
	id   string
	kind string

	mu         sync.RWMutex
	status     TaskStatus
	progress   string
	err        string
	result     string
	startedAt  time.Time
	finishedAt time.Time
}

// TaskView is the JSON form of a Task at one point in time.
type TaskView struct {
	ID              string     `json:"id"`
	Kind            string     `json:"kind"`
	Status          TaskStatus `json:"status"`
	ProgressMessage string     `json:"progress_message,omitempty"`
	Error           string     `json:"error,omitempty"`
	Result          string     `json:"result,omitempty"`
	StartedAt       time.Time  `json:"started_at"`
	FinishedAt      *time.Time `json:"finished_at,omitempty"`
}

// TaskManager tracks background tasks.
type TaskManager struct {
	tasks map[string]*Task
	mu    sync.RWMutex
	wg    sync.WaitGroup
}

// NewTaskManager creates a new task manager.
func NewTaskManager() *TaskManager {
	return &TaskManager{
		tasks: make(map[string]*Task),
	}
}

// NewTask registers a task of the given kind.
func (tm *TaskManager) NewTask(kind string) *Task {
	tm.mu.Lock()
	defer tm.mu.Unlock()

	task := &Task{
		id:        uuid.New().String(),
		kind:      kind,
		status:    TaskStatusStarted,
		startedAt: time.Now(),
	}
	tm.tasks[task.id] = task
	return task
}

// Go registers a task and runs fn in a new goroutine. fn's string result is
// recorded on success, its error on failure.
func (tm *TaskManager) Go(kind string, fn func(t *Task) (string, error)) *Task {
	task := tm.NewTask(kind)
	tm.wg.Add(1)
	go func() {
		defer tm.wg.Done()
		task.setStatus(TaskStatusRunning)
		result, err := fn(task)
		if err != nil {
			task.fail(err)
			return
		}
		task.complete(result)
	}()
	return task
}

// Wait blocks until every task started with Go has finished.
func (tm *TaskManager) Wait() {
	tm.wg.Wait()
}

// GetTask retrieves a task by its ID.
func (tm *TaskManager) GetTask(id string) (*Task, bool) {
	tm.mu.RLock()
	defer tm.mu.RUnlock()
	task, found := tm.tasks[id]
	return task, found
}

// ID returns the task identifier.
func (t *Task) ID() string { return t.id }

// SetProgress updates the progress message for the task.
func (t *Task) SetProgress(message string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.progress = message
}

// View returns a consistent copy of the task state.
func (t *Task) View() TaskView {
	t.mu.RLock()
	defer t.mu.RUnlock()
	v := TaskView{
		ID:              t.id,
		Kind:            t.kind,
		Status:          t.status,
		ProgressMessage: t.progress,
		Error:           t.err,
		Result:          t.result,
		StartedAt:       t.startedAt,
	}
	if !t.finishedAt.IsZero() {
		finished := t.finishedAt
		v.FinishedAt = &finished
	}
	return v
}

func (t *Task) setStatus(status TaskStatus) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = status
}

func (t *Task) fail(err error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusFailed
	t.err = err.Error()
	t.finishedAt = time.Now()
}

func (t *Task) complete(result string) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.status = TaskStatusCompleted
	t.result = result
	t.finishedAt = time.Now()
}
