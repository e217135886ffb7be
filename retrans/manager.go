// Package retrans manages retransmission of historical runtime data. A
// request creates a bounded task; tasks execute asynchronously on a worker
// pool, re-pushing stored data in chronological order, and remain queryable
// for a retention window after they finish.
package retrans

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/c360/signalctl/errors"
	"github.com/c360/signalctl/model"
	"github.com/c360/signalctl/pkg/cache"
	"github.com/c360/signalctl/pkg/worker"
	"github.com/c360/signalctl/protocol"
	"github.com/c360/signalctl/service"
)

// Status is the lifecycle state of a retransmission task.
type Status string

// Task lifecycle: PENDING on creation, RUNNING once a worker picks the task
// up, then exactly one of COMPLETED, FAILED or CANCELLED.
const (
	StatusPending   Status = "PENDING"
	StatusRunning   Status = "RUNNING"
	StatusCompleted Status = "COMPLETED"
	StatusFailed    Status = "FAILED"
	StatusCancelled Status = "CANCELLED"
)

// MaxRange bounds the requested time range.
const MaxRange = 30 * 24 * time.Hour

// pushBatchSize is how many historical objects one push carries.
const pushBatchSize = 50

// Task is one accepted retransmission request.
type Task struct {
	TaskID    string
	ObjName   string
	CrossIDs  []string
	StartTime time.Time
	EndTime   time.Time
	CreatedAt time.Time

	mu     sync.Mutex
	status Status
	detail string
}

// Status returns the current lifecycle state.
func (t *Task) Status() Status {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.status
}

// Detail returns the failure detail, empty unless the task failed.
func (t *Task) Detail() string {
	t.mu.Lock()
	defer t.mu.Unlock()
	return t.detail
}

// transition moves the task to next unless it is already terminal. It
// reports whether the transition happened.
func (t *Task) transition(next Status, detail string) bool {
	t.mu.Lock()
	defer t.mu.Unlock()
	switch t.status {
	case StatusCompleted, StatusFailed, StatusCancelled:
		return false
	}
	t.status = next
	t.detail = detail
	return true
}

func (t *Task) cancelled() bool {
	return t.Status() == StatusCancelled
}

// PushFunc delivers a batch of retransmitted objects to the requesting side.
type PushFunc func(ctx context.Context, objects []protocol.Object) error

// Manager validates retransmission requests and runs the resulting tasks.
type Manager struct {
	history   service.RunInfoRetransService
	push      PushFunc
	pool      *worker.Pool[*Task]
	tasks     *cache.TTL[*Task]
	retention time.Duration
	logger    *slog.Logger
	now       func() time.Time
}

// Option configures a Manager.
type Option func(*Manager)

// WithLogger sets the structured logger.
func WithLogger(logger *slog.Logger) Option {
	return func(m *Manager) { m.logger = logger }
}

// WithRetention overrides how long finished tasks stay queryable.
func WithRetention(d time.Duration) Option {
	return func(m *Manager) {
		if d > 0 {
			m.retention = d
		}
	}
}

// WithClock overrides the time source, for tests.
func WithClock(now func() time.Time) Option {
	return func(m *Manager) { m.now = now }
}

// NewManager creates a retransmission manager. The pool and task retention
// run until ctx is cancelled; push delivers retransmitted batches.
func NewManager(ctx context.Context, history service.RunInfoRetransService, push PushFunc, pool *worker.Pool[*Task], opts ...Option) *Manager {
	m := &Manager{
		history:   history,
		push:      push,
		pool:      pool,
		retention: 24 * time.Hour,
		logger:    slog.Default(),
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.tasks = cache.NewTTL[*Task](ctx, time.Minute)
	return m
}

// retransmittableKinds is the closed set of runtime kinds a task may replay.
var retransmittableKinds = map[string]struct{}{
	string(model.KindCrossState):        {},
	string(model.KindCrossModePlan):     {},
	string(model.KindCrossCycle):        {},
	string(model.KindCrossStage):        {},
	string(model.KindSignalGroupStatus): {},
	string(model.KindCrossTrafficData):  {},
	string(model.KindVarLaneStatus):     {},
}

// Create validates a retransmission request and enqueues the resulting
// task. The range must be chronological, at most 30 days and must not start
// in the future.
func (m *Manager) Create(cmd model.CrossReportCtrl) (*Task, error) {
	if _, ok := retransmittableKinds[cmd.ObjName]; !ok {
		return nil, errors.Validation("objName", "kind %q cannot be retransmitted", cmd.ObjName)
	}
	start, err := protocol.ParseCompact(cmd.StartTime)
	if err != nil {
		return nil, errors.Validation("startTime", "not in %q form: %q", protocol.LayoutCompact, cmd.StartTime)
	}
	end, err := protocol.ParseCompact(cmd.EndTime)
	if err != nil {
		return nil, errors.Validation("endTime", "not in %q form: %q", protocol.LayoutCompact, cmd.EndTime)
	}
	if !end.After(start) {
		return nil, errors.Validation("endTime", "must be after startTime")
	}
	if end.Sub(start) > MaxRange {
		return nil, errors.Validation("endTime", "range exceeds 30 days")
	}
	if start.After(m.now()) {
		return nil, errors.Validation("startTime", "must not be in the future")
	}
	for _, crossID := range cmd.CrossIDs {
		if err := protocol.CheckCrossID(crossID); err != nil {
			return nil, err
		}
	}

	task := &Task{
		TaskID:    uuid.NewString(),
		ObjName:   cmd.ObjName,
		CrossIDs:  cmd.CrossIDs,
		StartTime: start,
		EndTime:   end,
		CreatedAt: m.now(),
		status:    StatusPending,
	}
	m.tasks.Set(task.TaskID, task, m.retention)

	if err := m.pool.Submit(task); err != nil {
		task.transition(StatusFailed, err.Error())
		return nil, errors.Business(err, "retransmission queue saturated")
	}
	m.logger.Info("retransmission task accepted",
		"task_id", task.TaskID,
		"obj_name", task.ObjName,
		"crosses", len(task.CrossIDs))
	return task, nil
}

// Get returns a task by id.
func (m *Manager) Get(taskID string) (*Task, error) {
	task, ok := m.tasks.Get(taskID)
	if !ok {
		return nil, errors.NotFound("retransmission task", taskID)
	}
	return task, nil
}

// Cancel moves a not-yet-finished task to CANCELLED. Cancelling a finished
// task is not an error; the terminal state is kept.
func (m *Manager) Cancel(taskID string) error {
	task, err := m.Get(taskID)
	if err != nil {
		return err
	}
	if task.transition(StatusCancelled, "") {
		m.logger.Info("retransmission task cancelled", "task_id", taskID)
	}
	return nil
}

// Run is the worker pool processor: it replays the task's history in
// chronological batches. Cancellation is honored between batches.
func (m *Manager) Run(ctx context.Context, task *Task) error {
	if !task.transition(StatusRunning, "") {
		// Cancelled before a worker picked it up.
		return nil
	}

	objects, err := m.history.History(ctx, task.ObjName, task.CrossIDs, task.StartTime, task.EndTime)
	if err != nil {
		task.transition(StatusFailed, err.Error())
		return errors.Business(err, "history read failed")
	}

	for start := 0; start < len(objects); start += pushBatchSize {
		if task.cancelled() {
			return nil
		}
		if err := ctx.Err(); err != nil {
			task.transition(StatusFailed, err.Error())
			return err
		}
		end := min(start+pushBatchSize, len(objects))
		if err := m.push(ctx, objects[start:end]); err != nil {
			task.transition(StatusFailed, err.Error())
			return errors.Business(err, "retransmission push failed")
		}
	}

	task.transition(StatusCompleted, "")
	m.logger.Info("retransmission task completed",
		"task_id", task.TaskID,
		"objects", len(objects))
	return nil
}

// Result renders the wire DTO for a task.
func (m *Manager) Result(task *Task) model.RetransResult {
	return model.RetransResult{
		TaskID:  task.TaskID,
		ObjName: task.ObjName,
		Status:  string(task.Status()),
	}
}
