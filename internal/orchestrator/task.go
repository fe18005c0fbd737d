package orchestrator

import (
	"time"

	"github.com/google/uuid"
)

// TaskStatus is the lifecycle of one ledger entry.
type TaskStatus string

const (
	TaskPending   TaskStatus = "pending"
	TaskRunning   TaskStatus = "running"
	TaskCompleted TaskStatus = "completed"
	TaskFailed    TaskStatus = "failed"
)

// AgentTask is one write-once ledger entry for observability. After reaching
// a terminal status an entry is only ever read.
type AgentTask struct {
	ID          string     `json:"id"`
	Agent       string     `json:"agent"`
	Type        string     `json:"type"`
	Input       string     `json:"input"`
	Status      TaskStatus `json:"status"`
	Result      string     `json:"result,omitempty"`
	Error       string     `json:"error,omitempty"`
	StartedAt   *time.Time `json:"startedAt,omitempty"`
	CompletedAt *time.Time `json:"completedAt,omitempty"`
}

// startTask appends a new ledger entry and immediately marks it running.
// Callers must hold the orchestrator mutex.
func (o *Orchestrator) startTask(agent string, taskType string, input string) int {
	now := time.Now()
	o.tasks = append(o.tasks, AgentTask{
		ID:        uuid.NewString(),
		Agent:     agent,
		Type:      taskType,
		Input:     input,
		Status:    TaskRunning,
		StartedAt: &now,
	})
	return len(o.tasks) - 1
}

func (o *Orchestrator) completeTask(index int, result string) {
	now := time.Now()
	o.tasks[index].Status = TaskCompleted
	o.tasks[index].Result = result
	o.tasks[index].CompletedAt = &now
}

func (o *Orchestrator) failTask(index int, err error) {
	now := time.Now()
	o.tasks[index].Status = TaskFailed
	o.tasks[index].Error = err.Error()
	o.tasks[index].CompletedAt = &now
}
