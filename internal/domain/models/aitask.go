package models

import "time"

// AITaskQueued is the only status this server ever writes. Tasks are
// recorded for later processing by an external worker; nothing in this
// codebase dequeues them.
const AITaskQueued = "queued"

type AITask struct {
	ID        string    `json:"id" db:"id"`
	TenantID  string    `json:"tenant_id" db:"tenant_id"`
	TreeID    *string   `json:"tree_id" db:"tree_id"`
	PersonID  *string   `json:"person_id" db:"person_id"`
	Status    string    `json:"status" db:"status"`
	Provider  string    `json:"provider" db:"provider"`
	TaskType  string    `json:"task_type" db:"task_type"`
	Payload   *string   `json:"payload" db:"payload"`
	Result    *string   `json:"result" db:"result"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
