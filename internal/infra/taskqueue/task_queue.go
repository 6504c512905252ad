package taskqueue

import "context"

//go:generate mockgen -source=task_queue.go -destination=mock.go -package=taskqueue

// TaskQueue schedules notification deliveries at future instants and
// cancels ones that have not fired yet. Cancelling a task that already
// fired or never existed is not an error.
type TaskQueue interface {
	ScheduleNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error)
	CancelNotification(ctx context.Context, taskID string) error
}
