package taskqueue

import "time"

// NotificationTask is one scheduled reminder delivery. The JSON body is
// what the task queue POSTs to the push delivery service at fire time;
// routing fields stay out of the payload.
type NotificationTask struct {
	TaskID     string    `json:"-"`
	SessionID  string    `json:"-"`
	ScheduleAt time.Time `json:"-"`

	UserID string `json:"user_id"`
	Title  string `json:"title"`
	Body   string `json:"body"`
}

type TaskResponse struct {
	Name         string    `json:"name"`
	ScheduleTime time.Time `json:"schedule_time"`
	CreateTime   time.Time `json:"create_time"`
}

type localTaskRequest struct {
	Task localTask `json:"task"`
}

type localTask struct {
	Name         string           `json:"name,omitempty"`
	HTTPRequest  localHTTPRequest `json:"httpRequest"`
	ScheduleTime string           `json:"scheduleTime,omitempty"`
}

type localHTTPRequest struct {
	Body    string            `json:"body"`
	Headers map[string]string `json:"headers,omitempty"`
}

type localTaskResponse struct {
	Name         string `json:"name"`
	ScheduleTime string `json:"scheduleTime"`
	CreateTime   string `json:"createTime"`
}
