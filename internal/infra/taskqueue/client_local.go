//go:build !gcloud

package taskqueue

import (
	"bytes"
	"context"
	"encoding/base64"
	"encoding/json"
	"fmt"
	"log/slog"
	"math"
	"net/http"
	"time"
)

// LocalTasksClient targets the local tasks daemon used in development and
// self-hosted deployments. It mirrors the Cloud Tasks shape: base64 body,
// RFC3339 schedule time, delete-by-name cancellation.
type LocalTasksClient struct {
	baseURL    string
	queueName  string
	httpClient *http.Client
	maxRetries int
}

func NewLocalTasksClient(baseURL, queueName string, maxRetries int) *LocalTasksClient {
	if maxRetries <= 0 {
		maxRetries = 3
	}
	return &LocalTasksClient{
		baseURL:   baseURL,
		queueName: queueName,
		httpClient: &http.Client{
			Timeout: 30 * time.Second,
		},
		maxRetries: maxRetries,
	}
}

func (c *LocalTasksClient) ScheduleNotification(ctx context.Context, task *NotificationTask) (*TaskResponse, error) {
	payload, err := json.Marshal(task)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal notification task: %w", err)
	}

	localReq := localTaskRequest{
		Task: localTask{
			Name: task.TaskID,
			HTTPRequest: localHTTPRequest{
				Body: base64.StdEncoding.EncodeToString(payload),
				Headers: map[string]string{
					"Content-Type": "application/json",
				},
			},
		},
	}

	if !task.ScheduleAt.IsZero() {
		localReq.Task.ScheduleTime = task.ScheduleAt.Format(time.RFC3339)
	}

	reqBody, err := json.Marshal(localReq)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal local tasks request: %w", err)
	}

	url := c.tasksURL()

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying reminder registration",
				slog.String("task_id", task.TaskID),
				slog.String("session_id", task.SessionID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return nil, ctx.Err()
			case <-time.After(backoff):
			}
		}

		resp, err := c.doCreate(ctx, url, reqBody, task.TaskID, task.SessionID)
		if err == nil {
			return resp, nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for reminder registration",
		slog.String("task_id", task.TaskID),
		slog.String("session_id", task.SessionID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return nil, fmt.Errorf("failed to register task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *LocalTasksClient) doCreate(ctx context.Context, url string, reqBody []byte, taskID, sessionID string) (*TaskResponse, error) {
	slog.Debug("registering reminder to local tasks",
		slog.String("url", url),
		slog.String("task_id", taskID),
		slog.String("session_id", sessionID),
	)

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, url, bytes.NewReader(reqBody))
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send request to local tasks",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return nil, fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusCreated {
		slog.Warn("unexpected status code from local tasks",
			slog.String("task_id", taskID),
			slog.Int("status_code", resp.StatusCode),
		)
		return nil, fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	var localResp localTaskResponse
	if err := json.NewDecoder(resp.Body).Decode(&localResp); err != nil {
		return nil, fmt.Errorf("failed to decode response: %w", err)
	}

	scheduleTime, _ := time.Parse(time.RFC3339, localResp.ScheduleTime)
	createTime, _ := time.Parse(time.RFC3339, localResp.CreateTime)

	slog.Info("reminder registered to local tasks",
		slog.String("task_name", localResp.Name),
		slog.String("task_id", taskID),
		slog.String("session_id", sessionID),
	)

	return &TaskResponse{
		Name:         localResp.Name,
		ScheduleTime: scheduleTime,
		CreateTime:   createTime,
	}, nil
}

func (c *LocalTasksClient) CancelNotification(ctx context.Context, taskID string) error {
	url := fmt.Sprintf("%s/%s", c.tasksURL(), taskID)

	var lastErr error
	for attempt := 0; attempt < c.maxRetries; attempt++ {
		if attempt > 0 {
			backoff := time.Duration(math.Pow(2, float64(attempt-1))) * 100 * time.Millisecond
			slog.Debug("retrying reminder cancellation",
				slog.String("task_id", taskID),
				slog.Int("attempt", attempt+1),
				slog.Duration("backoff", backoff),
			)
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-time.After(backoff):
			}
		}

		err := c.doDelete(ctx, url, taskID)
		if err == nil {
			return nil
		}
		lastErr = err
	}

	slog.Error("all retries exhausted for reminder cancellation",
		slog.String("task_id", taskID),
		slog.Int("max_retries", c.maxRetries),
		slog.String("error", lastErr.Error()),
	)
	return fmt.Errorf("failed to cancel task after %d retries: %w", c.maxRetries, lastErr)
}

func (c *LocalTasksClient) doDelete(ctx context.Context, url, taskID string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, url, nil)
	if err != nil {
		return fmt.Errorf("failed to create request: %w", err)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		slog.Warn("failed to send cancellation to local tasks",
			slog.String("task_id", taskID),
			slog.String("error", err.Error()),
		)
		return fmt.Errorf("failed to send request: %w", err)
	}
	defer resp.Body.Close()

	if resp.StatusCode == http.StatusNotFound {
		slog.Info("task not found in local tasks (may have already fired)",
			slog.String("task_id", taskID),
		)
		return nil
	}

	if resp.StatusCode != http.StatusOK && resp.StatusCode != http.StatusNoContent {
		slog.Warn("unexpected status code from local tasks",
			slog.String("task_id", taskID),
			slog.Int("status_code", resp.StatusCode),
		)
		return fmt.Errorf("unexpected status code: %d", resp.StatusCode)
	}

	slog.Info("reminder cancelled in local tasks",
		slog.String("task_id", taskID),
	)
	return nil
}

func (c *LocalTasksClient) tasksURL() string {
	if c.queueName != "" && c.queueName != "default" {
		return fmt.Sprintf("%s/tasks/%s", c.baseURL, c.queueName)
	}
	return fmt.Sprintf("%s/tasks", c.baseURL)
}
