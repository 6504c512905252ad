//go:build !gcloud

package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/dosewatch/adherence/internal/config"
	"github.com/dosewatch/adherence/internal/infra/taskqueue"
	"github.com/dosewatch/adherence/internal/observability"
	"github.com/dosewatch/adherence/internal/observability/logging"
)

func initTaskQueue(_ context.Context, cfg *config.Config) (taskqueue.TaskQueue, func() error, error) {
	if cfg.TaskQueue.LocalTasksURL == "" {
		slog.Warn("LOCAL_TASKS_URL not set, reminder scheduling disabled")

		return nil, nil, nil
	}

	tq := taskqueue.NewLocalTasksClient(
		cfg.TaskQueue.LocalTasksURL,
		cfg.TaskQueue.QueueName,
		cfg.TaskQueue.MaxRetries,
	)

	slog.Info("task queue initialized",
		slog.String("type", "local_tasks"),
		slog.String("url", cfg.TaskQueue.LocalTasksURL),
		slog.String("queue", cfg.TaskQueue.QueueName),
	)

	return tq, nil, nil
}

func initObservability(ctx context.Context) (*observability.Resources, error) {
	serviceName := os.Getenv("SERVICE_NAME")
	if serviceName == "" {
		serviceName = "adherence"
	}

	env := logging.EnvDev
	if e := os.Getenv("ENV"); e != "" {
		env = logging.Environment(e)
	}

	obs, err := observability.Init(ctx, observability.Config{
		ServiceInfo: logging.ServiceInfo{
			Name:     serviceName,
			Version:  Version,
			Revision: "",
		},
		Environment:  env,
		GCPProjectID: "",
		SamplingRate: 1.0,
		LogLevel:     config.ParseLogLevel(os.Getenv("LOG_LEVEL")),
	})
	if err != nil {
		return nil, err
	}

	return obs, nil
}
