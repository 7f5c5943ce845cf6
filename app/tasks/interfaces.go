package tasks

import (
	"context"
)

type PipelineInterface interface {
	Refresh(ctx context.Context) error
}

type TaskSchedulerInterface interface {
	Start()
	Stop()
	EnqueueTask(task TaskInterface) error
}
