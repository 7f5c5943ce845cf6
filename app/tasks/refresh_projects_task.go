package tasks

import (
	"context"
	"fmt"
	"log/slog"
)

type RefreshProjectsTask struct {
	Task
	pipeline PipelineInterface
}

func NewRefreshProjectsTask(pipeline PipelineInterface) *RefreshProjectsTask {
	return &RefreshProjectsTask{
		Task:     NewTask(TaskTypeRefreshProjects),
		pipeline: pipeline,
	}
}

func (t *RefreshProjectsTask) Execute(ctx context.Context) error {
	select {
	case <-ctx.Done():
		return ctx.Err()
	default:
	}

	// The pipeline's daily gate makes repeated executions cheap: only the
	// first run of a calendar day does network work.
	if err := t.pipeline.Refresh(ctx); err != nil {
		return fmt.Errorf("failed to refresh projects: %w", err)
	}

	slog.Info("Task completed", "type", string(t.Type), "duration", t.GetDuration())
	return nil
}
