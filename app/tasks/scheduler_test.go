package tasks

import (
	"context"
	"fmt"
	"sync"
	"testing"
	"time"
)

type fakePipeline struct {
	mu        sync.Mutex
	refreshes int
	err       error
}

func (f *fakePipeline) Refresh(ctx context.Context) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.refreshes++
	return f.err
}

func (f *fakePipeline) refreshCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.refreshes
}

func TestTask_RetryBookkeeping(t *testing.T) {
	task := NewTask(TaskTypeRefreshProjects)

	if task.ID == "" {
		t.Error("Expected task to get an ID")
	}
	if task.GetType() != TaskTypeRefreshProjects {
		t.Errorf("Unexpected task type: %s", task.GetType())
	}
	if task.GetRetryCount() != 0 {
		t.Errorf("Expected 0 retries initially, got %d", task.GetRetryCount())
	}
	if task.GetMaxRetries() != DefaultMaxRetries {
		t.Errorf("Expected max retries %d, got %d", DefaultMaxRetries, task.GetMaxRetries())
	}

	for i := 0; i < DefaultMaxRetries; i++ {
		if !task.CanRetry() {
			t.Fatalf("Expected CanRetry true at retry %d", i)
		}
		task.IncrementRetryCount()
	}
	if task.CanRetry() {
		t.Error("Expected CanRetry false after reaching max retries")
	}
}

func TestTask_Duration(t *testing.T) {
	task := NewTask(TaskTypeRefreshProjects)

	if task.GetDuration() != 0 {
		t.Error("Expected zero duration before Start")
	}

	task.Start()
	time.Sleep(10 * time.Millisecond)
	if task.GetDuration() <= 0 {
		t.Error("Expected positive duration after Start")
	}
}

func TestRefreshProjectsTask_Execute(t *testing.T) {
	pipeline := &fakePipeline{}
	task := NewRefreshProjectsTask(pipeline)
	task.Start()

	if err := task.Execute(context.Background()); err != nil {
		t.Fatalf("Execute failed: %v", err)
	}
	if pipeline.refreshCount() != 1 {
		t.Errorf("Expected 1 refresh, got %d", pipeline.refreshCount())
	}
}

func TestRefreshProjectsTask_PropagatesError(t *testing.T) {
	pipeline := &fakePipeline{err: fmt.Errorf("boom")}
	task := NewRefreshProjectsTask(pipeline)
	task.Start()

	if err := task.Execute(context.Background()); err == nil {
		t.Fatal("Expected error from failing pipeline")
	}
}

func TestRefreshProjectsTask_HonorsCancelledContext(t *testing.T) {
	pipeline := &fakePipeline{}
	task := NewRefreshProjectsTask(pipeline)

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	if err := task.Execute(ctx); err == nil {
		t.Fatal("Expected context error")
	}
	if pipeline.refreshCount() != 0 {
		t.Errorf("Expected no refresh with cancelled context, got %d", pipeline.refreshCount())
	}
}
