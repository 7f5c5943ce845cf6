package api

import (
	"context"

	"github.com/ostrends/trends/app/projects"
)

type PipelineService interface {
	Refresh(ctx context.Context) error
	Projects() []projects.Project
	SortBy(mode projects.SortMode) []projects.Project
	LastRefreshDate() string
}

type Handler struct {
	pipeline   PipelineService
	categories []projects.Category
}
