package repository

import (
	"time"

	"alert-srv/internal/model"
	"alert-srv/pkg/paginator"
)

// Filter is the storage-level query. Nil slices match everything.
type Filter struct {
	Statuses   []model.AlertStatus
	Severities []model.Severity
	Areas      []model.Area
	ExpiresBy  *time.Time // expiresAt <= ExpiresBy
	ExcludeIDs []string
}

type CreateOptions struct {
	Alert model.Alert
}

// ListOptions returns matches sorted by createdAt descending. Limit 0 means no limit.
type ListOptions struct {
	Filter Filter
	Limit  int
}

type GetOptions struct {
	Filter        Filter
	PaginateQuery paginator.PaginateQuery
}
