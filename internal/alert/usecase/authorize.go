package usecase

import (
	"alert-srv/internal/alert"
	"alert-srv/internal/alert/repository"
	"alert-srv/internal/model"
)

// scopedFilter turns a caller filter into a storage filter restricted to what sc may read.
// Every read path goes through here.
func scopedFilter(sc model.Scope, f alert.Filter) repository.Filter {
	status := f.Status
	if status == "" {
		status = model.StatusActive
	}
	rf := repository.Filter{
		Statuses: []model.AlertStatus{status},
		Areas:    sc.VisibleAreas(),
	}
	if f.Severity != "" {
		rf.Severities = []model.Severity{f.Severity}
	}
	if f.Area != "" {
		if sc.CanSee(f.Area) {
			rf.Areas = []model.Area{f.Area}
		} else {
			rf.Areas = []model.Area{}
		}
	}
	return rf
}
