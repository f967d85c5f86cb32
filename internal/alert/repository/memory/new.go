package memory

import (
	"sync"

	"alert-srv/internal/alert/repository"
	"alert-srv/internal/model"
	pkgLog "alert-srv/pkg/log"
)

// entry guards one alert. Its mutex serializes every write to that id.
type entry struct {
	mu    sync.Mutex
	alert model.Alert
}

type implRepository struct {
	l pkgLog.Logger

	mu     sync.RWMutex // guards the alerts index only
	alerts map[string]*entry
}

var _ repository.Repository = &implRepository{}

// New returns an in-process store. Records live for the lifetime of the process.
func New(l pkgLog.Logger) repository.Repository {
	return &implRepository{
		l:      l,
		alerts: make(map[string]*entry),
	}
}
