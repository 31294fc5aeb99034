package health

import (
	"context"
	"time"
)

const pingTimeout = 2 * time.Second

// Pinger is satisfied by *sql.DB.
type Pinger interface {
	PingContext(ctx context.Context) error
}

// Report is the health payload.
type Report struct {
	OK       bool   `json:"ok"`
	Database string `json:"database"`
}

// Service encapsulates health-related checks.
type Service struct {
	DB Pinger
}

// NewService constructs a new health service. A nil db reports the
// in-memory mode.
func NewService(db Pinger) *Service {
	return &Service{DB: db}
}

// Status reports liveness and database reachability. The service stays ok
// when the database is unreachable so load balancers do not cycle it.
func (s *Service) Status(ctx context.Context) Report {
	if s.DB == nil {
		return Report{OK: true, Database: "memory"}
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	if err := s.DB.PingContext(ctx); err != nil {
		return Report{OK: true, Database: "unreachable"}
	}
	return Report{OK: true, Database: "up"}
}
