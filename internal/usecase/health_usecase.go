package usecase

import (
	"context"
	"time"
)

// Pinger is satisfied by *pgxpool.Pool and *redis.Client wrappers.
type Pinger interface {
	Ping(ctx context.Context) error
}

type HealthUsecase interface {
	Check(ctx context.Context) map[string]string
}

type healthUsecase struct {
	deps map[string]Pinger
}

// NewHealthUsecase reports "ok" plus the state of each named dependency.
func NewHealthUsecase(deps map[string]Pinger) HealthUsecase {
	return &healthUsecase{deps: deps}
}

func (u *healthUsecase) Check(ctx context.Context) map[string]string {
	out := map[string]string{"status": "ok"}
	for name, p := range u.deps {
		if p == nil {
			continue
		}
		pctx, cancel := context.WithTimeout(ctx, 2*time.Second)
		if err := p.Ping(pctx); err != nil {
			out[name] = "down"
			out["status"] = "degraded"
		} else {
			out[name] = "up"
		}
		cancel()
	}
	return out
}
