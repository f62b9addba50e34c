package app

import (
	"fmt"

	"github.com/3-da/sharedbudget-backend/internal/platform/kvstore"
	"github.com/3-da/sharedbudget-backend/internal/platform/logger"
	"github.com/3-da/sharedbudget-backend/internal/platform/sendgrid"
)

type Clients struct {
	KV   kvstore.Store
	Mail sendgrid.Client
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")

	var kv kvstore.Store
	var err error
	switch cfg.KVBackend {
	case "memory":
		kv = kvstore.NewMemoryStore()
	case "redis":
		kv, err = kvstore.NewRedisStore(log)
		if err != nil {
			return Clients{}, fmt.Errorf("init redis: %w", err)
		}
	default:
		return Clients{}, fmt.Errorf("unknown KV_BACKEND %q", cfg.KVBackend)
	}

	mail, err := sendgrid.NewFromEnv(log)
	if err != nil {
		return Clients{}, fmt.Errorf("init sendgrid: %w", err)
	}

	return Clients{KV: kv, Mail: mail}, nil
}
