package cmd

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/joelmartins/onsell-engine/pkg/persistence"
	"github.com/joelmartins/onsell-engine/pkg/persistence/memory"
	"github.com/joelmartins/onsell-engine/pkg/persistence/postgresql"
)

// NewPersistence selects the storage backend from the database URL scheme.
// An empty URL or the memory scheme selects the in-memory backend, which
// does not survive the process.
func NewPersistence(ctx context.Context, logger *slog.Logger, databaseURL string) persistence.Persistence {
	switch parsePersistenceProvider(databaseURL) {
	case "postgres", "postgresql":
		p, err := postgresql.NewPersistence(ctx, logger, databaseURL)
		if err != nil {
			panic(fmt.Errorf("failed to create PostgreSQL persistence: %w", err))
		}

		return p
	default:
		return memory.NewPersistence()
	}
}

func parsePersistenceProvider(databaseURL string) string {
	provider, _, found := strings.Cut(databaseURL, "://")
	if !found {
		return "memory"
	}

	return provider
}
