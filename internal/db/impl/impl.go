package impl

import (
	"github.com/rs/zerolog/log"
	"github.com/sidereusnuntius/filecat/internal/catalog"
	"github.com/sidereusnuntius/filecat/internal/db"
)

type dbImpl struct {
	catalog catalog.Catalog
	graph   string
}

// New returns the file record repository. Every statement is scoped to the named graph g.
func New(c catalog.Catalog, g string) db.DB {
	return &dbImpl{
		catalog: c,
		graph:   g,
	}
}

// HandleError logs a catalog error and returns it unchanged, so that callers can still tell malformed
// requests from transient failures.
func (d *dbImpl) HandleError(err error) error {
	if err == nil {
		return nil
	}
	if catalog.IsTransient(err) {
		log.Warn().Err(err).Msg("catalog request failed")
	} else {
		log.Error().Err(err).Msg("catalog request failed")
	}
	return err
}
