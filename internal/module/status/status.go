// Package status provides the health and version handlers referenced by
// services/status.toml.
package status

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/simp-lee/routekit/internal/catalog"
	"github.com/simp-lee/routekit/internal/pkg"
)

const pingTimeout = time.Second

// Module registers the status handlers.
type Module struct {
	db      *gorm.DB
	version string
}

// NewModule creates the status module. A nil db reports the database as
// unavailable.
func NewModule(db *gorm.DB, version string) *Module {
	return &Module{db: db, version: version}
}

// Register implements catalog.Module.
func (m *Module) Register(c *catalog.Catalog) {
	c.HandleFunc("status.health", m.Health)
	c.HandleFunc("status.version", m.Version)
}

// Health pings the database and answers 200 or 503.
func (m *Module) Health(c *gin.Context) error {
	dbStatus, status, code := "ok", "ok", http.StatusOK
	if err := m.ping(c.Request.Context()); err != nil {
		dbStatus, status, code = "error", "degraded", http.StatusServiceUnavailable
	}

	pkg.WriteResponse(c, code, gin.H{
		"status": status,
		"components": gin.H{
			"database": dbStatus,
		},
	}, nil)
	return nil
}

// Version reports the build version.
func (m *Module) Version(c *gin.Context) error {
	pkg.WriteResponse(c, http.StatusOK, gin.H{"version": m.version}, nil)
	return nil
}

func (m *Module) ping(ctx context.Context) error {
	if m.db == nil {
		return gorm.ErrInvalidDB
	}
	sqlDB, err := m.db.DB()
	if err != nil {
		return err
	}
	ctx, cancel := context.WithTimeout(ctx, pingTimeout)
	defer cancel()
	return sqlDB.PingContext(ctx)
}
