// Package notes is a small CRUD service over domain.Note. Its routes are
// declared in services/notes.yaml; this package only contributes the named
// handlers.
package notes

import (
	"gorm.io/gorm"

	"github.com/simp-lee/routekit/internal/catalog"
)

// Module registers the note handlers in a catalog.
type Module struct {
	handler *Handler
}

// NewModule creates the notes module on db.
// Panics if db is nil.
func NewModule(db *gorm.DB) *Module {
	if db == nil {
		panic("notes.NewModule: db must not be nil")
	}
	return &Module{handler: NewHandler(NewService(db))}
}

// Register implements catalog.Module.
func (m *Module) Register(c *catalog.Catalog) {
	c.HandleFunc("notes.load", m.handler.Load)
	c.HandleFunc("notes.list", m.handler.List)
	c.HandleFunc("notes.get", m.handler.Get)
	c.HandleFunc("notes.create", m.handler.Create)
	c.HandleFunc("notes.update", m.handler.Update)
	c.HandleFunc("notes.delete", m.handler.Delete)
}
