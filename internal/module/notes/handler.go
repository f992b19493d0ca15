package notes

import (
	"fmt"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"github.com/simp-lee/routekit/internal/domain"
	"github.com/simp-lee/routekit/internal/pkg"
)

const noteContextKey = "note"

// CreateNoteRequest is the body of a create call.
type CreateNoteRequest struct {
	Title string `json:"title" form:"title" binding:"required,max=200"`
	Body  string `json:"body" form:"body" binding:"max=10000"`
}

// UpdateNoteRequest is the body of an update call.
type UpdateNoteRequest struct {
	Title string `json:"title" form:"title" binding:"required,max=200"`
	Body  string `json:"body" form:"body" binding:"max=10000"`
}

// Handler serves the note endpoints. Every method is a pkg.HandlerFunc:
// client errors are answered directly, anything else is returned and ends
// up behind the generic 500 payload.
type Handler struct {
	svc *Service
}

// NewHandler creates a Handler.
func NewHandler(svc *Service) *Handler {
	return &Handler{svc: svc}
}

// Load resolves :id and stores the note on the context for the next handler
// in the chain.
func (h *Handler) Load(c *gin.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, err)
	}
	note, err := h.svc.Get(c.Request.Context(), id)
	if err != nil {
		return respond(c, err)
	}
	c.Set(noteContextKey, note)
	return nil
}

// Get writes the note loaded by Load, or loads it itself when used alone.
func (h *Handler) Get(c *gin.Context) error {
	if v, ok := c.Get(noteContextKey); ok {
		if note, ok := v.(*domain.Note); ok {
			pkg.WriteResponse(c, http.StatusOK, note, nil)
			return nil
		}
	}
	if err := h.Load(c); err != nil || c.IsAborted() {
		return err
	}
	return h.Get(c)
}

func (h *Handler) List(c *gin.Context) error {
	result, err := h.svc.List(c.Request.Context(), pkg.ParsePageRequest(c))
	if err != nil {
		return respond(c, err)
	}
	pkg.WriteResponse(c, http.StatusOK, result, nil)
	return nil
}

func (h *Handler) Create(c *gin.Context) error {
	var req CreateNoteRequest
	if !pkg.BindAndValidate(c, &req) {
		return nil
	}
	note, err := h.svc.Create(c.Request.Context(), req.Title, req.Body)
	if err != nil {
		return respond(c, err)
	}
	pkg.WriteResponse(c, http.StatusCreated, note, nil)
	return nil
}

func (h *Handler) Update(c *gin.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, err)
	}
	var req UpdateNoteRequest
	if !pkg.BindAndValidate(c, &req) {
		return nil
	}
	note, err := h.svc.Update(c.Request.Context(), id, req.Title, req.Body)
	if err != nil {
		return respond(c, err)
	}
	pkg.WriteResponse(c, http.StatusOK, note, nil)
	return nil
}

func (h *Handler) Delete(c *gin.Context) error {
	id, err := parseID(c)
	if err != nil {
		return respond(c, err)
	}
	if err := h.svc.Delete(c.Request.Context(), id); err != nil {
		return respond(c, err)
	}
	pkg.WriteResponse(c, http.StatusNoContent, nil, nil)
	return nil
}

// respond answers not-found and validation errors and aborts the chain.
// Other errors are returned unchanged for the error stages.
func respond(c *gin.Context, err error) error {
	if domain.IsNotFound(err) || domain.IsValidation(err) {
		pkg.Error(c, err)
		c.Abort()
		return nil
	}
	return err
}

func parseID(c *gin.Context) (uint, error) {
	idStr := c.Param("id")
	id, err := strconv.ParseUint(idStr, 10, 64)
	if err != nil || id == 0 || id > uint64(^uint(0)) {
		return 0, domain.NewAppError(domain.CodeValidation, fmt.Sprintf("invalid id: %s", idStr), nil)
	}
	return uint(id), nil
}
