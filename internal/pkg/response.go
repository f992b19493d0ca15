package pkg

import (
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"net/http"
	"reflect"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"
	pkgerrors "github.com/pkg/errors"

	"github.com/simp-lee/routekit/internal/domain"
)

const (
	// InvalidCallMessage is returned for requests that match no registered route.
	InvalidCallMessage = "Invalid use of API. Please check that you have included all the required parameters in your call."
	// ShieldMessage replaces the details of any request-time failure.
	ShieldMessage = "Something went terribly wrong"
)

// ErrorDetail carries the client-visible part of an error.
type ErrorDetail struct {
	Message string `json:"message"`
}

// ErrorResponse is the JSON envelope for every error payload.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

// ValidationErrorResponse is the JSON envelope for binding validation failures.
type ValidationErrorResponse struct {
	Error  ErrorDetail       `json:"error"`
	Fields map[string]string `json:"fields"`
}

// HandlerFunc is a handler that reports failure by returning an error.
type HandlerFunc func(c *gin.Context) error

// WriteResponse sets the status and writes data. When err is non-nil it is
// encoded explicitly as an ErrorResponse instead of data; AppErrors only
// expose their message, never the wrapped cause.
func WriteResponse(c *gin.Context, status int, data any, err error) {
	if err != nil {
		body, mErr := json.Marshal(ErrorResponse{Error: ErrorDetail{Message: clientMessage(err)}})
		if mErr != nil {
			body = []byte(`{"error":{"message":"` + ShieldMessage + `"}}`)
		}
		c.Data(status, "application/json; charset=utf-8", body)
		return
	}

	switch v := data.(type) {
	case nil:
		c.Status(status)
	case string:
		c.String(status, "%s", v)
	case []byte:
		c.Data(status, "application/octet-stream", v)
	default:
		c.JSON(status, v)
	}
}

func clientMessage(err error) string {
	var appErr *domain.AppError
	if errors.As(err, &appErr) {
		return appErr.Message
	}
	return err.Error()
}

// Error writes err with the status derived from its domain code.
func Error(c *gin.Context, err error) {
	WriteResponse(c, domain.HTTPStatusCode(err), nil, err)
}

// LogFailure writes one diagnostic record carrying the error message and,
// when available, the stack captured by github.com/pkg/errors.
func LogFailure(logger *slog.Logger, err error) {
	if err == nil {
		return
	}
	if logger == nil {
		logger = slog.Default()
	}
	logger.Error("request failed",
		slog.String("error", err.Error()),
		slog.String("stack", stackOf(err)),
	)
}

type stackTracer interface {
	StackTrace() pkgerrors.StackTrace
}

// stackOf returns the deepest recorded stack in err's chain.
func stackOf(err error) string {
	var stack string
	for e := err; e != nil; e = errors.Unwrap(e) {
		if st, ok := e.(stackTracer); ok {
			stack = fmt.Sprintf("%+v", st.StackTrace())
		}
	}
	return strings.TrimSpace(stack)
}

// ShieldClientFromError answers with a generic 500 payload that hides err,
// then records err on the context for the logging stage. Nothing is written
// when a response already went out, and err is recorded at most once.
func ShieldClientFromError(c *gin.Context, err error) {
	if err == nil {
		return
	}
	if !c.Writer.Written() {
		c.AbortWithStatusJSON(http.StatusInternalServerError, ErrorResponse{Error: ErrorDetail{Message: ShieldMessage}})
	} else {
		c.Abort()
	}
	for _, e := range c.Errors {
		if errors.Is(e.Err, err) {
			return
		}
	}
	_ = c.Error(err)
}

// RejectInvalidCall answers with the fixed 400 payload for malformed API use.
func RejectInvalidCall(c *gin.Context) {
	c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Message: InvalidCallMessage}})
}

// WrapAsync adapts fn to a gin.HandlerFunc. A returned error or a panic is
// recorded once on the context with a stack attached and the remaining chain
// is aborted; the error stages decide what the client sees.
func WrapAsync(fn HandlerFunc) gin.HandlerFunc {
	return func(c *gin.Context) {
		err := invoke(fn, c)
		if err == nil {
			return
		}
		if _, ok := err.(stackTracer); !ok {
			err = pkgerrors.WithStack(err)
		}
		_ = c.Error(err)
		c.Abort()
	}
}

func invoke(fn HandlerFunc, c *gin.Context) (err error) {
	defer func() {
		if r := recover(); r != nil {
			if e, ok := r.(error); ok {
				err = pkgerrors.Wrap(e, "panic")
				return
			}
			err = pkgerrors.Errorf("panic: %v", r)
		}
	}()
	return fn(c)
}

// ValidationError sends a 400 JSON response with per-field validation error details.
func ValidationError(c *gin.Context, err error) {
	validationErrorWithType(c, err, nil)
}

// BindAndValidate binds the request body to obj and validates it.
// On failure it sends a ValidationError response and returns false.
//
//	if !pkg.BindAndValidate(c, &req) { return nil }
func BindAndValidate(c *gin.Context, obj any) bool {
	if err := c.ShouldBind(obj); err != nil {
		validationErrorWithType(c, err, obj)
		return false
	}
	return true
}

func validationErrorWithType(c *gin.Context, err error, obj any) {
	var ve validator.ValidationErrors
	if !errors.As(err, &ve) {
		c.AbortWithStatusJSON(http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{Message: err.Error()}})
		return
	}

	jsonTags := buildJSONTagMap(obj)

	fieldErrors := make(map[string]string, len(ve))
	for _, fe := range ve {
		name := fe.Field()
		if tag, ok := jsonTags[fe.StructField()]; ok {
			name = tag
		} else {
			name = strings.ToLower(name)
		}
		msg := fe.Tag()
		if fe.Param() != "" {
			msg += "=" + fe.Param()
		}
		fieldErrors[name] = msg
	}

	c.AbortWithStatusJSON(http.StatusBadRequest, ValidationErrorResponse{
		Error:  ErrorDetail{Message: "validation error"},
		Fields: fieldErrors,
	})
}

// buildJSONTagMap returns a map from struct field name to its JSON tag name.
func buildJSONTagMap(obj any) map[string]string {
	if obj == nil {
		return nil
	}
	t := reflect.TypeOf(obj)
	for t.Kind() == reflect.Ptr {
		t = t.Elem()
	}
	if t.Kind() != reflect.Struct {
		return nil
	}
	m := make(map[string]string, t.NumField())
	for i := 0; i < t.NumField(); i++ {
		f := t.Field(i)
		name, _, _ := strings.Cut(f.Tag.Get("json"), ",")
		if name != "" && name != "-" {
			m[f.Name] = name
		}
	}
	return m
}
