package ez

import (
	"errors"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"employee-portal/internal/domain"
	resp "employee-portal/internal/transport/http/response"
)

// EZ registers actions on a router group.
type EZ struct{ g gin.IRoutes }

func New(g gin.IRoutes) EZ { return EZ{g: g} }

type Binder string

const (
	BindJSON Binder = "json" // request body
	BindNone Binder = "none" // handler reads c.Param itself
)

// AErr carries the status and client-facing message of a failed action. Err
// is the cause; it is logged, never sent.
type AErr struct {
	Code   int
	Msg    string
	Err    error
	Fields []domain.FieldError
}

func (e *AErr) Error() string {
	if e.Msg != "" {
		return e.Msg
	}
	if e.Err != nil {
		return e.Err.Error()
	}
	return "action error"
}

func (e *AErr) Unwrap() error { return e.Err }

func BadRequest(msg string, fields ...domain.FieldError) error {
	return &AErr{Code: http.StatusBadRequest, Msg: msg, Fields: fields}
}
func NotFound(msg string) error { return &AErr{Code: http.StatusNotFound, Msg: msg} }
func Conflict(msg string, err error) error {
	return &AErr{Code: http.StatusConflict, Msg: msg, Err: err}
}
func Internal(msg string, err error) error {
	return &AErr{Code: http.StatusInternalServerError, Msg: msg, Err: err}
}

// Action describes one endpoint: I is the bound input, O the JSON output.
type Action[I any, O any] struct {
	Method     string
	Path       string
	Binder     Binder
	Status     int // success status, 200 when zero
	Middleware []gin.HandlerFunc
	Handler    func(c *gin.Context, in *I) (O, error)
}

func Register[I any, O any](e EZ, a Action[I, O]) {
	h := func(c *gin.Context) {
		var in I
		if a.Binder == BindJSON {
			if err := c.ShouldBindJSON(&in); err != nil {
				Abort(c, bindError(err))
				return
			}
		}

		out, err := a.Handler(c, &in)
		if err != nil {
			Abort(c, err)
			return
		}
		if c.Writer.Written() {
			return
		}
		status := a.Status
		if status == 0 {
			status = http.StatusOK
		}
		c.JSON(status, out)
	}

	handlers := append(append([]gin.HandlerFunc{}, a.Middleware...), h)
	e.g.Handle(strings.ToUpper(a.Method), a.Path, handlers...)
}

// Abort writes the error response for err. Anything that is not an *AErr is
// an internal error. 5xx causes are attached to the context for the access log.
func Abort(c *gin.Context, err error) {
	var ae *AErr
	if !errors.As(err, &ae) {
		ae = &AErr{Code: http.StatusInternalServerError, Err: err}
	}
	if ae.Code >= http.StatusInternalServerError {
		cause := ae.Err
		if cause == nil {
			cause = ae
		}
		_ = c.Error(cause)
	}
	if len(ae.Fields) > 0 {
		c.AbortWithStatusJSON(ae.Code, resp.Invalid(ae.Msg, ae.Fields))
		return
	}
	c.AbortWithStatusJSON(ae.Code, resp.Error(ae.Code, ae.Msg))
}

func bindError(err error) error {
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return &AErr{Code: http.StatusRequestEntityTooLarge, Err: err}
	}
	return BadRequest("Invalid request body", domain.FieldError{Field: "body", Rule: "json"})
}
