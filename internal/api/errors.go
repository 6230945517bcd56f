package api

import (
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/labstack/echo/v4"

	"todo-api/internal/service"
)

// internalError carries the public message of an unexpected failure along
// with its cause, which only reaches clients in development mode.
type internalError struct {
	public string
	cause  error
}

func (e *internalError) Error() string {
	return fmt.Sprintf("%s: %v", e.public, e.cause)
}

func (e *internalError) Unwrap() error {
	return e.cause
}

// failed tags err with a public message unless it is a client error the
// error handler already knows how to report.
func failed(public string, err error) error {
	if service.IsValidation(err) || service.IsNotFound(err) {
		return err
	}
	return &internalError{public: public, cause: err}
}

// errorHandler maps handler errors onto status codes and JSON bodies.
func (s *Server) errorHandler(err error, c echo.Context) {
	if c.Response().Committed {
		return
	}

	status, body := s.classify(err, c)
	if status >= http.StatusInternalServerError {
		s.log.ErrorContext(c.Request().Context(), "request failed",
			"method", c.Request().Method,
			"path", c.Request().URL.Path,
			"error", err,
		)
	}

	var writeErr error
	if c.Request().Method == http.MethodHead {
		writeErr = c.NoContent(status)
	} else {
		writeErr = c.JSON(status, body)
	}
	if writeErr != nil {
		s.log.Warn("write error response", "error", writeErr)
	}
}

func (s *Server) classify(err error, c echo.Context) (int, ErrorResponse) {
	var (
		verr *service.ValidationError
		nf   *service.NotFoundError
		ie   *internalError
		he   *echo.HTTPError
	)
	switch {
	case errors.As(err, &verr):
		return http.StatusBadRequest, ErrorResponse{Error: verr.Message}
	case errors.As(err, &nf):
		return http.StatusNotFound, ErrorResponse{Error: nf.Error()}
	case errors.As(err, &ie):
		return http.StatusInternalServerError, s.internalBody(ie.public, ie.cause)
	case errors.As(err, &he):
		switch he.Code {
		case http.StatusNotFound, http.StatusMethodNotAllowed:
			return http.StatusNotFound, ErrorResponse{
				Error:   "Not found",
				Message: fmt.Sprintf("Route %s %s not found", c.Request().Method, c.Request().URL.Path),
			}
		case http.StatusInternalServerError:
			return he.Code, s.internalBody("Internal server error", he)
		default:
			return he.Code, ErrorResponse{Error: fmt.Sprint(he.Message)}
		}
	default:
		return http.StatusInternalServerError, s.internalBody("Internal server error", err)
	}
}

func (s *Server) internalBody(public string, cause error) ErrorResponse {
	body := ErrorResponse{Error: public}
	if s.dev && cause != nil {
		body.Message = cause.Error()
	}
	return body
}

var errInvalidBody = echo.NewHTTPError(http.StatusBadRequest, "Invalid request body")

// bindBody decodes a JSON request body into v. A body sent under any other
// media type is ignored and v stays zero.
func bindBody(c echo.Context, v any) error {
	ctype := strings.ToLower(c.Request().Header.Get(echo.HeaderContentType))
	if !strings.HasPrefix(ctype, echo.MIMEApplicationJSON) {
		return nil
	}
	if err := (&echo.DefaultBinder{}).BindBody(c, v); err != nil {
		return errInvalidBody
	}
	return nil
}
