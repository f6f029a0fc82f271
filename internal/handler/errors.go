package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/labstack/echo/v4"
	"github.com/zizouhuweidi/trivia/internal/domain"
)

// ErrMalformedBody is returned when a request body is missing or is not a JSON object
var ErrMalformedBody = errors.New("malformed request body")

var errorMessages = map[int]string{
	http.StatusBadRequest:          "Bad Request",
	http.StatusNotFound:            "Resource not Found",
	http.StatusMethodNotAllowed:    "Method not Allowed",
	http.StatusUnprocessableEntity: "Unprocessable",
	http.StatusInternalServerError: "Server Error",
}

// ErrorResponse is the body of every failed request
type ErrorResponse struct {
	Success bool   `json:"success"`
	Error   int    `json:"error"`
	Message string `json:"message"`
}

// NewErrorHandler returns the echo error handler that renders every failure
// as an ErrorResponse
func NewErrorHandler(log *slog.Logger) echo.HTTPErrorHandler {
	return func(err error, c echo.Context) {
		if c.Response().Committed {
			return
		}

		code := statusCode(err)
		attrs := []any{
			slog.String("method", c.Request().Method),
			slog.String("uri", c.Request().RequestURI),
			slog.Int("status", code),
			slog.Any("error", err),
		}
		switch {
		case code >= http.StatusInternalServerError:
			log.Error("request failed", attrs...)
		case code == http.StatusUnprocessableEntity:
			log.Warn("request failed", attrs...)
		}

		var werr error
		if c.Request().Method == http.MethodHead {
			werr = c.NoContent(code)
		} else {
			werr = c.JSON(code, ErrorResponse{
				Success: false,
				Error:   code,
				Message: errorMessages[code],
			})
		}
		if werr != nil {
			log.Error("failed to write error response", slog.Any("error", werr))
		}
	}
}

func statusCode(err error) int {
	var code int
	var he *echo.HTTPError

	switch {
	case errors.As(err, &he):
		code = he.Code
	case errors.Is(err, ErrMalformedBody):
		code = http.StatusInternalServerError
	case errors.Is(err, domain.ErrNotFound):
		code = http.StatusNotFound
	case errors.Is(err, domain.ErrInvalidInput):
		code = http.StatusBadRequest
	default:
		code = http.StatusInternalServerError
	}

	if _, ok := errorMessages[code]; ok {
		return code
	}
	if code < http.StatusInternalServerError {
		return http.StatusBadRequest
	}
	return http.StatusInternalServerError
}

// unprocessable reports every failure except a malformed body as 422
func unprocessable(err error) error {
	if err == nil || errors.Is(err, ErrMalformedBody) {
		return err
	}
	return echo.NewHTTPError(http.StatusUnprocessableEntity).SetInternal(err)
}
