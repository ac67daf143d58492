package response

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-contrib/requestid"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/questevent/questevent-api/internal/service"
)

type Err struct {
	Err            error `json:"-"`
	HTTPStatusCode int   `json:"-"`

	StatusText string `json:"status"`
	ErrorText  string `json:"error,omitempty"`
	RequestID  string `json:"request_id,omitempty"`
}

func RenderErr(ctx *gin.Context, e *Err) {
	e.RequestID = requestid.Get(ctx)

	if e.HTTPStatusCode >= http.StatusInternalServerError {
		zap.L().Error("request failed",
			zap.String("request_id", e.RequestID),
			zap.String("path", ctx.FullPath()),
			zap.Error(e.Err),
		)
	}

	ctx.JSON(e.HTTPStatusCode, e)
}

func ErrBadRequest(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusBadRequest,
		StatusText:     "Bad request.",
		ErrorText:      err.Error(),
	}
}

func ErrUnauthenticated(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Unauthenticated.",
		ErrorText:      err.Error(),
	}
}

func ErrWrongCredentials(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusUnauthorized,
		StatusText:     "Wrong credentials.",
		ErrorText:      "email or password is incorrect",
	}
}

func ErrPermissionDenied(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusForbidden,
		StatusText:     "Permission denied.",
		ErrorText:      err.Error(),
	}
}

func ErrNotFound(resource, key string, value any) *Err {
	err := fmt.Errorf("%s with %s=%v not found", resource, key, value)

	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusNotFound,
		StatusText:     "Resource not found.",
		ErrorText:      err.Error(),
	}
}

func ErrConflict(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusConflict,
		StatusText:     "Conflict.",
		ErrorText:      err.Error(),
	}
}

func ErrServiceUnavailable(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusServiceUnavailable,
		StatusText:     "Temporarily unavailable, retry later.",
		ErrorText:      service.ErrTransientStorage.Error(),
	}
}

func ErrInternalServerError(err error) *Err {
	return &Err{
		Err:            err,
		HTTPStatusCode: http.StatusInternalServerError,
		StatusText:     "Internal server error.",
	}
}

// ErrFromService maps the service error taxonomy to a response. where names the
// failing call and is only used for logging unexpected errors.
func ErrFromService(where string, err error) *Err {
	switch {
	case errors.Is(err, service.ErrInvalidAmount),
		errors.Is(err, service.ErrInvalidProgramID),
		errors.Is(err, service.ErrInvalidProgramDates),
		errors.Is(err, service.ErrInvalidStatusTransition):
		return ErrBadRequest(unwrapSentinel(err))

	case errors.Is(err, service.ErrPermissionDenied),
		errors.Is(err, service.ErrJudgeNotAssigned),
		errors.Is(err, service.ErrNotRegistered):
		return ErrPermissionDenied(unwrapSentinel(err))

	case errors.Is(err, service.ErrUserNotFound),
		errors.Is(err, service.ErrProgramNotFound),
		errors.Is(err, service.ErrActivityNotFound),
		errors.Is(err, service.ErrSubmissionNotFound),
		errors.Is(err, service.ErrWalletNotFound):
		return &Err{
			Err:            err,
			HTTPStatusCode: http.StatusNotFound,
			StatusText:     "Resource not found.",
			ErrorText:      unwrapSentinel(err).Error(),
		}

	case errors.Is(err, service.ErrWalletAlreadyExists),
		errors.Is(err, service.ErrAlreadyRegistered),
		errors.Is(err, service.ErrProgramAlreadyCompleted),
		errors.Is(err, service.ErrSubmissionAlreadyReviewed),
		errors.Is(err, service.ErrSubmissionExists),
		errors.Is(err, service.ErrProfileAlreadyCompleted),
		errors.Is(err, service.ErrUserEmailExists):
		return ErrConflict(unwrapSentinel(err))

	case errors.Is(err, service.ErrTransientStorage):
		return ErrServiceUnavailable(fmt.Errorf("%s -> %w", where, err))
	}

	return ErrInternalServerError(fmt.Errorf("%s -> %w", where, err))
}

var sentinels = []error{
	service.ErrInvalidAmount,
	service.ErrInvalidProgramID,
	service.ErrInvalidProgramDates,
	service.ErrInvalidStatusTransition,
	service.ErrPermissionDenied,
	service.ErrJudgeNotAssigned,
	service.ErrNotRegistered,
	service.ErrUserNotFound,
	service.ErrProgramNotFound,
	service.ErrActivityNotFound,
	service.ErrSubmissionNotFound,
	service.ErrWalletNotFound,
	service.ErrWalletAlreadyExists,
	service.ErrAlreadyRegistered,
	service.ErrProgramAlreadyCompleted,
	service.ErrSubmissionAlreadyReviewed,
	service.ErrSubmissionExists,
	service.ErrProfileAlreadyCompleted,
	service.ErrUserEmailExists,
}

// unwrapSentinel hides the internal call chain from clients.
func unwrapSentinel(err error) error {
	for _, s := range sentinels {
		if errors.Is(err, s) {
			return s
		}
	}
	return err
}
