package v1

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/go-playground/validator/v10"

	"github.com/yungbote/medqa-backend/internal/platform/apierr"
	"github.com/yungbote/medqa-backend/internal/platform/ctxutil"
	"github.com/yungbote/medqa-backend/internal/platform/logger"
	"github.com/yungbote/medqa-backend/internal/qa"
)

type errorEnvelope struct {
	Error errorBody `json:"error"`
}

type errorBody struct {
	Message string `json:"message"`
	Code    string `json:"code,omitempty"`
	Param   string `json:"param,omitempty"`
}

func WriteError(c *gin.Context, status int, message string, code string, param string) {
	msg := strings.TrimSpace(message)
	if msg == "" {
		msg = http.StatusText(status)
	}
	c.AbortWithStatusJSON(status, errorEnvelope{
		Error: errorBody{
			Message: msg,
			Code:    strings.TrimSpace(code),
			Param:   strings.TrimSpace(param),
		},
	})
}

// toAPIError maps core errors onto the HTTP error taxonomy.
func toAPIError(err error) *apierr.Error {
	var (
		ae       *apierr.Error
		failure  *qa.Failure
		tooLarge *http.MaxBytesError
	)
	switch {
	case errors.As(err, &ae):
		return ae
	case errors.Is(err, qa.ErrEmptyQuestion):
		return apierr.BadRequest("empty_input", "question", err)
	case errors.Is(err, qa.ErrNoAudio):
		return apierr.BadRequest("no_audio", "frames", err)
	case errors.As(err, &failure):
		return apierr.BadGateway(errors.New(failure.Message()))
	case errors.As(err, &tooLarge):
		return apierr.New(http.StatusRequestEntityTooLarge, "request_too_large",
			fmt.Errorf("request body exceeds %d bytes", tooLarge.Limit))
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return apierr.New(http.StatusServiceUnavailable, "request_canceled", err)
	default:
		return apierr.New(http.StatusInternalServerError, "internal_error", err)
	}
}

// bindError classifies a gin binding failure. Missing or blank required
// strings are empty input, everything else is a malformed request.
func bindError(err error) *apierr.Error {
	var verrs validator.ValidationErrors
	if errors.As(err, &verrs) && len(verrs) > 0 {
		fe := verrs[0]
		switch fe.Tag() {
		case "required", "notblank":
			return apierr.BadRequest("empty_input", fe.Field(), qa.ErrEmptyQuestion)
		default:
			return apierr.BadRequest("invalid_request", fe.Field(),
				fmt.Errorf("%s failed %s validation", fe.Field(), fe.Tag()))
		}
	}
	var tooLarge *http.MaxBytesError
	if errors.As(err, &tooLarge) {
		return toAPIError(err)
	}
	return apierr.BadRequest("invalid_request", "", fmt.Errorf("invalid request body: %w", err))
}

func respondError(c *gin.Context, log *logger.Logger, err error) {
	ae := toAPIError(err)
	if ae.Status >= 500 {
		log.Error("Request failed",
			"request_id", ctxutil.RequestID(c.Request.Context()),
			"code", ae.Code,
			"error", err,
		)
	}
	WriteError(c, ae.Status, ae.Error(), ae.Code, ae.Param)
}
