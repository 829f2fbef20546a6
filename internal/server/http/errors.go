package http

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/termblocks/checklist/internal/common"
	"github.com/termblocks/checklist/internal/logging"
)

// errMalformed marks requests that could not be decoded.
var errMalformed = errors.New("malformed request")

type errorBody struct {
	Detail string `json:"detail"`
}

type okBody struct {
	OK bool `json:"ok"`
}

func writeJSON(ctx context.Context, w http.ResponseWriter, logger logging.Logger, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Warn(ctx, "write response", "error", err)
	}
}

func isMaxBytes(err error) bool {
	var tooBig *http.MaxBytesError
	return errors.As(err, &tooBig)
}

// statusOf maps a service error to an HTTP status and a client-facing
// message. Unknown errors never leak their text.
func statusOf(err error) (int, string) {
	switch {
	case isMaxBytes(err):
		return http.StatusBadRequest, common.ErrorFileTooLarge.Error()
	case errors.Is(err, common.ErrorNotFound):
		return http.StatusNotFound, err.Error()
	case errors.Is(err, common.ErrorDenied):
		return http.StatusForbidden, err.Error()
	case errors.Is(err, common.ErrorRejected),
		errors.Is(err, common.ErrorIncorrectArgument),
		errors.Is(err, errMalformed):
		return http.StatusBadRequest, err.Error()
	default:
		return http.StatusInternalServerError, common.ErrorInternal.Error()
	}
}

func writeError(ctx context.Context, w http.ResponseWriter, logger logging.Logger, err error) {
	status, detail := statusOf(err)
	if status == http.StatusInternalServerError {
		logger.Error(ctx, "request failed", "error", err)
	}
	writeJSON(ctx, w, logger, status, errorBody{Detail: detail})
}
