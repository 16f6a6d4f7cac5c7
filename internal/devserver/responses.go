package devserver

import (
	"context"
	"encoding/json"
	"net/http"

	pkgerrors "github.com/interiorhaus/catalog-admin/pkg/errors"
	"github.com/interiorhaus/catalog-admin/pkg/logger"
)

// successEnvelope reproduces the deployed backend's read envelope, which is
// one of the shapes the client tolerates.
type successEnvelope struct {
	Success bool `json:"success"`
	Data    any  `json:"data"`
}

type errorEnvelope struct {
	Success bool     `json:"success"`
	Error   apiError `json:"error"`
}

type apiError struct {
	Code    string `json:"code"`
	Message string `json:"message"`
	Details any    `json:"details,omitempty"`
}

func writeSuccess(w http.ResponseWriter, data any) {
	writeSuccessStatus(w, http.StatusOK, data)
}

func writeSuccessStatus(w http.ResponseWriter, status int, data any) {
	writeJSON(w, status, successEnvelope{Success: true, Data: data})
}

func writeError(ctx context.Context, logg *logger.Logger, w http.ResponseWriter, err error) {
	typed := pkgerrors.As(err)
	if typed == nil {
		typed = pkgerrors.Wrap(pkgerrors.CodeInternal, err, "unexpected error")
	}

	meta := pkgerrors.MetadataFor(typed.Code())
	message := meta.PublicMessage
	if m := typed.Message(); m != "" {
		message = m
	}

	payload := errorEnvelope{
		Error: apiError{
			Code:    string(typed.Code()),
			Message: message,
		},
	}
	if meta.DetailsAllowed {
		payload.Error.Details = typed.Details()
	}
	if meta.HTTPStatus >= http.StatusInternalServerError && logg != nil {
		logg.Error(ctx, "request failed", typed)
	}

	writeJSON(w, meta.HTTPStatus, payload)
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
