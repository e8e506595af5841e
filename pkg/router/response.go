package router

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"

	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

type response struct {
	Code  int64  `json:"code"`
	Error string `json:"error,omitempty"`
	Data  any    `json:"data,omitempty"`
}

func newErrorResponse(err error) response {
	var errx errorx.Error
	if errors.As(err, &errx) {
		return response{Code: int64(errx.Code), Error: errx.Message}
	}

	return response{Code: int64(errorx.Unknown.Code), Error: errorx.Unknown.Message}
}

func writeResponse(ctx context.Context, data any) {
	if err := WriteJson(xcontext.HTTPWriter(ctx), http.StatusOK, response{Data: data}); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func writeError(ctx context.Context, err error) {
	status := http.StatusOK
	if errorx.Is(err, errorx.TooManyRequests) {
		status = http.StatusTooManyRequests
	}

	if err := WriteJson(xcontext.HTTPWriter(ctx), status, newErrorResponse(err)); err != nil {
		xcontext.Logger(ctx).Errorf("Cannot write the response: %v", err)
	}
}

func WriteJson(w http.ResponseWriter, status int, resp any) error {
	b, err := json.Marshal(resp)
	if err != nil {
		return err
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, err = w.Write(b)
	return err
}
