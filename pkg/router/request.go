package router

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/go-playground/validator/v10"
	"github.com/mitchellh/mapstructure"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

var validate = validator.New()

func parseRequest[Request any](ctx context.Context, method string) (*Request, error) {
	req := new(Request)
	httpReq := xcontext.HTTPRequest(ctx)

	switch method {
	case http.MethodGet:
		query := map[string]any{}
		for k, v := range httpReq.URL.Query() {
			if len(v) > 0 {
				query[k] = v[0]
			}
		}

		decoder, err := mapstructure.NewDecoder(&mapstructure.DecoderConfig{
			TagName:          "json",
			WeaklyTypedInput: true,
			Result:           req,
		})
		if err != nil {
			xcontext.Logger(ctx).Errorf("Cannot create query decoder: %v", err)
			return nil, errorx.Unknown
		}

		if err := decoder.Decode(query); err != nil {
			return nil, errorx.New(errorx.BadRequest, "Invalid query: %v", err)
		}

	case http.MethodPost:
		b, err := io.ReadAll(httpReq.Body)
		if err != nil {
			return nil, errorx.New(errorx.BadRequest, "Cannot read body")
		}

		if len(b) > 0 {
			if err := json.Unmarshal(b, req); err != nil {
				return nil, errorx.New(errorx.BadRequest, "Invalid json body: %v", err)
			}
		}

	default:
		return nil, errorx.New(errorx.NotImplemented, "Unsupported method %s", method)
	}

	if err := validate.StructCtx(ctx, req); err != nil {
		var invalid *validator.InvalidValidationError
		if errors.As(err, &invalid) {
			xcontext.Logger(ctx).Errorf("Cannot validate request: %v", err)
			return nil, errorx.Unknown
		}

		return nil, errorx.New(errorx.BadRequest, "Invalid request: %s", describe(err))
	}

	return req, nil
}

func describe(err error) string {
	var errs validator.ValidationErrors
	if !errors.As(err, &errs) {
		return err.Error()
	}

	fields := make([]string, 0, len(errs))
	for _, e := range errs {
		fields = append(fields, fmt.Sprintf("%s (%s)", e.Field(), e.Tag()))
	}

	return strings.Join(fields, ", ")
}
