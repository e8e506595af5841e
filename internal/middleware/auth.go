package middleware

import (
	"context"
	"strings"

	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/router"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

// UserIDHeader carries the id of the user authenticated by the gateway in
// front of this service.
const UserIDHeader = "X-User-ID"

// ImportUserID copies the user id of the header to the request context.
func ImportUserID() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		userID := strings.TrimSpace(xcontext.HTTPRequest(ctx).Header.Get(UserIDHeader))
		if userID == "" {
			return ctx, nil
		}

		return xcontext.WithRequestUserID(ctx, userID), nil
	}
}

func Authenticate() router.MiddlewareFunc {
	return func(ctx context.Context) (context.Context, error) {
		if xcontext.RequestUserID(ctx) == "" {
			return ctx, errorx.New(errorx.Unauthenticated, "You need to authenticate before")
		}

		return ctx, nil
	}
}
