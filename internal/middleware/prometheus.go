package middleware

import (
	"context"
	"errors"
	"strconv"
	"time"

	"github.com/mushroomhunter/backend/internal/common"
	"github.com/mushroomhunter/backend/pkg/errorx"
	"github.com/mushroomhunter/backend/pkg/router"
	"github.com/mushroomhunter/backend/pkg/xcontext"
)

// Prometheus records every request by path and by error code, 0 means
// success and -1 an error without code.
func Prometheus() router.CloserFunc {
	return func(ctx context.Context) {
		code := 0
		if err := xcontext.Error(ctx); err != nil {
			code = -1
			var errx errorx.Error
			if errors.As(err, &errx) {
				code = int(errx.Code)
			}
		}

		labels := []string{xcontext.HTTPRequest(ctx).URL.Path, strconv.Itoa(code)}
		elapsed := time.Since(xcontext.StartTime(ctx)).Seconds()

		common.PromCounters[common.HTTPRequestTotal].WithLabelValues(labels...).Inc()
		common.PromHistograms[common.HTTPRequestDurationSeconds].WithLabelValues(labels...).Observe(elapsed)
	}
}
