package aca

import (
	"context"
	"time"

	"github.com/yaegashi/imgappops/internal/logging"
)

// withMethodLogger implements the Span pattern for ACA driver logging.
// It emits a START log line and returns a context with logger attributes
// attached, plus a cleanup function to emit the END:OK or END:FAILED line.
//
// Usage:
//
//	ctx, cleanup := d.withMethodLogger(ctx, "Deploy")
//	defer func() { cleanup(err) }()
func (d *driver) withMethodLogger(ctx context.Context, method string) (context.Context, func(err error)) {
	startAt := time.Now()

	logger := logging.FromContext(ctx).With("driver", "ACA."+method)
	ctx = logging.WithLogger(ctx, logger)

	logger.Info(ctx, "ACA:"+method+":START")

	cleanup := func(err error) {
		elapsed := time.Since(startAt).Seconds()
		if err == nil {
			logger.Info(ctx, "ACA:"+method+":END:OK", "elapsed", elapsed)
			return
		}
		errStr := err.Error()
		if len(errStr) > 32 {
			errStr = errStr[:32] + "..."
		}
		logger.Warn(ctx, "ACA:"+method+":END:FAILED", "err", errStr, "elapsed", elapsed)
	}

	return ctx, cleanup
}
