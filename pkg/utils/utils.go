package utils

import (
	"context"
	"runtime/debug"
	"time"

	"twstock-heatmap/pkg/logger"
)

// GoSafe runs fn in the calling goroutine, recovering from panics so a single
// bad category cannot take down the whole run.
func GoSafe(log *logger.Logger, fn func()) {
	defer func() {
		if r := recover(); r != nil {
			log.Error("Recovered from panic",
				logger.Field("panic", r),
				logger.StringField("stack", string(debug.Stack())),
			)
		}
	}()
	fn()
}

// ShouldContinue reports whether the context is still live, logging when it
// is not so loop exits are visible to operators.
func ShouldContinue(ctx context.Context, log *logger.Logger) bool {
	select {
	case <-ctx.Done():
		log.Info("Context cancelled, stopping", logger.ErrorField(ctx.Err()))
		return false
	default:
		return true
	}
}

// TimeNowUTC returns the current UTC time truncated to seconds, the precision
// used in output artifact timestamps.
func TimeNowUTC() time.Time {
	return time.Now().UTC().Truncate(time.Second)
}
