package safe

import (
	"context"
	"fmt"
	"io"
	"log/slog"

	"github.com/secmon-lab/riskatlas/pkg/utils/logging"
)

// Close closes closer and logs a failure with the logger of ctx. A nil
// closer is ignored. Use it in defer where the close error has no caller.
func Close(ctx context.Context, closer io.Closer) {
	if closer == nil {
		return
	}
	if err := closer.Close(); err != nil {
		logging.From(ctx).Warn("failed to close resource",
			slog.String("type", fmt.Sprintf("%T", closer)),
			slog.Any("error", err))
	}
}
