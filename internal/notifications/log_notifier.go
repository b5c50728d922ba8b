package notifications

import (
	"context"
	"log/slog"
)

// LogNotifier stands in for an email provider and only writes the
// activation link to the log.
type LogNotifier struct {
	logger *slog.Logger
}

func NewLogNotifier(logger *slog.Logger) *LogNotifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) SendActivation(ctx context.Context, in ActivationInput) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	n.logger.InfoContext(ctx, "notification.activation",
		"email", in.Email,
		"name", in.Name,
		"link", in.ActivationPath(),
	)
	return nil
}
