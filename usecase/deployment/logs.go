package deployment

import (
	"context"
	"time"

	"github.com/yaegashi/imgappops/domain/model"
)

// LogsInput represents a command to fetch application console logs.
type LogsInput struct {
	Deployment *model.Deployment `json:"deployment"`
	// Since bounds how far back log lines are fetched.
	Since time.Duration `json:"since"`
	// Limit caps the number of returned lines.
	Limit int `json:"limit"`
}

// LogsOutput represents fetched console log lines.
type LogsOutput struct {
	Entries []model.LogEntry `json:"entries"`
}

// Logs fetches the application's recent console log lines from the logging
// workspace. Fails with model.ErrNoWorkspace when the deployment was
// provisioned without one.
func (u *UseCase) Logs(ctx context.Context, in *LogsInput) (*LogsOutput, error) {
	if in == nil || in.Deployment == nil {
		return nil, model.ErrDeploymentInvalid
	}

	since := in.Since
	if since <= 0 {
		since = time.Hour
	}
	limit := in.Limit
	if limit <= 0 {
		limit = 100
	}

	entries, err := u.Driver.Logs(ctx, in.Deployment, since, limit)
	if err != nil {
		return nil, err
	}

	return &LogsOutput{Entries: entries}, nil
}
