package aca

import (
	"context"
	"fmt"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"

	"github.com/yaegashi/imgappops/domain/model"
)

// logsTimeout bounds a workspace log query.
const logsTimeout = 2 * time.Minute

// Logs retrieves recent console log lines for the app from the Log
// Analytics workspace the environment is wired to.
func (d *driver) Logs(ctx context.Context, dep *model.Deployment, since time.Duration, limit int) (entries []model.LogEntry, err error) {
	ctx, cancel := context.WithTimeout(ctx, logsTimeout)
	defer cancel()
	ctx, cleanup := d.withMethodLogger(ctx, "Logs")
	defer func() { cleanup(err) }()

	if dep == nil || dep.ResourceGroup == "" {
		return nil, fmt.Errorf("%w: resource group is required", model.ErrDeploymentInvalid)
	}
	if dep.Workspace == "" {
		return nil, model.ErrNoWorkspace
	}
	if err = d.api.EnsureSession(ctx); err != nil {
		return nil, fmt.Errorf("Azure session is not valid, re-authenticate (az login) and retry: %w", err)
	}

	ws, found, err := d.api.GetWorkspace(ctx, dep.ResourceGroup, dep.Workspace)
	if err != nil {
		return nil, fmt.Errorf("probe log workspace: %w", err)
	}
	if !found {
		return nil, fmt.Errorf("log workspace %q does not exist in resource group %q", dep.Workspace, dep.ResourceGroup)
	}

	return d.api.QueryConsoleLogs(ctx, ws.CustomerID, dep.AppName, since, limit)
}

// QueryConsoleLogs runs the KQL query against the workspace. Container app
// console lines land in the ContainerAppConsoleLogs_CL custom table.
func (a *armAPI) QueryConsoleLogs(ctx context.Context, workspaceCustomerID, appName string, since time.Duration, limit int) ([]model.LogEntry, error) {
	query := fmt.Sprintf(
		`ContainerAppConsoleLogs_CL | where ContainerAppName_s == %q | order by TimeGenerated asc | project TimeGenerated, Log_s | take %d`,
		appName, limit)

	end := time.Now().UTC()
	start := end.Add(-since)
	timespan := azquery.NewTimeInterval(start, end)

	resp, err := a.logs.QueryWorkspace(ctx, workspaceCustomerID, azquery.Body{
		Query:    &query,
		Timespan: &timespan,
	}, nil)
	if err != nil {
		return nil, fmt.Errorf("query workspace logs: %w", err)
	}

	var entries []model.LogEntry
	for _, table := range resp.Tables {
		timeIdx, lineIdx := -1, -1
		for i, col := range table.Columns {
			if col.Name == nil {
				continue
			}
			switch *col.Name {
			case "TimeGenerated":
				timeIdx = i
			case "Log_s":
				lineIdx = i
			}
		}
		if timeIdx < 0 || lineIdx < 0 {
			continue
		}
		for _, row := range table.Rows {
			if len(row) <= timeIdx || len(row) <= lineIdx {
				continue
			}
			entry := model.LogEntry{}
			if s, ok := row[timeIdx].(string); ok {
				if ts, err := time.Parse(time.RFC3339Nano, s); err == nil {
					entry.Time = ts
				}
			}
			if s, ok := row[lineIdx].(string); ok {
				entry.Line = s
			}
			entries = append(entries, entry)
		}
	}
	return entries, nil
}
