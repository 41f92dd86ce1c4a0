package aca

import (
	"context"
	"fmt"
	"time"

	"github.com/yaegashi/imgappops/domain/model"
)

// statusTimeout bounds the read-only probe sequence.
const statusTimeout = 5 * time.Minute

// Status probes each resource kind without changing anything and reports
// the observed state plus the app endpoint when ingress is live.
func (d *driver) Status(ctx context.Context, dep *model.Deployment) (status *model.DeploymentStatus, err error) {
	ctx, cancel := context.WithTimeout(ctx, statusTimeout)
	defer cancel()
	ctx, cleanup := d.withMethodLogger(ctx, "Status")
	defer func() { cleanup(err) }()

	if dep == nil || dep.ResourceGroup == "" {
		return nil, fmt.Errorf("%w: resource group is required", model.ErrDeploymentInvalid)
	}
	if err = d.api.EnsureSession(ctx); err != nil {
		return nil, fmt.Errorf("Azure session is not valid, re-authenticate (az login) and retry: %w", err)
	}

	status = &model.DeploymentStatus{}
	add := func(kind, name string, present bool) {
		status.Resources = append(status.Resources, model.ResourceState{Kind: kind, Name: name, Present: present})
	}

	rgFound, err := d.api.GetResourceGroup(ctx, dep.ResourceGroup)
	if err != nil {
		return nil, fmt.Errorf("probe resource group: %w", err)
	}
	add("resource group", dep.ResourceGroup, rgFound)
	if !rgFound {
		// Everything else lives inside the group; report the rest as absent.
		if dep.Workspace != "" {
			add("log workspace", dep.Workspace, false)
		}
		if dep.Registry != "" {
			add("registry", dep.Registry, false)
		}
		add("environment", environmentName(dep.AppName), false)
		add("container app", dep.AppName, false)
		return status, nil
	}

	if dep.Workspace != "" {
		_, found, err := d.api.GetWorkspace(ctx, dep.ResourceGroup, dep.Workspace)
		if err != nil {
			return nil, fmt.Errorf("probe log workspace: %w", err)
		}
		add("log workspace", dep.Workspace, found)
	}

	// A synthesized registry name is random per deploy; only an explicit
	// name can be probed meaningfully.
	if dep.Registry != "" {
		_, found, err := d.api.GetRegistry(ctx, dep.ResourceGroup, dep.Registry)
		if err != nil {
			return nil, fmt.Errorf("probe registry: %w", err)
		}
		add("registry", dep.Registry, found)
	}

	envName := environmentName(dep.AppName)
	_, envFound, err := d.api.GetEnvironment(ctx, dep.ResourceGroup, envName)
	if err != nil {
		return nil, fmt.Errorf("probe environment: %w", err)
	}
	add("environment", envName, envFound)

	app, appFound, err := d.api.GetApp(ctx, dep.ResourceGroup, dep.AppName)
	if err != nil {
		return nil, fmt.Errorf("probe container app: %w", err)
	}
	add("container app", dep.AppName, appFound)
	if appFound && app.FQDN != "" {
		status.Endpoint = "https://" + app.FQDN
	}

	return status, nil
}
