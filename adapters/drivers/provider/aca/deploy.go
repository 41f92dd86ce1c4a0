package aca

import (
	"context"
	"fmt"
	"strings"
	"time"

	providerdrv "github.com/yaegashi/imgappops/adapters/drivers/provider"
	"github.com/yaegashi/imgappops/domain/model"
	"github.com/yaegashi/imgappops/internal/logging"
)

// deployTimeout bounds a full provisioning run including the image build.
const deployTimeout = 30 * time.Minute

// Deploy converges the subscription to the deployment target state:
// resource group, optional logging workspace, registry, image build,
// managed environment, container app, and the AcrPull grant for the app's
// system identity. Every creation step is probe-gated; the image build runs
// unconditionally. Nothing is rolled back on failure, a re-run continues
// from wherever the previous one stopped.
func (d *driver) Deploy(ctx context.Context, dep *model.Deployment) (result *providerdrv.DeployResult, err error) {
	ctx, cancel := context.WithTimeout(ctx, deployTimeout)
	defer cancel()
	ctx, cleanup := d.withMethodLogger(ctx, "Deploy")
	defer func() { cleanup(err) }()

	if err = validateDeployment(dep); err != nil {
		return nil, err
	}
	if err = d.api.EnsureSession(ctx); err != nil {
		return nil, fmt.Errorf("Azure session is not valid, re-authenticate (az login) and retry: %w", err)
	}

	log := logging.FromContext(ctx)

	// Resource group
	_, _, err = ensureResource(ctx, "resource group", dep.ResourceGroup,
		func(ctx context.Context) (struct{}, bool, error) {
			found, err := d.api.GetResourceGroup(ctx, dep.ResourceGroup)
			return struct{}{}, found, err
		},
		func(ctx context.Context) (struct{}, error) {
			return struct{}{}, d.api.CreateResourceGroup(ctx, dep.ResourceGroup, dep.Location)
		})
	if err != nil {
		return nil, err
	}

	// Logging workspace (optional; skipped entirely when no name was given)
	var ws *workspaceInfo
	if dep.Workspace != "" {
		ws, _, err = ensureResource(ctx, "log workspace", dep.Workspace,
			func(ctx context.Context) (*workspaceInfo, bool, error) {
				return d.api.GetWorkspace(ctx, dep.ResourceGroup, dep.Workspace)
			},
			func(ctx context.Context) (*workspaceInfo, error) {
				return d.api.CreateWorkspace(ctx, dep.ResourceGroup, dep.Workspace, dep.Location)
			})
		if err != nil {
			return nil, err
		}
		ws.SharedKey, err = d.api.WorkspaceSharedKey(ctx, dep.ResourceGroup, dep.Workspace)
		if err != nil {
			return nil, fmt.Errorf("get workspace shared key: %w", err)
		}
	}

	// Container registry
	regName := registryName(dep.Registry, dep.AppName)
	reg, _, err := ensureResource(ctx, "registry", regName,
		func(ctx context.Context) (*registryInfo, bool, error) {
			return d.api.GetRegistry(ctx, dep.ResourceGroup, regName)
		},
		func(ctx context.Context) (*registryInfo, error) {
			return d.api.CreateRegistry(ctx, dep.ResourceGroup, regName, dep.Location)
		})
	if err != nil {
		return nil, err
	}

	// Container image: built and pushed on every run.
	if err = d.api.BuildImage(ctx, dep.ResourceGroup, regName, repositoryRef(dep.AppName, dep.Tag), dep.ContextDir); err != nil {
		return nil, fmt.Errorf("build image: %w", err)
	}
	image := imageRef(reg.LoginServer, dep.AppName, dep.Tag)

	// Managed environment
	envName := environmentName(dep.AppName)
	env, _, err := ensureResource(ctx, "environment", envName,
		func(ctx context.Context) (*environmentInfo, bool, error) {
			return d.api.GetEnvironment(ctx, dep.ResourceGroup, envName)
		},
		func(ctx context.Context) (*environmentInfo, error) {
			return d.api.CreateEnvironment(ctx, dep.ResourceGroup, envName, dep.Location, ws)
		})
	if err != nil {
		return nil, err
	}

	spec := &appSpec{
		EnvironmentID:  env.ID,
		Image:          image,
		RegistryServer: reg.LoginServer,
		APIKey:         dep.Env[model.EnvOpenAIAPIKey],
		Env:            dep.Env,
	}
	acrPull := roleDefinitionID(d.AzureSubscriptionId, roleDefIDAcrPull)

	// Container app: update in place when present, create otherwise.
	app, found, err := d.api.GetApp(ctx, dep.ResourceGroup, dep.AppName)
	if err != nil {
		return nil, fmt.Errorf("probe container app %q: %w", dep.AppName, err)
	}
	if found {
		principalID, err := d.api.EnsureAppIdentity(ctx, dep.ResourceGroup, dep.AppName)
		if err != nil {
			return nil, fmt.Errorf("ensure app identity: %w", err)
		}
		// The grant usually exists from an earlier run; a failure here is
		// not fatal on the update path.
		if err := d.api.CreateRoleAssignment(ctx, reg.ID, principalID, acrPull); err != nil {
			log.Warn(ctx, "ACA:RoleACR/efail (continuing)", "err", azureShorterErrorString(err))
		} else {
			log.Info(ctx, "ACA:RoleACR/eok")
		}
		app, err = d.api.UpdateApp(ctx, dep.ResourceGroup, dep.AppName, spec)
		if err != nil {
			return nil, fmt.Errorf("update container app %q: %w", dep.AppName, err)
		}
	} else {
		app, err = d.api.CreateApp(ctx, dep.ResourceGroup, dep.AppName, dep.Location, spec)
		if err != nil {
			return nil, fmt.Errorf("create container app %q: %w", dep.AppName, err)
		}
		if app.PrincipalID == "" {
			return nil, fmt.Errorf("container app %q was created without a system identity principal", dep.AppName)
		}
		if err = d.api.CreateRoleAssignment(ctx, reg.ID, app.PrincipalID, acrPull); err != nil {
			return nil, err
		}
		log.Info(ctx, "ACA:RoleACR/eok")
	}

	if app.FQDN == "" {
		return nil, fmt.Errorf("container app %q reported no ingress hostname", dep.AppName)
	}
	return &providerdrv.DeployResult{
		Endpoint: "https://" + app.FQDN,
		Image:    image,
		Registry: regName,
	}, nil
}

// validateDeployment checks the fail-fast gates one more time at the driver
// boundary so a driver used programmatically cannot skip them.
func validateDeployment(dep *model.Deployment) error {
	if dep == nil || strings.TrimSpace(dep.ResourceGroup) == "" {
		return fmt.Errorf("%w: resource group is required", model.ErrDeploymentInvalid)
	}
	if strings.TrimSpace(dep.AppName) == "" {
		return fmt.Errorf("%w: app name is required", model.ErrDeploymentInvalid)
	}
	if missing := dep.RequiredEnvMissing(); len(missing) > 0 {
		return fmt.Errorf("%w: missing required environment values: %s",
			model.ErrDeploymentInvalid, strings.Join(missing, ", "))
	}
	return nil
}
