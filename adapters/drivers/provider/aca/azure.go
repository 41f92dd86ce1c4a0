package aca

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"sort"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/policy"
	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/monitor/azquery"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/appcontainers/armappcontainers/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/operationalinsights/armoperationalinsights/v2"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/resources/armresources"

	"github.com/yaegashi/imgappops/domain/model"
)

// armScope is the token audience used to validate the operator session.
const armScope = "https://management.azure.com/.default"

// appSecretName is the container app secret holding the OpenAI API key.
const appSecretName = "azure-openai-api-key"

// armAPI implements azureAPI on the Azure Resource Manager SDK clients.
type armAPI struct {
	cred           azcore.TokenCredential
	subscriptionID string

	groups       *armresources.ResourceGroupsClient
	workspaces   *armoperationalinsights.WorkspacesClient
	sharedKeys   *armoperationalinsights.SharedKeysClient
	registries   *armcontainerregistry.RegistriesClient
	runs         *armcontainerregistry.RunsClient
	environments *armappcontainers.ManagedEnvironmentsClient
	apps         *armappcontainers.ContainerAppsClient
	roles        *armauthorization.RoleAssignmentsClient
	logs         *azquery.LogsClient
}

// newARMAPI constructs all SDK clients up front so client construction
// failures surface before any provisioning starts.
func newARMAPI(subscriptionID string, cred azcore.TokenCredential) (*armAPI, error) {
	a := &armAPI{cred: cred, subscriptionID: subscriptionID}

	var err error
	if a.groups, err = armresources.NewResourceGroupsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create resource groups client: %w", err)
	}
	if a.workspaces, err = armoperationalinsights.NewWorkspacesClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create workspaces client: %w", err)
	}
	if a.sharedKeys, err = armoperationalinsights.NewSharedKeysClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create shared keys client: %w", err)
	}
	if a.registries, err = armcontainerregistry.NewRegistriesClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create registries client: %w", err)
	}
	if a.runs, err = armcontainerregistry.NewRunsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create registry runs client: %w", err)
	}
	if a.environments, err = armappcontainers.NewManagedEnvironmentsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create managed environments client: %w", err)
	}
	if a.apps, err = armappcontainers.NewContainerAppsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create container apps client: %w", err)
	}
	if a.roles, err = armauthorization.NewRoleAssignmentsClient(subscriptionID, cred, nil); err != nil {
		return nil, fmt.Errorf("create role assignments client: %w", err)
	}
	if a.logs, err = azquery.NewLogsClient(cred, nil); err != nil {
		return nil, fmt.Errorf("create logs query client: %w", err)
	}
	return a, nil
}

// azureShorterErrorString reduces an ARM error to its status and error code.
func azureShorterErrorString(err error) string {
	errstr := err.Error()
	var responseErr *azcore.ResponseError
	if errors.As(err, &responseErr) {
		errstr = fmt.Sprintf("%d %s (%s)", responseErr.StatusCode, http.StatusText(responseErr.StatusCode), responseErr.ErrorCode)
	}
	return errstr
}

// isNotFound reports whether err is an ARM 404.
func isNotFound(err error) bool {
	var responseErr *azcore.ResponseError
	return errors.As(err, &responseErr) && responseErr.StatusCode == http.StatusNotFound
}

func (a *armAPI) EnsureSession(ctx context.Context) error {
	_, err := a.cred.GetToken(ctx, policy.TokenRequestOptions{Scopes: []string{armScope}})
	if err != nil {
		return fmt.Errorf("acquire ARM token: %w", err)
	}
	return nil
}

func (a *armAPI) GetResourceGroup(ctx context.Context, name string) (bool, error) {
	res, err := a.groups.CheckExistence(ctx, name, nil)
	if err != nil {
		return false, err
	}
	return res.Success, nil
}

func (a *armAPI) CreateResourceGroup(ctx context.Context, name, location string) error {
	_, err := a.groups.CreateOrUpdate(ctx, name, armresources.ResourceGroup{
		Location: to.Ptr(location),
		Tags:     resourceTags(),
	}, nil)
	return err
}

func (a *armAPI) GetWorkspace(ctx context.Context, rg, name string) (*workspaceInfo, bool, error) {
	res, err := a.workspaces.Get(ctx, rg, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return workspaceInfoFrom(res.Workspace), true, nil
}

func (a *armAPI) CreateWorkspace(ctx context.Context, rg, name, location string) (*workspaceInfo, error) {
	poller, err := a.workspaces.BeginCreateOrUpdate(ctx, rg, name, armoperationalinsights.Workspace{
		Location: to.Ptr(location),
		Tags:     resourceTags(),
		Properties: &armoperationalinsights.WorkspaceProperties{
			SKU: &armoperationalinsights.WorkspaceSKU{
				Name: to.Ptr(armoperationalinsights.WorkspaceSKUNameEnumPerGB2018),
			},
			RetentionInDays: to.Ptr[int32](30),
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return workspaceInfoFrom(res.Workspace), nil
}

func workspaceInfoFrom(ws armoperationalinsights.Workspace) *workspaceInfo {
	info := &workspaceInfo{}
	if ws.ID != nil {
		info.ID = *ws.ID
	}
	if ws.Properties != nil && ws.Properties.CustomerID != nil {
		info.CustomerID = *ws.Properties.CustomerID
	}
	return info
}

func (a *armAPI) WorkspaceSharedKey(ctx context.Context, rg, name string) (string, error) {
	res, err := a.sharedKeys.GetSharedKeys(ctx, rg, name, nil)
	if err != nil {
		return "", err
	}
	if res.PrimarySharedKey == nil {
		return "", fmt.Errorf("workspace %s returned no primary shared key", name)
	}
	return *res.PrimarySharedKey, nil
}

func (a *armAPI) GetRegistry(ctx context.Context, rg, name string) (*registryInfo, bool, error) {
	res, err := a.registries.Get(ctx, rg, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return registryInfoFrom(res.Registry), true, nil
}

func (a *armAPI) CreateRegistry(ctx context.Context, rg, name, location string) (*registryInfo, error) {
	poller, err := a.registries.BeginCreate(ctx, rg, name, armcontainerregistry.Registry{
		Location: to.Ptr(location),
		Tags:     resourceTags(),
		SKU: &armcontainerregistry.SKU{
			Name: to.Ptr(armcontainerregistry.SKUNameBasic),
		},
	}, nil)
	if err != nil {
		return nil, err
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return registryInfoFrom(res.Registry), nil
}

func registryInfoFrom(r armcontainerregistry.Registry) *registryInfo {
	info := &registryInfo{}
	if r.ID != nil {
		info.ID = *r.ID
	}
	if r.Name != nil {
		info.Name = *r.Name
	}
	if r.Properties != nil && r.Properties.LoginServer != nil {
		info.LoginServer = *r.Properties.LoginServer
	}
	return info
}

func (a *armAPI) GetEnvironment(ctx context.Context, rg, name string) (*environmentInfo, bool, error) {
	res, err := a.environments.Get(ctx, rg, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	info := &environmentInfo{}
	if res.ID != nil {
		info.ID = *res.ID
	}
	return info, true, nil
}

func (a *armAPI) CreateEnvironment(ctx context.Context, rg, name, location string, ws *workspaceInfo) (*environmentInfo, error) {
	env := armappcontainers.ManagedEnvironment{
		Location:   to.Ptr(location),
		Tags:       resourceTags(),
		Properties: &armappcontainers.ManagedEnvironmentProperties{},
	}
	if ws != nil {
		env.Properties.AppLogsConfiguration = &armappcontainers.AppLogsConfiguration{
			Destination: to.Ptr("log-analytics"),
			LogAnalyticsConfiguration: &armappcontainers.LogAnalyticsConfiguration{
				CustomerID: to.Ptr(ws.CustomerID),
				SharedKey:  to.Ptr(ws.SharedKey),
			},
		}
	}
	poller, err := a.environments.BeginCreateOrUpdate(ctx, rg, name, env, nil)
	if err != nil {
		return nil, err
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	info := &environmentInfo{}
	if res.ID != nil {
		info.ID = *res.ID
	}
	return info, nil
}

func (a *armAPI) GetApp(ctx context.Context, rg, name string) (*appInfo, bool, error) {
	res, err := a.apps.Get(ctx, rg, name, nil)
	if err != nil {
		if isNotFound(err) {
			return nil, false, nil
		}
		return nil, false, err
	}
	return appInfoFrom(res.ContainerApp), true, nil
}

func appInfoFrom(app armappcontainers.ContainerApp) *appInfo {
	info := &appInfo{}
	if app.ID != nil {
		info.ID = *app.ID
	}
	if app.Identity != nil && app.Identity.PrincipalID != nil {
		info.PrincipalID = *app.Identity.PrincipalID
	}
	if app.Properties != nil && app.Properties.Configuration != nil &&
		app.Properties.Configuration.Ingress != nil && app.Properties.Configuration.Ingress.Fqdn != nil {
		info.FQDN = *app.Properties.Configuration.Ingress.Fqdn
	}
	return info
}

func (a *armAPI) CreateApp(ctx context.Context, rg, name, location string, spec *appSpec) (*appInfo, error) {
	app := armappcontainers.ContainerApp{
		Location: to.Ptr(location),
		Tags:     resourceTags(),
		Identity: &armappcontainers.ManagedServiceIdentity{
			Type: to.Ptr(armappcontainers.ManagedServiceIdentityTypeSystemAssigned),
		},
		Properties: &armappcontainers.ContainerAppProperties{
			ManagedEnvironmentID: to.Ptr(spec.EnvironmentID),
			Configuration:        appConfiguration(spec),
			Template:             appTemplate(name, spec),
		},
	}
	poller, err := a.apps.BeginCreateOrUpdate(ctx, rg, name, app, nil)
	if err != nil {
		return nil, err
	}
	res, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return appInfoFrom(res.ContainerApp), nil
}

// UpdateApp converges the mutable parts of an existing app (secret, registry
// binding, image, env, ingress) with a read-modify-write upsert.
func (a *armAPI) UpdateApp(ctx context.Context, rg, name string, spec *appSpec) (*appInfo, error) {
	res, err := a.apps.Get(ctx, rg, name, nil)
	if err != nil {
		return nil, err
	}
	app := res.ContainerApp
	if app.Properties == nil {
		app.Properties = &armappcontainers.ContainerAppProperties{}
	}
	app.Properties.Configuration = appConfiguration(spec)
	app.Properties.Template = appTemplate(name, spec)

	poller, err := a.apps.BeginCreateOrUpdate(ctx, rg, name, app, nil)
	if err != nil {
		return nil, err
	}
	updated, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return nil, err
	}
	return appInfoFrom(updated.ContainerApp), nil
}

func (a *armAPI) EnsureAppIdentity(ctx context.Context, rg, name string) (string, error) {
	res, err := a.apps.Get(ctx, rg, name, nil)
	if err != nil {
		return "", err
	}
	if id := res.ContainerApp.Identity; id != nil && id.PrincipalID != nil && *id.PrincipalID != "" {
		return *id.PrincipalID, nil
	}

	poller, err := a.apps.BeginUpdate(ctx, rg, name, armappcontainers.ContainerApp{
		Identity: &armappcontainers.ManagedServiceIdentity{
			Type: to.Ptr(armappcontainers.ManagedServiceIdentityTypeSystemAssigned),
		},
	}, nil)
	if err != nil {
		return "", err
	}
	updated, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return "", err
	}
	if id := updated.ContainerApp.Identity; id != nil && id.PrincipalID != nil && *id.PrincipalID != "" {
		return *id.PrincipalID, nil
	}
	return "", fmt.Errorf("container app %s has no system identity principal after update", name)
}

// appConfiguration builds the app configuration: external HTTPS ingress on
// the fixed app port, the API-key secret, and identity-based registry pulls.
func appConfiguration(spec *appSpec) *armappcontainers.Configuration {
	return &armappcontainers.Configuration{
		Ingress: &armappcontainers.Ingress{
			External:   to.Ptr(true),
			TargetPort: to.Ptr[int32](model.AppPort),
		},
		Secrets: []*armappcontainers.Secret{
			{Name: to.Ptr(appSecretName), Value: to.Ptr(spec.APIKey)},
		},
		Registries: []*armappcontainers.RegistryCredentials{
			{Server: to.Ptr(spec.RegistryServer), Identity: to.Ptr("system")},
		},
	}
}

// appTemplate builds the single-container template. Non-secret env values
// are emitted in sorted order so repeated deploys produce identical specs;
// the API key travels by secret reference only.
func appTemplate(name string, spec *appSpec) *armappcontainers.Template {
	names := make([]string, 0, len(spec.Env))
	for k := range spec.Env {
		if k == model.EnvOpenAIAPIKey {
			continue
		}
		names = append(names, k)
	}
	sort.Strings(names)

	env := make([]*armappcontainers.EnvironmentVar, 0, len(names)+1)
	for _, k := range names {
		env = append(env, &armappcontainers.EnvironmentVar{
			Name:  to.Ptr(k),
			Value: to.Ptr(spec.Env[k]),
		})
	}
	env = append(env, &armappcontainers.EnvironmentVar{
		Name:      to.Ptr(model.EnvOpenAIAPIKey),
		SecretRef: to.Ptr(appSecretName),
	})

	return &armappcontainers.Template{
		Containers: []*armappcontainers.Container{
			{
				Name:  to.Ptr(name),
				Image: to.Ptr(spec.Image),
				Env:   env,
				Resources: &armappcontainers.ContainerResources{
					CPU:    to.Ptr(0.5),
					Memory: to.Ptr("1Gi"),
				},
			},
		},
	}
}

func resourceTags() map[string]*string {
	return map[string]*string{
		"managed-by": to.Ptr("imgappops"),
	}
}
