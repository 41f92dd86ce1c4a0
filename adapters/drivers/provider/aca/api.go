package aca

import (
	"context"
	"time"

	"github.com/yaegashi/imgappops/domain/model"
)

// workspaceInfo carries the Log Analytics workspace identifiers needed to
// wire an environment to it.
type workspaceInfo struct {
	ID         string // ARM resource ID
	CustomerID string // workspace customer (query) ID
	SharedKey  string // primary shared key, fetched lazily
}

// registryInfo identifies a container registry.
type registryInfo struct {
	ID          string // ARM resource ID (role assignment scope)
	Name        string
	LoginServer string
}

// environmentInfo identifies a managed environment.
type environmentInfo struct {
	ID string // ARM resource ID
}

// appInfo is the observed state of a container app.
type appInfo struct {
	ID          string
	FQDN        string // ingress hostname, empty when ingress is not configured
	PrincipalID string // system identity principal, empty when none is assigned
}

// appSpec is the desired mutable configuration of the container app.
type appSpec struct {
	EnvironmentID  string
	Image          string            // fully qualified image reference
	RegistryServer string            // login server for identity-based pulls
	APIKey         string            // sensitive value, stored as an app secret
	Env            map[string]string // non-secret env forwarded to the container
}

// azureAPI is the provider surface consumed by the provisioning sequence.
// The production implementation wraps the ARM SDK clients; tests substitute
// a fake to verify the probe-then-branch behavior without touching Azure.
type azureAPI interface {
	// EnsureSession verifies the operator's credential can mint an ARM token.
	EnsureSession(ctx context.Context) error

	GetResourceGroup(ctx context.Context, name string) (bool, error)
	CreateResourceGroup(ctx context.Context, name, location string) error

	GetWorkspace(ctx context.Context, rg, name string) (*workspaceInfo, bool, error)
	CreateWorkspace(ctx context.Context, rg, name, location string) (*workspaceInfo, error)
	WorkspaceSharedKey(ctx context.Context, rg, name string) (string, error)

	GetRegistry(ctx context.Context, rg, name string) (*registryInfo, bool, error)
	CreateRegistry(ctx context.Context, rg, name, location string) (*registryInfo, error)

	// BuildImage archives contextDir, uploads it as the registry build
	// source and runs a quick build pushing image (repository:tag, relative
	// to the registry). Runs on every deploy.
	BuildImage(ctx context.Context, rg, registryName, image, contextDir string) error

	GetEnvironment(ctx context.Context, rg, name string) (*environmentInfo, bool, error)
	CreateEnvironment(ctx context.Context, rg, name, location string, ws *workspaceInfo) (*environmentInfo, error)

	GetApp(ctx context.Context, rg, name string) (*appInfo, bool, error)
	CreateApp(ctx context.Context, rg, name, location string, spec *appSpec) (*appInfo, error)
	UpdateApp(ctx context.Context, rg, name string, spec *appSpec) (*appInfo, error)
	// EnsureAppIdentity assigns a system identity when absent and returns
	// the principal ID.
	EnsureAppIdentity(ctx context.Context, rg, name string) (string, error)

	CreateRoleAssignment(ctx context.Context, scope, principalID, roleDefinitionID string) error

	QueryConsoleLogs(ctx context.Context, workspaceCustomerID, appName string, since time.Duration, limit int) ([]model.LogEntry, error)
}
