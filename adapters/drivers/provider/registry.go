package providerdrv

import (
	"context"
	"time"

	"github.com/yaegashi/imgappops/domain/model"
)

// DeployResult is what a successful deployment reports back to the operator.
type DeployResult struct {
	Endpoint string `json:"endpoint"` // public https URL of the app
	Image    string `json:"image"`    // fully qualified image reference that was deployed
	Registry string `json:"registry"` // registry name actually used (may be synthesized)
}

// Driver abstracts provider-specific provisioning behavior. Implementations
// live under adapters/drivers/provider/<name> and should return a provider
// identifier such as "aca" via ID().
type Driver interface {
	// ID returns the provider identifier (e.g., "aca").
	ID() string

	// Deploy converges the cloud to the deployment target state and returns
	// the public endpoint. Creation steps are probe-gated and idempotent;
	// the image build runs every time.
	Deploy(ctx context.Context, d *model.Deployment) (*DeployResult, error)

	// Status probes each resource kind without changing anything.
	Status(ctx context.Context, d *model.Deployment) (*model.DeploymentStatus, error)

	// Logs retrieves recent container console logs from the logging
	// workspace. Returns model.ErrNoWorkspace when none is configured.
	Logs(ctx context.Context, d *model.Deployment, since time.Duration, limit int) ([]model.LogEntry, error)
}

// driverFactory is a constructor function for a provider driver.
type driverFactory func(settings map[string]string) (Driver, error)

// registry holds registered drivers by name.
var registry = map[string]driverFactory{}

// Register makes a driver available by the given name. Drivers should call
// this from their init() function.
func Register(name string, factory driverFactory) {
	registry[name] = factory
}

// GetDriverFactory returns the driver factory function for the given name.
func GetDriverFactory(name string) (driverFactory, bool) {
	factory, exists := registry[name]
	return factory, exists
}
