package deployment

import (
	providerdrv "github.com/yaegashi/imgappops/adapters/drivers/provider"
)

// UseCase wires the provider driver needed for deployment use cases.
type UseCase struct {
	Driver providerdrv.Driver
}
