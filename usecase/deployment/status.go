package deployment

import (
	"context"

	"github.com/yaegashi/imgappops/domain/model"
)

// StatusInput represents a command to report deployment status.
type StatusInput struct {
	Deployment *model.Deployment `json:"deployment"`
}

// StatusOutput represents the observed state of the deployment.
type StatusOutput struct {
	model.DeploymentStatus
}

// Status probes the provisioned resources without changing anything.
func (u *UseCase) Status(ctx context.Context, in *StatusInput) (*StatusOutput, error) {
	if in == nil || in.Deployment == nil {
		return nil, model.ErrDeploymentInvalid
	}

	status, err := u.Driver.Status(ctx, in.Deployment)
	if err != nil {
		return nil, err
	}

	return &StatusOutput{DeploymentStatus: *status}, nil
}
