package deployment

import (
	"context"

	"github.com/yaegashi/imgappops/domain/model"
)

// DeployInput represents a command to deploy the application.
type DeployInput struct {
	Deployment *model.Deployment `json:"deployment"`
}

// DeployOutput represents the result of a deployment run.
type DeployOutput struct {
	// Endpoint is the public HTTPS URL of the deployed application.
	Endpoint string `json:"endpoint"`
	// Image is the fully qualified image reference that was built and pushed.
	Image string `json:"image"`
	// Registry is the container registry name that serves the image.
	Registry string `json:"registry"`
}

// Deploy provisions every resource the application needs and returns its
// public endpoint.
func (u *UseCase) Deploy(ctx context.Context, in *DeployInput) (*DeployOutput, error) {
	if in == nil || in.Deployment == nil {
		return nil, model.ErrDeploymentInvalid
	}

	res, err := u.Driver.Deploy(ctx, in.Deployment)
	if err != nil {
		return nil, err
	}

	return &DeployOutput{
		Endpoint: res.Endpoint,
		Image:    res.Image,
		Registry: res.Registry,
	}, nil
}
