package aca

// Resource naming for the ACA driver.
//
// Rules:
// Managed environment name: "{app}-env" (deterministic, derived from the app).
// Registry name: the operator-supplied name, or "{app}{suffix}" synthesized
// to satisfy the registry's global-uniqueness and charset constraints; the
// suffix entropy comes from a fresh UUID so two operators deploying the same
// app name do not collide.
// Image reference: "{loginServer}/{app}:{tag}".

import (
	"fmt"

	"github.com/google/uuid"
	"github.com/yaegashi/imgappops/internal/naming"
)

// registryName returns the registry name for the deployment, synthesizing
// one from the app name when none was supplied.
func registryName(supplied, app string) string {
	if supplied != "" {
		return supplied
	}
	return naming.RegistryName(app, uuid.NewString())
}

// environmentName derives the managed environment name from the app name.
func environmentName(app string) string {
	return naming.EnvironmentName(app)
}

// imageRef builds the fully qualified image reference.
func imageRef(loginServer, app, tag string) string {
	return fmt.Sprintf("%s/%s:%s", loginServer, app, tag)
}

// repositoryRef builds the registry-relative image name used by quick builds.
func repositoryRef(app, tag string) string {
	return fmt.Sprintf("%s:%s", app, tag)
}
