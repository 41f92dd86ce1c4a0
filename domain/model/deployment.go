package model

import "time"

// Environment variable names required by the deployed image editor app.
// The values are forwarded verbatim to the running container; the API key
// travels as a container app secret.
const (
	EnvOpenAIEndpoint        = "AZURE_OPENAI_ENDPOINT"
	EnvOpenAIAPIKey          = "AZURE_OPENAI_API_KEY"
	EnvOpenAIImageDeployment = "AZURE_OPENAI_IMAGE_DEPLOYMENT"
	EnvOpenAIChatDeployment  = "AZURE_OPENAI_CHAT_DEPLOYMENT"
	EnvOpenAIAPIVersion      = "AZURE_OPENAI_API_VERSION"
)

// RequiredEnvNames lists the environment values the app refuses to start
// without, in the order they are reported when missing.
var RequiredEnvNames = []string{
	EnvOpenAIEndpoint,
	EnvOpenAIAPIKey,
	EnvOpenAIImageDeployment,
	EnvOpenAIChatDeployment,
	EnvOpenAIAPIVersion,
}

// AppPort is the fixed internal port the deployed app listens on.
const AppPort = 8501

// Deployment is the declarative target state handed to a provider driver.
// It is constructed once at startup from flags and environment and passed
// by reference; drivers never mutate it.
type Deployment struct {
	ResourceGroup string            // target resource group (required)
	Location      string            // deployment region
	AppName       string            // container app name
	Registry      string            // registry name; empty means synthesize one
	Tag           string            // image tag
	Workspace     string            // Log Analytics workspace name; empty disables logging
	ContextDir    string            // local container build context
	Env           map[string]string // values forwarded to the running container
}

// RequiredEnvMissing returns the names of required environment values that
// are empty or absent from the deployment, in reporting order.
func (d *Deployment) RequiredEnvMissing() []string {
	var missing []string
	for _, name := range RequiredEnvNames {
		if d.Env[name] == "" {
			missing = append(missing, name)
		}
	}
	return missing
}

// ResourceState describes the observed state of a single resource kind.
type ResourceState struct {
	Kind    string // e.g. "resource group", "registry"
	Name    string
	Present bool
}

// DeploymentStatus is the aggregate observed state reported by Status.
type DeploymentStatus struct {
	Resources []ResourceState
	Endpoint  string // https URL of the app when present and ingress is live
}

// LogEntry is one console log line retrieved from the logging workspace.
type LogEntry struct {
	Time time.Time
	Line string
}
