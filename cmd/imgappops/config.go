package main

import (
	"fmt"

	"github.com/spf13/cobra"
	providerdrv "github.com/yaegashi/imgappops/adapters/drivers/provider"
	"github.com/yaegashi/imgappops/config/deploycfg"
	"github.com/yaegashi/imgappops/usecase/deployment"
)

// configFlags collects the deployment flags shared by deploy, status and
// logs. Precedence, lowest to highest: built-in defaults, deploy file
// entries, environment (env file then process env), changed flags.
type configFlags struct {
	file          string
	resourceGroup string
	location      string
	app           string
	registry      string
	tag           string
	workspace     string
	contextDir    string
	envFile       string
}

func (f *configFlags) addFlags(cmd *cobra.Command) {
	cmd.Flags().StringVarP(&f.file, "file", "f", deploycfg.DefaultConfigPath, "Path to imgappops.yml")
	cmd.Flags().StringVarP(&f.resourceGroup, "resource-group", "g", "", "Azure resource group (required)")
	cmd.Flags().StringVar(&f.location, "location", deploycfg.DefaultLocation, "Azure location")
	cmd.Flags().StringVar(&f.app, "app", deploycfg.DefaultAppName, "Application name")
	cmd.Flags().StringVar(&f.registry, "registry", "", "Container registry name (synthesized from the app name when empty)")
	cmd.Flags().StringVar(&f.tag, "tag", deploycfg.DefaultTag, "Image tag")
	cmd.Flags().StringVar(&f.workspace, "workspace", "", "Log Analytics workspace name (skip console logging when empty)")
	cmd.Flags().StringVar(&f.contextDir, "context", deploycfg.DefaultContextDir, "Docker build context directory")
	cmd.Flags().StringVar(&f.envFile, "env-file", deploycfg.DefaultEnvFile, "Env file supplying app settings not in the process environment")
}

// build resolves the layered configuration into a validated Config.
func (f *configFlags) build(cmd *cobra.Command) (*deploycfg.Config, error) {
	cfg := deploycfg.New()

	df, err := deploycfg.LoadFile(f.file)
	if err != nil {
		return nil, err
	}
	cfg.ApplyFile(df)

	// Changed flags win over deploy file entries; defaults apply when
	// neither the file nor the flag set a value.
	set := func(name string, dst *string, v string) {
		if cmd.Flags().Changed(name) || *dst == "" {
			*dst = v
		}
	}
	set("resource-group", &cfg.ResourceGroup, f.resourceGroup)
	set("location", &cfg.Location, f.location)
	set("app", &cfg.AppName, f.app)
	set("registry", &cfg.Registry, f.registry)
	set("tag", &cfg.Tag, f.tag)
	set("workspace", &cfg.Workspace, f.workspace)
	set("context", &cfg.ContextDir, f.contextDir)
	cfg.EnvFile = f.envFile

	if err := cfg.ResolveEnv(); err != nil {
		return nil, err
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// newUseCase constructs the deployment use case backed by the ACA driver.
func newUseCase(cfg *deploycfg.Config) (*deployment.UseCase, error) {
	factory, ok := providerdrv.GetDriverFactory("aca")
	if !ok {
		return nil, fmt.Errorf("provider driver %q is not registered", "aca")
	}
	drv, err := factory(cfg.Settings())
	if err != nil {
		return nil, err
	}
	return &deployment.UseCase{Driver: drv}, nil
}
