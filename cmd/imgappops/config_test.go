package main

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/spf13/cobra"
	"github.com/yaegashi/imgappops/config/deploycfg"
	"github.com/yaegashi/imgappops/domain/model"
)

// clearAppEnv blanks the app settings in the process environment so tests
// only see the env files they write.
func clearAppEnv(t *testing.T) {
	t.Helper()
	for _, name := range model.RequiredEnvNames {
		t.Setenv(name, "")
	}
}

// runBuild parses args against a throwaway command and resolves the config.
func runBuild(t *testing.T, args []string) (*deploycfg.Config, error) {
	t.Helper()
	var flags configFlags
	var cfg *deploycfg.Config
	var buildErr error
	cmd := &cobra.Command{
		Use: "test",
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, buildErr = flags.build(cmd)
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
	}
	flags.addFlags(cmd)
	cmd.SetArgs(args)
	if err := cmd.Execute(); err != nil {
		t.Fatalf("Execute() error = %v", err)
	}
	return cfg, buildErr
}

func writeTestFiles(t *testing.T, deployYML string) (deployFile, envFile string) {
	t.Helper()
	dir := t.TempDir()
	deployFile = filepath.Join(dir, "imgappops.yml")
	if deployYML != "" {
		if err := os.WriteFile(deployFile, []byte(deployYML), 0644); err != nil {
			t.Fatal(err)
		}
	}
	envFile = filepath.Join(dir, ".env")
	envContent := `AZURE_OPENAI_ENDPOINT=https://example.openai.azure.com
AZURE_OPENAI_API_KEY=secret
AZURE_OPENAI_IMAGE_DEPLOYMENT=gpt-image-1
AZURE_OPENAI_CHAT_DEPLOYMENT=gpt-4o
AZURE_OPENAI_API_VERSION=2025-04-01-preview
`
	if err := os.WriteFile(envFile, []byte(envContent), 0644); err != nil {
		t.Fatal(err)
	}
	return deployFile, envFile
}

func TestBuildFlagBeatsFile(t *testing.T) {
	clearAppEnv(t)
	t.Setenv(deploycfg.EnvSubscriptionID, "00000000-0000-0000-0000-000000000000")
	deployFile, envFile := writeTestFiles(t, `version: 1
resourceGroup: file-rg
location: westus2
tag: file-tag
`)

	cfg, err := runBuild(t, []string{
		"-f", deployFile,
		"--env-file", envFile,
		"--tag", "flag-tag",
	})
	if err != nil {
		t.Fatalf("build error = %v", err)
	}
	if cfg.ResourceGroup != "file-rg" {
		t.Errorf("ResourceGroup = %q, want the file value", cfg.ResourceGroup)
	}
	if cfg.Location != "westus2" {
		t.Errorf("Location = %q, want the file value", cfg.Location)
	}
	if cfg.Tag != "flag-tag" {
		t.Errorf("Tag = %q, changed flag must beat the file", cfg.Tag)
	}
	if cfg.AppName != deploycfg.DefaultAppName {
		t.Errorf("AppName = %q, want the built-in default", cfg.AppName)
	}
}

func TestBuildWithoutFileUsesFlagsAndDefaults(t *testing.T) {
	clearAppEnv(t)
	t.Setenv(deploycfg.EnvSubscriptionID, "00000000-0000-0000-0000-000000000000")
	_, envFile := writeTestFiles(t, "")

	cfg, err := runBuild(t, []string{
		"-f", filepath.Join(t.TempDir(), "nope.yml"),
		"--env-file", envFile,
		"-g", "cli-rg",
		"--workspace", "cli-logs",
	})
	if err != nil {
		t.Fatalf("build error = %v", err)
	}
	if cfg.ResourceGroup != "cli-rg" || cfg.Workspace != "cli-logs" {
		t.Errorf("flag values not applied: %+v", cfg)
	}
	if cfg.Location != deploycfg.DefaultLocation || cfg.Tag != deploycfg.DefaultTag {
		t.Errorf("defaults not applied: %+v", cfg)
	}
	if cfg.Env["AZURE_OPENAI_API_KEY"] != "secret" {
		t.Errorf("env file value missing: %+v", cfg.Env)
	}
}

func TestBuildMissingResourceGroupFails(t *testing.T) {
	clearAppEnv(t)
	t.Setenv(deploycfg.EnvSubscriptionID, "00000000-0000-0000-0000-000000000000")
	_, envFile := writeTestFiles(t, "")

	_, err := runBuild(t, []string{
		"-f", filepath.Join(t.TempDir(), "nope.yml"),
		"--env-file", envFile,
	})
	if !errors.Is(err, model.ErrDeploymentInvalid) {
		t.Fatalf("err = %v, want ErrDeploymentInvalid", err)
	}
}

func TestBuildMissingEnvNamesValues(t *testing.T) {
	clearAppEnv(t)
	t.Setenv(deploycfg.EnvSubscriptionID, "00000000-0000-0000-0000-000000000000")

	_, err := runBuild(t, []string{
		"-f", filepath.Join(t.TempDir(), "nope.yml"),
		"--env-file", filepath.Join(t.TempDir(), "no.env"),
		"-g", "cli-rg",
	})
	if !errors.Is(err, model.ErrDeploymentInvalid) {
		t.Fatalf("err = %v, want ErrDeploymentInvalid", err)
	}
}
