package aca

import (
	"context"
	"fmt"
	"io"
	"os"
	"strings"
	"time"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/containerregistry/armcontainerregistry"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blob"
	"github.com/Azure/azure-sdk-for-go/sdk/storage/azblob/blockblob"

	"github.com/yaegashi/imgappops/internal/buildctx"
	"github.com/yaegashi/imgappops/internal/logging"
)

// buildPollInterval is how often a scheduled registry build run is polled.
const buildPollInterval = 5 * time.Second

// buildLogTailLines caps the number of build log lines echoed into an error.
const buildLogTailLines = 40

// BuildImage runs an ACR quick build: archive the local context, upload it
// to the registry's build source location, schedule a Docker build run that
// pushes image, and poll the run to completion. This step has a side effect
// on every invocation.
func (a *armAPI) BuildImage(ctx context.Context, rg, registryName, image, contextDir string) error {
	log := logging.FromContext(ctx).With("registry", registryName, "image", image)

	if !buildctx.ContainsDockerfile(contextDir) {
		return fmt.Errorf("build context %q has no Dockerfile", contextDir)
	}

	archive, err := buildctx.ArchiveToTemp(contextDir)
	if err != nil {
		return err
	}
	defer os.Remove(archive)

	src, err := a.registries.GetBuildSourceUploadURL(ctx, rg, registryName, nil)
	if err != nil {
		return fmt.Errorf("get build source upload URL: %w", err)
	}
	if src.UploadURL == nil || src.RelativePath == nil {
		return fmt.Errorf("registry %s returned an incomplete build source upload definition", registryName)
	}

	if err := uploadBuildSource(ctx, *src.UploadURL, archive); err != nil {
		return fmt.Errorf("upload build source: %w", err)
	}

	req := &armcontainerregistry.DockerBuildRequest{
		DockerFilePath: to.Ptr("Dockerfile"),
		ImageNames:     []*string{to.Ptr(image)},
		IsPushEnabled:  to.Ptr(true),
		SourceLocation: src.RelativePath,
		Platform: &armcontainerregistry.PlatformProperties{
			OS:           to.Ptr(armcontainerregistry.OSLinux),
			Architecture: to.Ptr(armcontainerregistry.ArchitectureAmd64),
		},
	}
	poller, err := a.registries.BeginScheduleRun(ctx, rg, registryName, req, nil)
	if err != nil {
		return fmt.Errorf("schedule build run: %w", err)
	}
	scheduled, err := poller.PollUntilDone(ctx, nil)
	if err != nil {
		return fmt.Errorf("schedule build run: %w", err)
	}
	if scheduled.Name == nil {
		return fmt.Errorf("registry %s returned a build run without a name", registryName)
	}
	runID := *scheduled.Name
	log.Info(ctx, "ACA:Build/scheduled", "run", runID)

	status, err := a.waitForRun(ctx, rg, registryName, runID)
	if err != nil {
		return err
	}
	if status != armcontainerregistry.RunStatusSucceeded {
		tail := a.runLogTail(ctx, rg, registryName, runID)
		if tail != "" {
			return fmt.Errorf("build run %s finished with status %s:\n%s", runID, status, tail)
		}
		return fmt.Errorf("build run %s finished with status %s", runID, status)
	}
	log.Info(ctx, "ACA:Build/eok", "run", runID)
	return nil
}

// uploadBuildSource uploads the archived context to the SAS URL issued by
// the registry.
func uploadBuildSource(ctx context.Context, uploadURL, archive string) error {
	f, err := os.Open(archive)
	if err != nil {
		return err
	}
	defer f.Close()

	client, err := blockblob.NewClientWithNoCredential(uploadURL, nil)
	if err != nil {
		return err
	}
	_, err = client.UploadFile(ctx, f, nil)
	return err
}

// waitForRun polls the build run until it reaches a terminal status.
func (a *armAPI) waitForRun(ctx context.Context, rg, registryName, runID string) (armcontainerregistry.RunStatus, error) {
	ticker := time.NewTicker(buildPollInterval)
	defer ticker.Stop()

	for {
		res, err := a.runs.Get(ctx, rg, registryName, runID, nil)
		if err != nil {
			return "", fmt.Errorf("poll build run %s: %w", runID, err)
		}
		if res.Properties != nil && res.Properties.Status != nil {
			switch status := *res.Properties.Status; status {
			case armcontainerregistry.RunStatusSucceeded,
				armcontainerregistry.RunStatusFailed,
				armcontainerregistry.RunStatusCanceled,
				armcontainerregistry.RunStatusError,
				armcontainerregistry.RunStatusTimeout:
				return status, nil
			}
		}
		select {
		case <-ctx.Done():
			return "", fmt.Errorf("waiting for build run %s: %w", runID, ctx.Err())
		case <-ticker.C:
		}
	}
}

// runLogTail fetches the build run log and returns its last lines.
// Best-effort: an empty string is returned when the log is unavailable.
func (a *armAPI) runLogTail(ctx context.Context, rg, registryName, runID string) string {
	res, err := a.runs.GetLogSasURL(ctx, rg, registryName, runID, nil)
	if err != nil || res.LogLink == nil {
		return ""
	}
	client, err := blob.NewClientWithNoCredential(*res.LogLink, nil)
	if err != nil {
		return ""
	}
	stream, err := client.DownloadStream(ctx, nil)
	if err != nil {
		return ""
	}
	defer stream.Body.Close()
	data, err := io.ReadAll(stream.Body)
	if err != nil {
		return ""
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	if len(lines) > buildLogTailLines {
		lines = lines[len(lines)-buildLogTailLines:]
	}
	return strings.Join(lines, "\n")
}
