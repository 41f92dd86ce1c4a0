package aca

import (
	"strings"
	"testing"
)

func TestRegistryName(t *testing.T) {
	if got := registryName("myacr", "imgapp"); got != "myacr" {
		t.Errorf("supplied name must win, got %q", got)
	}

	a := registryName("", "imgapp")
	b := registryName("", "imgapp")
	if !strings.HasPrefix(a, "imgapp") {
		t.Errorf("synthesized name %q should start with the app name", a)
	}
	if a == b {
		t.Errorf("synthesized names must differ per call, got %q twice", a)
	}
}

func TestEnvironmentName(t *testing.T) {
	if got := environmentName("imgapp"); got != "imgapp-env" {
		t.Errorf("environmentName() = %q, want imgapp-env", got)
	}
}

func TestImageRefs(t *testing.T) {
	if got := imageRef("myacr.azurecr.io", "imgapp", "v1"); got != "myacr.azurecr.io/imgapp:v1" {
		t.Errorf("imageRef() = %q", got)
	}
	if got := repositoryRef("imgapp", "v1"); got != "imgapp:v1" {
		t.Errorf("repositoryRef() = %q", got)
	}
}
