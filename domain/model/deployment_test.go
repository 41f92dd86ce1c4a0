package model

import (
	"reflect"
	"testing"
)

func TestRequiredEnvMissing(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
		want []string
	}{
		{
			name: "all present",
			env: map[string]string{
				EnvOpenAIEndpoint:        "https://example.openai.azure.com",
				EnvOpenAIAPIKey:          "key",
				EnvOpenAIImageDeployment: "gpt-image-1",
				EnvOpenAIChatDeployment:  "gpt-4o",
				EnvOpenAIAPIVersion:      "2025-04-01-preview",
			},
			want: nil,
		},
		{
			name: "nil env reports everything",
			env:  nil,
			want: RequiredEnvNames,
		},
		{
			name: "empty value counts as missing",
			env: map[string]string{
				EnvOpenAIEndpoint:        "https://example.openai.azure.com",
				EnvOpenAIAPIKey:          "",
				EnvOpenAIImageDeployment: "gpt-image-1",
				EnvOpenAIChatDeployment:  "gpt-4o",
				EnvOpenAIAPIVersion:      "2025-04-01-preview",
			},
			want: []string{EnvOpenAIAPIKey},
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			d := &Deployment{Env: tt.env}
			got := d.RequiredEnvMissing()
			if !reflect.DeepEqual(got, tt.want) {
				t.Errorf("RequiredEnvMissing() = %v, want %v", got, tt.want)
			}
		})
	}
}
