package aca

import (
	"fmt"
	"strings"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore"
	"github.com/Azure/azure-sdk-for-go/sdk/azidentity"
	providerdrv "github.com/yaegashi/imgappops/adapters/drivers/provider"
)

// driver implements the Azure Container Apps provider driver.
type driver struct {
	api                 azureAPI
	AzureSubscriptionId string
	AzureLocation       string
}

// ID returns the provider identifier.
func (d *driver) ID() string { return "aca" }

// init registers the ACA driver.
func init() {
	providerdrv.Register("aca", func(settings map[string]string) (providerdrv.Driver, error) {
		get := func(k string) string {
			if settings == nil {
				return ""
			}
			return strings.TrimSpace(settings[k])
		}

		subscriptionID := get("AZURE_SUBSCRIPTION_ID")
		location := get("AZURE_LOCATION")
		missing := make([]string, 0, 2)
		if subscriptionID == "" {
			missing = append(missing, "AZURE_SUBSCRIPTION_ID")
		}
		if location == "" {
			missing = append(missing, "AZURE_LOCATION")
		}
		if len(missing) > 0 {
			return nil, fmt.Errorf("missing required ACA settings: %s", strings.Join(missing, ", "))
		}

		authMethod := get("AZURE_AUTH_METHOD")
		if authMethod == "" {
			authMethod = "azure_cli"
		}

		var cred azcore.TokenCredential
		var err error
		switch authMethod {
		case "azure_cli":
			cred, err = azidentity.NewAzureCLICredential(nil)
		case "default":
			cred, err = azidentity.NewDefaultAzureCredential(nil)
		case "client_secret":
			tenantID := get("AZURE_TENANT_ID")
			clientID := get("AZURE_CLIENT_ID")
			clientSecret := get("AZURE_CLIENT_SECRET")
			if tenantID == "" || clientID == "" || clientSecret == "" {
				return nil, fmt.Errorf("client_secret auth requires AZURE_TENANT_ID, AZURE_CLIENT_ID, AZURE_CLIENT_SECRET")
			}
			cred, err = azidentity.NewClientSecretCredential(tenantID, clientID, clientSecret, nil)
		case "managed_identity":
			opts := &azidentity.ManagedIdentityCredentialOptions{}
			if clientID := get("AZURE_CLIENT_ID"); clientID != "" {
				opts.ID = azidentity.ClientID(clientID)
			}
			cred, err = azidentity.NewManagedIdentityCredential(opts)
		default:
			return nil, fmt.Errorf("unsupported AZURE_AUTH_METHOD: %s", authMethod)
		}
		if err != nil {
			return nil, fmt.Errorf("create Azure credential: %w", err)
		}

		api, err := newARMAPI(subscriptionID, cred)
		if err != nil {
			return nil, err
		}

		return &driver{
			api:                 api,
			AzureSubscriptionId: subscriptionID,
			AzureLocation:       location,
		}, nil
	})
}
