package aca

import (
	"context"
	"fmt"

	"github.com/Azure/azure-sdk-for-go/sdk/azcore/to"
	"github.com/Azure/azure-sdk-for-go/sdk/resourcemanager/authorization/armauthorization/v2"
	"github.com/google/uuid"
)

// AcrPull built-in role definition ID.
const roleDefIDAcrPull = "7f951dda-4ed3-4680-a7ca-43fe172d538d"

// UUIDv5 namespace used to generate role assignment names.
// Chosen arbitrarily but kept constant to ensure stable name generation.
var roleAssignmentNamespace = uuid.MustParse("6f1c67c5-9d8a-4e0b-8f3d-2a57c1b8e04d")

// roleDefinitionID expands a built-in role definition GUID to its full
// subscription-scoped resource ID.
func roleDefinitionID(subscriptionID, roleDefID string) string {
	return fmt.Sprintf("/subscriptions/%s/providers/Microsoft.Authorization/roleDefinitions/%s", subscriptionID, roleDefID)
}

// CreateRoleAssignment assigns the given role definition to the principal at
// the provided scope. The assignment name is a deterministic GUID derived
// from (principal, role) so re-runs target the same assignment record.
// Failures, including "already exists", surface to the caller; tolerance is
// a call-site decision.
func (a *armAPI) CreateRoleAssignment(ctx context.Context, scope, principalID, roleDefinitionID string) error {
	nameInput := principalID + "|" + roleDefinitionID
	roleAssignmentName := uuid.NewSHA1(roleAssignmentNamespace, []byte(nameInput)).String()

	_, err := a.roles.Create(ctx, scope, roleAssignmentName, armauthorization.RoleAssignmentCreateParameters{
		Properties: &armauthorization.RoleAssignmentProperties{
			RoleDefinitionID: to.Ptr(roleDefinitionID),
			PrincipalID:      to.Ptr(principalID),
			PrincipalType:    to.Ptr(armauthorization.PrincipalTypeServicePrincipal),
		},
	}, nil)
	if err != nil {
		return fmt.Errorf("create role assignment: %w", err)
	}
	return nil
}
