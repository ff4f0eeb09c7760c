package service

import "quill/internal/models"

// CanMutate reports whether the requester may change or delete a resource
// written by resourceAuthorID: its author or any admin.
func CanMutate(resourceAuthorID, requesterID string, requesterRole models.Role) bool {
	return resourceAuthorID == requesterID || requesterRole == models.RoleAdmin
}
