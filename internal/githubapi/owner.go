package githubapi

import (
	"fmt"
	"strings"
)

const (
	ownerKindUserConstant              OwnerKind = "user"
	ownerKindOrganizationConstant      OwnerKind = "org"
	ownerKindEmptyErrorMessageConstant           = "owner kind must be provided"
	ownerKindInvalidTemplateConstant             = "owner kind %q is not supported"
)

// OwnerKind enumerates supported destination namespace scopes.
type OwnerKind string

// UserOwnerKind identifies a personal GitHub account namespace.
const UserOwnerKind OwnerKind = ownerKindUserConstant

// OrganizationOwnerKind identifies a GitHub organization namespace.
const OrganizationOwnerKind OwnerKind = ownerKindOrganizationConstant

// ParseOwnerKind normalizes textual owner kind values.
func ParseOwnerKind(ownerKindValue string) (OwnerKind, error) {
	trimmedValue := strings.TrimSpace(ownerKindValue)
	if len(trimmedValue) == 0 {
		return "", fmt.Errorf(ownerKindEmptyErrorMessageConstant)
	}

	lowerCasedValue := strings.ToLower(trimmedValue)
	switch OwnerKind(lowerCasedValue) {
	case UserOwnerKind:
		return UserOwnerKind, nil
	case OrganizationOwnerKind:
		return OrganizationOwnerKind, nil
	default:
		return "", fmt.Errorf(ownerKindInvalidTemplateConstant, ownerKindValue)
	}
}

// ImportTarget pairs an owner kind with the namespace name repositories are created under.
type ImportTarget struct {
	Kind      OwnerKind
	OwnerName string
}
