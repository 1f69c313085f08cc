package utils

import (
	"strings"
)

// RoleShopkeeper is the only role carried in ledger tokens.
const RoleShopkeeper = "shopkeeper"

var ValidUserRoles = map[string]bool{
	RoleShopkeeper: true,
}

// ValidateAndNormalizeRole validates and normalizes a role string.
// Returns the normalized role (lowercase) and a boolean indicating if it's valid.
func ValidateAndNormalizeRole(role string) (string, bool) {
	normalized := strings.ToLower(strings.TrimSpace(role))
	return normalized, ValidUserRoles[normalized]
}
