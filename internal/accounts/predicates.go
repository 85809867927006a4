package accounts

// Classification selects a subset of accounts for listing.
type Classification string

// Supported classifications.
const (
	ClassificationAll    Classification = "all"
	ClassificationActive Classification = "active"
	ClassificationSystem Classification = "system"
	ClassificationAdmin  Classification = "admin"
)

// Classifications lists every supported classification in usage order.
func Classifications() []Classification {
	return []Classification{ClassificationSystem, ClassificationAll, ClassificationAdmin, ClassificationActive}
}

// IsActive reports whether the account belongs to a human with a usable login shell.
func IsActive(account Account) bool {
	return account.UID >= MinimumUID && account.ValidShell
}

// IsAdmin reports whether the account is root or a member of AdministratorGroup.
func IsAdmin(account Account) bool {
	if account.UID == rootIdentifierConstant && account.GID == rootIdentifierConstant {
		return true
	}
	return InGroup(account, AdministratorGroup)
}

// InGroup reports exact, case-sensitive membership in the named group.
func InGroup(account Account, groupName string) bool {
	if len(groupName) == 0 {
		return false
	}
	for _, memberGroup := range account.Groups {
		if memberGroup == groupName {
			return true
		}
	}
	return false
}

// Matches reports whether the account falls into the classification. Admin listings
// only include active accounts.
func (classification Classification) Matches(account Account) bool {
	switch classification {
	case ClassificationAll:
		return true
	case ClassificationActive:
		return IsActive(account)
	case ClassificationSystem:
		return !IsActive(account)
	case ClassificationAdmin:
		return IsAdmin(account) && IsActive(account)
	default:
		return false
	}
}

// Filter returns the accounts matching the classification, preserving order.
func Filter(accounts []Account, classification Classification) []Account {
	filtered := make([]Account, 0, len(accounts))
	for _, account := range accounts {
		if classification.Matches(account) {
			filtered = append(filtered, account)
		}
	}
	return filtered
}

func classificationNames() []string {
	names := make([]string, 0, len(Classifications()))
	for _, classification := range Classifications() {
		names = append(names, string(classification))
	}
	return names
}
