package migrations

const (
	scannerGroupNameConstant      = "scanner"
	plugdevGroupNameConstant      = "plugdev"
	usersGroupNameConstant        = "users"
	usersGroupIDConstant          = 100
	scannerMigrationNameConstant  = "Add users to scanner group"
	plugdevMigrationNameConstant  = "Add users to plugdev group"
	usersGIDMigrationNameConstant = "Fix users group GID"
)

// DefaultRegistry returns the shipped migrations. Entries are only ever appended:
// persisted progress refers to these positions.
func DefaultRegistry() Registry {
	return NewRegistry(
		Definition{Name: scannerMigrationNameConstant, Run: PushToGroup(scannerGroupNameConstant, true)},
		Definition{Name: plugdevMigrationNameConstant, Run: PushToGroup(plugdevGroupNameConstant, true)},
		Definition{Name: usersGIDMigrationNameConstant, Run: NormalizeGroupID(usersGroupNameConstant, usersGroupIDConstant)},
	)
}
