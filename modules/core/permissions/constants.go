package permissions

// Resource type names, as seeded in permission_resource_types.
const (
	ResourceEmployee   = "employee"
	ResourceLeave      = "leave"
	ResourceVehicle    = "vehicle"
	ResourceDepartment = "department"
	ResourceUser       = "user"
	ResourceHoliday    = "holiday"
	ResourceSupply     = "supply"
)

// Action names, as seeded in permission_actions.
const (
	ActionView    = "view"
	ActionCreate  = "create"
	ActionUpdate  = "update"
	ActionDelete  = "delete"
	ActionApprove = "approve"
)

// ManageKey builds the permission key whose holders bypass scope resolution
// with a global scope for the resource.
func ManageKey(resource string) string {
	return resource + ".manage"
}

// Key builds a "resource.action" permission key for route guards.
func Key(resource, action string) string {
	return resource + "." + action
}
