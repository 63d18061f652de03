// Package policy maps employee roles to resource permissions. Permissions
// are "resource:action" strings with wildcard support, checked by the
// router's requirePermission middleware.
package policy

import "strings"

// Action describes the kind of operation a user wants to perform.
type Action string

const (
	ActionView   Action = "view"
	ActionCreate Action = "create"
	ActionUpdate Action = "update"
	ActionDelete Action = "delete"
	ActionList   Action = "list"
)

// Permission is an allowed action on a resource type, "resource:action".
type Permission string

const (
	WildcardAll                     = "*"
	PermissionSuperAdmin Permission = "*:*"
)

// NewPermission builds a permission from resource type and action.
func NewPermission(resource string, action Action) Permission {
	return Permission(resource + ":" + string(action))
}

// Parse splits a permission into resource type and action.
func (p Permission) Parse() (resource string, action Action) {
	res, act, ok := strings.Cut(string(p), ":")
	if !ok {
		return "", ""
	}
	return res, Action(act)
}

// Matches checks whether this permission grants the requested one.
// "*:*" matches everything; "product:*" matches every product action.
func (p Permission) Matches(requested Permission) bool {
	if p == PermissionSuperAdmin || p == requested {
		return true
	}
	res, act := p.Parse()
	reqRes, _ := requested.Parse()
	return res == reqRes && string(act) == WildcardAll
}

// rolePermissions is the fixed role model of the shop: admins can do
// anything, managers run the catalog and the books, cashiers sell.
var rolePermissions = map[string][]Permission{
	"admin": {PermissionSuperAdmin},
	"manager": {
		"product:*", "category:*", "client:*", "order:*",
		"inventory:*", "transaction:*", "settings:*", "employee:list", "employee:view",
	},
	"cashier": {
		"product:list", "product:view",
		"category:list", "category:view",
		"client:list", "client:view", "client:create",
		"order:list", "order:view", "order:create", "order:update",
		"inventory:list",
	},
}

// Can reports whether a role may perform an action on a resource type.
// Unknown roles have no permissions.
func Can(role, resource string, action Action) bool {
	requested := NewPermission(resource, action)
	for _, p := range rolePermissions[role] {
		if p.Matches(requested) {
			return true
		}
	}
	return false
}

// Roles lists the roles the API accepts for employees and users.
func Roles() []string {
	return []string{"admin", "manager", "cashier"}
}
