package authz

import (
	"fmt"
	"strings"

	"github.com/google/uuid"
)

const (
	subjectUserPrefix     = "user"
	rolePrefix            = "role"
	objectSeparator       = "."
	subjectSeparator      = ":"
	defaultActionWildcard = "*"
)

// Request encapsulates the parameters of one permission-key evaluation.
type Request struct {
	Subject string
	Object  string
	Action  string
}

// NewRequest constructs a Request.
func NewRequest(subject, object, action string) Request {
	return Request{
		Subject: subject,
		Object:  object,
		Action:  action,
	}
}

// SubjectForUser builds the canonical user subject identifier.
func SubjectForUser(userID uint) string {
	if userID == 0 {
		return subjectUserPrefix + subjectSeparator + "anonymous"
	}
	return fmt.Sprintf("%s%s%d", subjectUserPrefix, subjectSeparator, userID)
}

// SubjectForRole returns the canonical identifier for a role-based subject.
func SubjectForRole(roleID uuid.UUID) string {
	return rolePrefix + subjectSeparator + strings.ToLower(roleID.String())
}

// ObjectName returns the canonical module.resource string, lowercased.
func ObjectName(module, resource string) string {
	module = strings.ToLower(strings.TrimSpace(module))
	resource = strings.ToLower(strings.TrimSpace(resource))
	if module == "" {
		module = "global"
	}
	if resource == "" {
		resource = "resource"
	}
	return module + objectSeparator + resource
}

// NormalizeAction returns a normalized action string.
func NormalizeAction(action string) string {
	action = strings.ToLower(strings.TrimSpace(action))
	if action == "" {
		return defaultActionWildcard
	}
	return action
}

// SplitPermissionKey decomposes a "resource.action" key. Keys without a dot
// are treated as a resource with the wildcard action.
func SplitPermissionKey(key string) (resource, action string) {
	key = strings.ToLower(strings.TrimSpace(key))
	idx := strings.LastIndex(key, objectSeparator)
	if idx < 0 {
		return key, defaultActionWildcard
	}
	return key[:idx], key[idx+1:]
}
