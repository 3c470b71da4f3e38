// Package authz decides whether an authenticated user may act on a resource.
package authz

import "github.com/jobportal/jobportal-go/internal/model"

// Resource is anything with a single owning user.
type Resource interface {
	OwnerID() string
}

// CanMutate reports whether user owns resource. It fails closed: a nil user,
// a nil resource or a resource without an owner yields false.
func CanMutate(user *model.User, resource Resource) bool {
	if user == nil || user.ID == "" || isNil(resource) {
		return false
	}

	owner := resource.OwnerID()
	return owner != "" && owner == user.ID
}

// CanAccess reports whether user owns any of the given resources.
func CanAccess(user *model.User, resources ...Resource) bool {
	for _, r := range resources {
		if CanMutate(user, r) {
			return true
		}
	}
	return false
}

func isNil(r Resource) bool {
	switch v := r.(type) {
	case nil:
		return true
	case *model.Job:
		return v == nil
	case *model.Application:
		return v == nil
	case *model.User:
		return v == nil
	}
	return false
}
