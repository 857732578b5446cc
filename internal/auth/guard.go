// Package auth decides what an acting user may do with a task or category.
// The decision logic is pure; request-scoped user propagation lives in
// context.go.
package auth

import "taskhub/internal/model"

// Decision is the outcome of an access check.
type Decision int

const (
	// Denied grants nothing.
	Denied Decision = iota
	// SharedReader grants read-only access (tasks only).
	SharedReader
	// Owner grants full read/write access.
	Owner
)

func (d Decision) String() string {
	switch d {
	case Owner:
		return "owner"
	case SharedReader:
		return "shared-reader"
	default:
		return "denied"
	}
}

// CanRead reports whether the decision allows reading the resource.
func (d Decision) CanRead() bool { return d != Denied }

// CanWrite reports whether the decision allows mutating the resource.
func (d Decision) CanWrite() bool { return d == Owner }

// ForTask classifies userID's access to a task: the owner gets Owner, anyone
// in the sharing set gets SharedReader, everyone else is Denied.
func ForTask(t *model.Task, userID string) Decision {
	if t.OwnerID == userID {
		return Owner
	}
	if t.IsSharedWith(userID) {
		return SharedReader
	}
	return Denied
}

// ForCategory classifies userID's access to a category. Global categories
// (no owner) are writable by everyone.
func ForCategory(c *model.Category, userID string) Decision {
	if c.IsGlobal() || *c.OwnerID == userID {
		return Owner
	}
	return Denied
}
