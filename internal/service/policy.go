package service

import "github.com/edge-risk/backend/internal/model"

// Authorization policy for the account management surface. Pure decision
// functions, no I/O; every mutating user endpoint calls into these so the
// rules live in exactly one place.
//
//	actor       create  create-su  edit self  edit other  edit su  delete  delete su
//	regular     deny    deny       allow      deny        deny     deny    deny
//	staff       allow   deny       allow      allow*      deny     allow   deny
//	superuser   allow   allow      allow      allow       allow    allow   deny
//
// (*) staff may not touch the superuser flag. No actor ever deletes a
// superuser account, itself included. Violations come back as the generic
// ErrForbidden without naming the rule that failed.

// CanCreateUser decides whether actor may create an account with the
// requested role flags.
func CanCreateUser(actor *model.AuthUser, req *model.UserCreateRequest) error {
	if !actor.CanManage() {
		return ErrForbidden
	}
	if req.IsSuperuser && !actor.IsSuperuser {
		return ErrForbidden
	}
	return nil
}

// CanUpdateUser decides whether actor may apply the requested changes to
// target. Role judgments about the target use the stored record, not claims.
func CanUpdateUser(actor *model.AuthUser, target *model.User, req *model.UserUpdateRequest) error {
	self := actor.ID == target.ID

	if !self {
		if !actor.CanManage() {
			return ErrForbidden
		}
		if target.IsSuperuser && !actor.IsSuperuser {
			return ErrForbidden
		}
	}

	if req.IsStaff != nil && *req.IsStaff != target.IsStaff && !actor.CanManage() {
		return ErrForbidden
	}
	if req.IsSuperuser != nil && *req.IsSuperuser != target.IsSuperuser && !actor.IsSuperuser {
		return ErrForbidden
	}
	return nil
}

// CanDeleteUser decides whether actor may delete target. A superuser account
// is never deletable through the API.
func CanDeleteUser(actor *model.AuthUser, target *model.User) error {
	if target.IsSuperuser {
		return ErrForbidden
	}
	if !actor.CanManage() {
		return ErrForbidden
	}
	return nil
}
