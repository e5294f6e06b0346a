package service

import (
	"context"
	"time"

	"minimarket/internal/apierror"
	"minimarket/internal/model"
)

// Actor is the authenticated user a call is made on behalf of.
type Actor struct {
	UserID   string
	Username string
	Role     model.Role
}

// SystemActor is used by the CLI and background jobs.
var SystemActor = Actor{UserID: "1", Username: "admin", Role: model.RoleAdmin}

// ActorFromUser builds an Actor from a seed user.
func ActorFromUser(u model.User) Actor {
	return Actor{UserID: u.ID, Username: u.Username, Role: u.Role}
}

func (a Actor) is(roles ...model.Role) bool {
	for _, r := range roles {
		if a.Role == r {
			return true
		}
	}
	return false
}

// ErrForbidden is returned when the actor's role may not perform the call.
var ErrForbidden = apierror.Permission("Permisos insuficientes")

func requireRole(a Actor, roles ...model.Role) error {
	if !a.is(roles...) {
		return ErrForbidden
	}
	return nil
}

// managers may read reports, history and the audit log.
var managers = []model.Role{model.RoleAdmin, model.RoleSupervisor}

// ReceiptQueue accepts receipt deliveries for background processing.
type ReceiptQueue interface {
	EnqueueReceipt(ctx context.Context, saleID, email string) error
}

func paginate(page, limit, max int) (int, int) {
	if page < 1 {
		page = 1
	}
	if limit < 1 || limit > max {
		limit = 20
	}
	return page, limit
}

// pageBounds returns the [from, to) slice bounds of page over n items.
func pageBounds(n, page, limit int) (int, int) {
	from := (page - 1) * limit
	if from > n {
		from = n
	}
	to := from + limit
	if to > n {
		to = n
	}
	return from, to
}

type clock func() time.Time
