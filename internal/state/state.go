// Package state is the domain state container. State changes only through
// Reduce, which maps (state, action) to a new state without touching the old
// one; Container serializes writers and persists the durable subset.
package state

import (
	"minimarket/internal/model"
)

// State is an immutable snapshot. Slices are shared between snapshots and
// must never be modified in place.
type State struct {
	Products           []model.Product     `json:"products"`
	Sales              []model.Sale        `json:"sales"`
	Users              []model.User        `json:"users"`
	KardexEntries      []model.KardexEntry `json:"kardexEntries"`
	CashSessions       []model.CashSession `json:"cashSessions"`
	Alerts             []model.Alert       `json:"alerts"`
	CurrentUser        *model.User         `json:"currentUser"`
	CurrentCashSession *model.CashSession  `json:"currentCashSession"`
}

// Persisted is the subset written to the blob store. Products belong to the
// Product Store and users are always reseeded, so neither is included.
type Persisted struct {
	Sales         []model.Sale        `json:"sales"`
	KardexEntries []model.KardexEntry `json:"kardexEntries"`
	CashSessions  []model.CashSession `json:"cashSessions"`
	Alerts        []model.Alert       `json:"alerts"`
}

func (s State) Persisted() Persisted {
	return Persisted{
		Sales:         nonNil(s.Sales),
		KardexEntries: nonNil(s.KardexEntries),
		CashSessions:  nonNil(s.CashSessions),
		Alerts:        nonNil(s.Alerts),
	}
}

// Product looks up a cached product by id.
func (s State) Product(id string) (model.Product, bool) {
	for _, p := range s.Products {
		if p.ID == id {
			return p, true
		}
	}
	return model.Product{}, false
}

// User looks up a seeded user by id.
func (s State) User(id string) (model.User, bool) {
	for _, u := range s.Users {
		if u.ID == id {
			return u, true
		}
	}
	return model.User{}, false
}

// Session looks up a session in history by id.
func (s State) Session(id string) (model.CashSession, bool) {
	for _, cs := range s.CashSessions {
		if cs.ID == id {
			return cs, true
		}
	}
	return model.CashSession{}, false
}

// Sale finds a sale by id or by sale number.
func (s State) Sale(ref string) (model.Sale, bool) {
	for _, sale := range s.Sales {
		if sale.ID == ref || sale.SaleNumber == ref {
			return sale, true
		}
	}
	return model.Sale{}, false
}

func nonNil[T any](in []T) []T {
	if in == nil {
		return []T{}
	}
	return in
}
