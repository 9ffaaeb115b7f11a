// Package store provides the persistence layer behind the matching API. A
// single Store interface fronts two interchangeable implementations: a GORM
// store (MySQL for the shared backend, SQLite for single-node installs) and an
// in-memory store used by the memory driver and the test suites.
package store

import (
	"context"
	"errors"
	"time"

	"github.com/medimatch/api/model"
)

// ErrNotFound is returned by lookups for absent records. Update and delete
// operations never return it: updating or deleting an absent record is a no-op.
var ErrNotFound = errors.New("store: record not found")

// StatKind names a global counter, except StatView which counts per facility.
type StatKind string

const (
	StatLogin        StatKind = "login"
	StatRegistration StatKind = "registration"
	StatMessage      StatKind = "message"
	StatView         StatKind = "view"
)

// ErrMissingEntityID is returned by IncrementStat when the view kind is used
// without a facility identifier.
var ErrMissingEntityID = errors.New("store: view stat requires an entity id")

// Store is the uniform persistence contract. All implementations share the
// same semantics so handlers never branch on the configured driver.
//
// Iteration-order rules: GetHospitals returns the catalog most-recent-first
// for authored inserts (AddHospital prepends) while bulk saves preserve the
// order of the given slice. GetMatches returns matches in creation order.
type Store interface {
	// GetUser looks a user up by normalized email. Returns ErrNotFound when
	// no account exists.
	GetUser(ctx context.Context, email string) (model.User, error)
	// SaveUser upserts by email. It never touches session state: sessions are
	// managed explicitly through SetSession and ClearSession.
	SaveUser(ctx context.Context, user *model.User) error
	// DeleteUser removes the account and clears every session that pointed at
	// it. Deleting an absent email is a no-op.
	DeleteUser(ctx context.Context, email string) error
	GetAllUsers(ctx context.Context) ([]model.User, error)
	// SaveAllUsers bulk-replaces the account table, used by administrative
	// bulk edits.
	SaveAllUsers(ctx context.Context, users []model.User) error

	// SetSession records token -> email with an expiry.
	SetSession(ctx context.Context, token, email string, expiresAt time.Time) error
	// GetSessionUser resolves a session token to its full user record.
	// Returns ErrNotFound when the token is unknown, expired, or the account
	// it pointed at no longer exists.
	GetSessionUser(ctx context.Context, token string) (model.User, error)
	// ClearSession drops the session only; the user record stays.
	ClearSession(ctx context.Context, token string) error

	GetHospitals(ctx context.Context) ([]model.HospitalProfile, error)
	GetHospital(ctx context.Context, id string) (model.HospitalProfile, error)
	// SaveHospitals bulk-replaces the catalog, keeping the slice order.
	SaveHospitals(ctx context.Context, hospitals []model.HospitalProfile) error
	// AddHospital inserts a single authored record at the front.
	AddHospital(ctx context.Context, hospital model.HospitalProfile) error
	// UpdateHospital rewrites the record with the matching id. Absent id is a
	// no-op: no error, no insert.
	UpdateHospital(ctx context.Context, hospital model.HospitalProfile) error
	DeleteHospital(ctx context.Context, id string) error

	GetMatches(ctx context.Context, userEmail string) ([]model.Match, error)
	GetMatch(ctx context.Context, id string) (model.Match, error)
	// SaveMatch creates the match unless one already exists for the same
	// (user, facility) pair, in which case it returns the existing record
	// unchanged. Either way the returned match is the stored one.
	SaveMatch(ctx context.Context, match model.Match) (model.Match, error)
	// UpdateMatch persists message appends and the cached last-message text.
	// Absent id is a no-op.
	UpdateMatch(ctx context.Context, match model.Match) error

	GetStats(ctx context.Context) (model.AppStats, error)
	// IncrementStat applies a lost-update-safe increment. StatView requires
	// entityID; the other kinds ignore it.
	IncrementStat(ctx context.Context, kind StatKind, entityID string) error

	// GetLegalText returns the stored legal notice, or the default French
	// body when none has been saved yet.
	GetLegalText(ctx context.Context) (string, error)
	SaveLegalText(ctx context.Context, text string) error
}
