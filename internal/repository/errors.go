// Package repository defines error values shared across repositories.
// Sentinels let handlers map failure scenarios to HTTP statuses without
// inspecting driver-specific errors: ErrForbidden becomes 403, ErrConflict
// 409, and the per-entity not-found values 404.
package repository

import (
	"errors"
	"strings"

	"github.com/go-sql-driver/mysql"
)

// ErrForbidden is returned when the caller's role does not permit the
// operation. Handlers should translate this into an HTTP 403 response.
var ErrForbidden = errors.New("forbidden")

// ErrConflict is returned when an operation cannot proceed because of
// conflicting state, such as registering the same confirmation code twice
// on one course. Handlers should translate this into an HTTP 409 response.
var ErrConflict = errors.New("conflict")

// isDuplicateKey reports whether err is a MySQL duplicate-entry violation
// (error 1062). The string fallback covers drivers and test doubles that do
// not wrap *mysql.MySQLError.
func isDuplicateKey(err error) bool {
	var me *mysql.MySQLError
	if errors.As(err, &me) {
		return me.Number == 1062
	}
	return err != nil && strings.Contains(strings.ToLower(err.Error()), "1062")
}
