package repository

import (
	"errors"
	"fmt"
	"testing"

	"github.com/go-sql-driver/mysql"
	"github.com/stretchr/testify/require"
)

func TestIsDuplicateKey(t *testing.T) {
	t.Run("typed driver error 1062", func(t *testing.T) {
		err := &mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'A1' for key 'uq_course_gender_seat'"}
		require.True(t, isDuplicateKey(err))
	})

	t.Run("wrapped driver error", func(t *testing.T) {
		err := fmt.Errorf("insert participant: %w",
			&mysql.MySQLError{Number: 1062, Message: "Duplicate entry 'N-100' for key 'uq_course_confirmation'"})
		require.True(t, isDuplicateKey(err))
	})

	t.Run("other driver errors are not duplicates", func(t *testing.T) {
		err := &mysql.MySQLError{Number: 1452, Message: "Cannot add or update a child row"}
		require.False(t, isDuplicateKey(err))
	})

	t.Run("string fallback", func(t *testing.T) {
		require.True(t, isDuplicateKey(errors.New("Error 1062: Duplicate entry")))
		require.False(t, isDuplicateKey(errors.New("connection refused")))
		require.False(t, isDuplicateKey(nil))
	})
}
