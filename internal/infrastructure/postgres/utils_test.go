package postgres

import (
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
)

func TestPgErrorClassification(t *testing.T) {
	invalid := fmt.Errorf("query: %w", &pgconn.PgError{Code: "22P02", Message: `invalid input syntax for type uuid: "abc"`})
	assert.True(t, isInvalidText(invalid))
	assert.False(t, isUniqueViolation(invalid))

	assert.True(t, isUniqueViolation(&pgconn.PgError{Code: "23505"}))
	assert.True(t, isForeignKeyViolation(&pgconn.PgError{Code: "23503"}))
	assert.False(t, isInvalidText(&pgconn.PgError{Code: "23505"}))
	assert.False(t, isInvalidText(errors.New("22P02")))
	assert.True(t, isNoRows(fmt.Errorf("scan: %w", pgx.ErrNoRows)))
}
