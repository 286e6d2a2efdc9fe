package repository

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/stretchr/testify/assert"
	"gorm.io/gorm"
)

func TestTranslateError(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want error
	}{
		{"record not found", gorm.ErrRecordNotFound, ErrNotFound},
		{"unique violation", &pgconn.PgError{Code: "23505"}, ErrDuplicate},
		{"foreign key violation", &pgconn.PgError{Code: "23503"}, ErrForeignKey},
		{"serialization failure", &pgconn.PgError{Code: "40001"}, ErrTransient},
		{"deadlock", &pgconn.PgError{Code: "40P01"}, ErrTransient},
		{"lock timeout", &pgconn.PgError{Code: "55P03"}, ErrTransient},
		{"statement timeout", &pgconn.PgError{Code: "57014"}, ErrTransient},
		{"context deadline", fmt.Errorf("query: %w", context.DeadlineExceeded), ErrTransient},
		{"already translated", fmt.Errorf("%w: detail", ErrTransient), ErrTransient},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.ErrorIs(t, translateError(tt.err), tt.want)
		})
	}
}

func TestTranslateError_PassesThroughUnknown(t *testing.T) {
	assert.Nil(t, translateError(nil))

	check := &pgconn.PgError{Code: "23514"}
	got := translateError(check)
	assert.Same(t, check, got)

	plain := errors.New("boom")
	assert.Equal(t, plain, translateError(plain))
}

func TestLikePatternEscapesWildcards(t *testing.T) {
	assert.Equal(t, `%50\%\_off%`, likePattern("50%_off"))
}

func TestOrderClause(t *testing.T) {
	allowed := map[string]string{"name": "name", "created_at": "created_at"}

	assert.Equal(t, "name ASC", orderClause("name", allowed, "created_at DESC"))
	assert.Equal(t, "created_at DESC", orderClause("-created_at", allowed, "name ASC"))
	assert.Equal(t, "name ASC", orderClause("password; DROP TABLE", allowed, "name ASC"))
}
