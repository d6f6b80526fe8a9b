package persistence

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gestium/backend/internal/domain/governance"
)

func TestUsageCounter_CountUsersOnlyActive(t *testing.T) {
	db := newMockDB(t)
	counter := NewGormUsageCounter(db.DB)
	orgID := uuid.New()

	db.Mock.ExpectQuery(`SELECT count\(\*\) FROM "users" WHERE organization_id = \$1 AND status = \$2`).
		WithArgs(orgID, "active").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(7))

	count, err := counter.Count(context.Background(), orgID, governance.KindUsers)

	assert.NoError(t, err)
	assert.Equal(t, int64(7), count)
	assert.NoError(t, db.Mock.ExpectationsWereMet())
}

func TestUsageCounter_CountDepartmentsSkipsSoftDeleted(t *testing.T) {
	db := newMockDB(t)
	counter := NewGormUsageCounter(db.DB)
	orgID := uuid.New()

	db.Mock.ExpectQuery(`SELECT count\(\*\) FROM "departments" WHERE organization_id = \$1 AND "departments"\."deleted_at" IS NULL`).
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(3))

	count, err := counter.Count(context.Background(), orgID, governance.KindDepartments)

	assert.NoError(t, err)
	assert.Equal(t, int64(3), count)
}

func TestUsageCounter_CountDocuments(t *testing.T) {
	db := newMockDB(t)
	counter := NewGormUsageCounter(db.DB)
	orgID := uuid.New()

	db.Mock.ExpectQuery(`SELECT count\(\*\) FROM "documents" WHERE organization_id = \$1`).
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(12))

	count, err := counter.Count(context.Background(), orgID, governance.KindDocuments)

	assert.NoError(t, err)
	assert.Equal(t, int64(12), count)
}

func TestUsageCounter_UnknownKindNeverTouchesDatabase(t *testing.T) {
	db := newMockDB(t)
	counter := NewGormUsageCounter(db.DB)

	count, err := counter.Count(context.Background(), uuid.New(), governance.ResourceKind("proyectos"))

	assert.ErrorIs(t, err, governance.ErrUnknownResourceKind)
	assert.Zero(t, count)
	assert.NoError(t, db.Mock.ExpectationsWereMet())
}
