package persistence

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"

	"github.com/gestium/backend/internal/domain/activity"
)

func activityColumns() []string {
	return []string{"id", "organization_id", "entity_kind", "entity_id", "action", "description", "actor_id", "actor_name", "before_state", "after_state", "origin_ip", "origin_agent", "created_at"}
}

func TestActivityRepository_AppendInserts(t *testing.T) {
	db := newMockDB(t)
	repo := NewGormActivityRepository(db.DB)

	record, err := activity.NewRecord(uuid.New(), "documentos", uuid.New(), activity.ActionCreate)
	assert.NoError(t, err)

	db.Mock.ExpectExec(`INSERT INTO "activity_records"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	assert.NoError(t, repo.Append(context.Background(), record))
	assert.NoError(t, db.Mock.ExpectationsWereMet())
}

func TestActivityRepository_FindByOrganizationOrdersNewestFirst(t *testing.T) {
	db := newMockDB(t)
	repo := NewGormActivityRepository(db.DB)
	orgID := uuid.New()
	now := time.Now()

	db.Mock.ExpectQuery(`SELECT count\(\*\) FROM "activity_records" WHERE organization_id = \$1`).
		WithArgs(orgID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(2))
	db.Mock.ExpectQuery(`SELECT \* FROM "activity_records" WHERE organization_id = \$1 ORDER BY created_at DESC, id DESC LIMIT \$2`).
		WithArgs(orgID, 20).
		WillReturnRows(sqlmock.NewRows(activityColumns()).
			AddRow(uuid.New(), orgID, "documentos", uuid.New(), "create", "Created document", nil, nil, nil, nil, "", "", now).
			AddRow(uuid.New(), orgID, "usuarios", uuid.New(), "update", "Updated user", nil, nil, nil, nil, "", "", now.Add(-time.Hour)))

	records, total, err := repo.FindByOrganization(context.Background(), orgID, activity.Filter{}, 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(2), total)
	assert.Len(t, records, 2)
	assert.Equal(t, "documentos", records[0].EntityKind)
}

func TestActivityRepository_FindByOrganizationAppliesFilter(t *testing.T) {
	db := newMockDB(t)
	repo := NewGormActivityRepository(db.DB)
	orgID := uuid.New()
	entityID := uuid.New()

	db.Mock.ExpectQuery(`SELECT count\(\*\) FROM "activity_records" WHERE organization_id = \$1 AND entity_kind = \$2 AND entity_id = \$3`).
		WithArgs(orgID, "auditorias", entityID).
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	db.Mock.ExpectQuery(`SELECT \* FROM "activity_records" WHERE organization_id = \$1 AND entity_kind = \$2 AND entity_id = \$3 ORDER BY created_at DESC, id DESC LIMIT \$4`).
		WithArgs(orgID, "auditorias", entityID, 20).
		WillReturnRows(sqlmock.NewRows(activityColumns()))

	records, total, err := repo.FindByOrganization(context.Background(), orgID, activity.Filter{
		EntityKind: "auditorias",
		EntityID:   &entityID,
	}, 20, 0)

	assert.NoError(t, err)
	assert.Equal(t, int64(0), total)
	assert.Empty(t, records)
}

func TestActivityRepository_CountByKindAndActionGroups(t *testing.T) {
	db := newMockDB(t)
	repo := NewGormActivityRepository(db.DB)
	orgID := uuid.New()
	to := time.Now()
	from := to.AddDate(0, 0, -7)

	db.Mock.ExpectQuery(`SELECT entity_kind, action, COUNT\(\*\) AS count FROM "activity_records" WHERE organization_id = \$1 AND created_at >= \$2 AND created_at < \$3 GROUP BY entity_kind, action ORDER BY entity_kind ASC, action ASC`).
		WithArgs(orgID, from, to).
		WillReturnRows(sqlmock.NewRows([]string{"entity_kind", "action", "count"}).
			AddRow("documentos", "create", 4).
			AddRow("usuarios", "delete", 1))

	counts, err := repo.CountByKindAndAction(context.Background(), orgID, from, to)

	assert.NoError(t, err)
	assert.Len(t, counts, 2)
	assert.Equal(t, "documentos", counts[0].EntityKind)
	assert.Equal(t, int64(4), counts[0].Count)
}
