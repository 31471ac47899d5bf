package evidence

import (
	"context"
	"testing"
	"time"

	"census-app-go/internal/domain/census"
	evidencedomain "census-app-go/internal/domain/evidence"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/repository/postgres/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestSubmitFlowQueries(t *testing.T) {
	ctx := context.Background()
	db := pgtest.Open(t)
	repo := NewPostgres(db)

	zone := reference.Zone{Name: "Centro"}
	require.NoError(t, db.Omit("Sectors").Create(&zone).Error)
	sector := reference.Sector{Name: "Centro-A", ZoneID: zone.ID}
	require.NoError(t, db.Create(&sector).Error)
	record := census.Record{
		Code: "V001", NationalID: "11111111", Name: "Ana", Address: "Jr. Lima 1",
		ZoneID: zone.ID, SectorID: sector.ID, CensusTypeID: reference.TypeHousehold, WasteType: "Orgánico",
	}
	require.NoError(t, db.Create(&record).Error)
	sched := schedule.Schedule{UserID: 7, ZoneID: zone.ID, SectorID: sector.ID, Days: []string{"lunes"}, StartTime: "08:00", EndTime: "10:00"}
	require.NoError(t, db.Create(&sched).Error)
	require.NoError(t, db.Create(&schedule.ScheduleRecord{ScheduleID: sched.ID, CensusRecordID: record.ID}).Error)

	_, err := repo.GetScheduleForUser(ctx, sched.ID, 8)
	assert.ErrorIs(t, err, evidencedomain.ErrScheduleNotFound)

	err = repo.Transaction(ctx, func(tx evidencedomain.Repository) error {
		got, err := tx.GetScheduleForUser(ctx, sched.ID, 7)
		require.NoError(t, err)
		assert.Equal(t, sched.ID, got.ID)

		ref, err := tx.LockRecord(ctx, record.ID)
		require.NoError(t, err)
		assert.Equal(t, "V001", ref.Code)
		assert.Equal(t, sector.ID, ref.SectorID)

		ids, err := tx.ExplicitRecordIDs(ctx, sched.ID)
		require.NoError(t, err)
		assert.Equal(t, []int64{record.ID}, ids)

		_, err = tx.LockRecord(ctx, 999)
		assert.ErrorIs(t, err, evidencedomain.ErrRecordNotFound)
		return nil
	})
	require.NoError(t, err)
}

func TestLatestBySchedule(t *testing.T) {
	ctx := context.Background()
	db := pgtest.Open(t)
	repo := NewPostgres(db)

	first := time.Date(2026, 3, 2, 9, 0, 0, 0, time.UTC)
	comment := "sin acceso"
	require.NoError(t, repo.Create(ctx, &evidencedomain.Entry{ScheduleID: 1, CensusRecordID: 10, Status: evidencedomain.StatusNotCompleted, Comment: &comment, CreatedAt: first}))
	require.NoError(t, repo.Create(ctx, &evidencedomain.Entry{ScheduleID: 1, CensusRecordID: 10, Status: evidencedomain.StatusCompleted, Completed: true, CreatedAt: first.Add(time.Hour)}))
	require.NoError(t, repo.Create(ctx, &evidencedomain.Entry{ScheduleID: 2, CensusRecordID: 10, Status: evidencedomain.StatusNotFound, CreatedAt: first}))

	latest, err := repo.LatestBySchedule(ctx, []int64{1, 2})
	require.NoError(t, err)
	assert.Equal(t, evidencedomain.StatusCompleted, latest[1][10].Status)
	assert.True(t, latest[1][10].Completed)
	assert.Equal(t, evidencedomain.StatusNotFound, latest[2][10].Status)

	empty, err := repo.LatestBySchedule(ctx, nil)
	require.NoError(t, err)
	assert.Empty(t, empty)
}
