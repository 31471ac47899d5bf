package reference

import (
	"context"
	"testing"

	"census-app-go/internal/domain/census"
	referencedomain "census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/repository/postgres/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestZonesAndSectors(t *testing.T) {
	ctx := context.Background()
	repo := NewPostgres(pgtest.Open(t))

	zone := &referencedomain.Zone{Name: "Centro"}
	require.NoError(t, repo.CreateZone(ctx, zone))
	require.NoError(t, repo.CreateSector(ctx, &referencedomain.Sector{Name: "Centro-B", ZoneID: zone.ID}))
	require.NoError(t, repo.CreateSector(ctx, &referencedomain.Sector{Name: "Centro-A", ZoneID: zone.ID}))

	zones, err := repo.ListZones(ctx)
	require.NoError(t, err)
	require.Len(t, zones, 1)
	assert.EqualValues(t, 2, zones[0].SectorCount)
	assert.Equal(t, "Centro-A", zones[0].Sectors[0].Name)

	sectors, err := repo.ListSectors(ctx)
	require.NoError(t, err)
	require.Len(t, sectors, 2)
	assert.Equal(t, "Centro", sectors[0].ZoneName)

	taken, err := repo.ZoneNameTaken(ctx, "centro", 0)
	require.NoError(t, err)
	assert.True(t, taken)
	taken, err = repo.ZoneNameTaken(ctx, "centro", zone.ID)
	require.NoError(t, err)
	assert.False(t, taken)

	err = repo.CreateZone(ctx, &referencedomain.Zone{Name: "Centro"})
	assert.ErrorIs(t, err, referencedomain.ErrDuplicateZoneName)

	_, err = repo.GetZone(ctx, 999)
	assert.ErrorIs(t, err, referencedomain.ErrZoneNotFound)
	assert.ErrorIs(t, repo.DeleteSector(ctx, 999), referencedomain.ErrSectorNotFound)
}

func TestReferenceCounts(t *testing.T) {
	ctx := context.Background()
	db := pgtest.Open(t)
	repo := NewPostgres(db)

	zone := &referencedomain.Zone{Name: "Norte"}
	require.NoError(t, repo.CreateZone(ctx, zone))
	sector := &referencedomain.Sector{Name: "Norte-1", ZoneID: zone.ID}
	require.NoError(t, repo.CreateSector(ctx, sector))

	record := &census.Record{
		Code: "V001", NationalID: "12345678", Name: "Ana", Address: "Av. Sol 1",
		ZoneID: zone.ID, SectorID: sector.ID, CensusTypeID: referencedomain.TypeHousehold, WasteType: "Orgánico",
	}
	require.NoError(t, db.Create(record).Error)
	require.NoError(t, db.Create(&schedule.Schedule{
		UserID: 1, ZoneID: zone.ID, SectorID: sector.ID, Days: []string{"lunes"}, StartTime: "08:00", EndTime: "10:00",
	}).Error)

	refs, err := repo.CountSectorReferences(ctx, sector.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, refs)

	zoneRefs, err := repo.CountZoneReferences(ctx, zone.ID)
	require.NoError(t, err)
	assert.EqualValues(t, 2, zoneRefs)

	count, err := repo.CountRecordsOfType(ctx, referencedomain.TypeHousehold)
	require.NoError(t, err)
	assert.EqualValues(t, 1, count)

	types, err := repo.ListCensusTypes(ctx)
	require.NoError(t, err)
	require.Len(t, types, 7)
	assert.Equal(t, referencedomain.TypeHousehold, types[0].ID)
	assert.EqualValues(t, 1, types[0].RecordCount)
	assert.EqualValues(t, 0, types[1].RecordCount)

	require.NoError(t, repo.Transaction(ctx, func(tx referencedomain.Repository) error {
		return tx.UpdateCensusTypeName(ctx, referencedomain.TypeOther, "Otro")
	}))
	other, err := repo.GetCensusType(ctx, referencedomain.TypeOther)
	require.NoError(t, err)
	assert.Equal(t, "Otro", other.Name)
}
