package stats

import (
	"context"
	"testing"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/census"
	"census-app-go/internal/domain/reference"
	statsdomain "census-app-go/internal/domain/stats"
	"census-app-go/internal/domain/user"
	"census-app-go/internal/repository/postgres/pgtest"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCounts(t *testing.T) {
	ctx := context.Background()
	db := pgtest.Open(t)
	repo := NewPostgres(db)

	zone := reference.Zone{Name: "Centro"}
	require.NoError(t, db.Omit("Sectors").Create(&zone).Error)
	empty := reference.Zone{Name: "Sur"}
	require.NoError(t, db.Omit("Sectors").Create(&empty).Error)
	sector := reference.Sector{Name: "Centro-A", ZoneID: zone.ID}
	require.NoError(t, db.Create(&sector).Error)

	for i, waste := range []string{"Orgánico", "Orgánico", "Plástico"} {
		require.NoError(t, db.Create(&census.Record{
			Code: []string{"V001", "V002", "C001"}[i], NationalID: []string{"1", "2", "3"}[i], Name: "N", Address: "A",
			ZoneID: zone.ID, SectorID: sector.ID,
			CensusTypeID: []int64{reference.TypeHousehold, reference.TypeHousehold, reference.TypeBusiness}[i],
			WasteType:    waste,
		}).Error)
	}
	require.NoError(t, db.Create(&user.User{Name: "A", Email: "a@example.com", PasswordHash: "x", Role: access.RoleAdmin, Permissions: []string{}}).Error)

	byType, err := repo.RecordsByType(ctx)
	require.NoError(t, err)
	require.Len(t, byType, 7)
	assert.Equal(t, statsdomain.Count{Label: "Vivienda", Total: 2}, byType[0])
	assert.Equal(t, statsdomain.Count{Label: "Comercio", Total: 1}, byType[1])

	byWaste, err := repo.RecordsByWasteType(ctx)
	require.NoError(t, err)
	assert.Equal(t, []statsdomain.Count{{Label: "Orgánico", Total: 2}, {Label: "Plástico", Total: 1}}, byWaste)

	byZone, err := repo.SectorsByZone(ctx)
	require.NoError(t, err)
	assert.Equal(t, []statsdomain.Count{{Label: "Centro", Total: 1}, {Label: "Sur", Total: 0}}, byZone)

	byRole, err := repo.UsersByRole(ctx)
	require.NoError(t, err)
	assert.Equal(t, []statsdomain.Count{{Label: access.RoleAdmin, Total: 1}}, byRole)
}
