package db

import (
	"census-app-go/internal/domain/census"
	"census-app-go/internal/domain/evidence"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/domain/user"
)

// Models lists every persisted type in dependency order. The postgres schema itself comes
// from migrations/; AutoMigrate over this list is only used for throwaway databases.
func Models() []any {
	return []any{
		&reference.Zone{},
		&reference.Sector{},
		&reference.CensusType{},
		&user.User{},
		&census.Record{},
		&schedule.Schedule{},
		&schedule.ScheduleRecord{},
		&evidence.Entry{},
	}
}
