package schedule

import (
	"time"

	"gorm.io/datatypes"
)

type Schedule struct {
	ID          int64                       `gorm:"primaryKey"`
	UserID      int64                       `gorm:"not null;index"`
	ZoneID      int64                       `gorm:"not null;index"`
	SectorID    int64                       `gorm:"not null;index"`
	Days        datatypes.JSONSlice[string] `gorm:"not null"`
	StartTime   string                      `gorm:"size:5;not null"`
	EndTime     string                      `gorm:"size:5;not null"`
	Description *string                     `gorm:"size:255"`
	CreatedAt   time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt   time.Time                   `gorm:"autoUpdateTime"`
}

// ScheduleRecord is the explicit assignment of a census record to a schedule.
type ScheduleRecord struct {
	ScheduleID     int64 `gorm:"primaryKey"`
	CensusRecordID int64 `gorm:"primaryKey;index"`
}

func (ScheduleRecord) TableName() string {
	return "schedule_census_records"
}

type View struct {
	Schedule
	UserName   string
	UserRole   string
	ZoneName   string
	SectorName string
}

// RecordRef is the slice of a census record the schedule screens need.
type RecordRef struct {
	ID       int64
	Code     string
	Name     string
	Address  string
	ZoneID   int64
	SectorID int64
}

type EvidenceStamp struct {
	CensusRecordID int64
	CreatedAt      time.Time
}

type Input struct {
	UserID      int64
	ZoneID      int64
	SectorID    int64
	Days        []string
	StartTime   string
	EndTime     string
	Description string
	RecordIDs   []int64
}

type ListFilter struct {
	OwnerRole string
	UserID    int64
}

type Overview struct {
	View
	Pool     Pool
	Progress Progress
}
