package evidence

import (
	"time"

	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/domain/user"
)

const (
	StatusCompleted    = "completado"
	StatusNotCompleted = "no_completado"
	StatusNotFound     = "no_encontrado"
)

func ValidStatus(status string) bool {
	switch status {
	case StatusCompleted, StatusNotCompleted, StatusNotFound:
		return true
	}
	return false
}

// Entry is append-only. Several entries may exist for one schedule and record; the newest one wins on reads.
type Entry struct {
	ID             int64     `gorm:"primaryKey"`
	ScheduleID     int64     `gorm:"not null;index:idx_evidence_entries_schedule_record,priority:1"`
	CensusRecordID int64     `gorm:"not null;index:idx_evidence_entries_schedule_record,priority:2;index"`
	PhotoRef       *string   `gorm:"size:255"`
	Completed      bool      `gorm:"not null"`
	Status         string    `gorm:"size:20;not null"`
	Comment        *string   `gorm:"size:1000"`
	CreatedAt      time.Time `gorm:"autoCreateTime;index"`
}

func (Entry) TableName() string {
	return "evidence_entries"
}

type SubmitInput struct {
	ScheduleID     int64
	CensusRecordID int64
	Status         string
	Comment        string
	Photo          *Photo
}

type BoardItem struct {
	Record   schedule.RecordRef
	Latest   *Entry
	PhotoURL string
}

type BoardSchedule struct {
	schedule.Overview
	Items []BoardItem
}

// Board is the field worker's assignment screen.
type Board struct {
	TargetUser   user.User
	ViewingOther bool
	Schedules    []BoardSchedule
}
