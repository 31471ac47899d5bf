package evidence

import "errors"

var (
	ErrScheduleNotFound      = errors.New("schedule not found")
	ErrRecordNotFound        = errors.New("census record not found")
	ErrRecordOutsideSchedule = errors.New("census record is outside the schedule")
)
