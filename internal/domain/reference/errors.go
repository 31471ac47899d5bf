package reference

import "errors"

var (
	ErrZoneNotFound            = errors.New("zone not found")
	ErrSectorNotFound          = errors.New("sector not found")
	ErrCensusTypeNotFound      = errors.New("census type not found")
	ErrZoneHasSectors          = errors.New("zone still has sectors")
	ErrZoneInUse               = errors.New("zone is referenced by census records or schedules")
	ErrSectorInUse             = errors.New("sector is referenced by census records or schedules")
	ErrCensusTypeInUse         = errors.New("census type is referenced by census records")
	ErrDuplicateZoneName       = errors.New("zone name already taken")
	ErrDuplicateCensusTypeName = errors.New("census type name already taken")
)
