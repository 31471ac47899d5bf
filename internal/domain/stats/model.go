package stats

// Count is one bar of a dashboard chart.
type Count struct {
	Label string
	Total int64
}

const (
	KindRecordsByType      = "records_by_type"
	KindRecordsByWasteType = "records_by_waste_type"
	KindSectorsByZone      = "sectors_by_zone"
	KindUsersByRole        = "users_by_role"
)
