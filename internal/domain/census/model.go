package census

import (
	"time"

	"gorm.io/datatypes"
)

type Record struct {
	ID                  int64                       `gorm:"primaryKey"`
	Code                string                      `gorm:"size:20;not null;uniqueIndex:idx_census_records_code"`
	NationalID          string                      `gorm:"size:8;not null;uniqueIndex:idx_census_records_national_id"`
	Name                string                      `gorm:"size:100;not null"`
	Address             string                      `gorm:"size:255;not null"`
	Phone               *string                     `gorm:"size:15"`
	ZoneID              int64                       `gorm:"not null;index"`
	SectorID            int64                       `gorm:"not null;index"`
	CensusTypeID        int64                       `gorm:"not null;index"`
	WasteType           string                      `gorm:"size:100;not null"`
	CollectionStartTime *string                     `gorm:"size:5"`
	CollectionEndTime   *string                     `gorm:"size:5"`
	CollectionDays      datatypes.JSONSlice[string]
	InhabitantCount     *int
	RouteCode           *string                     `gorm:"size:50"`
	Plate               *string                     `gorm:"size:20"`
	EstablishmentName   *string                     `gorm:"size:255"`
	EstablishmentType   *string                     `gorm:"size:100"`
	MarketRole          *string                     `gorm:"size:100"`
	MarketStallCount    *string                     `gorm:"size:100"`
	InstitutionName     *string                     `gorm:"size:255"`
	InstitutionType     *string                     `gorm:"size:100"`
	CreatedAt           time.Time                   `gorm:"autoCreateTime"`
	UpdatedAt           time.Time                   `gorm:"autoUpdateTime"`
}

func (Record) TableName() string {
	return "census_records"
}

type RecordView struct {
	Record
	ZoneName       string
	SectorName     string
	CensusTypeName string
}

type Input struct {
	NationalID          string
	Name                string
	Address             string
	Phone               string
	ZoneID              int64
	SectorID            int64
	CensusTypeID        int64
	WasteType           string
	CollectionStartTime string
	CollectionEndTime   string
	CollectionDays      []string
	InhabitantCount     *int
	RouteCode           string
	Plate               string
	EstablishmentName   string
	EstablishmentType   string
	MarketRole          string
	MarketStallCount    string
	InstitutionName     string
	InstitutionType     string
}

const (
	DefaultPerPage = 10
	MaxPerPage     = 100
)

type ListFilter struct {
	Page     int
	PerPage  int
	SectorID int64
	TypeID   int64
	Search   string
}

// Page mirrors the pagination block returned with listings.
type Page struct {
	CurrentPage int
	LastPage    int
	PerPage     int
	Total       int64
	From        int
	To          int
}

func (f ListFilter) normalized() ListFilter {
	if f.PerPage <= 0 {
		f.PerPage = DefaultPerPage
	}
	if f.PerPage > MaxPerPage {
		f.PerPage = MaxPerPage
	}
	if f.Page <= 0 {
		f.Page = 1
	}
	return f
}

func (f ListFilter) Offset() int {
	return (f.Page - 1) * f.PerPage
}

func newPage(filter ListFilter, total int64, count int) Page {
	lastPage := int((total + int64(filter.PerPage) - 1) / int64(filter.PerPage))
	if lastPage < 1 {
		lastPage = 1
	}
	page := Page{
		CurrentPage: filter.Page,
		LastPage:    lastPage,
		PerPage:     filter.PerPage,
		Total:       total,
	}
	if count > 0 {
		page.From = filter.Offset() + 1
		page.To = filter.Offset() + count
	}
	return page
}

func (i Input) apply(record *Record) {
	record.NationalID = i.NationalID
	record.Name = i.Name
	record.Address = i.Address
	record.Phone = optional(i.Phone)
	record.ZoneID = i.ZoneID
	record.SectorID = i.SectorID
	record.CensusTypeID = i.CensusTypeID
	record.WasteType = i.WasteType
	record.CollectionStartTime = optional(i.CollectionStartTime)
	record.CollectionEndTime = optional(i.CollectionEndTime)
	record.CollectionDays = datatypes.JSONSlice[string](i.CollectionDays)
	if record.CollectionDays == nil {
		record.CollectionDays = datatypes.JSONSlice[string]{}
	}
	record.InhabitantCount = i.InhabitantCount
	record.RouteCode = optional(i.RouteCode)
	record.Plate = optional(i.Plate)
	record.EstablishmentName = optional(i.EstablishmentName)
	record.EstablishmentType = optional(i.EstablishmentType)
	record.MarketRole = optional(i.MarketRole)
	record.MarketStallCount = optional(i.MarketStallCount)
	record.InstitutionName = optional(i.InstitutionName)
	record.InstitutionType = optional(i.InstitutionType)
}

func optional(value string) *string {
	if value == "" {
		return nil
	}
	return &value
}
