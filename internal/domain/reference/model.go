package reference

import "time"

// Census type ids are seeded with fixed values by the initial migration.
const (
	TypeHousehold                  int64 = 1
	TypeBusiness                   int64 = 2
	TypeMarket                     int64 = 3
	TypeOrganizedHousehold         int64 = 4
	TypeEducationalInstitution     int64 = 5
	TypePublicOrPrivateInstitution int64 = 6
	TypeOther                      int64 = 7
)

type Zone struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_zones_name"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`

	Sectors []Sector `gorm:"foreignKey:ZoneID"`
}

type Sector struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null"`
	ZoneID    int64     `gorm:"not null;index"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type CensusType struct {
	ID        int64     `gorm:"primaryKey"`
	Name      string    `gorm:"size:100;not null;uniqueIndex:idx_census_types_name"`
	CreatedAt time.Time `gorm:"autoCreateTime"`
	UpdatedAt time.Time `gorm:"autoUpdateTime"`
}

type ZoneSummary struct {
	Zone
	SectorCount int64
}

type SectorView struct {
	Sector
	ZoneName string
}

type CensusTypeSummary struct {
	CensusType
	RecordCount int64
}

// DefaultCensusTypes lists the census types every installation starts with.
func DefaultCensusTypes() []CensusType {
	return []CensusType{
		{ID: TypeHousehold, Name: "Vivienda"},
		{ID: TypeBusiness, Name: "Comercio"},
		{ID: TypeMarket, Name: "Mercado"},
		{ID: TypeOrganizedHousehold, Name: "Vivienda organizada"},
		{ID: TypeEducationalInstitution, Name: "Institución educativa"},
		{ID: TypePublicOrPrivateInstitution, Name: "Institución pública o privada"},
		{ID: TypeOther, Name: "Otros"},
	}
}
