package reference

import "context"

type Repository interface {
	Transaction(ctx context.Context, fn func(Repository) error) error

	ListZones(ctx context.Context) ([]ZoneSummary, error)
	GetZone(ctx context.Context, id int64) (*Zone, error)
	CreateZone(ctx context.Context, zone *Zone) error
	UpdateZoneName(ctx context.Context, id int64, name string) error
	DeleteZone(ctx context.Context, id int64) error
	ZoneNameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	CountSectorsInZone(ctx context.Context, zoneID int64) (int64, error)
	CountZoneReferences(ctx context.Context, zoneID int64) (int64, error)

	ListSectors(ctx context.Context) ([]SectorView, error)
	ListSectorsByZone(ctx context.Context, zoneID int64) ([]Sector, error)
	GetSector(ctx context.Context, id int64) (*Sector, error)
	CreateSector(ctx context.Context, sector *Sector) error
	UpdateSector(ctx context.Context, sector *Sector) error
	DeleteSector(ctx context.Context, id int64) error
	CountSectorReferences(ctx context.Context, sectorID int64) (int64, error)

	ListCensusTypes(ctx context.Context) ([]CensusTypeSummary, error)
	GetCensusType(ctx context.Context, id int64) (*CensusType, error)
	CreateCensusType(ctx context.Context, censusType *CensusType) error
	UpdateCensusTypeName(ctx context.Context, id int64, name string) error
	DeleteCensusType(ctx context.Context, id int64) error
	CensusTypeNameTaken(ctx context.Context, name string, exceptID int64) (bool, error)
	CountRecordsOfType(ctx context.Context, typeID int64) (int64, error)
}
