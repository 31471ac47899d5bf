package census

import (
	"context"
	"errors"
	"strings"
	"testing"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/validation"
)

type fakeCensusRepo struct {
	nextID          int64
	records         map[int64]*Record
	locks           []string
	dependentsGone  []int64
	failCodeInserts int
}

func newFakeCensusRepo() *fakeCensusRepo {
	return &fakeCensusRepo{records: make(map[int64]*Record)}
}

func (r *fakeCensusRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeCensusRepo) LockCodePrefix(ctx context.Context, prefix string) error {
	r.locks = append(r.locks, prefix)
	return nil
}

func (r *fakeCensusRepo) ListCodesWithPrefix(ctx context.Context, prefix string) ([]string, error) {
	var codes []string
	for _, record := range r.records {
		if strings.HasPrefix(record.Code, prefix) {
			codes = append(codes, record.Code)
		}
	}
	return codes, nil
}

func (r *fakeCensusRepo) Get(ctx context.Context, id int64) (*Record, error) {
	record, ok := r.records[id]
	if !ok {
		return nil, ErrRecordNotFound
	}
	copied := *record
	return &copied, nil
}

func (r *fakeCensusRepo) GetView(ctx context.Context, id int64) (*RecordView, error) {
	record, err := r.Get(ctx, id)
	if err != nil {
		return nil, err
	}
	return &RecordView{Record: *record}, nil
}

func (r *fakeCensusRepo) List(ctx context.Context, filter ListFilter, limit, offset int) ([]RecordView, int64, error) {
	var result []RecordView
	for id := int64(1); id <= r.nextID; id++ {
		if record, ok := r.records[id]; ok {
			result = append(result, RecordView{Record: *record})
		}
	}
	total := int64(len(result))
	if limit > 0 {
		if offset > len(result) {
			offset = len(result)
		}
		end := offset + limit
		if end > len(result) {
			end = len(result)
		}
		result = result[offset:end]
	}
	return result, total, nil
}

func (r *fakeCensusRepo) Create(ctx context.Context, record *Record) error {
	if r.failCodeInserts > 0 {
		r.failCodeInserts--
		return ErrDuplicateCode
	}
	for _, existing := range r.records {
		if existing.Code == record.Code {
			return ErrDuplicateCode
		}
		if existing.NationalID == record.NationalID {
			return ErrDuplicateNationalID
		}
	}
	r.nextID++
	record.ID = r.nextID
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeCensusRepo) Update(ctx context.Context, record *Record) error {
	copied := *record
	r.records[record.ID] = &copied
	return nil
}

func (r *fakeCensusRepo) Delete(ctx context.Context, id int64) error {
	delete(r.records, id)
	return nil
}

func (r *fakeCensusRepo) DeleteDependents(ctx context.Context, id int64) error {
	r.dependentsGone = append(r.dependentsGone, id)
	return nil
}

func (r *fakeCensusRepo) NationalIDTaken(ctx context.Context, nationalID string, exceptID int64) (bool, error) {
	for _, record := range r.records {
		if record.ID != exceptID && record.NationalID == nationalID {
			return true, nil
		}
	}
	return false, nil
}

type fakeRefs struct {
	zones   map[int64]reference.Zone
	sectors map[int64]reference.Sector
}

func newFakeRefs() *fakeRefs {
	return &fakeRefs{
		zones:   map[int64]reference.Zone{1: {ID: 1, Name: "Centro"}, 2: {ID: 2, Name: "Norte"}},
		sectors: map[int64]reference.Sector{1: {ID: 1, Name: "Centro-A", ZoneID: 1}, 2: {ID: 2, Name: "Norte-1", ZoneID: 2}},
	}
}

func (f *fakeRefs) GetZone(ctx context.Context, id int64) (*reference.Zone, error) {
	zone, ok := f.zones[id]
	if !ok {
		return nil, reference.ErrZoneNotFound
	}
	return &zone, nil
}

func (f *fakeRefs) GetSector(ctx context.Context, id int64) (*reference.Sector, error) {
	sector, ok := f.sectors[id]
	if !ok {
		return nil, reference.ErrSectorNotFound
	}
	return &sector, nil
}

func (f *fakeRefs) GetCensusType(ctx context.Context, id int64) (*reference.CensusType, error) {
	if id < reference.TypeHousehold || id > reference.TypeOther {
		return nil, reference.ErrCensusTypeNotFound
	}
	return &reference.CensusType{ID: id}, nil
}

type countingMetrics struct {
	created   int
	conflicts int
}

func (m *countingMetrics) RecordCreated(string) { m.created++ }

func (m *countingMetrics) CodeConflict(string) { m.conflicts++ }

var (
	admin      = access.Actor{ID: 1, Role: access.RoleAdmin}
	supervisor = access.Actor{ID: 2, Role: access.RoleSupervisor}
	worker     = access.Actor{ID: 3, Role: access.RoleUser}
)

func TestCreateGeneratesSequentialCodesPerPrefix(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCensusRepo()
	service := NewService(repo, newFakeRefs(), nil)

	first, err := service.Create(ctx, admin, householdInput())
	if err != nil {
		t.Fatalf("create first: %v", err)
	}
	second := householdInput()
	second.NationalID = "87654321"
	record, err := service.Create(ctx, supervisor, second)
	if err != nil {
		t.Fatalf("create second: %v", err)
	}

	if first.Code != "V001" || record.Code != "V002" {
		t.Fatalf("expected V001/V002, got %s/%s", first.Code, record.Code)
	}

	other := Input{
		NationalID:        "11112222",
		Name:              "Bodega Rosa",
		Address:           "Av. Grau 45",
		ZoneID:            1,
		SectorID:          1,
		CensusTypeID:      reference.TypeOther,
		WasteType:         "Comercial",
		EstablishmentName: "Bodega Rosa",
		EstablishmentType: "Bodega",
	}
	otherRecord, err := service.Create(ctx, admin, other)
	if err != nil {
		t.Fatalf("create other: %v", err)
	}
	if otherRecord.Code != "X001" {
		t.Fatalf("expected X001, got %s", otherRecord.Code)
	}
	if len(repo.locks) != 3 || repo.locks[2] != "X" {
		t.Fatalf("expected a prefix lock per creation, got %v", repo.locks)
	}
}

func TestCreateRetriesOnLateCodeConflict(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCensusRepo()
	repo.failCodeInserts = 2
	metrics := &countingMetrics{}
	service := NewService(repo, newFakeRefs(), metrics)

	record, err := service.Create(ctx, admin, householdInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}
	if record.Code != "V001" || metrics.conflicts != 2 || metrics.created != 1 {
		t.Fatalf("unexpected result code=%s conflicts=%d created=%d", record.Code, metrics.conflicts, metrics.created)
	}

	repo.failCodeInserts = codeAttempts
	next := householdInput()
	next.NationalID = "99990000"
	_, err = service.Create(ctx, admin, next)
	var fields validation.Errors
	if !errors.As(err, &fields) || !fields.Has(FieldCode) {
		t.Fatalf("expected code field error after exhausting retries, got %v", err)
	}
}

func TestCreateRejectsDuplicateNationalID(t *testing.T) {
	ctx := context.Background()
	service := NewService(newFakeCensusRepo(), newFakeRefs(), nil)

	if _, err := service.Create(ctx, admin, householdInput()); err != nil {
		t.Fatalf("create: %v", err)
	}
	_, err := service.Create(ctx, admin, householdInput())
	var fields validation.Errors
	if !errors.As(err, &fields) || !fields.Has(FieldNationalID) {
		t.Fatalf("expected national_id field error, got %v", err)
	}
}

func TestCreateValidatesSectorBelongsToZone(t *testing.T) {
	ctx := context.Background()
	service := NewService(newFakeCensusRepo(), newFakeRefs(), nil)

	input := householdInput()
	input.SectorID = 2
	_, err := service.Create(ctx, admin, input)
	var fields validation.Errors
	if !errors.As(err, &fields) || !fields.Has(FieldSectorID) {
		t.Fatalf("expected sector_id field error, got %v", err)
	}

	input = householdInput()
	input.CensusTypeID = 42
	_, err = service.Create(ctx, admin, input)
	if !errors.As(err, &fields) || !fields.Has(FieldCensusTypeID) {
		t.Fatalf("expected census_type_id field error, got %v", err)
	}
}

func TestCreateRequiresManageCapability(t *testing.T) {
	service := NewService(newFakeCensusRepo(), newFakeRefs(), nil)
	if _, err := service.Create(context.Background(), worker, householdInput()); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected forbidden, got %v", err)
	}
}

func TestUpdateKeepsCodeWhenTypeChanges(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCensusRepo()
	service := NewService(repo, newFakeRefs(), nil)

	record, err := service.Create(ctx, admin, householdInput())
	if err != nil {
		t.Fatalf("create: %v", err)
	}

	input := householdInput()
	input.CensusTypeID = reference.TypeMarket
	input.EstablishmentName = "Mercado Central"
	input.MarketRole = "Comerciante"
	input.MarketStallCount = "12"
	updated, err := service.Update(ctx, admin, record.ID, input)
	if err != nil {
		t.Fatalf("update: %v", err)
	}

	if updated.Code != "V001" {
		t.Fatalf("code must not change, got %s", updated.Code)
	}
	if updated.RouteCode != nil || updated.Plate != nil || updated.InhabitantCount != nil {
		t.Fatalf("household attributes must be cleared for a market, got %+v", updated)
	}
	if updated.MarketStallCount == nil || *updated.MarketStallCount != "12" {
		t.Fatalf("expected market stall count, got %+v", updated.MarketStallCount)
	}
}

func TestDeleteRemovesDependents(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCensusRepo()
	service := NewService(repo, newFakeRefs(), nil)

	record, _ := service.Create(ctx, admin, householdInput())

	if err := service.Delete(ctx, supervisor, record.ID); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected forbidden for supervisor without edit permission, got %v", err)
	}

	editor := access.Actor{ID: 2, Role: access.RoleSupervisor, Permissions: []string{access.PermissionEdit}}
	if err := service.Delete(ctx, editor, record.ID); err != nil {
		t.Fatalf("delete: %v", err)
	}
	if len(repo.dependentsGone) != 1 || repo.dependentsGone[0] != record.ID {
		t.Fatalf("expected dependents removed, got %v", repo.dependentsGone)
	}
	if _, err := service.Get(ctx, record.ID); !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestListPagination(t *testing.T) {
	ctx := context.Background()
	repo := newFakeCensusRepo()
	service := NewService(repo, newFakeRefs(), nil)

	for i := 0; i < 12; i++ {
		input := householdInput()
		input.NationalID = strings.Repeat(string(rune('a'+i)), 8)
		if _, err := service.Create(ctx, admin, input); err != nil {
			t.Fatalf("create %d: %v", i, err)
		}
	}

	records, page, err := service.List(ctx, ListFilter{Page: 2})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if len(records) != 2 {
		t.Fatalf("expected 2 records on page 2, got %d", len(records))
	}
	if page.LastPage != 2 || page.Total != 12 || page.From != 11 || page.To != 12 || page.PerPage != DefaultPerPage {
		t.Fatalf("unexpected page meta: %+v", page)
	}

	_, page, _ = service.List(ctx, ListFilter{PerPage: 1000})
	if page.PerPage != MaxPerPage {
		t.Fatalf("expected per page clamped to %d, got %d", MaxPerPage, page.PerPage)
	}
}
