package evidence

import (
	"bytes"
	"context"
	"errors"
	"io"
	"regexp"
	"strings"
	"testing"
	"time"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/domain/user"
	"census-app-go/internal/domain/validation"
)

type fakeEvidenceRepo struct {
	schedules map[int64]schedule.Schedule
	explicit  map[int64][]int64
	records   map[int64]schedule.RecordRef
	entries   []Entry
	failOn    error
	locked    []int64
}

func newFakeEvidenceRepo() *fakeEvidenceRepo {
	return &fakeEvidenceRepo{
		schedules: map[int64]schedule.Schedule{
			1: {ID: 1, UserID: 10, ZoneID: 1, SectorID: 1},
			2: {ID: 2, UserID: 10, ZoneID: 1, SectorID: 1},
		},
		explicit: map[int64][]int64{2: {100}},
		records: map[int64]schedule.RecordRef{
			100: {ID: 100, Name: "Ana", ZoneID: 1, SectorID: 1},
			101: {ID: 101, Name: "Beto", ZoneID: 1, SectorID: 1},
			200: {ID: 200, Name: "Carla", ZoneID: 2, SectorID: 5},
		},
	}
}

func (r *fakeEvidenceRepo) Transaction(ctx context.Context, fn func(Repository) error) error {
	return fn(r)
}

func (r *fakeEvidenceRepo) GetScheduleForUser(ctx context.Context, scheduleID, userID int64) (*schedule.Schedule, error) {
	sched, ok := r.schedules[scheduleID]
	if !ok || sched.UserID != userID {
		return nil, ErrScheduleNotFound
	}
	return &sched, nil
}

func (r *fakeEvidenceRepo) ExplicitRecordIDs(ctx context.Context, scheduleID int64) ([]int64, error) {
	return r.explicit[scheduleID], nil
}

func (r *fakeEvidenceRepo) LockRecord(ctx context.Context, recordID int64) (*schedule.RecordRef, error) {
	record, ok := r.records[recordID]
	if !ok {
		return nil, ErrRecordNotFound
	}
	r.locked = append(r.locked, recordID)
	return &record, nil
}

func (r *fakeEvidenceRepo) Create(ctx context.Context, entry *Entry) error {
	if r.failOn != nil {
		return r.failOn
	}
	entry.ID = int64(len(r.entries) + 1)
	entry.CreatedAt = time.Now().UTC()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *fakeEvidenceRepo) LatestBySchedule(ctx context.Context, scheduleIDs []int64) (map[int64]map[int64]Entry, error) {
	result := make(map[int64]map[int64]Entry)
	for _, entry := range r.entries {
		if result[entry.ScheduleID] == nil {
			result[entry.ScheduleID] = make(map[int64]Entry)
		}
		result[entry.ScheduleID][entry.CensusRecordID] = entry
	}
	return result, nil
}

type fakeStore struct {
	objects map[string][]byte
	deleted []string
	failPut bool
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: make(map[string][]byte)}
}

func (s *fakeStore) Put(ctx context.Context, key string, content io.Reader, contentType string) error {
	if s.failPut {
		return errors.New("disk full")
	}
	data, err := io.ReadAll(content)
	if err != nil {
		return err
	}
	s.objects[key] = data
	return nil
}

func (s *fakeStore) Delete(ctx context.Context, key string) error {
	s.deleted = append(s.deleted, key)
	delete(s.objects, key)
	return nil
}

type fakeUsers map[int64]user.User

func (f fakeUsers) Get(ctx context.Context, id int64) (*user.User, error) {
	u, ok := f[id]
	if !ok {
		return nil, user.ErrUserNotFound
	}
	return &u, nil
}

type fakeSchedules struct {
	byUser map[int64][]schedule.Overview
}

func (f fakeSchedules) ListForUser(ctx context.Context, userID int64) ([]schedule.Overview, error) {
	return f.byUser[userID], nil
}

var worker = access.Actor{ID: 10, Role: access.RoleUser}

func photo(name string, size int) *Photo {
	return &Photo{Filename: name, Size: int64(size), Content: bytes.NewReader(make([]byte, size))}
}

func newTestService(repo Repository, store PhotoStore) *Service {
	return NewService(repo, store, fakeUsers{}, fakeSchedules{}, Options{
		Now: func() time.Time { return time.Unix(1717000000, 0) },
	})
}

func TestSubmitStatusRules(t *testing.T) {
	ctx := context.Background()

	cases := []struct {
		name      string
		input     SubmitInput
		wantField string
	}{
		{"completed without photo", SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: StatusCompleted}, "photo"},
		{"not found without comment", SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: StatusNotFound, Comment: "   "}, "comment"},
		{"unknown status", SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: "done"}, "status"},
		{"comment too long", SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: StatusNotCompleted, Comment: strings.Repeat("x", 1001)}, "comment"},
		{"bad photo type", SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: StatusCompleted, Photo: photo("scan.gif", 10)}, "photo"},
		{"photo too large", SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: StatusCompleted, Photo: photo("a.jpg", DefaultMaxPhotoBytes+1)}, "photo"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			repo := newFakeEvidenceRepo()
			store := newFakeStore()
			_, err := newTestService(repo, store).Submit(ctx, worker, tc.input)
			var fields validation.Errors
			if !errors.As(err, &fields) || !fields.Has(tc.wantField) {
				t.Fatalf("expected %s field error, got %v", tc.wantField, err)
			}
			if len(repo.entries) != 0 || len(store.objects) != 0 {
				t.Fatalf("rejected submission must not persist anything")
			}
		})
	}
}

func TestSubmitNotCompletedNeedsNothing(t *testing.T) {
	repo := newFakeEvidenceRepo()
	entry, err := newTestService(repo, newFakeStore()).Submit(context.Background(), worker, SubmitInput{
		ScheduleID:     1,
		CensusRecordID: 101,
		Status:         StatusNotCompleted,
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if entry.Completed || entry.PhotoRef != nil || entry.Comment != nil {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	if len(repo.locked) != 1 || repo.locked[0] != 101 {
		t.Fatalf("expected record row lock, got %v", repo.locked)
	}
}

func TestSubmitCompletedStoresPhoto(t *testing.T) {
	repo := newFakeEvidenceRepo()
	store := newFakeStore()
	entry, err := newTestService(repo, store).Submit(context.Background(), worker, SubmitInput{
		ScheduleID:     1,
		CensusRecordID: 100,
		Status:         StatusCompleted,
		Photo:          photo("Front.JPG", 64),
	})
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if !entry.Completed || entry.PhotoRef == nil {
		t.Fatalf("unexpected entry: %+v", entry)
	}
	pattern := regexp.MustCompile(`^evidencias/ev_[0-9a-f]{13}_1717000000\.jpg$`)
	if !pattern.MatchString(*entry.PhotoRef) {
		t.Fatalf("unexpected photo key %q", *entry.PhotoRef)
	}
	if len(store.objects[*entry.PhotoRef]) != 64 {
		t.Fatalf("photo bytes not stored")
	}
}

func TestSubmitPolicyViolations(t *testing.T) {
	ctx := context.Background()
	service := newTestService(newFakeEvidenceRepo(), newFakeStore())

	_, err := service.Submit(ctx, worker, SubmitInput{ScheduleID: 1, CensusRecordID: 200, Status: StatusNotCompleted})
	if !errors.Is(err, ErrRecordOutsideSchedule) {
		t.Fatalf("expected ErrRecordOutsideSchedule for other sector, got %v", err)
	}

	_, err = service.Submit(ctx, worker, SubmitInput{ScheduleID: 2, CensusRecordID: 101, Status: StatusNotCompleted})
	if !errors.Is(err, ErrRecordOutsideSchedule) {
		t.Fatalf("expected ErrRecordOutsideSchedule for record outside explicit pool, got %v", err)
	}

	other := access.Actor{ID: 11, Role: access.RoleUser}
	_, err = service.Submit(ctx, other, SubmitInput{ScheduleID: 1, CensusRecordID: 100, Status: StatusNotCompleted})
	if !errors.Is(err, ErrScheduleNotFound) {
		t.Fatalf("expected ErrScheduleNotFound for foreign schedule, got %v", err)
	}

	_, err = service.Submit(ctx, worker, SubmitInput{ScheduleID: 1, CensusRecordID: 999, Status: StatusNotCompleted})
	if !errors.Is(err, ErrRecordNotFound) {
		t.Fatalf("expected ErrRecordNotFound, got %v", err)
	}
}

func TestSubmitPolicyCheckedBeforePhotoRule(t *testing.T) {
	service := newTestService(newFakeEvidenceRepo(), newFakeStore())
	_, err := service.Submit(context.Background(), worker, SubmitInput{ScheduleID: 1, CensusRecordID: 200, Status: StatusCompleted})
	if !errors.Is(err, ErrRecordOutsideSchedule) {
		t.Fatalf("expected policy violation, got %v", err)
	}
}

func TestSubmitRemovesPhotoWhenInsertFails(t *testing.T) {
	repo := newFakeEvidenceRepo()
	repo.failOn = errors.New("connection reset")
	store := newFakeStore()

	_, err := newTestService(repo, store).Submit(context.Background(), worker, SubmitInput{
		ScheduleID:     1,
		CensusRecordID: 100,
		Status:         StatusCompleted,
		Photo:          photo("a.png", 8),
	})
	if err == nil {
		t.Fatalf("expected error")
	}
	if len(store.objects) != 0 || len(store.deleted) != 1 {
		t.Fatalf("expected orphan photo removed, objects=%v deleted=%v", store.objects, store.deleted)
	}
}

func TestSubmitStorageFailureAbortsBeforeInsert(t *testing.T) {
	repo := newFakeEvidenceRepo()
	store := newFakeStore()
	store.failPut = true

	_, err := newTestService(repo, store).Submit(context.Background(), worker, SubmitInput{
		ScheduleID:     1,
		CensusRecordID: 100,
		Status:         StatusCompleted,
		Photo:          photo("a.webp", 8),
	})
	if err == nil || len(repo.entries) != 0 {
		t.Fatalf("expected storage failure without entry, err=%v entries=%d", err, len(repo.entries))
	}
}

func TestResubmissionAppendsAndBoardShowsLatest(t *testing.T) {
	ctx := context.Background()
	repo := newFakeEvidenceRepo()
	supervisor := access.Actor{ID: 2, Role: access.RoleSupervisor}
	users := fakeUsers{
		10: {ID: 10, Name: "Worker", Role: access.RoleUser},
		2:  {ID: 2, Name: "Sup", Role: access.RoleSupervisor},
		3:  {ID: 3, Name: "Other Sup", Role: access.RoleSupervisor},
	}
	overview := schedule.Overview{
		View: schedule.View{Schedule: schedule.Schedule{ID: 1, UserID: 10, ZoneID: 1, SectorID: 1}},
		Progress: schedule.Progress{
			Total:         2,
			Completed:     1,
			Pending:       1,
			CompletedList: []schedule.RecordRef{{ID: 101, Name: "Beto"}},
			PendingList:   []schedule.RecordRef{{ID: 100, Name: "Ana"}},
		},
	}
	service := NewService(repo, newFakeStore(), users, fakeSchedules{byUser: map[int64][]schedule.Overview{10: {overview}}}, Options{
		Resolver: URLResolver{PublicBaseURL: "https://census.example.org", StorageBaseURL: "/storage"},
	})

	if _, err := service.Submit(ctx, worker, SubmitInput{ScheduleID: 1, CensusRecordID: 101, Status: StatusNotCompleted}); err != nil {
		t.Fatalf("first submit: %v", err)
	}
	if _, err := service.Submit(ctx, worker, SubmitInput{ScheduleID: 1, CensusRecordID: 101, Status: StatusCompleted, Photo: photo("a.jpg", 4)}); err != nil {
		t.Fatalf("second submit: %v", err)
	}
	if len(repo.entries) != 2 {
		t.Fatalf("resubmission must append, got %d entries", len(repo.entries))
	}

	board, err := service.Board(ctx, supervisor, 10)
	if err != nil {
		t.Fatalf("board: %v", err)
	}
	if !board.ViewingOther || board.TargetUser.ID != 10 {
		t.Fatalf("unexpected board header: %+v", board)
	}
	items := board.Schedules[0].Items
	if len(items) != 2 || items[0].Record.Name != "Ana" || items[0].Latest != nil {
		t.Fatalf("unexpected items: %+v", items)
	}
	if items[1].Latest == nil || items[1].Latest.Status != StatusCompleted {
		t.Fatalf("expected latest entry to win, got %+v", items[1].Latest)
	}
	if !strings.HasPrefix(items[1].PhotoURL, "https://census.example.org/evidencias/ev_") {
		t.Fatalf("unexpected photo url %q", items[1].PhotoURL)
	}

	if _, err := service.Board(ctx, supervisor, 3); !errors.Is(err, access.ErrForbidden) {
		t.Fatalf("expected supervisor denied on another supervisor, got %v", err)
	}
	own, err := service.Board(ctx, worker, 0)
	if err != nil || own.ViewingOther {
		t.Fatalf("expected own board, got %+v (%v)", own, err)
	}
}

func TestURLResolver(t *testing.T) {
	resolver := URLResolver{PublicBaseURL: "", StorageBaseURL: "/storage/"}
	if got := resolver.Resolve("evidencias/ev_abc_1.jpg"); got != "/evidencias/ev_abc_1.jpg" {
		t.Fatalf("unexpected public url %q", got)
	}
	if got := resolver.Resolve("recolecciones/2023/foto.jpg"); got != "/storage/recolecciones/2023/foto.jpg" {
		t.Fatalf("unexpected storage url %q", got)
	}
	if got := resolver.Resolve(""); got != "" {
		t.Fatalf("expected empty url, got %q", got)
	}
}
