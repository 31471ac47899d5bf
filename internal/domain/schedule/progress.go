package schedule

import (
	"math"
	"sort"
	"time"

	"golang.org/x/text/collate"
	"golang.org/x/text/language"
)

type Progress struct {
	Total          int
	Completed      int
	Pending        int
	Percent        int
	LastActivityAt *time.Time
	CompletedList  []RecordRef
	PendingList    []RecordRef
}

// ComputeProgress splits the pool records by whether any evidence exists for them.
// Stamps for records no longer in the pool are ignored, LastActivityAt included.
func ComputeProgress(records []RecordRef, stamps []EvidenceStamp) Progress {
	inPool := make(map[int64]struct{}, len(records))
	for _, record := range records {
		inPool[record.ID] = struct{}{}
	}

	visited := make(map[int64]struct{}, len(stamps))
	var last *time.Time
	for i := range stamps {
		if _, ok := inPool[stamps[i].CensusRecordID]; !ok {
			continue
		}
		visited[stamps[i].CensusRecordID] = struct{}{}
		if last == nil || stamps[i].CreatedAt.After(*last) {
			at := stamps[i].CreatedAt
			last = &at
		}
	}

	progress := Progress{
		Total:          len(records),
		LastActivityAt: last,
		CompletedList:  []RecordRef{},
		PendingList:    []RecordRef{},
	}
	for _, record := range records {
		if _, ok := visited[record.ID]; ok {
			progress.CompletedList = append(progress.CompletedList, record)
		} else {
			progress.PendingList = append(progress.PendingList, record)
		}
	}
	progress.Completed = len(progress.CompletedList)
	progress.Pending = len(progress.PendingList)
	if progress.Total > 0 {
		progress.Percent = int(math.Round(100 * float64(progress.Completed) / float64(progress.Total)))
	}

	SortByName(progress.CompletedList)
	SortByName(progress.PendingList)
	return progress
}

// SortByName orders records by name using Spanish collation, falling back to id for ties.
func SortByName(records []RecordRef) {
	collator := collate.New(language.Spanish, collate.IgnoreCase)
	sort.SliceStable(records, func(i, j int) bool {
		if c := collator.CompareString(records[i].Name, records[j].Name); c != 0 {
			return c < 0
		}
		return records[i].ID < records[j].ID
	})
}
