package validation

import (
	"errors"
	"testing"
)

func TestNormalizeWeekday(t *testing.T) {
	cases := map[string]string{
		"Lunes":     "lunes",
		"MIÉRCOLES": "miercoles",
		" sábado ":  "sabado",
		"domingo":   "domingo",
	}
	for input, want := range cases {
		got, ok := NormalizeWeekday(input)
		if !ok || got != want {
			t.Fatalf("NormalizeWeekday(%q) = %q, %v; want %q", input, got, ok, want)
		}
	}

	if _, ok := NormalizeWeekday("monday"); ok {
		t.Fatalf("expected monday to be rejected")
	}
}

func TestClockRangeRequiresEndAfterStart(t *testing.T) {
	errs := Errors{}
	start, end := "08:00", "07:30"
	errs.ClockRange("start_time", &start, "end_time", &end)
	if !errs.Has("end_time") {
		t.Fatalf("expected end_time error, got %v", errs)
	}

	errs = Errors{}
	start, end = "8:05", "09:00"
	errs.ClockRange("start_time", &start, "end_time", &end)
	if err := errs.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if start != "08:05" {
		t.Fatalf("expected canonical start, got %q", start)
	}
}

func TestWeekdaysDeduplicates(t *testing.T) {
	errs := Errors{}
	days := errs.Weekdays("days", []string{"Lunes", "lunes", "Viernes"})
	if err := errs.Err(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if len(days) != 2 || days[0] != "lunes" || days[1] != "viernes" {
		t.Fatalf("unexpected days: %v", days)
	}

	errs = Errors{}
	if errs.Weekdays("days", nil); !errs.Has("days") {
		t.Fatalf("expected empty days to be rejected")
	}
}

func TestErrorsAsError(t *testing.T) {
	errs := Errors{}
	if errs.Err() != nil {
		t.Fatalf("expected nil error for empty set")
	}

	errs.Add("name", "is required")
	errs.Add("name", "ignored")
	var target Errors
	if !errors.As(errs.Err(), &target) {
		t.Fatalf("expected validation.Errors")
	}
	if target["name"] != "is required" {
		t.Fatalf("expected first message to win, got %q", target["name"])
	}
}
