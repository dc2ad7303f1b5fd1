package common

import (
	"testing"
	"time"
)

func TestParseDayRoundTrip(t *testing.T) {
	day, err := ParseDay("2026-03-14")
	if err != nil {
		t.Fatal(err)
	}
	if day.Location() != time.UTC {
		t.Fatalf("expected UTC day, got %v", day.Location())
	}
	if got := FormatDay(day); got != "2026-03-14" {
		t.Fatalf("round trip produced %q", got)
	}
}

func TestParseDayRejectsOtherFormats(t *testing.T) {
	for _, value := range []string{"14-03-2026", "2026/03/14", "2026-03-14T10:00:00Z", "yesterday"} {
		if _, err := ParseDay(value); err == nil {
			t.Fatalf("expected error for %q", value)
		}
	}
}

func TestFormatDayNormalizesZone(t *testing.T) {
	kyiv := time.FixedZone("EET", 2*60*60)

	// 00:30 local is still the previous UTC calendar day
	early := time.Date(2026, 3, 14, 0, 30, 0, 0, kyiv)
	if got := FormatDay(early); got != "2026-03-13" {
		t.Fatalf("expected 2026-03-13, got %q", got)
	}

	// the same instant formats identically whatever zone carries it
	noon := time.Date(2026, 3, 14, 12, 0, 0, 0, kyiv)
	if FormatDay(noon) != FormatDay(noon.UTC()) {
		t.Fatal("same instant produced different days across zones")
	}
}
