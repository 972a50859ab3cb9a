package raindelay

import (
	"context"
	"errors"
	"testing"
	"time"
)

type updateCall struct {
	table string
	id    string
	patch map[string]any
}

type fakeUpdater struct {
	calls []updateCall
	err   error
	panic bool
}

func (f *fakeUpdater) UpdateByID(ctx context.Context, table, id string, patch map[string]any) error {
	f.calls = append(f.calls, updateCall{table: table, id: id, patch: patch})
	if f.panic {
		panic("driver exploded")
	}
	return f.err
}

func TestApplyDelay_Success(t *testing.T) {
	updater := &fakeUpdater{}
	newDate := time.Date(2023, 5, 16, 10, 0, 0, 0, time.UTC)

	ok := ApplyDelay(context.Background(), updater, "123", newDate, "Service for John Doe delayed due to rain in the forecast")
	if !ok {
		t.Fatal("ApplyDelay = false, want true")
	}

	if len(updater.calls) != 1 {
		t.Fatalf("updater called %d times, want 1", len(updater.calls))
	}
	call := updater.calls[0]
	if call.table != "services" || call.id != "123" {
		t.Errorf("updated %s/%s, want services/123", call.table, call.id)
	}
	if call.patch["scheduled_at"] != "2023-05-16T10:00:00Z" {
		t.Errorf("scheduled_at = %v", call.patch["scheduled_at"])
	}
	if call.patch["notes"] != "Service for John Doe delayed due to rain in the forecast" {
		t.Errorf("notes = %v", call.patch["notes"])
	}
	if len(call.patch) != 2 {
		t.Errorf("patch has %d fields, want only scheduled_at and notes", len(call.patch))
	}
}

func TestApplyDelay_NormalizesToUTC(t *testing.T) {
	updater := &fakeUpdater{}
	loc := time.FixedZone("EDT", -4*3600)

	ApplyDelay(context.Background(), updater, "123", time.Date(2023, 5, 16, 10, 0, 0, 0, loc), "r")

	if got := updater.calls[0].patch["scheduled_at"]; got != "2023-05-16T14:00:00Z" {
		t.Errorf("scheduled_at = %v, want UTC form", got)
	}
}

func TestApplyDelay_UpdaterErrorIsFalse(t *testing.T) {
	updater := &fakeUpdater{err: errors.New("Database error")}

	ok := ApplyDelay(context.Background(), updater, "123", time.Now(), "reason")
	if ok {
		t.Fatal("ApplyDelay = true on updater error")
	}
	if len(updater.calls) != 1 {
		t.Errorf("updater called %d times, want 1 (no retry)", len(updater.calls))
	}
}

func TestApplyDelay_UpdaterPanicIsFalse(t *testing.T) {
	ok := ApplyDelay(context.Background(), &fakeUpdater{panic: true}, "123", time.Now(), "reason")
	if ok {
		t.Fatal("ApplyDelay = true after updater panic")
	}
}

func TestApplyDelay_NilUpdater(t *testing.T) {
	if ApplyDelay(context.Background(), nil, "123", time.Now(), "reason") {
		t.Fatal("ApplyDelay = true without an updater")
	}
}
