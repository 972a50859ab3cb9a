package events

import (
	"context"
	"errors"
	"testing"
)

type recordingPublisher struct {
	got []Event
	err error
}

func (r *recordingPublisher) Publish(ctx context.Context, evt Event) error {
	r.got = append(r.got, evt)
	return r.err
}

func TestMulti_PublishesToAllAndJoinsErrors(t *testing.T) {
	failing := &recordingPublisher{err: errors.New("down")}
	ok := &recordingPublisher{}

	err := Multi{failing, nil, ok}.Publish(context.Background(), New(TypeServiceDelayed, nil))
	if err == nil || !errors.Is(err, failing.err) {
		t.Fatalf("error = %v, want joined failure", err)
	}
	if len(ok.got) != 1 || len(failing.got) != 1 {
		t.Errorf("deliveries = %d/%d, want 1/1", len(ok.got), len(failing.got))
	}
}

func TestNew_AssignsIDAndTime(t *testing.T) {
	a := New(TypeServiceDelayed, nil)
	b := New(TypeServiceDelayed, nil)
	if a.ID == "" || a.ID == b.ID {
		t.Errorf("ids = %q, %q", a.ID, b.ID)
	}
	if a.OccurredAt.IsZero() {
		t.Error("OccurredAt not set")
	}
}
