package app

import (
	"context"
	"testing"
	"time"
)

func waitForFrames(t *testing.T, conn *fakeConn, n int) []map[string]any {
	t.Helper()
	deadline := time.Now().Add(2 * time.Second)
	for time.Now().Before(deadline) {
		if evs := conn.events(t); len(evs) >= n {
			return evs
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %d frames (got %d)", n, len(conn.events(t)))
	return nil
}

func TestAdminFeedSendsSnapshotOnAttach(t *testing.T) {
	feed := &AdminFeed{Registry: NewRoomRegistry(), Interval: time.Hour}
	conn := &fakeConn{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx, "adm", conn)

	evs := waitForFrames(t, conn, 1)
	got := evs[0]
	if got["type"] != "rooms-update" {
		t.Fatalf("first event = %v; want rooms-update", got)
	}
	rooms, ok := got["rooms"].(map[string]any)
	if !ok || len(rooms) != 0 {
		t.Errorf("rooms = %v; want empty mapping", got["rooms"])
	}
}

func TestAdminFeedPublishesPeriodically(t *testing.T) {
	reg := NewRoomRegistry()
	feed := &AdminFeed{Registry: reg, Interval: 20 * time.Millisecond}
	conn := &fakeConn{}

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()
	go feed.Run(ctx, "adm", conn)

	waitForFrames(t, conn, 1)

	if _, err := reg.TryJoin("r1", "p", "A", false); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.TryJoin("r1", "p", "B", false); err != nil {
		t.Fatal(err)
	}

	evs := waitForFrames(t, conn, 2)
	got := evs[len(evs)-1]
	rooms := got["rooms"].(map[string]any)
	members, ok := rooms["r1"].([]any)
	if !ok || len(members) != 2 || members[0] != "A" || members[1] != "B" {
		t.Errorf("rooms-update = %v; want r1: [A B]", rooms)
	}
}

func TestAdminFeedStopsOnCancel(t *testing.T) {
	feed := &AdminFeed{Registry: NewRoomRegistry(), Interval: 10 * time.Millisecond}
	conn := &fakeConn{}

	ctx, cancel := context.WithCancel(context.Background())
	go feed.Run(ctx, "adm", conn)

	waitForFrames(t, conn, 2)
	cancel()

	// Give the loop a moment to observe cancellation, then confirm the
	// ticker is really gone.
	time.Sleep(30 * time.Millisecond)
	count := len(conn.events(t))
	time.Sleep(60 * time.Millisecond)
	if got := len(conn.events(t)); got != count {
		t.Errorf("feed still publishing after cancel: %d -> %d frames", count, got)
	}
}
