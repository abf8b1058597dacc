package app

import (
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/dkeye/Beacon/internal/core"
	"github.com/dkeye/Beacon/internal/domain"
)

func TestFirstJoinCreatesRoomAndSetsPassword(t *testing.T) {
	reg := NewRoomRegistry()

	before, err := reg.TryJoin("r1", "secret", "a", false)
	if err != nil {
		t.Fatalf("TryJoin() error = %v; want nil", err)
	}
	if len(before) != 0 {
		t.Errorf("TryJoin() before = %v; want empty", before)
	}

	// The captured password now gates the room.
	if _, err := reg.TryJoin("r1", "other", "b", false); !errors.Is(err, domain.ErrWrongPassword) {
		t.Errorf("TryJoin() with other password error = %v; want ErrWrongPassword", err)
	}
	if _, err := reg.TryJoin("r1", "secret", "b", false); err != nil {
		t.Errorf("TryJoin() with captured password error = %v; want nil", err)
	}
}

func TestJoinPasswordGate(t *testing.T) {
	tests := []struct {
		name     string
		password string
		admin    bool
		wantErr  bool
	}{
		{"matching password", "p", false, false},
		{"wrong password", "wrong", false, true},
		{"empty password", "", false, true},
		{"admin bypass wrong password", "wrong", true, false},
		{"admin bypass no password", "", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			reg := NewRoomRegistry()
			if _, err := reg.TryJoin("r1", "p", "a", false); err != nil {
				t.Fatalf("seed join failed: %v", err)
			}

			_, err := reg.TryJoin("r1", tt.password, "b", tt.admin)
			if tt.wantErr && !errors.Is(err, domain.ErrWrongPassword) {
				t.Errorf("TryJoin() error = %v; want ErrWrongPassword", err)
			}
			if !tt.wantErr && err != nil {
				t.Errorf("TryJoin() error = %v; want nil", err)
			}
		})
	}
}

func TestRejectionMutatesNothing(t *testing.T) {
	reg := NewRoomRegistry()
	if _, err := reg.TryJoin("r1", "p", "a", false); err != nil {
		t.Fatalf("seed join failed: %v", err)
	}

	if _, err := reg.TryJoin("r1", "wrong", "b", false); err == nil {
		t.Fatal("TryJoin() with wrong password succeeded; want rejection")
	}

	members := reg.Members("r1")
	if len(members) != 1 || members[0] != "a" {
		t.Errorf("Members() = %v; want [a]", members)
	}
	// Password unchanged: "p" still works, the rejected value still does not.
	if _, err := reg.TryJoin("r1", "p", "c", false); err != nil {
		t.Errorf("stored password changed after rejection: %v", err)
	}
}

func TestMembershipCountAfterJoinsAndLeaves(t *testing.T) {
	reg := NewRoomRegistry()
	const n = 8

	for i := 0; i < n; i++ {
		id := core.ClientID(fmt.Sprintf("c%d", i))
		if _, err := reg.TryJoin("r1", "p", id, false); err != nil {
			t.Fatalf("join %d failed: %v", i, err)
		}
	}

	for i := 0; i < 3; i++ {
		reg.Leave("r1", core.ClientID(fmt.Sprintf("c%d", i)))
	}
	if got := len(reg.Members("r1")); got != n-3 {
		t.Errorf("member count = %d; want %d", got, n-3)
	}

	for i := 3; i < n; i++ {
		reg.Leave("r1", core.ClientID(fmt.Sprintf("c%d", i)))
	}
	if _, ok := reg.Snapshot()["r1"]; ok {
		t.Error("empty room still present in Snapshot()")
	}

	// Deleting the room drops the password too: a new first join recreates it.
	if _, err := reg.TryJoin("r1", "fresh", "x", false); err != nil {
		t.Errorf("first join after deletion failed: %v", err)
	}
	if _, err := reg.TryJoin("r1", "p", "y", false); !errors.Is(err, domain.ErrWrongPassword) {
		t.Errorf("old password survived room deletion: err = %v", err)
	}
}

func TestLeaveIsIdempotent(t *testing.T) {
	reg := NewRoomRegistry()
	reg.Leave("ghost", "a")

	if _, err := reg.TryJoin("r1", "p", "a", false); err != nil {
		t.Fatalf("join failed: %v", err)
	}
	reg.Leave("r1", "not-a-member")
	if got := len(reg.Members("r1")); got != 1 {
		t.Errorf("member count = %d after no-op leave; want 1", got)
	}
}

func TestDiscoveryListInJoinOrder(t *testing.T) {
	reg := NewRoomRegistry()
	ids := []core.ClientID{"a", "b", "c", "d"}
	for _, id := range ids {
		if _, err := reg.TryJoin("r1", "p", id, false); err != nil {
			t.Fatalf("join %s failed: %v", id, err)
		}
	}

	before, err := reg.TryJoin("r1", "p", "e", false)
	if err != nil {
		t.Fatalf("join e failed: %v", err)
	}
	if len(before) != len(ids) {
		t.Fatalf("before = %v; want %v", before, ids)
	}
	for i, id := range ids {
		if before[i] != id {
			t.Errorf("before[%d] = %s; want %s", i, before[i], id)
		}
	}
}

func TestSnapshotMemberOrder(t *testing.T) {
	reg := NewRoomRegistry()
	if _, err := reg.TryJoin("r1", "p", "a", false); err != nil {
		t.Fatal(err)
	}
	if _, err := reg.TryJoin("r1", "p", "b", false); err != nil {
		t.Fatal(err)
	}

	snap := reg.Snapshot()
	got, ok := snap["r1"]
	if !ok {
		t.Fatal("room missing from Snapshot()")
	}
	want := []core.ClientID{"a", "b"}
	if len(got) != len(want) {
		t.Fatalf("Snapshot()[r1] = %v; want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("Snapshot()[r1][%d] = %s; want %s", i, got[i], want[i])
		}
	}

	// The snapshot is a copy: mutating it must not touch the registry.
	got[0] = "mutated"
	if reg.Members("r1")[0] != "a" {
		t.Error("Snapshot() aliases internal member slice")
	}
}

func TestConcurrentJoinsCreateOneRoom(t *testing.T) {
	reg := NewRoomRegistry()
	const n = 32

	var wg sync.WaitGroup
	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			id := core.ClientID(fmt.Sprintf("c%d", i))
			if _, err := reg.TryJoin("race", "p", id, false); err != nil {
				t.Errorf("join %d rejected: %v", i, err)
			}
		}(i)
	}
	wg.Wait()

	snap := reg.Snapshot()
	if len(snap) != 1 {
		t.Fatalf("room count = %d; want 1", len(snap))
	}
	if got := len(snap["race"]); got != n {
		t.Errorf("member count = %d; want %d", got, n)
	}
}
