package relay

import (
	"fmt"
	"sync"
	"testing"

	"github.com/tutorarc/backend/internal/domain"
)

func TestDirectory_JoinReturnsEarlierMembersOnly(t *testing.T) {
	d := NewDirectory()

	if others := d.Join("r1", "a"); len(others) != 0 {
		t.Fatalf("first join snapshot = %v, want empty", others)
	}
	if others := d.Join("r1", "b"); len(others) != 1 || others[0] != "a" {
		t.Fatalf("second join snapshot = %v, want [a]", others)
	}
	others := d.Join("r1", "c")
	if len(others) != 2 || others[0] != "a" || others[1] != "b" {
		t.Fatalf("third join snapshot = %v, want [a b]", others)
	}
}

func TestDirectory_SnapshotExcludesSelfOnRejoin(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", "a")
	d.Join("r1", "b")

	// Re-joining the same room must not list the joiner itself.
	others := d.Join("r1", "a")
	if len(others) != 1 || others[0] != "b" {
		t.Fatalf("rejoin snapshot = %v, want [b]", others)
	}
	if got := d.MembersOf("r1", ""); len(got) != 2 {
		t.Fatalf("MembersOf = %v, want 2 members", got)
	}
}

func TestDirectory_LeaveIsNoopWhenAbsent(t *testing.T) {
	d := NewDirectory()
	d.Leave("nope", "a")

	d.Join("r1", "a")
	d.Leave("r1", "ghost")
	if got := d.MembersOf("r1", ""); len(got) != 1 || got[0] != "a" {
		t.Fatalf("MembersOf = %v, want [a]", got)
	}

	d.Leave("r1", "a")
	d.Leave("r1", "a")
	if got := d.MembersOf("r1", ""); len(got) != 0 {
		t.Fatalf("MembersOf after leave = %v, want empty", got)
	}
}

func TestDirectory_MembersOfExcludes(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", "a")
	d.Join("r1", "b")

	got := d.MembersOf("r1", "a")
	if len(got) != 1 || got[0] != "b" {
		t.Fatalf("MembersOf(r1, exclude a) = %v, want [b]", got)
	}
	if got := d.MembersOf("missing", ""); got != nil {
		t.Fatalf("MembersOf(missing) = %v, want nil", got)
	}
}

func TestDirectory_EmptyRoomIsRetainedButClean(t *testing.T) {
	d := NewDirectory()
	d.Join("r1", "a")
	d.Leave("r1", "a")

	if !d.Exists("r1") {
		t.Fatal("empty room should be retained")
	}
	if got := d.MembersOf("r1", ""); len(got) != 0 {
		t.Fatalf("empty room still lists members: %v", got)
	}
}

func TestDirectory_List(t *testing.T) {
	d := NewDirectory()
	d.Join("r2", "a")
	d.Join("r1", "b")
	d.Join("r1", "c")

	got := d.List()
	if len(got) != 2 {
		t.Fatalf("List returned %d rooms, want 2", len(got))
	}
	if got[0].ID != "r1" || got[0].MemberCount != 2 {
		t.Fatalf("List[0] = %+v, want r1 with 2 members", got[0])
	}
	if got[1].ID != "r2" || got[1].MemberCount != 1 {
		t.Fatalf("List[1] = %+v, want r2 with 1 member", got[1])
	}
}

func TestDirectory_ConcurrentJoinsAreAtomic(t *testing.T) {
	d := NewDirectory()
	const n = 32

	var wg sync.WaitGroup
	snapshots := make([][]domain.ConnID, n)
	ids := make([]domain.ConnID, n)
	for i := range ids {
		ids[i] = domain.ConnID(fmt.Sprintf("conn-%02d", i))
	}

	for i := 0; i < n; i++ {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			snapshots[i] = d.Join("r1", ids[i])
		}(i)
	}
	wg.Wait()

	if got := d.MembersOf("r1", ""); len(got) != n {
		t.Fatalf("final member count = %d, want %d", len(got), n)
	}

	// Each snapshot must exclude the joiner and list each peer at most once.
	sizes := make(map[int]int)
	for i, snap := range snapshots {
		seen := make(map[domain.ConnID]bool)
		for _, id := range snap {
			if id == ids[i] {
				t.Fatalf("snapshot %d contains the joiner itself", i)
			}
			if seen[id] {
				t.Fatalf("snapshot %d lists %s twice", i, id)
			}
			seen[id] = true
		}
		sizes[len(snap)]++
	}

	// Joins are serialized per room, so the snapshot sizes must be a
	// permutation of 0..n-1.
	for want := 0; want < n; want++ {
		if sizes[want] != 1 {
			t.Fatalf("snapshot size %d seen %d times, want exactly once", want, sizes[want])
		}
	}
}
