package presence

import "testing"

func TestRegistryAddIsIdempotentPerConn(t *testing.T) {
	r := NewRegistry()

	if !r.Add("c1", "alice") {
		t.Fatalf("first add should insert")
	}
	if r.Add("c1", "alice") {
		t.Fatalf("second add for same conn should be a no-op")
	}
	if r.Len() != 1 {
		t.Fatalf("expected 1 entry, got %d", r.Len())
	}
}

func TestRegistryAllowsDuplicateNicknames(t *testing.T) {
	r := NewRegistry()

	r.Add("c1", "alice")
	r.Add("c2", "alice")

	if r.Len() != 2 {
		t.Fatalf("expected 2 entries, got %d", r.Len())
	}
	if got := r.Nicknames(); !equalNames(got, []string{"alice", "alice"}) {
		t.Fatalf("unexpected nicknames: %v", got)
	}
}

func TestRegistryRemoveNicknameRemovesAllMatches(t *testing.T) {
	r := NewRegistry()

	r.Add("c1", "alice")
	r.Add("c2", "bob")
	r.Add("c3", "alice")

	if !r.RemoveNickname("alice") {
		t.Fatalf("expected removal to report true")
	}
	if got := r.Nicknames(); !equalNames(got, []string{"bob"}) {
		t.Fatalf("unexpected nicknames after removal: %v", got)
	}
	if r.RemoveNickname("alice") {
		t.Fatalf("second removal should report false")
	}
}

func TestRegistryRenamePreservesOrder(t *testing.T) {
	r := NewRegistry()

	r.Add("c1", "alice")
	r.Add("c2", "bob")

	if !r.Rename("c1", "alicia") {
		t.Fatalf("expected rename to find c1")
	}
	if got := r.Nicknames(); !equalNames(got, []string{"alicia", "bob"}) {
		t.Fatalf("unexpected nicknames after rename: %v", got)
	}
	if r.Rename("ghost", "x") {
		t.Fatalf("rename of unknown conn should report false")
	}
}

func TestRegistryRemoveConn(t *testing.T) {
	r := NewRegistry()

	r.Add("c1", "alice")
	r.Add("c2", "bob")

	if !r.RemoveConn("c1") {
		t.Fatalf("expected removal to report true")
	}
	if r.RemoveConn("c1") {
		t.Fatalf("second removal should report false")
	}
	if got := r.Nicknames(); !equalNames(got, []string{"bob"}) {
		t.Fatalf("unexpected nicknames: %v", got)
	}
}
