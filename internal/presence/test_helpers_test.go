package presence

import (
	"testing"
	"time"
)

func mustUpdate(t *testing.T, ch <-chan []string) []string {
	t.Helper()

	select {
	case names := <-ch:
		return names
	case <-time.After(2 * time.Second):
		t.Fatalf("expected online users update not received")
		return nil
	}
}

func assertNoUpdate(t *testing.T, ch <-chan []string) {
	t.Helper()

	select {
	case names := <-ch:
		t.Fatalf("unexpected update received: %v", names)
	case <-time.After(50 * time.Millisecond):
	}
}

func equalNames(a, b []string) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}
