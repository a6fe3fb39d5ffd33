package replhistory

import (
	"path/filepath"
	"reflect"
	"testing"
)

func openTestHistory(t *testing.T) *History {
	t.Helper()
	path := filepath.Join(t.TempDir(), "history.db")
	h, err := Open(path)
	if err != nil {
		t.Fatalf("Open failed: %v", err)
	}
	t.Cleanup(func() { h.Close() })
	return h
}

func TestAppendAndRecentPreservesOrder(t *testing.T) {
	h := openTestHistory(t)

	for _, line := range []string{"print 1;", "var x = 2;", "print x;"} {
		if err := h.Append(line); err != nil {
			t.Fatalf("Append(%q) failed: %v", line, err)
		}
	}

	got, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"print 1;", "var x = 2;", "print x;"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recent(10) = %v, want %v", got, want)
	}
}

func TestRecentRespectsLimit(t *testing.T) {
	h := openTestHistory(t)
	for _, line := range []string{"a", "b", "c", "d"} {
		if err := h.Append(line); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}

	got, err := h.Recent(2)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"c", "d"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Recent(2) = %v, want %v", got, want)
	}
}

func TestAppendIgnoresEmptyLines(t *testing.T) {
	h := openTestHistory(t)
	if err := h.Append(""); err != nil {
		t.Fatalf("Append(\"\") failed: %v", err)
	}
	got, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("expected empty lines to be ignored, got %v", got)
	}
}

func TestTrimKeepsOnlyMostRecent(t *testing.T) {
	h := openTestHistory(t)
	for _, line := range []string{"a", "b", "c", "d", "e"} {
		if err := h.Append(line); err != nil {
			t.Fatalf("Append failed: %v", err)
		}
	}
	if err := h.Trim(2); err != nil {
		t.Fatalf("Trim failed: %v", err)
	}
	got, err := h.Recent(10)
	if err != nil {
		t.Fatalf("Recent failed: %v", err)
	}
	want := []string{"d", "e"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("after Trim(2), Recent(10) = %v, want %v", got, want)
	}
}
