package mcp

import (
	"context"
	"testing"
)

// TestUserIDFromContextDefault verifies the anonymous fallback when no value
// is set in the context.
func TestUserIDFromContextDefault(t *testing.T) {
	ctx := context.Background()
	if id := UserIDFromContext(ctx); id != "local" {
		t.Errorf("UserIDFromContext(empty) = %q, want %q", id, "local")
	}
}

// TestUserIDFromContextSet verifies the user ID is extracted from context
// after being set by WithUserID.
func TestUserIDFromContextSet(t *testing.T) {
	ctx := WithUserID(context.Background(), "alice")
	if id := UserIDFromContext(ctx); id != "alice" {
		t.Errorf("UserIDFromContext = %q, want %q", id, "alice")
	}
}

// TestUserIDFromContextEmptyValue verifies that an explicitly empty user ID
// still falls back to the anonymous user.
func TestUserIDFromContextEmptyValue(t *testing.T) {
	ctx := WithUserID(context.Background(), "")
	if id := UserIDFromContext(ctx); id != "local" {
		t.Errorf("UserIDFromContext(empty string) = %q, want %q", id, "local")
	}
}

// TestSplitList verifies comma-separated parameter parsing.
func TestSplitList(t *testing.T) {
	got := splitList(" Brust , Trizeps ,, ")
	want := []string{"Brust", "Trizeps"}
	if len(got) != len(want) {
		t.Fatalf("splitList = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("splitList[%d] = %q, want %q", i, got[i], want[i])
		}
	}
	if out := splitList(""); out != nil {
		t.Errorf("splitList(empty) = %v, want nil", out)
	}
}
