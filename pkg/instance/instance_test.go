package instance

import "testing"

func TestGetIDPrefersDyno(t *testing.T) {
	t.Setenv("DYNO", "web.1")
	t.Setenv("CONTACTBOOK_INSTANCE_ID", "api-7")
	if got := GetID(); got != "web.1" {
		t.Fatalf("expected web.1, got %q", got)
	}
}

func TestGetIDFallsBackToInstanceID(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("CONTACTBOOK_INSTANCE_ID", "api-7")
	if got := GetID(); got != "api-7" {
		t.Fatalf("expected api-7, got %q", got)
	}
}

func TestGetIDNeverEmpty(t *testing.T) {
	t.Setenv("DYNO", "")
	t.Setenv("CONTACTBOOK_INSTANCE_ID", "")
	if GetID() == "" {
		t.Fatal("expected a non-empty instance id")
	}
}
