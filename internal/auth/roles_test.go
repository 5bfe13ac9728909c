package auth

import "testing"

func TestNormalizeRole(t *testing.T) {
	tests := []struct {
		input string
		want  Role
	}{
		{"organizer", RoleOrganizer},
		{"Organizer", RoleOrganizer},
		{"  ORGANIZER  ", RoleOrganizer},
		{"participant", RoleParticipant},
		{"admin", RoleParticipant},
		{"", RoleParticipant},
	}

	for _, tt := range tests {
		if got := NormalizeRole(tt.input); got != tt.want {
			t.Errorf("NormalizeRole(%q) = %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestHasRole(t *testing.T) {
	if !HasRole("organizer", RoleOrganizer) {
		t.Error("organizer should match RoleOrganizer")
	}
	if HasRole("participant", RoleOrganizer) {
		t.Error("participant should not match RoleOrganizer")
	}
	if HasRole("organizer") {
		t.Error("empty allowed list should never match")
	}
	if !HasRole("participant", RoleOrganizer, RoleParticipant) {
		t.Error("participant should match when listed")
	}
}

func TestIsOrganizer(t *testing.T) {
	if !IsOrganizer("organizer") {
		t.Error("expected organizer to be organizer")
	}
	if IsOrganizer("participant") {
		t.Error("participant is not organizer")
	}
	if IsOrganizer("unknown") {
		t.Error("unknown role must not be organizer")
	}
}
