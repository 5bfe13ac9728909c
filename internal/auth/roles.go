package auth

import "strings"

type Role string

const (
	RoleOrganizer   Role = "organizer"
	RoleParticipant Role = "participant"
)

// NormalizeRole maps arbitrary input to a known role. Unknown values fall back
// to participant, the least-privileged role.
func NormalizeRole(role string) Role {
	switch strings.ToLower(strings.TrimSpace(role)) {
	case string(RoleOrganizer):
		return RoleOrganizer
	case string(RoleParticipant):
		return RoleParticipant
	default:
		return RoleParticipant
	}
}

func HasRole(role string, allowed ...Role) bool {
	if len(allowed) == 0 {
		return false
	}
	current := NormalizeRole(role)
	for _, candidate := range allowed {
		if current == candidate {
			return true
		}
	}
	return false
}

func IsOrganizer(role string) bool {
	return NormalizeRole(role) == RoleOrganizer
}
