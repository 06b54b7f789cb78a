// Package repo holds the call record stores and the couple directory.
package repo

import (
	"fmt"

	"couplecall/internal/entity"
)

const _callsTable = "calls"

var _callColumns = []string{
	"couple_id", "call_id", "caller_id", "kind", "status", "started_at",
	"offer", "answer", "caller_candidates", "callee_candidates",
}

// candidateColumn maps a role to its candidate column. Only these two names ever reach SQL text.
func candidateColumn(role entity.Role) (string, error) {
	switch role {
	case entity.RoleCaller:
		return "caller_candidates", nil
	case entity.RoleCallee:
		return "callee_candidates", nil
	default:
		return "", fmt.Errorf("repo - candidateColumn: no candidate list for role %q", role)
	}
}
