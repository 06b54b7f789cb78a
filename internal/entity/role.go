package entity

// Role of a participant in the current call.
type Role string

const (
	RoleNone   Role = "none"
	RoleCaller Role = "caller"
	RoleCallee Role = "callee"
)

// ParseRole accepts only caller or callee.
func ParseRole(s string) (Role, bool) {
	switch r := Role(s); r {
	case RoleCaller, RoleCallee:
		return r, true
	default:
		return RoleNone, false
	}
}

// Other returns the opposite role. RoleNone has no opposite.
func (r Role) Other() Role {
	switch r {
	case RoleCaller:
		return RoleCallee
	case RoleCallee:
		return RoleCaller
	default:
		return RoleNone
	}
}

// DeriveRole computes the local role from the record alone. It is never cached apart from the
// record: a recreated record yields a freshly derived role.
func DeriveRole(rec *CallRecord, localID string) Role {
	switch {
	case rec == nil:
		return RoleNone
	case rec.CallerID == localID:
		return RoleCaller
	default:
		return RoleCallee
	}
}
