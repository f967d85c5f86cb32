package model

const (
	RoleAdmin     = "admin"
	RoleDoctor    = "doctor"
	RoleNurse     = "nurse"
	RoleParamedic = "paramedic"
	RoleStaff     = "staff"
)

// Scope is the authenticated caller of an operation.
type Scope struct {
	UserID   string `json:"user_id"`
	Username string `json:"username"`
	Role     string `json:"role"`
	Area     Area   `json:"area"`
	JTI      string `json:"jti"`
}

func (s Scope) IsAdmin() bool {
	return s.Role == RoleAdmin
}

// VisibleAreas lists the areas whose alerts s may read. Nil means unrestricted.
func (s Scope) VisibleAreas() []Area {
	if s.IsAdmin() {
		return nil
	}
	areas := []Area{AreaHospitalWide}
	if s.Area.IsValid() && s.Area != AreaHospitalWide {
		areas = append(areas, s.Area)
	}
	return areas
}

func (s Scope) CanSee(area Area) bool {
	visible := s.VisibleAreas()
	if visible == nil {
		return true
	}
	for _, a := range visible {
		if a == area {
			return true
		}
	}
	return false
}
