package models

// Taxonomy holds the closed category and role enumerations, fixed at
// configuration time. Category order drives slot sorting; role order
// drives provider sorting. Values outside the lists are rejected at
// creation/edit time rather than surfacing later.
type Taxonomy struct {
	Categories []string
	Roles      []string
}

// ValidCategory reports whether c is part of the category taxonomy.
func (t Taxonomy) ValidCategory(c string) bool {
	for _, v := range t.Categories {
		if v == c {
			return true
		}
	}
	return false
}

// ValidRole reports whether r is part of the role ranking. The empty
// role is always valid: role is an optional ordering hint.
func (t Taxonomy) ValidRole(r string) bool {
	if r == "" {
		return true
	}
	for _, v := range t.Roles {
		if v == r {
			return true
		}
	}
	return false
}

// CategoryRank returns the position of c in the taxonomy; unknown
// categories rank last.
func (t Taxonomy) CategoryRank(c string) int {
	for i, v := range t.Categories {
		if v == c {
			return i
		}
	}
	return len(t.Categories)
}

// RoleRank returns the position of r in the role ranking; unranked
// roles (including the empty role) rank last.
func (t Taxonomy) RoleRank(r string) int {
	for i, v := range t.Roles {
		if v == r {
			return i
		}
	}
	return len(t.Roles)
}
