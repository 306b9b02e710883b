package registry

// Assignments maps a user name to the set of role names granted to it. Entries are
// created on the first grant.
type Assignments struct {
	byUser map[string]map[string]struct{}
}

// NewAssignments returns an empty table.
func NewAssignments() *Assignments {
	return &Assignments{byUser: make(map[string]map[string]struct{})}
}

// Grant adds role to user's set. Granting an existing pair is a no-op. Write lock.
func (a *Assignments) Grant(user, role string) {
	roles, ok := a.byUser[user]
	if !ok {
		roles = make(map[string]struct{})
		a.byUser[user] = roles
	}
	roles[role] = struct{}{}
}

// Has reports whether user holds role. Read lock.
func (a *Assignments) Has(user, role string) bool {
	_, ok := a.byUser[user][role]
	return ok
}

// RolesOf returns a copy of user's role set, empty but non-nil when the user has no
// entry. Read lock.
func (a *Assignments) RolesOf(user string) map[string]struct{} {
	roles := a.byUser[user]
	out := make(map[string]struct{}, len(roles))
	for r := range roles {
		out[r] = struct{}{}
	}
	return out
}

// DropUser removes user's entry. Write lock.
func (a *Assignments) DropUser(user string) {
	delete(a.byUser, user)
}

// DropRole removes role from every user's set and returns the number of sets it was
// removed from. Write lock.
func (a *Assignments) DropRole(role string) int {
	n := 0
	for _, roles := range a.byUser {
		if _, ok := roles[role]; ok {
			delete(roles, role)
			n++
		}
	}
	return n
}
