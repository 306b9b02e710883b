package registry

// Roles is the set of defined role names.
type Roles struct {
	names map[string]struct{}
}

// NewRoles returns an empty table.
func NewRoles() *Roles {
	return &Roles{names: make(map[string]struct{})}
}

// Has reports whether the role exists. Read lock.
func (r *Roles) Has(name string) bool {
	_, ok := r.names[name]
	return ok
}

// Add defines name. Write lock.
func (r *Roles) Add(name string) {
	r.names[name] = struct{}{}
}

// Remove deletes name and reports whether it existed. Write lock.
func (r *Roles) Remove(name string) bool {
	if _, ok := r.names[name]; !ok {
		return false
	}
	delete(r.names, name)
	return true
}

// Len returns the number of roles. Read lock.
func (r *Roles) Len() int {
	return len(r.names)
}
