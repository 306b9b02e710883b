package registry

// Account is a stored user: a unique name and the digest of its secret.
type Account struct {
	Name   string
	Digest string
}

// Accounts maps user name to [Account].
type Accounts struct {
	byName map[string]Account
}

// NewAccounts returns an empty table.
func NewAccounts() *Accounts {
	return &Accounts{byName: make(map[string]Account)}
}

// Get returns the account for name. Read lock.
func (a *Accounts) Get(name string) (Account, bool) {
	acc, ok := a.byName[name]
	return acc, ok
}

// Has reports whether name exists. Read lock.
func (a *Accounts) Has(name string) bool {
	_, ok := a.byName[name]
	return ok
}

// Put stores acc, replacing any account with the same name. Write lock.
func (a *Accounts) Put(acc Account) {
	a.byName[acc.Name] = acc
}

// Remove deletes name and reports whether it existed. Write lock.
func (a *Accounts) Remove(name string) bool {
	if _, ok := a.byName[name]; !ok {
		return false
	}
	delete(a.byName, name)
	return true
}

// Len returns the number of accounts. Read lock.
func (a *Accounts) Len() int {
	return len(a.byName)
}
