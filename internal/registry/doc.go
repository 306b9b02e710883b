// Package registry holds the account, role and assignment tables behind the
// memauth Service.
//
// None of the types here synchronize. Each table is paired with one RWMutex owned by
// the Service, and every method documents whether it needs that lock held for
// reading or for writing.
package registry
