// Package authz defines the role/relationship authorization policy.
//
// The policy is a table of (role, action, resource) rows, each naming a rule
// evaluated against relationship facts the caller computed beforehand. Decide
// is a pure function: it performs no I/O, so the whole matrix can be tested
// without storage or transport.
package authz
