// Package discovery resolves the transitive dependencies of a set of root
// components.
//
// Children of a node are explored concurrently with errgroup and joined
// before the parent returns. A single visited set, shared by all roots of a
// pass, guarantees that each component id is fetched from the platform at
// most once, which also makes cyclic graphs terminate.
package discovery
