// Package layout models the user-declared hierarchy of branches.
//
// A BranchLayout is an ordered forest of entries stored in a flat table: every
// entry has a generated EntryID and refers to its parent and children by ID.
// Layouts are immutable; every rewrite (insert, move, remove, rename, slide-out)
// returns a new layout whose parent links are recomputed from scratch.
//
// Equality between entries ignores the order of siblings, while iteration and
// serialization keep the declared order.
package layout
