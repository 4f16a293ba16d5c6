// Package pagetree implements an in-memory ordered multiset backed by a
// page-oriented B*-tree.
//
// Every page holds up to FanOut (C) ordered keys. Non-root pages are kept at
// least two-thirds full: an overflowing page first rotates a key into a
// sibling with room, and only when both neighbours are full does it split
// two pages into three. Underflow works the same way in reverse: borrow from
// a sibling above the floor, otherwise merge three pages into two.
//
// # Layout
//
//   - Pages live in a pool.Arena and are addressed by pool.Handle.
//   - Pages carry no parent pointer. Mutations thread an explicit
//     root-to-leaf path stack instead.
//   - The root may hold up to twice the occupancy floor so that splitting it
//     yields two pages at the floor (Knuth's B* root rule).
//
// # Parameters
//
//   - FanOut: page capacity C (default: 6, minimum: 3)
//   - Floor: m = ⌊2C/3⌋ keys per non-root page
//
// # Reference
//
// D. E. Knuth, The Art of Computer Programming, Vol. 3, §6.2.4 (B*-trees).
package pagetree
