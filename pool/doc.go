// Package pool provides recycling allocators for transient objects.
//
// Two flavours exist:
//
//   - Pool[T] recycles caller-constructed objects (search states). Objects are
//     created lazily through a constructor, handed back with Release and
//     re-issued without reinitialization, so callers must reset them.
//   - Arena[T] hands out integer handles to slots of a segmented backing
//     store (tree pages). Freed handles are pushed on a free stack and popped
//     again by the next Alloc. Slot addresses never move while the arena is alive.
//
// Neither type is safe for concurrent use. Wrap a Pool with Synchronized when
// several goroutines acquire and release through it.
package pool
