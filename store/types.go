package store

import "github.com/arbee-network/arbee"

// Move references for all storage types into this package
// for shorter names everywhere

type ReadOnlyKVStore = arbee.ReadOnlyKVStore
type SetDeleter = arbee.SetDeleter
type KVStore = arbee.KVStore
type Batch = arbee.Batch
type Iterator = arbee.Iterator
type CacheableKVStore = arbee.CacheableKVStore
type KVCacheWrap = arbee.KVCacheWrap
type CommitKVStore = arbee.CommitKVStore
type CommitID = arbee.CommitID

// Model groups together key and value to return
type Model = arbee.Model

// Pair constructs a model from a key-value pair
var Pair = arbee.Pair
