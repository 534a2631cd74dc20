package arbeetest

import (
	"io/ioutil"
	"os"
	"testing"

	"github.com/arbee-network/arbee"
	"github.com/arbee-network/arbee/store/iavl"
)

// CommitKVStore returns a store instance that is using a filesystem backend
// engine to store the data.
// This implementation should be used instead of MemStore when you want the
// exact same storage implementation as the production instance is using.
func CommitKVStore(t testing.TB) (db arbee.CommitKVStore, cleanup func()) {
	t.Helper()

	dbpath, err := ioutil.TempDir("", "arbee")
	if err != nil {
		t.Fatalf("cannot create a temporary directory: %s", err)
	}
	db, err = iavl.NewCommitStore(dbpath, "db")
	if err != nil {
		os.RemoveAll(dbpath)
		t.Fatalf("cannot create commit store: %s", err)
	}
	return db, func() { os.RemoveAll(dbpath) }
}
