package testutil

import (
	"context"
	"os"
	"path/filepath"

	"github.com/andrebq/authd/userstore"
)

type (
	TestLog interface {
		Fatal(...interface{})
		Log(...interface{})
	}
)

// AcquireStore opens a sqlite backed store inside a temporary directory.
// The returned function closes the store and removes the directory.
func AcquireStore(ctx context.Context, t TestLog, name string) (*userstore.Store, func()) {
	dir, err := os.MkdirTemp("", "authd-tests")
	if err != nil {
		t.Fatal(err)
	}
	store, err := userstore.Open(ctx, userstore.SQLite, filepath.Join(dir, name))
	if err != nil {
		os.RemoveAll(dir)
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
		err = os.RemoveAll(dir)
		if err != nil {
			t.Log("unable to cleanup temp dir", dir)
		}
	}
}

// AcquirePostgresStore opens a store against the database named by the
// AUTHD_TEST_POSTGRES_DSN environment variable. The boolean is false
// when the variable is not set.
func AcquirePostgresStore(ctx context.Context, t TestLog) (*userstore.Store, func(), bool) {
	dsn := os.Getenv("AUTHD_TEST_POSTGRES_DSN")
	if dsn == "" {
		return nil, nil, false
	}
	store, err := userstore.Open(ctx, userstore.Postgres, dsn)
	if err != nil {
		t.Fatal(err)
	}
	return store, func() {
		err := store.Close()
		if err != nil {
			t.Log("unable to close store", err)
		}
	}, true
}
