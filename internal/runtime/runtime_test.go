package runtime

import (
	"context"
	"testing"

	cfgpkg "github.com/vanzaam/LibreOOPWeb/internal/config"
	pebblestore "github.com/vanzaam/LibreOOPWeb/internal/storage/pebble"
)

func TestOpenCloseHealth(t *testing.T) {
	rt, err := Open(Options{
		DataDir: t.TempDir(),
		Fsync:   pebblestore.FsyncModeAlways,
		Config:  cfgpkg.Default(),
	})
	if err != nil {
		t.Fatalf("open: %v", err)
	}
	if err := rt.CheckHealth(context.Background()); err != nil {
		t.Fatalf("health: %v", err)
	}
	if rt.Store() == nil {
		t.Fatalf("store must be wired")
	}
	if rt.Config().HTTPAddr != ":8080" {
		t.Fatalf("config not carried")
	}
	if err := rt.Close(); err != nil {
		t.Fatalf("close: %v", err)
	}
}

func TestFsyncModeFromString(t *testing.T) {
	if FsyncModeFromString("interval") != pebblestore.FsyncModeInterval {
		t.Fatalf("interval")
	}
	if FsyncModeFromString("off") != pebblestore.FsyncModeNever {
		t.Fatalf("off")
	}
	if FsyncModeFromString("always") != pebblestore.FsyncModeAlways {
		t.Fatalf("always")
	}
	if FsyncModeFromString("bogus") != pebblestore.FsyncModeAlways {
		t.Fatalf("fallback")
	}
}
