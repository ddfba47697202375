//go:build unix

package config

import (
	"fmt"
	"os"
	"syscall"
)

func checkOwnership(info os.FileInfo) error {
	if stat, ok := info.Sys().(*syscall.Stat_t); ok && int(stat.Uid) != os.Getuid() {
		return fmt.Errorf("owned by uid %d, not %d", stat.Uid, os.Getuid())
	}
	if perm := info.Mode().Perm(); perm != 0700 {
		return fmt.Errorf("mode %#o, want 0700", perm)
	}
	return nil
}
