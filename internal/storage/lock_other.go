//go:build !unix && !windows

package storage

import "os"

// Platforms without advisory locks rely on the in-process mutex only.
func lockFile(*os.File, bool) error { return nil }

func unlockFile(*os.File) {}
