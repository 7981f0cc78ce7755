package ports

import (
	"io/fs"
)

// FileSystem abstracts the read-only file access used while loading the
// configuration and category data.
type FileSystem interface {
	// ReadFile reads the named file and returns its contents.
	ReadFile(name string) ([]byte, error)

	// Stat returns file info for the named file.
	Stat(name string) (fs.FileInfo, error)

	// Glob returns the files matching a doublestar pattern, sorted.
	Glob(pattern string) ([]string, error)

	// Getenv retrieves the value of the environment variable named by the key.
	Getenv(key string) string
}
