package fakefs

import (
	"errors"
	"io/fs"
	"testing"
)

func TestFS_ReadFile(t *testing.T) {
	f := New()
	f.AddText("/data/colors.txt", "red\nblue\n")

	data, err := f.ReadFile("/data/colors.txt")
	if err != nil {
		t.Fatalf("ReadFile() error = %v", err)
	}
	if string(data) != "red\nblue\n" {
		t.Errorf("ReadFile() = %q", data)
	}

	// Mutating the returned slice must not affect the stored file.
	data[0] = 'X'
	again, _ := f.ReadFile("/data/colors.txt")
	if string(again) != "red\nblue\n" {
		t.Errorf("stored data was mutated: %q", again)
	}
}

func TestFS_ReadFileMissing(t *testing.T) {
	f := New()
	_, err := f.ReadFile("/nope.txt")
	if !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("ReadFile(missing) error = %v, want ErrNotExist", err)
	}
}

func TestFS_SetReadError(t *testing.T) {
	f := New()
	f.AddText("/locked.txt", "x")
	f.SetReadError("/locked.txt", fs.ErrPermission)

	_, err := f.ReadFile("/locked.txt")
	if !errors.Is(err, fs.ErrPermission) {
		t.Errorf("ReadFile() error = %v, want ErrPermission", err)
	}
}

func TestFS_Stat(t *testing.T) {
	f := New()
	f.AddText("/etc/app/config.toml", "x = 1")

	info, err := f.Stat("/etc/app/config.toml")
	if err != nil {
		t.Fatalf("Stat(file) error = %v", err)
	}
	if info.IsDir() || info.Size() != 5 {
		t.Errorf("Stat(file) = dir:%v size:%d", info.IsDir(), info.Size())
	}

	info, err = f.Stat("/etc/app")
	if err != nil {
		t.Fatalf("Stat(dir) error = %v", err)
	}
	if !info.IsDir() {
		t.Error("Stat(dir).IsDir() = false")
	}

	if _, err := f.Stat("/etc/other"); !errors.Is(err, fs.ErrNotExist) {
		t.Errorf("Stat(missing) error = %v", err)
	}
}

func TestFS_Glob(t *testing.T) {
	f := New()
	f.AddText("/data/b.txt", "")
	f.AddText("/data/a.txt", "")
	f.AddText("/data/nested/c.txt", "")
	f.AddText("/data/readme.md", "")

	tests := []struct {
		pattern string
		want    []string
	}{
		{"/data/*.txt", []string{"/data/a.txt", "/data/b.txt"}},
		{"/data/**/*.txt", []string{"/data/a.txt", "/data/b.txt", "/data/nested/c.txt"}},
		{"/data/*.{md,txt}", []string{"/data/a.txt", "/data/b.txt", "/data/readme.md"}},
		{"/other/*.txt", nil},
	}

	for _, tt := range tests {
		t.Run(tt.pattern, func(t *testing.T) {
			got, err := f.Glob(tt.pattern)
			if err != nil {
				t.Fatalf("Glob() error = %v", err)
			}
			if len(got) != len(tt.want) {
				t.Fatalf("Glob() = %v, want %v", got, tt.want)
			}
			for i := range got {
				if got[i] != tt.want[i] {
					t.Errorf("Glob()[%d] = %q, want %q", i, got[i], tt.want[i])
				}
			}
		})
	}
}

func TestFS_GlobBadPattern(t *testing.T) {
	f := New()
	if _, err := f.Glob("/data/[.txt"); err == nil {
		t.Error("Glob(bad pattern) expected error")
	}
}

func TestFS_Env(t *testing.T) {
	f := New()
	if got := f.Getenv("WILDCARD_CONFIG_PATH"); got != "" {
		t.Errorf("Getenv(unset) = %q", got)
	}
	f.SetEnv("WILDCARD_CONFIG_PATH", "/cfg.toml")
	if got := f.Getenv("WILDCARD_CONFIG_PATH"); got != "/cfg.toml" {
		t.Errorf("Getenv() = %q", got)
	}
}

func TestFS_Files(t *testing.T) {
	f := New()
	f.AddText("/z.txt", "")
	f.AddText("/a.txt", "")
	got := f.Files()
	if len(got) != 2 || got[0] != "/a.txt" || got[1] != "/z.txt" {
		t.Errorf("Files() = %v", got)
	}
}
