package cli

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestCreateInfoRoundTrip(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	out := r.MustRun("create", "chunks.idx")
	if !strings.Contains(out, "key_size=32") || !strings.Contains(out, "buckets=1031") {
		t.Fatalf("create output = %q", out)
	}

	info := r.MustRun("info", "chunks.idx")
	if !strings.Contains(info, "entries:     0") {
		t.Fatalf("info output = %q", info)
	}

	if !strings.Contains(info, "buckets:     1,031") {
		t.Fatalf("info output = %q", info)
	}
}

func TestCreateRefusesToOverwrite(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	r.MustRun("create", "chunks.idx")

	stderr := r.MustFail("create", "chunks.idx")
	if !strings.Contains(stderr, "already exists") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestSetGetDelFlow(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	r.MustRun("create", "chunks.idx")
	r.MustRun("set", "chunks.idx", "deadbeef", "2a")

	got := r.MustRun("get", "chunks.idx", "deadbeef")
	if got != "2a0000000000000000000000" {
		t.Fatalf("get = %q", got)
	}

	r.MustRun("del", "chunks.idx", "deadbeef")

	stderr := r.MustFail("get", "chunks.idx", "deadbeef")
	if !strings.Contains(stderr, "key not found") {
		t.Fatalf("stderr = %q", stderr)
	}

	// Deleting again is still success.
	r.MustRun("del", "chunks.idx", "deadbeef")
}

func TestLsListsEntriesInBucketOrder(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	r.MustRun("create", "chunks.idx")
	r.MustRun("set", "chunks.idx", "05", "aa")
	r.MustRun("set", "chunks.idx", "03", "bb")

	out := r.MustRun("ls", "chunks.idx")

	lines := strings.Split(out, "\n")
	if len(lines) != 2 {
		t.Fatalf("ls lines = %v", lines)
	}

	// Keys 3 and 5 hash to buckets 3 and 5: bucket order puts 3 first.
	if !strings.HasPrefix(lines[0], "03") || !strings.HasPrefix(lines[1], "05") {
		t.Fatalf("ls order = %v", lines)
	}

	limited := r.MustRun("ls", "-n", "1", "chunks.idx")
	if len(strings.Split(limited, "\n")) != 1 {
		t.Fatalf("ls -n 1 = %q", limited)
	}
}

func TestVerifyDetectsTruncatedFile(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	r.MustRun("create", "chunks.idx")

	ok := r.MustRun("verify", "chunks.idx")
	if !strings.Contains(ok, "ok") {
		t.Fatalf("verify = %q", ok)
	}

	path := filepath.Join(r.Dir, "chunks.idx")

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read: %v", err)
	}

	if err := os.WriteFile(path, data[:len(data)-1], 0o644); err != nil {
		t.Fatalf("truncate: %v", err)
	}

	stderr := r.MustFail("verify", "chunks.idx")
	if !strings.Contains(stderr, "corrupt") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestGetRejectsOversizedKey(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	r.MustRun("create", "-k", "4", "small.idx")

	stderr := r.MustFail("get", "small.idx", "deadbeefaa")
	if !strings.Contains(stderr, "limit is 4") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestUnknownCommandFails(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	stderr := r.MustFail("frobnicate")
	if !strings.Contains(stderr, "unknown command") {
		t.Fatalf("stderr = %q", stderr)
	}
}

func TestHelpListsCommands(t *testing.T) {
	t.Parallel()

	r := NewCLI(t)

	out := r.MustRun("--help")

	for _, name := range []string{"create", "info", "get", "set", "del", "ls", "verify", "config"} {
		if !strings.Contains(out, name) {
			t.Fatalf("help is missing %q:\n%s", name, out)
		}
	}
}
