package xolmis

import (
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
)

func writeFile(t *testing.T, dir, name string) string {
	t.Helper()
	path := filepath.Join(dir, name)
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir: %v", err)
	}
	if err := os.WriteFile(path, []byte("x\n"), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	return path
}

func canonical(t *testing.T, path string) string {
	t.Helper()
	resolved, err := filepath.EvalSymlinks(path)
	if err != nil {
		t.Fatalf("eval symlinks: %v", err)
	}
	return resolved
}

func link(target, text string) string {
	return "\x1b]8;;" + target + "\x1b\\" + text + "\x1b]8;;\x1b\\"
}

func TestTransformLinksExistingBareFile(t *testing.T) {
	dir := t.TempDir()
	cargo := canonical(t, writeFile(t, dir, "Cargo.toml"))
	got := Transform("Found error in Cargo.toml:5", dir)
	want := "Found error in " + link("cursor://file/"+cargo+":5", "Cargo.toml:5")
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTransformSkipsMissingBareFile(t *testing.T) {
	dir := t.TempDir()
	in := "Error in nonexistent.rs:10"
	if got := Transform(in, dir); got != in {
		t.Fatalf("got %q", got)
	}
}

func TestTransformKeepsStyleInsideLink(t *testing.T) {
	dir := t.TempDir()
	cargo := canonical(t, writeFile(t, dir, "Cargo.toml"))
	got := Transform("Error: \x1b[31mCargo.toml:15\x1b[0m is bad.", dir)
	want := "Error: \x1b[31m" + link("cursor://file/"+cargo+":15", "Cargo.toml:15\x1b[0m") + " is bad."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTransformMultipleReferences(t *testing.T) {
	dir := t.TempDir()
	cargo := canonical(t, writeFile(t, dir, "Cargo.toml"))
	mainRS := filepath.Join(dir, "src/main.rs")
	got := Transform("See Cargo.toml:3 and src/main.rs:10 for details.", dir)
	want := "See " + link("cursor://file/"+cargo+":3", "Cargo.toml:3") +
		" and " + link("cursor://file/"+mainRS+":10", "src/main.rs:10") +
		" for details."
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTransformLeavesExistingHyperlinks(t *testing.T) {
	in := "\x1b]8;;file:///tmp/a.go\x1b\\src/a.go:1\x1b]8;;\x1b\\ and src/b.go:2"
	if got := Transform(in, t.TempDir()); got != in {
		t.Fatalf("got %q", got)
	}
}

func TestTransformNoMatches(t *testing.T) {
	for _, in := range []string{"", "plain text with no links", "\x1b[1m\x1b[0m", "http://example.com:80"} {
		if got := Transform(in, t.TempDir()); got != in {
			t.Fatalf("%q: got %q", in, got)
		}
	}
}

func TestTransformPreservesVisibleText(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml")
	inputs := []string{
		"See Cargo.toml:3 and src/main.rs:10 for details.",
		"\x1b[1;36mpkg/a.go:1\x1b[m\x1b[K\n\x1b[33m./b/c.py:9\x1b[0m",
		"  File \"/tmp/x.py\", line 12, in main\n",
		"unrelated \x1b[2J output",
	}
	for _, in := range inputs {
		if got := Strip(Transform(in, dir)); got != Strip(in) {
			t.Fatalf("%q: visible text changed to %q", in, got)
		}
	}
}

func TestTransformerOptions(t *testing.T) {
	home := t.TempDir()
	t.Setenv("HOME", home)
	tr := NewTransformer(nil,
		WithTargetPrefix("vscode://file"),
		WithStat(func(string) error { return os.ErrNotExist }),
		WithCanonicalizer(func(p string) (string, error) { return p, nil }),
	)
	got := tr.Transform("open ~/notes/todo.md:4 now", "/work")
	want := "open " + link("vscode://file"+filepath.Join(home, "notes/todo.md")+":4", "~/notes/todo.md:4") + " now"
	if got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTransformerGateUsesStat(t *testing.T) {
	exists := NewTransformer(nil,
		WithStat(func(string) error { return nil }),
		WithCanonicalizer(func(p string) (string, error) { return p, nil }),
		WithTargetPrefix("x:"),
	)
	got := exists.Transform("main.go:7", "/work")
	if got != link("x:/work/main.go:7", "main.go:7") {
		t.Fatalf("got %q", got)
	}
}

func TestTransformTraceback(t *testing.T) {
	tr := NewTransformer(nil, WithCanonicalizer(func(p string) (string, error) { return p, nil }))
	in := "Traceback (most recent call last):\n  File \"/srv/app/main.py\", line 12, in <module>\n"
	want := "Traceback (most recent call last):\n" +
		link("cursor://file//srv/app/main.py:12", "  File \"/srv/app/main.py\", line 12") +
		", in <module>\n"
	if got := tr.Transform(in, "/srv"); got != want {
		t.Fatalf("got %q\nwant %q", got, want)
	}
}

func TestTransformConcurrent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml")
	tr := NewTransformer(nil)
	want := tr.Transform("Found error in Cargo.toml:5", dir)
	var wg sync.WaitGroup
	errs := make(chan string, 8)
	for i := 0; i < 8; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for j := 0; j < 50; j++ {
				if got := tr.Transform("Found error in Cargo.toml:5", dir); got != want {
					errs <- got
					return
				}
			}
		}()
	}
	wg.Wait()
	close(errs)
	for got := range errs {
		t.Fatalf("concurrent transform: got %q", got)
	}
}

func TestTransformSample(t *testing.T) {
	src, err := os.ReadFile("testdata/cargo_build.ansi")
	if err != nil {
		t.Fatalf("read: %v", err)
	}
	tr := NewTransformer(nil, WithCanonicalizer(func(p string) (string, error) { return p, nil }))
	got := tr.Transform(string(src), "/home/dev/demo")
	if n := strings.Count(got, "\x1b]8;;cursor://file/"); n != 5 {
		t.Fatalf("links: got %d", n)
	}
	for _, want := range []string{
		link("cursor://file//home/dev/demo/src/main.rs:4", "src/main.rs:4"),
		link("cursor://file//home/dev/demo/internal/lexer/lexer.go:143", "./internal/lexer/lexer.go:143\x1b[0m"),
		link("cursor://file//home/dev/demo/tools/gen.py:27", "  File \"/home/dev/demo/tools/gen.py\", line 27"),
		link("cursor://file//home/dev/demo/tools/gen.py:31", "> /home/dev/demo/tools/gen.py(31)"),
		link("cursor://file//usr/lib/python3.12/runpy.py:88", "  /usr/lib/python3.12/runpy.py(88)"),
	} {
		if !strings.Contains(got, want) {
			t.Fatalf("missing %q in %q", want, got)
		}
	}
	if Strip(got) != Strip(string(src)) {
		t.Fatalf("visible text changed")
	}
}

func TestTransformIsIdempotent(t *testing.T) {
	dir := t.TempDir()
	writeFile(t, dir, "Cargo.toml")
	for _, in := range []string{
		"Found error in Cargo.toml:5",
		"See Cargo.toml:3 and src/main.rs:10 for details.",
		"no references at all",
	} {
		once := Transform(in, dir)
		if twice := Transform(once, dir); twice != once {
			t.Fatalf("%q: second pass changed output to %q", in, twice)
		}
	}
}
