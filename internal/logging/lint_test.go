package logging

import (
	"bufio"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"
	"testing"
)

var directPrint = regexp.MustCompile(`\b(fmt\.Print(f|ln)?|log\.Print(f|ln)?|println|print)\s*\(`)

func moduleRoot(t *testing.T) string {
	t.Helper()
	_, file, _, ok := runtime.Caller(0)
	if !ok {
		t.Fatal("no caller information")
	}
	for dir := filepath.Dir(file); ; dir = filepath.Dir(dir) {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		if filepath.Dir(dir) == dir {
			t.Fatal("go.mod not found")
		}
	}
}

// TestNoDirectPrinting keeps library packages on the structured logger.
// The server and CLI entry points may write to stdout.
func TestNoDirectPrinting(t *testing.T) {
	root := moduleRoot(t)

	var violations []string
	err := filepath.WalkDir(root, func(path string, d fs.DirEntry, err error) error {
		if err != nil {
			return err
		}
		rel, _ := filepath.Rel(root, path)
		if d.IsDir() {
			if rel != "." && (strings.HasPrefix(d.Name(), "_") || rel == "cmd") {
				return filepath.SkipDir
			}
			return nil
		}
		if !strings.HasSuffix(rel, ".go") || strings.HasSuffix(rel, "_test.go") || rel == "main.go" {
			return nil
		}

		f, err := os.Open(path)
		if err != nil {
			return err
		}
		defer f.Close()

		scanner := bufio.NewScanner(f)
		for n := 1; scanner.Scan(); n++ {
			line := strings.TrimSpace(scanner.Text())
			if !strings.HasPrefix(line, "//") && directPrint.MatchString(line) {
				violations = append(violations, fmt.Sprintf("%s:%d: %s", rel, n, line))
			}
		}
		return scanner.Err()
	})
	if err != nil {
		t.Fatal(err)
	}

	for _, v := range violations {
		t.Errorf("direct print, use the logging helpers: %s", v)
	}
}
