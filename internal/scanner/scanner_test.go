package scanner

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/ariadne-dev/ariadne/pkg/adapter"
	"github.com/ariadne-dev/ariadne/pkg/config"
	"github.com/ariadne-dev/ariadne/pkg/ir"
)

// stubAdapter claims extensions without parsing anything; the scanner
// only asks the registry which paths are analyzable.
type stubAdapter struct {
	lang string
	exts []string
}

func (s stubAdapter) Language() string     { return s.lang }
func (s stubAdapter) Extensions() []string { return s.exts }
func (s stubAdapter) Create([]byte, string) ([]*ir.ActionNode, error) {
	return nil, nil
}

func testRegistry() *adapter.Registry {
	return adapter.NewRegistry(
		stubAdapter{lang: "javascript", exts: []string{".js"}},
		stubAdapter{lang: "html", exts: []string{".html"}},
	)
}

func TestNewScanner(t *testing.T) {
	// With nil config
	s := NewScanner(nil, testRegistry())
	if s == nil {
		t.Fatal("NewScanner(nil) returned nil")
	}
	if s.config == nil {
		t.Error("scanner.config should not be nil when passing nil")
	}

	// With explicit config
	cfg := config.DefaultConfig()
	s = NewScanner(cfg, testRegistry())
	if s.config != cfg {
		t.Error("scanner.config should be the provided config")
	}
}

func TestScanDir(t *testing.T) {
	tmpDir := t.TempDir()

	files := map[string]string{
		"main.js":          "console.log('hi')\n",
		"index.html":       "<html></html>\n",
		"widgets/menu.js":  "export {}\n",
		"widgets/menu.css": "/* css */\n",
		"docs/notes.txt":   "notes\n",
		"pages/about.html": "<html></html>\n",
	}

	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 4 {
		t.Errorf("ScanDir() found %d files, want 4", len(result))
	}

	found := make(map[string]bool)
	for _, f := range result {
		rel, _ := filepath.Rel(tmpDir, f)
		found[rel] = true
	}

	for _, name := range []string{"main.js", "index.html", filepath.Join("widgets", "menu.js"), filepath.Join("pages", "about.html")} {
		if !found[name] {
			t.Errorf("File %s was not found", name)
		}
	}
}

func TestScanDirExcludesDirectories(t *testing.T) {
	tmpDir := t.TempDir()

	excludedDirs := []string{"vendor", "node_modules", ".git"}
	for _, dir := range excludedDirs {
		path := filepath.Join(tmpDir, dir, "file.js")
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte("export {}\n"), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	if err := os.WriteFile(filepath.Join(tmpDir, "main.js"), []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 1 {
		t.Errorf("ScanDir() found %d files, want 1 (excluded dirs should be skipped)", len(result))
		for _, f := range result {
			t.Logf("  Found: %s", f)
		}
	}
}

func TestScanDirExcludesPatterns(t *testing.T) {
	tmpDir := t.TempDir()

	files := []string{
		"main.js",
		"main.test.js", // Excluded by default pattern
		"app.min.js",   // Excluded by default pattern
	}

	for _, name := range files {
		if err := os.WriteFile(filepath.Join(tmpDir, name), []byte("// content\n"), 0644); err != nil {
			t.Fatalf("Failed to create file: %v", err)
		}
	}

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 1 {
		t.Errorf("ScanDir() found %d files, want 1", len(result))
		for _, f := range result {
			t.Logf("  Found: %s", f)
		}
	}
}

func TestScanFile(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name     string
		filename string
		content  string
		want     bool
	}{
		{"js file", "main.js", "export {}\n", true},
		{"html file", "index.html", "<html></html>\n", true},
		{"text file", "readme.txt", "hello\n", false},
		{"directory", "", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var path string
			if tt.filename == "" {
				path = tmpDir
			} else {
				path = filepath.Join(tmpDir, tt.filename)
				if err := os.WriteFile(path, []byte(tt.content), 0644); err != nil {
					t.Fatalf("Failed to create file: %v", err)
				}
			}

			s := NewScanner(nil, testRegistry())
			got, err := s.ScanFile(path)
			if err != nil {
				if tt.want {
					t.Errorf("ScanFile() error: %v", err)
				}
				return
			}

			if got != tt.want {
				t.Errorf("ScanFile(%s) = %v, want %v", tt.filename, got, tt.want)
			}
		})
	}
}

func TestScanFileNonExistent(t *testing.T) {
	s := NewScanner(nil, testRegistry())
	_, err := s.ScanFile("/nonexistent/path/file.js")
	if err == nil {
		t.Error("ScanFile() should return error for non-existent file")
	}
}

func TestGroupByLanguage(t *testing.T) {
	files := []string{
		"/path/to/main.js",
		"/path/to/menu.js",
		"/path/to/index.html",
		"/path/to/readme.txt", // No adapter
	}

	s := NewScanner(nil, testRegistry())
	groups := s.GroupByLanguage(files)

	if len(groups["javascript"]) != 2 {
		t.Errorf("GroupByLanguage()[javascript] has %d files, want 2", len(groups["javascript"]))
	}
	if len(groups["html"]) != 1 {
		t.Errorf("GroupByLanguage()[html] has %d files, want 1", len(groups["html"]))
	}
	if len(groups) != 2 {
		t.Errorf("GroupByLanguage() has %d groups, want 2", len(groups))
	}
}

func TestScanDirWithGitignore(t *testing.T) {
	tmpDir := t.TempDir()

	gitignoreContent := "skipme\n"
	if err := os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte(gitignoreContent), 0644); err != nil {
		t.Fatalf("Failed to create .gitignore: %v", err)
	}

	files := map[string]string{
		"main.js":        "export {}\n",
		"skipme/skip.js": "export {}\n",
		"src/app.js":     "export {}\n",
	}

	for name, content := range files {
		path := filepath.Join(tmpDir, name)
		if err := os.MkdirAll(filepath.Dir(path), 0755); err != nil {
			t.Fatalf("Failed to create directory: %v", err)
		}
		if err := os.WriteFile(path, []byte(content), 0644); err != nil {
			t.Fatalf("Failed to create file %s: %v", name, err)
		}
	}

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = true

	s := NewScanner(cfg, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	foundFiles := make(map[string]bool)
	for _, f := range result {
		rel, _ := filepath.Rel(tmpDir, f)
		foundFiles[rel] = true
	}

	if !foundFiles["main.js"] {
		t.Error("Should find main.js")
	}
	if !foundFiles[filepath.Join("src", "app.js")] {
		t.Error("Should find src/app.js")
	}
}

func TestScanDirDisabledGitignore(t *testing.T) {
	tmpDir := t.TempDir()

	if err := os.WriteFile(filepath.Join(tmpDir, ".gitignore"), []byte("ignored/\n"), 0644); err != nil {
		t.Fatalf("Failed to create .gitignore: %v", err)
	}

	if err := os.MkdirAll(filepath.Join(tmpDir, "ignored"), 0755); err != nil {
		t.Fatalf("Failed to create directory: %v", err)
	}
	if err := os.WriteFile(filepath.Join(tmpDir, "ignored", "file.js"), []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	cfg := config.DefaultConfig()
	cfg.Exclude.Gitignore = false

	s := NewScanner(cfg, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	found := false
	for _, f := range result {
		if filepath.Base(f) == "file.js" {
			found = true
			break
		}
	}

	if !found {
		t.Error("With gitignore disabled, should find files in 'ignored' directory")
	}
}

func TestScanDirEmptyDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 0 {
		t.Errorf("ScanDir() on empty dir returned %d files, want 0", len(result))
	}
}

func TestGroupByLanguageEmpty(t *testing.T) {
	s := NewScanner(nil, testRegistry())
	result := s.GroupByLanguage(nil)
	if len(result) != 0 {
		t.Errorf("GroupByLanguage(nil) should return empty map, got %v", result)
	}

	result = s.GroupByLanguage([]string{})
	if len(result) != 0 {
		t.Errorf("GroupByLanguage([]) should return empty map, got %v", result)
	}
}

func TestFilterBySize(t *testing.T) {
	tmpDir := t.TempDir()

	smallContent := "small"
	largeContent := make([]byte, 1024)
	for i := range largeContent {
		largeContent[i] = 'x'
	}

	smallFile := filepath.Join(tmpDir, "small.js")
	largeFile := filepath.Join(tmpDir, "large.js")

	if err := os.WriteFile(smallFile, []byte(smallContent), 0644); err != nil {
		t.Fatalf("Failed to create small file: %v", err)
	}
	if err := os.WriteFile(largeFile, largeContent, 0644); err != nil {
		t.Fatalf("Failed to create large file: %v", err)
	}

	t.Run("no limit", func(t *testing.T) {
		filtered, skipped := FilterBySize([]string{smallFile, largeFile}, 0)
		if len(filtered) != 2 {
			t.Errorf("FilterBySize with no limit should return all files, got %d", len(filtered))
		}
		if skipped != 0 {
			t.Errorf("FilterBySize with no limit should skip 0 files, got %d", skipped)
		}
	})

	t.Run("with limit", func(t *testing.T) {
		filtered, skipped := FilterBySize([]string{smallFile, largeFile}, 100)
		if len(filtered) != 1 {
			t.Errorf("FilterBySize should return 1 file, got %d", len(filtered))
		}
		if skipped != 1 {
			t.Errorf("FilterBySize should skip 1 file, got %d", skipped)
		}
		if filtered[0] != smallFile {
			t.Errorf("FilterBySize should keep small file, got %s", filtered[0])
		}
	})

	t.Run("with stat error", func(t *testing.T) {
		nonExistent := filepath.Join(tmpDir, "nonexistent.js")
		filtered, skipped := FilterBySize([]string{smallFile, nonExistent}, 100)
		if len(filtered) != 1 {
			t.Errorf("FilterBySize should return 1 file, got %d", len(filtered))
		}
		if skipped != 1 {
			t.Errorf("FilterBySize should skip non-existent file, got %d skipped", skipped)
		}
	})
}

func TestIsWithinRoot(t *testing.T) {
	tmpDir := t.TempDir()

	tests := []struct {
		name string
		path string
		root string
		want bool
	}{
		{
			name: "same path",
			path: tmpDir,
			root: tmpDir,
			want: true,
		},
		{
			name: "child path",
			path: filepath.Join(tmpDir, "subdir", "file.js"),
			root: tmpDir,
			want: true,
		},
		{
			name: "path outside root",
			path: "/some/other/path",
			root: tmpDir,
			want: false,
		},
		{
			name: "parent path",
			path: filepath.Dir(tmpDir),
			root: tmpDir,
			want: false,
		},
		{
			name: "similar prefix but different dir",
			path: tmpDir + "2/file.js",
			root: tmpDir,
			want: false,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := isWithinRoot(tt.path, tt.root)
			if got != tt.want {
				t.Errorf("isWithinRoot(%q, %q) = %v, want %v", tt.path, tt.root, got, tt.want)
			}
		})
	}
}

func TestFindGitRoot(t *testing.T) {
	tmpDir := t.TempDir()
	result := findGitRoot(tmpDir)
	if result != "" {
		t.Errorf("findGitRoot() on non-git dir should return empty string, got %q", result)
	}

	gitDir := filepath.Join(tmpDir, ".git")
	if err := os.Mkdir(gitDir, 0755); err != nil {
		t.Fatalf("Failed to create .git dir: %v", err)
	}

	result = findGitRoot(tmpDir)
	if result != tmpDir {
		t.Errorf("findGitRoot() should return %q, got %q", tmpDir, result)
	}

	subDir := filepath.Join(tmpDir, "src", "pkg")
	if err := os.MkdirAll(subDir, 0755); err != nil {
		t.Fatalf("Failed to create subdir: %v", err)
	}

	result = findGitRoot(subDir)
	if result != tmpDir {
		t.Errorf("findGitRoot() from subdir should return %q, got %q", tmpDir, result)
	}
}

func TestScanDirWithSymlinks(t *testing.T) {
	tmpDir := t.TempDir()

	realFile := filepath.Join(tmpDir, "real.js")
	if err := os.WriteFile(realFile, []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	symlinkPath := filepath.Join(tmpDir, "link.js")
	if err := os.Symlink(realFile, symlinkPath); err != nil {
		t.Skip("Symlinks not supported on this system")
	}

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) < 1 {
		t.Errorf("ScanDir() should find at least the real file, got %d files", len(result))
	}
}

func TestScanDirWithUnresolvableSymlink(t *testing.T) {
	tmpDir := t.TempDir()

	symlinkPath := filepath.Join(tmpDir, "dangling.js")
	if err := os.Symlink("/nonexistent/path/file.js", symlinkPath); err != nil {
		t.Skip("Symlinks not supported on this system")
	}

	realFile := filepath.Join(tmpDir, "real.js")
	if err := os.WriteFile(realFile, []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	if len(result) != 1 {
		t.Errorf("ScanDir() should find 1 file (skipping dangling symlink), got %d", len(result))
	}
}

func TestScanDirWithSymlinkDirectory(t *testing.T) {
	tmpDir := t.TempDir()

	realDir := filepath.Join(tmpDir, "real")
	if err := os.Mkdir(realDir, 0755); err != nil {
		t.Fatalf("Failed to create real dir: %v", err)
	}
	if err := os.WriteFile(filepath.Join(realDir, "file.js"), []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("Failed to create file: %v", err)
	}

	outsideDir := t.TempDir() // Different temp directory
	if err := os.WriteFile(filepath.Join(outsideDir, "outside.js"), []byte("export {}\n"), 0644); err != nil {
		t.Fatalf("Failed to create outside file: %v", err)
	}

	symlinkDir := filepath.Join(tmpDir, "linked")
	if err := os.Symlink(outsideDir, symlinkDir); err != nil {
		t.Skip("Symlinks not supported on this system")
	}

	s := NewScanner(nil, testRegistry())
	result, err := s.ScanDir(tmpDir)
	if err != nil {
		t.Fatalf("ScanDir() error: %v", err)
	}

	foundOutside := false
	for _, f := range result {
		if filepath.Base(f) == "outside.js" {
			foundOutside = true
		}
	}

	if foundOutside {
		t.Error("ScanDir() should not follow symlinks outside the root directory")
	}
}
