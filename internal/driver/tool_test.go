package driver

import "testing"

func TestLookupOnPathFindsBinary(t *testing.T) {
	path, err := lookupOnPath("sh", []string{"/bin", "/usr/bin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path == "" {
		t.Errorf("want: non-empty resolved path, got empty")
	}
}

func TestLookupOnPathAbsoluteNamePassesThrough(t *testing.T) {
	path, err := lookupOnPath("/bin/sh", nil)
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if path != "/bin/sh" {
		t.Errorf("want: /bin/sh, got: %q", path)
	}
}

func TestLookupOnPathNotFound(t *testing.T) {
	if _, err := lookupOnPath("doarr-nonexistent-tool-xyz", []string{"/bin"}); err == nil {
		t.Errorf("want: error for nonexistent tool, got: nil")
	}
}

func TestResolveToolOpensHandle(t *testing.T) {
	tool, err := ResolveTool("sh", []string{"/bin"})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	defer tool.Close()
	if tool.Name != "sh" {
		t.Errorf("want: Name=sh, got: %q", tool.Name)
	}
	cmd := tool.Command("-c", "exit 0")
	if cmd.Path == "" {
		t.Errorf("want: non-empty command path, got empty")
	}
}
