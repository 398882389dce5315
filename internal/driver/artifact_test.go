package driver

import (
	"bufio"
	"bytes"
	"strings"
	"testing"
)

func TestQuoteCStringEscapesSpecials(t *testing.T) {
	got := quoteCString(`a"b\c`)
	want := `"a\"b\\c"`
	if got != want {
		t.Errorf("want: %s, got: %s", want, got)
	}
}

func TestQuoteCStringEscapesTrigraphStart(t *testing.T) {
	got := quoteCString("a??=b")
	want := `"a\??=b"`
	if got != want {
		t.Errorf("want: %s, got: %s", want, got)
	}
}

func TestWriteOctalLiteralSplicesEvery32Bytes(t *testing.T) {
	data := make([]byte, 40)
	for i := range data {
		data[i] = byte(i)
	}
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := writeOctalLiteral(w, data); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if err := w.Flush(); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	if !strings.HasPrefix(out, `"\000\001`) {
		t.Errorf("want: literal starting with escaped first bytes, got: %q", out[:20])
	}
	if strings.Count(out, "\\\n") != 1 {
		t.Errorf("want: exactly one line splice for 40 bytes, got: %d in %q", strings.Count(out, "\\\n"), out)
	}
	if !strings.HasSuffix(out, "\"\n") {
		t.Errorf("want: literal closed and newline-terminated, got suffix: %q", out[len(out)-5:])
	}
}

func TestWriteOctalLiteralEmpty(t *testing.T) {
	var buf bytes.Buffer
	w := bufio.NewWriter(&buf)
	if err := writeOctalLiteral(w, nil); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	_ = w.Flush()
	if buf.String() != "\"\"\n" {
		t.Errorf("want: empty string literal, got: %q", buf.String())
	}
}

func TestWriteExportDescriptorsNamesMatchExports(t *testing.T) {
	var buf bytes.Buffer
	if err := writeExportDescriptors(&buf, 0, []string{"add", "mul"}); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, name := range []string{"add", "mul"} {
		if !strings.Contains(out, "const struct doarr_guest_fn "+name) {
			t.Errorf("want: descriptor for %q, got: %s", name, out)
		}
	}
}

func TestWriteFileDescriptorFieldsPresent(t *testing.T) {
	var buf bytes.Buffer
	if err := writeFileDescriptor(&buf, 2, 3, 7, "gchvar", "123"); err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	out := buf.String()
	for _, want := range []string{"doarr__file_2", "gchvar", "123", "doarr__cxx_args_2", "3", "7"} {
		if !strings.Contains(out, want) {
			t.Errorf("want descriptor to contain %q, got: %s", want, out)
		}
	}
}
