package report

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestReport_Assembly(t *testing.T) {
	r := New()
	r.Header("crash-2023-01-01-AUTOSCAN.log", "CLAS v7.30.3")
	r.Banner("CHECKING IF LOG MATCHES ANY KNOWN CRASH SUSPECTS...")
	r.Append("# FOUND NO CRASH ERRORS / SUSPECTS THAT MATCH THE CURRENT DATABASE #\n")

	text := r.String()
	wantOrder := []string{
		"AUTOSCAN REPORT GENERATED BY CLAS v7.30.3",
		"BEWARE OF FALSE POSITIVES",
		"CHECKING IF LOG MATCHES ANY KNOWN CRASH SUSPECTS...",
		"FOUND NO CRASH ERRORS",
	}
	last := -1
	for _, want := range wantOrder {
		idx := strings.Index(text, want)
		if idx < 0 {
			t.Fatalf("report missing %q", want)
		}
		if idx < last {
			t.Errorf("%q out of order", want)
		}
		last = idx
	}
}

func TestRedact(t *testing.T) {
	lines := []string{
		"Module: C:\\Users\\alice\\Documents\\My Games\\f4se.dll\n",
		"Path: C:\\Users/alice/AppData/log.txt\n",
		"No personal data here\n",
		"alice mentioned but no path\n",
	}

	got := Redact(lines, "C:\\Users\\alice")
	want := []string{
		"Module: ******\\Documents\\My Games\\f4se.dll\n",
		"Path: ******/AppData/log.txt\n",
		"No personal data here\n",
		"alice mentioned but no path\n",
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}
}

func TestRedact_NoSeparator(t *testing.T) {
	lines := []string{"something with alice in it\n"}
	got := Redact(lines, "alice")
	if diff := cmp.Diff(lines, got); diff != "" {
		t.Errorf("Redact() mismatch (-want +got):\n%s", diff)
	}
}

func TestAutoscanPath(t *testing.T) {
	got := AutoscanPath(filepath.Join("logs", "crash-2023-01-01.log"))
	want := filepath.Join("logs", "crash-2023-01-01-AUTOSCAN.md")
	if got != want {
		t.Errorf("AutoscanPath() = %q, want %q", got, want)
	}
}

func TestReport_Write(t *testing.T) {
	dir := t.TempDir()
	logPath := filepath.Join(dir, "crash-2023-01-01.log")

	r := New()
	r.Append(`Log: C:\Users\bob\crash.log` + "\n", "clean line\n")

	path, err := r.Write(logPath, `C:\Users\bob`)
	if err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if path != filepath.Join(dir, "crash-2023-01-01-AUTOSCAN.md") {
		t.Errorf("Write() path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading report: %v", err)
	}
	content := string(data)
	if strings.Contains(content, "bob") {
		t.Errorf("report leaks the user name: %q", content)
	}
	if !strings.Contains(content, `Log: ******\crash.log`) {
		t.Errorf("report = %q", content)
	}
}
