package pastebin

import (
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"testing"
)

func TestClient_Fetch(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("Buffout 4 v1.28.6\nUnhandled exception\n"))
	}))
	defer server.Close()

	client := NewClient(0)
	content, id, err := client.Fetch(context.Background(), server.URL+"/AbCdEf12")
	if err != nil {
		t.Fatalf("Fetch() error = %v", err)
	}
	if id != "AbCdEf12" {
		t.Errorf("id = %q, want AbCdEf12", id)
	}
	if string(content) != "Buffout 4 v1.28.6\nUnhandled exception\n" {
		t.Errorf("content = %q", content)
	}
}

func TestClient_Fetch_ErrorStatus(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer server.Close()

	client := NewClient(0)
	if _, _, err := client.Fetch(context.Background(), server.URL+"/missing"); err == nil {
		t.Fatal("Fetch() error = nil for a 404 response")
	}
}

func TestClient_Fetch_BadURL(t *testing.T) {
	client := NewClient(0)
	if _, _, err := client.Fetch(context.Background(), "http://[::1]:namedport/x"); err == nil {
		t.Fatal("Fetch() error = nil for an invalid url")
	}
}

func TestSave(t *testing.T) {
	dir := filepath.Join(t.TempDir(), "Pastebin")

	path, err := Save(dir, "AbCdEf12", []byte("log content\n"))
	if err != nil {
		t.Fatalf("Save() error = %v", err)
	}
	if filepath.Base(path) != "crash-AbCdEf12.log" {
		t.Errorf("Save() path = %q", path)
	}

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("reading saved paste: %v", err)
	}
	if string(data) != "log content\n" {
		t.Errorf("saved content = %q", data)
	}
}
