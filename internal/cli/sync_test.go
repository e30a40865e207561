package cli

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"sort"
	"sync"
	"testing"
	"time"

	"github.com/fsnotify/fsnotify"
)

type recordingUploader struct {
	mu    sync.Mutex
	files []string
	fail  map[string]bool
}

func (r *recordingUploader) UploadTemplate(_ context.Context, path string) (bool, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.fail[filepath.Base(path)] {
		return false, errors.New("boom")
	}
	r.files = append(r.files, filepath.Base(path))
	return true, nil
}

func (r *recordingUploader) uploaded() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	return append([]string(nil), r.files...)
}

func TestShouldSyncEvent(t *testing.T) {
	cases := []struct {
		name string
		evt  fsnotify.Event
		want bool
	}{
		{"empty name", fsnotify.Event{Name: "", Op: fsnotify.Write}, false},
		{"unsupported op", fsnotify.Event{Name: "/tmp/a.docx", Op: fsnotify.Chmod}, false},
		{"remove ignored", fsnotify.Event{Name: "/tmp/a.docx", Op: fsnotify.Remove}, false},
		{"dot file ignored", fsnotify.Event{Name: "/tmp/.a.docx", Op: fsnotify.Write}, false},
		{"not a template", fsnotify.Event{Name: "/tmp/a.pdf", Op: fsnotify.Create}, false},
		{"template write", fsnotify.Event{Name: "/tmp/a.docx", Op: fsnotify.Write}, true},
		{"template create upper ext", fsnotify.Event{Name: "/tmp/A.TX", Op: fsnotify.Create}, true},
	}
	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			if got := shouldSyncEvent(tc.evt); got != tc.want {
				t.Fatalf("shouldSyncEvent(%v)=%v want %v", tc.evt, got, tc.want)
			}
		})
	}
}

func TestSyncDir(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{"a.docx", "b.tx", "c.pdf", ".hidden.rtf", "bad.doc"} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o600); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.docx"), 0o750); err != nil {
		t.Fatalf("mkdir: %v", err)
	}

	up := &recordingUploader{fail: map[string]bool{"bad.doc": true}}
	got, err := syncDir(context.Background(), up, dir)
	if err == nil {
		t.Fatalf("expected failure for bad.doc")
	}
	sort.Strings(got)
	if len(got) != 2 || got[0] != "a.docx" || got[1] != "b.tx" {
		t.Fatalf("uploaded=%v", got)
	}
}

func TestSyncDirMissing(t *testing.T) {
	if _, err := syncDir(context.Background(), &recordingUploader{}, filepath.Join(t.TempDir(), "nope")); err == nil {
		t.Fatalf("expected error")
	}
}

func TestWatchTemplatesUploadsOnWrite(t *testing.T) {
	dir := t.TempDir()
	up := &recordingUploader{}
	w, err := watchTemplates(context.Background(), up, dir, 20*time.Millisecond, nil)
	if err != nil {
		t.Fatalf("watch: %v", err)
	}
	defer func() { _ = w.Close() }()

	if err := os.WriteFile(filepath.Join(dir, "notes.txt"), []byte("x"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	if err := os.WriteFile(filepath.Join(dir, "report.docx"), []byte("v1"), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}

	deadline := time.Now().Add(5 * time.Second)
	for time.Now().Before(deadline) {
		if files := up.uploaded(); len(files) > 0 {
			for _, f := range files {
				if f != "report.docx" {
					t.Fatalf("unexpected upload %q", f)
				}
			}
			return
		}
		time.Sleep(10 * time.Millisecond)
	}
	t.Fatalf("report.docx was not uploaded")
}
