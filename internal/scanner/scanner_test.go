package scanner

import (
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestScanFiltersAndOrders(t *testing.T) {
	dir := t.TempDir()
	for _, name := range []string{
		"b.jpg", "a.png", "c.webp", "d.jpeg",
		"notes.txt", "archive.zip", "UPPER.JPG",
	} {
		if err := os.WriteFile(filepath.Join(dir, name), []byte("x"), 0o644); err != nil {
			t.Fatal(err)
		}
	}
	if err := os.Mkdir(filepath.Join(dir, "sub.jpg"), 0o755); err != nil {
		t.Fatal(err)
	}

	got, err := Scan(dir)
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	want := []string{"UPPER.JPG", "a.png", "b.jpg", "c.webp", "d.jpeg"}
	if !reflect.DeepEqual(got, want) {
		t.Errorf("Scan = %v, want %v", got, want)
	}
}

func TestScanMissingDir(t *testing.T) {
	_, err := Scan(filepath.Join(t.TempDir(), "does-not-exist"))
	if !errors.Is(err, ErrSourceUnavailable) {
		t.Fatalf("err = %v, want ErrSourceUnavailable", err)
	}
}

func TestScanEmptyDir(t *testing.T) {
	got, err := Scan(t.TempDir())
	if err != nil {
		t.Fatalf("Scan: %v", err)
	}
	if len(got) != 0 {
		t.Errorf("Scan = %v, want empty", got)
	}
}
