package storage

import (
	"context"
	"os"
	"strings"
	"testing"
)

func TestLocalDiskUploaderRoundTrip(t *testing.T) {
	uploader, err := NewLocalDiskUploader(t.TempDir())
	if err != nil {
		t.Fatalf("creating uploader: %v", err)
	}
	ctx := context.Background()

	result, err := uploader.Upload(ctx, "tournament_1/standings.csv", "text/csv", strings.NewReader("team,points\n"))
	if err != nil {
		t.Fatalf("Upload: %v", err)
	}

	data, err := os.ReadFile(result.Location)
	if err != nil {
		t.Fatalf("reading uploaded file: %v", err)
	}
	if string(data) != "team,points\n" {
		t.Errorf("got %q, want %q", data, "team,points\n")
	}

	if url := uploader.GetPublicURL("tournament_1/standings.csv"); url != "file://"+result.Location {
		t.Errorf("GetPublicURL: got %q, want %q", url, "file://"+result.Location)
	}

	if err := uploader.Delete(ctx, "tournament_1/standings.csv"); err != nil {
		t.Fatalf("Delete: %v", err)
	}
	if _, err := os.Stat(result.Location); !os.IsNotExist(err) {
		t.Errorf("file still exists after delete")
	}
}

func TestLocalDiskUploaderRejectsTraversal(t *testing.T) {
	uploader, err := NewLocalDiskUploader(t.TempDir())
	if err != nil {
		t.Fatalf("creating uploader: %v", err)
	}

	if _, err := uploader.Upload(context.Background(), "..", "text/csv", strings.NewReader("x")); err == nil {
		t.Error("Upload: expected error for traversal key")
	}
	// Неотображаемый ключ — пустая строка, по контракту интерфейса.
	if url := uploader.GetPublicURL(".."); url != "" {
		t.Errorf("GetPublicURL: got %q, want empty string", url)
	}
}
