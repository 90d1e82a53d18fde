package zip

import (
	"archive/zip"
	"bytes"
	"io"
	"testing"
)

func TestArchiveRoundTrip(t *testing.T) {
	data := Archive([]File{
		{Name: "flyers/abc/flyer-01.png", Data: []byte("first")},
		{Name: "flyer-02.png", Data: []byte("second")},
	})

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	if len(reader.File) != 2 {
		t.Fatalf("archive has %d entries, want 2", len(reader.File))
	}
	if reader.File[0].Name != "flyer-01.png" {
		t.Fatalf("entry name = %q, want flattened base name", reader.File[0].Name)
	}

	rc, err := reader.File[0].Open()
	if err != nil {
		t.Fatalf("open entry: %v", err)
	}
	defer rc.Close()
	content, err := io.ReadAll(rc)
	if err != nil {
		t.Fatalf("read entry: %v", err)
	}
	if string(content) != "first" {
		t.Fatalf("entry content = %q, want first", content)
	}
}

func TestArchiveSkipsEmptyEntries(t *testing.T) {
	data := Archive([]File{
		{Name: "", Data: []byte("ignored")},
		{Name: "empty.png", Data: nil},
		{Name: "kept.png", Data: []byte("kept")},
	})

	reader, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("output is not a zip archive: %v", err)
	}
	if len(reader.File) != 1 || reader.File[0].Name != "kept.png" {
		t.Fatalf("unexpected entries: %+v", reader.File)
	}
}
