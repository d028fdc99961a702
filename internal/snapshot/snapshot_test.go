package snapshot

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func testSnapshot() *Snapshot {
	return &Snapshot{
		Dimensions: 4,
		Entries: []Entry{
			{
				DocumentID: "doc1",
				Terms:      map[string]int{"hello": 2, "world": 1},
				Vector:     []float32{0.1, 0.2, 0.3, 0.4},
			},
			{
				DocumentID: "doc2",
				Terms:      map[string]int{"quiet": 1},
				Vector:     nil,
			},
		},
	}
}

func TestWriteRead(t *testing.T) {
	snap := testSnapshot()

	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		t.Fatalf("Write failed: %v", err)
	}

	got, err := Read(&buf)
	if err != nil {
		t.Fatalf("Read failed: %v", err)
	}
	if got.Dimensions != snap.Dimensions {
		t.Errorf("expected dimensions %d, got %d", snap.Dimensions, got.Dimensions)
	}
	if !reflect.DeepEqual(got.Entries, snap.Entries) {
		t.Errorf("entries did not round trip:\nwant %+v\ngot  %+v", snap.Entries, got.Entries)
	}
}

func TestReadInvalidMagic(t *testing.T) {
	data := []byte("this is definitely not a snapshot file at all")
	if _, err := Read(bytes.NewReader(data)); !errors.Is(err, ErrInvalidMagic) {
		t.Errorf("expected ErrInvalidMagic, got %v", err)
	}
}

func TestReadUnsupportedVersion(t *testing.T) {
	var buf bytes.Buffer
	h := header{Magic: Magic, Version: Version + 1}
	if err := binary.Write(&buf, binary.LittleEndian, &h); err != nil {
		t.Fatal(err)
	}
	if _, err := Read(&buf); !errors.Is(err, ErrUnsupportedVersion) {
		t.Errorf("expected ErrUnsupportedVersion, got %v", err)
	}
}

func TestReadTruncated(t *testing.T) {
	snap := testSnapshot()
	var buf bytes.Buffer
	if err := Write(&buf, snap); err != nil {
		t.Fatal(err)
	}
	truncated := buf.Bytes()[:buf.Len()/2]
	if _, err := Read(bytes.NewReader(truncated)); err == nil {
		t.Error("expected error for truncated snapshot")
	}
}

func TestFileRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "index.snapshot")
	snap := testSnapshot()

	if err := WriteFile(path, snap); err != nil {
		t.Fatalf("WriteFile failed: %v", err)
	}

	got, err := ReadFile(path)
	if err != nil {
		t.Fatalf("ReadFile failed: %v", err)
	}
	if !reflect.DeepEqual(got.Entries, snap.Entries) {
		t.Error("entries did not survive the file round trip")
	}

	// Write again to confirm the rename replaces the previous file.
	snap.Entries = snap.Entries[:1]
	if err := WriteFile(path, snap); err != nil {
		t.Fatalf("second WriteFile failed: %v", err)
	}
	got, err = ReadFile(path)
	if err != nil {
		t.Fatalf("second ReadFile failed: %v", err)
	}
	if len(got.Entries) != 1 {
		t.Errorf("expected 1 entry after overwrite, got %d", len(got.Entries))
	}
}

func TestReadFileMissing(t *testing.T) {
	if _, err := ReadFile(filepath.Join(t.TempDir(), "nope")); !os.IsNotExist(err) {
		t.Errorf("expected not-exist error, got %v", err)
	}
}
