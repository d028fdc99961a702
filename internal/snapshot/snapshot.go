// Package snapshot persists and restores in-memory index state.
//
// A snapshot file starts with an uncompressed fixed header (magic number,
// format version, embedding dimensions, entry count) followed by a
// zstd-compressed gob stream of per-document entries.
package snapshot

import (
	"encoding/binary"
	"encoding/gob"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/klauspost/compress/zstd"
)

const (
	// Magic identifies snapshot files (ASCII "TNSK").
	Magic uint32 = 0x544E534B
	// Version is the current snapshot format version.
	Version uint32 = 1
)

var (
	// ErrInvalidMagic is returned when a file does not start with the snapshot magic number.
	ErrInvalidMagic = errors.New("not a snapshot file")
	// ErrUnsupportedVersion is returned when a snapshot was written by an
	// incompatible format version.
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

// Entry holds the indexed state of a single document.
type Entry struct {
	DocumentID string
	// Terms maps normalized token to its term frequency in the document.
	Terms map[string]int
	// Vector is the document embedding, nil when the document has no vector.
	Vector []float32
}

// Snapshot is the full in-memory index state at a point in time.
type Snapshot struct {
	Dimensions int
	Entries    []Entry
}

type header struct {
	Magic      uint32
	Version    uint32
	Dimensions uint32
	EntryCount uint64
}

// Write serializes the snapshot to w.
func Write(w io.Writer, snap *Snapshot) error {
	h := header{
		Magic:      Magic,
		Version:    Version,
		Dimensions: uint32(snap.Dimensions),
		EntryCount: uint64(len(snap.Entries)),
	}
	if err := binary.Write(w, binary.LittleEndian, &h); err != nil {
		return fmt.Errorf("failed to write snapshot header: %w", err)
	}

	zw, err := zstd.NewWriter(w)
	if err != nil {
		return fmt.Errorf("failed to create compressor: %w", err)
	}
	enc := gob.NewEncoder(zw)
	for i := range snap.Entries {
		if err := enc.Encode(&snap.Entries[i]); err != nil {
			_ = zw.Close()
			return fmt.Errorf("failed to encode entry: %w", err)
		}
	}
	if err := zw.Close(); err != nil {
		return fmt.Errorf("failed to finish compression: %w", err)
	}
	return nil
}

// Read deserializes a snapshot from r. It fails with ErrInvalidMagic for
// files that are not snapshots and ErrUnsupportedVersion for snapshots
// written by a different format version.
func Read(r io.Reader) (*Snapshot, error) {
	var h header
	if err := binary.Read(r, binary.LittleEndian, &h); err != nil {
		return nil, fmt.Errorf("failed to read snapshot header: %w", err)
	}
	if h.Magic != Magic {
		return nil, fmt.Errorf("%w: magic 0x%08X", ErrInvalidMagic, h.Magic)
	}
	if h.Version != Version {
		return nil, fmt.Errorf("%w: version %d, expected %d", ErrUnsupportedVersion, h.Version, Version)
	}

	zr, err := zstd.NewReader(r)
	if err != nil {
		return nil, fmt.Errorf("failed to create decompressor: %w", err)
	}
	defer zr.Close()

	snap := &Snapshot{
		Dimensions: int(h.Dimensions),
		Entries:    make([]Entry, 0, h.EntryCount),
	}
	dec := gob.NewDecoder(zr)
	for i := uint64(0); i < h.EntryCount; i++ {
		var e Entry
		if err := dec.Decode(&e); err != nil {
			return nil, fmt.Errorf("failed to decode entry %d: %w", i, err)
		}
		snap.Entries = append(snap.Entries, e)
	}
	return snap, nil
}

// WriteFile writes the snapshot to path atomically via a temp file rename.
// Parent directories are created if they do not exist.
func WriteFile(path string, snap *Snapshot) error {
	dir := filepath.Dir(path)
	if dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return fmt.Errorf("failed to create snapshot directory: %w", err)
		}
	}

	tmp, err := os.CreateTemp(dir, ".snapshot-*")
	if err != nil {
		return fmt.Errorf("failed to create temp snapshot: %w", err)
	}
	defer os.Remove(tmp.Name())

	if err := Write(tmp, snap); err != nil {
		_ = tmp.Close()
		return err
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("failed to close temp snapshot: %w", err)
	}
	if err := os.Rename(tmp.Name(), path); err != nil {
		return fmt.Errorf("failed to replace snapshot: %w", err)
	}
	return nil
}

// ReadFile reads a snapshot from path.
func ReadFile(path string) (*Snapshot, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return Read(f)
}
