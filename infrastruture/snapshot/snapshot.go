// Package snapshot persists the mutable world state to a zstd compressed file.
//
// The file starts with a JSON header line followed by the gob encoded snapshot.
// Writes go to a temporary file that is renamed over the target once synced.
package snapshot

import (
	"bufio"
	"encoding/gob"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"time"

	"github.com/beka-birhanu/vinom-roads/game/geom"
	"github.com/klauspost/compress/zstd"
)

// Version is the snapshot format this package reads and writes.
const Version = 1

var (
	ErrCorruptSnapshot    = errors.New("corrupt snapshot")
	ErrUnsupportedVersion = errors.New("unsupported snapshot version")
)

type Header struct {
	Version int       `json:"version"`
	SavedAt time.Time `json:"saved_at"`
	Players int       `json:"players"`
}

type BagItemV1 struct {
	ID   uint64
	Type int
}

type PlayerV1 struct {
	ID       uint64
	MapID    string
	Name     string
	Token    string
	Pos      geom.Vec2
	Speed    geom.Vec2
	Dir      string
	Bag      []BagItemV1
	Base     geom.Vec2
	Score    uint64
	JoinedAt *time.Duration
}

type LootV1 struct {
	ID   uint64
	Type int
	Pos  geom.Vec2
}

type CountersV1 struct {
	NextPlayer uint64
	NextLoot   uint64
	Clock      time.Duration
}

// SnapshotV1 is the complete mutable state of a world. Map geometry is not part of it.
type SnapshotV1 struct {
	Header Header

	TokenToPlayer map[string]uint64
	TokenToMap    map[string]string
	PlayerNames   map[uint64]string
	Players       map[string][]PlayerV1
	Loot          map[string][]LootV1

	Counters CountersV1
}

// FileStore reads and writes snapshots at a fixed path.
type FileStore struct {
	Path string
}

// NewFileStore creates a store writing to path.
func NewFileStore(path string) *FileStore {
	return &FileStore{Path: path}
}

// Save atomically replaces the snapshot file with snap.
func (s *FileStore) Save(snap SnapshotV1) error {
	if err := os.MkdirAll(filepath.Dir(s.Path), 0o755); err != nil {
		return err
	}

	tmp := s.Path + ".tmp"
	if err := writeFile(tmp, snap); err != nil {
		_ = os.Remove(tmp)
		return err
	}

	if err := os.Rename(tmp, s.Path); err != nil {
		_ = os.Remove(tmp)
		return fmt.Errorf("rename snapshot: %w", err)
	}
	return nil
}

func writeFile(path string, snap SnapshotV1) error {
	snap.Header.Version = Version
	hb, err := json.Marshal(snap.Header)
	if err != nil {
		return fmt.Errorf("encode header: %w", err)
	}

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	defer f.Close()

	enc, err := zstd.NewWriter(f, zstd.WithEncoderLevel(zstd.SpeedDefault))
	if err != nil {
		return err
	}

	bw := bufio.NewWriterSize(enc, 64*1024)

	if _, err := bw.Write(hb); err != nil {
		enc.Close()
		return err
	}
	if err := bw.WriteByte('\n'); err != nil {
		enc.Close()
		return err
	}

	if err := gob.NewEncoder(bw).Encode(&snap); err != nil {
		enc.Close()
		return fmt.Errorf("gob encode: %w", err)
	}
	if err := bw.Flush(); err != nil {
		enc.Close()
		return err
	}
	if err := enc.Close(); err != nil {
		return err
	}

	return f.Sync()
}

// Load reads the snapshot file. The boolean is false when no file exists yet.
func (s *FileStore) Load() (SnapshotV1, bool, error) {
	var snap SnapshotV1

	f, err := os.Open(s.Path)
	if errors.Is(err, fs.ErrNotExist) {
		return snap, false, nil
	}
	if err != nil {
		return snap, false, err
	}
	defer f.Close()

	dec, err := zstd.NewReader(f)
	if err != nil {
		return snap, false, fmt.Errorf("%w: %v", ErrCorruptSnapshot, err)
	}
	defer dec.Close()

	br := bufio.NewReaderSize(dec, 64*1024)

	line, err := br.ReadBytes('\n')
	if err != nil {
		return snap, false, fmt.Errorf("%w: header: %v", ErrCorruptSnapshot, err)
	}

	var h Header
	if err := json.Unmarshal(line, &h); err != nil {
		return snap, false, fmt.Errorf("%w: header: %v", ErrCorruptSnapshot, err)
	}
	if h.Version != Version {
		return snap, false, fmt.Errorf("%w: %d", ErrUnsupportedVersion, h.Version)
	}

	if err := gob.NewDecoder(br).Decode(&snap); err != nil {
		return snap, false, fmt.Errorf("%w: gob decode: %v", ErrCorruptSnapshot, err)
	}
	return snap, true, nil
}
