package lgp

import (
	"bytes"
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// fixtureFile is one entry of a hand-built archive.
type fixtureFile struct {
	name        string
	payloadName string // defaults to name
	data        []byte
	conflict    uint16
	check       byte
}

// fixtureLocation is one conflict table location.
type fixtureLocation struct {
	folder string
	index  uint16
}

// fixture describes a hand-built LGP archive.
type fixture struct {
	creator    string
	terminator string
	files      []fixtureFile
	groups     [][]fixtureLocation
	crc        []byte
	// reversePayloads stores payload records in reverse TOC order.
	reversePayloads bool
}

// validFixture returns a fixture with expected creator and terminator literals.
func validFixture(files ...fixtureFile) fixture {
	return fixture{
		creator:    ExpectedCreator,
		terminator: ExpectedTerminator,
		files:      files,
	}
}

// fixed returns s NUL-padded to n bytes.
func fixed(s string, n int) []byte {
	b := make([]byte, n)
	copy(b, s)
	return b
}

// conflictTable encodes groups, or nil when no table is needed.
func (f fixture) conflictTable() []byte {
	needed := len(f.groups) > 0
	for _, file := range f.files {
		if file.conflict != 0 {
			needed = true
		}
	}
	if !needed {
		return nil
	}

	var buf bytes.Buffer
	_ = binary.Write(&buf, binary.LittleEndian, uint16(len(f.groups)))
	for _, group := range f.groups {
		_ = binary.Write(&buf, binary.LittleEndian, uint16(len(group)))
		for _, loc := range group {
			buf.Write(fixed(loc.folder, conflictFolderSize))
			_ = binary.Write(&buf, binary.LittleEndian, loc.index)
		}
	}

	return buf.Bytes()
}

// bytes encodes the archive and returns it with per-entry payload record offsets.
func (f fixture) bytes() ([]byte, []uint32) {
	conflicts := f.conflictTable()
	dataStart := headerSize + len(f.files)*tocEntrySize + crcSize + len(conflicts)

	order := make([]int, len(f.files))
	for i := range order {
		order[i] = i
		if f.reversePayloads {
			order[i] = len(f.files) - 1 - i
		}
	}

	offsets := make([]uint32, len(f.files))
	var payload bytes.Buffer
	for _, i := range order {
		file := f.files[i]
		offsets[i] = uint32(dataStart + payload.Len())

		name := file.payloadName
		if name == "" {
			name = file.name
		}
		payload.Write(fixed(name, fileNameSize))
		_ = binary.Write(&payload, binary.LittleEndian, uint32(len(file.data)))
		payload.Write(file.data)
	}

	var buf bytes.Buffer
	buf.Write(fixed(f.creator, creatorSize))
	_ = binary.Write(&buf, binary.LittleEndian, uint32(len(f.files)))
	for i, file := range f.files {
		buf.Write(fixed(file.name, tocNameSize))
		_ = binary.Write(&buf, binary.LittleEndian, offsets[i])
		buf.WriteByte(file.check)
		_ = binary.Write(&buf, binary.LittleEndian, file.conflict)
	}

	crc := make([]byte, crcSize)
	copy(crc, f.crc)
	buf.Write(crc)
	buf.Write(conflicts)
	buf.Write(payload.Bytes())
	buf.WriteString(f.terminator)

	return buf.Bytes(), offsets
}

// open parses the fixture from memory.
func (f fixture) open(t *testing.T) *Archive {
	t.Helper()

	data, _ := f.bytes()
	a, err := NewArchive(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		t.Fatalf("NewArchive: %v", err)
	}

	return a
}

// writeFile stores the fixture in a temp dir and returns its path.
func (f fixture) writeFile(t *testing.T) string {
	t.Helper()

	data, _ := f.bytes()
	path := filepath.Join(t.TempDir(), "fixture.lgp")
	if err := os.WriteFile(path, data, 0o600); err != nil {
		t.Fatal(err)
	}

	return path
}
