package lgp

import (
	"bytes"
	"encoding/binary"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"
)

func TestNewArchive_Empty(t *testing.T) {
	t.Parallel()

	a := validFixture().open(t)

	if a.FileCount() != 0 || len(a.Entries()) != 0 {
		t.Fatalf("FileCount=%d entries=%d, want 0", a.FileCount(), len(a.Entries()))
	}
	if !a.IsValid() {
		t.Fatalf("IsValid=false, terminator=%q", a.Terminator())
	}

	for f, err := range a.Files() {
		t.Fatalf("unexpected file %+v err %v", f, err)
	}
}

func TestNewArchive_NoConflicts(t *testing.T) {
	t.Parallel()

	a := validFixture(
		fixtureFile{name: "aaaa.hrc", data: []byte("skeleton")},
		fixtureFile{name: "aaab.rsd", data: []byte("resource")},
	).open(t)

	entries := a.Entries()
	if len(entries) != 2 {
		t.Fatalf("len(entries)=%d, want 2", len(entries))
	}

	for i, want := range []string{"aaaa.hrc", "aaab.rsd"} {
		if entries[i].Index != i {
			t.Errorf("entries[%d].Index=%d", i, entries[i].Index)
		}
		if entries[i].HasExtendedPath() || entries[i].Folder != "" {
			t.Errorf("entries[%d] unexpectedly resolved to folder %q", i, entries[i].Folder)
		}
		if entries[i].Path() != want {
			t.Errorf("entries[%d].Path()=%q, want %q", i, entries[i].Path(), want)
		}
	}
}

func TestNewArchive_ConflictResolution(t *testing.T) {
	t.Parallel()

	f := validFixture(
		fixtureFile{name: "model.p", data: []byte("first"), conflict: 1},
		fixtureFile{name: "root.tex", data: []byte("root")},
		fixtureFile{name: "model.p", data: []byte("second"), conflict: 1},
	)
	f.groups = [][]fixtureLocation{{
		{folder: "battle", index: 0},
		{folder: "field/char", index: 2},
	}}
	a := f.open(t)

	entries := a.Entries()
	if entries[0].Path() != "battle/model.p" {
		t.Errorf("entries[0].Path()=%q", entries[0].Path())
	}
	if entries[1].Path() != "root.tex" {
		t.Errorf("entries[1].Path()=%q", entries[1].Path())
	}
	if entries[2].Path() != "field/char/model.p" {
		t.Errorf("entries[2].Path()=%q", entries[2].Path())
	}

	got, err := a.ReadEntry("FIELD/CHAR/MODEL.P")
	if err != nil {
		t.Fatalf("ReadEntry: %v", err)
	}
	if string(got) != "second" {
		t.Fatalf("ReadEntry=%q, want second", got)
	}
	if !a.IsValid() {
		t.Fatalf("IsValid=false, terminator=%q", a.Terminator())
	}
}

func TestNewArchive_ConflictLaterLocationWins(t *testing.T) {
	t.Parallel()

	f := validFixture(fixtureFile{name: "a.p", data: []byte("x"), conflict: 1})
	f.groups = [][]fixtureLocation{
		{{folder: "old", index: 0}},
		{{folder: "new", index: 0}},
	}

	if got := f.open(t).Entries()[0].Path(); got != "new/a.p" {
		t.Fatalf("Path()=%q, want new/a.p", got)
	}
}

func TestNewArchive_ConflictIndexOutOfRange(t *testing.T) {
	t.Parallel()

	f := validFixture(fixtureFile{name: "a.p", data: []byte("x"), conflict: 1})
	f.groups = [][]fixtureLocation{{{folder: "battle", index: 1}}}
	data, _ := f.bytes()

	_, err := NewArchive(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrStructure) || !errors.Is(err, ErrConflictIndex) {
		t.Fatalf("expected ErrStructure and ErrConflictIndex, got %v", err)
	}
}

func TestNewArchive_TruncatedTableOfContents(t *testing.T) {
	t.Parallel()

	data, _ := validFixture(
		fixtureFile{name: "a", data: []byte("1")},
		fixtureFile{name: "b", data: []byte("2")},
	).bytes()
	truncated := data[:headerSize+2*tocEntrySize-1]

	_, err := NewArchive(bytes.NewReader(truncated), int64(len(truncated)))
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestNewArchive_TruncatedCRC(t *testing.T) {
	t.Parallel()

	data, _ := validFixture(fixtureFile{name: "a", data: []byte("1")}).bytes()
	truncated := data[:headerSize+tocEntrySize+crcSize-1]

	_, err := NewArchive(bytes.NewReader(truncated), int64(len(truncated)))
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestNewArchive_ShortHeader(t *testing.T) {
	t.Parallel()

	data := []byte(ExpectedCreator + "\x01")
	_, err := NewArchive(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestNewArchive_FileCountExceedsSource(t *testing.T) {
	t.Parallel()

	data := make([]byte, headerSize+crcSize)
	copy(data, ExpectedCreator)
	binary.LittleEndian.PutUint32(data[creatorSize:], 0xFFFFFFFF)

	_, err := NewArchive(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestNewArchive_LastFilePastEnd(t *testing.T) {
	t.Parallel()

	data, offsets := validFixture(fixtureFile{name: "a", data: []byte("payload")}).bytes()
	binary.LittleEndian.PutUint32(data[offsets[0]+fileNameSize:], 1<<20)

	_, err := NewArchive(bytes.NewReader(data), int64(len(data)))
	if !errors.Is(err, ErrStructure) {
		t.Fatalf("expected ErrStructure, got %v", err)
	}
}

func TestNewArchive_NilReader(t *testing.T) {
	t.Parallel()

	if _, err := NewArchive(nil, 0); !errors.Is(err, ErrNilReader) {
		t.Fatalf("expected ErrNilReader, got %v", err)
	}
}

func TestNewArchive_TerminatorAfterPhysicallyLastFile(t *testing.T) {
	t.Parallel()

	f := validFixture(
		fixtureFile{name: "first", data: []byte("11111111")},
		fixtureFile{name: "second", data: []byte("2")},
		fixtureFile{name: "third", data: []byte("333")},
	)
	f.reversePayloads = true
	a := f.open(t)

	if !a.TerminatorValid() {
		t.Fatalf("Terminator=%q, want %q", a.Terminator(), ExpectedTerminator)
	}

	var names []string
	for file, err := range a.Files() {
		if err != nil {
			t.Fatalf("Files: %v", err)
		}
		names = append(names, file.Entry.Name())
	}
	if len(names) != 3 || names[0] != "first" || names[2] != "third" {
		t.Fatalf("Files order=%q, want TOC order", names)
	}
}

func TestNewArchive_LongTerminatorIsAdvisory(t *testing.T) {
	t.Parallel()

	f := validFixture(fixtureFile{name: "kernel.bin", data: []byte("payload")})
	f.terminator = ExpectedTerminator + strings.Repeat("\x00", 70*1024)
	a := f.open(t)

	if got := len(a.Terminator()); got != len(f.terminator) {
		t.Fatalf("Terminator size=%d, want %d", got, len(f.terminator))
	}
	if a.TerminatorValid() || a.IsValid() {
		t.Fatal("expected long terminator to be reported invalid")
	}

	rec, err := a.ReadFile(a.Entries()[0])
	if err != nil {
		t.Fatalf("ReadFile: %v", err)
	}
	if string(rec.Data) != "payload" {
		t.Fatalf("Data=%q", rec.Data)
	}
}

func TestIsValid(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name           string
		creator        string
		terminator     string
		wantCreator    bool
		wantTerminator bool
	}{
		{name: "valid", creator: ExpectedCreator, terminator: ExpectedTerminator, wantCreator: true, wantTerminator: true},
		{name: "corrupt terminator", creator: ExpectedCreator, terminator: "FINAL FANTASY8", wantCreator: true},
		{name: "missing terminator", creator: ExpectedCreator, wantCreator: true},
		{name: "corrupt creator", creator: "\x00\x00SQUARESOFX", terminator: ExpectedTerminator, wantTerminator: true},
	}

	for _, tc := range tests {
		t.Run(tc.name, func(t *testing.T) {
			t.Parallel()

			f := fixture{
				creator:    tc.creator,
				terminator: tc.terminator,
				files:      []fixtureFile{{name: "a", data: []byte("data")}},
			}
			a := f.open(t)

			if a.CreatorValid() != tc.wantCreator {
				t.Errorf("CreatorValid=%t, want %t", a.CreatorValid(), tc.wantCreator)
			}
			if a.TerminatorValid() != tc.wantTerminator {
				t.Errorf("TerminatorValid=%t, want %t", a.TerminatorValid(), tc.wantTerminator)
			}
			if a.IsValid() != (tc.wantCreator && tc.wantTerminator) {
				t.Errorf("IsValid=%t", a.IsValid())
			}

			data, err := a.ReadEntry("a")
			if err != nil || string(data) != "data" {
				t.Fatalf("ReadEntry=%q, %v", data, err)
			}
		})
	}
}

func TestNewArchiveWithOptions_RequireValid(t *testing.T) {
	t.Parallel()

	f := validFixture(fixtureFile{name: "a", data: []byte("x")})
	f.terminator = "FINAL FANTASY8"
	data, _ := f.bytes()

	_, err := NewArchiveWithOptions(bytes.NewReader(data), int64(len(data)), ReaderOptions{RequireValid: true})
	if !errors.Is(err, ErrInvalidArchive) {
		t.Fatalf("expected ErrInvalidArchive, got %v", err)
	}
}

func TestOpen_FileAndClose(t *testing.T) {
	t.Parallel()

	path := validFixture(fixtureFile{name: "a.txt", data: []byte("hello")}).writeFile(t)

	a, err := Open(path)
	if err != nil {
		t.Fatalf("Open: %v", err)
	}

	data, err := a.ReadEntry("a.txt")
	if err != nil || string(data) != "hello" {
		t.Fatalf("ReadEntry=%q, %v", data, err)
	}

	if err := a.Close(); err != nil {
		t.Fatalf("Close: %v", err)
	}
	if err := a.Close(); err != nil {
		t.Fatalf("second Close: %v", err)
	}

	if _, err := a.ReadFile(a.Entries()[0]); !errors.Is(err, ErrClosed) {
		t.Fatalf("expected ErrClosed, got %v", err)
	}
}

func TestOpen_Missing(t *testing.T) {
	t.Parallel()

	_, err := Open(filepath.Join(t.TempDir(), "missing.lgp"))
	if !errors.Is(err, os.ErrNotExist) {
		t.Fatalf("expected ErrNotExist, got %v", err)
	}
}

func TestListEntries(t *testing.T) {
	t.Parallel()

	f := validFixture(
		fixtureFile{name: "a.p", data: []byte("x"), conflict: 1},
		fixtureFile{name: "b.p", data: []byte("y")},
	)
	f.groups = [][]fixtureLocation{{{folder: "field", index: 0}}}

	entries, err := ListEntries(f.writeFile(t))
	if err != nil {
		t.Fatalf("ListEntries: %v", err)
	}
	if len(entries) != 2 || entries[0].Path() != "field/a.p" || entries[1].Path() != "b.p" {
		t.Fatalf("entries=%+v", entries)
	}
}

func TestLookupTable(t *testing.T) {
	t.Parallel()

	crc := make([]byte, crcSize)
	off := (1*lookupTableDim + 2) * lookupBucketSize
	binary.LittleEndian.PutUint16(crc[off:], 5)
	binary.LittleEndian.PutUint16(crc[off+2:], 2)

	f := validFixture(fixtureFile{name: "a", data: []byte("x")})
	f.crc = crc
	a := f.open(t)

	table := a.LookupTable()
	if table[1][2] != (LookupBucket{First: 5, Count: 2}) {
		t.Fatalf("table[1][2]=%+v", table[1][2])
	}
	if table[0][0] != (LookupBucket{}) {
		t.Fatalf("table[0][0]=%+v, want empty", table[0][0])
	}
	if !bytes.Equal(a.CRC(), crc) {
		t.Fatal("CRC block not returned verbatim")
	}
}
