package source

type (
	// FileID uniquely identifies a source file within a FileSet.
	FileID uint32 // просто ID источника
	// FileFlags encodes metadata about a source file.
	FileFlags uint8
)

const (
	// FileVirtual indicates the file was added from memory (test, stdin, etc.).
	FileVirtual FileFlags = 1 << iota
	FileHadBOM
	FileNormalizedCRLF
)

// File captures metadata and content for a single template source.
//
// Text is the immutable string view of Content. Deferred strings and IR
// nodes borrow ranges of Text, so a File must outlive every compile that
// reads it.
type File struct {
	ID      FileID
	Path    string
	Content []byte
	Text    string
	LineIdx []uint32
	Hash    [32]byte
	Flags   FileFlags
}

// LineCol represents a human-readable position in a source file.
type LineCol struct {
	Line uint32 // 1-based
	Col  uint32 // 1-based
}
