package testsupport

import (
	"encoding/binary"
	"os"
	"path/filepath"
	"testing"
)

// WriteFile fills the target path with the requested number of bytes using a
// simple repeating pattern. A size <= 0 writes a single byte.
func WriteFile(t testing.TB, path string, size int64) {
	t.Helper()

	if size <= 0 {
		size = 1
	}
	buf := make([]byte, size)
	for i := range buf {
		buf[i] = 0x42
	}
	WriteBytes(t, path, buf)
}

// WriteBytes writes data to path, creating parent directories.
func WriteBytes(t testing.TB, path string, data []byte) {
	t.Helper()

	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir for %s: %v", path, err)
	}
	if err := os.WriteFile(path, data, 0o644); err != nil {
		t.Fatalf("write %s: %v", path, err)
	}
}

// WriteJPEG writes a file whose leading bytes identify it as JPEG.
func WriteJPEG(t testing.TB, path string) {
	t.Helper()
	WriteBytes(t, path, pad(JPEGHeader()))
}

// WritePNG writes a file whose leading bytes identify it as PNG.
func WritePNG(t testing.TB, path string) {
	t.Helper()
	WriteBytes(t, path, pad(PNGHeader()))
}

// WriteHEIC writes a file whose leading bytes identify it as HEIC.
func WriteHEIC(t testing.TB, path string) {
	t.Helper()
	WriteBytes(t, path, pad(HEICHeader()))
}

// WriteTIFF writes a file whose leading bytes identify it as TIFF.
func WriteTIFF(t testing.TB, path string) {
	t.Helper()
	WriteBytes(t, path, pad(TIFFHeader()))
}

// WriteSidecar writes a minimal Takeout metadata document to path.
func WriteSidecar(t testing.TB, path string) {
	t.Helper()
	WriteBytes(t, path, []byte(`{"title":"`+filepath.Base(path)+`","photoTakenTime":{"timestamp":"1577836800"}}`))
}

// JPEGHeader returns the start-of-image marker followed by a JFIF APP0 segment.
func JPEGHeader() []byte {
	return []byte{0xFF, 0xD8, 0xFF, 0xE0, 0x00, 0x10, 'J', 'F', 'I', 'F', 0x00}
}

// PNGHeader returns the PNG signature and the start of an IHDR chunk.
func PNGHeader() []byte {
	return []byte{0x89, 'P', 'N', 'G', 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 'I', 'H', 'D', 'R'}
}

// TIFFHeader returns a little-endian TIFF header pointing at the first IFD,
// the layout shared by TIFF and TIFF-container raw formats such as ARW and DNG.
func TIFFHeader() []byte {
	return []byte{'I', 'I', 0x2A, 0x00, 0x08, 0x00, 0x00, 0x00}
}

// HEICHeader returns an ISO-BMFF ftyp box with the heic major brand.
func HEICHeader() []byte {
	box := make([]byte, 0, 24)
	box = binary.BigEndian.AppendUint32(box, 24)
	box = append(box, "ftyp"...)
	box = append(box, "heic"...)
	box = binary.BigEndian.AppendUint32(box, 0)
	box = append(box, "mif1heic"...)
	return box
}

func pad(header []byte) []byte {
	out := make([]byte, 512)
	copy(out, header)
	return out
}
