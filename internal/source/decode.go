package source

import (
	"io"

	"golang.org/x/text/encoding/unicode"
	"golang.org/x/text/transform"
)

// newDecodingReader wraps r so that the CSV reader sees clean UTF-8:
//
//   - A UTF-8 BOM (0xEF 0xBB 0xBF), commonly added by Windows programs, is removed
//   - A UTF-16 BOM switches decoding to UTF-16, as written by Excel's "Unicode Text"
//   - Invalid UTF-8 sequences become U+FFFD
func newDecodingReader(r io.Reader) io.Reader {
	return transform.NewReader(r, unicode.BOMOverride(unicode.UTF8.NewDecoder()))
}
