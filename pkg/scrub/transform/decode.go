package transform

import (
	"unicode/utf8"

	"golang.org/x/text/encoding/charmap"
)

// decode converts raw file bytes to a string. Valid UTF-8 is taken
// as-is; anything else is read as Latin-1, whose decoder accepts every
// byte, so decoding itself cannot fail once the read succeeded.
func decode(data []byte) string {
	if utf8.Valid(data) {
		return string(data)
	}

	out, err := charmap.ISO8859_1.NewDecoder().Bytes(data)
	if err != nil {
		// Unreachable in practice; keep the bytes rather than dropping them.
		return string(data)
	}
	return string(out)
}
