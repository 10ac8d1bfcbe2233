package auth

import (
	"strconv"
	"unicode/utf16"
)

// Digest returns the legacy password digest: a 32-bit accumulator over the
// UTF-16 code units of plaintext, rendered as a decimal string. The empty
// string digests to "0".
//
// This is NOT a secure hash. It is deterministic, unsalted, and trivially
// reversible by brute force; it exists only for wire/storage compatibility
// with accounts created by the legacy deployment. Do not use it for real
// credential storage.
func Digest(plaintext string) string {
	var h int32
	for _, c := range utf16.Encode([]rune(plaintext)) {
		h = h<<5 - h + int32(c)
	}
	return strconv.FormatInt(int64(h), 10)
}
