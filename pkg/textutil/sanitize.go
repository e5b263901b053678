// Package textutil prepares raw document bytes for pattern scanning.
package textutil

import (
	"strings"

	"golang.org/x/text/runes"
	"golang.org/x/text/transform"
	"golang.org/x/text/unicode/norm"
)

var sanitizer = transform.Chain(runes.ReplaceIllFormed(), norm.NFC)

// Sanitize decodes raw bytes into scan-safe text: ill-formed UTF-8 sequences
// are replaced with U+FFFD and the result is NFC-normalized. Decoding never
// fails; undecodable input degrades instead of aborting a scan.
func Sanitize(raw []byte) string {
	out, _, err := transform.Bytes(sanitizer, raw)
	if err != nil {
		return strings.ToValidUTF8(string(raw), "�")
	}
	return string(out)
}
