package fcpxml

import (
	"crypto/md5"
	"encoding/hex"
	"fmt"
	"path/filepath"
	"strings"
)

// UID derives a deterministic FCP unique identifier from a file's base name.
// Basing it on the name rather than the full path keeps the UID stable
// across working directories, which FCP requires for re-imports.
func UID(path string) string {
	name := filepath.Base(path)
	sum := md5.Sum([]byte("montage_asset_" + name))
	hexStr := strings.ToUpper(hex.EncodeToString(sum[:]))
	return fmt.Sprintf("%s-%s-%s-%s-%s",
		hexStr[0:8], hexStr[8:12], hexStr[12:16], hexStr[16:20], hexStr[20:32])
}

// TextStyleID derives a document-unique text-style-def ID from the styled
// text and its context. Hardcoded IDs collide as soon as a document has two
// titles, failing DTD validation.
func TextStyleID(text, context string) string {
	return "ts" + UID("text_"+context+"_"+text)[0:8]
}

// ResourceID formats the nth resource ID.
func ResourceID(index int) string {
	return fmt.Sprintf("r%d", index)
}
