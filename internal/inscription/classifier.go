// Copyright (C) 2024 Creditor Corp. Group.
// See LICENSE for copying information.

package inscription

import (
	"strings"
	"unicode/utf8"
)

// textPlainUTF8 is the single content type that maps to the Text variant.
const textPlainUTF8 = "text/plain;charset=utf-8"

// imagePrefix is the content-type prefix that maps to the Image variant.
const imagePrefix = "image/"

// Classify maps a raw (content_type_bytes, content_bytes) pair to a tagged
// Content variant. It is a pure function of its inputs: the same pair
// always classifies the same way.
func Classify(contentType, content []byte) (Content, bool) {
	if !utf8.Valid(contentType) {
		return nil, false
	}

	ct := string(contentType)

	switch {
	case ct == textPlainUTF8:
		if !utf8.Valid(content) {
			return nil, false
		}
		return Text{Value: string(content)}, true
	case strings.HasPrefix(ct, imagePrefix):
		return Image{MimeType: ct, Data: content}, true
	default:
		return Unknown{Data: content}, true
	}
}
