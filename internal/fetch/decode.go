package fetch

import (
	"mime"
	"strings"
	"unicode/utf8"

	"github.com/saintfish/chardet"
	"golang.org/x/net/html/charset"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
)

// DecodeText converts a response body to a string without ever
// rejecting it. The order of attempts:
//
//  1. Valid UTF-8 is used as-is.
//  2. The charset parameter of the Content-Type header, if any.
//  3. Statistical charset detection over the raw bytes.
//  4. ISO-8859-1, which maps each byte to one character and cannot fail.
//
// Invalid sequences encountered by a decoder are replaced with the
// Unicode replacement character rather than reported as errors.
func DecodeText(body []byte, contentType string) string {
	if len(body) == 0 {
		return ""
	}

	if utf8.Valid(body) {
		return string(body)
	}

	if label := charsetParam(contentType); label != "" {
		if enc, _ := charset.Lookup(label); enc != nil {
			if text, err := decodeWith(enc, body); err == nil {
				return text
			}
		}
	}

	if best, err := chardet.NewTextDetector().DetectBest(body); err == nil {
		if enc, _ := charset.Lookup(strings.ToLower(best.Charset)); enc != nil {
			if text, err := decodeWith(enc, body); err == nil {
				return text
			}
		}
	}

	text, _ := decodeWith(charmap.ISO8859_1, body)
	return text
}

// charsetParam extracts the charset parameter from a Content-Type
// header value, or returns "" if none is declared.
func charsetParam(contentType string) string {
	if contentType == "" {
		return ""
	}
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		return params["charset"]
	}
	return ""
}

// decodeWith decodes body using the given encoding.
func decodeWith(enc encoding.Encoding, body []byte) (string, error) {
	out, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		return "", err
	}
	return string(out), nil
}
