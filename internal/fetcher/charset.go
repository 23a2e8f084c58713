package fetcher

import (
	"mime"
	"regexp"
	"strings"

	"go.uber.org/zap"
	"golang.org/x/text/encoding/htmlindex"
)

var metaCharsetRe = regexp.MustCompile(`(?i)<meta[^>]+charset\s*=\s*["']?([a-zA-Z0-9_\-:.]+)`)

// DecodeBody converts body to UTF-8 using the charset declared in the
// Content-Type header, or failing that in a <meta charset> tag. Unknown
// charsets leave the body untouched.
func DecodeBody(contentType string, body []byte) []byte {
	charset := ""
	if _, params, err := mime.ParseMediaType(contentType); err == nil {
		charset = params["charset"]
	}
	if charset == "" {
		head := body
		if len(head) > 2048 {
			head = head[:2048]
		}
		if m := metaCharsetRe.FindSubmatch(head); len(m) > 1 {
			charset = string(m[1])
		}
	}

	charset = strings.ToLower(strings.TrimSpace(charset))
	if charset == "" || charset == "utf-8" || charset == "utf8" {
		return body
	}

	enc, err := htmlindex.Get(charset)
	if err != nil {
		zap.L().Debug("fetcher: unsupported charset", zap.String("charset", charset))
		return body
	}
	decoded, err := enc.NewDecoder().Bytes(body)
	if err != nil {
		zap.L().Debug("fetcher: charset decode failed", zap.String("charset", charset), zap.Error(err))
		return body
	}
	return decoded
}
