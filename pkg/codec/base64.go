package codec

import (
	"encoding/base64"
	"strings"

	"github.com/ajitpratap0/typedbuf/pkg/errors"
	"github.com/ajitpratap0/typedbuf/pkg/metrics"
)

// EncodeBase64 encodes buf with the standard padded alphabet and no line
// wrapping. An empty buffer encodes to "".
func EncodeBase64(buf []byte) string {
	metrics.ObserveConversion(metrics.OpEncodeBase64, "bytes", len(buf))
	return base64.StdEncoding.EncodeToString(buf)
}

// DecodeBase64 is the inverse of EncodeBase64. It only accepts canonical
// encodings: the length must be a multiple of 4, padding bits must be zero
// and line breaks are rejected.
func DecodeBase64(text string) ([]byte, error) {
	out, err := decodeBase64(text)
	if err != nil {
		metrics.ObserveError(metrics.OpDecodeBase64, err)
		return nil, err
	}
	metrics.ObserveConversion(metrics.OpDecodeBase64, "bytes", len(out))
	return out, nil
}

func decodeBase64(text string) ([]byte, error) {
	if len(text)%4 != 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidBase64,
			"base64 length %d is not a multiple of 4", len(text)).
			WithDetail("length", len(text))
	}
	// encoding/base64 skips \r and \n
	if i := strings.IndexAny(text, "\r\n"); i >= 0 {
		return nil, errors.Newf(errors.ErrorTypeInvalidBase64,
			"illegal line break in base64 at offset %d", i).
			WithDetail("offset", i)
	}
	out, err := base64.StdEncoding.Strict().DecodeString(text)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeInvalidBase64, "malformed base64")
	}
	return out, nil
}
