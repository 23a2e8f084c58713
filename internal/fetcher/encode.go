package fetcher

import (
	"encoding/base64"
	"os"

	"github.com/rotisserie/eris"
)

// EncodeBase64 reads the file at path and returns its standard base64 encoding.
func EncodeBase64(path string) (string, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return "", eris.Wrapf(err, "fetcher: read %s", path)
	}
	return base64.StdEncoding.EncodeToString(data), nil
}
