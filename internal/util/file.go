package util

import (
	"fmt"
	"io"
	"net/http"
	"strings"
)

// ValidateMimeType sniffs the first 512 bytes of reader. allowedTypes may hold
// prefixes ("image/") or full types.
func ValidateMimeType(reader io.Reader, allowedTypes []string) (string, error) {
	buffer := make([]byte, 512)
	n, err := io.ReadFull(reader, buffer)
	if err != nil && err != io.EOF && err != io.ErrUnexpectedEOF {
		return "", err
	}

	mimeType := http.DetectContentType(buffer[:n])
	base := strings.TrimSpace(strings.Split(mimeType, ";")[0])

	for _, allowed := range allowedTypes {
		if strings.HasPrefix(base, allowed) {
			return base, nil
		}
	}

	return base, fmt.Errorf("%w: file type %s is not allowed", ErrValidation, base)
}
