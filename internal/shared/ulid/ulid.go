package ulid

import (
	"strings"

	"github.com/oklog/ulid/v2"
)

// NewULID generates a new ULID string. Used for request ids and upload job ids.
var NewULID = func() string {
	return ulid.Make().String()
}

// NewSuffix returns the last n characters of a fresh ULID in lower case, suitable for docker
// resource names. The tail is the random part, so suffixes made in the same millisecond still differ.
func NewSuffix(n int) string {
	id := strings.ToLower(NewULID())
	if n <= 0 || n > len(id) {
		return id
	}
	return id[len(id)-n:]
}
