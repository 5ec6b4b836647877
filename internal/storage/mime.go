package storage

import (
	"mime"
	"path"
	"strings"
)

const defaultContentType = "application/octet-stream"

func init() {
	// Some platforms ship mime tables without these.
	_ = mime.AddExtensionType(".js", "application/javascript")
	_ = mime.AddExtensionType(".css", "text/css")
}

// ContentType returns stored unless it is empty or generic, in which case the
// type is guessed from the key's extension.
func ContentType(key, stored string) string {
	if stored != "" && stored != defaultContentType {
		return stored
	}

	if guessed := mime.TypeByExtension(strings.ToLower(path.Ext(key))); guessed != "" {
		return guessed
	}

	return defaultContentType
}
