package collection

import (
	"strconv"
	"strings"
)

// IDField is the record field holding the record id.
const IDField = "__id__"

var globEscaper = strings.NewReplacer(
	`\`, `\\`,
	`*`, `\*`,
	`?`, `\?`,
	`[`, `\[`,
	`]`, `\]`,
)

// Namespace returns the key prefix of the collection called name. The bare
// namespace is also the key of the collection id counter.
func Namespace(name string) string {
	return "__" + name + "__"
}

// Key addresses the hash holding the record id of namespace.
func Key(namespace string, id int64) string {
	return namespace + ":" + strconv.FormatInt(id, 10)
}

// Pattern matches every record key of namespace and nothing else. Glob
// metacharacters in namespace match literally.
func Pattern(namespace string) string {
	return globEscaper.Replace(namespace) + ":*"
}
