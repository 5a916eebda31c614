package content

import (
	"strconv"

	"github.com/google/uuid"
)

var cacheNamespace = uuid.NewSHA1(uuid.NameSpaceURL, []byte("study-quiz-service/generation"))

// CacheKey derives a stable identifier for a generation request so identical
// requests can share a cached result.
func CacheKey(kind, model string, count int, material string) string {
	raw := kind + "\x00" + model + "\x00" + strconv.Itoa(count) + "\x00" + material
	return uuid.NewSHA1(cacheNamespace, []byte(raw)).String()
}
