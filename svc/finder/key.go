package finder

import "strings"

// DefaultKeyPrefix namespaces cached results in the shared store.
const DefaultKeyPrefix = "package-pal"

// keyEscaper keeps a ':' inside a field from shifting field boundaries.
var keyEscaper = strings.NewReplacer(`\`, `\\`, ":", `\:`)

// CacheKey builds prefix:sourcePackage:sourceLang:targetLang from a
// normalized request. Only surrounding whitespace is normalized, so
// "Lodash" and "lodash" are cached separately.
func CacheKey(prefix string, r LookupRequest) string {
	if prefix == "" {
		prefix = DefaultKeyPrefix
	}
	return strings.Join([]string{
		prefix,
		keyEscaper.Replace(r.SourcePackage),
		keyEscaper.Replace(r.SourceLang),
		keyEscaper.Replace(r.TargetLang),
	}, ":")
}
