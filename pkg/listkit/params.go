package listkit

import "strings"

// SentinelAll marks an enum filter as "no filtering". Normalized params
// never carry it.
const SentinelAll = "all"

// Well-known filter keys shared by every entity screen.
const (
	KeyQuery     = "query"
	KeyStatus    = "status"
	KeySortBy    = "sortBy"
	KeySortOrder = "sortOrder"
)

// SearchParams maps filter keys to scalar values. A draft may contain
// empty strings and "all" sentinels; a normalized set never does.
type SearchParams map[string]string

// Clone returns a shallow copy of the params.
func (p SearchParams) Clone() SearchParams {
	out := make(SearchParams, len(p))
	for k, v := range p {
		out[k] = v
	}
	return out
}

// Equal reports structural equality of two param sets.
func (p SearchParams) Equal(other SearchParams) bool {
	if len(p) != len(other) {
		return false
	}
	for k, v := range p {
		if ov, ok := other[k]; !ok || ov != v {
			return false
		}
	}
	return true
}

// Normalizer converts raw filter drafts into canonical query params.
// Enum keys recognize the "all" sentinel; every other key is treated as
// a free-text or foreign-key filter and kept only when non-empty after
// trimming.
type Normalizer struct {
	enumKeys map[string]struct{}
}

// NewNormalizer builds a normalizer. Keys listed in enumKeys drop the
// "all" sentinel; "status" is always enum-like.
func NewNormalizer(enumKeys ...string) *Normalizer {
	keys := make(map[string]struct{}, len(enumKeys)+1)
	keys[KeyStatus] = struct{}{}
	for _, k := range enumKeys {
		keys[k] = struct{}{}
	}
	return &Normalizer{enumKeys: keys}
}

// Normalize returns a canonical copy of draft: trimmed values, empty
// strings omitted, enum sentinels omitted. The function is pure and
// idempotent; normalizing an already normalized set returns a
// structurally equal set.
func (n *Normalizer) Normalize(draft SearchParams) SearchParams {
	out := make(SearchParams, len(draft))
	for k, v := range draft {
		trimmed := strings.TrimSpace(v)
		if trimmed == "" {
			continue
		}
		if _, enum := n.enumKeys[k]; enum && trimmed == SentinelAll {
			continue
		}
		out[k] = trimmed
	}
	return out
}
