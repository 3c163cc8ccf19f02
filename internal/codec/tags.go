package codec

import "strings"

// Tag is the fixed 8-character ASCII prefix identifying an encoding layer.
type Tag string

const (
	TagAsset   Tag = "DbdDAwAC"
	TagProfile Tag = "DbdDAgAC"
	TagZlib    Tag = "DbdDAQEB"

	// TagNone marks terminal (plain or JSON) content.
	TagNone Tag = ""
)

// TagLen is the length of every wire tag.
const TagLen = 8

// Sniff returns the tag prefixing content, or TagNone.
// Strings shorter than a tag never match.
func Sniff(content string) Tag {
	for _, t := range []Tag{TagAsset, TagProfile, TagZlib} {
		if strings.HasPrefix(content, string(t)) {
			return t
		}
	}
	return TagNone
}

// IsEncoded reports whether content carries any encryption or compression tag.
func IsEncoded(content string) bool {
	return Sniff(content) != TagNone
}

// String returns a short human name of the layer.
func (t Tag) String() string {
	switch t {
	case TagAsset:
		return "asset"
	case TagProfile:
		return "profile"
	case TagZlib:
		return "zlib"
	default:
		return "plain"
	}
}
