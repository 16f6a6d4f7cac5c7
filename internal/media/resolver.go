package media

import (
	"strings"

	"github.com/interiorhaus/catalog-admin/pkg/enums"
)

// uploadPrefix is the conventional subpath under which the first two
// storage generations exposed uploaded files.
const uploadPrefix = "/uploads/"

// ResolveURL turns a stored media reference into a dereferenceable URL
// under the given addressing mode. It is pure: the result depends only on
// the reference, the mode, and the configured origin.
//
// Whatever the mode, an empty reference means "no media" and an
// already-absolute reference passes through unchanged, because records
// written under an older backend generation keep their old reference shape.
func ResolveURL(reference string, mode enums.AddressMode, origin string) string {
	ref := strings.TrimSpace(reference)
	if ref == "" {
		return ""
	}
	if strings.HasPrefix(ref, "http://") || strings.HasPrefix(ref, "https://") {
		return ref
	}

	base := strings.TrimRight(origin, "/")
	switch mode {
	case enums.AddressModeRelative:
		if strings.HasPrefix(ref, "/") {
			return base + ref
		}
		return base + uploadPrefix + ref
	case enums.AddressModeFilename:
		return base + uploadPrefix + lastSegment(ref)
	case enums.AddressModeAbsolute:
		// The cloud host hands back absolute URLs; a relative leftover can
		// only come from an older record, so fall back to the server path.
		if strings.HasPrefix(ref, "/") {
			return base + ref
		}
		return base + uploadPrefix + ref
	default:
		return ""
	}
}

func lastSegment(ref string) string {
	if i := strings.LastIndex(ref, "/"); i >= 0 {
		return ref[i+1:]
	}
	return ref
}
