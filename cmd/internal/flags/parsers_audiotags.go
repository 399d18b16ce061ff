//go:build audiotags

package flags

import "go.senan.xyz/tagbridge/tags/audiotags"

func init() {
	sources["audiotags"] = audiotags.AudioTags{}
}
