package platform

import "github.com/pkg/xattr"

// nosyncAttr is the extended attribute name that marks a file as excluded
// from scanning regardless of the filter predicate, e.g. set by a user via
// `setfattr -n user.snapraid.nosync path`.
const nosyncAttr = "user.snapraid.nosync"

// hasNosyncAttr reports whether path carries the nosync marker. Any error
// reading the attribute (including "no such attribute" or an unsupported
// filesystem) is treated as "not excluded" — this is a best-effort signal
// layered on top of the filter predicate, never a substitute for it.
func hasNosyncAttr(path string) bool {
	_, err := xattr.Get(path, nosyncAttr)
	return err == nil
}
