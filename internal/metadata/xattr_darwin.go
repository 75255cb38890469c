package metadata

import "golang.org/x/sys/unix"

var noAttr = unix.ENOATTR

func systemName(attribute string) string {
	return attribute
}
