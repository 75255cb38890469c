package metadata

import "golang.org/x/sys/unix"

// Linux only allows unprivileged attributes in the user namespace.
const userNamespace = "user."

var noAttr = unix.ENODATA

func systemName(attribute string) string {
	return userNamespace + attribute
}
