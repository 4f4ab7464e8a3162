package rediskey

import (
	"fmt"
	"strconv"
)

// License keys (global convention across services)
const (
	LicenseSeqPrefix = "seq:license"
)

func NamespaceKey(namespace, key string) string {
	return fmt.Sprintf("%s:%s", namespace, key)
}

// BuildLicenseSeqKey returns "seq:license:{year}"
func BuildLicenseSeqKey(year int) string {
	return NamespaceKey(LicenseSeqPrefix, strconv.Itoa(year))
}
