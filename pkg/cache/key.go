package cache

import "strings"

// Key builds a deterministic cache key from parts, joined with ":".
// Empty parts are dropped.
//
// Example:
//
//	cache.Key("videos", channelID) // "videos:UC123"
func Key(parts ...string) string {
	kept := make([]string, 0, len(parts))
	for _, p := range parts {
		if p != "" {
			kept = append(kept, p)
		}
	}
	return strings.Join(kept, ":")
}

// namespaced prefixes a key with the manager's namespace so a shared
// store can serve multiple deployments without collisions.
func namespaced(namespace, key string) string {
	if namespace == "" {
		return key
	}
	return namespace + ":" + key
}
