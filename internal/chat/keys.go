package chat

import "strings"

// PairKey derives the room key for two participants in call order.
// A private room is keyed by the unordered pair, so lookups must try
// both orderings (see ResolveOrCreate).
func PairKey(a, b string) string {
	return a + "_" + b
}

// participantsFromKey splits a pair key back into its two identities.
func participantsFromKey(key string) (string, string) {
	parts := strings.SplitN(key, "_", 2)
	if len(parts) != 2 {
		return key, ""
	}
	return parts[0], parts[1]
}
