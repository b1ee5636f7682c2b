package utils

import "hash/fnv"

// PromptSeed derives a stable uint64 from a prompt string, used to vary
// deterministic offline responses.
func PromptSeed(s string) uint64 {
	h := fnv.New64a()
	_, _ = h.Write([]byte(s))
	return h.Sum64()
}
