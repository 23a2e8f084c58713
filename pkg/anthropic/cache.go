package anthropic

// CachedSystemTTL is the cache lifetime for static system prompts. A batch
// of companies reuses the same rubric text for its whole run.
const CachedSystemTTL = "1h"

// BuildCachedSystemBlocks wraps text in a single system block with a cache
// breakpoint.
func BuildCachedSystemBlocks(text string) []SystemBlock {
	return []SystemBlock{
		{
			Text:         text,
			CacheControl: &CacheControl{TTL: CachedSystemTTL},
		},
	}
}
