package ai

// EstimateTokens provides a rough token count (4 chars ≈ 1 token)
func EstimateTokens(content string) int {
	return len(content) / 4
}
