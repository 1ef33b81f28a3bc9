// Package llm provides shared data models for LLM providers.
package llm

// TokenUsage contains token usage statistics.
type TokenUsage struct {
	PromptTokens     uint32
	CompletionTokens uint32
	TotalTokens      uint32
}

// OpenAI model identifiers.
const (
	// ModelOpenAIGPT4o is GPT-4o: flagship general model.
	ModelOpenAIGPT4o = "gpt-4o"
	// ModelOpenAIGPT4oMini is GPT-4o-mini: fast, inexpensive default.
	ModelOpenAIGPT4oMini = "gpt-4o-mini"
	// ModelOpenAIGPT35Turbo is GPT-3.5-turbo: legacy model.
	ModelOpenAIGPT35Turbo = "gpt-3.5-turbo"
)

// Anthropic model identifiers.
const (
	// ModelAnthropicClaudeSonnet4 is Claude Sonnet 4: balanced performance.
	ModelAnthropicClaudeSonnet4 = "claude-sonnet-4-20250514"
	// ModelAnthropicClaudeHaiku4 is Claude Haiku 4: fast and efficient.
	ModelAnthropicClaudeHaiku4 = "claude-haiku-4-20250514"
)

// DeepSeek model identifiers.
const (
	// ModelDeepSeekChat is the general chat model.
	ModelDeepSeekChat = "deepseek-chat"
	// ModelDeepSeekReasoner is the chain-of-thought reasoning model.
	ModelDeepSeekReasoner = "deepseek-reasoner"
)

// Gemini model identifiers.
const (
	// ModelGeminiFlash25 is Gemini 2.5 Flash: speed optimized.
	ModelGeminiFlash25 = "gemini-2.5-flash"
	// ModelGeminiPro25 is Gemini 2.5 Pro: advanced reasoning.
	ModelGeminiPro25 = "gemini-2.5-pro"
)

// Embedding model identifiers.
const (
	// ModelOpenAIEmbedding3Small is the default embedding model.
	ModelOpenAIEmbedding3Small = "text-embedding-3-small"
)
