// Package providers implements the Generator interface for each supported
// generative-text service.
//
// Supported providers: Anthropic (Claude), OpenAI (GPT), Google (Gemini), and
// Ollama / LMStudio for local models. The contract is deliberately small: one
// generate-content call taking a prompt string and returning free-form text;
// no streaming, no multi-turn state.
//
// All providers share a common retry helper with exponential back-off that
// retries transient rate-limit and server errors but never auth failures.
// Base URLs are overridable so tests can point at local httptest servers.
//
// Use [New] to obtain a Generator by provider name and model string.
package providers
