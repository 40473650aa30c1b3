package config

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	APIKey      string
	ModelName   string
	Candidates  []string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	APIKey      string
	ModelName   string
	Candidates  []string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	Region      string
	ModelID     string
	Candidates  []string
	MaxTokens   int
	Temperature float32
	TopP        float32
}

// ServerConfig represents the HTTP server configuration
type ServerConfig struct {
	Port         int
	MaxBodyBytes int64
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		APIKey:      c.GetString("gemini.api_key"),
		ModelName:   c.GetString("gemini.model_name"),
		Candidates:  c.GetStringSlice("gemini.candidates"),
		MaxTokens:   c.GetInt("gemini.max_tokens"),
		Temperature: float32(c.GetFloat64("gemini.temperature")),
		TopP:        float32(c.GetFloat64("gemini.top_p")),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		APIKey:      c.GetString("openai.api_key"),
		ModelName:   c.GetString("openai.model_name"),
		Candidates:  c.GetStringSlice("openai.candidates"),
		MaxTokens:   c.GetInt("openai.max_tokens"),
		Temperature: float32(c.GetFloat64("openai.temperature")),
		TopP:        float32(c.GetFloat64("openai.top_p")),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		Region:      c.GetString("bedrock.region"),
		ModelID:     c.GetString("bedrock.model_id"),
		Candidates:  c.GetStringSlice("bedrock.candidates"),
		MaxTokens:   c.GetInt("bedrock.max_tokens"),
		Temperature: float32(c.GetFloat64("bedrock.temperature")),
		TopP:        float32(c.GetFloat64("bedrock.top_p")),
	}
}

// GetServer returns the HTTP server configuration
func (c *Config) GetServer() ServerConfig {
	return ServerConfig{
		Port:         c.GetInt("server.port"),
		MaxBodyBytes: c.GetInt64("server.max_body_bytes"),
	}
}

// GetRelayOptions returns the model resolution settings for the active
// provider: its preferred model override and ordered candidate list.
func (c *Config) GetRelayOptions() (preferred string, candidates []string) {
	switch c.GetLLM().Provider {
	case "openai":
		cfg := c.GetOpenAI()
		return cfg.ModelName, cfg.Candidates
	case "bedrock":
		cfg := c.GetBedrock()
		return cfg.ModelID, cfg.Candidates
	default:
		cfg := c.GetGemini()
		return cfg.ModelName, cfg.Candidates
	}
}
