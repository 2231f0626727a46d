package config

import (
	"fmt"
	"time"
)

// LLMConfig represents the configuration for the LLM provider
type LLMConfig struct {
	Provider string
}

// ModelConfig holds the generation settings shared by every provider
type ModelConfig struct {
	ModelName   string
	MaxTokens   int
	Temperature float32
	TopP        float32
	MaxBodySize int
}

// GenAIConfig represents the configuration for the Google GenAI SDK
type GenAIConfig struct {
	ModelConfig
	APIKey     string
	APIKeyFile string
	Backend    string
	Project    string
	Location   string
}

// GeminiConfig represents the configuration for Google Gemini
type GeminiConfig struct {
	ModelConfig
	APIKey     string
	APIKeyFile string
}

// OpenAIConfig represents the configuration for OpenAI
type OpenAIConfig struct {
	ModelConfig
	APIKey     string
	APIKeyFile string
	BaseURL    string
}

// BedrockConfig represents the configuration for Amazon Bedrock
type BedrockConfig struct {
	ModelConfig
	Region string
}

// MailConfig describes how user mailboxes are reached
type MailConfig struct {
	IMAPAddress          string
	Mailbox              string
	FetchLimit           int
	Timeout              time.Duration
	IgnoredSenderDomains []string
}

// LedgerConfig selects and configures the seen-message ledger backend
type LedgerConfig struct {
	Type             string
	Key              string
	SQLitePath       string
	MySQLDSN         string
	PostgresDSN      string
	RedisAddr        string
	RedisPassword    string
	RedisDB          int
	Retention        time.Duration
	CleanupFrequency time.Duration
}

// StoreConfig selects the candidate repository backend
type StoreConfig struct {
	Type        string
	SQLitePath  string
	MySQLDSN    string
	PostgresDSN string
}

// MinioConfig configures the S3-compatible resume bucket
type MinioConfig struct {
	Endpoint      string
	AccessKey     string
	SecretKey     string
	SecretKeyFile string
	Bucket        string
	UseSSL        bool
}

// FilesConfig selects where resume attachments are stored
type FilesConfig struct {
	Type     string
	LocalDir string
	Minio    MinioConfig
}

// PipelineConfig controls the periodic ingestion run
type PipelineConfig struct {
	Interval        time.Duration
	UserConcurrency int
	RunOnStart      bool
}

// ExtractionConfig bounds what is sent to the model
type ExtractionConfig struct {
	MaxAttachmentChars int
}

func (c *Config) modelConfig(prefix string, nameKey string) ModelConfig {
	return ModelConfig{
		ModelName:   c.GetString(prefix + "." + nameKey),
		MaxTokens:   c.GetInt(prefix + ".max_tokens"),
		Temperature: float32(c.GetFloat64(prefix + ".temperature")),
		TopP:        float32(c.GetFloat64(prefix + ".top_p")),
		MaxBodySize: c.GetInt(prefix + ".max_body_size"),
	}
}

// GetLLM returns the LLM configuration
func (c *Config) GetLLM() LLMConfig {
	return LLMConfig{
		Provider: c.GetString("llm.provider"),
	}
}

// GetGenAI returns the Google GenAI configuration
func (c *Config) GetGenAI() GenAIConfig {
	return GenAIConfig{
		ModelConfig: c.modelConfig("genai", "model_name"),
		APIKey:      c.GetString("genai.api_key"),
		APIKeyFile:  c.GetString("genai.api_key_file"),
		Backend:     c.GetString("genai.backend"),
		Project:     c.GetString("genai.project"),
		Location:    c.GetString("genai.location"),
	}
}

// GetGemini returns the Gemini configuration
func (c *Config) GetGemini() GeminiConfig {
	return GeminiConfig{
		ModelConfig: c.modelConfig("gemini", "model_name"),
		APIKey:      c.GetString("gemini.api_key"),
		APIKeyFile:  c.GetString("gemini.api_key_file"),
	}
}

// GetOpenAI returns the OpenAI configuration
func (c *Config) GetOpenAI() OpenAIConfig {
	return OpenAIConfig{
		ModelConfig: c.modelConfig("openai", "model_name"),
		APIKey:      c.GetString("openai.api_key"),
		APIKeyFile:  c.GetString("openai.api_key_file"),
		BaseURL:     c.GetString("openai.base_url"),
	}
}

// GetBedrock returns the Bedrock configuration
func (c *Config) GetBedrock() BedrockConfig {
	return BedrockConfig{
		ModelConfig: c.modelConfig("bedrock", "model_id"),
		Region:      c.GetString("bedrock.region"),
	}
}

// GetMail returns the mailbox configuration
func (c *Config) GetMail() (MailConfig, error) {
	timeout, err := c.GetDuration("mail.timeout")
	if err != nil {
		return MailConfig{}, fmt.Errorf("invalid mail timeout: %w", err)
	}
	return MailConfig{
		IMAPAddress:          c.GetString("mail.imap_address"),
		Mailbox:              c.GetString("mail.mailbox"),
		FetchLimit:           c.GetInt("mail.fetch_limit"),
		Timeout:              timeout,
		IgnoredSenderDomains: c.GetStringSlice("mail.ignored_sender_domains"),
	}, nil
}

// GetLedger returns the ledger configuration
func (c *Config) GetLedger() (LedgerConfig, error) {
	retention, err := c.GetDuration("ledger.retention")
	if err != nil {
		return LedgerConfig{}, fmt.Errorf("invalid ledger retention: %w", err)
	}
	cleanupFreq, err := c.GetDuration("ledger.cleanup_frequency")
	if err != nil {
		return LedgerConfig{}, fmt.Errorf("invalid ledger cleanup frequency: %w", err)
	}
	return LedgerConfig{
		Type:             c.GetString("ledger.type"),
		Key:              c.GetString("ledger.key"),
		SQLitePath:       c.GetString("ledger.sqlite_path"),
		MySQLDSN:         c.GetString("ledger.mysql_dsn"),
		PostgresDSN:      c.GetString("ledger.postgres_dsn"),
		RedisAddr:        c.GetString("ledger.redis_addr"),
		RedisPassword:    c.GetString("ledger.redis_password"),
		RedisDB:          c.GetInt("ledger.redis_db"),
		Retention:        retention,
		CleanupFrequency: cleanupFreq,
	}, nil
}

// GetStore returns the repository configuration
func (c *Config) GetStore() StoreConfig {
	return StoreConfig{
		Type:        c.GetString("store.type"),
		SQLitePath:  c.GetString("store.sqlite_path"),
		MySQLDSN:    c.GetString("store.mysql_dsn"),
		PostgresDSN: c.GetString("store.postgres_dsn"),
	}
}

// GetFiles returns the resume storage configuration
func (c *Config) GetFiles() FilesConfig {
	return FilesConfig{
		Type:     c.GetString("files.type"),
		LocalDir: c.GetString("files.local_dir"),
		Minio: MinioConfig{
			Endpoint:      c.GetString("files.minio.endpoint"),
			AccessKey:     c.GetString("files.minio.access_key"),
			SecretKey:     c.GetString("files.minio.secret_key"),
			SecretKeyFile: c.GetString("files.minio.secret_key_file"),
			Bucket:        c.GetString("files.minio.bucket"),
			UseSSL:        c.GetBool("files.minio.use_ssl"),
		},
	}
}

// GetPipeline returns the pipeline scheduling configuration
func (c *Config) GetPipeline() (PipelineConfig, error) {
	interval, err := c.GetDuration("pipeline.interval")
	if err != nil {
		return PipelineConfig{}, fmt.Errorf("invalid pipeline interval: %w", err)
	}
	if interval <= 0 {
		return PipelineConfig{}, fmt.Errorf("pipeline interval must be positive, got %s", interval)
	}
	return PipelineConfig{
		Interval:        interval,
		UserConcurrency: c.GetInt("pipeline.user_concurrency"),
		RunOnStart:      c.GetBool("pipeline.run_on_start"),
	}, nil
}

// GetExtraction returns the extraction limits
func (c *Config) GetExtraction() ExtractionConfig {
	return ExtractionConfig{
		MaxAttachmentChars: c.GetInt("extraction.max_attachment_chars"),
	}
}
