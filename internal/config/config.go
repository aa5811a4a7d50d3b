package config

import (
	"errors"
	"os"

	"gopkg.in/yaml.v3"
)

type Config struct {
	Database DBConfig  `yaml:"database"`
	EmbedLLM LLMConfig `yaml:"embed_llm"`
	InferLLM LLMConfig `yaml:"inference_llm"`
	RAG      RAGConfig `yaml:"rag"`
}

type DBConfig struct {
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	DBName   string `yaml:"dbname"`
	Debug    bool   `yaml:"debug"`
}

type LLMConfig struct {
	BaseURL     string  `yaml:"base_url"`
	Key         string  `yaml:"key"`
	Model       string  `yaml:"model"`
	DocMaxLen   int     `yaml:"doc_max_len"`
	QueryMaxLen int     `yaml:"query_max_len"`
	TimeoutSecs int     `yaml:"timeout_secs"`
	MaxTokens   int     `yaml:"max_tokens"`
	Temperature float64 `yaml:"temperature"`
}

type RAGConfig struct {
	ChunkSize    int    `yaml:"chunk_size"`
	ChunkOverlap int    `yaml:"chunk_overlap"`
	BatchSize    int    `yaml:"batch_size"`
	TopK         int    `yaml:"top_k"`
	VectorSize   int    `yaml:"vector_size"`
	PromptPath   string `yaml:"prompt_path"`
	AnswerMarker string `yaml:"answer_marker"`
}

// LoadConfig reads the YAML config at path, falling back to defaults
// when the file does not exist. Database settings can be overridden
// through the POSTGRES_* environment variables.
func LoadConfig(path string) (*Config, error) {
	var cfg Config
	data, err := os.ReadFile(path)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return nil, err
		}
	} else if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, err
	}
	applyDefaults(&cfg)
	applyEnvOverrides(&cfg)
	return &cfg, nil
}

func applyDefaults(cfg *Config) {
	if cfg.Database.Host == "" {
		cfg.Database.Host = "pgvector-db"
	}
	if cfg.Database.Port == "" {
		cfg.Database.Port = "5432"
	}
	if cfg.Database.User == "" {
		cfg.Database.User = "postgres"
	}
	if cfg.Database.Password == "" {
		cfg.Database.Password = "password"
	}
	if cfg.Database.DBName == "" {
		cfg.Database.DBName = "vectordb"
	}
	if cfg.EmbedLLM.BaseURL == "" {
		cfg.EmbedLLM.BaseURL = "http://localhost:8090"
	}
	if cfg.EmbedLLM.Model == "" {
		cfg.EmbedLLM.Model = "colbert-ir/colbertv2.0"
	}
	if cfg.EmbedLLM.DocMaxLen == 0 {
		cfg.EmbedLLM.DocMaxLen = 220
	}
	if cfg.EmbedLLM.QueryMaxLen == 0 {
		cfg.EmbedLLM.QueryMaxLen = 32
	}
	if cfg.EmbedLLM.TimeoutSecs == 0 {
		cfg.EmbedLLM.TimeoutSecs = 120
	}
	if cfg.InferLLM.BaseURL == "" {
		cfg.InferLLM.BaseURL = "http://localhost:11434/v1"
	}
	if cfg.InferLLM.Model == "" {
		cfg.InferLLM.Model = "gemma2:2b"
	}
	if cfg.InferLLM.MaxTokens == 0 {
		cfg.InferLLM.MaxTokens = 256
	}
	if cfg.RAG.ChunkSize == 0 {
		cfg.RAG.ChunkSize = 1000
	}
	if cfg.RAG.ChunkOverlap == 0 {
		cfg.RAG.ChunkOverlap = 100
	}
	if cfg.RAG.BatchSize == 0 {
		cfg.RAG.BatchSize = 128
	}
	if cfg.RAG.TopK == 0 {
		cfg.RAG.TopK = 5
	}
	if cfg.RAG.VectorSize == 0 {
		cfg.RAG.VectorSize = 128
	}
	if cfg.RAG.PromptPath == "" {
		cfg.RAG.PromptPath = "./configs/prompts/response.yaml"
	}
}

func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("POSTGRES_HOST"); v != "" {
		cfg.Database.Host = v
	}
	if v := os.Getenv("POSTGRES_PORT"); v != "" {
		cfg.Database.Port = v
	}
	if v := os.Getenv("POSTGRES_USER"); v != "" {
		cfg.Database.User = v
	}
	if v := os.Getenv("POSTGRES_PASSWORD"); v != "" {
		cfg.Database.Password = v
	}
	if v := os.Getenv("POSTGRES_DB"); v != "" {
		cfg.Database.DBName = v
	}
}
