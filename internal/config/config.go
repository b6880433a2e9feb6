package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

type ServerConfig struct {
	Addr        string `yaml:"addr"`
	ServiceName string `yaml:"service_name"`
	RenderHTML  bool   `yaml:"render_html"`
}

type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	Password string `yaml:"password"`
	Debug    bool   `yaml:"debug"`
}

// LLMConfig points at an OpenAI-compatible or Ollama endpoint used for
// embeddings.
type LLMConfig struct {
	BaseURL  string `yaml:"base_url"`
	Key      string `yaml:"key"`
	Model    string `yaml:"model"`
	Provider string `yaml:"provider"` // "ollama" or "openai"
}

// GeminiConfig holds the generative-text endpoint settings. Temperature and
// MaxTokens are pointers so unset values are omitted from requests.
type GeminiConfig struct {
	APIKey         string   `yaml:"api_key"`
	Model          string   `yaml:"model"`
	Temperature    *float64 `yaml:"temperature"`
	MaxTokens      *int     `yaml:"max_tokens"`
	TimeoutSeconds int      `yaml:"timeout_seconds"`
}

type RAGConfig struct {
	StorePath        string `yaml:"store_path"`
	Collection       string `yaml:"collection"`
	TopK             int    `yaml:"top_k"`
	DocChunkSize     int    `yaml:"doc_chunk_size"`
	DocChunkOverlap  int    `yaml:"doc_chunk_overlap"`
	DataChunkSize    int    `yaml:"data_chunk_size"`
	DataChunkOverlap int    `yaml:"data_chunk_overlap"`
}

type RestaurantConfig struct {
	Name     string `yaml:"name"`
	DataPath string `yaml:"data_path"`
}

type DemoConfig struct {
	Enabled       bool   `yaml:"enabled"`
	ResponsesPath string `yaml:"responses_path"`
}

type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Database   DatabaseConfig   `yaml:"database"`
	EmbedLLM   LLMConfig        `yaml:"embed_llm"`
	Gemini     GeminiConfig     `yaml:"gemini"`
	RAG        RAGConfig        `yaml:"rag"`
	Restaurant RestaurantConfig `yaml:"restaurant"`
	Demo       DemoConfig       `yaml:"demo"`
}

// LoadConfig reads the YAML config once at startup, applies environment
// overrides for secrets and the demo switch, then validates. There is no
// hot reload.
func LoadConfig(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config %s: %w", path, err)
	}
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing config %s: %w", path, err)
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v := os.Getenv("GEMINI_API_KEY"); v != "" {
		c.Gemini.APIKey = v
	}
	if v := os.Getenv("DATABASE_DSN"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("DEMO_MODE"); v != "" {
		c.Demo.Enabled = parseBool(v)
	}
}

func (c *Config) applyDefaults() {
	if c.Server.Addr == "" {
		c.Server.Addr = ":8000"
	}
	if c.Server.ServiceName == "" {
		c.Server.ServiceName = "Savory Haven Restaurant Chatbot"
	}
	if c.Gemini.Model == "" {
		c.Gemini.Model = "gemini-2.0-flash"
	}
	if c.Gemini.TimeoutSeconds == 0 {
		c.Gemini.TimeoutSeconds = 60
	}
	if c.RAG.StorePath == "" {
		c.RAG.StorePath = "./vectorstore"
	}
	if c.RAG.Collection == "" {
		c.RAG.Collection = "restaurant"
	}
	if c.RAG.TopK == 0 {
		c.RAG.TopK = 3
	}
	if c.RAG.DocChunkSize == 0 {
		c.RAG.DocChunkSize = 500
	}
	if c.RAG.DocChunkOverlap == 0 {
		c.RAG.DocChunkOverlap = 50
	}
	if c.RAG.DataChunkSize == 0 {
		c.RAG.DataChunkSize = 1000
	}
	if c.RAG.DataChunkOverlap == 0 {
		c.RAG.DataChunkOverlap = 200
	}
	if c.Restaurant.Name == "" {
		c.Restaurant.Name = "Savory Haven"
	}
}

func (c *Config) validate() error {
	if !c.Demo.Enabled {
		if c.Gemini.APIKey == "" {
			return fmt.Errorf("gemini api_key is required outside demo mode")
		}
		if c.EmbedLLM.BaseURL == "" || c.EmbedLLM.Model == "" {
			return fmt.Errorf("embed_llm base_url and model are required outside demo mode")
		}
	}
	if c.RAG.DocChunkOverlap >= c.RAG.DocChunkSize || c.RAG.DataChunkOverlap >= c.RAG.DataChunkSize {
		return fmt.Errorf("chunk overlap must be smaller than chunk size")
	}
	return nil
}

func parseBool(v string) bool {
	if b, err := strconv.ParseBool(v); err == nil {
		return b
	}
	return strings.EqualFold(v, "t")
}
