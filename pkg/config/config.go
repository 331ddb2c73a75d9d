package config

import (
	"os"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config 项目配置结构体，启动时加载一次，进程生命周期内不可变
type Config struct {
	Server      ServerConfig      `yaml:"server"`
	Zhipu       ZhipuConfig       `yaml:"zhipu"`
	Bocha       BochaConfig       `yaml:"bocha"`
	SearXNG     SearXNGConfig     `yaml:"searxng"`
	Log         LogConfig         `yaml:"log"`
	Concurrency ConcurrencyConfig `yaml:"concurrency"`
}

// ServerConfig HTTP 服务相关配置
type ServerConfig struct {
	Addr    string `yaml:"addr"`
	Timeout string `yaml:"timeout"`
}

// ZhipuConfig 智谱AI配置
type ZhipuConfig struct {
	APIKey string `yaml:"api_key"`
}

// BochaConfig Bocha AI 配置
type BochaConfig struct {
	APIKey string `yaml:"api_key"`
}

// SearXNGConfig SearXNG 配置
type SearXNGConfig struct {
	BaseURL string `yaml:"base_url"`
	Timeout int    `yaml:"timeout"`
}

// LogConfig 日志相关配置
type LogConfig struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// ConcurrencyConfig 出站搜索调用的限流配置，零值表示不限流
type ConcurrencyConfig struct {
	QPS int `yaml:"qps"`
	RPM int `yaml:"rpm"`
}

// LoadConfig 从指定路径加载配置。配置文件可以不存在，此时仅靠环境变量；
// 密钥类环境变量（含 .env 文件）始终覆盖配置文件中的同名项。
func LoadConfig(path string) (*Config, error) {
	// .env 不存在时静默忽略
	_ = godotenv.Load()

	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		if err == nil {
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		} else if !os.IsNotExist(err) {
			return nil, err
		}
	}

	if v := os.Getenv("ZHIPUAI_API_KEY"); v != "" {
		cfg.Zhipu.APIKey = v
	}
	if v := os.Getenv("BOCHAAI_API_KEY"); v != "" {
		cfg.Bocha.APIKey = v
	}
	if v := os.Getenv("SEARXNG_API_HOST"); v != "" {
		cfg.SearXNG.BaseURL = v
	}
	if v := os.Getenv("PORT"); v != "" {
		cfg.Server.Addr = ":" + v
	}
	if cfg.Server.Addr == "" {
		cfg.Server.Addr = ":5000"
	}

	return &cfg, nil
}
