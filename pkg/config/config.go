package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// ==================== 配置结构 ====================

// Config 服务配置
// 读取顺序：config.yaml -> 环境变量 (BUDGETSMART_ 前缀) 覆盖
type Config struct {
	Server   ServerConfig   `mapstructure:"server"`
	Database DatabaseConfig `mapstructure:"database"`
	Ingest   IngestConfig   `mapstructure:"ingest"`
	Upload   UploadConfig   `mapstructure:"upload"`
	Log      LogConfig      `mapstructure:"log"`
}

type ServerConfig struct {
	Port string `mapstructure:"port"`
}

type DatabaseConfig struct {
	DSN string `mapstructure:"dsn"`
}

// IngestConfig 抓取管线配置
type IngestConfig struct {
	FetchTimeout   time.Duration `mapstructure:"fetch_timeout"`   // 单次页面请求超时
	Workers        int           `mapstructure:"workers"`         // 后台抓取并发数
	QueueSize      int           `mapstructure:"queue_size"`      // 任务队列缓冲
	MaxItemsPerRun int           `mapstructure:"max_items_per_run"`
	Cooldown       time.Duration `mapstructure:"cooldown"`      // 同一卖家两次抓取的最小间隔
	JobRetention   time.Duration `mapstructure:"job_retention"` // 已结束任务记录的保留时长
}

type UploadConfig struct {
	Dir       string `mapstructure:"dir"`        // 本地保存目录
	URLPrefix string `mapstructure:"url_prefix"` // 对外访问前缀
}

type LogConfig struct {
	Mode string `mapstructure:"mode"` // dev / prod
}

// ==================== 加载 ====================

// Load 加载配置；找不到配置文件时退回默认值
func Load(paths ...string) (*Config, error) {
	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range paths {
		v.AddConfigPath(p)
	}
	v.AddConfigPath(".")

	setDefaults(v)

	v.SetEnvPrefix("BUDGETSMART")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, err
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("server.port", "3000")
	v.SetDefault("database.dsn",
		"host=localhost user=budget_admin password=1234 dbname=budgetsmart port=5432 sslmode=disable")
	v.SetDefault("ingest.fetch_timeout", 10*time.Second)
	v.SetDefault("ingest.workers", 3)
	v.SetDefault("ingest.queue_size", 64)
	v.SetDefault("ingest.max_items_per_run", 150)
	v.SetDefault("ingest.cooldown", 10*time.Minute)
	v.SetDefault("ingest.job_retention", 7*24*time.Hour)
	v.SetDefault("upload.dir", "./uploads")
	v.SetDefault("upload.url_prefix", "/uploads")
	v.SetDefault("log.mode", "dev")
}
