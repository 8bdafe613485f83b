package main

import (
	"errors"
	"fmt"
	"io/fs"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"
)

// settings 是命令行的全部配置。优先级：flag > 环境变量 TOPPICKS_* > 配置文件 > 默认值。
type settings struct {
	Limit    int    `mapstructure:"limit"`
	Pipeline string `mapstructure:"pipeline"`
	Catalog  string `mapstructure:"catalog"`
	Profile  string `mapstructure:"profile"`
	User     string `mapstructure:"user"`
	Category string `mapstructure:"category"`
	Query    string `mapstructure:"query"`
	Explain  bool   `mapstructure:"explain"`

	CatalogKey    string `mapstructure:"catalog_key"`
	TrendingKey   string `mapstructure:"trending_key"`
	ProfilePrefix string `mapstructure:"profile_prefix"`

	Log struct {
		Level  string `mapstructure:"level"`
		Format string `mapstructure:"format"`
	} `mapstructure:"log"`

	Redis struct {
		Addr string `mapstructure:"addr"`
		DB   int    `mapstructure:"db"`
	} `mapstructure:"redis"`
}

func newFlagSet() *pflag.FlagSet {
	flags := pflag.NewFlagSet("toppicks", pflag.ContinueOnError)
	flags.String("config", "", "config file (yaml/json/toml)")
	flags.Int("limit", 6, "number of picks")
	flags.String("pipeline", "", "pipeline yaml; empty uses the built-in pipeline")
	flags.String("catalog", "", "catalog JSON file (array of listings)")
	flags.String("profile", "", "user activity JSON file")
	flags.String("user", "", "user id, used to load the profile from redis")
	flags.String("category", "", "keep only picks of this category")
	flags.String("query", "", "keep only picks whose title contains this keyword")
	flags.Bool("explain", false, "print scores and labels")
	flags.String("catalog_key", "", "redis key of the catalog snapshot")
	flags.String("trending_key", "", "redis sorted set of trending listing ids")
	flags.String("profile_prefix", "", "redis key prefix of user profiles")
	flags.String("log.level", "info", "debug|info|warn|error")
	flags.String("log.format", "console", "console|json")
	flags.String("redis.addr", "", "redis address; empty disables redis")
	flags.Int("redis.db", 0, "redis db")
	return flags
}

func loadSettings(args []string) (*settings, error) {
	// .env 不存在时忽略
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return nil, fmt.Errorf("load .env: %w", err)
	}

	flags := newFlagSet()
	if err := flags.Parse(args); err != nil {
		return nil, err
	}

	v := viper.New()
	v.SetEnvPrefix("TOPPICKS")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()
	if err := v.BindPFlags(flags); err != nil {
		return nil, err
	}

	if path := v.GetString("config"); path != "" {
		v.SetConfigFile(path)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("read config %s: %w", path, err)
		}
	}

	var s settings
	if err := v.Unmarshal(&s); err != nil {
		return nil, fmt.Errorf("unmarshal config: %w", err)
	}
	if s.Catalog == "" && s.Redis.Addr == "" {
		return nil, fmt.Errorf("either --catalog or --redis.addr is required")
	}
	return &s, nil
}
