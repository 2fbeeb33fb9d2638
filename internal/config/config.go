// Package config 加载和校验 minic.toml 配置
package config

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/pelletier/go-toml/v2"
	"go.uber.org/multierr"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/parser"
	"github.com/tangzhangming/minic/internal/serializer"
)

// 常量定义
const (
	ConfigFileName = "minic.toml" // 配置文件名
)

// Config 完整配置
type Config struct {
	Parser ParserConfig `toml:"parser"`
	Output OutputConfig `toml:"output"`
	Server ServerConfig `toml:"server"`
	Log    LogConfig    `toml:"log"`

	// Path 配置文件路径，使用默认配置时为空
	Path string `toml:"-"`
}

// ParserConfig 解析限制
type ParserConfig struct {
	// MaxDepth 最大嵌套深度
	MaxDepth int `toml:"max_depth"`

	// MaxChildren 单个节点的子节点上限，0 表示不限制，20 与旧版兼容
	MaxChildren int `toml:"max_children"`
}

// OutputConfig 输出选项
type OutputConfig struct {
	Format     string `toml:"format"`       // json 或 yaml
	ZeroAsNull bool   `toml:"zero_as_null"` // 旧版渲染：0 输出为 null
}

// ServerConfig 检查服务配置
type ServerConfig struct {
	Addr         string   `toml:"addr"`
	ReadTimeout  Duration `toml:"read_timeout"`
	WriteTimeout Duration `toml:"write_timeout"`
	CacheSize    int      `toml:"cache_size"`     // 结果缓存条目数，0 表示关闭缓存
	MaxBodyBytes int64    `toml:"max_body_bytes"` // 请求体上限
}

// LogConfig 日志与界面语言
type LogConfig struct {
	Level    string `toml:"level"`    // debug, info, warn, error
	Language string `toml:"language"` // en, zh，空表示自动检测
}

// Duration 以 "5s" 形式书写的时间段
type Duration struct {
	time.Duration
}

// UnmarshalText 实现 encoding.TextUnmarshaler
func (d *Duration) UnmarshalText(text []byte) error {
	v, err := time.ParseDuration(string(text))
	if err != nil {
		return err
	}
	d.Duration = v
	return nil
}

// MarshalText 实现 encoding.TextMarshaler
func (d Duration) MarshalText() ([]byte, error) {
	return []byte(d.String()), nil
}

// Default 返回默认配置
func Default() *Config {
	return &Config{
		Parser: ParserConfig{
			MaxDepth:    parser.DefaultMaxDepth,
			MaxChildren: 0,
		},
		Output: OutputConfig{
			Format: string(serializer.FormatJSON),
		},
		Server: ServerConfig{
			Addr:         "127.0.0.1:8080",
			ReadTimeout:  Duration{10 * time.Second},
			WriteTimeout: Duration{10 * time.Second},
			CacheSize:    256,
			MaxBodyBytes: 1 << 20,
		},
		Log: LogConfig{
			Level: "info",
		},
	}
}

// Load 从文件加载配置，未出现的字段保留默认值
//
// 未知字段视为错误，加载后的配置会经过 Validate 校验。
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	cfg := Default()
	dec := toml.NewDecoder(bytes.NewReader(data))
	dec.DisallowUnknownFields()
	if err := dec.Decode(cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}
	cfg.Path = path

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config file %s: %w", path, err)
	}
	return cfg, nil
}

// Resolve 确定本次运行使用的配置
//
// explicit 非空时直接加载；否则从 inputPath 所在目录向上查找 minic.toml，
// inputPath 为空或 "-"（标准输入）时从当前目录开始；都找不到时使用默认配置。
func Resolve(explicit, inputPath string) (*Config, error) {
	if explicit != "" {
		return Load(explicit)
	}
	start := inputPath
	if start == "" || start == "-" {
		start = "."
	}
	if path := FindConfigFile(start); path != "" {
		return Load(path)
	}
	return Default(), nil
}

// Validate 检查所有字段，一次返回全部问题
func (c *Config) Validate() error {
	var err error

	if c.Parser.MaxDepth <= 0 {
		err = multierr.Append(err, fmt.Errorf("parser.max_depth must be positive, got %d", c.Parser.MaxDepth))
	} else if c.Parser.MaxDepth > parser.MaxDepthLimit {
		err = multierr.Append(err, fmt.Errorf("parser.max_depth must be at most %d, got %d", parser.MaxDepthLimit, c.Parser.MaxDepth))
	}
	if c.Parser.MaxChildren < 0 {
		err = multierr.Append(err, fmt.Errorf("parser.max_children must not be negative, got %d", c.Parser.MaxChildren))
	}
	if _, ferr := serializer.ParseFormat(c.Output.Format); ferr != nil {
		err = multierr.Append(err, fmt.Errorf("output.format: %w", ferr))
	}
	if c.Server.ReadTimeout.Duration <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.read_timeout must be positive"))
	}
	if c.Server.WriteTimeout.Duration <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.write_timeout must be positive"))
	}
	if c.Server.CacheSize < 0 {
		err = multierr.Append(err, fmt.Errorf("server.cache_size must not be negative, got %d", c.Server.CacheSize))
	}
	if c.Server.MaxBodyBytes <= 0 {
		err = multierr.Append(err, fmt.Errorf("server.max_body_bytes must be positive"))
	}
	var lvl zapcore.Level
	if lerr := lvl.UnmarshalText([]byte(c.Log.Level)); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log.level: %w", lerr))
	}
	if _, lerr := i18n.ParseLanguage(c.Log.Language); lerr != nil {
		err = multierr.Append(err, fmt.Errorf("log.language: %w", lerr))
	}

	return err
}

// LegacyCompatible 返回与旧版实现输出一致的配置
func LegacyCompatible() *Config {
	cfg := Default()
	cfg.Parser.MaxChildren = ast.LegacyMaxChildren
	cfg.Output.ZeroAsNull = true
	return cfg
}

// ParserOptions 转换为解析选项
func (c *Config) ParserOptions() parser.Options {
	return parser.Options{MaxDepth: c.Parser.MaxDepth}
}

// SerializerOptions 转换为序列化选项
func (c *Config) SerializerOptions() serializer.Options {
	format, _ := serializer.ParseFormat(c.Output.Format)
	return serializer.Options{Format: format, ZeroAsNull: c.Output.ZeroAsNull}
}

// ============================================================================
// 配置文件生成
// ============================================================================

// Save 保存配置到文件（带注释）
func (c *Config) Save(path string) error {
	if err := os.WriteFile(path, []byte(generateConfigWithComments(c)), 0644); err != nil {
		return fmt.Errorf("failed to write config file: %w", err)
	}
	return nil
}

// generateConfigWithComments 生成带注释的配置文件内容
func generateConfigWithComments(c *Config) string {
	var sb strings.Builder

	sb.WriteString("[parser]\n")
	sb.WriteString("# 最大嵌套深度\n")
	sb.WriteString(fmt.Sprintf("max_depth = %d\n", c.Parser.MaxDepth))
	sb.WriteString("# 单个节点的子节点上限（0 不限制，20 与旧版兼容）\n")
	sb.WriteString(fmt.Sprintf("max_children = %d\n\n", c.Parser.MaxChildren))

	sb.WriteString("[output]\n")
	sb.WriteString("# 输出格式：json 或 yaml\n")
	sb.WriteString(fmt.Sprintf("format = %q\n", c.Output.Format))
	sb.WriteString("# 旧版渲染：整数 0 输出为 null\n")
	sb.WriteString(fmt.Sprintf("zero_as_null = %t\n\n", c.Output.ZeroAsNull))

	sb.WriteString("[server]\n")
	sb.WriteString(fmt.Sprintf("addr = %q\n", c.Server.Addr))
	sb.WriteString(fmt.Sprintf("read_timeout = %q\n", c.Server.ReadTimeout.String()))
	sb.WriteString(fmt.Sprintf("write_timeout = %q\n", c.Server.WriteTimeout.String()))
	sb.WriteString("# 结果缓存条目数（0 关闭缓存）\n")
	sb.WriteString(fmt.Sprintf("cache_size = %d\n", c.Server.CacheSize))
	sb.WriteString(fmt.Sprintf("max_body_bytes = %d\n\n", c.Server.MaxBodyBytes))

	sb.WriteString("[log]\n")
	sb.WriteString("# debug, info, warn, error\n")
	sb.WriteString(fmt.Sprintf("level = %q\n", c.Log.Level))
	sb.WriteString("# 界面语言：en, zh，留空自动检测\n")
	sb.WriteString(fmt.Sprintf("language = %q\n", c.Log.Language))

	return sb.String()
}

// FindConfigFile 从指定路径向上查找配置文件
// 返回配置文件的完整路径，如果找不到则返回空字符串
func FindConfigFile(startPath string) string {
	// 如果是文件，从其所在目录开始
	info, err := os.Stat(startPath)
	if err != nil {
		return ""
	}

	dir := startPath
	if !info.IsDir() {
		dir = filepath.Dir(startPath)
	}

	dir, err = filepath.Abs(dir)
	if err != nil {
		return ""
	}

	// 向上查找
	for {
		configPath := filepath.Join(dir, ConfigFileName)
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			// 已到达根目录
			return ""
		}
		dir = parent
	}
}
