// Package logging 构建服务端和命令行使用的 zap 日志器
package logging

import (
	"fmt"
	"io"
	"os"

	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"

	"github.com/tangzhangming/minic/internal/config"
)

// New 按配置创建 JSON 日志器，输出到标准错误
//
// verbose 为 true 时强制使用 debug 级别。
func New(cfg config.LogConfig, verbose bool) (*zap.Logger, error) {
	return NewWithWriter(cfg, verbose, os.Stderr)
}

// NewWithWriter 与 New 相同，但输出到指定的 io.Writer
func NewWithWriter(cfg config.LogConfig, verbose bool, w io.Writer) (*zap.Logger, error) {
	level := zap.NewAtomicLevel()
	if err := level.UnmarshalText([]byte(cfg.Level)); err != nil {
		return nil, fmt.Errorf("invalid log level %q: %w", cfg.Level, err)
	}
	if verbose {
		level.SetLevel(zapcore.DebugLevel)
	}

	encCfg := zap.NewProductionEncoderConfig()
	encCfg.TimeKey = "ts"
	encCfg.EncodeTime = zapcore.ISO8601TimeEncoder

	core := zapcore.NewCore(
		zapcore.NewJSONEncoder(encCfg),
		zapcore.Lock(zapcore.AddSync(w)),
		level,
	)
	return zap.New(core, zap.AddCaller()).Named("minic"), nil
}

// Nop 返回丢弃所有输出的日志器
func Nop() *zap.Logger {
	return zap.NewNop()
}
