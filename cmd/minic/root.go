package main

import (
	stderrors "errors"
	"fmt"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/minic/internal/config"
	"github.com/tangzhangming/minic/internal/errors"
	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/logging"
)

// Version 语义化版本
const Version = "0.1.0"

// errCompileFailed 源码有错误，详细信息已写到标准错误
var errCompileFailed = stderrors.New("compilation failed")

// globalOptions 所有子命令共享的参数
type globalOptions struct {
	configPath string
	lang       string
	verbose    bool
	noColor    bool
}

func newRootCmd() *cobra.Command {
	g := &globalOptions{}

	root := &cobra.Command{
		Use:   "minic",
		Short: "Mini-C front end: tokens, syntax trees and diagnostics",
		Long: `minic 把 Mini-C 源码转换为 Token 序列和统一语法树（JSON 或 YAML），
也可以作为检查服务或语言服务器运行。

Commands:
  tokens  词法分析，输出 Token 序列
  ast     语法分析，输出语法树
  parse   同时输出 Token 序列和语法树
  serve   启动 HTTP / WebSocket 检查服务
  lsp     在标准输入输出上运行语言服务器
  fmt     重新排版源文件
  init    在当前目录生成 minic.toml
  version 显示版本`,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRun: func(cmd *cobra.Command, args []string) {
			if g.noColor {
				errors.DisableColors()
			}
		},
	}

	root.PersistentFlags().StringVar(&g.configPath, "config", "", "config file (default: nearest "+config.ConfigFileName+")")
	root.PersistentFlags().StringVar(&g.lang, "lang", "", "message language: en, zh (default: detect)")
	root.PersistentFlags().BoolVarP(&g.verbose, "verbose", "v", false, "debug logging")
	root.PersistentFlags().BoolVar(&g.noColor, "no-color", false, "disable colored diagnostics")

	root.AddCommand(
		newCompileCmd(g, modeTokens),
		newCompileCmd(g, modeAST),
		newCompileCmd(g, modeParse),
		newServeCmd(g),
		newLSPCmd(g),
		newFmtCmd(g),
		newInitCmd(),
		newVersionCmd(),
	)
	return root
}

// setup 加载配置、设置界面语言并创建日志器
//
// inputPath 用于向上查找配置文件，标准输入传 "-"。
func (g *globalOptions) setup(inputPath string) (*config.Config, *zap.Logger, error) {
	cfg, err := config.Resolve(g.configPath, inputPath)
	if err != nil {
		return nil, nil, err
	}

	langName := cfg.Log.Language
	if g.lang != "" {
		langName = g.lang
	}
	lang, err := i18n.ParseLanguage(langName)
	if err != nil {
		return nil, nil, fmt.Errorf("--lang: %w", err)
	}
	i18n.SetLanguage(lang)

	logger, err := logging.New(cfg.Log, g.verbose)
	if err != nil {
		return nil, nil, err
	}
	if cfg.Path != "" {
		logger.Debug("config loaded", zap.String("path", cfg.Path))
	}
	return cfg, logger, nil
}
