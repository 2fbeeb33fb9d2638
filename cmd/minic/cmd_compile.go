package main

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/tangzhangming/minic/internal/errors"
	"github.com/tangzhangming/minic/internal/frontend"
	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/serializer"
	"github.com/tangzhangming/minic/internal/token"
)

// stdinName 标准输入在诊断信息中的名称
const stdinName = "<stdin>"

type compileMode int

const (
	modeTokens compileMode = iota // 只做词法分析
	modeAST                       // 输出语法树
	modeParse                     // 输出组合文档
)

type compileOptions struct {
	format    string
	tokensOut string
	astOut    string
}

// output 一个待写出的结果，空路径表示标准输出
type output struct {
	path string
	data []byte
}

func newCompileCmd(g *globalOptions, mode compileMode) *cobra.Command {
	opts := &compileOptions{}

	cmd := &cobra.Command{
		Args: cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runCompile(cmd, g, opts, mode, args[0])
		},
	}
	switch mode {
	case modeTokens:
		cmd.Use = "tokens FILE"
		cmd.Short = "Print the token stream of FILE (- for stdin)"
	case modeAST:
		cmd.Use = "ast FILE"
		cmd.Short = "Print the syntax tree of FILE (- for stdin)"
	case modeParse:
		cmd.Use = "parse FILE"
		cmd.Short = "Print tokens and syntax tree of FILE as one document (- for stdin)"
	}

	cmd.Flags().StringVarP(&opts.format, "format", "f", "", "output format: json, yaml (default from config)")
	cmd.Flags().StringVar(&opts.tokensOut, "tokens-out", "", "write the token stream to this file")
	if mode != modeTokens {
		cmd.Flags().StringVar(&opts.astOut, "ast-out", "", "write the syntax tree to this file")
	}
	return cmd
}

// runCompile 执行 tokens / ast / parse 命令
//
// 所有输出在编译成功后才写出；出错时标准输出和输出文件都不会被写入。
// 命令的主输出写到标准输出，除非它被对应的 --*-out 重定向到文件；
// parse 的两部分中只有一部分写入文件时，另一部分单独写到标准输出。
func runCompile(cmd *cobra.Command, g *globalOptions, opts *compileOptions, mode compileMode, path string) error {
	cfg, logger, err := g.setup(path)
	if err != nil {
		return err
	}
	defer func() { _ = logger.Sync() }()

	if opts.format != "" {
		cfg.Output.Format = opts.format
	}
	if _, err := serializer.ParseFormat(cfg.Output.Format); err != nil {
		return fmt.Errorf("--format: %w", err)
	}
	fopts := frontend.OptionsFromConfig(cfg)

	source, filename, err := readSource(cmd.InOrStdin(), path)
	if err != nil {
		return err
	}

	var (
		tokens []token.Token
		result *frontend.Result
	)
	if mode == modeTokens {
		tokens, err = frontend.Tokenize(source, filename)
	} else {
		result, err = frontend.Compile(source, filename, fopts)
		if result != nil {
			tokens = result.Tokens
		}
	}
	if err != nil {
		return reportError(cmd.ErrOrStderr(), filename, source, err)
	}
	logger.Debug("compiled", zap.String("file", filename), zap.Int("tokens", len(tokens)))

	outputs, err := renderOutputs(mode, opts, tokens, result, fopts.Output)
	if err != nil {
		return err
	}
	for _, out := range outputs {
		if out.path == "" {
			if _, err := cmd.OutOrStdout().Write(out.data); err != nil {
				return err
			}
			continue
		}
		if err := os.WriteFile(out.path, out.data, 0644); err != nil {
			return err
		}
		logger.Debug("wrote output", zap.String("path", out.path))
	}
	return nil
}

func renderOutputs(mode compileMode, opts *compileOptions, tokens []token.Token, result *frontend.Result, sopts serializer.Options) ([]output, error) {
	var outputs []output

	if opts.tokensOut != "" {
		data, err := serializer.Tokens(tokens, sopts)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, output{path: opts.tokensOut, data: data})
	}
	if opts.astOut != "" && result != nil {
		data, err := serializer.Tree(result.Tree, sopts)
		if err != nil {
			return nil, err
		}
		outputs = append(outputs, output{path: opts.astOut, data: data})
	}

	// 没有被输出文件接走的部分写到标准输出
	var (
		data []byte
		err  error
	)
	switch mode {
	case modeTokens:
		if opts.tokensOut != "" {
			return outputs, nil
		}
		data, err = serializer.Tokens(tokens, sopts)
	case modeAST:
		if opts.astOut != "" {
			return outputs, nil
		}
		data, err = serializer.Tree(result.Tree, sopts)
	default:
		switch {
		case opts.tokensOut != "" && opts.astOut != "":
			return outputs, nil
		case opts.tokensOut != "":
			data, err = serializer.Tree(result.Tree, sopts)
		case opts.astOut != "":
			data, err = serializer.Tokens(tokens, sopts)
		default:
			data, err = result.Render(sopts)
		}
	}
	if err != nil {
		return nil, err
	}
	return append(outputs, output{data: data}), nil
}

// readSource 读取源文件，path 为 "-" 时读取标准输入
func readSource(stdin io.Reader, path string) (string, string, error) {
	if path == "-" {
		data, err := io.ReadAll(stdin)
		if err != nil {
			return "", "", fmt.Errorf("reading stdin: %w", err)
		}
		return string(data), stdinName, nil
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return "", "", err
	}
	return string(data), path, nil
}

// reportError 输出带源码上下文的诊断信息
func reportError(w io.Writer, filename, source string, err error) error {
	reporter := errors.NewReporter(w)
	reporter.SetSource(filename, source)
	reporter.Report(err)
	fmt.Fprintln(w, i18n.T(i18n.MsgErrorCount, reporter.ErrorCount()))
	return errCompileFailed
}
