package formatter

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/minic/internal/ast"
)

// Printer AST 打印器
type Printer struct {
	options *Options
	buf     strings.Builder
	indent  int
}

// NewPrinter 创建打印器
func NewPrinter(options *Options) *Printer {
	return &Printer{options: options}
}

// Print 打印 AST 并返回格式化的代码
func (p *Printer) Print(prog *ast.Program) string {
	p.buf.Reset()
	p.indent = 0

	for i, fn := range prog.Functions {
		if i > 0 && p.options.BlankLineBetweenFuncs {
			p.writeln()
		}
		p.printFunction(fn)
	}

	result := p.buf.String()
	if !p.options.EnsureNewlineAtEOF {
		result = strings.TrimSuffix(result, "\n")
	}
	return result
}

// ============================================================================
// 声明
// ============================================================================

func (p *Printer) printFunction(fn *ast.FuncDecl) {
	p.write(fn.ReturnType.Literal)
	p.write(" ")
	p.write(fn.Name.Name)
	p.write("(")
	for i, param := range fn.Params {
		if i > 0 {
			p.write(", ")
		}
		p.write("int ")
		p.write(param.Name.Name)
	}
	p.write(") ")
	p.printBlock(fn.Body)
	p.writeln()
}

// printBlock 打印代码块，不输出结尾换行
func (p *Printer) printBlock(block *ast.BlockStmt) {
	if len(block.Statements) == 0 {
		p.write("{}")
		return
	}
	p.write("{")
	p.writeln()
	p.indent++
	for _, stmt := range block.Statements {
		p.writeIndent()
		p.printStatement(stmt)
		p.writeln()
	}
	p.indent--
	p.writeIndent()
	p.write("}")
}

// ============================================================================
// 语句
// ============================================================================

// printStatement 打印一条语句，调用方负责缩进和结尾换行
func (p *Printer) printStatement(stmt ast.Statement) {
	switch s := stmt.(type) {
	case *ast.BlockStmt:
		p.printBlock(s)

	case *ast.DeclStmt:
		p.write("int ")
		for i, name := range s.Names {
			if i > 0 {
				p.write(", ")
			}
			p.write(name.Name)
		}
		p.write(";")

	case *ast.AssignStmt:
		p.write(s.Target.Name)
		p.write(" = ")
		p.printExpr(s.Value)
		p.write(";")

	case *ast.IfStmt:
		p.printIf(s)

	case *ast.WhileStmt:
		if s.Label != nil {
			p.write(s.Label.Name)
			p.write(": ")
		}
		p.keywordParen("while")
		p.printExpr(s.Condition)
		p.write(")")
		p.printBody(s.Body)

	case *ast.BreakStmt:
		p.printJump("break", s.Label)

	case *ast.ContinueStmt:
		p.printJump("continue", s.Label)

	case *ast.ReturnStmt:
		p.write("return")
		if s.Value != nil {
			p.write(" ")
			p.printExpr(s.Value)
		}
		p.write(";")

	case *ast.OutputStmt:
		p.write("outputInt(")
		p.printExpr(s.Value)
		p.write(");")

	case *ast.ExprStmt:
		p.printExpr(s.Expr)
		p.write(";")

	case *ast.EmptyStmt:
		p.write(";")
	}
}

// printIf 打印 if 语句，else if 链保持在同一缩进层级
func (p *Printer) printIf(s *ast.IfStmt) {
	p.keywordParen("if")
	p.printExpr(s.Condition)
	p.write(")")
	p.printBody(s.Then)

	if s.Else == nil {
		return
	}
	if _, ok := s.Then.(*ast.BlockStmt); ok {
		p.write(" ")
	} else {
		p.writeln()
		p.writeIndent()
	}
	p.write("else")

	if elseIf, ok := s.Else.(*ast.IfStmt); ok {
		p.write(" ")
		p.printIf(elseIf)
		return
	}
	p.printBody(s.Else)
}

// printBody 打印 if / while 的分支，代码块跟在同一行，其他语句另起一行缩进
func (p *Printer) printBody(body ast.Statement) {
	if block, ok := body.(*ast.BlockStmt); ok {
		p.write(" ")
		p.printBlock(block)
		return
	}
	p.writeln()
	p.indent++
	p.writeIndent()
	p.printStatement(body)
	p.indent--
}

func (p *Printer) printJump(keyword string, label *ast.Identifier) {
	p.write(keyword)
	if label != nil {
		p.write(" ")
		p.write(label.Name)
	}
	p.write(";")
}

// ============================================================================
// 表达式
// ============================================================================

// printExpr 打印表达式；括号在语法树中保留为 ParenExpr，按原样输出即可保持结合关系
func (p *Printer) printExpr(expr ast.Expression) {
	switch e := expr.(type) {
	case *ast.Identifier:
		p.write(e.Name)

	case *ast.IntegerLiteral:
		p.write(strconv.FormatInt(e.Value, 10))

	case *ast.InputExpr:
		p.write("inputInt()")

	case *ast.CallExpr:
		p.write(e.Callee.Name)
		p.write("(")
		for i, arg := range e.Args {
			if i > 0 {
				p.write(", ")
			}
			p.printExpr(arg)
		}
		p.write(")")

	case *ast.BinaryExpr:
		p.printExpr(e.Left)
		p.write(" ")
		p.write(e.Op.Symbol())
		p.write(" ")
		p.printExpr(e.Right)

	case *ast.UnaryExpr:
		p.write("-")
		p.printExpr(e.Operand)

	case *ast.ParenExpr:
		p.write("(")
		p.printExpr(e.Inner)
		p.write(")")
	}
}

// ============================================================================
// 输出
// ============================================================================

func (p *Printer) keywordParen(keyword string) {
	p.write(keyword)
	if p.options.SpaceBeforeParen {
		p.write(" ")
	}
	p.write("(")
}

func (p *Printer) write(s string) {
	p.buf.WriteString(s)
}

func (p *Printer) writeln() {
	p.buf.WriteByte('\n')
}

func (p *Printer) writeIndent() {
	p.buf.WriteString(strings.Repeat(p.options.IndentString(), p.indent))
}
