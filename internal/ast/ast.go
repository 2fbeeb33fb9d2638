package ast

import (
	"strconv"
	"strings"

	"github.com/tangzhangming/minic/internal/token"
)

// Node 是所有 AST 节点的基接口
type Node interface {
	Pos() token.Position // 返回节点在源代码中的位置
	String() string      // 返回节点的字符串表示（用于调试）
}

// Expression 表示一个表达式节点
type Expression interface {
	Node
	exprNode()
}

// Statement 表示一个语句节点
type Statement interface {
	Node
	stmtNode()
}

// ============================================================================
// 程序结构
// ============================================================================

// Program 整个翻译单元，由若干函数组成
type Program struct {
	Functions []*FuncDecl
}

func (p *Program) Pos() token.Position {
	if len(p.Functions) > 0 {
		return p.Functions[0].Pos()
	}
	return token.Position{}
}
func (p *Program) String() string {
	var parts []string
	for _, fn := range p.Functions {
		parts = append(parts, fn.String())
	}
	return strings.Join(parts, "\n")
}

// FuncDecl 函数定义
type FuncDecl struct {
	ReturnType token.Token // int 或 void
	Name       *Identifier
	Params     []*Param
	Body       *BlockStmt
}

func (f *FuncDecl) Pos() token.Position { return f.ReturnType.Pos }
func (f *FuncDecl) String() string {
	var params []string
	for _, p := range f.Params {
		params = append(params, p.String())
	}
	return f.ReturnType.Literal + " " + f.Name.Name + "(" + strings.Join(params, ", ") + ") " + f.Body.String()
}

// IsVoid 函数是否声明为 void
func (f *FuncDecl) IsVoid() bool {
	return f.ReturnType.Type == token.VOID
}

// Param 函数参数（只有 int 类型）
type Param struct {
	TypeToken token.Token
	Name      *Identifier
}

func (p *Param) Pos() token.Position { return p.TypeToken.Pos }
func (p *Param) String() string      { return "int " + p.Name.Name }

// ============================================================================
// 语句节点
// ============================================================================

// BlockStmt 代码块 { ... }
type BlockStmt struct {
	LBrace     token.Token
	Statements []Statement
}

func (s *BlockStmt) Pos() token.Position { return s.LBrace.Pos }
func (s *BlockStmt) String() string {
	var parts []string
	for _, stmt := range s.Statements {
		parts = append(parts, stmt.String())
	}
	return "{ " + strings.Join(parts, " ") + " }"
}
func (s *BlockStmt) stmtNode() {}

// DeclStmt 变量声明 int a, b;
type DeclStmt struct {
	IntToken token.Token
	Names    []*Identifier
}

func (s *DeclStmt) Pos() token.Position { return s.IntToken.Pos }
func (s *DeclStmt) String() string {
	var names []string
	for _, n := range s.Names {
		names = append(names, n.Name)
	}
	return "int " + strings.Join(names, ", ") + ";"
}
func (s *DeclStmt) stmtNode() {}

// AssignStmt 赋值语句 x = expr;
type AssignStmt struct {
	Target *Identifier
	Value  Expression
}

func (s *AssignStmt) Pos() token.Position { return s.Target.Pos() }
func (s *AssignStmt) String() string      { return s.Target.Name + " = " + s.Value.String() + ";" }
func (s *AssignStmt) stmtNode()           {}

// IfStmt if 语句，Else 为 nil 表示没有 else 分支
type IfStmt struct {
	IfToken   token.Token
	Condition Expression
	Then      Statement
	Else      Statement
}

func (s *IfStmt) Pos() token.Position { return s.IfToken.Pos }
func (s *IfStmt) String() string {
	out := "if (" + s.Condition.String() + ") " + s.Then.String()
	if s.Else != nil {
		out += " else " + s.Else.String()
	}
	return out
}
func (s *IfStmt) stmtNode() {}

// WhileStmt while 循环，Label 为 nil 表示未加标签
type WhileStmt struct {
	Label      *Identifier
	WhileToken token.Token
	Condition  Expression
	Body       Statement
}

func (s *WhileStmt) Pos() token.Position {
	if s.Label != nil {
		return s.Label.Pos()
	}
	return s.WhileToken.Pos
}
func (s *WhileStmt) String() string {
	prefix := ""
	if s.Label != nil {
		prefix = s.Label.Name + ": "
	}
	return prefix + "while (" + s.Condition.String() + ") " + s.Body.String()
}
func (s *WhileStmt) stmtNode() {}

// BreakStmt break [label];
type BreakStmt struct {
	BreakToken token.Token
	Label      *Identifier
}

func (s *BreakStmt) Pos() token.Position { return s.BreakToken.Pos }
func (s *BreakStmt) String() string      { return withLabel("break", s.Label) }
func (s *BreakStmt) stmtNode()           {}

// ContinueStmt continue [label];
type ContinueStmt struct {
	ContinueToken token.Token
	Label         *Identifier
}

func (s *ContinueStmt) Pos() token.Position { return s.ContinueToken.Pos }
func (s *ContinueStmt) String() string      { return withLabel("continue", s.Label) }
func (s *ContinueStmt) stmtNode()           {}

func withLabel(keyword string, label *Identifier) string {
	if label == nil {
		return keyword + ";"
	}
	return keyword + " " + label.Name + ";"
}

// ReturnStmt return [expr];
type ReturnStmt struct {
	ReturnToken token.Token
	Value       Expression // 可为 nil
}

func (s *ReturnStmt) Pos() token.Position { return s.ReturnToken.Pos }
func (s *ReturnStmt) String() string {
	if s.Value == nil {
		return "return;"
	}
	return "return " + s.Value.String() + ";"
}
func (s *ReturnStmt) stmtNode() {}

// OutputStmt outputInt(expr);
type OutputStmt struct {
	OutputToken token.Token
	Value       Expression
}

func (s *OutputStmt) Pos() token.Position { return s.OutputToken.Pos }
func (s *OutputStmt) String() string      { return "outputInt(" + s.Value.String() + ");" }
func (s *OutputStmt) stmtNode()           {}

// ExprStmt 表达式语句
type ExprStmt struct {
	Expr Expression
}

func (s *ExprStmt) Pos() token.Position { return s.Expr.Pos() }
func (s *ExprStmt) String() string      { return s.Expr.String() + ";" }
func (s *ExprStmt) stmtNode()           {}

// EmptyStmt 空语句 ;
type EmptyStmt struct {
	Semicolon token.Token
}

func (s *EmptyStmt) Pos() token.Position { return s.Semicolon.Pos }
func (s *EmptyStmt) String() string      { return ";" }
func (s *EmptyStmt) stmtNode()           {}

// ============================================================================
// 表达式节点
// ============================================================================

// Identifier 标识符
type Identifier struct {
	Token token.Token
	Name  string
}

func (e *Identifier) Pos() token.Position { return e.Token.Pos }
func (e *Identifier) String() string      { return e.Name }
func (e *Identifier) exprNode()           {}

// IntegerLiteral 整数字面量
type IntegerLiteral struct {
	Token token.Token
	Value int64
}

func (e *IntegerLiteral) Pos() token.Position { return e.Token.Pos }
func (e *IntegerLiteral) String() string      { return strconv.FormatInt(e.Value, 10) }
func (e *IntegerLiteral) exprNode()           {}

// InputExpr inputInt()
type InputExpr struct {
	Token token.Token
}

func (e *InputExpr) Pos() token.Position { return e.Token.Pos }
func (e *InputExpr) String() string      { return "inputInt()" }
func (e *InputExpr) exprNode()           {}

// CallExpr 函数调用 f(a, b)
type CallExpr struct {
	Callee *Identifier
	Args   []Expression
}

func (e *CallExpr) Pos() token.Position { return e.Callee.Pos() }
func (e *CallExpr) String() string {
	var args []string
	for _, a := range e.Args {
		args = append(args, a.String())
	}
	return e.Callee.Name + "(" + strings.Join(args, ", ") + ")"
}
func (e *CallExpr) exprNode() {}

// BinaryExpr 二元表达式，Op 取 ADD..OR 之一
type BinaryExpr struct {
	Left     Expression
	Operator token.Token
	Op       Kind
	Right    Expression
}

func (e *BinaryExpr) Pos() token.Position { return e.Left.Pos() }
func (e *BinaryExpr) String() string {
	return "(" + e.Left.String() + " " + e.Op.Symbol() + " " + e.Right.String() + ")"
}
func (e *BinaryExpr) exprNode() {}

// UnaryExpr 一元负号 -x
type UnaryExpr struct {
	Operator token.Token
	Operand  Expression
}

func (e *UnaryExpr) Pos() token.Position { return e.Operator.Pos }
func (e *UnaryExpr) String() string      { return "(-" + e.Operand.String() + ")" }
func (e *UnaryExpr) exprNode()           {}

// ParenExpr 括号表达式 ( expr )
type ParenExpr struct {
	LParen token.Token
	Inner  Expression
}

func (e *ParenExpr) Pos() token.Position { return e.LParen.Pos }
func (e *ParenExpr) String() string      { return e.Inner.String() }
func (e *ParenExpr) exprNode()           {}
