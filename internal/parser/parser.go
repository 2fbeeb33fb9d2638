package parser

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/token"
)

// ============================================================================
// Parser - 递归下降语法分析器
// ============================================================================
//
// 语法（优先级从低到高）：
//
//	program    = function { function }
//	function   = ("int" | "void") IDENT "(" [ params ] ")" block
//	params     = "int" IDENT { "," "int" IDENT }
//	block      = "{" { statement } "}"
//	statement  = decl | assign | if | [ IDENT ":" ] while | break | continue
//	           | return | block | output | expr ";" | ";"
//	expr       = or
//	or         = and { "||" and }
//	and        = equality { "&&" equality }
//	equality   = relational { ("==" | "!=") relational }
//	relational = additive { ("<" | ">" | "<=" | ">=") additive }
//	additive   = term { ("+" | "-") term }
//	term       = unary { ("*" | "/") unary }
//	unary      = "-" unary | power
//	power      = primary [ "^" unary ]
//	primary    = IDENT | INT | "(" expr ")" | IDENT "(" [ args ] ")" | "inputInt" "(" ")"
//
// 解析器通常只看一个 Token，仅在识别 "label :" 时多看一个。
// 遇到第一个错误立即停止，不做错误恢复。
//
// ============================================================================

// DefaultMaxDepth 默认最大嵌套深度，防止栈溢出
const DefaultMaxDepth = 200

// MaxDepthLimit 嵌套深度配置的上限，更大的值会被截断到这里
const MaxDepthLimit = 10000

// Options 解析选项
type Options struct {
	MaxDepth int // 最大嵌套深度，<= 0 时使用 DefaultMaxDepth，最大 MaxDepthLimit
}

// SyntaxError 语法错误
type SyntaxError struct {
	Pos      token.Position    // 出错 Token 的位置
	Found    token.Token       // 实际遇到的 Token
	Expected []token.TokenType // 期望的 Token 类型集合，可能为空
	Message  string
	MsgID    string
}

func (e *SyntaxError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, e.Message)
}

// DepthError 嵌套深度超出上限
type DepthError struct {
	Pos   token.Position
	Limit int
}

func (e *DepthError) Error() string {
	return fmt.Sprintf("%s: %s", e.Pos, i18n.T(i18n.ErrTooDeep, e.Limit))
}

// bailout 用于在出错时展开递归，只在 Parse 内部使用
type bailout struct{ err error }

// Parser 语法分析器
type Parser struct {
	lexer    *lexer.Lexer
	buf      []token.Token // 已读取但未消费的 Token
	maxDepth int
	depth    int
	function *ast.FuncDecl // 当前所在函数，用于检查 return
}

// New 基于词法分析器创建语法分析器，Token 按需拉取
func New(l *lexer.Lexer, opts Options) *Parser {
	maxDepth := opts.MaxDepth
	if maxDepth <= 0 {
		maxDepth = DefaultMaxDepth
	}
	if maxDepth > MaxDepthLimit {
		maxDepth = MaxDepthLimit
	}
	return &Parser{
		lexer:    l,
		maxDepth: maxDepth,
	}
}

// Parse 解析源码的便捷函数
func Parse(source, filename string, opts Options) (*ast.Program, error) {
	return New(lexer.New(source, filename), opts).Parse()
}

// Parse 解析整个程序
//
// 成功时返回完整的 *ast.Program；失败时返回 nil 和第一个错误
// （*lexer.Error、*SyntaxError 或 *DepthError）。
func (p *Parser) Parse() (prog *ast.Program, err error) {
	defer func() {
		if r := recover(); r != nil {
			b, ok := r.(bailout)
			if !ok {
				panic(r)
			}
			prog, err = nil, b.err
		}
	}()

	prog = &ast.Program{}
	if p.check(token.EOF) {
		p.fail(i18n.ErrEmptyProgram, []token.TokenType{token.INT, token.VOID})
	}
	for !p.check(token.EOF) {
		prog.Functions = append(prog.Functions, p.parseFunction())
	}
	return prog, nil
}

// ============================================================================
// 辅助方法
// ============================================================================

// peekAt 查看第 n 个未消费的 Token（0 为当前）
func (p *Parser) peekAt(n int) token.Token {
	for len(p.buf) <= n {
		tok, err := p.lexer.Next()
		if err != nil {
			panic(bailout{err})
		}
		p.buf = append(p.buf, tok)
	}
	return p.buf[n]
}

func (p *Parser) peek() token.Token {
	return p.peekAt(0)
}

func (p *Parser) advance() token.Token {
	tok := p.peek()
	if tok.Type != token.EOF {
		p.buf = p.buf[1:]
	}
	return tok
}

func (p *Parser) check(t token.TokenType) bool {
	return p.peek().Type == t
}

func (p *Parser) match(types ...token.TokenType) bool {
	for _, t := range types {
		if p.check(t) {
			p.advance()
			return true
		}
	}
	return false
}

// consume 消费期望的 Token，否则报告 "expected X, found Y"
func (p *Parser) consume(t token.TokenType) token.Token {
	if p.check(t) {
		return p.advance()
	}
	p.expected(t)
	return token.Token{}
}

func (p *Parser) expected(types ...token.TokenType) {
	p.fail(i18n.ErrExpectedToken, types)
}

// fail 在当前 Token 处报告语法错误并终止解析
func (p *Parser) fail(msgID string, expected []token.TokenType) {
	found := p.peek()
	var msg string
	switch msgID {
	case i18n.ErrExpectedToken:
		msg = i18n.T(msgID, describeSet(expected), describe(found))
	case i18n.ErrExpectedExpression, i18n.ErrUnexpectedToken:
		msg = i18n.T(msgID, describe(found))
	default:
		msg = i18n.T(msgID)
	}
	p.failAt(found, msgID, msg, expected)
}

func (p *Parser) failAt(found token.Token, msgID, msg string, expected []token.TokenType) {
	panic(bailout{&SyntaxError{
		Pos:      found.Pos,
		Found:    found,
		Expected: expected,
		Message:  msg,
		MsgID:    msgID,
	}})
}

// enter 进入一层嵌套，超过上限时报告 DepthError
func (p *Parser) enter() {
	p.depth++
	if p.depth > p.maxDepth {
		panic(bailout{&DepthError{Pos: p.peek().Pos, Limit: p.maxDepth}})
	}
}

func (p *Parser) leave() {
	p.depth--
}

func describe(tok token.Token) string {
	if tok.Type == token.EOF {
		return token.EOF.Describe()
	}
	return "'" + tok.Literal + "'"
}

func describeSet(types []token.TokenType) string {
	names := make([]string, len(types))
	for i, t := range types {
		names[i] = t.Describe()
	}
	if len(names) <= 1 {
		return strings.Join(names, "")
	}
	return strings.Join(names[:len(names)-1], ", ") + " or " + names[len(names)-1]
}

func (p *Parser) identifier() *ast.Identifier {
	tok := p.consume(token.IDENT)
	return &ast.Identifier{Token: tok, Name: tok.Literal}
}

// ============================================================================
// 函数
// ============================================================================

func (p *Parser) parseFunction() *ast.FuncDecl {
	if !p.check(token.INT) && !p.check(token.VOID) {
		p.expected(token.INT, token.VOID)
	}
	fn := &ast.FuncDecl{ReturnType: p.advance()}
	fn.Name = p.identifier()

	p.consume(token.LPAREN)
	if !p.check(token.RPAREN) {
		fn.Params = append(fn.Params, p.parseParam())
		for p.match(token.COMMA) {
			fn.Params = append(fn.Params, p.parseParam())
		}
	}
	if !p.check(token.RPAREN) {
		p.expected(token.COMMA, token.RPAREN)
	}
	p.advance()

	p.function = fn
	fn.Body = p.parseBlock()
	p.function = nil
	return fn
}

func (p *Parser) parseParam() *ast.Param {
	typeTok := p.consume(token.INT)
	return &ast.Param{TypeToken: typeTok, Name: p.identifier()}
}

// ============================================================================
// 语句
// ============================================================================

func (p *Parser) parseBlock() *ast.BlockStmt {
	block := &ast.BlockStmt{LBrace: p.consume(token.LBRACE)}
	for !p.check(token.RBRACE) {
		if p.check(token.EOF) {
			p.expected(token.RBRACE)
		}
		block.Statements = append(block.Statements, p.parseStatement())
	}
	p.advance()
	return block
}

func (p *Parser) parseStatement() ast.Statement {
	p.enter()
	defer p.leave()

	switch p.peek().Type {
	case token.INT:
		return p.parseDecl()
	case token.IF:
		return p.parseIf()
	case token.WHILE:
		return p.parseWhile(nil)
	case token.BREAK:
		tok := p.advance()
		return &ast.BreakStmt{BreakToken: tok, Label: p.parseJumpLabel()}
	case token.CONTINUE:
		tok := p.advance()
		return &ast.ContinueStmt{ContinueToken: tok, Label: p.parseJumpLabel()}
	case token.RETURN:
		return p.parseReturn()
	case token.LBRACE:
		return p.parseBlock()
	case token.OUTPUT_INT:
		return p.parseOutput()
	case token.SEMICOLON:
		return &ast.EmptyStmt{Semicolon: p.advance()}
	case token.IDENT:
		switch p.peekAt(1).Type {
		case token.COLON:
			label := p.identifier()
			p.advance() // :
			if !p.check(token.WHILE) {
				p.expected(token.WHILE)
			}
			return p.parseWhile(label)
		case token.ASSIGN:
			target := p.identifier()
			p.advance() // =
			value := p.parseExpression()
			p.consume(token.SEMICOLON)
			return &ast.AssignStmt{Target: target, Value: value}
		}
	}

	expr := p.parseExpression()
	p.consume(token.SEMICOLON)
	return &ast.ExprStmt{Expr: expr}
}

// parseDecl int a, b, c;
func (p *Parser) parseDecl() *ast.DeclStmt {
	decl := &ast.DeclStmt{IntToken: p.advance()}
	decl.Names = append(decl.Names, p.identifier())
	for p.match(token.COMMA) {
		decl.Names = append(decl.Names, p.identifier())
	}
	if !p.check(token.SEMICOLON) {
		p.expected(token.COMMA, token.SEMICOLON)
	}
	p.advance()
	return decl
}

// parseIf else 总是绑定到最近的 if
func (p *Parser) parseIf() *ast.IfStmt {
	stmt := &ast.IfStmt{IfToken: p.advance()}
	p.consume(token.LPAREN)
	stmt.Condition = p.parseExpression()
	p.consume(token.RPAREN)
	stmt.Then = p.parseStatement()
	if p.match(token.ELSE) {
		stmt.Else = p.parseStatement()
	}
	return stmt
}

func (p *Parser) parseWhile(label *ast.Identifier) *ast.WhileStmt {
	stmt := &ast.WhileStmt{Label: label, WhileToken: p.advance()}
	p.consume(token.LPAREN)
	stmt.Condition = p.parseExpression()
	p.consume(token.RPAREN)
	stmt.Body = p.parseStatement()
	return stmt
}

// parseJumpLabel 解析 break/continue 之后可选的标签和分号
func (p *Parser) parseJumpLabel() *ast.Identifier {
	var label *ast.Identifier
	if p.check(token.IDENT) {
		label = p.identifier()
	}
	if !p.check(token.SEMICOLON) {
		if label == nil {
			p.expected(token.IDENT, token.SEMICOLON)
		}
		p.expected(token.SEMICOLON)
	}
	p.advance()
	return label
}

// parseReturn 返回值必须与函数声明的返回类型一致
func (p *Parser) parseReturn() *ast.ReturnStmt {
	stmt := &ast.ReturnStmt{ReturnToken: p.advance()}
	fn := p.function

	if p.check(token.SEMICOLON) {
		if !fn.IsVoid() {
			found := p.peek()
			p.failAt(found, i18n.ErrReturnMissingValue, i18n.T(i18n.ErrReturnMissingValue, fn.Name.Name), nil)
		}
		p.advance()
		return stmt
	}

	if fn.IsVoid() {
		found := p.peek()
		p.failAt(found, i18n.ErrReturnValueInVoid, i18n.T(i18n.ErrReturnValueInVoid, fn.Name.Name),
			[]token.TokenType{token.SEMICOLON})
	}
	stmt.Value = p.parseExpression()
	p.consume(token.SEMICOLON)
	return stmt
}

// parseOutput outputInt(expr);
func (p *Parser) parseOutput() *ast.OutputStmt {
	stmt := &ast.OutputStmt{OutputToken: p.advance()}
	p.consume(token.LPAREN)
	stmt.Value = p.parseExpression()
	p.consume(token.RPAREN)
	p.consume(token.SEMICOLON)
	return stmt
}

// ============================================================================
// 表达式
// ============================================================================

// binaryLevels 二元运算符优先级表，从低到高，均为左结合
var binaryLevels = []map[token.TokenType]ast.Kind{
	{token.OR: ast.OR},
	{token.AND: ast.AND},
	{token.EQ: ast.EQ, token.NE: ast.NE},
	{token.LT: ast.LT, token.GT: ast.GT, token.LE: ast.LE, token.GE: ast.GE},
	{token.PLUS: ast.ADD, token.MINUS: ast.SUB},
	{token.STAR: ast.MUL, token.SLASH: ast.DIV},
}

func (p *Parser) parseExpression() ast.Expression {
	return p.parseBinary(0)
}

func (p *Parser) parseBinary(level int) ast.Expression {
	if level == len(binaryLevels) {
		return p.parseUnary()
	}

	left := p.parseBinary(level + 1)
	for {
		op, ok := binaryLevels[level][p.peek().Type]
		if !ok {
			return left
		}
		opTok := p.advance()
		right := p.parseBinary(level + 1)
		left = &ast.BinaryExpr{Left: left, Operator: opTok, Op: op, Right: right}
	}
}

// parseUnary 一元负号的优先级低于 ^，-2^2 == -(2^2)
func (p *Parser) parseUnary() ast.Expression {
	p.enter()
	defer p.leave()

	if p.check(token.MINUS) {
		opTok := p.advance()
		return &ast.UnaryExpr{Operator: opTok, Operand: p.parseUnary()}
	}
	return p.parsePower()
}

// parsePower ^ 右结合
func (p *Parser) parsePower() ast.Expression {
	base := p.parsePrimary()
	if !p.check(token.CARET) {
		return base
	}
	opTok := p.advance()
	return &ast.BinaryExpr{Left: base, Operator: opTok, Op: ast.POW, Right: p.parseUnary()}
}

func (p *Parser) parsePrimary() ast.Expression {
	tok := p.peek()
	switch tok.Type {
	case token.INT_CONST:
		p.advance()
		return &ast.IntegerLiteral{Token: tok, Value: parseInt(tok.Literal)}

	case token.IDENT:
		id := p.identifier()
		if p.check(token.LPAREN) {
			return p.parseCall(id)
		}
		return id

	case token.INPUT_INT:
		p.advance()
		p.consume(token.LPAREN)
		p.consume(token.RPAREN)
		return &ast.InputExpr{Token: tok}

	case token.LPAREN:
		p.advance()
		inner := p.parseExpression()
		p.consume(token.RPAREN)
		return &ast.ParenExpr{LParen: tok, Inner: inner}
	}

	p.fail(i18n.ErrExpectedExpression, nil)
	return nil
}

func (p *Parser) parseCall(callee *ast.Identifier) *ast.CallExpr {
	call := &ast.CallExpr{Callee: callee}
	p.advance() // (
	if !p.check(token.RPAREN) {
		call.Args = append(call.Args, p.parseExpression())
		for p.match(token.COMMA) {
			call.Args = append(call.Args, p.parseExpression())
		}
	}
	if !p.check(token.RPAREN) {
		p.expected(token.COMMA, token.RPAREN)
	}
	p.advance()
	return call
}

// parseInt 词法分析器已保证字面量可以表示为 int64
func parseInt(literal string) int64 {
	v, _ := strconv.ParseInt(literal, 10, 64)
	return v
}
