package parser

import (
	"errors"
	"strings"
	"testing"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/token"
)

func parse(t *testing.T, input string) *ast.Program {
	t.Helper()
	prog, err := Parse(input, "test.c", Options{})
	if err != nil {
		t.Fatalf("parser error: %v", err)
	}
	return prog
}

// parseExpr 把表达式包在函数中解析，返回表达式本身
func parseExpr(t *testing.T, expr string) ast.Expression {
	t.Helper()
	prog := parse(t, "void f() { "+expr+"; }")
	stmt, ok := prog.Functions[0].Body.Statements[0].(*ast.ExprStmt)
	if !ok {
		t.Fatalf("expected ExprStmt, got %T", prog.Functions[0].Body.Statements[0])
	}
	return stmt.Expr
}

func syntaxError(t *testing.T, input string) *SyntaxError {
	t.Helper()
	_, err := Parse(input, "test.c", Options{})
	var synErr *SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("%q: expected *SyntaxError, got %v", input, err)
	}
	return synErr
}

func TestParseFunctions(t *testing.T) {
	prog := parse(t, `
int add(int a, int b) { return a + b; }
void main() { outputInt(add(1, 2)); }
`)
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}

	add := prog.Functions[0]
	if add.Name.Name != "add" || add.IsVoid() || len(add.Params) != 2 {
		t.Errorf("unexpected function: %s", add)
	}
	if add.Params[1].Name.Name != "b" {
		t.Errorf("second param: %s", add.Params[1])
	}
	if !prog.Functions[1].IsVoid() {
		t.Error("main should be void")
	}
}

func TestParseEmptyFunction(t *testing.T) {
	prog := parse(t, "void main() {}")
	fn := prog.Functions[0]
	if len(fn.Params) != 0 || len(fn.Body.Statements) != 0 {
		t.Errorf("expected empty function, got %s", fn)
	}
}

func TestParsePrecedence(t *testing.T) {
	tests := []struct {
		input    string
		expected string
	}{
		{"1 + 2 * 3", "(1 + (2 * 3))"},
		{"1 * 2 + 3", "((1 * 2) + 3)"},
		{"1 - 2 - 3", "((1 - 2) - 3)"},
		{"a || b && c", "(a || (b && c))"},
		{"a == b < c", "(a == (b < c))"},
		{"a + 1 >= b * 2", "((a + 1) >= (b * 2))"},
		{"a != b || c", "((a != b) || c)"},
		{"2 ^ 3 ^ 2", "(2 ^ (3 ^ 2))"},
		{"-2 ^ 2", "(-(2 ^ 2))"},
		{"2 ^ -1", "(2 ^ (-1))"},
		{"2 * 3 ^ 2", "(2 * (3 ^ 2))"},
		{"--a", "(-(-a))"},
		{"(1 + 2) * 3", "((1 + 2) * 3)"},
		{"f(1, g(x)) + inputInt()", "(f(1, g(x)) + inputInt())"},
	}

	for _, tt := range tests {
		got := parseExpr(t, tt.input).String()
		if got != tt.expected {
			t.Errorf("%q: got %s, want %s", tt.input, got, tt.expected)
		}
	}
}

func TestParseParenExprIsKept(t *testing.T) {
	expr := parseExpr(t, "(a)")
	if _, ok := expr.(*ast.ParenExpr); !ok {
		t.Fatalf("expected ParenExpr, got %T", expr)
	}
}

func TestParseDanglingElse(t *testing.T) {
	prog := parse(t, "void f() { if (a) if (b) x = 1; else x = 2; }")
	outer, ok := prog.Functions[0].Body.Statements[0].(*ast.IfStmt)
	if !ok {
		t.Fatalf("expected IfStmt, got %T", prog.Functions[0].Body.Statements[0])
	}
	if outer.Else != nil {
		t.Fatal("else bound to the outer if")
	}
	inner, ok := outer.Then.(*ast.IfStmt)
	if !ok || inner.Else == nil {
		t.Fatalf("else should bind to the inner if: %s", outer)
	}
}

func TestParseStatements(t *testing.T) {
	tests := []struct {
		input string
		want  string // 语句的 String() 形式
	}{
		{"int a, b, c;", "int a, b, c;"},
		{"x = y + 1;", "x = (y + 1);"},
		{"while (i < 10) i = i + 1;", "while ((i < 10)) i = (i + 1);"},
		{"outer: while (1) { break outer; }", "outer: while (1) { break outer; }"},
		{"while (1) { continue; }", "while (1) { continue; }"},
		{"while (1) continue loop;", "while (1) continue loop;"},
		{"outputInt(inputInt());", "outputInt(inputInt());"},
		{";", ";"},
		{"{ ; { } }", "{ ; {  } }"},
		{"f();", "f();"},
		{"return;", "return;"},
	}

	for _, tt := range tests {
		prog := parse(t, "void f() { "+tt.input+" }")
		stmts := prog.Functions[0].Body.Statements
		if len(stmts) != 1 {
			t.Errorf("%q: expected 1 statement, got %d", tt.input, len(stmts))
			continue
		}
		if got := stmts[0].String(); got != tt.want {
			t.Errorf("%q: got %q, want %q", tt.input, got, tt.want)
		}
	}
}

func TestParseLabeledWhile(t *testing.T) {
	prog := parse(t, "void f() { outer: while (1) { inner: while (0) continue outer; } }")
	loop, ok := prog.Functions[0].Body.Statements[0].(*ast.WhileStmt)
	if !ok || loop.Label == nil || loop.Label.Name != "outer" {
		t.Fatalf("expected labeled while, got %v", prog.Functions[0].Body.Statements[0])
	}
	if loop.Pos().Line != 1 || loop.Pos().Column != 12 {
		t.Errorf("labeled loop should start at its label, got %s", loop.Pos())
	}
}

func TestParseReturnGating(t *testing.T) {
	if prog := parse(t, "int f() { return 1; }"); prog.Functions[0].Body.Statements[0].(*ast.ReturnStmt).Value == nil {
		t.Error("return value dropped")
	}

	tests := []struct {
		input string
		msgID string
		col   int
	}{
		{"void f() { return 1; }", i18n.ErrReturnValueInVoid, 19},
		{"int f() { return; }", i18n.ErrReturnMissingValue, 17},
	}
	for _, tt := range tests {
		err := syntaxError(t, tt.input)
		if err.MsgID != tt.msgID {
			t.Errorf("%q: message id %s, want %s", tt.input, err.MsgID, tt.msgID)
		}
		if err.Pos.Column != tt.col {
			t.Errorf("%q: column %d, want %d", tt.input, err.Pos.Column, tt.col)
		}
	}
}

func TestParseDeclMissingSemicolon(t *testing.T) {
	err := syntaxError(t, "void main() { int x")
	if err.Found.Type != token.EOF {
		t.Errorf("expected error at end of input, found %s", err.Found)
	}
	if err.Pos.Column != 20 {
		t.Errorf("error column %d, want 20", err.Pos.Column)
	}
	want := []token.TokenType{token.COMMA, token.SEMICOLON}
	if len(err.Expected) != len(want) || err.Expected[0] != want[0] || err.Expected[1] != want[1] {
		t.Errorf("expected set %v, want %v", err.Expected, want)
	}
	if !strings.Contains(err.Error(), "end of input") {
		t.Errorf("message should mention end of input: %s", err)
	}
}

func TestParseSyntaxErrors(t *testing.T) {
	tests := []struct {
		input string
		msgID string
		found string
	}{
		{"", i18n.ErrEmptyProgram, ""},
		{"main() {}", i18n.ErrExpectedToken, "main"},
		{"int f(int a,) {}", i18n.ErrExpectedToken, ")"},
		{"int f(a) {}", i18n.ErrExpectedToken, "a"},
		{"void f() { x = ; }", i18n.ErrExpectedExpression, ";"},
		{"void f() { x = 5! ; }", i18n.ErrExpectedToken, "!"},
		{"void f() { explain; }", i18n.ErrExpectedExpression, "explain"},
		{`void f() { outputInt("s"); }`, i18n.ErrExpectedExpression, `"s"`},
		{"void f() { lbl: x = 1; }", i18n.ErrExpectedToken, "x"},
		{"void f() { break 1; }", i18n.ErrExpectedToken, "1"},
		{"void f() { if a) ; }", i18n.ErrExpectedToken, "a"},
		{"void f() { a = 1 }", i18n.ErrExpectedToken, "}"},
		{"void f() { a = 1;", i18n.ErrExpectedToken, ""},
	}

	for _, tt := range tests {
		err := syntaxError(t, tt.input)
		if err.MsgID != tt.msgID {
			t.Errorf("%q: message id %s, want %s (%v)", tt.input, err.MsgID, tt.msgID, err)
		}
		if err.Found.Literal != tt.found {
			t.Errorf("%q: found %q, want %q", tt.input, err.Found.Literal, tt.found)
		}
	}
}

func TestParseLexErrorPassesThrough(t *testing.T) {
	_, err := Parse("void f() { x = 1 @ 2; }", "test.c", Options{})
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.Error, got %v", err)
	}
	if lexErr.Pos.Column != 18 {
		t.Errorf("lex error column %d, want 18", lexErr.Pos.Column)
	}
}

func TestParseDepthLimit(t *testing.T) {
	deep := "void f() { x = " + strings.Repeat("(", 300) + "1" + strings.Repeat(")", 300) + "; }"

	_, err := Parse(deep, "test.c", Options{})
	var depthErr *DepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("expected *DepthError, got %v", err)
	}
	if depthErr.Limit != DefaultMaxDepth {
		t.Errorf("limit %d, want %d", depthErr.Limit, DefaultMaxDepth)
	}

	if _, err := Parse(deep, "test.c", Options{MaxDepth: 1000}); err != nil {
		t.Errorf("raised limit should accept the input: %v", err)
	}

	nested := "void f() " + strings.Repeat("{ ", 50) + strings.Repeat("} ", 50)
	if _, err := Parse(nested, "test.c", Options{MaxDepth: 10}); !errors.As(err, &depthErr) {
		t.Errorf("nested blocks: expected *DepthError, got %v", err)
	}
}

func TestParseDepthLimitIsCapped(t *testing.T) {
	n := MaxDepthLimit + 10
	deep := "void f() { x = " + strings.Repeat("(", n) + "1" + strings.Repeat(")", n) + "; }"

	_, err := Parse(deep, "test.c", Options{MaxDepth: 1 << 30})
	var depthErr *DepthError
	if !errors.As(err, &depthErr) {
		t.Fatalf("expected *DepthError, got %v", err)
	}
	if depthErr.Limit != MaxDepthLimit {
		t.Errorf("limit %d, want %d", depthErr.Limit, MaxDepthLimit)
	}
}

func TestParseLazyTokens(t *testing.T) {
	l := lexer.New("void f() { } void g() { }", "test.c")
	prog, err := New(l, Options{}).Parse()
	if err != nil {
		t.Fatal(err)
	}
	if len(prog.Functions) != 2 {
		t.Fatalf("expected 2 functions, got %d", len(prog.Functions))
	}

	// 解析结束后重置词法分析器可以重新扫描
	l.Reset()
	tokens, err := l.ScanTokens()
	if err != nil || len(tokens) != 12 {
		t.Errorf("rescan: %d tokens, err %v", len(tokens), err)
	}
}
