package frontend

import (
	"errors"
	"strings"
	"testing"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/config"
	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/parser"
	"github.com/tangzhangming/minic/internal/serializer"
	"github.com/tangzhangming/minic/internal/token"
)

var validPrograms = []string{
	"void main() {}",
	`int fib(int n) {
  if (n < 2) return n;
  return fib(n - 1) + fib(n - 2);
}
void main() { outputInt(fib(inputInt())); }`,
	`int gcd(int a, int b) {
  // Euclid
  while (b != 0) { int t; t = b; b = a - a / b * b; a = t; }
  return a;
}
void main() {
  int i, j;
  i = 0;
  outer: while (i < 10) {
    j = 0;
    while (1) { j = j + 1; if (j > i) break; else if (j == 5) continue outer; }
    /* power and unary minus */
    outputInt(-2 ^ i && i >= 0 || i <= 3);
    i = i + 1;
  }
}`,
}

func compile(t *testing.T, src string) *Result {
	t.Helper()
	res, err := Compile(src, "test.c", Options{})
	if err != nil {
		t.Fatalf("compile failed: %v", err)
	}
	return res
}

func TestRelexIsIdempotent(t *testing.T) {
	for _, src := range validPrograms {
		res := compile(t, src)
		if len(res.Tokens) == 0 {
			t.Fatalf("empty token stream for %q", src)
		}

		lexemes := make([]string, len(res.Tokens))
		for i, tok := range res.Tokens {
			lexemes[i] = tok.Literal
		}
		again, err := Tokenize(strings.Join(lexemes, " "), "relex.c")
		if err != nil {
			t.Fatal(err)
		}
		if len(again) != len(res.Tokens) {
			t.Fatalf("re-lex produced %d tokens, want %d", len(again), len(res.Tokens))
		}
		for i := range again {
			if again[i].Type != res.Tokens[i].Type {
				t.Errorf("token %d: %s vs %s", i, again[i].Type, res.Tokens[i].Type)
			}
		}
	}
}

func TestReservedKindsNeverProduced(t *testing.T) {
	reserved := map[ast.Kind]bool{
		ast.FUNCTION_LIST: true, ast.EXPR: true, ast.BINOP: true,
		ast.PUNCT: true, ast.COMMA: true,
	}
	for _, src := range validPrograms {
		compile(t, src).Tree.Walk(func(n *ast.Tree) bool {
			if reserved[n.Kind] {
				t.Errorf("reserved kind %s in tree of %q", n.Kind, src)
			}
			return true
		})
	}
}

func TestProgramRootHoldsFunctions(t *testing.T) {
	for _, src := range validPrograms {
		tree := compile(t, src).Tree
		if tree.Kind != ast.PROGRAM {
			t.Fatalf("root is %s", tree.Kind)
		}
		for _, c := range tree.Children {
			if c.Kind != ast.FUNCTION {
				t.Errorf("root child is %s", c.Kind)
			}
		}
	}
}

// firstExpr 返回 void f() { x = <expr>; } 中赋值号右侧的子树
func firstExpr(t *testing.T, expr string) *ast.Tree {
	t.Helper()
	tree := compile(t, "void f() { x = "+expr+"; }").Tree
	assign := tree.Child(0).Child(2).Child(0).Child(0)
	if assign.Kind != ast.ASSIGN {
		t.Fatalf("expected ASSIGN, got %s", assign.Kind)
	}
	return assign.Child(1)
}

func binary(kind ast.Kind, l, r *ast.Tree) *ast.Tree {
	node := ast.NewTree(kind)
	node.Children = []*ast.Tree{l, r}
	return node
}

func lit(v int64) *ast.Tree { return ast.NewValue(ast.INT_CONST, v) }

func TestPrecedenceShape(t *testing.T) {
	got := firstExpr(t, "1 + 2 * 3")
	want := binary(ast.ADD, lit(1), binary(ast.MUL, lit(2), lit(3)))
	if !got.Equal(want) {
		t.Errorf("got:\n%swant:\n%s", got, want)
	}
}

func TestPowerRightAssociative(t *testing.T) {
	got := firstExpr(t, "2 ^ 3 ^ 2")
	want := binary(ast.POW, lit(2), binary(ast.POW, lit(3), lit(2)))
	if !got.Equal(want) {
		t.Errorf("got:\n%swant:\n%s", got, want)
	}
}

func TestDanglingElseShape(t *testing.T) {
	tree := compile(t, "void f() { if (a) if (b) x=1; else x=2; }").Tree
	outer := tree.Child(0).Child(2).Child(0).Child(0)
	if outer.Kind != ast.IF || len(outer.Children) != 2 {
		t.Fatalf("outer statement:\n%s", outer)
	}
	if inner := outer.Child(1); inner.Kind != ast.IF_ELSE || len(inner.Children) != 3 {
		t.Errorf("inner statement:\n%s", inner)
	}
}

func TestEmptyFunctionSerializesEmptyArrays(t *testing.T) {
	res := compile(t, "void main() {}")
	fn := res.Tree.Child(0)
	if params := fn.Child(1); params.Kind != ast.PARAM_LIST || len(params.Children) != 0 {
		t.Errorf("params:\n%s", params)
	}

	data, err := serializer.Tree(res.Tree, serializer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	if got := strings.Count(string(data), `"son": []`); got != 3 {
		// TYPE_VOID, PARAM_LIST, STMT_LIST
		t.Errorf("expected 3 empty son arrays, got %d:\n%s", got, data)
	}
}

func TestRoundTripPreservesTree(t *testing.T) {
	for _, src := range validPrograms {
		res := compile(t, src)
		data, err := serializer.Tree(res.Tree, serializer.Options{})
		if err != nil {
			t.Fatal(err)
		}
		back, err := serializer.DecodeTree(data)
		if err != nil {
			t.Fatal(err)
		}
		if !back.Equal(res.Tree) {
			t.Errorf("round trip changed the tree for %q", src)
		}
	}
}

func TestMissingSemicolonFailsWithoutOutput(t *testing.T) {
	res, err := Compile("int x", "test.c", Options{})
	if res != nil {
		t.Error("no result may be produced on error")
	}
	var synErr *parser.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *SyntaxError, got %v", err)
	}
	if synErr.Found.Type != token.EOF || synErr.Pos.Column != 6 {
		t.Errorf("error should point after x, got %s at %s", synErr.Found.Type, synErr.Pos)
	}
}

func TestLexErrorStopsPipeline(t *testing.T) {
	_, err := Compile("void main() { # }", "test.c", Options{})
	var lexErr *lexer.Error
	if !errors.As(err, &lexErr) {
		t.Fatalf("expected *lexer.Error, got %v", err)
	}
}

func TestEarliestErrorWins(t *testing.T) {
	src := "void f() { x = ; }\nvoid g() { @ }"

	_, err := Compile(src, "test.c", Options{})
	var synErr *parser.SyntaxError
	if !errors.As(err, &synErr) {
		t.Fatalf("expected *parser.SyntaxError, got %v", err)
	}
	if synErr.Pos.Line != 1 || synErr.Pos.Column != 16 {
		t.Errorf("error at %d:%d, want 1:16", synErr.Pos.Line, synErr.Pos.Column)
	}

	_, parseErr := parser.Parse(src, "test.c", parser.Options{})
	if parseErr == nil || parseErr.Error() != err.Error() {
		t.Errorf("Compile and parser.Parse disagree: %v vs %v", err, parseErr)
	}
}

func TestLegacyCompatibility(t *testing.T) {
	cfg := config.LegacyCompatible()
	opts := OptionsFromConfig(cfg)

	var decl strings.Builder
	decl.WriteString("void f() { int v0")
	for i := 1; i <= ast.LegacyMaxChildren; i++ {
		decl.WriteString(", v")
		decl.WriteByte(byte('a' + i%26))
	}
	decl.WriteString("; }")

	_, err := Compile(decl.String(), "test.c", opts)
	var capErr *ast.CapacityError
	if !errors.As(err, &capErr) {
		t.Fatalf("expected *CapacityError, got %v", err)
	}
	if _, err := Compile(decl.String(), "test.c", Options{}); err != nil {
		t.Errorf("unbounded mode should accept the declaration: %v", err)
	}

	res, err := Compile("int f() { return 0; }", "test.c", opts)
	if err != nil {
		t.Fatal(err)
	}
	data, err := res.Render(opts.Output)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), `"value": 0`) || !strings.Contains(string(data), `"value": null`) {
		t.Errorf("legacy mode should render 0 as null:\n%s", data)
	}
}

func TestRenderCombinedDocument(t *testing.T) {
	res := compile(t, "void main() { outputInt(0); }")
	data, err := res.Render(serializer.Options{})
	if err != nil {
		t.Fatal(err)
	}
	s := string(data)
	if !strings.HasPrefix(s, "{\n  \"tokens\": [") || !strings.Contains(s, "\"ast\": {") {
		t.Errorf("unexpected document:\n%s", s)
	}
	if !strings.Contains(s, `"value": 0,`) {
		t.Errorf("zero literal should render as 0:\n%s", s)
	}
}
