package serializer

import (
	"strings"
	"testing"

	"github.com/segmentio/encoding/json"

	"github.com/tangzhangming/minic/internal/ast"
	"github.com/tangzhangming/minic/internal/lexer"
	"github.com/tangzhangming/minic/internal/parser"
)

func returnZero() *ast.Tree {
	ret := ast.NewTree(ast.RETURN)
	ret.Children = []*ast.Tree{ast.NewValue(ast.INT_CONST, 0)}
	return ret
}

func TestTokensGolden(t *testing.T) {
	tokens, err := lexer.New("a<=0", "test.c").ScanTokens()
	if err != nil {
		t.Fatal(err)
	}
	got, err := Tokens(tokens, Options{})
	if err != nil {
		t.Fatal(err)
	}

	want := `[
  {
    "type": "T_Identifier",
    "value": "a",
    "line": 1,
    "col_start": 1,
    "col_end": 1
  },
  {
    "type": "T_Le",
    "value": "<=",
    "line": 1,
    "col_start": 2,
    "col_end": 3
  },
  {
    "type": "T_IntConstant",
    "value": "0",
    "line": 1,
    "col_start": 4,
    "col_end": 4
  }
]
`
	if string(got) != want {
		t.Errorf("got:\n%s\nwant:\n%s", got, want)
	}
}

func TestTokensEmptyIsArray(t *testing.T) {
	got, err := Tokens(nil, Options{})
	if err != nil {
		t.Fatal(err)
	}
	if strings.TrimSpace(string(got)) != "[]" {
		t.Errorf("got %q, want []", got)
	}
}

func TestTreeGolden(t *testing.T) {
	tests := []struct {
		name string
		opts Options
		want string
	}{
		{"zero literal", Options{}, `{
  "type": "RETURN",
  "name": null,
  "value": null,
  "son": [
    {
      "type": "INT_CONST",
      "name": null,
      "value": 0,
      "son": []
    }
  ]
}
`},
		{"legacy zero", Options{ZeroAsNull: true}, `{
  "type": "RETURN",
  "name": null,
  "value": null,
  "son": [
    {
      "type": "INT_CONST",
      "name": null,
      "value": null,
      "son": []
    }
  ]
}
`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Tree(returnZero(), tt.opts)
			if err != nil {
				t.Fatal(err)
			}
			if string(got) != tt.want {
				t.Errorf("got:\n%s\nwant:\n%s", got, tt.want)
			}
		})
	}
}

func TestTreeNamesRenderAsStrings(t *testing.T) {
	neg := ast.NewNamed(ast.UNARYOP, "-")
	neg.Children = []*ast.Tree{ast.NewNamed(ast.IDENTIFIER, "x")}

	rec := NewTreeRecord(neg, Options{})
	if rec.Name == nil || *rec.Name != "-" || rec.Value != nil {
		t.Errorf("unexpected record: %+v", rec)
	}
	if rec.Son[0].Son == nil {
		t.Error("leaf son must be an empty array, not null")
	}
}

func TestRoundTrip(t *testing.T) {
	src := `
int fact(int n) {
  int r;
  r = 1;
  outer: while (n > 1) { r = r * n; n = n - 1; if (r > 1000) break outer; else continue; }
  return r;
}
void main() { outputInt(fact(inputInt()) + -(2 ^ 0)); ; }
`
	prog, err := parser.Parse(src, "test.c", parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	tree, err := ast.Lower(prog, 0)
	if err != nil {
		t.Fatal(err)
	}

	data, err := Tree(tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	back, err := DecodeTree(data)
	if err != nil {
		t.Fatal(err)
	}
	if !back.Equal(tree) {
		t.Errorf("round trip changed the tree:\n%s\nvs\n%s", back, tree)
	}
}

func TestDecodeTreeUnknownKind(t *testing.T) {
	_, err := DecodeTree([]byte(`{"type":"LAMBDA","name":null,"value":null,"son":[]}`))
	if err == nil || !strings.Contains(err.Error(), "LAMBDA") {
		t.Errorf("expected unknown type error, got %v", err)
	}
}

func TestCombinedDocument(t *testing.T) {
	src := "void main() { }"
	tokens, err := lexer.New(src, "test.c").ScanTokens()
	if err != nil {
		t.Fatal(err)
	}
	prog, err := parser.Parse(src, "test.c", parser.Options{})
	if err != nil {
		t.Fatal(err)
	}
	tree, err := ast.Lower(prog, 0)
	if err != nil {
		t.Fatal(err)
	}

	data, err := Combined(tokens, tree, Options{})
	if err != nil {
		t.Fatal(err)
	}
	var doc struct {
		Tokens []TokenRecord `json:"tokens"`
		AST    TreeRecord    `json:"ast"`
	}
	if err := json.Unmarshal(data, &doc); err != nil {
		t.Fatalf("combined document is not valid JSON: %v", err)
	}
	if len(doc.Tokens) != 6 || doc.AST.Type != "PROGRAM" {
		t.Errorf("unexpected document: %d tokens, root %s", len(doc.Tokens), doc.AST.Type)
	}
}

func TestYAMLFormat(t *testing.T) {
	got, err := Tree(returnZero(), Options{Format: FormatYAML})
	if err != nil {
		t.Fatal(err)
	}
	for _, want := range []string{"type: RETURN", "name: null", "value: 0", "son: []"} {
		if !strings.Contains(string(got), want) {
			t.Errorf("yaml output missing %q:\n%s", want, got)
		}
	}
}

func TestParseFormat(t *testing.T) {
	tests := []struct {
		in   string
		want Format
		ok   bool
	}{
		{"", FormatJSON, true},
		{"JSON", FormatJSON, true},
		{"yml", FormatYAML, true},
		{"xml", "", false},
	}
	for _, tt := range tests {
		got, err := ParseFormat(tt.in)
		if (err == nil) != tt.ok || got != tt.want {
			t.Errorf("ParseFormat(%q) = %q, %v", tt.in, got, err)
		}
	}
}
