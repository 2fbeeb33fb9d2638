package errors

import (
	"strings"

	"github.com/tangzhangming/minic/internal/i18n"
	"github.com/tangzhangming/minic/internal/parser"
	"github.com/tangzhangming/minic/internal/token"
)

// ============================================================================
// 修复建议
// ============================================================================

// keywordNames 用于拼写建议的保留字
var keywordNames = []string{
	"void", "int", "while", "if", "else", "return",
	"break", "continue", "outputInt", "inputInt",
}

// syntaxHints 根据语法错误的上下文生成修复建议
func syntaxHints(err *parser.SyntaxError) []string {
	var hints []string
	found := err.Found

	switch err.MsgID {
	case i18n.ErrReturnValueInVoid:
		return []string{i18n.T(i18n.HintRemoveValue)}
	case i18n.ErrReturnMissingValue:
		return []string{i18n.T(i18n.HintAddValue)}
	}

	switch found.Type {
	case token.FACTORIAL, token.EXPLAIN, token.STRING_CONST:
		hints = append(hints, i18n.T(i18n.HintUnsupportedToken, found.Literal))
	case token.IDENT:
		if len(found.Literal) < 3 {
			break
		}
		if kw := FindSimilar(found.Literal, keywordNames, 2); kw != "" && kw != found.Literal {
			hints = append(hints, i18n.T(i18n.HintDidYouMean, kw))
		}
	case token.EOF:
		if expects(err.Expected, token.RBRACE, token.RPAREN) {
			hints = append(hints, i18n.T(i18n.HintCheckBrackets))
		}
	}

	if expects(err.Expected, token.SEMICOLON) && found.Type != token.EOF {
		hints = append(hints, i18n.T(i18n.HintMissingSemicolon))
	}
	return hints
}

// expects 判断期望集合中是否包含任一类型
func expects(expected []token.TokenType, types ...token.TokenType) bool {
	for _, e := range expected {
		for _, t := range types {
			if e == t {
				return true
			}
		}
	}
	return false
}

// ============================================================================
// 相似名称查找
// ============================================================================

// FindSimilar 查找相似的名称
func FindSimilar(name string, candidates []string, maxDistance int) string {
	if len(candidates) == 0 {
		return ""
	}

	bestMatch := ""
	bestDistance := maxDistance + 1

	for _, candidate := range candidates {
		distance := levenshteinDistance(name, candidate)
		if distance < bestDistance {
			bestDistance = distance
			bestMatch = candidate
		}
	}

	if bestDistance <= maxDistance {
		return bestMatch
	}
	return ""
}

// levenshteinDistance 计算 Levenshtein 编辑距离（忽略大小写）
func levenshteinDistance(s1, s2 string) int {
	s1 = strings.ToLower(s1)
	s2 = strings.ToLower(s2)
	if len(s1) == 0 {
		return len(s2)
	}
	if len(s2) == 0 {
		return len(s1)
	}

	prev := make([]int, len(s2)+1)
	curr := make([]int, len(s2)+1)
	for j := range prev {
		prev[j] = j
	}

	for i := 1; i <= len(s1); i++ {
		curr[0] = i
		for j := 1; j <= len(s2); j++ {
			cost := 1
			if s1[i-1] == s2[j-1] {
				cost = 0
			}
			curr[j] = min(
				prev[j]+1,      // 删除
				curr[j-1]+1,    // 插入
				prev[j-1]+cost, // 替换
			)
		}
		prev, curr = curr, prev
	}
	return prev[len(s2)]
}
