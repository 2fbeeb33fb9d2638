package ast

import "fmt"

// Kind 是语法树节点的类型标签（封闭枚举，共 46 种）
//
// 顺序与序列化名称固定，下游可视化和解释器按名称识别节点。
type Kind int

const (
	// 程序结构
	PROGRAM Kind = iota
	FUNCTION
	FUNCTION_LIST
	PARAM
	PARAM_LIST

	// 语句
	COMPOUND_STMT
	STMT_LIST
	DECL
	ASSIGN
	RETURN
	FUNC_CALL
	STMT
	INT_LIST
	ARG_LIST

	// 控制流
	IF
	IF_ELSE
	WHILE
	BREAK
	CONTINUE
	WHILE_LABEL

	// 表达式
	EXPR
	BINOP
	UNARYOP

	// 运算符
	ADD
	SUB
	MUL
	DIV
	POW
	EQ
	NE
	LT
	GT
	LE
	GE
	AND
	OR

	// 基本元素
	IDENTIFIER
	INT_CONST
	INPUT
	OUTPUT

	// 类型
	TYPE_INT
	TYPE_VOID

	// 标点辅助
	PUNCT
	COMMA
	PAREN_EXPR
	NULL

	numKinds
)

// NumKinds 节点类型总数
const NumKinds = int(numKinds)

// String 返回节点类型的序列化名称
func (k Kind) String() string {
	switch k {
	case PROGRAM:
		return "PROGRAM"
	case FUNCTION:
		return "FUNCTION"
	case FUNCTION_LIST:
		return "FUNCTION_LIST"
	case PARAM:
		return "PARAM"
	case PARAM_LIST:
		return "PARAM_LIST"
	case COMPOUND_STMT:
		return "COMPOUND_STMT"
	case STMT_LIST:
		return "STMT_LIST"
	case DECL:
		return "DECL"
	case ASSIGN:
		return "ASSIGN"
	case RETURN:
		return "RETURN"
	case FUNC_CALL:
		return "FUNC_CALL"
	case STMT:
		return "STMT"
	case INT_LIST:
		return "INT_LIST"
	case ARG_LIST:
		return "ARG_LIST"
	case IF:
		return "IF"
	case IF_ELSE:
		return "IF_ELSE"
	case WHILE:
		return "WHILE"
	case BREAK:
		return "BREAK"
	case CONTINUE:
		return "CONTINUE"
	case WHILE_LABEL:
		return "WHILE_LABEL"
	case EXPR:
		return "EXPR"
	case BINOP:
		return "BINOP"
	case UNARYOP:
		return "UNARYOP"
	case ADD:
		return "ADD"
	case SUB:
		return "SUB"
	case MUL:
		return "MUL"
	case DIV:
		return "DIV"
	case POW:
		return "POW"
	case EQ:
		return "EQ"
	case NE:
		return "NE"
	case LT:
		return "LT"
	case GT:
		return "GT"
	case LE:
		return "LE"
	case GE:
		return "GE"
	case AND:
		return "AND"
	case OR:
		return "OR"
	case IDENTIFIER:
		return "IDENTIFIER"
	case INT_CONST:
		return "INT_CONST"
	case INPUT:
		return "INPUT"
	case OUTPUT:
		return "OUTPUT"
	case TYPE_INT:
		return "TYPE_INT"
	case TYPE_VOID:
		return "TYPE_VOID"
	case PUNCT:
		return "PUNCT"
	case COMMA:
		return "COMMA"
	case PAREN_EXPR:
		return "PAREN_EXPR"
	case NULL:
		return "NULL"
	}
	return fmt.Sprintf("Kind(%d)", int(k))
}

// ParseKind 根据序列化名称查找节点类型
func ParseKind(name string) (Kind, bool) {
	for k := Kind(0); k < numKinds; k++ {
		if k.String() == name {
			return k, true
		}
	}
	return NULL, false
}

// IsBinaryOperator 判断是否为二元运算符节点
func (k Kind) IsBinaryOperator() bool {
	return k >= ADD && k <= OR
}

// Symbol 返回运算符节点对应的源码符号
func (k Kind) Symbol() string {
	switch k {
	case ADD:
		return "+"
	case SUB:
		return "-"
	case MUL:
		return "*"
	case DIV:
		return "/"
	case POW:
		return "^"
	case EQ:
		return "=="
	case NE:
		return "!="
	case LT:
		return "<"
	case GT:
		return ">"
	case LE:
		return "<="
	case GE:
		return ">="
	case AND:
		return "&&"
	case OR:
		return "||"
	}
	return k.String()
}
