package parser

import (
	"strings"

	"github.com/alecthomas/participle/v2"
	"github.com/alecthomas/participle/v2/lexer"
)

// The grammar covers the declaration surface of a C# file. Bodies of classes,
// methods and accessors are matched as balanced token groups and discarded.

// CompilationUnit is the root of a parsed C# file
type CompilationUnit struct {
	Pos     lexer.Position
	Members []*NamespaceMember `parser:"@@*"`
}

// NamespaceMember is anything that may appear at file or namespace level
type NamespaceMember struct {
	Using      *UsingDirective   `parser:"  @@"`
	Namespace  *NamespaceDecl    `parser:"| @@"`
	Type       *TypeDecl         `parser:"| @@"`
	Attributes *AttributeSection `parser:"| @@"`
}

// UsingDirective is kept as its raw tokens
type UsingDirective struct {
	Pos    lexer.Position
	Global bool     `parser:"@'global'? 'using'"`
	Parts  []string `parser:"@~';'+ ';'"`
}

// NamespaceDecl is a file-scoped or block namespace
type NamespaceDecl struct {
	Pos  lexer.Position
	Name []string       `parser:"'namespace' @Ident ('.' @Ident)*"`
	Body *NamespaceBody `parser:"@@"`
}

// NamespaceBody holds the members of either namespace form
type NamespaceBody struct {
	Block *NamespaceBlock      `parser:"  @@"`
	File  *FileScopedNamespace `parser:"| @@"`
}

// NamespaceBlock is a braced namespace body
type NamespaceBlock struct {
	Members []*NamespaceMember `parser:"'{' @@* '}' ';'?"`
}

// FileScopedNamespace covers the rest of the file after "namespace X;"
type FileScopedNamespace struct {
	Semicolon string             `parser:"@';'"`
	Members   []*NamespaceMember `parser:"@@*"`
}

// TypeDecl is a top-level or nested type declaration
type TypeDecl struct {
	Pos        lexer.Position
	Attributes []*AttributeSection `parser:"@@*"`
	Modifiers  []string            `parser:"@('public' | 'private' | 'protected' | 'internal' | 'static' | 'abstract' | 'sealed' | 'partial' | 'readonly' | 'unsafe' | 'new' | 'file' | 'ref')*"`
	Kind       *TypeKind           `parser:"@@"`
}

// TypeKind selects the declared kind of type
type TypeKind struct {
	Interface *InterfaceDecl `parser:"  @@"`
	Class     *ClassDecl     `parser:"| @@"`
	Enum      *EnumDecl      `parser:"| @@"`
	Delegate  *DelegateDecl  `parser:"| @@"`
}

// InterfaceDecl is an interface with its members
type InterfaceDecl struct {
	Pos         lexer.Position
	Name        string             `parser:"'interface' @Ident"`
	TypeParams  *TypeParamList     `parser:"@@?"`
	Bases       []*TypeRef         `parser:"(':' @@ (',' @@)*)?"`
	Constraints []*Constraint      `parser:"@@*"`
	Members     []*InterfaceMember `parser:"'{' @@* '}' ';'?"`
}

// ClassDecl is a class, struct or record; its body is skipped
type ClassDecl struct {
	Pos         lexer.Position
	Kind        string         `parser:"@('class' | 'struct' | 'record')"`
	RecordKind  string         `parser:"@('class' | 'struct')?"`
	Name        string         `parser:"@Ident"`
	TypeParams  *TypeParamList `parser:"@@?"`
	PrimaryCtor *ParenGroup    `parser:"@@?"`
	Bases       []*BaseType    `parser:"(':' @@ (',' @@)*)?"`
	Constraints []*Constraint  `parser:"@@*"`
	Body        *ClassBody     `parser:"@@"`
}

// BaseType is one base-list entry; record bases may pass arguments
type BaseType struct {
	Type *TypeRef    `parser:"@@"`
	Args *ParenGroup `parser:"@@?"`
}

// ClassBody is either a braced body or a bodiless record terminator
type ClassBody struct {
	Block *BraceBlock `parser:"  @@ ';'?"`
	End   string      `parser:"| @';'"`
}

// EnumDecl is an enum; its body is skipped
type EnumDecl struct {
	Name string      `parser:"'enum' @Ident"`
	Base *TypeRef    `parser:"(':' @@)?"`
	Body *BraceBlock `parser:"@@ ';'?"`
}

// DelegateDecl is a delegate; kept as raw tokens
type DelegateDecl struct {
	Parts []string `parser:"'delegate' @~';'+ ';'"`
}

// InterfaceMember is one declaration inside an interface body
type InterfaceMember struct {
	Pos        lexer.Position
	Attributes []*AttributeSection `parser:"@@*"`
	Modifiers  []string            `parser:"@('public' | 'private' | 'protected' | 'internal' | 'static' | 'abstract' | 'virtual' | 'sealed' | 'new' | 'extern' | 'unsafe' | 'async' | 'override' | 'readonly' | 'partial' | 'implicit' | 'explicit' | 'const')*"`
	Decl       *MemberDecl         `parser:"@@"`
}

// MemberDecl selects the member form
type MemberDecl struct {
	Event  *EventDecl   `parser:"  @@"`
	Nested *TypeKind    `parser:"| @@"`
	Member *TypedMember `parser:"| @@"`
}

// EventDecl is an event member
type EventDecl struct {
	Type      *TypeRef    `parser:"'event' @@"`
	Names     []string    `parser:"@Ident (',' @Ident)*"`
	Accessors *BraceBlock `parser:"@@?"`
	End       string      `parser:"@';'?"`
}

// TypedMember is a method, property, indexer, operator or field
type TypedMember struct {
	Type *TypeRef    `parser:"@@"`
	Name string      `parser:"@Ident"`
	Tail *MemberTail `parser:"@@"`
}

// MemberTail is what follows the member name
type MemberTail struct {
	Method   *MethodTail   `parser:"  @@"`
	Property *PropertyTail `parser:"| @@"`
	Indexer  *IndexerTail  `parser:"| @@"`
	Operator *OperatorTail `parser:"| @@"`
	Field    *FieldTail    `parser:"| @@"`
}

// MethodTail is a method's type parameters, parameters, constraints and body
type MethodTail struct {
	TypeParams  *TypeParamList `parser:"@@?"`
	Params      []*Param       `parser:"'(' (@@ (',' @@)*)? ')'"`
	Constraints []*Constraint  `parser:"@@*"`
	Body        *MemberBody    `parser:"@@"`
}

// MemberBody is a block body, an expression body, or no body at all
type MemberBody struct {
	Block      *BraceBlock `parser:"  @@"`
	Expression []string    `parser:"| '=>' @~';'+ ';'"`
	End        string      `parser:"| @';'"`
}

// PropertyTail is an accessor list or an expression-bodied getter
type PropertyTail struct {
	Accessors  *AccessorList `parser:"  @@"`
	Expression []string      `parser:"| '=>' @~';'+ ';'"`
}

// AccessorList is "{ get; set; }" with an optional initializer
type AccessorList struct {
	Accessors   []*Accessor `parser:"'{' @@* '}'"`
	Initializer []string    `parser:"('=' @~';'+ ';')?"`
}

// Accessor is one get, set or init accessor
type Accessor struct {
	Pos        lexer.Position
	Attributes []*AttributeSection `parser:"@@*"`
	Modifiers  []string            `parser:"@('public' | 'private' | 'protected' | 'internal' | 'readonly')*"`
	Kind       string              `parser:"@('get' | 'set' | 'init')"`
	Body       *MemberBody         `parser:"@@"`
}

// IndexerTail is "this[...]" followed by accessors
type IndexerTail struct {
	Params    []*Param      `parser:"'[' @@ (',' @@)* ']'"`
	Accessors *PropertyTail `parser:"@@"`
}

// OperatorTail follows the operator keyword
type OperatorTail struct {
	Symbol []string    `parser:"@~('(' | ';' | '{')+"`
	Params []*Param    `parser:"'(' (@@ (',' @@)*)? ')'"`
	Body   *MemberBody `parser:"@@"`
}

// FieldTail is an optional initializer followed by a semicolon
type FieldTail struct {
	Value []string `parser:"('=' @~';'+)?"`
	End   string   `parser:"@';'"`
}

// Param is one formal parameter
type Param struct {
	Pos        lexer.Position
	Attributes []*AttributeSection `parser:"@@*"`
	Modifiers  []string            `parser:"@('ref' | 'out' | 'in' | 'params' | 'this' | 'scoped' | 'readonly')*"`
	Type       *TypeRef            `parser:"@@"`
	Name       string              `parser:"@Ident"`
	Default    []*DefaultItem      `parser:"('=' @@+)?"`
}

// DefaultItem is one token or balanced group of a default parameter value
type DefaultItem struct {
	Group *ParenGroup `parser:"  @@"`
	Token string      `parser:"| @~('(' | ')' | ',' | ']')"`
}

// TypeParamList is "<in T, U>"
type TypeParamList struct {
	Params []*TypeParam `parser:"'<' @@ (',' @@)* '>'"`
}

// TypeParam is one declared type parameter
type TypeParam struct {
	Attributes []*AttributeSection `parser:"@@*"`
	Variance   string              `parser:"@('in' | 'out')?"`
	Name       string              `parser:"@Ident"`
}

// Constraint is a where clause, kept as raw tokens
type Constraint struct {
	Parts []string `parser:"'where' @~('where' | '{' | ';' | '=>')+"`
}

// AttributeSection is "[target: A, B(args)]"
type AttributeSection struct {
	Pos        lexer.Position
	Target     string       `parser:"'[' (@Ident ':')?"`
	Attributes []*Attribute `parser:"@@ (',' @@)* ','? ']'"`
}

// Attribute is one attribute with its arguments skipped
type Attribute struct {
	Pos  lexer.Position
	Name []string    `parser:"('global' '::')? @Ident ('.' @Ident)*"`
	Args *ParenGroup `parser:"@@?"`
}

// TypeRef is a type reference as written
type TypeRef struct {
	Pos      lexer.Position
	Base     *TypeBase `parser:"@@"`
	Suffixes []string  `parser:"@('?' | '*' | '[' ','* ']')*"`
}

// TypeBase is a tuple or a named type
type TypeBase struct {
	Tuple *TupleType `parser:"  @@"`
	Named *NamedType `parser:"| @@"`
}

// TupleType is "(int a, string b)"
type TupleType struct {
	Elements []*TupleElement `parser:"'(' @@ (',' @@)* ')'"`
}

// TupleElement is one tuple element, optionally named
type TupleElement struct {
	Type *TypeRef `parser:"@@"`
	Name string   `parser:"@Ident?"`
}

// NamedType is a possibly qualified, possibly generic type name
type NamedType struct {
	Global bool        `parser:"@('global' '::')?"`
	Parts  []*TypePart `parser:"@@ ('.' @@)*"`
}

// TypePart is one dotted segment of a type name
type TypePart struct {
	Name string     `parser:"@Ident"`
	Args []*TypeRef `parser:"('<' @@ (',' @@)* '>')?"`
}

// ParenGroup is a balanced parenthesized token group
type ParenGroup struct {
	Items []*ParenItem `parser:"'(' @@* ')'"`
}

// ParenItem is a nested group or any other token
type ParenItem struct {
	Group *ParenGroup `parser:"  @@"`
	Token string      `parser:"| @~('(' | ')')"`
}

// BraceBlock is a balanced braced token group
type BraceBlock struct {
	Items []*BraceItem `parser:"'{' @@* '}'"`
}

// BraceItem is a nested block or any other token
type BraceItem struct {
	Block *BraceBlock `parser:"  @@"`
	Token string      `parser:"| @~('{' | '}')"`
}

var csharpLexer = lexer.MustSimple([]lexer.SimpleRule{
	{Name: "Comment", Pattern: `//[^\n]*`},
	{Name: "BlockComment", Pattern: `/\*([^*]|\*+[^*/])*\*+/`},
	{Name: "Preprocessor", Pattern: `#[^\n]*`},
	{Name: "RawString", Pattern: `\$*"""[\s\S]*?"""`},
	{Name: "VerbatimString", Pattern: `(\$@|@\$|@)"(""|[^"])*"`},
	{Name: "String", Pattern: `\$?"(\\.|[^"\\\n])*"`},
	{Name: "Char", Pattern: `'(\\.|[^'\\\n])+'`},
	{Name: "Number", Pattern: `[0-9][0-9A-Za-z_]*(\.[0-9][0-9A-Za-z_]*)?`},
	{Name: "Ident", Pattern: `@?[\p{L}_][\p{L}\p{N}_]*`},
	{Name: "Arrow", Pattern: `=>`},
	{Name: "Scope", Pattern: `::`},
	{Name: "Punct", Pattern: `[-+*/%&|^!~=<>?:;,.()\[\]{}]`},
	{Name: "Whitespace", Pattern: `\s+`},
	{Name: "Other", Pattern: `\S`},
})

func newGrammarParser() *participle.Parser[CompilationUnit] {
	return participle.MustBuild[CompilationUnit](
		participle.Lexer(csharpLexer),
		participle.Elide("Whitespace", "Comment", "BlockComment", "Preprocessor"),
		participle.UseLookahead(256),
	)
}

// String renders the type as written, normalized
func (t *TypeRef) String() string {
	if t == nil {
		return ""
	}

	var sb strings.Builder
	switch {
	case t.Base == nil:
	case t.Base.Tuple != nil:
		sb.WriteByte('(')
		for i, el := range t.Base.Tuple.Elements {
			if i > 0 {
				sb.WriteString(", ")
			}
			sb.WriteString(el.Type.String())
			if el.Name != "" {
				sb.WriteByte(' ')
				sb.WriteString(el.Name)
			}
		}
		sb.WriteByte(')')
	case t.Base.Named != nil:
		if t.Base.Named.Global {
			sb.WriteString("global::")
		}
		for i, part := range t.Base.Named.Parts {
			if i > 0 {
				sb.WriteByte('.')
			}
			sb.WriteString(part.Name)
			if len(part.Args) > 0 {
				sb.WriteByte('<')
				for j, arg := range part.Args {
					if j > 0 {
						sb.WriteString(", ")
					}
					sb.WriteString(arg.String())
				}
				sb.WriteByte('>')
			}
		}
	}
	sb.WriteString(strings.Join(t.Suffixes, ""))
	return sb.String()
}

// parts returns the segments of a named type, or nil for tuples
func (t *TypeRef) parts() []*TypePart {
	if t == nil || t.Base == nil || t.Base.Named == nil {
		return nil
	}
	return t.Base.Named.Parts
}

// SimpleName returns the last segment of a named type without type arguments
func (t *TypeRef) SimpleName() string {
	parts := t.parts()
	if len(parts) == 0 {
		return ""
	}
	return parts[len(parts)-1].Name
}

// QualifierName returns the dotted prefix of a named type, if any
func (t *TypeRef) QualifierName() string {
	parts := t.parts()
	if len(parts) < 2 {
		return ""
	}
	names := make([]string, 0, len(parts)-1)
	for _, part := range parts[:len(parts)-1] {
		names = append(names, part.Name)
	}
	return strings.Join(names, ".")
}

// Arity returns the number of type arguments on the last segment
func (t *TypeRef) Arity() int {
	parts := t.parts()
	if len(parts) == 0 {
		return 0
	}
	return len(parts[len(parts)-1].Args)
}

// joinTokens rebuilds source text from captured tokens, spacing words apart
// and punctuation the way declarations are normally written.
func joinTokens(tokens []string) string {
	var sb strings.Builder
	for i, tok := range tokens {
		if i > 0 && needsSpace(tokens[i-1], tok) {
			sb.WriteByte(' ')
		}
		sb.WriteString(tok)
	}
	return sb.String()
}

func needsSpace(prev, next string) bool {
	switch {
	case prev == "," || prev == "=" || prev == ":" || prev == "=>":
		return true
	case next == "=" || next == ":" || next == "=>":
		return true
	case isWord(prev) && isWord(next):
		return true
	}
	return false
}

func isWord(tok string) bool {
	if tok == "" {
		return false
	}
	c := tok[0]
	return c == '_' || c == '@' || c == '"' || c == '\'' || c >= 0x80 ||
		(c >= 'a' && c <= 'z') || (c >= 'A' && c <= 'Z') || (c >= '0' && c <= '9')
}
