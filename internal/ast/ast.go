// Package ast defines the abstract syntax tree for the base scripting
// language (a Lua-family dialect). The node set is deliberately small and
// fixed: one tagged variant per kind named in spec §6, so that the
// identifier extractor (internal/link) and the AST rewriter (internal/link)
// can be written as two visitors over the same sum type.
package ast

import "fmt"

// Pos is a source position, kept mainly for error messages.
type Pos struct {
	File   string
	Line   int
	Column int
}

func (p Pos) String() string {
	return fmt.Sprintf("%s:%d:%d", p.File, p.Line, p.Column)
}

// Node is implemented by every AST node.
type Node interface {
	Position() Pos
}

// Stmt is implemented by every top-level-capable or nested statement.
type Stmt interface {
	Node
	stmtNode()
}

// Expr is implemented by every expression node.
type Expr interface {
	Node
	exprNode()
}

// Block is an ordered sequence of statements, the root produced by Parse
// and the unit every loop/if/do/function body carries.
type Block struct {
	Stmts []Stmt
	Pos   Pos
}

func (b *Block) Position() Pos { return b.Pos }

// ---- Expressions -----------------------------------------------------

// Ident is a simple identifier reference.
type Ident struct {
	Name string
	Pos  Pos
}

func (i *Ident) Position() Pos { return i.Pos }
func (*Ident) exprNode()       {}

// Literal covers nil/true/false/number/string/vararg ('...') constants.
type Literal struct {
	Kind  LiteralKind
	Value string // source spelling ("nil", "true", "...", digits as written); for strings, the unescaped contents without quotes
	Pos   Pos
}

type LiteralKind int

const (
	LitNil LiteralKind = iota
	LitTrue
	LitFalse
	LitNumber
	LitString
	LitVararg
)

func (l *Literal) Position() Pos { return l.Pos }
func (*Literal) exprNode()       {}

// Paren is a parenthesised expression; it truncates multiple-value
// expansion in real Lua but is otherwise transparent to identifier
// resolution, so it is kept as an explicit node per spec §6.
type Paren struct {
	Inner Expr
	Pos   Pos
}

func (p *Paren) Position() Pos { return p.Pos }
func (*Paren) exprNode()       {}

// BinOp is a binary operator application.
type BinOp struct {
	Op    string
	Left  Expr
	Right Expr
	Pos   Pos
}

func (b *BinOp) Position() Pos { return b.Pos }
func (*BinOp) exprNode()       {}

// UnOp is a unary operator application (-, not, #).
type UnOp struct {
	Op      string
	Operand Expr
	Pos     Pos
}

func (u *UnOp) Position() Pos { return u.Pos }
func (*UnOp) exprNode()       {}

// Member is a `.` or `[...]` access on a base expression. When Computed is
// false and Index is a constant string (NameIndex != ""), the access
// qualifies for dotted-path dependency tracking per spec §4.3; computed or
// non-literal indices never do.
type Member struct {
	Base      Expr
	NameIndex string // set when this is `base.name` or `base["name"]` (constant)
	Index     Expr   // set when this is `base[expr]` with a non-constant expr
	Computed  bool
	Pos       Pos
}

func (m *Member) Position() Pos { return m.Pos }
func (*Member) exprNode()       {}

// Call is a function or method call.
type Call struct {
	Func   Expr
	Args   []Expr
	Method string // non-empty for `obj:method(args)` sugar
	Pos    Pos
}

func (c *Call) Position() Pos { return c.Pos }
func (*Call) exprNode()       {}

// TableField is one entry of a table constructor.
type TableField struct {
	Key   Expr // nil for array-style entries
	Value Expr
}

// Table is a table constructor `{ ... }`.
type Table struct {
	Fields []TableField
	Pos    Pos
}

func (t *Table) Position() Pos { return t.Pos }
func (*Table) exprNode()       {}

// FuncLiteral is an (optionally anonymous) function expression.
type FuncLiteral struct {
	Params   []string
	Vararg   bool
	Body     *Block
	IsMethod bool // true if declared with `:` sugar (implicit leading self)
	Pos      Pos
}

func (f *FuncLiteral) Position() Pos { return f.Pos }
func (*FuncLiteral) exprNode()       {}

// ---- Statements --------------------------------------------------------

// FuncDecl is a top-level (or nested) `function NAME(...) ... end` or
// `function A.b.c(...) ... end` / `function A.b:c(...) ... end`
// declaration. Path has one element for a simple function, more than one
// for a method/dotted declaration (spec §3 Item kinds `function`/`method`).
type FuncDecl struct {
	Path     []string
	IsLocal  bool
	IsMethod bool
	Fn       *FuncLiteral
	Pos      Pos
}

func (f *FuncDecl) Position() Pos { return f.Pos }
func (*FuncDecl) stmtNode()       {}

// LocalDecl is `local NAME {, NAME} [= expr {, expr}]`.
type LocalDecl struct {
	Names []string
	Exprs []Expr
	Pos   Pos
}

func (l *LocalDecl) Position() Pos { return l.Pos }
func (*LocalDecl) stmtNode()       {}

// Assign is `var {, var} = expr {, expr}`. Each LHS is either an *Ident or
// a *Member; a single-*Member LHS with a constant index is the
// `member_assignment` Item kind of spec §3.
type Assign struct {
	LHS []Expr
	RHS []Expr
	Pos Pos
}

func (a *Assign) Position() Pos { return a.Pos }
func (*Assign) stmtNode()       {}

// ExprStmt is a bare call used as a statement.
type ExprStmt struct {
	Call *Call
	Pos  Pos
}

func (e *ExprStmt) Position() Pos { return e.Pos }
func (*ExprStmt) stmtNode()       {}

// Return is `return [expr {, expr}]`.
type Return struct {
	Exprs []Expr
	Pos   Pos
}

func (r *Return) Position() Pos { return r.Pos }
func (*Return) stmtNode()       {}

// Break is `break`.
type Break struct{ Pos Pos }

func (b *Break) Position() Pos { return b.Pos }
func (*Break) stmtNode()       {}

// Do is `do ... end`.
type Do struct {
	Body *Block
	Pos  Pos
}

func (d *Do) Position() Pos { return d.Pos }
func (*Do) stmtNode()       {}

// IfClause is one `if`/`elseif` branch.
type IfClause struct {
	Cond Expr
	Body *Block
}

// If is `if ... then ... {elseif ... then ...} [else ...] end`.
type If struct {
	Clauses []IfClause
	Else    *Block // nil if no else branch
	Pos     Pos
}

func (i *If) Position() Pos { return i.Pos }
func (*If) stmtNode()       {}

// While is `while cond do ... end`.
type While struct {
	Cond Expr
	Body *Block
	Pos  Pos
}

func (w *While) Position() Pos { return w.Pos }
func (*While) stmtNode()       {}

// Repeat is `repeat ... until cond`. Note cond is evaluated in the scope of
// Body, which matters for shadowing but not for top-level identifier
// rewriting.
type Repeat struct {
	Body *Block
	Cond Expr
	Pos  Pos
}

func (r *Repeat) Position() Pos { return r.Pos }
func (*Repeat) stmtNode()       {}

// NumericFor is `for NAME = start, stop [, step] do ... end`.
type NumericFor struct {
	Var   string
	Start Expr
	Stop  Expr
	Step  Expr // nil if omitted
	Body  *Block
	Pos   Pos
}

func (n *NumericFor) Position() Pos { return n.Pos }
func (*NumericFor) stmtNode()       {}

// GenericFor is `for NAME {, NAME} in expr {, expr} do ... end`.
type GenericFor struct {
	Names []string
	Exprs []Expr
	Body  *Block
	Pos   Pos
}

func (g *GenericFor) Position() Pos { return g.Pos }
func (*GenericFor) stmtNode()       {}
