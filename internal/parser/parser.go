// Package parser implements a recursive-descent parser for the base
// scripting language (§6's "Lexer/parser collaborator"). It is kept
// intentionally small: it only needs to support the node kinds the
// link-and-flatten core reasons about.
package parser

import (
	"fmt"

	"github.com/nostopgmaming17/luabundle/internal/ast"
	"github.com/nostopgmaming17/luabundle/internal/lexer"
)

// Parser turns a token stream into a *ast.Block (the Program statement-list
// root named in spec §6).
type Parser struct {
	l    *lexer.Lexer
	file string

	cur  lexer.Token
	peek lexer.Token
	errs []error
}

// New creates a Parser over source src, attributing diagnostics to file.
func New(src, file string) *Parser {
	p := &Parser{l: lexer.New(src, file), file: file}
	p.advance()
	p.advance()
	return p
}

// Errors returns every parse error accumulated so far.
func (p *Parser) Errors() []error { return p.errs }

func (p *Parser) advance() {
	p.cur = p.peek
	tok, err := p.l.NextToken()
	if err != nil {
		p.errs = append(p.errs, err)
		tok = lexer.Token{Type: lexer.ILLEGAL, Line: p.cur.Line, Column: p.cur.Column}
	}
	p.peek = tok
}

func (p *Parser) pos() ast.Pos {
	return ast.Pos{File: p.file, Line: p.cur.Line, Column: p.cur.Column}
}

func (p *Parser) errorf(format string, args ...interface{}) {
	msg := fmt.Sprintf(format, args...)
	p.errs = append(p.errs, fmt.Errorf("%s:%d:%d: %s", p.file, p.cur.Line, p.cur.Column, msg))
}

func (p *Parser) expect(t lexer.TokenType) lexer.Token {
	if p.cur.Type != t {
		p.errorf("expected %s, got %s %q", t, p.cur.Type, p.cur.Literal)
	}
	tok := p.cur
	p.advance()
	return tok
}

func (p *Parser) at(t lexer.TokenType) bool { return p.cur.Type == t }

// Parse parses a complete chunk and returns its statement list.
func Parse(src, file string) (*ast.Block, error) {
	p := New(src, file)
	block := p.parseBlock(blockEndDefault)
	p.expect(lexer.EOF)
	if len(p.errs) > 0 {
		return nil, p.errs[0]
	}
	return block, nil
}

// blockTerminator reports whether the current token ends the enclosing
// block, given the kind of block being parsed.
type blockEnd func(t lexer.TokenType) bool

func blockEndDefault(t lexer.TokenType) bool { return t == lexer.EOF }

func blockEndKeywords(kws ...lexer.TokenType) blockEnd {
	return func(t lexer.TokenType) bool {
		if t == lexer.EOF {
			return true
		}
		for _, k := range kws {
			if t == k {
				return true
			}
		}
		return false
	}
}

func (p *Parser) parseBlock(end blockEnd) *ast.Block {
	b := &ast.Block{Pos: p.pos()}
	for !end(p.cur.Type) {
		if p.at(lexer.SEMI) {
			p.advance() // empty statement
			continue
		}
		stmt := p.parseStatement()
		if stmt == nil {
			// Could not make progress; avoid an infinite loop on malformed
			// input by forcing advancement.
			if p.cur.Type == lexer.EOF {
				break
			}
			p.advance()
			continue
		}
		b.Stmts = append(b.Stmts, stmt)
	}
	return b
}

func (p *Parser) parseStatement() ast.Stmt {
	switch p.cur.Type {
	case lexer.SEMI:
		p.advance()
		return nil
	case lexer.LOCAL:
		return p.parseLocal()
	case lexer.FUNCTION:
		return p.parseFuncDecl()
	case lexer.IF:
		return p.parseIf()
	case lexer.WHILE:
		return p.parseWhile()
	case lexer.REPEAT:
		return p.parseRepeat()
	case lexer.FOR:
		return p.parseFor()
	case lexer.DO:
		return p.parseDo()
	case lexer.RETURN:
		return p.parseReturn()
	case lexer.BREAK:
		pos := p.pos()
		p.advance()
		return &ast.Break{Pos: pos}
	default:
		return p.parseExprOrAssign()
	}
}

func (p *Parser) parseLocal() ast.Stmt {
	pos := p.pos()
	p.advance() // 'local'
	if p.at(lexer.FUNCTION) {
		p.advance()
		name := p.expect(lexer.IDENT).Literal
		fn := p.parseFuncBody(false)
		return &ast.FuncDecl{Path: []string{name}, IsLocal: true, Fn: fn, Pos: pos}
	}
	names := []string{p.expect(lexer.IDENT).Literal}
	for p.at(lexer.COMMA) {
		p.advance()
		names = append(names, p.expect(lexer.IDENT).Literal)
	}
	var exprs []ast.Expr
	if p.at(lexer.ASSIGN) {
		p.advance()
		exprs = p.parseExprList()
	}
	return &ast.LocalDecl{Names: names, Exprs: exprs, Pos: pos}
}

// parseFuncDecl parses `function NAME{.NAME}[:NAME] ( ... ) block end`.
func (p *Parser) parseFuncDecl() ast.Stmt {
	pos := p.pos()
	p.advance() // 'function'
	path := []string{p.expect(lexer.IDENT).Literal}
	isMethod := false
	for p.at(lexer.DOT) {
		p.advance()
		path = append(path, p.expect(lexer.IDENT).Literal)
	}
	if p.at(lexer.COLON) {
		p.advance()
		path = append(path, p.expect(lexer.IDENT).Literal)
		isMethod = true
	}
	fn := p.parseFuncBody(isMethod)
	return &ast.FuncDecl{Path: path, IsMethod: isMethod, Fn: fn, Pos: pos}
}

func (p *Parser) parseFuncBody(isMethod bool) *ast.FuncLiteral {
	pos := p.pos()
	p.expect(lexer.LPAREN)
	var params []string
	vararg := false
	if isMethod {
		params = append(params, "self")
	}
	for !p.at(lexer.RPAREN) {
		if p.at(lexer.VARARG) {
			p.advance()
			vararg = true
			break
		}
		params = append(params, p.expect(lexer.IDENT).Literal)
		if p.at(lexer.COMMA) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RPAREN)
	body := p.parseBlock(blockEndKeywords(lexer.END))
	p.expect(lexer.END)
	return &ast.FuncLiteral{Params: params, Vararg: vararg, Body: body, IsMethod: isMethod, Pos: pos}
}

func (p *Parser) parseIf() ast.Stmt {
	pos := p.pos()
	p.advance() // 'if'
	var clauses []ast.IfClause
	cond := p.parseExpr()
	p.expect(lexer.THEN)
	body := p.parseBlock(blockEndKeywords(lexer.ELSEIF, lexer.ELSE, lexer.END))
	clauses = append(clauses, ast.IfClause{Cond: cond, Body: body})
	for p.at(lexer.ELSEIF) {
		p.advance()
		c := p.parseExpr()
		p.expect(lexer.THEN)
		b := p.parseBlock(blockEndKeywords(lexer.ELSEIF, lexer.ELSE, lexer.END))
		clauses = append(clauses, ast.IfClause{Cond: c, Body: b})
	}
	var elseBlock *ast.Block
	if p.at(lexer.ELSE) {
		p.advance()
		elseBlock = p.parseBlock(blockEndKeywords(lexer.END))
	}
	p.expect(lexer.END)
	return &ast.If{Clauses: clauses, Else: elseBlock, Pos: pos}
}

func (p *Parser) parseWhile() ast.Stmt {
	pos := p.pos()
	p.advance()
	cond := p.parseExpr()
	p.expect(lexer.DO)
	body := p.parseBlock(blockEndKeywords(lexer.END))
	p.expect(lexer.END)
	return &ast.While{Cond: cond, Body: body, Pos: pos}
}

func (p *Parser) parseRepeat() ast.Stmt {
	pos := p.pos()
	p.advance()
	body := p.parseBlock(blockEndKeywords(lexer.UNTIL))
	p.expect(lexer.UNTIL)
	cond := p.parseExpr()
	return &ast.Repeat{Body: body, Cond: cond, Pos: pos}
}

func (p *Parser) parseFor() ast.Stmt {
	pos := p.pos()
	p.advance() // 'for'
	first := p.expect(lexer.IDENT).Literal
	if p.at(lexer.ASSIGN) {
		p.advance()
		start := p.parseExpr()
		p.expect(lexer.COMMA)
		stop := p.parseExpr()
		var step ast.Expr
		if p.at(lexer.COMMA) {
			p.advance()
			step = p.parseExpr()
		}
		p.expect(lexer.DO)
		body := p.parseBlock(blockEndKeywords(lexer.END))
		p.expect(lexer.END)
		return &ast.NumericFor{Var: first, Start: start, Stop: stop, Step: step, Body: body, Pos: pos}
	}
	names := []string{first}
	for p.at(lexer.COMMA) {
		p.advance()
		names = append(names, p.expect(lexer.IDENT).Literal)
	}
	p.expect(lexer.IN)
	exprs := p.parseExprList()
	p.expect(lexer.DO)
	body := p.parseBlock(blockEndKeywords(lexer.END))
	p.expect(lexer.END)
	return &ast.GenericFor{Names: names, Exprs: exprs, Body: body, Pos: pos}
}

func (p *Parser) parseDo() ast.Stmt {
	pos := p.pos()
	p.advance()
	body := p.parseBlock(blockEndKeywords(lexer.END))
	p.expect(lexer.END)
	return &ast.Do{Body: body, Pos: pos}
}

func (p *Parser) parseReturn() ast.Stmt {
	pos := p.pos()
	p.advance()
	var exprs []ast.Expr
	if !p.at(lexer.END) && !p.at(lexer.EOF) && !p.at(lexer.SEMI) &&
		!p.at(lexer.ELSE) && !p.at(lexer.ELSEIF) && !p.at(lexer.UNTIL) {
		exprs = p.parseExprList()
	}
	if p.at(lexer.SEMI) {
		p.advance()
	}
	return &ast.Return{Exprs: exprs, Pos: pos}
}

// parseExprOrAssign handles the two statement forms that start with a
// prefix expression: a bare call, or an assignment.
func (p *Parser) parseExprOrAssign() ast.Stmt {
	pos := p.pos()
	first := p.parseSuffixedExpr()
	if p.at(lexer.ASSIGN) || p.at(lexer.COMMA) {
		lhs := []ast.Expr{first}
		for p.at(lexer.COMMA) {
			p.advance()
			lhs = append(lhs, p.parseSuffixedExpr())
		}
		p.expect(lexer.ASSIGN)
		rhs := p.parseExprList()
		return &ast.Assign{LHS: lhs, RHS: rhs, Pos: pos}
	}
	if call, ok := first.(*ast.Call); ok {
		return &ast.ExprStmt{Call: call, Pos: pos}
	}
	p.errorf("unexpected expression statement")
	return nil
}

func (p *Parser) parseExprList() []ast.Expr {
	exprs := []ast.Expr{p.parseExpr()}
	for p.at(lexer.COMMA) {
		p.advance()
		exprs = append(exprs, p.parseExpr())
	}
	return exprs
}
