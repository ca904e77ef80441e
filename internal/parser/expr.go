package parser

import (
	"github.com/nostopgmaming17/luabundle/internal/ast"
	"github.com/nostopgmaming17/luabundle/internal/lexer"
)

// Binary operator precedence, lowest to highest. `..` is right-associative
// and `^` is right-associative; both are handled by parseBinExpr's recursion
// direction rather than by climbing past their own level.
var binPrec = map[lexer.TokenType]int{
	lexer.OR:     1,
	lexer.AND:    2,
	lexer.LT:     3,
	lexer.GT:     3,
	lexer.LTE:    3,
	lexer.GTE:    3,
	lexer.NEQ:    3,
	lexer.EQ:     3,
	lexer.CONCAT: 4,
	lexer.PLUS:   5,
	lexer.MINUS:  5,
	lexer.STAR:   6,
	lexer.SLASH:  6,
	lexer.PERCENT: 6,
	lexer.CARET:  8,
}

const unaryPrec = 7

func (p *Parser) parseExpr() ast.Expr {
	return p.parseBinExpr(0)
}

func (p *Parser) parseBinExpr(minPrec int) ast.Expr {
	left := p.parseUnaryExpr()
	for {
		prec, ok := binPrec[p.cur.Type]
		if !ok || prec < minPrec {
			return left
		}
		opTok := p.cur
		pos := p.pos()
		p.advance()
		nextMin := prec + 1
		if opTok.Type == lexer.CONCAT || opTok.Type == lexer.CARET {
			nextMin = prec // right-associative
		}
		right := p.parseBinExpr(nextMin)
		left = &ast.BinOp{Op: opTok.Literal, Left: left, Right: right, Pos: pos}
	}
}

func (p *Parser) parseUnaryExpr() ast.Expr {
	switch p.cur.Type {
	case lexer.MINUS, lexer.HASH:
		pos := p.pos()
		op := p.cur.Literal
		p.advance()
		return &ast.UnOp{Op: op, Operand: p.parseBinExpr(unaryPrec), Pos: pos}
	case lexer.NOT:
		pos := p.pos()
		p.advance()
		return &ast.UnOp{Op: "not", Operand: p.parseBinExpr(unaryPrec), Pos: pos}
	default:
		return p.parseSuffixedExpr()
	}
}

// parseSuffixedExpr parses a primary expression followed by any number of
// `.name`, `[expr]`, `(args)`, or `:name(args)` suffixes.
func (p *Parser) parseSuffixedExpr() ast.Expr {
	e := p.parsePrimaryExpr()
	for {
		pos := p.pos()
		switch p.cur.Type {
		case lexer.DOT:
			p.advance()
			name := p.expect(lexer.IDENT).Literal
			e = &ast.Member{Base: e, NameIndex: name, Pos: pos}
		case lexer.LBRACKET:
			p.advance()
			idx := p.parseExpr()
			p.expect(lexer.RBRACKET)
			if lit, ok := constantStringIndex(idx); ok {
				e = &ast.Member{Base: e, NameIndex: lit, Pos: pos}
			} else {
				e = &ast.Member{Base: e, Index: idx, Computed: true, Pos: pos}
			}
		case lexer.COLON:
			p.advance()
			method := p.expect(lexer.IDENT).Literal
			args := p.parseArgs()
			e = &ast.Call{Func: e, Args: args, Method: method, Pos: pos}
		case lexer.LPAREN, lexer.STRING, lexer.LBRACE:
			args := p.parseArgs()
			e = &ast.Call{Func: e, Args: args, Pos: pos}
		default:
			return e
		}
	}
}

// constantStringIndex reports whether idx is a string literal, in which
// case `base[idx]` is equivalent to `base.idx` for dotted-path tracking
// purposes (spec §4.3: "constant-string-indexed member accesses").
func constantStringIndex(idx ast.Expr) (string, bool) {
	if lit, ok := idx.(*ast.Literal); ok && lit.Kind == ast.LitString {
		return lit.Value, true
	}
	return "", false
}

func (p *Parser) parseArgs() []ast.Expr {
	switch p.cur.Type {
	case lexer.STRING:
		pos := p.pos()
		lit := &ast.Literal{Kind: ast.LitString, Value: p.cur.Literal, Pos: pos}
		p.advance()
		return []ast.Expr{lit}
	case lexer.LBRACE:
		return []ast.Expr{p.parseTable()}
	case lexer.LPAREN:
		p.advance()
		var args []ast.Expr
		if !p.at(lexer.RPAREN) {
			args = p.parseExprList()
		}
		p.expect(lexer.RPAREN)
		return args
	default:
		p.errorf("expected function arguments")
		return nil
	}
}

func (p *Parser) parsePrimaryExpr() ast.Expr {
	pos := p.pos()
	switch p.cur.Type {
	case lexer.NIL:
		p.advance()
		return &ast.Literal{Kind: ast.LitNil, Value: "nil", Pos: pos}
	case lexer.TRUE:
		p.advance()
		return &ast.Literal{Kind: ast.LitTrue, Value: "true", Pos: pos}
	case lexer.FALSE:
		p.advance()
		return &ast.Literal{Kind: ast.LitFalse, Value: "false", Pos: pos}
	case lexer.NUMBER:
		v := p.cur.Literal
		p.advance()
		return &ast.Literal{Kind: ast.LitNumber, Value: v, Pos: pos}
	case lexer.STRING:
		v := p.cur.Literal
		p.advance()
		return &ast.Literal{Kind: ast.LitString, Value: v, Pos: pos}
	case lexer.VARARG:
		p.advance()
		return &ast.Literal{Kind: ast.LitVararg, Value: "...", Pos: pos}
	case lexer.FUNCTION:
		p.advance()
		return p.parseFuncBody(false)
	case lexer.IDENT:
		name := p.cur.Literal
		p.advance()
		return &ast.Ident{Name: name, Pos: pos}
	case lexer.LPAREN:
		p.advance()
		inner := p.parseExpr()
		p.expect(lexer.RPAREN)
		return &ast.Paren{Inner: inner, Pos: pos}
	case lexer.LBRACE:
		return p.parseTable()
	default:
		p.errorf("unexpected token %s in expression", p.cur.Type)
		p.advance()
		return &ast.Literal{Kind: ast.LitNil, Pos: pos}
	}
}

func (p *Parser) parseTable() ast.Expr {
	pos := p.pos()
	p.expect(lexer.LBRACE)
	var fields []ast.TableField
	for !p.at(lexer.RBRACE) {
		switch {
		case p.at(lexer.LBRACKET):
			p.advance()
			key := p.parseExpr()
			p.expect(lexer.RBRACKET)
			p.expect(lexer.ASSIGN)
			val := p.parseExpr()
			fields = append(fields, ast.TableField{Key: key, Value: val})
		case p.at(lexer.IDENT) && p.peek.Type == lexer.ASSIGN:
			keyPos := p.pos()
			key := &ast.Literal{Kind: ast.LitString, Value: p.cur.Literal, Pos: keyPos}
			p.advance()
			p.advance()
			val := p.parseExpr()
			fields = append(fields, ast.TableField{Key: key, Value: val})
		default:
			val := p.parseExpr()
			fields = append(fields, ast.TableField{Value: val})
		}
		if p.at(lexer.COMMA) || p.at(lexer.SEMI) {
			p.advance()
			continue
		}
		break
	}
	p.expect(lexer.RBRACE)
	return &ast.Table{Fields: fields, Pos: pos}
}
