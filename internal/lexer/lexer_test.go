package lexer

import "testing"

func TestNextTokenBasics(t *testing.T) {
	input := `local x = 10 + y -- comment
local s = "hi\n"
function f(a, ...) return a end`

	l := New(input, "test.lua")

	want := []TokenType{
		LOCAL, IDENT, ASSIGN, NUMBER, PLUS, IDENT,
		LOCAL, IDENT, ASSIGN, STRING,
		FUNCTION, IDENT, LPAREN, IDENT, COMMA, VARARG, RPAREN, RETURN, IDENT, END,
		EOF,
	}

	for i, wantType := range want {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
		if tok.Type != wantType {
			t.Errorf("token %d: got %s, want %s (literal %q)", i, tok.Type, wantType, tok.Literal)
		}
	}
}

func TestNextTokenBlockComment(t *testing.T) {
	l := New("--[[ skip this\nentirely ]]local x = 1", "t.lua")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Type != LOCAL {
		t.Errorf("got %s, want LOCAL", tok.Type)
	}
}

func TestNextTokenHexAndFloat(t *testing.T) {
	l := New("0x1F 3.14 2e10", "t.lua")
	for _, want := range []string{"0x1F", "3.14", "2e10"} {
		tok, err := l.NextToken()
		if err != nil {
			t.Fatalf("unexpected error: %v", err)
		}
		if tok.Type != NUMBER || tok.Literal != want {
			t.Errorf("got (%s, %q), want (NUMBER, %q)", tok.Type, tok.Literal, want)
		}
	}
}

func TestNextTokenStringEscapes(t *testing.T) {
	l := New(`"a\nb\tc"`, "t.lua")
	tok, err := l.NextToken()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if tok.Literal != "a\nb\tc" {
		t.Errorf("got %q, want %q", tok.Literal, "a\nb\tc")
	}
}

func TestNextTokenIllegalCharacter(t *testing.T) {
	l := New("local x = `", "t.lua")
	for i := 0; i < 3; i++ {
		if _, err := l.NextToken(); err != nil {
			t.Fatalf("token %d: unexpected error: %v", i, err)
		}
	}
	if _, err := l.NextToken(); err == nil {
		t.Errorf("expected an error for illegal character '`'")
	}
}
