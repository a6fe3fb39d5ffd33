package scanner

import (
	"testing"

	"github.com/rowanhale/spark/internal/token"
)

func scanAll(t *testing.T, src string) []token.Token {
	t.Helper()
	s := New(src)
	var toks []token.Token
	for {
		tok := s.ScanToken()
		toks = append(toks, tok)
		if tok.Kind == token.EOF || tok.Kind == token.Error {
			break
		}
	}
	return toks
}

func TestScanKeywordsAndIdentifiers(t *testing.T) {
	toks := scanAll(t, "class fun myVar")
	want := []token.Kind{token.Class, token.Fun, token.Identifier, token.EOF}
	if len(toks) != len(want) {
		t.Fatalf("got %d tokens, want %d", len(toks), len(want))
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
}

func TestScanNumber(t *testing.T) {
	toks := scanAll(t, "3.14")
	if toks[0].Kind != token.Number || toks[0].Lexeme != "3.14" {
		t.Errorf("got %+v", toks[0])
	}
}

func TestScanStringUnterminated(t *testing.T) {
	toks := scanAll(t, `"hello`)
	if toks[0].Kind != token.Error {
		t.Errorf("expected error token, got %+v", toks[0])
	}
}

func TestScanTwoCharOperators(t *testing.T) {
	toks := scanAll(t, "== != <= >= << >> **")
	want := []token.Kind{
		token.EqualEqual, token.BangEqual, token.LessEqual, token.GreaterEqual,
		token.LessLess, token.GreaterGreater, token.StarStar, token.EOF,
	}
	for i, k := range want {
		if toks[i].Kind != k {
			t.Errorf("token %d: got %v want %v", i, toks[i].Kind, k)
		}
	}
}

func TestScanLineComment(t *testing.T) {
	toks := scanAll(t, "1 // comment\n2")
	if toks[0].Kind != token.Number || toks[1].Kind != token.Number {
		t.Fatalf("got %+v", toks)
	}
	if toks[1].Line != 2 {
		t.Errorf("expected line 2, got %d", toks[1].Line)
	}
}

func TestScanBrackets(t *testing.T) {
	toks := scanAll(t, "[1, 2]")
	if toks[0].Kind != token.LeftBracket || toks[len(toks)-2].Kind != token.RightBracket {
		t.Fatalf("got %+v", toks)
	}
}
