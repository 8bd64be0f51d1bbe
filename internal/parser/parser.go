package parser

import (
	"chamber/internal/cst"
	"chamber/internal/diag"
	"chamber/internal/lexer"
	"chamber/internal/source"
	"chamber/internal/syntax"
)

// Parser: состояние ядра на один исходник.
type Parser struct {
	src    string
	toks   []cst.Token // значимые токены с присоединёнными trivia
	pos    int
	sink   diag.Sink
	eof    cst.Token  // синтетический EOF за концом потока
	last   source.Pos // конец последнего съеденного токена
	header []fieldInfo
}

// fieldInfo: то, что нужно валидатору заголовка от одного поля.
type fieldInfo struct {
	label byte
	value string
	rng   source.Range
}

func newParser(src string, sink diag.Sink) *Parser {
	if sink == nil {
		sink = diag.Discard
	}
	toks := cst.Attach(src, lexer.Tokenize(src))
	end := source.Pos(0)
	if n := len(toks); n > 0 {
		end = toks[n-1].FullRange().End
	}
	return &Parser{
		src:  src,
		toks: toks,
		sink: sink,
		eof:  cst.Token{Kind: syntax.EOF, Range: source.At(end)},
	}
}

// parseTune: Tune := Header Body.
func (p *Parser) parseTune() *cst.Node {
	tune := cst.NewNode(syntax.Tune)

	header := p.parseHeader()
	tune.PushNode(header)
	p.validateHeader(header)

	body := p.parseBody()
	tune.PushNode(body)

	// токен EOF есть в потоке только если в тексте нет значимых токенов;
	// он несёт всю trivia и должен попасть в дерево
	if p.pos < len(p.toks) && p.toks[p.pos].Kind == syntax.EOF {
		tune.Push(&p.toks[p.pos])
		p.pos++
	}

	if len(p.header) == 0 && !hasElements(body) {
		p.report(diag.EmptyTune, source.NewRange(0, p.eof.Range.End),
			"empty tune (no header or body content)")
	}
	return tune
}

// hasElements reports whether the body holds anything the projector keeps.
func hasElements(body *cst.Node) bool {
	for _, ch := range body.Children {
		if n := ch.Node(); n != nil && isElementNode(n.Kind) {
			return true
		}
	}
	return false
}

func isElementNode(k syntax.Kind) bool {
	switch k {
	case syntax.Note, syntax.RestNode, syntax.Chord, syntax.BarLine, syntax.Tuplet,
		syntax.Slur, syntax.GraceNotes, syntax.BrokenRhythmNode, syntax.TieNode,
		syntax.InlineField, syntax.AnnotationNode:
		return true
	default:
		return false
	}
}
