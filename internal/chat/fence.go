package chat

import (
	"strings"
	"unicode/utf8"
)

const (
	fenceOpen     = "```python\n"
	fenceClose    = "```\n"
	fenceLanguage = "python"
)

// FenceParser finds the first python code block in a token stream.
//
// A fence marker may be split across any number of tokens, so text that could still be
// the start of a marker is held back until the next token decides it. One parser serves
// exactly one stream; it is not safe for concurrent use.
type FenceParser struct {
	buf   string
	open  bool
	found bool
}

// NewFenceParser returns a parser in its initial state.
func NewFenceParser() *FenceParser {
	return &FenceParser{}
}

// InCode reports whether the parser is inside the code block.
func (p *FenceParser) InCode() bool {
	return p.open
}

// Feed consumes one token and returns the chunks it releases, tagged with index.
func (p *FenceParser) Feed(token string, index int) []Chunk {
	if p.found {
		if token == "" {
			return nil
		}
		return []Chunk{Token(token, index)}
	}

	p.buf += token
	var out []Chunk
	emit := func(s string) {
		if s != "" {
			out = append(out, Token(s, index))
		}
	}

	for !p.found {
		marker := fenceOpen
		if p.open {
			marker = fenceClose
		}
		if len(p.buf) < len(marker) {
			break
		}

		i := strings.Index(p.buf, marker)
		if i < 0 {
			// Keep a tail that could be the beginning of a split marker.
			// The cut moves back to a rune boundary so no token carries half a character.
			keep := len(marker) - 1
			for keep < len(p.buf) && !utf8.RuneStart(p.buf[len(p.buf)-keep]) {
				keep++
			}
			emit(p.buf[:len(p.buf)-keep])
			p.buf = p.buf[len(p.buf)-keep:]
			break
		}

		emit(p.buf[:i])
		p.buf = p.buf[i+len(marker):]
		if p.open {
			p.open = false
			p.found = true
			out = append(out, CodeEnd())
			emit(p.buf)
			p.buf = ""
		} else {
			p.open = true
			out = append(out, CodeStart(fenceLanguage))
		}
	}
	return out
}

// Flush releases whatever is still held back at the end of the stream. An unterminated
// code block is closed so the client never stays in code mode.
func (p *FenceParser) Flush(index int) []Chunk {
	var out []Chunk
	if p.buf != "" {
		out = append(out, Token(p.buf, index))
		p.buf = ""
	}
	if p.open {
		p.open = false
		out = append(out, CodeEnd())
	}
	return out
}
