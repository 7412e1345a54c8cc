package parser

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"github.com/corsair-bot/corsair/pkg/core"
)

// Reader reads turns from the referee's text stream:
//
//	myShipCount
//	entityCount
//	id kind x y arg1 arg2 arg3 arg4   (entityCount times)
type Reader struct {
	p       *Parser
	scanner *bufio.Scanner
}

// NewReader creates a Reader over r.
func NewReader(r io.Reader, p *Parser) *Reader {
	return &Reader{p: p, scanner: bufio.NewScanner(r)}
}

// ReadTurn returns the next turn. It returns io.EOF when the stream ends cleanly between
// turns and io.ErrUnexpectedEOF when it ends inside one. The read itself blocks; ctx is
// only checked before it starts.
func (r *Reader) ReadTurn(ctx context.Context) (core.Turn, error) {
	if err := ctx.Err(); err != nil {
		return core.Turn{}, err
	}

	line, err := r.next()
	if err != nil {
		return core.Turn{}, err
	}
	ships, err := r.p.ParseCount(line, "ship count")
	if err != nil {
		return core.Turn{}, err
	}

	line, err = r.nextInTurn("entity count")
	if err != nil {
		return core.Turn{}, err
	}
	count, err := r.p.ParseCount(line, "entity count")
	if err != nil {
		return core.Turn{}, err
	}

	turn := core.Turn{MyShipCount: ships, Entities: make([]core.Entity, 0, count)}
	for i := 0; i < count; i++ {
		line, err = r.nextInTurn(fmt.Sprintf("entity %d of %d", i+1, count))
		if err != nil {
			return core.Turn{}, err
		}
		e, err := r.p.ParseEntity(line)
		if err != nil {
			return core.Turn{}, err
		}
		turn.Entities = append(turn.Entities, e)
	}

	return turn, nil
}

// next returns the next non-blank line, or io.EOF.
func (r *Reader) next() (string, error) {
	for r.scanner.Scan() {
		line := strings.TrimSpace(r.scanner.Text())
		if line != "" {
			return line, nil
		}
	}
	if err := r.scanner.Err(); err != nil {
		return "", fmt.Errorf("read input: %w", err)
	}
	return "", io.EOF
}

func (r *Reader) nextInTurn(what string) (string, error) {
	line, err := r.next()
	if err == io.EOF {
		return "", fmt.Errorf("reading %s: %w", what, io.ErrUnexpectedEOF)
	}
	return line, err
}
