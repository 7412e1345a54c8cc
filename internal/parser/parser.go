package parser

import (
	"errors"
	"fmt"
	"log/slog"
	"strconv"
	"strings"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
)

// entityFields is the number of tokens on an entity line: id kind x y arg1..arg4.
const entityFields = 8

// ErrMalformedLine reports an input line that does not follow the turn protocol.
var ErrMalformedLine = errors.New("malformed line")

// parseIntFromFloat parses a string that may be an integer ("32") or an integral
// float ("32.00") into int. Referee builds have been seen to print either.
func parseIntFromFloat(s string) (int, error) {
	if v, err := strconv.Atoi(s); err == nil {
		return v, nil
	}
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, err
	}
	if f != float64(int(f)) {
		return 0, fmt.Errorf("parseIntFromFloat: %q is not a valid int", s)
	}
	return int(f), nil
}

// Parser turns protocol lines into typed records. It holds no per-turn state.
type Parser struct {
	logger *slog.Logger
}

// NewParser creates a new parser with only a logger dependency
func NewParser(logger *slog.Logger) *Parser {
	return &Parser{logger: logger}
}

// ParseCount parses a line holding a single non-negative integer.
func (p *Parser) ParseCount(line, what string) (int, error) {
	n, err := parseIntFromFloat(strings.TrimSpace(line))
	if err != nil {
		return 0, fmt.Errorf("%w: %s %q: %v", ErrMalformedLine, what, line, err)
	}
	if n < 0 {
		return 0, fmt.Errorf("%w: negative %s %d", ErrMalformedLine, what, n)
	}
	return n, nil
}

// ParseEntity parses one entity line. Unknown kinds become core.Hazard values; they
// are not errors. Headings are not validated here.
func (p *Parser) ParseEntity(line string) (core.Entity, error) {
	fields := strings.Fields(line)
	if len(fields) != entityFields {
		return nil, fmt.Errorf("%w: expected %d fields, got %d in %q", ErrMalformedLine, entityFields, len(fields), line)
	}

	var nums [entityFields]int
	for i, f := range fields {
		if i == 1 {
			continue
		}
		v, err := parseIntFromFloat(f)
		if err != nil {
			return nil, fmt.Errorf("%w: field %d of %q: %v", ErrMalformedLine, i, line, err)
		}
		nums[i] = v
	}

	id := nums[0]
	kind := core.EntityKind(strings.ToUpper(fields[1]))
	pos := hex.Offset{X: nums[2], Y: nums[3]}
	args := [4]int{nums[4], nums[5], nums[6], nums[7]}

	switch kind {
	case core.KindShip:
		return core.Ship{
			ID:       id,
			Position: pos,
			Heading:  hex.Direction(args[0]),
			Speed:    args[1],
			Health:   args[2],
			Mine:     args[3] == 1,
		}, nil
	case core.KindBarrel:
		return core.Barrel{ID: id, Position: pos, Rum: args[0]}, nil
	case core.KindMine, core.KindCannonball:
		return core.Hazard{ID: id, Type: kind, Position: pos, Args: args}, nil
	default:
		p.logger.Debug("unknown entity kind", "kind", fields[1], "id", id)
		return core.Hazard{ID: id, Type: kind, Position: pos, Args: args}, nil
	}
}
