package parser

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"strings"
	"testing"

	"github.com/corsair-bot/corsair/internal/hex"
	"github.com/corsair-bot/corsair/pkg/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestParser() *Parser {
	return NewParser(slog.Default())
}

func TestParseIntFromFloat(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    int
		wantErr bool
	}{
		{"integer", "32", 32, false},
		{"negative", "-4", -4, false},
		{"float with decimals", "32.00", 32, false},
		{"fractional rejects", "10.99", 0, true},
		{"empty string", "", 0, true},
		{"non-numeric", "abc", 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseIntFromFloat(tt.input)
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseCount(t *testing.T) {
	p := newTestParser()

	n, err := p.ParseCount(" 3 ", "ship count")
	require.NoError(t, err)
	assert.Equal(t, 3, n)

	_, err = p.ParseCount("-1", "ship count")
	assert.ErrorIs(t, err, ErrMalformedLine)

	_, err = p.ParseCount("three", "ship count")
	assert.ErrorIs(t, err, ErrMalformedLine)
}

func TestParseEntity(t *testing.T) {
	p := newTestParser()

	tests := []struct {
		name string
		line string
		want core.Entity
	}{
		{
			name: "own ship",
			line: "0 SHIP 5 5 3 1 87 1",
			want: core.Ship{ID: 0, Position: hex.Offset{X: 5, Y: 5}, Heading: hex.Left, Speed: 1, Health: 87, Mine: true},
		},
		{
			name: "enemy ship",
			line: "1 SHIP 10 5 0 2 100 0",
			want: core.Ship{ID: 1, Position: hex.Offset{X: 10, Y: 5}, Heading: hex.Right, Speed: 2, Health: 100},
		},
		{
			name: "barrel",
			line: "7 BARREL 8 1 18 0 0 0",
			want: core.Barrel{ID: 7, Position: hex.Offset{X: 8, Y: 1}, Rum: 18},
		},
		{
			name: "mine",
			line: "9 MINE 4 4 0 0 0 0",
			want: core.Hazard{ID: 9, Type: core.KindMine, Position: hex.Offset{X: 4, Y: 4}},
		},
		{
			name: "cannonball",
			line: "12 CANNONBALL 6 7 0 2 0 0",
			want: core.Hazard{ID: 12, Type: core.KindCannonball, Position: hex.Offset{X: 6, Y: 7}, Args: [4]int{0, 2, 0, 0}},
		},
		{
			name: "unknown kind is kept as hazard",
			line: "13 KRAKEN 1 2 3 4 5 6",
			want: core.Hazard{ID: 13, Type: "KRAKEN", Position: hex.Offset{X: 1, Y: 2}, Args: [4]int{3, 4, 5, 6}},
		},
		{
			name: "invalid heading passes through",
			line: "2 SHIP 3 3 9 1 50 0",
			want: core.Ship{ID: 2, Position: hex.Offset{X: 3, Y: 3}, Heading: hex.Direction(9), Speed: 1, Health: 50},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := p.ParseEntity(tt.line)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
		})
	}
}

func TestParseEntity_Malformed(t *testing.T) {
	p := newTestParser()

	for _, line := range []string{
		"",
		"0 SHIP 5 5 3 1 87",
		"0 SHIP 5 5 3 1 87 1 2",
		"x SHIP 5 5 3 1 87 1",
		"0 SHIP 5 five 3 1 87 1",
	} {
		_, err := p.ParseEntity(line)
		assert.ErrorIs(t, err, ErrMalformedLine, "line %q", line)
	}
}

func TestReader_ReadsTurns(t *testing.T) {
	input := strings.Join([]string{
		"1",
		"3",
		"0 SHIP 5 5 0 1 100 1",
		"1 SHIP 10 5 0 1 100 0",
		"2 BARREL 3 3 12 0 0 0",
		"",
		"1",
		"0",
	}, "\n")

	r := NewReader(strings.NewReader(input), newTestParser())

	turn, err := r.ReadTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, turn.MyShipCount)
	require.Len(t, turn.Entities, 3)
	assert.Equal(t, core.KindBarrel, turn.Entities[2].Kind())

	turn, err = r.ReadTurn(context.Background())
	require.NoError(t, err)
	assert.Equal(t, 1, turn.MyShipCount)
	assert.Empty(t, turn.Entities)

	_, err = r.ReadTurn(context.Background())
	assert.Equal(t, io.EOF, err)
}

func TestReader_TruncatedTurn(t *testing.T) {
	r := NewReader(strings.NewReader("2\n2\n0 SHIP 1 1 0 0 100 1\n"), newTestParser())

	_, err := r.ReadTurn(context.Background())
	require.Error(t, err)
	assert.True(t, errors.Is(err, io.ErrUnexpectedEOF))
	assert.Contains(t, err.Error(), "entity 2 of 2")
}

func TestReader_CanceledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := NewReader(strings.NewReader("1\n0\n"), newTestParser())
	_, err := r.ReadTurn(ctx)
	assert.ErrorIs(t, err, context.Canceled)
}

func TestWriter_WriteCommands(t *testing.T) {
	var buf bytes.Buffer
	w := NewWriter(&buf)

	require.NoError(t, w.WriteCommands([]core.Command{
		core.Move(hex.Offset{X: 11, Y: 10}),
		core.Fire(hex.Offset{X: 12, Y: 5}),
	}))
	require.NoError(t, w.WriteCommands(nil))

	assert.Equal(t, "MOVE 11 10\nFIRE 12 5\n", buf.String())
}

type failingWriter struct{}

func (failingWriter) Write([]byte) (int, error) { return 0, io.ErrClosedPipe }

func TestWriter_PropagatesErrors(t *testing.T) {
	w := NewWriter(failingWriter{})
	err := w.WriteCommands([]core.Command{core.Move(hex.Offset{})})
	assert.ErrorIs(t, err, io.ErrClosedPipe)
}
