package dice

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
)

// ErrMalformedNotation is returned by Parse when a notation string is not a
// bare integer or a valid NdM[+|-k] expression.
var ErrMalformedNotation = errors.New("dice: malformed notation")

// Notation limits. Larger expressions are rejected as malformed.
const (
	MaxDiceCount = 100
	MaxDiceSides = 1000
)

// Expression represents a parsed dice expression ready to be rolled.
// A constant expression (a bare integer) has Count == 0 and carries its value
// in Modifier.
type Expression struct {
	Raw      string // original input string
	Count    int    // number of dice; 0 for constants
	Sides    int    // faces per die
	Modifier int    // flat modifier (may be negative)
}

// IsConstant reports whether the expression is a fixed, non-random value.
func (e Expression) IsConstant() bool { return e.Count == 0 }

// Max returns the highest total the expression can produce.
//
// Postcondition: Max() == Count*Sides + Modifier.
func (e Expression) Max() int { return e.Count*e.Sides + e.Modifier }

// Min returns the lowest total the expression can produce.
func (e Expression) Min() int { return e.Count + e.Modifier }

// Parse parses a dice notation string into an Expression.
// Supported forms: "3", "-1", "d20", "2D6", "1D8+2", "2d6-1" (case-insensitive).
//
// Postcondition: Returns a valid Expression, or an error wrapping ErrMalformedNotation.
func Parse(expr string) (Expression, error) {
	s := strings.ToLower(strings.TrimSpace(expr))
	if s == "" {
		return Expression{}, fmt.Errorf("%w: empty expression", ErrMalformedNotation)
	}
	if n, err := strconv.Atoi(s); err == nil {
		return Expression{Raw: expr, Modifier: n}, nil
	}

	dIdx := strings.Index(s, "d")
	if dIdx < 0 {
		return Expression{}, fmt.Errorf("%w: missing 'd' in %q", ErrMalformedNotation, expr)
	}

	count := 1
	if countStr := s[:dIdx]; countStr != "" {
		var err error
		count, err = strconv.Atoi(countStr)
		if err != nil || count < 1 {
			return Expression{}, fmt.Errorf("%w: invalid die count in %q", ErrMalformedNotation, expr)
		}
		if count > MaxDiceCount {
			return Expression{}, fmt.Errorf("%w: die count in %q exceeds %d", ErrMalformedNotation, expr, MaxDiceCount)
		}
	}

	rest := s[dIdx+1:]
	sidesStr, modStr := rest, ""
	if i := strings.IndexAny(rest, "+-"); i >= 0 {
		sidesStr, modStr = rest[:i], rest[i:]
	}

	sides, err := strconv.Atoi(sidesStr)
	if err != nil || sides < 1 {
		return Expression{}, fmt.Errorf("%w: invalid die sides in %q", ErrMalformedNotation, expr)
	}
	if sides > MaxDiceSides {
		return Expression{}, fmt.Errorf("%w: die sides in %q exceed %d", ErrMalformedNotation, expr, MaxDiceSides)
	}

	modifier := 0
	if modStr != "" {
		modifier, err = strconv.Atoi(modStr)
		if err != nil {
			return Expression{}, fmt.Errorf("%w: invalid modifier in %q", ErrMalformedNotation, expr)
		}
	}

	return Expression{Raw: expr, Count: count, Sides: sides, Modifier: modifier}, nil
}
