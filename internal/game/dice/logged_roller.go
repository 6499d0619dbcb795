package dice

import (
	"fmt"

	"go.uber.org/zap"
)

// Roller wraps a Source and logger to provide logged dice rolling.
// All rolls are logged at debug level with expression, dice values, modifier, and total.
type Roller struct {
	src    Source
	logger *zap.Logger
}

// NewLoggedRoller creates a Roller that rolls with src and logs each roll to logger.
// A nil logger disables logging.
//
// Precondition: src must be non-nil.
func NewLoggedRoller(src Source, logger *zap.Logger) *Roller {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Roller{src: src, logger: logger}
}

// Source returns the underlying randomness source.
func (r *Roller) Source() Source { return r.src }

// Roll evaluates expr and logs the result at debug level.
//
// Precondition: expr must come from Parse.
func (r *Roller) Roll(expr Expression) RollResult {
	result := Roll(expr, r.src)
	if ce := r.logger.Check(zap.DebugLevel, "dice roll"); ce != nil {
		notation := result.Expression
		if notation == "" {
			notation = fmt.Sprintf("%dd%d%+d", expr.Count, expr.Sides, expr.Modifier)
		}
		ce.Write(
			zap.String("expression", notation),
			zap.Ints("dice", result.Dice),
			zap.Int("modifier", result.Modifier),
			zap.Int("total", result.Total()),
		)
	}
	return result
}

// RollExpr parses expr and rolls it, logging the result.
//
// Postcondition: Returns a RollResult or a parse error.
func (r *Roller) RollExpr(expr string) (RollResult, error) {
	e, err := Parse(expr)
	if err != nil {
		return RollResult{}, err
	}
	return r.Roll(e), nil
}

// Dice returns the sum of count independent uniform rolls in [1, faces].
//
// Postcondition: Returns 0 when count < 1 or faces < 1; otherwise a value in [count, count*faces].
func (r *Roller) Dice(count, faces int) int {
	if count < 1 || faces < 1 {
		return 0
	}
	return r.Roll(Expression{Count: count, Sides: faces}).Total()
}

// D rolls a single die with the given number of faces.
func (r *Roller) D(faces int) int { return r.Dice(1, faces) }

// ParseAndRoll rolls a notation string. Bare integers are returned verbatim.
// Malformed notation is logged as a warning and resolves to 0.
func (r *Roller) ParseAndRoll(notation string) int {
	e, err := Parse(notation)
	if err != nil {
		r.logger.Warn("dice: malformed notation", zap.String("notation", notation), zap.Error(err))
		return 0
	}
	if e.IsConstant() {
		return e.Modifier
	}
	return r.Roll(e).Total()
}

// MaxOf returns the maximum value a notation string can roll.
// Malformed notation is logged as a warning and resolves to 0.
func (r *Roller) MaxOf(notation string) int {
	e, err := Parse(notation)
	if err != nil {
		r.logger.Warn("dice: malformed notation", zap.String("notation", notation), zap.Error(err))
		return 0
	}
	return e.Max()
}
