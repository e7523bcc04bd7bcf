package step

import (
	"context"
	"fmt"
	"strconv"
	"strings"

	"github.com/codeready-toolchain/hikari/pkg/agentspec"
	"github.com/codeready-toolchain/hikari/pkg/template"
)

// EvalConditions resolves and evaluates every guard clause against the
// current slot state, returning true only if all conditions pass (an
// empty condition list always passes, matching a step with no guards).
func EvalConditions(ctx context.Context, ec ExecCtx, conditions []agentspec.Condition) (bool, error) {
	for _, cond := range conditions {
		ok, err := evalCondition(ctx, ec, cond)
		if err != nil {
			return false, err
		}
		if !ok {
			return false, nil
		}
	}
	return true, nil
}

func evalCondition(ctx context.Context, ec ExecCtx, cond agentspec.Condition) (bool, error) {
	path, err := template.ParseSlotPath(cond.Slot)
	if err != nil {
		return false, fmt.Errorf("step: condition slot %q: %w", cond.Slot, err)
	}
	value, ok, err := ec.Store.GetOne(ctx, ec.KeyFor(path.Destination), path.Name)
	if err != nil {
		return false, fmt.Errorf("step: resolve condition slot %q: %w", cond.Slot, err)
	}

	switch cond.Operator {
	case "exists":
		return ok, nil
	}
	if !ok {
		// Every remaining operator requires a present value to compare.
		return false, nil
	}

	switch cond.Operator {
	case "eq":
		return value == cond.Value, nil
	case "neq":
		return value != cond.Value, nil
	case "contains":
		return strings.Contains(value, cond.Value), nil
	case "lt", "lte", "gt", "gte":
		return evalNumericComparison(cond.Operator, value, cond.Value)
	default:
		return false, fmt.Errorf("step: unknown condition operator %q: %w", cond.Operator, ErrUnknownOperator)
	}
}

func evalNumericComparison(op, left, right string) (bool, error) {
	l, err := strconv.ParseFloat(left, 64)
	if err != nil {
		return false, fmt.Errorf("step: %w: slot value %q is not numeric", ErrNonNumericComparison, left)
	}
	r, err := strconv.ParseFloat(right, 64)
	if err != nil {
		return false, fmt.Errorf("step: %w: condition value %q is not numeric", ErrNonNumericComparison, right)
	}
	switch op {
	case "lt":
		return l < r, nil
	case "lte":
		return l <= r, nil
	case "gt":
		return l > r, nil
	case "gte":
		return l >= r, nil
	}
	return false, nil
}
