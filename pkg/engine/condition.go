package engine

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/joelmartins/onsell-engine/pkg/models"
)

// Condition operators supported by condition nodes.
const (
	OperatorEquals     = "equals"
	OperatorNotEquals  = "not_equals"
	OperatorContains   = "contains"
	OperatorGreater    = "greater_than"
	OperatorLess       = "less_than"
	OperatorIsEmpty    = "is_empty"
	OperatorIsNotEmpty = "is_not_empty"
)

// EvaluateCondition resolves the configured field against the contact,
// opportunity or run context and applies the operator. Missing
// condition_type or condition_field yields condition_met=false, the safe
// default.
func EvaluateCondition(config map[string]any, execution models.Execution) map[string]any {
	conditionType, _ := config["condition_type"].(string)
	conditionField, _ := config["condition_field"].(string)

	if conditionType == "" || conditionField == "" {
		return map[string]any{"condition_met": false}
	}

	var fieldValue any

	switch conditionType {
	case "contact":
		if execution.Contact != nil {
			fieldValue, _ = execution.Contact.Field(conditionField)
		}
	case "opportunity":
		if execution.Opportunity != nil {
			fieldValue, _ = execution.Opportunity.Field(conditionField)
		}
	case "context":
		if execution.Context != nil {
			fieldValue = execution.Context[conditionField]
		}
	}

	operator, _ := config["condition_operator"].(string)
	if operator == "" {
		operator = OperatorEquals
	}

	expected := config["condition_value"]

	return map[string]any{"condition_met": applyOperator(operator, fieldValue, expected)}
}

func applyOperator(operator string, fieldValue, expected any) bool {
	switch operator {
	case OperatorEquals:
		return coerceString(fieldValue) == coerceString(expected)
	case OperatorNotEquals:
		return coerceString(fieldValue) != coerceString(expected)
	case OperatorContains:
		// substring match, meaningful for string fields only
		value, ok := fieldValue.(string)
		if !ok {
			return false
		}

		return strings.Contains(value, coerceString(expected))
	case OperatorGreater:
		return compareOrdered(fieldValue, expected) > 0
	case OperatorLess:
		return compareOrdered(fieldValue, expected) < 0
	case OperatorIsEmpty:
		return isEmpty(fieldValue)
	case OperatorIsNotEmpty:
		return !isEmpty(fieldValue)
	default:
		return false
	}
}

// compareOrdered compares numerically when both sides parse as numbers,
// lexically otherwise.
func compareOrdered(fieldValue, expected any) int {
	left, leftOK := toFloat(fieldValue)
	right, rightOK := toFloat(expected)

	if leftOK && rightOK {
		switch {
		case left > right:
			return 1
		case left < right:
			return -1
		default:
			return 0
		}
	}

	return strings.Compare(coerceString(fieldValue), coerceString(expected))
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case string:
		parsed, err := strconv.ParseFloat(v, 64)
		if err != nil {
			return 0, false
		}

		return parsed, true
	default:
		return 0, false
	}
}

func isEmpty(value any) bool {
	if value == nil {
		return true
	}

	return coerceString(value) == ""
}

func coerceString(value any) string {
	if value == nil {
		return ""
	}

	return fmt.Sprintf("%v", value)
}
