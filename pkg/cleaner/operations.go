// pkg/cleaner/operations.go
package cleaner

import (
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"enrolltrend/pkg/model"
)

// filledField describes a count that was derived during imputation.
type filledField struct {
	column string
	value  int64
	reason string
}

// imputeCounts applies the three mutually exclusive fill rules. Each rule
// requires exactly one field absent and the other two present, so all three
// are evaluated against the original values, never chained. With two or more
// fields absent nothing is derivable from total = male + female and the
// counts pass through unchanged.
func imputeCounts(total, male, female model.Count) (model.Count, model.Count, model.Count, *filledField) {
	switch {
	case !total.Valid && male.Valid && female.Valid:
		derived := male.Add(female)
		return derived, male, female, &filledField{
			column: "Total",
			value:  derived.Value,
			reason: "total_from_male_female",
		}

	case !male.Valid && total.Valid && female.Valid:
		derived := total.Sub(female)
		return total, derived, female, &filledField{
			column: "Male",
			value:  derived.Value,
			reason: "male_from_total_female",
		}

	case !female.Valid && total.Valid && male.Valid:
		derived := total.Sub(male)
		return total, male, derived, &filledField{
			column: "Female",
			value:  derived.Value,
			reason: "female_from_total_male",
		}

	default:
		return total, male, female, nil
	}
}

// splitHierarchy decodes the organizational nesting encoded purely through
// indentation width: the depth is the length of the leading whitespace run
// of the verbatim label, the name is the label with that run removed.
func splitHierarchy(label string) (int, string) {
	name := strings.TrimLeftFunc(label, unicode.IsSpace)
	depth := len([]rune(label)) - len([]rune(name))
	return depth, name
}

// SemesterYear extracts the numeric year key from a semester label by taking
// its leading 4-digit run, e.g. "2007/08" -> 2007. The presenter uses it for
// ordering and animation progression only; it is never stored in the table.
func SemesterYear(label string) (int, error) {
	if len(label) < 4 {
		return 0, fmt.Errorf("semester label %q has no leading 4-digit year", label)
	}
	for i := 0; i < 4; i++ {
		if label[i] < '0' || label[i] > '9' {
			return 0, fmt.Errorf("semester label %q has no leading 4-digit year", label)
		}
	}

	year, err := strconv.Atoi(label[:4])
	if err != nil {
		return 0, fmt.Errorf("semester label %q has no leading 4-digit year", label)
	}
	return year, nil
}
