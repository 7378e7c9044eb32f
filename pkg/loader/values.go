// pkg/loader/values.go
package loader

import (
	"strconv"
	"strings"

	"enrolltrend/pkg/model"
)

// parseCount converts a numeric field to an optional count. Null tokens and
// values that fail to parse as integers become absent, never zero and never
// an error.
func (l *Loader) parseCount(field string) model.Count {
	trimmed := strings.TrimSpace(field)

	if trimmed == "" || l.schema.IsNullToken(trimmed) {
		return model.AbsentCount()
	}

	value, err := strconv.ParseInt(trimmed, 10, 64)
	if err != nil {
		return model.AbsentCount()
	}

	return model.NewCount(value)
}
