package cli

import (
	"fmt"
	"time"

	"github.com/rileyhilliard/lui/internal/errors"
)

// ParseDurationFlag parses a duration flag value. An empty value returns
// zero so the config value stays in force.
func ParseDurationFlag(name, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}

	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, errors.WrapWithCode(err, errors.ErrConfig,
			fmt.Sprintf("'%s' doesn't look like a valid --%s", value, name),
			"Try something like 5s, 2m, or 500ms.")
	}
	if d < 0 {
		return 0, errors.New(errors.ErrConfig,
			fmt.Sprintf("--%s can't be negative", name),
			"Use a positive duration like 30s.")
	}
	return d, nil
}
