package experiment

import (
	"strconv"
	"strings"

	"github.com/pkg/errors"

	"github.com/perfsweep/sleepsweep/pkg/probe"
)

// ParsePairs turns tokens like "3/13" into [3, 13] pairs. When
// allowSingle is set, a bare "3" becomes [3, NoCPU]; otherwise both
// values are mandatory (policy/priority, idle and frequency ranges).
func ParsePairs(tokens []string, allowSingle bool) ([][2]int, error) {
	pairs := make([][2]int, 0, len(tokens))

	for _, token := range tokens {
		first, second, found := strings.Cut(token, "/")
		if !found {
			if !allowSingle {
				return nil, errors.Errorf("malformed pair %q, expected min/max", token)
			}
			value, err := strconv.Atoi(strings.TrimSpace(first))
			if err != nil {
				return nil, errors.Wrapf(err, "malformed value %q", token)
			}
			pairs = append(pairs, [2]int{value, NoCPU})
			continue
		}

		a, err := strconv.Atoi(strings.TrimSpace(first))
		if err != nil {
			return nil, errors.Wrapf(err, "malformed pair %q", token)
		}
		b, err := strconv.Atoi(strings.TrimSpace(second))
		if err != nil {
			return nil, errors.Wrapf(err, "malformed pair %q", token)
		}
		pairs = append(pairs, [2]int{a, b})
	}

	return pairs, nil
}

// ParseInt64List parses duration tokens in nanoseconds.
func ParseInt64List(tokens []string) ([]int64, error) {
	values := make([]int64, 0, len(tokens))
	for _, token := range tokens {
		value, err := strconv.ParseInt(strings.TrimSpace(token), 10, 64)
		if err != nil {
			return nil, errors.Wrapf(err, "malformed duration %q", token)
		}
		values = append(values, value)
	}
	return values, nil
}

// ParseKinds resolves benchmark names into probe kinds.
func ParseKinds(tokens []string) ([]probe.Kind, error) {
	kinds := make([]probe.Kind, 0, len(tokens))
	for _, token := range tokens {
		kind, err := probe.ParseKind(strings.TrimSpace(token))
		if err != nil {
			return nil, err
		}
		kinds = append(kinds, kind)
	}
	return kinds, nil
}
