// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package mtx

import (
	"math"
	"strconv"

	"github.com/pkg/errors"

	"github.com/pdiddy/matrix-import/pkg/types"
)

// maxExactInt is the largest magnitude below which every integer is exactly
// representable as a float64.
const maxExactInt = 1 << 53

// ParseValue parses s under policy.
func ParseValue(s string, policy types.NumericPolicy) (types.Value, error) {
	switch policy {
	case types.NumericInteger:
		n, err := strconv.ParseInt(s, 10, 64)
		if err != nil {
			return types.Value{}, errors.New("not an integer")
		}
		return types.IntValue(n), nil

	case types.NumericFloat:
		f, err := parseFloat(s)
		if err != nil {
			return types.Value{}, err
		}
		return types.FloatValue(f), nil

	case types.NumericAuto, "":
		if n, err := strconv.ParseInt(s, 10, 64); err == nil {
			return types.IntValue(n), nil
		}
		f, err := parseFloat(s)
		if err != nil {
			return types.Value{}, err
		}
		if f == math.Trunc(f) && math.Abs(f) < maxExactInt {
			return types.IntValue(int64(f)), nil
		}
		return types.FloatValue(f), nil
	}
	return types.Value{}, errors.Errorf("unknown numeric policy %q", policy)
}

func parseFloat(s string) (float64, error) {
	f, err := strconv.ParseFloat(s, 64)
	if err != nil {
		return 0, errors.New("not a number")
	}
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, errors.New("not a finite number")
	}
	return f, nil
}
