// Copyright Mesh Intelligence Inc., 2026. All rights reserved.

package types

import "strconv"

// DefaultFeatureType is used when a feature row has no distinct type column.
const DefaultFeatureType = "Gene Expression"

// Feature is one row of a features.tsv (or genes.tsv) file.
type Feature struct {
	// ID is the feature identifier from the first column.
	ID string `json:"feature" yaml:"feature"`

	// Type is the feature type label, or DefaultFeatureType.
	Type string `json:"feature_type" yaml:"feature_type"`
}

// Value is a matrix entry value. Integral values carry IsInt so that stores
// can keep the integer representation.
type Value struct {
	Int   int64
	Float float64
	IsInt bool
}

// IntValue returns a Value holding n.
func IntValue(n int64) Value {
	return Value{Int: n, Float: float64(n), IsInt: true}
}

// FloatValue returns a Value holding f.
func FloatValue(f float64) Value {
	return Value{Float: f}
}

// Interface returns the value as int64 or float64.
func (v Value) Interface() any {
	if v.IsInt {
		return v.Int
	}
	return v.Float
}

// String formats the value the way it is written to text-based stores.
func (v Value) String() string {
	if v.IsInt {
		return strconv.FormatInt(v.Int, 10)
	}
	return strconv.FormatFloat(v.Float, 'g', -1, 64)
}

// ExpressionRecord is one non-zero matrix entry joined with its feature
// and barcode annotations.
type ExpressionRecord struct {
	Feature     string `json:"feature" yaml:"feature"`
	FeatureType string `json:"feature_type" yaml:"feature_type"`
	Barcode     string `json:"id" yaml:"id"`
	Value       Value  `json:"value" yaml:"value"`
}
