package services

import (
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestExperienceScore(t *testing.T) {
	tests := []struct {
		name   string
		months float64
		min    float64
		max    float64
		expect float64
	}{
		{name: "no experience required", months: 0, min: 0, max: 0, expect: 1.0},
		{name: "no experience required, senior applicant", months: 240, min: 0, max: 0.1, expect: 1.0},
		{name: "fresh applicant, entry job", months: 0, min: 0, max: 3, expect: 1.0},
		{name: "fresh applicant, experienced job", months: 0, min: 2, max: 5, expect: 0.0},
		{name: "negative experience counts as none", months: -12, min: 1, max: 3, expect: 0.0},
		{name: "within range", months: 48, min: 2, max: 5, expect: 1.0},
		{name: "at lower bound", months: 24, min: 2, max: 5, expect: 1.0},
		{name: "at upper bound", months: 60, min: 2, max: 5, expect: 1.0},
		{name: "under by two years", months: 36, min: 5, max: 8, expect: 0.8},
		{name: "over by six years", months: 120, min: 2, max: 4, expect: 0.7},
		{name: "far under floors at zero", months: 12, min: 15, max: 20, expect: 0.0},
		{name: "far over floors at zero", months: 360, min: 0.5, max: 2, expect: 0.0},
		{name: "max below min is raised", months: 60, min: 5, max: 1, expect: 1.0},
		{name: "nan inputs treated as zero", months: math.NaN(), min: math.NaN(), max: math.Inf(1), expect: 1.0},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := ExperienceScore(tt.months, tt.min, tt.max)
			assert.InDelta(t, tt.expect, got, 1e-9)
			assert.GreaterOrEqual(t, got, 0.0)
			assert.LessOrEqual(t, got, 1.0)
		})
	}
}

func TestExperienceScore_AlwaysInUnitRange(t *testing.T) {
	for months := -24.0; months <= 480; months += 7 {
		for min := 0.0; min <= 30; min += 2.5 {
			for max := min; max <= 30; max += 3.5 {
				got := ExperienceScore(months, min, max)
				if got < 0 || got > 1 {
					t.Fatalf("score %v out of range for months=%v min=%v max=%v", got, months, min, max)
				}
			}
		}
	}
}

func TestCoerceFloat(t *testing.T) {
	tests := []struct {
		name   string
		input  any
		expect float64
		ok     bool
	}{
		{name: "nil", input: nil, expect: 0, ok: false},
		{name: "float", input: 2.5, expect: 2.5, ok: true},
		{name: "int64", input: int64(36), expect: 36, ok: true},
		{name: "numeric string", input: " 4.5 ", expect: 4.5, ok: true},
		{name: "bytes", input: []byte("7"), expect: 7, ok: true},
		{name: "garbage", input: "five years", expect: 0, ok: false},
		{name: "nan", input: math.NaN(), expect: 0, ok: false},
		{name: "nan string", input: "NaN", expect: 0, ok: false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, ok := CoerceFloat(tt.input)
			assert.Equal(t, tt.ok, ok)
			assert.Equal(t, tt.expect, got)
		})
	}
}
