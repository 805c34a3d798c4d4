package services

import (
	"encoding/json"
	"fmt"
	"math"
	"strconv"
	"strings"
)

const (
	underExperiencePenaltyPerYear = 0.10
	overExperiencePenaltyPerYear  = 0.05
	noExperienceMaxYears          = 0.1
)

// ExperienceScore rates in [0, 1] how an applicant's total experience, in
// months, fits a job's required range in years. Non-finite inputs count as 0.
func ExperienceScore(applicantMonths, jobMinYears, jobMaxYears float64) float64 {
	years := finiteOrZero(applicantMonths) / 12.0
	jobMin := finiteOrZero(jobMinYears)
	jobMax := finiteOrZero(jobMaxYears)
	if jobMax < jobMin {
		jobMax = jobMin
	}

	if jobMin <= 0 && jobMax <= noExperienceMaxYears {
		return 1.0
	}

	if years <= 0 {
		if jobMin <= 0 {
			return 1.0
		}
		return 0.0
	}

	switch {
	case years >= jobMin && years <= jobMax:
		return 1.0
	case years < jobMin:
		return math.Max(0, 1.0-(jobMin-years)*underExperiencePenaltyPerYear)
	default:
		return math.Max(0, 1.0-(years-jobMax)*overExperiencePenaltyPerYear)
	}
}

// CoerceFloat converts a loosely typed numeric value. The second result is
// false for NULL, unparseable or non-finite input.
func CoerceFloat(raw any) (float64, bool) {
	var f float64
	switch v := raw.(type) {
	case nil:
		return 0, false
	case float64:
		f = v
	case float32:
		f = float64(v)
	case int:
		f = float64(v)
	case int32:
		f = float64(v)
	case int64:
		f = float64(v)
	case json.Number:
		parsed, err := v.Float64()
		if err != nil {
			return 0, false
		}
		f = parsed
	case string:
		return parseFloatString(v)
	case []byte:
		return parseFloatString(string(v))
	default:
		return parseFloatString(fmt.Sprint(v))
	}

	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func parseFloatString(s string) (float64, bool) {
	f, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil || math.IsNaN(f) || math.IsInf(f, 0) {
		return 0, false
	}
	return f, true
}

func finiteOrZero(f float64) float64 {
	if math.IsNaN(f) || math.IsInf(f, 0) {
		return 0
	}
	return f
}

func clamp(v, lo, hi float64) float64 {
	return math.Max(lo, math.Min(hi, v))
}

func roundTo(v float64, decimals int) float64 {
	p := math.Pow(10, float64(decimals))
	return math.Round(v*p) / p
}
