package model

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestEmptyReportMarshalsToEmptyObject(t *testing.T) {
	data, err := json.Marshal(&AnalysisReport{})
	require.NoError(t, err)
	assert.JSONEq(t, `{}`, string(data))
	assert.True(t, (&AnalysisReport{}).IsEmpty())

	var nilReport *AnalysisReport
	assert.True(t, nilReport.IsEmpty())
}

func TestAgeDistributionJSONIsFlat(t *testing.T) {
	ages := AgeDistribution{
		Buckets:           map[string]float64{"18-24": 40, "25-34": 35.5},
		AverageAge:        27.3,
		UnknownPercentage: 24.5,
	}

	data, err := json.Marshal(ages)
	require.NoError(t, err)
	assert.JSONEq(t, `{"18-24":40,"25-34":35.5,"average_age":27.3,"unknown_percentage":24.5}`, string(data))

	var decoded AgeDistribution
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ages, decoded)
}

func TestDominant(t *testing.T) {
	name, value, ok := Dominant(map[string]float64{"a": 10, "b": 30, "c": 30})
	require.True(t, ok)
	assert.Equal(t, "b", name)
	assert.InDelta(t, 30, value, 0.001)

	_, _, ok = Dominant(nil)
	assert.False(t, ok)
}

func TestPercent(t *testing.T) {
	assert.InDelta(t, 33.3, Percent(1, 3), 0.0001)
	assert.InDelta(t, 66.7, Percent(2, 3), 0.0001)
	assert.Zero(t, Percent(5, 0))
}
