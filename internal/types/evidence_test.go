package types

import (
	"encoding/json"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestYearMonth_JSON(t *testing.T) {
	ym := YearMonth{Year: 2021, Month: time.March}

	data, err := json.Marshal(ym)
	require.NoError(t, err)
	assert.Equal(t, `"2021-03"`, string(data))

	var decoded YearMonth
	require.NoError(t, json.Unmarshal(data, &decoded))
	assert.Equal(t, ym, decoded)
}

func TestYearMonth_UnmarshalInvalid(t *testing.T) {
	var ym YearMonth
	err := json.Unmarshal([]byte(`"March 2021"`), &ym)
	assert.Error(t, err)
}

func TestYearMonth_Ordering(t *testing.T) {
	earlier := YearMonth{Year: 2019, Month: time.December}
	later := YearMonth{Year: 2020, Month: time.January}

	assert.True(t, earlier.Before(later))
	assert.False(t, later.Before(earlier))
	assert.Equal(t, 1, later.Months()-earlier.Months())
}

func TestEvidencePassage_IsListOnly(t *testing.T) {
	listOnly := EvidencePassage{ContextType: ContextSkillsList}
	verbed := EvidencePassage{ContextType: ContextSkillsList, ActionVerbs: []string{"built"}}
	project := EvidencePassage{ContextType: ContextProject}

	assert.True(t, listOnly.IsListOnly())
	assert.False(t, verbed.IsListOnly())
	assert.False(t, project.IsListOnly())
}
