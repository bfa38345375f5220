package models

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLimitationListAcceptsStringArray(t *testing.T) {
	var rec TechniqueRecord
	payload := `{"name": "x", "limitations": ["First.", "  Second.  ", ""]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	assert.Equal(t, LimitationList{"First.", "Second."}, rec.Limitations)
}

func TestLimitationListAcceptsObjectArray(t *testing.T) {
	var rec TechniqueRecord
	payload := `{"name": "x", "limitations": [{"description": "Only one."}, {"description": ""}]}`
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	assert.Equal(t, LimitationList{"Only one."}, rec.Limitations)
}

func TestLimitationListSplitsPipeDelimitedString(t *testing.T) {
	var rec TechniqueRecord
	payload := `{"name": "x", "limitations": "First. | Second. ||"}`
	require.NoError(t, json.Unmarshal([]byte(payload), &rec))
	assert.Equal(t, LimitationList{"First.", "Second."}, rec.Limitations)
}

func TestLimitationListRejectsNumbers(t *testing.T) {
	var rec TechniqueRecord
	payload := `{"name": "x", "limitations": 42}`
	assert.Error(t, json.Unmarshal([]byte(payload), &rec))
}

func TestStringListRoundTrip(t *testing.T) {
	list := StringList{"tree-ensemble", "neural-network"}
	value, err := list.Value()
	require.NoError(t, err)
	assert.Equal(t, `["tree-ensemble","neural-network"]`, value)

	var scanned StringList
	require.NoError(t, scanned.Scan(value))
	assert.Equal(t, list, scanned)

	var empty StringList
	require.NoError(t, empty.Scan(nil))
	assert.Nil(t, empty)

	var nilValue StringList
	value, err = nilValue.Value()
	require.NoError(t, err)
	assert.Equal(t, "[]", value)
}

func TestTechniqueListParamsNormalize(t *testing.T) {
	p := TechniqueListParams{Page: 0, PageSize: 0}
	p.Normalize()
	assert.Equal(t, 1, p.Page)
	assert.Equal(t, DefaultPageSize, p.PageSize)

	p = TechniqueListParams{Page: 3, PageSize: 500}
	p.Normalize()
	assert.Equal(t, 3, p.Page)
	assert.Equal(t, MaxPageSize, p.PageSize)
}
