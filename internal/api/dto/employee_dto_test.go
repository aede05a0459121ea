package dto

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	apperrors "github.com/spec-kit/orgchart-service/pkg/util/errorutil"
)

func decode(t *testing.T, body string) EmployeeRequest {
	t.Helper()
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(body), &raw))
	req, err := EmployeeRequestFromJSON(raw)
	require.NoError(t, err)
	return req
}

func TestManagerPresence(t *testing.T) {
	absent := decode(t, `{"name":"A"}`)
	assert.False(t, absent.ReportingManagerSet)

	cleared := decode(t, `{"reportingManagerId":null}`)
	assert.True(t, cleared.ReportingManagerSet)
	assert.Nil(t, cleared.ReportingManagerID)

	patch, err := decode(t, `{"reportingManagerId":""}`).ToPatch()
	require.NoError(t, err)
	assert.True(t, patch.ReportingManagerSet)

	form := EmployeeRequestFromForm(map[string][]string{"reportingManagerId": {""}})
	assert.True(t, form.ReportingManagerSet)
}

func TestYearsAcceptNumbersAndStrings(t *testing.T) {
	input, err := decode(t, `{"name":"A","designation":"B","yearsOfExperience":12}`).ToInput()
	require.NoError(t, err)
	assert.Equal(t, 12, input.YearsOfExperience)

	input, err = decode(t, `{"name":"A","designation":"B","yearsOfExperience":" 3 "}`).ToInput()
	require.NoError(t, err)
	assert.Equal(t, 3, input.YearsOfExperience)

	input, err = decode(t, `{"name":"A","designation":"B"}`).ToInput()
	require.NoError(t, err)
	assert.Zero(t, input.YearsOfExperience)

	_, err = decode(t, `{"yearsOfExperience":"2.5"}`).ToPatch()
	assert.True(t, apperrors.IsValidation(err))
}

func TestCreateInputNormalizesManager(t *testing.T) {
	input, err := decode(t, `{"reportingManagerId":"none"}`).ToInput()
	require.NoError(t, err)
	assert.Nil(t, input.ReportingManagerID)
}

func TestRejectsStructuredValues(t *testing.T) {
	raw := map[string]json.RawMessage{}
	require.NoError(t, json.Unmarshal([]byte(`{"name":{"first":"A"}}`), &raw))
	_, err := EmployeeRequestFromJSON(raw)
	assert.True(t, apperrors.IsValidation(err))
}
