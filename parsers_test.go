package vastcap

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseTaskResult_Ready(t *testing.T) {
	body := `{
		"status": "ready",
		"solution": {
			"gRecaptchaResponse": "03AGdBq24",
			"score": 0.9,
			"userAgent": "Mozilla/5.0"
		}
	}`

	res, err := parseTaskResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, StatusReady, res.Status)
	assert.Nil(t, res.Error)
	require.NotNil(t, res.Solution)
	assert.Equal(t, "03AGdBq24", res.Solution.GRecaptchaResponse)
	assert.Empty(t, res.Solution.HCaptchaResponse)
	assert.Empty(t, res.Solution.TurnstileResponse)
	assert.Empty(t, res.Solution.Token)
	require.NotNil(t, res.Solution.Score)
	assert.InDelta(t, 0.9, *res.Solution.Score, 1e-9)
	assert.Equal(t, "Mozilla/5.0", res.Solution.UserAgent)
}

func TestParseTaskResult_ReadyAllFields(t *testing.T) {
	body := `{"status":"ready","solution":{"hCaptchaResponse":"h","turnstileResponse":"cf","token":"fc"}}`

	res, err := parseTaskResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, "h", res.Solution.HCaptchaResponse)
	assert.Equal(t, "cf", res.Solution.TurnstileResponse)
	assert.Equal(t, "fc", res.Solution.Token)
	assert.Nil(t, res.Solution.Score)
	assert.Equal(t, "h", res.Solution.Value())
}

func TestParseTaskResult_Failed(t *testing.T) {
	body := `{
		"status": "failed",
		"error": {
			"errorId": 12,
			"errorCode": "ERROR_CAPTCHA_UNSOLVABLE",
			"errorDescription": "Workers could not solve the captcha"
		}
	}`

	res, err := parseTaskResult([]byte(body))
	require.NoError(t, err)
	assert.Equal(t, StatusFailed, res.Status)
	assert.Nil(t, res.Solution)
	require.NotNil(t, res.Error)
	assert.Equal(t, SolverError{
		ErrorID:          12,
		ErrorCode:        "ERROR_CAPTCHA_UNSOLVABLE",
		ErrorDescription: "Workers could not solve the captcha",
	}, *res.Error)
}

func TestParseTaskResult_Processing(t *testing.T) {
	res, err := parseTaskResult([]byte(`{"status":"processing"}`))
	require.NoError(t, err)
	assert.Equal(t, StatusProcessing, res.Status)
	assert.Nil(t, res.Solution)
	assert.Nil(t, res.Error)
}

func TestParseTaskResult_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{"unknown status", `{"status":"queued"}`},
		{"missing status", `{}`},
		{"ready without solution", `{"status":"ready"}`},
		{"failed without error", `{"status":"failed"}`},
		{"invalid json", `{invalid`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := parseTaskResult([]byte(tt.body))
			assert.Error(t, err)
		})
	}
}

func TestParseTaskResult_RequestError(t *testing.T) {
	body := `{"error":{"errorId":16,"errorCode":"ERROR_TASK_NOT_FOUND","errorDescription":"no such task"}}`
	_, err := parseTaskResult([]byte(body))
	assert.ErrorIs(t, err, ErrTaskNotFound)
}

func TestParseCreateTask(t *testing.T) {
	id, err := parseCreateTask([]byte(`{"taskId":"a1b2c3"}`))
	require.NoError(t, err)
	assert.Equal(t, "a1b2c3", id)

	id, err = parseCreateTask([]byte(`{"taskId":7301}`))
	require.NoError(t, err)
	assert.Equal(t, "7301", id)

	_, err = parseCreateTask([]byte(`{"taskId":""}`))
	assert.Error(t, err)

	_, err = parseCreateTask([]byte(`{"error":{"errorCode":"ERROR_INSUFFICIENT_BALANCE","errorDescription":"top up"}}`))
	assert.ErrorIs(t, err, ErrInsufficientBalance)
}

func TestParseBalance(t *testing.T) {
	tests := []struct {
		name    string
		body    string
		want    float64
		wantErr bool
	}{
		{"number", `{"balance":12.5}`, 12.5, false},
		{"string", `{"balance":"3.75"}`, 3.75, false},
		{"integer", `{"balance":0}`, 0, false},
		{"missing", `{}`, 0, true},
		{"garbage", `{"balance":"lots"}`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := parseBalance([]byte(tt.body))
			if tt.wantErr {
				assert.Error(t, err)
				return
			}
			require.NoError(t, err)
			assert.InDelta(t, tt.want, got, 1e-9)
		})
	}
}

func TestCheckAPIError(t *testing.T) {
	tests := []struct {
		name string
		body string
		kind ErrorKind
		none bool
	}{
		{"no error", `{"taskId":"x"}`, 0, true},
		{"null error", `{"error":null}`, 0, true},
		{"empty object", `{"error":{}}`, 0, true},
		{"known", `{"error":{"errorCode":"ERROR_KEY_DOES_NOT_EXIST","errorDescription":"bad key"}}`, ErrInvalidAPIKey, false},
		{"unknown", `{"error":{"errorCode":"ERROR_NEW","errorDescription":"new"}}`, ErrUnknown, false},
		{"bare string", `{"error":"maintenance"}`, ErrUnknown, false},
		{"not json", `<html>`, 0, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := checkAPIError([]byte(tt.body))
			if tt.none {
				assert.NoError(t, err)
				return
			}
			var apiErr *APIError
			require.ErrorAs(t, err, &apiErr)
			assert.Equal(t, tt.kind, apiErr.Kind)
		})
	}
}
