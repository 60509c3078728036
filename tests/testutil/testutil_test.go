package testutil

import (
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
)

func TestNewTestContext(t *testing.T) {
	tc := NewTestContext(t)

	assert.NotNil(t, tc.Context)
	assert.NotNil(t, tc.Recorder)
	assert.NotNil(t, tc.Engine)
	assert.Equal(t, http.MethodGet, tc.Context.Request.Method)
}

func TestTestContext(t *testing.T) {
	t.Run("ResponseCode reflects the recorder", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Recorder.WriteHeader(http.StatusCreated)
		assert.Equal(t, http.StatusCreated, tc.ResponseCode())
	})
}

func TestRunHTTPTestCase(t *testing.T) {
	handler := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"message": "hello",
		})
	}

	RunHTTPTestCase(t, handler, HTTPTestCase{
		Name:           "simple test",
		Method:         http.MethodGet,
		Path:           "/test",
		ExpectedStatus: http.StatusOK,
		ExpectedBody: map[string]any{
			"success": true,
		},
	})
}

func TestRunHTTPTestCases(t *testing.T) {
	echoHeader := func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"caller":  c.GetHeader("X-Caller"),
		})
	}

	RunHTTPTestCases(t, echoHeader, []HTTPTestCase{
		{
			Name:           "default request",
			ExpectedStatus: http.StatusOK,
		},
		{
			Name:           "header is forwarded",
			Headers:        map[string]string{"X-Caller": "bendahara"},
			ExpectedStatus: http.StatusOK,
			ExpectedBody:   map[string]any{"caller": "bendahara"},
		},
		{
			Name:           "validate hook sees the envelope",
			ExpectedStatus: http.StatusOK,
			Validate: func(t *testing.T, tc *TestContext) {
				AssertSuccessResponse(t, tc)
			},
		},
	})
}

func TestJSONResponse(t *testing.T) {
	tc := NewTestContext(t)
	tc.Context.JSON(http.StatusOK, gin.H{"key": "value"})

	resp := JSONResponse(t, tc)
	assert.Equal(t, "value", resp["key"])
}

func TestAssertResponses(t *testing.T) {
	t.Run("success envelope", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusOK, gin.H{"success": true})
		AssertSuccessResponse(t, tc)
	})

	t.Run("error envelope", func(t *testing.T) {
		tc := NewTestContext(t)
		tc.Context.JSON(http.StatusNotFound, gin.H{
			"success": false,
			"error":   gin.H{"code": "ERR_NOT_FOUND"},
		})
		AssertErrorResponse(t, tc, "ERR_NOT_FOUND")
	})
}
