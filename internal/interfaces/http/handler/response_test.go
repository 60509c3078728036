package handler

import (
	"errors"
	"net/http"
	"testing"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"

	"github.com/koperasi/backend/internal/domain/shared"
	"github.com/koperasi/backend/internal/domain/shu"
	"github.com/koperasi/backend/tests/testutil"
)

func TestBaseHandler_Success(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	h.Success(tc.Context, map[string]string{"member_number": "KOP-0001"})

	assert.Equal(t, http.StatusOK, tc.ResponseCode())
	testutil.AssertSuccessResponse(t, tc)

	resp := testutil.JSONResponse(t, tc)
	data := resp["data"].(map[string]interface{})
	assert.Equal(t, "KOP-0001", data["member_number"])
}

func TestBaseHandler_Created(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	h.Created(tc.Context, map[string]string{"id": "abc"})

	assert.Equal(t, http.StatusCreated, tc.ResponseCode())
	testutil.AssertSuccessResponse(t, tc)
}

func TestBaseHandler_HandleError(t *testing.T) {
	h := &BaseHandler{}

	errorHandler := func(err error) gin.HandlerFunc {
		return func(c *gin.Context) {
			h.HandleError(c, err)
		}
	}

	cases := []struct {
		name         string
		err          error
		expectStatus int
		expectCode   string
	}{
		{
			name:         "not found maps to 404",
			err:          shared.ErrNotFound,
			expectStatus: http.StatusNotFound,
			expectCode:   "ERR_NOT_FOUND",
		},
		{
			name:         "duplicate member number maps to 409",
			err:          shared.NewDomainError("MEMBER_NUMBER_TAKEN", "Member number is already in use"),
			expectStatus: http.StatusConflict,
			expectCode:   "ERR_ALREADY_EXISTS",
		},
		{
			name:         "insufficient balance maps to 422",
			err:          shared.ErrInsufficientBalance,
			expectStatus: http.StatusUnprocessableEntity,
			expectCode:   "ERR_INSUFFICIENT_BALANCE",
		},
		{
			name:         "invalid state maps to 422",
			err:          shared.NewDomainError("INVALID_STATE", "Cannot pay out a draft distribution"),
			expectStatus: http.StatusUnprocessableEntity,
			expectCode:   "ERR_INVALID_STATE",
		},
		{
			name:         "unknown error maps to 500",
			err:          errors.New("connection reset"),
			expectStatus: http.StatusInternalServerError,
			expectCode:   "ERR_INTERNAL",
		},
	}

	for _, tt := range cases {
		t.Run(tt.name, func(t *testing.T) {
			tc := testutil.NewTestContext(t)
			errorHandler(tt.err)(tc.Context)

			assert.Equal(t, tt.expectStatus, tc.ResponseCode())
			testutil.AssertErrorResponse(t, tc, tt.expectCode)
		})
	}
}

func TestBaseHandler_HandleError_PercentageSum(t *testing.T) {
	h := &BaseHandler{}

	tc := testutil.NewTestContext(t)
	h.HandleError(tc.Context, &shu.PercentageSumError{
		Level:        1,
		CurrentTotal: decimal.NewFromFloat(97.5),
	})

	assert.Equal(t, http.StatusUnprocessableEntity, tc.ResponseCode())
	testutil.AssertErrorResponse(t, tc, "ERR_PERCENTAGE_SUM")

	resp := testutil.JSONResponse(t, tc)
	errMap := resp["error"].(map[string]interface{})
	details := errMap["details"].(map[string]interface{})
	assert.Equal(t, float64(1), details["level"])
	assert.Equal(t, "97.50", details["current_total"])
}
