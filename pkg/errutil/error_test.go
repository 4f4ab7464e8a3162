package errutil

import (
	"errors"
	"net/http"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestBaseErrorUnwrap(t *testing.T) {
	cause := errors.New("row missing")
	err := NotFound("license not found", WithErr(cause))

	require.ErrorIs(t, err, cause)

	var base BaseError
	require.ErrorAs(t, err, &base)
	require.Equal(t, StatusNotFound, base.Code)
	require.Contains(t, base.Error(), "license not found")
	require.Contains(t, base.Error(), "row missing")
}

func TestWithDetails(t *testing.T) {
	err := ValidationFailed("missing fields",
		WithDetails(
			Detail{Field: "athlete_id", Message: "is required"},
			Detail{Field: "sport_id", Message: "is required"},
		))

	var base BaseError
	require.ErrorAs(t, err, &base)
	require.Len(t, base.Details, 2)
	require.Equal(t, "athlete_id", base.Details[0].Field)
}

func TestHTTPStatusMapping(t *testing.T) {
	cases := map[CoreStatus]int{
		StatusBadRequest:          http.StatusBadRequest,
		StatusValidationFailed:    http.StatusBadRequest,
		StatusNotFound:            http.StatusNotFound,
		StatusConflict:            http.StatusConflict,
		StatusUnprocessableEntity: http.StatusUnprocessableEntity,
		StatusInternal:            http.StatusInternalServerError,
		CoreStatus("bogus"):       http.StatusInternalServerError,
	}

	for status, want := range cases {
		require.Equal(t, want, status.HTTPStatus(), string(status))
	}
}
