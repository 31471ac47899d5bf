package common

import (
	"errors"
	"net/http"

	"census-app-go/internal/domain/access"
	"census-app-go/internal/domain/census"
	"census-app-go/internal/domain/evidence"
	"census-app-go/internal/domain/reference"
	"census-app-go/internal/domain/schedule"
	"census-app-go/internal/domain/user"
	"census-app-go/internal/domain/validation"
	"census-app-go/pkg/logger"
)

type errorMapping struct {
	target error
	status int
	code   string
}

var domainErrors = []errorMapping{
	{access.ErrForbidden, http.StatusForbidden, "forbidden"},
	{evidence.ErrRecordOutsideSchedule, http.StatusForbidden, "record_outside_schedule"},
	{user.ErrInvalidCredentials, http.StatusUnauthorized, "invalid_credentials"},

	{reference.ErrZoneNotFound, http.StatusNotFound, "zone_not_found"},
	{reference.ErrSectorNotFound, http.StatusNotFound, "sector_not_found"},
	{reference.ErrCensusTypeNotFound, http.StatusNotFound, "census_type_not_found"},
	{census.ErrRecordNotFound, http.StatusNotFound, "census_record_not_found"},
	{evidence.ErrRecordNotFound, http.StatusNotFound, "census_record_not_found"},
	{schedule.ErrScheduleNotFound, http.StatusNotFound, "schedule_not_found"},
	{evidence.ErrScheduleNotFound, http.StatusNotFound, "schedule_not_found"},
	{user.ErrUserNotFound, http.StatusNotFound, "user_not_found"},

	{reference.ErrZoneHasSectors, http.StatusConflict, "zone_has_sectors"},
	{reference.ErrZoneInUse, http.StatusConflict, "zone_in_use"},
	{reference.ErrSectorInUse, http.StatusConflict, "sector_in_use"},
	{reference.ErrCensusTypeInUse, http.StatusConflict, "census_type_in_use"},
	{user.ErrUserHasSchedules, http.StatusConflict, "user_has_schedules"},
	{user.ErrCannotDeleteSelf, http.StatusConflict, "cannot_delete_self"},
}

// late unique violations that slipped past the pre-flight checks
var duplicateFields = []struct {
	target error
	field  string
}{
	{census.ErrDuplicateNationalID, census.FieldNationalID},
	{census.ErrDuplicateCode, census.FieldCode},
	{reference.ErrDuplicateZoneName, "name"},
	{reference.ErrDuplicateCensusTypeName, "name"},
	{user.ErrDuplicateEmail, "email"},
}

// WriteServiceError renders a service failure. Expected domain failures are logged as business
// errors; anything unrecognised becomes a 500.
func WriteServiceError(w http.ResponseWriter, log logger.Logger, op string, err error, args ...any) {
	var fields validation.Errors
	if errors.As(err, &fields) {
		log.BusinessError(op+": validation failed", err, args...)
		writeValidation(w, fields)
		return
	}
	for _, dup := range duplicateFields {
		if errors.Is(err, dup.target) {
			log.BusinessError(op+": duplicate value", err, args...)
			writeValidation(w, validation.Field(dup.field, "has already been taken"))
			return
		}
	}
	for _, mapping := range domainErrors {
		if errors.Is(err, mapping.target) {
			log.BusinessError(op+": "+mapping.code, err, args...)
			writeError(w, mapping.status, mapping.code, mapping.target.Error())
			return
		}
	}

	log.InternalError(op+": failed", err, args...)
	writeError(w, http.StatusInternalServerError, "internal_error", "internal error")
}

func writeValidation(w http.ResponseWriter, fields validation.Errors) {
	writeJSON(w, http.StatusUnprocessableEntity, errorEnvelope{Error: errorBody{
		Code:    "validation_failed",
		Message: "the given data was invalid",
		Fields:  fields,
	}})
}

func WriteInvalidRequest(w http.ResponseWriter, message string) {
	writeError(w, http.StatusBadRequest, "invalid_request", message)
}
