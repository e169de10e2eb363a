package errors

import "net/http"

var (
	ErrValidation = New(
		"VALIDATION_ERROR",
		"Validation failed",
		http.StatusBadRequest,
	)

	ErrStationNotFound = New(
		"STATION_NOT_FOUND",
		"Station not found",
		http.StatusNotFound,
	)

	ErrRead = New(
		"READ_ERROR",
		"Failed to read from the station store",
		http.StatusBadGateway,
	)

	ErrWrite = New(
		"WRITE_ERROR",
		"Failed to write to the station store",
		http.StatusBadGateway,
	)

	// ErrDecode не фатальна: битая запись логируется и выбрасывается из снапшота
	ErrDecode = New(
		"DECODE_ERROR",
		"Failed to decode station record",
		http.StatusInternalServerError,
	)

	ErrTimeout = New(
		"TIMEOUT",
		"Station store operation timed out",
		http.StatusGatewayTimeout,
	)

	ErrUnauthorized = New(
		"UNAUTHORIZED",
		"Missing or invalid credentials",
		http.StatusUnauthorized,
	)

	ErrInvalidCoordinates = New(
		"INVALID_COORDINATES",
		"Invalid coordinates provided",
		http.StatusBadRequest,
	)

	ErrInvalidRadius = New(
		"INVALID_RADIUS",
		"Invalid radius value",
		http.StatusBadRequest,
	)

	ErrInvalidRequest = New(
		"INVALID_REQUEST",
		"Invalid request parameters",
		http.StatusBadRequest,
	)

	ErrInternalServer = New(
		"INTERNAL_SERVER_ERROR",
		"Internal server error",
		http.StatusInternalServerError,
	)
)
