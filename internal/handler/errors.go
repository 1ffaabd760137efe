package handler

import "errors"

// errInvalidUID is returned when uid is missing, non-numeric, or not positive.
var errInvalidUID = errors.New("missing or invalid uid parameter")
