package helpers

import (
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"auction-marketplace/internal/marketerrors"
	"auction-marketplace/utils"

	"github.com/gin-gonic/gin"
)

// HandleBindError sends a standardized JSON error for binding failures
func HandleBindError(c *gin.Context, handlerName string, err error) {
	wrappedErr := fmt.Errorf("invalid request payload: %w", err)
	utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid request payload")
	utils.Warn(handlerName+": binding error", map[string]any{"error": err.Error()})
}

// MapErrorToHTTP maps domain/service errors to HTTP status code and message
func MapErrorToHTTP(err error) (int, string) {
	switch {
	case errors.Is(err, marketerrors.ErrInvalidType):
		return http.StatusBadRequest, "invalid field type"
	case errors.Is(err, marketerrors.ErrInvalidValue):
		return http.StatusBadRequest, "invalid field value"
	case errors.Is(err, marketerrors.ErrInvalidInput):
		return http.StatusBadRequest, "invalid input"
	case errors.Is(err, marketerrors.ErrInvalidBid):
		return http.StatusBadRequest, "invalid bid details"
	case errors.Is(err, marketerrors.ErrNotAuction):
		return http.StatusBadRequest, "listing is not an auction"
	case errors.Is(err, marketerrors.ErrBidTooLow):
		return http.StatusConflict, "bid amount too low"
	case errors.Is(err, marketerrors.ErrListingClosed):
		return http.StatusConflict, "listing is not active"
	case errors.Is(err, marketerrors.ErrAuctionNotRunning):
		return http.StatusConflict, "auction is not running"
	case errors.Is(err, marketerrors.ErrNoBids):
		return http.StatusNotFound, "no bids found for listing"
	case errors.Is(err, marketerrors.ErrUserNoBids):
		return http.StatusNotFound, "no bids found for user"
	case errors.Is(err, marketerrors.ErrNotFound):
		return http.StatusNotFound, "resource not found"
	case errors.Is(err, marketerrors.ErrConflict):
		return http.StatusConflict, "resource already exists or is in use"
	case errors.Is(err, marketerrors.ErrInvalidCredentials):
		return http.StatusUnauthorized, "invalid username or password"
	case errors.Is(err, marketerrors.ErrSessionExpired):
		return http.StatusUnauthorized, "session expired"
	case errors.Is(err, marketerrors.ErrUnauthorized):
		return http.StatusUnauthorized, "authentication required"
	case errors.Is(err, marketerrors.ErrInactiveUser):
		return http.StatusForbidden, "account is deactivated"
	case errors.Is(err, marketerrors.ErrForbidden):
		return http.StatusForbidden, "operation not permitted"
	case errors.Is(err, marketerrors.ErrNoBackup):
		return http.StatusNotFound, "no backup available"
	case errors.Is(err, marketerrors.ErrDatabasePresent):
		return http.StatusConflict, "database file already exists"
	default:
		return http.StatusInternalServerError, "internal server error"
	}
}

// RespondError writes the mapped error envelope and logs it. Client errors log at warn level,
// server errors at error level.
func RespondError(c *gin.Context, handlerName string, err error, ctx map[string]any) {
	status, message := MapErrorToHTTP(err)
	if status >= http.StatusInternalServerError {
		// the detail goes to the log only
		utils.JSONError(c, status, errors.New(message), message)
	} else {
		utils.JSONError(c, status, fmt.Errorf("%s: %w", message, err), message)
	}

	fields := make(map[string]any, len(ctx)+3)
	for k, v := range ctx {
		fields[k] = v
	}
	fields["handler"] = handlerName
	fields["status"] = status
	fields["error"] = err.Error()
	if actor := CurrentActor(c); !actor.Anonymous() {
		fields["user_id"] = actor.UserID
	}

	if status >= http.StatusInternalServerError {
		utils.Error(handlerName+": "+message, fields)
		return
	}
	utils.Warn(handlerName+": "+message, fields)
}

// LogSuccess is a small helper to standardize logging of successful operations
func LogSuccess(handlerName, message string, ctx map[string]any) {
	utils.Info(handlerName+": "+message, ctx)
}

// ParseID reads a positive integer path parameter. On failure it writes a 400 response and
// returns false.
func ParseID(c *gin.Context, param string) (int64, bool) {
	raw := c.Param(param)
	id, err := strconv.ParseInt(raw, 10, 64)
	if err != nil || id <= 0 {
		wrappedErr := fmt.Errorf("invalid %s %q: %w", param, raw, marketerrors.ErrInvalidInput)
		utils.JSONError(c, http.StatusBadRequest, wrappedErr, "invalid "+param)
		utils.Warn("ParseID: invalid path parameter", map[string]any{"param": param, "value": raw})
		return 0, false
	}
	return id, true
}

// BindFields decodes a JSON object body into a field map for the entity constructors
func BindFields(c *gin.Context, handlerName string) (map[string]any, bool) {
	var fields map[string]any
	if err := c.ShouldBindJSON(&fields); err != nil {
		HandleBindError(c, handlerName, err)
		return nil, false
	}
	if fields == nil {
		HandleBindError(c, handlerName, errors.New("request body must be a JSON object"))
		return nil, false
	}
	return fields, true
}
