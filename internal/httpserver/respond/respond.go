package respond

import (
	"encoding/json"
	"net/http"

	"github.com/MrSnakeDoc/apimap/internal/errs"
	"github.com/MrSnakeDoc/apimap/internal/logger"
)

type errorBody struct {
	Error errorDetail `json:"error"`
}

type errorDetail struct {
	Type    string `json:"type"`
	Message string `json:"message"`
}

// JSON writes v with the given status.
func JSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

// Error writes err as {"error": {"type", "message"}}. Errors that are not
// *errs.AppError become internal errors; their cause is logged, not sent.
func Error(w http.ResponseWriter, log logger.Logger, err error) {
	appErr := errs.As(err)
	if appErr.Code >= http.StatusInternalServerError {
		log.Error("request failed",
			logger.String("type", appErr.Type),
			logger.Int("code", appErr.Code),
			logger.Error(appErr.Err))
	} else {
		log.Debug("request rejected",
			logger.String("type", appErr.Type),
			logger.Int("code", appErr.Code),
			logger.Error(appErr.Err))
	}
	JSON(w, appErr.Code, errorBody{Error: errorDetail{Type: appErr.Type, Message: appErr.Msg}})
}
