// Package syncpods is the HTTP entry point for triggering a pod sync. The
// endpoint is called from the mobile app, hence the permissive CORS surface.
package syncpods

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"github.com/davecgh/go-spew/spew"

	"github.com/carson-networks/podsync-server/internal/logging"
	"github.com/carson-networks/podsync-server/internal/service"
	"github.com/carson-networks/podsync-server/internal/syncerr"
)

const missingTokenMessage = "Missing access token (send Authorization header or access_token in body)"

// podSyncer is the interface for running a sync.
type podSyncer interface {
	SyncPods(ctx context.Context, accessToken string) (*service.SyncResult, error)
}

type Handler struct {
	Service podSyncer
}

func NewHandler(svc podSyncer) Handler {
	return Handler{Service: svc}
}

// syncResponse is the success body.
type syncResponse struct {
	HouseholdID   string   `json:"householdId"`
	SequenceURL   string   `json:"sequenceUrl"`
	AccountsCount int      `json:"accountsCount"`
	TypesSeen     []string `json:"typesSeen"`
	SeenPods      int      `json:"seenPods"`
	Upserted      int      `json:"upserted"`
	Deactivated   int      `json:"deactivated"`
}

func (h *Handler) Handler(w http.ResponseWriter, req *http.Request, logData *logging.LogData) (err error) {
	defer func() {
		if recovered := recover(); recovered != nil {
			writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
				"error": fmt.Sprintf("%v", recovered),
			})
			err = fmt.Errorf("sync-pods: panic: %v", recovered)
		}
	}()

	if req.Method == http.MethodOptions {
		applyCORS(w)
		w.WriteHeader(http.StatusNoContent)
		return nil
	}

	if req.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]interface{}{
			"error": "Method not allowed",
		})
		return errors.New("sync-pods: method not POST")
	}

	accessToken := extractAccessToken(req)
	if len(accessToken) == 0 {
		writeJSON(w, http.StatusUnauthorized, map[string]interface{}{
			"error": missingTokenMessage,
		})
		return errors.New("sync-pods: missing access token")
	}

	stopTimer := logData.AddTiming("syncPodsMs")
	result, syncErr := h.Service.SyncPods(req.Context(), accessToken)
	stopTimer()

	if syncErr != nil {
		h.writeFailure(w, logData, syncErr)
		return syncErr
	}

	logData.AddData("householdId", result.HouseholdID)
	logData.AddData("sequenceUrl", result.SequenceURL)
	logData.AddData("accountsCount", result.AccountsCount)
	logData.AddData("seenPods", result.SeenPods)
	logData.AddData("upserted", result.Upserted)
	logData.AddData("deactivated", result.Deactivated)

	writeJSON(w, http.StatusOK, syncResponse{
		HouseholdID:   result.HouseholdID,
		SequenceURL:   result.SequenceURL,
		AccountsCount: result.AccountsCount,
		TypesSeen:     result.TypesSeen,
		SeenPods:      result.SeenPods,
		Upserted:      result.Upserted,
		Deactivated:   result.Deactivated,
	})
	return nil
}

// writeFailure maps a classified error to its status and echoes its
// diagnostic fields so an operator can see what the aggregator returned.
func (h *Handler) writeFailure(w http.ResponseWriter, logData *logging.LogData, err error) {
	classified, ok := syncerr.As(err)
	if !ok {
		writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
			"error": err.Error(),
		})
		return
	}

	payload := map[string]interface{}{
		"error": classified.Error(),
	}
	for key, value := range classified.Diagnostics {
		payload[key] = value
	}

	if body, present := classified.Diagnostics["body"]; present {
		logData.AddData("upstreamBody", spew.Sdump(body))
	}

	writeJSON(w, classified.StatusCode(), payload)
}

// extractAccessToken prefers the Authorization header (with or without the
// Bearer prefix) and falls back to an access_token field in the JSON body.
func extractAccessToken(req *http.Request) string {
	header := req.Header.Get("Authorization")
	if len(header) != 0 {
		if len(header) >= 7 && strings.EqualFold(header[:7], "bearer ") {
			header = header[7:]
		}
		if token := strings.TrimSpace(header); len(token) != 0 {
			return token
		}
	}

	body, err := io.ReadAll(req.Body)
	if err != nil {
		return ""
	}

	var parsed struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &parsed); err != nil {
		// No JSON body; ignore.
		return ""
	}
	return parsed.AccessToken
}

func applyCORS(w http.ResponseWriter) {
	w.Header().Set("access-control-allow-origin", "*")
	w.Header().Set("access-control-allow-headers", "authorization, x-client-info, apikey, content-type")
	w.Header().Set("access-control-allow-methods", "POST, OPTIONS")
}

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	applyCORS(w)
	w.Header().Set("content-type", "application/json; charset=utf-8")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(body)
}
