package pods

import (
	"context"
	"net/http"
	"strings"
	"time"

	"github.com/danielgtaylor/huma/v2"

	"github.com/carson-networks/podsync-server/internal/logging"
	"github.com/carson-networks/podsync-server/internal/service"
	"github.com/carson-networks/podsync-server/internal/syncerr"
)

// Pod is the API response model for a pod.
type Pod struct {
	ID                   string  `json:"id" doc:"Pod UUID"`
	SequenceAccountID    string  `json:"sequenceAccountId" doc:"External stable identifier"`
	Name                 string  `json:"name" doc:"Pod name"`
	IsActive             bool    `json:"isActive" doc:"False once a sync no longer observes the pod"`
	LastSeenAt           string  `json:"lastSeenAt" doc:"RFC3339 time the pod was last observed"`
	BalanceAmountInCents *int64  `json:"balanceAmountInCents,omitempty" doc:"Balance in cents, absent when unknown"`
	BalanceError         *string `json:"balanceError,omitempty" doc:"Aggregator balance error, absent when none"`
	BalanceUpdatedAt     *string `json:"balanceUpdatedAt,omitempty" doc:"RFC3339 time the balance was last refreshed"`
}

// ListPodsInput is the Huma input for listing pods.
type ListPodsInput struct {
	Authorization string `header:"Authorization" doc:"Bearer access token"`
}

// ListPodsResponseBody is the response body for listing pods.
type ListPodsResponseBody struct {
	Pods []Pod `json:"pods" doc:"The household's pods, active first"`
}

// ListPodsOutput is the Huma output for listing pods.
type ListPodsOutput struct {
	Body ListPodsResponseBody
}

// podLister is the interface for listing a household's pods.
type podLister interface {
	ListPods(ctx context.Context, accessToken string) ([]service.Pod, error)
}

// ListPodsHandler handles GET /v1/pods.
type ListPodsHandler struct {
	PodService podLister
}

// NewListPodsHandler creates a new ListPodsHandler.
func NewListPodsHandler(svc podLister) *ListPodsHandler {
	return &ListPodsHandler{PodService: svc}
}

// Register registers the list pods endpoint with the Huma API.
func (h *ListPodsHandler) Register(api huma.API) {
	huma.Register(api, huma.Operation{
		OperationID: "list-pods",
		Method:      http.MethodGet,
		Path:        "/v1/pods",
		Summary:     "List pods",
		Description: "Returns the caller's household pods as of the last sync.",
		Tags:        []string{"Pods"},
	}, h.handle)
}

func (h *ListPodsHandler) handle(ctx context.Context, input *ListPodsInput) (*ListPodsOutput, error) {
	accessToken := strings.TrimSpace(input.Authorization)
	if len(accessToken) >= 7 && strings.EqualFold(accessToken[:7], "bearer ") {
		accessToken = strings.TrimSpace(accessToken[7:])
	}
	if len(accessToken) == 0 {
		return nil, huma.NewError(http.StatusUnauthorized, "missing access token")
	}

	pods, err := h.PodService.ListPods(ctx, accessToken)
	if err != nil {
		if classified, ok := syncerr.As(err); ok {
			return nil, huma.NewError(classified.StatusCode(), classified.Message, err)
		}
		return nil, huma.NewError(http.StatusInternalServerError, "failed to list pods", err)
	}

	logData := logging.GetLogData(ctx)
	if logData != nil {
		logData.AddData("podCount", len(pods))
	}

	resp := ListPodsResponseBody{
		Pods: make([]Pod, len(pods)),
	}

	for i, p := range pods {
		row := Pod{
			ID:                   p.ID.String(),
			SequenceAccountID:    p.SequenceAccountID,
			Name:                 p.Name,
			IsActive:             p.IsActive,
			LastSeenAt:           p.LastSeenAt.Format(time.RFC3339),
			BalanceAmountInCents: p.BalanceAmountInCents,
			BalanceError:         p.BalanceError,
		}
		if p.BalanceUpdatedAt != nil {
			formatted := p.BalanceUpdatedAt.Format(time.RFC3339)
			row.BalanceUpdatedAt = &formatted
		}
		resp.Pods[i] = row
	}

	return &ListPodsOutput{Body: resp}, nil
}
