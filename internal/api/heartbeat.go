package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/statusled/internal/api/models"
	"github.com/smazurov/statusled/internal/control"
	"github.com/smazurov/statusled/internal/indicator"
)

func (s *Server) registerHeartbeatRoutes() {
	if s.options.Rates == nil {
		s.logger.Debug("No heartbeat rate controller, skipping heartbeat routes")
		return
	}

	huma.Register(s.api, huma.Operation{
		OperationID: "get-heartbeat-rate",
		Method:      http.MethodGet,
		Path:        "/api/heartbeat/rate",
		Summary:     "Get Heartbeat Rate",
		Description: "Current rate of heartbeat indicators that follow the runtime rate",
		Tags:        []string{"heartbeat"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.HeartbeatRateResponse, error) {
		return &models.HeartbeatRateResponse{
			Body: models.HeartbeatRateData{Rate: s.options.Rates.Current().String()},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "set-heartbeat-rate",
		Method:      http.MethodPut,
		Path:        "/api/heartbeat/rate",
		Summary:     "Set Heartbeat Rate",
		Description: "Switch heartbeat indicators between the slow (1s) and fast (100ms) period",
		Tags:        []string{"heartbeat"},
		Errors:      []int{400, 401, 422},
		Security:    withAuth(),
	}, func(ctx context.Context, input *models.HeartbeatRateRequest) (*models.HeartbeatRateResponse, error) {
		rate, err := indicator.ParseRate(input.Body.Rate)
		if err != nil {
			return nil, huma.Error400BadRequest("Invalid heartbeat rate", err)
		}
		s.options.Rates.Set(rate, control.SourceAPI)
		return &models.HeartbeatRateResponse{
			Body: models.HeartbeatRateData{Rate: rate.String()},
		}, nil
	})
}
