package api

import (
	"context"
	"net/http"

	"github.com/danielgtaylor/huma/v2"
	"github.com/smazurov/statusled/internal/api/models"
)

func (s *Server) registerIndicatorRoutes() {
	huma.Register(s.api, huma.Operation{
		OperationID: "list-indicators",
		Method:      http.MethodGet,
		Path:        "/api/indicators",
		Summary:     "List Indicators",
		Description: "Configured indicators with the last state each one rendered",
		Tags:        []string{"indicators"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.IndicatorListResponse, error) {
		var list []models.IndicatorData
		if s.options.Tracker != nil {
			list = s.options.Tracker.Indicators()
		}
		if list == nil {
			list = []models.IndicatorData{}
		}
		return &models.IndicatorListResponse{
			Body: models.IndicatorListData{
				Indicators: list,
				Count:      len(list),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-interfaces",
		Method:      http.MethodGet,
		Path:        "/api/interfaces",
		Summary:     "List Interfaces",
		Description: "Status of every interface referenced by a network indicator, as last observed",
		Tags:        []string{"indicators"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.InterfaceListResponse, error) {
		var list []models.InterfaceData
		if s.options.Tracker != nil {
			list = s.options.Tracker.Interfaces()
		}
		return &models.InterfaceListResponse{
			Body: models.InterfaceListData{
				Interfaces: list,
				Count:      len(list),
			},
		}, nil
	})

	huma.Register(s.api, huma.Operation{
		OperationID: "list-outputs",
		Method:      http.MethodGet,
		Path:        "/api/outputs",
		Summary:     "List Outputs",
		Description: "Outputs the active driver can address",
		Tags:        []string{"indicators"},
		Errors:      []int{401},
		Security:    withAuth(),
	}, func(ctx context.Context, input *struct{}) (*models.OutputListResponse, error) {
		outputs := s.options.Outputs
		if outputs == nil {
			outputs = []string{}
		}
		return &models.OutputListResponse{
			Body: models.OutputListData{
				Driver:  s.options.Driver,
				Outputs: outputs,
			},
		}, nil
	})
}
