package grpc_api

import (
	"context"
	"encoding/json"
	"fmt"
	"math"

	"stock-forecaster/src/forecast"
	"stock-forecaster/src/helpers"
	"stock-forecaster/src/interfaces"
	"stock-forecaster/src/logger"
	"stock-forecaster/src/models"
	"stock-forecaster/src/presenter"

	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"
	"google.golang.org/protobuf/types/known/emptypb"
	"google.golang.org/protobuf/types/known/structpb"
)

const ServiceName = "stockforecast.v1.ForecastService"

// ForecastRunner is the pipeline surface the service needs.
type ForecastRunner interface {
	interfaces.IForecastRunner
	Strategies() []forecast.StrategyInfo
}

// ForecastService exposes the forecast pipeline over gRPC. Messages are
// google.protobuf.Struct so no generated code is needed.
type ForecastService struct {
	Runner ForecastRunner
	Logger *logger.Logger
}

func NewForecastService(cfg *models.MConfig, runner ForecastRunner) *ForecastService {
	return &ForecastService{
		Runner: runner,
		Logger: logger.NewLogger(cfg, "ForecastService"),
	}
}

// -----------------------------------------------------------------------------

// Forecast expects {ticker, strategy?, days?} and returns the rounded summary
// with the historical and forecast series.
func (s *ForecastService) Forecast(ctx context.Context, req *structpb.Struct) (*structpb.Struct, error) {
	fields := req.GetFields()

	ticker := fields["ticker"].GetStringValue()
	strategy := fields["strategy"].GetStringValue()

	days := 0
	if v, ok := fields["days"]; ok {
		n, isNum := v.GetKind().(*structpb.Value_NumberValue)
		if !isNum || n.NumberValue != math.Trunc(n.NumberValue) || math.Abs(n.NumberValue) > math.MaxInt32 {
			return nil, status.Error(codes.InvalidArgument, "days must be an integer")
		}
		days = int(n.NumberValue)
		if days == 0 {
			return nil, status.Error(codes.InvalidArgument, "days must be between 1 and 365")
		}
	}

	outcome, err := s.Runner.Run(ctx, ticker, models.MForecastRequest{
		Strategy:    strategy,
		HorizonDays: days,
		Options:     models.MPresentOptions{Format: models.FormatSummary},
	})
	if err != nil {
		return nil, toStatus(err)
	}

	historyDates := make([]string, len(outcome.History))
	for i, p := range outcome.History {
		historyDates[i] = models.DateString(p.Date)
	}
	forecastDates := make([]string, len(outcome.Result.Forecast))
	forecastData := make([]float64, len(outcome.Result.Forecast))
	for i, p := range outcome.Result.Forecast {
		forecastDates[i] = models.DateString(p.Date)
		forecastData[i] = p.PredictedClose
	}

	return toStruct(map[string]interface{}{
		"success":          true,
		"run_id":           outcome.RunID,
		"ticker":           outcome.Ticker,
		"strategy":         outcome.Strategy,
		"summary":          presenter.RoundedSummary(outcome.Presentation.Summary),
		"historical_dates": historyDates,
		"historical_data":  models.Closes(outcome.History),
		"forecast_dates":   forecastDates,
		"forecast_data":    forecastData,
	})
}

// -----------------------------------------------------------------------------

func (s *ForecastService) ListStrategies(ctx context.Context, _ *emptypb.Empty) (*structpb.Struct, error) {
	return toStruct(map[string]interface{}{
		"strategies": s.Runner.Strategies(),
	})
}

// -----------------------------------------------------------------------------

// toStatus maps an error kind to a gRPC status.
func toStatus(err error) error {
	switch helpers.ErrorKind(err) {
	case helpers.KindValidation:
		return status.Error(codes.InvalidArgument, err.Error())
	case helpers.KindDataUnavailable:
		return status.Error(codes.NotFound, err.Error())
	case helpers.KindForecast:
		return status.Error(codes.FailedPrecondition, err.Error())
	default:
		return status.Error(codes.Internal, "internal error")
	}
}

// -----------------------------------------------------------------------------

// toStruct converts v through its JSON form.
func toStruct(v interface{}) (*structpb.Struct, error) {
	raw, err := json.Marshal(v)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	var m map[string]interface{}
	if err := json.Unmarshal(raw, &m); err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	out, err := structpb.NewStruct(m)
	if err != nil {
		return nil, status.Errorf(codes.Internal, "encode response: %v", err)
	}
	return out, nil
}

// -----------------------------------------------------------------------------
// Service descriptor
// -----------------------------------------------------------------------------

type forecastServer interface {
	Forecast(context.Context, *structpb.Struct) (*structpb.Struct, error)
	ListStrategies(context.Context, *emptypb.Empty) (*structpb.Struct, error)
}

func forecastHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(structpb.Struct)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(forecastServer).Forecast(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fmt.Sprintf("/%s/Forecast", ServiceName)}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(forecastServer).Forecast(ctx, req.(*structpb.Struct))
	}
	return interceptor(ctx, in, info, handler)
}

func listStrategiesHandler(srv interface{}, ctx context.Context, dec func(interface{}) error, interceptor grpc.UnaryServerInterceptor) (interface{}, error) {
	in := new(emptypb.Empty)
	if err := dec(in); err != nil {
		return nil, err
	}
	if interceptor == nil {
		return srv.(forecastServer).ListStrategies(ctx, in)
	}
	info := &grpc.UnaryServerInfo{Server: srv, FullMethod: fmt.Sprintf("/%s/ListStrategies", ServiceName)}
	handler := func(ctx context.Context, req interface{}) (interface{}, error) {
		return srv.(forecastServer).ListStrategies(ctx, req.(*emptypb.Empty))
	}
	return interceptor(ctx, in, info, handler)
}

// ServiceDesc registers ForecastService on a grpc.Server.
var ServiceDesc = grpc.ServiceDesc{
	ServiceName: ServiceName,
	HandlerType: (*forecastServer)(nil),
	Methods: []grpc.MethodDesc{
		{MethodName: "Forecast", Handler: forecastHandler},
		{MethodName: "ListStrategies", Handler: listStrategiesHandler},
	},
	Streams:  []grpc.StreamDesc{},
	Metadata: "stockforecast/v1/forecast.proto",
}
