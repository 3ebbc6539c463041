package service

import (
	"context"
	"log/slog"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/settlement"
)

// AdminService implements the platform operator surface.
type AdminService struct {
	engine *settlement.Engine
	logger *slog.Logger
}

// NewAdminService creates a new AdminService backed by engine.
func NewAdminService(engine *settlement.Engine, logger *slog.Logger) *AdminService {
	if logger == nil {
		logger = slog.Default()
	}
	return &AdminService{engine: engine, logger: logger}
}

// ListLedger returns every settlement record on the platform with both due totals.
func (s *AdminService) ListLedger(ctx context.Context, req *connect.Request[ListLedgerRequest]) (*connect.Response[ListLedgerResponse], error) {
	report, err := s.engine.Ledger(ctx)
	if err != nil {
		s.logger.Error("ListLedger failed", "error", err)
		return nil, toConnectError(err)
	}

	s.logger.Debug("ListLedger successful",
		"records", len(report.Records),
		"skipped", len(report.Skipped),
	)

	return connect.NewResponse(&ListLedgerResponse{Ledger: ledgerToWire(report)}), nil
}

// ConfirmFeePayment records a host's commission payment on a receivable item.
func (s *AdminService) ConfirmFeePayment(ctx context.Context, req *connect.Request[ConfirmRequest]) (*connect.Response[ConfirmResponse], error) {
	return s.confirm(ctx, req.Msg, s.engine.ConfirmFeePayment)
}

// TransferPayout records the platform's payout on a payable item.
func (s *AdminService) TransferPayout(ctx context.Context, req *connect.Request[ConfirmRequest]) (*connect.Response[ConfirmResponse], error) {
	return s.confirm(ctx, req.Msg, s.engine.TransferPayout)
}

func (s *AdminService) confirm(
	ctx context.Context,
	msg *ConfirmRequest,
	action func(context.Context, string) (settlement.Confirmation, error),
) (*connect.Response[ConfirmResponse], error) {
	itemID := strings.TrimSpace(msg.ItemID)
	if itemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errItemIDRequired)
	}

	conf, err := action(ctx, itemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&ConfirmResponse{
		Result: string(conf.Result),
		Record: recordToWire(conf.Record),
	}), nil
}

// GetCommissionRate returns the global commission percentage.
func (s *AdminService) GetCommissionRate(ctx context.Context, req *connect.Request[GetCommissionRateRequest]) (*connect.Response[CommissionRateResponse], error) {
	rate, err := s.engine.CommissionRate(ctx)
	if err != nil {
		s.logger.Error("GetCommissionRate failed", "error", err)
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CommissionRateResponse{Rate: rate}), nil
}

// SetCommissionRate replaces the global commission percentage.
func (s *AdminService) SetCommissionRate(ctx context.Context, req *connect.Request[SetCommissionRateRequest]) (*connect.Response[CommissionRateResponse], error) {
	if err := s.engine.SetCommissionRate(ctx, req.Msg.Rate); err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&CommissionRateResponse{Rate: req.Msg.Rate}), nil
}

// RecordSale counts one application or purchase on an item.
func (s *AdminService) RecordSale(ctx context.Context, req *connect.Request[RecordSaleRequest]) (*connect.Response[ItemResponse], error) {
	itemID := strings.TrimSpace(req.Msg.ItemID)
	if itemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errItemIDRequired)
	}

	item, err := s.engine.RecordSale(ctx, itemID)
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: itemToWire(item)}), nil
}

// SetItemStatus moves an item through its lifecycle, e.g. to ended once the
// meetup took place.
func (s *AdminService) SetItemStatus(ctx context.Context, req *connect.Request[SetItemStatusRequest]) (*connect.Response[ItemResponse], error) {
	itemID := strings.TrimSpace(req.Msg.ItemID)
	if itemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errItemIDRequired)
	}

	item, err := s.engine.SetItemStatus(ctx, itemID, models.ItemStatus(req.Msg.Status))
	if err != nil {
		return nil, toConnectError(err)
	}
	return connect.NewResponse(&ItemResponse{Item: itemToWire(item)}), nil
}
