package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"slices"
	"strings"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/middleware"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/settlement"
)

var (
	errItemIDRequired = errors.New("item_id is required")
	errNoHost         = errors.New("token carries no host id")
)

// HostService implements the host surface. Every call is scoped to the host
// named in the caller's token.
type HostService struct {
	engine *settlement.Engine
	logger *slog.Logger
}

// NewHostService creates a new HostService backed by engine.
func NewHostService(engine *settlement.Engine, logger *slog.Logger) *HostService {
	if logger == nil {
		logger = slog.Default()
	}
	return &HostService{engine: engine, logger: logger}
}

func hostFrom(ctx context.Context) (string, error) {
	hostID := middleware.GetHostID(ctx)
	if hostID == "" {
		return "", connect.NewError(connect.CodePermissionDenied, errNoHost)
	}
	return hostID, nil
}

// GetLedger returns the caller's own settlement records and dues.
func (s *HostService) GetLedger(ctx context.Context, req *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error) {
	hostID, err := hostFrom(ctx)
	if err != nil {
		return nil, err
	}

	report, err := s.engine.HostLedger(ctx, hostID)
	if err != nil {
		s.logger.Error("GetLedger failed", "host_id", hostID, "error", err)
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&GetLedgerResponse{Ledger: ledgerToWire(report)}), nil
}

// MarkInvoiceSent records that the caller issued the commission invoice for one item.
func (s *HostService) MarkInvoiceSent(ctx context.Context, req *connect.Request[MarkInvoiceSentRequest]) (*connect.Response[MarkInvoiceSentResponse], error) {
	hostID, err := hostFrom(ctx)
	if err != nil {
		return nil, err
	}
	itemID := strings.TrimSpace(req.Msg.ItemID)
	if itemID == "" {
		return nil, connect.NewError(connect.CodeInvalidArgument, errItemIDRequired)
	}

	record, err := s.engine.MarkInvoiceSent(ctx, hostID, itemID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&MarkInvoiceSentResponse{Record: recordToWire(record)}), nil
}

// CheckCreation reports whether the caller may publish new content.
func (s *HostService) CheckCreation(ctx context.Context, req *connect.Request[CheckCreationRequest]) (*connect.Response[CheckCreationResponse], error) {
	hostID, err := hostFrom(ctx)
	if err != nil {
		return nil, err
	}

	decision, err := s.engine.CanCreateContent(ctx, hostID)
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&CheckCreationResponse{
		Allowed:        decision.Allowed,
		Reason:         decision.Reason,
		BlockingItems:  decision.BlockingItems,
		OutstandingFee: decision.OutstandingFee,
	}), nil
}

// CreateContent publishes a new item for the caller if the creation gate allows it.
func (s *HostService) CreateContent(ctx context.Context, req *connect.Request[CreateContentRequest]) (*connect.Response[CreateContentResponse], error) {
	hostID, err := hostFrom(ctx)
	if err != nil {
		return nil, err
	}
	if !slices.Contains(models.Categories, models.Category(req.Msg.Category)) {
		return nil, connect.NewError(connect.CodeInvalidArgument,
			fmt.Errorf("unknown category %q", req.Msg.Category))
	}

	item, err := s.engine.CreateContent(ctx, hostID, req.Msg.toItem())
	if err != nil {
		return nil, toConnectError(err)
	}

	return connect.NewResponse(&CreateContentResponse{Item: itemToWire(item)}), nil
}
