package service

import (
	"context"
	"net/http"
	"strings"

	"connectrpc.com/connect"
)

const (
	// AdminServiceName is the fully-qualified name of the admin service.
	AdminServiceName = "imfoot.settlement.v1.AdminService"

	// HostServiceName is the fully-qualified name of the host service.
	HostServiceName = "imfoot.settlement.v1.HostService"
)

// Procedure paths, in the same form Connect code generation would produce.
const (
	AdminServiceListLedgerProcedure        = "/" + AdminServiceName + "/ListLedger"
	AdminServiceConfirmFeePaymentProcedure = "/" + AdminServiceName + "/ConfirmFeePayment"
	AdminServiceTransferPayoutProcedure    = "/" + AdminServiceName + "/TransferPayout"
	AdminServiceGetCommissionRateProcedure = "/" + AdminServiceName + "/GetCommissionRate"
	AdminServiceSetCommissionRateProcedure = "/" + AdminServiceName + "/SetCommissionRate"
	AdminServiceRecordSaleProcedure        = "/" + AdminServiceName + "/RecordSale"
	AdminServiceSetItemStatusProcedure     = "/" + AdminServiceName + "/SetItemStatus"

	HostServiceGetLedgerProcedure       = "/" + HostServiceName + "/GetLedger"
	HostServiceMarkInvoiceSentProcedure = "/" + HostServiceName + "/MarkInvoiceSent"
	HostServiceCheckCreationProcedure   = "/" + HostServiceName + "/CheckCreation"
	HostServiceCreateContentProcedure   = "/" + HostServiceName + "/CreateContent"
)

// NewAdminServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewAdminServiceHandler(svc *AdminService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(AdminServiceListLedgerProcedure,
		connect.NewUnaryHandler(AdminServiceListLedgerProcedure, svc.ListLedger, opts...))
	mux.Handle(AdminServiceConfirmFeePaymentProcedure,
		connect.NewUnaryHandler(AdminServiceConfirmFeePaymentProcedure, svc.ConfirmFeePayment, opts...))
	mux.Handle(AdminServiceTransferPayoutProcedure,
		connect.NewUnaryHandler(AdminServiceTransferPayoutProcedure, svc.TransferPayout, opts...))
	mux.Handle(AdminServiceGetCommissionRateProcedure,
		connect.NewUnaryHandler(AdminServiceGetCommissionRateProcedure, svc.GetCommissionRate, opts...))
	mux.Handle(AdminServiceSetCommissionRateProcedure,
		connect.NewUnaryHandler(AdminServiceSetCommissionRateProcedure, svc.SetCommissionRate, opts...))
	mux.Handle(AdminServiceRecordSaleProcedure,
		connect.NewUnaryHandler(AdminServiceRecordSaleProcedure, svc.RecordSale, opts...))
	mux.Handle(AdminServiceSetItemStatusProcedure,
		connect.NewUnaryHandler(AdminServiceSetItemStatusProcedure, svc.SetItemStatus, opts...))
	return "/" + AdminServiceName + "/", mux
}

// NewHostServiceHandler builds an HTTP handler from the service implementation.
// It returns the path on which to mount the handler and the handler itself.
func NewHostServiceHandler(svc *HostService, opts ...connect.HandlerOption) (string, http.Handler) {
	opts = withJSON(opts)
	mux := http.NewServeMux()
	mux.Handle(HostServiceGetLedgerProcedure,
		connect.NewUnaryHandler(HostServiceGetLedgerProcedure, svc.GetLedger, opts...))
	mux.Handle(HostServiceMarkInvoiceSentProcedure,
		connect.NewUnaryHandler(HostServiceMarkInvoiceSentProcedure, svc.MarkInvoiceSent, opts...))
	mux.Handle(HostServiceCheckCreationProcedure,
		connect.NewUnaryHandler(HostServiceCheckCreationProcedure, svc.CheckCreation, opts...))
	mux.Handle(HostServiceCreateContentProcedure,
		connect.NewUnaryHandler(HostServiceCreateContentProcedure, svc.CreateContent, opts...))
	return "/" + HostServiceName + "/", mux
}

func withJSON(opts []connect.HandlerOption) []connect.HandlerOption {
	return append([]connect.HandlerOption{connect.WithCodec(JSONCodec{})}, opts...)
}

// AdminServiceClient is a client for the admin service.
type AdminServiceClient struct {
	listLedger        *connect.Client[ListLedgerRequest, ListLedgerResponse]
	confirmFeePayment *connect.Client[ConfirmRequest, ConfirmResponse]
	transferPayout    *connect.Client[ConfirmRequest, ConfirmResponse]
	getCommissionRate *connect.Client[GetCommissionRateRequest, CommissionRateResponse]
	setCommissionRate *connect.Client[SetCommissionRateRequest, CommissionRateResponse]
	recordSale        *connect.Client[RecordSaleRequest, ItemResponse]
	setItemStatus     *connect.Client[SetItemStatusRequest, ItemResponse]
}

// NewAdminServiceClient constructs a client for the admin service. baseURL is
// the server root, e.g. http://localhost:8080.
func NewAdminServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *AdminServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &AdminServiceClient{
		listLedger: connect.NewClient[ListLedgerRequest, ListLedgerResponse](
			httpClient, baseURL+AdminServiceListLedgerProcedure, opts...),
		confirmFeePayment: connect.NewClient[ConfirmRequest, ConfirmResponse](
			httpClient, baseURL+AdminServiceConfirmFeePaymentProcedure, opts...),
		transferPayout: connect.NewClient[ConfirmRequest, ConfirmResponse](
			httpClient, baseURL+AdminServiceTransferPayoutProcedure, opts...),
		getCommissionRate: connect.NewClient[GetCommissionRateRequest, CommissionRateResponse](
			httpClient, baseURL+AdminServiceGetCommissionRateProcedure, opts...),
		setCommissionRate: connect.NewClient[SetCommissionRateRequest, CommissionRateResponse](
			httpClient, baseURL+AdminServiceSetCommissionRateProcedure, opts...),
		recordSale: connect.NewClient[RecordSaleRequest, ItemResponse](
			httpClient, baseURL+AdminServiceRecordSaleProcedure, opts...),
		setItemStatus: connect.NewClient[SetItemStatusRequest, ItemResponse](
			httpClient, baseURL+AdminServiceSetItemStatusProcedure, opts...),
	}
}

func (c *AdminServiceClient) ListLedger(ctx context.Context, req *connect.Request[ListLedgerRequest]) (*connect.Response[ListLedgerResponse], error) {
	return c.listLedger.CallUnary(ctx, req)
}

func (c *AdminServiceClient) ConfirmFeePayment(ctx context.Context, req *connect.Request[ConfirmRequest]) (*connect.Response[ConfirmResponse], error) {
	return c.confirmFeePayment.CallUnary(ctx, req)
}

func (c *AdminServiceClient) TransferPayout(ctx context.Context, req *connect.Request[ConfirmRequest]) (*connect.Response[ConfirmResponse], error) {
	return c.transferPayout.CallUnary(ctx, req)
}

func (c *AdminServiceClient) GetCommissionRate(ctx context.Context, req *connect.Request[GetCommissionRateRequest]) (*connect.Response[CommissionRateResponse], error) {
	return c.getCommissionRate.CallUnary(ctx, req)
}

func (c *AdminServiceClient) SetCommissionRate(ctx context.Context, req *connect.Request[SetCommissionRateRequest]) (*connect.Response[CommissionRateResponse], error) {
	return c.setCommissionRate.CallUnary(ctx, req)
}

func (c *AdminServiceClient) RecordSale(ctx context.Context, req *connect.Request[RecordSaleRequest]) (*connect.Response[ItemResponse], error) {
	return c.recordSale.CallUnary(ctx, req)
}

func (c *AdminServiceClient) SetItemStatus(ctx context.Context, req *connect.Request[SetItemStatusRequest]) (*connect.Response[ItemResponse], error) {
	return c.setItemStatus.CallUnary(ctx, req)
}

// HostServiceClient is a client for the host service.
type HostServiceClient struct {
	getLedger       *connect.Client[GetLedgerRequest, GetLedgerResponse]
	markInvoiceSent *connect.Client[MarkInvoiceSentRequest, MarkInvoiceSentResponse]
	checkCreation   *connect.Client[CheckCreationRequest, CheckCreationResponse]
	createContent   *connect.Client[CreateContentRequest, CreateContentResponse]
}

// NewHostServiceClient constructs a client for the host service.
func NewHostServiceClient(httpClient connect.HTTPClient, baseURL string, opts ...connect.ClientOption) *HostServiceClient {
	baseURL = strings.TrimRight(baseURL, "/")
	opts = append([]connect.ClientOption{connect.WithCodec(JSONCodec{})}, opts...)
	return &HostServiceClient{
		getLedger: connect.NewClient[GetLedgerRequest, GetLedgerResponse](
			httpClient, baseURL+HostServiceGetLedgerProcedure, opts...),
		markInvoiceSent: connect.NewClient[MarkInvoiceSentRequest, MarkInvoiceSentResponse](
			httpClient, baseURL+HostServiceMarkInvoiceSentProcedure, opts...),
		checkCreation: connect.NewClient[CheckCreationRequest, CheckCreationResponse](
			httpClient, baseURL+HostServiceCheckCreationProcedure, opts...),
		createContent: connect.NewClient[CreateContentRequest, CreateContentResponse](
			httpClient, baseURL+HostServiceCreateContentProcedure, opts...),
	}
}

func (c *HostServiceClient) GetLedger(ctx context.Context, req *connect.Request[GetLedgerRequest]) (*connect.Response[GetLedgerResponse], error) {
	return c.getLedger.CallUnary(ctx, req)
}

func (c *HostServiceClient) MarkInvoiceSent(ctx context.Context, req *connect.Request[MarkInvoiceSentRequest]) (*connect.Response[MarkInvoiceSentResponse], error) {
	return c.markInvoiceSent.CallUnary(ctx, req)
}

func (c *HostServiceClient) CheckCreation(ctx context.Context, req *connect.Request[CheckCreationRequest]) (*connect.Response[CheckCreationResponse], error) {
	return c.checkCreation.CallUnary(ctx, req)
}

func (c *HostServiceClient) CreateContent(ctx context.Context, req *connect.Request[CreateContentRequest]) (*connect.Response[CreateContentResponse], error) {
	return c.createContent.CallUnary(ctx, req)
}
