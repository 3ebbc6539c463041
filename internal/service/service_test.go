package service

import (
	"context"
	"errors"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"connectrpc.com/connect"

	"github.com/mmynk/imfoot/internal/auth"
	"github.com/mmynk/imfoot/internal/calculator"
	"github.com/mmynk/imfoot/internal/middleware"
	"github.com/mmynk/imfoot/internal/models"
	"github.com/mmynk/imfoot/internal/settlement"
	"github.com/mmynk/imfoot/internal/storage/memory"
)

type testServer struct {
	admin  *AdminServiceClient
	host   *HostServiceClient
	store  *memory.Store
	tokens *auth.JWTManager
}

// setupTestServer serves both services over httptest with a memory store.
func setupTestServer(t *testing.T) *testServer {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.New(15)
	engine := settlement.New(store, calculator.DefaultNominalCounts, logger)
	tokens := auth.NewJWTManager("test-secret", time.Hour)

	mux := http.NewServeMux()
	mux.Handle(NewAdminServiceHandler(NewAdminService(engine, logger),
		middleware.ForRole(tokens, auth.RoleAdmin, logger)))
	mux.Handle(NewHostServiceHandler(NewHostService(engine, logger),
		middleware.ForRole(tokens, auth.RoleHost, logger)))

	server := httptest.NewServer(mux)
	t.Cleanup(server.Close)

	return &testServer{
		admin:  NewAdminServiceClient(http.DefaultClient, server.URL),
		host:   NewHostServiceClient(http.DefaultClient, server.URL),
		store:  store,
		tokens: tokens,
	}
}

func (s *testServer) token(t *testing.T, p auth.Principal) string {
	t.Helper()
	token, err := s.tokens.Generate(p)
	if err != nil {
		t.Fatalf("failed to generate token: %v", err)
	}
	return token
}

// authed wraps msg in a request carrying a bearer token for p.
func authed[T any](t *testing.T, s *testServer, p auth.Principal, msg *T) *connect.Request[T] {
	t.Helper()
	req := connect.NewRequest(msg)
	req.Header().Set("Authorization", "Bearer "+s.token(t, p))
	return req
}

func (s *testServer) addItem(t *testing.T, item models.ContentItem) string {
	t.Helper()
	if err := s.store.CreateItem(context.Background(), &item); err != nil {
		t.Fatalf("failed to create item: %v", err)
	}
	return item.ID
}

var (
	admin = auth.Principal{Role: auth.RoleAdmin}
	hostA = auth.Principal{Role: auth.RoleHost, HostID: "host-a"}
	hostB = auth.Principal{Role: auth.RoleHost, HostID: "host-b"}
)

func endedNetworking(host string) models.ContentItem {
	return models.ContentItem{
		Title: "강남/서초 청약 전략 스터디", HostID: host, Status: models.ItemStatusEnded,
		Price: "30,000원", Listing: models.NetworkingListing{CurrentParticipants: 6},
	}
}

func endedMatchmaking(host string) models.ContentItem {
	return models.ContentItem{
		Title: "30대 직장인 가치관 매칭", HostID: host, Status: models.ItemStatusEnded,
		Price: "50,000원", Listing: models.MatchmakingListing{MaleSeats: 12, FemaleSeats: 10},
	}
}

func TestListLedger(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	s.addItem(t, endedNetworking("host-a"))
	s.addItem(t, endedMatchmaking("host-b"))

	resp, err := s.admin.ListLedger(ctx, authed(t, s, admin, &ListLedgerRequest{}))
	if err != nil {
		t.Fatalf("ListLedger failed: %v", err)
	}

	ledger := resp.Msg.Ledger
	if ledger.Rate != 15 {
		t.Errorf("Expected rate 15, got %d", ledger.Rate)
	}
	if len(ledger.Records) != 2 {
		t.Fatalf("Expected 2 records, got %d", len(ledger.Records))
	}
	if ledger.TotalReceivableDue != 27000 {
		t.Errorf("Expected receivable due 27000, got %d", ledger.TotalReceivableDue)
	}
	if ledger.TotalPayableDue != 935000 {
		t.Errorf("Expected payable due 935000, got %d", ledger.TotalPayableDue)
	}
}

func TestAdminSurfaceRequiresAdmin(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, err := s.admin.ListLedger(ctx, authed(t, s, hostA, &ListLedgerRequest{}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("Expected PermissionDenied for host token, got %v", err)
	}

	_, err = s.admin.ListLedger(ctx, connect.NewRequest(&ListLedgerRequest{}))
	if connect.CodeOf(err) != connect.CodeUnauthenticated {
		t.Errorf("Expected Unauthenticated without token, got %v", err)
	}

	_, err = s.host.GetLedger(ctx, authed(t, s, admin, &GetLedgerRequest{}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("Expected PermissionDenied for admin on host surface, got %v", err)
	}
}

func TestConfirmFeePaymentFlow(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	id := s.addItem(t, endedNetworking("host-a"))

	check, err := s.host.CheckCreation(ctx, authed(t, s, hostA, &CheckCreationRequest{}))
	if err != nil {
		t.Fatalf("CheckCreation failed: %v", err)
	}
	if check.Msg.Allowed {
		t.Fatal("Expected host-a to be blocked")
	}
	if !strings.Contains(check.Msg.Reason, "27,000원") {
		t.Errorf("Expected reason to name the outstanding fee, got %q", check.Msg.Reason)
	}

	// Wrong action for the direction
	_, err = s.admin.TransferPayout(ctx, authed(t, s, admin, &ConfirmRequest{ItemID: id}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("Expected FailedPrecondition, got %v", err)
	}

	resp, err := s.admin.ConfirmFeePayment(ctx, authed(t, s, admin, &ConfirmRequest{ItemID: id}))
	if err != nil {
		t.Fatalf("ConfirmFeePayment failed: %v", err)
	}
	if resp.Msg.Result != string(settlement.ResultSettled) {
		t.Errorf("Expected settled, got %s", resp.Msg.Result)
	}
	if resp.Msg.Record.Status != string(models.LedgerCompleted) || resp.Msg.Record.Fee != 27000 {
		t.Errorf("Unexpected record %+v", resp.Msg.Record)
	}

	again, err := s.admin.ConfirmFeePayment(ctx, authed(t, s, admin, &ConfirmRequest{ItemID: id}))
	if err != nil {
		t.Fatalf("Repeated ConfirmFeePayment failed: %v", err)
	}
	if again.Msg.Result != string(settlement.ResultAlreadySettled) {
		t.Errorf("Expected already_settled, got %s", again.Msg.Result)
	}

	check, err = s.host.CheckCreation(ctx, authed(t, s, hostA, &CheckCreationRequest{}))
	if err != nil {
		t.Fatalf("CheckCreation failed: %v", err)
	}
	if !check.Msg.Allowed {
		t.Errorf("Expected host-a to be allowed after payment, got %+v", check.Msg)
	}
}

func TestConfirmErrors(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	open := endedNetworking("host-a")
	open.Status = models.ItemStatusOpen
	openID := s.addItem(t, open)

	tests := []struct {
		name   string
		itemID string
		want   connect.Code
	}{
		{"missing id", "", connect.CodeInvalidArgument},
		{"unknown item", "does-not-exist", connect.CodeNotFound},
		{"not ended", openID, connect.CodeFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.admin.ConfirmFeePayment(ctx, authed(t, s, admin, &ConfirmRequest{ItemID: tt.itemID}))
			if connect.CodeOf(err) != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}

func TestCommissionRate(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	_, err := s.admin.SetCommissionRate(ctx, authed(t, s, admin, &SetCommissionRateRequest{Rate: 150}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("Expected InvalidArgument, got %v", err)
	}

	if _, err := s.admin.SetCommissionRate(ctx, authed(t, s, admin, &SetCommissionRateRequest{Rate: 10})); err != nil {
		t.Fatalf("SetCommissionRate failed: %v", err)
	}

	resp, err := s.admin.GetCommissionRate(ctx, authed(t, s, admin, &GetCommissionRateRequest{}))
	if err != nil {
		t.Fatalf("GetCommissionRate failed: %v", err)
	}
	if resp.Msg.Rate != 10 {
		t.Errorf("Expected rate 10, got %d", resp.Msg.Rate)
	}
}

func TestHostLedgerIsScoped(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	s.addItem(t, endedNetworking("host-a"))
	s.addItem(t, endedMatchmaking("host-b"))

	resp, err := s.host.GetLedger(ctx, authed(t, s, hostB, &GetLedgerRequest{}))
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}
	if len(resp.Msg.Ledger.Records) != 1 || resp.Msg.Ledger.Records[0].HostID != "host-b" {
		t.Fatalf("Expected only host-b's record, got %+v", resp.Msg.Ledger.Records)
	}
	if resp.Msg.Ledger.TotalReceivableDue != 0 || resp.Msg.Ledger.TotalPayableDue != 935000 {
		t.Errorf("Unexpected totals %+v", resp.Msg.Ledger)
	}
}

func TestMarkInvoiceSent(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	id := s.addItem(t, endedNetworking("host-a"))

	_, err := s.host.MarkInvoiceSent(ctx, authed(t, s, hostB, &MarkInvoiceSentRequest{ItemID: id}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("Expected PermissionDenied for another host, got %v", err)
	}

	resp, err := s.host.MarkInvoiceSent(ctx, authed(t, s, hostA, &MarkInvoiceSentRequest{ItemID: id}))
	if err != nil {
		t.Fatalf("MarkInvoiceSent failed: %v", err)
	}
	if resp.Msg.Record.InvoiceSentAt == 0 {
		t.Error("Expected invoice_sent_at to be set")
	}
	if resp.Msg.Record.Status != string(models.LedgerPending) {
		t.Errorf("Expected record to stay pending, got %s", resp.Msg.Record.Status)
	}
}

func TestCreateContent(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	resp, err := s.host.CreateContent(ctx, authed(t, s, hostA, &CreateContentRequest{
		Title:    "노량진 뉴타운 임장",
		Category: string(models.CategoryTourRecruit),
		Price:    "25,000원",
	}))
	if err != nil {
		t.Fatalf("CreateContent failed: %v", err)
	}
	if resp.Msg.Item.ID == "" || resp.Msg.Item.HostID != "host-a" || resp.Msg.Item.Status != string(models.ItemStatusOpen) {
		t.Errorf("Unexpected item %+v", resp.Msg.Item)
	}

	_, err = s.host.CreateContent(ctx, authed(t, s, hostA, &CreateContentRequest{Title: "x", Category: "auction"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("Expected InvalidArgument for unknown category, got %v", err)
	}

	s.addItem(t, endedNetworking("host-a"))
	_, err = s.host.CreateContent(ctx, authed(t, s, hostA, &CreateContentRequest{
		Title:    "blocked",
		Category: string(models.CategoryLecture),
		Price:    "무료",
	}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Fatalf("Expected FailedPrecondition for blocked host, got %v", err)
	}
	var connectErr *connect.Error
	if errors.As(err, &connectErr) && !strings.Contains(connectErr.Message(), "outstanding commission owed") {
		t.Errorf("Expected blocked reason in message, got %q", connectErr.Message())
	}
}

func TestUnknownStoredCategoryIsInternal(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()
	s.addItem(t, models.ContentItem{
		Title: "경매", HostID: "host-a", Status: models.ItemStatusEnded, Price: "10,000원",
		Listing: models.UnrecognizedListing{Tag: "auction"},
	})

	_, err := s.host.CheckCreation(ctx, authed(t, s, hostA, &CheckCreationRequest{}))
	if connect.CodeOf(err) != connect.CodeInternal {
		t.Errorf("Expected Internal, got %v", err)
	}

	resp, err := s.admin.ListLedger(ctx, authed(t, s, admin, &ListLedgerRequest{}))
	if err != nil {
		t.Fatalf("ListLedger failed: %v", err)
	}
	if len(resp.Msg.Ledger.Skipped) != 1 {
		t.Errorf("Expected the unknown item to be reported as skipped, got %+v", resp.Msg.Ledger)
	}
}

func TestCreateContentRejectsUnrepresentableItems(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	tests := []struct {
		name string
		req  *CreateContentRequest
	}{
		{"gross past int64", &CreateContentRequest{
			Title: "x", Category: string(models.CategoryMatchmaking),
			Price: "9,000,000,000,000,000,000원", MaleSeats: 1, FemaleSeats: 1,
		}},
		{"negative seats", &CreateContentRequest{
			Title: "x", Category: string(models.CategoryMatchmaking),
			Price: "50,000원", MaleSeats: -5, FemaleSeats: 10,
		}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.host.CreateContent(ctx, authed(t, s, hostA, tt.req))
			if connect.CodeOf(err) != connect.CodeInvalidArgument {
				t.Errorf("Expected InvalidArgument, got %v", err)
			}
		})
	}

	ledger, err := s.host.GetLedger(ctx, authed(t, s, hostA, &GetLedgerRequest{}))
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}
	if len(ledger.Msg.Ledger.Records) != 0 || len(ledger.Msg.Ledger.Skipped) != 0 {
		t.Errorf("Rejected items must not be stored, got %+v", ledger.Msg.Ledger)
	}
}

func TestSalesAndLifecycleFlow(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	created, err := s.host.CreateContent(ctx, authed(t, s, hostA, &CreateContentRequest{
		Title:    "강남/서초 청약 전략 스터디",
		Category: string(models.CategoryNetworking),
		Price:    "30,000원",
	}))
	if err != nil {
		t.Fatalf("CreateContent failed: %v", err)
	}
	id := created.Msg.Item.ID
	if created.Msg.Item.CurrentParticipants != 0 {
		t.Errorf("Expected no participants yet, got %d", created.Msg.Item.CurrentParticipants)
	}

	// Hosts cannot inflate their own counts
	_, err = s.admin.RecordSale(ctx, authed(t, s, hostA, &RecordSaleRequest{ItemID: id}))
	if connect.CodeOf(err) != connect.CodePermissionDenied {
		t.Errorf("Expected PermissionDenied for host token, got %v", err)
	}

	var sale *connect.Response[ItemResponse]
	for i := 0; i < 6; i++ {
		sale, err = s.admin.RecordSale(ctx, authed(t, s, admin, &RecordSaleRequest{ItemID: id}))
		if err != nil {
			t.Fatalf("RecordSale failed: %v", err)
		}
	}
	if sale.Msg.Item.CurrentParticipants != 6 {
		t.Errorf("Expected 6 participants, got %d", sale.Msg.Item.CurrentParticipants)
	}

	_, err = s.admin.SetItemStatus(ctx, authed(t, s, admin, &SetItemStatusRequest{ItemID: id, Status: "archived"}))
	if connect.CodeOf(err) != connect.CodeInvalidArgument {
		t.Errorf("Expected InvalidArgument for unknown status, got %v", err)
	}

	ended, err := s.admin.SetItemStatus(ctx, authed(t, s, admin, &SetItemStatusRequest{
		ItemID: id, Status: string(models.ItemStatusEnded),
	}))
	if err != nil {
		t.Fatalf("SetItemStatus failed: %v", err)
	}
	if ended.Msg.Item.Status != string(models.ItemStatusEnded) {
		t.Errorf("Expected ended, got %s", ended.Msg.Item.Status)
	}

	_, err = s.admin.RecordSale(ctx, authed(t, s, admin, &RecordSaleRequest{ItemID: id}))
	if connect.CodeOf(err) != connect.CodeFailedPrecondition {
		t.Errorf("Expected FailedPrecondition for a sale after the meetup ended, got %v", err)
	}

	ledger, err := s.host.GetLedger(ctx, authed(t, s, hostA, &GetLedgerRequest{}))
	if err != nil {
		t.Fatalf("GetLedger failed: %v", err)
	}
	if ledger.Msg.Ledger.TotalReceivableDue != 27000 {
		t.Errorf("Expected receivable due 27000, got %d", ledger.Msg.Ledger.TotalReceivableDue)
	}

	check, err := s.host.CheckCreation(ctx, authed(t, s, hostA, &CheckCreationRequest{}))
	if err != nil {
		t.Fatalf("CheckCreation failed: %v", err)
	}
	if check.Msg.Allowed {
		t.Error("Expected host-a to be blocked once the meetup ended")
	}
}

func TestRecordSaleErrors(t *testing.T) {
	s := setupTestServer(t)
	ctx := context.Background()

	lecture := s.addItem(t, models.ContentItem{
		Title: "경매 권리분석", HostID: "host-a", Price: "150,000원", Listing: models.LectureListing{},
	})

	tests := []struct {
		name   string
		itemID string
		want   connect.Code
	}{
		{"missing id", "", connect.CodeInvalidArgument},
		{"unknown item", "does-not-exist", connect.CodeNotFound},
		{"nominal category", lecture, connect.CodeFailedPrecondition},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := s.admin.RecordSale(ctx, authed(t, s, admin, &RecordSaleRequest{ItemID: tt.itemID}))
			if connect.CodeOf(err) != tt.want {
				t.Errorf("Expected %v, got %v", tt.want, err)
			}
		})
	}
}
