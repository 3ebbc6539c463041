package calculator

import (
	"errors"
	"testing"

	"github.com/mmynk/imfoot/internal/models"
)

func TestParsePrice(t *testing.T) {
	tests := []struct {
		display string
		want    int64
		wantErr bool
	}{
		{display: "30,000원", want: 30000},
		{display: "₩ 5,000", want: 5000},
		{display: "99000", want: 99000},
		{display: "무료", want: 0},
		{display: "Free", want: 0},
		{display: "", want: 0},
		{display: "   ", want: 0},
		{display: "문의", want: 0},
		{display: "99999999999999999999원", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.display, func(t *testing.T) {
			got, err := ParsePrice(tt.display)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParsePrice(%q) error = %v, wantErr %v", tt.display, err, tt.wantErr)
			}
			if tt.wantErr {
				if !errors.Is(err, ErrInvalidPrice) {
					t.Errorf("ParsePrice(%q) error = %v, want ErrInvalidPrice", tt.display, err)
				}
				return
			}
			if got != tt.want {
				t.Errorf("ParsePrice(%q) = %d, want %d", tt.display, got, tt.want)
			}
		})
	}
}

func TestRevenue(t *testing.T) {
	nominal := NominalCounts{TourRecruitHeadcount: 10, LectureEnrollment: 20}

	tests := []struct {
		name    string
		item    models.ContentItem
		want    int64
		wantErr error
	}{
		{
			name: "networking uses current participants",
			item: models.ContentItem{Price: "30,000원", Listing: models.NetworkingListing{CurrentParticipants: 6}},
			want: 180000,
		},
		{
			name: "tour report uses purchase count",
			item: models.ContentItem{Price: "5,000원", Listing: models.TourReportListing{PurchaseCount: 1250}},
			want: 6250000,
		},
		{
			name: "tour recruit uses nominal headcount",
			item: models.ContentItem{Price: "20,000원", Listing: models.TourRecruitListing{}},
			want: 200000,
		},
		{
			name: "lecture uses nominal enrollment",
			item: models.ContentItem{Price: "99,000원", Listing: models.LectureListing{}},
			want: 1980000,
		},
		{
			name: "matchmaking sums male and female seats",
			item: models.ContentItem{Price: "50,000원", Listing: models.MatchmakingListing{MaleSeats: 12, FemaleSeats: 10}},
			want: 1100000,
		},
		{
			name: "free price yields zero regardless of sales",
			item: models.ContentItem{Price: "무료", Listing: models.NetworkingListing{CurrentParticipants: 40}},
			want: 0,
		},
		{
			name: "absent price yields zero",
			item: models.ContentItem{Listing: models.TourReportListing{PurchaseCount: 3}},
			want: 0,
		},
		{
			name: "zero sales yields zero",
			item: models.ContentItem{Price: "40,000원", Listing: models.NetworkingListing{}},
			want: 0,
		},
		{
			name: "negative counts are treated as zero",
			item: models.ContentItem{Price: "40,000원", Listing: models.NetworkingListing{CurrentParticipants: -3}},
			want: 0,
		},
		{
			name:    "unknown category fails",
			item:    models.ContentItem{Price: "10,000원", Listing: models.UnrecognizedListing{Tag: "auction"}},
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "missing listing fails",
			item:    models.ContentItem{Price: "10,000원"},
			wantErr: ErrUnknownCategory,
		},
		{
			name:    "overflow is reported",
			item:    models.ContentItem{Price: "9223372036854775807", Listing: models.TourReportListing{PurchaseCount: 2}},
			wantErr: ErrAmountOverflow,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := Revenue(tt.item, nominal)
			if tt.wantErr != nil {
				if !errors.Is(err, tt.wantErr) {
					t.Fatalf("Revenue() error = %v, want %v", err, tt.wantErr)
				}
				return
			}
			if err != nil {
				t.Fatalf("Revenue() unexpected error: %v", err)
			}
			if got != tt.want {
				t.Errorf("Revenue() = %d, want %d", got, tt.want)
			}
			if got < 0 {
				t.Errorf("Revenue() = %d, must be non-negative", got)
			}
		})
	}
}

func TestRevenueFollowsNominalCounts(t *testing.T) {
	item := models.ContentItem{Price: "10,000원", Listing: models.LectureListing{}}

	got, err := Revenue(item, NominalCounts{LectureEnrollment: 3})
	if err != nil {
		t.Fatalf("Revenue() unexpected error: %v", err)
	}
	if got != 30000 {
		t.Errorf("Revenue() = %d, want 30000", got)
	}
}

func TestResolveDirection(t *testing.T) {
	for _, c := range models.Categories {
		t.Run(string(c), func(t *testing.T) {
			dir, err := ResolveDirection(c)
			if err != nil {
				t.Fatalf("ResolveDirection(%q) unexpected error: %v", c, err)
			}
			want := models.DirectionReceivable
			if c == models.CategoryMatchmaking {
				want = models.DirectionPayable
			}
			if dir != want {
				t.Errorf("ResolveDirection(%q) = %s, want %s", c, dir, want)
			}
		})
	}

	t.Run("unknown", func(t *testing.T) {
		if _, err := ResolveDirection("auction"); !errors.Is(err, ErrUnknownCategory) {
			t.Errorf("ResolveDirection(auction) error = %v, want ErrUnknownCategory", err)
		}
	})
}
