package calculator

import (
	"fmt"
	"math"

	"github.com/mmynk/imfoot/internal/models"
)

// NominalCounts holds the stand-in sale counts for categories that do not
// track per-seat sales. They are placeholders pending a real seat-sales count.
type NominalCounts struct {
	// TourRecruitHeadcount is the assumed headcount of a tour recruitment post.
	TourRecruitHeadcount int

	// LectureEnrollment is the assumed enrollment of a lecture.
	LectureEnrollment int
}

// DefaultNominalCounts are the counts used when none are configured.
var DefaultNominalCounts = NominalCounts{
	TourRecruitHeadcount: 10,
	LectureEnrollment:    20,
}

// SaleCount resolves how many units of the item were sold.
//
//   - tour report: cumulative purchase count
//   - tour recruitment: nominal headcount
//   - networking: current participants
//   - lecture: nominal enrollment
//   - matchmaking: male + female target headcount
func SaleCount(item models.ContentItem, nominal NominalCounts) (int64, error) {
	var count int
	switch l := item.Listing.(type) {
	case models.TourReportListing:
		count = l.PurchaseCount
	case models.TourRecruitListing:
		count = nominal.TourRecruitHeadcount
	case models.NetworkingListing:
		count = l.CurrentParticipants
	case models.LectureListing:
		count = nominal.LectureEnrollment
	case models.MatchmakingListing:
		count = l.MaleSeats + l.FemaleSeats
	default:
		return 0, fmt.Errorf("%w: %q", ErrUnknownCategory, item.Category())
	}
	if count < 0 {
		count = 0
	}
	return int64(count), nil
}

// Revenue computes gross revenue = unit price × resolved sale count.
// It is a pure function of the item and is never cached.
func Revenue(item models.ContentItem, nominal NominalCounts) (int64, error) {
	count, err := SaleCount(item, nominal)
	if err != nil {
		return 0, err
	}

	price, err := ParsePrice(item.Price)
	if err != nil {
		return 0, err
	}
	if price == 0 || count == 0 {
		return 0, nil
	}
	if price > math.MaxInt64/count {
		return 0, fmt.Errorf("%w: %d × %d", ErrAmountOverflow, price, count)
	}
	return price * count, nil
}
