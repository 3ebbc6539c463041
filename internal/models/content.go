package models

// Category identifies the kind of sellable content.
type Category string

const (
	// CategoryNetworking is a study or social networking meetup.
	CategoryNetworking Category = "networking"

	// CategoryTourRecruit is a guided-tour ("imjang") recruitment post.
	CategoryTourRecruit Category = "tour_recruit"

	// CategoryTourReport is a paid guided-tour report.
	CategoryTourReport Category = "tour_report"

	// CategoryLecture is a lecture (VOD or offline).
	CategoryLecture Category = "lecture"

	// CategoryMatchmaking is a matchmaking event. The platform is merchant-of-record
	// for this category only.
	CategoryMatchmaking Category = "matchmaking"
)

// Categories lists every category the engine knows how to settle.
var Categories = []Category{
	CategoryNetworking,
	CategoryTourRecruit,
	CategoryTourReport,
	CategoryLecture,
	CategoryMatchmaking,
}

// ItemStatus is the content lifecycle status. Transitions are owned by the
// content subsystem; the settlement engine only observes them.
type ItemStatus string

const (
	ItemStatusOpen   ItemStatus = "open"
	ItemStatusClosed ItemStatus = "closed"
	ItemStatusEnded  ItemStatus = "ended"
)

// Valid reports whether s is a known lifecycle status.
func (s ItemStatus) Valid() bool {
	switch s {
	case ItemStatusOpen, ItemStatusClosed, ItemStatusEnded:
		return true
	}
	return false
}

// SettlementFlag is the platform-owned settlement annotation on an item.
type SettlementFlag string

const (
	SettlementPending SettlementFlag = "pending"
	SettlementSettled SettlementFlag = "settled"
)

// ContentItem represents a sellable unit published by a host.
type ContentItem struct {
	// ID is the unique identifier for the item (UUID format).
	ID string

	// Title is the display title.
	Title string

	// HostID identifies the author/host who owns the item.
	HostID string

	// Status is the content lifecycle status. Only ended items are due for settlement.
	Status ItemStatus

	// Price is the listed display price as entered by the host, e.g. "30,000원" or "무료".
	// An empty price means free.
	Price string

	// Listing holds the category-specific sale-count signal.
	Listing Listing

	// Settlement is the persisted settlement flag.
	Settlement SettlementFlag

	// InvoiceSentAt is the Unix timestamp when the host marked the commission
	// invoice as sent. Zero if never marked. Informational only.
	InvoiceSentAt int64

	// SettledAt is the Unix timestamp when the settlement was confirmed. Zero while pending.
	SettledAt int64

	// CreatedAt is the Unix timestamp when the item was created.
	CreatedAt int64
}

// Category returns the item's category, derived from its listing variant.
func (i ContentItem) Category() Category {
	if i.Listing == nil {
		return ""
	}
	return i.Listing.Category()
}

// Listing is the category-specific part of a ContentItem.
// The set of implementations is closed to this package.
type Listing interface {
	Category() Category
	isListing()
}

// NetworkingListing is a study/social meetup. Sales are counted by current participants.
type NetworkingListing struct {
	CurrentParticipants int
}

// TourRecruitListing is a tour recruitment post. It tracks no per-seat sales.
type TourRecruitListing struct{}

// TourReportListing is a paid tour report. Sales are counted by cumulative purchases.
type TourReportListing struct {
	PurchaseCount int
}

// LectureListing is a lecture. It tracks no per-seat enrollment.
type LectureListing struct{}

// MatchmakingListing is a matchmaking event with configured target headcounts.
type MatchmakingListing struct {
	MaleSeats   int
	FemaleSeats int
}

// UnrecognizedListing is produced when stored data carries a category this
// build does not know. It is never settled; resolving it fails loudly.
type UnrecognizedListing struct {
	Tag string
}

func (NetworkingListing) Category() Category    { return CategoryNetworking }
func (TourRecruitListing) Category() Category   { return CategoryTourRecruit }
func (TourReportListing) Category() Category    { return CategoryTourReport }
func (LectureListing) Category() Category       { return CategoryLecture }
func (MatchmakingListing) Category() Category   { return CategoryMatchmaking }
func (l UnrecognizedListing) Category() Category { return Category(l.Tag) }

func (NetworkingListing) isListing()   {}
func (TourRecruitListing) isListing()  {}
func (TourReportListing) isListing()   {}
func (LectureListing) isListing()      {}
func (MatchmakingListing) isListing()  {}
func (UnrecognizedListing) isListing() {}

// SaleCounts is the flat form of every category-specific sale-count field,
// used by storage layers that persist listings in fixed columns.
type SaleCounts struct {
	CurrentParticipants int
	PurchaseCount       int
	MaleSeats           int
	FemaleSeats         int
}

// NewListing builds the listing variant for category from flat sale counts.
// Unknown categories yield an UnrecognizedListing.
func NewListing(category Category, counts SaleCounts) Listing {
	switch category {
	case CategoryNetworking:
		return NetworkingListing{CurrentParticipants: counts.CurrentParticipants}
	case CategoryTourRecruit:
		return TourRecruitListing{}
	case CategoryTourReport:
		return TourReportListing{PurchaseCount: counts.PurchaseCount}
	case CategoryLecture:
		return LectureListing{}
	case CategoryMatchmaking:
		return MatchmakingListing{MaleSeats: counts.MaleSeats, FemaleSeats: counts.FemaleSeats}
	default:
		return UnrecognizedListing{Tag: string(category)}
	}
}

// CountsOf flattens a listing back into SaleCounts.
func CountsOf(l Listing) SaleCounts {
	switch v := l.(type) {
	case NetworkingListing:
		return SaleCounts{CurrentParticipants: v.CurrentParticipants}
	case TourReportListing:
		return SaleCounts{PurchaseCount: v.PurchaseCount}
	case MatchmakingListing:
		return SaleCounts{MaleSeats: v.MaleSeats, FemaleSeats: v.FemaleSeats}
	default:
		return SaleCounts{}
	}
}
