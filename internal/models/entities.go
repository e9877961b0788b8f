package models

import (
	"time"
)

// TransportMode is the closed set of travel classes priceable per departure.
// Values outside this set are dropped during admin update sanitization.
type TransportMode string

const (
	ModeACTrain    TransportMode = "AC_TRAIN"
	ModeNonACTrain TransportMode = "NON_AC_TRAIN"
	ModeFlight     TransportMode = "FLIGHT"
	ModeBus        TransportMode = "BUS"
)

// AllTransportModes lists the closed enum in a stable order.
var AllTransportModes = []TransportMode{ModeACTrain, ModeNonACTrain, ModeFlight, ModeBus}

// Valid reports whether the mode belongs to the closed enum.
func (m TransportMode) Valid() bool {
	switch m {
	case ModeACTrain, ModeNonACTrain, ModeFlight, ModeBus:
		return true
	}
	return false
}

// TransportOption pairs a transport mode with its per-person surcharge (rupees).
type TransportOption struct {
	Mode  TransportMode `json:"mode"`
	Price int64         `json:"price"`
}

// DateGroup is a (month, year) bucket holding the specific calendar days an
// event is bookable, plus optional seat counters.
type DateGroup struct {
	Month          int    `json:"month"`
	Year           int    `json:"year"`
	Dates          []int  `json:"dates"`
	Location       string `json:"location,omitempty"`
	AvailableSeats *int   `json:"availableSeats,omitempty"`
	TotalSeats     *int   `json:"totalSeats,omitempty"`
}

// HasDay reports whether the given day-of-month is offered by this group.
func (g DateGroup) HasDay(day int) bool {
	for _, d := range g.Dates {
		if d == day {
			return true
		}
	}
	return false
}

// DepartureDateGroup extends DateGroup with per-group and per-day transport
// restrictions. DateTransportModes overrides AvailableTransportModes for a
// specific day-of-month when present and non-empty.
type DepartureDateGroup struct {
	DateGroup
	AvailableTransportModes []TransportMode         `json:"availableTransportModes,omitempty"`
	DateTransportModes      map[int][]TransportMode `json:"dateTransportModes,omitempty"`
}

// ItineraryDay is one day of a trip plan. Day is 1-based; 0 is reserved for
// pre-arrival information.
type ItineraryDay struct {
	Day         int      `json:"day"`
	Title       string   `json:"title"`
	Description string   `json:"description,omitempty"`
	Images      []string `json:"images,omitempty"`
}

// Departure is a named origin->destination leg of an event with its own
// transport options and date calendar. Price/DiscountedPrice, when set,
// override the event-level price for bookings on this departure.
type Departure struct {
	Label            string               `json:"label"`
	Origin           string               `json:"origin"`
	Destination      string               `json:"destination"`
	Price            *int64               `json:"price,omitempty"`
	DiscountedPrice  *int64               `json:"discountedPrice,omitempty"`
	TransportOptions []TransportOption    `json:"transportOptions"`
	AvailableDates   []DepartureDateGroup `json:"availableDates"`
	Itinerary        []ItineraryDay       `json:"itinerary,omitempty"`
}

// DateGroupFor returns the date group matching (month, year), or nil.
func (d *Departure) DateGroupFor(month, year int) *DepartureDateGroup {
	for i := range d.AvailableDates {
		g := &d.AvailableDates[i]
		if g.Month == month && g.Year == year {
			return g
		}
	}
	return nil
}

// Event is a travel package. Nested documents are stored as JSONB columns.
type Event struct {
	ID              int64          `json:"id" db:"id"`
	Title           string         `json:"title" db:"title"`
	Slug            string         `json:"slug" db:"slug"`
	Description     *string        `json:"description" db:"description"`
	Location        string         `json:"location" db:"location"`
	Price           int64          `json:"price" db:"price"`
	DiscountedPrice *int64         `json:"discountedPrice" db:"discounted_price"`
	Brochure        *string        `json:"brochure" db:"brochure"`
	Images          StringList     `json:"images" db:"images"`
	AvailableDates  DateGroups     `json:"availableDates" db:"available_dates"`
	Departures      Departures     `json:"departures" db:"departures"`
	Itinerary       ItineraryDays  `json:"itinerary" db:"itinerary"`
	Published       bool           `json:"published" db:"published"`
	CreatedAt       time.Time      `json:"created_at" db:"created_at"`
	UpdatedAt       time.Time      `json:"updated_at" db:"updated_at"`
}

// DepartureByLabel returns the departure with the given label, or nil.
func (e *Event) DepartureByLabel(label string) *Departure {
	for i := range e.Departures {
		if e.Departures[i].Label == label {
			return &e.Departures[i]
		}
	}
	return nil
}

// ItineraryFor returns the selected departure's itinerary when it has one,
// falling back to the event-level itinerary.
func (e *Event) ItineraryFor(dep *Departure) []ItineraryDay {
	if dep != nil && len(dep.Itinerary) > 0 {
		return dep.Itinerary
	}
	return e.Itinerary
}

// Booking statuses.
const (
	BookingPending   = "PENDING"
	BookingConfirmed = "CONFIRMED"
	BookingCancelled = "CANCELLED"
	BookingCompleted = "COMPLETED"
	BookingRefunded  = "REFUNDED"
)

// Payment statuses.
const (
	PaymentPending  = "PENDING"
	PaymentSuccess  = "SUCCESS"
	PaymentFailed   = "FAILED"
	PaymentRefunded = "REFUNDED"
)

// CanTransitionBooking reports whether a booking may move from -> to.
// paymentSuccess is the booking's paymentInfo state: REFUNDED is reachable
// from any status once the payment has succeeded.
func CanTransitionBooking(from, to string, paymentSuccess bool) bool {
	if to == BookingRefunded {
		return paymentSuccess
	}
	switch from {
	case BookingPending:
		return to == BookingConfirmed || to == BookingCancelled
	case BookingConfirmed:
		return to == BookingCompleted || to == BookingCancelled
	}
	return false
}

// CanTransitionPayment reports whether paymentInfo.paymentStatus may move
// from -> to. A FAILED payment stays retryable, so SUCCESS is reachable from
// both PENDING and FAILED.
func CanTransitionPayment(from, to string) bool {
	switch from {
	case PaymentPending:
		return to == PaymentSuccess || to == PaymentFailed
	case PaymentFailed:
		return to == PaymentSuccess || to == PaymentFailed
	case PaymentSuccess:
		return to == PaymentRefunded
	}
	return false
}

// EmergencyContact is required per participant.
type EmergencyContact struct {
	Name     string `json:"name"`
	Phone    string `json:"phone"`
	Relation string `json:"relation,omitempty"`
}

// Participant is one traveller on a booking.
type Participant struct {
	Name             string           `json:"name"`
	Age              int              `json:"age"`
	Phone            string           `json:"phone,omitempty"`
	Email            string           `json:"email,omitempty"`
	EmergencyContact EmergencyContact `json:"emergencyContact"`
}

// Booking is a participant-filled reservation against one event, one selected
// date and optionally one departure + transport mode.
type Booking struct {
	ID                int64        `json:"id" db:"id"`
	Reference         string       `json:"reference" db:"reference"`
	EventID           int64        `json:"event_id" db:"event_id"`
	UserID            int64        `json:"user_id" db:"user_id"`
	Participants      Participants `json:"participants" db:"participants"`
	SelectedDeparture *string      `json:"selected_departure" db:"selected_departure"`
	SelectedTransport *string      `json:"selected_transport_mode" db:"selected_transport_mode"`
	TravelDay         int          `json:"travel_day" db:"travel_day"`
	TravelMonth       int          `json:"travel_month" db:"travel_month"`
	TravelYear        int          `json:"travel_year" db:"travel_year"`
	TotalAmount       int64        `json:"total_amount" db:"total_amount"`
	SpecialRequests   *string      `json:"special_requests" db:"special_requests"`
	Status            string       `json:"status" db:"status"`
	PaymentStatus     string       `json:"payment_status" db:"payment_status"`
	RazorpayOrderID   *string      `json:"razorpay_order_id" db:"razorpay_order_id"`
	RazorpayPaymentID *string      `json:"razorpay_payment_id" db:"razorpay_payment_id"`
	CreatedAt         time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt         time.Time    `json:"updated_at" db:"updated_at"`
}

// User roles.
const (
	RoleUser  = "user"
	RoleAdmin = "admin"
)

// User represents an account in the system.
type User struct {
	ID           int64      `json:"id" db:"id"`
	Name         string     `json:"name" db:"name"`
	Email        string     `json:"email" db:"email"`
	Phone        string     `json:"phone" db:"phone"`
	PasswordHash string     `json:"-" db:"password_hash"`
	Role         string     `json:"role" db:"role"`
	IsActive     bool       `json:"is_active" db:"is_active"`
	CreatedAt    time.Time  `json:"created_at" db:"created_at"`
	LastLoginAt  *time.Time `json:"last_login_at" db:"last_login_at"`
}

// Review is a user's rating of an event they travelled with.
type Review struct {
	ID        int64     `json:"id" db:"id"`
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	UserName  string    `json:"user_name" db:"user_name"`
	Rating    int       `json:"rating" db:"rating"`
	Comment   string    `json:"comment" db:"comment"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
	UpdatedAt time.Time `json:"updated_at" db:"updated_at"`
}

// Testimonial is marketing copy shown on public pages once approved.
type Testimonial struct {
	ID         int64     `json:"id" db:"id"`
	AuthorName string    `json:"author_name" db:"author_name"`
	Location   string    `json:"location" db:"location"`
	Content    string    `json:"content" db:"content"`
	Rating     int       `json:"rating" db:"rating"`
	Approved   bool      `json:"approved" db:"approved"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
}

// Story is a long-form travel article for the public stories pages.
type Story struct {
	ID         int64     `json:"id" db:"id"`
	Title      string    `json:"title" db:"title"`
	Slug       string    `json:"slug" db:"slug"`
	Excerpt    string    `json:"excerpt" db:"excerpt"`
	Content    string    `json:"content" db:"content"`
	CoverImage string    `json:"cover_image" db:"cover_image"`
	Published  bool      `json:"published" db:"published"`
	CreatedAt  time.Time `json:"created_at" db:"created_at"`
	UpdatedAt  time.Time `json:"updated_at" db:"updated_at"`
}

// BookingPolicy holds booking-related site configuration.
type BookingPolicy struct {
	CancellationWindowHours int `json:"cancellationWindowHours"`
	AdvanceBookingDays      int `json:"advanceBookingDays"`
	MaxParticipants         int `json:"maxParticipants"`
}

// SEOSettings holds default page metadata.
type SEOSettings struct {
	MetaTitle       string `json:"metaTitle"`
	MetaDescription string `json:"metaDescription"`
	OGImage         string `json:"ogImage,omitempty"`
}

// SiteSettings is a singleton configuration document. A partial unique index
// on (is_active) WHERE is_active keeps exactly one row active.
type SiteSettings struct {
	ID            int64         `json:"id" db:"id"`
	SiteName      string        `json:"site_name" db:"site_name"`
	Tagline       string        `json:"tagline" db:"tagline"`
	LogoURL       string        `json:"logo_url" db:"logo_url"`
	ContactEmail  string        `json:"contact_email" db:"contact_email"`
	ContactPhone  string        `json:"contact_phone" db:"contact_phone"`
	RazorpayKeyID string        `json:"razorpay_key_id" db:"razorpay_key_id"`
	SEO           SEODoc        `json:"seo" db:"seo"`
	BookingPolicy PolicyDoc     `json:"booking_policy" db:"booking_policy"`
	FeatureFlags  FeatureFlags  `json:"feature_flags" db:"feature_flags"`
	IsActive      bool          `json:"is_active" db:"is_active"`
	UpdatedAt     time.Time     `json:"updated_at" db:"updated_at"`
}

// WishlistItem links a user to an event they saved for later.
type WishlistItem struct {
	EventID   int64     `json:"event_id" db:"event_id"`
	UserID    int64     `json:"user_id" db:"user_id"`
	CreatedAt time.Time `json:"created_at" db:"created_at"`
}
