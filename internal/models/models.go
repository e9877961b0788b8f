package models

// Request/response shapes for the public API. Validation beyond presence
// checks happens in the service layer.

// TravelDateRequest selects one calendar day inside a date group.
type TravelDateRequest struct {
	Day   int `json:"day" binding:"required"`
	Month int `json:"month" binding:"required"`
	Year  int `json:"year" binding:"required"`
}

// CreateBookingRequest creates a PENDING booking. TotalAmount is the
// client-computed total; the server recomputes and rejects a mismatch.
type CreateBookingRequest struct {
	EventID           int64             `json:"event_id" binding:"required"`
	Date              TravelDateRequest `json:"date" binding:"required"`
	SelectedDeparture string            `json:"selected_departure,omitempty"`
	SelectedTransport string            `json:"selected_transport_mode,omitempty"`
	Participants      []Participant     `json:"participants" binding:"required"`
	SpecialRequests   string            `json:"special_requests,omitempty"`
	TotalAmount       int64             `json:"total_amount" binding:"required"`
}

// CreateBookingResponse returns the durable record of intent.
type CreateBookingResponse struct {
	BookingID   int64  `json:"booking_id"`
	Reference   string `json:"reference"`
	TotalAmount int64  `json:"total_amount"`
	Status      string `json:"status"`
}

// CreateOrderRequest asks the payment gateway for an order keyed by booking.
type CreateOrderRequest struct {
	BookingID int64 `json:"booking_id" binding:"required"`
}

// CreateOrderResponse is what the checkout UI needs to open the gateway.
type CreateOrderResponse struct {
	OrderID  string `json:"order_id"`
	Amount   int64  `json:"amount"`
	Currency string `json:"currency"`
	KeyID    string `json:"key_id"`
}

// VerifyPaymentRequest carries the gateway callback triple plus the booking.
type VerifyPaymentRequest struct {
	BookingID         int64  `json:"booking_id" binding:"required"`
	RazorpayOrderID   string `json:"razorpay_order_id" binding:"required"`
	RazorpayPaymentID string `json:"razorpay_payment_id" binding:"required"`
	RazorpaySignature string `json:"razorpay_signature" binding:"required"`
}

// TransportOptionsResponse lists the modes offered for one calendar day,
// priced so the client summary and the server total cannot disagree.
type TransportOptionsResponse struct {
	EventID        int64             `json:"event_id"`
	Departure      string            `json:"departure"`
	Day            int               `json:"day"`
	Month          int               `json:"month"`
	Year           int               `json:"year"`
	EffectivePrice int64             `json:"effective_price"`
	Options        []TransportOption `json:"options"`
}

// EventSummary is the public list item.
type EventSummary struct {
	ID              int64  `json:"id"`
	Title           string `json:"title"`
	Slug            string `json:"slug"`
	Location        string `json:"location"`
	Price           int64  `json:"price"`
	DiscountedPrice *int64 `json:"discountedPrice,omitempty"`
	DisplayPrice    int64  `json:"displayPrice"`
	CoverImage      string `json:"coverImage,omitempty"`
}

// Auth requests.
type RegisterRequest struct {
	Name     string `json:"name" binding:"required"`
	Email    string `json:"email" binding:"required,email"`
	Phone    string `json:"phone"`
	Password string `json:"password" binding:"required,min=8"`
}

type LoginRequest struct {
	Email    string `json:"email" binding:"required,email"`
	Password string `json:"password" binding:"required"`
}

type AuthResponse struct {
	Token string `json:"token"`
	User  *User  `json:"user"`
}

type SendOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
}

type VerifyOTPRequest struct {
	Email string `json:"email" binding:"required,email"`
	Code  string `json:"code" binding:"required"`
}

type ResetPasswordRequest struct {
	Email       string `json:"email" binding:"required,email"`
	Code        string `json:"code" binding:"required"`
	NewPassword string `json:"new_password" binding:"required,min=8"`
}

// Profile and dashboard requests.
type UpdateProfileRequest struct {
	Name  *string `json:"name"`
	Phone *string `json:"phone"`
}

type CreateReviewRequest struct {
	EventID int64  `json:"event_id" binding:"required"`
	Rating  int    `json:"rating" binding:"required"`
	Comment string `json:"comment"`
}

type UpdateReviewRequest struct {
	Rating  *int    `json:"rating"`
	Comment *string `json:"comment"`
}

type WishlistRequest struct {
	EventID int64 `json:"event_id" binding:"required"`
}

// Admin requests.
type BookingActionRequest struct {
	Action string `json:"action" binding:"required"` // confirm|complete|cancel|refund
}

type UserActionRequest struct {
	Action string `json:"action" binding:"required"` // activate|deactivate|promote
}

type CreateTestimonialRequest struct {
	AuthorName string `json:"author_name" binding:"required"`
	Location   string `json:"location"`
	Content    string `json:"content" binding:"required"`
	Rating     int    `json:"rating"`
}

type CreateStoryRequest struct {
	Title      string `json:"title" binding:"required"`
	Slug       string `json:"slug"`
	Excerpt    string `json:"excerpt"`
	Content    string `json:"content" binding:"required"`
	CoverImage string `json:"cover_image"`
	Published  bool   `json:"published"`
}
