package persistence

import "time"

// Role identifies what a user may do in the booking desk.
type Role string

const (
	RoleResident Role = "resident"
	RoleHelpdesk Role = "helpdesk"
	RoleManager  Role = "manager"
	RoleAdmin    Role = "admin"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleResident, RoleHelpdesk, RoleManager, RoleAdmin:
		return true
	}
	return false
}

// BookingStatus is the position of a request in the approval workflow.
type BookingStatus string

const (
	StatusPending  BookingStatus = "pending"
	StatusRouted   BookingStatus = "routed"
	StatusApproved BookingStatus = "approved"
	StatusRejected BookingStatus = "rejected"
)

// SubmissionMethod records how a request reached the help desk.
type SubmissionMethod string

const (
	SubmissionWalkIn SubmissionMethod = "walk-in"
	SubmissionEmail  SubmissionMethod = "email"
	SubmissionQRCode SubmissionMethod = "qr-code"
)

// NotificationType drives how a notification is styled by readers.
type NotificationType string

const (
	NotificationInfo    NotificationType = "info"
	NotificationSuccess NotificationType = "success"
	NotificationWarning NotificationType = "warning"
	NotificationError   NotificationType = "error"
)

// RequesterInfo describes who asked for the booking.
type RequesterInfo struct {
	Name                 string `json:"name" validate:"required"`
	Company              string `json:"company"`
	Designation          string `json:"designation"`
	Mobile               string `json:"mobile"`
	Email                string `json:"email" validate:"required,email"`
	ResidenceOfNRC9      bool   `json:"residenceOfNRC9"`
	UnitNo               string `json:"unitNo"`
	UnitLocation         string `json:"unitLocation"`
	RequestInitiatedDate string `json:"requestInitiatedDate"`
}

// ServiceOption is an optional add-on such as AV or F&B.
type ServiceOption struct {
	Required bool   `json:"required"`
	Details  string `json:"details,omitempty"`
}

// ChargeOption records whether the booking is billed and for how much.
type ChargeOption struct {
	Required bool     `json:"required"`
	Amount   *float64 `json:"amount,omitempty" validate:"omitempty,gte=0"`
}

// EventDetails describes the venue, schedule and services requested.
type EventDetails struct {
	VenueRequested         string        `json:"venueRequested" validate:"required"`
	Event                  string        `json:"event" validate:"required"`
	EventScheduleStartDate string        `json:"eventScheduleStartDate" validate:"required,datetime=2006-01-02"`
	EventEndDate           string        `json:"eventEndDate" validate:"omitempty,datetime=2006-01-02"`
	EventStartTime         string        `json:"eventStartTime" validate:"omitempty,datetime=15:04"`
	EventEndTime           string        `json:"eventEndTime" validate:"omitempty,datetime=15:04"`
	NumberOfGuests         int           `json:"numberOfGuests" validate:"gte=0"`
	AVSystem               ServiceOption `json:"avSystem"`
	FBServices             ServiceOption `json:"fbServices"`
	Chargeable             ChargeOption  `json:"chargeable"`
	InvoiceTo              string        `json:"invoiceTo"`
	Remarks                string        `json:"remarks"`
}

// ApprovalStep is one entry of a booking's approval trail.
type ApprovalStep struct {
	ID        string    `json:"id"`
	HandledBy string    `json:"handledBy"`
	Signature string    `json:"signature"`
	Role      Role      `json:"role"`
	Approved  bool      `json:"approved"`
	Remarks   string    `json:"remarks,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}

// BookingRequest is a resident's request to use a venue.
type BookingRequest struct {
	ID               string           `json:"id"`
	RequesterInfo    RequesterInfo    `json:"requesterInfo"`
	EventDetails     EventDetails     `json:"eventDetails"`
	Status           BookingStatus    `json:"status"`
	ApprovalHistory  []ApprovalStep   `json:"approvalHistory"`
	SubmissionMethod SubmissionMethod `json:"submissionMethod"`
	CreatedAt        time.Time        `json:"createdAt"`
	UpdatedAt        time.Time        `json:"updatedAt"`
}

// BookingInput carries the caller supplied fields of a new booking.
type BookingInput struct {
	RequesterInfo    RequesterInfo    `json:"requesterInfo" validate:"required"`
	EventDetails     EventDetails     `json:"eventDetails" validate:"required"`
	Status           BookingStatus    `json:"status"`
	ApprovalHistory  []ApprovalStep   `json:"approvalHistory"`
	SubmissionMethod SubmissionMethod `json:"submissionMethod" validate:"required,oneof=walk-in email qr-code"`
}

// BookingPatch lists the booking fields an update may replace. Nil fields are
// left unchanged. The approval history is append-only and cannot be patched.
type BookingPatch struct {
	RequesterInfo    *RequesterInfo
	EventDetails     *EventDetails
	Status           *BookingStatus
	SubmissionMethod *SubmissionMethod
}

// User is a staff or resident account.
type User struct {
	ID         string    `json:"id"`
	Name       string    `json:"name"`
	Email      string    `json:"email"`
	Role       Role      `json:"role"`
	Department string    `json:"department,omitempty"`
	IsActive   bool      `json:"isActive"`
	CreatedAt  time.Time `json:"createdAt"`
}

// UserInput carries the caller supplied fields of a new user.
type UserInput struct {
	Name       string `json:"name" validate:"required"`
	Email      string `json:"email" validate:"required,email"`
	Role       Role   `json:"role" validate:"required,oneof=resident helpdesk manager admin"`
	Department string `json:"department"`
	IsActive   bool   `json:"isActive"`
}

// UserPatch lists the user fields an update may replace.
type UserPatch struct {
	Name       *string
	Email      *string
	Role       *Role
	Department *string
	IsActive   *bool
}

// Notification is an in-app message addressed to one user.
type Notification struct {
	ID               string           `json:"id"`
	UserID           string           `json:"userId"`
	Title            string           `json:"title"`
	Message          string           `json:"message"`
	Type             NotificationType `json:"type"`
	Read             bool             `json:"read"`
	RelatedRequestID string           `json:"relatedRequestId,omitempty"`
	CreatedAt        time.Time        `json:"createdAt"`
}

// NotificationInput carries the fields of a new notification.
type NotificationInput struct {
	UserID           string
	Title            string
	Message          string
	Type             NotificationType
	Read             bool
	RelatedRequestID string
}

// NotificationPatch lists the notification fields an update may replace.
type NotificationPatch struct {
	Title   *string
	Message *string
	Type    *NotificationType
	Read    *bool
}

// Facility is a bookable venue.
type Facility struct {
	ID          string    `json:"id"`
	Name        string    `json:"name"`
	Description string    `json:"description,omitempty"`
	Location    string    `json:"location"`
	Capacity    int       `json:"capacity"`
	Amenities   []string  `json:"amenities"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// FacilityInput carries the caller supplied fields of a new facility.
type FacilityInput struct {
	Name        string   `json:"name" validate:"required"`
	Description string   `json:"description"`
	Location    string   `json:"location" validate:"required"`
	Capacity    int      `json:"capacity" validate:"gt=0"`
	Amenities   []string `json:"amenities"`
	IsActive    bool     `json:"isActive"`
}

// FacilityPatch lists the facility fields an update may replace.
type FacilityPatch struct {
	Name        *string   `json:"name"`
	Description *string   `json:"description"`
	Location    *string   `json:"location"`
	Capacity    *int      `json:"capacity"`
	Amenities   *[]string `json:"amenities"`
	IsActive    *bool     `json:"isActive"`
}

// AuthUser is the session projection of a User.
type AuthUser struct {
	ID    string `json:"id"`
	Name  string `json:"name"`
	Email string `json:"email"`
	Role  Role   `json:"role"`
}

// AuthUserFrom projects u onto its session shape.
func AuthUserFrom(u User) AuthUser {
	return AuthUser{ID: u.ID, Name: u.Name, Email: u.Email, Role: u.Role}
}
