package models

import (
	"time"

	"github.com/ahmadiq01/GOAT--Govt-Application-Tracking-System--Backend/internal/core/domain"

	"go.mongodb.org/mongo-driver/bson/primitive"
	"gorm.io/gorm"
)

// NewID returns a fresh 24 character hex identifier
func NewID() string {
	return primitive.NewObjectID().Hex()
}

// ============================================================
// Accounts
// ============================================================

// User represents users table. Citizens log in with their national id,
// staff accounts are seeded.
type User struct {
	ID            string      `gorm:"primaryKey;size:24" json:"_id"`
	Name          string      `gorm:"size:150" json:"name"`
	NationalID    string      `gorm:"uniqueIndex;size:32;not null" json:"nic"`
	Username      string      `gorm:"uniqueIndex;size:100;not null" json:"username"`
	Email         string      `gorm:"uniqueIndex;size:191;not null" json:"email"`
	Password      string      `gorm:"size:255;not null" json:"-"`
	Phone         string      `gorm:"size:32" json:"phoneNo"`
	Address       string      `gorm:"size:500" json:"address"`
	Role          domain.Role `gorm:"size:20;not null" json:"role"`
	IsActive      bool        `gorm:"not null" json:"isActive"`
	LoginAttempts int         `gorm:"not null" json:"-"`
	LockUntil     *time.Time  `json:"-"`
	LastLoginAt   *time.Time  `json:"lastLogin,omitempty"`
	CreatedAt     time.Time   `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt     time.Time   `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (User) TableName() string {
	return "users"
}

func (u *User) BeforeCreate(tx *gorm.DB) error {
	if u.ID == "" {
		u.ID = NewID()
	}
	return nil
}

// IsLocked reports whether the account is locked at now
func (u *User) IsLocked(now time.Time) bool {
	return u.LockUntil != nil && u.LockUntil.After(now)
}

// UserResponse DTO
type UserResponse struct {
	ID        string      `json:"_id"`
	Name      string      `json:"name"`
	Address   string      `json:"address"`
	Email     string      `json:"email"`
	NIC       string      `json:"nic"`
	PhoneNo   string      `json:"phoneNo"`
	Role      domain.Role `json:"role"`
	CreatedAt time.Time   `json:"createdAt"`
}

func (u *User) ToResponse() *UserResponse {
	return &UserResponse{
		ID:        u.ID,
		Name:      u.Name,
		Address:   u.Address,
		Email:     u.Email,
		NIC:       u.NationalID,
		PhoneNo:   u.Phone,
		Role:      u.Role,
		CreatedAt: u.CreatedAt,
	}
}

// ============================================================
// Reference data
// ============================================================

// ApplicationType represents application_types table
type ApplicationType struct {
	ID          string    `gorm:"primaryKey;size:24" json:"_id"`
	Name        string    `gorm:"uniqueIndex;size:150;not null" json:"name"`
	Description string    `gorm:"size:500" json:"description"`
	IsActive    bool      `gorm:"not null" json:"isActive"`
	CreatedAt   time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt   time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (ApplicationType) TableName() string {
	return "application_types"
}

func (t *ApplicationType) BeforeCreate(tx *gorm.DB) error {
	if t.ID == "" {
		t.ID = NewID()
	}
	return nil
}

// Officer represents officers table
type Officer struct {
	ID          string `gorm:"primaryKey;size:24" json:"_id"`
	Name        string `gorm:"index;size:150;not null" json:"name"`
	Office      string `gorm:"size:150" json:"office"`
	Designation string `gorm:"size:255" json:"designation"`
	Department  string `gorm:"size:150" json:"department,omitempty"`
	// UserID links the officer record to the staff account acting for it
	UserID    *string   `gorm:"uniqueIndex;size:24" json:"-"`
	IsActive  bool      `gorm:"not null" json:"isActive"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Officer) TableName() string {
	return "officers"
}

func (o *Officer) BeforeCreate(tx *gorm.DB) error {
	if o.ID == "" {
		o.ID = NewID()
	}
	return nil
}

// ============================================================
// Workflow
// ============================================================

// Application represents applications table. Applicant, type and officer
// fields are snapshots taken at submission and never refreshed.
type Application struct {
	ID                  string                   `gorm:"primaryKey;size:24"`
	TrackingNumber      string                   `gorm:"uniqueIndex;size:64;not null"`
	Name                string                   `gorm:"size:150;not null"`
	NationalID          string                   `gorm:"index;size:32;not null"`
	Phone               string                   `gorm:"size:32;not null"`
	Email               string                   `gorm:"size:191"`
	Address             string                   `gorm:"size:500"`
	ApplicationTypeID   string                   `gorm:"index;size:24;not null"`
	ApplicationTypeName string                   `gorm:"index;size:150;not null"`
	OfficerID           *string                  `gorm:"index;size:24"`
	OfficerName         string                   `gorm:"size:150"`
	OfficerDesignation  string                   `gorm:"size:255"`
	Description         string                   `gorm:"type:text"`
	Attachments         []string                 `gorm:"serializer:json;type:json"`
	Status              domain.ApplicationStatus `gorm:"index;size:20;not null"`
	Acknowledgement     string                   `gorm:"size:100"`
	SubmittedAt         time.Time                `gorm:"not null"`
	CreatedAt           time.Time                `gorm:"index;autoCreateTime"`
	UpdatedAt           time.Time                `gorm:"autoUpdateTime"`
}

func (Application) TableName() string {
	return "applications"
}

func (a *Application) BeforeCreate(tx *gorm.DB) error {
	if a.ID == "" {
		a.ID = NewID()
	}
	return nil
}

// AssignedOfficer returns the assigned officer id or ""
func (a *Application) AssignedOfficer() string {
	if a.OfficerID == nil {
		return ""
	}
	return *a.OfficerID
}

// ApplicationResponse is the public status view returned on submit and
// tracking number lookup
type ApplicationResponse struct {
	ID              string                   `json:"_id"`
	TrackingNumber  string                   `json:"trackingNumber"`
	Name            string                   `json:"name"`
	CNIC            string                   `json:"cnic"`
	Phone           string                   `json:"phone"`
	Email           string                   `json:"email,omitempty"`
	Address         string                   `json:"address,omitempty"`
	ApplicationType string                   `json:"applicationType"`
	Officer         string                   `json:"officer,omitempty"`
	Description     string                   `json:"description,omitempty"`
	Attachments     []string                 `json:"attachments"`
	Acknowledgement string                   `json:"acknowledgement"`
	Status          domain.ApplicationStatus `json:"status"`
	SubmittedAt     time.Time                `json:"submittedAt"`
}

func (a *Application) ToResponse() *ApplicationResponse {
	attachments := a.Attachments
	if attachments == nil {
		attachments = []string{}
	}
	return &ApplicationResponse{
		ID:              a.ID,
		TrackingNumber:  a.TrackingNumber,
		Name:            a.Name,
		CNIC:            a.NationalID,
		Phone:           a.Phone,
		Email:           a.Email,
		Address:         a.Address,
		ApplicationType: a.ApplicationTypeName,
		Officer:         a.OfficerName,
		Description:     a.Description,
		Attachments:     attachments,
		Acknowledgement: a.Acknowledgement,
		Status:          a.Status,
		SubmittedAt:     a.SubmittedAt,
	}
}

// TypeRef is the application type label embedded in detail views
type TypeRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Description string `json:"description,omitempty"`
}

// OfficerRef is the officer label embedded in detail views
type OfficerRef struct {
	ID          string `json:"_id"`
	Name        string `json:"name"`
	Designation string `json:"designation,omitempty"`
	Department  string `json:"department,omitempty"`
}

// ApplicationDetail is the staff and owner view of an application.
// Names come from the snapshot columns, descriptions from the live
// reference rows when they are still present.
type ApplicationDetail struct {
	ID              string                   `json:"_id"`
	TrackingNumber  string                   `json:"trackingNumber"`
	Name            string                   `json:"name"`
	CNIC            string                   `json:"cnic"`
	Phone           string                   `json:"phone"`
	Email           string                   `json:"email,omitempty"`
	Address         string                   `json:"address,omitempty"`
	ApplicationType TypeRef                  `json:"applicationType"`
	Officer         *OfficerRef              `json:"officer"`
	Description     string                   `json:"description,omitempty"`
	Attachments     []string                 `json:"attachments"`
	Status          domain.ApplicationStatus `json:"status"`
	Acknowledgement string                   `json:"acknowledgement"`
	SubmittedAt     time.Time                `json:"submittedAt"`
	CreatedAt       time.Time                `json:"createdAt"`
	UpdatedAt       time.Time                `json:"updatedAt"`
}

// ToDetail builds the detail view. types and officers may be nil.
func (a *Application) ToDetail(types map[string]*ApplicationType, officers map[string]*Officer) ApplicationDetail {
	attachments := a.Attachments
	if attachments == nil {
		attachments = []string{}
	}

	d := ApplicationDetail{
		ID:             a.ID,
		TrackingNumber: a.TrackingNumber,
		Name:           a.Name,
		CNIC:           a.NationalID,
		Phone:          a.Phone,
		Email:          a.Email,
		Address:        a.Address,
		ApplicationType: TypeRef{
			ID:   a.ApplicationTypeID,
			Name: a.ApplicationTypeName,
		},
		Description:     a.Description,
		Attachments:     attachments,
		Status:          a.Status,
		Acknowledgement: a.Acknowledgement,
		SubmittedAt:     a.SubmittedAt,
		CreatedAt:       a.CreatedAt,
		UpdatedAt:       a.UpdatedAt,
	}
	if t, ok := types[a.ApplicationTypeID]; ok {
		d.ApplicationType.Description = t.Description
	}
	if a.OfficerID != nil {
		d.Officer = &OfficerRef{
			ID:          *a.OfficerID,
			Name:        a.OfficerName,
			Designation: a.OfficerDesignation,
		}
		if o, ok := officers[*a.OfficerID]; ok {
			d.Officer.Department = o.Department
		}
	}
	return d
}

// ApplicationBrief is the minimal projection used in summaries and
// feedback listings
type ApplicationBrief struct {
	ID                  string                   `json:"_id"`
	TrackingNumber      string                   `json:"trackingNumber"`
	Name                string                   `json:"name"`
	ApplicationTypeName string                   `json:"applicationTypeName,omitempty"`
	Status              domain.ApplicationStatus `json:"status"`
	SubmittedAt         time.Time                `json:"submittedAt"`
}

func (a *Application) ToBrief() *ApplicationBrief {
	return &ApplicationBrief{
		ID:                  a.ID,
		TrackingNumber:      a.TrackingNumber,
		Name:                a.Name,
		ApplicationTypeName: a.ApplicationTypeName,
		Status:              a.Status,
		SubmittedAt:         a.SubmittedAt,
	}
}

// GroupCount is one bucket of a grouped count
type GroupCount struct {
	Label string `json:"_id"`
	Count int64  `json:"count"`
}

// Attachment is the file metadata attached to a feedback message
type Attachment struct {
	FileName     string `json:"fileName,omitempty"`
	OriginalName string `json:"originalName,omitempty"`
	MimeType     string `json:"mimeType,omitempty"`
	Size         int64  `json:"size,omitempty"`
	URL          string `json:"url,omitempty"`
}

// Feedback represents feedbacks table. Every message of a conversation
// shares the ThreadID of its first message.
type Feedback struct {
	ID               string                `gorm:"primaryKey;size:24" json:"_id"`
	ApplicationID    string                `gorm:"index;size:24;not null" json:"applicationId"`
	OfficerID        string                `gorm:"index;size:24;not null" json:"officerId"`
	UserID           string                `gorm:"index;size:24;not null" json:"userId"`
	Message          string                `gorm:"type:text;not null" json:"message"`
	AttachmentURL    string                `gorm:"size:1024" json:"attachmentUrl,omitempty"`
	Attachment       *Attachment           `gorm:"serializer:json;type:json" json:"attachment,omitempty"`
	Type             domain.FeedbackType   `gorm:"size:20;not null" json:"type"`
	Status           domain.FeedbackStatus `gorm:"index;size:20;not null" json:"status"`
	ParentFeedbackID *string               `gorm:"index;size:24" json:"parentFeedbackId,omitempty"`
	ThreadID         string                `gorm:"index;size:24;not null" json:"threadId"`
	IsRead           bool                  `gorm:"index;not null" json:"isRead"`
	SentAt           time.Time             `gorm:"not null" json:"sentAt"`
	ReadAt           *time.Time            `json:"readAt,omitempty"`
	CreatedAt        time.Time             `gorm:"index;autoCreateTime" json:"createdAt"`
	UpdatedAt        time.Time             `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (Feedback) TableName() string {
	return "feedbacks"
}

func (f *Feedback) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}

// FeedbackView is a feedback message with its application label
type FeedbackView struct {
	*Feedback
	Application *ApplicationBrief `json:"application,omitempty"`
}

// ============================================================
// Files
// ============================================================

// File represents files table: metadata for objects uploaded to storage
type File struct {
	ID           string    `gorm:"primaryKey;size:24" json:"_id"`
	OriginalName string    `gorm:"size:255;not null" json:"originalName"`
	FileName     string    `gorm:"size:255;not null" json:"fileName"`
	FileURL      string    `gorm:"size:1024;not null" json:"fileUrl"`
	S3Key        string    `gorm:"uniqueIndex;size:255;not null" json:"s3Key"`
	MimeType     string    `gorm:"size:150;not null" json:"mimeType"`
	Size         int64     `gorm:"not null" json:"size"`
	UploadedBy   string    `gorm:"index;size:24" json:"uploadedBy,omitempty"`
	IsActive     bool      `gorm:"index;not null" json:"isActive"`
	UploadDate   time.Time `gorm:"not null" json:"uploadDate"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

func (File) TableName() string {
	return "files"
}

func (f *File) BeforeCreate(tx *gorm.DB) error {
	if f.ID == "" {
		f.ID = NewID()
	}
	return nil
}

// FileInfo describes one attachment of a comprehensive application view.
// When no metadata row exists only URL and FileName are set.
type FileInfo struct {
	URL          string     `json:"url"`
	FileName     string     `json:"fileName"`
	OriginalName string     `json:"originalName,omitempty"`
	MimeType     string     `json:"mimeType,omitempty"`
	Size         int64      `json:"size,omitempty"`
	UploadDate   *time.Time `json:"uploadDate,omitempty"`
}

// AutoMigrate creates or updates the workflow tables
func AutoMigrate(db *gorm.DB) error {
	return db.AutoMigrate(
		&User{},
		&ApplicationType{},
		&Officer{},
		&Application{},
		&Feedback{},
		&File{},
	)
}
