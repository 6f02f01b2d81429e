package model

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

// Community post types
const (
	PostTypeQuestion   = "question"
	PostTypeExperience = "experience"
	PostTypeAdvice     = "advice"
	PostTypeDiscussion = "discussion"
)

// Mentorship request status
const (
	MentorshipPending   = "pending"
	MentorshipAccepted  = "accepted"
	MentorshipDeclined  = "declined"
	MentorshipCompleted = "completed"
)

// Resource types
const (
	ResourceArticle = "article"
	ResourceVideo   = "video"
	ResourceCourse  = "course"
	ResourceBook    = "book"
	ResourceTool    = "tool"
	ResourceOther   = "other"
)

// EditablePostInfo is part of community post that the author can write
type EditablePostInfo struct {
	Title       string                      `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Content     string                      `gorm:"type:text;not null" json:"content" validate:"required"`
	PostType    string                      `gorm:"type:varchar(20);default:discussion" json:"post_type" validate:"oneof=question experience advice discussion"`
	Tags        datatypes.JSONSlice[string] `json:"tags"`
	IsAnonymous bool                        `json:"is_anonymous"`
}

// CommunityPost is a forum post where candidates share experience
type CommunityPost struct {
	ID       uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	AuthorID uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"author_id"`
	Author   *User     `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	EditablePostInfo
	IsPinned  bool      `json:"is_pinned"`
	ViewCount uint      `gorm:"default:0" json:"view_count"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`

	Comments []CommunityComment `gorm:"foreignKey:PostID;constraint:OnDelete:CASCADE" json:"comments,omitempty"`
}

func (p *CommunityPost) String() string { return p.Title }

// BeforeSave fills the default post type and validates the record.
func (p *CommunityPost) BeforeSave(tx *gorm.DB) error {
	if p.PostType == "" {
		p.PostType = PostTypeDiscussion
	}
	if p.Tags == nil {
		p.Tags = datatypes.JSONSlice[string]{}
	}
	return validateStruct(&p.EditablePostInfo)
}

// CommunityComment is a reply under a community post
type CommunityComment struct {
	ID          uint           `gorm:"primaryKey;autoIncrement" json:"id"`
	PostID      uint           `gorm:"not null;index" json:"post_id"`
	Post        *CommunityPost `gorm:"foreignKey:PostID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	AuthorID    uuid.UUID      `gorm:"type:uuid;not null;index" json:"author_id"`
	Author      *User          `gorm:"foreignKey:AuthorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Content     string         `gorm:"type:text;not null" json:"content" validate:"required"`
	IsAnonymous bool           `json:"is_anonymous"`
	CreatedAt   time.Time      `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt   time.Time      `gorm:"autoUpdateTime" json:"updated_at"`
}

// String needs the Post relation loaded to print the title.
func (c *CommunityComment) String() string {
	if c.Post == nil {
		return fmt.Sprintf("Comment on post %d", c.PostID)
	}
	return fmt.Sprintf("Comment on %s", c.Post.Title)
}

// BeforeSave validates the record.
func (c *CommunityComment) BeforeSave(tx *gorm.DB) error {
	if c.Content == "" {
		return fmt.Errorf("%w: content is required", ErrValidation)
	}
	return nil
}

// MentorshipRequest is a peer mentorship connection between two users
type MentorshipRequest struct {
	ID        uint      `gorm:"primaryKey;autoIncrement" json:"id"`
	MenteeID  uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"mentee_id"`
	Mentee    *User     `gorm:"foreignKey:MenteeID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	MentorID  uuid.UUID `gorm:"type:uuid;not null;index;<-:create" json:"mentor_id"`
	Mentor    *User     `gorm:"foreignKey:MentorID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Topic     string    `gorm:"type:varchar(200);not null" json:"topic" validate:"required,max=200"`
	Message   string    `gorm:"type:text;not null" json:"message" validate:"required"`
	Status    string    `gorm:"type:varchar(20);default:pending" json:"status" validate:"oneof=pending accepted declined completed"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt time.Time `gorm:"autoUpdateTime" json:"updated_at"`
}

// String needs Mentee and Mentor loaded to print usernames.
func (m *MentorshipRequest) String() string {
	if m.Mentee == nil || m.Mentor == nil {
		return m.Topic
	}
	return fmt.Sprintf("%s -> %s: %s", m.Mentee.Username, m.Mentor.Username, m.Topic)
}

// BeforeSave fills the default status and validates the record.
func (m *MentorshipRequest) BeforeSave(tx *gorm.DB) error {
	if m.Status == "" {
		m.Status = MentorshipPending
	}
	return validateStruct(m)
}

// ResourceShare is a learning resource shared with the community
type ResourceShare struct {
	ID           uint                        `gorm:"primaryKey;autoIncrement" json:"id"`
	SharedByID   uuid.UUID                   `gorm:"type:uuid;not null;index;<-:create" json:"shared_by_id"`
	SharedBy     *User                       `gorm:"foreignKey:SharedByID;references:ID;constraint:OnDelete:CASCADE" json:"-"`
	Title        string                      `gorm:"type:varchar(200);not null" json:"title" validate:"required,max=200"`
	Description  string                      `gorm:"type:text;not null" json:"description" validate:"required"`
	ResourceType string                      `gorm:"type:varchar(20);not null" json:"resource_type" validate:"oneof=article video course book tool other"`
	URL          string                      `gorm:"type:text;not null" json:"url" validate:"required,url"`
	Tags         datatypes.JSONSlice[string] `json:"tags"`
	Upvotes      uint                        `gorm:"default:0" json:"upvotes"`
	CreatedAt    time.Time                   `gorm:"autoCreateTime" json:"created_at"`
	UpdatedAt    time.Time                   `gorm:"autoUpdateTime" json:"updated_at"`
}

func (r *ResourceShare) String() string { return r.Title }

// BeforeSave validates the record.
func (r *ResourceShare) BeforeSave(tx *gorm.DB) error {
	if r.Tags == nil {
		r.Tags = datatypes.JSONSlice[string]{}
	}
	return validateStruct(r)
}
