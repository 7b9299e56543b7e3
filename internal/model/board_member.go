package model

import "time"

// Board roles, from most to least privileged.
const (
	RoleOwner  = "owner"
	RoleMember = "member"
	RoleViewer = "viewer"
)

func ValidRole(role string) bool {
	return role == RoleOwner || role == RoleMember || role == RoleViewer
}

type BoardMember struct {
	ID       uint      `gorm:"primaryKey" json:"id"`
	BoardID  uint      `gorm:"not null;uniqueIndex:uk_board_user" json:"board_id"`
	UserID   uint      `gorm:"not null;uniqueIndex:uk_board_user;index:idx_user_id" json:"user_id"`
	Role     string    `gorm:"type:varchar(10);not null" json:"role"`
	JoinedAt time.Time `gorm:"autoCreateTime" json:"joined_at"`

	User *User `gorm:"foreignKey:UserID" json:"user,omitempty"`
}

func (BoardMember) TableName() string { return "board_members" }
