package db

import (
	"time"
)

// SkillType tags a user/skill association as something the user teaches
// or something the user wants to learn.
type SkillType string

const (
	SkillOffered SkillType = "offered"
	SkillWanted  SkillType = "wanted"
)

// RequestStatus is the lifecycle state of a SwapRequest.
// pending → accepted | rejected. "completed" is reachable in the enum but
// completion is tracked on ActiveSwap, so no command here ever sets it.
type RequestStatus string

const (
	RequestPending   RequestStatus = "pending"
	RequestAccepted  RequestStatus = "accepted"
	RequestRejected  RequestStatus = "rejected"
	RequestCompleted RequestStatus = "completed"
)

// SwapStatus is the lifecycle state of an ActiveSwap.
type SwapStatus string

const (
	SwapPendingSchedule SwapStatus = "pending_schedule"
	SwapScheduled       SwapStatus = "scheduled"
	SwapInProgress      SwapStatus = "in_progress"
	SwapCompleted       SwapStatus = "completed"
)

// User table
type User struct {
	ID           uint64 `gorm:"primaryKey;autoIncrement" json:"id"`
	Name         string `gorm:"size:128;not null" json:"name"`
	Email        string `gorm:"uniqueIndex;size:128;not null" json:"email"`
	PasswordHash string `gorm:"size:255" json:"-"`
	Location     string `gorm:"size:128" json:"location"`
	ProfilePhoto string `gorm:"size:255" json:"profilePhoto"`
	Bio          string `json:"bio"`
	Rating       float64 `gorm:"default:0;index:idx_rating_online,priority:1,sort:desc" json:"rating"`
	ReviewCount  int     `gorm:"default:0" json:"reviewCount"`
	Availability string  `gorm:"size:64" json:"availability"`
	ResponseTime string  `gorm:"size:64" json:"responseTime"`
	IsOnline     bool    `gorm:"default:false;index:idx_rating_online,priority:2,sort:desc" json:"isOnline"`
	LastActive   time.Time `json:"lastActive"`
	Distance     float64   `gorm:"default:0" json:"distance"`
	CreatedAt    time.Time `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt    time.Time `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Skill is the shared catalog vocabulary. Names are globally unique;
// skills are not owned by any one user.
type Skill struct {
	ID        uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	Name      string    `gorm:"uniqueIndex;size:64;not null" json:"name"`
	Category  string    `gorm:"size:64" json:"category"`
	CreatedAt time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// UserSkill associates a user with a catalog skill in one direction.
//
// Unique index idx_user_skill_type enforces that a (user, skill, type)
// triple exists at most once: a user cannot list the same skill twice in
// the same direction, but may list it as both offered and wanted.
type UserSkill struct {
	ID               uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID           uint64    `gorm:"not null;uniqueIndex:idx_user_skill_type,priority:1" json:"userId"`
	SkillID          uint64    `gorm:"not null;uniqueIndex:idx_user_skill_type,priority:2" json:"skillId"`
	Type             SkillType `gorm:"size:16;not null;uniqueIndex:idx_user_skill_type,priority:3" json:"type"`
	ProficiencyLevel int       `gorm:"default:1" json:"proficiencyLevel"`
	CreatedAt        time.Time `gorm:"autoCreateTime" json:"createdAt"`
}

// SwapRequest is one user asking another to trade skills.
//
// Skill ids reference the shared catalog; both are resolved from names and
// validated before insert, so a row never points at a missing skill.
type SwapRequest struct {
	ID             uint64        `gorm:"primaryKey;autoIncrement" json:"id"`
	RequesterID    uint64        `gorm:"not null;index" json:"requesterId"`
	RequesteeID    uint64        `gorm:"not null;index" json:"requesteeId"`
	OfferedSkillID uint64        `gorm:"not null" json:"offeredSkillId"`
	WantedSkillID  uint64        `gorm:"not null" json:"wantedSkillId"`
	Message        string        `json:"message"`
	Status         RequestStatus `gorm:"size:16;not null;default:pending;index" json:"status"`
	CreatedAt      time.Time     `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt      time.Time     `gorm:"autoUpdateTime" json:"updatedAt"`
}

// ActiveSwap is an accepted exchange in progress between two users.
// CompletedSessions never exceeds TotalSessions; the session-completion
// command enforces the cap.
type ActiveSwap struct {
	ID                uint64     `gorm:"primaryKey;autoIncrement" json:"id"`
	RequestID         uint64     `gorm:"not null;index" json:"requestId"`
	User1ID           uint64     `gorm:"not null;index" json:"user1Id"`
	User2ID           uint64     `gorm:"not null;index" json:"user2Id"`
	User1SkillID      uint64     `gorm:"not null" json:"user1SkillId"`
	User2SkillID      uint64     `gorm:"not null" json:"user2SkillId"`
	Status            SwapStatus `gorm:"size:24;not null;default:pending_schedule" json:"status"`
	NextSession       *time.Time `json:"nextSession"`
	TotalSessions     int        `gorm:"default:0" json:"totalSessions"`
	CompletedSessions int        `gorm:"default:0" json:"completedSessions"`
	CreatedAt         time.Time  `gorm:"autoCreateTime" json:"createdAt"`
	UpdatedAt         time.Time  `gorm:"autoUpdateTime" json:"updatedAt"`
}

// Activity is an append-only feed entry owned by one user, created as a
// side effect of other mutations.
type Activity struct {
	ID                uint64    `gorm:"primaryKey;autoIncrement" json:"id"`
	UserID            uint64    `gorm:"not null;index:idx_activity_user_created,priority:1" json:"userId"`
	Type              string    `gorm:"size:32;not null" json:"type"`
	Message           string    `gorm:"not null" json:"message"`
	RelatedUserID     *uint64   `json:"relatedUserId"`
	RelatedUserName   string    `gorm:"size:128" json:"relatedUserName"`
	RelatedUserAvatar string    `gorm:"size:255" json:"relatedUserAvatar"`
	IsNew             bool      `gorm:"default:true" json:"isNew"`
	CreatedAt         time.Time `gorm:"autoCreateTime;index:idx_activity_user_created,priority:2,sort:desc" json:"createdAt"`
}
