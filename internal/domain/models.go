// Package domain defines the persistence models for users, assessments,
// recommendations, progress entries, and system logs. These types are mapped
// with GORM and form the core data layer of the health-risk backend.
package domain

import (
	"time"

	"gorm.io/gorm"
)

// User represents a registered account. Each user owns zero or more
// assessments, recommendations, and progress entries; deleting a user
// cascades to all of them.
//
// Fields:
//   - ID: stable UUID primary key (char(36)).
//   - Email: unique login identifier (lowercased on write).
//   - PasswordHash: bcrypt hash; never serialized to JSON.
//   - FirstName / LastName / Age / Phone / Gender: profile fields.
//   - IsAdmin: grants access to administrative endpoints.
//   - CreatedAt / UpdatedAt: timestamps managed by GORM.
//   - DeletedAt: soft deletion marker (retains row for audit/history).
type User struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	Email        string         `json:"email"         gorm:"type:varchar(255);not null;uniqueIndex:ux_users_email"`
	PasswordHash string         `json:"-"             gorm:"type:varchar(255);not null"`
	FirstName    string         `json:"first_name"    gorm:"type:varchar(100);not null"`
	LastName     string         `json:"last_name"     gorm:"type:varchar(100);not null"`
	Age          *int           `json:"age,omitempty"`
	Phone        string         `json:"phone,omitempty"  gorm:"type:varchar(32)"`
	Gender       string         `json:"gender,omitempty" gorm:"type:varchar(16)"`
	IsAdmin      bool           `json:"is_admin"      gorm:"not null;default:false"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`
}

// TableName returns the database table name for User.
func (User) TableName() string { return "users" }

// Assessment is an immutable record of one scored questionnaire submission.
// The raw input snapshot and the per-type classifier scores are stored as
// JSON-encoded text so that rescoring the snapshot reproduces the same score.
//
// Fields:
//   - ID: UUID primary key (char(36)).
//   - UserID: owner of the record (indexed, cascade on delete).
//   - RiskScore: normalized score in [0,100], two decimals.
//   - RiskLevel: "Low", "Medium", or "High".
//   - Verdict: fixed verdict string for the risk level.
//   - PrakritiType: constitutional type used for scoring.
//   - PrakritiScores: JSON text of per-type percentages (may be empty).
//   - InputSnapshot: JSON text of the validated request payload.
type Assessment struct {
	ID             string         `json:"id"              gorm:"type:char(36);primaryKey"`
	UserID         string         `json:"user_id"         gorm:"type:char(36);not null;index:idx_user_assessments,priority:1"`
	RiskScore      float64        `json:"risk_score"      gorm:"not null"`
	RiskLevel      string         `json:"risk_level"      gorm:"type:varchar(16);not null;check:risk_level IN ('Low','Medium','High')"`
	Verdict        string         `json:"verdict"         gorm:"type:varchar(255);not null"`
	PrakritiType   string         `json:"prakriti_type"   gorm:"type:varchar(32);not null"`
	PrakritiScores string         `json:"prakriti_scores,omitempty" gorm:"type:text"`
	InputSnapshot  string         `json:"input_snapshot"  gorm:"type:text;not null"`
	CreatedAt      time.Time      `json:"created_at"      gorm:"index:idx_user_assessments,priority:2"`
	UpdatedAt      time.Time      `json:"updated_at"`
	DeletedAt      gorm.DeletedAt `json:"-"               gorm:"index"`

	// User is the owning account. Assessments are cascade-deleted if the
	// user is removed.
	User User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Assessment.
func (Assessment) TableName() string { return "assessments" }

// Recommendation stores the static advice bundle generated alongside an
// assessment: one complementary (Ayurveda) block keyed by constitutional
// type and one conventional (Allopathy) block keyed by risk tier.
type Recommendation struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID       string         `json:"user_id"       gorm:"type:char(36);not null;index"`
	AssessmentID string         `json:"assessment_id" gorm:"type:char(36);not null;index"`
	Ayurveda     string         `json:"ayurveda"      gorm:"type:text;not null"`
	Allopathy    string         `json:"allopathy"     gorm:"type:text;not null"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`

	User       User       `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Assessment Assessment `json:"-" gorm:"foreignKey:AssessmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for Recommendation.
func (Recommendation) TableName() string { return "recommendations" }

// UserProgress is a free-form follow-up note a user attaches to one of
// their assessments; the structured payload is stored as JSON text.
type UserProgress struct {
	ID           string         `json:"id"            gorm:"type:char(36);primaryKey"`
	UserID       string         `json:"user_id"       gorm:"type:char(36);not null;index"`
	AssessmentID string         `json:"assessment_id" gorm:"type:char(36);not null;index"`
	ProgressData string         `json:"progress_data" gorm:"type:text;not null"`
	Notes        string         `json:"notes,omitempty" gorm:"type:text"`
	CreatedAt    time.Time      `json:"created_at"`
	UpdatedAt    time.Time      `json:"updated_at"`
	DeletedAt    gorm.DeletedAt `json:"-"             gorm:"index"`

	User       User       `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
	Assessment Assessment `json:"-" gorm:"foreignKey:AssessmentID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:CASCADE"`
}

// TableName returns the database table name for UserProgress.
func (UserProgress) TableName() string { return "user_progress" }

// SystemLog is an append-only audit row for authenticated actions.
// UserID is nullable; it is set to NULL (not cascaded) when the user is
// deleted so that the audit trail survives account removal.
type SystemLog struct {
	ID        string    `json:"id"         gorm:"type:char(36);primaryKey"`
	UserID    *string   `json:"user_id,omitempty" gorm:"type:char(36);index"`
	Action    string    `json:"action"     gorm:"type:varchar(64);not null"`
	Details   string    `json:"details,omitempty" gorm:"type:text"`
	IPAddress string    `json:"ip_address,omitempty" gorm:"type:varchar(64)"`
	UserAgent string    `json:"user_agent,omitempty" gorm:"type:varchar(255)"`
	CreatedAt time.Time `json:"created_at"`

	User *User `json:"-" gorm:"foreignKey:UserID;references:ID;constraint:OnUpdate:CASCADE,OnDelete:SET NULL"`
}

// TableName returns the database table name for SystemLog.
func (SystemLog) TableName() string { return "system_logs" }
