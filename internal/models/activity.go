package models

import (
	"time"

	"go.mongodb.org/mongo-driver/bson/primitive"
)

type ActivityAction string

const (
	ActionRegister       ActivityAction = "register"
	ActionLogin          ActivityAction = "login"
	ActionLoginFailed    ActivityAction = "login_failed"
	ActionLogout         ActivityAction = "logout"
	ActionDeleteUser     ActivityAction = "delete_user"
	ActionAddFeedback    ActivityAction = "add_feedback"
	ActionUpdateFeedback ActivityAction = "update_feedback"
	ActionDeleteFeedback ActivityAction = "delete_feedback"
)

// ActivityEvent is one entry of the account audit trail kept in MongoDB.
type ActivityEvent struct {
	ID        primitive.ObjectID `bson:"_id,omitempty" json:"id"`
	EventID   string             `bson:"event_id" json:"event_id"`
	RequestID string             `bson:"request_id,omitempty" json:"request_id,omitempty"`
	CreatedAt time.Time          `bson:"created_at" json:"created_at"`

	Username   string         `bson:"username" json:"username"`
	Action     ActivityAction `bson:"action" json:"action"`
	FeedbackID int64          `bson:"feedback_id,omitempty" json:"feedback_id,omitempty"`

	// IP address for abuse investigation only
	IPAddress string `bson:"ip_address,omitempty" json:"ip_address,omitempty"`
}
