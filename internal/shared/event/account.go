package event

const AccountCreatedDestination string = "account_created"
const AccountUpdatedDestination string = "account_updated"
const AccountDeletedDestination string = "account_deleted"

const AccountCreatedConsumerActivity string = "account_created_activity"
const AccountUpdatedConsumerActivity string = "account_updated_activity"
const AccountDeletedConsumerActivity string = "account_deleted_activity"

// AccountMessage is published after an account write commits.
type AccountMessage struct {
	AccountID   int64  `json:"account_id,string"`
	AccountName string `json:"account_name"`
	ActorID     int64  `json:"actor_id,string"`
	ActorEmail  string `json:"actor_email"`
	OccurredAt  string `json:"occurred_at"` // RFC 3339
}
