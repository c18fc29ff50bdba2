package user

// Status reflects whether the user has a linked bank connection.
type Status string

const (
	StatusConnected    Status = "connected"
	StatusDisconnected Status = "disconnected"
)

// Record is the per-user document stored in the "users" collection.
// The access token is never exposed through the API.
type Record struct {
	UserID       string            `firestore:"-" json:"userId"`
	AccessToken  string            `firestore:"access_token" json:"-"`
	ItemID       string            `firestore:"item_id" json:"-"`
	Status       Status            `firestore:"user_status" json:"userStatus"`
	BankAccounts []AccountSnapshot `firestore:"bankAccounts" json:"bankAccounts"`
}

// AccountSnapshot is one normalized account as shown to the client.
// The whole bankAccounts array is replaced on every refresh; snapshots
// carry no identity and are never merged field-by-field.
type AccountSnapshot struct {
	InstitutionName string   `firestore:"institutionName" json:"institutionName"`
	Mask            string   `firestore:"accountMask" json:"accountMask"`
	Name            string   `firestore:"accountName" json:"accountName"`
	Subtype         string   `firestore:"accountType" json:"accountType"`
	Balance         float64  `firestore:"accountBalance" json:"accountBalance"`
	Transactions    []string `firestore:"accountTransactions" json:"accountTransactions"`
}

// Linked reports whether the record holds a usable access credential.
// Status is derived from this, never stored independently of it.
func (r *Record) Linked() bool {
	return r != nil && r.AccessToken != ""
}

// CurrentStatus returns the connection status implied by the credential.
func (r *Record) CurrentStatus() Status {
	if r.Linked() {
		return StatusConnected
	}
	return StatusDisconnected
}
