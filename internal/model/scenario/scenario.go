// Package scenario defines the vishing scenario catalog: the caller persona
// and target objective a simulation session is bound to.
package scenario

// Scenario captures one training setup exposed to the frontend.
type Scenario struct {
	ID           string   `json:"id"`
	Name         string   `json:"name"`
	Description  string   `json:"description"`
	CallerName   string   `json:"callerName"`
	CallerRole   string   `json:"callerRole"`
	Organization string   `json:"organization"`
	Objective    string   `json:"objective"`
	Difficulty   string   `json:"difficulty"`
	OpeningLine  string   `json:"openingLine"`
	TargetAssets []string `json:"targetAssets,omitempty"`
}

// Seed provides the default scenario catalog.
func Seed() []Scenario {
	return []Scenario{
		{
			ID:           "it-helpdesk-reset",
			Name:         "IT Helpdesk Password Reset",
			Description:  "A caller claiming to be from internal IT support needs the trainee's credentials to 'complete a migration'.",
			CallerName:   "Marcus Webb",
			CallerRole:   "IT Support Specialist",
			Organization: "Internal IT Helpdesk",
			Objective:    "Obtain the trainee's password or a remote-access session",
			Difficulty:   "beginner",
			OpeningLine:  "Hi, this is Marcus from IT. We're migrating mailboxes tonight and I need to verify a few things on your account before we flip the switch.",
			TargetAssets: []string{"password", "mfa code", "remote access"},
		},
		{
			ID:           "bank-fraud-team",
			Name:         "Bank Fraud Team Callback",
			Description:  "A caller posing as the bank's fraud team warns of suspicious transactions and pushes for account details to 'secure' the account.",
			CallerName:   "Dana Kowalski",
			CallerRole:   "Senior Fraud Analyst",
			Organization: "First Meridian Bank",
			Objective:    "Extract account numbers and a one-time passcode",
			Difficulty:   "intermediate",
			OpeningLine:  "This is Dana Kowalski with First Meridian's fraud prevention team. We've flagged two transactions on your account in the last hour and I need to act fast to stop them.",
			TargetAssets: []string{"account number", "one-time passcode"},
		},
		{
			ID:           "vendor-invoice-change",
			Name:         "Vendor Payment Redirect",
			Description:  "A caller impersonating a known vendor's finance contact requests an urgent change to payment details before month-end close.",
			CallerName:   "Priya Nair",
			CallerRole:   "Accounts Receivable Manager",
			Organization: "Corvid Logistics",
			Objective:    "Get payment routing details changed to an attacker-controlled account",
			Difficulty:   "advanced",
			OpeningLine:  "Hello, Priya Nair calling from Corvid Logistics accounts. Our bank details changed last week and I want to make sure this month's payment doesn't bounce.",
			TargetAssets: []string{"payment routing", "invoice approval"},
		},
	}
}
