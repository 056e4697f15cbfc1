package constants

import "time"

const (
	DefaultBaseURL     = "https://crm.zoho.com/crm/private/xml"
	DefaultHTTPTimeout = 30 * time.Second

	// RecordsPerPage is the largest page the API returns for a single list call.
	RecordsPerPage = 200

	Scope = "crmapi"
)

// BenignCodes are embedded response codes that report "no data" rather than a failure.
var BenignCodes = []string{"4422", "5000"}

// DefaultModules are always available, whatever custom modules a client declares.
var DefaultModules = []string{"Accounts", "Contacts", "Events", "Leads", "Potentials", "Tasks", "Users"}

// Date layouts used by the service for date and date-time field values.
const (
	DateLayout     = "2006-01-02"
	DateTimeLayout = "2006-01-02 15:04:05"
)
