package tablestore

// TableViewType selects which fields of a table the service returns.
type TableViewType string

const (
	// TableViewNameOnly only populates the table name.
	TableViewNameOnly TableViewType = "NAME_ONLY"

	// TableViewSchema populates the name and the column family schema.
	TableViewSchema TableViewType = "SCHEMA_VIEW"

	// TableViewFull populates all fields.
	TableViewFull TableViewType = "FULL"
)

// HTTP headers
const (
	HTTPHeaderAuthorization = "Authorization"
	HTTPHeaderContentLength = "Content-Length"
	HTTPHeaderContentType   = "Content-Type"
	HTTPHeaderDate          = "Date"
	HTTPHeaderUserAgent     = "User-Agent"

	HTTPHeaderStratusDate      = "X-Stratus-Date"
	HTTPHeaderStratusRequestID = "X-Stratus-Request-Id"
)

const contentTypeJSON = "application/json"
