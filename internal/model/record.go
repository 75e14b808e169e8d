package model

// Journal field names as emitted by `journalctl -o json`.
const (
	KeyCursor     = "__CURSOR"
	KeyTimestamp  = "__REALTIME_TIMESTAMP"
	KeyHostname   = "_HOSTNAME"
	KeyPriority   = "PRIORITY"
	KeyIdentifier = "SYSLOG_IDENTIFIER"
	KeyComm       = "_COMM"
	KeyUnit       = "_SYSTEMD_UNIT"
	KeyPID        = "_PID"
	KeyUID        = "_UID"
	KeyGID        = "_GID"
	KeyFacility   = "SYSLOG_FACILITY"
	KeyMessage    = "MESSAGE"
	KeyTransport  = "_TRANSPORT"
	KeyBootID     = "_BOOT_ID"
)

// DefaultPriority is used when an entry carries no usable PRIORITY.
const DefaultPriority = 6

type FieldKind int

const (
	KindString FieldKind = iota
	KindNumber
	KindBool
	KindNull
	KindNested
)

// Field is one key/value pair of a journal entry, kept in source order.
// Nested values hold their JSON text in Value.
type Field struct {
	Name  string
	Value string
	Kind  FieldKind
}

// LogRecord is a normalized journal entry. Timestamp is in microseconds
// since the epoch; zero means the entry had no timestamp.
type LogRecord struct {
	Cursor       string
	Timestamp    int64
	TimestampRaw string
	Hostname     string
	Priority     int
	Identifier   string
	Comm         string
	Unit         string
	PID          string
	Message      string
	Transport    string
	BootID       string

	// Server-assigned values; zero for records read straight from a journal.
	ID       int64
	SourceIP string

	Fields []Field
	Raw    string
}

// DerivedIdentifier returns the first non-empty of the syslog identifier,
// the process command name and the systemd unit.
func (r LogRecord) DerivedIdentifier() string {
	switch {
	case r.Identifier != "":
		return r.Identifier
	case r.Comm != "":
		return r.Comm
	default:
		return r.Unit
	}
}

func (r LogRecord) Category() string {
	return CategoryFor(r.Priority)
}

// Field looks up a field by its journal key.
func (r LogRecord) Field(name string) (Field, bool) {
	for _, f := range r.Fields {
		if f.Name == name {
			return f, true
		}
	}
	return Field{}, false
}

func CategoryFor(priority int) string {
	switch {
	case priority <= 2:
		return "CRITICAL"
	case priority == 3:
		return "ERROR"
	case priority == 4:
		return "WARNING"
	default:
		return "INFO"
	}
}
