package core

import (
	"context"
	"time"

	"github.com/google/uuid"
)

// Field names as they appear in the dataset header row.
const (
	FieldID                   = "id"
	FieldCreatedDT            = "created_dt"
	FieldModifiedDT           = "data_source_modified_dt"
	FieldEntityType           = "entity_type"
	FieldOperatingStatus      = "operating_status"
	FieldLegalName            = "legal_name"
	FieldDBAName              = "dba_name"
	FieldPhysicalAddress      = "physical_address"
	FieldPhone                = "phone"
	FieldUSDOTNumber          = "usdot_number"
	FieldMCMXFFNumber         = "mc_mx_ff_number"
	FieldPowerUnits           = "power_units"
	FieldOutOfServiceDate     = "out_of_service_date"
	FieldRecordStatus         = "record_status"
	FieldMCS150FormDate       = "mcs_150_form_date"
	FieldMCS150MileageYear    = "mcs_150_mileage_year"
	FieldMailingAddress       = "mailing_address"
	FieldDUNSNumber           = "duns_number"
	FieldDrivers              = "drivers"
	FieldCreditScore          = "credit_score"
	FieldStateCarrierIDNumber = "state_carrier_id_number"
	FieldMStreet              = "m_street"
	FieldMCity                = "m_city"
	FieldMState               = "m_state"
	FieldMZipCode             = "m_zip_code"
	FieldPStreet              = "p_street"
	FieldPCity                = "p_city"
	FieldPState               = "p_state"
	FieldPZipCode             = "p_zip_code"
)

// Record is one carrier row keyed by header name.
type Record map[string]string

// ID returns the record identifier.
func (r Record) ID() string {
	return r[FieldID]
}

// Get returns the raw value of a field. Missing fields read as "".
func (r Record) Get(field string) string {
	return r[field]
}

// LoadStats describes the outcome of one parse.
type LoadStats struct {
	Rows         int   // Records produced
	SkippedLines int   // Blank lines dropped
	Flagged      int   // Records kept despite an empty id
	Bytes        int64 // Raw input size, 0 when not applicable
}

// Source produces the full, ordered list of records.
// Implementations must honour ctx cancellation.
type Source interface {
	Load(ctx context.Context) ([]Record, LoadStats, error)
	Name() string
}

// Snapshot is one immutable load of the dataset.
// Records must be treated as read-only by every consumer.
type Snapshot struct {
	Records  []Record
	Version  uuid.UUID
	LoadedAt time.Time
	Source   string
	Stats    LoadStats
}

// Find returns the first record whose id equals id.
func (s *Snapshot) Find(id string) (Record, bool) {
	if s == nil {
		return nil, false
	}
	for _, rec := range s.Records {
		if rec.ID() == id {
			return rec, true
		}
	}
	return nil, false
}

// Len returns the number of records in the snapshot.
func (s *Snapshot) Len() int {
	if s == nil {
		return 0
	}
	return len(s.Records)
}

// LoadState is the lifecycle state of the [Service].
type LoadState string

const (
	StateIdle    LoadState = "idle"
	StateLoading LoadState = "loading"
	StateReady   LoadState = "ready"
	StateFailed  LoadState = "failed"
)

// Status reports the loader state for health checks and the status API.
type Status struct {
	State    LoadState `json:"state" msgpack:"state"`
	Source   string    `json:"source" msgpack:"source"`
	Version  string    `json:"version,omitempty" msgpack:"version,omitempty"`
	LoadedAt time.Time `json:"loaded_at,omitempty" msgpack:"loaded_at,omitempty"`
	Rows     int       `json:"rows" msgpack:"rows"`
	Flagged  int       `json:"flagged" msgpack:"flagged"`
	Error    string    `json:"error,omitempty" msgpack:"error,omitempty"`
}
