package adjustment

const (
	ColumnUID                = "UID"
	ColumnTimestamp          = "Timestamp"
	ColumnCenterName         = "Center Name"
	ColumnChildName          = "Child Name"
	ColumnAdjustmentAmount   = "Adjustment Amount"
	ColumnNote               = "Note/Description"
	ColumnPullingInstruction = "Pulling Instruction"
	ColumnPullingCategory    = "Pulling Category"
	ColumnStartDate          = "Start Date"
	ColumnEndDate            = "End Date"
	ColumnRecurring          = "Adjustment is Recurring"
	ColumnChildStatus        = "Child Status"
	ColumnFamilyStatus       = "Family Status"
	ColumnBillingCycle       = "Billing Cycle"
)

// Columns is the canonical column order of the persisted table and of exports.
var Columns = []string{
	ColumnUID,
	ColumnTimestamp,
	ColumnCenterName,
	ColumnChildName,
	ColumnAdjustmentAmount,
	ColumnNote,
	ColumnPullingInstruction,
	ColumnPullingCategory,
	ColumnStartDate,
	ColumnEndDate,
	ColumnRecurring,
	ColumnChildStatus,
	ColumnFamilyStatus,
	ColumnBillingCycle,
}

type Record struct {
	UID                string
	Timestamp          string
	CenterName         string
	ChildName          string
	AdjustmentAmount   string
	Note               string
	PullingInstruction string
	PullingCategory    string
	StartDate          string
	EndDate            string
	Recurring          string
	ChildStatus        string
	FamilyStatus       string
	BillingCycle       string
}

func (r *Record) field(column string) *string {
	switch column {
	case ColumnUID:
		return &r.UID
	case ColumnTimestamp:
		return &r.Timestamp
	case ColumnCenterName:
		return &r.CenterName
	case ColumnChildName:
		return &r.ChildName
	case ColumnAdjustmentAmount:
		return &r.AdjustmentAmount
	case ColumnNote:
		return &r.Note
	case ColumnPullingInstruction:
		return &r.PullingInstruction
	case ColumnPullingCategory:
		return &r.PullingCategory
	case ColumnStartDate:
		return &r.StartDate
	case ColumnEndDate:
		return &r.EndDate
	case ColumnRecurring:
		return &r.Recurring
	case ColumnChildStatus:
		return &r.ChildStatus
	case ColumnFamilyStatus:
		return &r.FamilyStatus
	case ColumnBillingCycle:
		return &r.BillingCycle
	}
	return nil
}

// Get returns the value of the named column, or "" for an unknown column.
func (r Record) Get(column string) string {
	if f := r.field(column); f != nil {
		return *f
	}
	return ""
}

// Set assigns the named column. Unknown columns are ignored.
func (r *Record) Set(column string, value string) {
	if f := r.field(column); f != nil {
		*f = value
	}
}

// Values returns the record's values in Columns order.
func (r Record) Values() []string {
	values := make([]string, 0, len(Columns))
	for _, column := range Columns {
		values = append(values, r.Get(column))
	}
	return values
}

// FromValues builds a record from a column -> value lookup. Missing columns stay empty.
func FromValues(lookup func(column string) string) Record {
	var r Record
	for _, column := range Columns {
		r.Set(column, lookup(column))
	}
	return r
}

func identifiers(records []Record) map[string]struct{} {
	ids := make(map[string]struct{}, len(records))
	for _, r := range records {
		ids[r.UID] = struct{}{}
	}
	return ids
}
