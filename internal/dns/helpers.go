package dns

// Matches reports whether rec is the record set for hostname and recordType.
// Names and types are compared exactly: no trailing-dot or case folding.
func Matches(rec *Record, hostname, recordType string) bool {
	return rec != nil && rec.Hostname == hostname && rec.Type == recordType
}

// IsCurrent reports whether rec already points hostname/recordType at value.
// Only the first value of the record set is considered.
func IsCurrent(rec *Record, hostname, recordType, value string) bool {
	return Matches(rec, hostname, recordType) && rec.Value() == value
}
