package resolution

// MismatchError reports a writer/reader schema pair with no valid
// resolution.
type MismatchError struct {
	WriterType string
	ReaderType string
	Reason     string
}

func (e *MismatchError) Error() string {
	return "resolution: cannot resolve writer " + e.WriterType + " against reader " + e.ReaderType + ": " + e.Reason
}

// MissingFieldError reports a reader field with no writer counterpart and
// no default value to fall back on.
type MissingFieldError struct {
	Record string
	Field  string
}

func (e *MissingFieldError) Error() string {
	return "resolution: reader field " + e.Record + "." + e.Field + " has no writer value and no default"
}
