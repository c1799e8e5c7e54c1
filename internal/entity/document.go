package entity

// RawDocument is a fetched resume: immutable bytes plus the display name the
// transport assigned (original filename with a timestamp prefix). LocalPath
// points at the spooled copy, if any; the pipeline removes it once the
// document reaches a terminal state.
type RawDocument struct {
	DisplayName string
	Bytes       []byte
	LocalPath   string
}
