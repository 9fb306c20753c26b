package ctxld

// Writer appends units to a channel's staging with a sticky error, so block
// code can issue a whole programming sequence and check once.
type Writer struct {
	st  *Channel
	err error
}

// Writer returns a sticky-error view of the staging buffers.
func (s *Channel) Writer() *Writer { return &Writer{st: s} }

// SB stages a single-buffered write.
func (w *Writer) SB(addr, val uint32) {
	if w.err == nil {
		w.err = w.st.FillSB(addr, val)
	}
}

// SBHP stages a high-priority single-buffered write.
func (w *Writer) SBHP(addr, val uint32) {
	if w.err == nil {
		w.err = w.st.FillSBHP(addr, val)
	}
}

// DB stages a double-buffered write.
func (w *Writer) DB(addr, val uint32) {
	if w.err == nil {
		w.err = w.st.FillDB(addr, val)
	}
}

// Err returns the first error that occurred while staging.
func (w *Writer) Err() error { return w.err }
