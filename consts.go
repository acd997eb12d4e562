package litprog

// ReportID identifies the user-visible match callback fired when a report
// instruction executes.
type ReportID uint32

// Groups is a bitmask of literal groups. Instructions test and squash these
// bits to gate which literals stay live during a scan.
type Groups uint64
