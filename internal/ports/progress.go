package ports

// ProgressReporter creates progress trackers for batch operations.
type ProgressReporter interface {
	Start(total int, description string) Progress
}

// Progress tracks one running batch operation.
type Progress interface {
	Add(n int)
	Finish()
}
