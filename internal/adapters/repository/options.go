package repository

// Option applies a configuration option to the MemoryReportStore.
type Option func(*MemoryReportStore)

// WithMaxReports caps the number of report jobs kept. Values <= 0 mean unbounded.
func WithMaxReports(n int) Option {
	return func(s *MemoryReportStore) {
		s.maxReports = n
	}
}
