package termbench

const (
	errUnknownBenchmarkType = "unknown benchmark type: %T"
	errUnknownStorageType   = "unknown storage type: %T"
	errUnknownNotifierType  = "unknown notifier type: %T"
	errUnknownExporterType  = "unknown exporter type: %T"
)
