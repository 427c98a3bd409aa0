package config

// Application constants
const (
	// Application Info
	AppName = "icdmap"

	// EnvPrefix namespaces every environment variable (ICDMAP_*)
	EnvPrefix = "ICDMAP"

	// Directories (relative to the base directory)
	DefaultDataDir   = "data"
	DefaultOutputDir = "output"
	DefaultLogsDir   = "logs"

	// Input
	DefaultInputExtension = ".txt"

	// Well-known output files
	MappingReportTXT  = "icd_mapping_report.txt"
	MappingReportXLSX = "icd_mapping_report.xlsx"
	CodesAllXLSX      = "icd10am_codes_all.xlsx"
	UniqueCodesXLSX   = "unique_icd10am_codes.xlsx"
	CodesTXT          = "icd10am_codes.txt"
	MetricsTextfile   = "icdmap.prom"
	LogFile           = "icdmap.log"
)
