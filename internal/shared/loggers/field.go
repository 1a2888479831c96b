package loggers

const (
	FieldApp        = "app"
	FieldComponent  = "component"
	FieldHttpMethod = "http_method"
	FieldHttpPath   = "http_path"
	FieldHttpStatus = "http_status"

	FieldDuration   = "duration"
	FieldRequestID  = "request_id"
	FieldErrorStack = "error_stack"
	FieldErrorCode  = "error_code"

	FieldPartitionId = "partition_id"

	FieldActor     = "actor"
	FieldBackup    = "backup"
	FieldBucket    = "bucket"
	FieldContainer = "container"
	FieldBytes     = "bytes"
	FieldProgress  = "progress_pct"

	FieldSQL  = "sql"
	FieldRows = "rows"
)
