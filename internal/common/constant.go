package common

// CloneTitleSuffix is appended to the title of a cloned checklist.
const CloneTitleSuffix = " (Clone)"

// MaxUploadSize is the default ceiling for a single uploaded file (10 MiB).
const MaxUploadSize int64 = 10 * 1024 * 1024
