package util

const (
	DateFormat = "2006-01-02"
	TimeFormat = "2006-01-02 15:04:05"
)

const (
	StorageLocal = "local"
	StorageMinio = "minio"
	StorageOSS   = "oss"
)

const (
	MimeImage       = "image/"
	MimeText        = "text/plain"
	MimePDF         = "application/pdf"
	MimeZip         = "application/zip"
	MimeOctetStream = "application/octet-stream"
)

// AllowedAttachmentTypes are the detected content types accepted for assignment uploads.
// Office documents sniff as application/zip.
var AllowedAttachmentTypes = []string{MimePDF, MimeImage, MimeText, MimeZip}

const MaxAttachmentSize = 20 << 20
