package pmr

import "time"

type FileType string

const (
	FileTypePDF   FileType = "pdf"
	FileTypeImage FileType = "image"
)

type File struct {
	ID   string
	Name string
	Type FileType
	URL  string
}

// AccessCode habilita a un doctor a ver los archivos hasta ExpiresAt.
type AccessCode struct {
	Code      string
	ExpiresAt time.Time
}

// PMR (personal medical record): archivos del paciente + código vigente.
type PMR struct {
	PatientID  string
	Files      []File
	AccessCode *AccessCode
}
