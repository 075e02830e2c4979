package upload

import (
	"fmt"

	"github.com/diluv/diluv-upload/entities"
	"github.com/pkg/errors"
)

var (
	ErrMissingGameVersion = errors.New("no game version was specified and none could be detected")
	ErrMissingVersion     = errors.New("no file version was specified and the build does not declare one")
	ErrNonSemverVersion   = errors.New("version is not semantic versioning compatible, see https://semver.org")
	ErrMissingUploadFile  = errors.New("the upload file is missing")
	ErrInvalidEndpoint    = errors.New("invalid upload endpoint")
	ErrResultNotAvailable = errors.New("the upload result is not available before the file was uploaded")
)

// UploadFailedError is returned when Diluv answers with anything but 200.
type UploadFailedError struct {
	Status int
	Info   *entities.ErrorInfo
}

func (ufe *UploadFailedError) Error() string {
	message := ""
	if ufe.Info != nil {
		message = ufe.Info.Message
	}
	return fmt.Sprintf("upload failed! Status: %d Reason: %s", ufe.Status, message)
}

// TransportError is returned when the request could not be sent or the response could not be read.
type TransportError struct {
	Err error
}

func (te *TransportError) Error() string {
	return "failed to upload the file: " + te.Err.Error()
}

func (te *TransportError) Unwrap() error {
	return te.Err
}
