package entities

import (
	"time"

	"github.com/buger/jsonparser"
)

// UploadInfo is the body of a successful (200) upload response.
type UploadInfo struct {
	// Barring rare exceptions this is PENDING for newly uploaded files.
	Status            string            `json:"status,omitempty"`
	LastStatusChanged int64             `json:"lastStatusChanged,omitempty"`
	Id                int64             `json:"id"`
	Name              string            `json:"name"`
	DownloadURL       string            `json:"downloadURL"`
	Size              int64             `json:"size"`
	Changelog         string            `json:"changelog"`
	Sha512            string            `json:"sha512"`
	Downloads         int64             `json:"downloads"`
	ReleaseType       string            `json:"releaseType"`
	Classifier        string            `json:"classifier"`
	CreatedAt         int64             `json:"createdAt"`
	GameVersions      []GameVersionInfo `json:"gameVersions"`
	GameSlug          string            `json:"gameSlug"`
	ProjectTypeSlug   string            `json:"projectTypeSlug"`
	ProjectSlug       string            `json:"projectSlug"`
	User              *UserInfo         `json:"user,omitempty"`
}

// CreatedTime converts the epoch-millisecond creation stamp.
func (ui *UploadInfo) CreatedTime() time.Time {
	return time.UnixMilli(ui.CreatedAt)
}

type GameVersionInfo struct {
	Version  string `json:"version"`
	Type     string `json:"type"`
	Released int64  `json:"released"`
}

type UserInfo struct {
	UserId      int64  `json:"userId"`
	Username    string `json:"username"`
	DisplayName string `json:"displayName"`
	AvatarURL   string `json:"avatarURL"`
	CreatedAt   int64  `json:"createdAt"`
}

// ErrorInfo is the body of any non-200 response.
type ErrorInfo struct {
	// The kind of error, ex. "Bad Request".
	Type string `json:"type"`
	// A short non-localized code, ex. "invalid_token".
	Error string `json:"error"`
	// English message for humans.
	Message string `json:"message"`
}

// ParseErrorInfo reads an error body without failing on missing or mistyped fields.
// A body that is not a JSON object becomes the message as-is.
func ParseErrorInfo(body []byte) *ErrorInfo {
	info := &ErrorInfo{}
	if _, dataType, _, err := jsonparser.Get(body); err != nil || dataType != jsonparser.Object {
		info.Message = string(body)
		return info
	}
	info.Type, _ = jsonparser.GetString(body, "type")
	info.Error, _ = jsonparser.GetString(body, "error")
	info.Message, _ = jsonparser.GetString(body, "message")
	return info
}
