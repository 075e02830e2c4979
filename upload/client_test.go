package upload

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"os"
	"path/filepath"
	"testing"

	"github.com/diluv/diluv-upload/entities"
	"github.com/diluv/diluv-upload/utils"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

const successBody = `{"status":"PENDING","id":42,"name":"mod.jar","downloadURL":"https://download.diluv.com/42/mod.jar",` +
	`"size":12,"changelog":"Initial release","sha512":"","downloads":0,"releaseType":"alpha","classifier":"binary",` +
	`"createdAt":1609459200000,"gameVersions":[{"version":"1.16.5","type":"release","released":1610549742000}],` +
	`"gameSlug":"minecraft-je","projectTypeSlug":"mods","projectSlug":"example-mod",` +
	`"user":{"userId":1,"username":"jaredlll08","displayName":"Jaredlll08","avatarURL":"https://images.diluv.com/1.png","createdAt":1577836800000}}`

const invalidTokenBody = `{"type":"Bad Request","error":"invalid_token","message":"Token is invalid"}`

func writeArtifact(t *testing.T, name, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), name)
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func testRequest() *entities.UploadRequest {
	request := entities.NewUploadRequest()
	request.SetVersion("1.2.3")
	request.SetChangelog("Initial release")
	request.SetReleaseType("beta")
	request.SetClassifier("binary")
	request.AddGameVersion("1.16.5")
	request.AddLoader("forge")
	request.AddRelation(12, entities.Required)
	return request
}

func TestEndpoint(t *testing.T) {
	tests := []struct {
		apiURL    string
		projectId string
		expected  string
	}{
		{"https://api.diluv.com", "123", "https://api.diluv.com/v1/projects/123/files"},
		{"https://api.diluv.com/", "123", "https://api.diluv.com/v1/projects/123/files"},
		{"http://localhost:4567/api", "example", "http://localhost:4567/api/v1/projects/example/files"},
		{"", "123", "https://api.diluv.com/v1/projects/123/files"},
	}
	for _, test := range tests {
		t.Run(test.apiURL, func(t *testing.T) {
			endpoint, err := NewClient(test.apiURL).Endpoint(test.projectId)
			require.NoError(t, err)
			assert.Equal(t, test.expected, endpoint)
		})
	}
}

func TestEndpointInvalid(t *testing.T) {
	for _, apiURL := range []string{"api.diluv.com", "ftp://api.diluv.com", "https://", "http://[::1"} {
		t.Run(apiURL, func(t *testing.T) {
			_, err := NewClient(apiURL).Endpoint("123")
			assert.ErrorIs(t, err, ErrInvalidEndpoint)
		})
	}
	_, err := NewClient(DefaultApiURL).Endpoint(" ")
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
}

func TestEndpointRejectsPathInProjectId(t *testing.T) {
	for _, projectId := range []string{"a/b", "../x", "..", ".", `a\b`} {
		t.Run(projectId, func(t *testing.T) {
			_, err := NewClient(DefaultApiURL).Endpoint(projectId)
			assert.ErrorIs(t, err, ErrInvalidEndpoint)
		})
	}
}

func TestUploadRejectsPathInProjectIdWithoutRequest(t *testing.T) {
	server := newFakeDiluv(t, http.StatusOK, successBody)
	artifact := writeArtifact(t, "mod.jar", "jar content")
	_, err := NewClient(server.URL).Upload(context.Background(), "../admin", "token", artifact, entities.NewUploadRequest())
	assert.ErrorIs(t, err, ErrInvalidEndpoint)
	assert.Empty(t, server.received())
}

func TestUploadSuccess(t *testing.T) {
	server := newFakeDiluv(t, http.StatusOK, successBody)
	artifact := writeArtifact(t, "mod.jar", "jar content")

	uploadInfo, err := NewClient(server.URL).Upload(context.Background(), "123", "secret", artifact, testRequest())
	require.NoError(t, err)
	assert.Equal(t, int64(42), uploadInfo.Id)
	assert.Equal(t, "mod.jar", uploadInfo.Name)
	assert.Equal(t, "PENDING", uploadInfo.Status)
	require.Len(t, uploadInfo.GameVersions, 1)
	assert.Equal(t, "1.16.5", uploadInfo.GameVersions[0].Version)
	require.NotNil(t, uploadInfo.User)
	assert.Equal(t, "jaredlll08", uploadInfo.User.Username)

	received := server.received()
	require.Len(t, received, 1)
	upload := received[0]
	assert.Equal(t, http.MethodPost, upload.method)
	assert.Equal(t, "/v1/projects/123/files", upload.path)
	assert.Equal(t, "Bearer secret", upload.authorization)
	assert.Equal(t, []string{"file", "filename", "data"}, upload.partNames)
	assert.Equal(t, "mod.jar", upload.fileName)
	assert.Equal(t, "jar content", string(upload.fileContent))
	assert.Equal(t, "mod.jar", upload.filenameField)
	assert.Equal(t, "application/json", upload.dataContentType)
	assert.JSONEq(t, `{"version":"1.2.3","changelog":"Initial release","releaseType":"beta","classifier":"binary",`+
		`"gameVersions":["1.16.5"],"loaders":["forge"],"dependencies":[{"projectId":12,"type":"required"}]}`, string(upload.data))
}

func TestUploadIgnoresCookies(t *testing.T) {
	server := newFakeDiluv(t, http.StatusOK, successBody)
	artifact := writeArtifact(t, "mod.jar", "jar content")
	client := NewClient(server.URL)

	for i := 0; i < 2; i++ {
		_, err := client.Upload(context.Background(), "123", "secret", artifact, testRequest())
		require.NoError(t, err)
	}
	received := server.received()
	require.Len(t, received, 2)
	assert.Empty(t, received[1].cookies)
}

func TestUploadFailed(t *testing.T) {
	server := newFakeDiluv(t, http.StatusBadRequest, invalidTokenBody)
	artifact := writeArtifact(t, "mod.jar", "jar content")

	uploadInfo, err := NewClient(server.URL).Upload(context.Background(), "123", "bad", artifact, testRequest())
	assert.Nil(t, uploadInfo)
	var uploadFailed *UploadFailedError
	require.True(t, errors.As(err, &uploadFailed))
	assert.Equal(t, http.StatusBadRequest, uploadFailed.Status)
	assert.Equal(t, &entities.ErrorInfo{Type: "Bad Request", Error: "invalid_token", Message: "Token is invalid"}, uploadFailed.Info)
	assert.EqualError(t, err, "upload failed! Status: 400 Reason: Token is invalid")
}

func TestUploadFailedWithoutJsonBody(t *testing.T) {
	server := newFakeDiluv(t, http.StatusBadGateway, "Bad Gateway")
	artifact := writeArtifact(t, "mod.jar", "jar content")

	_, err := NewClient(server.URL).Upload(context.Background(), "123", "secret", artifact, testRequest())
	var uploadFailed *UploadFailedError
	require.True(t, errors.As(err, &uploadFailed))
	assert.Equal(t, http.StatusBadGateway, uploadFailed.Status)
	assert.Equal(t, "Bad Gateway", uploadFailed.Info.Message)
}

func TestUploadTransportError(t *testing.T) {
	server := newFakeDiluv(t, http.StatusOK, successBody)
	apiURL := server.URL
	server.Close()
	artifact := writeArtifact(t, "mod.jar", "jar content")

	_, err := NewClient(apiURL).Upload(context.Background(), "123", "secret", artifact, testRequest())
	var transportError *TransportError
	require.True(t, errors.As(err, &transportError))
	assert.Error(t, transportError.Unwrap())
}

func TestUploadCanceledContext(t *testing.T) {
	server := newFakeDiluv(t, http.StatusOK, successBody)
	artifact := writeArtifact(t, "mod.jar", "jar content")
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	_, err := NewClient(server.URL).Upload(ctx, "123", "secret", artifact, testRequest())
	assert.ErrorIs(t, err, context.Canceled)
	assert.Empty(t, server.received())
}

func TestUploadMissingFile(t *testing.T) {
	server := newFakeDiluv(t, http.StatusOK, successBody)
	_, err := NewClient(server.URL).Upload(context.Background(), "123", "secret", filepath.Join(t.TempDir(), "missing.jar"), testRequest())
	assert.ErrorIs(t, err, ErrMissingUploadFile)
	assert.Empty(t, server.received())
}

func TestUploadVerifiesChecksum(t *testing.T) {
	artifact := writeArtifact(t, "mod.jar", "jar content")
	checksums, err := utils.GetFileChecksums(artifact, utils.SHA512)
	require.NoError(t, err)

	tests := []struct {
		name       string
		sha512     string
		expectWarn bool
	}{
		{"matching", checksums[utils.SHA512], false},
		{"matching upper case", string(bytes.ToUpper([]byte(checksums[utils.SHA512]))), false},
		{"mismatch", "0000", true},
	}
	for _, test := range tests {
		t.Run(test.name, func(t *testing.T) {
			response := map[string]interface{}{"id": 42, "name": "mod.jar", "sha512": test.sha512}
			body, err := json.Marshal(response)
			require.NoError(t, err)
			server := newFakeDiluv(t, http.StatusOK, string(body))

			var logs bytes.Buffer
			client := NewClient(server.URL).SetLogger(utils.NewLoggerWithWriters(utils.WARN, &logs, io.Discard))
			_, err = client.Upload(context.Background(), "123", "secret", artifact, testRequest())
			require.NoError(t, err)
			if test.expectWarn {
				assert.Contains(t, logs.String(), "does not match the local file")
			} else {
				assert.Empty(t, logs.String())
			}
		})
	}
}
