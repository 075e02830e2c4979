package upload

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"net/textproto"
	"net/url"
	"os"
	"path/filepath"
	"strings"

	"github.com/diluv/diluv-upload/entities"
	"github.com/diluv/diluv-upload/utils"
	"github.com/jfrog/gofrog/crypto"
	"github.com/pkg/errors"
)

const DefaultApiURL = "https://api.diluv.com"

// Client performs the single multipart POST of a file upload.
type Client struct {
	apiURL     string
	httpClient *http.Client
	logger     utils.Log
}

// NewClient uses an http.Client without a cookie jar, so every request is stateless.
func NewClient(apiURL string) *Client {
	if apiURL == "" {
		apiURL = DefaultApiURL
	}
	return &Client{apiURL: apiURL, httpClient: &http.Client{}, logger: &utils.NullLog{}}
}

func (c *Client) SetHttpClient(httpClient *http.Client) *Client {
	c.httpClient = httpClient
	return c
}

func (c *Client) SetLogger(logger utils.Log) *Client {
	c.logger = logger
	return c
}

// Endpoint returns {apiURL}/v1/projects/{projectId}/files.
func (c *Client) Endpoint(projectId string) (string, error) {
	if strings.TrimSpace(projectId) == "" {
		return "", errors.Wrap(ErrInvalidEndpoint, "no project id was specified")
	}
	// The id must stay a single path segment.
	if strings.ContainsAny(projectId, `/\`) || projectId == "." || projectId == ".." {
		return "", errors.Wrapf(ErrInvalidEndpoint, "'%s' is not a valid project id", projectId)
	}
	base, err := url.Parse(c.apiURL)
	if err != nil {
		return "", errors.Wrap(ErrInvalidEndpoint, utils.RemoveCredentials(c.apiURL+": "+err.Error()))
	}
	if (base.Scheme != "http" && base.Scheme != "https") || base.Host == "" {
		return "", errors.Wrapf(ErrInvalidEndpoint, "%s is not an absolute http(s) URL", utils.RemoveCredentials(c.apiURL))
	}
	return base.JoinPath("v1", "projects", projectId, "files").String(), nil
}

// Upload sends the file and the request metadata. A non-200 answer is returned as
// *UploadFailedError and a network failure as *TransportError; nothing is retried.
func (c *Client) Upload(ctx context.Context, projectId, token, filePath string, request *entities.UploadRequest) (*entities.UploadInfo, error) {
	endpoint, err := c.Endpoint(projectId)
	if err != nil {
		return nil, err
	}
	data, err := json.Marshal(request)
	if err != nil {
		return nil, errors.Wrap(err, "failed to serialize the upload request")
	}
	file, err := os.Open(filePath)
	if err != nil {
		return nil, errors.Wrap(ErrMissingUploadFile, err.Error())
	}
	c.logFileDetails(filePath)
	c.logger.Debug(fmt.Sprintf("Uploading %s to %s with token %s.", filePath, utils.RemoveCredentials(endpoint), utils.MaskToken(token)))

	// The body is streamed so the artifact is never held in memory.
	bodyReader, bodyWriter := io.Pipe()
	multipartWriter := multipart.NewWriter(bodyWriter)
	go func() {
		defer func() {
			_ = file.Close()
		}()
		bodyWriter.CloseWithError(writeMultipartBody(multipartWriter, file, filepath.Base(filePath), data))
	}()

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, endpoint, bodyReader)
	if err != nil {
		_ = bodyReader.CloseWithError(err)
		return nil, errors.Wrap(ErrInvalidEndpoint, err.Error())
	}
	req.Header.Set("Content-Type", multipartWriter.FormDataContentType())
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	defer func() {
		_ = resp.Body.Close()
	}()
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, &TransportError{Err: err}
	}
	c.logger.Debug(fmt.Sprintf("Diluv response code: %d", resp.StatusCode))
	c.logger.Debug("Diluv response body: " + string(body))

	if resp.StatusCode != http.StatusOK {
		errorInfo := entities.ParseErrorInfo(body)
		c.logger.Error(fmt.Sprintf("Upload failed! Status: %d Reason: %s", resp.StatusCode, errorInfo.Message))
		return nil, &UploadFailedError{Status: resp.StatusCode, Info: errorInfo}
	}
	uploadInfo := &entities.UploadInfo{}
	if err = json.Unmarshal(body, uploadInfo); err != nil {
		return nil, errors.Wrap(err, "failed to parse the Diluv upload response")
	}
	c.verifyChecksum(filePath, uploadInfo.Sha512)
	return uploadInfo, nil
}

// writeMultipartBody writes the file, filename and data parts, in that order.
func writeMultipartBody(writer *multipart.Writer, file io.Reader, fileName string, data []byte) error {
	filePart, err := writer.CreateFormFile("file", fileName)
	if err != nil {
		return err
	}
	if _, err = io.Copy(filePart, file); err != nil {
		return err
	}
	if err = writer.WriteField("filename", fileName); err != nil {
		return err
	}
	header := make(textproto.MIMEHeader)
	header.Set("Content-Disposition", `form-data; name="data"`)
	header.Set("Content-Type", "application/json")
	dataPart, err := writer.CreatePart(header)
	if err != nil {
		return err
	}
	if _, err = dataPart.Write(data); err != nil {
		return err
	}
	return writer.Close()
}

func (c *Client) logFileDetails(filePath string) {
	fileDetails, err := crypto.GetFileDetails(filePath, true)
	if err != nil || fileDetails == nil {
		c.logger.Debug(fmt.Sprintf("Could not read the details of %s: %v", filePath, err))
		return
	}
	c.logger.Debug(fmt.Sprintf("Upload file size: %d bytes, sha256: %s", fileDetails.Size, fileDetails.Checksum.Sha256))
}

// verifyChecksum only warns: the file is already stored on Diluv at this point.
func (c *Client) verifyChecksum(filePath, remoteSha512 string) {
	if remoteSha512 == "" {
		return
	}
	checksums, err := utils.GetFileChecksums(filePath, utils.SHA512)
	if err != nil {
		c.logger.Debug("Could not calculate the local sha512: " + err.Error())
		return
	}
	if !strings.EqualFold(checksums[utils.SHA512], remoteSha512) {
		c.logger.Warn(fmt.Sprintf("The sha512 reported by Diluv (%s) does not match the local file (%s).", remoteSha512, checksums[utils.SHA512]))
	}
}
