package upload

import (
	"io"
	"net/http"
	"net/http/httptest"
	"sync"
	"testing"
)

type receivedUpload struct {
	method          string
	path            string
	authorization   string
	cookies         []*http.Cookie
	partNames       []string
	fileName        string
	fileContent     []byte
	filenameField   string
	dataContentType string
	data            []byte
}

// fakeDiluv records every upload it receives and answers with a fixed status and body.
type fakeDiluv struct {
	*httptest.Server
	status int
	body   string

	mu      sync.Mutex
	uploads []receivedUpload
}

func newFakeDiluv(t *testing.T, status int, body string) *fakeDiluv {
	t.Helper()
	fd := &fakeDiluv{status: status, body: body}
	fd.Server = httptest.NewServer(http.HandlerFunc(fd.handle))
	t.Cleanup(fd.Close)
	return fd
}

func (fd *fakeDiluv) handle(w http.ResponseWriter, r *http.Request) {
	upload := receivedUpload{
		method:        r.Method,
		path:          r.URL.Path,
		authorization: r.Header.Get("Authorization"),
		cookies:       r.Cookies(),
	}
	reader, err := r.MultipartReader()
	if err != nil {
		http.Error(w, err.Error(), http.StatusBadRequest)
		return
	}
	for {
		part, err := reader.NextPart()
		if err == io.EOF {
			break
		}
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		content, err := io.ReadAll(part)
		if err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		upload.partNames = append(upload.partNames, part.FormName())
		switch part.FormName() {
		case "file":
			upload.fileName = part.FileName()
			upload.fileContent = content
		case "filename":
			upload.filenameField = string(content)
		case "data":
			upload.dataContentType = part.Header.Get("Content-Type")
			upload.data = content
		}
	}

	fd.mu.Lock()
	fd.uploads = append(fd.uploads, upload)
	fd.mu.Unlock()

	http.SetCookie(w, &http.Cookie{Name: "session", Value: "should-be-ignored"})
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(fd.status)
	_, _ = w.Write([]byte(fd.body))
}

func (fd *fakeDiluv) received() []receivedUpload {
	fd.mu.Lock()
	defer fd.mu.Unlock()
	return append([]receivedUpload(nil), fd.uploads...)
}
