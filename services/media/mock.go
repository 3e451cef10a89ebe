package mediasvc

import (
	"context"
	"io"
	"sync"

	"github.com/pkg/errors"

	"github.com/trezcool/eventhub/core"
)

// UploaderMock keeps uploaded files in memory and serves them from BaseURL.
type UploaderMock struct {
	BaseURL string
	Err     error

	mu    sync.Mutex
	files map[string][]byte
}

var _ core.FileUploader = (*UploaderMock)(nil)

func NewUploaderMock() *UploaderMock {
	return &UploaderMock{BaseURL: "https://media.test/flyers/", files: make(map[string][]byte)}
}

func (u *UploaderMock) Upload(_ context.Context, file io.Reader, filename string) (string, error) {
	if u.Err != nil {
		return "", u.Err
	}
	data, err := io.ReadAll(file)
	if err != nil {
		return "", errors.Wrap(err, "reading file")
	}

	u.mu.Lock()
	defer u.mu.Unlock()
	url := u.BaseURL + filename
	u.files[url] = data
	return url, nil
}

// File returns the content uploaded at url.
func (u *UploaderMock) File(url string) ([]byte, bool) {
	u.mu.Lock()
	defer u.mu.Unlock()
	data, ok := u.files[url]
	return data, ok
}
